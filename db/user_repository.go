package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByUserName(ctx context.Context, userName string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	// SearchUsers matches query as a case-insensitive prefix or suffix of the
	// first, last or user name. excludeID is skipped unless it is uuid.Nil.
	SearchUsers(ctx context.Context, query string, excludeID uuid.UUID) ([]models.User, error)
}

type userRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *GormDB) UserRepository {
	return &userRepo{db.DB}
}

func (r *userRepo) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		return errors.Wrap(err, "create user")
	}
	return nil
}

func (r *userRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("user")
		}
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

func (r *userRepo) FindUserByUserName(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, "user_name = ?", userName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("user")
		}
		return nil, errors.Wrap(err, "find user by user name")
	}
	return &user, nil
}

func (r *userRepo) FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *userRepo) SearchUsers(ctx context.Context, query string, excludeID uuid.UUID) ([]models.User, error) {
	term := likeEscaper.Replace(strings.ToLower(query))
	prefix, suffix := term+"%", "%"+term

	q := r.DB.WithContext(ctx).Where(
		"(LOWER(first_name) LIKE @prefix ESCAPE '\\' OR LOWER(first_name) LIKE @suffix ESCAPE '\\' OR "+
			"LOWER(last_name) LIKE @prefix ESCAPE '\\' OR LOWER(last_name) LIKE @suffix ESCAPE '\\' OR "+
			"LOWER(user_name) LIKE @prefix ESCAPE '\\' OR LOWER(user_name) LIKE @suffix ESCAPE '\\')",
		map[string]interface{}{"prefix": prefix, "suffix": suffix},
	)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	users := []models.User{}
	if err := q.Order("first_name, last_name, user_name").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "search users")
	}
	return users, nil
}
