package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository is the chat side of the store gateway.
type ChatRepository interface {
	// FindMemberChats returns the chats of the given kind userID belongs to,
	// with members ordered and their user records resolved where they exist.
	FindMemberChats(ctx context.Context, userID uuid.UUID, isGroupChat bool) ([]models.Chat, error)
	// FindPrivateChatID returns the private chat shared by both users, or nil.
	FindPrivateChatID(ctx context.Context, userID, otherID uuid.UUID) (*uuid.UUID, error)
	FindChatIDsByMember(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	FindChatByID(ctx context.Context, chatID uuid.UUID) (*models.Chat, error)
	CreateChat(ctx context.Context, chat *models.Chat) error
	UpdateChatFields(ctx context.Context, chatID uuid.UUID, fields map[string]interface{}) error
	// ResetUnseen zeroes the unseen counter of one member in one conditional update.
	ResetUnseen(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error)
	// IncrementUnseen bumps the unseen counter of every member except senderID.
	IncrementUnseen(ctx context.Context, chatID, senderID uuid.UUID) error
}

type chatRepo struct {
	DB *gorm.DB
}

func NewChatRepo(db *GormDB) ChatRepository {
	return &chatRepo{db.DB}
}

func withMembers(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Members.User")
}

func (r *chatRepo) FindMemberChats(ctx context.Context, userID uuid.UUID, isGroupChat bool) ([]models.Chat, error) {
	memberOf := r.DB.Model(&models.Membership{}).Select("chat_id").Where("user_id = ?", userID)

	var chats []models.Chat
	err := withMembers(r.DB.WithContext(ctx)).
		Where("is_group_chat = ?", isGroupChat).
		Where("id IN (?)", memberOf).
		Find(&chats).Error
	if err != nil {
		return nil, errors.Wrap(err, "find member chats")
	}
	return chats, nil
}

func (r *chatRepo) FindPrivateChatID(ctx context.Context, userID, otherID uuid.UUID) (*uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).Model(&models.Chat{}).
		Joins("JOIN memberships AS a ON a.chat_id = chats.id AND a.user_id = ?", userID).
		Joins("JOIN memberships AS b ON b.chat_id = chats.id AND b.user_id = ?", otherID).
		Where("chats.is_group_chat = ?", false).
		Limit(1).
		Pluck("chats.id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "find private chat")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return &ids[0], nil
}

func (r *chatRepo) FindChatIDsByMember(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.DB.WithContext(ctx).Model(&models.Membership{}).
		Where("user_id = ?", userID).
		Pluck("chat_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "find member chat ids")
	}
	return ids, nil
}

func (r *chatRepo) FindChatByID(ctx context.Context, chatID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := withMembers(r.DB.WithContext(ctx)).First(&chat, "id = ?", chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("chat")
		}
		return nil, errors.Wrap(err, "find chat")
	}
	return &chat, nil
}

func (r *chatRepo) CreateChat(ctx context.Context, chat *models.Chat) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(chat).Error; err != nil {
			return errors.Wrap(err, "create chat")
		}
		if len(chat.Members) == 0 {
			return nil
		}
		for i := range chat.Members {
			chat.Members[i].ChatID = chat.ID
			chat.Members[i].Position = i
		}
		if err := tx.Omit(clause.Associations).Create(&chat.Members).Error; err != nil {
			return errors.Wrap(err, "create memberships")
		}
		return nil
	})
}

func (r *chatRepo) UpdateChatFields(ctx context.Context, chatID uuid.UUID, fields map[string]interface{}) error {
	res := r.DB.WithContext(ctx).Model(&models.Chat{}).Where("id = ?", chatID).Updates(fields)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update chat")
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("chat")
	}
	return nil
}

func (r *chatRepo) ResetUnseen(ctx context.Context, chatID, userID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Membership{}).
			Where("chat_id = ? AND user_id = ?", chatID, userID).
			Update("unseen_message", 0)
		if res.Error != nil {
			return errors.Wrap(res.Error, "reset unseen count")
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("chat or member")
		}
		return withMembers(tx).First(&chat, "id = ?", chatID).Error
	})
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepo) IncrementUnseen(ctx context.Context, chatID, senderID uuid.UUID) error {
	err := r.DB.WithContext(ctx).Model(&models.Membership{}).
		Where("chat_id = ? AND user_id <> ?", chatID, senderID).
		Update("unseen_message", gorm.Expr("unseen_message + ?", 1)).Error
	return errors.Wrap(err, "increment unseen count")
}
