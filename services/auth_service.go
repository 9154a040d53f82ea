package services

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/chatx/config"
	"github.com/techagentng/chatx/db"
	apiError "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/models"
	"github.com/techagentng/chatx/services/jwt"
)

// AuthService registers users and issues the access tokens Authorize accepts.
type AuthService interface {
	SignupUser(ctx context.Context, request *models.SignupRequest) (*models.User, error)
	LoginUser(ctx context.Context, loginRequest *models.LoginRequest) (*models.LoginResponse, error)
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*models.UserSummary, error)
}

type authService struct {
	Config   *config.Config
	userRepo db.UserRepository
}

func NewAuthService(userRepo db.UserRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		userRepo: userRepo,
	}
}

func (s *authService) SignupUser(ctx context.Context, request *models.SignupRequest) (*models.User, error) {
	if err := models.ValidateStruct(request); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	_, err := s.userRepo.FindUserByUserName(ctx, request.UserName)
	if err == nil {
		return nil, apiError.Conflict("user name")
	}
	var apiErr *apiError.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		return nil, err
	}

	user := &models.User{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		UserName:  request.UserName,
		Picture:   request.Picture,
	}
	if err := user.SetPassword(request.Password); err != nil {
		log.Error("hashing password", "err", err)
		return nil, apiError.ErrInternalServerError
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		log.Error("SignupUser error creating user", "userName", user.UserName, "err", err)
		return nil, apiError.Persistence("create user")
	}
	return user, nil
}

func (s *authService) LoginUser(ctx context.Context, loginRequest *models.LoginRequest) (*models.LoginResponse, error) {
	foundUser, err := s.userRepo.FindUserByUserName(ctx, loginRequest.UserName)
	if err != nil {
		var apiErr *apiError.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, apiError.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Debug("invalid password", "userName", foundUser.UserName)
		return nil, apiError.ErrInvalidCredentials
	}

	accessToken, err := jwt.GenerateToken(foundUser.ID, s.Config.JWTSecret, s.tokenValidity())
	if err != nil {
		log.Error("generating access token", "userId", foundUser.ID, "err", err)
		return nil, apiError.ErrInternalServerError
	}
	return &models.LoginResponse{
		User:        foundUser.Summary(),
		AccessToken: accessToken,
	}, nil
}

func (s *authService) GetUserProfile(ctx context.Context, userID uuid.UUID) (*models.UserSummary, error) {
	if userID == uuid.Nil {
		return nil, apiError.MissingArgument("userId")
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

func (s *authService) tokenValidity() time.Duration {
	if s.Config.AccessTokenTTL > 0 {
		return s.Config.AccessTokenTTL
	}
	return jwt.AccessTokenValidity
}
