package models

import (
	"errors"
	"strings"

	goval "github.com/go-passwd/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is the profile record chats reference. Profile editing lives outside this service.
type User struct {
	Model
	FirstName      string `json:"firstName" gorm:"not null"`
	LastName       string `json:"lastName"`
	UserName       string `json:"userName" gorm:"uniqueIndex;not null"`
	Picture        string `json:"picture"`
	HashedPassword string `json:"-"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserSummary is the display projection returned by user search.
type UserSummary struct {
	ID        uuid.UUID `json:"_id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	UserName  string    `json:"userName"`
	Picture   string    `json:"picture"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.UserName,
		Picture:   u.Picture,
	}
}

type SignupRequest struct {
	FirstName string `json:"firstName" conform:"trim" validate:"required,max=50"`
	LastName  string `json:"lastName" conform:"trim" validate:"max=50"`
	UserName  string `json:"userName" conform:"trim,lower" validate:"required,min=2,max=30"`
	Picture   string `json:"picture" conform:"trim"`
	Password  string `json:"password" validate:"required"`
}

type LoginRequest struct {
	UserName string `json:"userName" conform:"trim,lower" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User        UserSummary `json:"user"`
	AccessToken string      `json:"accessToken"`
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(
		goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")),
	)
	return passwordValidator.Validate(password)
}

// SetPassword stores the bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashedPassword = string(hashed)
	return nil
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}
