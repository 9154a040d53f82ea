// Package dbtest opens throwaway sqlite stores for tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/chatx/db"
	"github.com/techagentng/chatx/models"
)

// New returns a migrated in-memory store closed at the end of the test.
func New(t *testing.T) (*db.Store, *db.GormDB) {
	t.Helper()
	g, err := db.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { g.Close(context.Background()) })
	return db.NewStore(g), g
}

func User(t *testing.T, s *db.Store, first, last, userName string) models.User {
	t.Helper()
	u := models.User{FirstName: first, LastName: last, UserName: userName, Picture: userName + ".png"}
	if err := s.Users.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("Failed to create user %s: %v", userName, err)
	}
	return u
}

func PrivateChat(t *testing.T, s *db.Store, a, b uuid.UUID) models.Chat {
	t.Helper()
	chat := models.Chat{Members: []models.Membership{{UserID: a}, {UserID: b}}}
	if err := s.Chats.CreateChat(context.Background(), &chat); err != nil {
		t.Fatalf("Failed to create private chat: %v", err)
	}
	return chat
}

// Group creates a group chat with admin as its first, admin member.
func Group(t *testing.T, s *db.Store, name string, admin uuid.UUID, others ...uuid.UUID) models.Chat {
	t.Helper()
	chat := models.Chat{
		IsGroupChat: true,
		ChatName:    name,
		ChatPic:     name + ".jpg",
		Members:     []models.Membership{{UserID: admin, IsAdmin: true}},
	}
	for _, id := range others {
		chat.Members = append(chat.Members, models.Membership{UserID: id})
	}
	if err := s.Chats.CreateChat(context.Background(), &chat); err != nil {
		t.Fatalf("Failed to create group %s: %v", name, err)
	}
	return chat
}

func Message(t *testing.T, s *db.Store, chatID, sender uuid.UUID, content string, at time.Time) models.Message {
	t.Helper()
	msg := models.Message{ChatID: chatID, SenderID: sender, Content: content, CreatedAt: at}
	if err := s.Messages.SaveMessage(context.Background(), &msg); err != nil {
		t.Fatalf("Failed to save message: %v", err)
	}
	return msg
}

// SetUnseen overwrites one member's counter directly.
func SetUnseen(t *testing.T, g *db.GormDB, chatID, userID uuid.UUID, n int) {
	t.Helper()
	err := g.DB.Model(&models.Membership{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("unseen_message", n).Error
	if err != nil {
		t.Fatalf("Failed to set unseen count: %v", err)
	}
}

// DeleteUser removes a user row, leaving any membership pointing at it dangling.
func DeleteUser(t *testing.T, g *db.GormDB, userID uuid.UUID) {
	t.Helper()
	if err := g.DB.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}
}
