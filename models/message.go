package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is immutable once stored.
type Message struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ChatID    uuid.UUID `json:"chat" gorm:"type:uuid;not null;index:idx_messages_chat_created,priority:1"`
	SenderID  uuid.UUID `json:"sender" gorm:"type:uuid;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	FileName  string    `json:"fileName"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_messages_chat_created,priority:2"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// LastMessage is the latest-message snapshot attached to inbox entries.
type LastMessage struct {
	Content   string    `json:"content"`
	FileName  string    `json:"fileName"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *Message) Snapshot() LastMessage {
	return LastMessage{Content: m.Content, FileName: m.FileName, CreatedAt: m.CreatedAt}
}

type SendMessageRequest struct {
	ChatID   uuid.UUID `json:"chatId" binding:"required"`
	Content  string    `json:"content" conform:"trim"`
	FileName string    `json:"fileName" conform:"trim"`
}
