package models

import (
	"github.com/google/uuid"
)

// InboxEntry is one row of a user's chat list. It is computed per request and never stored.
// For private chats UserID is the counterpart; for groups it is nil.
type InboxEntry struct {
	IsGroupChat   bool         `json:"isGroupChat"`
	ChatID        *uuid.UUID   `json:"chatId"`
	UserID        *uuid.UUID   `json:"userId,omitempty"`
	FullName      string       `json:"fullName"`
	Picture       string       `json:"picture"`
	UnseenMessage int          `json:"unseenMessage"`
	LastMessage   *LastMessage `json:"lastMessage"`
}

// Before reports whether e ranks ahead of other in the inbox: later last
// message first, entries without a message after every entry that has one.
func (e *InboxEntry) Before(other *InboxEntry) bool {
	switch {
	case e.LastMessage != nil && other.LastMessage != nil:
		return e.LastMessage.CreatedAt.After(other.LastMessage.CreatedAt)
	case e.LastMessage != nil:
		return true
	default:
		return false
	}
}

type SearchRequest struct {
	SearchValue string `json:"searchValue" conform:"trim"`
}

type CreateChatRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

type ResetUnseenRequest struct {
	ChatID uuid.UUID `json:"chatId" binding:"required"`
}
