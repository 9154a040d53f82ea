package models

import (
	"github.com/google/uuid"
)

type GroupData struct {
	ChatName        string `json:"chatName" conform:"trim" validate:"required,min=1,max=100"`
	ChatDescription string `json:"chatDescription" conform:"trim" validate:"max=500"`
}

// CreateGroupRequest carries the invited users; the creator comes from the caller identity.
type CreateGroupRequest struct {
	GroupData GroupData   `json:"groupData"`
	Members   []uuid.UUID `json:"members" validate:"required,min=1,dive,required"`
}

// GroupUpdate lists the only group fields callers may change. Nil means unchanged.
type GroupUpdate struct {
	ID              uuid.UUID `json:"id" binding:"required"`
	ChatName        *string   `json:"chatName"`
	ChatDescription *string   `json:"chatDescription"`
}

// Fields returns the column updates for the non-nil fields.
func (u *GroupUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.ChatName != nil {
		fields["chat_name"] = *u.ChatName
	}
	if u.ChatDescription != nil {
		fields["chat_description"] = *u.ChatDescription
	}
	return fields
}

type GroupIDRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

type RosterMember struct {
	UserID    uuid.UUID `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Picture   string    `json:"picture"`
	IsAdmin   bool      `json:"isAdmin"`
}

type GroupInfo struct {
	ChatName        string `json:"chatName"`
	ChatDescription string `json:"chatDescription"`
}
