package models

import (
	"github.com/google/uuid"
	errs "github.com/techagentng/chatx/errors"
)

// Chat is either a private chat between exactly two users or a group chat with
// at least one admin member.
type Chat struct {
	Model
	IsGroupChat     bool         `json:"isGroupChat" gorm:"index;not null;default:false"`
	ChatName        string       `json:"chatName"`
	ChatPic         string       `json:"chatPic"`
	ChatDescription string       `json:"chatDescription"`
	Members         []Membership `json:"members" gorm:"foreignKey:ChatID"`
}

// Membership is the per-(chat, user) row. UnseenMessage is only ever reset by
// the member it belongs to.
type Membership struct {
	ChatID        uuid.UUID `json:"-" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey;index"`
	User          User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	IsAdmin       bool      `json:"isAdmin" gorm:"not null;default:false"`
	UnseenMessage int       `json:"unseenMessage" gorm:"not null;default:0"`
	Position      int       `json:"-" gorm:"not null;default:0"`
}

// Member returns the membership row of userID, or nil.
func (c *Chat) Member(userID uuid.UUID) *Membership {
	for i := range c.Members {
		if c.Members[i].UserID == userID {
			return &c.Members[i]
		}
	}
	return nil
}

// Counterpart returns the first membership that is not userID's. For a private
// chat that is the other party.
func (c *Chat) Counterpart(userID uuid.UUID) *Membership {
	for i := range c.Members {
		if c.Members[i].UserID != userID {
			return &c.Members[i]
		}
	}
	return nil
}

func (c *Chat) IsAdmin(userID uuid.UUID) bool {
	m := c.Member(userID)
	return m != nil && m.IsAdmin
}

func (c *Chat) HasAdmin() bool {
	for _, m := range c.Members {
		if m.IsAdmin {
			return true
		}
	}
	return false
}

// Resolved reports whether the member's user record was loaded.
func (m *Membership) Resolved() bool {
	return m.User.ID != uuid.Nil
}

// Validate checks the membership invariants a chat must satisfy when created:
// a private chat has exactly two distinct members, a group at least one admin.
func (c *Chat) Validate() error {
	seen := make(map[uuid.UUID]struct{}, len(c.Members))
	for _, m := range c.Members {
		if m.UserID == uuid.Nil {
			return errs.MissingArgument("member userId")
		}
		if _, dup := seen[m.UserID]; dup {
			return errs.InvalidArgument("members", "a user can only be a member once")
		}
		seen[m.UserID] = struct{}{}
	}

	if !c.IsGroupChat {
		if len(c.Members) != 2 {
			return errs.InvalidArgument("members", "a private chat has exactly two members")
		}
		return nil
	}
	if c.ChatName == "" {
		return errs.MissingArgument("chatName")
	}
	if !c.HasAdmin() {
		return errs.InvalidArgument("members", "a group needs at least one admin")
	}
	return nil
}
