package mongostore

import (
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/chatx/models"
)

// Ids are stored as their string form so documents stay readable from the shell.

type userDoc struct {
	ID        string    `bson:"_id"`
	FirstName string    `bson:"firstName"`
	LastName  string    `bson:"lastName"`
	UserName  string    `bson:"userName"`
	Picture   string    `bson:"picture"`
	Password  string    `bson:"hashedPassword,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type memberDoc struct {
	UserID        string `bson:"userId"`
	IsAdmin       bool   `bson:"isAdmin"`
	UnseenMessage int    `bson:"unseenMessage"`
}

type chatDoc struct {
	ID              string      `bson:"_id"`
	IsGroupChat     bool        `bson:"isGroupChat"`
	ChatName        string      `bson:"chatName"`
	ChatPic         string      `bson:"chatPic"`
	ChatDescription string      `bson:"chatDescription"`
	Members         []memberDoc `bson:"members"`
	CreatedAt       time.Time   `bson:"createdAt"`
	UpdatedAt       time.Time   `bson:"updatedAt"`
}

type messageDoc struct {
	ID        string    `bson:"_id"`
	ChatID    string    `bson:"chatId"`
	SenderID  string    `bson:"senderId"`
	Content   string    `bson:"content"`
	FileName  string    `bson:"fileName"`
	CreatedAt time.Time `bson:"createdAt"`
}

// chatFields maps the column names ChatRepository.UpdateChatFields accepts.
var chatFields = map[string]string{
	"chat_name":        "chatName",
	"chat_description": "chatDescription",
	"chat_pic":         "chatPic",
}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func newUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.UserName,
		Picture:   u.Picture,
		Password:  u.HashedPassword,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d userDoc) model() models.User {
	return models.User{
		Model:          models.Model{ID: parseID(d.ID), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		UserName:       d.UserName,
		Picture:        d.Picture,
		HashedPassword: d.Password,
	}
}

func newChatDoc(c *models.Chat) chatDoc {
	doc := chatDoc{
		ID:              c.ID.String(),
		IsGroupChat:     c.IsGroupChat,
		ChatName:        c.ChatName,
		ChatPic:         c.ChatPic,
		ChatDescription: c.ChatDescription,
		Members:         make([]memberDoc, len(c.Members)),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	for i, m := range c.Members {
		doc.Members[i] = memberDoc{UserID: m.UserID.String(), IsAdmin: m.IsAdmin, UnseenMessage: m.UnseenMessage}
	}
	return doc
}

// model converts d, resolving member users from users where present.
func (d chatDoc) model(users map[uuid.UUID]models.User) models.Chat {
	chat := models.Chat{
		Model:           models.Model{ID: parseID(d.ID), CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
		IsGroupChat:     d.IsGroupChat,
		ChatName:        d.ChatName,
		ChatPic:         d.ChatPic,
		ChatDescription: d.ChatDescription,
		Members:         make([]models.Membership, len(d.Members)),
	}
	for i, m := range d.Members {
		userID := parseID(m.UserID)
		chat.Members[i] = models.Membership{
			ChatID:        chat.ID,
			UserID:        userID,
			User:          users[userID],
			IsAdmin:       m.IsAdmin,
			UnseenMessage: m.UnseenMessage,
			Position:      i,
		}
	}
	return chat
}
