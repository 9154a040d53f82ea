package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/chatx/models"
	"gorm.io/gorm"
)

type MessageRepository interface {
	// LatestByChat returns the newest message of every listed chat that has one,
	// in a single read. Equal timestamps resolve in no particular order.
	LatestByChat(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]models.LastMessage, error)
	SaveMessage(ctx context.Context, msg *models.Message) error
}

type messageRepo struct {
	DB *gorm.DB
}

func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

type latestRow struct {
	ChatID    uuid.UUID
	Content   string
	FileName  string
	CreatedAt time.Time
}

func (r *messageRepo) LatestByChat(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]models.LastMessage, error) {
	latest := make(map[uuid.UUID]models.LastMessage, len(chatIDs))
	if len(chatIDs) == 0 {
		return latest, nil
	}

	ranked := r.DB.Model(&models.Message{}).
		Select("chat_id, content, file_name, created_at, ROW_NUMBER() OVER (PARTITION BY chat_id ORDER BY created_at DESC) AS rn").
		Where("chat_id IN ?", chatIDs)

	var rows []latestRow
	err := r.DB.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Select("chat_id, content, file_name, created_at").
		Where("rn = ?", 1).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "resolve latest messages")
	}

	for _, row := range rows {
		latest[row.ChatID] = models.LastMessage{
			Content:   row.Content,
			FileName:  row.FileName,
			CreatedAt: row.CreatedAt,
		}
	}
	return latest, nil
}

func (r *messageRepo) SaveMessage(ctx context.Context, msg *models.Message) error {
	if err := r.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return errors.Wrap(err, "save message")
	}
	return nil
}
