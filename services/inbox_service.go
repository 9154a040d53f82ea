package services

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/techagentng/chatx/config"
	"github.com/techagentng/chatx/db"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/models"
	"golang.org/x/sync/errgroup"
)

// InboxService builds a user's merged, recency-ordered chat list.
type InboxService interface {
	GetInbox(ctx context.Context, userID uuid.UUID) ([]models.InboxEntry, error)
	// LatestMessages maps each chat id to its newest message. Chats without
	// messages are absent; an empty id set yields an empty map.
	LatestMessages(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]models.LastMessage, error)
}

type inboxService struct {
	Config      *config.Config
	chatRepo    db.ChatRepository
	messageRepo db.MessageRepository
}

func NewInboxService(chatRepo db.ChatRepository, messageRepo db.MessageRepository, conf *config.Config) InboxService {
	return &inboxService{
		Config:      conf,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
	}
}

func (s *inboxService) LatestMessages(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID]models.LastMessage, error) {
	seen := make(map[uuid.UUID]struct{}, len(chatIDs))
	unique := make([]uuid.UUID, 0, len(chatIDs))
	for _, id := range chatIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return map[uuid.UUID]models.LastMessage{}, nil
	}
	return s.messageRepo.LatestByChat(ctx, unique)
}

func (s *inboxService) GetInbox(ctx context.Context, userID uuid.UUID) ([]models.InboxEntry, error) {
	if userID == uuid.Nil {
		return nil, errs.MissingArgument("userId")
	}

	var singles, groups []models.Chat
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		singles, err = s.chatRepo.FindMemberChats(gctx, userID, false)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.chatRepo.FindMemberChats(gctx, userID, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	chatIDs := make([]uuid.UUID, 0, len(singles)+len(groups))
	for _, chat := range singles {
		chatIDs = append(chatIDs, chat.ID)
	}
	for _, chat := range groups {
		chatIDs = append(chatIDs, chat.ID)
	}
	latest, err := s.LatestMessages(ctx, chatIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.InboxEntry, 0, len(chatIDs))
	for i := range singles {
		entry, ok := privateEntry(&singles[i], userID, latest)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	for i := range groups {
		entries = append(entries, groupEntry(&groups[i], userID, latest))
	}

	sortInbox(entries)
	return entries, nil
}

// privateEntry describes a private chat from the caller's side. It reports
// false when the counterpart cannot be resolved so the caller can skip it.
func privateEntry(chat *models.Chat, userID uuid.UUID, latest map[uuid.UUID]models.LastMessage) (models.InboxEntry, bool) {
	counterpart := chat.Counterpart(userID)
	if counterpart == nil {
		log.Warn("skipping private chat without counterpart", "chatId", chat.ID, "userId", userID)
		return models.InboxEntry{}, false
	}
	if !counterpart.Resolved() {
		log.Warn("skipping private chat with dangling member", "chatId", chat.ID, "memberId", counterpart.UserID)
		return models.InboxEntry{}, false
	}

	chatID, counterpartID := chat.ID, counterpart.UserID
	entry := models.InboxEntry{
		IsGroupChat: false,
		ChatID:      &chatID,
		UserID:      &counterpartID,
		FullName:    counterpart.User.FullName(),
		Picture:     counterpart.User.Picture,
		LastMessage: lastMessage(latest, chat.ID),
	}
	// The caller's own row carries the caller's unseen count.
	if own := chat.Member(userID); own != nil {
		entry.UnseenMessage = own.UnseenMessage
	}
	return entry, true
}

func groupEntry(chat *models.Chat, userID uuid.UUID, latest map[uuid.UUID]models.LastMessage) models.InboxEntry {
	chatID := chat.ID
	entry := models.InboxEntry{
		IsGroupChat: true,
		ChatID:      &chatID,
		FullName:    chat.ChatName,
		Picture:     chat.ChatPic,
		LastMessage: lastMessage(latest, chat.ID),
	}
	if own := chat.Member(userID); own != nil {
		entry.UnseenMessage = own.UnseenMessage
	}
	return entry
}

func lastMessage(latest map[uuid.UUID]models.LastMessage, chatID uuid.UUID) *models.LastMessage {
	msg, ok := latest[chatID]
	if !ok {
		return nil
	}
	return &msg
}

// sortInbox orders entries newest first; entries without messages go last.
func sortInbox(entries []models.InboxEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Before(&entries[j])
	})
}
