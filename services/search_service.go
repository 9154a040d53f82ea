package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/techagentng/chatx/config"
	"github.com/techagentng/chatx/db"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/models"
	"golang.org/x/sync/errgroup"
)

const defaultSearchConcurrency = 8

type SearchService interface {
	// SearchChats returns the caller's inbox for an empty query. Otherwise it
	// returns one entry per matching user, carrying the id of the private chat
	// the caller already has with them, if any.
	SearchChats(ctx context.Context, callerID uuid.UUID, query string) ([]models.InboxEntry, error)
	// SearchUsers returns the users matching query, the caller excluded.
	SearchUsers(ctx context.Context, callerID uuid.UUID, query string) ([]models.UserSummary, error)
}

type searchService struct {
	Config   *config.Config
	userRepo db.UserRepository
	chatRepo db.ChatRepository
	inbox    InboxService
}

func NewSearchService(userRepo db.UserRepository, chatRepo db.ChatRepository, inbox InboxService, conf *config.Config) SearchService {
	return &searchService{
		Config:   conf,
		userRepo: userRepo,
		chatRepo: chatRepo,
		inbox:    inbox,
	}
}

func (s *searchService) concurrency() int {
	if s.Config == nil || s.Config.SearchConcurrency < 1 {
		return defaultSearchConcurrency
	}
	return s.Config.SearchConcurrency
}

func (s *searchService) SearchChats(ctx context.Context, callerID uuid.UUID, query string) ([]models.InboxEntry, error) {
	if callerID == uuid.Nil {
		return nil, errs.MissingArgument("userId")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return s.inbox.GetInbox(ctx, callerID)
	}

	users, err := s.userRepo.SearchUsers(ctx, query, uuid.Nil)
	if err != nil {
		return nil, err
	}

	results := make([]models.InboxEntry, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i := range users {
		i, user := i, users[i]
		g.Go(func() error {
			userID := user.ID
			entry := models.InboxEntry{
				IsGroupChat:   false,
				UserID:        &userID,
				FullName:      user.FirstName + " " + user.LastName,
				Picture:       user.Picture,
				UnseenMessage: 0,
			}
			// Nobody has a private chat with themselves.
			if user.ID != callerID {
				chatID, err := s.chatRepo.FindPrivateChatID(gctx, callerID, user.ID)
				if err != nil {
					return err
				}
				entry.ChatID = chatID
			}
			results[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *searchService) SearchUsers(ctx context.Context, callerID uuid.UUID, query string) ([]models.UserSummary, error) {
	if callerID == uuid.Nil {
		return nil, errs.MissingArgument("userId")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.MissingArgument("searchValue")
	}

	users, err := s.userRepo.SearchUsers(ctx, query, callerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}
