package services_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/chatx/config"
	"github.com/techagentng/chatx/db"
	"github.com/techagentng/chatx/db/dbtest"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/services"
	"github.com/techagentng/chatx/storage"
)

type testEnv struct {
	store  *db.Store
	gorm   *db.GormDB
	inbox  services.InboxService
	search services.SearchService
	chats  services.ChatService
	dir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, g := dbtest.New(t)
	conf := &config.Config{SearchConcurrency: 2}

	dir := t.TempDir()
	files, err := storage.NewDiskStore(dir, "/uploads")
	if err != nil {
		t.Fatalf("Failed to open disk store: %v", err)
	}

	inbox := services.NewInboxService(store.Chats, store.Messages, conf)
	media := services.NewMediaService(files, conf)
	return &testEnv{
		store:  store,
		gorm:   g,
		inbox:  inbox,
		search: services.NewSearchService(store.Users, store.Chats, inbox, conf),
		chats:  services.NewChatService(store.Chats, store.Users, store.Messages, media, conf),
		dir:    dir,
	}
}

func at(minute int) time.Time {
	return time.Date(2024, 3, 1, 9, minute, 0, 0, time.UTC)
}

// assertStatus fails unless err is an API error carrying status.
func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a %d error, got nil", status)
	}
	var apiErr *errs.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an API error, got %T: %v", err, err)
	}
	if apiErr.Status != status {
		t.Errorf("expected status %d (%s), got %d: %s", status, http.StatusText(status), apiErr.Status, apiErr.Message)
	}
}
