package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/chatx/db/dbtest"
)

func TestLatestByChatEmptyInput(t *testing.T) {
	store, _ := dbtest.New(t)

	for _, ids := range [][]uuid.UUID{nil, {}} {
		latest, err := store.Messages.LatestByChat(context.Background(), ids)
		if err != nil {
			t.Fatalf("LatestByChat(%v) error = %v", ids, err)
		}
		if latest == nil || len(latest) != 0 {
			t.Errorf("expected an empty mapping, got %v", latest)
		}
	}
}

func TestLatestByChatPicksNewestPerChat(t *testing.T) {
	store, _ := dbtest.New(t)
	alice := dbtest.User(t, store, "Alice", "Smith", "alice")
	bob := dbtest.User(t, store, "Bob", "Jones", "bob")
	carol := dbtest.User(t, store, "Carol", "King", "carol")

	ab := dbtest.PrivateChat(t, store, alice.ID, bob.ID)
	ac := dbtest.PrivateChat(t, store, alice.ID, carol.ID)
	silent := dbtest.Group(t, store, "quiet", alice.ID, bob.ID)

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	dbtest.Message(t, store, ab.ID, alice.ID, "first", base)
	dbtest.Message(t, store, ab.ID, bob.ID, "newest", base.Add(2*time.Hour))
	dbtest.Message(t, store, ab.ID, alice.ID, "middle", base.Add(time.Hour))
	dbtest.Message(t, store, ac.ID, carol.ID, "only", base.Add(30*time.Minute))

	latest, err := store.Messages.LatestByChat(context.Background(), []uuid.UUID{ab.ID, ac.ID, silent.ID})
	if err != nil {
		t.Fatalf("LatestByChat() error = %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("expected snapshots for 2 chats, got %d", len(latest))
	}
	if got := latest[ab.ID].Content; got != "newest" {
		t.Errorf("expected 'newest' for alice/bob, got %q", got)
	}
	if got := latest[ac.ID].Content; got != "only" {
		t.Errorf("expected 'only' for alice/carol, got %q", got)
	}
	if _, ok := latest[silent.ID]; ok {
		t.Error("expected no snapshot for a chat without messages")
	}
}

func TestLatestByChatIgnoresUnlistedChats(t *testing.T) {
	store, _ := dbtest.New(t)
	alice := dbtest.User(t, store, "Alice", "Smith", "alice")
	bob := dbtest.User(t, store, "Bob", "Jones", "bob")
	listed := dbtest.PrivateChat(t, store, alice.ID, bob.ID)
	other := dbtest.Group(t, store, "other", bob.ID)

	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	dbtest.Message(t, store, listed.ID, alice.ID, "hi", now)
	dbtest.Message(t, store, other.ID, bob.ID, "later", now.Add(time.Hour))

	latest, err := store.Messages.LatestByChat(context.Background(), []uuid.UUID{listed.ID})
	if err != nil {
		t.Fatalf("LatestByChat() error = %v", err)
	}
	if len(latest) != 1 || latest[listed.ID].Content != "hi" {
		t.Errorf("unexpected snapshots %v", latest)
	}
}
