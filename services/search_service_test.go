package services_test

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/techagentng/chatx/db/dbtest"
)

func TestSearchChatsEmptyQueryReturnsInbox(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := dbtest.User(t, env.store, "Ann", "Able", "a")
	b := dbtest.User(t, env.store, "Ben", "Baker", "b")
	chat := dbtest.PrivateChat(t, env.store, a.ID, b.ID)
	dbtest.Message(t, env.store, chat.ID, b.ID, "hello", at(4))
	dbtest.Group(t, env.store, "crew", a.ID, b.ID)

	inbox, err := env.inbox.GetInbox(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetInbox() error = %v", err)
	}
	for _, query := range []string{"", "   "} {
		got, err := env.search.SearchChats(ctx, a.ID, query)
		if err != nil {
			t.Fatalf("SearchChats(%q) error = %v", query, err)
		}
		if !reflect.DeepEqual(got, inbox) {
			t.Errorf("SearchChats(%q) = %+v, expected the inbox %+v", query, got, inbox)
		}
	}
}

func TestSearchChatsResolvesExistingPrivateChats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := dbtest.User(t, env.store, "Carl", "Caller", "carl")
	bob1 := dbtest.User(t, env.store, "Bob", "One", "bob1")
	bob2 := dbtest.User(t, env.store, "Bob", "Two", "bob2")
	existing := dbtest.PrivateChat(t, env.store, caller.ID, bob1.ID)
	// A shared group must not count as a private chat.
	dbtest.Group(t, env.store, "bobs", caller.ID, bob2.ID)

	results, err := env.search.SearchChats(ctx, caller.ID, "bob")
	if err != nil {
		t.Fatalf("SearchChats() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %+v", results)
	}

	byUser := map[uuid.UUID]int{}
	for i, r := range results {
		byUser[*r.UserID] = i
		if r.UnseenMessage != 0 || r.LastMessage != nil || r.IsGroupChat {
			t.Errorf("expected placeholder fields, got %+v", r)
		}
	}
	first := results[byUser[bob1.ID]]
	if first.ChatID == nil || *first.ChatID != existing.ID {
		t.Errorf("expected bob1 to carry chat %s, got %v", existing.ID, first.ChatID)
	}
	if first.FullName != "Bob One" || first.Picture != "bob1.png" {
		t.Errorf("unexpected summary for bob1: %+v", first)
	}
	if second := results[byUser[bob2.ID]]; second.ChatID != nil {
		t.Errorf("expected bob2 to have no chat, got %v", *second.ChatID)
	}
}

func TestSearchChatsIncludesCaller(t *testing.T) {
	env := newTestEnv(t)
	caller := dbtest.User(t, env.store, "Bob", "Self", "bobself")

	results, err := env.search.SearchChats(context.Background(), caller.ID, "bob")
	if err != nil {
		t.Fatalf("SearchChats() error = %v", err)
	}
	if len(results) != 1 || *results[0].UserID != caller.ID || results[0].ChatID != nil {
		t.Errorf("expected the caller without a chat id, got %+v", results)
	}
}

func TestSearchChatsNoMatchIsEmptyList(t *testing.T) {
	env := newTestEnv(t)
	caller := dbtest.User(t, env.store, "Carl", "Caller", "carl")

	results, err := env.search.SearchChats(context.Background(), caller.ID, "nobody")
	if err != nil {
		t.Fatalf("expected no error for zero matches, got %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected an empty list, got %v", results)
	}
}

func TestSearchUsersExcludesCaller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	caller := dbtest.User(t, env.store, "Bob", "One", "bob1")
	other := dbtest.User(t, env.store, "Bob", "Two", "bob2")

	users, err := env.search.SearchUsers(ctx, caller.ID, " bob ")
	if err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].ID != other.ID {
		t.Errorf("expected only bob2, got %+v", users)
	}

	_, err = env.search.SearchUsers(ctx, caller.ID, "  ")
	assertStatus(t, err, http.StatusBadRequest)
}

func TestSearchRequiresCaller(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.search.SearchChats(context.Background(), uuid.Nil, "bob")
	assertStatus(t, err, http.StatusBadRequest)
}
