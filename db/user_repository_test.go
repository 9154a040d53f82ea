package db_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/techagentng/chatx/db/dbtest"
	"github.com/techagentng/chatx/models"
)

func userNames(users []models.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.UserName)
	}
	return names
}

func TestSearchUsersPrefixAndSuffix(t *testing.T) {
	store, _ := dbtest.New(t)
	ctx := context.Background()
	dbtest.User(t, store, "Bobby", "Tables", "btables")
	dbtest.User(t, store, "Rob", "Robertson", "robr")
	dbtest.User(t, store, "Alice", "Kebob", "akebob")
	dbtest.User(t, store, "Carol", "Ebobe", "cebobe")

	tests := []struct {
		query string
		want  []string
	}{
		{"bob", []string{"akebob", "btables"}}, // suffix of Kebob, prefix of Bobby
		{"BOB", []string{"akebob", "btables"}},
		{"son", []string{"robr"}},
		{"rob", []string{"robr"}},
		{"cebo", []string{"cebobe"}},
		{"zzz", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			users, err := store.Users.SearchUsers(ctx, tc.query, uuid.Nil)
			if err != nil {
				t.Fatalf("SearchUsers() error = %v", err)
			}
			got := userNames(users)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestSearchUsersExcludesCaller(t *testing.T) {
	store, _ := dbtest.New(t)
	ctx := context.Background()
	bob := dbtest.User(t, store, "Bob", "One", "bob1")
	dbtest.User(t, store, "Bob", "Two", "bob2")

	users, err := store.Users.SearchUsers(ctx, "bob", bob.ID)
	if err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].UserName != "bob2" {
		t.Errorf("expected only bob2, got %v", userNames(users))
	}
}

func TestSearchUsersTreatsWildcardsLiterally(t *testing.T) {
	store, _ := dbtest.New(t)
	dbtest.User(t, store, "Dan", "Brown", "dan_b")
	dbtest.User(t, store, "Danny", "Boy", "dannyb")

	users, err := store.Users.SearchUsers(context.Background(), "_b", uuid.Nil)
	if err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].UserName != "dan_b" {
		t.Errorf("expected only dan_b, got %v", userNames(users))
	}

	users, _ = store.Users.SearchUsers(context.Background(), "%", uuid.Nil)
	if len(users) != 0 {
		t.Errorf("expected '%%' to match nothing, got %v", userNames(users))
	}
}

func TestFindUsersByIDs(t *testing.T) {
	store, _ := dbtest.New(t)
	ctx := context.Background()
	alice := dbtest.User(t, store, "Alice", "Smith", "alice")
	bob := dbtest.User(t, store, "Bob", "Jones", "bob")

	users, err := store.Users.FindUsersByIDs(ctx, []uuid.UUID{alice.ID, bob.ID, uuid.New()})
	if err != nil {
		t.Fatalf("FindUsersByIDs() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected the 2 existing users, got %d", len(users))
	}

	if _, err := store.Users.FindUserByID(ctx, uuid.New()); err == nil {
		t.Error("expected an error for an unknown user id")
	}
}
