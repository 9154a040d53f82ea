package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestChatValidate(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name    string
		chat    Chat
		wantErr bool
	}{
		{"private pair", Chat{Members: []Membership{{UserID: a}, {UserID: b}}}, false},
		{"private with three", Chat{Members: []Membership{{UserID: a}, {UserID: b}, {UserID: c}}}, true},
		{"private with one", Chat{Members: []Membership{{UserID: a}}}, true},
		{"private with self", Chat{Members: []Membership{{UserID: a}, {UserID: a}}}, true},
		{"group with admin", Chat{IsGroupChat: true, ChatName: "g", Members: []Membership{{UserID: a, IsAdmin: true}, {UserID: b}}}, false},
		{"group without admin", Chat{IsGroupChat: true, ChatName: "g", Members: []Membership{{UserID: a}, {UserID: b}}}, true},
		{"group without name", Chat{IsGroupChat: true, Members: []Membership{{UserID: a, IsAdmin: true}}}, true},
		{"nil member", Chat{Members: []Membership{{UserID: a}, {}}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.chat.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestCounterpartAndMember(t *testing.T) {
	me, other := uuid.New(), uuid.New()
	chat := Chat{Members: []Membership{{UserID: me, UnseenMessage: 5}, {UserID: other, UnseenMessage: 1}}}

	if got := chat.Counterpart(me); got == nil || got.UserID != other {
		t.Fatalf("expected counterpart %s, got %+v", other, got)
	}
	if got := chat.Member(me); got == nil || got.UnseenMessage != 5 {
		t.Fatalf("expected own membership with 5 unseen, got %+v", got)
	}
	if chat.Member(uuid.New()) != nil {
		t.Error("expected nil for a non-member")
	}
}

func TestInboxEntryBefore(t *testing.T) {
	early := &InboxEntry{LastMessage: &LastMessage{CreatedAt: mustTime(t, "2024-01-01T10:00:00Z")}}
	late := &InboxEntry{LastMessage: &LastMessage{CreatedAt: mustTime(t, "2024-01-02T10:00:00Z")}}
	empty := &InboxEntry{}

	if !late.Before(early) || early.Before(late) {
		t.Error("expected the later message to rank first")
	}
	if !early.Before(empty) || empty.Before(early) {
		t.Error("expected entries without messages to rank last")
	}
	if empty.Before(&InboxEntry{}) {
		t.Error("expected two empty entries to compare equal")
	}
}
