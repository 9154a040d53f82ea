package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidateStructTrimsAndAccepts(t *testing.T) {
	req := &CreateGroupRequest{
		GroupData: GroupData{ChatName: "  weekend plans  "},
		Members:   []uuid.UUID{uuid.New()},
	}
	if err := ValidateStruct(req); err != nil {
		t.Fatalf("ValidateStruct() error = %v", err)
	}
	if req.GroupData.ChatName != "weekend plans" {
		t.Errorf("expected trimmed chat name, got %q", req.GroupData.ChatName)
	}
}

func TestValidateStructTranslatesErrors(t *testing.T) {
	req := &CreateGroupRequest{GroupData: GroupData{ChatName: "   "}}
	err := ValidateStruct(req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "ChatName is a required field") {
		t.Errorf("expected translated chat name message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "Members") {
		t.Errorf("expected members message, got %q", err.Error())
	}
}

func TestGroupUpdateFieldsAllowList(t *testing.T) {
	name := "renamed"
	u := &GroupUpdate{ID: uuid.New(), ChatName: &name}
	fields := u.Fields()
	if len(fields) != 1 || fields["chat_name"] != "renamed" {
		t.Errorf("unexpected fields %v", fields)
	}
	if len((&GroupUpdate{}).Fields()) != 0 {
		t.Error("expected no fields for an empty update")
	}
}
