package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStorePut(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/uploads/")
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	ref, err := store.Put(context.Background(), "groups/abc/pic.jpg", strings.NewReader("jpeg bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if ref != "/uploads/groups/abc/pic.jpg" {
		t.Errorf("unexpected reference %q", ref)
	}

	got, err := os.ReadFile(filepath.Join(dir, "groups", "abc", "pic.jpg"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(got) != "jpeg bytes" {
		t.Errorf("unexpected file content %q", got)
	}
}

func TestDiskStoreStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewDiskStore(filepath.Join(dir, "uploads"), "/uploads")

	ref, err := store.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if ref != "/uploads/escape.txt" {
		t.Errorf("unexpected reference %q", ref)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); !os.IsNotExist(err) {
		t.Error("expected the file to stay inside the upload dir")
	}
}
