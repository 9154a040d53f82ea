package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("CHATX_DB_DRIVER", "sqlite")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", c.Port)
	}
	if c.RequestTimeout != 15*time.Second {
		t.Errorf("expected default request timeout 15s, got %s", c.RequestTimeout)
	}
	if c.SearchConcurrency != 8 {
		t.Errorf("expected default search concurrency 8, got %d", c.SearchConcurrency)
	}
	if c.UsesS3() {
		t.Error("expected disk storage when no bucket is configured")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("CHATX_DB_DRIVER", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
}

func TestLoadMongoNeedsURL(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("CHATX_DB_DRIVER", "mongo")
	t.Setenv("CHATX_MONGO_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when mongo_url is missing")
	}
}
