// Package storage keeps uploaded files such as group pictures.
package storage

import (
	"context"
	"io"
)

// FileStore saves body under key and returns the reference clients fetch it by.
type FileStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
