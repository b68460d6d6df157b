package storage

import (
	"context"
	"io"
)

// Store defines the interface for the file storage used by the email outbox.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	List(ctx context.Context, dir string) ([]string, error)
	Delete(ctx context.Context, path string) error
}
