package object

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned when no object exists under a key.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for keys that escape the store root.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Store saves, reads and deletes uploaded objects addressed by a caller-supplied key.
// Saving to an existing key replaces its content.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
