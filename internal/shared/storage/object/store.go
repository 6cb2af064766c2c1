package object

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrInvalidKey is returned for storage keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore defines the contract for saving and retrieving resume files.
type ObjectStore interface {
	// Put writes r under key and returns the number of bytes written.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// URL returns a browser-reachable link for key, valid for at least ttl.
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
