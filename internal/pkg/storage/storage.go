package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrObjectNotFound is returned by every adapter when the object does not exist.
	ErrObjectNotFound = errors.New("storage: object not found")
	// ErrObjectTooLarge is returned by Get when the object exceeds the caller's limit.
	ErrObjectTooLarge = errors.New("storage: object too large")
)

// Storage reads and writes small whole objects.
type Storage interface {
	io.Closer

	// Put replaces the object with body.
	Put(ctx context.Context, bucket, key string, body []byte, contentType string) error
	// Get reads the whole object, failing with ErrObjectTooLarge past limit bytes.
	Get(ctx context.Context, bucket, key string, limit int64) ([]byte, error)
	// Stat returns object metadata without reading its contents.
	Stat(ctx context.Context, bucket, key string) (ObjectInfo, error)
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Size      int64
	UpdatedAt time.Time
}

// readLimited drains r, reading at most limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrObjectTooLarge, limit)
	}
	return b, nil
}
