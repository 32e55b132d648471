// Package metadata is a small key/value table in the local session database.
package metadata

import (
	"context"
	"time"
)

// Repository stores opaque values under string keys.
type Repository interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// UpdatedAt reports when key was last written.
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
