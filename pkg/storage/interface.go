package storage

import (
	"context"
)

// Storage holds finished archives, addressed by job ID.
type Storage interface {
	// Put stores data under the given id. Put is all or nothing; readers never
	// see a partially written archive.
	Put(ctx context.Context, id string, data []byte) error

	// Get returns the data stored under the given id, or an error wrapping
	// errors.ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)

	// Delete removes the data stored under id, if any.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held.
	Close() error
}
