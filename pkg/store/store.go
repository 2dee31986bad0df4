package store

import (
	"context"
	"errors"
)

var (
	// ErrMiss indicates the requested key was not found in the store
	ErrMiss = errors.New("store miss")

	// ErrInvalidSnapshot indicates the stored entry is invalid or corrupted
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Store is the versioned snapshot store the gateway reads and writes.
// Implementations must guarantee that entries are complete-or-absent and
// that concurrent writes to the same key are last-write-wins.
type Store interface {
	// Version returns the version tag this store instance is bound to.
	Version() string

	// Get retrieves a snapshot by key. Returns ErrMiss if not present.
	Get(ctx context.Context, key Key) (*Snapshot, error)

	// Put stores a snapshot under the given key, overwriting any prior entry.
	Put(ctx context.Context, key Key, snap *Snapshot) error

	// Delete removes a single entry.
	Delete(ctx context.Context, key Key) error

	// Versions enumerates all version tags that currently hold entries.
	Versions(ctx context.Context) ([]string, error)

	// Drop deletes every entry belonging to the given version tag.
	Drop(ctx context.Context, version string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
