package testutil

import (
	"context"
	"sync"

	"github.com/eternadata/offline-gateway/pkg/store"
)

// MemStore is an in-memory store.Store for unit tests.
// It mirrors the Redis store's semantics: versioned entries,
// complete-or-absent writes, last-write-wins.
type MemStore struct {
	mu      sync.RWMutex
	version string
	entries map[string]map[string]*store.Snapshot // tag -> key -> snapshot

	// Fault injection. When set, the corresponding operation fails.
	PingErr error
	GetErr  error
	PutErr  error
}

// NewMemStore creates an empty in-memory store bound to a version tag.
func NewMemStore(version string) *MemStore {
	return &MemStore{
		version: version,
		entries: make(map[string]map[string]*store.Snapshot),
	}
}

// Version returns the version tag this store instance is bound to.
func (m *MemStore) Version() string {
	return m.version
}

// Get retrieves a snapshot by key. Returns store.ErrMiss if not present.
func (m *MemStore) Get(ctx context.Context, key store.Key) (*store.Snapshot, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.entries[m.version][key.String()]
	if !ok {
		return nil, store.ErrMiss
	}
	return copySnapshot(snap), nil
}

// Put stores a snapshot, overwriting any prior entry.
func (m *MemStore) Put(ctx context.Context, key store.Key, snap *store.Snapshot) error {
	if m.PutErr != nil {
		return m.PutErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[m.version] == nil {
		m.entries[m.version] = make(map[string]*store.Snapshot)
	}
	m.entries[m.version][key.String()] = copySnapshot(snap)
	return nil
}

// Delete removes a single entry.
func (m *MemStore) Delete(ctx context.Context, key store.Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries[m.version], key.String())
	return nil
}

// Versions enumerates all version tags that currently hold entries.
func (m *MemStore) Versions(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make([]string, 0, len(m.entries))
	for tag, keys := range m.entries {
		if len(keys) > 0 {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// Drop deletes every entry belonging to the given version tag.
func (m *MemStore) Drop(ctx context.Context, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, version)
	return nil
}

// Ping reports store reachability (always reachable unless PingErr is set).
func (m *MemStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// Seed inserts an entry under an arbitrary version tag, bypassing the
// bound version. Useful for staging pre-rotation state.
func (m *MemStore) Seed(version string, key store.Key, snap *store.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[version] == nil {
		m.entries[version] = make(map[string]*store.Snapshot)
	}
	m.entries[version][key.String()] = copySnapshot(snap)
}

// Len returns the number of entries for the bound version.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries[m.version])
}

// copySnapshot protects stored snapshots from caller mutation.
func copySnapshot(snap *store.Snapshot) *store.Snapshot {
	if snap == nil {
		return nil
	}
	dup := *snap
	dup.Header = snap.Header.Clone()
	dup.Body = append([]byte(nil), snap.Body...)
	return &dup
}
