// ABOUTME: MemoryStore — default in-process PersistedHashes backed by sync.Map, for tests and single-node deployments

package cooldown

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a default, in-process PersistedHashes. Production
// deployments spanning more than one node supply their own
// PersistedHashes (Redis, etc.); this one exists so the gate and job
// handler have a working collaborator out of the box, matching the
// teacher's habit of shipping an in-memory default alongside every
// externally-pluggable cache (pkg/cache).
type MemoryStore struct {
	entries sync.Map // hash -> time.Time (expiry)
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add implements PersistedHashes.Add as a test-and-set, evicting an
// expired prior entry for the same hash before the check.
func (m *MemoryStore) Add(_ context.Context, hash string, expireAt time.Time) (bool, error) {
	now := time.Now()
	if existing, loaded := m.entries.Load(hash); loaded {
		if expiry, ok := existing.(time.Time); ok && expiry.After(now) {
			return false, nil
		}
		// Expired: fall through and treat this as a fresh insert. Only
		// the expired value is removed, so a fresh entry stored by a
		// concurrent Add in the meantime survives.
		m.entries.CompareAndDelete(hash, existing)
	}
	if _, present := m.entries.LoadOrStore(hash, expireAt); present {
		return false, nil
	}
	return true, nil
}

// Delete implements PersistedHashes.Delete.
func (m *MemoryStore) Delete(_ context.Context, hash string) error {
	m.entries.Delete(hash)
	return nil
}
