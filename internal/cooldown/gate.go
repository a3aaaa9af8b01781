// ABOUTME: Cooldown Gate — test-and-set against a persisted-hash collaborator, same-day expiration, spec.md §4.7

package cooldown

import (
	"context"
	"time"
)

// PersistedHashes is the external collaborator spec.md §1 calls out: a
// key-value store for cooldown hashes. Add must behave as an atomic
// test-and-set so two concurrent jobs for the same (category, query)
// never both proceed.
type PersistedHashes interface {
	// Add inserts hash with the given expiry, returning true iff it was
	// newly inserted (false if it was already present and unexpired).
	Add(ctx context.Context, hash string, expireAt time.Time) (bool, error)
	// Delete removes hash, allowing an immediate retry.
	Delete(ctx context.Context, hash string) error
}

// EndOfUTCDay implements spec.md §4.7's "timezone-agnostic daily"
// expiration function: the end of the UTC calendar day containing now.
// Every deployment computing this from the same instant produces the
// same timestamp, regardless of local timezone.
func EndOfUTCDay(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 999_999_999, time.UTC)
}

// Gate wraps a PersistedHashes collaborator with the fingerprinting
// policy from spec.md §4.7.
type Gate struct {
	store PersistedHashes
	now   func() time.Time
}

// NewGate builds a Gate over store. now defaults to time.Now when nil,
// overridable so tests can pin "today".
func NewGate(store PersistedHashes, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{store: store, now: now}
}

// Acquire computes the (category, query) fingerprint and attempts to
// claim it for the remainder of the UTC day. ok is false if the
// fingerprint was already claimed (the caller must finish empty without
// fetching, per spec.md §4.7 step 2).
func (g *Gate) Acquire(ctx context.Context, category, query string) (bool, error) {
	hash := Fingerprint(category, query)
	expireAt := EndOfUTCDay(g.now())
	return g.store.Add(ctx, hash, expireAt)
}

// Release recomputes the (category, query) fingerprint and deletes it,
// used when the fetch or parse step fails so a later retry is possible
// (spec.md §4.7 step 4; deliberately NOT called when extraction itself
// fails, step 6).
func (g *Gate) Release(ctx context.Context, category, query string) error {
	return g.store.Delete(ctx, Fingerprint(category, query))
}
