package cooldown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintIsStableAndTrimsQuery(t *testing.T) {
	a := Fingerprint("web-search-results", "  weather tomorrow  ")
	b := Fingerprint("web-search-results", "weather tomorrow")
	assert.Equal(t, a, b)

	c := Fingerprint("web-search-results", "different query")
	assert.NotEqual(t, a, c)

	d := Fingerprint("other-category", "weather tomorrow")
	assert.NotEqual(t, a, d, "category must be part of the fingerprint identity")
}

func TestEndOfUTCDayIsStableAcrossTimezones(t *testing.T) {
	utc := time.Date(2026, 7, 29, 10, 0, 0, 0, time.UTC)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	inTokyo := utc.In(tokyo)

	assert.True(t, EndOfUTCDay(utc).Equal(EndOfUTCDay(inTokyo)))
	assert.Equal(t, 23, EndOfUTCDay(utc).Hour())
}

func TestMemoryStoreAddIsTestAndSet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	added, err := store.Add(ctx, "h1", expiry)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.Add(ctx, "h1", expiry)
	require.NoError(t, err)
	assert.False(t, added, "second add for the same unexpired hash must not succeed")
}

func TestMemoryStoreDeleteAllowsReAdd(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	_, err := store.Add(ctx, "h1", expiry)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "h1"))

	added, err := store.Add(ctx, "h1", expiry)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestMemoryStoreAddAfterExpiryReturnsTrue(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	added, err := store.Add(ctx, "h1", past)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.Add(ctx, "h1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, added, "an expired entry must be treated as absent")
}

func TestGateAcquireAndRelease(t *testing.T) {
	store := NewMemoryStore()
	gate := NewGate(store, nil)
	ctx := context.Background()

	ok, err := gate.Acquire(ctx, "web-search-results", "weather")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gate.Acquire(ctx, "web-search-results", "weather")
	require.NoError(t, err)
	assert.False(t, ok, "second acquire for the same (category, query) must fail until release")

	require.NoError(t, gate.Release(ctx, "web-search-results", "weather"))

	ok, err = gate.Acquire(ctx, "web-search-results", "weather")
	require.NoError(t, err)
	assert.True(t, ok)
}
