package cache

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache(clock Clock, maxEntries int) *ResultCache {
	return New(Config{MaxEntries: maxEntries, Clock: clock})
}

func TestKeyIsStable(t *testing.T) {
	k1 := Key("how many universities in dhaka", "institutions")
	k2 := Key("how many universities in dhaka", "institutions")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)

	assert.NotEqual(t, k1, Key("how many universities in dhaka", "hospitals"))
	assert.NotEqual(t, k1, Key("how many hospitals in dhaka", "institutions"))
}

func TestGetMissOnEmptyCache(t *testing.T) {
	rc := newTestCache(newFakeClock(), 10)

	_, _, ok := rc.Get("some query", "institutions")
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	rc := newTestCache(newFakeClock(), 10)

	rc.Set("some query", "institutions", "the answer", time.Hour)

	value, hits, ok := rc.Get("some query", "institutions")
	require.True(t, ok)
	assert.Equal(t, "the answer", value)
	assert.Equal(t, 1, hits)

	_, hits, ok = rc.Get("some query", "institutions")
	require.True(t, ok)
	assert.Equal(t, 2, hits)
}

func TestGetExpiredEntryIsRemoved(t *testing.T) {
	clock := newFakeClock()
	rc := newTestCache(clock, 10)

	rc.Set("q", "institutions", "v", time.Hour)

	clock.Advance(time.Hour + time.Second)
	_, _, ok := rc.Get("q", "institutions")
	assert.False(t, ok)

	// The lazy removal is permanent: still a miss after rewinding would be
	// impossible, so confirm the entry count dropped.
	assert.Equal(t, 0, rc.Stats().TotalEntries)
}

func TestEntryExpiresAtExactTTLBoundary(t *testing.T) {
	clock := newFakeClock()
	rc := newTestCache(clock, 10)

	rc.Set("q", "institutions", "v", time.Hour)

	clock.Advance(time.Hour - time.Second)
	_, _, ok := rc.Get("q", "institutions")
	assert.True(t, ok, "entry younger than its TTL is live")

	clock.Advance(time.Second)
	_, _, ok = rc.Get("q", "institutions")
	assert.False(t, ok, "entry at exactly its TTL age is expired")
}

func TestSetOnExistingKeyRefreshesTTLAndValue(t *testing.T) {
	clock := newFakeClock()
	rc := newTestCache(clock, 10)

	rc.Set("q", "institutions", "old", time.Hour)
	clock.Advance(50 * time.Minute)
	rc.Set("q", "institutions", "new", time.Hour)

	// 50 minutes past the original write but only 20 past the refresh.
	clock.Advance(20 * time.Minute)
	value, _, ok := rc.Get("q", "institutions")
	require.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestLRUEvictionOnCapacity(t *testing.T) {
	clock := newFakeClock()
	rc := newTestCache(clock, 3)

	rc.Set("q1", "t", "v1", time.Hour)
	rc.Set("q2", "t", "v2", time.Hour)
	rc.Set("q3", "t", "v3", time.Hour)

	// Touch q1 so q2 becomes the least recently used.
	_, _, ok := rc.Get("q1", "t")
	require.True(t, ok)

	rc.Set("q4", "t", "v4", time.Hour)

	_, _, ok = rc.Get("q2", "t")
	assert.False(t, ok, "least recently used entry should be evicted")
	for _, q := range []string{"q1", "q3", "q4"} {
		_, _, ok = rc.Get(q, "t")
		assert.True(t, ok, "entry %s should survive", q)
	}
}

func TestUpsertDoesNotCountAsAccess(t *testing.T) {
	clock := newFakeClock()
	rc := newTestCache(clock, 2)

	rc.Set("q1", "t", "v1", time.Hour)
	rc.Set("q2", "t", "v2", time.Hour)

	// Rewriting q1 must not protect it from eviction.
	rc.Set("q1", "t", "v1b", time.Hour)
	_, _, _ = rc.Get("q2", "t")

	rc.Set("q3", "t", "v3", time.Hour)

	_, _, ok := rc.Get("q1", "t")
	assert.False(t, ok, "rewritten entry keeps its old recency and is evicted first")
	_, _, ok = rc.Get("q2", "t")
	assert.True(t, ok)
}

func TestInvalidate(t *testing.T) {
	rc := newTestCache(newFakeClock(), 10)

	rc.Set("q", "t", "v", time.Hour)
	assert.True(t, rc.Invalidate("q", "t"))
	assert.False(t, rc.Invalidate("q", "t"))

	_, _, ok := rc.Get("q", "t")
	assert.False(t, ok)
}

func TestInvalidateTool(t *testing.T) {
	rc := newTestCache(newFakeClock(), 10)

	rc.Set("q1", "institutions", "v1", time.Hour)
	rc.Set("q2", "institutions", "v2", time.Hour)
	rc.Set("q3", "hospitals", "v3", time.Hour)

	assert.Equal(t, 2, rc.InvalidateTool("institutions"))

	_, _, ok := rc.Get("q3", "hospitals")
	assert.True(t, ok, "other tools' entries survive")
	assert.Equal(t, 0, rc.InvalidateTool("institutions"))
}

func TestInvalidateExpired(t *testing.T) {
	clock := newFakeClock()
	rc := newTestCache(clock, 10)

	rc.Set("short", "t", "v", time.Minute)
	rc.Set("long", "t", "v", time.Hour)

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, rc.InvalidateExpired())
	assert.Equal(t, 1, rc.Stats().TotalEntries)
}

func TestClearAll(t *testing.T) {
	rc := newTestCache(newFakeClock(), 10)

	rc.Set("q1", "t", "v1", time.Hour)
	rc.Set("q2", "t", "v2", time.Hour)
	rc.ClearAll()

	assert.Equal(t, 0, rc.Stats().TotalEntries)
}

func TestStats(t *testing.T) {
	clock := newFakeClock()
	rc := newTestCache(clock, 10)

	rc.Set("q1", "t", "v1", time.Minute)
	rc.Set("q2", "t", "v2", time.Hour)

	// Two hits on q2, one miss.
	rc.Get("q2", "t")
	rc.Get("q2", "t")
	rc.Get("nope", "t")

	clock.Advance(10 * time.Minute)
	stats := rc.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.LiveEntries)
	assert.InDelta(t, 1.0, stats.AverageHitCount, 1e-9) // 2 hits over 2 entries
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 1e-9)

	rc.ResetStats()
	assert.Equal(t, 0.0, rc.Stats().HitRate)
}

func TestHitRateIsCumulativeAcrossEviction(t *testing.T) {
	rc := newTestCache(newFakeClock(), 1)

	rc.Set("q1", "t", "v1", time.Hour)
	rc.Get("q1", "t")
	rc.Set("q2", "t", "v2", time.Hour) // evicts q1
	rc.Get("q1", "t")                  // miss

	assert.InDelta(t, 0.5, rc.Stats().HitRate, 1e-9)
}

// memoryBackend is an in-memory PersistenceBackend for testing write-through
// and warm-start behavior.
type memoryBackend struct {
	rows    map[string]PersistedEntry
	failing bool
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{rows: make(map[string]PersistedEntry)}
}

func (b *memoryBackend) LoadAll() ([]PersistedEntry, error) {
	if b.failing {
		return nil, errors.New("backend unavailable")
	}
	out := make([]PersistedEntry, 0, len(b.rows))
	for _, row := range b.rows {
		out = append(out, row)
	}
	return out, nil
}

func (b *memoryBackend) Store(e PersistedEntry) error {
	if b.failing {
		return errors.New("backend unavailable")
	}
	b.rows[e.Key] = e
	return nil
}

func (b *memoryBackend) Delete(key string) error {
	delete(b.rows, key)
	return nil
}

func (b *memoryBackend) Clear() error {
	b.rows = make(map[string]PersistedEntry)
	return nil
}

func TestBackendWriteThroughAndWarmStart(t *testing.T) {
	clock := newFakeClock()
	backend := newMemoryBackend()

	rc := New(Config{MaxEntries: 10, Clock: clock, Backend: backend})
	rc.Set("q1", "institutions", "v1", time.Hour)
	rc.Set("q2", "hospitals", "v2", time.Minute)
	require.Len(t, backend.rows, 2)

	// A new cache over the same backend sees the live rows; the expired one
	// is skipped during warm-up.
	clock.Advance(10 * time.Minute)
	rc2 := New(Config{MaxEntries: 10, Clock: clock, Backend: backend})

	value, _, ok := rc2.Get("q1", "institutions")
	require.True(t, ok)
	assert.Equal(t, "v1", value)

	_, _, ok = rc2.Get("q2", "hospitals")
	assert.False(t, ok)
}

func TestBackendFailureDegradesToEmptyCache(t *testing.T) {
	backend := newMemoryBackend()
	backend.failing = true

	rc := New(Config{MaxEntries: 10, Clock: newFakeClock(), Backend: backend})
	assert.Equal(t, 0, rc.Stats().TotalEntries)

	// Writes still work in memory even when persistence fails.
	rc.Set("q", "t", "v", time.Hour)
	value, _, ok := rc.Get("q", "t")
	require.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestWarmStartRespectsCapacity(t *testing.T) {
	clock := newFakeClock()
	backend := newMemoryBackend()

	seed := New(Config{MaxEntries: 10, Clock: clock, Backend: backend})
	for i := 0; i < 10; i++ {
		seed.Set(fmt.Sprintf("q%d", i), "t", "v", time.Hour)
	}

	rc := New(Config{MaxEntries: 3, Clock: clock, Backend: backend})
	assert.Equal(t, 3, rc.Stats().TotalEntries)
}
