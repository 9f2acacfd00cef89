// Why this file: ./internal/cache/cache.go
// This implements the result cache: a hash map plus doubly-linked recency list
// giving O(1) get/set with LRU eviction, lazy TTL expiry on read, cumulative
// hit/miss statistics, and optional write-through persistence. All operations
// serialize on one mutex - hit counters and recency order are read-modify-write.

package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/deshq-knowledge-agent/models"
)

// PersistedEntry is the durable form of a cache row. Only the fields needed
// to reconstruct an entry across restarts are stored.
type PersistedEntry struct {
	Key        string
	Tool       string
	Value      string
	CreatedAt  time.Time
	TTLSeconds int64
	HitCount   int
}

// PersistenceBackend is an optional durable key/value store behind the cache.
// The cache behaves identically whether or not one is configured; backend
// failures degrade to cache-miss behavior and never abort a request.
type PersistenceBackend interface {
	LoadAll() ([]PersistedEntry, error)
	Store(entry PersistedEntry) error
	Delete(key string) error
	Clear() error
}

// entry is a live cache row. Owned exclusively by ResultCache.
type entry struct {
	key          string
	tool         string
	value        string
	createdAt    time.Time
	ttl          time.Duration
	hitCount     int
	lastAccessed time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !now.Before(e.createdAt.Add(e.ttl))
}

// Config configures a ResultCache.
type Config struct {
	MaxEntries int
	Clock      Clock              // defaults to the system clock
	Backend    PersistenceBackend // optional
	Logger     *zap.Logger        // optional
}

// ResultCache is a bounded TTL cache keyed by (normalized query, tool name).
type ResultCache struct {
	mu         sync.Mutex
	maxEntries int
	clock      Clock
	backend    PersistenceBackend
	logger     *zap.Logger

	entries map[string]*list.Element // key -> *entry element
	order   *list.List               // front = most recently used

	hits   uint64
	misses uint64
}

// Key derives the stable cache key for a (normalized query, tool) pair.
// sha256 keeps keys fixed-length and collision-free for practical purposes,
// and survives process restarts unchanged.
func Key(normalizedQuery, toolName string) string {
	sum := sha256.Sum256([]byte(normalizedQuery + ":" + toolName))
	return hex.EncodeToString(sum[:])
}

// New creates a ResultCache and, when a backend is configured, warms it from
// the persisted rows (expired rows are skipped).
func New(cfg Config) *ResultCache {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 100
	}

	rc := &ResultCache{
		maxEntries: maxEntries,
		clock:      clock,
		backend:    cfg.Backend,
		logger:     logger,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
	rc.warmFromBackend()
	return rc
}

func (rc *ResultCache) warmFromBackend() {
	if rc.backend == nil {
		return
	}
	rows, err := rc.backend.LoadAll()
	if err != nil {
		rc.logger.Warn("cache backend load failed, starting empty", zap.Error(err))
		return
	}

	now := rc.clock.Now()
	for _, row := range rows {
		e := &entry{
			key:          row.Key,
			tool:         row.Tool,
			value:        row.Value,
			createdAt:    row.CreatedAt,
			ttl:          time.Duration(row.TTLSeconds) * time.Second,
			hitCount:     row.HitCount,
			lastAccessed: row.CreatedAt,
		}
		if e.expired(now) || len(rc.entries) >= rc.maxEntries {
			continue
		}
		rc.entries[e.key] = rc.order.PushFront(e)
	}
}

// Get looks up a live entry. A hit bumps the hit counter and recency; an
// expired entry is removed and reported as a miss.
func (rc *ResultCache) Get(normalizedQuery, toolName string) (value string, hitCount int, ok bool) {
	key := Key(normalizedQuery, toolName)

	rc.mu.Lock()
	defer rc.mu.Unlock()

	elem, found := rc.entries[key]
	if !found {
		rc.misses++
		return "", 0, false
	}

	e := elem.Value.(*entry)
	now := rc.clock.Now()
	if e.expired(now) {
		rc.removeLocked(elem)
		rc.misses++
		return "", 0, false
	}

	e.hitCount++
	e.lastAccessed = now
	rc.order.MoveToFront(elem)
	rc.hits++
	rc.persist(e)

	return e.value, e.hitCount, true
}

// Set upserts an entry. Updating an existing key resets created_at, value and
// TTL but does not touch recency - a write is not a read. Inserting a new key
// at capacity evicts the least-recently-used entry first.
func (rc *ResultCache) Set(normalizedQuery, toolName, value string, ttl time.Duration) {
	key := Key(normalizedQuery, toolName)
	now := rc.clock.Now()

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if elem, found := rc.entries[key]; found {
		e := elem.Value.(*entry)
		e.value = value
		e.createdAt = now
		e.ttl = ttl
		rc.persist(e)
		return
	}

	if len(rc.entries) >= rc.maxEntries {
		rc.evictLRULocked()
	}

	e := &entry{
		key:          key,
		tool:         toolName,
		value:        value,
		createdAt:    now,
		ttl:          ttl,
		lastAccessed: now,
	}
	rc.entries[key] = rc.order.PushFront(e)
	rc.persist(e)
}

// evictLRULocked removes the back of the recency list. The list keeps a
// strict access order, so the back element is the least recently used; among
// never-read entries that order matches insertion, i.e. oldest created_at.
func (rc *ResultCache) evictLRULocked() {
	back := rc.order.Back()
	if back == nil {
		return
	}
	rc.removeLocked(back)
}

// Invalidate removes a specific (query, tool) entry. Returns true if present.
func (rc *ResultCache) Invalidate(normalizedQuery, toolName string) bool {
	key := Key(normalizedQuery, toolName)

	rc.mu.Lock()
	defer rc.mu.Unlock()

	elem, found := rc.entries[key]
	if !found {
		return false
	}
	rc.removeLocked(elem)
	return true
}

// InvalidateTool drops every entry produced by one tool. The data-file
// watcher calls this when a domain database changes on disk.
func (rc *ResultCache) InvalidateTool(toolName string) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	removed := 0
	for elem := rc.order.Front(); elem != nil; {
		next := elem.Next()
		if elem.Value.(*entry).tool == toolName {
			rc.removeLocked(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// InvalidateExpired removes every entry whose TTL has elapsed and returns the
// count removed.
func (rc *ResultCache) InvalidateExpired() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := rc.clock.Now()
	removed := 0
	for elem := rc.order.Front(); elem != nil; {
		next := elem.Next()
		if elem.Value.(*entry).expired(now) {
			rc.removeLocked(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// ClearAll empties the cache.
func (rc *ResultCache) ClearAll() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.entries = make(map[string]*list.Element)
	rc.order.Init()
	if rc.backend != nil {
		if err := rc.backend.Clear(); err != nil {
			rc.logger.Warn("cache backend clear failed", zap.Error(err))
		}
	}
}

// Stats reports entry counts and the cumulative hit rate since process start
// or the last ResetStats.
func (rc *ResultCache) Stats() models.CacheStats {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	now := rc.clock.Now()
	stats := models.CacheStats{TotalEntries: len(rc.entries)}

	totalHits := 0
	for elem := rc.order.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*entry)
		totalHits += e.hitCount
		if !e.expired(now) {
			stats.LiveEntries++
		}
	}
	if stats.TotalEntries > 0 {
		stats.AverageHitCount = float64(totalHits) / float64(stats.TotalEntries)
	}
	if lookups := rc.hits + rc.misses; lookups > 0 {
		stats.HitRate = float64(rc.hits) / float64(lookups)
	}
	return stats
}

// ResetStats zeroes the cumulative hit/miss counters.
func (rc *ResultCache) ResetStats() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.hits = 0
	rc.misses = 0
}

// StartSweeper runs an optional periodic expiry sweep for memory hygiene.
// Lazy expiry on Get already guarantees correctness without it.
func (rc *ResultCache) StartSweeper(done <-chan struct{}, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if n := rc.InvalidateExpired(); n > 0 {
					rc.logger.Debug("cache sweep removed expired entries", zap.Int("removed", n))
				}
			}
		}
	}()
}

// removeLocked unlinks an element from both structures and the backend.
func (rc *ResultCache) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	rc.order.Remove(elem)
	delete(rc.entries, e.key)
	if rc.backend != nil {
		if err := rc.backend.Delete(e.key); err != nil {
			rc.logger.Warn("cache backend delete failed", zap.String("key", e.key), zap.Error(err))
		}
	}
}

// persist writes an entry through to the backend when one is configured.
// Failures are logged and otherwise ignored: the fresh result still serves.
func (rc *ResultCache) persist(e *entry) {
	if rc.backend == nil {
		return
	}
	err := rc.backend.Store(PersistedEntry{
		Key:        e.key,
		Tool:       e.tool,
		Value:      e.value,
		CreatedAt:  e.createdAt,
		TTLSeconds: int64(e.ttl / time.Second),
		HitCount:   e.hitCount,
	})
	if err != nil {
		rc.logger.Warn("cache backend store failed", zap.String("key", e.key), zap.Error(err))
	}
}
