package storage

import (
	"time"

	"github.com/yourusername/deshq-knowledge-agent/internal/cache"
)

// CacheBackend persists result-cache rows in the application database so the
// cache survives restarts. It implements cache.PersistenceBackend.
type CacheBackend struct {
	store *Store
}

// NewCacheBackend creates a backend over an open store.
func NewCacheBackend(store *Store) *CacheBackend {
	return &CacheBackend{store: store}
}

// LoadAll reads every persisted row. Expiry filtering is the cache's job.
func (b *CacheBackend) LoadAll() ([]cache.PersistedEntry, error) {
	rows, err := b.store.db.Query(`
        SELECT key, tool_used, value, created_at, ttl_seconds, hit_count
        FROM query_cache ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []cache.PersistedEntry
	for rows.Next() {
		var e cache.PersistedEntry
		var createdAt time.Time
		if err := rows.Scan(&e.Key, &e.Tool, &e.Value, &createdAt, &e.TTLSeconds, &e.HitCount); err != nil {
			return nil, err
		}
		e.CreatedAt = createdAt
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Store upserts one row.
func (b *CacheBackend) Store(e cache.PersistedEntry) error {
	_, err := b.store.db.Exec(`
        INSERT OR REPLACE INTO query_cache (key, tool_used, value, created_at, ttl_seconds, hit_count)
        VALUES (?, ?, ?, ?, ?, ?)`,
		e.Key, e.Tool, e.Value, e.CreatedAt, e.TTLSeconds, e.HitCount)
	return err
}

// Delete removes one row by key.
func (b *CacheBackend) Delete(key string) error {
	_, err := b.store.db.Exec(`DELETE FROM query_cache WHERE key = ?`, key)
	return err
}

// Clear removes every row.
func (b *CacheBackend) Clear() error {
	_, err := b.store.db.Exec(`DELETE FROM query_cache`)
	return err
}
