// Package cache is a TTL key/value cache on top of the durable store.
// Entries expire lazily on read; a metadata side-table tracks access
// recency and size for stats and housekeeping.
package cache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"cleanspot/internal/storage/kv"

	"golang.org/x/exp/slog"
)

const (
	keyPrefix   = "cache_"
	metadataKey = "cache_metadata"

	DefaultTTL = 30 * time.Minute
)

type entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	ExpiresAt int64           `json:"expiresAt"`
}

type entryMeta struct {
	LastAccessed int64 `json:"lastAccessed"`
	Size         int   `json:"size"`
}

type Stats struct {
	Entries      int
	TotalSize    int
	OldestAccess time.Time
}

type Cache struct {
	store kv.Store
	log   *slog.Logger
	mu    sync.Mutex
	now   func() time.Time
}

func New(store kv.Store, log *slog.Logger) *Cache {
	return &Cache{
		store: store,
		log:   log.With("component", "cache"),
		now:   time.Now,
	}
}

// Set stores a value under the given key. A non-positive ttl falls back
// to DefaultTTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize cache value: %w", err)
	}

	now := c.now()
	e := entry{
		Data:      data,
		Timestamp: now.UnixMilli(),
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry: %w", err)
	}

	if err := c.store.Set(keyPrefix+key, string(raw)); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	c.touchMeta(key, now, len(raw))
	return nil
}

// Get reads a value into out and reports whether the key was a live hit.
// An expired entry is removed on the way out, so a second read of the
// same expired key behaves exactly like a plain miss.
func (c *Cache) Get(key string, out any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, raw, ok := c.load(key)
	if !ok {
		return false
	}

	now := c.now()
	if now.UnixMilli() > e.ExpiresAt {
		c.remove(key)
		return false
	}

	if err := json.Unmarshal(e.Data, out); err != nil {
		c.log.Debug("cache entry does not match requested type", "key", key, "error", err)
		return false
	}

	c.touchMeta(key, now, len(raw))
	return true
}

// IsValid reports whether the key holds an unexpired entry without
// consuming it or refreshing its access time.
func (c *Cache) IsValid(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, _, ok := c.load(key)
	if !ok {
		return false
	}
	return c.now().UnixMilli() <= e.ExpiresAt
}

func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(key)
	return nil
}

// ClearAll drops every cache entry and the metadata table. Keys outside
// the cache prefix are untouched.
func (c *Cache) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.store.Keys()
	if err != nil {
		return fmt.Errorf("failed to enumerate storage keys: %w", err)
	}

	for _, k := range keys {
		if strings.HasPrefix(k, keyPrefix) && k != metadataKey {
			if err := c.store.Remove(k); err != nil {
				return fmt.Errorf("failed to remove cache entry %q: %w", k, err)
			}
		}
	}

	return c.store.Remove(metadataKey)
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	meta := c.loadMeta()

	stats := Stats{Entries: len(meta)}
	var oldest int64
	for _, m := range meta {
		stats.TotalSize += m.Size
		if oldest == 0 || m.LastAccessed < oldest {
			oldest = m.LastAccessed
		}
	}
	if oldest != 0 {
		stats.OldestAccess = time.UnixMilli(oldest)
	}
	return stats
}

// CleanOlderThan evicts entries whose last access is older than maxAge,
// regardless of their TTL.
func (c *Cache) CleanOlderThan(maxAge time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	meta := c.loadMeta()
	cutoff := c.now().Add(-maxAge).UnixMilli()

	removed := 0
	for key, m := range meta {
		if m.LastAccessed < cutoff {
			c.remove(key)
			removed++
		}
	}

	if removed > 0 {
		c.log.Debug("evicted stale cache entries", "count", removed)
	}
	return nil
}

// load returns the parsed entry and its raw size. Missing or corrupt
// entries read as absent.
func (c *Cache) load(key string) (entry, string, bool) {
	raw, err := c.store.Get(keyPrefix + key)
	if err != nil {
		return entry{}, "", false
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		c.log.Debug("corrupt cache entry", "key", key)
		return entry{}, "", false
	}
	return e, raw, true
}

func (c *Cache) remove(key string) {
	if err := c.store.Remove(keyPrefix + key); err != nil {
		c.log.Debug("failed to remove cache entry", "key", key, "error", err)
	}

	meta := c.loadMeta()
	if _, ok := meta[key]; ok {
		delete(meta, key)
		c.saveMeta(meta)
	}
}

func (c *Cache) touchMeta(key string, now time.Time, size int) {
	meta := c.loadMeta()
	meta[key] = entryMeta{LastAccessed: now.UnixMilli(), Size: size}
	c.saveMeta(meta)
}

func (c *Cache) loadMeta() map[string]entryMeta {
	meta := make(map[string]entryMeta)

	raw, err := c.store.Get(metadataKey)
	if err != nil {
		return meta
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		// Corrupt metadata resets the side-table; the entries themselves
		// stay readable.
		return make(map[string]entryMeta)
	}
	return meta
}

func (c *Cache) saveMeta(meta map[string]entryMeta) {
	raw, err := json.Marshal(meta)
	if err != nil {
		c.log.Debug("failed to serialize cache metadata", "error", err)
		return
	}
	if err := c.store.Set(metadataKey, string(raw)); err != nil {
		c.log.Debug("failed to store cache metadata", "error", err)
	}
}
