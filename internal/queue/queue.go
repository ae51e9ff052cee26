// Package queue is the durable mutation queue behind offline writes.
// Items survive restarts, are drained FIFO and retried a bounded number
// of times; delivery is at-least-once.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"cleanspot/internal/storage/kv"

	"golang.org/x/exp/slog"
)

const (
	queueKey      = "offline_queue"
	processingKey = "queue_processing"

	// MaxRetries caps delivery attempts per item. An item at the cap is
	// kept for inspection but never retried automatically.
	MaxRetries = 3
)

type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Item is one pending mutation. Payload is the full serialized entity
// for creates and updates; deletes identify the target through Target
// plus the entity ID embedded in Payload.
type Item struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"type"`
	Target     string          `json:"collection"`
	Payload    json.RawMessage `json:"data,omitempty"`
	Timestamp  int64           `json:"timestamp"`
	RetryCount int             `json:"retries"`
	LastError  string          `json:"error,omitempty"`
}

type Result struct {
	Succeeded int
	Failed    int
}

type Stats struct {
	Total        int
	Pending      int
	Failed       int
	LastEnqueued time.Time
}

// Queue persists mutations through the KV store. The processing flag is
// itself persisted, so concurrent drain triggers exclude each other even
// across components that share nothing but the storage.
type Queue struct {
	store  kv.Store
	online func(context.Context) bool
	log    *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

func New(store kv.Store, online func(context.Context) bool, log *slog.Logger) *Queue {
	return &Queue{
		store:  store,
		online: online,
		log:    log.With("component", "queue"),
		now:    time.Now,
	}
}

// Enqueue appends a mutation and persists it before returning. The
// caller may treat a nil error as a durability guarantee.
func (q *Queue) Enqueue(kind Kind, target string, payload any) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("failed to serialize mutation payload: %w", err)
		}
		raw = data
	}

	now := q.now()
	item := Item{
		ID:        fmt.Sprintf("queue_%d_%s", now.UnixMilli(), randSuffix()),
		Kind:      kind,
		Target:    target,
		Payload:   raw,
		Timestamp: now.UnixMilli(),
	}

	items := q.loadItems()
	items = append(items, item)
	if err := q.saveItems(items); err != nil {
		return "", err
	}

	q.log.Debug("mutation queued", "id", item.ID, "kind", kind, "target", target)
	return item.ID, nil
}

// Process drains the queue through apply, oldest first. It refuses to
// run when a drain is already marked in progress or when offline; both
// cases report zero progress. Items at the retry cap are counted as
// failed and skipped. Items enqueued while a pass runs wait for the
// next one.
func (q *Queue) Process(ctx context.Context, apply func(context.Context, Item) error) (Result, error) {
	q.mu.Lock()
	if q.processing() {
		q.mu.Unlock()
		q.log.Debug("queue already processing, skipping")
		return Result{}, nil
	}
	if !q.online(ctx) {
		q.mu.Unlock()
		q.log.Debug("offline, skipping queue processing")
		return Result{}, nil
	}
	q.setProcessing(true)
	snapshot := q.loadItems()
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.setProcessing(false)
		q.mu.Unlock()
	}()

	var res Result
	for _, item := range snapshot {
		if item.RetryCount >= MaxRetries {
			res.Failed++
			continue
		}

		if err := apply(ctx, item); err != nil {
			q.log.Warn("mutation failed", "id", item.ID, "kind", item.Kind, "error", err)
			q.markError(item.ID, err)
			res.Failed++
			continue
		}

		if err := q.Remove(item.ID); err != nil {
			return res, err
		}
		res.Succeeded++
	}

	return res, nil
}

func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loadItems()
}

func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.loadItems()
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return q.saveItems(kept)
}

func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.store.Remove(queueKey); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	return nil
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.loadItems()

	stats := Stats{Total: len(items)}
	var last int64
	for _, it := range items {
		if it.RetryCount >= MaxRetries {
			stats.Failed++
		}
		if it.Timestamp > last {
			last = it.Timestamp
		}
	}
	stats.Pending = stats.Total - stats.Failed
	if last != 0 {
		stats.LastEnqueued = time.UnixMilli(last)
	}
	return stats
}

// CleanOlderThan drops items older than maxAge, exhausted or not.
func (q *Queue) CleanOlderThan(maxAge time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cutoff := q.now().Add(-maxAge).UnixMilli()

	items := q.loadItems()
	kept := items[:0]
	for _, it := range items {
		if it.Timestamp >= cutoff {
			kept = append(kept, it)
		}
	}

	if len(kept) != len(items) {
		q.log.Debug("dropped stale queue items", "count", len(items)-len(kept))
	}
	return q.saveItems(kept)
}

func (q *Queue) markError(id string, cause error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.loadItems()
	for i := range items {
		if items[i].ID == id {
			items[i].RetryCount++
			items[i].LastError = cause.Error()
			break
		}
	}
	if err := q.saveItems(items); err != nil {
		q.log.Error("failed to persist retry state", "id", id, "error", err)
	}
}

// loadItems reads the persisted queue; missing or corrupt state reads
// as empty.
func (q *Queue) loadItems() []Item {
	raw, err := q.store.Get(queueKey)
	if err != nil {
		return nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		q.log.Warn("corrupt queue state, starting empty")
		return nil
	}
	return items
}

func (q *Queue) saveItems(items []Item) error {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize queue: %w", err)
	}
	if err := q.store.Set(queueKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist queue: %w", err)
	}
	return nil
}

func (q *Queue) processing() bool {
	v, err := q.store.Get(processingKey)
	return err == nil && v == "true"
}

func (q *Queue) setProcessing(on bool) {
	v := "false"
	if on {
		v = "true"
	}
	if err := q.store.Set(processingKey, v); err != nil {
		q.log.Error("failed to persist processing flag", "error", err)
	}
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randSuffix() string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
