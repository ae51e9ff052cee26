package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cleanspot/internal/storage/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func alwaysOnline(_ context.Context) bool  { return true }
func alwaysOffline(_ context.Context) bool { return false }

func newTestQueue(store kv.Store, online func(context.Context) bool) *Queue {
	return New(store, online, slog.Default())
}

func TestQueue_EnqueueIsDurable(t *testing.T) {
	store := kv.NewMemoryStore()
	q := newTestQueue(store, alwaysOnline)

	id, err := q.Enqueue(KindCreate, "reports", map[string]string{"id": "temp_1"})
	require.NoError(t, err)
	assert.Contains(t, id, "queue_")

	// A fresh queue over the same store sees the item.
	q2 := newTestQueue(store, alwaysOnline)
	items := q2.Items()
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, KindCreate, items[0].Kind)
	assert.Equal(t, 0, items[0].RetryCount)
}

func TestQueue_ProcessFIFO(t *testing.T) {
	q := newTestQueue(kv.NewMemoryStore(), alwaysOnline)

	for _, desc := range []string{"first", "second", "third"} {
		_, err := q.Enqueue(KindCreate, "reports", map[string]string{"description": desc})
		require.NoError(t, err)
	}

	var order []string
	res, err := q.Process(context.Background(), func(_ context.Context, it Item) error {
		var payload map[string]string
		require.NoError(t, json.Unmarshal(it.Payload, &payload))
		order = append(order, payload["description"])
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, Result{Succeeded: 3}, res)
	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Empty(t, q.Items())
}

func TestQueue_BoundedRetry(t *testing.T) {
	q := newTestQueue(kv.NewMemoryStore(), alwaysOnline)
	ctx := context.Background()

	_, err := q.Enqueue(KindDelete, "reports", map[string]string{"id": "srv-1"})
	require.NoError(t, err)

	attempts := 0
	failing := func(_ context.Context, _ Item) error {
		attempts++
		return errors.New("server rejected")
	}

	for pass := 1; pass <= MaxRetries; pass++ {
		res, err := q.Process(ctx, failing)
		require.NoError(t, err)
		assert.Equal(t, Result{Failed: 1}, res)
		assert.Equal(t, pass, attempts)
	}

	// Fourth pass: the item is exhausted, apply is not invoked.
	res, err := q.Process(ctx, failing)
	require.NoError(t, err)
	assert.Equal(t, Result{Failed: 1}, res)
	assert.Equal(t, MaxRetries, attempts)

	items := q.Items()
	require.Len(t, items, 1)
	assert.Equal(t, MaxRetries, items[0].RetryCount)
	assert.Equal(t, "server rejected", items[0].LastError)

	stats := q.Stats()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 1, stats.Failed)
}

func TestQueue_MutualExclusion(t *testing.T) {
	store := kv.NewMemoryStore()
	q := newTestQueue(store, alwaysOnline)
	ctx := context.Background()

	_, err := q.Enqueue(KindCreate, "reports", nil)
	require.NoError(t, err)

	t.Run("persisted flag blocks processing", func(t *testing.T) {
		require.NoError(t, store.Set("queue_processing", "true"))

		called := false
		res, err := q.Process(ctx, func(_ context.Context, _ Item) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
		assert.False(t, called)

		require.NoError(t, store.Set("queue_processing", "false"))
	})

	t.Run("re-entrant drain is a no-op", func(t *testing.T) {
		var inner Result
		res, err := q.Process(ctx, func(innerCtx context.Context, _ Item) error {
			inner, _ = q.Process(innerCtx, func(_ context.Context, _ Item) error {
				t.Fatal("inner drain must not run items")
				return nil
			})
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, Result{Succeeded: 1}, res)
		assert.Equal(t, Result{}, inner)
	})

	t.Run("flag is cleared after a pass", func(t *testing.T) {
		v, err := store.Get("queue_processing")
		require.NoError(t, err)
		assert.Equal(t, "false", v)
	})
}

func TestQueue_OfflineIsANoOp(t *testing.T) {
	store := kv.NewMemoryStore()
	q := newTestQueue(store, alwaysOffline)

	_, err := q.Enqueue(KindCreate, "reports", nil)
	require.NoError(t, err)

	res, err := q.Process(context.Background(), func(_ context.Context, _ Item) error {
		t.Fatal("must not apply while offline")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Len(t, q.Items(), 1)

	// The flag was never raised.
	_, err = store.Get("queue_processing")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestQueue_PartialFailureKeepsOnlyFailedItems(t *testing.T) {
	q := newTestQueue(kv.NewMemoryStore(), alwaysOnline)

	okID, err := q.Enqueue(KindCreate, "reports", map[string]string{"id": "a"})
	require.NoError(t, err)
	badID, err := q.Enqueue(KindDelete, "reports", map[string]string{"id": "b"})
	require.NoError(t, err)

	res, err := q.Process(context.Background(), func(_ context.Context, it Item) error {
		if it.ID == badID {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Succeeded: 1, Failed: 1}, res)

	items := q.Items()
	require.Len(t, items, 1)
	assert.Equal(t, badID, items[0].ID)
	assert.Equal(t, 1, items[0].RetryCount)
	assert.NotEqual(t, okID, items[0].ID)
}

func TestQueue_CorruptStateReadsAsEmpty(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set("offline_queue", "[{broken"))

	q := newTestQueue(store, alwaysOnline)
	assert.Empty(t, q.Items())
	assert.Equal(t, Stats{}, q.Stats())

	// And the queue recovers on the next enqueue.
	_, err := q.Enqueue(KindCreate, "reports", nil)
	require.NoError(t, err)
	assert.Len(t, q.Items(), 1)
}

func TestQueue_CleanOlderThan(t *testing.T) {
	q := newTestQueue(kv.NewMemoryStore(), alwaysOnline)

	base := time.UnixMilli(1_700_000_000_000)
	q.now = func() time.Time { return base }
	_, err := q.Enqueue(KindCreate, "reports", nil)
	require.NoError(t, err)

	q.now = func() time.Time { return base.Add(8 * 24 * time.Hour) }
	keptID, err := q.Enqueue(KindCreate, "reports", nil)
	require.NoError(t, err)

	require.NoError(t, q.CleanOlderThan(7*24*time.Hour))

	items := q.Items()
	require.Len(t, items, 1)
	assert.Equal(t, keptID, items[0].ID)
}

func TestQueue_StatsLastEnqueued(t *testing.T) {
	q := newTestQueue(kv.NewMemoryStore(), alwaysOnline)

	ts := time.UnixMilli(1_700_000_000_000)
	q.now = func() time.Time { return ts }

	_, err := q.Enqueue(KindCreate, "reports", map[string]string{"id": "a"})
	require.NoError(t, err)

	ts = ts.Add(time.Minute)
	_, err = q.Enqueue(KindCreate, "reports", map[string]string{"id": "b"})
	require.NoError(t, err)

	stats := q.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, time.UnixMilli(1_700_000_000_000).Add(time.Minute), stats.LastEnqueued,
		"LastEnqueued is the newest enqueue time")
}
