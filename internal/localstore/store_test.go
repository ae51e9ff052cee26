package localstore

import (
	"testing"
	"time"

	"cleanspot/internal/domain/report"
	"cleanspot/internal/storage/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	backing := kv.NewMemoryStore()
	return New(backing, slog.Default()), backing
}

func draft(desc string) report.Draft {
	return report.Draft{
		Description: desc,
		Location:    report.Coordinates{Latitude: 48.85, Longitude: 2.35},
	}
}

func TestStore_CreateAssignsLocalIDAndTimestamp(t *testing.T) {
	s, _ := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_000).UTC() }

	rep, err := s.Create(draft("mattress on sidewalk"))
	require.NoError(t, err)

	assert.True(t, rep.ID.IsLocal())
	assert.Equal(t, "temp_1700000000000", rep.ID.String())
	assert.Equal(t, "2023-11-14T22:13:20Z", rep.Timestamp)

	got := s.List()
	require.Len(t, got, 1)
	assert.Equal(t, rep, got[0])
}

func TestStore_ListOnEmptyOrCorruptStorage(t *testing.T) {
	t.Run("empty storage", func(t *testing.T) {
		s, _ := newTestStore(t)
		assert.Empty(t, s.List())
		assert.NotNil(t, s.List())
	})

	t.Run("corrupt storage", func(t *testing.T) {
		s, backing := newTestStore(t)
		require.NoError(t, backing.Set("waste_locations", "[broken"))
		assert.Empty(t, s.List())
	})
}

func TestStore_DeleteByID(t *testing.T) {
	s, _ := newTestStore(t)

	ts := time.UnixMilli(1)
	s.now = func() time.Time { ts = ts.Add(time.Millisecond); return ts }

	a, err := s.Create(draft("a"))
	require.NoError(t, err)
	b, err := s.Create(draft("b"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteByID(a.ID))
	got := s.List()
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	// Deleting something absent changes nothing.
	require.NoError(t, s.DeleteByID(report.RemoteID("never-seen")))
	assert.Len(t, s.List(), 1)
}

func TestStore_ReplaceIDPreservesPositionAndFields(t *testing.T) {
	s, _ := newTestStore(t)

	ts := time.UnixMilli(1)
	s.now = func() time.Time { ts = ts.Add(time.Millisecond); return ts }

	first, err := s.Create(draft("first"))
	require.NoError(t, err)
	second, err := s.Create(draft("second"))
	require.NoError(t, err)
	third, err := s.Create(draft("third"))
	require.NoError(t, err)

	serverID := report.RemoteID("srv-42")
	require.NoError(t, s.ReplaceID(second.ID, serverID))

	got := s.List()
	require.Len(t, got, 3)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, serverID, got[1].ID)
	assert.Equal(t, third.ID, got[2].ID)

	assert.Equal(t, "second", got[1].Description)
	assert.Equal(t, second.Timestamp, got[1].Timestamp, "capture timestamp survives the ID swap")
	assert.False(t, got[1].ID.IsLocal())
}

func TestStore_ReplaceIDUnknownOldIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)

	rep, err := s.Create(draft("only"))
	require.NoError(t, err)

	require.NoError(t, s.ReplaceID(report.ParseID("temp_999"), report.RemoteID("srv-1")))

	got := s.List()
	require.Len(t, got, 1)
	assert.Equal(t, rep.ID, got[0].ID)
}

func TestStore_ReplaceAllAndClear(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Create(draft("stale"))
	require.NoError(t, err)

	server := []report.Report{
		{ID: report.RemoteID("srv-1"), Description: "authoritative", Timestamp: "2026-01-01T00:00:00Z"},
	}
	require.NoError(t, s.ReplaceAll(server))

	got := s.List()
	require.Len(t, got, 1)
	assert.Equal(t, "authoritative", got[0].Description)

	require.NoError(t, s.Clear())
	assert.Empty(t, s.List())
}
