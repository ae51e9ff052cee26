package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"cleanspot/internal/cache"
	"cleanspot/internal/domain/report"
	"cleanspot/internal/localstore"
	"cleanspot/internal/netmon"
	"cleanspot/internal/queue"
	"cleanspot/internal/storage/kv"

	"golang.org/x/exp/slog"
)

const (
	lastSyncKey   = "last_sync_timestamp"
	reportsTarget = "reports"

	// reportsCacheKey is where the pulled server collection is mirrored
	// for cheap reads between syncs.
	reportsCacheKey = "reports_list"
	statsCacheKey   = "report_stats"
)

// SyncService reconciles the local report collection with the server.
// Local writes always land first; the network is strictly best-effort
// and every missed remote call becomes a queued mutation.
type SyncService struct {
	store   *localstore.Store
	queue   *queue.Queue
	cache   *cache.Cache
	monitor *netmon.Monitor
	gateway Gateway
	kv      kv.Store
	log     *slog.Logger

	// authenticated reports whether an account is signed in. The App
	// owns the token; the sync service only asks.
	authenticated func() bool
}

// SyncResult is what one full reconciliation pass produced.
type SyncResult struct {
	Drained queue.Result
	Pulled  int
}

// SyncStatus is the state surfaced to the status indicator.
type SyncStatus struct {
	LastSync time.Time
	Queue    queue.Stats
	Online   bool
}

// deletePayload identifies the target of a queued delete.
type deletePayload struct {
	ID string `json:"id"`
}

func NewSyncService(
	store *localstore.Store,
	q *queue.Queue,
	c *cache.Cache,
	monitor *netmon.Monitor,
	gateway Gateway,
	kvStore kv.Store,
	authenticated func() bool,
	log *slog.Logger,
) *SyncService {
	return &SyncService{
		store:         store,
		queue:         q,
		cache:         c,
		monitor:       monitor,
		gateway:       gateway,
		kv:            kvStore,
		authenticated: authenticated,
		log:           log.With("component", "sync"),
	}
}

// CreateReport persists the report locally, then tries the upload if the
// device looks online and a user is signed in. On upload success the
// local temp ID is swapped for the server's; on any miss the create is
// queued. The local write is never rolled back.
func (s *SyncService) CreateReport(ctx context.Context, draft report.Draft) (report.Report, error) {
	if err := draft.Validate(); err != nil {
		return report.Report{}, err
	}

	rep, err := s.store.Create(draft)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to save report locally: %w", err)
	}

	if s.monitor.Online(ctx) && s.authenticated() {
		serverID, err := s.gateway.CreateReport(ctx, toCreateRequest(rep))
		if err == nil {
			remote := report.RemoteID(serverID)
			if err := s.store.ReplaceID(rep.ID, remote); err != nil {
				return rep, err
			}
			rep.ID = remote
			s.log.Info("report uploaded", "id", serverID)
			return rep, nil
		}
		s.log.Warn("immediate upload failed, queueing", "id", rep.ID.String(), "error", err)
	}

	if _, err := s.queue.Enqueue(queue.KindCreate, reportsTarget, rep); err != nil {
		return rep, err
	}
	return rep, nil
}

// DeleteReport removes the report locally no matter what. Reports the
// server never saw stay a purely local affair: their queued create, if
// any, is dropped and nothing goes over the wire. Server-known reports
// are deleted remotely right away when possible, otherwise queued.
func (s *SyncService) DeleteReport(ctx context.Context, id report.ID) error {
	if err := s.store.DeleteByID(id); err != nil {
		return err
	}

	if id.IsLocal() {
		s.dropQueuedCreate(id)
		return nil
	}

	if s.monitor.Online(ctx) && s.authenticated() {
		err := s.gateway.DeleteReport(ctx, id.String())
		if err == nil {
			return nil
		}
		s.log.Warn("immediate remote delete failed, queueing", "id", id.String(), "error", err)
	}

	_, err := s.queue.Enqueue(queue.KindDelete, reportsTarget, deletePayload{ID: id.String()})
	return err
}

// dropQueuedCreate cancels the pending upload of a report that was
// deleted before it ever reached the server.
func (s *SyncService) dropQueuedCreate(id report.ID) {
	for _, item := range s.queue.Items() {
		if item.Kind != queue.KindCreate {
			continue
		}
		var rep report.Report
		if err := json.Unmarshal(item.Payload, &rep); err != nil {
			continue
		}
		if rep.ID == id {
			if err := s.queue.Remove(item.ID); err != nil {
				s.log.Warn("failed to drop queued create", "id", id.String(), "error", err)
			}
			return
		}
	}
}

// ProcessQueue drains pending mutations oldest first. The queue itself
// enforces the online check and the cross-trigger mutual exclusion; this
// layer adds the auth guard and the per-kind dispatch.
func (s *SyncService) ProcessQueue(ctx context.Context) (queue.Result, error) {
	if !s.authenticated() {
		s.log.Debug("not authenticated, skipping queue processing")
		return queue.Result{}, nil
	}

	res, err := s.queue.Process(ctx, s.applyMutation)
	if err != nil {
		return res, err
	}

	// The marker only moves when the pass actually delivered something.
	// A refused drain (offline, concurrent pass) and an empty queue both
	// report zero progress and must leave last_sync_timestamp alone.
	if res.Succeeded > 0 && res.Failed == 0 {
		s.markSynced()
	}
	return res, nil
}

func (s *SyncService) applyMutation(ctx context.Context, item queue.Item) error {
	switch item.Kind {
	case queue.KindCreate:
		var rep report.Report
		if err := json.Unmarshal(item.Payload, &rep); err != nil {
			return fmt.Errorf("corrupt create payload: %w", err)
		}

		serverID, err := s.gateway.CreateReport(ctx, toCreateRequest(rep))
		if err != nil {
			return err
		}
		if rep.ID.IsLocal() {
			return s.store.ReplaceID(rep.ID, report.RemoteID(serverID))
		}
		return nil

	case queue.KindDelete:
		var payload deletePayload
		if err := json.Unmarshal(item.Payload, &payload); err != nil {
			return fmt.Errorf("corrupt delete payload: %w", err)
		}
		return s.gateway.DeleteReport(ctx, payload.ID)

	default:
		return fmt.Errorf("unsupported mutation kind %q", item.Kind)
	}
}

// SyncFromRemote replaces the local collection with the server's state
// and refreshes the list cache. Offline or signed out it does nothing.
func (s *SyncService) SyncFromRemote(ctx context.Context) error {
	if !s.monitor.Online(ctx) || !s.authenticated() {
		s.log.Debug("skipping pull", "online", s.monitor.Cached().Online(), "authenticated", s.authenticated())
		return nil
	}

	reports, err := s.gateway.ListReports(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch reports: %w", err)
	}

	if err := s.store.ReplaceAll(reports); err != nil {
		return err
	}

	if err := s.cache.Set(reportsCacheKey, reports, 0); err != nil {
		s.log.Debug("failed to refresh reports cache", "error", err)
	}

	s.markSynced()
	s.log.Info("pulled server state", "count", len(reports))
	return nil
}

// FullSync drains the queue and then pulls. The order matters: pulling
// first would overwrite local-only reports before their creates are
// delivered, losing them. Both halves are best-effort.
func (s *SyncService) FullSync(ctx context.Context) SyncResult {
	var result SyncResult

	drained, err := s.ProcessQueue(ctx)
	if err != nil {
		s.log.Error("queue drain failed", "error", err)
	}
	result.Drained = drained

	if err := s.SyncFromRemote(ctx); err != nil {
		s.log.Error("pull failed", "error", err)
	} else {
		result.Pulled = len(s.store.List())
	}

	return result
}

// Status reports sync health without touching the network.
func (s *SyncService) Status() SyncStatus {
	return SyncStatus{
		LastSync: s.lastSync(),
		Queue:    s.queue.Stats(),
		Online:   s.monitor.Cached().Online(),
	}
}

// markSynced stores the marker as an epoch-millis string; that is the
// on-disk format existing installations already carry.
func (s *SyncService) markSynced() {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := s.kv.Set(lastSyncKey, now); err != nil {
		s.log.Warn("failed to persist last sync marker", "error", err)
	}
}

func (s *SyncService) lastSync() time.Time {
	raw, err := s.kv.Get(lastSyncKey)
	if err != nil {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func toCreateRequest(rep report.Report) report.CreateRequest {
	return report.CreateRequest{
		Description:   rep.Description,
		Photos:        rep.Photos,
		Location:      rep.Location,
		Timestamp:     rep.Timestamp,
		NoiseLevel:    rep.NoiseLevel,
		LightLevel:    rep.LightLevel,
		Accelerometer: rep.Accelerometer,
	}
}
