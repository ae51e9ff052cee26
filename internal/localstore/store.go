// Package localstore is the device-local collection of waste reports.
// It is the source of truth the UI reads; the sync pipeline reconciles
// it with the server after the fact.
package localstore

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cleanspot/internal/domain/report"
	"cleanspot/internal/storage/kv"

	"golang.org/x/exp/slog"
)

const reportsKey = "waste_locations"

type Store struct {
	store kv.Store
	log   *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

func New(store kv.Store, log *slog.Logger) *Store {
	return &Store{
		store: store,
		log:   log.With("component", "localstore"),
		now:   time.Now,
	}
}

// Create assigns a local ID and capture timestamp, appends the report
// and persists the collection. The write happens regardless of
// connectivity; uploading is someone else's problem.
func (s *Store) Create(draft report.Draft) (report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rep := report.Report{
		ID:            report.NewLocalID(now),
		Description:   draft.Description,
		Photos:        draft.Photos,
		Location:      draft.Location,
		Timestamp:     now.UTC().Format(time.RFC3339),
		NoiseLevel:    draft.NoiseLevel,
		LightLevel:    draft.LightLevel,
		Accelerometer: draft.Accelerometer,
	}

	reports := s.load()
	reports = append(reports, rep)
	if err := s.save(reports); err != nil {
		return report.Report{}, err
	}
	return rep, nil
}

// List returns the stored reports in insertion order. Missing or
// corrupt storage reads as an empty collection.
func (s *Store) List() []report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := s.load()
	if reports == nil {
		return []report.Report{}
	}
	return reports
}

func (s *Store) Get(id report.ID) (report.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rep := range s.load() {
		if rep.ID == id {
			return rep, true
		}
	}
	return report.Report{}, false
}

// DeleteByID removes the report with the given ID. Deleting an absent
// ID is a no-op.
func (s *Store) DeleteByID(id report.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := s.load()
	kept := reports[:0]
	for _, rep := range reports {
		if rep.ID != id {
			kept = append(kept, rep)
		}
	}
	return s.save(kept)
}

// ReplaceID rewrites a report's ID in place after a successful upload.
// Position and every other field, the capture timestamp included, are
// preserved. An unknown old ID is a no-op.
func (s *Store) ReplaceID(old, new report.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := s.load()
	for i := range reports {
		if reports[i].ID == old {
			reports[i].ID = new
			return s.save(reports)
		}
	}
	return nil
}

// ReplaceAll swaps the whole collection, used when pulling the server's
// authoritative state.
func (s *Store) ReplaceAll(reports []report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(reports)
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(reportsKey); err != nil {
		return fmt.Errorf("failed to clear local reports: %w", err)
	}
	return nil
}

func (s *Store) load() []report.Report {
	raw, err := s.store.Get(reportsKey)
	if err != nil {
		return nil
	}

	var reports []report.Report
	if err := json.Unmarshal([]byte(raw), &reports); err != nil {
		s.log.Warn("corrupt local report collection, starting empty")
		return nil
	}
	return reports
}

func (s *Store) save(reports []report.Report) error {
	if reports == nil {
		reports = []report.Report{}
	}
	raw, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("failed to serialize reports: %w", err)
	}
	if err := s.store.Set(reportsKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist reports: %w", err)
	}
	return nil
}
