// Package netmon tracks device connectivity and fans transitions out to
// subscribers. The sync pipeline keys its online checks off this package.
package netmon

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

type ConnectionType string

const (
	TypeWifi     ConnectionType = "wifi"
	TypeCellular ConnectionType = "cellular"
	TypeNone     ConnectionType = "none"
	TypeUnknown  ConnectionType = "unknown"
)

// Reachable is a tri-state: link-level connectivity can be up while
// actual internet reachability is still being verified.
type Reachable int

const (
	ReachableUnknown Reachable = iota
	ReachableYes
	ReachableNo
)

type Status struct {
	Connected         bool
	InternetReachable Reachable
	Type              ConnectionType
}

// Online reports whether sync traffic should be attempted. Unknown
// reachability counts as online; only a confirmed negative blocks.
func (s Status) Online() bool {
	return s.Connected && s.InternetReachable != ReachableNo
}

// Probe produces one fresh connectivity snapshot.
type Probe interface {
	Check(ctx context.Context) (Status, error)
}

// Monitor owns the last known status and the subscriber list. One
// instance is wired at the composition root and shared by everything
// that cares about connectivity.
type Monitor struct {
	probe Probe
	log   *slog.Logger

	mu      sync.Mutex
	current Status
	subs    map[int]func(Status)
	nextID  int
}

func New(probe Probe, log *slog.Logger) *Monitor {
	return &Monitor{
		probe: probe,
		log:   log.With("component", "netmon"),
		current: Status{
			Connected:         false,
			InternetReachable: ReachableUnknown,
			Type:              TypeUnknown,
		},
		subs: make(map[int]func(Status)),
	}
}

// Cached returns the last observed status without probing.
func (m *Monitor) Cached() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Status forces a probe, records the result and notifies subscribers if
// the status changed. A failing probe is read as offline, never an error.
func (m *Monitor) Status(ctx context.Context) Status {
	st, err := m.probe.Check(ctx)
	if err != nil {
		m.log.Debug("connectivity probe failed", "error", err)
		st = Status{
			Connected:         false,
			InternetReachable: ReachableNo,
			Type:              TypeUnknown,
		}
	}

	m.mu.Lock()
	changed := st != m.current
	m.current = st
	var subs []func(Status)
	if changed {
		subs = make([]func(Status), 0, len(m.subs))
		for _, fn := range m.subs {
			subs = append(subs, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return st
}

// Online probes and applies the online predicate.
func (m *Monitor) Online(ctx context.Context) bool {
	return m.Status(ctx).Online()
}

// Subscribe registers a transition callback and returns its remover.
// Callbacks fire only when the status actually changes.
func (m *Monitor) Subscribe(fn func(Status)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Watch polls the probe until the context is cancelled. This is the
// event source that drives offline-to-online sync triggers.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.Status(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Status(ctx)
		}
	}
}
