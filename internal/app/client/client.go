// Package client wires the offline-first pieces together: durable local
// storage, the mutation queue, the connectivity monitor and the HTTP
// gateway, plus the auth token that gates all remote traffic.
package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"cleanspot/internal/app/client/config"
	"cleanspot/internal/cache"
	"cleanspot/internal/domain/report"
	"cleanspot/internal/localstore"
	"cleanspot/internal/netmon"
	"cleanspot/internal/queue"
	"cleanspot/internal/storage/kv"

	"golang.org/x/exp/slog"
)

type App struct {
	config  *config.Config
	log     *slog.Logger
	kv      kv.Store
	closer  io.Closer
	cache   *cache.Cache
	queue   *queue.Queue
	reports *localstore.Store
	monitor *netmon.Monitor
	gateway Gateway
	sync    *SyncService

	mu    sync.RWMutex
	token string
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	app := &App{
		config: cfg,
		log:    log,
	}

	store, closer, err := openStorage(cfg, log)
	if err != nil {
		return nil, err
	}
	app.kv = store
	app.closer = closer

	gateway := newHTTPClient(cfg, log)
	app.gateway = gateway

	probe := netmon.NewHTTPProbe(gateway.baseURL+"/api/v1/health", 5*time.Second)
	app.monitor = netmon.New(probe, log)

	app.cache = cache.New(store, log)
	app.queue = queue.New(store, app.monitor.Online, log)
	app.reports = localstore.New(store, log)
	app.sync = NewSyncService(app.reports, app.queue, app.cache, app.monitor,
		app.gateway, store, app.IsAuthenticated, log)

	if token, err := app.loadToken(); err == nil && token != "" {
		app.token = token
		app.gateway.SetToken(token)
	}

	return app, nil
}

// openStorage opens the SQLite store, falling back to a plain JSON file
// when the database cannot be opened.
func openStorage(cfg *config.Config, log *slog.Logger) (kv.Store, io.Closer, error) {
	sqlite, err := kv.NewSQLiteStore(cfg.DataPath)
	if err == nil {
		return sqlite, sqlite, nil
	}
	log.Warn("sqlite storage unavailable, falling back to file store", "error", err)

	file, ferr := kv.NewFileStore(filepath.Join(cfg.ConfigDir, "state.json"))
	if ferr != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", ferr)
	}
	return file, nil, nil
}

// Run starts the background machinery: the connectivity watcher, the
// offline-to-online sync trigger and the periodic sync ticker. It blocks
// until the context is cancelled or a termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go a.monitor.Watch(ctx, time.Duration(a.config.ProbeInterval)*time.Second)

	unsubscribe := a.monitor.Subscribe(func(st netmon.Status) {
		if st.Online() {
			a.log.Info("connectivity restored, starting sync")
			go a.sync.FullSync(ctx)
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(time.Duration(a.config.SyncInterval) * time.Second)
	defer ticker.Stop()

	a.log.Info("client started",
		"server", a.config.ServerAddress,
		"sync_interval", a.config.SyncInterval,
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-sigCh:
			a.log.Info("shutting down", "signal", sig.String())
			return nil
		case <-ticker.C:
			a.sync.FullSync(ctx)
			a.Housekeeping()
		}
	}
}

func (a *App) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// Register creates an account on the server.
func (a *App) Register(ctx context.Context, login, password string) error {
	return a.gateway.Register(ctx, login, password)
}

// Login authenticates, stores the session token and kicks off a full
// sync so queued offline work drains right away.
func (a *App) Login(ctx context.Context, login, password string) error {
	token, err := a.gateway.Login(ctx, login, password)
	if err != nil {
		return err
	}

	if err := a.saveToken(token); err != nil {
		return err
	}

	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
	a.gateway.SetToken(token)

	a.sync.FullSync(ctx)
	return nil
}

func (a *App) Logout() error {
	a.mu.Lock()
	a.token = ""
	a.mu.Unlock()
	a.gateway.SetToken("")

	if err := os.Remove(a.config.TokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

func (a *App) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token != ""
}

// CreateReport is the offline-first write path.
func (a *App) CreateReport(ctx context.Context, draft report.Draft) (report.Report, error) {
	return a.sync.CreateReport(ctx, draft)
}

// ListReports reads the local collection; it never touches the network.
func (a *App) ListReports() []report.Report {
	return a.reports.List()
}

func (a *App) DeleteReport(ctx context.Context, id string) error {
	return a.sync.DeleteReport(ctx, report.ParseID(id))
}

// ReportStats serves the server-side totals, cached briefly so repeated
// invocations don't hammer the API.
func (a *App) ReportStats(ctx context.Context) (report.StatsResponse, error) {
	var stats report.StatsResponse
	if a.cache.Get(statsCacheKey, &stats) {
		return stats, nil
	}

	stats, err := a.gateway.ReportStats(ctx)
	if err != nil {
		return report.StatsResponse{}, err
	}

	if err := a.cache.Set(statsCacheKey, stats, 5*time.Minute); err != nil {
		a.log.Debug("failed to cache stats", "error", err)
	}
	return stats, nil
}

// SyncNow runs one full reconciliation pass on demand.
func (a *App) SyncNow(ctx context.Context) SyncResult {
	return a.sync.FullSync(ctx)
}

func (a *App) SyncStatus() SyncStatus {
	return a.sync.Status()
}

// Housekeeping evicts stale cache entries and drops queue items that
// outlived their usefulness.
func (a *App) Housekeeping() {
	if err := a.cache.CleanOlderThan(time.Duration(a.config.CacheTTL) * 2 * time.Minute); err != nil {
		a.log.Debug("cache cleanup failed", "error", err)
	}
	maxAge := time.Duration(a.config.QueueMaxAgeDay) * 24 * time.Hour
	if err := a.queue.CleanOlderThan(maxAge); err != nil {
		a.log.Debug("queue cleanup failed", "error", err)
	}
}

func (a *App) Health(ctx context.Context) error {
	return a.gateway.Health(ctx)
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Log() *slog.Logger {
	return a.log
}

func (a *App) loadToken() (string, error) {
	data, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (a *App) saveToken(token string) error {
	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}
