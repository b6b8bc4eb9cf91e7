// Package daemon hosts the long-running linklib process: the catalog store,
// the change watcher, and the HTTP API, behind a single-instance lock.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"linklib/internal/api"
	"linklib/internal/catalog"
	"linklib/internal/config"
	"linklib/internal/logging"
	"linklib/internal/services/plex"
	"linklib/internal/vfs"
	"linklib/internal/watcher"
)

// Daemon coordinates the background services and enforces single-instance
// execution through a lock file in the log directory.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *catalog.Store
	builder *vfs.Builder
	watcher *watcher.Watcher
	service *api.BuildService

	lockPath string
	lock     *flock.Flock

	apiSrv *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PendingShows int
	DatabasePath string
	ReportPath   string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies. The store is owned
// by the daemon and closed with it.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	builder := vfs.New(cfg, store, logger)
	plexSvc := plex.NewConfiguredService(cfg)
	w, err := watcher.New(cfg, builder, store, plexSvc, logger)
	if err != nil {
		return nil, err
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "linklib.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		builder:  builder,
		watcher:  w,
		service:  api.NewBuildService(builder, w),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.apiSrv = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and launches the watcher and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another linklib daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.watcher.Start(runCtx); err != nil {
		d.releaseLock()
		cancel()
		d.cancel = nil
		return fmt.Errorf("start watcher: %w", err)
	}
	if d.apiSrv != nil {
		if err := d.apiSrv.start(runCtx); err != nil {
			d.watcher.Stop()
			d.releaseLock()
			cancel()
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down background services and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.apiSrv != nil {
		d.apiSrv.stop()
	}
	d.watcher.Stop()
	d.releaseLock()
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and releases the catalog store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}

// Service returns the build service backing the API.
func (d *Daemon) Service() *api.BuildService {
	return d.service
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		PendingShows: d.watcher.Pending(),
		DatabasePath: d.store.Path(),
		ReportPath:   d.cfg.ReportPath(),
		LockFilePath: d.lockPath,
	}
}
