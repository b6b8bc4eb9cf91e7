// Package watcher turns catalog change notifications into debounced
// incremental rebuilds.
//
// Shows accumulate in a pending set while a burst of changes lands. At most
// one drain goroutine runs at a time; it waits out the debounce window, takes
// a single pending show, rebuilds it, and sleeps the window again before the
// next one. The per-show pause keeps a large backlog from hammering the media
// server, and a show is rebuilt once per burst no matter how many events
// named it.
package watcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"linklib/internal/catalog"
	"linklib/internal/config"
	"linklib/internal/logging"
	"linklib/internal/services/plex"
	"linklib/internal/vfs"
)

// Watcher owns the pending-show set and its single drain goroutine.
type Watcher struct {
	cfg     *config.Config
	builder *vfs.Builder
	catalog catalog.Catalog
	plex    plex.Service
	logger  *slog.Logger

	mu       sync.Mutex
	pending  map[int64]struct{}
	draining bool

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a watcher. The plex service may be a noop when rescans are
// disabled.
func New(cfg *config.Config, builder *vfs.Builder, cat catalog.Catalog, plexSvc plex.Service, logger *slog.Logger) (*Watcher, error) {
	if cfg == nil || builder == nil || cat == nil || plexSvc == nil {
		return nil, errors.New("watcher requires config, builder, catalog, and plex service")
	}
	return &Watcher{
		cfg:     cfg,
		builder: builder,
		catalog: cat,
		plex:    plexSvc,
		logger:  logging.NewComponentLogger(logger, "watcher"),
		pending: make(map[int64]struct{}),
	}, nil
}

// Start arms the watcher. Notifications received before Start are kept and
// drained once running.
func (w *Watcher) Start(ctx context.Context) error {
	if w.running.Load() {
		return errors.New("watcher already running")
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.logger.Info("watcher started", logging.Int("debounce_ms", w.cfg.Watcher.DebounceMS))

	w.mu.Lock()
	w.running.Store(true)
	if len(w.pending) > 0 && !w.draining {
		w.draining = true
		w.spawnDrainLocked()
	}
	w.mu.Unlock()
	return nil
}

// Stop cancels in-flight rebuilds and waits for the drain goroutine. The
// running flag drops under the mutex before the wait, so no Enqueue can add
// to the wait group once the wait has begun.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running.Load()
	w.running.Store(false)
	w.mu.Unlock()
	if !wasRunning {
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.logger.Info("watcher stopped")
}

// Notify records a catalog change. Only the affected show IDs matter; the
// change kind is informational.
func (w *Watcher) Notify(event catalog.ChangeEvent) {
	w.logger.Debug("change received",
		logging.String("kind", string(event.Kind)),
		logging.Int("shows", len(event.ShowIDs)),
	)
	w.Enqueue(event.ShowIDs...)
}

// Enqueue adds shows to the pending set and wakes the drain goroutine if none
// is active.
func (w *Watcher) Enqueue(showIDs ...int64) {
	if len(showIDs) == 0 {
		return
	}

	w.mu.Lock()
	for _, id := range showIDs {
		w.pending[id] = struct{}{}
	}
	if w.running.Load() && !w.draining {
		w.draining = true
		w.spawnDrainLocked()
	}
	w.mu.Unlock()
}

// Pending reports how many shows await a rebuild.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// spawnDrainLocked starts the drain goroutine. Callers hold w.mu with the
// draining flag already set, which orders the wg.Add before any Stop wait.
func (w *Watcher) spawnDrainLocked() {
	w.wg.Add(1)
	go w.drain()
}

// drain rebuilds one pending show per debounce window until the set is empty.
func (w *Watcher) drain() {
	defer w.wg.Done()

	for {
		if !w.sleepDebounce() {
			w.mu.Lock()
			w.draining = false
			w.mu.Unlock()
			return
		}

		id, ok := w.takeNext()
		if !ok {
			return
		}
		if w.ctx.Err() != nil {
			w.mu.Lock()
			w.draining = false
			w.mu.Unlock()
			return
		}
		w.rebuild(id)
	}
}

// takeNext removes and returns the lowest pending show ID. When the set is
// empty the draining flag drops under the same lock that found it empty, so a
// show enqueued after this check always gets a fresh goroutine.
func (w *Watcher) takeNext() (int64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		w.draining = false
		return 0, false
	}
	var next int64
	first := true
	for id := range w.pending {
		if first || id < next {
			next = id
			first = false
		}
	}
	delete(w.pending, next)
	return next, true
}

// sleepDebounce waits out the debounce window; false means the watcher is
// shutting down.
func (w *Watcher) sleepDebounce() bool {
	delay := time.Duration(w.cfg.Watcher.DebounceMS) * time.Millisecond
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-w.ctx.Done():
		return false
	}
}

func (w *Watcher) rebuild(showID int64) {
	ctx := w.ctx
	logger := w.logger.With(logging.Int64(logging.FieldShowID, showID))

	res := w.builder.RebuildShow(ctx, showID)
	for _, msg := range res.Errors {
		logger.Warn("rebuild problem", logging.String("detail", msg))
	}
	logger.Info("show rebuilt",
		logging.Int("links_created", res.LinksCreated),
		logging.Int("links_skipped", res.LinksSkipped),
	)

	if !w.cfg.Watcher.AutoRescan {
		return
	}
	for _, path := range res.Paths {
		if err := w.plex.RefreshPath(ctx, path); err != nil {
			logger.Warn("media server refresh failed", logging.String("path", path), logging.Error(err))
		}
	}
	if show, err := w.catalog.Show(ctx, showID); err == nil {
		if err := w.plex.ReconcileCollection(ctx, show.ID, show.Title); err != nil {
			logger.Warn("collection reconcile failed", logging.Error(err))
		}
	}
}
