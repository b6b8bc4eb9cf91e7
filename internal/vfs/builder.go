package vfs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"linklib/internal/catalog"
	"linklib/internal/config"
	"linklib/internal/logging"
	"linklib/internal/services"
)

// Builder synchronizes the generated symlink tree with the catalog. A Builder
// holds no state between runs; every Build call derives everything fresh.
type Builder struct {
	cfg     *config.Config
	catalog catalog.Catalog
	logger  *slog.Logger
}

// New constructs a build engine. Configuration is passed explicitly; nothing
// is read from ambient global state.
func New(cfg *config.Config, cat catalog.Catalog, logger *slog.Logger) *Builder {
	return &Builder{
		cfg:     cfg,
		catalog: cat,
		logger:  logging.NewComponentLogger(logger, "builder"),
	}
}

// run carries the per-invocation caches, counters, and cleanup-claim registry.
// Nothing here outlives one Build call.
type run struct {
	builder *Builder
	opts    Options
	runID   string

	mappings   *csmap.CsMap[int64, []catalog.FileMapping]
	companions *csmap.CsMap[string, []string]
	subtitles  *csmap.CsMap[string, []string]
	claims     singleflight.Group

	showsProcessed atomic.Int64
	dirsCreated    atomic.Int64
	linksCreated   atomic.Int64
	linksPlanned   atomic.Int64
	linksSkipped   atomic.Int64

	mu         sync.Mutex
	dirsSeen   map[string]struct{}
	assetsSeen map[string]struct{}
	claimed    map[string]error
	paths      map[string]struct{}
	errs       []string
	warns      []string
}

func (b *Builder) newRun(opts Options) *run {
	return &run{
		builder:    b,
		opts:       opts,
		runID:      uuid.NewString(),
		mappings:   csmap.Create[int64, []catalog.FileMapping](),
		companions: csmap.Create[string, []string](),
		subtitles:  csmap.Create[string, []string](),
		dirsSeen:   make(map[string]struct{}),
		assetsSeen: make(map[string]struct{}),
		claimed:    make(map[string]error),
		paths:      make(map[string]struct{}),
	}
}

// Build executes one synchronization pass. Per-mapping and per-show failures
// are recorded in the result; only cooperative cancellation stops the pass
// early, leaving partially processed shows in a rebuildable state.
func (b *Builder) Build(ctx context.Context, opts Options) *Result {
	started := time.Now()
	r := b.newRun(opts)
	ctx = services.WithRunID(ctx, r.runID)
	logger := logging.WithContext(ctx, b.logger)

	logger.Info("build started",
		logging.Int("show_filter", len(opts.ShowIDs)),
		logging.String("clean_mode", opts.Clean.String()),
		logging.Bool("clean_only", opts.CleanOnly),
	)

	shows := r.resolveShowSet(ctx)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.cfg.Build.Workers)
	for _, show := range shows {
		show := show
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			r.processShow(groupCtx, show)
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		r.warn(fmt.Sprintf("build cancelled: %v", err))
	}

	result := r.finish(started)
	if !opts.CleanOnly {
		if err := b.writeReport(result); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("write report: %v", err))
		}
	}

	logger.Info("build finished",
		logging.Int("shows", result.ShowsProcessed),
		logging.Int("links_created", result.LinksCreated),
		logging.Int("links_skipped", result.LinksSkipped),
		logging.Int("errors", len(result.Errors)),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result
}

// RebuildShow runs the incremental path used by the watcher: prune the show's
// existing subtree, then relink it without disturbing anything else.
func (b *Builder) RebuildShow(ctx context.Context, showID int64) *Result {
	return b.Build(ctx, Options{ShowIDs: []int64{showID}, Clean: CleanShow})
}

// CleanShowTree tears down a show's presence without regenerating it.
func (b *Builder) CleanShowTree(ctx context.Context, showIDs []int64) *Result {
	mode := CleanRoot
	if len(showIDs) > 0 {
		mode = CleanShow
	}
	return b.Build(ctx, Options{ShowIDs: showIDs, Clean: mode, CleanOnly: true})
}

// resolveShowSet expands the optional ID filter into concrete shows. Unknown
// IDs are recorded as errors, not fatal.
func (r *run) resolveShowSet(ctx context.Context) []*catalog.Show {
	if len(r.opts.ShowIDs) == 0 {
		shows, err := r.builder.catalog.AllShows(ctx)
		if err != nil {
			r.fail(services.Wrap(services.ErrTransient, "builder", "resolve show set", "list shows", err))
			return nil
		}
		return shows
	}

	shows := make([]*catalog.Show, 0, len(r.opts.ShowIDs))
	seen := make(map[int64]struct{}, len(r.opts.ShowIDs))
	for _, id := range r.opts.ShowIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		show, err := r.builder.catalog.Show(ctx, id)
		if err != nil {
			r.fail(services.Wrap(services.ErrNotFound, "builder", "resolve show set", fmt.Sprintf("show %d", id), err))
			continue
		}
		shows = append(shows, show)
	}
	return shows
}

// showMappings resolves and caches one show's mapping set for the run, so a
// prune pass and a build pass touching the same show do not recompute it.
func (r *run) showMappings(ctx context.Context, showID int64) ([]catalog.FileMapping, error) {
	if cached, ok := r.mappings.Load(showID); ok {
		return cached, nil
	}
	mappings, err := r.builder.catalog.FileMappings(ctx, showID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(mappings, func(i, j int) bool {
		a, b := mappings[i], mappings[j]
		if a.Coords.Season != b.Coords.Season {
			return a.Coords.Season < b.Coords.Season
		}
		if a.Coords.Episode != b.Coords.Episode {
			return a.Coords.Episode < b.Coords.Episode
		}
		return a.PartIndex < b.PartIndex
	})
	r.mappings.Store(showID, mappings)
	return mappings, nil
}

func (r *run) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err.Error())
}

func (r *run) warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
}

func (r *run) recordPath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[path] = struct{}{}
}

func (r *run) finish(started time.Time) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	paths := make([]string, 0, len(r.paths))
	for path := range r.paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return &Result{
		RunID:          r.runID,
		RootFolder:     r.builder.cfg.Paths.RootFolderName,
		ShowsProcessed: int(r.showsProcessed.Load()),
		DirsCreated:    int(r.dirsCreated.Load()),
		LinksCreated:   int(r.linksCreated.Load()),
		LinksPlanned:   int(r.linksPlanned.Load()),
		LinksSkipped:   int(r.linksSkipped.Load()),
		Paths:          paths,
		Warnings:       append([]string(nil), r.warns...),
		Errors:         append([]string(nil), r.errs...),
		Elapsed:        time.Since(started),
		ReportPath:     r.builder.cfg.ReportPath(),
	}
}
