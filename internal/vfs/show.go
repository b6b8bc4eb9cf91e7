package vfs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"linklib/internal/catalog"
	"linklib/internal/logging"
	"linklib/internal/services"
)

// coordKey groups mappings by their raw broadcast coordinates. Extended
// episode ranges do not widen the group; two files claiming the same
// (season, episode) compete for the same name.
type coordKey struct {
	season  int
	episode int
}

// showNaming carries the per-show disambiguation state. A show is processed
// by exactly one goroutine, so none of this needs locking.
type showNaming struct {
	pad         int
	groupCounts map[coordKey]int
	versionSeen map[coordKey]int
	extraPads   map[catalog.ExtraCategory]int
}

func newShowNaming(mappings []catalog.FileMapping) *showNaming {
	n := &showNaming{
		groupCounts: make(map[coordKey]int),
		versionSeen: make(map[coordKey]int),
		extraPads:   make(map[catalog.ExtraCategory]int),
	}

	var standard []catalog.FileMapping
	extraCounts := make(map[catalog.ExtraCategory]int)
	for _, m := range mappings {
		n.groupCounts[coordKey{m.Coords.Season, m.Coords.Episode}]++
		if extra, ok := catalog.TryExtraSeason(m.Coords.Season); ok {
			extraCounts[extra.Category]++
			continue
		}
		standard = append(standard, m)
	}

	n.pad = EpisodePad(standard)
	for category, count := range extraCounts {
		n.extraPads[category] = ExtraPad(count)
	}
	return n
}

// versionIndex reserves the next alternate-version slot for a contested
// coordinate group. Declared parts never consume a slot; a lone mapping gets
// no suffix at all.
func (n *showNaming) versionIndex(m catalog.FileMapping) int {
	key := coordKey{m.Coords.Season, m.Coords.Episode}
	if n.groupCounts[key] < 2 || m.IsPart() {
		return 0
	}
	n.versionSeen[key]++
	return n.versionSeen[key]
}

// processShow rebuilds one show's slice of the tree: optional cleanup, then
// directory creation and linking mapping by mapping. A panic while processing
// is confined to the show and recorded as an error.
func (r *run) processShow(ctx context.Context, show *catalog.Show) {
	ctx = services.WithShowID(ctx, show.ID)
	logger := logging.WithContext(ctx, r.builder.logger)

	defer func() {
		if recovered := recover(); recovered != nil {
			r.fail(fmt.Errorf("show %d (%s): panic: %v", show.ID, show.Title, recovered))
			logger.Error("show processing panicked", logging.Any("panic", recovered))
		}
	}()

	mappings, err := r.showMappings(ctx, show.ID)
	if err != nil {
		r.fail(services.Wrap(services.ErrTransient, "builder", "load mappings", fmt.Sprintf("show %d", show.ID), err))
		return
	}

	if r.opts.Clean != CleanNone {
		r.cleanShow(show, mappings, logger)
	}
	if r.opts.CleanOnly {
		r.showsProcessed.Add(1)
		return
	}

	naming := newShowNaming(mappings)
	linked := 0
	for _, m := range mappings {
		if ctx.Err() != nil {
			return
		}
		if r.linkMapping(show, m, naming, logger) {
			linked++
		}
	}

	r.showsProcessed.Add(1)
	logger.Debug("show linked",
		logging.String("title", show.Title),
		logging.Int("mappings", len(mappings)),
		logging.Int("linked", linked),
	)
}

// linkMapping places one mapping's primary symlink plus its companion assets.
// Returns true when the primary link was created.
func (r *run) linkMapping(show *catalog.Show, m catalog.FileMapping, naming *showNaming, logger *slog.Logger) bool {
	r.linksPlanned.Add(1)

	source, importRoot, err := r.resolveSource(m)
	if err != nil {
		r.linksSkipped.Add(1)
		r.fail(fmt.Errorf("show %d file %d: %w", show.ID, m.FileID, err))
		return false
	}

	showDir := filepath.Join(importRoot, r.builder.cfg.Paths.RootFolderName, strconv.FormatInt(show.ID, 10))
	seasonDir := filepath.Join(showDir, catalog.SeasonFolderName(m.Coords.Season))
	if err := r.ensureDir(seasonDir); err != nil {
		r.linksSkipped.Add(1)
		r.fail(services.Wrap(services.ErrFilesystem, "builder", "create directories", seasonDir, err))
		return false
	}
	r.recordPath(showDir)

	name := r.destinationName(show, m, naming, source)
	dest := filepath.Join(seasonDir, name)
	if err := TryCreateLink(source, dest); err != nil {
		r.linksSkipped.Add(1)
		r.fail(services.Wrap(services.ErrFilesystem, "builder", "create link", dest, err))
		return false
	}
	r.linksCreated.Add(1)

	// Crossover mappings link the episode file into every show claiming it;
	// none of the claiming shows carries the file's artwork or subtitles.
	if !m.IsCrossover() {
		srcDir := filepath.Dir(source)
		r.linkCompanions(srcDir, showDir, logger)
		r.linkSubtitles(srcDir, source, dest, logger)
	}
	return true
}

// resolveSource picks the first location that still exists on disk, skipping
// locations confined to source-managed folders.
func (r *run) resolveSource(m catalog.FileMapping) (source, importRoot string, err error) {
	sourceOnly := 0
	for _, loc := range m.Locations {
		if loc.SourceOnly {
			sourceOnly++
			continue
		}
		root := ResolveImportRoot(loc)
		if src, ok := ResolveSourcePath(loc, root); ok {
			return src, root, nil
		}
	}
	if sourceOnly > 0 && sourceOnly == len(m.Locations) {
		return "", "", fmt.Errorf("all %d locations are source-managed", sourceOnly)
	}
	return "", "", fmt.Errorf("no existing source among %d locations", len(m.Locations))
}

func (r *run) destinationName(show *catalog.Show, m catalog.FileMapping, naming *showNaming, source string) string {
	ext := filepath.Ext(source)
	version := naming.versionIndex(m)

	if extra, ok := catalog.TryExtraSeason(m.Coords.Season); ok {
		return BuildExtrasFileName(m, extra, naming.extraPads[extra.Category], ext, show.Title, version)
	}
	return BuildStandardFileName(m, naming.pad, ext, m.IsPart(), version)
}

// ensureDir creates path and counts each directory level the run materializes
// exactly once, no matter how many mappings share it.
func (r *run) ensureDir(path string) error {
	r.mu.Lock()
	_, seen := r.dirsSeen[path]
	if !seen {
		r.dirsSeen[path] = struct{}{}
	}
	r.mu.Unlock()
	if seen {
		return nil
	}

	created := 0
	for probe := path; ; probe = filepath.Dir(probe) {
		if pathExists(probe) || probe == filepath.Dir(probe) {
			break
		}
		created++
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	if created > 0 {
		r.dirsCreated.Add(int64(created))
	}
	return nil
}
