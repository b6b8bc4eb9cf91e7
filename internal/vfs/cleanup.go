package vfs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"linklib/internal/catalog"
	"linklib/internal/logging"
	"linklib/internal/services"
)

// cleanShow tears down generated state ahead of relinking. Every candidate
// path is claimed through the run's singleflight registry, so concurrent show
// workers sharing an import root delete each tree exactly once and latecomers
// wait for the first deletion instead of racing it.
func (r *run) cleanShow(show *catalog.Show, mappings []catalog.FileMapping, logger *slog.Logger) {
	rootFolder := r.builder.cfg.Paths.RootFolderName
	for _, importRoot := range importRoots(mappings) {
		var target string
		switch r.opts.Clean {
		case CleanRoot:
			target = filepath.Join(importRoot, rootFolder)
		case CleanShow:
			target = filepath.Join(importRoot, rootFolder, strconv.FormatInt(show.ID, 10))
		default:
			return
		}
		if err := r.claimDelete(target); err != nil {
			r.fail(fmt.Errorf("show %d: %w", show.ID, err))
			continue
		}
		logger.Debug("cleaned tree", logging.String("path", target))
	}
}

// claimDelete deletes one tree at most once per run. Concurrent claims for
// the same cleaned path wait on the in-flight deletion; later claims get the
// memoized outcome so an already rebuilt tree is never deleted again.
func (r *run) claimDelete(path string) error {
	cleaned := filepath.Clean(NormalizeSeparators(path))
	if err, done := r.claimOutcome(cleaned); done {
		return err
	}
	_, err, _ := r.claims.Do(cleaned, func() (any, error) {
		// Same-key executions never overlap, so a memo hit here means a
		// previous flight already completed the deletion.
		if err, done := r.claimOutcome(cleaned); done {
			return nil, err
		}
		err := removeTree(cleaned)
		r.mu.Lock()
		r.claimed[cleaned] = err
		r.mu.Unlock()
		return nil, err
	})
	return err
}

func (r *run) claimOutcome(path string) (error, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	err, ok := r.claimed[path]
	return err, ok
}

// removeTree deletes path recursively. Refusals from the volume-root guard
// are reported, never silently swallowed.
func removeTree(path string) error {
	if !IsSafeToDelete(path) {
		return services.Wrap(services.ErrSafety, "builder", "clean", fmt.Sprintf("refusing to delete %s", path), nil)
	}
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return services.Wrap(services.ErrFilesystem, "builder", "clean", fmt.Sprintf("inspect %s", path), err)
	}
	if err := os.RemoveAll(path); err != nil {
		return services.Wrap(services.ErrFilesystem, "builder", "clean", fmt.Sprintf("delete %s", path), err)
	}
	return nil
}

// importRoots returns the distinct import roots the mappings span, in sorted
// order. Source-managed locations still contribute a root so stale trees
// beneath them get pruned.
func importRoots(mappings []catalog.FileMapping) []string {
	seen := make(map[string]struct{})
	for _, m := range mappings {
		for _, loc := range m.Locations {
			root := ResolveImportRoot(loc)
			if root == "" {
				continue
			}
			seen[root] = struct{}{}
		}
	}
	roots := make([]string, 0, len(seen))
	for root := range seen {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}
