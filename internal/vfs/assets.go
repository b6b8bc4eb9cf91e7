package vfs

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"linklib/internal/logging"
)

// companionBases are the artwork base names recognized next to episode files.
var companionBases = map[string]struct{}{
	"poster":    {},
	"folder":    {},
	"fanart":    {},
	"banner":    {},
	"clearlogo": {},
	"logo":      {},
}

const themeBase = "theme"

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".tbn":  {},
	".webp": {},
}

var audioExts = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".flac": {},
	".ogg":  {},
}

var subtitleExts = map[string]struct{}{
	".srt": {},
	".ass": {},
	".ssa": {},
	".sub": {},
	".vtt": {},
	".idx": {},
}

// companionFiles lists the artwork and theme candidates in dir. The directory
// is read once per run and shared across every mapping sourced from it.
func (r *run) companionFiles(dir string) []string {
	if cached, ok := r.companions.Load(dir); ok {
		return cached
	}
	names := scanDir(dir, isCompanionName)
	r.companions.Store(dir, names)
	return names
}

// subtitleFiles lists subtitle-suffixed entries in dir, cached per run.
func (r *run) subtitleFiles(dir string) []string {
	if cached, ok := r.subtitles.Load(dir); ok {
		return cached
	}
	names := scanDir(dir, func(name string) bool {
		_, ok := subtitleExts[strings.ToLower(filepath.Ext(name))]
		return ok
	})
	r.subtitles.Store(dir, names)
	return names
}

func scanDir(dir string, keep func(string) bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if keep(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names
}

func isCompanionName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	if _, ok := imageExts[ext]; ok {
		_, known := companionBases[base]
		return known
	}
	if _, ok := audioExts[ext]; ok {
		return base == themeBase
	}
	return false
}

// linkCompanions links the source directory's artwork and theme files into the
// show directory under their original names, once per (show, asset) pair.
func (r *run) linkCompanions(srcDir, showDir string, logger *slog.Logger) {
	for _, name := range r.companionFiles(srcDir) {
		dest := filepath.Join(showDir, name)
		if !r.claimAsset(dest) {
			continue
		}
		if err := TryCreateLink(filepath.Join(srcDir, name), dest); err != nil {
			r.warn("companion link " + dest + ": " + err.Error())
			logger.Warn("companion link failed", logging.String("dest", dest), logging.Error(err))
			continue
		}
		r.linksCreated.Add(1)
	}
}

// linkSubtitles links every subtitle sharing the episode file's base name into
// the season directory, carrying the language and format suffix over onto the
// generated base name.
func (r *run) linkSubtitles(srcDir, source, dest string, logger *slog.Logger) {
	sourceBase := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	destBase := strings.TrimSuffix(dest, filepath.Ext(dest))

	for _, name := range r.subtitleFiles(srcDir) {
		if len(name) <= len(sourceBase) || !baseNameMatches(name[:len(sourceBase)], sourceBase) {
			continue
		}
		suffix := name[len(sourceBase):]
		if !strings.HasPrefix(suffix, ".") {
			continue
		}
		target := destBase + suffix
		if !r.claimAsset(target) {
			continue
		}
		if err := TryCreateLink(filepath.Join(srcDir, name), target); err != nil {
			r.warn("subtitle link " + target + ": " + err.Error())
			logger.Warn("subtitle link failed", logging.String("dest", target), logging.Error(err))
			continue
		}
		r.linksCreated.Add(1)
	}
}

func baseNameMatches(a, b string) bool {
	if caseInsensitivePaths {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// claimAsset reports whether dest has not been linked yet this run.
func (r *run) claimAsset(dest string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assetsSeen[dest]; ok {
		return false
	}
	r.assetsSeen[dest] = struct{}{}
	return true
}
