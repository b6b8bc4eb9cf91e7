package vfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"linklib/internal/catalog"
)

// caseInsensitivePaths reports whether path suffix matching should ignore
// case, which is the common filesystem default on these platforms.
var caseInsensitivePaths = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// NormalizeSeparators rewrites both separator styles to the platform one so
// paths recorded on a different OS still match local state.
func NormalizeSeparators(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return filepath.FromSlash(path)
}

// ResolveImportRoot recovers the import root a file was scanned under by
// stripping the stored relative path from its absolute path. When the suffix
// does not match, the file's parent directory is used. Empty paths resolve to
// nothing.
func ResolveImportRoot(loc catalog.FileLocation) string {
	absolute := NormalizeSeparators(strings.TrimSpace(loc.AbsolutePath))
	if absolute == "" {
		return ""
	}
	relative := NormalizeSeparators(strings.TrimSpace(loc.RelativePath))
	if relative != "" {
		relative = strings.TrimLeft(relative, string(filepath.Separator))
		if hasPathSuffix(absolute, relative) {
			root := absolute[:len(absolute)-len(relative)]
			root = strings.TrimRight(root, string(filepath.Separator))
			if root != "" {
				return root
			}
		}
	}
	return filepath.Dir(absolute)
}

// hasPathSuffix reports whether suffix matches whole trailing path components
// of path. A match that splits a component, like "Show/ep.mkv" against
// "/media/MyShow/ep.mkv", is not a suffix.
func hasPathSuffix(path, suffix string) bool {
	if len(suffix) == 0 || len(suffix) >= len(path) {
		return false
	}
	if path[len(path)-len(suffix)-1] != filepath.Separator {
		return false
	}
	tail := path[len(path)-len(suffix):]
	if caseInsensitivePaths {
		return strings.EqualFold(tail, suffix)
	}
	return tail == suffix
}

// ResolveSourcePath picks the on-disk location to link against: the recorded
// absolute path when it still exists, otherwise a candidate reconstructed from
// the import root plus relative path. Returns false when neither exists.
func ResolveSourcePath(loc catalog.FileLocation, importRoot string) (string, bool) {
	absolute := NormalizeSeparators(strings.TrimSpace(loc.AbsolutePath))
	if absolute != "" && pathExists(absolute) {
		return absolute, true
	}
	relative := NormalizeSeparators(strings.TrimSpace(loc.RelativePath))
	if importRoot == "" || relative == "" {
		return "", false
	}
	candidate := filepath.Join(importRoot, relative)
	if pathExists(candidate) {
		return candidate, true
	}
	return "", false
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// TryCreateLink replaces whatever sits at dest with a symbolic link pointing
// at source. The link target is stored relative to dest's directory so the
// tree survives being moved or mounted elsewhere.
func TryCreateLink(source, dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("remove existing destination %s: %w", dest, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("inspect destination %s: %w", dest, err)
	}

	target := source
	if rel, err := filepath.Rel(filepath.Dir(dest), source); err == nil {
		target = rel
	}
	if err := os.Symlink(target, dest); err != nil {
		return fmt.Errorf("create link %s -> %s: %w", dest, target, err)
	}
	return nil
}

// IsSafeToDelete refuses exactly one class of path: the root of its volume.
// Every other path is allowed; confining deletions to the VFS tree is the
// caller's responsibility.
func IsSafeToDelete(path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}
	resolved, err := filepath.Abs(NormalizeSeparators(path))
	if err != nil {
		return false
	}
	if eval, err := filepath.EvalSymlinks(resolved); err == nil {
		resolved = eval
	}
	resolved = filepath.Clean(resolved)
	volumeRoot := filepath.VolumeName(resolved) + string(filepath.Separator)
	return resolved != volumeRoot
}
