package vfs

import (
	"context"
	"path/filepath"
	"testing"

	"linklib/internal/catalog"
)

func TestRebuildShowPrunesStaleEntries(t *testing.T) {
	root := t.TempDir()
	cat := &memoryCatalog{
		shows: []*catalog.Show{{ID: 1, Title: "Show A"}},
		mappings: map[int64][]catalog.FileMapping{
			1: {sourceMapping(t, root, 1, 101, 1, 1, filepath.Join("Show A", "ep1.mkv"))},
		},
	}
	b := newTestBuilder(t, cat)

	if res := b.Build(context.Background(), Options{}); len(res.Errors) != 0 {
		t.Fatalf("initial build errors: %v", res.Errors)
	}
	stale := filepath.Join(showDir(root, 1), "Season 01", "S01E09 [999].mkv")
	mustWriteFile(t, stale)

	res := b.RebuildShow(context.Background(), 1)

	if len(res.Errors) != 0 {
		t.Fatalf("rebuild errors: %v", res.Errors)
	}
	assertMissing(t, stale)
	assertExists(t, filepath.Join(showDir(root, 1), "Season 01", "S01E01 [101].mkv"))
}

func TestCleanShowLeavesSiblingsIntact(t *testing.T) {
	root := t.TempDir()
	cat := &memoryCatalog{
		shows: []*catalog.Show{{ID: 1, Title: "Show A"}, {ID: 2, Title: "Show B"}},
		mappings: map[int64][]catalog.FileMapping{
			1: {sourceMapping(t, root, 1, 101, 1, 1, filepath.Join("Show A", "ep1.mkv"))},
			2: {sourceMapping(t, root, 2, 201, 1, 1, filepath.Join("Show B", "ep1.mkv"))},
		},
	}
	b := newTestBuilder(t, cat)

	if res := b.Build(context.Background(), Options{}); len(res.Errors) != 0 {
		t.Fatalf("initial build errors: %v", res.Errors)
	}

	res := b.CleanShowTree(context.Background(), []int64{1})

	if len(res.Errors) != 0 {
		t.Fatalf("clean errors: %v", res.Errors)
	}
	assertMissing(t, showDir(root, 1))
	assertExists(t, filepath.Join(showDir(root, 2), "Season 01", "S01E01 [201].mkv"))
}

func TestCleanRootRemovesWholeTree(t *testing.T) {
	root := t.TempDir()
	cat := &memoryCatalog{
		shows: []*catalog.Show{{ID: 1, Title: "Show A"}},
		mappings: map[int64][]catalog.FileMapping{
			1: {sourceMapping(t, root, 1, 101, 1, 1, filepath.Join("Show A", "ep1.mkv"))},
		},
	}
	b := newTestBuilder(t, cat)

	if res := b.Build(context.Background(), Options{}); len(res.Errors) != 0 {
		t.Fatalf("initial build errors: %v", res.Errors)
	}

	res := b.CleanShowTree(context.Background(), nil)

	if len(res.Errors) != 0 {
		t.Fatalf("clean errors: %v", res.Errors)
	}
	assertMissing(t, filepath.Join(root, "vfs"))
	// Source files are never touched by cleanup.
	assertExists(t, filepath.Join(root, "Show A", "ep1.mkv"))
}

// With a whole-root clean, shows sharing an import root each claim the same
// root path. The claim registry must serve the second claim from the first
// deletion instead of wiping links the first show already rebuilt.
func TestCleanRootClaimedOncePerRun(t *testing.T) {
	root := t.TempDir()
	cat := &memoryCatalog{
		shows: []*catalog.Show{{ID: 1, Title: "Show A"}, {ID: 2, Title: "Show B"}},
		mappings: map[int64][]catalog.FileMapping{
			1: {sourceMapping(t, root, 1, 101, 1, 1, filepath.Join("Show A", "ep1.mkv"))},
			2: {sourceMapping(t, root, 2, 201, 1, 1, filepath.Join("Show B", "ep1.mkv"))},
		},
	}
	b := newTestBuilder(t, cat)

	for i := 0; i < 5; i++ {
		res := b.Build(context.Background(), Options{Clean: CleanRoot})
		if len(res.Errors) != 0 {
			t.Fatalf("build errors: %v", res.Errors)
		}
		assertExists(t, filepath.Join(showDir(root, 1), "Season 01", "S01E01 [101].mkv"))
		assertExists(t, filepath.Join(showDir(root, 2), "Season 01", "S01E01 [201].mkv"))
	}
}

func TestRemoveTreeRefusesVolumeRoot(t *testing.T) {
	err := removeTree(string(filepath.Separator))
	if err == nil {
		t.Fatal("removeTree accepted the volume root")
	}
}

func TestRemoveTreeMissingPathIsNoop(t *testing.T) {
	if err := removeTree(filepath.Join(t.TempDir(), "never-created")); err != nil {
		t.Fatalf("removeTree() error = %v", err)
	}
}
