package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"linklib/internal/catalog"
)

func openStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestShowRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.UpsertShow(ctx, catalog.Show{ID: 42, Title: "Cowboy Bebop"}); err != nil {
		t.Fatalf("UpsertShow: %v", err)
	}
	show, err := store.Show(ctx, 42)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if show.Title != "Cowboy Bebop" {
		t.Errorf("Title = %q", show.Title)
	}

	if _, err := store.Show(ctx, 7); !errors.Is(err, catalog.ErrShowNotFound) {
		t.Errorf("Show(7) = %v, want ErrShowNotFound", err)
	}
}

func TestFileMappingsOrderedAndHydrated(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.UpsertShow(ctx, catalog.Show{ID: 1, Title: "Test"}); err != nil {
		t.Fatalf("UpsertShow: %v", err)
	}
	mappings := []catalog.FileMapping{
		{
			FileID: 20,
			Coords: catalog.Coordinates{Season: 2, Episode: 1},
			Locations: []catalog.FileLocation{
				{AbsolutePath: "/media/anime/test/s2e1.mkv", RelativePath: "test/s2e1.mkv"},
			},
		},
		{
			FileID:       10,
			Coords:       catalog.Coordinates{Season: 1, Episode: 3, EndEpisode: 4},
			EpisodeTitle: "Double Feature",
			Locations: []catalog.FileLocation{
				{AbsolutePath: "/media/anime/test/s1e3-4.mkv", RelativePath: "test/s1e3-4.mkv"},
				{AbsolutePath: "/drop/test/s1e3-4.mkv", RelativePath: "test/s1e3-4.mkv", SourceOnly: true},
			},
		},
	}
	if err := store.ReplaceMappings(ctx, 1, mappings); err != nil {
		t.Fatalf("ReplaceMappings: %v", err)
	}

	got, err := store.FileMappings(ctx, 1)
	if err != nil {
		t.Fatalf("FileMappings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].FileID != 10 || got[1].FileID != 20 {
		t.Errorf("mappings not ordered by coordinates: %v, %v", got[0].FileID, got[1].FileID)
	}
	want := catalog.FileMapping{
		ShowID:       1,
		FileID:       10,
		Coords:       catalog.Coordinates{Season: 1, Episode: 3, EndEpisode: 4},
		EpisodeTitle: "Double Feature",
		Locations: []catalog.FileLocation{
			{AbsolutePath: "/media/anime/test/s1e3-4.mkv", RelativePath: "test/s1e3-4.mkv"},
			{AbsolutePath: "/drop/test/s1e3-4.mkv", RelativePath: "test/s1e3-4.mkv", SourceOnly: true},
		},
	}
	// cross_ref_count defaults to 1 at the schema level
	want.CrossRefCount = 1
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceMappingsIsIdempotent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.UpsertShow(ctx, catalog.Show{ID: 5}); err != nil {
		t.Fatalf("UpsertShow: %v", err)
	}
	m := []catalog.FileMapping{{
		FileID:    1,
		Coords:    catalog.Coordinates{Season: 1, Episode: 1},
		Locations: []catalog.FileLocation{{AbsolutePath: "/a/b.mkv"}},
	}}
	for i := 0; i < 2; i++ {
		if err := store.ReplaceMappings(ctx, 5, m); err != nil {
			t.Fatalf("ReplaceMappings #%d: %v", i+1, err)
		}
	}
	got, err := store.FileMappings(ctx, 5)
	if err != nil {
		t.Fatalf("FileMappings: %v", err)
	}
	if len(got) != 1 || len(got[0].Locations) != 1 {
		t.Errorf("expected single mapping with single location, got %+v", got)
	}
}

func TestExtrasLookup(t *testing.T) {
	info, ok := catalog.TryExtraSeason(catalog.SeasonTrailers)
	if !ok || info.FolderName != "Trailers" || info.NamePrefix != "T" {
		t.Errorf("TryExtraSeason(trailers) = %+v, %v", info, ok)
	}
	if _, ok := catalog.TryExtraSeason(1); ok {
		t.Error("season 1 must not resolve to an extras category")
	}
	if got := catalog.SeasonFolderName(3); got != "Season 03" {
		t.Errorf("SeasonFolderName(3) = %q", got)
	}
	if got := catalog.SeasonFolderName(catalog.SeasonShorts); got != "Shorts" {
		t.Errorf("SeasonFolderName(shorts) = %q", got)
	}
}
