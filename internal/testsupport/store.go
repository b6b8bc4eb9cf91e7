package testsupport

import (
	"context"
	"testing"

	"linklib/internal/catalog"
	"linklib/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg.Paths.DatabasePath)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedShow registers a show with its mappings using the provided store.
func SeedShow(t testing.TB, store *catalog.Store, show catalog.Show, mappings []catalog.FileMapping) {
	t.Helper()

	ctx := context.Background()
	if err := store.UpsertShow(ctx, show); err != nil {
		t.Fatalf("store.UpsertShow: %v", err)
	}
	if err := store.ReplaceMappings(ctx, show.ID, mappings); err != nil {
		t.Fatalf("store.ReplaceMappings: %v", err)
	}
}
