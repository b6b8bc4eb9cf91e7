package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"linklib/internal/catalog"
	"linklib/internal/config"
	"linklib/internal/logging"
	"linklib/internal/vfs"
)

type mappingCall struct {
	showID int64
	at     time.Time
}

type fakeCatalog struct {
	shows    map[int64]*catalog.Show
	mappings map[int64][]catalog.FileMapping

	mappingCalls atomic.Int64
	mu           sync.Mutex
	callLog      []mappingCall
}

func (c *fakeCatalog) calls() []mappingCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]mappingCall(nil), c.callLog...)
}

func (c *fakeCatalog) Show(_ context.Context, id int64) (*catalog.Show, error) {
	show, ok := c.shows[id]
	if !ok {
		return nil, fmt.Errorf("show %d: not found", id)
	}
	return show, nil
}

func (c *fakeCatalog) AllShows(context.Context) ([]*catalog.Show, error) {
	var out []*catalog.Show
	for _, show := range c.shows {
		out = append(out, show)
	}
	return out, nil
}

func (c *fakeCatalog) FileMappings(_ context.Context, showID int64) ([]catalog.FileMapping, error) {
	c.mappingCalls.Add(1)
	c.mu.Lock()
	c.callLog = append(c.callLog, mappingCall{showID: showID, at: time.Now()})
	c.mu.Unlock()
	return append([]catalog.FileMapping(nil), c.mappings[showID]...), nil
}

type fakePlex struct {
	mu          sync.Mutex
	refreshed   []string
	collections []string
}

func (p *fakePlex) RefreshPath(_ context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshed = append(p.refreshed, path)
	return nil
}

func (p *fakePlex) ReconcileCollection(_ context.Context, _ int64, title string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.collections = append(p.collections, title)
	return nil
}

func (p *fakePlex) refreshCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.refreshed)
}

func newTestWatcher(t *testing.T, root string, cat *fakeCatalog) (*Watcher, *fakePlex) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Build.Workers = 2
	cfg.Watcher.DebounceMS = 20
	cfg.Watcher.AutoRescan = true

	logger := logging.NewNop()
	builder := vfs.New(&cfg, cat, logger)
	plexStub := &fakePlex{}
	w, err := New(&cfg, builder, cat, plexStub, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w, plexStub
}

func writeSource(t *testing.T, root, rel string) catalog.FileMapping {
	t.Helper()
	abs := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return catalog.FileMapping{
		ShowID:        1,
		FileID:        101,
		Coords:        catalog.Coordinates{Season: 1, Episode: 1},
		CrossRefCount: 1,
		Locations:     []catalog.FileLocation{{AbsolutePath: abs, RelativePath: rel}},
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWatcherCoalescesBurst(t *testing.T) {
	root := t.TempDir()
	cat := &fakeCatalog{
		shows: map[int64]*catalog.Show{1: {ID: 1, Title: "Show A"}},
		mappings: map[int64][]catalog.FileMapping{
			1: {writeSource(t, root, filepath.Join("Show A", "ep1.mkv"))},
		},
	}
	w, plexStub := newTestWatcher(t, root, cat)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	for i := 0; i < 3; i++ {
		w.Notify(catalog.ChangeEvent{Kind: catalog.ChangeMatched, ShowIDs: []int64{1}})
	}

	link := filepath.Join(root, "vfs", "1", "Season 01", "S01E01 [101].mkv")
	waitFor(t, "link creation", func() bool {
		_, err := os.Lstat(link)
		return err == nil
	})
	waitFor(t, "media server refresh", func() bool { return plexStub.refreshCount() > 0 })
	waitFor(t, "drain completion", func() bool { return w.Pending() == 0 })

	// One burst of notifications resolves the show's mappings once.
	if calls := cat.mappingCalls.Load(); calls != 1 {
		t.Errorf("FileMappings calls = %d, want 1", calls)
	}
}

func TestWatcherRebuildsBacklogOneShowPerWindow(t *testing.T) {
	root := t.TempDir()
	m1 := writeSource(t, root, filepath.Join("Show A", "ep1.mkv"))
	m2 := writeSource(t, root, filepath.Join("Show B", "ep1.mkv"))
	m2.ShowID = 2
	m2.FileID = 102
	cat := &fakeCatalog{
		shows: map[int64]*catalog.Show{
			1: {ID: 1, Title: "Show A"},
			2: {ID: 2, Title: "Show B"},
		},
		mappings: map[int64][]catalog.FileMapping{1: {m1}, 2: {m2}},
	}
	w, _ := newTestWatcher(t, root, cat)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	w.Notify(catalog.ChangeEvent{Kind: catalog.ChangeMatched, ShowIDs: []int64{2, 1}})
	waitFor(t, "both rebuilds", func() bool { return cat.mappingCalls.Load() == 2 })

	calls := cat.calls()
	if len(calls) != 2 || calls[0].showID != 1 || calls[1].showID != 2 {
		t.Fatalf("rebuild order = %+v, want show 1 then show 2", calls)
	}
	// A full debounce window separates consecutive rebuilds.
	debounce := time.Duration(w.cfg.Watcher.DebounceMS) * time.Millisecond
	if gap := calls[1].at.Sub(calls[0].at); gap < debounce {
		t.Errorf("gap between rebuilds = %v, want at least %v", gap, debounce)
	}
}

func TestWatcherHandlesUnknownShow(t *testing.T) {
	cat := &fakeCatalog{shows: map[int64]*catalog.Show{}}
	w, _ := newTestWatcher(t, t.TempDir(), cat)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	w.Notify(catalog.ChangeEvent{Kind: catalog.ChangeDeleted, ShowIDs: []int64{42}})
	waitFor(t, "drain completion", func() bool { return w.Pending() == 0 })
}

func TestWatcherDrainsNotificationsReceivedBeforeStart(t *testing.T) {
	root := t.TempDir()
	cat := &fakeCatalog{
		shows: map[int64]*catalog.Show{1: {ID: 1, Title: "Show A"}},
		mappings: map[int64][]catalog.FileMapping{
			1: {writeSource(t, root, filepath.Join("Show A", "ep1.mkv"))},
		},
	}
	w, _ := newTestWatcher(t, root, cat)

	w.Notify(catalog.ChangeEvent{Kind: catalog.ChangeMatched, ShowIDs: []int64{1}})
	if w.Pending() != 1 {
		t.Fatalf("Pending() = %d before start, want 1", w.Pending())
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	link := filepath.Join(root, "vfs", "1", "Season 01", "S01E01 [101].mkv")
	waitFor(t, "link creation", func() bool {
		_, err := os.Lstat(link)
		return err == nil
	})
}

func TestWatcherStopDuringEnqueueBurst(t *testing.T) {
	cat := &fakeCatalog{shows: map[int64]*catalog.Show{}}
	w, _ := newTestWatcher(t, t.TempDir(), cat)

	for i := 0; i < 20; i++ {
		if err := w.Start(context.Background()); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			for id := int64(1); id <= 50; id++ {
				w.Enqueue(id)
			}
		}()
		w.Stop()
		<-done
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	cat := &fakeCatalog{shows: map[int64]*catalog.Show{}}
	w, _ := newTestWatcher(t, t.TempDir(), cat)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	w.Stop()
	w.Stop()

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	w.Stop()
}
