package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"linklib/internal/api"
	"linklib/internal/catalog"
	"linklib/internal/testsupport"
)

func startDaemonWithShow(t *testing.T) (*Daemon, string, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	d := newTestDaemon(t, cfg)

	root := t.TempDir()
	mapping := testsupport.EpisodeFixture(t, root, 1, 101, 1, 1, filepath.Join("Show A", "ep1.mkv"))
	testsupport.SeedShow(t, d.store, catalog.Show{ID: 1, Title: "Show A"}, []catalog.FileMapping{mapping})

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	base := fmt.Sprintf("http://%s", d.apiSrv.listener.Addr().String())
	return d, base, root
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAPIHealth(t *testing.T) {
	d, base, _ := startDaemonWithShow(t)
	defer d.Stop()

	resp, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAPIBuild(t *testing.T) {
	d, base, root := startDaemonWithShow(t)
	defer d.Stop()

	resp := postJSON(t, base+"/api/build", api.BuildRequest{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var payload api.BuildResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.LinksCreated != 1 || len(payload.Errors) != 0 {
		t.Errorf("response = created %d, errors %v", payload.LinksCreated, payload.Errors)
	}
	if _, err := os.Lstat(filepath.Join(root, "vfs", "1", "Season 01", "S01E01 [101].mkv")); err != nil {
		t.Errorf("expected link to exist: %v", err)
	}
}

func TestAPIBuildRejectsBadCleanMode(t *testing.T) {
	d, base, _ := startDaemonWithShow(t)
	defer d.Stop()

	resp := postJSON(t, base+"/api/build", api.BuildRequest{Clean: "everything"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAPICleanRemovesTree(t *testing.T) {
	d, base, root := startDaemonWithShow(t)
	defer d.Stop()

	if resp := postJSON(t, base+"/api/build", api.BuildRequest{}); resp.StatusCode != http.StatusOK {
		t.Fatalf("build status = %d", resp.StatusCode)
	}
	if resp := postJSON(t, base+"/api/clean", api.BuildRequest{}); resp.StatusCode != http.StatusOK {
		t.Fatalf("clean status = %d", resp.StatusCode)
	}
	if _, err := os.Lstat(filepath.Join(root, "vfs")); !os.IsNotExist(err) {
		t.Errorf("expected tree to be removed, got err=%v", err)
	}
}

func TestAPINotifyAccepted(t *testing.T) {
	d, base, _ := startDaemonWithShow(t)
	defer d.Stop()

	resp := postJSON(t, base+"/api/notify", api.NotifyRequest{Kind: "matched", ShowIDs: []int64{1}})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	var payload api.NotifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Accepted != 1 {
		t.Errorf("accepted = %d, want 1", payload.Accepted)
	}
}

func TestAPINotifyRequiresShowIDs(t *testing.T) {
	d, base, _ := startDaemonWithShow(t)
	defer d.Stop()

	resp := postJSON(t, base+"/api/notify", api.NotifyRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAPIStatus(t *testing.T) {
	d, base, _ := startDaemonWithShow(t)
	defer d.Stop()

	resp, err := http.Get(base + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status: %v", err)
	}
	defer resp.Body.Close()
	var payload api.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Running {
		t.Error("status reports not running")
	}
	if payload.DatabasePath == "" {
		t.Error("status missing database path")
	}
}
