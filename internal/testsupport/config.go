package testsupport

import (
	"path/filepath"
	"testing"

	"linklib/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DatabasePath = filepath.Join(base, "catalog.db")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Build.Workers = 2
	cfg.Watcher.DebounceMS = 20

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithRootFolderName overrides the generated tree's folder name.
func WithRootFolderName(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.RootFolderName = name
	}
}

// WithWorkers overrides build parallelism.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Build.Workers = workers
	}
}

// WithPlex points the config at a test media server and enables rescans.
func WithPlex(url, token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Plex.Enabled = true
		cfg.Plex.URL = url
		cfg.Plex.Token = token
	}
}
