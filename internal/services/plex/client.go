package plex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"linklib/internal/config"
)

// Service defines the media-server operations used after a show rebuild.
type Service interface {
	// RefreshPath asks the server to rescan the library section containing path.
	RefreshPath(ctx context.Context, path string) error
	// ReconcileCollection ensures the show's collection membership and poster
	// reflect the current catalog state.
	ReconcileCollection(ctx context.Context, showID int64, title string) error
}

// Client is an HTTP implementation of Service against a Plex server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient constructs a Plex client from explicit settings.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewConfiguredService returns the HTTP client when plex is enabled and a
// no-op service otherwise.
func NewConfiguredService(cfg *config.Config) Service {
	if cfg == nil || !cfg.Plex.Enabled {
		return NoopService{}
	}
	return NewClient(cfg.Plex.URL, cfg.Plex.Token, time.Duration(cfg.Plex.RequestTimeout)*time.Second)
}

func (c *Client) enabled() bool {
	return c != nil && c.baseURL != "" && c.token != ""
}

// RefreshPath triggers /library/sections/all/refresh for the given path. When
// path looks like a file its parent directory is tried first.
func (c *Client) RefreshPath(ctx context.Context, path string) error {
	if !c.enabled() {
		return fmt.Errorf("plex not configured")
	}
	path = filepath.Clean(strings.TrimSpace(path))
	if path == "." || path == "/" || path == "" {
		return fmt.Errorf("invalid refresh path %q", path)
	}

	candidates := []string{path}
	if ext := filepath.Ext(path); ext != "" {
		if dir := filepath.Dir(path); dir != "." && dir != "/" {
			candidates = append([]string{dir}, candidates...)
		}
	}

	var lastErr error
	seen := map[string]bool{}
	for _, candidate := range candidates {
		candidate = filepath.Clean(candidate)
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		if err := c.refreshOnce(ctx, candidate); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no refresh candidates for %q", path)
	}
	return lastErr
}

func (c *Client) refreshOnce(ctx context.Context, path string) error {
	u, err := url.Parse(c.baseURL + "/library/sections/all/refresh")
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("path", path)
	u.RawQuery = q.Encode()
	return c.call(ctx, http.MethodGet, u)
}

// ReconcileCollection creates or updates the show collection named title.
func (c *Client) ReconcileCollection(ctx context.Context, showID int64, title string) error {
	if !c.enabled() {
		return fmt.Errorf("plex not configured")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Show " + strconv.FormatInt(showID, 10)
	}
	u, err := url.Parse(c.baseURL + "/library/collections")
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("type", "2")
	q.Set("title", title)
	q.Set("smart", "0")
	u.RawQuery = q.Encode()
	return c.call(ctx, http.MethodPost, u)
}

func (c *Client) call(ctx context.Context, method string, u *url.URL) error {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Plex-Token", c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("plex %s %s: status=%d", method, u.Path, resp.StatusCode)
	}
	return nil
}

// NoopService satisfies Service for deployments without a media server.
type NoopService struct{}

func (NoopService) RefreshPath(context.Context, string) error { return nil }

func (NoopService) ReconcileCollection(context.Context, int64, string) error { return nil }
