// Package api exposes the build engine and watcher as a small service layer
// shared by the HTTP server and the CLI.
package api

import (
	"context"
	"fmt"
	"strings"

	"linklib/internal/catalog"
	"linklib/internal/services"
	"linklib/internal/vfs"
	"linklib/internal/watcher"
)

// BuildService validates API requests and dispatches them to the engine.
type BuildService struct {
	builder *vfs.Builder
	watcher *watcher.Watcher
}

// NewBuildService wires the service. The watcher may be nil when change
// notifications are not served, for example in one-shot CLI runs.
func NewBuildService(builder *vfs.Builder, w *watcher.Watcher) *BuildService {
	return &BuildService{builder: builder, watcher: w}
}

// ParseCleanMode maps the wire value onto an engine clean mode.
func ParseCleanMode(value string) (vfs.CleanMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return vfs.CleanNone, nil
	case "root":
		return vfs.CleanRoot, nil
	case "show":
		return vfs.CleanShow, nil
	default:
		return vfs.CleanNone, services.Wrap(services.ErrValidation, "api", "parse request", fmt.Sprintf("unknown clean mode %q", value), nil)
	}
}

// Build runs a synchronization pass described by the request.
func (s *BuildService) Build(ctx context.Context, req BuildRequest) (BuildResponse, error) {
	mode, err := ParseCleanMode(req.Clean)
	if err != nil {
		return BuildResponse{}, err
	}
	if req.CleanOnly && mode == vfs.CleanNone {
		return BuildResponse{}, services.Wrap(services.ErrValidation, "api", "parse request", "clean_only requires a clean mode", nil)
	}
	res := s.builder.Build(ctx, vfs.Options{ShowIDs: req.ShowIDs, Clean: mode, CleanOnly: req.CleanOnly})
	return FromResult(res), nil
}

// Clean tears down generated trees without rebuilding them.
func (s *BuildService) Clean(ctx context.Context, showIDs []int64) (BuildResponse, error) {
	res := s.builder.CleanShowTree(ctx, showIDs)
	return FromResult(res), nil
}

// Notify forwards a catalog change to the watcher.
func (s *BuildService) Notify(req NotifyRequest) (NotifyResponse, error) {
	if s.watcher == nil {
		return NotifyResponse{}, services.Wrap(services.ErrConfiguration, "api", "notify", "change watcher not running", nil)
	}
	if len(req.ShowIDs) == 0 {
		return NotifyResponse{}, services.Wrap(services.ErrValidation, "api", "notify", "show_ids is required", nil)
	}
	s.watcher.Notify(catalog.ChangeEvent{Kind: catalog.ChangeKind(req.Kind), ShowIDs: req.ShowIDs})
	return NotifyResponse{Accepted: len(req.ShowIDs), Pending: s.watcher.Pending()}, nil
}
