// Package plex talks to the downstream media server on behalf of the build
// engine and watcher.
//
// The Service interface carries only the two operations the core needs:
// best-effort path rescans after a rebuild, and per-show collection/poster
// reconciliation. A no-op implementation backs deployments without a media
// server so callers never branch on configuration themselves.
package plex
