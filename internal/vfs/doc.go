// Package vfs is the synchronization engine behind the generated symlink tree.
//
// Given a catalog of shows and file mappings it computes the on-disk target
// layout, creates and refreshes symlinks plus companion assets, and tears
// down stale state safely. A Builder instance is stateless between runs; each
// Build call carries its own caches, counters, and cleanup-claim registry so
// overlapping per-show rebuilds never share mutable state.
//
// The package splits into path/link utilities (import-root and source
// resolution, idempotent symlinking, deletion guards), the naming engine
// (collision-free destination names with part/version disambiguation and
// extras styling), and the build engine itself (parallel per-show passes,
// cleanup claims, reporting).
package vfs
