// Package catalog holds the logical show/file data model the VFS engine
// consumes, the change-event types the watcher subscribes to, and a
// SQLite-backed store implementing the Catalog interface.
//
// The engine never talks to SQLite directly; it depends only on Catalog so
// tests and alternative backends can swap in freely. Coordinate assignment
// (which season/episode a file belongs to) happens upstream; this package
// stores and serves placement decisions, it never makes them.
package catalog
