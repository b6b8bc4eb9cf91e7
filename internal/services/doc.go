// Package services defines shared utilities consumed by the build engine,
// watcher, and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp show IDs and build run IDs for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across components.
//
// Use these helpers when wiring new engine logic so operational behaviour
// (error handling, observability) stays uniform.
package services
