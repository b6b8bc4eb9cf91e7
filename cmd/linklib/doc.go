// Command linklib is the CLI entry point: one-shot build and clean passes,
// the foreground daemon, and thin HTTP clients for a running daemon's API.
package main
