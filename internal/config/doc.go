// Package config loads, normalizes, and validates linklib configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// build engine, watcher, and daemon need; it is passed explicitly into each
// component at construction so nothing reads ambient global state.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
