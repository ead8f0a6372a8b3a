// Package file provides the TOML-backed configuration store.
//
// Configuration lives at ~/.worknorm/config.toml by default. A missing file
// is not an error: every accessor falls back to built-in defaults, so a
// fresh install works with no config at all.
package file
