// Package config reads Fetchy's process-wide configuration exactly once,
// at startup, into an explicit value that is threaded through every
// constructor that needs it.
//
// # Overview
//
// Per the design note against global state, FETCHY_HOME and
// FETCHY_GITHUB_TOKEN are read from the environment a single time in
// [Load]; no core package calls os.Getenv directly. [Load] also reads an
// optional TOML settings file at $FETCHY_HOME/config.toml for defaults
// that are not exposed as environment variables:
//
//	allow_prerelease_default = false
//	http_timeout = "10s"
//	cache_ttl = "24h"
//	max_retries = 3
//
// A missing settings file is not an error; [Load] falls back to the
// documented defaults. The returned [Config] also exposes accessors for
// the persisted state layout (repos/, installed.json, bin/, cache/,
// lock) so that every component that touches disk agrees on the paths.
package config
