// Package fetch implements the Fetcher (spec §4.5): given a package
// declaration and the host platform, resolve a version, locate the
// matching remote asset, and stream it to a local file.
//
// GitHub sources go through [github.com/fetchy/fetchy/pkg/githubapi] to
// list and select a release, then download the chosen asset's URL.
// Direct sources skip the listing entirely - the pattern is already the
// download URL and the version is already the literal.
//
// GitHub API requests and asset downloads use separate *http.Client
// values, each with a dialer that resolves hosts via a cached DNS resolver
// (repeated installs/updates hit the same few hosts). Asset downloads
// also go through a per-host circuit breaker: once a host trips after
// repeated failures, further downloads from it fail fast with RateLimited
// instead of making the problem worse. GitHub API requests do not go
// through the breaker.
package fetch
