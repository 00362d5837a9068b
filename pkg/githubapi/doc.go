// Package githubapi is a minimal GitHub releases client: list a
// repository's releases (paged, optionally cached) and pick the one the
// Fetcher should install per spec §4.5 - the most recent release by
// publish time, ties broken by the highest lexical tag name, filtered
// by allow_prerelease - and the single asset within it whose name
// matches a package variant's pattern.
//
// This package never resolves a host DNS name, rate-limits itself, or
// trips a circuit breaker. DNS caching belongs to the already-configured
// *http.Client the caller (see [github.com/fetchy/fetchy/pkg/fetch])
// hands this package; no circuit breaker wraps its requests.
// Rate-limit responses are classified here, from the response status
// and the X-RateLimit-Remaining header.
package githubapi
