// Package httputil provides shared HTTP plumbing used by Fetchy's GitHub
// release client and asset fetcher.
//
// # Overview
//
// This package provides infrastructure used across the fetch pipeline:
//
//   - [Cache]: File-based response caching, keyed by SHA-256 of an
//     arbitrary string key
//   - [Retry] and [RetryWithBackoff]: Retry helpers for transient network
//     failures
//
// # Caching
//
// [Cache] stores JSON-marshaled values in the filesystem (default
// ~/.cache/fetchy/) with a configurable TTL. pkg/githubapi uses it to
// avoid re-fetching release metadata on every invocation.
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var release Release
//	ok, err := cache.Get("owner/repo", &release)
//	if !ok {
//	    release = fetchFromAPI()
//	    cache.Set("owner/repo", release)
//	}
//
// Use [Cache.Namespace] to scope keys by concern (releases vs. assets)
// without colliding on the same underlying directory.
//
// # Retry
//
// [Retry] retries a function a fixed number of times with exponential
// backoff, but only when the function returns a [RetryableError] - errors
// that are not wrapped this way are treated as permanent and returned
// immediately. This lets callers distinguish "the server said no" (404,
// a parse failure) from "try again" (network error, 5xx, 429):
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    return nil
//	})
//
// [RetryWithBackoff] is a convenience wrapper with sensible defaults (3
// attempts, 1 second initial delay, doubling each attempt).
package httputil
