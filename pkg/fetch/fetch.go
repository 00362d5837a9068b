package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fetchy/fetchy/pkg/asset"
	"github.com/fetchy/fetchy/pkg/config"
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/githubapi"
	"github.com/fetchy/fetchy/pkg/httputil"
	"github.com/fetchy/fetchy/pkg/observability"
	"github.com/fetchy/fetchy/pkg/platform"
	"github.com/fetchy/fetchy/pkg/repository"
)

// downloadTimeout bounds a single asset download. Release assets are
// binaries, not bulk data exports, but can still run to hundreds of
// megabytes, so this is generous compared to an API call's timeout.
const downloadTimeout = 5 * time.Minute

// Result is what a successful Fetch produces: the resolved version, the
// AssetSpec that was selected (the Archive Extractor needs it to know
// how to unpack Path), and the local file Path now holds the downloaded
// bytes.
type Result struct {
	Version string
	Spec    repository.AssetSpec
	Path    string
	Bytes   int64
}

// Fetcher resolves a package's version and asset, and downloads it.
type Fetcher struct {
	api      *http.Client
	download *http.Client
	gh       *githubapi.Client
	breakers *hostBreakers
	token    string
	cacheDir string
}

// NewFetcher builds a Fetcher from process configuration, creating the
// download cache directory if it does not yet exist.
func NewFetcher(cfg config.Config) (*Fetcher, error) {
	if err := os.MkdirAll(cfg.CacheDir(), 0o755); err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating %s", cfg.CacheDir())
	}

	apiClient := newHTTPClient(cfg.HTTPTimeout)
	downloadClient := newHTTPClient(downloadTimeout)

	respCache, err := httputil.NewCache(filepath.Join(cfg.CacheDir(), "api"), cfg.CacheTTL)
	if err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating API response cache")
	}

	return &Fetcher{
		api:      apiClient,
		download: downloadClient,
		gh:       githubapi.NewClient(apiClient, respCache, cfg.GitHubToken),
		breakers: newHostBreakers(),
		token:    cfg.GitHubToken,
		cacheDir: cfg.CacheDir(),
	}, nil
}

// Fetch resolves pkg's version and asset for plat and downloads it into
// the fetcher's cache directory, per spec §4.5.
func (f *Fetcher) Fetch(ctx context.Context, pkg repository.PackageDecl, plat platform.Platform) (*Result, error) {
	spec, err := asset.Select(pkg, plat)
	if err != nil {
		return nil, err
	}

	var version, downloadURL string
	switch pkg.Source.Kind {
	case repository.SourceDirect:
		version = pkg.VersionFrom.Literal
		downloadURL = spec.Pattern

	case repository.SourceGitHub:
		releases, err := f.gh.ListReleases(ctx, pkg.Source.Owner, pkg.Source.Repo)
		if err != nil {
			return nil, err
		}
		release, err := githubapi.SelectRelease(releases, pkg.Source.AllowPrerelease)
		if err != nil {
			return nil, err
		}
		ghAsset, err := githubapi.SelectAsset(release, spec.PatternRegexp)
		if err != nil {
			return nil, err
		}
		downloadURL = ghAsset.BrowserDownloadURL
		version = resolvedVersion(pkg.VersionFrom, release)

	default:
		return nil, fetchyerrors.New(fetchyerrors.CodeRepositoryError, "package %q has an unknown source kind", pkg.Name)
	}

	observability.Install().OnFetchStart(ctx, pkg.Name, downloadURL)
	start := time.Now()
	localPath, n, err := f.downloadTo(ctx, downloadURL)
	observability.Install().OnFetchComplete(ctx, pkg.Name, downloadURL, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &Result{Version: version, Spec: spec, Path: localPath, Bytes: n}, nil
}

func resolvedVersion(v repository.VersionFrom, release *githubapi.Release) string {
	if v.Kind == repository.VersionReleaseTitle {
		return release.Name
	}
	return release.TagName
}

// downloadTo streams rawURL to a file under the fetcher's cache
// directory, writing to a sibling temp file first so a failed or
// cancelled attempt never leaves a partial file at the final path.
func (f *Fetcher) downloadTo(ctx context.Context, rawURL string) (string, int64, error) {
	host := hostOf(rawURL)

	tmp, err := os.CreateTemp(f.cacheDir, "download-*.tmp")
	if err != nil {
		return "", 0, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating temporary download file")
	}
	tmpPath := tmp.Name()
	tmp.Close()

	succeeded := false
	defer func() {
		if !succeeded {
			os.Remove(tmpPath)
		}
	}()

	var written int64
	err = f.breakers.call(host, func() error {
		if truncErr := os.Truncate(tmpPath, 0); truncErr != nil {
			return truncErr
		}
		n, doErr := f.doDownload(ctx, rawURL, tmpPath)
		written = n
		return doErr
	})
	if err != nil {
		return "", 0, err
	}

	finalPath := filepath.Join(f.cacheDir, cacheFileName(rawURL))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", 0, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "moving downloaded file into place")
	}
	succeeded = true
	return finalPath, written, nil
}

func (f *Fetcher) doDownload(ctx context.Context, rawURL, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/octet-stream")
	if f.token != "" && req.URL.Host == "api.github.com" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := f.download.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return 0, &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkDownloadStatus(resp); err != nil {
		return 0, err
	}

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return n, &httputil.RetryableError{Err: err}
	}
	return n, nil
}

// checkDownloadStatus maps a non-2xx download response into the error
// taxonomy (spec §4.5): rate-limit headers win over a bare 403, any
// other non-2xx is a NetworkError, and 5xx responses are retryable.
func checkDownloadStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
		resetAt, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
		return &fetchyerrors.RateLimitedError{Host: resp.Request.URL.Host, ResetAt: resetAt}
	}
	err := fetchyerrors.New(fetchyerrors.CodeNetworkError, "%s: unexpected status %s", resp.Request.URL, resp.Status)
	if resp.StatusCode >= 500 {
		return &httputil.RetryableError{Err: err}
	}
	return err
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}

// cacheFileName derives a collision-resistant local filename for a
// download URL: a short content hash of the URL itself, plus the URL's
// base name for readability.
func cacheFileName(rawURL string) string {
	base := "download"
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		if b := path.Base(u.Path); b != "" && b != "/" {
			base = b
		}
	}
	sum := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("%s-%s", hex.EncodeToString(sum[:])[:12], base)
}
