package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/httputil"
	"github.com/fetchy/fetchy/pkg/observability"
)

const defaultBaseURL = "https://api.github.com"

// Release is the subset of GitHub's release representation Fetchy needs
// to resolve a package's version and locate its assets.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Prerelease  bool      `json:"prerelease"`
	Draft       bool      `json:"draft"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a single file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Client lists a GitHub repository's releases, optionally through a
// [httputil.Cache] so repeated installs and updates against the same
// repository don't hit the API every time.
type Client struct {
	http    *http.Client
	cache   *httputil.Cache
	token   string
	baseURL string
}

// NewClient builds a Client. cache may be nil to disable response
// caching; token may be empty to make unauthenticated requests, which
// GitHub rate-limits far more aggressively.
func NewClient(httpClient *http.Client, cache *httputil.Cache, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	var releaseCache *httputil.Cache
	if cache != nil {
		releaseCache = cache.Namespace("github-releases:")
	}
	return &Client{http: httpClient, cache: releaseCache, token: token, baseURL: defaultBaseURL}
}

// ListReleases returns every non-draft release for owner/repo, paging
// through GitHub's "Link: rel=next" listing. Results are cached under
// "owner/repo" when the Client was built with a cache.
func (c *Client) ListReleases(ctx context.Context, owner, repo string) ([]Release, error) {
	key := owner + "/" + repo
	if c.cache != nil {
		var cached []Release
		ok, err := c.cache.Get(key, &cached)
		if ok && err == nil {
			observability.Cache().OnCacheHit(ctx, "github-releases")
			return cached, nil
		}
		observability.Cache().OnCacheMiss(ctx, "github-releases")
	}

	var all []Release
	for page := 1; ; page++ {
		reqURL := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=100&page=%d", c.baseURL, owner, repo, page)

		var pageReleases []Release
		var linkHeader string
		err := httputil.RetryWithBackoff(ctx, func() error {
			resp, err := c.do(ctx, reqURL)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if err := c.checkStatus(resp); err != nil {
				return err
			}
			linkHeader = resp.Header.Get("Link")
			return json.NewDecoder(resp.Body).Decode(&pageReleases)
		})
		if err != nil {
			return nil, err
		}

		for _, r := range pageReleases {
			if !r.Draft {
				all = append(all, r)
			}
		}
		if !strings.Contains(linkHeader, `rel="next"`) {
			break
		}
	}

	if c.cache != nil {
		if err := c.cache.Set(key, all); err == nil {
			observability.Cache().OnCacheSet(ctx, "github-releases", len(all))
		}
	}
	return all, nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, &httputil.RetryableError{Err: err}
	}
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))
	return resp, nil
}

// checkStatus classifies a non-2xx response per the error taxonomy,
// wrapping transient failures so [httputil.Retry] knows to retry them.
func (c *Client) checkStatus(resp *http.Response) error {
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
