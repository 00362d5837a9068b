package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

// Default settings, used when $FETCHY_HOME/config.toml is absent or omits
// a given key.
const (
	DefaultHTTPTimeout = 10 * time.Second
	DefaultCacheTTL    = 24 * time.Hour
	DefaultMaxRetries  = 3
)

// Config is Fetchy's process-wide configuration, read once at startup by
// [Load] and passed explicitly to every component that needs it.
type Config struct {
	// Home is the base data directory ($FETCHY_HOME, or an OS-appropriate
	// default). Repos, the install store, binaries, and the download
	// cache all live under it; see [Config.ReposDir] and friends.
	Home string

	// GitHubToken is the optional bearer token for the GitHub REST API
	// ($FETCHY_GITHUB_TOKEN). Empty means unauthenticated requests.
	GitHubToken string

	// AllowPrereleaseDefault is read from config.toml. The loader does not
	// consult it: a GitHub source allows prereleases only when its own
	// declaration sets allow_prerelease.
	AllowPrereleaseDefault bool

	// HTTPTimeout bounds a single GitHub API request. Asset downloads use
	// the fetcher's own fixed, longer timeout.
	HTTPTimeout time.Duration

	// CacheTTL bounds how long a cached GitHub API response is
	// considered fresh.
	CacheTTL time.Duration

	// MaxRetries is read from config.toml. No HTTP operation consults it:
	// GitHub release listing retries a fixed three attempts, and asset
	// downloads are not retried.
	MaxRetries int
}

// settingsFile mirrors $FETCHY_HOME/config.toml. Fields are pointers so
// that an absent key in the file leaves the corresponding Config default
// untouched, the same optional-override pattern the teacher's Cargo.toml
// reader uses for optional manifest fields.
type settingsFile struct {
	AllowPrereleaseDefault *bool   `toml:"allow_prerelease_default"`
	HTTPTimeout            *string `toml:"http_timeout"`
	CacheTTL               *string `toml:"cache_ttl"`
	MaxRetries             *int    `toml:"max_retries"`
}

// Load reads FETCHY_HOME and FETCHY_GITHUB_TOKEN from the environment,
// then layers in $FETCHY_HOME/config.toml if present. It is intended to
// be called exactly once, at process start; everything downstream takes
// the resulting Config by value.
func Load() (Config, error) {
	home := os.Getenv("FETCHY_HOME")
	if home == "" {
		var err error
		home, err = defaultHome()
		if err != nil {
			return Config{}, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "resolving default FETCHY_HOME")
		}
	}

	cfg := Config{
		Home:        home,
		GitHubToken: os.Getenv("FETCHY_GITHUB_TOKEN"),
		HTTPTimeout: DefaultHTTPTimeout,
		CacheTTL:    DefaultCacheTTL,
		MaxRetries:  DefaultMaxRetries,
	}

	if err := cfg.applySettingsFile(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func defaultHome() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fetchy"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "fetchy"), nil
}

func (c *Config) applySettingsFile() error {
	data, err := os.ReadFile(c.SettingsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "reading %s", c.SettingsPath())
	}

	var s settingsFile
	if _, err := toml.Decode(string(data), &s); err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "parsing %s", c.SettingsPath())
	}

	if s.AllowPrereleaseDefault != nil {
		c.AllowPrereleaseDefault = *s.AllowPrereleaseDefault
	}
	if s.MaxRetries != nil {
		c.MaxRetries = *s.MaxRetries
	}
	if s.HTTPTimeout != nil {
		d, err := time.ParseDuration(*s.HTTPTimeout)
		if err != nil {
			return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "parsing http_timeout in %s", c.SettingsPath())
		}
		c.HTTPTimeout = d
	}
	if s.CacheTTL != nil {
		d, err := time.ParseDuration(*s.CacheTTL)
		if err != nil {
			return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "parsing cache_ttl in %s", c.SettingsPath())
		}
		c.CacheTTL = d
	}

	return nil
}

// SettingsPath returns the path to the optional TOML settings file.
func (c *Config) SettingsPath() string { return filepath.Join(c.Home, "config.toml") }

// ReposDir returns the directory holding one canonical JSON document per
// added repository (repos/<repo-name>.json).
func (c *Config) ReposDir() string { return filepath.Join(c.Home, "repos") }

// RepoPath returns the canonical path for a single repository's
// persisted document.
func (c *Config) RepoPath(name string) string {
	return filepath.Join(c.ReposDir(), fmt.Sprintf("%s.json", name))
}

// InstalledPath returns the path to the install store's single JSON
// document.
func (c *Config) InstalledPath() string { return filepath.Join(c.Home, "installed.json") }

// BinDir returns the directory installed binaries are placed in.
func (c *Config) BinDir() string { return filepath.Join(c.Home, "bin") }

// CacheDir returns the directory downloaded archives and files are
// streamed into before being moved into place.
func (c *Config) CacheDir() string { return filepath.Join(c.Home, "cache") }

// LockPath returns the path to the advisory lockfile serializing
// concurrent Fetchy processes.
func (c *Config) LockPath() string { return filepath.Join(c.Home, "lock") }

// EnsureLayout creates every directory in the persisted state layout
// that does not yet exist (repos/, bin/, cache/); the install store and
// lockfile are created lazily by their owning components.
func (c *Config) EnsureLayout() error {
	for _, dir := range []string{c.Home, c.ReposDir(), c.BinDir(), c.CacheDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating %s", dir)
		}
	}
	return nil
}
