package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FETCHY_HOME", dir)
	t.Setenv("FETCHY_GITHUB_TOKEN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Home != dir {
		t.Errorf("Home = %q, want %q", cfg.Home, dir)
	}
	if cfg.GitHubToken != "" {
		t.Errorf("GitHubToken = %q, want empty", cfg.GitHubToken)
	}
	if cfg.HTTPTimeout != DefaultHTTPTimeout {
		t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, DefaultHTTPTimeout)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, DefaultCacheTTL)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", cfg.MaxRetries, DefaultMaxRetries)
	}
	if cfg.AllowPrereleaseDefault {
		t.Error("AllowPrereleaseDefault = true, want false")
	}
}

func TestLoad_Token(t *testing.T) {
	t.Setenv("FETCHY_HOME", t.TempDir())
	t.Setenv("FETCHY_GITHUB_TOKEN", "ghp_test123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GitHubToken != "ghp_test123" {
		t.Errorf("GitHubToken = %q, want %q", cfg.GitHubToken, "ghp_test123")
	}
}

func TestLoad_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FETCHY_HOME", dir)
	t.Setenv("FETCHY_GITHUB_TOKEN", "")

	settings := `
allow_prerelease_default = true
http_timeout = "30s"
cache_ttl = "1h"
max_retries = 5
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(settings), 0o644); err != nil {
		t.Fatalf("writing config.toml: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.AllowPrereleaseDefault {
		t.Error("AllowPrereleaseDefault = false, want true")
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
}

func TestLoad_PartialSettingsFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FETCHY_HOME", dir)
	t.Setenv("FETCHY_GITHUB_TOKEN", "")

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`max_retries = 10`), 0o644); err != nil {
		t.Fatalf("writing config.toml: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MaxRetries != 10 {
		t.Errorf("MaxRetries = %d, want 10", cfg.MaxRetries)
	}
	if cfg.HTTPTimeout != DefaultHTTPTimeout {
		t.Errorf("HTTPTimeout = %v, want default %v", cfg.HTTPTimeout, DefaultHTTPTimeout)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FETCHY_HOME", dir)
	t.Setenv("FETCHY_GITHUB_TOKEN", "")

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`http_timeout = "not-a-duration"`), 0o644); err != nil {
		t.Fatalf("writing config.toml: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for invalid duration")
	}
}

func TestPaths(t *testing.T) {
	cfg := Config{Home: "/data/fetchy"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ReposDir", cfg.ReposDir(), "/data/fetchy/repos"},
		{"RepoPath", cfg.RepoPath("tools"), "/data/fetchy/repos/tools.json"},
		{"InstalledPath", cfg.InstalledPath(), "/data/fetchy/installed.json"},
		{"BinDir", cfg.BinDir(), "/data/fetchy/bin"},
		{"CacheDir", cfg.CacheDir(), "/data/fetchy/cache"},
		{"LockPath", cfg.LockPath(), "/data/fetchy/lock"},
		{"SettingsPath", cfg.SettingsPath(), "/data/fetchy/config.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestEnsureLayout(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Home: filepath.Join(dir, "fetchy")}

	if err := cfg.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout() error = %v", err)
	}

	for _, d := range []string{cfg.Home, cfg.ReposDir(), cfg.BinDir(), cfg.CacheDir()} {
		info, err := os.Stat(d)
		if err != nil {
			t.Errorf("stat(%s): %v", d, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", d)
		}
	}
}
