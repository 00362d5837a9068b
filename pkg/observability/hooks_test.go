package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Install hooks
	i := NoopInstallHooks{}
	i.OnFetchStart(ctx, "yt-dlp", "https://github.com/yt-dlp/yt-dlp/releases/download/v1/yt-dlp")
	i.OnFetchComplete(ctx, "yt-dlp", "https://github.com/yt-dlp/yt-dlp/releases/download/v1/yt-dlp", 1024, time.Second, nil)
	i.OnExtractStart(ctx, "yt-dlp", "tar.gz")
	i.OnExtractComplete(ctx, "yt-dlp", 1, time.Second, nil)
	i.OnInstallStart(ctx, "yt-dlp", "v1")
	i.OnInstallComplete(ctx, "yt-dlp", "v1", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "release")
	c.OnCacheMiss(ctx, "release")
	c.OnCacheSet(ctx, "asset", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.github.com", "/repos/yt-dlp/yt-dlp/releases/latest")
	h.OnResponse(ctx, "GET", "api.github.com", "/repos/yt-dlp/yt-dlp/releases/latest", 200, time.Second)
	h.OnError(ctx, "GET", "api.github.com", "/repos/yt-dlp/yt-dlp/releases/latest", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Install().(NoopInstallHooks); !ok {
		t.Error("Install() should return NoopInstallHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customInstall := &testInstallHooks{}
	SetInstallHooks(customInstall)
	if Install() != customInstall {
		t.Error("SetInstallHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Install().(NoopInstallHooks); !ok {
		t.Error("Reset() should restore NoopInstallHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testInstallHooks{}
	SetInstallHooks(custom)

	// Setting nil should be ignored
	SetInstallHooks(nil)

	if Install() != custom {
		t.Error("SetInstallHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testInstallHooks struct{ NoopInstallHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
