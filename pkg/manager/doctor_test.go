package manager

import (
	"context"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/fetchy/fetchy/pkg/store"
)

func TestDoctor_CleanInstallReportsNoIssues(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/app": "app"})
	ctx := context.Background()

	env.m.AddRepo(ctx, env.writeRepoFile("demo", map[string][]string{"app": nil}))
	if err := env.m.Install(ctx, []string{"demo/app"}); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	issues, err := env.m.Doctor(ctx)
	if err != nil {
		t.Fatalf("Doctor() error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("Doctor() = %v, want no issues", issues)
	}
}

func TestDoctor_DetectsMissingBinaryOnDisk(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/app": "app"})
	ctx := context.Background()

	env.m.AddRepo(ctx, env.writeRepoFile("demo", map[string][]string{"app": nil}))
	if err := env.m.Install(ctx, []string{"demo/app"}); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	rec, _, _ := env.m.store.Get(ctx, store.Key{Repo: "demo", Package: "app"})
	if err := os.Remove(rec.InstalledBinaries[0]); err != nil {
		t.Fatalf("removing binary out from under the store: %v", err)
	}

	issues, err := env.m.Doctor(ctx)
	if err != nil {
		t.Fatalf("Doctor() error = %v", err)
	}
	if !slices.ContainsFunc(issues, func(s string) bool { return strings.Contains(s, "missing on disk") }) {
		t.Errorf("Doctor() = %v, want an issue about a missing binary", issues)
	}
}

func TestDoctor_DetectsUntrackedBinary(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/app": "app"})
	ctx := context.Background()

	env.m.AddRepo(ctx, env.writeRepoFile("demo", map[string][]string{"app": nil}))
	if err := env.m.Install(ctx, []string{"demo/app"}); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	stray := env.cfg.BinDir() + "/stray-tool"
	if err := os.WriteFile(stray, []byte("mystery"), 0o755); err != nil {
		t.Fatalf("writing stray binary: %v", err)
	}

	issues, err := env.m.Doctor(ctx)
	if err != nil {
		t.Fatalf("Doctor() error = %v", err)
	}
	if !slices.ContainsFunc(issues, func(s string) bool { return strings.Contains(s, "untracked binary") }) {
		t.Errorf("Doctor() = %v, want an issue about an untracked binary", issues)
	}
}
