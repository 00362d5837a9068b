package manager

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fetchy/fetchy/pkg/config"
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/platform"
)

// testEnv bundles a Manager against a throwaway $FETCHY_HOME together
// with an HTTP server standing in for a Direct-source package host, so
// the whole install pipeline can be exercised without reaching the
// network or mocking the GitHub API.
type testEnv struct {
	t      *testing.T
	m      *Manager
	cfg    config.Config
	server *httptest.Server
	plat   platform.Platform
}

func newTestEnv(t *testing.T, paths map[string]string) *testEnv {
	t.Helper()

	mux := http.NewServeMux()
	for path, body := range paths {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	plat, err := platform.Detect()
	if err != nil {
		t.Fatalf("platform.Detect() error = %v", err)
	}

	cfg := config.Config{
		Home:        t.TempDir(),
		HTTPTimeout: 5 * time.Second,
		CacheTTL:    time.Minute,
		MaxRetries:  1,
	}

	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return &testEnv{t: t, m: m, cfg: cfg, server: server, plat: plat}
}

// writeRepoFile renders a minimal Direct-source repository DSL document
// naming one package per entry in pkgs (name -> requires, may be nil)
// and writes it to a temp .fetchy file, returning its path.
func (e *testEnv) writeRepoFile(repoName string, pkgs map[string][]string) string {
	e.t.Helper()

	src := fmt.Sprintf(`name %q description "test repo" packages {`, repoName)
	for name, requires := range pkgs {
		requiresClause := ""
		if len(requires) > 0 {
			quoted := make([]string, len(requires))
			for i, r := range requires {
				quoted[i] = fmt.Sprintf("%q", r)
			}
			requiresClause = fmt.Sprintf(" (requires %s)", strings.Join(quoted, ", "))
		}
		src += fmt.Sprintf(` %q%s: Direct version("1.0.0") { %s[%s] %q as %q }`,
			name, requiresClause, e.plat.OS, e.plat.Arch, e.server.URL+"/"+name, name)
	}
	src += "}"

	path := filepath.Join(e.t.TempDir(), repoName+".fetchy")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		e.t.Fatalf("writing repo file: %v", err)
	}
	return path
}

func TestAddRepo_PersistsAndRoundTrips(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/a": "binary-a"})
	ctx := context.Background()

	path := env.writeRepoFile("demo", map[string][]string{"a": nil})
	repo, err := env.m.AddRepo(ctx, path)
	if err != nil {
		t.Fatalf("AddRepo() error = %v", err)
	}
	if repo.Name != "demo" {
		t.Errorf("Name = %q, want demo", repo.Name)
	}

	if _, err := os.Stat(env.cfg.RepoPath("demo")); err != nil {
		t.Fatalf("repo document not written: %v", err)
	}

	reloaded, err := env.m.loadRepo("demo")
	if err != nil {
		t.Fatalf("loadRepo() error = %v", err)
	}
	if _, ok := reloaded.Packages["a"]; !ok {
		t.Errorf("reloaded repository missing package %q", "a")
	}
}

func TestListRepos_SortedNames(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/a": "x", "/b": "y"})
	ctx := context.Background()

	env.m.AddRepo(ctx, env.writeRepoFile("zeta", map[string][]string{"a": nil}))
	env.m.AddRepo(ctx, env.writeRepoFile("alpha", map[string][]string{"b": nil}))

	names, err := env.m.ListRepos(ctx)
	if err != nil {
		t.Fatalf("ListRepos() error = %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("ListRepos() = %v, want [alpha zeta]", names)
	}
}

func TestRemoveRepo_BlockedWhileInstalled(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/a": "binary-a"})
	ctx := context.Background()

	env.m.AddRepo(ctx, env.writeRepoFile("demo", map[string][]string{"a": nil}))
	if err := env.m.Install(ctx, []string{"demo/a"}); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	err := env.m.RemoveRepo(ctx, "demo")
	if !fetchyerrors.Is(err, fetchyerrors.CodeRepositoryError) {
		t.Fatalf("RemoveRepo() error = %v, want CodeRepositoryError", err)
	}
}

func TestRemoveRepo_SucceedsWhenUnused(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/a": "binary-a"})
	ctx := context.Background()

	env.m.AddRepo(ctx, env.writeRepoFile("demo", map[string][]string{"a": nil}))
	if err := env.m.RemoveRepo(ctx, "demo"); err != nil {
		t.Fatalf("RemoveRepo() error = %v", err)
	}
	if _, err := os.Stat(env.cfg.RepoPath("demo")); !os.IsNotExist(err) {
		t.Errorf("repo document still present after RemoveRepo")
	}
}

func TestResolvePackage_AmbiguousAcrossRepos(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/tool": "binary"})
	ctx := context.Background()

	env.m.AddRepo(ctx, env.writeRepoFile("one", map[string][]string{"tool": nil}))
	env.m.AddRepo(ctx, env.writeRepoFile("two", map[string][]string{"tool": nil}))

	_, _, err := env.m.resolvePackage(ctx, "tool")
	if !fetchyerrors.Is(err, fetchyerrors.CodeRepositoryError) {
		t.Fatalf("resolvePackage() error = %v, want CodeRepositoryError", err)
	}
}

func TestResolvePackage_QualifiedDisambiguates(t *testing.T) {
	env := newTestEnv(t, map[string]string{"/tool": "binary"})
	ctx := context.Background()

	env.m.AddRepo(ctx, env.writeRepoFile("one", map[string][]string{"tool": nil}))
	env.m.AddRepo(ctx, env.writeRepoFile("two", map[string][]string{"tool": nil}))

	repo, pkgName, err := env.m.resolvePackage(ctx, "one/tool")
	if err != nil {
		t.Fatalf("resolvePackage() error = %v", err)
	}
	if repo.Name != "one" || pkgName != "tool" {
		t.Errorf("resolvePackage() = %q/%q, want one/tool", repo.Name, pkgName)
	}
}
