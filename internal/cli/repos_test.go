package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fetchy/fetchy/pkg/platform"
)

// writeDirectRepo writes a minimal single-package Direct-source repository
// document pointed at server, returning the document's path.
func writeDirectRepo(t *testing.T, server *httptest.Server, repoName, pkgName string) string {
	t.Helper()

	plat, err := platform.Detect()
	if err != nil {
		t.Fatalf("platform.Detect() error = %v", err)
	}

	src := fmt.Sprintf(`name %q description "test repo" packages { %q: Direct version("1.0.0") { %s[%s] %q as %q } }`,
		repoName, pkgName, plat.OS, plat.Arch, server.URL+"/"+pkgName, pkgName)

	path := filepath.Join(t.TempDir(), repoName+".fetchy")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing repo file: %v", err)
	}
	return path
}

func TestCLI_AddRepoInstallList(t *testing.T) {
	t.Setenv("FETCHY_HOME", t.TempDir())

	mux := http.NewServeMux()
	mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "binary-contents")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	repoPath := writeDirectRepo(t, server, "demo", "tool")

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"add-repo", repoPath})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("add-repo failed: %v", err)
	}

	root = c.RootCommand()
	root.SetArgs([]string{"install", "demo/tool"})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	root = c.RootCommand()
	var out bytes.Buffer
	root.SetArgs([]string{"list"})
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestCLI_DoctorCleanAfterInstall(t *testing.T) {
	t.Setenv("FETCHY_HOME", t.TempDir())

	mux := http.NewServeMux()
	mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "binary-contents")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	repoPath := writeDirectRepo(t, server, "demo", "tool")

	c := New(&bytes.Buffer{}, LogInfo)

	root := c.RootCommand()
	root.SetArgs([]string{"add-repo", repoPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("add-repo failed: %v", err)
	}

	root = c.RootCommand()
	root.SetArgs([]string{"install", "demo/tool"})
	if err := root.Execute(); err != nil {
		t.Fatalf("install failed: %v", err)
	}

	root = c.RootCommand()
	root.SetArgs([]string{"doctor"})
	if err := root.Execute(); err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
}
