package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fetchy/fetchy/pkg/depgraph"
	"github.com/fetchy/fetchy/pkg/store"
)

// Doctor is a read-only invariant check over the install store and bin
// directory, a supplement grounded on the original implementation's
// validator: missing binaries a record claims to own, binaries on disk
// no record claims, and Dependency-marked records with no remaining
// dependent (orphans OrphanSweep would remove on the next uninstall).
// It never mutates state; callers needing a fix apply it themselves via
// Uninstall/Update.
func (m *Manager) Doctor(ctx context.Context) ([]string, error) {
	records, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var issues []string
	claimed := make(map[string]store.Key, len(records))

	for _, r := range records {
		key := r.Key()
		for _, path := range r.InstalledBinaries {
			if _, err := os.Stat(path); err != nil {
				issues = append(issues, fmt.Sprintf("%s: installed binary %s is missing on disk", key, path))
				continue
			}
			if owner, dup := claimed[path]; dup {
				issues = append(issues, fmt.Sprintf("%s: binary %s is also claimed by %s", key, path, owner))
				continue
			}
			claimed[path] = key
		}
		for _, dep := range r.Dependencies {
			depKey := store.Key{Repo: r.RepoName, Package: dep}
			if _, ok, _ := m.store.Get(ctx, depKey); !ok {
				issues = append(issues, fmt.Sprintf("%s: depends on %s, which has no install record", key, depKey))
			}
		}
	}

	if entries, err := os.ReadDir(m.cfg.BinDir()); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			full := filepath.Join(m.cfg.BinDir(), e.Name())
			if _, ok := claimed[full]; !ok {
				issues = append(issues, fmt.Sprintf("untracked binary %s in bin directory", full))
			}
		}
	}

	orphans, _ := depgraph.OrphanSweep(records, func(store.Key) error { return nil })
	for _, k := range orphans {
		issues = append(issues, fmt.Sprintf("%s: orphaned dependency record has no remaining dependent", k))
	}

	return issues, nil
}
