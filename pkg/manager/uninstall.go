package manager

import (
	"context"
	"os"
	"strings"

	"github.com/fetchy/fetchy/pkg/depgraph"
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/store"
)

// Uninstall removes ref and then sweeps any dependency it leaves
// orphaned (spec §4.8). It refuses to remove a package that an
// explicitly installed package still transitively depends on.
func (m *Manager) Uninstall(ctx context.Context, ref string) error {
	key, err := m.resolveInstalledKey(ctx, ref)
	if err != nil {
		return err
	}

	records, err := m.store.List(ctx)
	if err != nil {
		return err
	}

	dependents, err := depgraph.WouldBreakDependents(records, key)
	if err != nil {
		return err
	}
	if len(dependents) > 0 {
		names := make([]string, len(dependents))
		for i, d := range dependents {
			names[i] = d.String()
		}
		return &fetchyerrors.WouldBreakDependentsError{Package: key.String(), Dependents: names}
	}

	if err := m.removeRecord(ctx, key); err != nil {
		return err
	}

	records, err = m.store.List(ctx)
	if err != nil {
		return err
	}

	_, errs := depgraph.OrphanSweep(records, func(k store.Key) error {
		return m.removeRecord(ctx, k)
	})
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fetchyerrors.New(fetchyerrors.CodeIoError, "orphan sweep after uninstalling %s: %s", key, strings.Join(msgs, "; "))
	}
	return nil
}

// removeRecord deletes an installed record's binaries from disk and
// removes its store entry. Removing a key that does not exist is not
// an error.
func (m *Manager) removeRecord(ctx context.Context, key store.Key) error {
	rec, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	for _, path := range rec.InstalledBinaries {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "removing binary %s", path)
		}
	}

	return m.store.Remove(ctx, key)
}
