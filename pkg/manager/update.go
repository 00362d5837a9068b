package manager

import (
	"context"
	"fmt"
	"os"
	"time"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/store"
)

// Update re-resolves and, if needed, re-fetches every reference in
// refs, or every explicitly installed package when refs is empty
// (spec §6's `fetchy update` with no arguments). For each target it
// distinguishes three outcomes: Ignore (the resolved version is
// unchanged and reinstall is false - nothing to do), Update (the
// resolved version changed - re-fetch and replace), and Reinstall
// (reinstall is true - re-fetch and replace even at an unchanged
// version, e.g. to pick up a corrected or force-pushed release asset).
func (m *Manager) Update(ctx context.Context, refs []string, reinstall bool) error {
	targets := refs
	if len(targets) == 0 {
		records, err := m.store.List(ctx)
		if err != nil {
			return err
		}
		for _, r := range records {
			if r.InstalledAs == store.Explicit {
				targets = append(targets, store.Key{Repo: r.RepoName, Package: r.PackageName}.String())
			}
		}
	}

	for _, ref := range targets {
		if err := m.updateOne(ctx, ref, reinstall); err != nil {
			return fmt.Errorf("updating %s: %w", ref, err)
		}
	}
	return nil
}

func (m *Manager) updateOne(ctx context.Context, ref string, reinstall bool) error {
	key, err := m.resolveInstalledKey(ctx, ref)
	if err != nil {
		return err
	}

	rec, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return fetchyerrors.New(fetchyerrors.CodeRepositoryError, "%s is not installed", key)
	}

	repo, err := m.loadRepo(key.Repo)
	if err != nil {
		return err
	}
	decl, ok := repo.Packages[key.Package]
	if !ok {
		return fetchyerrors.New(fetchyerrors.CodeRepositoryError, "package %q no longer exists in repository %q", key.Package, key.Repo)
	}

	result, err := m.fetcher.Fetch(ctx, decl, m.plat)
	if err != nil {
		return err
	}

	if result.Version == rec.ResolvedVersion && !reinstall {
		return nil // Ignore: already at the current version
	}

	for _, old := range rec.InstalledBinaries {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "removing previous binary %s", old)
		}
	}

	binaries, err := m.installAsset(ctx, result)
	if err != nil {
		return err
	}

	paths := binaryPaths(binaries)
	return m.store.Update(ctx, key, func(p *store.InstalledPackage) {
		p.ResolvedVersion = result.Version
		p.InstalledBinaries = paths
		p.InstalledAt = time.Now().UTC()
	})
}
