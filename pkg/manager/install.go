package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fetchy/fetchy/pkg/depgraph"
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/extract"
	"github.com/fetchy/fetchy/pkg/fetch"
	"github.com/fetchy/fetchy/pkg/observability"
	"github.com/fetchy/fetchy/pkg/repository"
	"github.com/fetchy/fetchy/pkg/store"
)

// Install resolves and installs every reference in refs, each as its
// own closure computation and install sequence: a failure partway
// through one reference's closure leaves whatever it already installed
// in that run in place (spec §7's partial-failure propagation) and
// aborts only the remaining packages in that one closure, not the
// other references in refs.
func (m *Manager) Install(ctx context.Context, refs []string) error {
	var errs []error
	for _, ref := range refs {
		correlationID := uuid.New().String()
		if err := m.installOne(ctx, ref); err != nil {
			m.logger.Errorf("install %s failed [%s]: %v", ref, correlationID, err)
			errs = append(errs, fmt.Errorf("installing %s [%s]: %w", ref, correlationID, err))
			continue
		}
		m.logger.Debugf("install %s completed [%s]", ref, correlationID)
	}
	return errors.Join(errs...)
}

func (m *Manager) installOne(ctx context.Context, ref string) error {
	repo, pkgName, err := m.resolvePackage(ctx, ref)
	if err != nil {
		return err
	}

	records, err := m.store.List(ctx)
	if err != nil {
		return err
	}

	order, err := depgraph.InstallClosure(repo, pkgName, installedLookup(records))
	if err != nil {
		return err
	}
	if order == nil {
		// Already installed under this repository. If it was pulled in
		// only as a Dependency, an explicit install now promotes it:
		// spec §4.8 requires the user-requested package be stored
		// Explicit regardless of how it first landed in the store.
		if rec, ok, err := m.store.Get(ctx, store.Key{Repo: repo.Name, Package: pkgName}); err == nil && ok && rec.InstalledAs != store.Explicit {
			return m.store.MarkAs(ctx, rec.Key(), store.Explicit)
		}
		return nil
	}

	for _, name := range order {
		decl, ok := repo.Packages[name]
		if !ok {
			return fetchyerrors.New(fetchyerrors.CodeRepositoryError, "package %q not found in repository %q", name, repo.Name)
		}

		result, err := m.fetcher.Fetch(ctx, decl, m.plat)
		if err != nil {
			return err
		}

		binaries, err := m.installAsset(ctx, result)
		if err != nil {
			return err
		}

		reason := store.Dependency
		if name == pkgName {
			reason = store.Explicit
		}

		rec := store.InstalledPackage{
			RepoName:          repo.Name,
			PackageName:       name,
			ResolvedVersion:   result.Version,
			Platform:          m.plat,
			InstalledBinaries: binaryPaths(binaries),
			Dependencies:      decl.Requires,
			InstalledAs:       reason,
			InstalledAt:       time.Now().UTC(),
		}

		observability.Install().OnInstallStart(ctx, name, result.Version)
		insertStart := time.Now()
		err = m.store.Insert(ctx, rec)
		observability.Install().OnInstallComplete(ctx, name, result.Version, time.Since(insertStart), err)
		if err != nil {
			return err
		}
	}
	return nil
}

// installAsset extracts a fetched result into the bin directory,
// dispatching on the asset's kind (spec §4.6).
func (m *Manager) installAsset(ctx context.Context, result *fetch.Result) ([]extract.Binary, error) {
	switch result.Spec.Kind {
	case repository.AssetArchive:
		return extract.Archive(ctx, result.Path, result.Spec, m.plat, m.cfg.BinDir())
	case repository.AssetSingleFile:
		b, err := extract.SingleFile(ctx, result.Path, result.Spec, m.cfg.BinDir())
		if err != nil {
			return nil, err
		}
		return []extract.Binary{*b}, nil
	default:
		return nil, fetchyerrors.New(fetchyerrors.CodeRepositoryError, "asset has an unknown kind")
	}
}

func binaryPaths(binaries []extract.Binary) []string {
	paths := make([]string, len(binaries))
	for i, b := range binaries {
		paths[i] = b.Path
	}
	return paths
}
