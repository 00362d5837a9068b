package manager

import (
	"context"
	"strings"

	"github.com/fetchy/fetchy/pkg/depgraph"
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/repository"
	"github.com/fetchy/fetchy/pkg/store"
)

// splitQualified splits a `<repo>/<pkg>` reference into its two parts.
// A bare name (no slash) reports ok=false.
func splitQualified(ref string) (repoName, pkgName string, ok bool) {
	i := strings.IndexByte(ref, '/')
	if i < 0 {
		return "", "", false
	}
	return ref[:i], ref[i+1:], true
}

// resolvePackage resolves a (possibly qualified) package reference
// against the catalogs of every added repository. A bare name that
// exists in more than one repository's catalog is ambiguous and must
// be qualified as `<repo>/<pkg>` (a supplement to spec §6's reference
// grammar, needed once more than one repository can be added).
func (m *Manager) resolvePackage(ctx context.Context, ref string) (repository.Repository, string, error) {
	if repoName, pkgName, ok := splitQualified(ref); ok {
		repo, err := m.loadRepo(repoName)
		if err != nil {
			return repository.Repository{}, "", err
		}
		if _, ok := repo.Packages[pkgName]; !ok {
			return repository.Repository{}, "", fetchyerrors.New(fetchyerrors.CodeRepositoryError, "package %q not found in repository %q", pkgName, repoName)
		}
		return *repo, pkgName, nil
	}

	repoNames, err := m.ListRepos(ctx)
	if err != nil {
		return repository.Repository{}, "", err
	}

	var matchedRepos []string
	var matched repository.Repository
	for _, name := range repoNames {
		repo, err := m.loadRepo(name)
		if err != nil {
			return repository.Repository{}, "", err
		}
		if _, ok := repo.Packages[ref]; ok {
			matchedRepos = append(matchedRepos, name)
			matched = *repo
		}
	}

	switch len(matchedRepos) {
	case 0:
		return repository.Repository{}, "", fetchyerrors.New(fetchyerrors.CodeRepositoryError, "package %q not found in any added repository", ref)
	case 1:
		return matched, ref, nil
	default:
		return repository.Repository{}, "", fetchyerrors.New(fetchyerrors.CodeRepositoryError, "package %q is ambiguous across repositories %v; qualify as <repo>/%s", ref, matchedRepos, ref)
	}
}

// resolveInstalledKey resolves a (possibly qualified) reference against
// currently installed records rather than a catalog, for operations -
// uninstall, update - that act on what is already on disk.
func (m *Manager) resolveInstalledKey(ctx context.Context, ref string) (store.Key, error) {
	if repoName, pkgName, ok := splitQualified(ref); ok {
		return store.Key{Repo: repoName, Package: pkgName}, nil
	}

	records, err := m.store.List(ctx)
	if err != nil {
		return store.Key{}, err
	}

	var matches []store.Key
	for _, r := range records {
		if r.PackageName == ref {
			matches = append(matches, r.Key())
		}
	}

	switch len(matches) {
	case 0:
		return store.Key{}, fetchyerrors.New(fetchyerrors.CodeRepositoryError, "%q is not installed", ref)
	case 1:
		return matches[0], nil
	default:
		return store.Key{}, fetchyerrors.New(fetchyerrors.CodeRepositoryError, "%q is ambiguous across installed repositories %v; qualify as <repo>/%s", ref, matches, ref)
	}
}

// installedLookup adapts a snapshot of install records into the
// [depgraph.Lookup] the Dependency Graph Manager's closure computation
// needs.
func installedLookup(records []store.InstalledPackage) depgraph.Lookup {
	byName := make(map[string]string, len(records))
	for _, r := range records {
		byName[r.PackageName] = r.RepoName
	}
	return func(name string) (string, bool) {
		repo, ok := byName[name]
		return repo, ok
	}
}
