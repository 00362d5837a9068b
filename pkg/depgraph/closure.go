package depgraph

import (
	"slices"

	"github.com/fetchy/fetchy/pkg/dag"
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/repository"
)

// Lookup reports whether pkgName is already installed, and if so under
// which repository name.
type Lookup func(pkgName string) (repoName string, ok bool)

// InstallClosure computes the set of packages transitively required by
// target (including target itself) that are not already installed,
// ordered by a topological sort of the catalog graph: dependencies
// before dependents (spec §4.8).
//
// If a transitively required package is already installed under a
// different repository than repo, InstallClosure fails with
// [fetchyerrors.CrossRepoConflictError]. If target and every package it
// transitively requires are already installed under repo,
// InstallClosure returns a nil slice: there is nothing to do.
func InstallClosure(repo repository.Repository, target string, installed Lookup) ([]string, error) {
	if _, ok := repo.Packages[target]; !ok {
		return nil, fetchyerrors.New(fetchyerrors.CodeRepositoryError, "package %q not found in repository %q", target, repo.Name)
	}

	catalog, err := BuildCatalogGraph(repo)
	if err != nil {
		return nil, err
	}

	required := map[string]bool{}
	var visit func(name string)
	visit = func(name string) {
		if required[name] {
			return
		}
		required[name] = true
		for _, child := range catalog.Children(name) {
			visit(child)
		}
	}
	visit(target)

	toInstall := map[string]bool{}
	for name := range required {
		repoName, ok := installed(name)
		if !ok {
			toInstall[name] = true
			continue
		}
		if repoName != repo.Name {
			return nil, &fetchyerrors.CrossRepoConflictError{Package: name, InstalledIn: repoName, RequestedIn: repo.Name}
		}
		// Already installed under this same repository: nothing to fetch.
	}
	if len(toInstall) == 0 {
		return nil, nil
	}

	sub := dag.New(nil)
	for name := range toInstall {
		_ = sub.AddNode(dag.Node{ID: name})
	}
	for name := range toInstall {
		for _, child := range catalog.Children(name) {
			if toInstall[child] {
				_ = sub.AddEdge(dag.Edge{From: name, To: child})
			}
		}
	}

	order, err := sub.TopoSort()
	if err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeRepositoryError, err, "dependency cycle in install closure for %q", target)
	}
	// TopoSort orders dependents before dependencies; reverse to get the
	// dependencies-before-dependents order the spec calls for.
	slices.Reverse(order)
	return order, nil
}
