package depgraph

import (
	"github.com/fetchy/fetchy/pkg/dag"
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/repository"
	"github.com/fetchy/fetchy/pkg/store"
)

// BuildCatalogGraph builds the catalog graph for a single loaded
// Repository: one node per package, one edge per requires entry,
// running from the dependent to the dependency it requires.
//
// repo is assumed already validated by [repository.Load] - its
// requires edges are guaranteed acyclic and fully resolved - so the
// only errors this can return indicate a programming error, not bad
// input.
func BuildCatalogGraph(repo repository.Repository) (*dag.DAG, error) {
	g := dag.New(nil)
	for name := range repo.Packages {
		if err := g.AddNode(dag.Node{ID: name}); err != nil {
			return nil, fetchyerrors.Wrap(fetchyerrors.CodeRepositoryError, err, "adding package %q to catalog graph", name)
		}
	}
	for name, decl := range repo.Packages {
		for _, req := range decl.Requires {
			if err := g.AddEdge(dag.Edge{From: name, To: req}); err != nil {
				return nil, fetchyerrors.Wrap(fetchyerrors.CodeRepositoryError, err, "package %q requires %q", name, req)
			}
		}
	}
	return g, nil
}

// BuildInstallGraph builds the install graph across every currently
// installed record: one node per record (keyed by its repo-qualified
// key), one edge per dependency entry, running from the dependent
// record to the dependency it requires.
//
// A dependency entry naming a record that does not exist violates
// Install Store invariant 1 (spec §3) and is reported as a CodeIoError
// rather than silently dropped, so callers like `fetchy doctor` can
// surface it.
func BuildInstallGraph(records []store.InstalledPackage) (*dag.DAG, error) {
	g := dag.New(nil)
	for _, r := range records {
		if err := g.AddNode(dag.Node{ID: r.Key().String()}); err != nil {
			return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "adding record %s to install graph", r.Key())
		}
	}
	for _, r := range records {
		for _, dep := range r.Dependencies {
			depKey := store.Key{Repo: r.RepoName, Package: dep}
			if err := g.AddEdge(dag.Edge{From: r.Key().String(), To: depKey.String()}); err != nil {
				return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "record %s depends on missing record %s", r.Key(), depKey)
			}
		}
	}
	return g, nil
}
