package manager

import (
	"context"

	"github.com/fetchy/fetchy/pkg/dag"
	"github.com/fetchy/fetchy/pkg/depgraph"
	"github.com/fetchy/fetchy/pkg/render/nodelink"
)

// Graph renders a DOT diagram of ref's catalog dependency subgraph, or
// of the full install graph across every installed package when ref is
// empty (`fetchy graph [pkg]`, a supplement to spec §6's CLI surface).
// Catalog nodes that are not yet installed are styled dashed/grey by
// [nodelink.ToDOT], consuming the "installed" node metadata this method
// sets.
func (m *Manager) Graph(ctx context.Context, ref string, detailed bool) (string, error) {
	records, err := m.store.List(ctx)
	if err != nil {
		return "", err
	}

	if ref == "" {
		g, err := depgraph.BuildInstallGraph(records)
		if err != nil {
			return "", err
		}
		for _, r := range records {
			if n, ok := g.Node(r.Key().String()); ok {
				n.Meta["installed"] = true
				n.Meta["version"] = r.ResolvedVersion
				n.Meta["repo"] = r.RepoName
			}
		}
		return nodelink.ToDOT(g, nodelink.Options{Detailed: detailed}), nil
	}

	repo, pkgName, err := m.resolvePackage(ctx, ref)
	if err != nil {
		return "", err
	}

	catalog, err := depgraph.BuildCatalogGraph(repo)
	if err != nil {
		return "", err
	}

	sub := subgraphFrom(catalog, pkgName)
	lookup := installedLookup(records)
	for _, n := range sub.Nodes() {
		_, ok := lookup(n.ID)
		n.Meta["installed"] = ok
	}

	return nodelink.ToDOT(sub, nodelink.Options{Detailed: detailed}), nil
}

// subgraphFrom returns the induced subgraph of g reachable from root,
// following outgoing (dependency) edges.
func subgraphFrom(g *dag.DAG, root string) *dag.DAG {
	sub := dag.New(nil)
	visited := map[string]bool{}

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		_ = sub.AddNode(dag.Node{ID: id})
		for _, child := range g.Children(id) {
			visit(child)
		}
	}
	visit(root)

	for id := range visited {
		for _, child := range g.Children(id) {
			_ = sub.AddEdge(dag.Edge{From: id, To: child})
		}
	}
	return sub
}
