// Package dag provides a general-purpose directed acyclic graph used for
// both the repository catalog graph and the install graph, plus the
// node-link renderer's input shape.
//
// # Overview
//
// Fetchy builds two conceptual graphs over package names (see
// pkg/depgraph): the catalog graph, whose edges come from a repository's
// declared `requires` lists, and the install graph, whose edges come from
// an InstalledPackage's recorded dependencies. Both are represented with
// this package's [DAG] type so that cycle detection, traversal, and
// rendering share one implementation.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges
// with [DAG.AddEdge]. Node IDs must be unique:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "yt-dlp"})
//	g.AddNode(dag.Node{ID: "ffmpeg"})
//	g.AddEdge(dag.Edge{From: "yt-dlp", To: "ffmpeg"})
//
// Query the graph structure with [DAG.Children], [DAG.Parents],
// [DAG.Sources], [DAG.Sinks], and [DAG.TopoSort]. Use [DAG.Validate] to
// check that the graph is acyclic before relying on a topological order.
//
// # Row Assignment
//
// The [Node.Row] field groups nodes into layers. Fetchy's own graphs do
// not need layering and leave every node at row 0; the node-link renderer
// (pkg/render/nodelink) does not read rows, so the zero value is always
// valid here.
//
// # Metadata
//
// Both nodes and the graph itself support arbitrary metadata via
// [Metadata] maps, used by the manager package to annotate nodes with a
// package's install status and, for installed packages, its version and
// repository name for the `fetchy graph` command.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
//
// # Related Packages
//
// [pkg/depgraph] builds catalog and install graphs using this package and
// implements install-closure resolution, breakage checks, and orphan
// sweeps. [pkg/render/nodelink] renders a DAG to Graphviz DOT/SVG/PNG for
// the `fetchy graph` command.
//
// [pkg/depgraph]: github.com/fetchy/fetchy/pkg/depgraph
// [pkg/render/nodelink]: github.com/fetchy/fetchy/pkg/render/nodelink
package dag
