// Package depgraph implements the Dependency Graph Manager (spec §4.8).
//
// Two graphs are maintained conceptually, both built on
// [github.com/fetchy/fetchy/pkg/dag.DAG] with edges running from a
// dependent node to the dependency it requires:
//
//   - the catalog graph: edges from [repository.PackageDecl.Requires]
//     within a single loaded Repository. Immutable per repo load, and
//     already validated acyclic by the loader.
//   - the install graph: edges from [store.InstalledPackage.Dependencies]
//     across everything currently installed. Mutated by every
//     install/uninstall.
//
// [InstallClosure] walks the catalog graph to find what a new install
// needs; [WouldBreakDependents] and [OrphanSweep] walk the install graph
// to decide what an uninstall can safely remove.
package depgraph
