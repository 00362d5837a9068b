// Package manager is the Package Manager orchestrator (spec §4, CLI
// surface in §6): it wires the Repository Loader, Asset Selector,
// Fetcher, Archive Extractor, Install Store, and Dependency Graph
// Manager into the user-visible operations - add-repo, remove-repo,
// list-repos, install, uninstall, update, list - plus the supplemented
// reinstall, graph, and doctor operations.
//
// A Manager owns no long-lived state of its own beyond a
// [github.com/fetchy/fetchy/pkg/config.Config]; every operation reads
// whatever it needs from disk (repos, the install store) fresh,
// consistent with the Install Store being the sole owner of installed
// records (spec §3's ownership note).
package manager
