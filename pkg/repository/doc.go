// Package repository normalizes a parsed repository source file or JSON
// document into the canonical model Fetchy operates on everywhere else:
// the Asset Selector, Fetcher, and Dependency Graph Manager all consume
// a [Repository], never a [github.com/fetchy/fetchy/pkg/repodsl.File]
// directly.
//
// # Overview
//
// [Load] takes the AST produced by either repodsl front-end (the
// hand-written text parser or the JSON reader) and performs every
// semantic check the bare grammar cannot express on its own: package
// name uniqueness, regex and URL syntax, platform-key distinctness
// within a package, the Direct/GitHub version_from restriction, and
// acyclicity of the `requires` relation. A validation failure returns a
// *errors.Error with [github.com/fetchy/fetchy/pkg/errors.CodeRepositoryError],
// carrying a located line:col diagnostic when available.
//
// Two classes of issue in real repository files are not fatal: a
// declared archive kind that disagrees with the asset pattern's
// apparent extension, and a SingleFile install name whose .exe suffix
// disagrees with its platform. [Load] keeps the author's declaration
// exactly as written and records a [Warning] on the returned
// Repository instead of guessing or silently correcting it.
package repository
