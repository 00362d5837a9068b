package repodsl

// This file defines the concrete AST produced by both front-ends (the
// hand-written parser in parser.go and the JSON front-end in json.go).
// Every node carries the source Span it was parsed from so the loader
// (pkg/repository) can attach located diagnostics to semantic errors.

// StringLit is a quoted string literal with its source span.
type StringLit struct {
	Value string
	Span  Span
}

// SourceKind distinguishes the two closed Source variants.
type SourceKind int

const (
	SourceGitHub SourceKind = iota
	SourceDirect
)

// SourceNode is the parsed `Source` production: `"GitHub" STRING | "Direct"`.
type SourceNode struct {
	Kind SourceKind
	Repo StringLit // "owner/repo", only set when Kind == SourceGitHub
	Span Span
}

// VersionKind distinguishes the three closed Version variants.
type VersionKind int

const (
	VersionTagName VersionKind = iota
	VersionReleaseTitle
	VersionLiteral
)

// VersionNode is the parsed `Version` production:
// `"version" "(" ("TagName"|"ReleaseTitle"|STRING) ")"`.
type VersionNode struct {
	Kind    VersionKind
	Literal StringLit // only set when Kind == VersionLiteral
	Span    Span
}

// BinNode is the parsed `Bin` production: `"bin" STRING ("as" STRING)?`.
type BinNode struct {
	Pattern StringLit
	As      *StringLit // nil if the "as" clause is absent
	Span    Span
}

// ArchiveNode is the parsed archive half of `ArchiveOrBin`:
// `"archive" "(" ArcKind ")" "{" Bin ("," Bin)* "}"`.
type ArchiveNode struct {
	Kind StringLit // one of TarGz, TarXz, TarBz2, Zip
	Bins []BinNode
	Span Span
}

// SingleFileNode is the parsed non-archive half of `ArchiveOrBin`:
// `("as"|"bin") STRING`.
type SingleFileNode struct {
	InstallName StringLit
	Span        Span
}

// VariantNode is the parsed `Variant` production:
// `OS "[" ARCH "]" STRING ArchiveOrBin`.
type VariantNode struct {
	OS      StringLit // "linux", "windows", or "macos"
	Arch    StringLit // "x86_64" or "aarch64"
	Pattern StringLit // url_or_pattern

	Archive    *ArchiveNode    // set when ArchiveOrBin chose the archive alternative
	SingleFile *SingleFileNode // set when ArchiveOrBin chose the ("as"|"bin") STRING alternative

	Span Span
}

// PkgNode is the parsed `Pkg` production:
// `STRING Requires? ":" Source Version Flags? "{" Variant ("," Variant)* "}"`.
type PkgNode struct {
	Name       StringLit
	Requires   []StringLit
	Source     SourceNode
	Version    VersionNode
	Prerelease bool // Flags' "prelease" token, see spec.md §4.2
	Variants   []VariantNode
	Span       Span
}

// File is the parsed `File` production, the root of the AST:
// `"name" STRING "description" STRING "packages" "{" Pkg* "}"`.
type File struct {
	Name        StringLit
	Description StringLit
	Packages    []PkgNode
	Span        Span
}
