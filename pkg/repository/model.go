package repository

import (
	"regexp"

	"github.com/fetchy/fetchy/pkg/platform"
)

// SourceKind distinguishes the two closed variants a PackageDecl's
// remote origin can take.
type SourceKind int

const (
	SourceGitHub SourceKind = iota
	SourceDirect
)

func (k SourceKind) String() string {
	if k == SourceDirect {
		return "Direct"
	}
	return "GitHub"
}

// Source is the canonical, tagged-union form of the DSL's `Source`
// production. Only Owner/Repo/AllowPrerelease are meaningful when
// Kind == SourceGitHub.
type Source struct {
	Kind            SourceKind
	Owner           string
	Repo            string
	AllowPrerelease bool
}

// VersionKind distinguishes the three closed variants a PackageDecl's
// resolved version can be derived from.
type VersionKind int

const (
	VersionTagName VersionKind = iota
	VersionReleaseTitle
	VersionLiteral
)

// VersionFrom is the canonical form of the DSL's `Version` production.
// Literal is only meaningful when Kind == VersionLiteral.
type VersionFrom struct {
	Kind    VersionKind
	Literal string
}

// ArchiveKind is one of the four archive container formats the
// extractor understands.
type ArchiveKind int

const (
	TarGz ArchiveKind = iota
	TarXz
	TarBz2
	Zip
)

func (k ArchiveKind) String() string {
	switch k {
	case TarGz:
		return "TarGz"
	case TarXz:
		return "TarXz"
	case TarBz2:
		return "TarBz2"
	case Zip:
		return "Zip"
	default:
		return "unknown"
	}
}

// ParseArchiveKind maps a DSL/JSON archive-kind token to an ArchiveKind,
// or reports ok=false if it is outside the closed set.
func ParseArchiveKind(s string) (ArchiveKind, bool) {
	switch s {
	case "TarGz":
		return TarGz, true
	case "TarXz":
		return TarXz, true
	case "TarBz2":
		return TarBz2, true
	case "Zip":
		return Zip, true
	default:
		return 0, false
	}
}

// BinarySelector identifies a single file within an archive to extract
// and install. PathRegexp is compiled once at load time so extraction
// never pays for regex compilation.
type BinarySelector struct {
	PathPattern string
	PathRegexp  *regexp.Regexp
	// InstallName is the binary's name under the install bin directory.
	// If empty, the extractor uses the matched archive entry's base name.
	InstallName string
}

// AssetKind distinguishes the two closed shapes an AssetSpec can take.
type AssetKind int

const (
	AssetArchive AssetKind = iota
	AssetSingleFile
)

// AssetSpec is the canonical per-platform descriptor of where to find a
// package's remote asset and how to turn it into installed binaries.
//
// Pattern holds a regex matched against GitHub release asset names when
// the owning package's Source is GitHub, or an absolute URL when it is
// Direct. PatternRegexp is non-nil only in the GitHub case.
type AssetSpec struct {
	Kind          AssetKind
	Pattern       string
	PatternRegexp *regexp.Regexp

	// ArchiveKind and Binaries are set only when Kind == AssetArchive.
	ArchiveKind ArchiveKind
	Binaries    []BinarySelector

	// InstallName is set only when Kind == AssetSingleFile.
	InstallName string
}

// PackageDecl is the canonical, validated form of a single `Pkg`
// production: a unit Fetchy installs as one or more binaries.
type PackageDecl struct {
	Name        string
	Requires    []string
	Source      Source
	VersionFrom VersionFrom
	Variants    map[platform.Platform]AssetSpec
}

// Warning is a non-fatal diagnostic attached to a successfully loaded
// Repository - e.g. a declared archive kind that disagrees with the
// asset pattern's apparent file extension, or a SingleFile install name
// whose .exe suffix disagrees with its platform.
type Warning struct {
	Package string
	Message string
}

// Repository is the canonical, validated catalog a source file or JSON
// document compiles to. It is the unit persisted under repos/ and the
// unit added/removed by add-repo/remove-repo.
type Repository struct {
	Name        string
	Description string
	Packages    map[string]PackageDecl
	Warnings    []Warning
}
