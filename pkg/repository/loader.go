package repository

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fetchy/fetchy/pkg/dag"
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/platform"
	"github.com/fetchy/fetchy/pkg/repodsl"
)

// Load normalizes a parsed DSL or JSON [repodsl.File] into a canonical
// Repository, performing every semantic validation in spec §4.3: name
// and key uniqueness, regex syntax, platform-key distinctness, the
// Direct/GitHub version_from restriction, and acyclicity of the
// intra-repository `requires` relation.
//
// Validation failures return a *errors.Error with
// [fetchyerrors.CodeRepositoryError], carrying a located diagnostic
// (line:col) when the failing node came from the text syntax front-end.
// Non-fatal issues - a declared archive kind that disagrees with the
// asset pattern's apparent extension, or a SingleFile install name whose
// .exe suffix disagrees with its platform - are collected as
// [Warning]s on the returned Repository rather than failing the load.
func Load(file *repodsl.File) (*Repository, error) {
	if file.Name.Value == "" {
		return nil, repoErr(file.Name.Span, "repository name cannot be empty")
	}

	packages := make(map[string]PackageDecl, len(file.Packages))
	var warnings []Warning

	for _, pkgNode := range file.Packages {
		if pkgNode.Name.Value == "" {
			return nil, repoErr(pkgNode.Span, "package name cannot be empty")
		}
		if _, dup := packages[pkgNode.Name.Value]; dup {
			return nil, repoErr(pkgNode.Name.Span, "duplicate package name %q", pkgNode.Name.Value)
		}

		decl, pkgWarnings, err := loadPackage(pkgNode)
		if err != nil {
			return nil, err
		}
		for _, w := range pkgWarnings {
			w.Package = pkgNode.Name.Value
			warnings = append(warnings, w)
		}

		packages[pkgNode.Name.Value] = decl
	}

	if err := validateRequires(packages); err != nil {
		return nil, err
	}

	return &Repository{
		Name:        file.Name.Value,
		Description: file.Description.Value,
		Packages:    packages,
		Warnings:    warnings,
	}, nil
}

func loadPackage(pkgNode repodsl.PkgNode) (PackageDecl, []Warning, error) {
	requires := make([]string, 0, len(pkgNode.Requires))
	for _, r := range pkgNode.Requires {
		requires = append(requires, r.Value)
	}

	source, err := loadSource(pkgNode.Source, pkgNode.Prerelease)
	if err != nil {
		return PackageDecl{}, nil, err
	}

	versionFrom, err := loadVersion(pkgNode.Version, source)
	if err != nil {
		return PackageDecl{}, nil, err
	}

	if len(pkgNode.Variants) == 0 {
		return PackageDecl{}, nil, repoErr(pkgNode.Span, "package %q declares no variants", pkgNode.Name.Value)
	}

	variants := make(map[platform.Platform]AssetSpec, len(pkgNode.Variants))
	var warnings []Warning
	for _, v := range pkgNode.Variants {
		plat, spec, vWarnings, err := loadVariant(v, source)
		if err != nil {
			return PackageDecl{}, nil, err
		}
		if _, dup := variants[plat]; dup {
			return PackageDecl{}, nil, repoErr(v.Span, "duplicate variant for platform %s", plat)
		}
		variants[plat] = spec
		warnings = append(warnings, vWarnings...)
	}

	return PackageDecl{
		Name:        pkgNode.Name.Value,
		Requires:    requires,
		Source:      source,
		VersionFrom: versionFrom,
		Variants:    variants,
	}, warnings, nil
}

func loadSource(node repodsl.SourceNode, prerelease bool) (Source, error) {
	switch node.Kind {
	case repodsl.SourceGitHub:
		owner, repo, ok := strings.Cut(node.Repo.Value, "/")
		if !ok || owner == "" || repo == "" {
			return Source{}, repoErr(node.Repo.Span, `GitHub source %q must have the form "owner/repo"`, node.Repo.Value)
		}
		return Source{Kind: SourceGitHub, Owner: owner, Repo: repo, AllowPrerelease: prerelease}, nil
	case repodsl.SourceDirect:
		return Source{Kind: SourceDirect}, nil
	default:
		return Source{}, repoErr(node.Span, "unknown source kind")
	}
}

func loadVersion(node repodsl.VersionNode, source Source) (VersionFrom, error) {
	var v VersionFrom
	switch node.Kind {
	case repodsl.VersionTagName:
		v = VersionFrom{Kind: VersionTagName}
	case repodsl.VersionReleaseTitle:
		v = VersionFrom{Kind: VersionReleaseTitle}
	case repodsl.VersionLiteral:
		v = VersionFrom{Kind: VersionLiteral, Literal: node.Literal.Value}
	default:
		return VersionFrom{}, repoErr(node.Span, "unknown version kind")
	}

	if source.Kind == SourceDirect && v.Kind != VersionLiteral {
		return VersionFrom{}, repoErr(node.Span, "Direct source requires a literal version")
	}
	return v, nil
}

func loadVariant(node repodsl.VariantNode, source Source) (platform.Platform, AssetSpec, []Warning, error) {
	osName, ok := platform.ParseOS(node.OS.Value)
	if !ok {
		return platform.Platform{}, AssetSpec{}, nil, repoErr(node.OS.Span, "unknown operating system %q", node.OS.Value)
	}
	arch, ok := platform.ParseArch(node.Arch.Value)
	if !ok {
		return platform.Platform{}, AssetSpec{}, nil, repoErr(node.Arch.Span, "unknown architecture %q", node.Arch.Value)
	}
	plat := platform.Platform{OS: osName, Arch: arch}

	pattern := node.Pattern.Value
	if _, err := regexp.Compile(pattern); err != nil {
		return platform.Platform{}, AssetSpec{}, nil, repoErr(node.Pattern.Span, "invalid pattern %q: %v", pattern, err)
	}

	var patternRegexp *regexp.Regexp
	if source.Kind == SourceGitHub {
		patternRegexp = regexp.MustCompile(pattern)
	} else {
		if err := fetchyerrors.ValidateURL(pattern); err != nil {
			return platform.Platform{}, AssetSpec{}, nil, repoErr(node.Pattern.Span, "Direct variant pattern must be an absolute URL: %v", err)
		}
	}

	var warnings []Warning
	var spec AssetSpec

	switch {
	case node.Archive != nil:
		kind, ok := ParseArchiveKind(node.Archive.Kind.Value)
		if !ok {
			return platform.Platform{}, AssetSpec{}, nil, repoErr(node.Archive.Span, "unknown archive kind %q", node.Archive.Kind.Value)
		}

		binaries := make([]BinarySelector, 0, len(node.Archive.Bins))
		for _, bin := range node.Archive.Bins {
			re, err := regexp.Compile(bin.Pattern.Value)
			if err != nil {
				return platform.Platform{}, AssetSpec{}, nil, repoErr(bin.Pattern.Span, "invalid binary pattern %q: %v", bin.Pattern.Value, err)
			}
			installName := ""
			if bin.As != nil {
				installName = bin.As.Value
			}
			binaries = append(binaries, BinarySelector{
				PathPattern: bin.Pattern.Value,
				PathRegexp:  re,
				InstallName: installName,
			})
		}

		spec = AssetSpec{Kind: AssetArchive, Pattern: pattern, PatternRegexp: patternRegexp, ArchiveKind: kind, Binaries: binaries}

		if inferred, ok := inferArchiveKind(pattern); ok && inferred != kind {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("declared archive kind %s for %s[%s] disagrees with pattern %q, which looks like %s; using the declared kind", kind, osName, arch, pattern, inferred),
			})
		}

	case node.SingleFile != nil:
		installName := node.SingleFile.InstallName.Value
		spec = AssetSpec{Kind: AssetSingleFile, Pattern: pattern, PatternRegexp: patternRegexp, InstallName: installName}

		wantsExe := osName == platform.Windows
		hasExe := strings.HasSuffix(installName, ".exe")
		if wantsExe != hasExe {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("install name %q for %s[%s] %s end in .exe; keeping the declared name", installName, osName, arch, exeExpectation(wantsExe)),
			})
		}

	default:
		return platform.Platform{}, AssetSpec{}, nil, repoErr(node.Span, "variant declares neither an archive nor a single file")
	}

	return plat, spec, warnings, nil
}

func exeExpectation(wantsExe bool) string {
	if wantsExe {
		return "should"
	}
	return "should not"
}

// inferArchiveKind guesses an archive kind from a pattern's apparent
// file extension, used only to raise a declared-vs-inferred warning
// (spec §9); it never overrides the declared kind.
func inferArchiveKind(pattern string) (ArchiveKind, bool) {
	switch {
	case strings.Contains(pattern, ".tar.gz") || strings.Contains(pattern, ".tgz"):
		return TarGz, true
	case strings.Contains(pattern, ".tar.xz") || strings.Contains(pattern, ".txz"):
		return TarXz, true
	case strings.Contains(pattern, ".tar.bz2") || strings.Contains(pattern, ".tbz2"):
		return TarBz2, true
	case strings.Contains(pattern, ".zip"):
		return Zip, true
	default:
		return 0, false
	}
}

func validateRequires(packages map[string]PackageDecl) error {
	g := dag.New(nil)
	for name := range packages {
		_ = g.AddNode(dag.Node{ID: name})
	}
	for name, decl := range packages {
		for _, req := range decl.Requires {
			if _, ok := packages[req]; !ok {
				return fetchyerrors.New(fetchyerrors.CodeRepositoryError, "package %q requires unknown package %q", name, req)
			}
			if err := g.AddEdge(dag.Edge{From: name, To: req}); err != nil {
				return fetchyerrors.Wrap(fetchyerrors.CodeRepositoryError, err, "package %q requires %q", name, req)
			}
		}
	}
	if err := g.Validate(); err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeRepositoryError, err, "dependency cycle detected among package requirements")
	}
	return nil
}

func repoErr(span repodsl.Span, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if span.Start.Line > 0 {
		msg = fmt.Sprintf("%d:%d: %s", span.Start.Line, span.Start.Col, msg)
	}
	return fetchyerrors.New(fetchyerrors.CodeRepositoryError, "%s", msg)
}
