package repository

import (
	"encoding/json"
	"regexp"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/platform"
)

// The DSL and the JSON front-end both produce an AST that [Load]
// validates into a Repository; neither is suited to persisting a
// Repository back to disk, since their JSON-facing shape isn't a
// faithful serialization of the canonical model (compiled regexes
// in particular have no JSON form). MarshalJSON/UnmarshalJSON give
// Repository a canonical persisted shape of its own, used by
// pkg/manager to write repos/<name>.json and read it back byte-for-byte
// equivalent, as the add-repo/list-repos/install commands require.

type repoDoc struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Packages    map[string]pkgDoc    `json:"packages"`
	Warnings    []Warning            `json:"warnings,omitempty"`
}

type pkgDoc struct {
	Requires    []string            `json:"requires,omitempty"`
	Source      sourceDoc           `json:"source"`
	VersionFrom versionDoc          `json:"version_from"`
	Variants    map[string]assetDoc `json:"variants"`
}

type sourceDoc struct {
	Kind            string `json:"kind"`
	Owner           string `json:"owner,omitempty"`
	Repo            string `json:"repo,omitempty"`
	AllowPrerelease bool   `json:"allow_prerelease,omitempty"`
}

type versionDoc struct {
	Kind    string `json:"kind"`
	Literal string `json:"literal,omitempty"`
}

type assetDoc struct {
	Kind        string      `json:"kind"`
	Pattern     string      `json:"pattern"`
	ArchiveKind string      `json:"archive_kind,omitempty"`
	Binaries    []binaryDoc `json:"binaries,omitempty"`
	InstallName string      `json:"install_name,omitempty"`
}

type binaryDoc struct {
	PathPattern string `json:"path_pattern"`
	InstallName string `json:"install_name,omitempty"`
}

// MarshalJSON renders r in its canonical persisted form.
func (r Repository) MarshalJSON() ([]byte, error) {
	doc := repoDoc{
		Name:        r.Name,
		Description: r.Description,
		Packages:    make(map[string]pkgDoc, len(r.Packages)),
		Warnings:    r.Warnings,
	}
	for name, decl := range r.Packages {
		variants := make(map[string]assetDoc, len(decl.Variants))
		for plat, spec := range decl.Variants {
			variants[plat.String()] = assetToDoc(spec)
		}
		doc.Packages[name] = pkgDoc{
			Requires:    decl.Requires,
			Source:      sourceToDoc(decl.Source),
			VersionFrom: versionToDoc(decl.VersionFrom),
			Variants:    variants,
		}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON parses r from its canonical persisted form, recompiling
// every pattern's regex.
func (r *Repository) UnmarshalJSON(data []byte) error {
	var doc repoDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "parsing repository document")
	}

	packages := make(map[string]PackageDecl, len(doc.Packages))
	for name, pd := range doc.Packages {
		source, err := sourceFromDoc(pd.Source)
		if err != nil {
			return err
		}
		versionFrom, err := versionFromDoc(pd.VersionFrom)
		if err != nil {
			return err
		}

		variants := make(map[platform.Platform]AssetSpec, len(pd.Variants))
		for key, ad := range pd.Variants {
			plat, err := parsePlatformKey(key)
			if err != nil {
				return err
			}
			spec, err := assetFromDoc(ad, source.Kind)
			if err != nil {
				return err
			}
			variants[plat] = spec
		}

		packages[name] = PackageDecl{
			Name:        name,
			Requires:    pd.Requires,
			Source:      source,
			VersionFrom: versionFrom,
			Variants:    variants,
		}
	}

	r.Name = doc.Name
	r.Description = doc.Description
	r.Packages = packages
	r.Warnings = doc.Warnings
	return nil
}

func sourceToDoc(s Source) sourceDoc {
	if s.Kind == SourceDirect {
		return sourceDoc{Kind: "Direct"}
	}
	return sourceDoc{Kind: "GitHub", Owner: s.Owner, Repo: s.Repo, AllowPrerelease: s.AllowPrerelease}
}

func sourceFromDoc(d sourceDoc) (Source, error) {
	switch d.Kind {
	case "Direct":
		return Source{Kind: SourceDirect}, nil
	case "GitHub":
		return Source{Kind: SourceGitHub, Owner: d.Owner, Repo: d.Repo, AllowPrerelease: d.AllowPrerelease}, nil
	default:
		return Source{}, fetchyerrors.New(fetchyerrors.CodeIoError, "unknown source kind %q", d.Kind)
	}
}

func versionToDoc(v VersionFrom) versionDoc {
	switch v.Kind {
	case VersionTagName:
		return versionDoc{Kind: "TagName"}
	case VersionReleaseTitle:
		return versionDoc{Kind: "ReleaseTitle"}
	default:
		return versionDoc{Kind: "Literal", Literal: v.Literal}
	}
}

func versionFromDoc(d versionDoc) (VersionFrom, error) {
	switch d.Kind {
	case "TagName":
		return VersionFrom{Kind: VersionTagName}, nil
	case "ReleaseTitle":
		return VersionFrom{Kind: VersionReleaseTitle}, nil
	case "Literal":
		return VersionFrom{Kind: VersionLiteral, Literal: d.Literal}, nil
	default:
		return VersionFrom{}, fetchyerrors.New(fetchyerrors.CodeIoError, "unknown version kind %q", d.Kind)
	}
}

func assetToDoc(spec AssetSpec) assetDoc {
	if spec.Kind == AssetSingleFile {
		return assetDoc{Kind: "SingleFile", Pattern: spec.Pattern, InstallName: spec.InstallName}
	}
	doc := assetDoc{Kind: "Archive", Pattern: spec.Pattern, ArchiveKind: spec.ArchiveKind.String()}
	for _, b := range spec.Binaries {
		doc.Binaries = append(doc.Binaries, binaryDoc{PathPattern: b.PathPattern, InstallName: b.InstallName})
	}
	return doc
}

func assetFromDoc(d assetDoc, sourceKind SourceKind) (AssetSpec, error) {
	patternRegexp, err := compilePatternForSource(d.Pattern, sourceKind)
	if err != nil {
		return AssetSpec{}, err
	}

	switch d.Kind {
	case "SingleFile":
		return AssetSpec{Kind: AssetSingleFile, Pattern: d.Pattern, PatternRegexp: patternRegexp, InstallName: d.InstallName}, nil
	case "Archive":
		kind, ok := ParseArchiveKind(d.ArchiveKind)
		if !ok {
			return AssetSpec{}, fetchyerrors.New(fetchyerrors.CodeIoError, "unknown archive kind %q", d.ArchiveKind)
		}
		binaries := make([]BinarySelector, 0, len(d.Binaries))
		for _, b := range d.Binaries {
			re, err := regexp.Compile(b.PathPattern)
			if err != nil {
				return AssetSpec{}, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "compiling binary pattern %q", b.PathPattern)
			}
			binaries = append(binaries, BinarySelector{PathPattern: b.PathPattern, PathRegexp: re, InstallName: b.InstallName})
		}
		return AssetSpec{Kind: AssetArchive, Pattern: d.Pattern, PatternRegexp: patternRegexp, ArchiveKind: kind, Binaries: binaries}, nil
	default:
		return AssetSpec{}, fetchyerrors.New(fetchyerrors.CodeIoError, "unknown asset kind %q", d.Kind)
	}
}

// compilePatternForSource mirrors loadVariant's rule (loader.go): a
// GitHub-sourced pattern is a regex matched against asset names; a
// Direct-sourced pattern is an absolute URL and carries no compiled
// regex at all.
func compilePatternForSource(pattern string, sourceKind SourceKind) (*regexp.Regexp, error) {
	if sourceKind != SourceGitHub {
		if err := fetchyerrors.ValidateURL(pattern); err != nil {
			return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "Direct variant pattern must be an absolute URL")
		}
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "compiling asset pattern %q", pattern)
	}
	return re, nil
}

func parsePlatformKey(key string) (platform.Platform, error) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			osPart, archPart := key[:i], key[i+1:]
			os, ok := platform.ParseOS(osPart)
			if !ok {
				return platform.Platform{}, fetchyerrors.New(fetchyerrors.CodeIoError, "unknown platform os %q", osPart)
			}
			arch, ok := platform.ParseArch(archPart)
			if !ok {
				return platform.Platform{}, fetchyerrors.New(fetchyerrors.CodeIoError, "unknown platform arch %q", archPart)
			}
			return platform.Platform{OS: os, Arch: arch}, nil
		}
	}
	return platform.Platform{}, fetchyerrors.New(fetchyerrors.CodeIoError, "malformed platform key %q", key)
}
