package repodsl

import (
	"encoding/json"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

// This file is the JSON front-end required by spec.md §4.2: "A second
// front-end accepts an equivalent JSON document producing the same AST."
// JSON documents carry no meaningful line/column information once
// unmarshaled, so every node's Span is the zero Position; the Repository
// Loader falls back to referencing the package/variant name in diagnostics
// for repositories loaded through this front-end.

type jsonFile struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Packages    map[string]jsonPkg `json:"packages"`
}

type jsonPkg struct {
	Requires   []string      `json:"requires"`
	Source     jsonSource    `json:"source"`
	Version    jsonVersion   `json:"version"`
	Prerelease bool          `json:"prerelease"`
	Variants   []jsonVariant `json:"variants"`
}

type jsonSource struct {
	Type string `json:"type"` // "GitHub" | "Direct"
	Repo string `json:"repo"` // set when Type == "GitHub"
}

type jsonVersion struct {
	Type  string `json:"type"` // "TagName" | "ReleaseTitle" | "Literal"
	Value string `json:"value"`
}

type jsonVariant struct {
	OS         string          `json:"os"`
	Arch       string          `json:"arch"`
	Pattern    string          `json:"pattern"`
	Archive    *jsonArchive    `json:"archive,omitempty"`
	SingleFile *jsonSingleFile `json:"single_file,omitempty"`
}

type jsonArchive struct {
	Kind string    `json:"kind"`
	Bins []jsonBin `json:"bins"`
}

type jsonBin struct {
	Pattern string `json:"pattern"`
	As      string `json:"as,omitempty"`
}

type jsonSingleFile struct {
	InstallName string `json:"install_name"`
}

// ParseJSON decodes a JSON repository document into the same AST Parse
// produces from the custom DSL.
func ParseJSON(data []byte) (*File, error) {
	var jf jsonFile
	if err := json.Unmarshal(data, &jf); err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeSyntaxError, err, "decoding JSON repository document")
	}

	file := &File{
		Name:        str(jf.Name),
		Description: str(jf.Description),
	}

	for name, pkg := range jf.Packages {
		p, err := convertPkg(name, pkg)
		if err != nil {
			return nil, err
		}
		file.Packages = append(file.Packages, *p)
	}
	return file, nil
}

func convertPkg(name string, jp jsonPkg) (*PkgNode, error) {
	source, err := convertSource(name, jp.Source)
	if err != nil {
		return nil, err
	}
	version, err := convertVersion(name, jp.Version)
	if err != nil {
		return nil, err
	}

	var requires []StringLit
	for _, r := range jp.Requires {
		requires = append(requires, str(r))
	}

	var variants []VariantNode
	for i, jv := range jp.Variants {
		v, err := convertVariant(name, i, jv)
		if err != nil {
			return nil, err
		}
		variants = append(variants, *v)
	}

	return &PkgNode{
		Name:       str(name),
		Requires:   requires,
		Source:     *source,
		Version:    *version,
		Prerelease: jp.Prerelease,
		Variants:   variants,
	}, nil
}

func convertSource(pkg string, js jsonSource) (*SourceNode, error) {
	switch js.Type {
	case "GitHub":
		return &SourceNode{Kind: SourceGitHub, Repo: str(js.Repo)}, nil
	case "Direct":
		return &SourceNode{Kind: SourceDirect}, nil
	default:
		return nil, fetchyerrors.New(fetchyerrors.CodeSyntaxError, "package %q: unknown source type %q, expected %q or %q", pkg, js.Type, "GitHub", "Direct")
	}
}

func convertVersion(pkg string, jv jsonVersion) (*VersionNode, error) {
	switch jv.Type {
	case "TagName":
		return &VersionNode{Kind: VersionTagName}, nil
	case "ReleaseTitle":
		return &VersionNode{Kind: VersionReleaseTitle}, nil
	case "Literal":
		return &VersionNode{Kind: VersionLiteral, Literal: str(jv.Value)}, nil
	default:
		return nil, fetchyerrors.New(fetchyerrors.CodeSyntaxError, "package %q: unknown version type %q, expected %q, %q, or %q", pkg, jv.Type, "TagName", "ReleaseTitle", "Literal")
	}
}

func convertVariant(pkg string, index int, jv jsonVariant) (*VariantNode, error) {
	v := &VariantNode{OS: str(jv.OS), Arch: str(jv.Arch), Pattern: str(jv.Pattern)}

	switch {
	case jv.Archive != nil && jv.SingleFile != nil:
		return nil, fetchyerrors.New(fetchyerrors.CodeSyntaxError, "package %q: variant %d declares both %q and %q", pkg, index, "archive", "single_file")
	case jv.Archive != nil:
		var bins []BinNode
		for _, jb := range jv.Archive.Bins {
			b := BinNode{Pattern: str(jb.Pattern)}
			if jb.As != "" {
				as := str(jb.As)
				b.As = &as
			}
			bins = append(bins, b)
		}
		v.Archive = &ArchiveNode{Kind: str(jv.Archive.Kind), Bins: bins}
	case jv.SingleFile != nil:
		v.SingleFile = &SingleFileNode{InstallName: str(jv.SingleFile.InstallName)}
	default:
		return nil, fetchyerrors.New(fetchyerrors.CodeSyntaxError, "package %q: variant %d declares neither %q nor %q", pkg, index, "archive", "single_file")
	}
	return v, nil
}

func str(s string) StringLit { return StringLit{Value: s} }
