package repository

import (
	"strings"
	"testing"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/platform"
	"github.com/fetchy/fetchy/pkg/repodsl"
)

func mustParse(t *testing.T, src string) *repodsl.File {
	t.Helper()
	f, err := repodsl.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return f
}

func TestLoad_Basic(t *testing.T) {
	src := `name "r" description "d" packages {
		"a": GitHub "o/r" version(TagName) {
			linux[x86_64] ".*\\.tar\\.gz$" archive(TarGz) { bin "/a$" as "a" }
		}
	}`

	repo, err := Load(mustParse(t, src))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if repo.Name != "r" || repo.Description != "d" {
		t.Errorf("Name/Description = %q/%q, want r/d", repo.Name, repo.Description)
	}
	if len(repo.Packages) != 1 {
		t.Fatalf("len(Packages) = %d, want 1", len(repo.Packages))
	}

	pkg, ok := repo.Packages["a"]
	if !ok {
		t.Fatal(`missing package "a"`)
	}
	if pkg.Source.Kind != SourceGitHub || pkg.Source.Owner != "o" || pkg.Source.Repo != "r" {
		t.Errorf("Source = %+v, want GitHub o/r", pkg.Source)
	}
	if pkg.VersionFrom.Kind != VersionTagName {
		t.Errorf("VersionFrom.Kind = %v, want VersionTagName", pkg.VersionFrom.Kind)
	}

	variant, ok := pkg.Variants[platform.Platform{OS: platform.Linux, Arch: platform.X86_64}]
	if !ok {
		t.Fatal("missing linux/x86_64 variant")
	}
	if variant.Kind != AssetArchive || variant.ArchiveKind != TarGz {
		t.Errorf("variant = %+v, want archive/TarGz", variant)
	}
	if len(variant.Binaries) != 1 || variant.Binaries[0].InstallName != "a" {
		t.Errorf("Binaries = %+v, want one selector installed as a", variant.Binaries)
	}
	if len(repo.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", repo.Warnings)
	}
}

func TestLoad_DirectSource(t *testing.T) {
	src := `name "r" description "d" packages {
		"a": Direct version("1.0.0") {
			linux[x86_64] "https://example.com/a-linux" as "a"
		}
	}`

	repo, err := Load(mustParse(t, src))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	pkg := repo.Packages["a"]
	if pkg.Source.Kind != SourceDirect {
		t.Errorf("Source.Kind = %v, want SourceDirect", pkg.Source.Kind)
	}
	if pkg.VersionFrom.Kind != VersionLiteral || pkg.VersionFrom.Literal != "1.0.0" {
		t.Errorf("VersionFrom = %+v, want literal 1.0.0", pkg.VersionFrom)
	}

	variant := pkg.Variants[platform.Platform{OS: platform.Linux, Arch: platform.X86_64}]
	if variant.Kind != AssetSingleFile || variant.InstallName != "a" {
		t.Errorf("variant = %+v, want single-file installed as a", variant)
	}
}

func TestLoad_DirectRequiresLiteralVersion(t *testing.T) {
	src := `name "r" description "d" packages {
		"a": Direct version(TagName) {
			linux[x86_64] "https://example.com/a" as "a"
		}
	}`

	_, err := Load(mustParse(t, src))
	if !fetchyerrors.Is(err, fetchyerrors.CodeRepositoryError) {
		t.Fatalf("Load() error = %v, want CodeRepositoryError", err)
	}
}

func TestLoad_DirectPatternMustBeAbsoluteURL(t *testing.T) {
	src := `name "r" description "d" packages {
		"a": Direct version("1.0.0") {
			linux[x86_64] "not-a-url" as "a"
		}
	}`

	_, err := Load(mustParse(t, src))
	if !fetchyerrors.Is(err, fetchyerrors.CodeRepositoryError) {
		t.Fatalf("Load() error = %v, want CodeRepositoryError", err)
	}
}

func TestLoad_DuplicatePackageName(t *testing.T) {
	src := `name "r" description "d" packages {
		"a": Direct version("1.0.0") { linux[x86_64] "https://example.com/a" as "a" }
		"a": Direct version("1.0.0") { linux[x86_64] "https://example.com/a" as "a" }
	}`

	_, err := Load(mustParse(t, src))
	if !fetchyerrors.Is(err, fetchyerrors.CodeRepositoryError) {
		t.Fatalf("Load() error = %v, want CodeRepositoryError", err)
	}
	if !strings.Contains(err.Error(), "duplicate package") {
		t.Errorf("error = %v, want mention of duplicate package", err)
	}
}

func TestLoad_UnknownRequires(t *testing.T) {
	src := `name "r" description "d" packages {
		"a" (requires "b"): Direct version("1.0.0") { linux[x86_64] "https://example.com/a" as "a" }
	}`

	_, err := Load(mustParse(t, src))
	if !fetchyerrors.Is(err, fetchyerrors.CodeRepositoryError) {
		t.Fatalf("Load() error = %v, want CodeRepositoryError", err)
	}
}

func TestLoad_CyclicRequires(t *testing.T) {
	src := `name "r" description "d" packages {
		"a" (requires "b"): Direct version("1.0.0") { linux[x86_64] "https://example.com/a" as "a" }
		"b" (requires "a"): Direct version("1.0.0") { linux[x86_64] "https://example.com/b" as "b" }
	}`

	_, err := Load(mustParse(t, src))
	if !fetchyerrors.Is(err, fetchyerrors.CodeRepositoryError) {
		t.Fatalf("Load() error = %v, want CodeRepositoryError", err)
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error = %v, want mention of a cycle", err)
	}
}

func TestLoad_RequiresAreSatisfied(t *testing.T) {
	src := `name "r" description "d" packages {
		"ffmpeg": Direct version("1.0.0") { linux[x86_64] "https://example.com/ffmpeg" as "ffmpeg" }
		"yt-dlp" (requires "ffmpeg"): Direct version("1.0.0") { linux[x86_64] "https://example.com/yt-dlp" as "yt-dlp" }
	}`

	repo, err := Load(mustParse(t, src))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := repo.Packages["yt-dlp"].Requires; len(got) != 1 || got[0] != "ffmpeg" {
		t.Errorf("Requires = %v, want [ffmpeg]", got)
	}
}

func TestLoad_DeclaredArchiveKindDisagreesWithPattern(t *testing.T) {
	// Mirrors spec.md §9's first open question: a windows variant
	// declared archive(TarGz) while its URL suffix looks like .zip.
	src := `name "r" description "d" packages {
		"a": Direct version("1.0.0") {
			windows[x86_64] "https://example.com/a-windows.zip" archive(TarGz) { bin "a.exe" as "a.exe" }
		}
	}`

	repo, err := Load(mustParse(t, src))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	pkg := repo.Packages["a"]
	variant := pkg.Variants[platform.Platform{OS: platform.Windows, Arch: platform.X86_64}]
	if variant.ArchiveKind != TarGz {
		t.Errorf("ArchiveKind = %v, want TarGz (declared kind must win)", variant.ArchiveKind)
	}
	if len(repo.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", repo.Warnings)
	}
	if !strings.Contains(repo.Warnings[0].Message, "TarGz") {
		t.Errorf("warning = %q, want mention of TarGz", repo.Warnings[0].Message)
	}
}

func TestLoad_SingleFileExeSuffixMismatchWarns(t *testing.T) {
	// Mirrors spec.md §9's second open question: a linux/aarch64 binary
	// with install_name "xplr.exe".
	src := `name "r" description "d" packages {
		"xplr": Direct version("1.0.0") {
			linux[aarch64] "https://example.com/xplr" as "xplr.exe"
		}
	}`

	repo, err := Load(mustParse(t, src))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	pkg := repo.Packages["xplr"]
	variant := pkg.Variants[platform.Platform{OS: platform.Linux, Arch: platform.AArch64}]
	if variant.InstallName != "xplr.exe" {
		t.Errorf("InstallName = %q, want xplr.exe kept as declared", variant.InstallName)
	}
	if len(repo.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", repo.Warnings)
	}
}

func TestLoad_InvalidBinaryPattern(t *testing.T) {
	src := `name "r" description "d" packages {
		"a": Direct version("1.0.0") {
			linux[x86_64] "https://example.com/a.tar.gz" archive(TarGz) { bin "a(" as "a" }
		}
	}`

	_, err := Load(mustParse(t, src))
	if !fetchyerrors.Is(err, fetchyerrors.CodeRepositoryError) {
		t.Fatalf("Load() error = %v, want CodeRepositoryError", err)
	}
}

func TestLoad_DuplicatePlatformVariant(t *testing.T) {
	src := `name "r" description "d" packages {
		"a": Direct version("1.0.0") {
			linux[x86_64] "https://example.com/a" as "a",
			linux[x86_64] "https://example.com/a2" as "a"
		}
	}`

	_, err := Load(mustParse(t, src))
	if !fetchyerrors.Is(err, fetchyerrors.CodeRepositoryError) {
		t.Fatalf("Load() error = %v, want CodeRepositoryError", err)
	}
}

func TestLoad_EmptyRepositoryName(t *testing.T) {
	src := `name "" description "d" packages {}`

	_, err := Load(mustParse(t, src))
	if !fetchyerrors.Is(err, fetchyerrors.CodeRepositoryError) {
		t.Fatalf("Load() error = %v, want CodeRepositoryError", err)
	}
}
