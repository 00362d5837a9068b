package asset

import (
	"testing"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/platform"
	"github.com/fetchy/fetchy/pkg/repository"
)

func testPkg() repository.PackageDecl {
	linux := platform.Platform{OS: platform.Linux, Arch: platform.X86_64}
	mac := platform.Platform{OS: platform.MacOS, Arch: platform.AArch64}
	return repository.PackageDecl{
		Name: "yt-dlp",
		Variants: map[platform.Platform]repository.AssetSpec{
			linux: {Kind: repository.AssetSingleFile, Pattern: "yt-dlp", InstallName: "yt-dlp"},
			mac:   {Kind: repository.AssetSingleFile, Pattern: "yt-dlp_macos", InstallName: "yt-dlp"},
		},
	}
}

func TestSelect_Found(t *testing.T) {
	pkg := testPkg()
	spec, err := Select(pkg, platform.Platform{OS: platform.Linux, Arch: platform.X86_64})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if spec.Pattern != "yt-dlp" {
		t.Errorf("Pattern = %q, want yt-dlp", spec.Pattern)
	}
}

func TestSelect_NoAssetForPlatform(t *testing.T) {
	pkg := testPkg()
	_, err := Select(pkg, platform.Platform{OS: platform.Windows, Arch: platform.X86_64})
	if !fetchyerrors.Is(err, fetchyerrors.CodeNoAssetForPlatform) {
		t.Fatalf("Select() error = %v, want CodeNoAssetForPlatform", err)
	}
}
