package asset

import (
	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/platform"
	"github.com/fetchy/fetchy/pkg/repository"
)

// Select returns the AssetSpec pkg declares for plat, or a
// [fetchyerrors.CodeNoAssetForPlatform] error if pkg has no variant for
// that exact OS/architecture pair. Fetchy never falls back to a "close
// enough" platform: a package that ships linux/x86_64 but not
// linux/aarch64 is simply not installable there.
func Select(pkg repository.PackageDecl, plat platform.Platform) (repository.AssetSpec, error) {
	spec, ok := pkg.Variants[plat]
	if !ok {
		return repository.AssetSpec{}, fetchyerrors.New(
			fetchyerrors.CodeNoAssetForPlatform,
			"package %q has no asset for %s",
			pkg.Name, plat,
		)
	}
	return spec, nil
}

// SelectFor is a convenience wrapper around [Select] that detects the
// host platform itself via [platform.Detect].
func SelectFor(pkg repository.PackageDecl) (repository.AssetSpec, platform.Platform, error) {
	plat, err := platform.Detect()
	if err != nil {
		return repository.AssetSpec{}, platform.Platform{}, err
	}
	spec, err := Select(pkg, plat)
	return spec, plat, err
}
