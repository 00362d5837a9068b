// Package asset implements the Asset Selector: a pure, deterministic
// lookup from a [github.com/fetchy/fetchy/pkg/repository.PackageDecl]
// and the host's detected [github.com/fetchy/fetchy/pkg/platform.Platform]
// to the single [github.com/fetchy/fetchy/pkg/repository.AssetSpec] that
// describes what to fetch and how to turn it into installed binaries.
//
// Selection never touches the network or the filesystem; every decision
// is made from data already present on the Repository. A platform with
// no declared variant is reported as
// [github.com/fetchy/fetchy/pkg/errors.CodeNoAssetForPlatform], the same
// code spec §6 uses for the CLI's "no release for your platform"
// diagnostic.
package asset
