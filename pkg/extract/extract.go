package extract

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/observability"
	"github.com/fetchy/fetchy/pkg/platform"
	"github.com/fetchy/fetchy/pkg/repository"
)

// Binary is a single file the extractor placed into the bin directory.
type Binary struct {
	InstallName string
	Path        string
}

// Archive extracts spec's binaries from the downloaded archive at
// archivePath into binDir, per spec §4.6. Entries are scanned once, in
// archive order; each selector's pattern is tested against every
// entry's POSIX-normalized interior path, and the single matching
// entry (if exactly one matches) is copied into binDir under its
// install name, with the POSIX executable bit preserved where set in
// the archive. On a windows plat, the installed filename's ".exe"
// suffix is normalized to match whatever the matched entry had, since
// a repository's install_name is written without regard to the host
// it will eventually be extracted on.
func Archive(ctx context.Context, archivePath string, spec repository.AssetSpec, plat platform.Platform, binDir string) ([]Binary, error) {
	if spec.Kind != repository.AssetArchive {
		return nil, fetchyerrors.New(fetchyerrors.CodeIoError, "extract.Archive called with a non-archive AssetSpec")
	}
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating %s", binDir)
	}

	observability.Install().OnExtractStart(ctx, archivePath, spec.ArchiveKind.String())
	start := time.Now()
	binaries, err := extractArchive(archivePath, spec, plat, binDir)
	observability.Install().OnExtractComplete(ctx, archivePath, len(binaries), time.Since(start), err)
	return binaries, err
}

type candidate struct {
	matchedPaths []string
	tmpPath      string
	executable   bool
}

func extractArchive(archivePath string, spec repository.AssetSpec, plat platform.Platform, binDir string) ([]Binary, error) {
	candidates := make([]candidate, len(spec.Binaries))

	var tmpFiles []string
	var installedPaths []string
	succeeded := false
	defer func() {
		if succeeded {
			return
		}
		for _, p := range tmpFiles {
			os.Remove(p)
		}
		for _, p := range installedPaths {
			os.Remove(p)
		}
	}()

	err := forEachEntry(archivePath, spec.ArchiveKind, func(entryPath string, mode os.FileMode, r io.Reader) error {
		if mode.IsDir() {
			return nil
		}
		normalized := normalizeEntryPath(entryPath)
		if err := fetchyerrors.ValidatePath(normalized); err != nil {
			return err
		}

		for i, sel := range spec.Binaries {
			if !sel.PathRegexp.MatchString(normalized) {
				continue
			}

			tmp, err := os.CreateTemp(binDir, "extract-*.tmp")
			if err != nil {
				return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating extraction temp file")
			}
			if _, err := io.Copy(tmp, r); err != nil {
				tmp.Close()
				return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "extracting %s", normalized)
			}
			tmp.Close()

			candidates[i].matchedPaths = append(candidates[i].matchedPaths, normalized)
			candidates[i].tmpPath = tmp.Name()
			candidates[i].executable = mode&0o111 != 0
			tmpFiles = append(tmpFiles, tmp.Name())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	binaries := make([]Binary, 0, len(spec.Binaries))
	for i, sel := range spec.Binaries {
		c := candidates[i]
		switch len(c.matchedPaths) {
		case 0:
			return nil, fetchyerrors.New(fetchyerrors.CodeBinaryNotFound, "no archive entry matched pattern %q", sel.PathPattern)
		case 1:
			// exactly one match, proceed below
		default:
			return nil, &fetchyerrors.AmbiguousBinaryError{Pattern: sel.PathPattern, Candidates: c.matchedPaths}
		}

		installName := sel.InstallName
		if installName == "" {
			installName = path.Base(c.matchedPaths[0])
		}
		if plat.OS == platform.Windows {
			installName = matchExeSuffix(installName, c.matchedPaths[0])
		}

		finalPath := filepath.Join(binDir, installName)
		if err := os.Rename(c.tmpPath, finalPath); err != nil {
			return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "installing %s", installName)
		}
		installedPaths = append(installedPaths, finalPath)

		mode := os.FileMode(0o644)
		if c.executable {
			mode = 0o755
		}
		if err := os.Chmod(finalPath, mode); err != nil {
			return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "setting permissions on %s", installName)
		}

		binaries = append(binaries, Binary{InstallName: installName, Path: finalPath})
	}

	succeeded = true
	return binaries, nil
}

// SingleFile moves a downloaded single-file asset directly into binDir
// under spec.InstallName, setting the executable bit, bypassing archive
// handling entirely (spec §4.6).
func SingleFile(ctx context.Context, downloadedPath string, spec repository.AssetSpec, binDir string) (*Binary, error) {
	if spec.Kind != repository.AssetSingleFile {
		return nil, fetchyerrors.New(fetchyerrors.CodeIoError, "extract.SingleFile called with a non-single-file AssetSpec")
	}
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating %s", binDir)
	}

	observability.Install().OnExtractStart(ctx, downloadedPath, "SingleFile")
	start := time.Now()

	finalPath := filepath.Join(binDir, spec.InstallName)
	err := moveIntoPlace(downloadedPath, finalPath)
	if err == nil {
		err = os.Chmod(finalPath, 0o755)
	}

	var binaries []Binary
	if err == nil {
		binaries = []Binary{{InstallName: spec.InstallName, Path: finalPath}}
	}
	observability.Install().OnExtractComplete(ctx, downloadedPath, len(binaries), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &binaries[0], nil
}

// moveIntoPlace renames src to dst, falling back to copy-then-remove
// when they live on different filesystems (EXDEV).
func moveIntoPlace(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "opening %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating %s", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "copying to %s", dst)
	}
	os.Remove(src)
	return nil
}

// normalizeEntryPath converts a Windows-zip-style backslash path into
// the POSIX form binary selectors are written against.
func normalizeEntryPath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// matchExeSuffix reconciles installName's ".exe" suffix with whatever
// the matched archive entry had, per spec §4.6: on a windows host the
// installed filename must end in ".exe" exactly when entryPath did,
// regardless of what the repository's install_name says.
func matchExeSuffix(installName, entryPath string) string {
	const suffix = ".exe"
	hasExe := strings.HasSuffix(strings.ToLower(installName), suffix)
	entryHasExe := strings.HasSuffix(strings.ToLower(entryPath), suffix)
	switch {
	case entryHasExe && !hasExe:
		return installName + suffix
	case !entryHasExe && hasExe:
		return installName[:len(installName)-len(suffix)]
	default:
		return installName
	}
}
