package extract

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
	"github.com/fetchy/fetchy/pkg/repository"
)

// entryFunc is invoked once per archive entry during a scan. r is nil
// for directory entries; callers must check mode.IsDir() before reading
// it.
type entryFunc func(path string, mode os.FileMode, r io.Reader) error

// forEachEntry walks archivePath's entries in order according to kind,
// decompressing as needed, and calls fn once per entry.
func forEachEntry(archivePath string, kind repository.ArchiveKind, fn entryFunc) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "opening archive %s", archivePath)
	}
	defer f.Close()

	switch kind {
	case repository.TarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "opening gzip stream")
		}
		defer gz.Close()
		return forEachTarEntry(gz, fn)

	case repository.TarXz:
		xr, err := xz.NewReader(f)
		if err != nil {
			return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "opening xz stream")
		}
		return forEachTarEntry(xr, fn)

	case repository.TarBz2:
		return forEachTarEntry(bzip2.NewReader(f), fn)

	case repository.Zip:
		return forEachZipEntry(archivePath, fn)

	default:
		return fetchyerrors.New(fetchyerrors.CodeIoError, "unknown archive kind %v", kind)
	}
}

func forEachTarEntry(r io.Reader, fn entryFunc) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "reading tar entry")
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fn(hdr.Name, os.FileMode(hdr.Mode)|os.ModeDir, nil); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := fn(hdr.Name, os.FileMode(hdr.Mode), tr); err != nil {
				return err
			}
		default:
			// symlinks, hardlinks, devices: not binaries, ignore.
		}
	}
}
