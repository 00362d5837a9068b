package extract

import (
	"archive/zip"
	"os"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

func forEachZipEntry(archivePath string, fn entryFunc) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "opening zip archive %s", archivePath)
	}
	defer r.Close()

	for _, file := range r.File {
		if file.FileInfo().IsDir() {
			if err := fn(file.Name, file.Mode()|os.ModeDir, nil); err != nil {
				return err
			}
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "opening zip entry %s", file.Name)
		}
		err = fn(file.Name, file.Mode(), rc)
		closeErr := rc.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return fetchyerrors.Wrap(fetchyerrors.CodeIoError, closeErr, "closing zip entry %s", file.Name)
		}
	}
	return nil
}
