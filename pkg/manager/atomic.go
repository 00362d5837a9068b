package manager

import (
	"os"
	"path/filepath"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

// writeFileAtomic writes data to path through a sibling temp file that
// is fsynced and renamed into place, the same crash-safety discipline
// the Install Store uses for installed.json (spec §4.7), applied here
// to a repository's persisted catalog document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".fetchy-*.tmp")
	if err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating temp file in %s", dir)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "writing %s", tmpPath)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "syncing %s", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "closing %s", tmpPath)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "renaming %s to %s", tmpPath, path)
	}
	return nil
}
