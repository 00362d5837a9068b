package store

import (
	"context"
	"os"
	"time"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

// lockTimeout is how long acquireLock waits before giving up, per
// spec §4.7. A var, not a const, so tests can shrink it.
var lockTimeout = 30 * time.Second

const lockPollInterval = 50 * time.Millisecond

// acquireLock takes the advisory lockfile at path, blocking (polling)
// until it succeeds, ctx is cancelled, or lockTimeout elapses. The
// returned release function must be called exactly once to drop the
// lock.
func acquireLock(ctx context.Context, path string) (release func(), err error) {
	deadline := time.Now().Add(lockTimeout)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return func() { os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fetchyerrors.Wrap(fetchyerrors.CodeIoError, err, "creating lockfile %s", path)
		}

		if time.Now().After(deadline) {
			return nil, fetchyerrors.New(fetchyerrors.CodeLockTimeout, "timed out waiting for lock %s", path)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}
