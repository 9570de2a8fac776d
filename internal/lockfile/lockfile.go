// Package lockfile provides mutual exclusion over a store file via a
// sidecar lock file. Every cooperating process, Go or otherwise, uses the
// same protocol: atomically create <path>.lock containing the holder's
// PID, remove it on release. Only one exclusive holder exists
// system-wide at a time.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// DefaultTimeout is the lock acquisition timeout used when the caller
// does not configure one.
const DefaultTimeout = 5 * time.Second

// pollInterval is the delay between acquisition attempts while the lock
// is held by someone else.
const pollInterval = 50 * time.Millisecond

// ErrTimeout classifies TimeoutError with errors.Is.
var ErrTimeout = errors.New("lock timeout")

// TimeoutError reports that the lock could not be acquired within the
// deadline, after stale-lock recovery was exhausted.
type TimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("could not acquire lock %s after %s; another process may be using the store", e.Path, e.Timeout)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// Lock is a held sidecar lock. Release it on every exit path.
type Lock struct {
	path     string
	released bool
}

// Path returns the sidecar lock file path for a store path.
func Path(storePath string) string {
	return storePath + ".lock"
}

// Acquire takes the exclusive lock for storePath, waiting up to timeout.
// A lock file older than twice the timeout is treated as abandoned by a
// crashed holder and removed; that staleness check is time-based only,
// the recorded PID is never probed for liveness.
func Acquire(storePath string, timeout time.Duration) (*Lock, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	lockPath := Path(storePath)
	deadline := time.Now().Add(timeout)

	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			if cerr := f.Close(); cerr != nil {
				os.Remove(lockPath)
				return nil, fmt.Errorf("writing lock file: %w", cerr)
			}
			return &Lock{path: lockPath}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("creating lock file: %w", err)
		}

		if time.Now().After(deadline) {
			if fi, serr := os.Stat(lockPath); serr == nil && time.Since(fi.ModTime()) > 2*timeout {
				// Abandoned lock: remove it and try once more.
				os.Remove(lockPath)
				continue
			}
			return nil, &TimeoutError{Path: lockPath, Timeout: timeout}
		}

		time.Sleep(pollInterval)
	}
}

// Release removes the lock file. Releasing twice, or releasing a lock
// whose file is already gone, is not an error.
func (l *Lock) Release() error {
	if l == nil || l.released {
		return nil
	}
	l.released = true
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing lock file: %w", err)
	}
	return nil
}
