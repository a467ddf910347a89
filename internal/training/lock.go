package training

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/galahad-project/galahad/internal/errs"
	"github.com/galahad-project/galahad/internal/idguard"
)

// staleAfter bounds how long a lock file may be held before a later acquirer
// is allowed to treat it as abandoned (e.g. the holder process crashed
// without cleaning up). No advisory-locking library appears anywhere in the
// reference pack (no flock/LockFileEx equivalent), so this is the one
// legitimately stdlib-only piece of the training scheduler: a lock file
// holding the holder's PID, reclaimed past staleAfter.
const staleAfter = 10 * time.Minute

// buildLock is an exclusive, filesystem-backed lock over one (classifier,
// model) pair, used to enforce at most one concurrent build for that pair
// even across process restarts.
type buildLock struct {
	path string
}

// newBuildLock validates classifierName/modelID against the identifier
// grammar before building the lock's filename, so client-supplied IDs can
// never escape locksDir.
func newBuildLock(locksDir, classifierName, modelID string) (*buildLock, error) {
	if err := idguard.Validate(classifierName); err != nil {
		return nil, err
	}
	if err := idguard.Validate(modelID); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s__%s.lock", classifierName, modelID)
	return &buildLock{path: filepath.Join(locksDir, name)}, nil
}

// acquire creates the lock file exclusively. Returns ConcurrencyRejected if
// another build already holds it and the hold isn't stale; a stale lock is
// reclaimed in place (same semantics as a fresh acquire).
func (l *buildLock) acquire(locksDir string) error {
	if err := os.MkdirAll(locksDir, 0o755); err != nil {
		return errs.Internalf(err, "creating locks directory")
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err == nil {
		_, writeErr := fmt.Fprintf(f, "%d\n", os.Getpid())
		closeErr := f.Close()
		if writeErr != nil {
			return errs.Internalf(writeErr, "writing lock file %q", l.path)
		}
		if closeErr != nil {
			return errs.Internalf(closeErr, "closing lock file %q", l.path)
		}
		return nil
	}
	if !os.IsExist(err) {
		return errs.Internalf(err, "creating lock file %q", l.path)
	}

	if !l.isStale() {
		return errs.ConcurrencyRejectedf("a build is already running for this classifier/model")
	}

	// Reclaim: remove the abandoned lock and retry once. A concurrent
	// reclaimer racing us here just re-fails with AlreadyExists, which we
	// surface as ConcurrencyRejected rather than retrying forever.
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errs.Internalf(err, "reclaiming stale lock %q", l.path)
	}
	f, err = os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.ConcurrencyRejectedf("a build is already running for this classifier/model")
	}
	_, writeErr := fmt.Fprintf(f, "%d\n", os.Getpid())
	closeErr := f.Close()
	if writeErr != nil {
		return errs.Internalf(writeErr, "writing lock file %q", l.path)
	}
	return closeErr
}

func (l *buildLock) isStale() bool {
	info, err := os.Stat(l.path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > staleAfter
}

// release removes the lock file. Safe to call even if the lock was never
// acquired by this process (e.g. reclaimed meanwhile).
func (l *buildLock) release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errs.Internalf(err, "releasing lock %q", l.path)
	}
	return nil
}

// sweepStale removes every lock file under locksDir older than staleAfter.
// Run periodically by the janitor so abandoned locks from crashed builds
// don't wedge future submissions forever.
func sweepStale(locksDir string) (int, error) {
	entries, err := os.ReadDir(locksDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errs.Internalf(err, "reading locks directory")
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(locksDir, e.Name())
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > staleAfter {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
