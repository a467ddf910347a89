// Package idguard validates identifiers supplied by HTTP clients and resolves
// every filesystem path derived from them safely inside the data root. It is
// called before every filesystem operation derived from client input.
package idguard

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/galahad-project/galahad/internal/errs"
)

// identifierRegex matches dataset ids, document ids, classifier names, and
// model ids: dot-separated segments of letters, digits, and underscores. The
// two-dot rule is intentional — it forbids ".." and empty segments, which
// eliminates path traversal through identifiers without special-casing them.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)

// Validate fails with an InvalidName error if name does not match the
// identifier grammar.
func Validate(name string) error {
	if !identifierRegex.MatchString(name) {
		return errs.InvalidNamef("invalid identifier %q", name)
	}
	return nil
}

// ResolvePath validates every segment and joins them under root, returning
// the resulting path only if it remains strictly inside root once both are
// canonicalized. Segments must already be validated identifiers; ResolvePath
// re-validates them anyway so callers can never skip the check by accident.
func ResolvePath(root string, segments ...string) (string, error) {
	for _, seg := range segments {
		if err := Validate(seg); err != nil {
			return "", err
		}
	}

	candidate := filepath.Join(append([]string{root}, segments...)...)
	if err := isSubpath(root, candidate); err != nil {
		return "", err
	}
	return candidate, nil
}

// isSubpath reports whether candidate resolves inside root once symlinks and
// "." / ".." components are canonicalized. A negative result here (given that
// every segment was already regex-validated) is a programmer error, not a
// client error: it means a caller built a path without going through
// ResolvePath first.
func isSubpath(root, candidate string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errs.Internalf(err, "resolving data root %q", root)
	}
	absCandidate, err := filepath.Abs(candidate)
	if err != nil {
		return errs.Internalf(err, "resolving path %q", candidate)
	}

	// The root and candidate may not exist yet (e.g. a dataset about to be
	// created), so symlink resolution walks up to the nearest existing
	// ancestor rather than requiring the full path to exist.
	realRoot, err := resolveExistingPrefix(absRoot)
	if err != nil {
		return errs.Internalf(err, "resolving data root %q", root)
	}
	realCandidate, err := resolveExistingPrefix(absCandidate)
	if err != nil {
		return errs.Internalf(err, "resolving path %q", candidate)
	}

	rel, err := filepath.Rel(realRoot, realCandidate)
	if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return errs.Internalf(fmt.Errorf("path %q escapes data root %q", candidate, root),
			"path guard rejected a derived path; this indicates a bug upstream of idguard, not client input")
	}
	return nil
}

// resolveExistingPrefix resolves symlinks on the longest existing prefix of
// path, then re-appends the remaining (not-yet-created) components.
func resolveExistingPrefix(path string) (string, error) {
	remainder := ""
	cur := path
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(resolved, remainder), nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", err
		}
		remainder = filepath.Join(filepath.Base(cur), remainder)
		cur = parent
	}
}
