// Package retention sweeps a staging directory and removes files older
// than a configured age, so staged copies don't accumulate indefinitely
// across repeated searches.
package retention

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smartertools/smlogtool/logfile"
)

// Removal records one file the sweep deleted, or attempted to.
type Removal struct {
	Path string
	Err  error // non-nil if the delete itself failed
}

// removeFile is a seam over os.Remove so tests can exercise the
// non-fatal-delete-failure path without depending on platform-specific
// permission semantics (which don't apply when tests run as root).
var removeFile = os.Remove

// Sweep walks dir non-recursively and removes any regular file older than
// maxAge relative to now. A file's age is judged by its mtime; if the
// filesystem mtime looks implausible (zero, or in the future relative to
// now) the sweep falls back to the date stamp embedded in the filename via
// logfile.Parse. A file with neither signal is skipped, and a message
// describing why is appended to warnings.
//
// Delete failures are collected as Removals with a non-nil Err rather than
// aborting the sweep: one locked or already-gone file shouldn't prevent the
// rest of the directory from being pruned. Callers should report those
// non-nil Errs themselves (see cmd's retention-sweep wiring).
func Sweep(dir string, maxAge time.Duration, now time.Time) (removed []Removal, warnings []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("retention: reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		age, ok := fileAge(entry, path, now)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: no usable mtime or filename date stamp, skipping", path))
			continue
		}
		if age < maxAge {
			continue
		}

		if err := removeFile(path); err != nil {
			removed = append(removed, Removal{Path: path, Err: err})
			continue
		}
		removed = append(removed, Removal{Path: path})
	}
	return removed, warnings, nil
}

func fileAge(entry os.DirEntry, path string, now time.Time) (time.Duration, bool) {
	info, err := entry.Info()
	if err == nil {
		if mtime := info.ModTime(); !mtime.IsZero() && !mtime.After(now) {
			return now.Sub(mtime), true
		}
	}

	parsed := logfile.Parse(path)
	if !parsed.HasStamp() {
		return 0, false
	}
	return now.Sub(parsed.Stamp), true
}
