// Package logfile parses SmarterMail log filenames and discovers the log
// files available for a given kind in a logs directory.
package logfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/smartertools/smlogtool/logkind"
)

// ErrInvalidDateStamp is returned by ParseStamp when a caller-supplied date
// string is not in YYYY.MM.DD form. It is never returned by Parse, which
// degrades unmatched filenames to an empty Info instead of failing.
var ErrInvalidDateStamp = errors.New("logfile: invalid date stamp")

const stampLayout = "2006.01.02"

// namePattern matches "YYYY.MM.DD-<kind>.log" or "YYYY.MM.DD-<kind>.log.zip".
var namePattern = regexp.MustCompile(`^(\d{4}\.\d{2}\.\d{2})-([A-Za-z]+)\.log(\.zip)?$`)

// Info describes a parsed log filename.
type Info struct {
	Path   string
	Stamp  time.Time // zero Time when the filename didn't match namePattern
	Kind   logkind.Kind
	Zipped bool
}

// HasStamp reports whether Stamp was populated from a matching filename.
func (i Info) HasStamp() bool {
	return !i.Stamp.IsZero()
}

// BaseName returns the filename with any trailing ".zip" removed.
func (i Info) BaseName() string {
	name := filepath.Base(i.Path)
	if i.Zipped {
		return name[:len(name)-len(".zip")]
	}
	return name
}

// Parse decodes a log filename into Info. A filename that doesn't match the
// canonical pattern yields an Info with an empty Kind and a zero Stamp;
// callers are expected to skip such entries rather than treat them as an
// error.
func Parse(path string) Info {
	name := filepath.Base(path)
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return Info{
			Path:   path,
			Zipped: filepath.Ext(name) == ".zip",
		}
	}

	stamp, err := time.Parse(stampLayout, m[1])
	if err != nil {
		// namePattern already constrains digits/format, so this should be
		// unreachable for real calendar-shaped input; treat as unmatched.
		return Info{Path: path, Zipped: m[3] != ""}
	}

	return Info{
		Path:   path,
		Stamp:  stamp,
		Kind:   logkind.Normalize(m[2]),
		Zipped: m[3] != "",
	}
}

// ParseStamp parses an explicit "YYYY.MM.DD" date stamp argument (as opposed
// to one embedded in a filename). It is the only place ErrInvalidDateStamp is
// raised.
func ParseStamp(value string) (time.Time, error) {
	t, err := time.Parse(stampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateStamp, value)
	}
	return t, nil
}

// Discover enumerates the regular files directly under dir whose parsed kind
// equals kind, sorted by (stamp descending, non-zipped before zipped,
// filename ascending). A missing directory yields an empty slice, not an
// error.
func Discover(dir string, kind logkind.Kind) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("logfile: reading %s: %w", dir, err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info := Parse(filepath.Join(dir, entry.Name()))
		if info.Kind != kind {
			continue
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		a, b := infos[i], infos[j]
		if !a.Stamp.Equal(b.Stamp) {
			return a.Stamp.After(b.Stamp)
		}
		if a.Zipped != b.Zipped {
			return !a.Zipped // non-zipped sorts before zipped
		}
		return filepath.Base(a.Path) < filepath.Base(b.Path)
	})

	return infos, nil
}

// FindByDate returns the log matching date for kind, if present.
func FindByDate(dir string, kind logkind.Kind, date time.Time) (Info, bool) {
	infos, err := Discover(dir, kind)
	if err != nil {
		return Info{}, false
	}
	for _, info := range infos {
		if info.Stamp.Equal(date) {
			return info, true
		}
	}
	return Info{}, false
}

// Newest returns the most recent log file for kind, if any is present.
func Newest(dir string, kind logkind.Kind) (Info, bool) {
	infos, err := Discover(dir, kind)
	if err != nil || len(infos) == 0 {
		return Info{}, false
	}
	return infos[0], true
}
