// Package staging copies a source log file (plain or single-member zip)
// into a local staging directory so the rest of the pipeline always reads
// from an uncompressed path, refreshing the staged copy only when the
// source is today's log or the caller forces it.
package staging

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/smartertools/smlogtool/logfile"
)

// ErrStagingIO wraps any filesystem failure encountered while staging.
var ErrStagingIO = errors.New("staging: io error")

// ErrInvalidArchive is returned when a source zip doesn't contain exactly
// one member, which is the only shape SmarterMail ever produces for a
// rolled daily log.
var ErrInvalidArchive = errors.New("staging: invalid archive")

// Staged describes a source log file once it has a usable, uncompressed
// local path.
type Staged struct {
	Source     string
	StagedPath string
	Info       logfile.Info
}

// Stage copies sourcePath into stagingDir (unzipping a single-member
// archive if needed), returning the path the rest of the pipeline should
// read from.
//
// An existing staged copy is reused unless force is true or the source's
// filename stamp equals refreshDate (SmarterMail keeps appending to
// today's log file, so a staged copy of today is always stale). A zero
// refreshDate disables the stamp-based rule; only force then triggers a
// refresh.
func Stage(sourcePath, stagingDir string, force bool, refreshDate time.Time) (Staged, error) {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return Staged{}, fmt.Errorf("%w: creating %s: %v", ErrStagingIO, stagingDir, err)
	}

	info := logfile.Parse(sourcePath)
	target := targetPath(stagingDir, info)

	_, statErr := os.Stat(target)
	switch {
	case statErr == nil && !needsRefresh(info, force, refreshDate):
		return Staged{Source: sourcePath, StagedPath: target, Info: info}, nil
	case statErr != nil && !os.IsNotExist(statErr):
		return Staged{}, fmt.Errorf("%w: stat %s: %v", ErrStagingIO, target, statErr)
	}

	if info.Zipped {
		if err := extractSingleMember(sourcePath, target); err != nil {
			return Staged{}, err
		}
	} else {
		if err := copyPreservingTimes(sourcePath, target); err != nil {
			return Staged{}, err
		}
	}

	return Staged{Source: sourcePath, StagedPath: target, Info: info}, nil
}

func needsRefresh(info logfile.Info, force bool, refreshDate time.Time) bool {
	if force {
		return true
	}
	if !info.HasStamp() || refreshDate.IsZero() {
		return false
	}
	return info.Stamp.Equal(refreshDate)
}

func targetPath(stagingDir string, info logfile.Info) string {
	return filepath.Join(stagingDir, info.BaseName())
}

// copyPreservingTimes stages a plain log file by writing to a temporary
// sibling and renaming it over target, so a reader never observes a
// partially written staged file.
func copyPreservingTimes(sourcePath, target string) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrStagingIO, sourcePath, err)
	}
	defer src.Close()

	stat, err := src.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrStagingIO, sourcePath, err)
	}

	if err := writeThenReplace(target, func(tmp *os.File) error {
		_, err := io.Copy(tmp, src)
		return err
	}); err != nil {
		return err
	}

	modTime := stat.ModTime()
	if err := os.Chtimes(target, modTime, modTime); err != nil {
		return fmt.Errorf("%w: preserving mtime on %s: %v", ErrStagingIO, target, err)
	}
	return nil
}

// extractSingleMember unzips sourcePath's sole non-directory member into
// target. SmarterMail's rolled archives are never multi-member; anything
// else is treated as an invalid archive rather than guessed at.
func extractSingleMember(sourcePath, target string) error {
	archive, err := zip.OpenReader(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrStagingIO, sourcePath, err)
	}
	defer archive.Close()

	var member *zip.File
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if member != nil {
			return fmt.Errorf("%w: %s contains multiple members; expected one", ErrInvalidArchive, sourcePath)
		}
		member = f
	}
	if member == nil {
		return fmt.Errorf("%w: %s contains no files", ErrInvalidArchive, sourcePath)
	}

	reader, err := member.Open()
	if err != nil {
		return fmt.Errorf("%w: reading %s in %s: %v", ErrStagingIO, member.Name, sourcePath, err)
	}
	defer reader.Close()

	if err := writeThenReplace(target, func(tmp *os.File) error {
		_, err := io.Copy(tmp, reader)
		return err
	}); err != nil {
		return err
	}

	modTime := member.Modified
	if err := os.Chtimes(target, modTime, modTime); err != nil {
		return fmt.Errorf("%w: preserving mtime on %s: %v", ErrStagingIO, target, err)
	}
	return nil
}

// writeThenReplace writes into a temporary file beside target via write,
// then renames it into place, so concurrent readers never see a partial
// file at target.
func writeThenReplace(target string, write func(tmp *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".staging-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file for %s: %v", ErrStagingIO, target, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %v", ErrStagingIO, target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrStagingIO, target, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("%w: replacing %s: %v", ErrStagingIO, target, err)
	}
	return nil
}
