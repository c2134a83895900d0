// Package mirror implements one-way synchronization of a destination
// directory tree to match a source directory tree.
package mirror

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"

	"github.com/AlexMincu/dirsync/fs"
	"github.com/AlexMincu/dirsync/fs/localfs"
	"github.com/AlexMincu/dirsync/internal/clock"
	"github.com/AlexMincu/dirsync/logging"
)

var log = logging.Module("mirror")

const defaultDirMode = 0o755

// MaxFailedEntries is the maximum number of per-entry failures retained in a PassResult.
const MaxFailedEntries = 10

// EntryError describes an error encountered when processing a single entry.
type EntryError struct {
	Path  string
	Error string
}

// PassResult aggregates the outcome of a single mirroring pass.
type PassResult struct {
	Created  int
	Modified int
	Removed  int
	Errors   int

	// Events lists the changes applied during the pass, in order.
	Events []Event

	// FailedEntries holds details of up to MaxFailedEntries failures.
	FailedEntries []EntryError

	Duration time.Duration
}

// Syncer makes the destination tree match the source tree. The source is
// authoritative, destination-only changes are destroyed. Trees are re-derived
// from the filesystem on every pass, no state is kept between passes.
type Syncer struct {
	SourceRoot string
	DestRoot   string

	// Sink receives change events and pass summaries. When nil, they are discarded.
	Sink EventSink

	// DryRun reports changes without applying them.
	DryRun bool
}

// RunPass performs one full create/update/prune pass. Individual entry
// failures are recorded in the result and do not stop the pass, only an
// unreadable root aborts it.
func (s *Syncer) RunPass(ctx context.Context) (*PassResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "pass canceled")
	}

	started := clock.Now()

	srcDir, err := localfs.Directory(s.SourceRoot)
	if err != nil {
		metricPassErrorCount.Inc()
		return nil, errors.Wrap(err, "unable to open source root")
	}

	srcEntries, err := srcDir.Readdir(ctx)
	if err != nil {
		metricPassErrorCount.Inc()
		return nil, errors.Wrap(err, "unable to list source root")
	}

	if !s.DryRun {
		if err := os.MkdirAll(s.DestRoot, defaultDirMode); err != nil {
			metricPassErrorCount.Inc()
			return nil, errors.Wrap(err, "unable to create destination root")
		}
	}

	log(ctx).Debugw("starting pass", "source", s.SourceRoot, "destination", s.DestRoot, "dryRun", s.DryRun)

	res := &PassResult{}

	s.createUpdateEntries(ctx, srcEntries, ".", res)

	// the prune traversal observes the destination as it is after the
	// create/update phase
	destDir, err := localfs.Directory(s.DestRoot)

	switch {
	case err == nil:
		destEntries, derr := destDir.Readdir(ctx)
		if derr != nil {
			metricPassErrorCount.Inc()
			return nil, errors.Wrap(derr, "unable to list destination root")
		}

		s.pruneEntries(ctx, destEntries, ".", res)

	case s.DryRun && os.IsNotExist(errors.Cause(err)):
		// nothing to prune, the destination does not exist yet

	default:
		metricPassErrorCount.Inc()
		return nil, errors.Wrap(err, "unable to open destination root")
	}

	res.Duration = clock.Since(started)

	metricPassCount.Inc()

	s.sink().Summary(ctx, Summary{
		Duration: res.Duration,
		Created:  res.Created,
		Modified: res.Modified,
		Removed:  res.Removed,
		Errors:   res.Errors,
	})

	return res, nil
}

// createUpdate lists one source directory and applies the create/update phase
// to its contents. Listing failures skip the subtree, the prune phase checks
// the source per entry so nothing under an unlistable directory is removed.
func (s *Syncer) createUpdate(ctx context.Context, dir fs.Directory, relPath string, res *PassResult) {
	entries, err := dir.Readdir(ctx)
	if err != nil {
		s.recordError(ctx, res, relPath, errors.Wrap(err, "unable to list source directory"))
		return
	}

	s.createUpdateEntries(ctx, entries, relPath, res)
}

func (s *Syncer) createUpdateEntries(ctx context.Context, entries fs.Entries, relPath string, res *PassResult) {
	// subdirectories are materialized before files of the same directory,
	// matching the parent-before-children event order of the traversal
	for _, e := range entries {
		if _, ok := e.(fs.Directory); ok {
			s.ensureDirectory(ctx, childRelPath(relPath, e.Name()), e, res)
		}
	}

	for _, e := range entries {
		switch e := e.(type) {
		case fs.Directory:
			// handled above

		case fs.File:
			s.syncFile(ctx, childRelPath(relPath, e.Name()), e, res)

		case fs.Symlink:
			// symlinks are not followed and not mirrored
			log(ctx).Debugw("skipping symbolic link", "path", childRelPath(relPath, e.Name()))

		default:
			log(ctx).Debugw("skipping unsupported entry", "path", childRelPath(relPath, e.Name()))
		}
	}

	for _, e := range entries {
		if sub, ok := e.(fs.Directory); ok {
			s.createUpdate(ctx, sub, childRelPath(relPath, e.Name()), res)
		}
	}
}

// ensureDirectory makes sure a directory exists at the given relative path in
// the destination. Existing directories are a silent no-op. A non-directory
// entry occupying the path is removed first.
func (s *Syncer) ensureDirectory(ctx context.Context, relPath string, src fs.Entry, res *PassResult) {
	destPath := s.destPath(relPath)

	st, err := os.Lstat(destPath)

	switch {
	case err == nil && st.IsDir():
		return

	case err == nil:
		// a file or symlink sits where a directory must go
		if !s.DryRun {
			if rerr := os.Remove(destPath); rerr != nil {
				s.recordError(ctx, res, relPath, errors.Wrap(rerr, "unable to remove entry shadowing a directory"))
				return
			}
		}

		s.emit(ctx, res, Event{Action: ActionRemoved, Type: EntryTypeFile, Path: relPath})

	case !os.IsNotExist(err):
		s.recordError(ctx, res, relPath, errors.Wrap(err, "unable to stat destination directory"))
		return
	}

	if !s.DryRun {
		if err := os.MkdirAll(destPath, src.Mode().Perm()); err != nil {
			s.recordError(ctx, res, relPath, errors.Wrap(err, "unable to create directory"))
			return
		}
	}

	s.emit(ctx, res, Event{Action: ActionCreated, Type: EntryTypeDirectory, Path: relPath})
}

// syncFile copies a source file to the destination when the destination copy
// is missing or strictly older. Equal timestamps count as already in sync,
// content changes that do not advance the modification time are not detected
// and a destination file independently modified with a newer timestamp is
// never overwritten.
func (s *Syncer) syncFile(ctx context.Context, relPath string, src fs.File, res *PassResult) {
	destPath := s.destPath(relPath)

	action := ActionCreated

	st, err := os.Lstat(destPath)

	switch {
	case os.IsNotExist(err):

	case err != nil:
		s.recordError(ctx, res, relPath, errors.Wrap(err, "unable to stat destination file"))
		return

	case st.IsDir():
		// a directory sits where a file must go
		if !s.DryRun {
			if rerr := os.RemoveAll(destPath); rerr != nil {
				s.recordError(ctx, res, relPath, errors.Wrap(rerr, "unable to remove directory shadowing a file"))
				return
			}
		}

		s.emit(ctx, res, Event{Action: ActionRemoved, Type: EntryTypeDirectory, Path: relPath})

	case src.ModTime().After(st.ModTime()):
		action = ActionModified

	default:
		// destination is same age or newer
		return
	}

	if err := s.copyFile(ctx, destPath, src); err != nil {
		s.recordError(ctx, res, relPath, err)
		return
	}

	s.emit(ctx, res, Event{Action: action, Type: EntryTypeFile, Path: relPath})
}

func (s *Syncer) copyFile(ctx context.Context, destPath string, src fs.File) error {
	if s.DryRun {
		return nil
	}

	r, err := src.Open(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to open source file")
	}
	defer r.Close() //nolint:errcheck

	// the destination file appears whole or not at all
	if err := atomic.WriteFile(destPath, r); err != nil {
		return errors.Wrap(err, "unable to write destination file")
	}

	metricCopiedBytes.Add(float64(src.Size()))

	return setAttributes(destPath, src)
}

// setAttributes carries permission bits and modification time from the source
// entry over to the freshly written destination path.
func setAttributes(targetPath string, e fs.Entry) error {
	const modBits = os.ModePerm | os.ModeSetgid | os.ModeSetuid | os.ModeSticky

	le, err := os.Lstat(targetPath)
	if err != nil {
		return errors.Wrap(err, "unable to stat copied file")
	}

	if (le.Mode() & modBits) != (e.Mode() & modBits) {
		if err = os.Chmod(targetPath, e.Mode()&modBits); err != nil && !os.IsPermission(err) {
			return errors.Wrap(err, "could not change permissions on "+targetPath)
		}
	}

	if !le.ModTime().Equal(e.ModTime()) {
		// Note: atime is set to mtime as well
		if err = os.Chtimes(targetPath, e.ModTime(), e.ModTime()); err != nil && !os.IsPermission(err) {
			return errors.Wrap(err, "could not change mod time on "+targetPath)
		}
	}

	return nil
}

// prune lists one destination directory and removes entries without a source
// counterpart. A directory that vanished since the phase started is treated
// as already satisfied.
func (s *Syncer) prune(ctx context.Context, dir fs.Directory, relPath string, res *PassResult) {
	entries, err := dir.Readdir(ctx)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return
		}

		s.recordError(ctx, res, relPath, errors.Wrap(err, "unable to list destination directory"))

		return
	}

	s.pruneEntries(ctx, entries, relPath, res)
}

func (s *Syncer) pruneEntries(ctx context.Context, entries fs.Entries, relPath string, res *PassResult) {
	for _, e := range entries {
		rel := childRelPath(relPath, e.Name())

		if sub, ok := e.(fs.Directory); ok {
			s.pruneDirectory(ctx, sub, rel, res)
		} else {
			s.pruneFile(ctx, rel, res)
		}
	}
}

func (s *Syncer) pruneDirectory(ctx context.Context, dir fs.Directory, relPath string, res *PassResult) {
	st, err := os.Lstat(s.sourcePath(relPath))

	switch {
	case err == nil && st.IsDir():
		// has a source counterpart, descend
		s.prune(ctx, dir, relPath, res)
		return

	case err != nil && !os.IsNotExist(err):
		s.recordError(ctx, res, relPath, errors.Wrap(err, "unable to stat source directory"))
		return
	}

	// no source directory here - the whole subtree goes away, descendants
	// are not individually enumerated
	if !s.DryRun {
		if err := os.RemoveAll(s.destPath(relPath)); err != nil {
			s.recordError(ctx, res, relPath, errors.Wrap(err, "unable to remove directory"))
			return
		}
	}

	s.emit(ctx, res, Event{Action: ActionRemoved, Type: EntryTypeDirectory, Path: relPath})
}

func (s *Syncer) pruneFile(ctx context.Context, relPath string, res *PassResult) {
	st, err := os.Lstat(s.sourcePath(relPath))

	switch {
	case err == nil && !st.IsDir():
		// has a source counterpart
		return

	case err != nil && !os.IsNotExist(err):
		s.recordError(ctx, res, relPath, errors.Wrap(err, "unable to stat source file"))
		return
	}

	if !s.DryRun {
		if err := os.Remove(s.destPath(relPath)); err != nil && !os.IsNotExist(err) {
			s.recordError(ctx, res, relPath, errors.Wrap(err, "unable to remove file"))
			return
		}
	}

	s.emit(ctx, res, Event{Action: ActionRemoved, Type: EntryTypeFile, Path: relPath})
}

func (s *Syncer) emit(ctx context.Context, res *PassResult, ev Event) {
	switch ev.Action {
	case ActionCreated:
		res.Created++

		metricEntryCreatedCount.Inc()

	case ActionModified:
		res.Modified++

		metricEntryModifiedCount.Inc()

	case ActionRemoved:
		res.Removed++

		metricEntryRemovedCount.Inc()
	}

	res.Events = append(res.Events, ev)

	s.sink().Event(ctx, ev)
}

func (s *Syncer) recordError(ctx context.Context, res *PassResult, relPath string, err error) {
	res.Errors++

	metricEntryErrorCount.Inc()

	if len(res.FailedEntries) < MaxFailedEntries {
		res.FailedEntries = append(res.FailedEntries, EntryError{Path: relPath, Error: err.Error()})
	}

	log(ctx).Warnw("unable to process entry", "path", relPath, "error", err)
}

func (s *Syncer) sink() EventSink {
	if s.Sink == nil {
		return nullEventSink{}
	}

	return s.Sink
}

func (s *Syncer) sourcePath(relPath string) string {
	return filepath.Join(s.SourceRoot, filepath.FromSlash(relPath))
}

func (s *Syncer) destPath(relPath string) string {
	return filepath.Join(s.DestRoot, filepath.FromSlash(relPath))
}

func childRelPath(parent, name string) string {
	if parent == "." {
		return name
	}

	return parent + "/" + name
}
