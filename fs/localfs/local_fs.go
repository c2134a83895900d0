// Package localfs implements the fs entry model on top of the local filesystem.
package localfs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/AlexMincu/dirsync/fs"
)

type filesystemEntry struct {
	name       string
	size       int64
	mtimeNanos int64
	mode       os.FileMode

	parentDir string
}

func (e *filesystemEntry) Name() string {
	return e.name
}

func (e *filesystemEntry) IsDir() bool {
	return e.mode.IsDir()
}

func (e *filesystemEntry) Mode() os.FileMode {
	return e.mode
}

func (e *filesystemEntry) Size() int64 {
	return e.size
}

func (e *filesystemEntry) ModTime() time.Time {
	return time.Unix(0, e.mtimeNanos)
}

func (e *filesystemEntry) Sys() interface{} {
	return nil
}

func (e *filesystemEntry) fullPath() string {
	return filepath.Join(e.parentDir, e.Name())
}

// LocalFilesystemPath returns the full local filesystem path of the entry.
func (e *filesystemEntry) LocalFilesystemPath() string {
	return e.fullPath()
}

var _ os.FileInfo = (*filesystemEntry)(nil)

func newEntry(fi os.FileInfo, parentDir string) filesystemEntry {
	return filesystemEntry{
		fi.Name(),
		fi.Size(),
		fi.ModTime().UnixNano(),
		fi.Mode(),
		parentDir,
	}
}

type filesystemDirectory struct {
	filesystemEntry
}

type filesystemSymlink struct {
	filesystemEntry
}

type filesystemFile struct {
	filesystemEntry
}

func (fsd *filesystemDirectory) Size() int64 {
	// force directory size to always be zero
	return 0
}

func (fsd *filesystemDirectory) Child(ctx context.Context, name string) (fs.Entry, error) {
	fullPath := fsd.fullPath()

	st, err := os.Lstat(filepath.Join(fullPath, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fs.ErrEntryNotFound
		}

		return nil, errors.Wrap(err, "unable to get child")
	}

	return entryFromFileInfo(st, fullPath), nil
}

func (fsd *filesystemDirectory) Readdir(ctx context.Context) (fs.Entries, error) {
	fullPath := fsd.fullPath()

	f, err := os.Open(fullPath) //nolint:gosec
	if err != nil {
		return nil, errors.Wrap(err, "unable to read directory")
	}
	defer f.Close() //nolint:errcheck

	fis, err := f.Readdir(-1)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read directory")
	}

	entries := make(fs.Entries, 0, len(fis))

	for _, fi := range fis {
		entries = append(entries, entryFromFileInfo(fi, fullPath))
	}

	entries.Sort()

	return entries, nil
}

type fileReader struct {
	*os.File
}

func (fsf *filesystemFile) Open(ctx context.Context) (fs.Reader, error) {
	f, err := os.Open(fsf.fullPath()) //nolint:gosec
	if err != nil {
		return nil, errors.Wrap(err, "unable to open local file")
	}

	return &fileReader{f}, nil
}

func (fsl *filesystemSymlink) Readlink(ctx context.Context) (string, error) {
	l, err := os.Readlink(fsl.fullPath())

	return l, errors.Wrap(err, "unable to read symlink")
}

// NewEntry returns fs.Entry for the specified path, the result will be one of
// supported entry types: fs.File, fs.Directory, fs.Symlink.
func NewEntry(path string) (fs.Entry, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to determine entry type")
	}

	return entryFromFileInfo(fi, filepath.Dir(path)), nil
}

// Directory returns fs.Directory for the specified path.
func Directory(path string) (fs.Directory, error) {
	e, err := NewEntry(path)
	if err != nil {
		return nil, err
	}

	switch e := e.(type) {
	case fs.Directory:
		return e, nil

	default:
		return nil, errors.Errorf("not a directory: %v", path)
	}
}

func entryFromFileInfo(fi os.FileInfo, parentDir string) fs.Entry {
	switch fi.Mode() & os.ModeType {
	case os.ModeDir:
		return &filesystemDirectory{newEntry(fi, parentDir)}

	case os.ModeSymlink:
		return &filesystemSymlink{newEntry(fi, parentDir)}

	default:
		return &filesystemFile{newEntry(fi, parentDir)}
	}
}

var (
	_ fs.Directory = (*filesystemDirectory)(nil)
	_ fs.File      = (*filesystemFile)(nil)
	_ fs.Symlink   = (*filesystemSymlink)(nil)
)
