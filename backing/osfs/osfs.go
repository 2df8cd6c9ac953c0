// Package osfs implements backing.FileSystem over the host's os package, the
// same way the teacher's stdimpl-equivalent drivers wrap os.File/os.ReadDir
// for every other disko driver.
package osfs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/dargueta/fatsynth"
	"github.com/dargueta/fatsynth/backing"
)

// FileSystem roots a backing.FileSystem at a directory on the host
// filesystem. The zero value is not usable; construct with New.
type FileSystem struct {
	root string
}

// New roots a backing.FileSystem at root, an absolute or relative host path.
func New(root string) *FileSystem {
	return &FileSystem{root: root}
}

func (fs *FileSystem) resolve(path string) string {
	return filepath.Join(fs.root, filepath.FromSlash(path))
}

// GetDirectory implements backing.FileSystem.
func (fs *FileSystem) GetDirectory(path string) (backing.Directory, error) {
	full := fs.resolve(path)
	info, err := os.Stat(full)
	if err != nil {
		return nil, wrapOSError(err)
	}
	if !info.IsDir() {
		return nil, fatsynth.NewDriverErrorWithMessage(syscall.ENOTDIR, full)
	}
	return &directory{path: full}, nil
}

// GetFile implements backing.FileSystem.
func (fs *FileSystem) GetFile(path string) (backing.File, error) {
	full := fs.resolve(path)
	info, err := os.Stat(full)
	if err != nil {
		return nil, wrapOSError(err)
	}
	if info.IsDir() {
		return nil, fatsynth.NewDriverErrorWithMessage(syscall.EISDIR, full)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, wrapOSError(err)
	}
	return &file{f: f}, nil
}

// GetMetadata implements backing.FileSystem.
func (fs *FileSystem) GetMetadata(path string) (backing.Metadata, error) {
	info, err := os.Stat(fs.resolve(path))
	if err != nil {
		return backing.Metadata{}, wrapOSError(err)
	}
	return infoToMetadata(info), nil
}

type directory struct {
	path string
}

func (d *directory) Entries() ([]backing.Entry, error) {
	dirEntries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, wrapOSError(err)
	}
	entries := make([]backing.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entries = append(entries, &entry{parent: d.path, de: de})
	}
	return entries, nil
}

type entry struct {
	parent string
	de     os.DirEntry
}

func (e *entry) Name() string {
	return e.de.Name()
}

func (e *entry) Metadata() (backing.Metadata, error) {
	info, err := e.de.Info()
	if err != nil {
		return backing.Metadata{}, wrapOSError(err)
	}
	return infoToMetadata(info), nil
}

type file struct {
	f *os.File
}

func (fl *file) ReadAt(offset int64, buf []byte) (int, error) {
	n, err := fl.f.ReadAt(buf, offset)
	if err != nil {
		// Short/EOF reads of a partial final cluster are not failures for a
		// byte-projecting device: the remainder must read as zero.
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
		if isEOF(err) {
			return n, nil
		}
		return n, wrapOSError(err)
	}
	return n, nil
}

func infoToMetadata(info os.FileInfo) backing.Metadata {
	return backing.Metadata{
		IsDirectory: info.IsDir(),
		IsHidden:    len(info.Name()) > 0 && info.Name()[0] == '.',
		IsReadOnly:  info.Mode()&0o200 == 0,
		Size:        info.Size(),
		ModifiedAt:  info.ModTime(),
		CreatedAt:   info.ModTime(),
		AccessedAt:  info.ModTime(),
	}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

func wrapOSError(err error) error {
	if perr, ok := err.(*os.PathError); ok {
		if errno, ok := perr.Err.(syscall.Errno); ok {
			return fatsynth.NewDriverErrorWithMessage(errno, perr.Path)
		}
	}
	return fatsynth.NewDriverErrorWithMessage(syscall.EIO, err.Error())
}
