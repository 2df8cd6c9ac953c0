// Package backing declares the interfaces fatsynth's fat32 package needs
// from whatever hierarchical object store it is projecting. Nothing in this
// package knows about FAT32; it exists so fat32 never imports an OS package
// directly. osfs provides the only implementation in this module.
package backing

import "time"

// Metadata describes a single entry (file or directory) in the backing
// store, independent of its name or position.
type Metadata struct {
	IsDirectory bool
	IsHidden    bool
	IsReadOnly  bool
	Size        int64
	CreatedAt   time.Time
	ModifiedAt  time.Time
	AccessedAt  time.Time
}

// Entry is one child returned by Directory.Entries.
type Entry interface {
	// Name is the entry's name within its parent directory, with no path
	// separators.
	Name() string
	// Metadata returns the entry's size/attribute/timestamp information.
	Metadata() (Metadata, error)
}

// Directory lists its immediate children in a stable, deterministic order.
// The planner (fat32.Plan) depends on that determinism: two planning passes
// over an unchanged backing store must produce the same cluster layout.
type Directory interface {
	Entries() ([]Entry, error)
}

// File supplies random-access reads over a single backing file's bytes.
type File interface {
	// ReadAt reads len(buf) bytes starting at offset, as io.ReaderAt does,
	// except short reads past end-of-file are zero-filled rather than
	// erroring: the projector must be able to ask for a whole cluster's
	// worth of bytes even when the file is shorter than one cluster.
	ReadAt(offset int64, buf []byte) (int, error)
}

// FileSystem is the root handle onto the backing object store. Paths are
// always backing-relative, in the store's native form; fat32 never invents
// path syntax of its own.
type FileSystem interface {
	GetDirectory(path string) (Directory, error)
	GetFile(path string) (File, error)
	GetMetadata(path string) (Metadata, error)
}
