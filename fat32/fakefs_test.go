package fat32_test

import (
	"strings"
	"time"

	"github.com/dargueta/fatsynth/backing"
)

// fakeNode is an in-memory backing.FileSystem fixture for fat32 package
// tests: a nested map of directories to children, avoiding any dependency on
// the real filesystem (backing/osfs has its own tests for that).
type fakeNode struct {
	isDir    bool
	size     int64
	contents []byte
	children map[string]*fakeNode
	order    []string
}

func newFakeDir() *fakeNode {
	return &fakeNode{isDir: true, children: make(map[string]*fakeNode)}
}

func (n *fakeNode) addFile(name string, contents []byte) *fakeNode {
	child := &fakeNode{contents: contents, size: int64(len(contents))}
	n.children[name] = child
	n.order = append(n.order, name)
	return child
}

func (n *fakeNode) addDir(name string) *fakeNode {
	child := newFakeDir()
	n.children[name] = child
	n.order = append(n.order, name)
	return child
}

type fakeFS struct {
	root *fakeNode
}

func newFakeFS() *fakeFS {
	return &fakeFS{root: newFakeDir()}
}

func (fs *fakeFS) resolve(path string) (*fakeNode, bool) {
	path = strings.Trim(path, "/")
	cur := fs.root
	if path == "" {
		return cur, true
	}
	for _, part := range strings.Split(path, "/") {
		child, ok := cur.children[part]
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

func (fs *fakeFS) GetDirectory(path string) (backing.Directory, error) {
	n, ok := fs.resolve(path)
	if !ok || !n.isDir {
		return nil, errNotFound(path)
	}
	return &fakeDirectory{node: n}, nil
}

func (fs *fakeFS) GetFile(path string) (backing.File, error) {
	n, ok := fs.resolve(path)
	if !ok || n.isDir {
		return nil, errNotFound(path)
	}
	return &fakeFile{node: n}, nil
}

func (fs *fakeFS) GetMetadata(path string) (backing.Metadata, error) {
	n, ok := fs.resolve(path)
	if !ok {
		return backing.Metadata{}, errNotFound(path)
	}
	return n.metadata(), nil
}

func (n *fakeNode) metadata() backing.Metadata {
	now := time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)
	return backing.Metadata{
		IsDirectory: n.isDir,
		Size:        n.size,
		CreatedAt:   now,
		ModifiedAt:  now,
		AccessedAt:  now,
	}
}

type fakeDirectory struct {
	node *fakeNode
}

func (d *fakeDirectory) Entries() ([]backing.Entry, error) {
	entries := make([]backing.Entry, 0, len(d.node.order))
	for _, name := range d.node.order {
		entries = append(entries, &fakeEntry{name: name, node: d.node.children[name]})
	}
	return entries, nil
}

type fakeEntry struct {
	name string
	node *fakeNode
}

func (e *fakeEntry) Name() string { return e.name }

func (e *fakeEntry) Metadata() (backing.Metadata, error) {
	return e.node.metadata(), nil
}

type fakeFile struct {
	node *fakeNode
}

func (f *fakeFile) ReadAt(offset int64, buf []byte) (int, error) {
	n := 0
	for i := range buf {
		srcIdx := offset + int64(i)
		if srcIdx >= int64(len(f.node.contents)) {
			buf[i] = 0
			continue
		}
		buf[i] = f.node.contents[srcIdx]
		n++
	}
	return len(buf), nil
}

type notFoundError struct{ path string }

func (e *notFoundError) Error() string { return "not found: " + e.path }

func errNotFound(path string) error { return &notFoundError{path: path} }
