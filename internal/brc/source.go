package brc

import (
	"fmt"
	"io"
	"os"
)

// Source is an input every worker can open on its own. Workers never share
// a handle or a file position.
type Source interface {
	Size() int64
	Open() (io.ReadSeekCloser, error)
}

// FileSource is a Source backed by a file on disk.
type FileSource struct {
	path string
	size int64
}

// OpenFile stats path and returns a Source for it.
func OpenFile(path string) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", path)
	}
	return &FileSource{path: path, size: info.Size()}, nil
}

func (f *FileSource) Size() int64 { return f.size }

func (f *FileSource) Open() (io.ReadSeekCloser, error) {
	return os.Open(f.path)
}

func (f *FileSource) String() string { return f.path }
