// Package filex resolves local files into upload items and prepares local
// directories used by the client.
package filex

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Item is a single file queued for upload.
type Item struct {
	name        string
	size        int64
	contentType string
	open        func() (io.ReadCloser, error)
}

func (i *Item) Name() string        { return i.name }
func (i *Item) Size() int64         { return i.size }
func (i *Item) ContentType() string { return i.contentType }

// Open returns a fresh reader positioned at the start of the file.
func (i *Item) Open() (io.ReadCloser, error) { return i.open() }

// Open stats path and sniffs its MIME type from the content.
func Open(path string) (*Item, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect type of %s: %w", path, err)
	}
	return &Item{
		name:        filepath.Base(path),
		size:        fi.Size(),
		contentType: mt.String(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromBytes wraps an in-memory payload as an upload item.
func FromBytes(name string, data []byte) *Item {
	return &Item{
		name:        name,
		size:        int64(len(data)),
		contentType: mimetype.Detect(data).String(),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// OpenAll resolves every path, failing on the first one that cannot be read.
func OpenAll(paths []string) ([]*Item, error) {
	items := make([]*Item, 0, len(paths))
	for _, p := range paths {
		it, err := Open(p)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
