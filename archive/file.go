package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes export objects under a root directory, one file per
// key. Writes are atomic: data lands in a temp file first and is
// renamed into place, so readers never observe a partial export.
type FileSink struct {
	root string
}

// NewFileSink creates a sink rooted at dir, creating it if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("file sink requires a directory")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, WrapWriteError(err, dir)
	}
	return &FileSink{root: dir}, nil
}

// Put implements Sink.
func (s *FileSink) Put(_ context.Context, key string, data []byte) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return WrapWriteError(err, path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return WrapWriteError(err, tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return WrapWriteError(err, path)
	}
	return nil
}

// Close implements Sink.
func (s *FileSink) Close() error { return nil }

// Verify FileSink implements Sink.
var _ Sink = (*FileSink)(nil)
