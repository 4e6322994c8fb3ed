// Package fs reads search indexes from the local filesystem and writes
// exported files atomically.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sphinxdex"
)

// IndexFile is the name Sphinx gives its search index.
const IndexFile = "searchindex.js"

// Ensure Fetcher implements sphinxdex.Fetcher at compile time.
var _ sphinxdex.Fetcher = (*Fetcher)(nil)

// Fetcher reads files named by file:// URLs or plain paths.
type Fetcher struct{}

// NewFetcher creates a new Fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// Fetch returns the content of the file at location. A directory is read
// as the search index of a Sphinx build output.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := Path(location)
	if err != nil {
		return nil, err
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, IndexFile)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, sphinxdex.Errorf(sphinxdex.ENOTFOUND, "file not found: %s", path)
	}
	return data, err
}

// Close releases resources. Reading files holds none.
func (f *Fetcher) Close() error {
	return nil
}

// IsLocal reports whether source names a local file rather than an HTTP URL.
func IsLocal(source string) bool {
	if strings.HasPrefix(source, "file://") {
		return true
	}
	return !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://")
}

// Path converts a file:// URL or a plain path into a cleaned filesystem path.
func Path(location string) (string, error) {
	if !strings.HasPrefix(location, "file://") {
		return filepath.Clean(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", sphinxdex.Errorf(sphinxdex.EINVALID, "invalid file URL %q", location)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", sphinxdex.Errorf(sphinxdex.EINVALID, "file URL %q names a remote host", location)
	}
	return filepath.FromSlash(u.Path), nil
}

// Root returns the directory holding the build output that location points
// into: the location itself if it is a directory, otherwise its parent.
func Root(location string) (string, error) {
	path, err := Path(location)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path, nil
	}
	return filepath.Dir(path), nil
}
