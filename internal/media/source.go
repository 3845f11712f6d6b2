package media

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Source is a named, openable media payload. Local files, cached blobs and
// remote references all satisfy it.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
	// URL returns a location a player can stream from, or "" if the payload
	// is only reachable through Open.
	URL() string
}

// LocalFile is a Source backed by a file on disk.
type LocalFile struct {
	Path string
}

func (f LocalFile) Name() string { return filepath.Base(f.Path) }

func (f LocalFile) Open() (io.ReadCloser, error) { return os.Open(f.Path) }

func (f LocalFile) URL() string { return "file://" + f.Path }

// Bytes is an in-memory Source.
type Bytes struct {
	FileName string
	Data     []byte
}

func (b Bytes) Name() string { return b.FileName }

func (b Bytes) Open() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b.Data)), nil }

func (b Bytes) URL() string { return "" }

// LocalDir lists every regular file in dir as a Source, sorted by name.
// Subdirectories are not descended into.
func LocalDir(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read media dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	out := make([]Source, 0, len(names))
	for _, n := range names {
		out = append(out, LocalFile{Path: filepath.Join(dir, n)})
	}
	return out, nil
}

// ReadAll opens src and returns its full contents.
func ReadAll(src Source) ([]byte, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Name(), err)
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}
