package proxy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matheus3301/wppview/internal/remote"
)

// DirBackend serves an export folder on local disk. File ids are base names.
type DirBackend struct {
	Root string
}

func (d *DirBackend) Name() string { return "dir:" + d.Root }

func (d *DirBackend) Files(ctx context.Context) ([]remote.FileRef, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.Root, err)
	}
	out := make([]remote.FileRef, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, remote.FileRef{ID: e.Name(), Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, ctx.Err()
}

func (d *DirBackend) Open(_ context.Context, id string) (io.ReadCloser, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(d.Root, id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return f, err
}
