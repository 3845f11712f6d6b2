package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/matheus3301/wppview/internal/media"
)

// ErrNoMedia means the selected message has no assigned file.
var ErrNoMedia = errors.New("no media on this message")

// Opener hands media to the desktop's default application.
type Opener struct {
	goos    string
	tempDir string
	run     func(ctx context.Context, name string, args ...string) error
}

// NewOpener creates an opener that materialises non-file sources in tempDir.
func NewOpener(tempDir string) *Opener {
	return &Opener{
		goos:    runtime.GOOS,
		tempDir: tempDir,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Start()
		},
	}
}

// command is the launcher for target on goos.
func command(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// Target returns what the launcher is given for src: a local path, a URL the
// launcher can stream, or a temp copy of an in-memory payload.
func (o *Opener) Target(src media.Source) (string, error) {
	u := src.URL()
	switch {
	case strings.HasPrefix(u, "file://"):
		return strings.TrimPrefix(u, "file://"), nil
	case u != "":
		return u, nil
	}
	if err := os.MkdirAll(o.tempDir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(o.tempDir, filepath.Base(src.Name()))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	rc, err := src.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", src.Name(), err)
	}
	defer func() { _ = rc.Close() }()
	f, err := os.CreateTemp(o.tempDir, ".partial-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, rc); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("copy %s: %w", src.Name(), err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, os.Rename(f.Name(), path)
}

// Open launches the default application for file.
func (o *Opener) Open(ctx context.Context, file *media.File) (string, error) {
	if file == nil || file.Source == nil {
		return "", ErrNoMedia
	}
	target, err := o.Target(file.Source)
	if err != nil {
		return "", err
	}
	name, args := command(o.goos, target)
	if err := o.run(ctx, name, args...); err != nil {
		return "", fmt.Errorf("launch %s: %w", name, err)
	}
	return target, nil
}
