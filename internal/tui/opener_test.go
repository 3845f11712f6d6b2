package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matheus3301/wppview/internal/media"
)

func TestCommandPerOS(t *testing.T) {
	tests := []struct {
		goos string
		name string
	}{
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
		{"darwin", "open"},
		{"windows", "rundll32"},
	}
	for _, tt := range tests {
		name, args := command(tt.goos, "/x.jpg")
		if name != tt.name || args[len(args)-1] != "/x.jpg" {
			t.Errorf("%s: got %s %v", tt.goos, name, args)
		}
	}
}

func TestOpenerTargets(t *testing.T) {
	dir := t.TempDir()
	o := NewOpener(filepath.Join(dir, "tmp"))

	local := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(local, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got, err := o.Target(media.LocalFile{Path: local}); err != nil || got != local {
		t.Errorf("local target = %q, %v", got, err)
	}

	got, err := o.Target(media.Bytes{FileName: "0001-PHOTO-2023-01-01-10-00-00.jpg", Data: []byte("jpeg")})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(got)
	if err != nil || string(data) != "jpeg" {
		t.Errorf("temp copy = %q, %v", data, err)
	}
	if filepath.Base(got) != "0001-PHOTO-2023-01-01-10-00-00.jpg" {
		t.Errorf("temp name = %q", got)
	}
}

func TestOpenerLaunches(t *testing.T) {
	o := NewOpener(t.TempDir())
	o.goos = "linux"
	var ran []string
	o.run = func(_ context.Context, name string, args ...string) error {
		ran = append([]string{name}, args...)
		return nil
	}
	file := &media.File{Name: "a.jpg", Source: media.LocalFile{Path: "/data/a.jpg"}}
	if _, err := o.Open(context.Background(), file); err != nil {
		t.Fatal(err)
	}
	if len(ran) != 2 || ran[0] != "xdg-open" || ran[1] != "/data/a.jpg" {
		t.Errorf("ran %v", ran)
	}
	if _, err := o.Open(context.Background(), nil); !errors.Is(err, ErrNoMedia) {
		t.Errorf("err = %v, want ErrNoMedia", err)
	}
}
