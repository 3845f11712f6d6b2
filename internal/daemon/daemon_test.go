package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/config"
	"github.com/matheus3301/wppview/internal/lock"
	"github.com/matheus3301/wppview/internal/profile"
	"github.com/matheus3301/wppview/internal/proxy"
	"github.com/matheus3301/wppview/internal/remote"
)

func testParams(t *testing.T, dir string) Params {
	t.Helper()
	t.Setenv(profile.HomeEnv, t.TempDir())
	cfg := config.Default()
	cfg.Proxy.Listen = "127.0.0.1:0"
	cfg.Proxy.Dir = dir
	return Params{ProfileName: "test", Config: cfg, Logger: zap.NewNop()}
}

func TestDaemonLifecycle(t *testing.T) {
	dir := t.TempDir()
	chatPath := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(chatPath, []byte("[01/02/2024 10:00:00] Alice: hi\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	p := testParams(t, dir)

	var srv *proxy.Server
	app := fxtest.New(t, Module(p), fx.Populate(&srv))
	app.RequireStart()

	c, err := remote.New(srv.URL())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if l.Chat.Name != "chat.txt" {
		t.Errorf("chat = %q, want chat.txt", l.Chat.Name)
	}

	// A second daemon for the same profile is refused while the first runs.
	_, err = lock.Acquire(profile.Dir(p.ProfileName), lock.Proxy, "test")
	var held *lock.LockHeldError
	if !errors.As(err, &held) {
		t.Errorf("second acquire err = %v, want LockHeldError", err)
	}

	app.RequireStop()

	lk, err := lock.Acquire(profile.Dir(p.ProfileName), lock.Proxy, "test")
	if err != nil {
		t.Fatalf("lock not released on stop: %v", err)
	}
	_ = lk.Release()
}

func TestDaemonWatchInvalidatesListing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chat.txt"), []byte("[01/02/2024 10:00:00] Alice: hi\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var srv *proxy.Server
	app := fxtest.New(t, Module(testParams(t, dir)), fx.Populate(&srv))
	app.RequireStart()
	defer app.RequireStop()

	c, err := remote.New(srv.URL())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := c.List(ctx); err != nil {
		t.Fatal(err)
	}
	name := "0001-PHOTO-2024-02-01-10-00-00.jpg"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		data, err := c.Media(ctx, name)
		if err == nil {
			if string(data) != "img" {
				t.Fatalf("media = %q", data)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("new media never served: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestDaemonRequiresBackend(t *testing.T) {
	p := testParams(t, "")
	app := fx.New(Module(p), fx.NopLogger)
	if err := app.Err(); err == nil || !strings.Contains(err.Error(), ErrNoBackend.Error()) {
		t.Fatalf("err = %v, want ErrNoBackend", err)
	}
}
