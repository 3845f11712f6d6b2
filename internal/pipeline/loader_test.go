package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/wppview/internal/bus"
	"github.com/matheus3301/wppview/internal/cache"
	"github.com/matheus3301/wppview/internal/remote"
	"github.com/matheus3301/wppview/internal/status"
)

func testGuard(t *testing.T) *cache.Guard {
	t.Helper()
	g := cache.OpenGuard(filepath.Join(t.TempDir(), "cache.db"), nil)
	if !g.Available() {
		t.Fatal(g.Err())
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestLoadLocal(t *testing.T) {
	dir := t.TempDir()
	chatPath := filepath.Join(dir, "chat.txt")
	mediaDir := filepath.Join(dir, "media")
	if err := os.WriteFile(chatPath, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(mediaDir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mediaDir, "0001-PHOTO-2023-02-02-10-00-00.jpg"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	b := bus.New()
	defer b.Close()
	events, cancel := b.Subscribe("loader.", 16)
	defer cancel()

	l := NewLoader(Options{}, b, nil, nil)
	s, err := l.LoadLocal(chatPath, mediaDir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "chat.txt" || s.Origin != OriginLocal {
		t.Errorf("name/origin = %q/%q", s.Name, s.Origin)
	}
	if l.Status().Current() != status.Ready {
		t.Errorf("status = %s, want READY", l.Status().Current())
	}
	if l.Current() != s {
		t.Error("Current() is not the loaded session")
	}

	var kinds []string
	timeout := time.After(time.Second)
	for len(kinds) < 3 {
		select {
		case evt := <-events:
			kinds = append(kinds, evt.Kind)
		case <-timeout:
			t.Fatalf("only got events %v", kinds)
		}
	}
	want := []string{bus.LoaderStatusChanged, bus.LoaderStatusChanged, bus.LoaderLoaded}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestLoadLocalMissingFile(t *testing.T) {
	l := NewLoader(Options{}, nil, nil, nil)
	if _, err := l.LoadLocal(filepath.Join(t.TempDir(), "nope.txt"), ""); err == nil {
		t.Fatal("expected error")
	}
	if l.Status().Current() != status.Failed {
		t.Errorf("status = %s, want FAILED", l.Status().Current())
	}
	// A failed load can be retried.
	if _, err := l.LoadBytes("chat.txt", []byte(sample), nil); err != nil {
		t.Fatal(err)
	}
	if l.Status().Current() != status.Ready {
		t.Errorf("status = %s, want READY", l.Status().Current())
	}
}

func TestLoadBytesEmpty(t *testing.T) {
	l := NewLoader(Options{}, nil, nil, nil)
	_, err := l.LoadBytes("x.txt", []byte("nothing here"), nil)
	if !errors.Is(err, ErrNoMessages) {
		t.Fatalf("err = %v, want ErrNoMessages", err)
	}
	if l.Status().Current() != status.Empty {
		t.Errorf("status = %s, want EMPTY", l.Status().Current())
	}
}

func fakeProxy(t *testing.T) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case remote.ActionList:
			_ = json.NewEncoder(w).Encode(remote.Listing{
				Success: true,
				Chat:    &remote.FileRef{ID: "c", Name: "chat.txt"},
				Media:   []remote.FileRef{{ID: "m", Name: "0001-PHOTO-2023-02-01-09-00-00.jpg"}},
			})
		case remote.ActionChat:
			_, _ = io.WriteString(w, sample)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	c, err := remote.New(srv.URL + "/api/drive")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestLoadRemoteSavesToCache(t *testing.T) {
	g := testGuard(t)
	l := NewLoader(Options{}, nil, g, nil)

	s, err := l.LoadRemote(context.Background(), fakeProxy(t), true)
	if err != nil {
		t.Fatal(err)
	}
	if s.Origin != OriginRemote || s.Report.Exact != 1 {
		t.Errorf("origin=%s report=%+v", s.Origin, s.Report)
	}
	if !l.Cached("") {
		t.Fatal("chat not saved to cache")
	}

	cached, err := l.LoadCached("")
	if err != nil {
		t.Fatal(err)
	}
	if cached.Origin != OriginCache || len(cached.Messages) != 3 {
		t.Errorf("cached origin=%s messages=%d", cached.Origin, len(cached.Messages))
	}
	if cached.ChatID != s.ChatID {
		t.Error("cached chat has a different fingerprint")
	}
}

func TestLoadCachedUnavailable(t *testing.T) {
	l := NewLoader(Options{}, nil, cache.NewGuard(nil, nil), nil)
	if _, err := l.LoadCached(""); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("err = %v, want ErrNotInstalled", err)
	}
	if l.Cached("") {
		t.Error("Cached() = true on unavailable cache")
	}
}
