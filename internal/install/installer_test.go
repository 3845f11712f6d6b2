package install

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/wppview/internal/bus"
	"github.com/matheus3301/wppview/internal/cache"
	"github.com/matheus3301/wppview/internal/remote"
)

const exportText = "[01/02/23, 09:00:00] Alice: image omitted\n[01/02/23, 09:01:00] Bob: ok\n"

// mockFetcher serves a fixed listing. failures maps a media name to the
// number of times it fails before succeeding; a negative count always fails.
type mockFetcher struct {
	media    map[string]string
	failures map[string]int
	status   int
	calls    map[string]int
	listErr  error
}

func newMockFetcher(media map[string]string) *mockFetcher {
	return &mockFetcher{media: media, failures: map[string]int{}, calls: map[string]int{}, status: http.StatusBadGateway}
}

func (m *mockFetcher) List(context.Context) (*remote.Listing, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	l := &remote.Listing{Success: true, Chat: &remote.FileRef{ID: "c", Name: "chat.txt"}}
	for name := range m.media {
		l.Media = append(l.Media, remote.FileRef{ID: name, Name: name})
	}
	return l, nil
}

func (m *mockFetcher) Chat(context.Context) ([]byte, error) {
	return []byte(exportText), nil
}

func (m *mockFetcher) Media(_ context.Context, name string) ([]byte, error) {
	m.calls[name]++
	if n := m.failures[name]; n != 0 {
		if n > 0 {
			m.failures[name]--
		}
		return nil, &remote.FetchError{Action: remote.ActionMedia, Status: m.status, Err: errors.New("upstream")}
	}
	return []byte(m.media[name]), nil
}

func testDB(t *testing.T) *cache.DB {
	t.Helper()
	db, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestInstallerCopiesEverything(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	defer b.Close()
	finished, unsub := b.Subscribe(bus.InstallFinished, 1)
	defer unsub()

	fetch := newMockFetcher(map[string]string{
		"0001-PHOTO-2023-02-01-09-00-00.jpg": "a",
		"0002-AUDIO-2023-02-01-09-05-00.opus": "bb",
	})
	in := New(fetch, db, b, nil)
	in.sleep = noSleep

	res, err := in.Run(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Downloaded != 2 || res.Messages != 2 || len(res.Failed) != 0 {
		t.Errorf("result = %+v", res)
	}

	c, err := db.GetChat(cache.DefaultChatID)
	if err != nil || c == nil {
		t.Fatalf("chat not stored: %v", err)
	}
	if string(c.Raw) != exportText || c.Name != "chat.txt" {
		t.Errorf("stored chat = %q %q", c.Name, c.Raw)
	}
	data, err := db.GetMedia("0002-AUDIO-2023-02-01-09-05-00.opus")
	if err != nil || string(data) != "bb" {
		t.Errorf("media = %q, %v", data, err)
	}

	select {
	case evt := <-finished:
		if r, ok := evt.Payload.(Result); !ok || r.RunID != res.RunID {
			t.Errorf("finished payload = %#v", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no install.finished event")
	}
}

func TestInstallerSkipsCachedMedia(t *testing.T) {
	db := testDB(t)
	name := "0001-PHOTO-2023-02-01-09-00-00.jpg"
	if err := db.PutMedia(cache.DefaultChatID, name, []byte("old")); err != nil {
		t.Fatal(err)
	}
	fetch := newMockFetcher(map[string]string{name: "new"})
	in := New(fetch, db, nil, nil)

	res, err := in.Run(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 1 || fetch.calls[name] != 0 {
		t.Errorf("skipped=%d calls=%d", res.Skipped, fetch.calls[name])
	}

	res, err = in.Run(context.Background(), Options{Force: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Downloaded != 1 || fetch.calls[name] != 1 {
		t.Errorf("forced downloaded=%d calls=%d", res.Downloaded, fetch.calls[name])
	}
}

func TestInstallerRetries(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		status    int
		wantCalls int
		wantFail  bool
	}{
		{"recovers after two errors", 2, http.StatusBadGateway, 3, false},
		{"gives up after three", -1, http.StatusServiceUnavailable, Attempts, true},
		{"no retry on 404", -1, http.StatusNotFound, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := "0001-PHOTO-2023-02-01-09-00-00.jpg"
			fetch := newMockFetcher(map[string]string{name: "x"})
			fetch.failures[name] = tt.failures
			fetch.status = tt.status
			in := New(fetch, testDB(t), nil, nil)
			in.sleep = noSleep

			res, err := in.Run(context.Background(), Options{})
			if err != nil {
				t.Fatal(err)
			}
			if fetch.calls[name] != tt.wantCalls {
				t.Errorf("calls = %d, want %d", fetch.calls[name], tt.wantCalls)
			}
			if got := len(res.Failed) == 1; got != tt.wantFail {
				t.Errorf("failed = %v, want %v", res.Failed, tt.wantFail)
			}
		})
	}
}

func TestInstallerListFailure(t *testing.T) {
	fetch := newMockFetcher(nil)
	fetch.listErr = &remote.FetchError{Action: remote.ActionList, Status: http.StatusInternalServerError, Err: errors.New("boom")}
	b := bus.New()
	defer b.Close()
	failed, unsub := b.Subscribe(bus.InstallFailed, 1)
	defer unsub()

	in := New(fetch, testDB(t), b, nil)
	if _, err := in.Run(context.Background(), Options{}); err == nil {
		t.Fatal("expected error")
	}
	select {
	case <-failed:
	case <-time.After(time.Second):
		t.Fatal("no install.failed event")
	}
}

func TestInstallerCanceled(t *testing.T) {
	fetch := newMockFetcher(map[string]string{"0001-PHOTO-2023-02-01-09-00-00.jpg": "x"})
	in := New(fetch, testDB(t), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := in.Run(ctx, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
