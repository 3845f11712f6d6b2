package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeProxy(t *testing.T, listing any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case ActionList:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(listing)
		case ActionChat:
			_, _ = io.WriteString(w, "[01/02/23, 10:00:00] Alice: hi")
		case ActionMedia:
			if r.URL.Query().Get("fileName") != "0001-PHOTO-2023-02-01-10-00-00.jpg" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"error":"media not found"}`)
				return
			}
			_, _ = io.WriteString(w, "jpeg")
		case ActionFile:
			_, _ = io.WriteString(w, "file:"+r.URL.Query().Get("fileId"))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"invalid action"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func okListing() Listing {
	return Listing{
		Success: true,
		Chat:    &FileRef{ID: "c", Name: "chat.txt"},
		Media:   []FileRef{{ID: "m1", Name: "0001-PHOTO-2023-02-01-10-00-00.jpg"}},
	}
}

func TestClientListChatMedia(t *testing.T) {
	srv := fakeProxy(t, okListing())
	c, err := New(srv.URL + "/api/drive")
	require.NoError(t, err)
	ctx := context.Background()

	l, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "chat.txt", l.Chat.Name)
	assert.Len(t, l.Media, 1)

	text, err := c.Chat(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[01/02/23, 10:00:00] Alice: hi", string(text))

	data, err := c.Media(ctx, "0001-PHOTO-2023-02-01-10-00-00.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	data, err = c.File(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "file:m1", string(data))
}

func TestClientNon200IsFetchError(t *testing.T) {
	srv := fakeProxy(t, okListing())
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Media(context.Background(), "missing.jpg")
	var fe *FetchError
	require.True(t, errors.As(err, &fe), "error %T is not a FetchError", err)
	assert.Equal(t, ActionMedia, fe.Action)
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Contains(t, fe.Error(), "media not found")
	assert.False(t, fe.Retryable())
}

func TestClientMalformedListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>not json</html>")
	}))
	defer srv.Close()
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Error(), "malformed listing")
}

func TestClientListingWithoutChat(t *testing.T) {
	srv := fakeProxy(t, Listing{Success: true})
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Error(), "chat file not found")
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	_, err = c.Chat(context.Background())
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 0, fe.Status)
	assert.True(t, fe.Retryable())
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.test")
	assert.Error(t, err)
	_, err = New("::bad")
	assert.Error(t, err)
}

func TestSourcesStream(t *testing.T) {
	srv := fakeProxy(t, okListing())
	c, err := New(srv.URL + "/api/drive?token=x")
	require.NoError(t, err)

	l, err := c.List(context.Background())
	require.NoError(t, err)
	srcs := c.Sources(l)
	require.Len(t, srcs, 1)
	assert.Equal(t, "0001-PHOTO-2023-02-01-10-00-00.jpg", srcs[0].Name())
	assert.Contains(t, srcs[0].URL(), "action=media")
	assert.Contains(t, srcs[0].URL(), "token=x")

	rc, err := srcs[0].Open()
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
}
