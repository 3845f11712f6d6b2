package proxy

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/matheus3301/wppview/internal/media"
	"github.com/matheus3301/wppview/internal/remote"
)

// ErrNotFound is returned by backends for unknown files.
var ErrNotFound = errors.New("file not found")

// Backend is a folder holding one chat export and its media.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Files lists every file in the folder.
	Files(ctx context.Context) ([]remote.FileRef, error)
	// Open streams a file by id.
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// BuildListing picks the chat export and media files out of a folder. The
// chat is the first .txt file, preferring names that contain "chat".
func BuildListing(files []remote.FileRef) *remote.Listing {
	l := &remote.Listing{Success: true, Media: []remote.FileRef{}}
	for i := range files {
		f := files[i]
		if strings.EqualFold(extOf(f.Name), ".txt") {
			if l.Chat == nil || (!containsFold(l.Chat.Name, "chat") && containsFold(f.Name, "chat")) {
				l.Chat = &f
			}
			continue
		}
		if media.IsMedia(f.Name) {
			l.Media = append(l.Media, f)
		}
	}
	if l.Chat == nil {
		l.Success = false
		l.Error = "no chat export (.txt) found in folder"
	}
	return l
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}
