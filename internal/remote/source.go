package remote

import (
	"context"
	"io"

	"github.com/matheus3301/wppview/internal/media"
)

// Ref is a media.Source streamed from the proxy on demand.
type Ref struct {
	client *Client
	file   FileRef
}

func (r *Ref) Name() string { return r.file.Name }

func (r *Ref) Open() (io.ReadCloser, error) {
	return r.client.OpenMedia(context.Background(), r.file.Name)
}

func (r *Ref) URL() string { return r.client.MediaURL(r.file.Name) }

// File returns the listing entry.
func (r *Ref) File() FileRef { return r.file }

// Sources wraps every media entry of l as a streamed source.
func (c *Client) Sources(l *Listing) []media.Source {
	if l == nil {
		return nil
	}
	out := make([]media.Source, 0, len(l.Media))
	for _, f := range l.Media {
		out = append(out, &Ref{client: c, file: f})
	}
	return out
}
