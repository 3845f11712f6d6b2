package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/matheus3301/wppview/internal/remote"
)

// DriveConfig selects a Drive folder and how to authenticate.
type DriveConfig struct {
	FolderID string
	// APIKey works for publicly shared folders.
	APIKey string
	// CredentialsFile is a service account JSON key.
	CredentialsFile string
}

// DriveBackend serves a Google Drive folder. File ids are Drive ids.
type DriveBackend struct {
	folderID string
	svc      *drive.Service
}

// NewDriveBackend connects to Drive with an API key or service account.
func NewDriveBackend(ctx context.Context, cfg DriveConfig, extra ...option.ClientOption) (*DriveBackend, error) {
	if cfg.FolderID == "" {
		return nil, errors.New("drive: folder id is required")
	}
	opts := append([]option.ClientOption{}, extra...)
	switch {
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("drive: read credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("drive: parse credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	case len(extra) == 0:
		return nil, errors.New("drive: api key or credentials file is required")
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive: create service: %w", err)
	}
	return &DriveBackend{folderID: cfg.FolderID, svc: svc}, nil
}

func (d *DriveBackend) Name() string { return "drive:" + d.folderID }

func (d *DriveBackend) Files(ctx context.Context) ([]remote.FileRef, error) {
	var out []remote.FileRef
	q := fmt.Sprintf("'%s' in parents and trashed = false", d.folderID)
	err := d.svc.Files.List().
		Q(q).
		Fields("nextPageToken, files(id, name, size)").
		OrderBy("name").
		PageSize(1000).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				out = append(out, remote.FileRef{ID: f.Id, Name: f.Name, Size: f.Size})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("drive: list folder: %w", err)
	}
	return out, nil
}

func (d *DriveBackend) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := d.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("drive: download %s: %w", id, err)
	}
	return resp.Body, nil
}
