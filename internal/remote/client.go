// Package remote fetches a chat export and its media from a wppviewd proxy.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/logging"
)

// Proxy actions.
const (
	ActionList  = "list"
	ActionChat  = "chat"
	ActionMedia = "media"
	ActionFile  = "file"
)

// MaxBody caps any single response.
const MaxBody = 512 << 20

// FileRef names one file known to the proxy.
type FileRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}

// Listing is the response of the list action.
type Listing struct {
	Success bool      `json:"success"`
	Chat    *FileRef  `json:"chat"`
	Media   []FileRef `json:"media"`
	Error   string    `json:"error,omitempty"`
}

// FetchError reports a failed proxy request. Status is 0 for transport errors.
type FetchError struct {
	Action string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s: HTTP %d: %v", e.Action, e.Status, e.Err)
	}
	return fmt.Sprintf("remote %s: %v", e.Action, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the request may succeed.
func (e *FetchError) Retryable() bool {
	return e.Status == 0 || e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Client talks to one proxy endpoint.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logging.OrNop(l) }
}

// New creates a client for baseURL, e.g. http://127.0.0.1:8787/api/drive.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the proxy endpoint.
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) actionURL(action string, params url.Values) string {
	u := *c.base
	q := u.Query()
	q.Set("action", action)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// MediaURL is the direct URL of a media file by name.
func (c *Client) MediaURL(name string) string {
	return c.actionURL(ActionMedia, url.Values{"fileName": {name}})
}

func (c *Client) get(ctx context.Context, action string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.actionURL(action, params), nil)
	if err != nil {
		return nil, &FetchError{Action: action, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Action: action, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, &FetchError{Action: action, Status: resp.StatusCode, Err: errors.New(errorMessage(resp.Body))}
	}
	return resp, nil
}

func (c *Client) getBytes(ctx context.Context, action string, params url.Values) ([]byte, error) {
	start := time.Now()
	resp, err := c.get(ctx, action, params)
	if err != nil {
		c.log.Warn("remote request failed", zap.String("action", action), zap.Error(err))
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody))
	if err != nil {
		return nil, &FetchError{Action: action, Err: err}
	}
	c.log.Debug("remote request", zap.String("action", action), zap.Int("bytes", len(data)), zap.Duration("took", time.Since(start)))
	return data, nil
}

// List fetches the file listing. A body that is not JSON, or that lacks a
// chat entry, is a FetchError.
func (c *Client) List(ctx context.Context) (*Listing, error) {
	data, err := c.getBytes(ctx, ActionList, nil)
	if err != nil {
		return nil, err
	}
	var l Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, &FetchError{Action: ActionList, Status: http.StatusOK, Err: fmt.Errorf("malformed listing: %w", err)}
	}
	if !l.Success || l.Chat == nil {
		msg := l.Error
		if msg == "" {
			msg = "chat file not found in listing"
		}
		return nil, &FetchError{Action: ActionList, Status: http.StatusOK, Err: errors.New(msg)}
	}
	return &l, nil
}

// Chat fetches the export text.
func (c *Client) Chat(ctx context.Context) ([]byte, error) {
	return c.getBytes(ctx, ActionChat, nil)
}

// Media fetches a media file by name.
func (c *Client) Media(ctx context.Context, name string) ([]byte, error) {
	return c.getBytes(ctx, ActionMedia, url.Values{"fileName": {name}})
}

// File fetches any listed file by id.
func (c *Client) File(ctx context.Context, id string) ([]byte, error) {
	return c.getBytes(ctx, ActionFile, url.Values{"fileId": {id}})
}

// OpenMedia streams a media file. The caller closes the body.
func (c *Client) OpenMedia(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, ActionMedia, url.Values{"fileName": {name}})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// errorMessage extracts {"error": "..."} from a failed response.
func errorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return e.Error
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return "empty response"
}
