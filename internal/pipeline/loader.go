package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/bus"
	"github.com/matheus3301/wppview/internal/cache"
	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/logging"
	"github.com/matheus3301/wppview/internal/media"
	"github.com/matheus3301/wppview/internal/remote"
	"github.com/matheus3301/wppview/internal/status"
)

// Loaded is the payload of bus.LoaderLoaded.
type Loaded struct {
	Session *Session
}

// Progress is the payload of bus.LoaderProgress.
type Progress struct {
	Stage string
	Done  int
	Total int
}

// Loader loads sessions from the available sources, keeping the status
// machine and bus informed.
type Loader struct {
	opts   Options
	status *status.Machine
	bus    *bus.Bus
	cache  *cache.Guard
	log    *zap.Logger

	mu      sync.Mutex
	current *Session
}

// NewLoader creates a loader. b and guard may be nil.
func NewLoader(opts Options, b *bus.Bus, guard *cache.Guard, log *zap.Logger) *Loader {
	return &Loader{
		opts:   opts,
		status: status.NewMachine(b),
		bus:    b,
		cache:  guard,
		log:    logging.OrNop(log),
	}
}

// Status returns the loader state machine.
func (l *Loader) Status() *status.Machine { return l.status }

// Current returns the last loaded session, or nil.
func (l *Loader) Current() *Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Loader) begin(what string) {
	if err := l.status.Transition(status.Loading, what); err != nil {
		// Loading is reachable from every state but Loading itself.
		l.log.Debug("load already in progress", zap.String("source", what))
	}
}

func (l *Loader) finish(in Input) (*Session, error) {
	s, err := Load(in, l.opts)
	switch {
	case errors.Is(err, ErrNoMessages):
		_ = l.status.Transition(status.Empty, err.Error())
		l.bus.Emit(bus.LoaderFailed, err)
		return nil, err
	case err != nil:
		return nil, l.fail(err)
	}
	l.mu.Lock()
	l.current = s
	l.mu.Unlock()
	_ = l.status.Transition(status.Ready, fmt.Sprintf("%d messages", len(s.Messages)))
	l.log.Info("chat loaded",
		zap.String("name", s.Name),
		zap.String("origin", string(s.Origin)),
		zap.Int("messages", len(s.Messages)),
		zap.Int("media_provided", s.Index.Provided()),
		zap.Int("media_indexed", s.Index.Indexed()),
		zap.Int("matched", s.Report.Matched()),
		zap.Int("unmatched", s.Report.Unmatched),
	)
	l.bus.Emit(bus.LoaderLoaded, Loaded{Session: s})
	return s, nil
}

func (l *Loader) fail(err error) error {
	_ = l.status.Transition(status.Failed, err.Error())
	l.log.Warn("load failed", zap.Error(err))
	l.bus.Emit(bus.LoaderFailed, err)
	return err
}

// LoadLocal reads an export file and an optional media directory.
func (l *Loader) LoadLocal(chatPath, mediaDir string) (*Session, error) {
	l.begin("local")
	raw, err := os.ReadFile(chatPath)
	if err != nil {
		return nil, l.fail(fmt.Errorf("read chat: %w", err))
	}
	var sources []media.Source
	if mediaDir != "" {
		sources, err = media.LocalDir(mediaDir)
		if err != nil {
			return nil, l.fail(err)
		}
	}
	return l.finish(Input{Name: filepath.Base(chatPath), Raw: string(raw), Sources: sources, Origin: OriginLocal})
}

// LoadBytes loads an export already in memory, e.g. one piped on stdin.
func (l *Loader) LoadBytes(name string, raw []byte, sources []media.Source) (*Session, error) {
	l.begin("local")
	return l.finish(Input{Name: name, Raw: string(raw), Sources: sources, Origin: OriginLocal})
}

// LoadRemote fetches the listing and chat text from a proxy. Media stays
// remote and is streamed on demand. When save is set the chat text is also
// written to the cache.
func (l *Loader) LoadRemote(ctx context.Context, c *remote.Client, save bool) (*Session, error) {
	l.begin("remote")
	listing, err := c.List(ctx)
	if err != nil {
		return nil, l.fail(err)
	}
	l.bus.Emit(bus.LoaderProgress, Progress{Stage: "listing", Done: 1, Total: 2})
	raw, err := c.Chat(ctx)
	if err != nil {
		return nil, l.fail(err)
	}
	l.bus.Emit(bus.LoaderProgress, Progress{Stage: "chat", Done: 2, Total: 2})
	if save {
		l.cache.SaveChat(&cache.Chat{
			ID:          cache.DefaultChatID,
			Name:        listing.Chat.Name,
			Fingerprint: chat.Fingerprint(string(raw)),
			Raw:         raw,
		})
	}
	return l.finish(Input{Name: listing.Chat.Name, Raw: string(raw), Sources: c.Sources(listing), Origin: OriginRemote})
}

// ErrNotInstalled means the cache holds no chat under the requested id.
var ErrNotInstalled = errors.New("chat not installed in cache")

// LoadCached loads a chat and its media from the cache. An unusable cache is
// reported as ErrNotInstalled.
func (l *Loader) LoadCached(id string) (*Session, error) {
	l.begin("cache")
	if id == "" {
		id = cache.DefaultChatID
	}
	c, ok := l.cache.Chat(id)
	if !ok {
		return nil, l.fail(ErrNotInstalled)
	}
	return l.finish(Input{Name: c.Name, Raw: string(c.Raw), Sources: l.cache.Media(id), Origin: OriginCache})
}

// Cached reports whether a chat is installed under id without loading it.
func (l *Loader) Cached(id string) bool {
	if id == "" {
		id = cache.DefaultChatID
	}
	_, ok := l.cache.Chat(id)
	return ok
}
