// Package install copies a chat export and its media from a proxy into the
// local cache so it can be viewed offline.
package install

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/matheus3301/wppview/internal/bus"
	"github.com/matheus3301/wppview/internal/cache"
	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/logging"
	"github.com/matheus3301/wppview/internal/remote"
)

// Attempts is the number of tries per file for retryable errors.
const Attempts = 3

// Fetcher is the part of the proxy client the installer needs.
type Fetcher interface {
	List(ctx context.Context) (*remote.Listing, error)
	Chat(ctx context.Context) ([]byte, error)
	Media(ctx context.Context, name string) ([]byte, error)
}

// Store is the part of the cache the installer writes to.
type Store interface {
	PutChat(c *cache.Chat) error
	PutMedia(chatID, name string, data []byte) error
	HasMedia(name string) (bool, error)
}

// Options tune an install run.
type Options struct {
	// ChatID is the cache key; empty means cache.DefaultChatID.
	ChatID string
	// RatePerSecond limits media downloads. Zero means unlimited.
	RatePerSecond float64
	// Force downloads media that is already cached.
	Force bool
	// Backoff is the wait before the first retry, doubled after each.
	Backoff time.Duration
}

// Started is the payload of bus.InstallStarted.
type Started struct {
	RunID uuid.UUID
	Total int
}

// Progress is the payload of bus.InstallProgress.
type Progress struct {
	RunID uuid.UUID
	Name  string
	Done  int
	Total int
	Err   error
}

// Result summarizes an install run and is the payload of bus.InstallFinished.
type Result struct {
	RunID      uuid.UUID
	ChatName   string
	Messages   int
	Downloaded int
	Skipped    int
	Failed     []string
	Bytes      int64
	Took       time.Duration
}

// Installer fills the cache from a proxy.
type Installer struct {
	fetch  Fetcher
	store  Store
	bus    *bus.Bus
	logger *zap.Logger
	sleep  func(context.Context, time.Duration) error
}

// New creates an installer. b may be nil.
func New(fetch Fetcher, store Store, b *bus.Bus, logger *zap.Logger) *Installer {
	return &Installer{
		fetch:  fetch,
		store:  store,
		bus:    b,
		logger: logging.OrNop(logger),
		sleep:  sleepCtx,
	}
}

// Run fetches the listing, the chat text and every media file. A chat that
// cannot be fetched or stored fails the run; individual media failures are
// collected in Result.Failed.
func (in *Installer) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	chatID := opts.ChatID
	if chatID == "" {
		chatID = cache.DefaultChatID
	}
	res := &Result{RunID: uuid.New()}
	log := in.logger.With(zap.String("run_id", res.RunID.String()), zap.String("chat_id", chatID))

	listing, err := in.fetch.List(ctx)
	if err != nil {
		return nil, in.failed(res, fmt.Errorf("list: %w", err))
	}
	in.bus.Emit(bus.InstallStarted, Started{RunID: res.RunID, Total: len(listing.Media)})
	log.Info("install started", zap.String("chat", listing.Chat.Name), zap.Int("media", len(listing.Media)))

	var raw []byte
	err = in.retry(ctx, opts.Backoff, func() error {
		var err error
		raw, err = in.fetch.Chat(ctx)
		return err
	})
	if err != nil {
		return nil, in.failed(res, fmt.Errorf("chat: %w", err))
	}
	text := string(raw)
	res.ChatName = listing.Chat.Name
	res.Messages = len(chat.Parse(text).Messages)
	if err := in.store.PutChat(&cache.Chat{
		ID:          chatID,
		Name:        listing.Chat.Name,
		Fingerprint: chat.Fingerprint(text),
		Raw:         raw,
	}); err != nil {
		return nil, in.failed(res, fmt.Errorf("store chat: %w", err))
	}
	res.Bytes += int64(len(raw))

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	limiter := rate.NewLimiter(limit, 1)

	total := len(listing.Media)
	for i, f := range listing.Media {
		if err := ctx.Err(); err != nil {
			return res, in.failed(res, err)
		}
		p := Progress{RunID: res.RunID, Name: f.Name, Done: i + 1, Total: total}

		if !opts.Force {
			if ok, err := in.store.HasMedia(f.Name); err == nil && ok {
				res.Skipped++
				in.bus.Emit(bus.InstallProgress, p)
				continue
			}
		}
		if err := limiter.Wait(ctx); err != nil {
			return res, in.failed(res, err)
		}

		var data []byte
		err := in.retry(ctx, opts.Backoff, func() error {
			var err error
			data, err = in.fetch.Media(ctx, f.Name)
			return err
		})
		if err == nil {
			err = in.store.PutMedia(chatID, f.Name, data)
		}
		if err != nil {
			log.Warn("media install failed", zap.String("name", f.Name), zap.Error(err))
			res.Failed = append(res.Failed, f.Name)
			p.Err = err
		} else {
			res.Downloaded++
			res.Bytes += int64(len(data))
		}
		in.bus.Emit(bus.InstallProgress, p)
	}

	res.Took = time.Since(start)
	log.Info("install finished",
		zap.Int("messages", res.Messages),
		zap.Int("downloaded", res.Downloaded),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", len(res.Failed)),
		zap.Int64("bytes", res.Bytes),
		zap.Duration("took", res.Took),
	)
	in.bus.Emit(bus.InstallFinished, *res)
	return res, nil
}

// retry runs fn up to Attempts times while it returns a retryable
// remote.FetchError.
func (in *Installer) retry(ctx context.Context, backoff time.Duration, fn func() error) error {
	var err error
	wait := backoff
	for attempt := 1; attempt <= Attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		var fe *remote.FetchError
		if !errors.As(err, &fe) || !fe.Retryable() || attempt == Attempts {
			return err
		}
		in.logger.Debug("retrying", zap.Int("attempt", attempt), zap.Error(err))
		if serr := in.sleep(ctx, wait); serr != nil {
			return serr
		}
		wait *= 2
	}
	return err
}

func (in *Installer) failed(res *Result, err error) error {
	in.logger.Error("install failed", zap.String("run_id", res.RunID.String()), zap.Error(err))
	in.bus.Emit(bus.InstallFailed, err)
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
