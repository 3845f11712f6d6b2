package cache

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/logging"
	"github.com/matheus3301/wppview/internal/media"
)

var (
	// ErrUnavailable means the cache could not be opened or migrated.
	ErrUnavailable = errors.New("cache unavailable")
	// ErrNotCached means a key has no stored value.
	ErrNotCached = errors.New("not cached")
)

// Guard is the cache as seen by the viewer. Every storage failure is logged
// and reported as a miss, so a broken cache never blocks loading an export
// by hand.
type Guard struct {
	db     *DB
	log    *zap.Logger
	reason error
}

// OpenGuard opens and migrates the cache at path. It never fails; when the
// cache cannot be used the guard answers every read with a miss.
func OpenGuard(path string, log *zap.Logger) *Guard {
	log = logging.OrNop(log)
	db, err := Open(path)
	if err != nil {
		log.Warn("cache unavailable", zap.String("path", path), zap.Error(err))
		return &Guard{log: log, reason: err}
	}
	res, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		log.Warn("cache migration failed", zap.String("path", path), zap.Error(err))
		return &Guard{log: log, reason: err}
	}
	log.Debug("cache ready", zap.Uint("version", res.Version), zap.Bool("migrated", res.Changed))
	return &Guard{db: db, log: log}
}

// NewGuard wraps an already open database. db may be nil.
func NewGuard(db *DB, log *zap.Logger) *Guard {
	g := &Guard{db: db, log: logging.OrNop(log)}
	if db == nil {
		g.reason = errors.New("no database")
	}
	return g
}

// Available reports whether the cache can be used.
func (g *Guard) Available() bool { return g != nil && g.db != nil }

// Err explains why the cache is unavailable, wrapping ErrUnavailable.
func (g *Guard) Err() error {
	if g.Available() {
		return nil
	}
	if g == nil || g.reason == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, g.reason)
}

// DB returns the underlying database for tooling that wants real errors.
func (g *Guard) DB() (*DB, error) {
	if !g.Available() {
		return nil, g.Err()
	}
	return g.db, nil
}

func (g *Guard) miss(op string, err error, fields ...zap.Field) {
	g.log.Warn("cache "+op+" failed", append(fields, zap.Error(err))...)
}

// Chat returns the cached chat with id. ok is false on a miss or any error.
func (g *Guard) Chat(id string) (c *Chat, ok bool) {
	if !g.Available() {
		return nil, false
	}
	c, err := g.db.GetChat(id)
	if err != nil {
		g.miss("read chat", err, zap.String("chat_id", id))
		return nil, false
	}
	return c, c != nil
}

// Media returns the cached media of chatID, or nil.
func (g *Guard) Media(chatID string) []media.Source {
	if !g.Available() {
		return nil
	}
	srcs, err := g.db.MediaSources(chatID)
	if err != nil {
		g.miss("list media", err, zap.String("chat_id", chatID))
		return nil
	}
	return srcs
}

// HasMedia reports whether name is cached. Errors count as absent.
func (g *Guard) HasMedia(name string) bool {
	if !g.Available() {
		return false
	}
	ok, err := g.db.HasMedia(name)
	if err != nil {
		g.miss("stat media", err, zap.String("name", name))
		return false
	}
	return ok
}

// SaveChat stores c and reports success.
func (g *Guard) SaveChat(c *Chat) bool {
	if !g.Available() {
		return false
	}
	if err := g.db.PutChat(c); err != nil {
		g.miss("write chat", err, zap.String("chat_id", c.ID))
		return false
	}
	return true
}

// SaveMedia stores one media file and reports success.
func (g *Guard) SaveMedia(chatID, name string, data []byte) bool {
	if !g.Available() {
		return false
	}
	if err := g.db.PutMedia(chatID, name, data); err != nil {
		g.miss("write media", err, zap.String("name", name))
		return false
	}
	return true
}

// Stars returns the stars of chatID, or nil.
func (g *Guard) Stars(chatID string) []Star {
	if !g.Available() {
		return nil
	}
	stars, err := g.db.ListStars(chatID)
	if err != nil {
		g.miss("list stars", err)
		return nil
	}
	return stars
}

// ToggleStar flips the star on s. It returns the new state and false if the
// change could not be stored.
func (g *Guard) ToggleStar(chatID string, s Star) (starred, stored bool) {
	if !g.Available() {
		return false, false
	}
	starred, err := g.db.ToggleStar(chatID, s)
	if err != nil {
		g.miss("toggle star", err, zap.Int("index", s.Index))
		return false, false
	}
	return starred, true
}

// Renames returns the display names for chatID, never nil.
func (g *Guard) Renames(chatID string) map[string]string {
	if !g.Available() {
		return map[string]string{}
	}
	r, err := g.db.Renames(chatID)
	if err != nil {
		g.miss("list renames", err)
		return map[string]string{}
	}
	return r
}

// SetRename stores a display name and reports success.
func (g *Guard) SetRename(chatID, sender, display string) bool {
	if !g.Available() {
		return false
	}
	if err := g.db.SetRename(chatID, sender, display); err != nil {
		g.miss("write rename", err, zap.String("sender", sender))
		return false
	}
	return true
}

// Pref returns a preference or def.
func (g *Guard) Pref(key, def string) string {
	if !g.Available() {
		return def
	}
	v, err := g.db.GetPref(key)
	if err != nil {
		g.miss("read pref", err, zap.String("key", key))
		return def
	}
	if v == "" {
		return def
	}
	return v
}

// SetPref stores a preference and reports success.
func (g *Guard) SetPref(key, value string) bool {
	if !g.Available() {
		return false
	}
	if err := g.db.SetPref(key, value); err != nil {
		g.miss("write pref", err, zap.String("key", key))
		return false
	}
	return true
}

// Close closes the database if open.
func (g *Guard) Close() error {
	if !g.Available() {
		return nil
	}
	return g.db.Close()
}
