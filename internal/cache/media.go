package cache

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/matheus3301/wppview/internal/media"
)

// MediaInfo describes a cached media file without its bytes.
type MediaInfo struct {
	Name   string
	ChatID string
	Size   int
}

// PutMedia stores a media file for chatID.
func (db *DB) PutMedia(chatID, name string, data []byte) error {
	_, err := db.Exec(`
		INSERT INTO media (name, chat_id, size, content, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			chat_id = excluded.chat_id,
			size = excluded.size,
			content = excluded.content,
			updated_at = excluded.updated_at`,
		name, chatID, len(data), data, time.Now().UnixMilli())
	return err
}

// GetMedia returns the bytes of a cached file, or nil if absent.
func (db *DB) GetMedia(name string) ([]byte, error) {
	var data []byte
	err := db.QueryRow(`SELECT content FROM media WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return data, err
}

// HasMedia reports whether name is cached.
func (db *DB) HasMedia(name string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(1) FROM media WHERE name = ?`, name).Scan(&n)
	return n > 0, err
}

// ListMedia returns the cached files of chatID sorted by name.
func (db *DB) ListMedia(chatID string) ([]MediaInfo, error) {
	rows, err := db.Query(`SELECT name, chat_id, size FROM media WHERE chat_id = ? ORDER BY name`, chatID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []MediaInfo
	for rows.Next() {
		var m MediaInfo
		if err := rows.Scan(&m.Name, &m.ChatID, &m.Size); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MediaSources lists the cached files of chatID as lazily read sources.
func (db *DB) MediaSources(chatID string) ([]media.Source, error) {
	infos, err := db.ListMedia(chatID)
	if err != nil {
		return nil, err
	}
	out := make([]media.Source, 0, len(infos))
	for _, m := range infos {
		out = append(out, &Blob{db: db, name: m.Name, size: m.Size})
	}
	return out, nil
}

// Blob is a media.Source whose bytes live in the cache.
type Blob struct {
	db   *DB
	name string
	size int
}

func (b *Blob) Name() string { return b.name }

// Size is the stored length in bytes.
func (b *Blob) Size() int { return b.size }

func (b *Blob) Open() (io.ReadCloser, error) {
	data, err := b.db.GetMedia(b.name)
	if err != nil {
		return nil, fmt.Errorf("read cached %s: %w", b.name, err)
	}
	if data == nil {
		return nil, fmt.Errorf("cached %s: %w", b.name, ErrNotCached)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Blob) URL() string { return "" }
