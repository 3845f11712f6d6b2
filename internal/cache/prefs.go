package cache

import (
	"database/sql"
	"errors"
)

// Pref keys.
const (
	PrefTheme     = "theme"
	PrefViewpoint = "viewpoint"
	PrefLastChat  = "last_chat"
)

// SetPref stores a preference value.
func (db *DB) SetPref(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// GetPref returns a preference, or "" if unset.
func (db *DB) GetPref(key string) (string, error) {
	var v string
	err := db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// Usage summarises what the cache holds.
type Usage struct {
	Chats      int
	MediaFiles int
	MediaBytes int64
}

// Usage counts cached chats and media.
func (db *DB) Usage() (Usage, error) {
	var u Usage
	if err := db.QueryRow(`SELECT COUNT(1) FROM chats`).Scan(&u.Chats); err != nil {
		return u, err
	}
	err := db.QueryRow(`SELECT COUNT(1), COALESCE(SUM(size), 0) FROM media`).Scan(&u.MediaFiles, &u.MediaBytes)
	return u, err
}

// Clear removes every cached chat and media file. Stars, renames and prefs
// are kept.
func (db *DB) Clear() error {
	_, err := db.Exec(`DELETE FROM chats; DELETE FROM media;`)
	return err
}
