package cache

import (
	"database/sql"
	"errors"
	"time"
)

// DefaultChatID is the key of the chat installed from the proxy.
const DefaultChatID = "predefined-chat"

// Chat is a cached chat export.
type Chat struct {
	ID          string
	Name        string
	Fingerprint string
	Size        int
	Raw         []byte
	UpdatedAt   int64
}

// PutChat stores raw export text under id, replacing any previous copy.
func (db *DB) PutChat(c *Chat) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO chats (id, name, fingerprint, size, content, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			fingerprint = excluded.fingerprint,
			size = excluded.size,
			content = excluded.content,
			updated_at = excluded.updated_at`,
		c.ID, c.Name, c.Fingerprint, len(c.Raw), compress(c.Raw), now)
	return err
}

// GetChat returns the cached chat with id, or nil if none is stored.
func (db *DB) GetChat(id string) (*Chat, error) {
	var (
		c    Chat
		blob []byte
	)
	err := db.QueryRow(`
		SELECT id, name, fingerprint, size, content, updated_at
		FROM chats WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Fingerprint, &c.Size, &blob, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if c.Raw, err = decompress(blob); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChats returns cached chats without their content.
func (db *DB) ListChats() ([]Chat, error) {
	rows, err := db.Query(`SELECT id, name, fingerprint, size, updated_at FROM chats ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chats []Chat
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.ID, &c.Name, &c.Fingerprint, &c.Size, &c.UpdatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// DeleteChat removes a chat and the media installed with it.
func (db *DB) DeleteChat(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`DELETE FROM chats WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM media WHERE chat_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
