package cache

import "time"

// Star is a bookmarked message. Index is the position in the parsed chat.
type Star struct {
	Index   int
	Sender  string
	Preview string
	Date    string
	Time    string
}

// PreviewLen bounds the text kept with a star.
const PreviewLen = 100

// ToggleStar stars s in chatID, or unstars it if already starred. It returns
// the new state.
func (db *DB) ToggleStar(chatID string, s Star) (bool, error) {
	res, err := db.Exec(`DELETE FROM stars WHERE chat_id = ? AND idx = ?`, chatID, s.Index)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	preview := []rune(s.Preview)
	if len(preview) > PreviewLen {
		preview = preview[:PreviewLen]
	}
	_, err = db.Exec(`
		INSERT INTO stars (chat_id, idx, sender, preview, date, time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		chatID, s.Index, s.Sender, string(preview), s.Date, s.Time, time.Now().UnixMilli())
	return err == nil, err
}

// ListStars returns the stars of chatID in message order.
func (db *DB) ListStars(chatID string) ([]Star, error) {
	rows, err := db.Query(`
		SELECT idx, sender, preview, date, time
		FROM stars WHERE chat_id = ? ORDER BY idx`, chatID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Star
	for rows.Next() {
		var s Star
		if err := rows.Scan(&s.Index, &s.Sender, &s.Preview, &s.Date, &s.Time); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetRename sets the display name of sender in chatID. An empty display
// removes the rename.
func (db *DB) SetRename(chatID, sender, display string) error {
	if display == "" {
		_, err := db.Exec(`DELETE FROM renames WHERE chat_id = ? AND sender = ?`, chatID, sender)
		return err
	}
	_, err := db.Exec(`
		INSERT INTO renames (chat_id, sender, display) VALUES (?, ?, ?)
		ON CONFLICT(chat_id, sender) DO UPDATE SET display = excluded.display`,
		chatID, sender, display)
	return err
}

// Renames returns sender to display name for chatID.
func (db *DB) Renames(chatID string) (map[string]string, error) {
	rows, err := db.Query(`SELECT sender, display FROM renames WHERE chat_id = ?`, chatID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var sender, display string
		if err := rows.Scan(&sender, &display); err != nil {
			return nil, err
		}
		out[sender] = display
	}
	return out, rows.Err()
}
