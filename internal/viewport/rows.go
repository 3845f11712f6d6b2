package viewport

import "github.com/matheus3301/wppview/internal/chat"

// Row is one materialised item.
type Row struct {
	Index int
	// DateSeparator is set when the item starts a new day in the full list.
	DateSeparator bool
}

// Rows materialises r. Separators are decided against the whole list, so the
// first visible row is compared with msgs[r.Start-1].
func Rows(msgs []chat.Message, r Range) []Row {
	r.End = min(r.End, len(msgs))
	if r.Start >= r.End {
		return nil
	}
	rows := make([]Row, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		rows = append(rows, Row{
			Index:         i,
			DateSeparator: i == 0 || msgs[i-1].Date != msgs[i].Date,
		})
	}
	return rows
}

// TopDate returns the date of the first item intersecting the viewport, for
// the floating date label.
func TopDate(msgs []chat.Message, scrollOffset, itemHeight int) string {
	if len(msgs) == 0 || itemHeight <= 0 {
		return ""
	}
	i := min(len(msgs)-1, max(0, scrollOffset/itemHeight))
	return msgs[i].Date
}
