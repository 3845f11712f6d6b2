package search

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/viewport"
)

// Result holds the matches of one query over the full message list.
type Result struct {
	Query   string
	Matches []int
}

// Active reports whether a search is in effect. An active result may still
// have zero matches.
func (r Result) Active() bool { return r.Query != "" }

// Count is the number of matches.
func (r Result) Count() int { return len(r.Matches) }

// Search returns the index of every message whose text or date contains
// query, ignoring case. A blank query gives an inactive result.
func Search(msgs []chat.Message, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}
	}
	folder := cases.Fold()
	q := folder.String(query)
	res := Result{Query: query, Matches: []int{}}
	for i := range msgs {
		if strings.Contains(folder.String(msgs[i].Text), q) || strings.Contains(folder.String(msgs[i].Date), q) {
			res.Matches = append(res.Matches, i)
		}
	}
	return res
}

// Cursor walks the matches of a result.
type Cursor struct {
	res Result
	pos int
}

// NewCursor positions a cursor on the first match.
func NewCursor(res Result) *Cursor {
	return &Cursor{res: res}
}

// Result returns the underlying result.
func (c *Cursor) Result() Result { return c.res }

// Current returns the message index under the cursor.
func (c *Cursor) Current() (int, bool) {
	if len(c.res.Matches) == 0 {
		return 0, false
	}
	return c.res.Matches[c.pos], true
}

// Next moves forward, wrapping at the end.
func (c *Cursor) Next() (int, bool) {
	if n := len(c.res.Matches); n > 0 {
		c.pos = (c.pos + 1) % n
	}
	return c.Current()
}

// Prev moves backward, wrapping at the start.
func (c *Cursor) Prev() (int, bool) {
	if n := len(c.res.Matches); n > 0 {
		c.pos = (c.pos - 1 + n) % n
	}
	return c.Current()
}

// Seek moves to match number i.
func (c *Cursor) Seek(i int) (int, bool) {
	if i < 0 || i >= len(c.res.Matches) {
		return 0, false
	}
	c.pos = i
	return c.Current()
}

// Position is the 1-based position of the cursor, or 0 with no matches.
func (c *Cursor) Position() int {
	if len(c.res.Matches) == 0 {
		return 0
	}
	return c.pos + 1
}

// Label renders the counter shown next to the search box.
func (c *Cursor) Label() string {
	if !c.res.Active() {
		return ""
	}
	return fmt.Sprintf("%d / %d", c.Position(), c.res.Count())
}

// Jump is where the viewer must scroll to show a match.
type Jump struct {
	Index  int
	Offset int
}

// Target computes the centring scroll offset for the current match.
func (c *Cursor) Target(viewportHeight, itemHeight int) (Jump, bool) {
	idx, ok := c.Current()
	if !ok {
		return Jump{}, false
	}
	return Jump{Index: idx, Offset: viewport.ScrollOffsetFor(idx, viewportHeight, itemHeight)}, true
}

// HighlightDuration is how long a jumped-to message stays highlighted.
const HighlightDuration = 1500 * time.Millisecond

// Highlight is a transient mark on one message.
type Highlight struct {
	Index int
	Until time.Time
}

// NewHighlight marks index until now+HighlightDuration.
func NewHighlight(index int, now time.Time) Highlight {
	return Highlight{Index: index, Until: now.Add(HighlightDuration)}
}

// On reports whether index is highlighted at now.
func (h Highlight) On(index int, now time.Time) bool {
	return h.Index == index && now.Before(h.Until)
}
