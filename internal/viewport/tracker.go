package viewport

// Tracker remembers the last computed range so callers re-render only when
// it actually moves.
type Tracker struct {
	ItemHeight int
	Buffer     int

	last  Range
	valid bool
}

// NewTracker creates a tracker for items of itemHeight with buffer extra
// items on each side.
func NewTracker(itemHeight, buffer int) *Tracker {
	return &Tracker{ItemHeight: itemHeight, Buffer: buffer}
}

// Update recomputes the range. changed is false when the result equals the
// previous one.
func (t *Tracker) Update(scrollOffset, viewportHeight, total int) (r Range, changed bool) {
	r = ComputeRange(scrollOffset, viewportHeight, t.ItemHeight, t.Buffer, total)
	if t.valid && r == t.last {
		return r, false
	}
	t.last, t.valid = r, true
	return r, true
}

// Last returns the most recent range.
func (t *Tracker) Last() Range { return t.last }

// Reset forgets the previous range so the next Update reports a change.
func (t *Tracker) Reset() {
	t.last, t.valid = Range{}, false
}
