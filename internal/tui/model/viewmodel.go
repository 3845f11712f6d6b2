package model

import (
	"strings"
	"sync"
	"time"

	"github.com/matheus3301/wppview/internal/cache"
	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/match"
	"github.com/matheus3301/wppview/internal/media"
	"github.com/matheus3301/wppview/internal/pipeline"
	"github.com/matheus3301/wppview/internal/search"
	"github.com/matheus3301/wppview/internal/viewport"
)

// ViewModel holds the state of the chat page: the loaded session, the
// scroll position, the search cursor and the per-chat annotations.
type ViewModel struct {
	mu sync.RWMutex

	guard   *cache.Guard
	tracker *viewport.Tracker
	speed   viewport.Speedometer

	session *pipeline.Session
	offset  int
	height  int
	// selected is the message under the cursor, -1 with no session.
	selected  int
	lastSpeed float64

	cursor    *search.Cursor
	highlight search.Highlight

	stars     map[int]cache.Star
	renames   map[string]string
	viewpoint string
	fallback  string

	refreshCh chan struct{}
}

// NewViewModel creates an empty view model. guard may be unavailable; all
// annotations then live in memory only.
func NewViewModel(guard *cache.Guard, itemHeight, buffer int, viewpoint string) *ViewModel {
	if itemHeight <= 0 {
		itemHeight = 3
	}
	return &ViewModel{
		guard:     guard,
		tracker:   viewport.NewTracker(itemHeight, buffer),
		selected:  -1,
		cursor:    search.NewCursor(search.Result{}),
		highlight: search.Highlight{Index: -1},
		stars:     map[int]cache.Star{},
		renames:   map[string]string{},
		fallback:  viewpoint,
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

func (vm *ViewModel) itemHeight() int { return vm.tracker.ItemHeight }

// SetSession replaces the loaded chat. Search state is dropped and the view
// starts on the newest message.
func (vm *ViewModel) SetSession(s *pipeline.Session) {
	vm.mu.Lock()
	vm.session = s
	vm.cursor = search.NewCursor(search.Result{})
	vm.highlight = search.Highlight{Index: -1}
	vm.stars = map[int]cache.Star{}
	vm.renames = map[string]string{}
	vm.viewpoint = ""
	vm.speed = viewport.Speedometer{}
	vm.tracker.Reset()
	if s != nil {
		for _, st := range vm.guard.Stars(s.ChatID) {
			vm.stars[st.Index] = st
		}
		vm.renames = vm.guard.Renames(s.ChatID)
		vm.viewpoint = vm.resolveViewpoint(s)
		vm.selected = len(s.Messages) - 1
		vm.offset = viewport.MaxScrollOffset(vm.height, vm.itemHeight(), len(s.Messages))
	} else {
		vm.selected, vm.offset = -1, 0
	}
	vm.mu.Unlock()
	vm.signalRefresh()
}

func (vm *ViewModel) resolveViewpoint(s *pipeline.Session) string {
	for _, cand := range []string{vm.guard.Pref(viewpointKey(s.ChatID), ""), vm.fallback} {
		if cand != "" && contains(s.Participants, cand) {
			return cand
		}
	}
	if len(s.Participants) > 0 {
		return s.Participants[0]
	}
	return ""
}

func viewpointKey(chatID string) string { return cache.PrefViewpoint + ":" + chatID }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Session returns the loaded session, or nil.
func (vm *ViewModel) Session() *pipeline.Session {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.session
}

func (vm *ViewModel) messages() []chat.Message {
	if vm.session == nil {
		return nil
	}
	return vm.session.Messages
}

// Messages returns the loaded messages.
func (vm *ViewModel) Messages() []chat.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.messages()
}

// Total is the number of loaded messages.
func (vm *ViewModel) Total() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return len(vm.messages())
}

// SetHeight records the viewport height in rows and keeps the offset valid.
func (vm *ViewModel) SetHeight(h int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if h == vm.height {
		return
	}
	wasBottom := vm.offset >= viewport.MaxScrollOffset(vm.height, vm.itemHeight(), len(vm.messages()))
	vm.height = max(0, h)
	if wasBottom {
		vm.offset = viewport.MaxScrollOffset(vm.height, vm.itemHeight(), len(vm.messages()))
	}
	vm.clamp()
}

func (vm *ViewModel) clamp() {
	vm.offset = viewport.ClampOffset(vm.offset, vm.height, vm.itemHeight(), len(vm.messages()))
}

// Window returns the rows to draw for the current offset. changed reports
// whether the materialised range moved since the last call.
func (vm *ViewModel) Window() (r viewport.Range, rows []viewport.Row, changed bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	msgs := vm.messages()
	r, changed = vm.tracker.Update(vm.offset, vm.height, len(msgs))
	return r, viewport.Rows(msgs, r), changed
}

// Offset is the scroll position in rows.
func (vm *ViewModel) Offset() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.offset
}

// ItemHeight is the number of rows per message.
func (vm *ViewModel) ItemHeight() int { return vm.itemHeight() }

// ScrollTo moves the viewport to offset and returns the scroll speed in rows
// per millisecond.
func (vm *ViewModel) ScrollTo(offset int, now time.Time) float64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.offset = offset
	vm.clamp()
	vm.lastSpeed = vm.speed.Observe(vm.offset, now)
	vm.keepSelectionVisible()
	vm.signalRefresh()
	return vm.lastSpeed
}

// ScrollBy moves the viewport by delta rows.
func (vm *ViewModel) ScrollBy(delta int, now time.Time) float64 {
	return vm.ScrollTo(vm.Offset()+delta, now)
}

// PageDown scrolls one viewport forward.
func (vm *ViewModel) PageDown(now time.Time) float64 {
	vm.mu.RLock()
	h := max(1, vm.height-vm.itemHeight())
	vm.mu.RUnlock()
	return vm.ScrollBy(h, now)
}

// PageUp scrolls one viewport back.
func (vm *ViewModel) PageUp(now time.Time) float64 {
	vm.mu.RLock()
	h := max(1, vm.height-vm.itemHeight())
	vm.mu.RUnlock()
	return vm.ScrollBy(-h, now)
}

// LastSpeed is the speed measured by the most recent scroll.
func (vm *ViewModel) LastSpeed() float64 {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.lastSpeed
}

func (vm *ViewModel) keepSelectionVisible() {
	n := len(vm.messages())
	if n == 0 {
		return
	}
	ih := vm.itemHeight()
	first := vm.offset / ih
	last := max(first, (vm.offset+vm.height)/ih-1)
	vm.selected = min(max(vm.selected, first), min(last, n-1))
}

// Selected is the index of the message under the cursor, or -1.
func (vm *ViewModel) Selected() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.selected
}

// MoveSelection moves the cursor by delta messages, scrolling the minimum
// needed to keep it on screen.
func (vm *ViewModel) MoveSelection(delta int, now time.Time) float64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	n := len(vm.messages())
	if n == 0 {
		return 0
	}
	vm.selected = min(max(vm.selected+delta, 0), n-1)
	ih := vm.itemHeight()
	top, bottom := vm.selected*ih, (vm.selected+1)*ih
	switch {
	case top < vm.offset:
		vm.offset = top
	case bottom > vm.offset+vm.height:
		vm.offset = bottom - vm.height
	}
	vm.clamp()
	vm.lastSpeed = vm.speed.Observe(vm.offset, now)
	vm.signalRefresh()
	return vm.lastSpeed
}

// Top moves to the first message.
func (vm *ViewModel) Top(now time.Time) float64 {
	return vm.MoveSelection(-vm.Total(), now)
}

// Bottom moves to the last message.
func (vm *ViewModel) Bottom(now time.Time) float64 {
	return vm.MoveSelection(vm.Total(), now)
}

// JumpTo centres message i, selects it and highlights it briefly.
func (vm *ViewModel) JumpTo(i int, now time.Time) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.jumpLocked(i, now)
}

func (vm *ViewModel) jumpLocked(i int, now time.Time) bool {
	if i < 0 || i >= len(vm.messages()) {
		return false
	}
	vm.offset = viewport.ScrollOffsetFor(i, vm.height, vm.itemHeight())
	vm.clamp()
	vm.selected = i
	vm.highlight = search.NewHighlight(i, now)
	vm.speed = viewport.Speedometer{}
	vm.signalRefresh()
	return true
}

// Highlighted reports whether message i carries the jump highlight at now.
func (vm *ViewModel) Highlighted(i int, now time.Time) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.highlight.On(i, now)
}

// Search runs query over every message and jumps to the first match. A blank
// query clears the search.
func (vm *ViewModel) Search(query string, now time.Time) search.Result {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	res := search.Search(vm.messages(), query)
	vm.cursor = search.NewCursor(res)
	if idx, ok := vm.cursor.Current(); ok {
		vm.jumpLocked(idx, now)
	}
	vm.signalRefresh()
	return res
}

// SearchResult returns the active search.
func (vm *ViewModel) SearchResult() search.Result {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.cursor.Result()
}

// SearchLabel renders the "n / total" counter, or "" with no search.
func (vm *ViewModel) SearchLabel() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.cursor.Label()
}

// IsMatch reports whether message i matches the active search.
func (vm *ViewModel) IsMatch(i int) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, m := range vm.cursor.Result().Matches {
		if m == i {
			return true
		}
		if m > i {
			break
		}
	}
	return false
}

// NextMatch jumps to the next match, wrapping.
func (vm *ViewModel) NextMatch(now time.Time) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	idx, ok := vm.cursor.Next()
	return ok && vm.jumpLocked(idx, now)
}

// PrevMatch jumps to the previous match, wrapping.
func (vm *ViewModel) PrevMatch(now time.Time) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	idx, ok := vm.cursor.Prev()
	return ok && vm.jumpLocked(idx, now)
}

// SeekMatch jumps to match number n of the active search.
func (vm *ViewModel) SeekMatch(n int, now time.Time) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	idx, ok := vm.cursor.Seek(n)
	return ok && vm.jumpLocked(idx, now)
}

// ToggleStar stars or unstars message i. stored is false when the change
// only lives in memory.
func (vm *ViewModel) ToggleStar(i int) (starred, stored bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	msgs := vm.messages()
	if i < 0 || i >= len(msgs) {
		return false, false
	}
	m := msgs[i]
	s := cache.Star{Index: i, Sender: m.Sender, Preview: m.Text, Date: m.Date, Time: m.Time}
	if r := []rune(s.Preview); len(r) > cache.PreviewLen {
		s.Preview = string(r[:cache.PreviewLen])
	}
	_, had := vm.stars[i]
	starred = !had
	if vm.guard.Available() {
		got, ok := vm.guard.ToggleStar(vm.session.ChatID, s)
		if ok {
			starred, stored = got, true
		}
	}
	if starred {
		vm.stars[i] = s
	} else {
		delete(vm.stars, i)
	}
	vm.signalRefresh()
	return starred, stored
}

// IsStarred reports whether message i is starred.
func (vm *ViewModel) IsStarred(i int) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	_, ok := vm.stars[i]
	return ok
}

// Stars returns the starred messages in chat order.
func (vm *ViewModel) Stars() []cache.Star {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]cache.Star, 0, len(vm.stars))
	for i := range len(vm.messages()) {
		if s, ok := vm.stars[i]; ok {
			out = append(out, s)
		}
	}
	return out
}

// DisplayName returns the rename of sender, or sender itself.
func (vm *ViewModel) DisplayName(sender string) string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if d, ok := vm.renames[sender]; ok && d != "" {
		return d
	}
	return sender
}

// Rename sets the display name of sender. An empty name restores the
// original. It reports whether the rename was persisted.
func (vm *ViewModel) Rename(sender, display string) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.session == nil {
		return false
	}
	display = strings.TrimSpace(display)
	if display == "" || display == sender {
		delete(vm.renames, sender)
		display = ""
	} else {
		vm.renames[sender] = display
	}
	vm.signalRefresh()
	return vm.guard.SetRename(vm.session.ChatID, sender, display)
}

// Viewpoint is the participant whose messages are drawn as "mine".
func (vm *ViewModel) Viewpoint() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.viewpoint
}

// SetViewpoint changes the "mine" participant and remembers it for this
// chat. Unknown names are rejected.
func (vm *ViewModel) SetViewpoint(name string) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.session == nil || !contains(vm.session.Participants, name) {
		return false
	}
	vm.viewpoint = name
	vm.guard.SetPref(viewpointKey(vm.session.ChatID), name)
	vm.signalRefresh()
	return true
}

// CycleViewpoint moves the viewpoint to the next participant.
func (vm *ViewModel) CycleViewpoint() string {
	vm.mu.RLock()
	var parts []string
	if vm.session != nil {
		parts = vm.session.Participants
	}
	cur := vm.viewpoint
	vm.mu.RUnlock()
	if len(parts) == 0 {
		return ""
	}
	next := parts[0]
	for i, p := range parts {
		if p == cur {
			next = parts[(i+1)%len(parts)]
			break
		}
	}
	vm.SetViewpoint(next)
	return next
}

// IsMine reports whether sender is the viewpoint participant.
func (vm *ViewModel) IsMine(sender string) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return sender != "" && sender == vm.viewpoint
}

// ParticipantIndex is the position of sender in the participant list, used
// to pick a stable color. Unknown senders give -1.
func (vm *ViewModel) ParticipantIndex(sender string) int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.session == nil {
		return -1
	}
	for i, p := range vm.session.Participants {
		if p == sender {
			return i
		}
	}
	return -1
}

// TopDate is the date of the first visible message.
func (vm *ViewModel) TopDate() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return viewport.TopDate(vm.messages(), vm.offset, vm.itemHeight())
}

// AtTop reports whether the first message is visible.
func (vm *ViewModel) AtTop() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return len(vm.messages()) > 0 && vm.offset == 0
}

// Diagnose explains the media assignment of message i.
func (vm *ViewModel) Diagnose(i int) (match.Diagnosis, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	var idx *media.Index
	if vm.session != nil {
		idx = vm.session.Index
	}
	return match.Diagnose(vm.messages(), idx, i)
}

// ThemePref returns the remembered theme name, or def.
func (vm *ViewModel) ThemePref(def string) string {
	return vm.guard.Pref(cache.PrefTheme, def)
}

// SetThemePref remembers the theme name.
func (vm *ViewModel) SetThemePref(name string) bool {
	return vm.guard.SetPref(cache.PrefTheme, name)
}
