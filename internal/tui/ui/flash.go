package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel is how loud a notification is.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
	// FlashProgress stays up until replaced or cleared.
	FlashProgress
)

var flashTTL = map[FlashLevel]time.Duration{
	FlashInfo: 4 * time.Second,
	FlashWarn: 8 * time.Second,
	FlashErr:  12 * time.Second,
}

var flashIcons = map[FlashLevel]string{
	FlashInfo:     "ℹ",
	FlashWarn:     "⚠",
	FlashErr:      "✖",
	FlashProgress: "⏳",
}

// FlashMessage is one notification. A zero Expires never expires.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// FlashModel holds the latest notification. It is safe for concurrent use:
// loaders and installers post from their own goroutines.
type FlashModel struct {
	mu      sync.RWMutex
	current *FlashMessage
	watchCh chan FlashMessage
	now     func() time.Time
}

// NewFlashModel creates an empty flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{
		watchCh: make(chan FlashMessage, 8),
		now:     time.Now,
	}
}

// Info posts an info notification.
func (f *FlashModel) Info(msg string) { f.post(msg, FlashInfo) }

// Warn posts a warning, e.g. a star kept in memory only.
func (f *FlashModel) Warn(msg string) { f.post(msg, FlashWarn) }

// Err posts an error notification.
func (f *FlashModel) Err(err error) {
	if err == nil {
		return
	}
	f.post(err.Error(), FlashErr)
}

// Progress posts a sticky "done/total" notification.
func (f *FlashModel) Progress(label string, done, total int) {
	f.post(fmt.Sprintf("%s %d/%d", label, done, total), FlashProgress)
}

// Clear drops the current notification.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	f.notify(FlashMessage{})
}

func (f *FlashModel) post(msg string, level FlashLevel) {
	fm := FlashMessage{Text: msg, Level: level}
	if ttl, ok := flashTTL[level]; ok {
		fm.Expires = f.now().Add(ttl)
	}
	f.mu.Lock()
	f.current = &fm
	f.mu.Unlock()
	f.notify(fm)
}

func (f *FlashModel) notify(fm FlashMessage) {
	select {
	case f.watchCh <- fm:
	default:
	}
}

// GetMessage returns the live notification, or nil once it expired.
func (f *FlashModel) GetMessage() *FlashMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current == nil {
		return nil
	}
	if !f.current.Expires.IsZero() && f.now().After(f.current.Expires) {
		return nil
	}
	m := *f.current
	return &m
}

// Watch signals every post and clear.
func (f *FlashModel) Watch() <-chan FlashMessage {
	return f.watchCh
}

// FlashBar is the one-line notification area under the status bar.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates the notification bar.
func NewFlashBar(theme *Theme) *FlashBar {
	fb := &FlashBar{TextView: tview.NewTextView().SetDynamicColors(true)}
	fb.SetTheme(theme)
	return fb
}

// SetTheme implements Themed.
func (fb *FlashBar) SetTheme(t *Theme) {
	fb.theme = t
	fb.SetBackgroundColor(t.BgColor)
}

// Update shows msg, or clears the bar for nil.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}
	_, _ = fmt.Fprint(fb, fb.Line(msg))
}

// Line is the tview markup for msg.
func (fb *FlashBar) Line(msg *FlashMessage) string {
	var c string
	switch msg.Level {
	case FlashWarn:
		c = colorName(fb.theme.FlashWarnColor)
	case FlashErr:
		c = colorName(fb.theme.FlashErrColor)
	default:
		c = colorName(fb.theme.FlashInfoColor)
	}
	return fmt.Sprintf(" [%s]%s %s[-]", c, flashIcons[msg.Level], tview.Escape(msg.Text))
}
