package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/tui/ui"
)

// StatusBar displays the profile, loader state, floating date and search
// counter.
type StatusBar struct {
	*tview.TextView
	theme   *ui.Theme
	profile string
	status  string
	date    string
	search  string
	busy    bool
	love    bool
	now     func() time.Time
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	sb := &StatusBar{TextView: tv, now: time.Now}
	sb.SetTheme(theme)
	return sb
}

// SetTheme implements ui.Themed.
func (sb *StatusBar) SetTheme(t *ui.Theme) {
	sb.theme = t
	sb.SetBackgroundColor(t.TheirsBg)
	sb.SetTextColor(t.FgColor)
	sb.render()
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetStatus updates the loader status display.
func (sb *StatusBar) SetStatus(status string, busy bool) {
	sb.status, sb.busy = status, busy
	sb.render()
}

// SetDate updates the floating date of the first visible message.
func (sb *StatusBar) SetDate(date string) {
	if date == sb.date {
		return
	}
	sb.date = date
	sb.render()
}

// SetSearch updates the search counter, "" when no search is active.
func (sb *StatusBar) SetSearch(label string) {
	sb.search = label
	sb.render()
}

// SetLove shows whether the love rules are active.
func (sb *StatusBar) SetLove(on bool) {
	sb.love = on
	sb.render()
}

// Line renders the bar content.
func (sb *StatusBar) Line() string {
	parts := []string{fmt.Sprintf("[::b]%s[-:-:-]", tview.Escape(sb.profile))}
	status := tview.Escape(sb.status)
	if sb.busy {
		status += " [" + ui.ColorTag(sb.theme.MediaColor) + "]~[-]"
	}
	parts = append(parts, status)
	if sb.date != "" {
		parts = append(parts, fmt.Sprintf("[%s]📅 %s[-]", ui.ColorTag(sb.theme.DateSepColor), tview.Escape(sb.date)))
	}
	if sb.search != "" {
		parts = append(parts, fmt.Sprintf("[%s]🔍 %s[-]", ui.ColorTag(sb.theme.CounterColor), tview.Escape(sb.search)))
	}
	if sb.love {
		parts = append(parts, "💕")
	}
	parts = append(parts, sb.now().Format("15:04"))
	return " " + strings.Join(parts, " | ")
}

func (sb *StatusBar) render() {
	if sb.theme == nil {
		return
	}
	sb.Clear()
	_, _ = fmt.Fprint(sb, sb.Line())
}
