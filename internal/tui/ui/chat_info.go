package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// ChatData holds the loaded chat summary for display.
type ChatData struct {
	Profile      string
	Name         string
	Origin       string
	Status       string
	Messages     int
	Participants int
	MediaMatched int
	Placeholders int
	Viewpoint    string
}

// ChatInfo displays chat metadata in the header.
type ChatInfo struct {
	*tview.TextView
	theme *Theme
	data  *ChatData
}

// NewChatInfo creates a new chat info panel.
func NewChatInfo(theme *Theme) *ChatInfo {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBorderPadding(0, 0, 1, 1)
	ci := &ChatInfo{TextView: tv}
	ci.SetTheme(theme)
	return ci
}

// SetTheme implements Themed.
func (ci *ChatInfo) SetTheme(t *Theme) {
	ci.theme = t
	ci.SetBackgroundColor(t.BgColor)
	ci.Update(ci.data)
}

// Update renders the chat info.
func (ci *ChatInfo) Update(data *ChatData) {
	ci.data = data
	ci.Clear()
	if data == nil {
		return
	}

	fg := colorName(ci.theme.FgColor)
	counter := colorName(ci.theme.CounterColor)
	orDash := func(s string) string {
		if s == "" {
			return "-"
		}
		return tview.Escape(s)
	}

	_, _ = fmt.Fprintf(ci,
		"[%s::b]Profile:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Chat:[-:-:-]    [%s]%s[-] [%s](%s)[-]\n"+
			"[%s::b]Status:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]Msgs:[-:-:-]    [%s]%d[-]  [%s::b]People:[-:-:-] [%s]%d[-]\n"+
			"[%s::b]Media:[-:-:-]   [%s]%d/%d[-]\n"+
			"[%s::b]Me:[-:-:-]      [%s]%s[-]",
		fg, counter, orDash(data.Profile),
		fg, counter, orDash(data.Name), fg, orDash(data.Origin),
		fg, counter, orDash(data.Status),
		fg, counter, data.Messages, fg, counter, data.Participants,
		fg, counter, data.MediaMatched, data.Placeholders,
		fg, counter, orDash(data.Viewpoint),
	)
}
