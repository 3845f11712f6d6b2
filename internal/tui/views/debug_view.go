package views

import (
	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/match"
	"github.com/matheus3301/wppview/internal/tui/ui"
)

// DebugView shows why a message did or did not get a media file.
type DebugView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewDebugView creates a new media debug view.
func NewDebugView(theme *ui.Theme) *DebugView {
	tv := tview.NewTextView().
		SetScrollable(true).
		SetDynamicColors(false)
	tv.SetBorder(true)
	tv.SetTitle(" Media debug ")
	dv := &DebugView{TextView: tv}
	dv.SetTheme(theme)
	return dv
}

// Name implements Component.
func (dv *DebugView) Name() string { return "Debug" }

// Hints implements Component.
func (dv *DebugView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// SetTheme implements ui.Themed.
func (dv *DebugView) SetTheme(t *ui.Theme) {
	dv.theme = t
	dv.SetBorderColor(t.BorderColor)
	dv.SetBackgroundColor(t.BgColor)
	dv.SetTextColor(t.FgColor)
	dv.SetTitleColor(t.TitleColor)
}

// Update shows d.
func (dv *DebugView) Update(d match.Diagnosis) {
	dv.SetText(d.String())
	dv.ScrollToBeginning()
}

// ShowError shows why no diagnosis is available.
func (dv *DebugView) ShowError(err error) {
	dv.SetText(err.Error())
}
