package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/tui/ui"
)

// HelpSection is a titled list of key or command descriptions.
type HelpSection struct {
	Title string
	Rows  []ui.MenuHint
}

// HelpView displays the key binding and command reference.
type HelpView struct {
	*tview.TextView
	theme    *ui.Theme
	sections []HelpSection
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetTitle(" Help ")

	hv := &HelpView{TextView: tv}
	hv.SetTheme(theme)
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// SetTheme implements ui.Themed.
func (hv *HelpView) SetTheme(t *ui.Theme) {
	hv.theme = t
	hv.SetBorderColor(t.BorderColor)
	hv.SetBackgroundColor(t.BgColor)
	hv.SetTextColor(t.FgColor)
	hv.SetTitleColor(t.TitleColor)
	hv.render()
}

// Update replaces the sections shown.
func (hv *HelpView) Update(sections []HelpSection) {
	hv.sections = sections
	hv.render()
}

func (hv *HelpView) render() {
	hv.Clear()
	kc := ui.ColorTag(hv.theme.MenuKeyColor)
	var b strings.Builder
	for _, s := range hv.sections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", tview.Escape(s.Title))
		width := 0
		for _, r := range s.Rows {
			width = max(width, len(r.Key))
		}
		for _, r := range s.Rows {
			fmt.Fprintf(&b, "  [%s]%-*s[-:-:-]  %s\n", kc, width, tview.Escape(r.Key), tview.Escape(r.Description))
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
	hv.ScrollToBeginning()
}
