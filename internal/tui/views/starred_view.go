package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/cache"
	"github.com/matheus3301/wppview/internal/tui/ui"
)

// StarredView lists bookmarked messages.
type StarredView struct {
	*tview.Table
	theme    *ui.Theme
	stars    []cache.Star
	onSelect func(index int)
}

// NewStarredView creates a new starred messages view.
func NewStarredView(theme *ui.Theme) *StarredView {
	t := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	t.SetBorder(true)

	sv := &StarredView{Table: t}
	sv.SetTheme(theme)
	t.SetSelectedFunc(func(row, _ int) {
		if i := row - 1; i >= 0 && i < len(sv.stars) && sv.onSelect != nil {
			sv.onSelect(sv.stars[i].Index)
		}
	})
	return sv
}

// Name implements Component.
func (sv *StarredView) Name() string { return "Starred" }

// Hints implements Component.
func (sv *StarredView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Jump"},
		{Key: "*", Description: "Unstar"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetTheme implements ui.Themed.
func (sv *StarredView) SetTheme(t *ui.Theme) {
	sv.theme = t
	sv.SetBorderColor(t.BorderColor)
	sv.SetBackgroundColor(t.BgColor)
	sv.SetTitleColor(t.TitleColor)
	sv.SetSelectedStyle(tcell.StyleDefault.Foreground(t.TableCursorFg).Background(t.TableCursorBg))
}

// SetOnSelect sets the callback run with the message index chosen.
func (sv *StarredView) SetOnSelect(fn func(index int)) {
	sv.onSelect = fn
}

// Update refreshes the list.
func (sv *StarredView) Update(stars []cache.Star, names func(string) string) {
	sv.Clear()
	sv.stars = stars
	sv.SetTitle(fmt.Sprintf(" ⭐ Starred [%d] ", len(stars)))
	for col, h := range []string{" #", " DATE", " FROM", " MESSAGE"} {
		sv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(sv.theme.TableHeaderFg).
			SetBackgroundColor(sv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}
	if len(stars) == 0 {
		sv.SetCell(1, 3, tview.NewTableCell(" No starred messages. Press * on a message.").
			SetSelectable(false).SetTextColor(sv.theme.FgColor))
		return
	}
	for i, s := range stars {
		row := i + 1
		sv.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf(" %d", s.Index)).SetTextColor(sv.theme.StarColor))
		sv.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(s.Date+" "+s.Time)).SetTextColor(sv.theme.FgColor))
		sv.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(names(s.Sender)))).SetMaxWidth(20).SetTextColor(sv.theme.FgColor))
		sv.SetCell(row, 3, tview.NewTableCell(" "+tview.Escape(Truncate(sanitizeForTerminal(s.Preview), 100))).SetExpansion(1).SetTextColor(sv.theme.FgColor))
	}
	sv.Select(1, 0)
}

// SelectedIndex returns the message index under the cursor.
func (sv *StarredView) SelectedIndex() (int, bool) {
	row, _ := sv.GetSelection()
	if i := row - 1; i >= 0 && i < len(sv.stars) {
		return sv.stars[i].Index, true
	}
	return 0, false
}
