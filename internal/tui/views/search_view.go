package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/search"
	"github.com/matheus3301/wppview/internal/tui/ui"
)

// maxResultRows bounds the table; the prompt counter still shows the full
// count.
const maxResultRows = 500

// SearchView lists the matches of the active search.
type SearchView struct {
	*tview.Table
	theme    *ui.Theme
	matches  []int
	onSelect func(match int)
}

// NewSearchView creates a new search results view.
func NewSearchView(theme *ui.Theme) *SearchView {
	results := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	results.SetBorder(true)
	results.SetTitle(" Results ")

	sv := &SearchView{Table: results}
	sv.SetTheme(theme)
	results.SetSelectedFunc(func(row, _ int) {
		if n := row - 1; n >= 0 && n < len(sv.matches) && sv.onSelect != nil {
			sv.onSelect(n)
		}
	})
	return sv
}

// Name implements Component.
func (sv *SearchView) Name() string { return "Results" }

// Hints implements Component.
func (sv *SearchView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Jump"},
		{Key: "Esc", Description: "Back"},
		{Key: "/", Description: "New search"},
	}
}

// SetTheme implements ui.Themed.
func (sv *SearchView) SetTheme(t *ui.Theme) {
	sv.theme = t
	sv.SetBorderColor(t.BorderColor)
	sv.SetBackgroundColor(t.BgColor)
	sv.SetTitleColor(t.TitleColor)
	sv.SetSelectedStyle(tcell.StyleDefault.
		Foreground(t.TableCursorFg).
		Background(t.TableCursorBg))
}

// SetOnSelect sets the callback run with the match number chosen.
func (sv *SearchView) SetOnSelect(fn func(match int)) {
	sv.onSelect = fn
}

// Update refreshes the table for res over msgs. names maps senders to
// display names.
func (sv *SearchView) Update(msgs []chat.Message, res search.Result, names func(string) string) {
	sv.Clear()
	sv.matches = res.Matches
	if len(sv.matches) > maxResultRows {
		sv.matches = sv.matches[:maxResultRows]
	}
	sv.SetTitle(fmt.Sprintf(" Results for %q [%d] ", tview.Escape(res.Query), res.Count()))

	headers := []string{" DATE", " TIME", " FROM", " MESSAGE"}
	for col, h := range headers {
		sv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(sv.theme.TableHeaderFg).
			SetBackgroundColor(sv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}
	for i, idx := range sv.matches {
		m := &msgs[idx]
		row := i + 1
		sv.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(m.Date)).SetTextColor(sv.theme.FgColor))
		sv.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(m.Time)).SetTextColor(sv.theme.FgColor))
		sv.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(names(m.Sender)))).SetMaxWidth(20).SetTextColor(sv.theme.FgColor))
		sv.SetCell(row, 3, tview.NewTableCell(" "+tview.Escape(Preview(m, 120))).SetExpansion(1).SetTextColor(sv.theme.FgColor))
	}
	if len(sv.matches) > 0 {
		sv.Select(1, 0)
	}
}

// Selected returns the match number under the cursor.
func (sv *SearchView) Selected() (int, bool) {
	row, _ := sv.GetSelection()
	n := row - 1
	return n, n >= 0 && n < len(sv.matches)
}
