package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/tui/ui"
)

// Participant is one row of the participants page.
type Participant struct {
	Name     string
	Display  string
	Messages int
	Mine     bool
}

// ParticipantsView lists senders with their display names and lets the
// user pick who is "me".
type ParticipantsView struct {
	*tview.Table
	theme    *ui.Theme
	rows     []Participant
	onSelect func(p Participant)
}

// NewParticipantsView creates a new participants view.
func NewParticipantsView(theme *ui.Theme) *ParticipantsView {
	t := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	t.SetBorder(true)
	t.SetTitle(" Participants ")

	pv := &ParticipantsView{Table: t}
	pv.SetTheme(theme)
	t.SetSelectedFunc(func(row, _ int) {
		if p, ok := pv.Selected(); ok && pv.onSelect != nil {
			pv.onSelect(p)
		}
	})
	return pv
}

// Name implements Component.
func (pv *ParticipantsView) Name() string { return "Participants" }

// Hints implements Component.
func (pv *ParticipantsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Set as me"},
		{Key: "r", Description: "Rename"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetTheme implements ui.Themed.
func (pv *ParticipantsView) SetTheme(t *ui.Theme) {
	pv.theme = t
	pv.SetBorderColor(t.BorderColor)
	pv.SetBackgroundColor(t.BgColor)
	pv.SetTitleColor(t.TitleColor)
	pv.SetSelectedStyle(tcell.StyleDefault.Foreground(t.TableCursorFg).Background(t.TableCursorBg))
}

// SetOnSelect sets the callback run when a participant is chosen.
func (pv *ParticipantsView) SetOnSelect(fn func(p Participant)) {
	pv.onSelect = fn
}

// Update refreshes the table keeping the cursor row.
func (pv *ParticipantsView) Update(rows []Participant) {
	sel, _ := pv.GetSelection()
	pv.Clear()
	pv.rows = rows
	for col, h := range []string{"  ", " NAME", " SHOWN AS", " MESSAGES"} {
		pv.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(pv.theme.TableHeaderFg).
			SetBackgroundColor(pv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}
	for i, p := range rows {
		row := i + 1
		marker := "  "
		if p.Mine {
			marker = " ●"
		}
		color := pv.theme.SenderColor(i)
		pv.SetCell(row, 0, tview.NewTableCell(marker).SetTextColor(pv.theme.MenuKeyColor))
		pv.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(p.Name))).SetTextColor(color))
		pv.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(p.Display))).SetExpansion(1).SetTextColor(pv.theme.FgColor))
		pv.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf(" %d", p.Messages)).SetAlign(tview.AlignRight).SetTextColor(pv.theme.CounterColor))
	}
	if len(rows) > 0 {
		pv.Select(min(max(sel, 1), len(rows)), 0)
	}
}

// Selected returns the participant under the cursor.
func (pv *ParticipantsView) Selected() (Participant, bool) {
	row, _ := pv.GetSelection()
	if i := row - 1; i >= 0 && i < len(pv.rows) {
		return pv.rows[i], true
	}
	return Participant{}, false
}
