package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Menu displays keyboard shortcut hints in columns.
type Menu struct {
	*tview.TextView
	theme *Theme
	hints []MenuHint
	rows  int
}

// NewMenu creates a new menu hint panel showing rows hints per column.
func NewMenu(theme *Theme, rows int) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBorderPadding(0, 0, 2, 0)

	m := &Menu{TextView: tv, rows: max(1, rows)}
	m.SetTheme(theme)
	return m
}

// SetTheme implements Themed.
func (m *Menu) SetTheme(t *Theme) {
	m.theme = t
	m.SetBackgroundColor(t.BgColor)
	m.Update(m.hints)
}

// Update renders hints column by column.
func (m *Menu) Update(hints []MenuHint) {
	m.hints = hints
	m.Clear()

	keyColor := colorName(m.theme.MenuKeyColor)
	numColor := colorName(m.theme.NumericKeyColor)
	fg := colorName(m.theme.FgColor)

	cols := (len(hints) + m.rows - 1) / m.rows
	for r := 0; r < m.rows; r++ {
		for c := 0; c < cols; c++ {
			i := c*m.rows + r
			if i >= len(hints) {
				break
			}
			h := hints[i]
			kc := keyColor
			if h.Numeric {
				kc = numColor
			}
			_, _ = fmt.Fprintf(m, "[%s::b]%-9s[-:-:-][%s]%-14s[-] ", kc, "<"+h.Key+">", fg, h.Description)
		}
		_, _ = fmt.Fprintln(m)
	}
}
