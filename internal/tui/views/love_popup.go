package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/love"
	"github.com/matheus3301/wppview/internal/tui/ui"
)

const confettiLine = "🎉 ✨ 🎊 ✨ 🎉 ✨ 🎊"

// LovePopup renders a love.Effect as a modal.
type LovePopup struct {
	*tview.Modal
	theme    *ui.Theme
	effect   love.Effect
	onAction func(b love.Button, e love.Effect)
}

// NewLovePopup creates the popup modal.
func NewLovePopup(theme *ui.Theme) *LovePopup {
	lp := &LovePopup{Modal: tview.NewModal()}
	lp.SetDoneFunc(func(i int, _ string) { lp.choose(i) })
	lp.SetTheme(theme)
	return lp
}

// Name implements Component.
func (lp *LovePopup) Name() string { return "💕" }

// Hints implements Component.
func (lp *LovePopup) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Choose"},
		{Key: "Esc", Description: "Close"},
	}
}

// SetTheme implements ui.Themed.
func (lp *LovePopup) SetTheme(t *ui.Theme) {
	lp.theme = t
	lp.paint()
}

func (lp *LovePopup) paint() {
	t := lp.theme
	bg := t.TheirsBg
	if lp.effect.Kind == love.KindFlashRed {
		bg = tcell.ColorDarkRed
	}
	lp.SetBackgroundColor(bg)
	lp.SetTextColor(t.FgColor)
	lp.SetButtonBackgroundColor(t.CrumbActiveBg)
	lp.SetButtonTextColor(t.CrumbActiveFg)
}

// SetOnAction sets the callback for a chosen button.
func (lp *LovePopup) SetOnAction(fn func(b love.Button, e love.Effect)) {
	lp.onAction = fn
}

// choose runs the action of button i. Esc reports -1 and closes.
func (lp *LovePopup) choose(i int) {
	buttons := lp.effect.ButtonsOrClose()
	b := love.CloseButton
	if i >= 0 && i < len(buttons) {
		b = buttons[i]
	}
	if lp.onAction != nil {
		lp.onAction(b, lp.effect)
	}
}

// Show displays e.
func (lp *LovePopup) Show(e love.Effect) {
	lp.effect = e
	lp.ClearButtons()
	labels := make([]string, 0, len(e.Buttons))
	for _, b := range e.ButtonsOrClose() {
		labels = append(labels, b.Label)
	}
	lp.AddButtons(labels)
	lp.SetText(PopupText(e))
	lp.paint()
}

// Effect returns the effect on screen.
func (lp *LovePopup) Effect() love.Effect { return lp.effect }

// PopupText lays out the body of an effect.
func PopupText(e love.Effect) string {
	var lines []string
	if e.Confetti {
		lines = append(lines, confettiLine)
	}
	if e.Emoji != "" {
		lines = append(lines, e.Emoji)
	}
	if e.Kind == love.KindEmojiRain {
		for i := range 3 {
			var row []string
			for j := range len(e.Emojis) {
				row = append(row, e.Emojis[(i+j)%len(e.Emojis)])
			}
			lines = append(lines, strings.Join(row, "  "))
		}
	}
	if e.Text != "" {
		lines = append(lines, "", e.Text)
	}
	if e.Subtext != "" {
		lines = append(lines, e.Subtext)
	}
	if e.Confetti {
		lines = append(lines, "", confettiLine)
	}
	return strings.Join(lines, "\n")
}
