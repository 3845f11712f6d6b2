package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/matheus3301/wppview/internal/tui/ui"
)

// ShareView shows a QR code pointing at the media proxy so a phone on the
// same network can open the export.
type ShareView struct {
	*tview.TextView
	theme *ui.Theme
	url   string
}

// NewShareView creates a new share view.
func NewShareView(theme *ui.Theme) *ShareView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetTitle(" Share ")
	sv := &ShareView{TextView: tv}
	sv.SetTheme(theme)
	return sv
}

// Name implements Component.
func (sv *ShareView) Name() string { return "Share" }

// Hints implements Component.
func (sv *ShareView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// SetTheme implements ui.Themed.
func (sv *ShareView) SetTheme(t *ui.Theme) {
	sv.theme = t
	sv.SetBorderColor(t.BorderColor)
	sv.SetBackgroundColor(t.BgColor)
	sv.SetTextColor(t.FgColor)
	sv.SetTitleColor(t.TitleColor)
}

// ShowURL renders url as a scannable QR block.
func (sv *ShareView) ShowURL(url string) {
	sv.url = url
	sv.Clear()
	if url == "" {
		sv.ShowMessage("No proxy configured. Start wppviewd or set [remote] url.")
		return
	}
	_, _ = fmt.Fprintf(sv, "\n  Scan to open this export:\n\n%s\n  [::d]%s", RenderQR(url), tview.Escape(url))
}

// ShowMessage displays a status message.
func (sv *ShareView) ShowMessage(msg string) {
	sv.Clear()
	_, _ = fmt.Fprintf(sv, "\n\n%s", tview.Escape(msg))
}

// RenderQR converts a string to a compact QR code using Unicode half-block
// characters, two modules per character cell.
func RenderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}
	qr.DisableBorder = false

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := y+1 < rows && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
