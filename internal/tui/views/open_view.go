package views

import (
	"strings"

	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/tui/ui"
)

// OpenSource is where an open request loads from.
type OpenSource int

const (
	OpenLocal OpenSource = iota
	OpenRemote
	OpenCached
)

// OpenRequest is what the open form submits.
type OpenRequest struct {
	Source   OpenSource
	ChatPath string
	MediaDir string
	URL      string
	Save     bool
}

// OpenView is the form for loading an export.
type OpenView struct {
	*tview.Form
	theme  *ui.Theme
	onOpen func(OpenRequest)
}

// NewOpenView creates the open form with the given defaults.
func NewOpenView(theme *ui.Theme, chatPath, mediaDir, url string) *OpenView {
	f := tview.NewForm()
	f.SetBorder(true)
	f.SetTitle(" Open export ")
	ov := &OpenView{Form: f}

	f.AddInputField("Chat file", chatPath, 0, nil, nil)
	f.AddInputField("Media folder", mediaDir, 0, nil, nil)
	f.AddInputField("Proxy URL", url, 0, nil, nil)
	f.AddCheckbox("Save remote to cache", true, nil)
	f.AddButton("Open file", func() { ov.submit(OpenLocal) })
	f.AddButton("Load proxy", func() { ov.submit(OpenRemote) })
	f.AddButton("Open cached", func() { ov.submit(OpenCached) })
	ov.SetTheme(theme)
	return ov
}

// Name implements Component.
func (ov *OpenView) Name() string { return "Open" }

// Hints implements Component.
func (ov *OpenView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Choose"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetTheme implements ui.Themed.
func (ov *OpenView) SetTheme(t *ui.Theme) {
	ov.theme = t
	ov.SetBorderColor(t.BorderColor)
	ov.SetBackgroundColor(t.BgColor)
	ov.SetTitleColor(t.TitleColor)
	ov.SetLabelColor(t.MenuKeyColor)
	ov.SetFieldBackgroundColor(t.TheirsBg)
	ov.SetFieldTextColor(t.FgColor)
	ov.SetButtonBackgroundColor(t.CrumbInactiveBg)
	ov.SetButtonTextColor(t.CrumbInactiveFg)
}

// SetOnOpen sets the submit callback.
func (ov *OpenView) SetOnOpen(fn func(OpenRequest)) {
	ov.onOpen = fn
}

// Request reads the form for src.
func (ov *OpenView) Request(src OpenSource) OpenRequest {
	text := func(label string) string {
		if in, ok := ov.GetFormItemByLabel(label).(*tview.InputField); ok {
			return strings.TrimSpace(in.GetText())
		}
		return ""
	}
	save := false
	if cb, ok := ov.GetFormItemByLabel("Save remote to cache").(*tview.Checkbox); ok {
		save = cb.IsChecked()
	}
	return OpenRequest{
		Source:   src,
		ChatPath: text("Chat file"),
		MediaDir: text("Media folder"),
		URL:      text("Proxy URL"),
		Save:     save,
	}
}

func (ov *OpenView) submit(src OpenSource) {
	if ov.onOpen != nil {
		ov.onOpen(ov.Request(src))
	}
}
