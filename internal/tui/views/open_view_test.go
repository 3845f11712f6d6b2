package views

import (
	"testing"

	"github.com/rivo/tview"

	"github.com/matheus3301/wppview/internal/tui/ui"
)

func TestOpenViewRequest(t *testing.T) {
	ov := NewOpenView(ui.DefaultTheme(), "/tmp/chat.txt", "", "http://127.0.0.1:8787")
	ov.GetFormItemByLabel("Media folder").(*tview.InputField).SetText("  /tmp/media ")

	var got OpenRequest
	ov.SetOnOpen(func(r OpenRequest) { got = r })
	ov.submit(OpenRemote)

	want := OpenRequest{
		Source:   OpenRemote,
		ChatPath: "/tmp/chat.txt",
		MediaDir: "/tmp/media",
		URL:      "http://127.0.0.1:8787",
		Save:     true,
	}
	if got != want {
		t.Errorf("request = %+v, want %+v", got, want)
	}
}
