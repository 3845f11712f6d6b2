package views

import (
	"strings"
	"testing"

	qrcode "github.com/skip2/go-qrcode"
)

func TestRenderQRHalfBlocks(t *testing.T) {
	url := "http://192.168.1.10:8787/api/drive?action=list"
	out := RenderQR(url)

	qr, err := qrcode.New(url, qrcode.Low)
	if err != nil {
		t.Fatal(err)
	}
	modules := len(qr.Bitmap())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if want := (modules + 1) / 2; len(lines) != want {
		t.Errorf("lines = %d, want %d", len(lines), want)
	}
	if !strings.ContainsAny(out, "█▀▄") {
		t.Error("no block characters in output")
	}
}
