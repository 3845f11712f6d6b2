package views

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/media"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"fits", "hello world", 20, []string{"hello world"}},
		{"breaks on space", "hello world", 7, []string{"hello", "world"}},
		{"long word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"keeps newlines", "a\nb", 10, []string{"a", "b"}},
		{"empty", "", 10, []string{""}},
		{"wide runes", "😀😀😀", 4, []string{"😀😀", "😀"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.in, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
			for _, l := range got {
				if w := runewidth.StringWidth(l); w > tt.width {
					t.Errorf("line %q is %d cells wide", l, w)
				}
			}
		})
	}
}

func TestLayoutTruncates(t *testing.T) {
	m := &chat.Message{Text: "one two three four five six seven"}
	b := Layout(m, 9, 2)
	if len(b.Lines) != 2 || !b.Truncated {
		t.Fatalf("layout = %+v", b)
	}
	if !strings.HasSuffix(b.Lines[1], "…") {
		t.Errorf("last line %q lacks ellipsis", b.Lines[1])
	}
	if b.Width > 9 {
		t.Errorf("width = %d", b.Width)
	}
}

func TestMediaLabel(t *testing.T) {
	photo := &media.File{Name: "0001-PHOTO-2023-01-01-10-00-00.jpg", Kind: media.KindPhoto}
	tests := []struct {
		name  string
		msg   chat.Message
		state MediaState
		want  string
	}{
		{"plain", chat.Message{Text: "hi"}, MediaNone, ""},
		{"exact", chat.Message{Text: "image omitted", Media: photo}, MediaExact, "📷 " + photo.Name},
		{"uncertain", chat.Message{Text: "image omitted", Media: photo, MediaUncertain: true}, MediaUncertain, "📷 " + photo.Name + " (nearby day)"},
		{"missing", chat.Message{Text: "<Media omitted>"}, MediaMissing, "⚠ media not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(&tt.msg); got != tt.state {
				t.Errorf("state = %v, want %v", got, tt.state)
			}
			if got := MediaLabel(&tt.msg); got != tt.want {
				t.Errorf("label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreviewSingleLine(t *testing.T) {
	got := Preview(&chat.Message{Text: "a\nb   c"}, 20)
	if got != "a b c" {
		t.Errorf("preview = %q", got)
	}
}

func TestSanitizeForTerminal(t *testing.T) {
	in := "\U0001F44D\U0001F3FB ok\u200d\ufe0f"
	if got := sanitizeForTerminal(in); got != "\U0001F44D ok" {
		t.Errorf("sanitize = %q", got)
	}
}
