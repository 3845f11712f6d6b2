package views

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/media"
)

// MediaState classifies how a message relates to media.
type MediaState int

const (
	MediaNone MediaState = iota
	MediaExact
	MediaUncertain
	MediaMissing
)

// StateOf reports the media state of m.
func StateOf(m *chat.Message) MediaState {
	switch {
	case m.Media != nil && m.MediaUncertain:
		return MediaUncertain
	case m.Media != nil:
		return MediaExact
	case m.MediaOmitted():
		return MediaMissing
	default:
		return MediaNone
	}
}

var kindIcons = map[media.Kind]string{
	media.KindPhoto:   "📷",
	media.KindVideo:   "🎬",
	media.KindAudio:   "🎤",
	media.KindSticker: "💟",
}

// MediaLabel is the one-line stand-in drawn for an attachment.
func MediaLabel(m *chat.Message) string {
	switch StateOf(m) {
	case MediaExact:
		return kindIcons[m.Media.Kind] + " " + m.Media.Name
	case MediaUncertain:
		return kindIcons[m.Media.Kind] + " " + m.Media.Name + " (nearby day)"
	case MediaMissing:
		return "⚠ media not found"
	default:
		return ""
	}
}

// Bubble is a message laid out for a fixed number of body rows.
type Bubble struct {
	Lines []string
	Width int
	// Truncated is set when the text did not fit in the rows available.
	Truncated bool
}

// Layout wraps the body of m into at most rows lines of at most width
// cells. Media messages give their label as the only line.
func Layout(m *chat.Message, width, rows int) Bubble {
	width, rows = max(1, width), max(1, rows)
	text := sanitizeForTerminal(m.Text)
	if label := MediaLabel(m); label != "" {
		text = label
	}
	lines := Wrap(text, width)
	b := Bubble{Lines: lines}
	if len(lines) > rows {
		b.Lines = append(lines[:rows-1:rows-1], Truncate(lines[rows-1]+" …", width))
		b.Truncated = true
	}
	for _, l := range b.Lines {
		b.Width = max(b.Width, runewidth.StringWidth(l))
	}
	return b
}

// Wrap breaks s into lines no wider than width cells. Words longer than a
// line are hard-broken. Existing newlines are kept.
func Wrap(s string, width int) []string {
	width = max(1, width)
	var out []string
	for _, para := range strings.Split(s, "\n") {
		out = append(out, wrapLine(para, width)...)
	}
	return out
}

func wrapLine(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var (
		out  []string
		cur  strings.Builder
		curW int
	)
	flush := func() {
		out = append(out, cur.String())
		cur.Reset()
		curW = 0
	}
	for _, w := range words {
		ww := runewidth.StringWidth(w)
		if curW > 0 && curW+1+ww > width {
			flush()
		}
		for ww > width {
			head := runewidth.Truncate(w, width, "")
			if head == "" {
				// a single rune wider than the line
				head = string([]rune(w)[:1])
			}
			if curW > 0 {
				flush()
			}
			out = append(out, head)
			w = w[len(head):]
			ww = runewidth.StringWidth(w)
		}
		if w == "" {
			continue
		}
		if curW > 0 {
			cur.WriteByte(' ')
			curW++
		}
		cur.WriteString(w)
		curW += ww
	}
	if curW > 0 {
		flush()
	}
	return out
}

// Truncate shortens s to width cells, ending in an ellipsis when cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// Header is the sender line of a bubble: name, time and a star marker.
func Header(sender, clock string, starred bool) string {
	h := sender + "  " + clock
	if starred {
		h += " ⭐"
	}
	return h
}

// Preview is a single-line excerpt for tables.
func Preview(m *chat.Message, width int) string {
	text := sanitizeForTerminal(m.Text)
	if label := MediaLabel(m); label != "" {
		text = label
	}
	return Truncate(strings.Join(strings.Fields(text), " "), width)
}
