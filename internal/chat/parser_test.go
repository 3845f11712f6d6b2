package chat

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseBracketedMultiline(t *testing.T) {
	res := Parse("[01/02/23, 14:05:00] Alice: Hello\nWorld")
	if len(res.Messages) != 1 {
		t.Fatalf("Parse() messages = %d, want 1", len(res.Messages))
	}
	m := res.Messages[0]
	if m.Sender != "Alice" || m.Date != "01/02/23" || m.Time != "14:05:00" {
		t.Errorf("Parse() = %+v", m)
	}
	if m.Text != "Hello\nWorld" {
		t.Errorf("Text = %q, want %q", m.Text, "Hello\nWorld")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		date   string
		time   string
		sender string
		text   string
	}{
		{"dashed", "02/02/23, 09:00 - Bob: <Media omitted>", "02/02/23", "09:00", "Bob", "<Media omitted>"},
		{"dashed no comma", "2/2/2023 9:00 - Bob: hi", "2/2/2023", "9:00", "Bob", "hi"},
		{"bracketed ampm", "[3/14/24, 9:05:12 PM] Carol: yo", "3/14/24", "9:05:12 PM", "Carol", "yo"},
		{"narrow nbsp ampm", "[3/14/24, 9:05:12\u202fPM] Carol: yo", "3/14/24", "9:05:12\u202fPM", "Carol", "yo"},
		{"bidi prefix", "\u200e[01/02/23, 14:05:00] Alice: \u200eimage absente", "01/02/23", "14:05:00", "Alice", "image absente"},
		{"em dash", "01/02/23 14:05 — Dan: ok", "01/02/23", "14:05", "Dan", "ok"},
		{"empty body", "[01/02/23, 14:05:00] Alice:", "01/02/23", "14:05:00", "Alice", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.line)
			if len(res.Messages) != 1 {
				t.Fatalf("Parse() messages = %d, want 1", len(res.Messages))
			}
			m := res.Messages[0]
			if m.Date != tt.date || m.Time != tt.time || m.Sender != tt.sender || m.Text != tt.text {
				t.Errorf("Parse() = {%q %q %q %q}, want {%q %q %q %q}",
					m.Date, m.Time, m.Sender, m.Text, tt.date, tt.time, tt.sender, tt.text)
			}
		})
	}
}

func TestParseSkipsBlankAndLeadingLines(t *testing.T) {
	raw := strings.Join([]string{
		"Messages and calls are end-to-end encrypted.",
		"",
		"[01/02/23, 10:00:00] Alice: first",
		"   ",
		"second line",
		"[01/02/23, 10:01:00] Bob: reply",
	}, "\n")
	res := Parse(raw)
	if len(res.Messages) != 2 {
		t.Fatalf("Parse() messages = %d, want 2", len(res.Messages))
	}
	if res.Messages[0].Text != "first\nsecond line" {
		t.Errorf("Text = %q", res.Messages[0].Text)
	}
}

func TestParseStripsEditedMarker(t *testing.T) {
	raw := "[01/02/23, 10:00:00] Alice: typo fixed <Ce message a été modifié>\nmore <This message was edited>"
	res := Parse(raw)
	if got := res.Messages[0].Text; got != "typo fixed\nmore" {
		t.Errorf("Text = %q", got)
	}
}

func TestParseParticipantsOrder(t *testing.T) {
	raw := strings.Join([]string{
		"[01/02/23, 10:00:00] Bob: a",
		"[01/02/23, 10:00:01] Alice: b",
		"[01/02/23, 10:00:02] Bob: c",
		"[01/02/23, 10:00:03] Carol: d",
	}, "\n")
	res := Parse(raw)
	want := []string{"Bob", "Alice", "Carol"}
	if !reflect.DeepEqual(res.Participants, want) {
		t.Errorf("Participants = %v, want %v", res.Participants, want)
	}
	seen := map[string]bool{}
	for _, m := range res.Messages {
		seen[m.Sender] = true
	}
	if len(seen) != len(res.Participants) {
		t.Errorf("participants %v do not cover senders %v", res.Participants, seen)
	}
}

func TestParseBodyRoundTrip(t *testing.T) {
	body := []string{"line one", "line two", "line three"}
	raw := "[01/02/23, 10:00:00] Alice: " + strings.Join(body, "\n")
	res := Parse(raw)
	if got := res.Messages[0].Text; got != strings.Join(body, "\n") {
		t.Errorf("Text = %q", got)
	}
}

func TestParseNothing(t *testing.T) {
	for _, raw := range []string{"", "\n\n", "just some text\nwithout headers"} {
		if res := Parse(raw); len(res.Messages) != 0 || len(res.Participants) != 0 {
			t.Errorf("Parse(%q) = %d messages, want 0", raw, len(res.Messages))
		}
	}
}

func TestParseCRLF(t *testing.T) {
	res := Parse("[01/02/23, 10:00:00] Alice: hi\r\nthere\r\n")
	if len(res.Messages) != 1 || res.Messages[0].Text != "hi\nthere" {
		t.Errorf("Parse() = %+v", res.Messages)
	}
}

func TestMediaOmitted(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"<Media omitted>", true},
		{"image omise", true},
		{"vidéo absente", true},
		{"audio omitted", true},
		{"<Média omis>", true},
		{"hello", false},
	}
	for _, tt := range tests {
		m := Message{Text: tt.text}
		if got := m.MediaOmitted(); got != tt.want {
			t.Errorf("MediaOmitted(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
