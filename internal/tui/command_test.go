package tui

import (
	"strings"
	"testing"

	"github.com/matheus3301/wppview/internal/chat"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		name  string
		args  string
	}{
		{"quit", "quit", ""},
		{"q", "quit", ""},
		{"  Search  hello world ", "search", "hello world"},
		{"open /tmp/chat.txt", "open", "/tmp/chat.txt"},
		{"vp Alice", "viewpoint", "Alice"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := ParseCommand(tt.input)
			if c.Name != tt.name || c.Args != tt.args {
				t.Errorf("ParseCommand(%q) = %+v, want {%s %s}", tt.input, c, tt.name, tt.args)
			}
		})
	}
}

func TestCommandFields(t *testing.T) {
	c := ParseCommand(`open "/tmp/my chat.txt" /tmp/media`)
	got := c.Fields()
	if strings.Join(got, "|") != "/tmp/my chat.txt|/tmp/media" {
		t.Errorf("fields = %q", got)
	}
	if f := ParseCommand(`open ""`).Fields(); len(f) != 1 || f[0] != "" {
		t.Errorf("empty quoted field = %q", f)
	}
}

func TestParseRename(t *testing.T) {
	tests := []struct {
		in      string
		sender  string
		display string
		ok      bool
	}{
		{"Alice=Ali", "Alice", "Ali", true},
		{" Bob Marley = Bob ", "Bob Marley", "Bob", true},
		{"Alice=", "Alice", "", true},
		{"Alice", "Alice", "", false},
		{"=x", "", "x", false},
	}
	for _, tt := range tests {
		s, d, ok := ParseRename(tt.in)
		if s != tt.sender || d != tt.display || ok != tt.ok {
			t.Errorf("ParseRename(%q) = %q,%q,%v", tt.in, s, d, ok)
		}
	}
}

func TestResolveGoto(t *testing.T) {
	msgs := []chat.Message{
		{Date: "01/02/23", Text: "a"},
		{Date: "01/02/23", Text: "b"},
		{Date: "02/02/23", Text: "c"},
	}
	tests := []struct {
		arg  string
		want int
		ok   bool
	}{
		{"1", 0, true},
		{"3", 2, true},
		{"4", 0, false},
		{"0", 0, false},
		{"02/02/23", 2, true},
		{"03/02/23", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ResolveGoto(msgs, tt.arg)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveGoto(%q) = %d,%v, want %d,%v", tt.arg, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseToggle(t *testing.T) {
	if v, ok := ParseToggle("", true); v || !ok {
		t.Error("empty should flip")
	}
	if v, ok := ParseToggle("ON", false); !v || !ok {
		t.Error("on not parsed")
	}
	if v, ok := ParseToggle("maybe", true); !v || ok {
		t.Error("junk should keep the value and fail")
	}
}
