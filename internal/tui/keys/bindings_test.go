package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestHandleEventPrefersView(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal(&Action{Name: "quit", Key: tcell.KeyRune, Rune: 'q', Handler: func() { got = "global" }})
	r.AddView("chat", &Action{Name: "back", Key: tcell.KeyRune, Rune: 'q', Handler: func() { got = "view" }})

	if !r.HandleEvent("chat", runeKey('q')) || got != "view" {
		t.Errorf("chat q ran %q, want view", got)
	}
	if !r.HandleEvent("help", runeKey('q')) || got != "global" {
		t.Errorf("help q ran %q, want global", got)
	}
	if r.HandleEvent("chat", runeKey('z')) {
		t.Error("unbound key reported handled")
	}
}

func TestSpecialKeys(t *testing.T) {
	r := NewRegistry()
	hit := false
	r.AddView("chat", &Action{Key: tcell.KeyPgDn, Handler: func() { hit = true }})
	r.HandleEvent("chat", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	if !hit {
		t.Error("PgDn not dispatched")
	}
}

func TestHintsOrder(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: '?', Description: "Help", Visible: true})
	r.AddView("chat", &Action{Key: tcell.KeyRune, Rune: '/', Description: "Search", Visible: true})
	r.AddView("chat", &Action{Key: tcell.KeyRune, Rune: 'n', Label: "n/N", Description: "Next match", Visible: true})
	r.AddView("chat", &Action{Key: tcell.KeyRune, Rune: 'x', Description: "Hidden"})

	hints := r.Hints("chat")
	want := []Hint{{"/", "Search"}, {"n/N", "Next match"}, {"?", "Help"}}
	if len(hints) != len(want) {
		t.Fatalf("hints = %v", hints)
	}
	for i := range want {
		if hints[i] != want[i] {
			t.Errorf("hint %d = %v, want %v", i, hints[i], want[i])
		}
	}
}
