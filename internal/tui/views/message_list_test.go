package views

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/matheus3301/wppview/internal/match"
	"github.com/matheus3301/wppview/internal/pipeline"
	"github.com/matheus3301/wppview/internal/tui/model"
	"github.com/matheus3301/wppview/internal/tui/ui"
)

func loaded(t *testing.T, n int) *model.ViewModel {
	t.Helper()
	var b strings.Builder
	for i := range n {
		sender := "Alice"
		if i%3 == 0 {
			sender = "Bob"
		}
		fmt.Fprintf(&b, "[05/06/23, 11:%02d:00] %s: message %d\n", i%60, sender, i)
	}
	s, err := pipeline.Load(pipeline.Input{Name: "chat.txt", Raw: b.String()}, pipeline.Options{Policy: match.Nearest})
	if err != nil {
		t.Fatal(err)
	}
	vm := model.NewViewModel(nil, 3, 2, "")
	vm.SetSession(s)
	return vm
}

func screenText(t *testing.T, s tcell.Screen) string {
	t.Helper()
	w, h := s.Size()
	var b strings.Builder
	for y := range h {
		for x := range w {
			r, _, _, _ := s.GetContent(x, y)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func drawList(t *testing.T, ml *MessageList) string {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()
	s.SetSize(60, 14)
	ml.SetRect(0, 0, 60, 14)
	ml.Draw(s)
	return screenText(t, s)
}

func TestMessageListDrawsOnlyVisible(t *testing.T) {
	vm := loaded(t, 200)
	ml := NewMessageList(ui.DefaultTheme(), vm)
	out := drawList(t, ml)

	if !strings.Contains(out, "message 199") {
		t.Errorf("last message not drawn:\n%s", out)
	}
	if strings.Contains(out, "message 150 ") {
		t.Errorf("off-screen message drawn:\n%s", out)
	}
}

func TestMessageListFollowsScroll(t *testing.T) {
	vm := loaded(t, 200)
	ml := NewMessageList(ui.DefaultTheme(), vm)
	drawList(t, ml)

	vm.ScrollTo(0, time.Now())
	out := drawList(t, ml)
	if !strings.Contains(out, "message 0") || !strings.Contains(out, "── 05/06/23 ──") {
		t.Errorf("top of chat not drawn:\n%s", out)
	}
	if strings.Contains(out, "message 199") {
		t.Errorf("bottom still drawn after scrolling up:\n%s", out)
	}
}

func TestMessageListReusesLayoutsWithinRange(t *testing.T) {
	vm := loaded(t, 200)
	ml := NewMessageList(ui.DefaultTheme(), vm)

	// offsets 301 and 302 give the same window for 3-row items
	vm.ScrollTo(301, time.Now())
	drawList(t, ml)
	n := ml.layouts
	if n == 0 {
		t.Fatal("first draw laid out nothing")
	}

	vm.ScrollTo(302, time.Now())
	out := drawList(t, ml)
	if ml.layouts != n {
		t.Errorf("layouts = %d after a same-range scroll, want %d", ml.layouts, n)
	}
	if !strings.Contains(out, "message 102") {
		t.Errorf("scrolled view not drawn:\n%s", out)
	}

	drawList(t, ml)
	if ml.layouts != n {
		t.Errorf("layouts = %d after a redraw, want %d", ml.layouts, n)
	}

	vm.ScrollTo(312, time.Now())
	out = drawList(t, ml)
	if got := ml.layouts - n; got <= 0 || got >= len(ml.rows) {
		t.Errorf("range move laid out %d of %d rows, want only the new ones", got, len(ml.rows))
	}
	if !strings.Contains(out, "message 105") {
		t.Errorf("moved view not drawn:\n%s", out)
	}
}

func TestMessageListEmpty(t *testing.T) {
	vm := model.NewViewModel(nil, 3, 2, "")
	out := drawList(t, NewMessageList(ui.DefaultTheme(), vm))
	if !strings.Contains(out, "No chat loaded") {
		t.Errorf("placeholder missing:\n%s", out)
	}
}
