package search

import (
	"testing"
	"time"

	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/viewport"
)

func sample() []chat.Message {
	return []chat.Message{
		{Date: "01/02/23", Text: "Hello there"},
		{Date: "01/02/23", Text: "nothing"},
		{Date: "02/02/23", Text: "say HELLO"},
		{Date: "02/02/23", Text: "bye"},
		{Date: "03/02/23", Text: "hello again"},
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	res := Search(sample(), "hello")
	want := []int{0, 2, 4}
	if !res.Active() || res.Count() != 3 {
		t.Fatalf("Search() = %+v", res)
	}
	for i, idx := range want {
		if res.Matches[i] != idx {
			t.Errorf("Matches[%d] = %d, want %d", i, res.Matches[i], idx)
		}
	}
}

func TestSearchDate(t *testing.T) {
	res := Search(sample(), "02/02")
	if res.Count() != 2 || res.Matches[0] != 2 {
		t.Errorf("Search(date) = %+v", res.Matches)
	}
}

func TestSearchInactiveVersusEmpty(t *testing.T) {
	none := Search(sample(), "   ")
	if none.Active() {
		t.Error("blank query should be inactive")
	}
	zero := Search(sample(), "zzz")
	if !zero.Active() || zero.Count() != 0 {
		t.Errorf("Search(zzz) = %+v, want active with zero matches", zero)
	}
}

func TestCursorWraps(t *testing.T) {
	c := NewCursor(Search(sample(), "hello"))
	if idx, _ := c.Current(); idx != 0 {
		t.Errorf("Current() = %d, want 0", idx)
	}
	if c.Label() != "1 / 3" {
		t.Errorf("Label() = %q", c.Label())
	}
	c.Next()
	c.Next()
	if idx, _ := c.Next(); idx != 0 {
		t.Errorf("Next() after wrap = %d, want 0", idx)
	}
	if idx, _ := c.Prev(); idx != 4 {
		t.Errorf("Prev() wrap = %d, want 4", idx)
	}
	if c.Label() != "3 / 3" {
		t.Errorf("Label() = %q", c.Label())
	}
	if _, ok := c.Seek(7); ok {
		t.Error("Seek() out of range should fail")
	}
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor(Search(sample(), "zzz"))
	if _, ok := c.Next(); ok {
		t.Error("Next() on empty result should report false")
	}
	if c.Label() != "0 / 0" {
		t.Errorf("Label() = %q", c.Label())
	}
	if NewCursor(Result{}).Label() != "" {
		t.Error("inactive cursor should have empty label")
	}
}

func TestTargetCentresFirstMatch(t *testing.T) {
	msgs := make([]chat.Message, 1000)
	for i := range msgs {
		msgs[i] = chat.Message{Date: "01/01/24", Text: "x"}
	}
	for _, i := range []int{400, 500, 600} {
		msgs[i].Text = "Hello"
	}
	c := NewCursor(Search(msgs, "hello"))
	j, ok := c.Target(700, 70)
	if !ok || j.Index != 400 {
		t.Fatalf("Target() = %+v, %v", j, ok)
	}
	if j.Offset != viewport.ScrollOffsetFor(400, 700, 70) {
		t.Errorf("Offset = %d", j.Offset)
	}
	r := viewport.ComputeRange(j.Offset, 700, 70, 0, len(msgs))
	if !r.Contains(400) {
		t.Errorf("range %+v misses target", r)
	}
}

func TestHighlight(t *testing.T) {
	now := time.Now()
	h := NewHighlight(3, now)
	if !h.On(3, now.Add(time.Second)) || h.On(4, now) || h.On(3, now.Add(2*time.Second)) {
		t.Error("Highlight window wrong")
	}
}
