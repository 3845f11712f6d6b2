package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/wppview/internal/cache"
	"github.com/matheus3301/wppview/internal/match"
	"github.com/matheus3301/wppview/internal/pipeline"
)

func session(t *testing.T, n int) *pipeline.Session {
	t.Helper()
	var b strings.Builder
	for i := range n {
		sender := "Alice"
		if i%2 == 1 {
			sender = "Bob"
		}
		fmt.Fprintf(&b, "[%02d/03/23, 10:%02d:00] %s: message %d\n", 1+i/20, i%60, sender, i)
	}
	s, err := pipeline.Load(pipeline.Input{Name: "chat.txt", Raw: b.String()}, pipeline.Options{Policy: match.Nearest})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func guard(t *testing.T) *cache.Guard {
	t.Helper()
	g := cache.OpenGuard(filepath.Join(t.TempDir(), "cache.db"), nil)
	if !g.Available() {
		t.Fatal(g.Err())
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestSetSessionStartsAtBottom(t *testing.T) {
	vm := NewViewModel(nil, 3, 2, "")
	vm.SetHeight(9)
	vm.SetSession(session(t, 50))

	if got, want := vm.Offset(), 50*3-9; got != want {
		t.Errorf("offset = %d, want %d", got, want)
	}
	if vm.Selected() != 49 {
		t.Errorf("selected = %d, want 49", vm.Selected())
	}
	if vm.Viewpoint() != "Alice" {
		t.Errorf("viewpoint = %q, want first participant", vm.Viewpoint())
	}

	r, rows, changed := vm.Window()
	if !changed || r.End != 50 || len(rows) != r.Len() {
		t.Errorf("window = %+v rows=%d changed=%v", r, len(rows), changed)
	}
	if _, _, changed := vm.Window(); changed {
		t.Error("second Window call reported a change")
	}
}

func TestScrollClamps(t *testing.T) {
	vm := NewViewModel(nil, 3, 0, "")
	vm.SetHeight(9)
	vm.SetSession(session(t, 10))
	now := time.Now()

	tests := []struct {
		name  string
		to    int
		want  int
		first int
	}{
		{"negative", -50, 0, 0},
		{"middle", 6, 6, 2},
		{"past end", 1000, 10*3 - 9, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm.ScrollTo(tt.to, now)
			if vm.Offset() != tt.want {
				t.Errorf("offset = %d, want %d", vm.Offset(), tt.want)
			}
			if s := vm.Selected(); s < tt.first || s > tt.first+2 {
				t.Errorf("selected %d not visible from %d", s, tt.first)
			}
		})
	}
}

func TestScrollSpeed(t *testing.T) {
	vm := NewViewModel(nil, 3, 0, "")
	vm.SetHeight(9)
	vm.SetSession(session(t, 100))
	now := time.Now()
	vm.ScrollTo(0, now)
	speed := vm.ScrollTo(100, now.Add(100*time.Millisecond))
	if speed != 1 {
		t.Errorf("speed = %v, want 1 row/ms", speed)
	}
}

func TestMoveSelectionScrollsMinimally(t *testing.T) {
	vm := NewViewModel(nil, 3, 0, "")
	vm.SetHeight(9)
	vm.SetSession(session(t, 20))
	now := time.Now()

	vm.Top(now)
	if vm.Selected() != 0 || vm.Offset() != 0 {
		t.Fatalf("top: selected=%d offset=%d", vm.Selected(), vm.Offset())
	}
	vm.MoveSelection(2, now)
	if vm.Offset() != 0 {
		t.Errorf("offset moved to %d while selection still visible", vm.Offset())
	}
	vm.MoveSelection(1, now)
	if vm.Offset() != 3 {
		t.Errorf("offset = %d, want 3", vm.Offset())
	}
	if vm.AtTop() {
		t.Error("AtTop after scrolling down")
	}
	vm.Bottom(now)
	if vm.Selected() != 19 {
		t.Errorf("bottom selected = %d", vm.Selected())
	}
}

func TestSearchJumpsAndCycles(t *testing.T) {
	vm := NewViewModel(nil, 3, 0, "")
	vm.SetHeight(9)
	vm.SetSession(session(t, 30))
	now := time.Now()

	res := vm.Search("message 1", now)
	// message 1, 10..19
	if res.Count() != 11 {
		t.Fatalf("matches = %d, want 11", res.Count())
	}
	if vm.Selected() != 1 || !vm.Highlighted(1, now) {
		t.Errorf("selected = %d, want first match highlighted", vm.Selected())
	}
	if vm.SearchLabel() != "1 / 11" {
		t.Errorf("label = %q", vm.SearchLabel())
	}
	if !vm.IsMatch(12) || vm.IsMatch(2) {
		t.Error("IsMatch wrong")
	}
	vm.PrevMatch(now)
	if vm.Selected() != 19 {
		t.Errorf("prev wrapped to %d, want 19", vm.Selected())
	}
	vm.NextMatch(now)
	if vm.Selected() != 1 {
		t.Errorf("next wrapped to %d, want 1", vm.Selected())
	}
	if vm.Highlighted(1, now.Add(2*time.Second)) {
		t.Error("highlight did not expire")
	}

	vm.Search("  ", now)
	if vm.SearchResult().Active() || vm.SearchLabel() != "" {
		t.Error("blank query left search active")
	}
}

func TestSearchNoMatch(t *testing.T) {
	vm := NewViewModel(nil, 3, 0, "")
	vm.SetHeight(9)
	vm.SetSession(session(t, 5))
	before := vm.Offset()
	res := vm.Search("absent", time.Now())
	if !res.Active() || res.Count() != 0 {
		t.Errorf("result = %+v", res)
	}
	if vm.SearchLabel() != "0 / 0" {
		t.Errorf("label = %q", vm.SearchLabel())
	}
	if vm.NextMatch(time.Now()) || vm.Offset() != before {
		t.Error("next match moved without matches")
	}
}

func TestStarsPersist(t *testing.T) {
	g := guard(t)
	s := session(t, 10)

	vm := NewViewModel(g, 3, 0, "")
	vm.SetSession(s)
	starred, stored := vm.ToggleStar(4)
	if !starred || !stored {
		t.Fatalf("toggle = %v,%v", starred, stored)
	}
	vm.ToggleStar(2)

	other := NewViewModel(g, 3, 0, "")
	other.SetSession(s)
	stars := other.Stars()
	if len(stars) != 2 || stars[0].Index != 2 || stars[1].Index != 4 {
		t.Fatalf("stars = %+v", stars)
	}
	if stars[1].Preview != "message 4" || stars[1].Sender != "Alice" {
		t.Errorf("star = %+v", stars[1])
	}

	if starred, _ := other.ToggleStar(4); starred || other.IsStarred(4) {
		t.Error("second toggle did not unstar")
	}
}

func TestStarsWithoutCache(t *testing.T) {
	vm := NewViewModel(nil, 3, 0, "")
	vm.SetSession(session(t, 3))
	starred, stored := vm.ToggleStar(1)
	if !starred || stored {
		t.Errorf("toggle = %v,%v, want in-memory star", starred, stored)
	}
	if !vm.IsStarred(1) {
		t.Error("star not kept in memory")
	}
	if starred, _ := vm.ToggleStar(99); starred {
		t.Error("out of range index starred")
	}
}

func TestRenameAndViewpoint(t *testing.T) {
	g := guard(t)
	s := session(t, 4)

	vm := NewViewModel(g, 3, 0, "")
	vm.SetSession(s)
	if !vm.Rename("Bob", "Bobby") {
		t.Fatal("rename not stored")
	}
	if vm.DisplayName("Bob") != "Bobby" || vm.DisplayName("Alice") != "Alice" {
		t.Errorf("display names wrong")
	}
	if !vm.SetViewpoint("Bob") || vm.SetViewpoint("Carol") {
		t.Fatal("viewpoint validation wrong")
	}
	if !vm.IsMine("Bob") || vm.IsMine("Alice") {
		t.Error("IsMine wrong")
	}

	again := NewViewModel(g, 3, 0, "Alice")
	again.SetSession(s)
	if again.Viewpoint() != "Bob" {
		t.Errorf("stored viewpoint lost: %q", again.Viewpoint())
	}
	if again.DisplayName("Bob") != "Bobby" {
		t.Error("stored rename lost")
	}
	again.Rename("Bob", "")
	if again.DisplayName("Bob") != "Bob" {
		t.Error("empty rename did not restore the name")
	}
	if next := again.CycleViewpoint(); next != "Alice" {
		t.Errorf("cycle = %q, want Alice", next)
	}
}

func TestConfiguredViewpoint(t *testing.T) {
	vm := NewViewModel(nil, 3, 0, "Bob")
	vm.SetSession(session(t, 4))
	if vm.Viewpoint() != "Bob" {
		t.Errorf("viewpoint = %q, want configured Bob", vm.Viewpoint())
	}
}

func TestTopDateFollowsScroll(t *testing.T) {
	vm := NewViewModel(nil, 3, 0, "")
	vm.SetHeight(9)
	vm.SetSession(session(t, 40))
	now := time.Now()
	vm.ScrollTo(0, now)
	if vm.TopDate() != "01/03/23" {
		t.Errorf("top date = %q", vm.TopDate())
	}
	vm.ScrollTo(20*3, now)
	if vm.TopDate() != "02/03/23" {
		t.Errorf("top date = %q", vm.TopDate())
	}
}

func TestDiagnose(t *testing.T) {
	vm := NewViewModel(nil, 3, 0, "")
	if _, err := vm.Diagnose(0); err == nil {
		t.Error("expected error without a session")
	}
	vm.SetSession(session(t, 3))
	d, err := vm.Diagnose(1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Placeholder {
		t.Error("plain text reported as placeholder")
	}
}
