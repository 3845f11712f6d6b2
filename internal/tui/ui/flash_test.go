package ui

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFlashExpiry(t *testing.T) {
	now := time.Date(2023, 6, 5, 10, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	tests := []struct {
		name  string
		post  func()
		after time.Duration
		alive bool
	}{
		{"info fresh", func() { f.Info("hi") }, time.Second, true},
		{"info expired", func() { f.Info("hi") }, 5 * time.Second, false},
		{"error lasts longer", func() { f.Err(errors.New("boom")) }, 10 * time.Second, true},
		{"progress sticks", func() { f.Progress("install", 1, 3) }, time.Hour, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := now
			tt.post()
			now = base.Add(tt.after)
			defer func() { now = base }()
			if got := f.GetMessage() != nil; got != tt.alive {
				t.Errorf("alive = %v, want %v", got, tt.alive)
			}
		})
	}
}

func TestFlashClearAndNilError(t *testing.T) {
	f := NewFlashModel()
	f.Info("hello")
	f.Err(nil)
	if m := f.GetMessage(); m == nil || m.Text != "hello" {
		t.Fatalf("nil error replaced the message: %+v", m)
	}
	f.Clear()
	if m := f.GetMessage(); m != nil {
		t.Errorf("message after clear = %+v", m)
	}
}

func TestFlashBarLine(t *testing.T) {
	fb := NewFlashBar(DefaultTheme())
	got := fb.Line(&FlashMessage{Text: "Loaded [chat]", Level: FlashWarn})
	if !strings.Contains(got, "⚠") || !strings.Contains(got, "Loaded [chat[]") {
		t.Errorf("line = %q", got)
	}
}
