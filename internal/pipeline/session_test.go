package pipeline

import (
	"errors"
	"testing"

	"github.com/matheus3301/wppview/internal/match"
	"github.com/matheus3301/wppview/internal/media"
)

const sample = "[01/02/23, 09:00:00] Alice: image omitted\n" +
	"[01/02/23, 09:01:00] Bob: nice\n" +
	"[02/02/23, 10:00:00] Alice: image omitted\n"

func photos(names ...string) []media.Source {
	out := make([]media.Source, 0, len(names))
	for _, n := range names {
		out = append(out, &media.Bytes{FileName: n, Data: []byte(n)})
	}
	return out
}

func TestLoad(t *testing.T) {
	s, err := Load(Input{
		Name:    "chat.txt",
		Raw:     sample,
		Sources: photos("0001-PHOTO-2023-02-01-08-59-00.jpg", "notes.pdf"),
		Origin:  OriginLocal,
	}, Options{Policy: match.Nearest})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(s.Messages))
	}
	if got := s.Participants; len(got) != 2 || got[0] != "Alice" || got[1] != "Bob" {
		t.Errorf("participants = %v", got)
	}
	if s.Index.Provided() != 2 || s.Index.Indexed() != 1 {
		t.Errorf("provided/indexed = %d/%d, want 2/1", s.Index.Provided(), s.Index.Indexed())
	}
	if s.Report.Placeholders != 2 || s.Report.Exact != 1 {
		t.Errorf("report = %+v", s.Report)
	}
	m := s.Messages[0]
	if m.Media == nil || m.MediaUncertain {
		t.Errorf("first message media = %v uncertain=%v", m.Media, m.MediaUncertain)
	}
	if s.Stats.Total != 3 || s.Stats.Media != 2 {
		t.Errorf("stats = %+v", s.Stats)
	}
	if s.ChatID == "" || s.ID.String() == "" {
		t.Error("session ids not set")
	}
}

func TestLoadNoMessages(t *testing.T) {
	for _, raw := range []string{"", "just some text\nwithout headers"} {
		_, err := Load(Input{Raw: raw}, Options{})
		if !errors.Is(err, ErrNoMessages) {
			t.Errorf("Load(%q) err = %v, want ErrNoMessages", raw, err)
		}
	}
}

func TestLoadFreshIDs(t *testing.T) {
	a, err := Load(Input{Raw: sample}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(Input{Raw: sample}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Error("two loads share a session id")
	}
	if a.ChatID != b.ChatID {
		t.Error("same text gave different chat ids")
	}
}

func TestReassignIdempotent(t *testing.T) {
	s, err := Load(Input{Raw: sample, Sources: photos("0001-PHOTO-2023-02-01-22-00-00.jpg")}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	first := s.Report
	s.Reassign(match.Nearest)
	if s.Report != first {
		t.Errorf("report changed on reassign: %+v vs %+v", s.Report, first)
	}
}
