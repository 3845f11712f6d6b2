package match

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/media"
)

// Adjacent describes the fallback bucket on one neighbouring day.
type Adjacent struct {
	DateKey string
	Count   int
}

// Diagnosis explains how a placeholder was or was not resolved.
type Diagnosis struct {
	Index       int
	Message     chat.Message
	Placeholder bool
	DateKey     string
	Kind        media.Kind
	DayCounts   map[media.Kind]int
	FirstFiles  []string
	Adjacent    []Adjacent
	Causes      []string
}

// Diagnose inspects msgs[i] against idx. It reads the index only and does not
// change any assignment.
func Diagnose(msgs []chat.Message, idx *media.Index, i int) (Diagnosis, error) {
	if i < 0 || i >= len(msgs) {
		return Diagnosis{}, fmt.Errorf("message index %d out of range [0,%d)", i, len(msgs))
	}
	msg := msgs[i]
	d := Diagnosis{
		Index:       i,
		Message:     msg,
		Placeholder: msg.MediaOmitted(),
		DateKey:     DateKey(msg.Date),
		Kind:        DetectKind(msg.Text),
		DayCounts:   make(map[media.Kind]int, len(media.Kinds)),
	}

	if d.DateKey != "" {
		for _, k := range media.Kinds {
			d.DayCounts[k] = len(idx.Bucket(d.DateKey, k))
		}
		kinds := media.Kinds
		if d.Kind != media.KindNone {
			kinds = []media.Kind{d.Kind}
		}
		for _, k := range kinds {
			for _, f := range idx.Bucket(d.DateKey, k) {
				d.FirstFiles = append(d.FirstFiles, f.Name)
			}
		}
		slices.Sort(d.FirstFiles)
		d.FirstFiles = d.FirstFiles[:min(3, len(d.FirstFiles))]
		for _, off := range adjacentDays {
			day := ShiftDate(d.DateKey, off)
			c := 0
			for _, k := range kinds {
				c += len(idx.Bucket(day, k))
			}
			if c > 0 {
				d.Adjacent = append(d.Adjacent, Adjacent{DateKey: day, Count: c})
			}
		}
	}

	switch {
	case !d.Placeholder:
		d.Causes = append(d.Causes, "message is not a media placeholder")
	case msg.Media != nil:
	default:
		if d.DateKey == "" {
			d.Causes = append(d.Causes, "date format not recognized")
		}
		if d.DateKey != "" && d.candidates() == 0 {
			d.Causes = append(d.Causes, fmt.Sprintf("no %s files found for this date", kindOr(d.Kind, "media")))
		}
		if d.DateKey != "" && d.candidates() > 0 {
			d.Causes = append(d.Causes, "every file for this date was claimed by earlier messages")
		}
	}
	return d, nil
}

// candidates counts same-day files of the detected kind, or of every kind
// when the placeholder names none.
func (d Diagnosis) candidates() int {
	if d.Kind != media.KindNone {
		return d.DayCounts[d.Kind]
	}
	n := 0
	for _, c := range d.DayCounts {
		n += c
	}
	return n
}

// String renders the diagnosis as plain text for an inspector view.
func (d Diagnosis) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Message #%d\n\n", d.Index)
	fmt.Fprintf(&b, "Date:      %s\n", d.Message.Date)
	fmt.Fprintf(&b, "Date key:  %s\n", orDefault(d.DateKey, "INVALID"))
	fmt.Fprintf(&b, "Time:      %s\n", d.Message.Time)
	fmt.Fprintf(&b, "Sender:    %s\n", d.Message.Sender)
	fmt.Fprintf(&b, "Text:      %q\n\n", d.Message.Text)
	fmt.Fprintf(&b, "Detected:  %s\n", kindOr(d.Kind, "NONE DETECTED"))
	if m := d.Message.Media; m != nil {
		state := "exact"
		if d.Message.MediaUncertain {
			state = "adjacent day"
		}
		fmt.Fprintf(&b, "Assigned:  %s (%s)\n", m.Name, state)
	}

	if d.DateKey != "" {
		fmt.Fprintf(&b, "\nIndexed for %s:\n", d.DateKey)
		for _, k := range media.Kinds {
			fmt.Fprintf(&b, "  %-8s %d\n", k, d.DayCounts[k])
		}
		if len(d.FirstFiles) > 0 {
			fmt.Fprintf(&b, "\nFirst %s files:\n", kindOr(d.Kind, "media"))
			for n, name := range d.FirstFiles {
				fmt.Fprintf(&b, "  %d. %s\n", n+1, name)
			}
		}
		if len(d.Adjacent) > 0 {
			b.WriteString("\nAdjacent dates:\n")
			for _, a := range d.Adjacent {
				fmt.Fprintf(&b, "  %s: %d %s\n", a.DateKey, a.Count, kindOr(d.Kind, "media"))
			}
		}
	}

	if len(d.Causes) > 0 {
		b.WriteString("\nPossible issues:\n")
		for _, c := range d.Causes {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}
	return b.String()
}

func kindOr(k media.Kind, def string) string {
	if k == media.KindNone {
		return def
	}
	return string(k)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
