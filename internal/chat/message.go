package chat

import (
	"regexp"

	"github.com/matheus3301/wppview/internal/media"
)

// Message is one parsed chat entry. Date and Time keep the export's original
// formatting and are used as display and grouping keys only.
type Message struct {
	Date   string
	Time   string
	Sender string
	Text   string

	// Media is set by the matcher for placeholders it could resolve.
	Media *media.File
	// MediaUncertain is true when Media came from an adjacent day.
	MediaUncertain bool
}

var omittedRe = regexp.MustCompile(`(?i)omis|omitted|absente?|<media|<média`)

// MediaOmitted reports whether the body is a stripped-attachment placeholder.
func (m *Message) MediaOmitted() bool {
	return omittedRe.MatchString(m.Text)
}

// HasMedia reports whether a media file was assigned.
func (m *Message) HasMedia() bool {
	return m.Media != nil
}
