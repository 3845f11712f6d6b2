package chat

import (
	"regexp"
	"strings"
)

const (
	datePat = `(\d{1,2}/\d{1,2}/\d{2,4})`
	timePat = `(\d{1,2}:\d{2}(?::\d{2})?(?:[\s\x{202f}]*[AaPp][Mm])?)`
)

// Line formats in priority order. The first match wins.
var linePatterns = []*regexp.Regexp{
	// [01/02/23, 14:05:00] Alice: Hello
	regexp.MustCompile(`^\[` + datePat + `,\s*` + timePat + `\]\s*([^:]+):\s*(.*)$`),
	// 01/02/23, 14:05 - Alice: Hello
	regexp.MustCompile(`^` + datePat + `,?\s*` + timePat + `\s*-\s*([^:]+):\s*(.*)$`),
	// Stray marks, optional brackets, en or em dash.
	regexp.MustCompile(`^[\x{200e}\x{200f}]*\[?` + datePat + `,?\s*` + timePat + `\]?\s*[-\x{2013}\x{2014}]?\s*([^:]+):\s*(.*)$`),
}

var bidiRe = regexp.MustCompile(`[\x{200e}\x{200f}\x{202a}-\x{202e}\x{2066}-\x{2069}]`)

// Edited markers by export locale.
var editedMarkers = []string{
	"<Ce message a été modifié>",
	"<This message was edited>",
}

// Result is the output of Parse.
type Result struct {
	Messages []Message
	// Participants lists distinct senders in order of first appearance.
	Participants []string
}

// Parse turns an exported chat log into messages. It never fails: lines
// before the first recognised header are dropped and every other
// unrecognised line continues the previous message.
func Parse(raw string) Result {
	var (
		res     Result
		current *Message
		seen    = make(map[string]struct{})
	)

	flush := func() {
		if current == nil {
			return
		}
		res.Messages = append(res.Messages, *current)
		if _, ok := seen[current.Sender]; !ok {
			seen[current.Sender] = struct{}{}
			res.Participants = append(res.Participants, current.Sender)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = CleanLine(line)
		if line == "" {
			continue
		}

		if m := matchHeader(line); m != nil {
			flush()
			current = &Message{
				Date:   m[1],
				Time:   strings.TrimSpace(m[2]),
				Sender: strings.TrimSpace(m[3]),
				Text:   StripEdited(m[4]),
			}
			continue
		}

		if current == nil {
			continue
		}
		if cont := StripEdited(line); cont != "" {
			current.Text += "\n" + cont
		}
	}
	flush()
	return res
}

func matchHeader(line string) []string {
	for _, re := range linePatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return m
		}
	}
	return nil
}

// CleanLine removes bidi control marks and surrounding whitespace.
func CleanLine(line string) string {
	return strings.TrimSpace(bidiRe.ReplaceAllString(line, ""))
}

// StripEdited removes every edited marker from s.
func StripEdited(s string) string {
	for _, marker := range editedMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	return strings.TrimSpace(s)
}
