package chat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var (
	amourRe    = regexp.MustCompile(`(?i)amour`)
	laughRe    = regexp.MustCompile(`(?i)mdr|lol|haha|😂|🤣`)
	iLoveYouRe = regexp.MustCompile(`(?i)je t'?aime|jtm|i love you`)
)

// Stats summarises a parsed chat.
type Stats struct {
	Total     int
	Media     int
	Amour     int
	Laughs    int
	ILoveYou  int
	PerSender map[string]int
}

// ComputeStats counts messages and a few keyword families.
func ComputeStats(msgs []Message) Stats {
	s := Stats{
		Total:     len(msgs),
		PerSender: make(map[string]int),
	}
	for i := range msgs {
		m := &msgs[i]
		s.PerSender[m.Sender]++
		if m.MediaOmitted() {
			s.Media++
		}
		text := strings.ToLower(m.Text)
		s.Amour += len(amourRe.FindAllStringIndex(text, -1))
		s.Laughs += len(laughRe.FindAllStringIndex(text, -1))
		s.ILoveYou += len(iLoveYouRe.FindAllStringIndex(text, -1))
	}
	return s
}

// Fingerprint identifies an export by content. Stars and renames are keyed by
// it so they survive reloading the same file.
func Fingerprint(raw string) string {
	return strconv.FormatUint(xxhash.Sum64String(raw), 16)
}
