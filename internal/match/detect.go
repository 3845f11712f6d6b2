package match

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/matheus3301/wppview/internal/media"
)

// Keyword families checked in order. The first family with a hit decides.
var kindKeywords = []struct {
	kind  media.Kind
	words []string
}{
	{media.KindPhoto, []string{"image", "photo"}},
	{media.KindVideo, []string{"vidéo", "video"}},
	{media.KindAudio, []string{"audio", "vocal", "ptt", "message vocal", "voice message", ".opus"}},
	{media.KindSticker, []string{"sticker", "gif animé", "animated gif", "gif"}},
}

// DetectKind guesses the media kind a placeholder refers to.
func DetectKind(text string) media.Kind {
	folder := cases.Fold()
	folded := folder.String(text)
	for _, fam := range kindKeywords {
		for _, w := range fam.words {
			if strings.Contains(folded, folder.String(w)) {
				return fam.kind
			}
		}
	}
	return media.KindNone
}

// DateKey converts a D/M/YY[YY] display date into YYYY-MM-DD.
// It returns "" for anything else.
func DateKey(date string) string {
	parts := strings.Split(strings.TrimSpace(date), "/")
	if len(parts) != 3 {
		return ""
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return ""
	}
	switch len(parts[2]) {
	case 2:
		year += 2000
	case 4:
	default:
		return ""
	}
	if month < 1 || month > 12 {
		return ""
	}
	// time.Date normalizes 31/02 into March; a round trip rejects it.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return ""
	}
	return t.Format(time.DateOnly)
}

// ShiftDate moves a YYYY-MM-DD key by days, crossing month and year edges.
func ShiftDate(dateKey string, days int) string {
	t, err := time.Parse(time.DateOnly, dateKey)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(time.DateOnly)
}

// Noon is the time of day used when a message time cannot be parsed.
const Noon = 12 * 3600

var timeRe = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})(?::(\d{2}))?(?:[\s\x{202f}]*(AM|PM))?`)

// TimeOfDay parses H:MM, H:MM:SS and an optional AM/PM suffix into seconds
// since midnight. Unparseable input yields Noon.
func TimeOfDay(s string) int {
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return Noon
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	sec := 0
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	switch strings.ToUpper(m[4]) {
	case "PM":
		if h != 12 {
			h += 12
		}
	case "AM":
		if h == 12 {
			h = 0
		}
	}
	if h > 23 || mi > 59 || sec > 59 {
		return Noon
	}
	return h*3600 + mi*60 + sec
}
