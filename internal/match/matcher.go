package match

import (
	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/media"
)

// Policy selects how a placeholder is resolved once its own day is exhausted.
type Policy string

const (
	// Nearest picks the closest time of day across both adjacent days.
	// The previous day wins ties.
	Nearest Policy = "nearest"
	// FirstDay takes the previous day if it has any file left, otherwise the
	// next day, then the closest time within that day.
	FirstDay Policy = "first-day"
)

// ParsePolicy maps a config value to a Policy, defaulting to Nearest.
func ParsePolicy(s string) Policy {
	if Policy(s) == FirstDay {
		return FirstDay
	}
	return Nearest
}

// adjacentDays are the fallback offsets in check order.
var adjacentDays = []int{-1, 1}

// Report counts assignment outcomes.
type Report struct {
	Placeholders int
	Exact        int
	Uncertain    int
	Unmatched    int
	// Undetermined placeholders had no usable date.
	Undetermined int
}

// Matched is the number of placeholders that received a file.
func (r Report) Matched() int { return r.Exact + r.Uncertain }

type bucketKey struct {
	date string
	kind media.Kind
}

// Matcher assigns indexed media files to placeholder messages.
type Matcher struct {
	Policy Policy
}

// New returns a matcher using policy.
func New(policy Policy) *Matcher {
	return &Matcher{Policy: policy}
}

// Assign resolves every placeholder in msgs. Prior assignments are cleared
// first, so calling Assign again on the same input gives the same result.
// Each file is given to at most one message.
func (m *Matcher) Assign(msgs []chat.Message, idx *media.Index) Report {
	var (
		report    Report
		remaining = make(map[bucketKey][]*media.File)
	)

	bucket := func(k bucketKey) []*media.File {
		files, ok := remaining[k]
		if !ok {
			src := idx.Bucket(k.date, k.kind)
			files = make([]*media.File, len(src))
			copy(files, src)
			remaining[k] = files
		}
		return files
	}

	for i := range msgs {
		msg := &msgs[i]
		msg.Media = nil
		msg.MediaUncertain = false

		if !msg.MediaOmitted() {
			continue
		}
		report.Placeholders++

		dateKey := DateKey(msg.Date)
		if dateKey == "" {
			report.Undetermined++
			report.Unmatched++
			continue
		}
		// A generic placeholder names no kind; it takes from every kind.
		kinds := media.Kinds
		if kind := DetectKind(msg.Text); kind != media.KindNone {
			kinds = []media.Kind{kind}
		}

		if own, ok := first(bucket, dateKey, kinds); ok {
			files := remaining[own]
			msg.Media = files[0]
			remaining[own] = files[1:]
			report.Exact++
			continue
		}

		key, pos, ok := m.fallback(bucket, dateKey, kinds, TimeOfDay(msg.Time))
		if !ok {
			report.Unmatched++
			continue
		}
		files := remaining[key]
		msg.Media = files[pos]
		msg.MediaUncertain = true
		remaining[key] = append(files[:pos:pos], files[pos+1:]...)
		report.Uncertain++
	}
	return report
}

// first finds the bucket of dateKey among kinds whose next file has the
// lowest export sequence number.
func first(bucket func(bucketKey) []*media.File, dateKey string, kinds []media.Kind) (bucketKey, bool) {
	var (
		best  bucketKey
		found bool
	)
	for _, k := range kinds {
		key := bucketKey{dateKey, k}
		files := bucket(key)
		if len(files) == 0 {
			continue
		}
		if !found || earlier(files[0], bucket(best)[0]) {
			best, found = key, true
		}
	}
	return best, found
}

func earlier(a, b *media.File) bool {
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	return a.Name < b.Name
}

func (m *Matcher) fallback(bucket func(bucketKey) []*media.File, dateKey string, kinds []media.Kind, tod int) (bucketKey, int, bool) {
	var (
		bestKey  bucketKey
		bestPos  = -1
		bestDist int
	)
	for _, offset := range adjacentDays {
		day := ShiftDate(dateKey, offset)
		if day == "" {
			continue
		}
		for _, kind := range kinds {
			k := bucketKey{day, kind}
			for pos, f := range bucket(k) {
				d := abs(f.TimeOfDay - tod)
				if bestPos < 0 || d < bestDist {
					bestKey, bestPos, bestDist = k, pos, d
				}
			}
		}
		if m.Policy == FirstDay && bestPos >= 0 {
			break
		}
	}
	return bestKey, bestPos, bestPos >= 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
