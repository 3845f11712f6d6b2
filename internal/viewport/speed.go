package viewport

import "time"

// Speedometer measures scroll speed in offset units per millisecond.
type Speedometer struct {
	lastOffset int
	lastTime   time.Time
}

// Observe records a new offset and returns the speed since the previous
// observation. The first observation returns 0.
func (s *Speedometer) Observe(offset int, now time.Time) float64 {
	var speed float64
	if !s.lastTime.IsZero() {
		if ms := now.Sub(s.lastTime).Milliseconds(); ms > 0 {
			d := offset - s.lastOffset
			if d < 0 {
				d = -d
			}
			speed = float64(d) / float64(ms)
		}
	}
	s.lastOffset, s.lastTime = offset, now
	return speed
}
