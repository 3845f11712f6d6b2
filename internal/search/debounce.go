package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay between the last keystroke and the scan.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays fn until input has been quiet for the configured delay.
// Only the latest value is delivered.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func(string)
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer. delay <= 0 uses DefaultDebounce.
func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger restarts the delay with value.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := gen == d.gen
		d.mu.Unlock()
		if current {
			d.fn(value)
		}
	})
}

// Flush cancels the pending delay and runs fn now with value.
func (d *Debouncer) Flush(value string) {
	d.Stop()
	d.fn(value)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
