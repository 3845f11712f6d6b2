package viewport

import (
	"sync"
	"time"
)

// DefaultFrame is one frame at 60Hz.
const DefaultFrame = 16 * time.Millisecond

// Coalescer runs fn at most once per frame no matter how many requests
// arrive. fn reads the latest state itself.
type Coalescer struct {
	mu      sync.Mutex
	frame   time.Duration
	fn      func()
	pending bool
	timer   *time.Timer
	stopped bool
}

// NewCoalescer creates a coalescer. frame <= 0 uses DefaultFrame.
func NewCoalescer(frame time.Duration, fn func()) *Coalescer {
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &Coalescer{frame: frame, fn: fn}
}

// Request schedules fn for the end of the current frame.
func (c *Coalescer) Request() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending || c.stopped {
		return
	}
	c.pending = true
	c.timer = time.AfterFunc(c.frame, c.fire)
}

func (c *Coalescer) fire() {
	c.mu.Lock()
	c.pending = false
	stopped := c.stopped
	c.mu.Unlock()
	if !stopped {
		c.fn()
	}
}

// Stop cancels any pending run. Later requests are ignored.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
	}
}
