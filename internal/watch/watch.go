// Package watch reports changes to an export file or folder.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/bus"
	"github.com/matheus3301/wppview/internal/logging"
)

// DefaultSettle is how long the watcher waits after the last event before
// reporting a change.
const DefaultSettle = 300 * time.Millisecond

// Change is the payload of bus.WatchChanged.
type Change struct {
	Paths []string
}

// Watcher groups bursts of file events into single changes.
type Watcher struct {
	fs     *fsnotify.Watcher
	settle time.Duration
	bus    *bus.Bus
	log    *zap.Logger

	// targets maps watched directories to the file inside them that matters,
	// or "" when every file counts.
	targets map[string]string

	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	onChange func(Change)
}

// New watches paths. A file path watches its parent directory and reports
// only that file; a directory path reports any file inside it.
func New(paths []string, settle time.Duration, b *bus.Bus, log *zap.Logger) (*Watcher, error) {
	if settle <= 0 {
		settle = DefaultSettle
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:      fw,
		settle:  settle,
		bus:     b,
		log:     logging.OrNop(log),
		targets: make(map[string]string),
		pending: make(map[string]struct{}),
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		dir, file := abs, ""
		if !info.IsDir() {
			dir, file = filepath.Dir(abs), filepath.Base(abs)
		}
		if prev, ok := w.targets[dir]; ok && prev != file {
			file = ""
		}
		w.targets[dir] = file
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// OnChange registers a callback run for every settled change, in addition to
// the bus event.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.fs.Close() }()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(evt.Name) {
				continue
			}
			w.queue(evt.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(name string) bool {
	file, ok := w.targets[filepath.Dir(name)]
	return ok && (file == "" || file == filepath.Base(name))
}

func (w *Watcher) queue(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[name] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	c := Change{Paths: make([]string, 0, len(w.pending))}
	for p := range w.pending {
		c.Paths = append(c.Paths, p)
	}
	w.pending = make(map[string]struct{})
	fn := w.onChange
	w.mu.Unlock()

	w.log.Debug("export changed", zap.Strings("paths", c.Paths))
	w.bus.Emit(bus.WatchChanged, c)
	if fn != nil {
		fn(c)
	}
}
