package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Well-known lock names inside a profile directory.
const (
	Proxy   = "proxy.lock"
	Install = "install.lock"
)

// LockHeldError is returned when another process holds the lock.
type LockHeldError struct {
	PID  int
	Role string
	Path string
}

func (e *LockHeldError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s lock held by PID %d (%s)", e.Role, e.PID, e.Path)
	}
	return fmt.Sprintf("lock held by PID %d (%s)", e.PID, e.Path)
}

// Lock is an acquired advisory lock file.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes an exclusive lock on dir/name for role. It fails fast with
// LockHeldError if another process holds it.
func Acquire(dir, name, role string) (*Lock, error) {
	lockPath := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		data, _ := os.ReadFile(lockPath)
		pid, held := parseHolder(string(data))
		_ = f.Close()
		return nil, &LockHeldError{PID: pid, Role: held, Path: lockPath}
	}

	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	content := fmt.Sprintf("pid=%d\nrole=%s\ntime=%s\n", os.Getpid(), role, time.Now().UTC().Format(time.RFC3339))
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Lock{file: f, path: lockPath}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release releases the lock. Safe to call on nil receiver and more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

func parseHolder(content string) (pid int, role string) {
	for _, line := range strings.Split(content, "\n") {
		if after, ok := strings.CutPrefix(line, "pid="); ok {
			pid, _ = strconv.Atoi(after)
		}
		if after, ok := strings.CutPrefix(line, "role="); ok {
			role = after
		}
	}
	return pid, role
}
