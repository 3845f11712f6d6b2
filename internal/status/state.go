package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/wppview/internal/bus"
)

// State is the loader state shown in the status bar.
type State string

const (
	Idle    State = "IDLE"
	Loading State = "LOADING"
	Ready   State = "READY"
	// Empty means the input parsed to zero messages.
	Empty  State = "EMPTY"
	Failed State = "FAILED"
)

var validTransitions = map[State][]State{
	Idle:    {Loading},
	Loading: {Ready, Empty, Failed},
	Ready:   {Loading, Idle},
	Empty:   {Loading, Idle},
	Failed:  {Loading, Idle},
}

// Machine tracks and enforces loader state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	reason  string
	bus     *bus.Bus
}

// NewMachine creates a machine in the Idle state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Idle,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Reason returns the text attached to the last transition.
func (m *Machine) Reason() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reason
}

// Transition moves to a new state with an optional human readable reason.
func (m *Machine) Transition(to State, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.reason = reason
	m.bus.Emit(bus.LoaderStatusChanged, StatusChange{
		From:   from,
		To:     to,
		Reason: reason,
	})
	return nil
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From   State
	To     State
	Reason string
}
