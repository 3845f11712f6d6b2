// Package love is a small rule engine behind the viewer's popups and easter
// eggs. Rules are predicates over Facts paired with an Effect; the engine
// evaluates them when the viewer reports an event and publishes the first
// effect that applies.
package love

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/bus"
	"github.com/matheus3301/wppview/internal/chat"
	"github.com/matheus3301/wppview/internal/logging"
)

// Trigger is the viewer event a rule reacts to.
type Trigger string

const (
	Loaded Trigger = "loaded"
	Search Trigger = "search"
	Scroll Trigger = "scroll"
	Tick   Trigger = "tick"
	Clock  Trigger = "clock"
)

// Facts is the state a rule may inspect.
type Facts struct {
	Stats chat.Stats
	Now   time.Time
	// ScrollSpeed is in list rows per millisecond.
	ScrollSpeed float64
	Query       string
	TopIndex    int
	Messages    int
	// Pick returns a random int in [0, n). The engine fills it in.
	Pick func(n int) int
}

// Rule pairs a predicate with an effect.
type Rule struct {
	Name    string
	Trigger Trigger
	When    func(Facts) bool
	Effect  func(Facts) Effect
	// Once rules fire at most once per engine.
	Once bool
	// Cooldown is the minimum time between two firings.
	Cooldown time.Duration
}

type ruleState struct {
	fired bool
	last  time.Time
}

// Engine evaluates rules and publishes bus.LoveEffect events.
type Engine struct {
	mu      sync.Mutex
	rules   []Rule
	state   map[string]*ruleState
	bus     *bus.Bus
	log     *zap.Logger
	rng     *rand.Rand
	enabled bool
}

// NewEngine creates a disabled engine; call SetEnabled once the chat is known
// to be one the popups are meant for.
func NewEngine(rules []Rule, b *bus.Bus, log *zap.Logger) *Engine {
	return &Engine{
		rules: rules,
		state: make(map[string]*ruleState),
		bus:   b,
		log:   logging.OrNop(log),
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6c6f7665)),
	}
}

// Seed makes random choices reproducible.
func (e *Engine) Seed(seed uint64) {
	e.mu.Lock()
	e.rng = rand.New(rand.NewPCG(seed, seed))
	e.mu.Unlock()
}

// SetEnabled turns the engine on or off and forgets which rules fired.
func (e *Engine) SetEnabled(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = on
	e.state = make(map[string]*ruleState)
}

// Enabled reports whether the engine fires rules.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// Fire evaluates the rules of trigger in order and publishes the first
// effect whose rule applies. It reports that effect, if any.
func (e *Engine) Fire(trigger Trigger, f Facts) (Effect, bool) {
	e.mu.Lock()
	if !e.enabled {
		e.mu.Unlock()
		return Effect{}, false
	}
	if f.Now.IsZero() {
		f.Now = time.Now()
	}
	rng := e.rng
	f.Pick = func(n int) int {
		if n <= 0 {
			return 0
		}
		return rng.IntN(n)
	}

	var (
		eff   Effect
		fired bool
	)
	for _, r := range e.rules {
		if r.Trigger != trigger {
			continue
		}
		st := e.state[r.Name]
		if st == nil {
			st = &ruleState{}
			e.state[r.Name] = st
		}
		if r.Once && st.fired {
			continue
		}
		if r.Cooldown > 0 && !st.last.IsZero() && f.Now.Sub(st.last) < r.Cooldown {
			continue
		}
		if r.When != nil && !r.When(f) {
			continue
		}
		st.fired, st.last = true, f.Now
		eff = r.Effect(f)
		eff.Rule = r.Name
		fired = true
		break
	}
	e.mu.Unlock()

	if fired {
		e.log.Debug("love rule fired", zap.String("rule", eff.Rule), zap.String("trigger", string(trigger)))
		e.bus.Emit(bus.LoveEffect, eff)
	}
	return eff, fired
}

// NextDelay returns the wait before the next random popup, a whole number
// of minutes between 5 and 15.
func (e *Engine) NextDelay() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return time.Duration(5+e.rng.IntN(11)) * time.Minute
}

// Run fires Tick at random intervals until ctx is done. facts is called at
// each tick for the current state.
func (e *Engine) Run(ctx context.Context, facts func() Facts) {
	for {
		t := time.NewTimer(e.NextDelay())
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
			e.Fire(Tick, facts())
		}
	}
}
