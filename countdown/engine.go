package countdown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Interval is the refresh cadence of an Engine.
const Interval = time.Second

// Engine recomputes a countdown once per second for a single consumer.
// Each Engine owns at most one ticker; it is acquired by SetTarget and
// released by the next SetTarget with a different target, or by Stop.
type Engine struct {
	clock  clockwork.Clock
	onTick func(Remaining)

	// ctl serialises SetTarget and Stop so a replaced ticker is fully
	// released before its successor is created.
	ctl sync.Mutex

	mu      sync.Mutex
	target  string
	current Remaining
	run     *run
}

type run struct {
	target string
	ticker clockwork.Ticker
	stop   chan struct{}
	done   chan struct{}
}

// NewEngine creates an idle Engine. onTick, if set, receives every recomputed
// value; it runs on the engine's goroutine and must not call SetTarget or Stop.
func NewEngine(clock clockwork.Clock, onTick func(Remaining)) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{
		clock:   clock,
		onTick:  onTick,
		current: Zero,
	}
}

// SetTarget points the engine at a new target and recomputes immediately.
// The next tick is scheduled one Interval from now regardless of the
// previous schedule. Setting the current target again is a no-op.
func (e *Engine) SetTarget(target string) {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	e.mu.Lock()
	if e.run != nil && e.target == target {
		e.mu.Unlock()
		return
	}
	old := e.run
	e.run = nil
	e.mu.Unlock()

	old.halt()

	r := &run{
		target: target,
		ticker: e.clock.NewTicker(Interval),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	rem := Compute(target, e.clock.Now())

	e.mu.Lock()
	e.target = target
	e.current = rem
	e.run = r
	e.mu.Unlock()

	go e.loop(r)

	if e.onTick != nil {
		e.onTick(rem)
	}
}

// Stop releases the ticker. It is safe to call more than once.
func (e *Engine) Stop() {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	e.mu.Lock()
	old := e.run
	e.run = nil
	e.mu.Unlock()

	old.halt()
}

// Current returns the most recently computed value.
func (e *Engine) Current() Remaining {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Target returns the target the engine is counting down to.
func (e *Engine) Target() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}

// Running reports whether a ticker is currently held.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run != nil
}

func (e *Engine) loop(r *run) {
	defer close(r.done)
	for {
		select {
		case <-r.stop:
			return
		case <-r.ticker.Chan():
			select {
			case <-r.stop:
				return
			default:
			}

			rem := Compute(r.target, e.clock.Now())
			e.mu.Lock()
			e.current = rem
			e.mu.Unlock()

			if e.onTick != nil {
				e.onTick(rem)
			}
		}
	}
}

// halt stops the ticker and waits for the loop to exit. Nil runs are ignored.
func (r *run) halt() {
	if r == nil {
		return
	}
	r.ticker.Stop()
	close(r.stop)
	<-r.done
}
