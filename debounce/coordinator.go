// ABOUTME: Change-debounce coordinator: one refresh per editing pause on the focused document.
// ABOUTME: Owns a single timer field; every qualifying edit cancels and replaces it (last edit wins).

package debounce

import (
	"log"
	"sync"
	"time"

	"github.com/2389-research/glslpreview/workspace"
)

// State is the coordinator's timer state.
type State string

const (
	// Idle means no timer is pending.
	Idle State = "idle"
	// Armed means a refresh is scheduled.
	Armed State = "armed"
)

// FocusFunc reports whether uri is the focused document.
type FocusFunc func(uri string) bool

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(co *Coordinator) {
		co.clock = c
	}
}

// WithVerbose logs every armed and fired timer.
func WithVerbose(v bool) Option {
	return func(co *Coordinator) {
		co.verbose = v
	}
}

// WithStateListener calls fn whenever the state changes. fn runs outside
// the coordinator's lock.
func WithStateListener(fn func(State)) Option {
	return func(co *Coordinator) {
		co.onState = fn
	}
}

// Coordinator turns a stream of edit events into at most one notify call
// per burst. There is no max-wait cap: a document edited continuously
// never triggers a refresh.
type Coordinator struct {
	delay   time.Duration
	focus   FocusFunc
	notify  func()
	clock   Clock
	verbose bool
	onState func(State)

	mu         sync.Mutex
	timer      Timer
	generation uint64
	closed     bool
	lastFired  time.Time
	fires      int
}

// New creates an idle Coordinator. notify runs on the timer goroutine each
// time a burst settles.
func New(delay time.Duration, focus FocusFunc, notify func(), opts ...Option) *Coordinator {
	c := &Coordinator{
		delay:  delay,
		focus:  focus,
		notify: notify,
		clock:  RealClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleEdit processes one document edit. Edits to documents other than
// the focused one are ignored entirely.
func (c *Coordinator) HandleEdit(evt workspace.ChangeEvent) {
	if c.focus == nil || !c.focus(evt.URI) {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	wasArmed := c.timer != nil
	if c.timer != nil {
		c.timer.Stop()
	}
	c.generation++
	gen := c.generation
	c.timer = c.clock.AfterFunc(c.delay, func() { c.fire(gen) })
	c.mu.Unlock()

	if c.verbose {
		log.Printf("debounce armed uri=%s version=%d delay=%s rearm=%t", evt.URI, evt.Version, c.delay, wasArmed)
	}
	if !wasArmed && c.onState != nil {
		c.onState(Armed)
	}
}

// fire runs when a timer elapses. A timer superseded after it started
// running sees a stale generation and does nothing.
func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.lastFired = c.clock.Now()
	c.fires++
	c.mu.Unlock()

	if c.verbose {
		log.Printf("debounce fired generation=%d", gen)
	}
	if c.onState != nil {
		c.onState(Idle)
	}
	if c.notify != nil {
		c.notify()
	}
}

// State reports whether a timer is pending.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		return Armed
	}
	return Idle
}

// Delay returns the quiescence interval.
func (c *Coordinator) Delay() time.Duration {
	return c.delay
}

// LastFired returns when the last refresh was published, and how many
// refreshes have been published in total.
func (c *Coordinator) LastFired() (time.Time, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFired, c.fires
}

// Close cancels any pending timer and ignores all later edits.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	wasArmed := c.timer != nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	c.mu.Unlock()

	if wasArmed && c.onState != nil {
		c.onState(Idle)
	}
}
