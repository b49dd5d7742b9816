// Package circuit tracks consecutive outbound failures per dependency.
//
// A Breaker here only reports; it never blocks a call. Callers record each
// outcome and readiness probes ask whether the dependency is currently tripped.
package circuit

import (
	"fmt"
	"sync"
)

// State represents the breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Transition reports a state change caused by the last recorded outcome.
type Transition struct {
	Opened bool
	Closed bool
}

// Changed reports whether any transition happened.
func (t Transition) Changed() bool {
	return t.Opened || t.Closed
}

// Breaker opens after FailureThreshold consecutive failures and closes again
// after SuccessThreshold consecutive successes.
type Breaker struct {
	name             string
	failureThreshold int
	successThreshold int

	mu        sync.Mutex
	state     State
	failures  int
	successes int
}

type Option func(*Breaker)

// WithFailureThreshold sets the consecutive failures that open the breaker. Default 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets the consecutive successes that close it again. Default 2.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		successThreshold: 2,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string {
	return b.name
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Record adds one outcome. A nil Breaker ignores it.
func (b *Breaker) Record(ok bool) Transition {
	if b == nil {
		return Transition{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !ok {
		b.failures++
		b.successes = 0
		if b.state == StateClosed && b.failures >= b.failureThreshold {
			b.state = StateOpen
			return Transition{Opened: true}
		}
		return Transition{}
	}

	b.failures = 0
	if b.state == StateOpen {
		b.successes++
		if b.successes >= b.successThreshold {
			b.state = StateClosed
			b.successes = 0
			return Transition{Closed: true}
		}
	}
	return Transition{}
}

// Check returns an error while the breaker is open. It fits health.CheckFunc.
func (b *Breaker) Check() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen {
		return fmt.Errorf("%s circuit open", b.name)
	}
	return nil
}

// Reset closes the breaker and clears counts.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.successes = 0
}
