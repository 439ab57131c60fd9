package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/memocache/memo"
)

// State is the circuit breaker state.
type State int

const (
	// StateClosed means invocations flow normally.
	StateClosed State = iota
	// StateOpen means invocations fail fast with ErrCircuitOpen.
	StateOpen
	// StateHalfOpen means a limited number of probe invocations may pass.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// MaxFailures is the consecutive-failure count that opens the circuit.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long the circuit stays open before probing.
	// Default: 30s
	ResetTimeout time.Duration

	// HalfOpenMaxProbes is the number of invocations allowed through while
	// half-open.
	// Default: 1
	HalfOpenMaxProbes int

	// OnStateChange is called on every state transition.
	OnStateChange func(from, to State)

	// IsFailure decides whether an error counts against the circuit.
	// Default: every non-nil error.
	IsFailure func(err error) bool
}

// Breaker is a circuit breaker shared by the producers it wraps. Wrapping
// several producers with one Breaker pools their failure budget, which fits
// definitions backed by the same origin.
type Breaker struct {
	config BreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probes      int
}

// NewBreaker creates a circuit breaker.
func NewBreaker(config BreakerConfig) *Breaker {
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxProbes <= 0 {
		config.HalfOpenMaxProbes = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}
	return &Breaker{config: config, state: StateClosed}
}

// Wrap decorates a producer with the breaker. While the circuit is open the
// producer is not invoked and callers get ErrCircuitOpen.
func (b *Breaker) Wrap(producer memo.Producer) memo.Producer {
	return func(ctx context.Context, args ...any) (any, error) {
		if err := b.before(); err != nil {
			return nil, err
		}
		value, err := producer(ctx, args...)
		b.after(err)
		return value, err
	}
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Reset forces the circuit closed and clears the failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed)
	b.failures = 0
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.stateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.probes >= b.config.HalfOpenMaxProbes {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *Breaker) after(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := b.config.IsFailure(err)

	switch b.state {
	case StateClosed:
		if failed {
			b.failures++
			b.lastFailure = time.Now()
			if b.failures >= b.config.MaxFailures {
				b.transition(StateOpen)
			}
		} else {
			b.failures = 0
		}

	case StateHalfOpen:
		if failed {
			// Probe failed; restart the open window.
			b.lastFailure = time.Now()
			b.transition(StateOpen)
		} else {
			b.transition(StateClosed)
			b.failures = 0
		}
	}
}

// stateLocked applies the open -> half-open timeout transition lazily.
func (b *Breaker) stateLocked() State {
	if b.state == StateOpen && time.Since(b.lastFailure) >= b.config.ResetTimeout {
		b.transition(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if to == StateHalfOpen {
		b.probes = 0
	}
	if b.config.OnStateChange != nil {
		b.config.OnStateChange(from, to)
	}
}
