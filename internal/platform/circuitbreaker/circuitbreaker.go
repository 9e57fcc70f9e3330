// Package circuitbreaker stops calling a failing upstream for a cool-down
// period after repeated failures.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without calling the wrapped function while the breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

// State is the breaker state.
type State int

const (
	StateClosed   State = iota // requests flow normally
	StateOpen                  // requests are rejected
	StateHalfOpen              // a limited number of probe requests are allowed
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Config holds the breaker thresholds.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold int
	// SuccessThreshold is the number of half-open successes that close it again.
	SuccessThreshold int
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// HalfOpenMaxRequests bounds concurrent probes.
	HalfOpenMaxRequests int
}

// DefaultConfig returns thresholds suited to the generative AI upstream.
func DefaultConfig() Config {
	return Config{
		FailureThreshold:    5,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 3,
	}
}

// Breaker is safe for concurrent use.
type Breaker struct {
	config Config
	now    func() time.Time

	mu            sync.Mutex
	state         State
	failureCount  int
	successCount  int
	halfOpenCount int
	openedAt      time.Time
}

// New creates a closed breaker.
func New(config Config) *Breaker {
	return &Breaker{config: config, now: time.Now, state: StateClosed}
}

// Execute runs fn unless the breaker is open. Errors for which countable
// returns false are returned as-is and count as a healthy upstream reply; a
// nil countable counts every error.
func (b *Breaker) Execute(fn func() error, countable func(error) bool) error {
	if err := b.before(); err != nil {
		return err
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen && b.halfOpenCount > 0 {
		b.halfOpenCount--
	}
	if err != nil && (countable == nil || countable(err)) {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	return err
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition()
	return b.state
}

// Reset closes the breaker and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
	b.halfOpenCount = 0
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.transition()
	switch b.state {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if b.halfOpenCount >= b.config.HalfOpenMaxRequests {
			return ErrOpen
		}
		b.halfOpenCount++
	}
	return nil
}

// transition moves an expired open breaker to half-open. Callers hold mu.
func (b *Breaker) transition() {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.config.Timeout {
		b.state = StateHalfOpen
		b.halfOpenCount = 0
		b.successCount = 0
	}
}

func (b *Breaker) onFailure() {
	b.failureCount++
	switch b.state {
	case StateHalfOpen:
		b.open()
	case StateClosed:
		if b.failureCount >= b.config.FailureThreshold {
			b.open()
		}
	}
}

func (b *Breaker) onSuccess() {
	b.failureCount = 0
	if b.state == StateHalfOpen {
		b.successCount++
		if b.successCount >= b.config.SuccessThreshold {
			b.state = StateClosed
			b.successCount = 0
		}
	}
}

func (b *Breaker) open() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.halfOpenCount = 0
	b.successCount = 0
}
