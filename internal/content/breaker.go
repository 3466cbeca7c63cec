package content

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the current state of the circuit breaker.
type BreakerState int

const (
	// BreakerClosed allows all requests through.
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects all requests until the timeout elapses.
	BreakerOpen
	// BreakerHalfOpen allows probe requests to test recovery.
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned by Allow when the circuit is open.
var ErrBreakerOpen = errors.New("circuit breaker open")

// Breaker is a three-state circuit breaker guarding the content API.
// Consecutive failures trip it open; after the timeout it transitions to
// half-open and lets probes through until the success threshold closes it
// again. Any failure while half-open reopens it immediately.
type Breaker struct {
	mu sync.Mutex

	failureThreshold int
	successThreshold int
	timeout          time.Duration

	state        BreakerState
	failures     int
	successes    int
	openedAt     time.Time
	stateChanged func(from, to BreakerState)
}

// NewBreaker creates a closed breaker. Zero or negative thresholds get
// safe defaults.
func NewBreaker(failureThreshold, successThreshold int, timeout time.Duration) *Breaker {
	if failureThreshold < 1 {
		failureThreshold = 5
	}
	if successThreshold < 1 {
		successThreshold = 2
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Breaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		state:            BreakerClosed,
	}
}

// OnStateChange registers a callback fired on every transition, used to
// keep the breaker state gauge current.
func (b *Breaker) OnStateChange(fn func(from, to BreakerState)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stateChanged = fn
}

// Allow reports whether a request may proceed.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen {
		if time.Since(b.openedAt) < b.timeout {
			return ErrBreakerOpen
		}
		b.transition(BreakerHalfOpen)
	}
	return nil
}

// RecordSuccess registers a successful request.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failures = 0
	case BreakerHalfOpen:
		b.successes++
		if b.successes >= b.successThreshold {
			b.transition(BreakerClosed)
		}
	}
}

// RecordFailure registers a failed request.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.transition(BreakerOpen)
		}
	case BreakerHalfOpen:
		b.transition(BreakerOpen)
	}
}

// State returns the current state, promoting open to half-open when the
// timeout has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && time.Since(b.openedAt) >= b.timeout {
		b.transition(BreakerHalfOpen)
	}
	return b.state
}

// transition moves to a new state. Caller must hold the lock.
func (b *Breaker) transition(to BreakerState) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.failures = 0
	b.successes = 0
	if to == BreakerOpen {
		b.openedAt = time.Now()
	}
	if b.stateChanged != nil {
		b.stateChanged(from, to)
	}
}
