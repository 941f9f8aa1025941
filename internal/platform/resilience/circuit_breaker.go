package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState is the externally visible breaker state.
type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type breakerPhase int

const (
	phaseClosed breakerPhase = iota
	phaseOpen
	phaseProbing
)

// CircuitBreaker guards a flaky dependency. Consecutive failures trip it
// open, calls then fail fast until a cooldown passes, and a bounded set of
// probe requests decides between closing again and re-opening.
type CircuitBreaker struct {
	failureThreshold int
	openTimeout      time.Duration
	halfOpenMaxReq   int

	mu       sync.Mutex
	phase    breakerPhase
	failures int
	retryAt  time.Time
	inFlight int
	wins     int
	now      func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = defaultOpenTimeout
	}
	if halfOpenMaxReq < 1 {
		halfOpenMaxReq = 1
	}

	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		openTimeout:      openTimeout,
		halfOpenMaxReq:   halfOpenMaxReq,
		now:              time.Now,
	}
}

// Allow reports whether a request may proceed. An open breaker whose
// cooldown has elapsed flips to probing and admits up to halfOpenMaxReq
// concurrent probes.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == phaseOpen {
		if b.now().Before(b.retryAt) {
			return ErrCircuitOpen
		}
		b.phase = phaseProbing
		b.inFlight = 0
		b.wins = 0
	}

	if b.phase == phaseProbing {
		if b.inFlight >= b.halfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.inFlight++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.phase {
	case phaseClosed:
		b.failures = 0
	case phaseProbing:
		if b.inFlight > 0 {
			b.inFlight--
		}
		b.wins++
		if b.wins >= b.halfOpenMaxReq && b.inFlight == 0 {
			b.reset()
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.phase {
	case phaseClosed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.trip()
		}
	case phaseProbing:
		if b.inFlight > 0 {
			b.inFlight--
		}
		b.trip()
	case phaseOpen:
		// Failures reported after tripping push the cooldown out.
		b.retryAt = b.now().Add(b.openTimeout)
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.phase {
	case phaseOpen:
		if !b.now().Before(b.retryAt) {
			return CircuitStateHalfOpen
		}
		return CircuitStateOpen
	case phaseProbing:
		return CircuitStateHalfOpen
	default:
		return CircuitStateClosed
	}
}

func (b *CircuitBreaker) trip() {
	b.phase = phaseOpen
	b.retryAt = b.now().Add(b.openTimeout)
	b.inFlight = 0
	b.wins = 0
}

func (b *CircuitBreaker) reset() {
	b.phase = phaseClosed
	b.failures = 0
	b.inFlight = 0
	b.wins = 0
	b.retryAt = time.Time{}
}
