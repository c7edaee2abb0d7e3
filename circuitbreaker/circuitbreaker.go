// Package circuitbreaker gates outbound connection attempts to a single
// logical endpoint: after enough consecutive failures it opens and
// rejects attempts outright, then after a recovery timeout allows
// exactly one half-open probe through before deciding whether to close
// again or reopen.
//
// Gated by golang.org/x/sync/semaphore so only a single caller probes
// the endpoint while half-open.
package circuitbreaker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// State is the circuit's current disposition.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker is a single circuit breaker for one logical endpoint.
type Breaker struct {
	failureThreshold int
	recoveryTimeout  time.Duration

	mu        sync.Mutex
	state     State
	failures  int
	openedAt  time.Time

	probe *semaphore.Weighted
}

// New creates a Breaker that opens after failureThreshold consecutive
// failures and stays open for recoveryTimeout before allowing a single
// half-open probe.
func New(failureThreshold int, recoveryTimeout time.Duration) *Breaker {
	return &Breaker{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		state:            Closed,
		probe:            semaphore.NewWeighted(1),
	}
}

// Allow reports whether a new attempt may proceed, and the state that
// decision was made under. In Closed, attempts are always allowed. In
// Open, attempts are allowed only after recoveryTimeout has elapsed,
// at which point exactly one concurrent caller is admitted as the
// half-open probe; all others remain blocked until that probe reports
// its outcome via Success/Failure.
func (b *Breaker) Allow() (bool, State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return true, Closed
	case HalfOpen:
		return false, HalfOpen
	default: // Open
		if time.Since(b.openedAt) < b.recoveryTimeout {
			return false, Open
		}
		if !b.probe.TryAcquire(1) {
			// Another caller already won the probe slot this instant.
			return false, Open
		}
		b.state = HalfOpen
		return true, HalfOpen
	}
}

// Success records a successful attempt, closing the circuit and
// resetting its failure count regardless of which state it was in.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == HalfOpen {
		b.probe.Release(1)
	}
	b.state = Closed
	b.failures = 0
}

// Failure records a failed attempt. A failure while half-open reopens
// the circuit immediately; a failure while closed opens it once
// failures reach failureThreshold.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == HalfOpen {
		b.probe.Release(1)
		b.open()
		return
	}

	b.failures++
	if b.failures >= b.failureThreshold {
		b.open()
	}
}

func (b *Breaker) open() {
	b.state = Open
	b.openedAt = time.Now()
}

// State returns the breaker's current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// WaitForProbeSlot blocks until a half-open probe slot is free or ctx is
// done; it does not itself change state, and is intended for tests or
// callers that want to serialize on the probe rather than poll Allow.
func (b *Breaker) WaitForProbeSlot(ctx context.Context) error {
	if err := b.probe.Acquire(ctx, 1); err != nil {
		return err
	}
	b.probe.Release(1)
	return nil
}
