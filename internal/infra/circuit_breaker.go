package infra

import (
	"errors"
	"sync"
	"time"
)

// CBState is the breaker position. Transitions: closed → open after a run of
// failures, open → half-open after the cooldown, half-open → closed after
// enough successful probes (or back to open on the first failed one).
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// ErrCircuitOpen is the fast-fail result while the breaker is open. Callers
// treat it like any other delivery error; the job lands in the DLQ and the
// retry cron picks it up once the mail server recovers.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
	}
}

// CircuitBreaker guards the SMTP mailer. Alert mail is best-effort: when the
// mail server is down we would rather fail in microseconds than hold worker
// goroutines on connect timeouts.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu       sync.Mutex
	state    CBState
	streak   int // consecutive failures (closed) or successes (half-open)
	openedAt time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg}
}

// State reports the breaker position, promoting open to half-open when the
// cooldown has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.maybeProbe()
	return cb.state
}

// Execute runs fn unless the breaker is open, and folds the outcome back
// into the breaker state.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	cb.maybeProbe()
	if cb.state == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

// maybeProbe must be called with the lock held.
func (cb *CircuitBreaker) maybeProbe() {
	if cb.state == CBOpen && time.Since(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.streak = 0
	}
}

func (cb *CircuitBreaker) recordFailure() {
	switch cb.state {
	case CBHalfOpen:
		// One failed probe is enough evidence the dependency is still down.
		cb.trip()
	case CBClosed:
		cb.streak++
		if cb.streak >= cb.cfg.FailureThreshold {
			cb.trip()
		}
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	switch cb.state {
	case CBHalfOpen:
		cb.streak++
		if cb.streak >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.streak = 0
		}
	case CBClosed:
		cb.streak = 0
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = CBOpen
	cb.streak = 0
	cb.openedAt = time.Now()
}
