package auth

import (
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/metrics"
)

const (
	StateClosed = "closed"
	StateOpen   = "open"

	DefaultBreakerThreshold     = 3
	DefaultBreakerFailureWindow = 30 * time.Second
	DefaultBreakerCooldown      = 60 * time.Second
)

type BreakerParams struct {
	fx.In

	Config  *config.Config
	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics
	Clock   func() time.Time `optional:"true"`
}

// CircuitBreaker stops token refresh attempts after repeated failures. There is a
// single instance per process, it guards all authentication traffic.
//
// The breaker opens after Threshold consecutive failures within FailureWindow of the
// first one, and closes again on the first IsBroken call after Cooldown has elapsed.
type CircuitBreaker struct {
	threshold     int
	failureWindow time.Duration
	cooldown      time.Duration
	now           func() time.Time
	logger        *zap.SugaredLogger
	metrics       *metrics.Metrics

	mu           sync.Mutex
	broken       bool
	trippedAt    time.Time
	failures     int
	firstFailure time.Time
}

func NewCircuitBreaker(p BreakerParams) *CircuitBreaker {
	cb := &CircuitBreaker{
		threshold:     DefaultBreakerThreshold,
		failureWindow: DefaultBreakerFailureWindow,
		cooldown:      DefaultBreakerCooldown,
		now:           p.Clock,
		logger:        p.Logger,
		metrics:       p.Metrics,
	}
	if p.Config != nil {
		if p.Config.BreakerThreshold > 0 {
			cb.threshold = p.Config.BreakerThreshold
		}
		if p.Config.BreakerFailureWindow > 0 {
			cb.failureWindow = p.Config.BreakerFailureWindow
		}
		if p.Config.BreakerCooldown > 0 {
			cb.cooldown = p.Config.BreakerCooldown
		}
	}
	if cb.now == nil {
		cb.now = time.Now
	}
	if cb.metrics == nil {
		cb.metrics = metrics.NewMetrics()
	}
	return cb
}

// IsBroken returns true while the breaker is open. The breaker is closed first if the cool-down has elapsed.
func (cb *CircuitBreaker) IsBroken() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.broken && cb.now().After(cb.trippedAt.Add(cb.cooldown)) {
		cb.reset()
		cb.logger.Infow("auth circuit breaker closed after cool-down")
	}
	return cb.broken
}

// Trip opens the breaker. Tripping an open breaker restarts the cool-down.
func (cb *CircuitBreaker) Trip() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.trip()
}

func (cb *CircuitBreaker) trip() {
	if !cb.broken {
		cb.metrics.BreakerTripsTotal.Inc()
		cb.logger.Warnw("auth circuit breaker opened", "failures", cb.failures, "cooldown", cb.cooldown)
	}
	cb.broken = true
	cb.trippedAt = cb.now()
}

// Reset closes the breaker and clears the failure count regardless of the cool-down
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *CircuitBreaker) reset() {
	cb.broken = false
	cb.trippedAt = time.Time{}
	cb.failures = 0
	cb.firstFailure = time.Time{}
}

// RecordFailure counts a failed refresh and opens the breaker once the threshold is reached.
// Failures older than the failure window start a new streak.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.broken {
		return
	}
	now := cb.now()
	if cb.failures == 0 || now.Sub(cb.firstFailure) > cb.failureWindow {
		cb.failures = 0
		cb.firstFailure = now
	}
	cb.failures++
	if cb.failures >= cb.threshold {
		cb.trip()
	}
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.firstFailure = time.Time{}
}

func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// State returns the state without performing the cool-down check
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.broken {
		return StateOpen
	}
	return StateClosed
}
