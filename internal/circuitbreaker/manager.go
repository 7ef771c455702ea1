// Package circuitbreaker isolates the facilitator's one external
// dependency — the Solana JSON-RPC endpoint — behind a gobreaker circuit
// breaker, so a struggling RPC node fails fast instead of queuing up
// slow requests behind it.
package circuitbreaker

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Config configures the Solana RPC circuit breaker.
type Config struct {
	Enabled bool

	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
	FailureRatio        float64
	MinRequests         uint32
}

// DefaultConfig returns sensible defaults: trip after 5 consecutive
// failures, or a 50% failure rate over at least 10 requests in the
// last minute; stay open 30s before probing again.
func DefaultConfig() Config {
	return Config{
		Enabled:             true,
		MaxRequests:         3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
		FailureRatio:        0.5,
		MinRequests:         10,
	}
}

// Breaker wraps Solana RPC calls with circuit breaker protection.
type Breaker struct {
	enabled bool
	cb      *gobreaker.CircuitBreaker
}

// New builds a Breaker from cfg. When cfg.Enabled is false, Execute
// passes every call straight through.
func New(cfg Config) *Breaker {
	b := &Breaker{enabled: cfg.Enabled}
	if !cfg.Enabled {
		return b
	}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "solana_rpc",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}
			if cfg.FailureRatio > 0 && cfg.MinRequests > 0 && counts.Requests >= cfg.MinRequests {
				failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
				if failureRate >= cfg.FailureRatio {
					return true
				}
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit_breaker.state_change")
		},
	})
	return b
}

// Execute runs fn under the breaker, returning its result unchanged.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	if !b.enabled {
		return fn()
	}
	return b.cb.Execute(fn)
}

// State reports the breaker's current state, or "disabled".
func (b *Breaker) State() string {
	if !b.enabled {
		return "disabled"
	}
	return b.cb.State().String()
}
