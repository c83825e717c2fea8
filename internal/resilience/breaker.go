// Package resilience provides the failure latch guarding the LLM fallback.
package resilience

import (
	"sync"

	"go.uber.org/zap"
)

// FallbackBreaker is a process-wide, one-way circuit breaker for the LLM
// fallback. Unlike a conventional breaker it never half-opens: a qualifying
// error (quota exhaustion, invalid credentials, permission denial) disables
// the fallback for the remainder of the process lifetime, so subsequent
// targets skip it without attempting network calls.
//
// Safe for concurrent use; one instance is shared across all targets.
type FallbackBreaker struct {
	mu       sync.Mutex
	disabled bool
	reason   string
}

// NewFallbackBreaker returns a closed (enabled) breaker.
func NewFallbackBreaker() *FallbackBreaker {
	return &FallbackBreaker{}
}

// Allow reports whether the fallback may be attempted.
func (b *FallbackBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.disabled
}

// Trip permanently disables the fallback. The first trip is logged; later
// trips are no-ops so the log stays quiet under concurrent targets.
func (b *FallbackBreaker) Trip(reason string) {
	if len(reason) > 200 {
		reason = reason[:200]
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disabled {
		return
	}
	b.disabled = true
	b.reason = reason
	zap.L().Warn("llm fallback disabled for process lifetime",
		zap.String("reason", reason),
	)
}

// Disabled returns the latch state and the reason recorded on the first trip.
func (b *FallbackBreaker) Disabled() (bool, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled, b.reason
}
