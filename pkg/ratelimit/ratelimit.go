package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute token budget. Unlike rate.Limiter it
// reserves an arbitrary token count per call, which is what LLM usage
// accounting needs.
type TokenLimiter struct {
	mu         sync.Mutex
	maxPerMin  int
	used       int
	windowEnds time.Time
}

// NewTokenLimiter creates a limiter allowing maxPerMinute tokens per
// rolling one-minute window.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin:  maxPerMinute,
		windowEnds: time.Now().Add(time.Minute),
	}
}

// GetRemaining returns the unused tokens in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refresh()
	return l.maxPerMin - l.used
}

// Wait blocks until the requested token count fits into the budget or the
// context is canceled. Requests larger than the whole budget are admitted
// on a fresh window rather than blocking forever.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		l.mu.Lock()
		l.refresh()
		if l.used+tokens <= l.maxPerMin || l.used == 0 {
			l.used += tokens
			l.mu.Unlock()
			return nil
		}
		wait := time.Until(l.windowEnds)
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refresh resets the budget when the window has elapsed. Caller must hold mu.
func (l *TokenLimiter) refresh() {
	now := time.Now()
	if now.After(l.windowEnds) {
		l.used = 0
		l.windowEnds = now.Add(time.Minute)
	}
}
