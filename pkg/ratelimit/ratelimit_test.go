package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiter_WaitWithinBudget(t *testing.T) {
	limiter := NewTokenLimiter(1000)

	require.NoError(t, limiter.Wait(context.Background(), 400))
	require.NoError(t, limiter.Wait(context.Background(), 400))
	assert.Equal(t, 200, limiter.GetRemaining())
}

func TestTokenLimiter_OversizedRequestAdmittedOnFreshWindow(t *testing.T) {
	limiter := NewTokenLimiter(100)

	// Larger than the whole budget, but the window is unused.
	require.NoError(t, limiter.Wait(context.Background(), 500))
	assert.Equal(t, -400, limiter.GetRemaining())
}

func TestTokenLimiter_BlockedWaitRespectsContext(t *testing.T) {
	limiter := NewTokenLimiter(100)
	require.NoError(t, limiter.Wait(context.Background(), 90))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx, 50)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenLimiter_GetRemaining(t *testing.T) {
	limiter := NewTokenLimiter(250000)
	assert.Equal(t, 250000, limiter.GetRemaining())
}
