package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl, err := newRateLimiter(3, time.Minute)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("alice"), "attempt %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("alice"))
}

func TestRateLimiter_UsersCountedSeparately(t *testing.T) {
	rl, err := newRateLimiter(1, time.Minute)
	require.NoError(t, err)

	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"))
	assert.True(t, rl.Allow("bob"))
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	rl, err := newRateLimiter(1, 50*time.Millisecond)
	require.NoError(t, err)

	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"))

	time.Sleep(100 * time.Millisecond)
	assert.True(t, rl.Allow("alice"))
}
