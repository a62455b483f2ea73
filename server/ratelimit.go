package server

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// rateLimiter throttles chat turns per user ID using a TTL cache as the
// rolling counter. Counting is best-effort: ristretto may drop entries under
// pressure, which fails open rather than blocking users.
type rateLimiter struct {
	cache  *ristretto.Cache
	limit  int64
	window time.Duration
}

func newRateLimiter(limit int64, window time.Duration) (*rateLimiter, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate limiter cache: %w", err)
	}
	return &rateLimiter{cache: cache, limit: limit, window: window}, nil
}

// Allow reports whether userID may run another turn within the current
// window and records the attempt.
func (rl *rateLimiter) Allow(userID string) bool {
	var count int64
	if v, ok := rl.cache.Get(userID); ok {
		count = v.(int64)
	}
	if count >= rl.limit {
		return false
	}
	rl.cache.SetWithTTL(userID, count+1, 1, rl.window)
	// Sets are buffered; flush so back-to-back turns see the counter.
	rl.cache.Wait()
	return true
}
