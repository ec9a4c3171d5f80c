package throttle

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttler allows actions at most once per delay, tracked per key.
// Each key owns a token bucket with burst 1, so the first call passes
// and later calls pass only after the delay has fully elapsed.
type Throttler struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// New returns an empty Throttler.
func New() *Throttler {
	return &Throttler{buckets: make(map[string]*bucket)}
}

// Allow reports whether the action behind key may run now, and if so
// consumes its budget until delay has passed. A delay <= 0 always allows.
func (t *Throttler) Allow(key string, delay time.Duration) bool {
	return t.AllowAt(time.Now(), key, delay)
}

// AllowAt is Allow against an explicit clock reading. Calls for the same
// key must use non-decreasing now values.
func (t *Throttler) AllowAt(now time.Time, key string, delay time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(delay), 1), delay: delay}
		t.buckets[key] = b
	} else if b.delay != delay {
		b.limiter.SetLimitAt(now, rate.Every(delay))
		b.delay = delay
	}

	return b.limiter.AllowN(now, 1)
}

// Forget drops the state for key; the next call for it passes again.
func (t *Throttler) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.buckets, key)
}
