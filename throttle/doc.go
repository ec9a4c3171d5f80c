// Package throttle rate-limits repeatable actions by key, so progress
// reporting and similar chatter happens at most every N seconds.
//
// 🚀 What does it do?
//
//	A Throttler keeps one token bucket per key. Allow(key, delay)
//	answers true when at least delay has passed since the last allowed
//	call for that key; the first call for a key always passes. Keys are
//	independent, so one noisy reporter cannot silence another.
//
// ✨ Key features:
//   - per-key budgets backed by golang.org/x/time/rate token buckets
//   - the delay may change between calls; the bucket is re-rated in place
//   - a zero or negative delay disables limiting for that call
//   - AllowAt takes the clock as an argument for deterministic tests
//
// ⚙️ Usage:
//
//	th := throttle.New()
//	if th.Allow("save_progress", 60*time.Second) {
//		writeProgressFile()
//	}
//
// A Throttler is safe for concurrent use.
package throttle
