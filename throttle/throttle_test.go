package throttle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TriMagnetix/nmag-go/throttle"
)

const delay = 5 * time.Second

func at(sec float64) time.Time {
	return time.Unix(1000, 0).Add(time.Duration(sec * float64(time.Second)))
}

func TestAllowAt_FirstCallAlwaysPasses(t *testing.T) {
	t.Parallel()

	th := throttle.New()
	require.True(t, th.AllowAt(at(0), "progress", delay))
}

func TestAllowAt_ThrottlesWithinDelay(t *testing.T) {
	t.Parallel()

	th := throttle.New()
	require.True(t, th.AllowAt(at(0), "progress", delay))
	require.False(t, th.AllowAt(at(2), "progress", delay))
}

func TestAllowAt_PassesAtExpiry(t *testing.T) {
	t.Parallel()

	th := throttle.New()
	require.True(t, th.AllowAt(at(0), "progress", delay))
	require.False(t, th.AllowAt(at(4.99), "progress", delay), "just before expiry")
	require.True(t, th.AllowAt(at(5), "progress", delay), "exactly at expiry")
	require.False(t, th.AllowAt(at(5.01), "progress", delay), "budget spent again")
}

func TestAllowAt_KeysAreIsolated(t *testing.T) {
	t.Parallel()

	th := throttle.New()
	long := 10 * time.Second
	require.True(t, th.AllowAt(at(0), "key_A", long))
	require.True(t, th.AllowAt(at(1), "key_B", long))
	require.False(t, th.AllowAt(at(2), "key_A", long))
	require.False(t, th.AllowAt(at(2), "key_B", long))
	require.True(t, th.AllowAt(at(10), "key_A", long))
}

func TestAllowAt_DelayChangeReRates(t *testing.T) {
	t.Parallel()

	th := throttle.New()
	require.True(t, th.AllowAt(at(0), "progress", 10*time.Second))
	require.False(t, th.AllowAt(at(2), "progress", 10*time.Second))
	// Shrinking the delay refills faster from here on: the bucket holds
	// 0.4 tokens when re-rated at t=4 and fills up within one second.
	require.False(t, th.AllowAt(at(4), "progress", time.Second))
	require.True(t, th.AllowAt(at(5), "progress", time.Second))
}

func TestAllowAt_ZeroDelayDisablesLimiting(t *testing.T) {
	t.Parallel()

	th := throttle.New()
	for i := 0; i < 5; i++ {
		require.True(t, th.AllowAt(at(0), "chatty", 0))
	}
}

func TestForget(t *testing.T) {
	t.Parallel()

	th := throttle.New()
	require.True(t, th.AllowAt(at(0), "progress", delay))
	require.False(t, th.AllowAt(at(1), "progress", delay))
	th.Forget("progress")
	require.True(t, th.AllowAt(at(1), "progress", delay))
}

func TestAllow_WallClock(t *testing.T) {
	t.Parallel()

	th := throttle.New()
	require.True(t, th.Allow("wall", time.Hour))
	require.False(t, th.Allow("wall", time.Hour))
}
