package ratelimit

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func TestAllowRefillsPerKey(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(Limit{RequestsPerMinute: 60, Burst: 2}, clock)

	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
	require.True(t, l.Allow("b"), "buckets are per key")

	clock.Advance(time.Second)
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
}

func TestSweepDropsIdleBuckets(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l := New(Limit{RequestsPerMinute: 60, Burst: 1}, clock)

	require.True(t, l.Allow("a"))
	clock.Advance(time.Minute)
	require.True(t, l.Allow("b"))

	require.Equal(t, 1, l.Sweep(30*time.Second))
	require.True(t, l.Allow("a"), "a fresh bucket starts full")
}
