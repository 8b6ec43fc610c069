package shopify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	sleepE error
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	if f.sleepE != nil {
		return f.sleepE
	}
	f.slept = append(f.slept, d)
	f.now = f.now.Add(d)
	return nil
}

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestLimiter(clock *fakeClock) *RateLimiter {
	limiter := NewRateLimiter()
	limiter.now = clock.Now
	limiter.sleep = clock.Sleep
	return limiter
}

func TestRateLimiterInventoryPacing(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(clock)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, ClassInventory))
	assert.Empty(t, clock.slept, "first call must not sleep")

	require.NoError(t, limiter.Wait(ctx, ClassInventory))
	require.Len(t, clock.slept, 1)
	assert.Equal(t, inventoryMinInterval, clock.slept[0])
}

func TestRateLimiterInventoryPartialElapse(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(clock)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, ClassInventory))
	clock.Advance(200 * time.Millisecond)

	require.NoError(t, limiter.Wait(ctx, ClassInventory))
	require.Len(t, clock.slept, 1)
	assert.Equal(t, 400*time.Millisecond, clock.slept[0])
}

func TestRateLimiterInventoryIntervalElapsed(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(clock)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, ClassInventory))
	clock.Advance(time.Second)

	require.NoError(t, limiter.Wait(ctx, ClassInventory))
	assert.Empty(t, clock.slept)
}

func TestRateLimiterBulkNeverSleeps(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.Wait(ctx, ClassBulk))
	}
	assert.Empty(t, clock.slept)
}

func TestRateLimiterClassesIndependent(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(clock)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, ClassInventory))
	require.NoError(t, limiter.Wait(ctx, ClassBulk))
	assert.Empty(t, clock.slept, "bulk call must not inherit inventory pacing")
}

func TestSleepWithContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleepWithContext(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
