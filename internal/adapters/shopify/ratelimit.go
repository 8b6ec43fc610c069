package shopify

import (
	"context"
	"time"
)

// EndpointClass buckets calls for pacing. Inventory mutations tolerate
// far less throughput than the bulk product endpoints.
type EndpointClass int

const (
	ClassBulk EndpointClass = iota
	ClassInventory
)

const inventoryMinInterval = 600 * time.Millisecond

type RateLimiter struct {
	minInterval map[EndpointClass]time.Duration
	lastCall    map[EndpointClass]time.Time
	now         func() time.Time
	sleep       func(ctx context.Context, delay time.Duration) error
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		minInterval: map[EndpointClass]time.Duration{
			ClassBulk:      0,
			ClassInventory: inventoryMinInterval,
		},
		lastCall: make(map[EndpointClass]time.Time),
		now:      time.Now,
		sleep:    sleepWithContext,
	}
}

// Wait blocks until the class's minimum interval has elapsed since its
// previous call, then stamps the call.
func (r *RateLimiter) Wait(ctx context.Context, class EndpointClass) error {
	interval := r.minInterval[class]
	if interval > 0 {
		if last, ok := r.lastCall[class]; ok {
			if wait := interval - r.now().Sub(last); wait > 0 {
				if err := r.sleep(ctx, wait); err != nil {
					return err
				}
			}
		}
	}
	r.lastCall[class] = r.now()
	return nil
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
