package recordstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock drives the bucket without real sleeping: sleeping advances time.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	cancel bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.cancel {
		return context.Canceled
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func newTestBucket(rate float64) (*TokenBucket, *fakeClock) {
	clock := newFakeClock()
	b := NewTokenBucket(rate)
	b.now = clock.Now
	b.sleep = clock.Sleep
	b.last = clock.Now()
	return b, clock
}

func TestTokenBucket_StartsFull(t *testing.T) {
	b, clock := newTestBucket(5)

	for i := 0; i < 5; i++ {
		assert.NoError(t, b.Acquire(context.Background()))
	}
	assert.Empty(t, clock.slept, "a full bucket must not block")
}

func TestTokenBucket_WaitsExactDeficit(t *testing.T) {
	b, clock := newTestBucket(5)

	// Drain, then the next acquire owes exactly one token at 5/s = 200ms.
	for i := 0; i < 5; i++ {
		assert.NoError(t, b.Acquire(context.Background()))
	}
	assert.NoError(t, b.Acquire(context.Background()))

	assert.Len(t, clock.slept, 1)
	assert.Equal(t, 200*time.Millisecond, clock.slept[0])
}

func TestTokenBucket_RefillIsCapped(t *testing.T) {
	b, clock := newTestBucket(5)

	// A long idle period must not bank more than capacity.
	clock.now = clock.now.Add(time.Hour)
	for i := 0; i < 5; i++ {
		assert.NoError(t, b.Acquire(context.Background()))
	}
	assert.NoError(t, b.Acquire(context.Background()))
	assert.Len(t, clock.slept, 1, "sixth acquire must wait despite the idle hour")
}

func TestTokenBucket_ContinuousRefill(t *testing.T) {
	b, clock := newTestBucket(10)

	for i := 0; i < 10; i++ {
		assert.NoError(t, b.Acquire(context.Background()))
	}
	// Half a token's worth of elapsed time halves the wait.
	clock.now = clock.now.Add(50 * time.Millisecond)
	assert.NoError(t, b.Acquire(context.Background()))
	assert.Equal(t, 50*time.Millisecond, clock.slept[len(clock.slept)-1])
}

func TestTokenBucket_CancelledContext(t *testing.T) {
	b, clock := newTestBucket(1)
	assert.NoError(t, b.Acquire(context.Background()))

	clock.cancel = true
	err := b.Acquire(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}
