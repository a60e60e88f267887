package recordstore

import (
	"context"
	"sync"
	"time"
)

// TokenBucket enforces the store's request rate. One bucket lives inside each
// Client, so the bound holds across every goroutine sharing that client; a
// second process gets its own bucket and its own 5/s, so the aggregate rate
// under horizontal scaling is instances times rate.
type TokenBucket struct {
	mu       sync.Mutex
	rate     float64 // tokens per second
	capacity float64
	tokens   float64
	last     time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewTokenBucket(ratePerSec float64) *TokenBucket {
	if ratePerSec <= 0 {
		ratePerSec = 5
	}
	b := &TokenBucket{
		rate:     ratePerSec,
		capacity: ratePerSec,
		tokens:   ratePerSec, // start full
		now:      time.Now,
		sleep:    sleepCtx,
	}
	b.last = b.now()
	return b
}

// Acquire blocks until a token is available, sleeping exactly the deficit for
// the next token rather than polling. Returns early if ctx is cancelled.
func (b *TokenBucket) Acquire(ctx context.Context) error {
	for {
		b.mu.Lock()
		b.refill()
		if b.tokens >= 1 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
		b.mu.Unlock()

		observeRateLimitWait(wait)
		if err := b.sleep(ctx, wait); err != nil {
			return err
		}
		// Another caller may have taken the refilled token; re-check.
	}
}

func (b *TokenBucket) refill() {
	now := b.now()
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens = minFloat(b.capacity, b.tokens+elapsed*b.rate)
		b.last = now
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
