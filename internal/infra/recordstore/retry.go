package recordstore

import (
	"context"
	"math/rand"
	"time"
)

type RetryConfig struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxRetries int
}

func defaultRetryConfig() RetryConfig {
	return RetryConfig{
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
		MaxRetries: 3,
	}
}

// doWithRetry runs fn, retrying only errors classified retryable. The last
// classified error propagates as-is once the budget is spent.
func (c *Client) doWithRetry(ctx context.Context, op string, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		se, ok := AsStoreError(err)
		if !ok || !se.Retryable || attempt >= c.retry.MaxRetries {
			return err
		}

		retriesTotal.WithLabelValues(op, string(se.Code)).Inc()
		if err := c.sleep(ctx, backoffDelay(c.retry, attempt)); err != nil {
			return err
		}
	}
}

// delay = min(base * 2^attempt + random(0, 1s), maxDelay)
func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	d := cfg.BaseDelay << uint(attempt)
	d += time.Duration(rand.Int63n(int64(time.Second)))
	if d > cfg.MaxDelay {
		d = cfg.MaxDelay
	}
	return d
}
