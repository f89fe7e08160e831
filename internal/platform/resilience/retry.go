package resilience

import (
	"context"
	"time"
)

// RetryPolicy is a bounded linear-backoff retry. MaxRetries is the number of
// extra attempts after the first one.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Do calls fn until it succeeds, returns retry=false, or the retries are used up.
// The wait between attempts is Backoff*attempt and is cut short by ctx.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) (retry bool, err error)) error {
	maxRetries := p.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		retry, err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == maxRetries {
			break
		}

		timer := time.NewTimer(p.Backoff * time.Duration(attempt+1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
