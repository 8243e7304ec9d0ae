package scrape

import (
	"context"
	"time"
)

// Policy bounds a retried operation: total attempt count and the exponential
// backoff window applied between attempts.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// withDefaults fills in zero values so a partially configured policy still
// behaves sanely.
func (p Policy) withDefaults() Policy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	return p
}

// Retry runs op up to p.Attempts times, sleeping with exponential backoff
// between attempts. A retry happens only while retryable(err) is true, so
// programming errors surface immediately instead of being hammered against a
// remote host. The last error is returned when all attempts fail.
func Retry(ctx context.Context, p Policy, retryable func(error) bool, op func(context.Context) error) error {
	p = p.withDefaults()

	var err error
	delay := p.BaseDelay
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > p.MaxDelay {
				delay = p.MaxDelay
			}
		}

		err = op(ctx)
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
	}
	return err
}
