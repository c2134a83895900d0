package mirror

import (
	"context"
	"time"
)

// Loop repeatedly runs mirroring passes at a fixed interval. The interval is
// measured from the end of one pass to the start of the next, so a slow pass
// delays the following one rather than overlapping it.
type Loop struct {
	Syncer   *Syncer
	Interval time.Duration
}

// Run executes passes until ctx is canceled, which is the only way it
// returns. Cancellation is cooperative: it is checked before each pass and
// during the inter-pass wait, a pass already in progress runs to completion.
// A failed pass is logged and retried on the next tick.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		if _, err := l.Syncer.RunPass(ctx); err != nil {
			log(ctx).Errorf("pass failed: %v", err)
		}

		timer := time.NewTimer(l.Interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case <-timer.C:
		}
	}
}
