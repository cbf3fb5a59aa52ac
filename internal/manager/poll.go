package manager

import (
	"context"
	"time"
)

// Clock is the time source for readiness polling.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WaitReady polls probe up to attempts times, sleeping interval before each
// check. It returns the number of attempts used on success, a
// *ReadinessTimeoutError once the budget is spent, or ctx.Err() when canceled.
func WaitReady(ctx context.Context, probe Probe, interval time.Duration, attempts int, clock Clock) (int, error) {
	start := clock.Now()
	for i := 1; i <= attempts; i++ {
		if err := clock.Sleep(ctx, interval); err != nil {
			return i - 1, err
		}
		if probe.IsReady(ctx) {
			return i, nil
		}
	}
	return attempts, &ReadinessTimeoutError{Attempts: attempts, Elapsed: clock.Now().Sub(start)}
}
