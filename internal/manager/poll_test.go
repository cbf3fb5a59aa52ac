package manager

import (
	"context"
	"testing"
	"time"
)

func TestWaitReady_SucceedsWithinBudget(t *testing.T) {
	for k := 0; k < 10; k++ {
		p := &fakeProbe{failFirst: k}
		c := newFakeClock()
		n, err := WaitReady(context.Background(), p, 500*time.Millisecond, 10, c)
		if err != nil {
			t.Fatalf("k=%d: unexpected err: %v", k, err)
		}
		if n != k+1 {
			t.Fatalf("k=%d: attempts=%d want %d", k, n, k+1)
		}
	}
}

func TestWaitReady_TimesOutAfterBudget(t *testing.T) {
	for _, k := range []int{10, 11, 50, -1} {
		p := &fakeProbe{failFirst: k}
		c := newFakeClock()
		start := c.Now()
		n, err := WaitReady(context.Background(), p, 500*time.Millisecond, 10, c)
		if !IsReadinessTimeout(err) {
			t.Fatalf("k=%d: expected readiness timeout, got %v", k, err)
		}
		if n != 10 || p.Calls() != 10 {
			t.Fatalf("k=%d: attempts=%d probes=%d want 10", k, n, p.Calls())
		}
		re := err.(*ReadinessTimeoutError)
		if re.Attempts != 10 || re.Elapsed != 5*time.Second {
			t.Fatalf("k=%d: got %+v", k, re)
		}
		if got := c.Now().Sub(start); got != 5*time.Second {
			t.Fatalf("k=%d: clock advanced %s", k, got)
		}
	}
}

func TestWaitReady_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := WaitReady(ctx, &fakeProbe{failFirst: -1}, time.Millisecond, 10, newFakeClock())
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRealClock_SleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (realClock{}).Sleep(ctx, time.Hour); err == nil {
		t.Fatalf("expected error from canceled sleep")
	}
	if err := (realClock{}).Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("sleep: %v", err)
	}
}
