package watch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPoller_FiresImmediatelyAndRepeats(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()
	p.Run(ctx, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	got := calls.Load()
	if got < 3 {
		t.Errorf("expected at least 3 polls, got %d", got)
	}
}

func TestPoller_StopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx, func(context.Context) error {
			calls.Add(1)
			return nil
		})
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

func TestPoller_SlowCallbackDoesNotBlockTicks(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(15*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	p.Run(ctx, func(ctx context.Context) error {
		calls.Add(1)
		// Slower than the interval.
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
		}
		return nil
	})

	if got := calls.Load(); got < 4 {
		t.Errorf("expected overlapping polls, got %d", got)
	}
}
