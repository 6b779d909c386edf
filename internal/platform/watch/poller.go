// Package watch runs periodic refresh loops: the notification feed and the
// pharmacy queue both poll rather than hold a push channel open.
package watch

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Poller invokes a function on a fixed interval until its context ends. The
// first tick fires immediately so a watcher shows data without waiting a
// full interval.
type Poller struct {
	interval time.Duration
	logger   zerolog.Logger
}

func NewPoller(interval time.Duration, logger zerolog.Logger) *Poller {
	return &Poller{interval: interval, logger: logger}
}

// Run blocks until ctx is done. Each tick calls fn with ctx; a slow fn does
// not delay the next tick, so fn must tolerate overlapping calls.
func (p *Poller) Run(ctx context.Context, fn func(context.Context) error) {
	tick := func() {
		go func() {
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				p.logger.Warn().Err(err).Msg("poll failed")
			}
		}()
	}

	tick()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}
