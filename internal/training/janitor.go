package training

import (
	"context"
	"log/slog"
	"time"
)

// LockJanitor periodically sweeps build locks abandoned by a crashed or
// killed worker. A lock reclaimed here is indistinguishable to a
// subsequent acquirer from one reclaimed inline by buildLock.acquire.
type LockJanitor struct {
	locksDir string
	logger   *slog.Logger
	interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
}

// NewLockJanitor creates a janitor that sweeps locksDir every interval once
// Start is called.
func NewLockJanitor(locksDir string, logger *slog.Logger, interval time.Duration) *LockJanitor {
	return &LockJanitor{
		locksDir: locksDir,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs the sweep on a ticker until ctx is done or Stop is called.
func (j *LockJanitor) Start(ctx context.Context) {
	j.ticker = time.NewTicker(j.interval)

	go func() {
		j.logger.Info("starting lock janitor", "interval", j.interval)
		for {
			select {
			case <-j.ticker.C:
				if err := j.sweep(); err != nil {
					j.logger.Error("lock sweep failed", "error", err)
				}
			case <-j.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the janitor's ticker.
func (j *LockJanitor) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.stop)
}

// sweep removes every build lock file older than staleAfter.
func (j *LockJanitor) sweep() error {
	removed, err := sweepStale(j.locksDir)
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logger.Info("reclaimed stale build locks", "count", removed)
	}
	return nil
}
