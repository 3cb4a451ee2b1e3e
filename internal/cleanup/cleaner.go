// Package cleanup runs the periodic housekeeping: expiring idle visitor
// sessions and enforcing the analytics retention window.
package cleanup

import (
	"context"
	"time"

	"github.com/hephzaron/portfolio/internal/logger"
)

// SessionSweeper removes idle sessions.
type SessionSweeper interface {
	Sweep() int
}

// Retainer deletes analytics recorded before a cutoff.
type Retainer interface {
	Cleanup(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleaner runs Sweep and Cleanup on an interval.
type Cleaner struct {
	sessions  SessionSweeper
	retainer  Retainer
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewCleaner returns a cleaner. retainer may be nil when analytics are off.
func NewCleaner(sessions SessionSweeper, retainer Retainer, interval, retention time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if retention <= 0 {
		retention = 365 * 24 * time.Hour
	}
	return &Cleaner{
		sessions:  sessions,
		retainer:  retainer,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Start runs the worker until ctx is cancelled.
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Cleaner) run(ctx context.Context) {
	log := logger.G(ctx).WithField("interval", c.interval)
	log.Info("cleanup worker started")

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			c.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single cleanup cycle.
func (c *Cleaner) RunOnce(ctx context.Context) {
	log := logger.G(ctx)

	if n := c.sessions.Sweep(); n > 0 {
		log.WithField("count", n).Debug("expired idle sessions")
	}

	if c.retainer == nil {
		return
	}
	n, err := c.retainer.Cleanup(ctx, c.now().Add(-c.retention))
	if err != nil {
		log.WithError(err).Error("failed to clean up analytics")
		return
	}
	if n > 0 {
		log.WithField("count", n).Info("privacy cleanup removed old analytics rows")
	}
}
