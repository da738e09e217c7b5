package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/propintel/internal/logger"
)

// DefaultPruneInterval is how often expired history entries are swept.
const DefaultPruneInterval = time.Hour

// HistoryPruner is the part of records.Gateway the pruner drives.
type HistoryPruner interface {
	PruneHistory(ctx context.Context) int
}

// RetentionPruner periodically drops history entries older than the
// retention window, so a long-running process does not serve stale entries
// between extractions.
type RetentionPruner struct {
	history  HistoryPruner
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewRetentionPruner creates a new pruner
func NewRetentionPruner(history HistoryPruner, log logger.Logger, interval time.Duration) *RetentionPruner {
	if interval <= 0 {
		interval = DefaultPruneInterval
	}

	return &RetentionPruner{
		history:  history,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs one sweep right away, then one per interval until Stop or ctx
// cancellation.
func (p *RetentionPruner) Start(ctx context.Context) {
	p.Collect(ctx)

	ticker := time.NewTicker(p.interval)
	go func() {
		defer close(p.doneCh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Collect(ctx)
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the pruner and waits for the loop to exit.
func (p *RetentionPruner) Stop() {
	close(p.stopCh)
	<-p.doneCh
}

// Collect runs a single sweep and returns the number of removed entries.
func (p *RetentionPruner) Collect(ctx context.Context) int {
	removed := p.history.PruneHistory(ctx)
	if removed > 0 {
		p.logger.Info("pruned expired history entries",
			logger.Int("removed", removed))
	} else {
		p.logger.Debug("no expired history entries")
	}
	return removed
}
