package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/propintel/internal/logger"
	"github.com/MrSnakeDoc/propintel/internal/records"
)

// Hydrator loads persisted records into memory on startup.
type Hydrator struct {
	gateway *records.Gateway
	logger  logger.Logger
}

// NewHydrator creates a new startup hydrator
func NewHydrator(gw *records.Gateway, log logger.Logger) *Hydrator {
	return &Hydrator{
		gateway: gw,
		logger:  log,
	}
}

// Sync loads history and saved properties from the store. Unreadable state
// never blocks startup; the gateway falls back to empty collections.
func (h *Hydrator) Sync(ctx context.Context) records.HydrateReport {
	h.logger.Info("loading persisted records")

	report := h.gateway.Hydrate(ctx)

	h.logger.Info("records loaded",
		logger.Int("history", report.History),
		logger.Int("saved", report.Saved),
		logger.Int("expired", report.Pruned))

	return report
}
