// Package records owns the extraction history and the saved-property store,
// and mirrors both to durable storage after every mutation.
package records

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/propintel/internal/domain"
	"github.com/MrSnakeDoc/propintel/internal/logger"
	"github.com/MrSnakeDoc/propintel/internal/metrics"
)

// Substrate is the durable key-value storage behind the gateway.
// A missing key must load as an empty slice with a nil error.
type Substrate interface {
	LoadHistory(ctx context.Context) ([]domain.HistoryEntry, error)
	SaveHistory(ctx context.Context, entries []domain.HistoryEntry) error
	LoadSaved(ctx context.Context) ([]domain.StoredProperty, error)
	SaveSaved(ctx context.Context, items []domain.StoredProperty) error
}

// Options tunes a Gateway. Zero values pick the defaults.
type Options struct {
	Retention time.Duration    // history window (default 14 days)
	Now       func() time.Time // clock (default time.Now)
	Metrics   *metrics.Metrics // optional
}

// HydrateReport summarizes what Hydrate loaded.
type HydrateReport struct {
	History int
	Saved   int
	Pruned  int
}

// Gateway is the single owner of both collections. Reads return copies;
// mutations update memory and then write the full collection back.
//
// mu serializes mutations so each one runs to completion, memory and
// storage included, before the next starts.
type Gateway struct {
	mu        sync.Mutex
	substrate Substrate
	history   *HistoryLog
	saved     *SavedStore
	logger    logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewGateway creates a gateway with empty collections. Call Hydrate to load
// persisted state.
func NewGateway(substrate Substrate, log logger.Logger, opts Options) *Gateway {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Gateway{
		substrate: substrate,
		history:   NewHistoryLog(opts.Retention),
		saved:     NewSavedStore(),
		logger:    log,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
}

// Hydrate loads both collections. It never fails: unreadable state is
// logged and the collection starts empty. If retention pruned the loaded
// history, the pruned sequence is written back right away.
func (g *Gateway) Hydrate(ctx context.Context) HydrateReport {
	g.mu.Lock()
	defer g.mu.Unlock()

	var report HydrateReport

	entries, err := g.substrate.LoadHistory(ctx)
	if err != nil {
		g.readFailed(domain.CollectionHistory, err)
		entries = nil
	}
	report.Pruned = g.history.Replace(entries, g.now())
	report.History = g.history.Len()
	if report.Pruned > 0 {
		g.logger.Info("pruned expired history entries on load",
			logger.Int("pruned", report.Pruned))
		g.persistHistory(ctx)
	}

	items, err := g.substrate.LoadSaved(ctx)
	if err != nil {
		g.readFailed(domain.CollectionSaved, err)
		items = nil
	}
	g.saved.Replace(items)
	report.Saved = g.saved.Len()

	g.metrics.SetHistorySize(report.History)
	g.metrics.SetSavedSize(report.Saved)

	return report
}

// AppendHistory records a successful extraction. History is best-effort:
// a failed write is logged and otherwise ignored.
func (g *Gateway) AppendHistory(ctx context.Context, rec domain.PropertyDetails, source domain.SourceType, identifier string) domain.HistoryEntry {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	entry := domain.NewHistoryEntry(rec, source, identifier, now)
	g.history.Append(entry, now)
	g.persistHistory(ctx)

	return entry
}

// PruneHistory applies the retention filter to the live history and writes
// it back when something expired. Returns the number of removed entries.
func (g *Gateway) PruneHistory(ctx context.Context) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := g.history.Prune(g.now())
	if removed > 0 {
		g.persistHistory(ctx)
	}
	return removed
}

// Save stores a record in the saved collection. The in-memory collection is
// always updated; a *domain.PersistenceWriteError means the save may not
// survive a restart and the user should be told.
func (g *Gateway) Save(ctx context.Context, rec domain.PropertyDetails) (domain.StoredProperty, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	item := domain.NewStoredProperty(rec, g.now())
	g.saved.Upsert(item)

	return item, g.persistSaved(ctx)
}

// Delete removes a saved record. Deleting an unknown id is a no-op that
// touches neither memory nor storage; the only error is a failed write.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.saved.Delete(id) {
		g.logger.Debug("delete of unknown saved property", logger.String("id", id))
		return nil
	}
	return g.persistSaved(ctx)
}

// History returns the retained entries, most recent first.
func (g *Gateway) History() []domain.HistoryEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history.Entries()
}

// Saved returns the saved properties, most recently saved first.
func (g *Gateway) Saved() []domain.StoredProperty {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saved.Items()
}

// HistoryEntry looks up a history entry by id.
func (g *Gateway) HistoryEntry(id string) (domain.HistoryEntry, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history.Find(id)
}

// SavedProperty looks up a saved property by id.
func (g *Gateway) SavedProperty(id string) (domain.StoredProperty, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saved.Find(id)
}

// Counts returns the sizes of both collections.
func (g *Gateway) Counts() (history, saved int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.history.Len(), g.saved.Len()
}

// persistHistory must be called with mu held.
func (g *Gateway) persistHistory(ctx context.Context) {
	g.metrics.SetHistorySize(g.history.Len())
	if err := g.substrate.SaveHistory(ctx, g.history.Entries()); err != nil {
		g.metrics.PersistenceFailure(domain.CollectionHistory, metrics.OpWrite)
		g.logger.Warn("failed to persist history, continuing",
			logger.Error(&domain.PersistenceWriteError{Collection: domain.CollectionHistory, Err: err}))
	}
}

// persistSaved must be called with mu held.
func (g *Gateway) persistSaved(ctx context.Context) error {
	g.metrics.SetSavedSize(g.saved.Len())
	if err := g.substrate.SaveSaved(ctx, g.saved.Items()); err != nil {
		werr := &domain.PersistenceWriteError{Collection: domain.CollectionSaved, Err: err}
		g.metrics.PersistenceFailure(domain.CollectionSaved, metrics.OpWrite)
		g.logger.Error("failed to persist saved properties", logger.Error(werr))
		return werr
	}
	return nil
}

func (g *Gateway) readFailed(c domain.Collection, err error) {
	g.metrics.PersistenceFailure(c, metrics.OpRead)
	g.logger.Error("failed to load persisted state, starting empty",
		logger.String("collection", string(c)),
		logger.Error(&domain.PersistenceReadError{Collection: c, Err: err}))
}
