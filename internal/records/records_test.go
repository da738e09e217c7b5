package records

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/MrSnakeDoc/propintel/internal/domain"
	"github.com/MrSnakeDoc/propintel/internal/logger"
)

// memSubstrate is an in-memory Substrate with failure injection.
type memSubstrate struct {
	history []domain.HistoryEntry
	saved   []domain.StoredProperty

	historyWrites int
	savedWrites   int

	loadHistoryErr error
	loadSavedErr   error
	saveHistoryErr error
	saveSavedErr   error
}

func (m *memSubstrate) LoadHistory(context.Context) ([]domain.HistoryEntry, error) {
	if m.loadHistoryErr != nil {
		return nil, m.loadHistoryErr
	}
	return m.history, nil
}

func (m *memSubstrate) SaveHistory(_ context.Context, entries []domain.HistoryEntry) error {
	if m.saveHistoryErr != nil {
		return m.saveHistoryErr
	}
	m.historyWrites++
	m.history = entries
	return nil
}

func (m *memSubstrate) LoadSaved(context.Context) ([]domain.StoredProperty, error) {
	if m.loadSavedErr != nil {
		return nil, m.loadSavedErr
	}
	return m.saved, nil
}

func (m *memSubstrate) SaveSaved(_ context.Context, items []domain.StoredProperty) error {
	if m.saveSavedErr != nil {
		return m.saveSavedErr
	}
	m.savedWrites++
	m.saved = items
	return nil
}

// fakeClock returns a fixed instant that tests can move.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestGateway(sub Substrate, clock *fakeClock) *Gateway {
	return NewGateway(sub, logger.NewNop(), Options{Now: clock.Now})
}

func titled(title string) domain.PropertyDetails {
	rec := domain.PropertyDetails{PropertyTitle: domain.StringPtr(title)}
	rec.Normalize()
	return rec
}

var errBoom = errors.New("boom")

func TestHydrateEmptySubstrate(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	g := newTestGateway(&memSubstrate{}, clock)

	report := g.Hydrate(context.Background())
	if report.History != 0 || report.Saved != 0 {
		t.Fatalf("Hydrate() = %+v, want empty", report)
	}
	if h := g.History(); h == nil || len(h) != 0 {
		t.Errorf("History() = %v, want empty non-nil", h)
	}
	if s := g.Saved(); s == nil || len(s) != 0 {
		t.Errorf("Saved() = %v, want empty non-nil", s)
	}
}

func TestHydrateReadFailureFallsBackToEmpty(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	sub := &memSubstrate{
		loadHistoryErr: errBoom,
		loadSavedErr:   errBoom,
	}
	g := newTestGateway(sub, clock)

	report := g.Hydrate(context.Background())
	if report.History != 0 || report.Saved != 0 {
		t.Fatalf("Hydrate() = %+v, want empty after read failures", report)
	}
}

func TestHydratePrunesAndWritesBack(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	sub := &memSubstrate{history: []domain.HistoryEntry{
		{ID: "1", ExtractedAt: now.Add(-1 * day)},
		{ID: "2", ExtractedAt: now.Add(-10 * day)},
		{ID: "3", ExtractedAt: now.Add(-20 * day)},
	}}
	g := newTestGateway(sub, &fakeClock{t: now})

	report := g.Hydrate(context.Background())
	if report.Pruned != 1 || report.History != 2 {
		t.Fatalf("Hydrate() = %+v, want 2 kept and 1 pruned", report)
	}
	if sub.historyWrites != 1 {
		t.Errorf("pruned history should be written back once, got %d writes", sub.historyWrites)
	}
	if len(sub.history) != 2 || sub.history[0].ID != "1" || sub.history[1].ID != "2" {
		t.Errorf("stored history = %+v", sub.history)
	}
}

func TestHydrateWithoutPruningDoesNotWrite(t *testing.T) {
	now := time.Now()
	sub := &memSubstrate{history: []domain.HistoryEntry{{ID: "1", ExtractedAt: now}}}
	g := newTestGateway(sub, &fakeClock{t: now})

	g.Hydrate(context.Background())
	if sub.historyWrites != 0 {
		t.Errorf("no write expected when nothing was pruned, got %d", sub.historyWrites)
	}
}

func TestAppendHistory(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	sub := &memSubstrate{}
	g := newTestGateway(sub, clock)
	ctx := context.Background()

	first := g.AppendHistory(ctx, titled("A"), domain.SourceText, "a")
	clock.t = clock.t.Add(time.Second)
	second := g.AppendHistory(ctx, titled("B"), domain.SourceURL, "https://example.com")

	h := g.History()
	if len(h) != 2 || h[0].ID != second.ID || h[1].ID != first.ID {
		t.Fatalf("History() should be most recent first: %+v", h)
	}
	if second.ID <= first.ID {
		t.Errorf("ids should grow with creation time: %s then %s", first.ID, second.ID)
	}
	if sub.historyWrites != 2 || len(sub.history) != 2 {
		t.Errorf("every append should write the full log, writes=%d stored=%d", sub.historyWrites, len(sub.history))
	}
}

func TestAppendHistoryPrunesExpired(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	g := newTestGateway(&memSubstrate{}, clock)
	ctx := context.Background()

	g.AppendHistory(ctx, titled("old"), domain.SourceText, "old")
	clock.t = start.Add(15 * 24 * time.Hour)
	g.AppendHistory(ctx, titled("new"), domain.SourceText, "new")

	h := g.History()
	if len(h) != 1 || h[0].Details.Title() != "new" {
		t.Fatalf("History() = %+v, want only the new entry", h)
	}
}

func TestAppendHistoryWriteFailureIsSwallowed(t *testing.T) {
	g := newTestGateway(&memSubstrate{saveHistoryErr: errBoom}, &fakeClock{t: time.Now()})

	entry := g.AppendHistory(context.Background(), titled("A"), domain.SourceText, "a")
	if _, ok := g.HistoryEntry(entry.ID); !ok {
		t.Error("entry should stay in memory even when the write fails")
	}
}

func TestPruneHistory(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	sub := &memSubstrate{}
	g := newTestGateway(sub, clock)
	ctx := context.Background()

	g.AppendHistory(ctx, titled("A"), domain.SourceText, "a")
	writes := sub.historyWrites

	if removed := g.PruneHistory(ctx); removed != 0 {
		t.Errorf("PruneHistory() = %d, want 0", removed)
	}
	if sub.historyWrites != writes {
		t.Error("no write expected when nothing expired")
	}

	clock.t = start.Add(14*24*time.Hour + time.Millisecond)
	if removed := g.PruneHistory(ctx); removed != 1 {
		t.Errorf("PruneHistory() = %d, want 1", removed)
	}
	if len(sub.history) != 0 {
		t.Errorf("stored history should be empty, got %d", len(sub.history))
	}
}

func TestSaveAndDeleteRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	sub := &memSubstrate{}
	g := newTestGateway(sub, clock)
	ctx := context.Background()

	if _, err := g.Save(ctx, titled("Existing")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	before := g.Saved()

	clock.t = clock.t.Add(time.Second)
	item, err := g.Save(ctx, titled("Villa"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := g.Saved(); len(got) != 2 || got[0].ID != item.ID {
		t.Fatalf("new item should be first: %+v", got)
	}

	if err := g.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if after := g.Saved(); !reflect.DeepEqual(after, before) {
		t.Errorf("save then delete should restore the collection:\n got %+v\nwant %+v", after, before)
	}
	if !reflect.DeepEqual(sub.saved, before) {
		t.Errorf("stored collection should match memory")
	}
}

func TestSaveSameInstantSameTitleDeduplicates(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	g := newTestGateway(&memSubstrate{}, clock)
	ctx := context.Background()

	a, _ := g.Save(ctx, titled("Villa"))
	b, _ := g.Save(ctx, titled("Villa"))
	if a.ID != b.ID {
		t.Fatalf("same instant and title should share an id: %s vs %s", a.ID, b.ID)
	}
	if n := len(g.Saved()); n != 1 {
		t.Errorf("Saved() has %d items, want 1", n)
	}

	clock.t = clock.t.Add(time.Millisecond)
	if _, err := g.Save(ctx, titled("Villa")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if n := len(g.Saved()); n != 2 {
		t.Errorf("a later save of the same record is a new entry, got %d items", n)
	}
}

func TestSaveWriteFailureSurfaces(t *testing.T) {
	g := newTestGateway(&memSubstrate{saveSavedErr: errBoom}, &fakeClock{t: time.Now()})

	item, err := g.Save(context.Background(), titled("Villa"))
	var werr *domain.PersistenceWriteError
	if !errors.As(err, &werr) || werr.Collection != domain.CollectionSaved {
		t.Fatalf("Save() error = %v, want saved PersistenceWriteError", err)
	}
	if _, ok := g.SavedProperty(item.ID); !ok {
		t.Error("item should remain in memory after a failed write")
	}

	if err := g.Delete(context.Background(), item.ID); !errors.As(err, &werr) {
		t.Errorf("Delete() error = %v, want PersistenceWriteError", err)
	}
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	tests := []struct {
		name string
		sub  *memSubstrate
	}{
		{name: "healthy storage", sub: &memSubstrate{}},
		{name: "failing storage", sub: &memSubstrate{saveSavedErr: errBoom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(tt.sub, &fakeClock{t: time.Now()})
			if err := g.Delete(context.Background(), "missing"); err != nil {
				t.Errorf("Delete() error = %v, want nil", err)
			}
			if tt.sub.savedWrites != 0 {
				t.Errorf("unknown id should not rewrite the collection, got %d writes", tt.sub.savedWrites)
			}
		})
	}
}

func TestHydrateThenMutateKeepsLoadedItems(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	stored := domain.NewStoredProperty(titled("Loaded"), now.Add(-time.Hour))
	sub := &memSubstrate{saved: []domain.StoredProperty{stored}}
	g := newTestGateway(sub, &fakeClock{t: now})
	ctx := context.Background()

	g.Hydrate(ctx)
	if _, err := g.Save(ctx, titled("Fresh")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	items := g.Saved()
	if len(items) != 2 || items[1].ID != stored.ID {
		t.Errorf("Saved() = %+v, want fresh item then loaded item", items)
	}
	if h, s := g.Counts(); h != 0 || s != 2 {
		t.Errorf("Counts() = %d, %d", h, s)
	}
}
