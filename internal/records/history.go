package records

import (
	"time"

	"github.com/MrSnakeDoc/propintel/internal/domain"
)

// HistoryLog is the most-recent-first, time-windowed log of extractions.
// It is not safe for concurrent use; the Gateway serializes access.
type HistoryLog struct {
	entries   []domain.HistoryEntry
	retention time.Duration
}

// NewHistoryLog creates an empty log. A zero retention falls back to
// domain.HistoryRetention.
func NewHistoryLog(retention time.Duration) *HistoryLog {
	if retention <= 0 {
		retention = domain.HistoryRetention
	}
	return &HistoryLog{
		entries:   []domain.HistoryEntry{},
		retention: retention,
	}
}

// Replace swaps the whole sequence (used on hydration) and prunes it.
// Returns the number of entries dropped by retention.
func (h *HistoryLog) Replace(entries []domain.HistoryEntry, now time.Time) int {
	h.entries = domain.PruneHistory(entries, now, h.retention)
	return len(entries) - len(h.entries)
}

// Append prepends an entry and applies the retention filter.
func (h *HistoryLog) Append(entry domain.HistoryEntry, now time.Time) {
	next := make([]domain.HistoryEntry, 0, len(h.entries)+1)
	next = append(next, entry)
	next = append(next, h.entries...)
	h.entries = domain.PruneHistory(next, now, h.retention)
}

// Prune drops expired entries and returns how many were removed.
func (h *HistoryLog) Prune(now time.Time) int {
	before := len(h.entries)
	h.entries = domain.PruneHistory(h.entries, now, h.retention)
	return before - len(h.entries)
}

// Entries returns a copy of the current sequence.
func (h *HistoryLog) Entries() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Find returns the entry with the given id.
func (h *HistoryLog) Find(id string) (domain.HistoryEntry, bool) {
	for _, e := range h.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.HistoryEntry{}, false
}

// Len returns the number of retained entries.
func (h *HistoryLog) Len() int { return len(h.entries) }
