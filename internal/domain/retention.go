package domain

import "time"

// PruneHistory keeps the entries extracted at or after now - retention.
// Order is preserved and the input slice is left untouched.
func PruneHistory(entries []HistoryEntry, now time.Time, retention time.Duration) []HistoryEntry {
	cutoff := now.Add(-retention)

	kept := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.ExtractedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
