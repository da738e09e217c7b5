package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SourceType tells where the extracted text came from.
type SourceType string

const (
	SourceURL  SourceType = "url"
	SourceText SourceType = "text"
)

const (
	// HistoryRetention is how long an extraction stays in the history log.
	HistoryRetention = 14 * 24 * time.Hour

	// SourceSnippetLength caps the identifier derived from pasted text.
	SourceSnippetLength = 50

	// UntitledName is the display name of a saved record without a title.
	UntitledName = "Untitled Property"

	untitledIDSuffix = "untitled"
)

// HistoryEntry is one successful extraction. Entries are immutable and only
// leave the log through retention expiry.
type HistoryEntry struct {
	ID               string          `json:"id"`
	ExtractedAt      time.Time       `json:"extractedAt"`
	Details          PropertyDetails `json:"details"`
	SourceType       SourceType      `json:"sourceType"`
	SourceIdentifier string          `json:"sourceIdentifier"`
}

// StoredProperty is a record the user explicitly saved.
type StoredProperty struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	StoredAt time.Time       `json:"storedAt"`
	Details  PropertyDetails `json:"details"`
}

// NewHistoryEntry stamps a record with the extraction instant.
// The id is the instant in unix milliseconds, so ids grow with creation order.
func NewHistoryEntry(rec PropertyDetails, source SourceType, identifier string, now time.Time) HistoryEntry {
	at := stamp(now)
	rec.Normalize()
	return HistoryEntry{
		ID:               strconv.FormatInt(at.UnixMilli(), 10),
		ExtractedAt:      at,
		Details:          rec,
		SourceType:       source,
		SourceIdentifier: identifier,
	}
}

// NewStoredProperty builds the saved form of a record. Two saves in the same
// millisecond with the same title get the same id.
func NewStoredProperty(rec PropertyDetails, now time.Time) StoredProperty {
	at := stamp(now)
	rec.Normalize()

	title := rec.Title()
	idSuffix, name := title, title
	if title == "" {
		idSuffix, name = untitledIDSuffix, UntitledName
	}

	return StoredProperty{
		ID:       fmt.Sprintf("%d-%s", at.UnixMilli(), idSuffix),
		Name:     name,
		StoredAt: at,
		Details:  rec,
	}
}

// TextSourceIdentifier shortens pasted text to a history label:
// the first 50 characters, with "..." when something was cut.
func TextSourceIdentifier(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= SourceSnippetLength {
		return text
	}
	return string(runes[:SourceSnippetLength]) + "..."
}

// stamp drops sub-millisecond precision and the monotonic reading so that
// timestamps survive a JSON round trip unchanged.
func stamp(now time.Time) time.Time {
	return now.UTC().Truncate(time.Millisecond)
}
