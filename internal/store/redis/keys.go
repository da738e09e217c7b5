package redis

const (
	// KeyPrefix namespaces every key this service writes.
	KeyPrefix = "propintel:"
	// KeyHistory holds the JSON-encoded extraction history.
	KeyHistory = KeyPrefix + "propertyExtractionHistory"
	// KeySaved holds the JSON-encoded saved-property collection.
	KeySaved = KeyPrefix + "storedPropertyIntel"
)

// HistoryKey returns the Redis key for the extraction history
func HistoryKey() string {
	return KeyHistory
}

// SavedKey returns the Redis key for the saved properties
func SavedKey() string {
	return KeySaved
}
