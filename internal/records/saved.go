package records

import "github.com/MrSnakeDoc/propintel/internal/domain"

// SavedStore is the user-curated collection, most recently saved first.
// It is not safe for concurrent use; the Gateway serializes access.
type SavedStore struct {
	items []domain.StoredProperty
}

// NewSavedStore creates an empty store.
func NewSavedStore() *SavedStore {
	return &SavedStore{items: []domain.StoredProperty{}}
}

// Replace swaps the whole collection (used on hydration).
func (s *SavedStore) Replace(items []domain.StoredProperty) {
	if items == nil {
		items = []domain.StoredProperty{}
	}
	s.items = items
}

// Upsert drops any item with the same id, then prepends the new one.
func (s *SavedStore) Upsert(item domain.StoredProperty) {
	next := make([]domain.StoredProperty, 0, len(s.items)+1)
	next = append(next, item)
	for _, existing := range s.items {
		if existing.ID != item.ID {
			next = append(next, existing)
		}
	}
	s.items = next
}

// Delete removes the item with the given id. Reports whether it existed.
func (s *SavedStore) Delete(id string) bool {
	next := make([]domain.StoredProperty, 0, len(s.items))
	for _, existing := range s.items {
		if existing.ID != id {
			next = append(next, existing)
		}
	}
	removed := len(next) != len(s.items)
	s.items = next
	return removed
}

// Items returns a copy of the collection.
func (s *SavedStore) Items() []domain.StoredProperty {
	out := make([]domain.StoredProperty, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the item with the given id.
func (s *SavedStore) Find(id string) (domain.StoredProperty, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.StoredProperty{}, false
}

// Len returns the number of saved items.
func (s *SavedStore) Len() int { return len(s.items) }
