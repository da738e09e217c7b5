// Package redis persists the two record collections as JSON documents, one
// key per collection, with no expiry.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/propintel/internal/domain"
)

// Store is the Redis-backed substrate for records.Gateway.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// LoadHistory reads the history document. A missing key is an empty history.
func (s *Store) LoadHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries := []domain.HistoryEntry{}
	if err := s.load(ctx, HistoryKey(), &entries); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return entries, nil
}

// SaveHistory overwrites the history document.
func (s *Store) SaveHistory(ctx context.Context, entries []domain.HistoryEntry) error {
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	if err := s.save(ctx, HistoryKey(), entries); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// LoadSaved reads the saved-property document. A missing key is an empty
// collection.
func (s *Store) LoadSaved(ctx context.Context) ([]domain.StoredProperty, error) {
	items := []domain.StoredProperty{}
	if err := s.load(ctx, SavedKey(), &items); err != nil {
		return nil, fmt.Errorf("failed to load saved properties: %w", err)
	}
	return items, nil
}

// SaveSaved overwrites the saved-property document.
func (s *Store) SaveSaved(ctx context.Context, items []domain.StoredProperty) error {
	if items == nil {
		items = []domain.StoredProperty{}
	}
	if err := s.save(ctx, SavedKey(), items); err != nil {
		return fmt.Errorf("failed to save saved properties: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) load(ctx context.Context, key string, dst any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("corrupt document at %s: %w", key, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return s.client.Set(ctx, key, data, 0).Err()
}
