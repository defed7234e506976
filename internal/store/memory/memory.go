// Package memory provides an in-process implementation of the store interfaces,
// used when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
	"github.com/narvanalabs/scalingo-dashboard/internal/store"
)

// DefaultCapacity is the number of records kept before the oldest are dropped.
const DefaultCapacity = 1000

// Store implements store.Store in memory.
type Store struct {
	actions *ActionStore
}

// New creates an in-memory store keeping at most capacity action records.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{actions: &ActionStore{capacity: capacity, ids: make(map[string]struct{})}}
}

// Actions returns the ActionStore.
func (s *Store) Actions() store.ActionStore {
	return s.actions
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// ActionStore implements store.ActionStore in memory.
type ActionStore struct {
	mu       sync.RWMutex
	records  []models.ActionRecord // oldest first
	ids      map[string]struct{}
	capacity int
}

// Create records a lifecycle action.
func (s *ActionStore) Create(_ context.Context, record *models.ActionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[record.ID]; ok {
		return store.ErrDuplicateKey
	}

	s.records = append(s.records, *record)
	s.ids[record.ID] = struct{}{}

	if overflow := len(s.records) - s.capacity; overflow > 0 {
		for _, r := range s.records[:overflow] {
			delete(s.ids, r.ID)
		}
		s.records = append([]models.ActionRecord(nil), s.records[overflow:]...)
	}
	return nil
}

// ListByApp retrieves the most recent actions of one application.
func (s *ActionStore) ListByApp(ctx context.Context, appID string, limit int) ([]*models.ActionRecord, error) {
	return s.ListByApps(ctx, []string{appID}, limit)
}

// ListByApps retrieves the most recent actions across several applications.
func (s *ActionStore) ListByApps(_ context.Context, appIDs []string, limit int) ([]*models.ActionRecord, error) {
	limit = store.NormalizeLimit(limit)

	wanted := make(map[string]struct{}, len(appIDs))
	for _, id := range appIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	matched := []*models.ActionRecord{}
	for i := range s.records {
		if _, ok := wanted[s.records[i].AppID]; ok {
			r := s.records[i]
			matched = append(matched, &r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
