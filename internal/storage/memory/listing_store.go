// Package memory provides process-local stores for development and tests.
// Data is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

// ListingStore keeps listings in a map
type ListingStore struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing
	seq      int64
	order    map[string]int64
}

func NewListingStore() *ListingStore {
	return &ListingStore{
		listings: make(map[string]*domain.Listing),
		order:    make(map[string]int64),
	}
}

func (s *ListingStore) List(_ context.Context, limit int) ([]*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, cloneListing(l))
	}
	// insertion sequence stands in for ObjectID ordering
	sort.Slice(out, func(i, j int) bool {
		return s.order[out[i].ID] > s.order[out[j].ID]
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ListingStore) Get(_ context.Context, id string) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneListing(l), nil
}

func (s *ListingStore) Create(_ context.Context, l *domain.Listing) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := cloneListing(l)
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.seq++
	s.listings[stored.ID] = stored
	s.order[stored.ID] = s.seq

	l.ID = stored.ID
	l.CreatedAt = now
	l.UpdatedAt = now
	return stored.ID, nil
}

func (s *ListingStore) Update(_ context.Context, id string, f domain.ListingFields) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	l.Apply(f)
	l.UpdatedAt = time.Now().UTC()
	return cloneListing(l), nil
}

func (s *ListingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.listings, id)
	delete(s.order, id)
	return nil
}

// DeleteAll removes every listing
func (s *ListingStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.listings))
	s.listings = make(map[string]*domain.Listing)
	s.order = make(map[string]int64)
	return n, nil
}

func cloneListing(l *domain.Listing) *domain.Listing {
	c := *l
	if l.Reviews != nil {
		c.Reviews = append([]string(nil), l.Reviews...)
	}
	return &c
}
