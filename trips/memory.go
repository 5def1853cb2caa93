package trips

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory Store used by tests and local runs. It mirrors
// DynamoStore semantics, including idempotent deletes.
type MemStore struct {
	mu    sync.RWMutex
	items map[int64]map[string]Trip
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{items: map[int64]map[string]Trip{}}
}

func (s *MemStore) Save(_ context.Context, trip Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip.ShardKey = searchShardKey
	owned := s.items[trip.OwnerID]
	if owned == nil {
		owned = map[string]Trip{}
		s.items[trip.OwnerID] = owned
	}
	owned[trip.TripID] = trip
	return nil
}

func (s *MemStore) Delete(_ context.Context, ownerID int64, tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items[ownerID], tripID)
	return nil
}

func (s *MemStore) ListByOwner(_ context.Context, ownerID int64) ([]Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []Trip
	for _, trip := range s.items[ownerID] {
		list = append(list, trip)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TripID < list[j].TripID })
	return list, nil
}

func (s *MemStore) SearchByMonth(_ context.Context, dst Destination, year, month int) ([]Trip, error) {
	first, last := MonthRange(year, month)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []Trip
	for _, owned := range s.items {
		for _, trip := range owned {
			date := trip.DateFor(dst)
			if date >= first && date <= last {
				list = append(list, trip)
			}
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].DateFor(dst) != list[j].DateFor(dst) {
			return list[i].DateFor(dst) < list[j].DateFor(dst)
		}
		return list[i].TripID < list[j].TripID
	})
	return list, nil
}
