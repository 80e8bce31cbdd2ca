// Package memstore provides in-memory implementations of the persistence
// ports. They back the unit tests and mirror the ordering and error
// semantics of the postgres adapters.
package memstore

import (
	"context"
	"slices"
	"sync"

	"parcel-tracking-service/internal/domain"
)

// ParcelStore is an in-memory ports.ParcelRepository.
type ParcelStore struct {
	mu      sync.Mutex
	parcels map[string]*domain.Parcel
}

func NewParcelStore() *ParcelStore {
	return &ParcelStore{parcels: make(map[string]*domain.Parcel)}
}

func (s *ParcelStore) Create(ctx context.Context, p *domain.Parcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.parcels[p.ID] = &cp
	return nil
}

func (s *ParcelStore) Get(ctx context.Context, id string) (*domain.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parcels[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "parcel", ID: id}
	}
	cp := *p
	return &cp, nil
}

func (s *ParcelStore) Update(ctx context.Context, p *domain.Parcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.parcels[p.ID]; !ok {
		return &domain.NotFoundError{Resource: "parcel", ID: p.ID}
	}
	cp := *p
	s.parcels[p.ID] = &cp
	return nil
}

func (s *ParcelStore) List(ctx context.Context, officeID string) ([]*domain.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Parcel, 0, len(s.parcels))
	for _, p := range s.parcels {
		if officeID != "" && p.OriginOfficeID != officeID && p.DestinationOfficeID != officeID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.Parcel) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// exists reports whether a parcel id is known; used by the status ledger to
// validate appends.
func (s *ParcelStore) exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.parcels[id]
	return ok
}
