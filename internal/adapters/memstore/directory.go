package memstore

import (
	"context"
	"slices"
	"sync"

	"parcel-tracking-service/internal/domain"
)

// UserStore is an in-memory ports.UserRepository.
type UserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*domain.User)}
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return &domain.ConflictError{Message: "email already registered"}
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *UserStore) ByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "user", ID: id}
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "user", ID: email}
}

func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.User) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// OfficeStore is an in-memory ports.OfficeRepository.
type OfficeStore struct {
	mu      sync.Mutex
	offices map[string]*domain.Office
}

func NewOfficeStore(offices ...*domain.Office) *OfficeStore {
	s := &OfficeStore{offices: make(map[string]*domain.Office, len(offices))}
	for _, o := range offices {
		cp := *o
		s.offices[o.ID] = &cp
	}
	return s
}

func (s *OfficeStore) List(ctx context.Context) ([]*domain.Office, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Office, 0, len(s.offices))
	for _, o := range s.offices {
		cp := *o
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.Office) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *OfficeStore) ByID(ctx context.Context, id string) (*domain.Office, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.offices[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "office", ID: id}
	}
	cp := *o
	return &cp, nil
}
