package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"parcel-tracking-service/internal/domain"
)

// MessageStore is an in-memory ports.MessageRepository. Display references
// are resolved against the linked user, office and parcel stores when those
// are set.
type MessageStore struct {
	mu       sync.Mutex
	messages map[string]*domain.Message

	Users   *UserStore
	Offices *OfficeStore
	Parcels *ParcelStore
}

func NewMessageStore(users *UserStore, offices *OfficeStore, parcels *ParcelStore) *MessageStore {
	return &MessageStore{
		messages: make(map[string]*domain.Message),
		Users:    users,
		Offices:  offices,
		Parcels:  parcels,
	}
}

func (s *MessageStore) Create(ctx context.Context, m *domain.Message) error {
	s.mu.Lock()
	cp := *m
	s.messages[m.ID] = &cp
	s.mu.Unlock()

	s.resolve(m)
	return nil
}

func (s *MessageStore) Get(ctx context.Context, id string) (*domain.Message, error) {
	s.mu.Lock()
	m, ok := s.messages[id]
	if !ok {
		s.mu.Unlock()
		return nil, &domain.NotFoundError{Resource: "message", ID: id}
	}
	cp := *m
	s.mu.Unlock()

	s.resolve(&cp)
	return &cp, nil
}

func (s *MessageStore) MarkRead(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return &domain.NotFoundError{Resource: "message", ID: id}
	}
	t := at
	m.ReadAt = &t
	m.UpdatedAt = at
	return nil
}

func (s *MessageStore) ListReceived(ctx context.Context, officeID string) ([]*domain.Message, error) {
	return s.list(func(m *domain.Message) bool { return m.ToOfficeID == officeID }, false), nil
}

func (s *MessageStore) ListSent(ctx context.Context, officeID string) ([]*domain.Message, error) {
	return s.list(func(m *domain.Message) bool { return m.FromOfficeID == officeID }, false), nil
}

func (s *MessageStore) ListConversation(ctx context.Context, officeA, officeB string) ([]*domain.Message, error) {
	match := func(m *domain.Message) bool {
		return (m.FromOfficeID == officeA && m.ToOfficeID == officeB) ||
			(m.FromOfficeID == officeB && m.ToOfficeID == officeA)
	}
	return s.list(match, true), nil
}

func (s *MessageStore) UnreadCount(ctx context.Context, officeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.messages {
		if m.ToOfficeID == officeID && m.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

func (s *MessageStore) list(match func(*domain.Message) bool, ascending bool) []*domain.Message {
	s.mu.Lock()
	out := make([]*domain.Message, 0, len(s.messages))
	for _, m := range s.messages {
		if match(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b *domain.Message) int {
		if ascending {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	for _, m := range out {
		s.resolve(m)
	}
	return out
}

func (s *MessageStore) resolve(m *domain.Message) {
	if s.Offices != nil {
		if o, err := s.Offices.ByID(context.Background(), m.FromOfficeID); err == nil {
			m.FromOffice = &domain.OfficeRef{ID: o.ID, Name: o.Name, Country: o.Country}
		}
		if o, err := s.Offices.ByID(context.Background(), m.ToOfficeID); err == nil {
			m.ToOffice = &domain.OfficeRef{ID: o.ID, Name: o.Name, Country: o.Country}
		}
	}
	if s.Users != nil {
		if u, err := s.Users.ByID(context.Background(), m.FromUserID); err == nil {
			m.FromUser = &domain.UserRef{ID: u.ID, FullName: u.FullName, Email: u.Email}
		}
	}
	if s.Parcels != nil && m.RelatedParcelID != nil {
		if p, err := s.Parcels.Get(context.Background(), *m.RelatedParcelID); err == nil {
			m.RelatedParcel = &domain.ParcelRef{
				ID:           p.ID,
				SenderName:   p.SenderName,
				ReceiverName: p.ReceiverName,
				Destination:  p.Destination,
				Status:       p.Status,
			}
		}
	}
}
