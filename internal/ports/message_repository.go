package ports

import (
	"context"
	"time"

	"parcel-tracking-service/internal/domain"
)

// Port: a boundary for storing inter-office messages and their read state.
// Read operations return messages with their display references (offices,
// sender, related parcel summary) resolved.
type MessageRepository interface {
	// Persist a new message and populate its display references in place.
	Create(ctx context.Context, m *domain.Message) error

	// Retrieve one resolved message. Returns *domain.NotFoundError when
	// absent.
	Get(ctx context.Context, id string) (*domain.Message, error)

	// Set the read timestamp. Overwrites any previous value; marking an
	// already-read message again is not an error.
	MarkRead(ctx context.Context, id string, at time.Time) error

	// Inbox and outbox of an office, newest-first.
	ListReceived(ctx context.Context, officeID string) ([]*domain.Message, error)
	ListSent(ctx context.Context, officeID string) ([]*domain.Message, error)

	// All messages between two offices in either direction, oldest-first
	// (chronological replay).
	ListConversation(ctx context.Context, officeA, officeB string) ([]*domain.Message, error)

	// Count of unread messages addressed to an office.
	UnreadCount(ctx context.Context, officeID string) (int, error)
}
