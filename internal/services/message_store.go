package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/ports"
)

// MessageStore owns inter-office messages and their read state.
type MessageStore struct {
	Repo   ports.MessageRepository
	Users  ports.UserRepository
	Events ports.EventPublisher
}

type CreateMessageRequest struct {
	ToOfficeID      string
	Subject         string
	Content         string
	RelatedParcelID *string
}

// Create persists a message from the sender's office to another office and
// notifies the receiving office's room with the fully resolved message.
// The sending office is derived from the sending user, never trusted from
// the request.
func (s *MessageStore) Create(ctx context.Context, fromUserID string, req CreateMessageRequest) (*domain.Message, error) {
	switch {
	case req.ToOfficeID == "":
		return nil, &domain.ValidationError{Message: "toOfficeId is required"}
	case req.Subject == "":
		return nil, &domain.ValidationError{Message: "subject is required"}
	case req.Content == "":
		return nil, &domain.ValidationError{Message: "content is required"}
	}

	sender, err := s.Users.ByID(ctx, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("create message: resolve sender: %w", err)
	}
	if sender.OfficeID == nil || *sender.OfficeID == "" {
		return nil, &domain.ValidationError{Message: "sender must belong to an office"}
	}
	if *sender.OfficeID == req.ToOfficeID {
		return nil, &domain.ValidationError{Message: "an office cannot message itself"}
	}

	now := time.Now().UTC()
	m := &domain.Message{
		ID:              uuid.NewString(),
		FromOfficeID:    *sender.OfficeID,
		ToOfficeID:      req.ToOfficeID,
		FromUserID:      fromUserID,
		Subject:         req.Subject,
		Content:         req.Content,
		RelatedParcelID: req.RelatedParcelID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: persist: %w", err)
	}

	s.Events.PublishToOffice(m.ToOfficeID, domain.EventNewMessage, domain.MessageEvent(m))

	return m, nil
}

// ListReceived returns an office's inbox, newest-first.
func (s *MessageStore) ListReceived(ctx context.Context, officeID string) ([]*domain.Message, error) {
	msgs, err := s.Repo.ListReceived(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("list received messages: %w", err)
	}
	return msgs, nil
}

// ListSent returns an office's outbox, newest-first.
func (s *MessageStore) ListSent(ctx context.Context, officeID string) ([]*domain.Message, error) {
	msgs, err := s.Repo.ListSent(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("list sent messages: %w", err)
	}
	return msgs, nil
}

// ListConversation returns all messages between two offices in either
// direction, oldest-first.
func (s *MessageStore) ListConversation(ctx context.Context, officeA, officeB string) ([]*domain.Message, error) {
	msgs, err := s.Repo.ListConversation(ctx, officeA, officeB)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	return msgs, nil
}

// MarkRead sets the read timestamp of a message addressed to the acting
// office. Re-marking an already-read message overwrites the timestamp; that
// is deliberate, not an error.
func (s *MessageStore) MarkRead(ctx context.Context, messageID, actingOfficeID string) (*domain.Message, error) {
	m, err := s.Repo.Get(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.ToOfficeID != actingOfficeID {
		return nil, &domain.ForbiddenError{Message: "only the receiving office may mark a message read"}
	}

	now := time.Now().UTC()
	if err := s.Repo.MarkRead(ctx, messageID, now); err != nil {
		return nil, fmt.Errorf("mark message read: %w", err)
	}
	m.ReadAt = &now
	m.UpdatedAt = now
	return m, nil
}

// UnreadCount counts messages addressed to the office that have no read
// timestamp yet.
func (s *MessageStore) UnreadCount(ctx context.Context, officeID string) (int, error) {
	n, err := s.Repo.UnreadCount(ctx, officeID)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return n, nil
}
