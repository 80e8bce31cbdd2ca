package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/ports"
)

// ParcelRegistry owns parcel records and their status transitions.
//
// Status history is recorded through the best-effort audit sink: a history
// append failure never rolls back or blocks the parcel write. Event
// publication is equally fire-and-forget.
type ParcelRegistry struct {
	Repo   ports.ParcelRepository
	Audit  *BestEffortAudit
	Events ports.EventPublisher
}

type CreateParcelRequest struct {
	SenderName          string
	SenderPhone         string
	ReceiverName        string
	ReceiverPhone       string
	Destination         string
	Price               float64
	IsPaid              bool
	OriginOfficeID      string
	DestinationOfficeID string
	CreatedByUserID     string
}

func (r CreateParcelRequest) validate() error {
	missing := ""
	switch {
	case r.SenderName == "":
		missing = "senderName"
	case r.ReceiverName == "":
		missing = "receiverName"
	case r.Destination == "":
		missing = "destination"
	case r.OriginOfficeID == "":
		missing = "originOfficeId"
	case r.DestinationOfficeID == "":
		missing = "destinationOfficeId"
	}
	if missing != "" {
		return &domain.ValidationError{Message: missing + " is required"}
	}
	return nil
}

// Create persists a new parcel in status "created", appends the creation
// history entry (best-effort) and notifies the destination office's room.
func (s *ParcelRegistry) Create(ctx context.Context, req CreateParcelRequest) (*domain.Parcel, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	p := &domain.Parcel{
		ID:                  uuid.NewString(),
		SenderName:          req.SenderName,
		SenderPhone:         req.SenderPhone,
		ReceiverName:        req.ReceiverName,
		ReceiverPhone:       req.ReceiverPhone,
		Destination:         req.Destination,
		Status:              domain.StatusCreated,
		Price:               req.Price,
		IsPaid:              req.IsPaid,
		OriginOfficeID:      req.OriginOfficeID,
		DestinationOfficeID: req.DestinationOfficeID,
		CreatedByUserID:     req.CreatedByUserID,
		CreatedAt:           time.Now().UTC(),
	}
	// A parcel paid up front is paid at its origin office.
	if p.IsPaid {
		origin := p.OriginOfficeID
		p.PaidAtOfficeID = &origin
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create parcel: persist: %w", err)
	}

	s.Audit.Record(ctx, &domain.StatusHistoryEntry{
		ParcelID:        p.ID,
		OldStatus:       nil,
		NewStatus:       domain.StatusCreated,
		ChangedByUserID: req.CreatedByUserID,
		OfficeID:        req.OriginOfficeID,
		ChangedAt:       p.CreatedAt,
	})

	s.Events.PublishToOffice(p.DestinationOfficeID, domain.EventNewParcel, domain.NewParcelEvent{
		ParcelID:            p.ID,
		SenderName:          p.SenderName,
		Destination:         p.Destination,
		OriginOfficeID:      p.OriginOfficeID,
		DestinationOfficeID: p.DestinationOfficeID,
	})

	return p, nil
}

// UpdateStatus moves a parcel to a new status. Any status may move to any
// other status so operators can correct mistakes. Delivering an unpaid
// parcel records payment at the destination office.
//
// A history entry is appended only when the status actually changed, and
// only best-effort. Concurrent updates to the same parcel are
// last-write-wins on the stored status; the ledger preserves the order in
// which appends arrived, which may diverge under concurrent writers.
func (s *ParcelRegistry) UpdateStatus(ctx context.Context, parcelID, newStatus, notes, actingUserID, actingOfficeID string) (*domain.Parcel, error) {
	status := domain.NormalizeStatus(newStatus)
	if status == "" {
		return nil, &domain.ValidationError{Message: "status is required"}
	}
	if !domain.KnownStatus(status) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unrecognized status %q", status)}
	}

	p, err := s.Repo.Get(ctx, parcelID)
	if err != nil {
		return nil, err
	}

	previous := p.Status
	p.Status = status

	if status == domain.StatusDelivered && !p.IsPaid {
		p.IsPaid = true
		dest := p.DestinationOfficeID
		p.PaidAtOfficeID = &dest
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update parcel status: persist: %w", err)
	}

	if status != previous {
		prev := previous
		s.Audit.Record(ctx, &domain.StatusHistoryEntry{
			ParcelID:        p.ID,
			OldStatus:       &prev,
			NewStatus:       status,
			ChangedByUserID: actingUserID,
			OfficeID:        actingOfficeID,
			Notes:           notes,
			ChangedAt:       time.Now().UTC(),
		})
	}

	return p, nil
}

// List returns parcels newest-first. An empty officeID lists everything;
// otherwise only parcels where the office is origin or destination.
func (s *ParcelRegistry) List(ctx context.Context, officeID string) ([]*domain.Parcel, error) {
	parcels, err := s.Repo.List(ctx, officeID)
	if err != nil {
		return nil, fmt.Errorf("list parcels: %w", err)
	}
	return parcels, nil
}

// Get retrieves one parcel by id.
func (s *ParcelRegistry) Get(ctx context.Context, parcelID string) (*domain.Parcel, error) {
	return s.Repo.Get(ctx, parcelID)
}

// History returns a parcel's status trail newest-first.
func (s *ParcelRegistry) History(ctx context.Context, parcelID string) ([]*domain.StatusHistoryEntry, error) {
	entries, err := s.Audit.History(ctx, parcelID)
	if err != nil {
		return nil, fmt.Errorf("parcel history: %w", err)
	}
	return entries, nil
}
