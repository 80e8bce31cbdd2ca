package dto

import (
	"time"

	"parcel-tracking-service/internal/domain"
)

type CreateParcelRequest struct {
	SenderName          string  `json:"senderName" validate:"required"`
	SenderPhone         string  `json:"senderPhone"`
	ReceiverName        string  `json:"receiverName" validate:"required"`
	ReceiverPhone       string  `json:"receiverPhone"`
	Destination         string  `json:"destination" validate:"required"`
	Price               float64 `json:"price" validate:"gte=0"`
	IsPaid              bool    `json:"isPaid"`
	OriginOfficeID      string  `json:"originOfficeId" validate:"required"`
	DestinationOfficeID string  `json:"destinationOfficeId" validate:"required"`
}

type UpdateParcelStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type ParcelResponse struct {
	ID                  string    `json:"id"`
	SenderName          string    `json:"senderName"`
	SenderPhone         string    `json:"senderPhone"`
	ReceiverName        string    `json:"receiverName"`
	ReceiverPhone       string    `json:"receiverPhone"`
	Destination         string    `json:"destination"`
	Status              string    `json:"status"`
	Price               float64   `json:"price"`
	IsPaid              bool      `json:"isPaid"`
	OriginOfficeID      string    `json:"originOfficeId"`
	DestinationOfficeID string    `json:"destinationOfficeId"`
	PaidAtOfficeID      *string   `json:"paidAtOfficeId"`
	CreatedAt           time.Time `json:"createdAt"`
}

func NewParcelResponse(p *domain.Parcel) ParcelResponse {
	return ParcelResponse{
		ID:                  p.ID,
		SenderName:          p.SenderName,
		SenderPhone:         p.SenderPhone,
		ReceiverName:        p.ReceiverName,
		ReceiverPhone:       p.ReceiverPhone,
		Destination:         p.Destination,
		Status:              p.Status,
		Price:               p.Price,
		IsPaid:              p.IsPaid,
		OriginOfficeID:      p.OriginOfficeID,
		DestinationOfficeID: p.DestinationOfficeID,
		PaidAtOfficeID:      p.PaidAtOfficeID,
		CreatedAt:           p.CreatedAt,
	}
}

type StatusHistoryEntryResponse struct {
	ID              string    `json:"id"`
	ParcelID        string    `json:"parcelId"`
	OldStatus       *string   `json:"oldStatus"`
	NewStatus       string    `json:"newStatus"`
	ChangedByUserID string    `json:"changedByUserId"`
	OfficeID        string    `json:"officeId"`
	Notes           string    `json:"notes"`
	ChangedAt       time.Time `json:"changedAt"`
}

func NewStatusHistoryResponse(entries []*domain.StatusHistoryEntry) []StatusHistoryEntryResponse {
	out := make([]StatusHistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, StatusHistoryEntryResponse{
			ID:              e.ID,
			ParcelID:        e.ParcelID,
			OldStatus:       e.OldStatus,
			NewStatus:       e.NewStatus,
			ChangedByUserID: e.ChangedByUserID,
			OfficeID:        e.OfficeID,
			Notes:           e.Notes,
			ChangedAt:       e.ChangedAt,
		})
	}
	return out
}
