package dto

import (
	"time"

	"parcel-tracking-service/internal/domain"
)

type CreateMessageRequest struct {
	ToOfficeID      string  `json:"toOfficeId" validate:"required"`
	Subject         string  `json:"subject" validate:"required"`
	Content         string  `json:"content" validate:"required"`
	RelatedParcelID *string `json:"relatedParcelId"`
}

type OfficeRefResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type UserRefResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type ParcelRefResponse struct {
	ID           string `json:"id"`
	SenderName   string `json:"senderName"`
	ReceiverName string `json:"receiverName"`
	Destination  string `json:"destination"`
	Status       string `json:"status"`
}

type MessageResponse struct {
	ID              string             `json:"id"`
	FromOfficeID    string             `json:"fromOfficeId"`
	ToOfficeID      string             `json:"toOfficeId"`
	FromUserID      string             `json:"fromUserId"`
	Subject         string             `json:"subject"`
	Content         string             `json:"content"`
	RelatedParcelID *string            `json:"relatedParcelId"`
	ReadAt          *time.Time         `json:"readAt"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	FromOffice      *OfficeRefResponse `json:"fromOffice"`
	ToOffice        *OfficeRefResponse `json:"toOffice"`
	FromUser        *UserRefResponse   `json:"fromUser"`
	RelatedParcel   *ParcelRefResponse `json:"relatedParcel"`
}

func NewMessageResponse(m *domain.Message) MessageResponse {
	res := MessageResponse{
		ID:              m.ID,
		FromOfficeID:    m.FromOfficeID,
		ToOfficeID:      m.ToOfficeID,
		FromUserID:      m.FromUserID,
		Subject:         m.Subject,
		Content:         m.Content,
		RelatedParcelID: m.RelatedParcelID,
		ReadAt:          m.ReadAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.FromOffice != nil {
		res.FromOffice = &OfficeRefResponse{ID: m.FromOffice.ID, Name: m.FromOffice.Name, Country: m.FromOffice.Country}
	}
	if m.ToOffice != nil {
		res.ToOffice = &OfficeRefResponse{ID: m.ToOffice.ID, Name: m.ToOffice.Name, Country: m.ToOffice.Country}
	}
	if m.FromUser != nil {
		res.FromUser = &UserRefResponse{ID: m.FromUser.ID, FullName: m.FromUser.FullName, Email: m.FromUser.Email}
	}
	if m.RelatedParcel != nil {
		res.RelatedParcel = &ParcelRefResponse{
			ID:           m.RelatedParcel.ID,
			SenderName:   m.RelatedParcel.SenderName,
			ReceiverName: m.RelatedParcel.ReceiverName,
			Destination:  m.RelatedParcel.Destination,
			Status:       m.RelatedParcel.Status,
		}
	}
	return res
}

func NewMessageListResponse(msgs []*domain.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewMessageResponse(m))
	}
	return out
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}
