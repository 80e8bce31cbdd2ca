package dto

import (
	"time"

	"parcel-tracking-service/internal/domain"
)

type OfficeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	CountryCode string    `json:"countryCode"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewOfficeResponse(o *domain.Office) OfficeResponse {
	return OfficeResponse{
		ID:          o.ID,
		Name:        o.Name,
		Country:     o.Country,
		CountryCode: o.CountryCode,
		Address:     o.Address,
		Phone:       o.Phone,
		CreatedAt:   o.CreatedAt,
	}
}
