package domain

import "time"

// Office is a physical shipping location. It is the tenancy boundary for
// visibility of parcels and messages, and the unit a notification room is
// keyed by.
type Office struct {
	ID          string
	Name        string
	Country     string
	CountryCode string
	Address     string
	Phone       string
	CreatedAt   time.Time
}
