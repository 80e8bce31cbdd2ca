package domain

import (
	"strings"
	"time"
)

// Parcel statuses, listed in the expected forward order of a shipment.
// Transitions are not enforced in sequence: operators may move a parcel
// from any status to any other status to correct mistakes.
const (
	StatusCreated              = "created"
	StatusPickedUp             = "picked_up"
	StatusInTransit            = "in_transit"
	StatusArrivedAtDestination = "arrived_at_destination"
	StatusDelivered            = "delivered"
)

var knownStatuses = map[string]struct{}{
	StatusCreated:              {},
	StatusPickedUp:             {},
	StatusInTransit:            {},
	StatusArrivedAtDestination: {},
	StatusDelivered:            {},
}

// NormalizeStatus lowercases and trims a status value. Stored statuses are
// always normalized; comparisons are therefore case-insensitive.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// KnownStatus reports whether a normalized status belongs to the status set.
func KnownStatus(s string) bool {
	_, ok := knownStatuses[s]
	return ok
}

// Represents a trackable shipment between two offices.
// PaidAtOfficeID is set exactly once, when payment is recorded: at the origin
// office when the parcel is created already paid, or at the destination office
// when an unpaid parcel is delivered.
type Parcel struct {
	ID                  string
	SenderName          string
	SenderPhone         string
	ReceiverName        string
	ReceiverPhone       string
	Destination         string
	Status              string
	Price               float64
	IsPaid              bool
	OriginOfficeID      string
	DestinationOfficeID string
	PaidAtOfficeID      *string
	CreatedByUserID     string
	CreatedAt           time.Time
}
