package domain

import "time"

// StatusHistoryEntry is one record in a parcel's append-only audit trail.
// OldStatus is nil only for the creation entry. Entries are never mutated
// or deleted once written.
type StatusHistoryEntry struct {
	ID              string
	ParcelID        string
	OldStatus       *string
	NewStatus       string
	ChangedByUserID string
	OfficeID        string
	Notes           string
	ChangedAt       time.Time
}
