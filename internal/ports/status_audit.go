package ports

import (
	"context"

	"parcel-tracking-service/internal/domain"
)

// Port: the append-only status-history ledger. There is no update or delete
// operation by design.
type StatusAudit interface {
	// Append inserts one history entry and returns it with the assigned id
	// and timestamp. Fails with *domain.ValidationError if the parcel does
	// not exist or the new status is not recognized.
	Append(ctx context.Context, e *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error)

	// ListForParcel returns a parcel's history newest-first. A parcel with
	// no history yields an empty slice, not an error.
	ListForParcel(ctx context.Context, parcelID string) ([]*domain.StatusHistoryEntry, error)
}
