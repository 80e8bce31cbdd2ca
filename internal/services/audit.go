package services

import (
	"context"
	"log"

	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/ports"
)

// BestEffortAudit records status history without ever failing the mutation
// that triggered it. The parcel write is the operation of record; the trail
// is secondary, so append errors are logged as warnings and swallowed.
//
// The tradeoff lives here, as an injected capability, so a stricter
// transactional variant can replace it without touching the registry.
type BestEffortAudit struct {
	Ledger ports.StatusAudit
}

// Record appends one history entry, logging instead of returning on failure.
func (a *BestEffortAudit) Record(ctx context.Context, e *domain.StatusHistoryEntry) {
	if _, err := a.Ledger.Append(ctx, e); err != nil {
		old := "<nil>"
		if e.OldStatus != nil {
			old = *e.OldStatus
		}
		log.Printf(
			"status audit append failed: parcel_id=%s old_status=%s new_status=%s err=%v",
			e.ParcelID, old, e.NewStatus, err,
		)
	}
}

// History returns a parcel's audit trail newest-first.
func (a *BestEffortAudit) History(ctx context.Context, parcelID string) ([]*domain.StatusHistoryEntry, error) {
	return a.Ledger.ListForParcel(ctx, parcelID)
}
