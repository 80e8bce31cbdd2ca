package memstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"parcel-tracking-service/internal/domain"
)

// StatusLedger is an in-memory ports.StatusAudit. When Parcels is set,
// appends validate that the parcel exists, matching the postgres adapter.
// FailAppend forces every append to error, for exercising the best-effort
// contract of the registry.
type StatusLedger struct {
	mu         sync.Mutex
	entries    []*domain.StatusHistoryEntry
	Parcels    *ParcelStore
	FailAppend bool
}

func NewStatusLedger(parcels *ParcelStore) *StatusLedger {
	return &StatusLedger{Parcels: parcels}
}

func (l *StatusLedger) Append(ctx context.Context, e *domain.StatusHistoryEntry) (*domain.StatusHistoryEntry, error) {
	if l.FailAppend {
		return nil, errors.New("status ledger: append unavailable")
	}
	if !domain.KnownStatus(e.NewStatus) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unrecognized status %q", e.NewStatus)}
	}
	if l.Parcels != nil && !l.Parcels.exists(e.ParcelID) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("parcel %q does not exist", e.ParcelID)}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *e
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	if cp.ChangedAt.IsZero() {
		cp.ChangedAt = time.Now().UTC()
	}
	l.entries = append(l.entries, &cp)
	out := cp
	return &out, nil
}

func (l *StatusLedger) ListForParcel(ctx context.Context, parcelID string) ([]*domain.StatusHistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*domain.StatusHistoryEntry, 0, 4)
	for _, e := range l.entries {
		if e.ParcelID == parcelID {
			cp := *e
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *domain.StatusHistoryEntry) int {
		return b.ChangedAt.Compare(a.ChangedAt)
	})
	return out, nil
}
