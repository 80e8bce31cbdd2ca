package ports

import (
	"context"

	"parcel-tracking-service/internal/domain"
)

// Port: a boundary for storing and retrieving Parcel entities.
type ParcelRepository interface {
	// Persist a new parcel. The id is assigned by the caller.
	Create(ctx context.Context, p *domain.Parcel) error

	// Retrieve one parcel. Returns *domain.NotFoundError when absent.
	Get(ctx context.Context, id string) (*domain.Parcel, error)

	// Persist the mutable fields of an existing parcel. The write is a
	// single statement, atomic at the storage layer; concurrent updates
	// are last-write-wins.
	Update(ctx context.Context, p *domain.Parcel) error

	// List parcels ordered by creation time descending. An empty officeID
	// lists everything; otherwise only parcels where the office is origin
	// or destination.
	List(ctx context.Context, officeID string) ([]*domain.Parcel, error)
}
