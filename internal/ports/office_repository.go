package ports

import (
	"context"

	"parcel-tracking-service/internal/domain"
)

// Port: the office directory. Offices are owned externally and immutable
// from this service's perspective.
type OfficeRepository interface {
	// List all offices ordered by name.
	List(ctx context.Context) ([]*domain.Office, error)

	// Retrieve one office. Returns *domain.NotFoundError when absent.
	ByID(ctx context.Context, id string) (*domain.Office, error)
}
