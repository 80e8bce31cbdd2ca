package ports

import (
	"context"

	"parcel-tracking-service/internal/domain"
)

// Port: the user directory. Lookups return *domain.NotFoundError when the
// user does not exist.
type UserRepository interface {
	// Persist a new user. Returns *domain.ConflictError when the email is
	// already registered.
	Create(ctx context.Context, u *domain.User) error

	ByID(ctx context.Context, id string) (*domain.User, error)
	ByEmail(ctx context.Context, email string) (*domain.User, error)

	// List all users, newest-first.
	List(ctx context.Context) ([]*domain.User, error)
}
