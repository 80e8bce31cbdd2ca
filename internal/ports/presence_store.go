package ports

import "context"

// Port: tracks which users currently hold a live realtime connection.
//
// State is keyed by connection id, not user id: one user may hold zero or
// many simultaneous connections, and each is tracked independently. A user
// is online iff at least one live connection maps to them.
type PresenceStore interface {
	// MarkOnline registers a connection for a user and returns the distinct
	// set of online user ids, sorted.
	MarkOnline(ctx context.Context, connID, userID, role string) ([]string, error)

	// MarkOffline removes a connection if present (a no-op, not an error,
	// for an unknown connection). It returns the user the connection
	// belonged to and whether that user now has no remaining connections.
	MarkOffline(ctx context.Context, connID string) (userID string, wentOffline bool, err error)

	// Snapshot returns the distinct set of online user ids, sorted.
	Snapshot(ctx context.Context) ([]string, error)
}
