package realtime

import (
	"context"
	"slices"
	"sync"

	"github.com/samber/lo"
)

type presenceEntry struct {
	UserID string
	Role   string
}

// Tracker is the in-process presence store: one entry per connection,
// removed on disconnect. Connections are tracked independently rather than
// de-duplicated by user; a user is online while any connection remains.
//
// Tracker implements ports.PresenceStore and is safe for concurrent use.
// The context parameters exist for the port; the in-memory variant never
// touches I/O.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]presenceEntry // connection id -> entry
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]presenceEntry)}
}

func (t *Tracker) MarkOnline(ctx context.Context, connID, userID, role string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[connID] = presenceEntry{UserID: userID, Role: role}
	return t.snapshotLocked(), nil
}

func (t *Tracker) MarkOffline(ctx context.Context, connID string) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[connID]
	if !ok {
		return "", false, nil
	}
	delete(t.entries, connID)

	for _, remaining := range t.entries {
		if remaining.UserID == entry.UserID {
			return entry.UserID, false, nil
		}
	}
	return entry.UserID, true, nil
}

func (t *Tracker) Snapshot(ctx context.Context) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked(), nil
}

func (t *Tracker) snapshotLocked() []string {
	ids := lo.Uniq(lo.Map(lo.Values(t.entries), func(e presenceEntry, _ int) string {
		return e.UserID
	}))
	slices.Sort(ids)
	return ids
}
