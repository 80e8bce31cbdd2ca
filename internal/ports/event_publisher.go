package ports

// Port: fire-and-forget fan-out of domain events to connected offices.
//
// Implementations provide no acknowledgement, no retry and no persistence.
// Publishing never blocks the mutation that triggered it and never surfaces
// an error to the caller; notifications are advisory, the registries remain
// the authoritative state.
type EventPublisher interface {
	// PublishToOffice delivers the event to every connection currently
	// joined to the office's room.
	PublishToOffice(officeID, event string, payload any)

	// Broadcast delivers the event to all connections regardless of room.
	// Used for presence events only.
	Broadcast(event string, payload any)
}
