package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"parcel-tracking-service/internal/adapters/memstore"
	"parcel-tracking-service/internal/domain"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	OfficeID  string // empty for broadcasts
	Event     string
	Payload   any
	Broadcast bool
}

func (p *recordingPublisher) PublishToOffice(officeID, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{OfficeID: officeID, Event: event, Payload: payload})
}

func (p *recordingPublisher) Broadcast(event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Event: event, Payload: payload, Broadcast: true})
}

func (p *recordingPublisher) recorded() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

func newTestRegistry() (*ParcelRegistry, *memstore.StatusLedger, *recordingPublisher) {
	parcels := memstore.NewParcelStore()
	ledger := memstore.NewStatusLedger(parcels)
	publisher := &recordingPublisher{}
	registry := &ParcelRegistry{
		Repo:   parcels,
		Audit:  &BestEffortAudit{Ledger: ledger},
		Events: publisher,
	}
	return registry, ledger, publisher
}

func validCreateRequest() CreateParcelRequest {
	return CreateParcelRequest{
		SenderName:          "Ivan Petrov",
		SenderPhone:         "+359 88 123",
		ReceiverName:        "Maria Ilieva",
		ReceiverPhone:       "+44 77 456",
		Destination:         "London",
		Price:               25.50,
		OriginOfficeID:      "office-sofia",
		DestinationOfficeID: "office-london",
		CreatedByUserID:     "user-1",
	}
}

func TestParcelRegistryCreate(t *testing.T) {
	registry, _, publisher := newTestRegistry()

	p, err := registry.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID == "" {
		t.Fatal("expected generated parcel id")
	}
	if p.Status != domain.StatusCreated {
		t.Fatalf("status = %q, want %q", p.Status, domain.StatusCreated)
	}
	if p.IsPaid || p.PaidAtOfficeID != nil {
		t.Fatalf("unpaid parcel got payment fields: isPaid=%v paidAt=%v", p.IsPaid, p.PaidAtOfficeID)
	}

	history, err := registry.History(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].OldStatus != nil {
		t.Errorf("creation entry OldStatus = %v, want nil", *history[0].OldStatus)
	}
	if history[0].NewStatus != domain.StatusCreated {
		t.Errorf("creation entry NewStatus = %q, want %q", history[0].NewStatus, domain.StatusCreated)
	}

	events := publisher.recorded()
	if len(events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(events))
	}
	if events[0].Event != domain.EventNewParcel {
		t.Errorf("event = %q, want %q", events[0].Event, domain.EventNewParcel)
	}
	if events[0].OfficeID != "office-london" {
		t.Errorf("event office = %q, want destination office", events[0].OfficeID)
	}
}

func TestParcelRegistryCreateValidation(t *testing.T) {
	registry, _, _ := newTestRegistry()

	req := validCreateRequest()
	req.SenderName = ""

	_, err := registry.Create(context.Background(), req)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Message != "senderName is required" {
		t.Errorf("message = %q", verr.Message)
	}
}

func TestParcelRegistryCreatePaidUpFront(t *testing.T) {
	registry, _, _ := newTestRegistry()

	req := validCreateRequest()
	req.IsPaid = true

	p, err := registry.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsPaid {
		t.Fatal("expected parcel to stay paid")
	}
	if p.PaidAtOfficeID == nil || *p.PaidAtOfficeID != req.OriginOfficeID {
		t.Fatalf("paidAtOfficeId = %v, want origin office", p.PaidAtOfficeID)
	}
}

// Origin and destination may be the same office (a local delivery).
func TestParcelRegistryCreateSameOffice(t *testing.T) {
	registry, _, _ := newTestRegistry()

	req := validCreateRequest()
	req.DestinationOfficeID = req.OriginOfficeID

	if _, err := registry.Create(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParcelRegistryUpdateStatus(t *testing.T) {
	registry, _, _ := newTestRegistry()

	p, err := registry.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mixed case and padding normalize before validation.
	updated, err := registry.UpdateStatus(context.Background(), p.ID, "  In_Transit ", "on the truck", "user-2", "office-sofia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusInTransit {
		t.Fatalf("status = %q, want %q", updated.Status, domain.StatusInTransit)
	}

	history, err := registry.History(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	// Newest first.
	if history[0].NewStatus != domain.StatusInTransit {
		t.Errorf("latest entry NewStatus = %q, want %q", history[0].NewStatus, domain.StatusInTransit)
	}
	if history[0].OldStatus == nil || *history[0].OldStatus != domain.StatusCreated {
		t.Errorf("latest entry OldStatus = %v, want %q", history[0].OldStatus, domain.StatusCreated)
	}
	if history[0].Notes != "on the truck" {
		t.Errorf("notes = %q", history[0].Notes)
	}
}

func TestParcelRegistryUpdateStatusUnknown(t *testing.T) {
	registry, _, _ := newTestRegistry()

	p, err := registry.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = registry.UpdateStatus(context.Background(), p.ID, "teleported", "", "user-2", "office-sofia")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParcelRegistryUpdateStatusNotFound(t *testing.T) {
	registry, _, _ := newTestRegistry()

	_, err := registry.UpdateStatus(context.Background(), "missing", domain.StatusDelivered, "", "user-2", "office-sofia")
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

// Re-asserting the current status persists fine but appends no history entry.
func TestParcelRegistryUpdateStatusNoop(t *testing.T) {
	registry, _, _ := newTestRegistry()

	p, err := registry.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := registry.UpdateStatus(context.Background(), p.ID, domain.StatusCreated, "", "user-2", "office-sofia"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history, err := registry.History(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry after no-op update, got %d", len(history))
	}
}

// Backward transitions are legal; operators use them to correct mistakes.
func TestParcelRegistryUpdateStatusBackward(t *testing.T) {
	registry, _, _ := newTestRegistry()

	p, err := registry.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := registry.UpdateStatus(context.Background(), p.ID, domain.StatusInTransit, "", "u", "o"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, err := registry.UpdateStatus(context.Background(), p.ID, domain.StatusPickedUp, "scanned late", "u", "o")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.StatusPickedUp {
		t.Fatalf("status = %q, want %q", updated.Status, domain.StatusPickedUp)
	}
}

func TestParcelRegistryDeliveredRecordsPayment(t *testing.T) {
	registry, _, _ := newTestRegistry()

	p, err := registry.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	delivered, err := registry.UpdateStatus(context.Background(), p.ID, domain.StatusDelivered, "", "user-2", "office-london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !delivered.IsPaid {
		t.Fatal("delivering an unpaid parcel should record payment")
	}
	if delivered.PaidAtOfficeID == nil || *delivered.PaidAtOfficeID != "office-london" {
		t.Fatalf("paidAtOfficeId = %v, want destination office", delivered.PaidAtOfficeID)
	}
}

// A parcel paid at creation keeps its origin payment record through delivery.
func TestParcelRegistryDeliveredKeepsExistingPayment(t *testing.T) {
	registry, _, _ := newTestRegistry()

	req := validCreateRequest()
	req.IsPaid = true
	p, err := registry.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	delivered, err := registry.UpdateStatus(context.Background(), p.ID, domain.StatusDelivered, "", "user-2", "office-london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delivered.PaidAtOfficeID == nil || *delivered.PaidAtOfficeID != req.OriginOfficeID {
		t.Fatalf("paidAtOfficeId = %v, want origin office", delivered.PaidAtOfficeID)
	}
}

// Audit failures never fail or roll back the parcel write.
func TestParcelRegistryAuditFailureDoesNotBlock(t *testing.T) {
	registry, ledger, _ := newTestRegistry()
	ledger.FailAppend = true

	p, err := registry.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("create should survive audit failure, got %v", err)
	}

	updated, err := registry.UpdateStatus(context.Background(), p.ID, domain.StatusDelivered, "", "user-2", "office-london")
	if err != nil {
		t.Fatalf("update should survive audit failure, got %v", err)
	}
	if updated.Status != domain.StatusDelivered {
		t.Fatalf("status = %q, want %q", updated.Status, domain.StatusDelivered)
	}

	ledger.FailAppend = false
	history, err := registry.History(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history after failed appends, got %d entries", len(history))
	}
}

func TestParcelRegistryListScopedByOffice(t *testing.T) {
	registry, _, _ := newTestRegistry()

	first := validCreateRequest()
	if _, err := registry.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := validCreateRequest()
	second.OriginOfficeID = "office-berlin"
	second.DestinationOfficeID = "office-sofia"
	if _, err := registry.Create(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := registry.List(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 parcels, got %d", len(all))
	}

	london, err := registry.List(context.Background(), "office-london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(london) != 1 {
		t.Fatalf("expected 1 parcel for office-london, got %d", len(london))
	}

	sofia, err := registry.List(context.Background(), "office-sofia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Origin of the first, destination of the second.
	if len(sofia) != 2 {
		t.Fatalf("expected 2 parcels for office-sofia, got %d", len(sofia))
	}
}
