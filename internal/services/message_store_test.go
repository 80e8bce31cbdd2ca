package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"parcel-tracking-service/internal/adapters/memstore"
	"parcel-tracking-service/internal/domain"
)

func newTestMessageStore(t *testing.T) (*MessageStore, *recordingPublisher) {
	t.Helper()

	offices := memstore.NewOfficeStore(
		&domain.Office{ID: "office-sofia", Name: "Sofia Central", Country: "Bulgaria"},
		&domain.Office{ID: "office-london", Name: "London Hub", Country: "United Kingdom"},
	)
	users := memstore.NewUserStore()
	parcels := memstore.NewParcelStore()

	sofia := "office-sofia"
	london := "office-london"
	for _, u := range []*domain.User{
		{ID: "user-ana", Email: "ana@example.com", FullName: "Ana Dimitrova", Role: domain.RoleAgent, OfficeID: &sofia},
		{ID: "user-ben", Email: "ben@example.com", FullName: "Ben Clarke", Role: domain.RoleAgent, OfficeID: &london},
		{ID: "user-boss", Email: "boss@example.com", FullName: "The Boss", Role: domain.RoleBoss},
	} {
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	publisher := &recordingPublisher{}
	store := &MessageStore{
		Repo:   memstore.NewMessageStore(users, offices, parcels),
		Users:  users,
		Events: publisher,
	}
	return store, publisher
}

func TestMessageStoreCreate(t *testing.T) {
	store, publisher := newTestMessageStore(t)

	m, err := store.Create(context.Background(), "user-ana", CreateMessageRequest{
		ToOfficeID: "office-london",
		Subject:    "Customs hold",
		Content:    "Parcel stuck at customs, please call the receiver.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.FromOfficeID != "office-sofia" {
		t.Errorf("fromOfficeId = %q, want sender's office", m.FromOfficeID)
	}
	if m.ReadAt != nil {
		t.Error("new message should be unread")
	}
	if m.FromOffice == nil || m.FromOffice.Name != "Sofia Central" {
		t.Errorf("fromOffice ref = %+v", m.FromOffice)
	}
	if m.FromUser == nil || m.FromUser.FullName != "Ana Dimitrova" {
		t.Errorf("fromUser ref = %+v", m.FromUser)
	}

	events := publisher.recorded()
	if len(events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(events))
	}
	if events[0].Event != domain.EventNewMessage {
		t.Errorf("event = %q, want %q", events[0].Event, domain.EventNewMessage)
	}
	if events[0].OfficeID != "office-london" {
		t.Errorf("event office = %q, want receiving office", events[0].OfficeID)
	}
}

func TestMessageStoreCreateValidation(t *testing.T) {
	store, _ := newTestMessageStore(t)

	cases := []struct {
		name   string
		sender string
		req    CreateMessageRequest
	}{
		{"missing office", "user-ana", CreateMessageRequest{Subject: "s", Content: "c"}},
		{"missing subject", "user-ana", CreateMessageRequest{ToOfficeID: "office-london", Content: "c"}},
		{"missing content", "user-ana", CreateMessageRequest{ToOfficeID: "office-london", Subject: "s"}},
		{"own office", "user-ana", CreateMessageRequest{ToOfficeID: "office-sofia", Subject: "s", Content: "c"}},
		{"sender without office", "user-boss", CreateMessageRequest{ToOfficeID: "office-london", Subject: "s", Content: "c"}},
	}

	for _, c := range cases {
		_, err := store.Create(context.Background(), c.sender, c.req)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", c.name, err)
		}
	}
}

func TestMessageStoreMarkRead(t *testing.T) {
	store, _ := newTestMessageStore(t)

	m, err := store.Create(context.Background(), "user-ana", CreateMessageRequest{
		ToOfficeID: "office-london",
		Subject:    "s",
		Content:    "c",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the receiving office may mark it read.
	_, err = store.MarkRead(context.Background(), m.ID, "office-sofia")
	var forbidden *domain.ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ForbiddenError for sender office, got %v", err)
	}

	read, err := store.MarkRead(context.Background(), m.ID, "office-london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if read.ReadAt == nil {
		t.Fatal("expected readAt to be set")
	}
	first := *read.ReadAt

	// Re-marking overwrites the timestamp rather than erroring.
	time.Sleep(5 * time.Millisecond)
	again, err := store.MarkRead(context.Background(), m.ID, "office-london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ReadAt == nil || !again.ReadAt.After(first) {
		t.Fatalf("expected overwritten readAt after %v, got %v", first, again.ReadAt)
	}
}

func TestMessageStoreMarkReadNotFound(t *testing.T) {
	store, _ := newTestMessageStore(t)

	_, err := store.MarkRead(context.Background(), "missing", "office-london")
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestMessageStoreUnreadCount(t *testing.T) {
	store, _ := newTestMessageStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		m, err := store.Create(context.Background(), "user-ana", CreateMessageRequest{
			ToOfficeID: "office-london",
			Subject:    "s",
			Content:    "c",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, m.ID)
	}

	if _, err := store.MarkRead(context.Background(), ids[0], "office-london"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n, err := store.UnreadCount(context.Background(), "office-london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("unread count = %d, want 2", n)
	}

	// The sending office has nothing unread.
	n, err = store.UnreadCount(context.Background(), "office-sofia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("unread count = %d, want 0", n)
	}
}

// Conversations interleave both directions oldest-first; inbox and outbox
// listings are newest-first.
func TestMessageStoreConversationOrdering(t *testing.T) {
	store, _ := newTestMessageStore(t)

	subjects := []struct {
		sender  string
		to      string
		subject string
	}{
		{"user-ana", "office-london", "first"},
		{"user-ben", "office-sofia", "second"},
		{"user-ana", "office-london", "third"},
	}
	for _, s := range subjects {
		if _, err := store.Create(context.Background(), s.sender, CreateMessageRequest{
			ToOfficeID: s.to,
			Subject:    s.subject,
			Content:    "c",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	conv, err := store.ListConversation(context.Background(), "office-sofia", "office-london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv) != 3 {
		t.Fatalf("expected 3 messages in conversation, got %d", len(conv))
	}
	for i, want := range []string{"first", "second", "third"} {
		if conv[i].Subject != want {
			t.Errorf("conversation[%d] = %q, want %q", i, conv[i].Subject, want)
		}
	}

	received, err := store.ListReceived(context.Background(), "office-london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("expected 2 received messages, got %d", len(received))
	}
	if received[0].Subject != "third" {
		t.Errorf("inbox should be newest-first, got %q", received[0].Subject)
	}

	sent, err := store.ListSent(context.Background(), "office-london")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sent) != 1 || sent[0].Subject != "second" {
		t.Fatalf("outbox = %+v", sent)
	}
}
