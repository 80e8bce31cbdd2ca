package handlers

import (
	"net/http"

	"parcel-tracking-service/internal/api/dto"
	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/ports"
	"parcel-tracking-service/internal/services"
)

// MessageHandler exposes inter-office messaging. Every operation acts on
// behalf of the caller's own office, resolved from the user directory.
type MessageHandler struct {
	Store *services.MessageStore
	Users ports.UserRepository
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}

	var req dto.CreateMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	msg, err := h.Store.Create(r.Context(), identity.UserID, services.CreateMessageRequest{
		ToOfficeID:      req.ToOfficeID,
		Subject:         req.Subject,
		Content:         req.Content,
		RelatedParcelID: req.RelatedParcelID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewMessageResponse(msg))
}

func (h *MessageHandler) Received(w http.ResponseWriter, r *http.Request) {
	officeID, ok := h.actingOffice(w, r)
	if !ok {
		return
	}

	msgs, err := h.Store.ListReceived(r.Context(), officeID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewMessageListResponse(msgs))
}

func (h *MessageHandler) Sent(w http.ResponseWriter, r *http.Request) {
	officeID, ok := h.actingOffice(w, r)
	if !ok {
		return
	}

	msgs, err := h.Store.ListSent(r.Context(), officeID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewMessageListResponse(msgs))
}

func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	officeID, ok := h.actingOffice(w, r)
	if !ok {
		return
	}

	msgs, err := h.Store.ListConversation(r.Context(), officeID, r.PathValue("officeId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewMessageListResponse(msgs))
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	officeID, ok := h.actingOffice(w, r)
	if !ok {
		return
	}

	msg, err := h.Store.MarkRead(r.Context(), r.PathValue("id"), officeID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"id": msg.ID, "readAt": msg.ReadAt})
}

func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	officeID, ok := h.actingOffice(w, r)
	if !ok {
		return
	}

	n, err := h.Store.UnreadCount(r.Context(), officeID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.UnreadCountResponse{UnreadCount: n})
}

// actingOffice resolves the caller's office, rejecting users without one:
// messaging is strictly an office-to-office surface.
func (h *MessageHandler) actingOffice(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return "", false
	}

	officeID, err := officeOf(r, h.Users, identity.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return "", false
	}
	if officeID == "" {
		writeDomainError(w, r, &domain.NotFoundError{Resource: "office for user", ID: identity.UserID})
		return "", false
	}
	return officeID, true
}
