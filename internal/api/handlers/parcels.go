package handlers

import (
	"net/http"

	"parcel-tracking-service/internal/api/dto"
	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/ports"
	"parcel-tracking-service/internal/services"
)

// ParcelHandler exposes parcel creation, listing, status updates and the
// status history trail.
type ParcelHandler struct {
	Registry *services.ParcelRegistry
	Users    ports.UserRepository
}

func (h *ParcelHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}

	var req dto.CreateParcelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	parcel, err := h.Registry.Create(r.Context(), services.CreateParcelRequest{
		SenderName:          req.SenderName,
		SenderPhone:         req.SenderPhone,
		ReceiverName:        req.ReceiverName,
		ReceiverPhone:       req.ReceiverPhone,
		Destination:         req.Destination,
		Price:               req.Price,
		IsPaid:              req.IsPaid,
		OriginOfficeID:      req.OriginOfficeID,
		DestinationOfficeID: req.DestinationOfficeID,
		CreatedByUserID:     identity.UserID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewParcelResponse(parcel))
}

// List scopes results by role: agents always see their own office's parcels,
// bosses see everything unless they pass an officeId filter.
func (h *ParcelHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}

	officeID := r.URL.Query().Get("officeId")
	if identity.Role == domain.RoleAgent {
		own, err := officeOf(r, h.Users, identity.UserID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		officeID = own
	}

	parcels, err := h.Registry.List(r.Context(), officeID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := make([]dto.ParcelResponse, 0, len(parcels))
	for _, p := range parcels {
		res = append(res, dto.NewParcelResponse(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ParcelHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}

	var req dto.UpdateParcelStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	actingOffice, err := officeOf(r, h.Users, identity.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	parcel, err := h.Registry.UpdateStatus(
		r.Context(),
		r.PathValue("id"),
		req.Status,
		req.Notes,
		identity.UserID,
		actingOffice,
	)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewParcelResponse(parcel))
}

func (h *ParcelHandler) History(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustIdentity(w, r); !ok {
		return
	}

	entries, err := h.Registry.History(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewStatusHistoryResponse(entries))
}
