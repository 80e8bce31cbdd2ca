package handlers

import (
	"net/http"

	"parcel-tracking-service/internal/api/dto"
	"parcel-tracking-service/internal/ports"
)

// OfficeHandler exposes the read-only office directory. Listing is public
// so registration forms can offer office choices before a token exists.
type OfficeHandler struct {
	Repo ports.OfficeRepository
}

func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	offices, err := h.Repo.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := make([]dto.OfficeResponse, 0, len(offices))
	for _, o := range offices {
		res = append(res, dto.NewOfficeResponse(o))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *OfficeHandler) Get(w http.ResponseWriter, r *http.Request) {
	office, err := h.Repo.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewOfficeResponse(office))
}
