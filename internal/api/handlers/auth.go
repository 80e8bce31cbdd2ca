package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"parcel-tracking-service/internal/adapters/auth"
	"parcel-tracking-service/internal/api/dto"
	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/ports"
)

// AuthHandler exposes registration, login and user listing. This is the
// request/response glue around the token and password adapters; the
// tracking core never sees credentials.
type AuthHandler struct {
	Users  ports.UserRepository
	Tokens *auth.TokenManager
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if req.Role == domain.RoleAgent && req.OfficeID == "" {
		writeError(w, r, http.StatusBadRequest, "officeId is required for agents")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         req.Role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if req.OfficeID != "" {
		officeID := req.OfficeID
		user.OfficeID = &officeID
	}

	if err := h.Users.Create(r.Context(), user); err != nil {
		writeDomainError(w, r, err)
		return
	}

	token, err := h.Tokens.Mint(user)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	// A wrong email and a wrong password produce the same response.
	user, err := h.Users.ByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.Tokens.Mint(user)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := mustIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.Users.ByID(r.Context(), identity.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewUserResponse(user))
}

// List returns all users; the router restricts it to bosses.
func (h *AuthHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, dto.NewUserResponse(u))
	}
	writeJSON(w, r, http.StatusOK, res)
}
