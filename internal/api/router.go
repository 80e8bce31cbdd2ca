package api

import (
	"net/http"

	"parcel-tracking-service/internal/adapters/auth"
	"parcel-tracking-service/internal/api/handlers"
	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/ports"
	"parcel-tracking-service/internal/services"
)

// Deps carries everything the HTTP surface needs. Handlers stay unaware of
// concrete adapters; this is the API composition root.
type Deps struct {
	Parcels  *services.ParcelRegistry
	Messages *services.MessageStore
	Users    ports.UserRepository
	Offices  ports.OfficeRepository
	Tokens   *auth.TokenManager
	Realtime http.Handler
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. Method-qualified patterns let the mux answer 405s itself.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	parcelHandler := &handlers.ParcelHandler{Registry: d.Parcels, Users: d.Users}
	messageHandler := &handlers.MessageHandler{Store: d.Messages, Users: d.Users}
	officeHandler := &handlers.OfficeHandler{Repo: d.Offices}
	authHandler := &handlers.AuthHandler{Users: d.Users, Tokens: d.Tokens}

	authed := func(h http.HandlerFunc) http.Handler {
		return handlers.RequireAuth(d.Tokens, h)
	}

	mux.Handle("POST /parcels", authed(parcelHandler.Create))
	mux.Handle("GET /parcels", authed(parcelHandler.List))
	mux.Handle("PATCH /parcels/{id}/status", authed(parcelHandler.UpdateStatus))
	mux.Handle("GET /parcels/{id}/history", authed(parcelHandler.History))

	mux.Handle("POST /messages", authed(messageHandler.Create))
	mux.Handle("GET /messages/received", authed(messageHandler.Received))
	mux.Handle("GET /messages/sent", authed(messageHandler.Sent))
	mux.Handle("GET /messages/conversation/{officeId}", authed(messageHandler.Conversation))
	mux.Handle("PATCH /messages/{id}/read", authed(messageHandler.MarkRead))
	mux.Handle("GET /messages/unread/count", authed(messageHandler.UnreadCount))

	// Listing offices is public so registration forms can offer choices
	// before a token exists.
	mux.HandleFunc("GET /offices", officeHandler.List)
	mux.Handle("GET /offices/{id}", authed(officeHandler.Get))

	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("GET /auth/me", authed(authHandler.Me))
	mux.Handle("GET /auth/users", authed(handlers.RequireRole(domain.RoleBoss, authHandler.List)))

	mux.HandleFunc("GET /health", handlers.Health)

	if d.Realtime != nil {
		mux.Handle("GET /ws", d.Realtime)
	}

	return loggingMiddleware(mux)
}
