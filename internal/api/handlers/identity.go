package handlers

import (
	"context"
	"net/http"
	"strings"

	"parcel-tracking-service/internal/adapters/auth"
	"parcel-tracking-service/internal/ports"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the verified caller attached to the request context by
// RequireAuth.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IdentityFrom extracts the verified caller from the request context.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// RequireAuth verifies the bearer token and attaches the caller's identity
// to the request context.
func RequireAuth(tokens *auth.TokenManager, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, r, http.StatusUnauthorized, "no token provided")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		identity := Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}

// RequireRole rejects callers whose role does not match.
func RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok || identity.Role != role {
			writeError(w, r, http.StatusForbidden, "access denied: "+role+" role required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// mustIdentity returns the caller identity or writes a 401. Handlers behind
// RequireAuth always find one; the guard covers misconfigured routes.
func mustIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "no token provided")
	}
	return identity, ok
}

// officeOf resolves the acting user's office from the directory. Returns an
// empty string when the user has no office binding.
func officeOf(r *http.Request, users ports.UserRepository, userID string) (string, error) {
	u, err := users.ByID(r.Context(), userID)
	if err != nil {
		return "", err
	}
	if u.OfficeID == nil {
		return "", nil
	}
	return *u.OfficeID, nil
}
