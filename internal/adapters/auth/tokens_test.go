package auth

import (
	"testing"
	"time"

	"parcel-tracking-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	user := &domain.User{ID: "user-1", Email: "ana@example.com", Role: domain.RoleAgent}
	token, err := manager.Mint(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("userId = %q, want user-1", claims.UserID)
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != domain.RoleAgent {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	minter := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := minter.Mint(&domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected verification to fail across secrets")
	}
}

func TestTokenExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Mint(&domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := manager.Verify(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestTokenGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	if _, err := manager.Verify("not.a.token"); err == nil {
		t.Fatal("expected garbage token to fail verification")
	}
}
