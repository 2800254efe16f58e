package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/ledgerbook/internal/errs"
	"github.com/mmynk/ledgerbook/internal/models"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret-key-at-least-32-bytes!", time.Hour)
	user := &models.User{ID: "u-1", Email: "alice@example.com"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		claims, err := m.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != "u-1" || claims.Email != "alice@example.com" {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("another-secret-key-of-32-bytes!!", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, errs.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		short := NewJWTManager("test-secret-key-at-least-32-bytes!", -time.Minute)
		expired, err := short.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := m.Validate(expired); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("unsigned token", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u-1"})
		s, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("SignedString failed: %v", err)
		}
		if _, err := m.Validate(s); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("revoked", func(t *testing.T) {
		fresh, err := m.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		claims, err := m.Validate(fresh)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		m.Revoke(claims)
		if _, err := m.Validate(fresh); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected revoked token to fail, got %v", err)
		}
		if _, err := m.Validate(token); err != nil {
			t.Errorf("other tokens must stay valid: %v", err)
		}
	})
}
