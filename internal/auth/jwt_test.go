package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/peytondoyle/tabby/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-at-least-32-bytes-long!", time.Hour)
	user := &models.User{ID: "u1", Email: "ana@example.com"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "ana@example.com" {
		t.Errorf("claims = %s/%s, want u1/ana@example.com", claims.UserID, claims.Email)
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret-at-least-32-bytes-long!", -time.Minute)
	token, err := m.Generate(&models.User{ID: "u1", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate(expired) = %v, want ErrInvalidToken", err)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("issuer-secret-needs-to-be-long-too!", time.Hour)
	verifier := NewJWTManager("different-secret-entirely-oh-no!!!!", time.Hour)

	token, err := issuer.Generate(&models.User{ID: "u1", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate(wrong secret) = %v, want ErrInvalidToken", err)
	}
}
