// Package auth provides password authentication and JWT session tokens for
// the bill API. People ON a bill never authenticate; only bill creators do.
package auth

import (
	"context"
	"errors"

	"github.com/peytondoyle/tabby/internal/models"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingToken       = errors.New("authorization token required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
)

// Authenticator abstracts the credential scheme so the API layer does not
// care whether accounts use passwords, OAuth, or passkeys.
type Authenticator interface {
	// Register creates a new user account. The credential format depends on
	// the implementation (a password here).
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies credentials and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
