// Package auth is the identity provider: it registers users, checks their
// credentials and issues the session tokens the auth interceptor verifies.
package auth

import (
	"context"

	"github.com/mmynk/ledgerbook/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	// Fails with errs.ErrConflict when the email is taken.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error

	// User returns the account behind an authenticated session.
	User(ctx context.Context, userID string) (*models.User, error)
}
