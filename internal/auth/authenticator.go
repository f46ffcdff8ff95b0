// Package auth registers users, verifies credentials and issues the session
// tokens that carry a user's active organization.
package auth

import (
	"context"

	"github.com/mmynk/petpals/internal/models"
)

// Authenticator verifies user credentials. Implementations may use
// passwords, passkeys or an external identity provider.
type Authenticator interface {
	// Register creates a user account. The credential format depends on the
	// implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user whose credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential reports whether credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}
