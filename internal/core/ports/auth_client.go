// internal/core/ports/auth_client.go
package ports

import (
	"context"

	"github.com/candyline/sweetshop/internal/core/domain"
)

// AuthClient defines the authentication port against the remote API.
// This interface is implemented by the HTTP adapter.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Register(ctx context.Context, username, email, password string) (*domain.Session, error)
}
