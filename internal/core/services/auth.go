// internal/core/services/auth.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/candyline/sweetshop/internal/core/domain"
	"github.com/candyline/sweetshop/internal/core/ports"
)

// Auth orchestrates login and registration against the remote API and is
// the single writer of the persisted session.
type Auth struct {
	client ports.AuthClient
	store  ports.SessionStore
	logger *slog.Logger
}

// NewAuth creates a new auth service
func NewAuth(client ports.AuthClient, store ports.SessionStore, logger *slog.Logger) *Auth {
	return &Auth{
		client: client,
		store:  store,
		logger: logger.With(slog.String("service", "auth")),
	}
}

// Login authenticates and persists the resulting session
func (a *Auth) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" {
		return nil, &domain.ValidationError{Field: "username", Reason: "is required"}
	}
	if password == "" {
		return nil, &domain.ValidationError{Field: "password", Reason: "is required"}
	}

	sess, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := a.store.Save(sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	a.logger.InfoContext(ctx, "logged in",
		slog.String("username", sess.User.Username),
		slog.Bool("is_admin", sess.User.IsAdmin))
	return sess, nil
}

// Register creates an account and persists the resulting session
func (a *Auth) Register(ctx context.Context, username, email, password string) (*domain.Session, error) {
	if username == "" {
		return nil, &domain.ValidationError{Field: "username", Reason: "is required"}
	}
	if email == "" {
		return nil, &domain.ValidationError{Field: "email", Reason: "is required"}
	}
	if password == "" {
		return nil, &domain.ValidationError{Field: "password", Reason: "is required"}
	}

	sess, err := a.client.Register(ctx, username, email, password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := a.store.Save(sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	a.logger.InfoContext(ctx, "registered",
		slog.String("username", sess.User.Username))
	return sess, nil
}

// Logout destroys the persisted session
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.logger.InfoContext(ctx, "logged out")
	return nil
}

// Current returns the persisted session, or nil when logged out
func (a *Auth) Current() (*domain.Session, error) {
	return a.store.Load()
}
