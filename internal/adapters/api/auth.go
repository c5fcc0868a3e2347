// internal/adapters/api/auth.go
package api

import (
	"context"
	"net/http"

	"github.com/candyline/sweetshop/internal/core/domain"
	"github.com/candyline/sweetshop/internal/core/ports"
)

// AuthClient implements ports.AuthClient against the /auth endpoints
type AuthClient struct {
	client *Client
}

// Statically assert that *AuthClient implements the AuthClient port.
var _ ports.AuthClient = (*AuthClient)(nil)

// NewAuthClient creates an auth client over the shared HTTP client
func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (r authResponse) session() *domain.Session {
	return &domain.Session{
		Token: r.Token,
		User: domain.User{
			Username: r.Username,
			Email:    r.Email,
			IsAdmin:  r.IsAdmin,
		},
	}
}

// Login exchanges credentials for a session
func (c *AuthClient) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	var resp authResponse
	body := loginRequest{Username: username, Password: password}
	if err := c.client.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

// Register creates an account and returns its session
func (c *AuthClient) Register(ctx context.Context, username, email, password string) (*domain.Session, error) {
	var resp authResponse
	body := registerRequest{Username: username, Email: email, Password: password}
	if err := c.client.do(ctx, http.MethodPost, "/auth/register", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}
