package backend

import (
	"context"

	"github.com/soratech/storefront/internal/models"
)

type AuthAPI struct {
	c *Client
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	Nickname  string `json:"nickname"`
	Phone     string `json:"phone"`
}

type TokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (a *AuthAPI) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var resp TokenResponse
	if err := a.c.post(ctx, "/api/Auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	var resp TokenResponse
	if err := a.c.post(ctx, "/api/Auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate checks the stored bearer token and returns the session user.
func (a *AuthAPI) Validate(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.c.get(ctx, "/api/Auth/validate", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPassword sets a new password for the account. It is only called after
// the reset code has been verified on this side.
func (a *AuthAPI) ResetPassword(ctx context.Context, email, newPassword string) error {
	body := map[string]string{"email": email, "newPassword": newPassword}
	return a.c.post(ctx, "/api/Auth/reset-password", body, nil)
}

// UserExists reports whether an account exists for the email, used before
// starting the reset flow.
func (a *AuthAPI) UserExists(ctx context.Context, email string) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
	}
	if err := a.c.post(ctx, "/api/Auth/verify-email", map[string]string{"email": email}, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}
