package api

import (
	"context"
	"net/http"
	"strings"
)

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, &ValidationError{Field: "email", Reason: "is required"}
	}
	if req.Password == "" {
		return nil, &ValidationError{Field: "password", Reason: "is required"}
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &out, "login failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a staff account and logs it in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, &ValidationError{Field: "email", Reason: "is required"}
	}
	if req.Password == "" {
		return nil, &ValidationError{Field: "password", Reason: "is required"}
	}
	if strings.TrimSpace(req.Role) == "" {
		return nil, &ValidationError{Field: "role", Reason: "is required"}
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &out, "registration failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser re-fetches the profile for the stored token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, nil, &out, "failed to load profile"); err != nil {
		return nil, err
	}
	return &out, nil
}
