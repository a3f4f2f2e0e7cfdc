package api

import (
	"context"
	"net/http"

	"github.com/khrees2412/stageconnect/pkg/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login opens a server session and returns the signed-in identity
func (c *Client) Login(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	err := c.Do(ctx, http.MethodPost, "/auth/login/", loginRequest{Username: username, Password: password}, &user)
	return user, err
}

// Register creates an account; the server signs it in immediately
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var user models.User
	err := c.Do(ctx, http.MethodPost, "/auth/register/", req, &user)
	return user, err
}

// Logout closes the server session
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/auth/logout/", nil, nil)
}

// CurrentUser returns the identity bound to the session cookie
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.Do(ctx, http.MethodGet, "/auth/me/", nil, &user)
	return user, err
}
