// Package client talks to auth-service and hands out tokens for the other typed clients.
package client

import (
	"context"
	"net/http"

	"github.com/suteetoe/homeorganizer/gomicro/client"
	"github.com/suteetoe/homeorganizer/services/auth-service/pkg/api"
	"go.uber.org/zap"
)

type Client struct {
	conn *client.Client
}

func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{conn: client.New(baseURL, logger)}
}

// Register creates an account and returns its token
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (api.TokenResponse, error) {
	var out api.TokenResponse
	err := c.conn.Do(ctx, http.MethodPost, "/auth/register", req, &out)
	return out, err
}

// Login returns a fresh token for the account
func (c *Client) Login(ctx context.Context, email, password string) (api.TokenResponse, error) {
	var out api.TokenResponse
	err := c.conn.Do(ctx, http.MethodPost, "/auth/login", api.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// Profile returns the account behind token
func (c *Client) Profile(ctx context.Context, token string) (api.UserDto, error) {
	var out api.UserDto
	err := c.conn.WithToken(token).Do(ctx, http.MethodGet, "/api/users/profile", nil, &out)
	return out, err
}
