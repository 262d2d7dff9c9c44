package transport

import (
	"context"
	"net/http"

	"github.com/tharun-r1705/data-frontend-new/core/user"
	"github.com/tharun-r1705/data-frontend-new/session"
)

var _ session.API = (*Client)(nil)

func (c *Client) Signup(ctx context.Context, acct user.NewAccount) (user.AuthGrant, error) {
	var grant user.AuthGrant
	err := c.do(ctx, http.MethodPost, "auth/signup", nil, acct, &grant)
	return grant, err
}

func (c *Client) Login(ctx context.Context, creds user.Credentials) (user.AuthGrant, error) {
	var grant user.AuthGrant
	err := c.do(ctx, http.MethodPost, "auth/login", nil, creds, &grant)
	return grant, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "auth/logout", nil, nil, nil)
}

func (c *Client) ChangePassword(ctx context.Context, pc user.PasswordChange) error {
	return c.do(ctx, http.MethodPost, "auth/change-password", nil, pc, nil)
}
