package apiclient

import (
	"context"
	"net/http"

	"github.com/stemsi/seatdesk/internal/response"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login opens an admin session. The login page is fetched first so the
// server can issue the CSRF cookie the POST must echo.
func (c *Client) Login(ctx context.Context, username, password string) error {
	const op = "login"

	if c.CSRFToken() == "" {
		req, err := c.newRequest(ctx, http.MethodGet, "/admin-login/", nil, nil, "")
		if err != nil {
			return response.Transport(op, err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			c.log.Warn().Err(err).Msg("Fetching login page failed")
		} else {
			resp.Body.Close()
		}
	}

	if err := c.postJSON(ctx, op, "/admin-login/", loginRequest{Username: username, Password: password}, nil); err != nil {
		return err
	}
	c.log.Info().Str("username", username).Msg("Logged in")
	return nil
}

// Logout closes the admin session.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "logout", "/admin-logout/", struct{}{}, nil)
}
