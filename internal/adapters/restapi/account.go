package restapi

import (
	"context"
	"net/http"

	"github.com/phenrril/storefront/internal/apperr"
)

func (c *Client) CurrentUserID(ctx context.Context) (int, error) {
	var out struct {
		UserID int `json:"userID"`
	}
	if err := c.do(ctx, "user id", http.MethodGet, c.endpoint(c.base, "user-id/", nil), nil, &out); err != nil {
		return 0, err
	}
	return out.UserID, nil
}

// Login exchanges credentials for the API key used as the bearer credential.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var out struct {
		Key string `json:"key"`
	}
	if err := c.do(ctx, "login", http.MethodPost, c.endpoint(c.auth, "login/", nil), body, &out); err != nil {
		return "", err
	}
	if out.Key == "" {
		return "", &apperr.Error{Kind: apperr.Internal, Op: "login", PublicMsg: "The login response had no key."}
	}
	return out.Key, nil
}
