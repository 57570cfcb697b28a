package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pet-lost-and-found/internal/platform/httpclient"
	"pet-lost-and-found/internal/ports/directory"
)

var (
	ErrNotConfigured = errors.New("accounts client not configured")
	ErrUserNotFound  = errors.New("user not found")
	ErrUpstream      = errors.New("accounts upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implementa directory.UserResolver contra el servicio de cuentas.
// Solo lee datos de display (nombre + contacto); nunca muta usuarios.
type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:   hc,
		apiKey: strings.TrimSpace(cfg.APIKey),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

func (c *Client) Resolve(ctx context.Context, userID string) (directory.User, error) {
	if !c.IsConfigured() {
		return directory.User{}, ErrNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return directory.User{}, ErrUserNotFound
	}

	var out struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		Instagram string `json:"instagram"`
		Email     string `json:"email"`
	}

	err := c.http.DoJSON(ctx, "GET", "/v1/users/"+url.PathEscape(userID), map[string]string{
		"X-Api-Key": c.apiKey,
	}, nil, &out)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) && he.StatusCode == 404 {
			return directory.User{}, ErrUserNotFound
		}
		return directory.User{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return directory.User{
		ID:        strings.TrimSpace(out.ID),
		Name:      strings.TrimSpace(out.Name),
		Phone:     strings.TrimSpace(out.Phone),
		Instagram: strings.TrimSpace(out.Instagram),
		Email:     strings.TrimSpace(out.Email),
	}, nil
}
