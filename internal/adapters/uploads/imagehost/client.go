package imagehost

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-lost-and-found/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("imagehost client not configured")
	ErrUpstream      = errors.New("imagehost upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implementa uploads.Uploader contra el servicio de imágenes.
// El servicio redimensiona y hostea; este core solo manda bytes y guarda la URL.
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

type uploadRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"` // base64 por json
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (c *Client) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}
	if len(data) == 0 {
		return "", errors.New("imagehost: empty file")
	}

	in := uploadRequest{
		FileName:    strings.TrimSpace(filename),
		ContentType: strings.TrimSpace(contentType),
		Data:        data,
	}

	var out uploadResponse
	err := c.http.DoJSON(ctx, "POST", "/v1/images", map[string]string{
		"X-Api-Key": c.apiKey,
	}, in, &out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if strings.TrimSpace(out.URL) == "" {
		return "", fmt.Errorf("%w: response missing url", ErrUpstream)
	}
	return out.URL, nil
}
