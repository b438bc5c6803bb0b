package replicate

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"voxdub/internal/config"
	"voxdub/internal/services"
)

const (
	defaultBaseURL      = "https://api.replicate.com/v1"
	defaultModel        = "devxpy/cog-wav2lip"
	defaultPollInterval = 5 * time.Second
	defaultDeadline     = 300 * time.Second
)

// Client wraps the Replicate predictions API.
type Client struct {
	apiKey       string
	baseURL      string
	model        string
	pollInterval time.Duration
	deadline     time.Duration
	httpClient   *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithPollInterval overrides the prediction polling cadence.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// NewClient constructs a Replicate API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:       strings.TrimSpace(apiKey),
		baseURL:      defaultBaseURL,
		model:        defaultModel,
		pollInterval: defaultPollInterval,
		deadline:     defaultDeadline,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return client
}

// NewFromConfig constructs a client from the daemon configuration.
func NewFromConfig(cfg config.Replicate, opts ...Option) *Client {
	client := NewClient(cfg.APIKey, opts...)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		client.baseURL = strings.TrimRight(base, "/")
	}
	if model := strings.TrimSpace(cfg.Model); model != "" {
		client.model = model
	}
	if cfg.PollIntervalSeconds > 0 {
		client.pollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	}
	if cfg.TimeoutSeconds > 0 {
		client.deadline = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return client
}

// Configured reports whether the client holds an API key.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

func (c *Client) do(ctx context.Context, operation string, req *http.Request) ([]byte, error) {
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "lipsync", operation, "replicate api key required", nil)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, services.Wrap(services.ErrService, "lipsync", operation, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrService, "lipsync", operation, "read response", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrService, "lipsync", operation,
			"http "+resp.Status+": "+truncate(string(body), 300), nil)
	}
	return body, nil
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
