package minimax

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"voxdub/internal/config"
	"voxdub/internal/services"
)

const (
	defaultBaseURL = "https://api.minimax.io/v1"
	defaultModel   = "speech-02-hd"
	defaultTimeout = 120 * time.Second
)

// Client wraps the MiniMax voice cloning and T2A APIs.
type Client struct {
	apiKey     string
	groupID    string
	baseURL    string
	model      string
	httpClient *http.Client
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

// NewClient constructs a MiniMax API client.
func NewClient(apiKey, groupID string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		groupID:    strings.TrimSpace(groupID),
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client
}

// NewFromConfig constructs a client from the daemon configuration.
func NewFromConfig(cfg config.MiniMax, opts ...Option) *Client {
	client := NewClient(cfg.APIKey, cfg.GroupID, opts...)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		client.baseURL = strings.TrimRight(base, "/")
	}
	if model := strings.TrimSpace(cfg.TTSModel); model != "" {
		client.model = model
	}
	if cfg.TimeoutSeconds > 0 {
		client.httpClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return client
}

// Configured reports whether the client holds an API key.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

// baseResp is the status envelope MiniMax attaches to JSON responses.
type baseResp struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}

func (r *baseResp) err(stage, operation string) error {
	if r == nil || r.StatusCode == 0 {
		return nil
	}
	msg := strings.TrimSpace(r.StatusMsg)
	if msg == "" {
		msg = "unknown provider error"
	}
	return services.Wrap(services.ErrService, stage, operation, msg, nil)
}

func (c *Client) do(ctx context.Context, stage, operation string, req *http.Request) ([]byte, error) {
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, stage, operation, "minimax api key required", nil)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, services.Wrap(services.ErrService, stage, operation, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrService, stage, operation, "read response", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrService, stage, operation,
			"http "+resp.Status+": "+truncate(string(body), 300), nil)
	}
	return body, nil
}

func decodeEnvelope(body []byte, out any, stage, operation string) error {
	if err := json.Unmarshal(body, out); err != nil {
		return services.Wrap(services.ErrService, stage, operation, "decode response", err)
	}
	return nil
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
