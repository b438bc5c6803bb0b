package openai

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
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 300 * time.Second
)

// Client wraps the OpenAI API endpoints used for transcription, translation,
// and speech synthesis.
type Client struct {
	apiKey       string
	baseURL      string
	whisperModel string
	chatModel    string
	ttsModel     string
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

// NewClient constructs an OpenAI API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:       strings.TrimSpace(apiKey),
		baseURL:      defaultBaseURL,
		whisperModel: "whisper-1",
		chatModel:    "gpt-3.5-turbo",
		ttsModel:     "tts-1",
		httpClient:   &http.Client{Timeout: defaultTimeout},
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
func NewFromConfig(cfg config.OpenAI, opts ...Option) *Client {
	client := NewClient(cfg.APIKey, opts...)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		client.baseURL = strings.TrimRight(base, "/")
	}
	if model := strings.TrimSpace(cfg.WhisperModel); model != "" {
		client.whisperModel = model
	}
	if model := strings.TrimSpace(cfg.ChatModel); model != "" {
		client.chatModel = model
	}
	if model := strings.TrimSpace(cfg.TTSModel); model != "" {
		client.ttsModel = model
	}
	if cfg.TimeoutSeconds > 0 {
		client.httpClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return client
}

func (c *Client) do(ctx context.Context, stage, operation string, req *http.Request) ([]byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, stage, operation, "openai api key required", nil)
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

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
