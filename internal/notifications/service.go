package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voxdub/internal/config"
)

const userAgent = "voxdub/0.1.0"

// Service defines the notification surface exposed to the job worker.
type Service interface {
	NotifyJobCompleted(ctx context.Context, sourceName, targetLanguage string) error
	NotifyJobFailed(ctx context.Context, sourceName, stage, reason string) error
	NotifyVoiceCloned(ctx context.Context, name, voiceID string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyJobCompleted(ctx context.Context, sourceName, targetLanguage string) error {
	sourceName = strings.TrimSpace(sourceName)
	targetLanguage = strings.TrimSpace(targetLanguage)
	data := payload{
		title:    "voxdub - Dubbing Complete",
		message:  fmt.Sprintf("Dubbed into %s: %s", targetLanguage, sourceName),
		tags:     []string{"voxdub", "dub", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyJobFailed(ctx context.Context, sourceName, stage, reason string) error {
	sourceName = strings.TrimSpace(sourceName)
	stage = strings.TrimSpace(stage)
	if stage == "" {
		stage = "unknown"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Dubbing failed during %s: %s", stage, sourceName)
	if reason = strings.TrimSpace(reason); reason != "" {
		builder.WriteString("\n")
		builder.WriteString(reason)
	}

	data := payload{
		title:    "voxdub - Dubbing Failed",
		message:  builder.String(),
		tags:     []string{"voxdub", "dub", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyVoiceCloned(ctx context.Context, name, voiceID string) error {
	name = strings.TrimSpace(name)
	voiceID = strings.TrimSpace(voiceID)
	data := payload{
		title:   "voxdub - Voice Cloned",
		message: fmt.Sprintf("Cloned voice %q registered as %s", name, voiceID),
		tags:    []string{"voxdub", "voice", "cloned"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "voxdub - Test",
		message:  "Notification system test",
		tags:     []string{"voxdub", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyJobCompleted(context.Context, string, string) error      { return nil }
func (noopService) NotifyJobFailed(context.Context, string, string, string) error { return nil }
func (noopService) NotifyVoiceCloned(context.Context, string, string) error       { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
