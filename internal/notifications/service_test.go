package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"voxdub/internal/config"
	"voxdub/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyJobCompleted(context.Background(), "clip.mp4", "tr"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "job completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyJobCompleted(context.Background(), "lecture.mp4", "de")
			},
			expectTitle:    "voxdub - Dubbing Complete",
			expectMessage:  "Dubbed into de: lecture.mp4",
			expectTags:     "voxdub,dub,completed",
			expectPriority: "high",
		},
		{
			name: "job failed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyJobFailed(context.Background(), "lecture.mp4", "synthesizing", "provider timeout")
			},
			expectTitle:    "voxdub - Dubbing Failed",
			expectMessage:  "Dubbing failed during synthesizing: lecture.mp4\nprovider timeout",
			expectTags:     "voxdub,dub,failed",
			expectPriority: "high",
		},
		{
			name: "voice cloned",
			notify: func(svc notifications.Service) error {
				return svc.NotifyVoiceCloned(context.Background(), "Ayse", "custom_ab12cd34")
			},
			expectTitle:   "voxdub - Voice Cloned",
			expectMessage: `Cloned voice "Ayse" registered as custom_ab12cd34`,
			expectTags:    "voxdub,voice,cloned",
		},
		{
			name: "test notification",
			notify: func(svc notifications.Service) error {
				return svc.TestNotification(context.Background())
			},
			expectTitle:    "voxdub - Test",
			expectMessage:  "Notification system test",
			expectTags:     "voxdub,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeoutSeconds = 5

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error from failing ntfy endpoint")
	}
}
