package replicate_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"voxdub/internal/services"
	"voxdub/internal/services/replicate"
)

func writeFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fixture-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLipSyncCreatesPollsAndDownloads(t *testing.T) {
	var createReq struct {
		Input struct {
			Face         string `json:"face"`
			Audio        string `json:"audio"`
			Pads         []int  `json:"pads"`
			Smooth       bool   `json:"smooth"`
			ResizeFactor int    `json:"resize_factor"`
		} `json:"input"`
	}
	polls := 0
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/models/devxpy/cog-wav2lip/predictions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Fatalf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
			t.Fatalf("decode create request: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"p1","status":"starting"}`))
	})
	mux.HandleFunc("/predictions/p1", func(w http.ResponseWriter, _ *http.Request) {
		polls++
		if polls < 2 {
			_, _ = w.Write([]byte(`{"id":"p1","status":"processing"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"p1","status":"succeeded","output":["` + server.URL + `/result.mp4"]}`))
	})
	mux.HandleFunc("/result.mp4", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mp4-bytes"))
	})

	client := replicate.NewClient("key",
		replicate.WithBaseURL(server.URL),
		replicate.WithPollInterval(time.Millisecond),
	)
	video, err := client.LipSync(context.Background(), writeFixture(t, "face.png"), writeFixture(t, "speech.mp3"))
	if err != nil {
		t.Fatalf("lipsync: %v", err)
	}
	if string(video) != "mp4-bytes" {
		t.Fatalf("video = %q", video)
	}
	if !strings.HasPrefix(createReq.Input.Face, "data:image/png;base64,") {
		t.Fatalf("face input = %q", createReq.Input.Face[:40])
	}
	if !strings.HasPrefix(createReq.Input.Audio, "data:audio/mpeg;base64,") {
		t.Fatalf("audio input = %q", createReq.Input.Audio[:40])
	}
	if len(createReq.Input.Pads) != 4 || !createReq.Input.Smooth || createReq.Input.ResizeFactor != 1 {
		t.Fatalf("unexpected model input %+v", createReq.Input)
	}
	if polls < 2 {
		t.Fatalf("expected at least two polls, got %d", polls)
	}
}

func TestLipSyncFailedPrediction(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/models/devxpy/cog-wav2lip/predictions", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"p2","status":"starting"}`))
	})
	mux.HandleFunc("/predictions/p2", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"p2","status":"failed","error":"face not detected"}`))
	})

	client := replicate.NewClient("key",
		replicate.WithBaseURL(server.URL),
		replicate.WithPollInterval(time.Millisecond),
	)
	_, err := client.LipSync(context.Background(), writeFixture(t, "face.png"), writeFixture(t, "speech.mp3"))
	if !errors.Is(err, services.ErrService) {
		t.Fatalf("expected service marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "face not detected") {
		t.Fatalf("error should carry model message, got %v", err)
	}
}

func TestLipSyncRequiresAPIKey(t *testing.T) {
	client := replicate.NewClient("")
	_, err := client.LipSync(context.Background(), writeFixture(t, "face.png"), writeFixture(t, "speech.mp3"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
}

func TestLipSyncMissingInput(t *testing.T) {
	client := replicate.NewClient("key")
	_, err := client.LipSync(context.Background(), filepath.Join(t.TempDir(), "missing.png"), writeFixture(t, "speech.mp3"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}
