package openai_test

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

	"voxdub/internal/services"
	"voxdub/internal/services/openai"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speech.mp3")
	if err := os.WriteFile(path, []byte("fake-mp3"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestTranscribeSendsMultipartForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Fatalf("authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Fatalf("model = %q", got)
		}
		if got := r.FormValue("language"); got != "tr" {
			t.Fatalf("language = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"merhaba dunya","language":"turkish"}`))
	}))
	t.Cleanup(server.Close)

	client := openai.NewClient("key", openai.WithBaseURL(server.URL))
	result, err := client.Transcribe(context.Background(), writeAudioFixture(t), "tr")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if result.Text != "merhaba dunya" {
		t.Fatalf("text = %q", result.Text)
	}
	if result.Language != "turkish" {
		t.Fatalf("language = %q", result.Language)
	}
}

func TestTranscribeRequiresAPIKey(t *testing.T) {
	client := openai.NewClient("")
	_, err := client.Transcribe(context.Background(), writeAudioFixture(t), "")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	client := openai.NewClient("key")
	_, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"), "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestTranslateBuildsTranslatorPrompt(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Temperature float64 `json:"temperature"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Hallo Welt"}}]}`))
	}))
	t.Cleanup(server.Close)

	client := openai.NewClient("key", openai.WithBaseURL(server.URL))
	translated, err := client.Translate(context.Background(), "hello world", "de")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if translated != "Hallo Welt" {
		t.Fatalf("translated = %q", translated)
	}
	if captured.Model != "gpt-3.5-turbo" {
		t.Fatalf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[0].Content, "Translate the following text to German") {
		t.Fatalf("prompt = %q", captured.Messages[0].Content)
	}
	if captured.Temperature != 0.3 {
		t.Fatalf("temperature = %v", captured.Temperature)
	}
}

func TestTranslateUnknownLanguagePassesThrough(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		prompt = req.Messages[0].Content
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	t.Cleanup(server.Close)

	client := openai.NewClient("key", openai.WithBaseURL(server.URL))
	if _, err := client.Translate(context.Background(), "hello", "xx"); err != nil {
		t.Fatalf("translate: %v", err)
	}
	if !strings.Contains(prompt, "Translate the following text to xx") {
		t.Fatalf("prompt = %q", prompt)
	}
}

func TestTranslateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit"}}`))
	}))
	t.Cleanup(server.Close)

	client := openai.NewClient("key", openai.WithBaseURL(server.URL))
	_, err := client.Translate(context.Background(), "hello", "de")
	if !errors.Is(err, services.ErrService) {
		t.Fatalf("expected service marker, got %v", err)
	}
}

func TestSynthesizeReturnsAudioBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model string `json:"model"`
			Voice string `json:"voice"`
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "tts-1" || req.Voice != "nova" || req.Input != "hello" {
			t.Fatalf("unexpected request %+v", req)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	t.Cleanup(server.Close)

	client := openai.NewClient("key", openai.WithBaseURL(server.URL))
	audio, err := client.Synthesize(context.Background(), "hello", "nova")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Fatalf("audio = %q", audio)
	}
}

func TestSynthesizeRejectsUnknownVoice(t *testing.T) {
	client := openai.NewClient("key")
	_, err := client.Synthesize(context.Background(), "hello", "darth")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestVoicesCatalog(t *testing.T) {
	voices := openai.Voices()
	if len(voices) != 6 {
		t.Fatalf("expected 6 voices, got %v", voices)
	}
	for _, name := range []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"} {
		if !openai.ValidVoice(name) {
			t.Fatalf("%s should be a valid voice", name)
		}
	}
	if openai.ValidVoice("") {
		t.Fatal("empty voice must be invalid")
	}
}
