package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// apiClient talks to the daemon's HTTP API.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimSuffix(base, "/"),
		http: &http.Client{Timeout: 15 * time.Minute},
	}
}

// jobPayload mirrors the API's job representation.
type jobPayload struct {
	ID               string  `json:"id"`
	Status           string  `json:"status"`
	Stage            string  `json:"stage"`
	Error            string  `json:"error"`
	SourceName       string  `json:"source_name"`
	TargetLanguage   string  `json:"target_language"`
	SourceLanguage   string  `json:"source_language"`
	VoiceKind        string  `json:"voice_kind"`
	Voice            string  `json:"voice"`
	SpeedFactor      float64 `json:"speed_factor"`
	OriginalText     string  `json:"original_text"`
	TranslatedText   string  `json:"translated_text"`
	DetectedLanguage string  `json:"detected_language"`
	OriginalDuration float64 `json:"original_duration"`
	FinalDuration    float64 `json:"final_duration"`
	VideoReady       bool    `json:"video_ready"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type voicesPayload struct {
	Standard []string `json:"standard"`
	Cloned   []struct {
		VoiceID     string `json:"voice_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		CreatedAt   string `json:"created_at"`
	} `json:"cloned"`
}

type languagesPayload struct {
	Languages []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"languages"`
}

type statusPayload struct {
	Running       bool           `json:"running"`
	PID           int            `json:"pid"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Jobs          map[string]int `json:"jobs"`
	Dependencies  []struct {
		Name      string `json:"name"`
		Command   string `json:"command"`
		Available bool   `json:"available"`
		Detail    string `json:"detail"`
	} `json:"dependencies"`
	VoiceCloning   bool `json:"voice_cloning"`
	LipSyncEnabled bool `json:"lip_sync_enabled"`
}

func (c *apiClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapConnectError(err, c.base)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

func (c *apiClient) getJSON(ctx context.Context, path string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(into)
}

func (c *apiClient) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *apiClient) postJSON(ctx context.Context, path string, body, into any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if into == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(into)
}

// postJSONRaw posts a JSON body and returns the raw response for endpoints
// that stream bytes back.
func (c *apiClient) postJSONRaw(ctx context.Context, path string, body any) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// postMultipart uploads the named files alongside plain form fields and
// returns the raw response.
func (c *apiClient) postMultipart(ctx context.Context, path string, files map[string]string, fields map[string]string) (*http.Response, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for field, filePath := range files {
		file, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filePath, err)
		}
		part, err := form.CreateFormFile(field, filepath.Base(filePath))
		if err != nil {
			file.Close()
			return nil, err
		}
		if _, err := io.Copy(part, file); err != nil {
			file.Close()
			return nil, fmt.Errorf("read %s: %w", filePath, err)
		}
		file.Close()
	}
	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := form.WriteField(key, value); err != nil {
			return nil, err
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.do(req)
}

func newGetRequest(ctx context.Context, c *apiClient, path string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
}

// decodeBody drains a JSON response into the target and closes the body.
func decodeBody(resp *http.Response, into any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(into)
}

// saveResponseBody streams a binary response to dest.
func saveResponseBody(resp *http.Response, dest string) error {
	defer resp.Body.Close()
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return errors.New(payload.Error)
	}
	return fmt.Errorf("api error: status %d", resp.StatusCode)
}

func wrapConnectError(err error, base string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon at %s: connection refused; start the daemon with `voxdubd`", base)
	}
	return fmt.Errorf("connect to daemon at %s: %w", base, err)
}
