package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"voxdub/internal/services"
)

// Transcription is the result of a Whisper transcription call.
type Transcription struct {
	Text     string
	Language string
}

type transcriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcribe sends an audio file to the Whisper endpoint and returns the
// recognized text. languageHint, when nonempty, narrows recognition to that
// language; the detected language is echoed back when the API reports one.
func (c *Client) Transcribe(ctx context.Context, audioPath, languageHint string) (Transcription, error) {
	var empty Transcription
	audioPath = strings.TrimSpace(audioPath)
	if audioPath == "" {
		return empty, services.Wrap(services.ErrValidation, "transcribing", "validate input", "audio path required", nil)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return empty, services.Wrap(services.ErrValidation, "transcribing", "open audio", audioPath, err)
	}
	defer file.Close()

	var payload bytes.Buffer
	form := multipart.NewWriter(&payload)
	part, err := form.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return empty, services.Wrap(services.ErrService, "transcribing", "build form", "", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return empty, services.Wrap(services.ErrService, "transcribing", "copy audio", "", err)
	}
	if err := form.WriteField("model", c.whisperModel); err != nil {
		return empty, services.Wrap(services.ErrService, "transcribing", "build form", "", err)
	}
	if hint := strings.TrimSpace(languageHint); hint != "" {
		if err := form.WriteField("language", hint); err != nil {
			return empty, services.Wrap(services.ErrService, "transcribing", "build form", "", err)
		}
	}
	if err := form.WriteField("response_format", "verbose_json"); err != nil {
		return empty, services.Wrap(services.ErrService, "transcribing", "build form", "", err)
	}
	if err := form.Close(); err != nil {
		return empty, services.Wrap(services.ErrService, "transcribing", "build form", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &payload)
	if err != nil {
		return empty, services.Wrap(services.ErrService, "transcribing", "build request", "", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	body, err := c.do(ctx, "transcribing", "whisper", req)
	if err != nil {
		return empty, err
	}

	var decoded transcriptionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return empty, services.Wrap(services.ErrService, "transcribing", "decode response", "", err)
	}
	text := strings.TrimSpace(decoded.Text)
	if text == "" {
		return empty, services.Wrap(services.ErrService, "transcribing", "decode response", "empty transcription", nil)
	}

	detected := strings.TrimSpace(decoded.Language)
	if detected == "" {
		detected = strings.TrimSpace(languageHint)
	}
	return Transcription{Text: text, Language: detected}, nil
}
