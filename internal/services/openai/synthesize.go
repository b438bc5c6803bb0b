package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"voxdub/internal/services"
)

// standardVoices is the fixed voice set the speech endpoint accepts.
var standardVoices = map[string]struct{}{
	"alloy":   {},
	"echo":    {},
	"fable":   {},
	"onyx":    {},
	"nova":    {},
	"shimmer": {},
}

// DefaultVoice is used when a request does not name a voice.
const DefaultVoice = "alloy"

// Voices returns the standard voice names in sorted order.
func Voices() []string {
	names := make([]string, 0, len(standardVoices))
	for name := range standardVoices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidVoice reports whether name is one of the standard voices.
func ValidVoice(name string) bool {
	_, ok := standardVoices[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

// Synthesize renders text with a standard voice and returns the mp3 bytes.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, services.Wrap(services.ErrValidation, "synthesizing", "validate input", "text required", nil)
	}
	voice = strings.ToLower(strings.TrimSpace(voice))
	if voice == "" {
		voice = DefaultVoice
	}
	if !ValidVoice(voice) {
		return nil, services.Wrap(services.ErrValidation, "synthesizing", "validate input", "unknown voice "+voice, nil)
	}

	encoded, err := json.Marshal(speechRequest{Model: c.ttsModel, Voice: voice, Input: text})
	if err != nil {
		return nil, services.Wrap(services.ErrService, "synthesizing", "encode request", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/speech", bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrService, "synthesizing", "build request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	audio, err := c.do(ctx, "synthesizing", "speech", req)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, services.Wrap(services.ErrService, "synthesizing", "speech", "empty audio response", nil)
	}
	return audio, nil
}
