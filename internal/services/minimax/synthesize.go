package minimax

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"voxdub/internal/services"
)

// minAudioBytes guards against truncated or empty provider payloads.
const minAudioBytes = 100

type voiceSetting struct {
	VoiceID string  `json:"voice_id"`
	Speed   float64 `json:"speed"`
	Volume  float64 `json:"vol"`
	Pitch   int     `json:"pitch"`
}

type audioSetting struct {
	SampleRate int    `json:"sample_rate"`
	Bitrate    int    `json:"bitrate"`
	Format     string `json:"format"`
	Channel    int    `json:"channel"`
}

type t2aRequest struct {
	Model        string       `json:"model"`
	Text         string       `json:"text"`
	VoiceSetting voiceSetting `json:"voice_setting"`
	AudioSetting audioSetting `json:"audio_setting"`
	GroupID      string       `json:"group_id,omitempty"`
}

type t2aResponse struct {
	Data struct {
		Audio    string `json:"audio"`
		AudioURL string `json:"audio_url"`
	} `json:"data"`
	ExtraInfo struct {
		AudioURL string `json:"audio_url"`
	} `json:"extra_info"`
	Audio    string    `json:"audio"`
	BaseResp *baseResp `json:"base_resp"`
}

// Synthesize renders text with a cloned voice through the t2a_v2 endpoint
// and returns the mp3 bytes. The provider answers with either a download URL
// or inline base64 audio; both forms are handled.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, services.Wrap(services.ErrValidation, "synthesizing", "validate input", "text required", nil)
	}
	voiceID = strings.TrimSpace(voiceID)
	if voiceID == "" {
		return nil, services.Wrap(services.ErrValidation, "synthesizing", "validate input", "voice id required", nil)
	}

	request := t2aRequest{
		Model: c.model,
		Text:  text,
		VoiceSetting: voiceSetting{
			VoiceID: voiceID,
			Speed:   1.0,
			Volume:  1.0,
			Pitch:   0,
		},
		AudioSetting: audioSetting{
			SampleRate: 32000,
			Bitrate:    128000,
			Format:     "mp3",
			Channel:    1,
		},
		GroupID: c.groupID,
	}
	encoded, err := json.Marshal(request)
	if err != nil {
		return nil, services.Wrap(services.ErrService, "synthesizing", "encode request", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/t2a_v2", bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrService, "synthesizing", "build request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(ctx, "synthesizing", "t2a", req)
	if err != nil {
		return nil, err
	}

	var decoded t2aResponse
	if err := decodeEnvelope(body, &decoded, "synthesizing", "t2a"); err != nil {
		return nil, err
	}
	if err := decoded.BaseResp.err("synthesizing", "t2a"); err != nil {
		return nil, err
	}

	audio, err := c.resolveAudio(ctx, decoded)
	if err != nil {
		return nil, err
	}
	if len(audio) < minAudioBytes {
		return nil, services.Wrap(services.ErrService, "synthesizing", "t2a", "audio payload too short", nil)
	}
	return audio, nil
}

// resolveAudio extracts audio from the response, preferring download URLs
// over inline base64 payloads.
func (c *Client) resolveAudio(ctx context.Context, resp t2aResponse) ([]byte, error) {
	switch {
	case resp.Data.AudioURL != "":
		return c.download(ctx, resp.Data.AudioURL)
	case resp.ExtraInfo.AudioURL != "":
		return c.download(ctx, resp.ExtraInfo.AudioURL)
	case resp.Data.Audio != "":
		return decodeBase64Audio(resp.Data.Audio)
	case resp.Audio != "":
		return decodeBase64Audio(resp.Audio)
	}
	return nil, services.Wrap(services.ErrService, "synthesizing", "t2a", "no audio in response", nil)
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrService, "synthesizing", "download audio", "", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrService, "synthesizing", "download audio", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrService, "synthesizing", "download audio", "http "+resp.Status, nil)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrService, "synthesizing", "download audio", "read body", err)
	}
	return audio, nil
}

// decodeBase64Audio tolerates provider payloads with stripped padding.
func decodeBase64Audio(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if missing := len(encoded) % 4; missing != 0 {
		encoded += strings.Repeat("=", 4-missing)
	}
	audio, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, services.Wrap(services.ErrService, "synthesizing", "decode audio", "", err)
	}
	return audio, nil
}
