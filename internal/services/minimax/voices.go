package minimax

import (
	"context"
	"net/http"
	"net/url"
)

// Voice describes a cloned voice registered with the provider.
type Voice struct {
	VoiceID     string `json:"voice_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PreviewURL  string `json:"preview_url"`
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
	Data   struct {
		Voices []Voice `json:"voices"`
	} `json:"data"`
	BaseResp *baseResp `json:"base_resp"`
}

// Voices lists the cloned voices known to the provider.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	endpoint := c.baseURL + "/voices"
	if c.groupID != "" {
		endpoint += "?group_id=" + url.QueryEscape(c.groupID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, "voices", "list", req)
	if err != nil {
		return nil, err
	}
	var decoded voicesResponse
	if err := decodeEnvelope(body, &decoded, "voices", "list"); err != nil {
		return nil, err
	}
	if err := decoded.BaseResp.err("voices", "list"); err != nil {
		return nil, err
	}
	if len(decoded.Voices) > 0 {
		return decoded.Voices, nil
	}
	return decoded.Data.Voices, nil
}
