package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"voxdub/internal/language"
	"voxdub/internal/services"
)

const translatorPrompt = "You are a professional translator. Translate the following text to %s. Only provide the translation, no explanations."

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Translate renders text into the target language through the chat
// completions endpoint. Language codes are expanded to display names for the
// prompt; unknown codes are used verbatim.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", services.Wrap(services.ErrValidation, "translating", "validate input", "text required", nil)
	}
	targetLanguage = strings.TrimSpace(targetLanguage)
	if targetLanguage == "" {
		return "", services.Wrap(services.ErrValidation, "translating", "validate input", "target language required", nil)
	}

	request := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(translatorPrompt, language.DisplayName(targetLanguage))},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
	}
	encoded, err := json.Marshal(request)
	if err != nil {
		return "", services.Wrap(services.ErrService, "translating", "encode request", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrService, "translating", "build request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(ctx, "translating", "chat completion", req)
	if err != nil {
		return "", err
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrService, "translating", "decode response", "", err)
	}
	if decoded.Error != nil {
		return "", services.Wrap(services.ErrService, "translating", "chat completion",
			strings.TrimSpace(decoded.Error.Message), nil)
	}
	if len(decoded.Choices) == 0 {
		return "", services.Wrap(services.ErrService, "translating", "decode response", "empty choices", nil)
	}
	translated := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if translated == "" {
		return "", services.Wrap(services.ErrService, "translating", "decode response", "empty translation", nil)
	}
	return translated, nil
}
