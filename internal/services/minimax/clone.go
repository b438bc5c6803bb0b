package minimax

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"voxdub/internal/services"
)

var mimeByExtension = map[string]string{
	".mp3": "audio/mpeg",
	".m4a": "audio/mp4",
	".wav": "audio/wav",
}

var nonIdentifier = regexp.MustCompile(`[^a-z0-9_]+`)
var repeatedUnderscore = regexp.MustCompile(`_+`)

type uploadResponse struct {
	File struct {
		FileID json.Number `json:"file_id"`
	} `json:"file"`
	FileID json.Number `json:"file_id"`
	Data   struct {
		FileID json.Number `json:"file_id"`
	} `json:"data"`
	BaseResp *baseResp `json:"base_resp"`
}

func (r uploadResponse) fileID() string {
	for _, id := range []json.Number{r.File.FileID, r.FileID, r.Data.FileID} {
		if id.String() != "" {
			return id.String()
		}
	}
	return ""
}

type cloneRequest struct {
	FileID  string `json:"file_id"`
	VoiceID string `json:"voice_id"`
	Text    string `json:"text"`
	Model   string `json:"model"`
}

type cloneResponse struct {
	BaseResp *baseResp `json:"base_resp"`
}

// CloneVoice uploads a speech sample and registers a cloned voice from it.
// The returned voice ID is derived from name plus a random suffix so repeated
// clones of the same name never collide.
func (c *Client) CloneVoice(ctx context.Context, samplePath, name, description string) (string, error) {
	samplePath = strings.TrimSpace(samplePath)
	if samplePath == "" {
		return "", services.Wrap(services.ErrValidation, "cloning", "validate input", "sample path required", nil)
	}
	if strings.TrimSpace(name) == "" {
		return "", services.Wrap(services.ErrValidation, "cloning", "validate input", "voice name required", nil)
	}

	fileID, err := c.uploadSample(ctx, samplePath)
	if err != nil {
		return "", err
	}

	voiceID := VoiceIDFromName(name)
	text := strings.TrimSpace(description)
	if text == "" {
		text = "This is a cloned voice for text-to-speech."
	}

	encoded, err := json.Marshal(cloneRequest{
		FileID:  fileID,
		VoiceID: voiceID,
		Text:    text,
		Model:   c.model,
	})
	if err != nil {
		return "", services.Wrap(services.ErrService, "cloning", "encode request", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/voice_clone", bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrService, "cloning", "build request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(ctx, "cloning", "voice clone", req)
	if err != nil {
		return "", err
	}
	var decoded cloneResponse
	if err := decodeEnvelope(body, &decoded, "cloning", "voice clone"); err != nil {
		return "", err
	}
	if err := decoded.BaseResp.err("cloning", "voice clone"); err != nil {
		return "", err
	}
	return voiceID, nil
}

func (c *Client) uploadSample(ctx context.Context, samplePath string) (string, error) {
	file, err := os.Open(samplePath)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "cloning", "open sample", samplePath, err)
	}
	defer file.Close()

	var payload bytes.Buffer
	form := multipart.NewWriter(&payload)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="file"; filename="`+filepath.Base(samplePath)+`"`)
	header.Set("Content-Type", sampleMIMEType(samplePath))
	part, err := form.CreatePart(header)
	if err != nil {
		return "", services.Wrap(services.ErrService, "cloning", "build form", "", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", services.Wrap(services.ErrService, "cloning", "copy sample", "", err)
	}
	if err := form.WriteField("purpose", "voice_clone"); err != nil {
		return "", services.Wrap(services.ErrService, "cloning", "build form", "", err)
	}
	if err := form.Close(); err != nil {
		return "", services.Wrap(services.ErrService, "cloning", "build form", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", &payload)
	if err != nil {
		return "", services.Wrap(services.ErrService, "cloning", "build request", "", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	body, err := c.do(ctx, "cloning", "upload sample", req)
	if err != nil {
		return "", err
	}
	var decoded uploadResponse
	if err := decodeEnvelope(body, &decoded, "cloning", "upload sample"); err != nil {
		return "", err
	}
	if err := decoded.BaseResp.err("cloning", "upload sample"); err != nil {
		return "", err
	}
	fileID := decoded.fileID()
	if fileID == "" {
		return "", services.Wrap(services.ErrService, "cloning", "upload sample", "no file_id in response", nil)
	}
	return fileID, nil
}

func sampleMIMEType(path string) string {
	if mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "audio/mpeg"
}

// VoiceIDFromName derives a provider-safe voice identifier: lowercase ASCII
// letters, digits and underscores, plus a short random suffix.
func VoiceIDFromName(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonIdentifier.ReplaceAllString(slug, "_")
	slug = repeatedUnderscore.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if slug == "" {
		return "voice_" + suffix
	}
	return slug + "_" + suffix
}
