package replicate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voxdub/internal/services"
)

type predictionInput struct {
	Face         string `json:"face"`
	Audio        string `json:"audio"`
	Pads         []int  `json:"pads"`
	Smooth       bool   `json:"smooth"`
	ResizeFactor int    `json:"resize_factor"`
}

type predictionRequest struct {
	Input predictionInput `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

// LipSync renders a talking-head video: the face image is animated to match
// the speech audio. Both inputs are inlined as data URIs; the settled
// prediction's output video is downloaded and returned as raw bytes.
func (c *Client) LipSync(ctx context.Context, facePath, audioPath string) ([]byte, error) {
	faceURI, err := fileDataURI(facePath)
	if err != nil {
		return nil, err
	}
	audioURI, err := fileDataURI(audioPath)
	if err != nil {
		return nil, err
	}

	created, err := c.createPrediction(ctx, predictionInput{
		Face:         faceURI,
		Audio:        audioURI,
		Pads:         []int{0, 10, 0, 0},
		Smooth:       true,
		ResizeFactor: 1,
	})
	if err != nil {
		return nil, err
	}

	settled, err := c.waitForPrediction(ctx, created)
	if err != nil {
		return nil, err
	}

	outputURL, err := outputVideoURL(settled.Output)
	if err != nil {
		return nil, err
	}
	return c.downloadOutput(ctx, outputURL)
}

func (c *Client) createPrediction(ctx context.Context, input predictionInput) (prediction, error) {
	var empty prediction
	encoded, err := json.Marshal(predictionRequest{Input: input})
	if err != nil {
		return empty, services.Wrap(services.ErrService, "lipsync", "encode request", "", err)
	}

	endpoint := c.baseURL + "/models/" + c.model + "/predictions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return empty, services.Wrap(services.ErrService, "lipsync", "build request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(ctx, "create prediction", req)
	if err != nil {
		return empty, err
	}
	var created prediction
	if err := json.Unmarshal(body, &created); err != nil {
		return empty, services.Wrap(services.ErrService, "lipsync", "decode response", "", err)
	}
	if created.ID == "" {
		return empty, services.Wrap(services.ErrService, "lipsync", "create prediction", "no prediction id", nil)
	}
	return created, nil
}

// waitForPrediction polls until the prediction reaches a terminal status or
// the configured deadline elapses.
func (c *Client) waitForPrediction(ctx context.Context, current prediction) (prediction, error) {
	deadline := time.Now().Add(c.deadline)
	for {
		switch current.Status {
		case "succeeded":
			return current, nil
		case "failed", "canceled":
			msg := strings.TrimSpace(current.Error)
			if msg == "" {
				msg = "prediction " + current.Status
			}
			return prediction{}, services.Wrap(services.ErrService, "lipsync", "prediction", msg, nil)
		}
		if time.Now().After(deadline) {
			return prediction{}, services.Wrap(services.ErrService, "lipsync", "prediction",
				"timed out waiting for prediction "+current.ID, nil)
		}

		select {
		case <-ctx.Done():
			return prediction{}, services.Wrap(services.ErrService, "lipsync", "prediction", "", ctx.Err())
		case <-time.After(c.pollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions/"+current.ID, nil)
		if err != nil {
			return prediction{}, services.Wrap(services.ErrService, "lipsync", "build request", "", err)
		}
		body, err := c.do(ctx, "poll prediction", req)
		if err != nil {
			return prediction{}, err
		}
		if err := json.Unmarshal(body, &current); err != nil {
			return prediction{}, services.Wrap(services.ErrService, "lipsync", "decode response", "", err)
		}
	}
}

func (c *Client) downloadOutput(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrService, "lipsync", "download output", "", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrService, "lipsync", "download output", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrService, "lipsync", "download output", "http "+resp.Status, nil)
	}
	video, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrService, "lipsync", "download output", "read body", err)
	}
	if len(video) == 0 {
		return nil, services.Wrap(services.ErrService, "lipsync", "download output", "empty video", nil)
	}
	return video, nil
}

// outputVideoURL accepts both output shapes the model family returns: a bare
// URL string or a list of URLs.
func outputVideoURL(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", services.Wrap(services.ErrService, "lipsync", "prediction", "no output", nil)
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 && list[0] != "" {
		return list[0], nil
	}
	return "", services.Wrap(services.ErrService, "lipsync", "prediction", "unrecognized output shape", nil)
}

var dataURIMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".mp4":  "video/mp4",
}

func fileDataURI(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", services.Wrap(services.ErrValidation, "lipsync", "validate input", "file path required", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "lipsync", "read input", path, err)
	}
	mime := dataURIMIME[strings.ToLower(filepath.Ext(path))]
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
