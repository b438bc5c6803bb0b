package media

import (
	"context"
	"strconv"
	"strings"

	"voxdub/internal/logging"
	"voxdub/internal/services"
)

// ExtractAudio demuxes the audio track of video into a standalone mp3
// artifact at the configured bitrate and sample rate.
func (t *Toolkit) ExtractAudio(ctx context.Context, video *Artifact) (*Artifact, error) {
	if video == nil || strings.TrimSpace(video.Path) == "" {
		return nil, services.Wrap(services.ErrValidation, "extracting", "validate input", "no video artifact", nil)
	}

	dest := t.tempPath("audio", "mp3")
	args := []string{
		"-i", video.Path,
		"-vn",
		"-acodec", "libmp3lame",
		"-b:a", t.bitrate,
		"-ar", strconv.Itoa(t.sampleRate),
		"-y",
		dest,
	}

	output, err := t.runFFmpeg(ctx, t.extractTimeout, args)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "extracting", "run ffmpeg",
			strings.TrimSpace(string(output)), err)
	}

	audio := NewAudio(dest)
	if !audio.Exists() {
		return nil, services.Wrap(services.ErrExternalTool, "extracting", "verify output",
			"extracted audio missing or empty", nil)
	}

	t.logger.Info("audio extracted",
		logging.String("source", video.Path),
		logging.String("audio", dest),
	)
	return audio, nil
}
