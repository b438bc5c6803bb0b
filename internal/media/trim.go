package media

import (
	"context"
	"fmt"
	"strings"

	"voxdub/internal/logging"
)

// HalveAudio cuts audio to its first half. Some synthesis providers return
// the rendered speech duplicated back to back; keeping the first half
// restores the intended clip. Fail-soft: probe or tool failure returns the
// original artifact unchanged.
func (t *Toolkit) HalveAudio(ctx context.Context, audio *Artifact) *Artifact {
	if audio == nil {
		return audio
	}

	total, err := t.Duration(ctx, audio)
	if err != nil || total <= 0 {
		t.logger.Warn("duration unknown, skipping duplicate-audio trim", logging.Error(err))
		return audio
	}

	dest := t.tempPath("halved", "mp3")
	args := []string{
		"-i", audio.Path,
		"-t", fmt.Sprintf("%g", total/2),
		"-acodec", "copy",
		"-y",
		dest,
	}

	output, err := t.runFFmpeg(ctx, t.filterTimeout, args)
	if err != nil {
		t.logger.Warn("duplicate-audio trim failed, keeping original audio",
			logging.String("detail", strings.TrimSpace(string(output))),
			logging.Error(err),
		)
		return audio
	}

	halved := NewAudio(dest)
	if !halved.Exists() {
		t.logger.Warn("duplicate-audio trim produced no output, keeping original audio")
		return audio
	}

	t.logger.Info("duplicated audio trimmed to first half",
		logging.Float64("seconds", total/2),
	)
	return halved
}
