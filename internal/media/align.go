package media

import (
	"context"
	"fmt"
	"strings"

	"voxdub/internal/logging"
)

// AdjustSpeed returns a tempo-scaled copy of audio. A factor of exactly 1.0
// is an identity. The atempo filter only accepts factors in [0.5, 2.0], so
// out-of-range factors are chained across multiple filter stages. On tool
// failure the original artifact is returned unchanged.
func (t *Toolkit) AdjustSpeed(ctx context.Context, audio *Artifact, factor float64) *Artifact {
	if audio == nil || factor == 1.0 {
		return audio
	}

	filter := atempoFilter(factor)
	dest := t.tempPath("speed", "mp3")
	args := []string{
		"-i", audio.Path,
		"-filter:a", filter,
		"-c:a", "libmp3lame",
		"-b:a", t.bitrate,
		"-y",
		dest,
	}

	output, err := t.runFFmpeg(ctx, t.filterTimeout, args)
	if err != nil {
		t.logger.Warn("speed adjustment failed, keeping original audio",
			logging.Float64("factor", factor),
			logging.String("detail", strings.TrimSpace(string(output))),
			logging.Error(err),
		)
		return audio
	}

	adjusted := NewAudio(dest)
	if !adjusted.Exists() {
		t.logger.Warn("speed adjustment produced no output, keeping original audio",
			logging.Float64("factor", factor),
		)
		return audio
	}

	t.logger.Info("audio speed adjusted",
		logging.Float64("factor", factor),
		logging.String("filter", filter),
	)
	return adjusted
}

// AddSilence returns a copy of audio padded at the tail with the given
// seconds of silence. Non-positive durations are an identity. On tool
// failure the original artifact is returned unchanged.
func (t *Toolkit) AddSilence(ctx context.Context, audio *Artifact, seconds float64) *Artifact {
	if audio == nil || seconds <= 0 {
		return audio
	}

	dest := t.tempPath("padded", "mp3")
	args := []string{
		"-i", audio.Path,
		"-af", fmt.Sprintf("apad=pad_dur=%g", seconds),
		"-c:a", "libmp3lame",
		"-b:a", t.bitrate,
		"-y",
		dest,
	}

	output, err := t.runFFmpeg(ctx, t.filterTimeout, args)
	if err != nil {
		t.logger.Warn("silence padding failed, keeping original audio",
			logging.Float64("seconds", seconds),
			logging.String("detail", strings.TrimSpace(string(output))),
			logging.Error(err),
		)
		return audio
	}

	padded := NewAudio(dest)
	if !padded.Exists() {
		t.logger.Warn("silence padding produced no output, keeping original audio",
			logging.Float64("seconds", seconds),
		)
		return audio
	}

	t.logger.Info("silence appended", logging.Float64("seconds", seconds))
	return padded
}

// atempoChain decomposes factor into stages the atempo filter accepts.
// Factors above 2.0 are repeatedly halved (appending a 2.0 stage each time),
// factors below 0.5 repeatedly divided by 0.5, then the remainder becomes the
// final stage unless it is exactly 1.0. The division asymmetry mirrors the
// filter's valid range; do not simplify it.
func atempoChain(factor float64) []float64 {
	var stages []float64
	remaining := factor
	for remaining > 2.0 {
		stages = append(stages, 2.0)
		remaining /= 2.0
	}
	for remaining < 0.5 {
		stages = append(stages, 0.5)
		remaining /= 0.5
	}
	if remaining != 1.0 {
		stages = append(stages, remaining)
	}
	return stages
}

func atempoFilter(factor float64) string {
	stages := atempoChain(factor)
	parts := make([]string, 0, len(stages))
	for _, stage := range stages {
		parts = append(parts, fmt.Sprintf("atempo=%.2f", stage))
	}
	return strings.Join(parts, ",")
}
