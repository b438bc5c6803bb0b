package media

import (
	"context"
	"fmt"
	"strings"

	"voxdub/internal/logging"
	"voxdub/internal/services"
)

// Merge combines the visual track of video with audio into a new mp4
// artifact. With reconcile enabled and both durations known, the duration
// mismatch is resolved: longer audio extends the video (re-encode), shorter
// audio is padded with silence while the video stream is copied. When either
// duration is unknown or reconcile is disabled, a naive shortest-stream merge
// is used. The audio track is always re-encoded to aac at the configured
// bitrate. Intermediate artifacts (a silence-padded audio copy) are
// registered on temps when provided.
func (t *Toolkit) Merge(ctx context.Context, video, audio *Artifact, reconcile bool, temps *TempSet) (*Artifact, error) {
	if video == nil || audio == nil {
		return nil, services.Wrap(services.ErrValidation, "merging", "validate inputs", "video and audio artifacts required", nil)
	}

	var (
		videoDuration, audioDuration float64
		durationsKnown               bool
	)
	if reconcile {
		vd, vErr := t.Duration(ctx, video)
		ad, aErr := t.Duration(ctx, audio)
		if vErr == nil && aErr == nil {
			videoDuration, audioDuration = vd, ad
			durationsKnown = true
		} else {
			t.logger.Warn("merge durations unknown, falling back to naive merge",
				logging.Error(errFirst(vErr, aErr)),
			)
		}
	}

	dest := t.tempPath("dubbed", "mp4")
	var args []string
	switch {
	case durationsKnown && audioDuration > videoDuration:
		// Audio overruns the video: re-encode and extend the output to
		// the audio's duration.
		args = []string{
			"-i", video.Path,
			"-i", audio.Path,
			"-c:v", "libx264",
			"-c:a", "aac",
			"-b:a", t.bitrate,
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-t", fmt.Sprintf("%g", audioDuration),
			"-y",
			dest,
		}
	case durationsKnown:
		// Audio fits inside the video: pad it with silence and copy the
		// video stream untouched. -shortest stays as a guard even though
		// both streams should now be equal length.
		padded := t.AddSilence(ctx, audio, videoDuration-audioDuration)
		if padded != audio && temps != nil {
			temps.Add(padded)
		}
		args = []string{
			"-i", video.Path,
			"-i", padded.Path,
			"-c:v", "copy",
			"-c:a", "aac",
			"-b:a", t.bitrate,
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-shortest",
			"-y",
			dest,
		}
	default:
		args = []string{
			"-i", video.Path,
			"-i", audio.Path,
			"-c:v", "copy",
			"-c:a", "aac",
			"-b:a", t.bitrate,
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-shortest",
			"-y",
			dest,
		}
	}

	output, err := t.runFFmpeg(ctx, t.mergeTimeout, args)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "merging", "run ffmpeg",
			strings.TrimSpace(string(output)), err)
	}

	merged := NewVideo(dest)
	if !merged.Exists() {
		return nil, services.Wrap(services.ErrExternalTool, "merging", "verify output",
			"merged video missing or empty", nil)
	}

	t.logger.Info("audio merged into video",
		logging.String("video", video.Path),
		logging.String("audio", audio.Path),
		logging.String("output", dest),
		logging.Bool("reconciled", durationsKnown),
	)
	return merged, nil
}

func errFirst(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
