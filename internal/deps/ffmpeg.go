package deps

import (
	"strings"

	"voxdub/internal/config"
)

// Requirements builds the external-binary checklist for the configured
// transcode toolchain. ffmpeg and ffprobe are both mandatory: extraction,
// alignment, and merging run through ffmpeg while duration probing prefers
// ffprobe.
func Requirements(cfg *config.Config) []Requirement {
	ffmpeg := "ffmpeg"
	ffprobe := "ffprobe"
	if cfg != nil {
		if binary := strings.TrimSpace(cfg.FFmpeg.FFmpegBinary); binary != "" {
			ffmpeg = binary
		}
		if binary := strings.TrimSpace(cfg.FFmpeg.FFprobeBinary); binary != "" {
			ffprobe = binary
		}
	}
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Audio extraction, speed adjustment, and merging",
		},
		{
			Name:        "FFprobe",
			Command:     ffprobe,
			Description: "Media duration probing",
		},
	}
}

// Check evaluates the configured toolchain and reports availability.
func Check(cfg *config.Config) []Status {
	return CheckBinaries(Requirements(cfg))
}
