// Package media wraps the ffmpeg/ffprobe command line tools for the dubbing
// pipeline.
//
// Key types:
//   - Artifact: a reference to an audio or video file with a cached duration
//   - TempSet: tracked intermediate artifacts deleted at the end of a run
//   - Toolkit: probe, extraction, time alignment, and merge operations
//
// Probing tries ffprobe's structured output first and falls back to parsing
// the Duration field from ffmpeg's diagnostic stream. Speed adjustment and
// silence padding fail soft: on tool failure the original artifact is
// returned unchanged. Extraction and merging fail hard with tagged errors.
//
// Commands run through the Executor interface so tests can substitute fakes;
// production code uses exec.CommandContext with per-operation timeouts.
package media
