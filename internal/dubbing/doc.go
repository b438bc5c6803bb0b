// Package dubbing orchestrates the end-to-end dub of a video: extract the
// audio track, transcribe it, translate the transcript, synthesize speech in
// the target language, apply the user's speed factor, and merge the new audio
// back onto the original video.
//
// The pipeline is a strict forward sequence with no branching back. Stage
// failures follow a fixed policy: extraction, transcription, synthesis, and
// merge abort the run; translation and the audio adjustments degrade
// gracefully. Every intermediate artifact is tracked and deleted best-effort
// when the run ends, whatever the outcome — only the merged output survives.
package dubbing
