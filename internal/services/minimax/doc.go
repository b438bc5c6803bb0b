// Package minimax wraps the MiniMax speech APIs used for cloned-voice
// synthesis: sample upload, voice cloning, cloned-voice text-to-speech, and
// the remote voice catalog. Responses arrive in several shapes (audio URLs or
// base64 payloads); the client normalizes all of them to raw mp3 bytes.
package minimax
