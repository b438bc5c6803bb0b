// Package openai wraps the OpenAI speech and chat APIs used for dubbing:
// Whisper transcription, chat-completion translation, and standard-voice
// text-to-speech. The client is transport-injectable for tests and keeps
// per-call timeouts bounded by configuration.
package openai
