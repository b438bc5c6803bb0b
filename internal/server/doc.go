// Package server exposes the dubbing daemon's HTTP API: job submission and
// inspection, standalone text-to-speech and speech-to-text, voice cloning,
// lip sync, and catalog/status surfaces. Dubbing itself is asynchronous;
// POST /api/dub enqueues a job and clients poll /api/jobs/{id} until the
// merged video is ready.
package server
