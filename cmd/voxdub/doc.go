// Package main hosts the voxdub CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into HTTP
// calls against the daemon's API: submitting and inspecting dubbing jobs,
// standalone speech rendering and transcription, voice cloning, and
// configuration scaffolding. It centralizes configuration resolution and
// API address discovery so subcommands can focus on user experience.
package main
