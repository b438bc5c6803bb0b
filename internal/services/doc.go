// Package services defines shared utilities consumed by the dubbing pipeline
// and the external provider integrations.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, pipeline stage names, and request
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep the pipeline's
//     fail-fast vs fail-soft classification explicit at the type level.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
