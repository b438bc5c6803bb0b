// Package worker drains the job store: it claims pending dubbing jobs one at
// a time, drives the pipeline, and persists per-stage progress and the final
// outcome. One worker goroutine runs per daemon; concurrency across requests
// comes from the pipeline's per-run artifact isolation, not from parallel
// claims.
package worker
