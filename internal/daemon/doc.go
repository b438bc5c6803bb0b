// Package daemon wires the dubbing service together: the job store, the
// media toolkit, the provider clients, the background worker, and the HTTP
// API. It enforces single-instance execution through a file lock and fails
// over any jobs left mid-pipeline by a previous run.
package daemon
