// Package jobs persists dubbing jobs in SQLite. The store tracks each job
// through the pipeline statuses, records per-stage progress and failure
// reasons, and keeps the catalog of cloned voices registered through the API.
// State is operational, not archival: in-flight jobs are failed on daemon
// restart because pipeline runs are not resumable.
package jobs
