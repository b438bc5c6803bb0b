// Package logging constructs the slog loggers used across voxdub.
//
// It provides a human-oriented console handler and a JSON handler selected by
// configuration, attr helper shims so call sites avoid importing slog
// directly, and context helpers that stamp job/stage/request identifiers onto
// log records.
package logging
