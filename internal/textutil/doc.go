// Package textutil provides small text normalization helpers used when
// client-supplied strings end up in filenames or HTTP headers.
package textutil
