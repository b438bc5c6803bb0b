package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks bad caller input: missing files, unsupported
	// formats, out-of-range parameters.
	ErrValidation = errors.New("validation error")
	// ErrExternalTool marks a transcode-tool failure: nonzero exit or a
	// missing/empty output artifact.
	ErrExternalTool = errors.New("external tool error")
	// ErrService marks a remote provider failure (transcription,
	// translation, synthesis, lip sync).
	ErrService = errors.New("service error")
	// ErrProbe marks an undeterminable media duration.
	ErrProbe = errors.New("probe error")
	// ErrConfiguration marks unusable daemon configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrService
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsValidation reports whether err carries the validation marker. Handlers
// use it to decide between a 400 and a 500 response.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
