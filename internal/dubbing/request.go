package dubbing

import (
	"fmt"
	"os"
	"strings"

	"voxdub/internal/services"
)

// VoiceKind selects the synthesis backend.
type VoiceKind string

const (
	// VoiceStandard uses the fixed provider voice set.
	VoiceStandard VoiceKind = "standard"
	// VoiceCloned uses an opaque cloned-voice identifier.
	VoiceCloned VoiceKind = "cloned"
)

// VoiceSelector names the voice a dub should speak with.
type VoiceSelector struct {
	Kind  VoiceKind
	Value string
}

// StandardVoice selects a named voice from the provider's fixed set.
func StandardVoice(name string) VoiceSelector {
	return VoiceSelector{Kind: VoiceStandard, Value: strings.TrimSpace(name)}
}

// ClonedVoice selects a previously cloned voice by identifier.
func ClonedVoice(id string) VoiceSelector {
	return VoiceSelector{Kind: VoiceCloned, Value: strings.TrimSpace(id)}
}

// Request describes one dubbing run.
type Request struct {
	// SourceVideo is the path to the uploaded video file.
	SourceVideo string
	// TargetLanguage is the language code the dub should speak.
	TargetLanguage string
	// SourceLanguageHint optionally narrows transcription; when it equals
	// TargetLanguage exactly, translation is skipped.
	SourceLanguageHint string
	// Voice selects the synthesis backend and voice.
	Voice VoiceSelector
	// SpeedFactor scales the synthesized audio tempo. 1.0 means unchanged.
	SpeedFactor float64
}

// Validate checks the request against the configured speed ceiling.
func (r Request) Validate(maxSpeedFactor float64) error {
	if strings.TrimSpace(r.SourceVideo) == "" {
		return services.Wrap(services.ErrValidation, "dubbing", "validate request", "source video required", nil)
	}
	if info, err := os.Stat(r.SourceVideo); err != nil || info.Size() == 0 {
		return services.Wrap(services.ErrValidation, "dubbing", "validate request",
			"source video missing or empty: "+r.SourceVideo, nil)
	}
	if strings.TrimSpace(r.TargetLanguage) == "" {
		return services.Wrap(services.ErrValidation, "dubbing", "validate request", "target language required", nil)
	}
	switch r.Voice.Kind {
	case VoiceStandard, VoiceCloned:
	default:
		return services.Wrap(services.ErrValidation, "dubbing", "validate request",
			"unknown voice kind "+string(r.Voice.Kind), nil)
	}
	if r.Voice.Kind == VoiceCloned && r.Voice.Value == "" {
		return services.Wrap(services.ErrValidation, "dubbing", "validate request", "cloned voice id required", nil)
	}
	if r.SpeedFactor <= 0 || r.SpeedFactor > maxSpeedFactor {
		return services.Wrap(services.ErrValidation, "dubbing", "validate request",
			fmt.Sprintf("speed factor %g outside (0, %g]", r.SpeedFactor, maxSpeedFactor), nil)
	}
	return nil
}

// Result reports a completed dub.
type Result struct {
	// OutputVideo is the path of the merged video, the only surviving
	// artifact of the run.
	OutputVideo string
	// OriginalText is the transcription of the source audio.
	OriginalText string
	// TranslatedText is the text that was synthesized. Equals OriginalText
	// when translation was skipped or degraded.
	TranslatedText string
	// DetectedLanguage is the language the transcriber reported, or the
	// hint when none was reported.
	DetectedLanguage string
	// OriginalDuration is the probed source video duration in seconds,
	// zero when unknown.
	OriginalDuration float64
	// FinalDuration is the probed output duration in seconds, zero when
	// unknown.
	FinalDuration float64
	// SpeedFactorApplied echoes the request's speed factor.
	SpeedFactorApplied float64
}
