package dubbing

import (
	"context"
	"fmt"
	"log/slog"

	"voxdub/internal/logging"
	"voxdub/internal/media"
	"voxdub/internal/services"
)

// Stage identifies a pipeline phase for progress reporting.
type Stage string

const (
	StageExtracting   Stage = "extracting"
	StageTranscribing Stage = "transcribing"
	StageTranslating  Stage = "translating"
	StageSynthesizing Stage = "synthesizing"
	StageAligning     Stage = "aligning"
	StageMerging      Stage = "merging"
	StageDone         Stage = "done"
)

// Transcript is a speech-to-text result.
type Transcript struct {
	Text     string
	Language string
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, languageHint string) (Transcript, error)
}

// Translator renders text into a target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Synthesizer renders text to speech. The voice argument is a standard voice
// name or a cloned-voice identifier depending on the backing implementation.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Pipeline wires the collaborators for dubbing runs. Instances are safe for
// concurrent use; each run tracks its own artifacts.
type Pipeline struct {
	toolkit        *media.Toolkit
	transcriber    Transcriber
	translator     Translator
	standard       Synthesizer
	cloned         Synthesizer
	maxSpeedFactor float64
	logger         *slog.Logger
}

// Options configures a Pipeline.
type Options struct {
	Toolkit        *media.Toolkit
	Transcriber    Transcriber
	Translator     Translator
	Standard       Synthesizer
	Cloned         Synthesizer
	MaxSpeedFactor float64
	Logger         *slog.Logger
}

// NewPipeline constructs a dubbing pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Toolkit == nil {
		return nil, services.Wrap(services.ErrConfiguration, "dubbing", "construct pipeline", "media toolkit required", nil)
	}
	if opts.Transcriber == nil || opts.Translator == nil || opts.Standard == nil {
		return nil, services.Wrap(services.ErrConfiguration, "dubbing", "construct pipeline", "transcriber, translator, and standard synthesizer required", nil)
	}
	if opts.MaxSpeedFactor <= 0 {
		opts.MaxSpeedFactor = 3.0
	}
	return &Pipeline{
		toolkit:        opts.Toolkit,
		transcriber:    opts.Transcriber,
		translator:     opts.Translator,
		standard:       opts.Standard,
		cloned:         opts.Cloned,
		maxSpeedFactor: opts.MaxSpeedFactor,
		logger:         logging.NewComponentLogger(opts.Logger, "dubbing"),
	}, nil
}

// Run executes the full dub. observe, when non-nil, is called as each stage
// begins (and once with StageDone); it must not block. On failure every temp
// artifact is removed and the returned error names the failing stage.
func (p *Pipeline) Run(ctx context.Context, req Request, observe func(Stage)) (*Result, error) {
	if err := req.Validate(p.maxSpeedFactor); err != nil {
		return nil, err
	}
	notify := func(stage Stage) {
		if observe != nil {
			observe(stage)
		}
	}

	video := media.NewVideo(req.SourceVideo)
	temps := &media.TempSet{}
	cleanup := func() { temps.Cleanup(p.logger) }

	// Stage 1: extract the audio track.
	notify(StageExtracting)
	audio, err := p.toolkit.ExtractAudio(ctx, video)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("extraction: %w", err)
	}
	temps.Add(audio)

	// Advisory only; merge probes again on its own.
	originalDuration, probeErr := p.toolkit.Duration(ctx, video)
	if probeErr != nil {
		p.logger.Warn("source duration unknown", logging.Error(probeErr))
	}

	// Stage 2: transcribe.
	notify(StageTranscribing)
	transcript, err := p.transcriber.Transcribe(ctx, audio.Path, req.SourceLanguageHint)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("transcription: %w", err)
	}
	detected := transcript.Language
	if detected == "" {
		detected = req.SourceLanguageHint
	}

	// Stage 3: translate, skipped when source and target codes match
	// exactly. Failure degrades to the untranslated text.
	notify(StageTranslating)
	translated := transcript.Text
	if req.TargetLanguage != req.SourceLanguageHint {
		out, translateErr := p.translator.Translate(ctx, transcript.Text, req.TargetLanguage)
		if translateErr != nil {
			p.logger.Warn("translation failed, dubbing with original text",
				logging.String("target_language", req.TargetLanguage),
				logging.Error(translateErr),
			)
		} else {
			translated = out
		}
	}

	// Stage 4: synthesize speech.
	notify(StageSynthesizing)
	synthesized, err := p.synthesize(ctx, translated, req.Voice, temps)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("synthesis: %w", err)
	}

	// Stage 5: user speed factor only. Duration reconciliation against the
	// video happens at merge time, not here.
	notify(StageAligning)
	aligned := synthesized
	if req.SpeedFactor != 1.0 {
		aligned = p.toolkit.AdjustSpeed(ctx, synthesized, req.SpeedFactor)
		if aligned != synthesized {
			temps.Add(aligned)
		}
	}

	// Stage 6: merge.
	notify(StageMerging)
	merged, err := p.toolkit.Merge(ctx, video, aligned, true, temps)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("merge: %w", err)
	}

	// Stage 7: report, keep only the output.
	notify(StageDone)
	finalDuration, finalErr := p.toolkit.Duration(ctx, merged)
	if finalErr != nil {
		p.logger.Warn("final duration unknown", logging.Error(finalErr))
	}
	temps.Exclude(merged.Path)
	cleanup()

	p.logger.Info("dub complete",
		logging.String("source", req.SourceVideo),
		logging.String("output", merged.Path),
		logging.String("target_language", req.TargetLanguage),
		logging.Float64("speed_factor", req.SpeedFactor),
	)
	return &Result{
		OutputVideo:        merged.Path,
		OriginalText:       transcript.Text,
		TranslatedText:     translated,
		DetectedLanguage:   detected,
		OriginalDuration:   originalDuration,
		FinalDuration:      finalDuration,
		SpeedFactorApplied: req.SpeedFactor,
	}, nil
}

// synthesize dispatches to the configured backend and lands the audio bytes
// in a temp artifact. Cloned-voice output goes through the duplicated-audio
// trim because the provider intermittently renders the speech twice.
func (p *Pipeline) synthesize(ctx context.Context, text string, voice VoiceSelector, temps *media.TempSet) (*media.Artifact, error) {
	var (
		data []byte
		err  error
	)
	switch voice.Kind {
	case VoiceCloned:
		if p.cloned == nil {
			return nil, services.Wrap(services.ErrConfiguration, "synthesizing", "select backend", "cloned-voice synthesis not configured", nil)
		}
		data, err = p.cloned.Synthesize(ctx, text, voice.Value)
	default:
		data, err = p.standard.Synthesize(ctx, text, voice.Value)
	}
	if err != nil {
		return nil, err
	}

	artifact, err := p.toolkit.SaveAudio(data, "synth")
	if err != nil {
		return nil, err
	}
	temps.Add(artifact)

	if voice.Kind == VoiceCloned {
		halved := p.toolkit.HalveAudio(ctx, artifact)
		if halved != artifact {
			temps.Add(halved)
			artifact = halved
		}
	}
	return artifact, nil
}
