package daemon

import (
	"context"
	"fmt"

	"log/slog"

	"voxdub/internal/config"
	"voxdub/internal/dubbing"
	"voxdub/internal/jobs"
	"voxdub/internal/media"
	"voxdub/internal/notifications"
	"voxdub/internal/server"
	"voxdub/internal/services/minimax"
	"voxdub/internal/services/openai"
	"voxdub/internal/services/replicate"
	"voxdub/internal/worker"
)

// transcriptAdapter bridges the OpenAI client's transcription result onto
// the pipeline's collaborator interface.
type transcriptAdapter struct {
	client *openai.Client
}

func (a transcriptAdapter) Transcribe(ctx context.Context, audioPath, languageHint string) (dubbing.Transcript, error) {
	result, err := a.client.Transcribe(ctx, audioPath, languageHint)
	if err != nil {
		return dubbing.Transcript{}, err
	}
	return dubbing.Transcript{Text: result.Text, Language: result.Language}, nil
}

// Build assembles a ready-to-start daemon: store, toolkit, provider
// clients, pipeline, worker, and API server. The caller owns the returned
// daemon and must Close it.
func Build(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	store, err := jobs.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open job store: %w", err)
	}

	toolkit := media.NewToolkit(cfg, logger)
	speech := openai.NewFromConfig(cfg.OpenAI)
	notifier := notifications.NewService(cfg)

	var cloner *minimax.Client
	if candidate := minimax.NewFromConfig(cfg.MiniMax); candidate.Configured() {
		cloner = candidate
	}

	pipelineOpts := dubbing.Options{
		Toolkit:        toolkit,
		Transcriber:    transcriptAdapter{client: speech},
		Translator:     speech,
		Standard:       speech,
		MaxSpeedFactor: cfg.Dubbing.MaxSpeedFactor,
		Logger:         logger,
	}
	if cloner != nil {
		pipelineOpts.Cloned = cloner
	}
	pipeline, err := dubbing.NewPipeline(pipelineOpts)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("construct pipeline: %w", err)
	}

	serverOpts := server.Options{
		Config:   cfg,
		Store:    store,
		Toolkit:  toolkit,
		Speech:   speech,
		Notifier: notifier,
		Logger:   logger,
	}
	if cloner != nil {
		serverOpts.Cloner = cloner
	}
	if cfg.Replicate.Enabled {
		if lipsync := replicate.NewFromConfig(cfg.Replicate); lipsync.Configured() {
			serverOpts.LipSync = lipsync
		}
	}

	srv, err := server.New(serverOpts)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	w := worker.New(cfg, store, pipeline, logger, worker.WithNotifier(notifier))
	return New(cfg, store, w, srv, logger)
}
