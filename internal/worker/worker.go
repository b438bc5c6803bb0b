package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"voxdub/internal/config"
	"voxdub/internal/dubbing"
	"voxdub/internal/jobs"
	"voxdub/internal/logging"
	"voxdub/internal/notifications"
	"voxdub/internal/services"
)

// Runner executes one dubbing run. *dubbing.Pipeline satisfies it; tests
// substitute fakes.
type Runner interface {
	Run(ctx context.Context, req dubbing.Request, observe func(dubbing.Stage)) (*dubbing.Result, error)
}

// Worker polls the store for pending jobs and runs them sequentially.
type Worker struct {
	store        *jobs.Store
	runner       Runner
	logger       *slog.Logger
	notifier     notifications.Service
	pollInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures optional worker behavior.
type Option func(*Worker)

// WithPollInterval overrides the queue polling cadence (used in tests).
func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithNotifier sets the push notification service for terminal job states.
func WithNotifier(notifier notifications.Service) Option {
	return func(w *Worker) {
		if notifier != nil {
			w.notifier = notifier
		}
	}
}

// New constructs a worker.
func New(cfg *config.Config, store *jobs.Store, runner Runner, logger *slog.Logger, opts ...Option) *Worker {
	interval := time.Duration(cfg.Worker.PollIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 2 * time.Second
	}
	worker := &Worker{
		store:        store,
		runner:       runner,
		logger:       logging.NewComponentLogger(logger, "worker"),
		notifier:     notifications.NewService(cfg),
		pollInterval: interval,
	}
	for _, opt := range opts {
		opt(worker)
	}
	return worker
}

// Start begins background processing.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("worker already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	go w.loop(runCtx)
	return nil
}

// Stop terminates background processing and waits for the in-flight job.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.store.ClaimNextPending(ctx)
		if err != nil {
			w.logger.Error("claim pending job", logging.Error(err))
		} else if job != nil {
			w.process(ctx, job)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.pollInterval):
		}
	}
}

// statusForStage maps pipeline stages onto job statuses.
func statusForStage(stage dubbing.Stage) (jobs.Status, bool) {
	switch stage {
	case dubbing.StageExtracting:
		return jobs.StatusExtracting, true
	case dubbing.StageTranscribing:
		return jobs.StatusTranscribing, true
	case dubbing.StageTranslating:
		return jobs.StatusTranslating, true
	case dubbing.StageSynthesizing:
		return jobs.StatusSynthesizing, true
	case dubbing.StageAligning:
		return jobs.StatusAligning, true
	case dubbing.StageMerging:
		return jobs.StatusMerging, true
	default:
		return "", false
	}
}

func (w *Worker) process(ctx context.Context, job *jobs.Job) {
	jobCtx := services.WithRequestID(services.WithJobID(ctx, job.ID), job.RequestID)
	logger := w.logger.With(slog.Int64(logging.FieldJobID, job.ID))
	logger.Info("job started",
		logging.String("source", job.SourceName),
		logging.String("target_language", job.TargetLanguage),
	)

	req := dubbing.Request{
		SourceVideo:        job.SourcePath,
		TargetLanguage:     job.TargetLanguage,
		SourceLanguageHint: job.SourceLanguageHint,
		SpeedFactor:        job.SpeedFactor,
	}
	switch job.VoiceKind {
	case jobs.VoiceCloned:
		req.Voice = dubbing.ClonedVoice(job.Voice)
	default:
		req.Voice = dubbing.StandardVoice(job.Voice)
	}

	observe := func(stage dubbing.Stage) {
		status, ok := statusForStage(stage)
		if !ok {
			return
		}
		job.SetStage(status, string(stage))
		if err := w.store.Update(jobCtx, job); err != nil {
			logger.Warn("persist stage progress", logging.Error(err))
		}
	}

	result, err := w.runner.Run(jobCtx, req, observe)
	if err != nil {
		job.SetFailed(job.Stage, err.Error())
		if updateErr := w.store.Update(jobCtx, job); updateErr != nil {
			logger.Error("persist job failure", logging.Error(updateErr))
		}
		logger.Error("job failed",
			logging.String("stage", job.Stage),
			logging.Error(err),
		)
		if notifyErr := w.notifier.NotifyJobFailed(jobCtx, job.SourceName, job.Stage, err.Error()); notifyErr != nil {
			logger.Warn("send failure notification", logging.Error(notifyErr))
		}
		return
	}

	job.OriginalText = result.OriginalText
	job.TranslatedText = result.TranslatedText
	job.DetectedLanguage = result.DetectedLanguage
	job.OriginalDuration = result.OriginalDuration
	job.FinalDuration = result.FinalDuration
	job.SetCompleted(result.OutputVideo)
	if err := w.store.Update(jobCtx, job); err != nil {
		logger.Error("persist job completion", logging.Error(err))
		return
	}
	logger.Info("job completed",
		logging.String("output", result.OutputVideo),
		logging.Float64("final_duration", result.FinalDuration),
	)
	if notifyErr := w.notifier.NotifyJobCompleted(jobCtx, job.SourceName, job.TargetLanguage); notifyErr != nil {
		logger.Warn("send completion notification", logging.Error(notifyErr))
	}
}
