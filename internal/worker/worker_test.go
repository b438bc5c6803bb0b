package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"voxdub/internal/config"
	"voxdub/internal/dubbing"
	"voxdub/internal/jobs"
	"voxdub/internal/worker"
)

type recordingNotifier struct {
	completed chan string
	failed    chan string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		completed: make(chan string, 1),
		failed:    make(chan string, 1),
	}
}

func (n *recordingNotifier) NotifyJobCompleted(_ context.Context, sourceName, _ string) error {
	n.completed <- sourceName
	return nil
}

func (n *recordingNotifier) NotifyJobFailed(_ context.Context, sourceName, _, _ string) error {
	n.failed <- sourceName
	return nil
}

func (n *recordingNotifier) NotifyVoiceCloned(context.Context, string, string) error { return nil }
func (n *recordingNotifier) TestNotification(context.Context) error                  { return nil }

type fakeRunner struct {
	result *dubbing.Result
	err    error
	gotReq chan dubbing.Request
}

func (f *fakeRunner) Run(_ context.Context, req dubbing.Request, observe func(dubbing.Stage)) (*dubbing.Result, error) {
	for _, stage := range []dubbing.Stage{
		dubbing.StageExtracting,
		dubbing.StageTranscribing,
		dubbing.StageTranslating,
		dubbing.StageSynthesizing,
		dubbing.StageAligning,
		dubbing.StageMerging,
	} {
		if observe != nil {
			observe(stage)
		}
	}
	select {
	case f.gotReq <- req:
	default:
	}
	return f.result, f.err
}

func newWorkerHarness(t *testing.T, runner *fakeRunner, extra ...worker.Option) (*worker.Worker, *jobs.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.UploadDir = t.TempDir()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()

	store, err := jobs.Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	opts := append([]worker.Option{worker.WithPollInterval(5 * time.Millisecond)}, extra...)
	w := worker.New(&cfg, store, runner, nil, opts...)
	return w, store
}

func waitForStatus(t *testing.T, store *jobs.Store, id int64, want jobs.Status) *jobs.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("get job: %v", err)
		}
		if job != nil && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %d never reached %s", id, want)
	return nil
}

func TestWorkerCompletesJob(t *testing.T) {
	runner := &fakeRunner{
		result: &dubbing.Result{
			OutputVideo:        "/work/dubbed.mp4",
			OriginalText:       "hello",
			TranslatedText:     "merhaba",
			DetectedLanguage:   "en",
			OriginalDuration:   10.0,
			FinalDuration:      10.5,
			SpeedFactorApplied: 1.0,
		},
		gotReq: make(chan dubbing.Request, 1),
	}
	notifier := newRecordingNotifier()
	w, store := newWorkerHarness(t, runner, worker.WithNotifier(notifier))

	created, err := store.Create(context.Background(), &jobs.Job{
		RequestID:          uuid.NewString(),
		SourcePath:         "/uploads/clip.mp4",
		SourceName:         "clip.mp4",
		TargetLanguage:     "tr",
		SourceLanguageHint: "en",
		VoiceKind:          jobs.VoiceCloned,
		Voice:              "ayse_12ab",
		SpeedFactor:        1.5,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(w.Stop)

	done := waitForStatus(t, store, created.ID, jobs.StatusCompleted)
	if done.OutputPath != "/work/dubbed.mp4" {
		t.Fatalf("output = %q", done.OutputPath)
	}
	if done.TranslatedText != "merhaba" || done.FinalDuration != 10.5 {
		t.Fatalf("result fields not persisted: %+v", done)
	}
	if done.Stage != "done" {
		t.Fatalf("stage = %q", done.Stage)
	}

	req := <-runner.gotReq
	if req.Voice.Kind != dubbing.VoiceCloned || req.Voice.Value != "ayse_12ab" {
		t.Fatalf("voice selector = %+v", req.Voice)
	}
	if req.SpeedFactor != 1.5 || req.TargetLanguage != "tr" {
		t.Fatalf("request fields = %+v", req)
	}

	select {
	case source := <-notifier.completed:
		if source != "clip.mp4" {
			t.Fatalf("notified source = %q", source)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("completion notification never sent")
	}
}

func TestWorkerPersistsFailure(t *testing.T) {
	runner := &fakeRunner{
		err:    errors.New("merge: muxer exploded"),
		gotReq: make(chan dubbing.Request, 1),
	}
	notifier := newRecordingNotifier()
	w, store := newWorkerHarness(t, runner, worker.WithNotifier(notifier))

	created, err := store.Create(context.Background(), &jobs.Job{
		RequestID:      uuid.NewString(),
		SourcePath:     "/uploads/clip.mp4",
		TargetLanguage: "tr",
		VoiceKind:      jobs.VoiceStandard,
		Voice:          "alloy",
		SpeedFactor:    1.0,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(w.Stop)

	failed := waitForStatus(t, store, created.ID, jobs.StatusFailed)
	if failed.ErrorMessage == "" {
		t.Fatal("failure reason not persisted")
	}
	if failed.Stage != "merging" {
		t.Fatalf("stage = %q", failed.Stage)
	}

	select {
	case <-notifier.failed:
	case <-time.After(2 * time.Second):
		t.Fatal("failure notification never sent")
	}
}

func TestWorkerStartTwice(t *testing.T) {
	runner := &fakeRunner{gotReq: make(chan dubbing.Request, 1)}
	w, _ := newWorkerHarness(t, runner)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(w.Stop)
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("second start must fail")
	}
}
