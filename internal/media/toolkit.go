package media

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"voxdub/internal/config"
	"voxdub/internal/logging"
)

// Executor abstracts command execution for testability. Run returns the
// combined stdout/stderr output along with the execution error.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// Option configures the toolkit.
type Option func(*Toolkit)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(executor Executor) Option {
	return func(t *Toolkit) {
		if executor != nil {
			t.exec = executor
		}
	}
}

// Toolkit runs ffmpeg/ffprobe operations with configured codec parameters
// and timeouts. Intermediate files use collision-resistant names under the
// work directory so concurrent runs never interfere.
type Toolkit struct {
	ffmpeg     string
	ffprobe    string
	bitrate    string
	sampleRate int
	workDir    string

	probeTimeout   time.Duration
	extractTimeout time.Duration
	filterTimeout  time.Duration
	mergeTimeout   time.Duration

	exec   Executor
	logger *slog.Logger
}

// NewToolkit constructs a toolkit from configuration.
func NewToolkit(cfg *config.Config, logger *slog.Logger, opts ...Option) *Toolkit {
	toolkit := &Toolkit{
		ffmpeg:         cfg.FFmpeg.FFmpegBinary,
		ffprobe:        cfg.FFmpeg.FFprobeBinary,
		bitrate:        cfg.FFmpeg.AudioBitrate,
		sampleRate:     cfg.FFmpeg.SampleRate,
		workDir:        cfg.Paths.WorkDir,
		probeTimeout:   time.Duration(cfg.FFmpeg.ProbeTimeout) * time.Second,
		extractTimeout: time.Duration(cfg.FFmpeg.ExtractTimeout) * time.Second,
		filterTimeout:  time.Duration(cfg.FFmpeg.FilterTimeout) * time.Second,
		mergeTimeout:   time.Duration(cfg.FFmpeg.MergeTimeout) * time.Second,
		exec:           commandExecutor{},
		logger:         logging.NewComponentLogger(logger, "media"),
	}
	for _, opt := range opts {
		opt(toolkit)
	}
	return toolkit
}

func (t *Toolkit) tempPath(prefix, ext string) string {
	name := fmt.Sprintf("%s_%s.%s", prefix, uuid.NewString(), strings.TrimPrefix(ext, "."))
	return filepath.Join(t.workDir, name)
}

func (t *Toolkit) runFFmpeg(ctx context.Context, timeout time.Duration, args []string) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return t.exec.Run(ctx, t.ffmpeg, args)
}
