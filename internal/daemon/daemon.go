package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"voxdub/internal/config"
	"voxdub/internal/jobs"
	"voxdub/internal/logging"
	"voxdub/internal/server"
	"voxdub/internal/worker"
)

// Daemon coordinates the background worker and the HTTP API, and enforces
// single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *jobs.Store
	worker *worker.Worker
	server *server.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	JobDBPath    string
	LockFilePath string
	APIAddress   string
}

// New constructs a daemon from initialized components.
func New(cfg *config.Config, store *jobs.Store, w *worker.Worker, srv *server.Server, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || w == nil || srv == nil {
		return nil, errors.New("daemon requires config, store, worker, and server")
	}

	lockPath := filepath.Join(cfg.Paths.WorkDir, "voxdubd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		worker:   w,
		server:   srv,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, fails over jobs stranded by a previous
// run, and launches the worker and the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another voxdub daemon instance is already running")
	}

	// Pipeline runs do not survive restarts; anything mid-pipeline is lost.
	recovered, err := d.store.FailInFlight(ctx, "daemon restarted mid-pipeline")
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("recover in-flight jobs: %w", err)
	}
	if recovered > 0 {
		d.logger.Warn("failed over in-flight jobs from previous run",
			logging.Int64("jobs", recovered))
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.worker.Start(runCtx); err != nil {
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return fmt.Errorf("start worker: %w", err)
	}
	if err := d.server.Start(runCtx); err != nil {
		d.worker.Stop()
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.String("api", d.server.Addr()),
	)
	return nil
}

// Stop halts background processing and releases the daemon lock. The
// in-flight job, if any, is failed with a stop reason.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	d.worker.Stop()

	if _, err := d.store.FailInFlight(context.Background(), jobs.DaemonStopReason); err != nil {
		d.logger.Warn("failed to mark in-flight jobs", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and releases the job store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		JobDBPath:    filepath.Join(d.cfg.Paths.WorkDir, "jobs.db"),
		LockFilePath: d.lockPath,
		APIAddress:   d.server.Addr(),
	}
}
