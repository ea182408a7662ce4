package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"payloadvault/internal/config"
	"payloadvault/internal/history"
	"payloadvault/internal/logging"
	"payloadvault/internal/organizer"
)

// Daemon coordinates the capture service and enforces single-instance
// execution over the payloads directory.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *history.Store
	capture *captureService
	api     *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running     bool   `json:"running"`
	PID         int    `json:"pid"`
	PayloadsDir string `json:"payloads_dir"`
	HistoryPath string `json:"history_path,omitempty"`
	LockPath    string `json:"lock_path"`
}

// New constructs a daemon with initialized dependencies. store may be nil
// when history is disabled.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "payloadvaultd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		capture:  newCaptureService(cfg, store, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock, runs the startup organize passes, and
// begins serving the capture API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("ensure lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another payloadvault daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	org := organizer.New(d.cfg, d.logger, historyPruner(d.store))
	if err := org.Startup(runCtx); err != nil {
		// Startup organization is best effort; capture must come up anyway.
		d.logger.Warn("startup organize pass failed", logging.Error(err))
	}

	if d.api != nil {
		if err := d.api.start(runCtx); err != nil {
			_ = d.lock.Unlock()
			cancel()
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("payloadvault daemon started",
		logging.String("lock", d.lockPath),
		logging.String("payloads_dir", d.cfg.Paths.PayloadsDir),
	)
	return nil
}

// Stop stops the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("payloadvault daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports current runtime information.
func (d *Daemon) Status() Status {
	status := Status{
		Running:     d.running.Load(),
		PID:         os.Getpid(),
		PayloadsDir: d.cfg.Paths.PayloadsDir,
		LockPath:    d.lockPath,
	}
	if d.store != nil {
		status.HistoryPath = d.store.Path()
	}
	return status
}

// historyPruner adapts a possibly-nil store to the organizer interface.
// A typed nil inside a non-nil interface would defeat the organizer's nil
// check, so the conversion happens here.
func historyPruner(store *history.Store) organizer.HistoryPruner {
	if store == nil {
		return nil
	}
	return store
}
