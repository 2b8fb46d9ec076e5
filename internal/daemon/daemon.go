package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"github.com/dexusno/NorTrans/internal/config"
	"github.com/dexusno/NorTrans/internal/logging"
	"github.com/dexusno/NorTrans/internal/queue"
	"github.com/dexusno/NorTrans/internal/server"
	"github.com/dexusno/NorTrans/internal/translate"
)

// Daemon runs the API server and the job worker, enforcing
// single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *queue.Store
	api    *server.Server

	newBackend server.BackendFactory

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures optional daemon behavior.
type Option func(*Daemon)

// WithBackendFactory overrides how job backends are built (used in tests).
func WithBackendFactory(factory server.BackendFactory) Option {
	return func(d *Daemon) {
		if factory != nil {
			d.newBackend = factory
		}
	}
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockFilePath()
	d := &Daemon{
		cfg:        cfg,
		logger:     logging.WithComponent(logger, "daemon"),
		store:      store,
		newBackend: translate.NewBackend,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.api = server.New(cfg, store, logger, server.WithBackendFactory(d.newBackend))
	return d, nil
}

// Start acquires the daemon lock, recovers interrupted jobs, and
// launches the API server and the job worker.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another nortrans daemon instance is already running")
	}

	if reset, err := d.store.ResetRunning(ctx); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("recover interrupted jobs: %w", err)
	} else if reset > 0 {
		d.logger.Info("requeued interrupted jobs", logging.Int64("count", reset))
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.api.Start(runCtx); err != nil {
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return err
	}

	d.wg.Add(1)
	go d.runWorker(runCtx)

	d.running.Store(true)
	d.logger.Info("nortrans daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.api.Addr()))

	if url := strings.TrimSpace(d.cfg.Translator.APIURL); url != "" {
		d.wg.Add(1)
		go d.probeEndpoint(runCtx, url)
	}
	return nil
}

// probeEndpoint logs whether the configured translation endpoint is
// reachable. Diagnostic only; jobs are accepted either way.
func (d *Daemon) probeEndpoint(ctx context.Context, url string) {
	defer d.wg.Done()

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := translate.NewLibreTranslateClient(url, translate.WithTimeout(5*time.Second))
	codes, err := client.Languages(probeCtx)
	if err != nil {
		d.logger.Warn("translation endpoint unreachable",
			logging.String("url", url),
			logging.Error(err))
		return
	}
	d.logger.Info("translation endpoint reachable",
		logging.String("url", url),
		logging.Int("languages", len(codes)))
}

// Stop shuts down the worker and API server and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	d.api.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("nortrans daemon stopped")
}

// Close stops the daemon and closes the job store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the API server's bound address after Start.
func (d *Daemon) Addr() string {
	return d.api.Addr()
}
