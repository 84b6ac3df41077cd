package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mlsimport/internal/archive"
	"mlsimport/internal/config"
	"mlsimport/internal/corpus"
	"mlsimport/internal/fetch"
	"mlsimport/internal/ledger"
	"mlsimport/internal/logging"
	"mlsimport/internal/services"
	"mlsimport/internal/transcode"
)

// LockFileName is the per-data-dir lock guarding against concurrent imports.
const LockFileName = ".mlsimport.lock"

// Runner drives one import run through its stages.
type Runner struct {
	cfg    *config.Config
	store  *ledger.Store
	logger *slog.Logger
	stages []Stage
	lock   *flock.Flock
}

// Option configures optional Runner behavior.
type Option func(*options)

type options struct {
	progress  io.Writer
	fetchOpts []fetch.Option
}

// WithProgressWriter directs stage progress bars to w. Without it no bars
// are rendered; callers gate this on stdout being a terminal.
func WithProgressWriter(w io.Writer) Option {
	return func(o *options) {
		o.progress = w
	}
}

// WithFetchOptions forwards options to the archive fetcher (used in tests to
// inject an HTTP client).
func WithFetchOptions(opts ...fetch.Option) Option {
	return func(o *options) {
		o.fetchOpts = append(o.fetchOpts, opts...)
	}
}

// New constructs a Runner with initialized stages.
func New(cfg *config.Config, store *ledger.Store, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil || store == nil {
		return nil, fmt.Errorf("runner requires config and ledger store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	settings := &options{progress: io.Discard}
	for _, opt := range opts {
		opt(settings)
	}

	requestTimeout := time.Duration(cfg.Download.RequestTimeout) * time.Second
	fetchOpts := append([]fetch.Option{fetch.WithProgressWriter(settings.progress)}, settings.fetchOpts...)
	fetcher := fetch.New(logger, requestTimeout, fetchOpts...)
	extractor := archive.New(logger)
	ffmpeg := transcode.NewFFmpeg(cfg.FFmpegBinary(), cfg.Transcode.SampleRate, logger)

	return &Runner{
		cfg:    cfg,
		store:  store,
		logger: logger,
		stages: []Stage{
			newFetchStage(fetcher, cfg.Download.BaseURL),
			newExtractStage(extractor),
			newConvertStage(ffmpeg, store, logger, cfg.Transcode.Workers, settings.progress),
		},
		lock: flock.New(filepath.Join(cfg.Paths.DataDir, LockFileName)),
	}, nil
}

// Run imports the given language into the configured data directory and
// returns the completed job. Every error is fatal to the run; the ledger
// records the failure before the error propagates.
func (r *Runner) Run(ctx context.Context, language string) (*Job, error) {
	language = corpus.NormalizeLanguage(language)
	if err := corpus.ValidateLanguage(language); err != nil {
		return nil, services.Wrap(services.ErrValidation, "import", "validate language", language, err)
	}

	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	locked, err := r.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire data dir lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another import holds %s", r.lock.Path())
	}
	defer func() {
		_ = r.lock.Unlock()
	}()

	job := &Job{
		RunID:    uuid.NewString(),
		Language: language,
		DataDir:  r.cfg.Paths.DataDir,
	}
	if _, err := r.store.NewRun(ctx, job.RunID, language, job.DataDir); err != nil {
		return nil, err
	}

	runLogger := r.logger.With(
		logging.String(logging.FieldRunID, job.RunID),
		logging.String(logging.FieldLanguage, language),
	)
	runLogger.Info("import started", logging.String("data_dir", job.DataDir))

	start := time.Now()
	for _, st := range r.stages {
		if err := r.runStage(ctx, runLogger, st, job); err != nil {
			if failErr := r.store.Fail(context.WithoutCancel(ctx), job.RunID, err); failErr != nil {
				runLogger.Error("failed to record run failure", logging.Error(failErr))
			}
			return nil, err
		}
	}

	if err := r.store.SetStatus(ctx, job.RunID, ledger.StatusCompleted); err != nil {
		return nil, err
	}
	runLogger.Info("import completed", logging.Duration("elapsed", time.Since(start)))
	return job, nil
}

func (r *Runner) runStage(ctx context.Context, logger *slog.Logger, st Stage, job *Job) error {
	stageLogger := logger.With(logging.String(logging.FieldStage, st.Name()))

	if err := r.store.SetStatus(ctx, job.RunID, st.Processing()); err != nil {
		return fmt.Errorf("persist %s transition: %w", st.Name(), err)
	}

	stageLogger.Info("stage started")
	start := time.Now()
	if err := st.Prepare(ctx, job); err != nil {
		stageLogger.Error("stage failed", logging.Error(err))
		return err
	}
	if err := st.Execute(ctx, job); err != nil {
		stageLogger.Error("stage failed", logging.Error(err))
		return err
	}
	stageLogger.Info("stage completed", logging.Duration("elapsed", time.Since(start)))
	return nil
}

// Health reports the readiness of every stage.
func (r *Runner) Health(ctx context.Context) []Health {
	checks := make([]Health, 0, len(r.stages))
	for _, st := range r.stages {
		checks = append(checks, st.HealthCheck(ctx))
	}
	return checks
}
