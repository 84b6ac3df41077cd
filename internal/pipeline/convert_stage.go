package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"mlsimport/internal/corpus"
	"mlsimport/internal/ledger"
	"mlsimport/internal/logging"
	"mlsimport/internal/manifest"
	"mlsimport/internal/services"
	"mlsimport/internal/transcode"
)

type convertStage struct {
	ffmpeg   *transcode.FFmpeg
	store    *ledger.Store
	logger   *slog.Logger
	workers  int
	progress io.Writer
}

func newConvertStage(ffmpeg *transcode.FFmpeg, store *ledger.Store, logger *slog.Logger, workers int, progress io.Writer) *convertStage {
	if workers < 1 {
		workers = 1
	}
	if progress == nil {
		progress = io.Discard
	}
	return &convertStage{
		ffmpeg:   ffmpeg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "convert"),
		workers:  workers,
		progress: progress,
	}
}

func (s *convertStage) Name() string { return "convert" }

func (s *convertStage) Processing() ledger.Status { return ledger.StatusConverting }

func (s *convertStage) Prepare(_ context.Context, job *Job) error {
	root := filepath.Join(job.DataDir, corpus.DirName(job.Language))
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return services.Wrap(services.ErrValidation, s.Name(), "locate corpus", root, err)
	}
	return nil
}

func (s *convertStage) Execute(ctx context.Context, job *Job) error {
	for _, split := range corpus.Splits() {
		result, err := s.convertSplit(ctx, job, split)
		if err != nil {
			return err
		}
		job.Splits = append(job.Splits, result)
		if err := s.store.RecordSplit(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

func (s *convertStage) HealthCheck(context.Context) Health {
	if _, err := exec.LookPath(s.ffmpeg.Binary()); err != nil {
		return Unhealthy(s.Name(), fmt.Sprintf("%s not found on PATH", s.ffmpeg.Binary()))
	}
	return Healthy(s.Name())
}

// convertSplit walks a split's transcript files, transcodes every referenced
// utterance, and writes the split manifest. Splits absent from the archive
// produce a header-only manifest.
func (s *convertStage) convertSplit(ctx context.Context, job *Job, split string) (ledger.SplitResult, error) {
	start := time.Now()
	logger := s.logger.With(logging.String(logging.FieldSplit, split))

	sourceDir := corpus.SplitSourceDir(job.DataDir, job.Language, split)
	wavDir := corpus.SplitWavDir(job.DataDir, job.Language, split)

	files, err := corpus.FindTranscripts(sourceDir)
	if err != nil {
		return ledger.SplitResult{}, services.Wrap(services.ErrValidation, s.Name(), "find transcripts", sourceDir, err)
	}

	var (
		tasks       []transcode.Task
		transcripts []string
	)
	for _, transcriptFile := range files {
		entries, err := corpus.ReadTranscripts(transcriptFile)
		if err != nil {
			return ledger.SplitResult{}, services.Wrap(services.ErrValidation, s.Name(), "read transcripts", transcriptFile, err)
		}
		audioRoot := filepath.Join(filepath.Dir(transcriptFile), "audio")
		for _, entry := range entries {
			rel, err := corpus.AudioRelPath(entry.ID)
			if err != nil {
				return ledger.SplitResult{}, services.Wrap(services.ErrValidation, s.Name(), "derive audio path", transcriptFile, err)
			}
			tasks = append(tasks, transcode.Task{
				Source: filepath.Join(audioRoot, rel),
				Dest:   filepath.Join(wavDir, corpus.WavFileName(entry.ID)),
			})
			transcripts = append(transcripts, corpus.NormalizeTranscript(entry.Text))
		}
	}

	rows := make([]manifest.Row, 0, len(tasks))
	transcoded := 0
	skipped := 0
	if len(tasks) > 0 {
		if err := os.MkdirAll(wavDir, 0o755); err != nil {
			return ledger.SplitResult{}, fmt.Errorf("create wav directory: %w", err)
		}

		bar := progressbar.NewOptions(len(tasks),
			progressbar.OptionSetWriter(s.progress),
			progressbar.OptionSetDescription("converting "+split),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionThrottle(200*time.Millisecond),
		)
		outcomes, err := s.ffmpeg.Run(ctx, tasks, s.workers, func() { _ = bar.Add(1) })
		_ = bar.Finish()
		if err != nil {
			return ledger.SplitResult{}, err
		}

		for i, outcome := range outcomes {
			absPath, err := filepath.Abs(tasks[i].Dest)
			if err != nil {
				return ledger.SplitResult{}, fmt.Errorf("resolve wav path: %w", err)
			}
			rows = append(rows, manifest.Row{
				WavFilename: absPath,
				WavFilesize: outcome.Size,
				Transcript:  transcripts[i],
			})
			if outcome.Transcoded {
				transcoded++
			} else {
				skipped++
			}
		}
	}

	manifest.Sort(rows)
	manifestPath := corpus.ManifestPath(job.DataDir, job.Language, split)
	if err := manifest.Write(manifestPath, rows); err != nil {
		return ledger.SplitResult{}, err
	}

	elapsed := time.Since(start)
	logger.Info("split converted",
		logging.Int("rows", len(rows)),
		logging.Int("transcoded", transcoded),
		logging.Int("skipped", skipped),
		logging.String("manifest", manifestPath),
		logging.Duration("elapsed", elapsed),
	)

	return ledger.SplitResult{
		RunID:        job.RunID,
		Split:        split,
		Rows:         len(rows),
		Transcoded:   transcoded,
		Skipped:      skipped,
		ManifestPath: manifestPath,
		Duration:     elapsed,
	}, nil
}
