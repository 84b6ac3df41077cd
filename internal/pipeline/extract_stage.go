package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"mlsimport/internal/archive"
	"mlsimport/internal/corpus"
	"mlsimport/internal/ledger"
	"mlsimport/internal/services"
)

type extractStage struct {
	extractor *archive.Extractor
}

func newExtractStage(extractor *archive.Extractor) *extractStage {
	return &extractStage{extractor: extractor}
}

func (s *extractStage) Name() string { return "extract" }

func (s *extractStage) Processing() ledger.Status { return ledger.StatusExtracting }

func (s *extractStage) Prepare(_ context.Context, job *Job) error {
	// The fetch stage leaves the archive path on the job unless extraction
	// was already marked done and the tarball deleted; the marker check in
	// Execute covers that case, so only a fully empty job is rejected here.
	if job.ArchivePath == "" {
		marker := filepath.Join(job.DataDir, corpus.MarkerDir)
		if info, err := os.Stat(marker); err != nil || !info.IsDir() {
			return services.Wrap(services.ErrValidation, s.Name(), "locate archive", "fetch stage did not produce an archive path", nil)
		}
	}
	return nil
}

func (s *extractStage) Execute(ctx context.Context, job *Job) error {
	return s.extractor.EnsureExtracted(ctx, job.DataDir, corpus.MarkerDir, job.ArchivePath)
}

func (s *extractStage) HealthCheck(context.Context) Health {
	return Healthy(s.Name())
}
