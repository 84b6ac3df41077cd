package pipeline

import (
	"context"
	"fmt"
	"net/url"

	"mlsimport/internal/corpus"
	"mlsimport/internal/fetch"
	"mlsimport/internal/ledger"
	"mlsimport/internal/services"
)

type fetchStage struct {
	fetcher *fetch.Fetcher
	baseURL string
}

func newFetchStage(fetcher *fetch.Fetcher, baseURL string) *fetchStage {
	return &fetchStage{fetcher: fetcher, baseURL: baseURL}
}

func (s *fetchStage) Name() string { return "fetch" }

func (s *fetchStage) Processing() ledger.Status { return ledger.StatusFetching }

func (s *fetchStage) Prepare(_ context.Context, _ *Job) error {
	parsed, err := url.Parse(s.baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return services.Wrap(services.ErrConfiguration, s.Name(), "validate base url", s.baseURL, err)
	}
	return nil
}

func (s *fetchStage) Execute(ctx context.Context, job *Job) error {
	path, err := s.fetcher.EnsureArchive(
		ctx,
		job.DataDir,
		corpus.ArchiveName(job.Language),
		corpus.ArchiveURL(s.baseURL, job.Language),
	)
	if err != nil {
		return err
	}
	job.ArchivePath = path
	return nil
}

func (s *fetchStage) HealthCheck(context.Context) Health {
	parsed, err := url.Parse(s.baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Unhealthy(s.Name(), fmt.Sprintf("download base URL %q is not absolute", s.baseURL))
	}
	return Healthy(s.Name())
}
