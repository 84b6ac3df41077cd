package pipeline

import (
	"context"

	"mlsimport/internal/ledger"
)

// Job carries the state of one import run through the stages.
type Job struct {
	RunID    string
	Language string
	DataDir  string

	// ArchivePath is set by the fetch stage for the extract stage.
	ArchivePath string

	// Splits accumulates per-split outcomes as the convert stage finishes them.
	Splits []ledger.SplitResult
}

// Stage describes the contract the runner needs from each pipeline phase.
type Stage interface {
	Name() string
	Processing() ledger.Status
	Prepare(context.Context, *Job) error
	Execute(context.Context, *Job) error
	HealthCheck(context.Context) Health
}

// Health summarizes the readiness of a pipeline stage.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy constructs an unhealthy Health record with context detail.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}
