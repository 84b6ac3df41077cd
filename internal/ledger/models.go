package ledger

import "time"

// Status represents the lifecycle of an import run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusFetching   Status = "fetching"
	StatusExtracting Status = "extracting"
	StatusConverting Status = "converting"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Run is one invocation of the import pipeline.
type Run struct {
	ID           string
	Language     string
	DataDir      string
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SplitResult captures the outcome of converting one corpus split.
type SplitResult struct {
	RunID        string
	Split        string
	Rows         int
	Transcoded   int
	Skipped      int
	ManifestPath string
	Duration     time.Duration
	CreatedAt    time.Time
}
