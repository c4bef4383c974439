package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Episcore/internal/runner"
	"github.com/MikeSquared-Agency/Episcore/internal/scoring"
)

// Run is the stored header of a scoring run.
type Run struct {
	ID         uuid.UUID `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Files      int       `json:"files"`
	Skipped    int       `json:"skipped"`
	Scores     int       `json:"scores"`
	Failures   int       `json:"failures"`
}

// ScoreFilter selects stored scores. A nil RunID means the latest run.
type ScoreFilter struct {
	RunID    *uuid.UUID
	Model    string
	Location string
	Target   string
	Limit    int
}

type Store interface {
	EnsureSchema(ctx context.Context) error

	SaveRun(ctx context.Context, res *runner.Result) error
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	ListScores(ctx context.Context, filter ScoreFilter) ([]scoring.ScoreRecord, error)
	ListFailures(ctx context.Context, runID uuid.UUID) ([]runner.Failure, error)

	Close() error
}
