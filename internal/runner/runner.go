// Package runner scores every forecast file of every model against the truth
// index and collects the score table, failures and blacklist.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Episcore/internal/config"
	"github.com/MikeSquared-Agency/Episcore/internal/dataset"
	"github.com/MikeSquared-Agency/Episcore/internal/hermes"
	"github.com/MikeSquared-Agency/Episcore/internal/metrics"
	"github.com/MikeSquared-Agency/Episcore/internal/models"
	"github.com/MikeSquared-Agency/Episcore/internal/scoring"
	"github.com/MikeSquared-Agency/Episcore/internal/truth"
)

// FileResult is what scoring one forecast file produced.
type FileResult struct {
	Records  []scoring.ScoreRecord
	Failures []Failure
	// Discarded is set when the file's records were dropped: the file could
	// not be read or one of its pairs violated integrity.
	Discarded bool
	Skipped   bool
}

// Blacklisted reports whether the file goes on the blacklist.
func (fr FileResult) Blacklisted() bool {
	return fr.Skipped || len(fr.Failures) > 0
}

// Result is the merged outcome of a run.
type Result struct {
	RunID      uuid.UUID             `json:"run_id"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Files      int                   `json:"files"`
	Skipped    int                   `json:"skipped"`
	Records    []scoring.ScoreRecord `json:"-"`
	Failures   []Failure             `json:"-"`
	Blacklist  []string              `json:"-"`
	Summaries  []ModelSummary        `json:"-"`
}

type unit struct {
	model string
	file  string
}

type Runner struct {
	truth     *truth.Index
	evaluator *scoring.Evaluator
	hermes    hermes.Client
	metrics   *metrics.Metrics
	cfg       *config.Config
	logger    *slog.Logger
}

// New creates a Runner. h and m may be nil.
func New(idx *truth.Index, cfg *config.Config, h hermes.Client, m *metrics.Metrics, logger *slog.Logger) *Runner {
	return &Runner{
		truth:     idx,
		evaluator: scoring.NewEvaluator(logger),
		hermes:    h,
		metrics:   m,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run scores every file of ms. Files whose path is in skip are not read and
// stay on the blacklist. Output order follows models then files in the order
// given, regardless of which worker finished first. Cancelling ctx stops
// scheduling new files and returns ctx.Err().
func (r *Runner) Run(ctx context.Context, ms []models.Model, skip map[string]bool) (*Result, error) {
	res := &Result{RunID: uuid.New(), StartedAt: time.Now().UTC()}

	var units []unit
	for _, m := range ms {
		for _, f := range m.Files {
			units = append(units, unit{model: m.ID, file: f})
		}
	}
	res.Files = len(units)

	r.logger.Info("scoring run started", "run_id", res.RunID, "models", len(ms), "files", len(units))
	r.publish(hermes.SubjectRunStarted(res.RunID.String()), hermes.RunStartedEvent{
		RunID:     res.RunID.String(),
		Models:    len(ms),
		Files:     len(units),
		StartedAt: res.StartedAt,
	})

	slots := make([]FileResult, len(units))
	g := new(errgroup.Group)
	g.SetLimit(r.workers())
	for i, u := range units {
		if ctx.Err() != nil {
			break
		}
		if skip[u.file] {
			slots[i] = FileResult{Skipped: true}
			r.metrics.File(metrics.FileSkipped, 0)
			continue
		}
		g.Go(func() error {
			slots[i] = r.ScoreFile(u.model, u.file)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for i, fr := range slots {
		res.Records = append(res.Records, fr.Records...)
		res.Failures = append(res.Failures, fr.Failures...)
		if fr.Skipped {
			res.Skipped++
		}
		if fr.Blacklisted() && !seen[units[i].file] {
			seen[units[i].file] = true
			res.Blacklist = append(res.Blacklist, units[i].file)
		}
		if len(fr.Failures) > 0 {
			r.publishFileFailed(res.RunID, units[i], fr.Failures[0])
		}
	}
	res.Summaries = Summarize(res.Records, res.Failures)
	res.FinishedAt = time.Now().UTC()

	r.metrics.RunFinished(res.FinishedAt, len(res.Records))
	r.logger.Info("scoring run completed",
		"run_id", res.RunID,
		"files", res.Files,
		"skipped", res.Skipped,
		"scores", len(res.Records),
		"failures", len(res.Failures),
		"duration_ms", res.FinishedAt.Sub(res.StartedAt).Milliseconds(),
	)
	r.publish(hermes.SubjectRunCompleted(res.RunID.String()), hermes.RunCompletedEvent{
		RunID:      res.RunID.String(),
		Files:      res.Files,
		Scores:     len(res.Records),
		Failures:   len(res.Failures),
		Blacklist:  len(res.Blacklist),
		DurationMs: res.FinishedAt.Sub(res.StartedAt).Milliseconds(),
		FinishedAt: res.FinishedAt,
	})
	return res, nil
}

// ScoreFile reads and scores one forecast file of model.
func (r *Runner) ScoreFile(model, path string) FileResult {
	start := time.Now()
	fr := r.scoreFile(model, path)
	status := metrics.FileScored
	if fr.Discarded {
		status = metrics.FileFailed
	}
	r.metrics.File(status, time.Since(start))
	return fr
}

func (r *Runner) scoreFile(model, path string) FileResult {
	year, epiweek, err := models.FileTime(path)
	if err != nil {
		r.logger.Warn("unrecognised forecast file name", "model", model, "file", path, "error", err)
		return FileResult{
			Discarded: true,
			Failures:  []Failure{{Model: model, File: path, Kind: KindFileName, Message: err.Error()}},
		}
	}

	table, err := dataset.ReadForecastFile(path)
	if err != nil {
		r.logger.Warn("failed to read forecast file", "model", model, "file", path, "error", err)
		return FileResult{
			Discarded: true,
			Failures: []Failure{{
				Model: model, File: path, Year: year, Epiweek: epiweek,
				Kind: kindOf(err), Message: err.Error(),
			}},
		}
	}
	return r.ScoreTable(model, path, year, epiweek, table)
}

// ScoreTable scores every configured region and target of an already parsed
// forecast file. Lookup failures are recorded per pair and scoring moves on,
// unless scoring.abort_file_on_lookup_error is set. An integrity violation
// drops every record of the file.
func (r *Runner) ScoreTable(model, path string, year, epiweek int, table *dataset.Table) FileResult {
	var fr FileResult
	fail := func(region, target string, err error) Failure {
		f := Failure{
			Model: model, File: path, Year: year, Epiweek: epiweek,
			Region: region, Target: target,
			Kind: kindOf(err), Message: err.Error(),
		}
		var iv *scoring.IntegrityViolation
		if errors.As(err, &iv) {
			f.Detail = iv.Detail()
		}
		return f
	}

	for _, region := range r.cfg.Scoring.Regions {
		for _, target := range r.cfg.Scoring.Targets {
			key := truth.Key{Year: year, Epiweek: epiweek, Region: region, Target: target}
			entry, err := r.truth.Lookup(key)
			if err == nil {
				var res scoring.Result
				res, err = r.evaluator.Evaluate(table.Rows(region, target), entry.Bins, target, year)
				if err == nil {
					fr.Records = append(fr.Records, scoring.ScoreRecord{
						Model:         model,
						Year:          year,
						Epiweek:       epiweek,
						Season:        entry.Season,
						ModelWeek:     entry.ModelWeek,
						Location:      region,
						Target:        target,
						Score:         res.Score,
						MultiBinScore: res.MultiBinScore,
					})
					if res.Score.Undefined {
						r.metrics.Pair(metrics.OutcomeUndefined)
					} else {
						r.metrics.Pair(metrics.OutcomeScored)
					}
					continue
				}
			}

			f := fail(region, target, err)
			fr.Failures = append(fr.Failures, f)
			if f.Kind == KindIntegrity {
				r.logger.Error("integrity violation",
					"model", model, "file", path, "region", region, "target", target, "detail", f.Detail)
				fr.Records = nil
				fr.Discarded = true
				return fr
			}

			r.metrics.Pair(metrics.OutcomeLookup)
			r.logger.Warn("pair not scored",
				"model", model, "file", path, "region", region, "target", target, "error", err)
			if r.cfg.Scoring.AbortFileOnLookupError {
				return fr
			}
		}
	}
	return fr
}

func (r *Runner) workers() int {
	if r.cfg.Scoring.Workers < 1 {
		return 1
	}
	return r.cfg.Scoring.Workers
}

func (r *Runner) publish(subject string, ev interface{}) {
	if r.hermes == nil {
		return
	}
	if err := r.hermes.Publish(subject, ev); err != nil {
		r.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func (r *Runner) publishFileFailed(runID uuid.UUID, u unit, f Failure) {
	r.publish(hermes.SubjectFileFailed(runID.String()), hermes.FileFailedEvent{
		RunID:   runID.String(),
		Model:   u.model,
		File:    u.file,
		Kind:    f.Kind,
		Message: f.Message,
	})
}
