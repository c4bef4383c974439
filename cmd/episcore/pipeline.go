package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/Episcore/internal/config"
	"github.com/MikeSquared-Agency/Episcore/internal/dataset"
	"github.com/MikeSquared-Agency/Episcore/internal/hermes"
	"github.com/MikeSquared-Agency/Episcore/internal/metrics"
	"github.com/MikeSquared-Agency/Episcore/internal/models"
	"github.com/MikeSquared-Agency/Episcore/internal/report"
	"github.com/MikeSquared-Agency/Episcore/internal/runner"
	"github.com/MikeSquared-Agency/Episcore/internal/store"
	"github.com/MikeSquared-Agency/Episcore/internal/truth"
)

// pipeline runs one complete scoring pass: truth, discovery, scoring, outputs.
type pipeline struct {
	cfg     *config.Config
	store   store.Store
	hermes  hermes.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func (p *pipeline) run(ctx context.Context) (*runner.Result, error) {
	records, err := dataset.ReadTruthFile(p.cfg.Paths.TruthFile)
	if err != nil {
		return nil, fmt.Errorf("load truth: %w", err)
	}
	idx := truth.NewIndex(records)
	p.logger.Info("truth loaded", "file", p.cfg.Paths.TruthFile, "rows", len(records), "keys", idx.Len())

	ms, err := models.Discover(p.cfg.Paths.ForecastsRoot, p.cfg.Paths.Collections)
	if err != nil {
		return nil, fmt.Errorf("discover models: %w", err)
	}
	for _, m := range ms {
		p.logger.Info("model discovered", "model", m.ID, "dir", m.Dir, "files", len(m.Files))
	}

	var skip map[string]bool
	if p.cfg.Scoring.SkipBlacklisted {
		skip, err = report.ReadBlacklist(p.cfg.Output.BlacklistFile)
		if err != nil {
			return nil, err
		}
		p.logger.Info("skipping blacklisted files", "count", len(skip))
	}

	res, err := runner.New(idx, p.cfg, p.hermes, p.metrics, p.logger).Run(ctx, ms, skip)
	if err != nil {
		return nil, err
	}

	if err := report.WriteAll(p.cfg.Output, res); err != nil {
		return nil, err
	}

	if p.store != nil {
		if err := p.store.SaveRun(ctx, res); err != nil {
			p.logger.Error("failed to save run", "run_id", res.RunID, "error", err)
		}
	}
	return res, nil
}
