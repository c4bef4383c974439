package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Episcore/internal/runner"
	"github.com/MikeSquared-Agency/Episcore/internal/scoring"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

var scoreColumns = []string{
	"run_id", "seq", "model", "year", "epiweek", "season", "model_week",
	"location", "target", "score", "multi_bin_score",
}

var failureColumns = []string{
	"run_id", "seq", "model", "file", "year", "epiweek", "region", "target",
	"kind", "message", "detail",
}

// SaveRun stores the run header, its scores and its failures in one
// transaction.
func (s *PostgresStore) SaveRun(ctx context.Context, res *runner.Result) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO score_runs (run_id, started_at, finished_at, files, skipped, scores, failures)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.RunID, res.StartedAt, res.FinishedAt, res.Files, res.Skipped, len(res.Records), len(res.Failures),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"scores"}, scoreColumns,
		pgx.CopyFromSlice(len(res.Records), func(i int) ([]any, error) {
			r := res.Records[i]
			return []any{
				res.RunID, i, r.Model, r.Year, r.Epiweek, r.Season, r.ModelWeek,
				r.Location, r.Target, nullableScore(r.Score), nullableScore(r.MultiBinScore),
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy scores: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"score_failures"}, failureColumns,
		pgx.CopyFromSlice(len(res.Failures), func(i int) ([]any, error) {
			f := res.Failures[i]
			var detail []byte
			if f.Detail != nil {
				b, err := json.Marshal(f.Detail)
				if err != nil {
					return nil, err
				}
				detail = b
			}
			return []any{
				res.RunID, i, f.Model, f.File, nullableInt(f.Year), nullableInt(f.Epiweek),
				nullableText(f.Region), nullableText(f.Target), f.Kind, f.Message, detail,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy failures: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, started_at, finished_at, files, skipped, scores, failures
		FROM score_runs ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Files, &r.Skipped, &r.Scores, &r.Failures); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *PostgresStore) ListScores(ctx context.Context, filter ScoreFilter) ([]scoring.ScoreRecord, error) {
	query, args := buildScoreQuery(filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scoring.ScoreRecord
	for rows.Next() {
		var r scoring.ScoreRecord
		var score, multi *float64
		if err := rows.Scan(&r.Model, &r.Year, &r.Epiweek, &r.Season, &r.ModelWeek,
			&r.Location, &r.Target, &score, &multi); err != nil {
			return nil, err
		}
		r.Score = scoreFrom(score)
		r.MultiBinScore = scoreFrom(multi)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListFailures(ctx context.Context, runID uuid.UUID) ([]runner.Failure, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT model, file, COALESCE(year, 0), COALESCE(epiweek, 0), COALESCE(region, ''), COALESCE(target, ''),
			kind, message, detail
		FROM score_failures WHERE run_id = $1 ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []runner.Failure
	for rows.Next() {
		var f runner.Failure
		var detail []byte
		if err := rows.Scan(&f.Model, &f.File, &f.Year, &f.Epiweek, &f.Region, &f.Target,
			&f.Kind, &f.Message, &detail); err != nil {
			return nil, err
		}
		d, err := decodeDetail(detail)
		if err != nil {
			return nil, fmt.Errorf("failure detail for %s: %w", f.File, err)
		}
		f.Detail = d
		out = append(out, f)
	}
	return out, rows.Err()
}

func buildScoreQuery(filter ScoreFilter) (string, []any) {
	query := `SELECT model, year, epiweek, season, model_week, location, target, score, multi_bin_score
		FROM scores WHERE run_id = `
	var args []any
	n := 1
	if filter.RunID != nil {
		query += "$1"
		args = append(args, *filter.RunID)
	} else {
		query += "(SELECT run_id FROM score_runs ORDER BY finished_at DESC LIMIT 1)"
		n = 0
	}

	if filter.Model != "" {
		n++
		query += fmt.Sprintf(" AND model = $%d", n)
		args = append(args, filter.Model)
	}
	if filter.Location != "" {
		n++
		query += fmt.Sprintf(" AND location = $%d", n)
		args = append(args, filter.Location)
	}
	if filter.Target != "" {
		n++
		query += fmt.Sprintf(" AND target = $%d", n)
		args = append(args, filter.Target)
	}
	query += " ORDER BY seq"
	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	return query, args
}

func decodeDetail(b []byte) (map[string]any, error) {
	if b == nil {
		return nil, nil
	}
	var d map[string]any
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return d, nil
}

func nullableScore(s scoring.Score) *float64 {
	if s.Undefined {
		return nil
	}
	v := s.Value
	return &v
}

func scoreFrom(v *float64) scoring.Score {
	if v == nil {
		return scoring.UndefinedScore
	}
	return scoring.Score{Value: *v}
}

func nullableInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func nullableText(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
