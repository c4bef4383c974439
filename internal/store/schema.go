package store

const schema = `
CREATE TABLE IF NOT EXISTS score_runs (
	run_id      UUID PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	files       INTEGER NOT NULL,
	skipped     INTEGER NOT NULL DEFAULT 0,
	scores      INTEGER NOT NULL,
	failures    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
	run_id          UUID NOT NULL REFERENCES score_runs(run_id) ON DELETE CASCADE,
	seq             INTEGER NOT NULL,
	model           TEXT NOT NULL,
	year            INTEGER NOT NULL,
	epiweek         INTEGER NOT NULL,
	season          TEXT NOT NULL,
	model_week      INTEGER NOT NULL,
	location        TEXT NOT NULL,
	target          TEXT NOT NULL,
	score           DOUBLE PRECISION,
	multi_bin_score DOUBLE PRECISION,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS scores_model_idx ON scores (run_id, model, location, target);

CREATE TABLE IF NOT EXISTS score_failures (
	run_id  UUID NOT NULL REFERENCES score_runs(run_id) ON DELETE CASCADE,
	seq     INTEGER NOT NULL,
	model   TEXT NOT NULL,
	file    TEXT NOT NULL,
	year    INTEGER,
	epiweek INTEGER,
	region  TEXT,
	target  TEXT,
	kind    TEXT NOT NULL,
	message TEXT NOT NULL,
	detail  JSONB,
	PRIMARY KEY (run_id, seq)
);
`
