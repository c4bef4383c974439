package hermes

import "time"

type RunStartedEvent struct {
	RunID     string    `json:"run_id"`
	Models    int       `json:"models"`
	Files     int       `json:"files"`
	StartedAt time.Time `json:"started_at"`
}

type RunCompletedEvent struct {
	RunID      string    `json:"run_id"`
	Files      int       `json:"files"`
	Scores     int       `json:"scores"`
	Failures   int       `json:"failures"`
	Blacklist  int       `json:"blacklisted_files"`
	DurationMs int64     `json:"duration_ms"`
	FinishedAt time.Time `json:"finished_at"`
}

type FileFailedEvent struct {
	RunID   string `json:"run_id"`
	Model   string `json:"model"`
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
