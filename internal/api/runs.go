package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/MikeSquared-Agency/Episcore/internal/runner"
	"github.com/MikeSquared-Agency/Episcore/internal/store"
)

// RunFunc performs a complete scoring run, including its outputs.
type RunFunc func(ctx context.Context) (*runner.Result, error)

type RunsHandler struct {
	state  *State
	store  store.Store
	run    RunFunc
	logger *slog.Logger

	busy sync.Mutex
}

func NewRunsHandler(st *State, s store.Store, run RunFunc, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{state: st, store: s, run: run, logger: logger}
}

// List returns stored runs, newest first, or just the in-memory latest run
// without a database.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		runs, err := h.store.ListRuns(r.Context(), 20)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, nonNil(runs))
		return
	}

	runs := []*store.Run{}
	if res := h.state.Latest(); res != nil {
		runs = append(runs, runOf(res))
	}
	writeJSON(w, http.StatusOK, runs)
}

// Create runs a scoring pass synchronously. Only one run is active at a time,
// and it is not cancelled when the client goes away.
func (h *RunsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.run == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "runs are not enabled"})
		return
	}
	if !h.busy.TryLock() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a run is already in progress"})
		return
	}
	defer h.busy.Unlock()

	res, err := h.run(context.WithoutCancel(r.Context()))
	if err != nil {
		h.logger.Error("triggered run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	h.state.Set(res)
	writeJSON(w, http.StatusCreated, runOf(res))
}

func runOf(res *runner.Result) *store.Run {
	return &store.Run{
		ID:         res.RunID,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Files:      res.Files,
		Skipped:    res.Skipped,
		Scores:     len(res.Records),
		Failures:   len(res.Failures),
	}
}
