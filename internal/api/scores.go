package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Episcore/internal/runner"
	"github.com/MikeSquared-Agency/Episcore/internal/scoring"
	"github.com/MikeSquared-Agency/Episcore/internal/store"
)

type ScoresHandler struct {
	state *State
	store store.Store
}

func NewScoresHandler(st *State, s store.Store) *ScoresHandler {
	return &ScoresHandler{state: st, store: s}
}

// List returns scores of the latest run, or of ?run=<id> from the store,
// filtered by the model, location and target query parameters.
func (h *ScoresHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ScoreFilter{
		Model:    q.Get("model"),
		Location: q.Get("location"),
		Target:   q.Get("target"),
	}

	if runParam := q.Get("run"); runParam != "" {
		id, ok := h.storedRun(w, runParam)
		if !ok {
			return
		}
		filter.RunID = &id
		records, err := h.store.ListScores(r.Context(), filter)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, nonNil(records))
		return
	}

	res := h.state.Latest()
	if res == nil {
		writeNoRun(w)
		return
	}
	out := make([]scoring.ScoreRecord, 0, len(res.Records))
	for _, rec := range res.Records {
		if matches(filter, rec) {
			out = append(out, rec)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ScoresHandler) Failures(w http.ResponseWriter, r *http.Request) {
	if runParam := r.URL.Query().Get("run"); runParam != "" {
		id, ok := h.storedRun(w, runParam)
		if !ok {
			return
		}
		failures, err := h.store.ListFailures(r.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, nonNil(failures))
		return
	}

	res := h.state.Latest()
	if res == nil {
		writeNoRun(w)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(res.Failures))
}

type summaryResponse struct {
	Run       *runner.Result        `json:"run"`
	Scores    int                   `json:"scores"`
	Failures  int                   `json:"failures"`
	Blacklist []string              `json:"blacklist"`
	Models    []runner.ModelSummary `json:"models"`
}

func (h *ScoresHandler) Summary(w http.ResponseWriter, r *http.Request) {
	res := h.state.Latest()
	if res == nil {
		writeNoRun(w)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Run:       res,
		Scores:    len(res.Records),
		Failures:  len(res.Failures),
		Blacklist: nonNil(res.Blacklist),
		Models:    nonNil(res.Summaries),
	})
}

func (h *ScoresHandler) storedRun(w http.ResponseWriter, param string) (uuid.UUID, bool) {
	if h.store == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "run history requires a database"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(param)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run id"})
		return uuid.Nil, false
	}
	return id, true
}

func matches(f store.ScoreFilter, rec scoring.ScoreRecord) bool {
	return (f.Model == "" || f.Model == rec.Model) &&
		(f.Location == "" || f.Location == rec.Location) &&
		(f.Target == "" || f.Target == rec.Target)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeNoRun(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "no scoring run available"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
