package runner

import (
	"github.com/montanaflynn/stats"

	"github.com/MikeSquared-Agency/Episcore/internal/scoring"
)

// ModelSummary aggregates one model's scores. Means and medians cover defined
// scores only and are nil when the model has none.
type ModelSummary struct {
	Model               string   `json:"model"`
	Scores              int      `json:"scores"`
	Undefined           int      `json:"undefined"`
	Failures            int      `json:"failures"`
	MeanScore           *float64 `json:"mean_score"`
	MedianScore         *float64 `json:"median_score"`
	MeanMultiBinScore   *float64 `json:"mean_multi_bin_score"`
	MedianMultiBinScore *float64 `json:"median_multi_bin_score"`
}

// Summarize groups records and failures by model, in first-appearance order.
func Summarize(records []scoring.ScoreRecord, failures []Failure) []ModelSummary {
	type acc struct {
		summary ModelSummary
		single  stats.Float64Data
		multi   stats.Float64Data
	}
	var order []string
	byModel := make(map[string]*acc)
	get := func(model string) *acc {
		a, ok := byModel[model]
		if !ok {
			a = &acc{summary: ModelSummary{Model: model}}
			byModel[model] = a
			order = append(order, model)
		}
		return a
	}

	for _, rec := range records {
		a := get(rec.Model)
		a.summary.Scores++
		if rec.Score.Undefined {
			a.summary.Undefined++
		} else {
			a.single = append(a.single, rec.Score.Value)
		}
		if !rec.MultiBinScore.Undefined {
			a.multi = append(a.multi, rec.MultiBinScore.Value)
		}
	}
	for _, f := range failures {
		get(f.Model).summary.Failures++
	}

	out := make([]ModelSummary, 0, len(order))
	for _, model := range order {
		a := byModel[model]
		a.summary.MeanScore = statOf(a.single, stats.Mean)
		a.summary.MedianScore = statOf(a.single, stats.Median)
		a.summary.MeanMultiBinScore = statOf(a.multi, stats.Mean)
		a.summary.MedianMultiBinScore = statOf(a.multi, stats.Median)
		out = append(out, a.summary)
	}
	return out
}

func statOf(data stats.Float64Data, fn func(stats.Float64Data) (float64, error)) *float64 {
	if len(data) == 0 {
		return nil
	}
	v, err := fn(data)
	if err != nil {
		return nil
	}
	return &v
}
