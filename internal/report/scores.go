// Package report writes the score table and the failure outputs of a run.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/MikeSquared-Agency/Episcore/internal/scoring"
)

// ScoreHeader is the header row of the score table.
var ScoreHeader = []string{
	"Model", "Year", "Epiweek", "Season", "Model Week", "Location", "Target", "Score", "Multi bin score",
}

// WriteScores writes records as CSV with ScoreHeader. Undefined scores are
// written as NaN.
func WriteScores(w io.Writer, records []scoring.ScoreRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ScoreHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Model,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Epiweek),
			r.Season,
			strconv.Itoa(r.ModelWeek),
			r.Location,
			r.Target,
			r.Score.String(),
			r.MultiBinScore.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
