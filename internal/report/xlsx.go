package report

import (
	"github.com/xuri/excelize/v2"

	"github.com/MikeSquared-Agency/Episcore/internal/scoring"
)

const scoreSheet = "Scores"

// WriteXLSX saves records as a workbook with one sheet. Defined scores are
// numeric cells, undefined ones the text NaN.
func WriteXLSX(path string, records []scoring.ScoreRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scoreSheet); err != nil {
		return err
	}

	for i, h := range ScoreHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(scoreSheet, cell, h); err != nil {
			return err
		}
	}

	for r, rec := range records {
		row := []any{
			rec.Model,
			rec.Year,
			rec.Epiweek,
			rec.Season,
			rec.ModelWeek,
			rec.Location,
			rec.Target,
			cellScore(rec.Score),
			cellScore(rec.MultiBinScore),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(scoreSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func cellScore(s scoring.Score) any {
	if s.Undefined {
		return scoring.UndefinedText
	}
	return s.Value
}
