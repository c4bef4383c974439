package scoring

// ScoreRecord is one row of the score table.
type ScoreRecord struct {
	Model         string `json:"model"`
	Year          int    `json:"year"`
	Epiweek       int    `json:"epiweek"`
	Season        string `json:"season"`
	ModelWeek     int    `json:"model_week"`
	Location      string `json:"location"`
	Target        string `json:"target"`
	Score         Score  `json:"score"`
	MultiBinScore Score  `json:"multi_bin_score"`
}
