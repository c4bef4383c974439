package scoring

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Result is the outcome of scoring one (region, target) pair.
type Result struct {
	TrueBins      []Bin
	ExpandedBins  []Bin
	Sum           float64
	ExpandedSum   float64
	Score         Score
	MultiBinScore Score
}

// Evaluator computes the exact and multi-bin log scores of a forecast.
type Evaluator struct {
	logger *slog.Logger
}

// NewEvaluator creates an Evaluator. Duplicate forecast bins are logged as
// data-quality warnings on logger.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

// Evaluate scores rows (one region and target of a forecast file) against the
// true bins. year is the forecast's calendar year.
//
// Errors are *LookupError when a bin cannot be found and *IntegrityViolation
// when the multi-bin score exceeds Tolerance.
func (e *Evaluator) Evaluate(rows []Row, trueBins []Bin, target string, year int) (Result, error) {
	trueBins = uniqueBins(trueBins)
	res := Result{
		TrueBins:     trueBins,
		ExpandedBins: Expand(trueBins, target, year),
	}
	if len(rows) == 0 {
		return res, &LookupError{Kind: LookupRows, Key: target}
	}

	onDuplicate := func(b Bin, n int) {
		if e.logger != nil {
			e.logger.Warn("duplicate forecast bins", "target", target, "bin", b.String(), "matches", n)
		}
	}

	trueIdx, err := resolve(rows, trueBins, onDuplicate)
	if err != nil {
		return res, err
	}
	expandedIdx, err := resolve(rows, res.ExpandedBins, onDuplicate)
	if err != nil {
		return res, err
	}

	// Bins sharing a fallback row count that row once.
	res.Sum = floats.Sum(massOf(rows, trueIdx))
	res.ExpandedSum = floats.Sum(massOf(rows, expandedIdx))

	if raw := math.Log(res.ExpandedSum); raw > Tolerance {
		return res, &IntegrityViolation{
			TrueBins:      trueBins,
			ExpandedBins:  res.ExpandedBins,
			Sum:           res.Sum,
			ExpandedSum:   res.ExpandedSum,
			Score:         math.Log(res.Sum),
			MultiBinScore: raw,
		}
	}

	res.Score = scoreOf(res.Sum)
	res.MultiBinScore = scoreOf(res.ExpandedSum)
	return res, nil
}

// uniqueBins drops repeated bins, keeping first-occurrence order.
func uniqueBins(bins []Bin) []Bin {
	set := newBinSet()
	for _, b := range bins {
		set.add(b)
	}
	return set.bins
}
