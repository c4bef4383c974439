package scoring

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// UndefinedText is how an undefined score is rendered in tabular output.
const UndefinedText = "NaN"

// Score is a log score: a finite, non-positive value or Undefined when the
// forecast put zero mass on every bin in scope.
type Score struct {
	Value     float64
	Undefined bool
}

// UndefinedScore is the score of a forecast that assigned zero probability.
var UndefinedScore = Score{Undefined: true}

// Calculate sums probs and returns the natural log of the sum. A zero sum gives
// UndefinedScore instead of -Inf, and a score within Tolerance of 0 is
// reported as exactly 0.
func Calculate(probs []float64) Score {
	return scoreOf(floats.Sum(probs))
}

func scoreOf(sum float64) Score {
	s := math.Log(sum)
	if math.IsInf(s, -1) || math.IsNaN(s) {
		return UndefinedScore
	}
	if -s < Tolerance {
		return Score{}
	}
	return Score{Value: s}
}

// AtLeast reports whether s >= o, ordering UndefinedScore below every finite
// score.
func (s Score) AtLeast(o Score) bool {
	if o.Undefined {
		return true
	}
	if s.Undefined {
		return false
	}
	return s.Value >= o.Value
}

// Float returns the score as a float64, NaN when undefined.
func (s Score) Float() float64 {
	if s.Undefined {
		return math.NaN()
	}
	return s.Value
}

func (s Score) String() string {
	if s.Undefined {
		return UndefinedText
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

// MarshalJSON encodes an undefined score as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if s.Undefined {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, s.Value, 'f', -1, 64), nil
}

// UnmarshalJSON accepts a number or null.
func (s *Score) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = UndefinedScore
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*s = Score{Value: v}
	return nil
}
