package scoring

import (
	"math"

	"github.com/MikeSquared-Agency/Episcore/internal/epiweek"
)

const (
	// numericSteps is the number of 0.1 steps taken on each side of a numeric bin.
	numericSteps = 5
	numericMin   = 0.0
	numericMax   = 13.0

	// epsilon widens the numeric range check to absorb round-off at the edges.
	epsilon = 2.220446049250313e-16
)

// Expand returns the neighbourhood of bins around trueBins that counts toward
// the multi-bin score of target. year is the calendar year of the forecast and
// decides whether the year ends at week 52 or 53.
//
// The result has no duplicates and is ordered with finite bins ascending and
// NoneBin last.
func Expand(trueBins []Bin, target string, year int) []Bin {
	if TypeOf(target) == Numeric {
		return expandNumeric(trueBins)
	}
	return expandWeek(trueBins, year)
}

type binSet struct {
	seen map[Bin]struct{}
	bins []Bin
}

func newBinSet() *binSet {
	return &binSet{seen: make(map[Bin]struct{})}
}

func (s *binSet) add(b Bin) {
	if b.None {
		b = NoneBin
	}
	if _, ok := s.seen[b]; ok {
		return
	}
	s.seen[b] = struct{}{}
	s.bins = append(s.bins, b)
}

func (s *binSet) sorted() []Bin {
	out := s.bins
	if out == nil {
		out = []Bin{}
	}
	sortBins(out)
	return out
}

func expandNumeric(trueBins []Bin) []Bin {
	set := newBinSet()
	for _, b := range trueBins {
		// "none" has no numeric neighbourhood
		if b.None {
			continue
		}
		for k := -numericSteps; k <= numericSteps; k++ {
			v := roundHalfUp(b.Value*10+float64(k)) / 10
			if v < numericMin-epsilon || v > numericMax+epsilon {
				continue
			}
			set.add(Bin{Value: v})
		}
	}
	return set.sorted()
}

func expandWeek(trueBins []Bin, year int) []Bin {
	set := newBinSet()
	for _, b := range trueBins {
		if b.None {
			set.add(NoneBin)
			continue
		}
		for _, w := range weekNeighbours(b.Value, year) {
			set.add(Bin{Value: roundHalfUp(w)})
		}
	}
	return set.sorted()
}

// weekNeighbours returns the week before, the week itself and the week after,
// wrapping across the year boundary. The season start week has no lower
// neighbour.
func weekNeighbours(week float64, year int) []float64 {
	last := float64(epiweek.WeeksInYear(year))
	switch week {
	case epiweek.SeasonStartWeek:
		return []float64{week, week + 1}
	case last:
		return []float64{week - 1, week, 1}
	case 1:
		return []float64{float64(epiweek.WeeksInYear(year - 1)), week, 2}
	default:
		return []float64{week - 1, week, week + 1}
	}
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
