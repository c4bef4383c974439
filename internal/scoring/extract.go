package scoring

import "math"

// Tolerance is the absolute distance within which a forecast bin start matches
// a requested bin. It sits well above float round-off and well below the 0.1
// bin width. Scores within Tolerance of 0 are snapped to 0, and a multi-bin
// score above Tolerance is an integrity violation.
const Tolerance = 1e-4

// fallbackBin replaces a numeric bin that a forecast does not carry. Truth can
// reference week 53 while a model uses a 52-week layout for that year.
var fallbackBin = Bin{Value: 1}

// DuplicateFunc is called when more than one forecast row matches a bin.
type DuplicateFunc func(bin Bin, matches int)

// Extract returns the probability the forecast rows assign to each bin, in the
// order of bins. A bin with no row, even after the week-1 fallback, yields a
// *LookupError; it is never treated as zero probability.
func Extract(rows []Row, bins []Bin) ([]float64, error) {
	idx, err := resolve(rows, bins, nil)
	if err != nil {
		return nil, err
	}
	probs := make([]float64, len(idx))
	for i, j := range idx {
		probs[i] = rows[j].Probability
	}
	return probs, nil
}

// resolve returns the index of the row matching each bin, in the order of bins.
// Two bins can resolve to the same row when both fall back to week 1.
func resolve(rows []Row, bins []Bin, onDuplicate DuplicateFunc) ([]int, error) {
	idx := make([]int, 0, len(bins))
	for _, b := range bins {
		i, n := match(rows, b)
		if n == 0 && !b.None {
			i, n = match(rows, fallbackBin)
		}
		if n == 0 {
			return nil, &LookupError{Kind: LookupBin, Bin: b}
		}
		if n > 1 && onDuplicate != nil {
			onDuplicate(b, n)
		}
		idx = append(idx, i)
	}
	return idx, nil
}

// massOf sums the probability of the rows at idx, counting each row once.
func massOf(rows []Row, idx []int) []float64 {
	seen := make(map[int]bool, len(idx))
	probs := make([]float64, 0, len(idx))
	for _, i := range idx {
		if seen[i] {
			continue
		}
		seen[i] = true
		probs = append(probs, rows[i].Probability)
	}
	return probs
}

// match returns the index of the first row for b and the number of rows that
// match it.
func match(rows []Row, b Bin) (int, int) {
	first := -1
	n := 0
	for i, r := range rows {
		var ok bool
		if b.None {
			ok = r.BinStart.IsNone()
		} else {
			ok = r.BinStart.Numeric && math.Abs(r.BinStart.Value-b.Value) < Tolerance
		}
		if !ok {
			continue
		}
		if n == 0 {
			first = i
		}
		n++
	}
	return first, n
}
