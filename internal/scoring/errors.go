package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupKind names what could not be found.
type LookupKind string

const (
	LookupTruth LookupKind = "truth"
	LookupRows  LookupKind = "rows"
	LookupBin   LookupKind = "bin"
)

// LookupError reports ground truth or a forecast bin that is missing. The
// affected (region, target) pair cannot be scored.
type LookupError struct {
	Kind LookupKind
	Bin  Bin
	Key  string
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case LookupTruth:
		return "no ground truth for " + e.Key
	case LookupRows:
		return "no forecast rows for " + e.Key
	default:
		return fmt.Sprintf("no forecast row for bin %s", e.Bin)
	}
}

// IntegrityViolation reports a multi-bin score above Tolerance: the expanded
// neighbourhood holds more than the whole probability mass. It carries every
// intermediate value for diagnosis.
type IntegrityViolation struct {
	TrueBins      []Bin
	ExpandedBins  []Bin
	Sum           float64
	ExpandedSum   float64
	Score         float64
	MultiBinScore float64
}

func (e *IntegrityViolation) Error() string {
	return fmt.Sprintf("multi-bin score %g exceeds tolerance (expanded sum %g over %d bins)",
		e.MultiBinScore, e.ExpandedSum, len(e.ExpandedBins))
}

// Detail returns the intermediate values as loggable fields.
func (e *IntegrityViolation) Detail() map[string]any {
	return map[string]any{
		"true_bins":       joinBins(e.TrueBins),
		"expanded_bins":   joinBins(e.ExpandedBins),
		"sum":             formatRaw(e.Sum),
		"expanded_sum":    formatRaw(e.ExpandedSum),
		"score":           formatRaw(e.Score),
		"multi_bin_score": formatRaw(e.MultiBinScore),
	}
}

func joinBins(bins []Bin) string {
	parts := make([]string, len(bins))
	for i, b := range bins {
		parts[i] = b.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// formatRaw keeps -Inf and NaN representable in JSON.
func formatRaw(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
