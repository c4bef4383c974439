package scoring

import "strings"

// TargetType selects the bin layout a target uses.
type TargetType int

const (
	// Week targets (season onset, peak week) use integer epiweek bins and the
	// "none" bin.
	Week TargetType = iota
	// Numeric targets (n wk ahead, peak percentage) use 0.1-wide decimal bins.
	Numeric
)

func (t TargetType) String() string {
	if t == Numeric {
		return "numeric"
	}
	return "week"
}

// TypeOf classifies a target by name.
func TypeOf(target string) TargetType {
	if strings.HasSuffix(target, "ahead") || strings.HasSuffix(target, "percentage") {
		return Numeric
	}
	return Week
}
