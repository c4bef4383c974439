package scoring

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// NoneLabel marks the forecast bin for "onset not observed".
const NoneLabel = "none"

// Bin identifies a forecast bin by its start: an epiweek index, a decimal
// percentage, or the "none" bin. Bins are comparable and usable as map keys.
type Bin struct {
	Value float64
	None  bool
}

// NoneBin is the sentinel bin for onset targets with no observed onset. It is
// equal only to itself.
var NoneBin = Bin{None: true}

// NewBin returns the bin starting at v. NaN maps to NoneBin.
func NewBin(v float64) Bin {
	if math.IsNaN(v) {
		return NoneBin
	}
	return Bin{Value: v}
}

// ParseBin parses a ground-truth bin value. "none" and "NaN" (any case) map to
// NoneBin; anything else must be a finite number.
func ParseBin(s string) (Bin, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, NoneLabel) || strings.EqualFold(s, "nan") {
		return NoneBin, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return Bin{}, fmt.Errorf("invalid bin value %q", s)
	}
	return Bin{Value: v}, nil
}

// Equal reports whether b and o identify the same bin.
func (b Bin) Equal(o Bin) bool {
	if b.None || o.None {
		return b.None == o.None
	}
	return b.Value == o.Value
}

func (b Bin) String() string {
	if b.None {
		return NoneLabel
	}
	return strconv.FormatFloat(b.Value, 'f', -1, 64)
}

// sortBins orders finite bins ascending with NoneBin last.
func sortBins(bins []Bin) {
	sort.Slice(bins, func(i, j int) bool {
		if bins[i].None != bins[j].None {
			return bins[j].None
		}
		return bins[i].Value < bins[j].Value
	})
}

// Label is a bin boundary exactly as it appears in a forecast file, plus its
// numeric value when it parses as one.
type Label struct {
	Text    string
	Value   float64
	Numeric bool
}

// ParseLabel never fails: non-numeric text ("none", "NA") is kept as a label.
func ParseLabel(s string) Label {
	l := Label{Text: strings.TrimSpace(s)}
	if v, err := strconv.ParseFloat(l.Text, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		l.Value = v
		l.Numeric = true
	}
	return l
}

// IsNone reports whether the label is the "none" bin marker.
func (l Label) IsNone() bool {
	return l.Text == NoneLabel
}

// Row is one line of a model's forecast file.
type Row struct {
	Region      string
	Target      string
	BinType     string
	Unit        string
	BinStart    Label
	BinEnd      Label
	Probability float64
}
