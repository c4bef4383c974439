package scoring

import (
	"io"
	"log/slog"
	"math"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func binsOf(values ...float64) []Bin {
	out := make([]Bin, len(values))
	for i, v := range values {
		out[i] = Bin{Value: v}
	}
	return out
}

func equalBins(a, b []Bin) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func weekRows(probs map[float64]float64) []Row {
	var rows []Row
	for w := 1.0; w <= 52; w++ {
		p, ok := probs[w]
		if !ok {
			continue
		}
		rows = append(rows, Row{
			Region:      "US National",
			Target:      "Season peak week",
			BinType:     "Bin",
			Unit:        "week",
			BinStart:    Label{Text: Bin{Value: w}.String(), Value: w, Numeric: true},
			BinEnd:      Label{Text: Bin{Value: w + 1}.String(), Value: w + 1, Numeric: true},
			Probability: p,
		})
	}
	return rows
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		probs     []float64
		want      float64
		undefined bool
	}{
		{"full mass snaps to zero", []float64{0.2, 0.3, 0.5}, 0, false},
		{"zero mass is undefined", []float64{0.0, 0.0}, 0, true},
		{"no bins is undefined", nil, 0, true},
		{"single bin", []float64{0.7}, math.Log(0.7), false},
		{"summed bins", []float64{0.1, 0.15}, math.Log(0.25), false},
		{"slightly above one snaps to zero", []float64{1.00005}, 0, false},
		{"just under tolerance snaps to zero", []float64{0.99995}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.probs)
			if got.Undefined != tt.undefined {
				t.Fatalf("undefined = %v, want %v", got.Undefined, tt.undefined)
			}
			if tt.undefined {
				return
			}
			if math.Abs(got.Value-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got.Value, tt.want)
			}
			if math.IsInf(got.Value, 0) || math.IsNaN(got.Value) {
				t.Errorf("non-finite score %v", got.Value)
			}
		})
	}
}

func TestCalculateSnapIsExactZero(t *testing.T) {
	got := Calculate([]float64{0.2, 0.3, 0.5})
	if got.Value != 0 || got.Undefined {
		t.Errorf("expected exactly 0, got %+v", got)
	}
	if got.String() != "0" {
		t.Errorf("expected \"0\", got %q", got.String())
	}
}

func TestScoreString(t *testing.T) {
	if s := UndefinedScore.String(); s != "NaN" {
		t.Errorf("expected NaN, got %s", s)
	}
	if s := (Score{Value: -0.5}).String(); s != "-0.5" {
		t.Errorf("expected -0.5, got %s", s)
	}
}

func TestScoreAtLeast(t *testing.T) {
	tests := []struct {
		name string
		a, b Score
		want bool
	}{
		{"finite greater", Score{Value: -0.1}, Score{Value: -1}, true},
		{"finite equal", Score{Value: -1}, Score{Value: -1}, true},
		{"finite less", Score{Value: -2}, Score{Value: -1}, false},
		{"finite over undefined", Score{Value: -9}, UndefinedScore, true},
		{"undefined under finite", UndefinedScore, Score{Value: -9}, false},
		{"undefined over undefined", UndefinedScore, UndefinedScore, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.AtLeast(tt.b); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreJSON(t *testing.T) {
	b, err := UndefinedScore.MarshalJSON()
	if err != nil || string(b) != "null" {
		t.Errorf("expected null, got %s (%v)", b, err)
	}

	var s Score
	if err := s.UnmarshalJSON([]byte("-1.25")); err != nil {
		t.Fatal(err)
	}
	if s.Undefined || s.Value != -1.25 {
		t.Errorf("unexpected score %+v", s)
	}
	if err := s.UnmarshalJSON([]byte("null")); err != nil {
		t.Fatal(err)
	}
	if !s.Undefined {
		t.Error("expected undefined after null")
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		target string
		want   TargetType
	}{
		{"1 wk ahead", Numeric},
		{"4 wk ahead", Numeric},
		{"Season peak percentage", Numeric},
		{"Season onset", Week},
		{"Season peak week", Week},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.target); got != tt.want {
			t.Errorf("TypeOf(%q) = %s, want %s", tt.target, got, tt.want)
		}
	}
}

func TestParseBin(t *testing.T) {
	tests := []struct {
		in      string
		want    Bin
		wantErr bool
	}{
		{"2.5", Bin{Value: 2.5}, false},
		{" 40 ", Bin{Value: 40}, false},
		{"none", NoneBin, false},
		{"NaN", NoneBin, false},
		{"abc", Bin{}, true},
		{"", Bin{}, true},
	}
	for _, tt := range tests {
		got, err := ParseBin(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBin(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParseBin(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNoneBinEquality(t *testing.T) {
	if !NoneBin.Equal(NoneBin) {
		t.Error("none must equal itself")
	}
	if NoneBin.Equal(Bin{Value: 0}) {
		t.Error("none must not equal 0")
	}
	if !NewBin(math.NaN()).Equal(NoneBin) {
		t.Error("NaN must map to none")
	}
}

func TestParseLabel(t *testing.T) {
	l := ParseLabel("none")
	if l.Numeric || !l.IsNone() {
		t.Errorf("unexpected label %+v", l)
	}
	l = ParseLabel("NA")
	if l.Numeric || l.IsNone() {
		t.Errorf("unexpected label %+v", l)
	}
	l = ParseLabel("3.1")
	if !l.Numeric || l.Value != 3.1 {
		t.Errorf("unexpected label %+v", l)
	}
}
