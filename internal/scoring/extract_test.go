package scoring

import (
	"errors"
	"testing"
)

func numericRow(start, p float64) Row {
	return Row{
		BinType:     "Bin",
		Unit:        "percent",
		BinStart:    Label{Text: Bin{Value: start}.String(), Value: start, Numeric: true},
		BinEnd:      Label{Text: Bin{Value: start + 0.1}.String(), Value: start + 0.1, Numeric: true},
		Probability: p,
	}
}

func noneRow(p float64) Row {
	return Row{BinType: "Bin", Unit: "week", BinStart: ParseLabel("none"), BinEnd: ParseLabel("none"), Probability: p}
}

func TestExtract(t *testing.T) {
	rows := []Row{numericRow(1.0, 0.1), numericRow(2.0, 0.7), numericRow(3.0, 0.2)}

	probs, err := Extract(rows, binsOf(3.0, 1.0))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(probs) != 2 || probs[0] != 0.2 || probs[1] != 0.1 {
		t.Errorf("unexpected probabilities %v", probs)
	}
}

func TestExtractTolerance(t *testing.T) {
	rows := []Row{numericRow(2.0, 0.7)}

	if _, err := Extract(rows, binsOf(2.0+Tolerance/2)); err != nil {
		t.Errorf("expected match within tolerance, got %v", err)
	}
	if _, err := Extract(rows, binsOf(2.0-Tolerance/2)); err != nil {
		t.Errorf("expected match within tolerance, got %v", err)
	}

	var lookupErr *LookupError
	_, err := Extract(rows, binsOf(2.0+2*Tolerance))
	if !errors.As(err, &lookupErr) {
		t.Errorf("expected LookupError outside tolerance, got %v", err)
	}
}

func TestExtractNoneBin(t *testing.T) {
	rows := []Row{numericRow(40, 0.3), noneRow(0.25)}

	probs, err := Extract(rows, []Bin{NoneBin})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if probs[0] != 0.25 {
		t.Errorf("expected 0.25, got %v", probs[0])
	}

	var lookupErr *LookupError
	_, err = Extract([]Row{numericRow(40, 1)}, []Bin{NoneBin})
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError, got %v", err)
	}
	if lookupErr.Kind != LookupBin || !lookupErr.Bin.Equal(NoneBin) {
		t.Errorf("unexpected lookup error %+v", lookupErr)
	}
}

func TestExtractNoneDoesNotFallBack(t *testing.T) {
	rows := []Row{numericRow(1, 0.5)}
	var lookupErr *LookupError
	if _, err := Extract(rows, []Bin{NoneBin}); !errors.As(err, &lookupErr) {
		t.Errorf("expected LookupError for none without a none row, got %v", err)
	}
}

func TestExtractWeek53Fallback(t *testing.T) {
	probs := map[float64]float64{}
	for w := 1.0; w <= 52; w++ {
		probs[w] = 0.01
	}
	probs[1] = 0.42
	rows := weekRows(probs)

	got, err := Extract(rows, binsOf(53))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got[0] != 0.42 {
		t.Errorf("expected week 1 probability 0.42, got %v", got[0])
	}
}

func TestExtractFallbackMissing(t *testing.T) {
	rows := []Row{numericRow(2.0, 0.5), numericRow(3.0, 0.5)}

	var lookupErr *LookupError
	_, err := Extract(rows, binsOf(53))
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError, got %v", err)
	}
	if !lookupErr.Bin.Equal(Bin{Value: 53}) {
		t.Errorf("expected the requested bin in the error, got %v", lookupErr.Bin)
	}
}

func TestExtractIgnoresNonNumericLabels(t *testing.T) {
	point := Row{BinType: "Point", BinStart: ParseLabel("NA"), BinEnd: ParseLabel("NA"), Probability: 45}
	rows := []Row{point, numericRow(1.0, 0.3)}

	got, err := Extract(rows, binsOf(1.0))
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 0.3 {
		t.Errorf("expected 0.3, got %v", got[0])
	}
}

func TestExtractDuplicateUsesFirst(t *testing.T) {
	rows := []Row{numericRow(2.0, 0.6), numericRow(2.0, 0.1)}

	var dupBin Bin
	var dupCount int
	got, err := resolve(rows, binsOf(2.0), func(b Bin, n int) {
		dupBin = b
		dupCount = n
	})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 0 {
		t.Errorf("expected first matching row 0, got %v", got[0])
	}
	if dupCount != 2 || !dupBin.Equal(Bin{Value: 2}) {
		t.Errorf("expected duplicate report for bin 2 with 2 matches, got %v x%d", dupBin, dupCount)
	}
}

func TestExtractEmptyBins(t *testing.T) {
	got, err := Extract([]Row{numericRow(1, 1)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no probabilities, got %v", got)
	}
	if s := Calculate(got); !s.Undefined {
		t.Errorf("expected undefined score, got %v", s)
	}
}

func TestResolveSharedFallbackRow(t *testing.T) {
	rows := weekRows(map[float64]float64{1: 0.6, 52: 0.4})

	idx, err := resolve(rows, binsOf(1, 52, 53), nil)
	if err != nil {
		t.Fatal(err)
	}
	if idx[0] != idx[2] {
		t.Errorf("expected week 53 to fall back to the week 1 row, got %v", idx)
	}
	probs := massOf(rows, idx)
	if len(probs) != 2 {
		t.Errorf("expected the shared row to be counted once, got %v", probs)
	}
}
