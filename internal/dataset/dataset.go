// Package dataset reads the ground-truth and forecast CSV tables.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Episcore/internal/scoring"
	"github.com/MikeSquared-Agency/Episcore/internal/truth"
)

const (
	truthColumns    = 7
	forecastColumns = 7
)

// ParseError reports a file that could not be structured into rows.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse %s line %d: %v", loc, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", loc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// readRecords returns the data rows of a CSV table, header excluded, each with
// its 1-based line number.
func readRecords(r io.Reader, columns int) ([][]string, []int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records [][]string
	var lines []int
	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, &ParseError{Err: err}
		}
		if header {
			header = false
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < columns {
			return nil, nil, &ParseError{Line: line, Err: fmt.Errorf("expected %d columns, got %d", columns, len(rec))}
		}
		records = append(records, rec)
		lines = append(lines, line)
	}
	return records, lines, nil
}

// ReadTruth parses a ground-truth table with the columns Year, Calendar Week,
// Season, Model Week, Location, Target, Valid Bin_start_incl.
func ReadTruth(r io.Reader) ([]truth.Record, error) {
	records, lines, err := readRecords(r, truthColumns)
	if err != nil {
		return nil, err
	}

	out := make([]truth.Record, 0, len(records))
	for i, rec := range records {
		tr, err := parseTruthRecord(rec)
		if err != nil {
			return nil, &ParseError{Line: lines[i], Err: err}
		}
		out = append(out, tr)
	}
	return out, nil
}

func parseTruthRecord(rec []string) (truth.Record, error) {
	year, err := parseInt("year", rec[0])
	if err != nil {
		return truth.Record{}, err
	}
	week, err := parseInt("epiweek", rec[1])
	if err != nil {
		return truth.Record{}, err
	}
	modelWeek, err := parseInt("model week", rec[3])
	if err != nil {
		return truth.Record{}, err
	}
	bin, err := scoring.ParseBin(rec[6])
	if err != nil {
		return truth.Record{}, err
	}
	return truth.Record{
		Year:      year,
		Epiweek:   week,
		Season:    strings.TrimSpace(rec[2]),
		ModelWeek: modelWeek,
		Region:    strings.TrimSpace(rec[4]),
		Target:    strings.TrimSpace(rec[5]),
		Bin:       bin,
	}, nil
}

// ReadTruthFile parses the ground-truth table at path.
func ReadTruthFile(path string) ([]truth.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open truth file: %w", err)
	}
	defer f.Close()

	records, err := ReadTruth(f)
	if err != nil {
		return nil, withPath(err, path)
	}
	return records, nil
}

// ReadForecast parses a forecast table with the columns Location, Target,
// Type, Unit, Bin_start_incl, Bin_end_notincl, Value.
func ReadForecast(r io.Reader) (*Table, error) {
	records, lines, err := readRecords(r, forecastColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]scoring.Row, 0, len(records))
	for i, rec := range records {
		p, err := strconv.ParseFloat(strings.TrimSpace(rec[6]), 64)
		if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return nil, &ParseError{Line: lines[i], Err: fmt.Errorf("invalid probability %q", rec[6])}
		}
		rows = append(rows, scoring.Row{
			Region:      strings.TrimSpace(rec[0]),
			Target:      strings.TrimSpace(rec[1]),
			BinType:     strings.TrimSpace(rec[2]),
			Unit:        strings.TrimSpace(rec[3]),
			BinStart:    scoring.ParseLabel(rec[4]),
			BinEnd:      scoring.ParseLabel(rec[5]),
			Probability: p,
		})
	}
	return NewTable(rows), nil
}

// ReadForecastFile parses the forecast table at path. Every failure, including
// a missing file, is a *ParseError.
func ReadForecastFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	t, err := ReadForecast(f)
	if err != nil {
		return nil, withPath(err, path)
	}
	return t, nil
}

func withPath(err error, path string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Path = path
		return pe
	}
	return &ParseError{Path: path, Err: err}
}

func parseInt(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, nil
	}
	// some exports write integral columns as floats
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid %s %q", field, s)
	}
	return int(f), nil
}
