package runner

import (
	"errors"

	"github.com/MikeSquared-Agency/Episcore/internal/dataset"
	"github.com/MikeSquared-Agency/Episcore/internal/scoring"
)

// Failure kinds.
const (
	KindParse     = "parse_error"
	KindFileName  = "file_name_error"
	KindLookup    = "lookup_error"
	KindIntegrity = "integrity_violation"
	KindInternal  = "error"
)

// Failure is one entry of the error log. Region and Target are empty for
// file-level failures.
type Failure struct {
	Model   string         `json:"model"`
	File    string         `json:"file"`
	Year    int            `json:"year,omitempty"`
	Epiweek int            `json:"epiweek,omitempty"`
	Region  string         `json:"region,omitempty"`
	Target  string         `json:"target,omitempty"`
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// FileLevel reports whether the failure concerns the whole file.
func (f Failure) FileLevel() bool {
	return f.Region == "" && f.Target == ""
}

func kindOf(err error) string {
	var (
		pe *dataset.ParseError
		le *scoring.LookupError
		iv *scoring.IntegrityViolation
	)
	switch {
	case errors.As(err, &iv):
		return KindIntegrity
	case errors.As(err, &le):
		return KindLookup
	case errors.As(err, &pe):
		return KindParse
	default:
		return KindInternal
	}
}
