// Package truth holds the ground-truth lookup used while scoring.
package truth

import (
	"fmt"
	"slices"

	"github.com/MikeSquared-Agency/Episcore/internal/scoring"
)

// Record is one row of the ground-truth table.
type Record struct {
	Year      int
	Epiweek   int
	Season    string
	ModelWeek int
	Region    string
	Target    string
	Bin       scoring.Bin
}

// Key identifies the truth for one forecast target.
type Key struct {
	Year    int
	Epiweek int
	Region  string
	Target  string
}

func (k Key) String() string {
	return fmt.Sprintf("%d-%d %s, %s", k.Year, k.Epiweek, k.Region, k.Target)
}

// Entry is the truth stored under a Key. Bins holds every valid true bin,
// without repeats, in the order they first appear in the table.
type Entry struct {
	Season    string
	ModelWeek int
	Bins      []scoring.Bin
}

// Index is an immutable lookup of truth entries. It is safe for concurrent use.
type Index struct {
	entries map[Key]Entry
}

// NewIndex builds an Index from records. Season and model week are taken from
// the first record of each key.
func NewIndex(records []Record) *Index {
	entries := make(map[Key]Entry)
	for _, r := range records {
		k := Key{Year: r.Year, Epiweek: r.Epiweek, Region: r.Region, Target: r.Target}
		e, ok := entries[k]
		if !ok {
			e = Entry{Season: r.Season, ModelWeek: r.ModelWeek}
		}
		if !slices.ContainsFunc(e.Bins, r.Bin.Equal) {
			e.Bins = append(e.Bins, r.Bin)
		}
		entries[k] = e
	}
	return &Index{entries: entries}
}

// Lookup returns the entry for k, or a *scoring.LookupError when the table has
// no truth for it. The returned bins are a copy.
func (x *Index) Lookup(k Key) (Entry, error) {
	e, ok := x.entries[k]
	if !ok {
		return Entry{}, &scoring.LookupError{Kind: scoring.LookupTruth, Key: k.String()}
	}
	e.Bins = slices.Clone(e.Bins)
	return e, nil
}

// Len returns the number of keys in the index.
func (x *Index) Len() int {
	return len(x.entries)
}
