package dataset

import "github.com/MikeSquared-Agency/Episcore/internal/scoring"

type groupKey struct {
	region string
	target string
}

// Table is one forecast file grouped by region and target.
type Table struct {
	groups map[groupKey][]scoring.Row
	rows   int
}

// NewTable groups rows by region and target, keeping file order within a group.
func NewTable(rows []scoring.Row) *Table {
	t := &Table{groups: make(map[groupKey][]scoring.Row), rows: len(rows)}
	for _, r := range rows {
		k := groupKey{region: r.Region, target: r.Target}
		t.groups[k] = append(t.groups[k], r)
	}
	return t
}

// Rows returns the rows for one region and target, nil if the file has none.
func (t *Table) Rows(region, target string) []scoring.Row {
	return t.groups[groupKey{region: region, target: target}]
}

// Len returns the number of rows in the file.
func (t *Table) Len() int {
	return t.rows
}
