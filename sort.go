package compscreen

import (
	"sort"
	"strings"
)

// SortDirection is the tri-state sort order of a column.
type SortDirection int

const (
	// SortNone leaves rows in their upload order
	SortNone SortDirection = iota
	// SortAscending orders rows smallest-first
	SortAscending
	// SortDescending orders rows largest-first
	SortDescending
)

// String returns the direction name used in API query parameters.
func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "none"
	}
}

// ParseSortDirection maps a query-parameter string to a direction.
// Unknown strings mean no sort.
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return SortAscending
	case "desc", "descending":
		return SortDescending
	default:
		return SortNone
	}
}

// SortState tracks which column a table is sorted by and in which
// direction. The zero value is unsorted.
type SortState struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// Toggle advances the state for a click on column. Repeated clicks on the
// same column cycle none -> ascending -> descending -> none; clicking a
// different column resets to ascending.
func (s SortState) Toggle(column string) SortState {
	if s.Column != column {
		return SortState{Column: column, Direction: SortAscending}
	}
	switch s.Direction {
	case SortAscending:
		return SortState{Column: column, Direction: SortDescending}
	case SortDescending:
		return SortState{Column: column, Direction: SortNone}
	default:
		return SortState{Column: column, Direction: SortAscending}
	}
}

// Sort returns the rows ordered by the given column. Rows with a missing
// value in that column sink to the bottom in both directions. When both
// cells coerce to numbers the comparison is numeric; otherwise it falls
// back to case-insensitive string comparison. The input slice is not
// modified; SortNone returns it unchanged.
func Sort(rows []Row, column string, dir SortDirection) []Row {
	if dir == SortNone || column == "" {
		return rows
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a := sorted[i].Get(column)
		b := sorted[j].Get(column)

		// Missing values order last regardless of direction.
		if a.IsNull() || b.IsNull() {
			return !a.IsNull() && b.IsNull()
		}

		cmp := compareValues(a, b)
		if dir == SortDescending {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}

// compareValues compares two non-null cells, numerically when both sides
// coerce, lexicographically (case-insensitive) otherwise.
func compareValues(a, b Value) int {
	af, aok := a.Float()
	bf, bok := b.Float()
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(a.Text()), strings.ToLower(b.Text()))
}
