package compscreen

import "strings"

// Filter returns the rows satisfying every effective criterion, in their
// original order. Formats supplies the per-column classification produced
// from the same row-set snapshot; it drives bound descaling for columns
// whose data is stored as 0-1 fractions.
//
// Missing or empty cells never pass an effective criterion, and a cell that
// refuses numeric coercion fails any numeric bound. Filtering absorbs all
// data problems into row exclusion; it never returns an error.
func Filter(rows []Row, criteria []Criterion, formats map[string]FormatTag) []Row {
	effective := make([]Criterion, 0, len(criteria))
	for _, c := range criteria {
		if c.Effective() {
			effective = append(effective, c)
		}
	}
	if len(effective) == 0 {
		return rows
	}

	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if rowMatches(row, effective, formats) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// rowMatches reports whether the row satisfies all of the given criteria.
func rowMatches(row Row, criteria []Criterion, formats map[string]FormatTag) bool {
	for _, c := range criteria {
		if !matchCriterion(row, c, formats[c.Column]) {
			return false
		}
	}
	return true
}

// matchCriterion evaluates one effective criterion against one row.
func matchCriterion(row Row, c Criterion, tag FormatTag) bool {
	cell := row.Get(c.Column)
	if cell.IsNull() {
		return false
	}

	if c.Min != "" || c.Max != "" {
		cellNum, ok := cell.Float()
		if !ok {
			return false
		}
		if c.Min != "" {
			bound, ok := String(c.Min).Float()
			if !ok || cellNum < scaleBound(bound, tag) {
				return false
			}
		}
		if c.Max != "" {
			bound, ok := String(c.Max).Float()
			if !ok || cellNum > scaleBound(bound, tag) {
				return false
			}
		}
	}

	if text := strings.TrimSpace(c.Text); text != "" {
		if !strings.Contains(strings.ToLower(cell.Text()), strings.ToLower(text)) {
			return false
		}
	}
	return true
}

// scaleBound reconciles user-entered bounds with fraction-scaled data: a
// user filtering a percentage_decimal column types "50" to mean 50%, so the
// bound (never the cell) is divided by 100 before comparison.
func scaleBound(bound float64, tag FormatTag) float64 {
	if tag == FormatPercentageDecimal {
		return bound / 100
	}
	return bound
}
