package compscreen

import (
	"strings"

	"github.com/google/uuid"
)

// Criterion is a user-defined filter rule bound to one column. Min and Max
// are kept as entered (numeric strings); an empty string means the bound is
// not set. Active controls column visibility in summary views only; it
// never gates whether the criterion filters rows.
type Criterion struct {
	ID     string `json:"id"`
	Column string `json:"column"`
	Min    string `json:"min"`
	Max    string `json:"max"`
	Text   string `json:"text"`
	Active bool   `json:"active"`
}

// NewCriterion creates a criterion for the given column with a fresh,
// never-reused identifier and no bounds set.
func NewCriterion(column string) Criterion {
	return Criterion{
		ID:     uuid.NewString(),
		Column: column,
		Active: true,
	}
}

// Effective reports whether the criterion constrains anything: at least one
// of Min, Max, or trimmed Text is non-empty. Ineffective criteria are
// skipped during filtering regardless of Active.
func (c Criterion) Effective() bool {
	return c.Min != "" || c.Max != "" || strings.TrimSpace(c.Text) != ""
}

// Criteria is an ordered list of criteria. Order is insertion order and
// carries no semantics beyond display.
type Criteria []Criterion

// Add appends a new criterion for column and returns it.
func (cs *Criteria) Add(column string) Criterion {
	c := NewCriterion(column)
	*cs = append(*cs, c)
	return c
}

// Update replaces the criterion with the same ID in place. It reports
// whether a criterion with that ID existed.
func (cs Criteria) Update(c Criterion) bool {
	for i := range cs {
		if cs[i].ID == c.ID {
			cs[i] = c
			return true
		}
	}
	return false
}

// Remove deletes the criterion with the given ID, preserving the order of
// the rest. It reports whether anything was removed.
func (cs *Criteria) Remove(id string) bool {
	for i := range *cs {
		if (*cs)[i].ID == id {
			*cs = append((*cs)[:i], (*cs)[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the criterion with the given ID.
func (cs Criteria) Get(id string) (Criterion, bool) {
	for _, c := range cs {
		if c.ID == id {
			return c, true
		}
	}
	return Criterion{}, false
}
