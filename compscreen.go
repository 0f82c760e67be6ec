package compscreen

// Snapshot binds one uploaded row set to the format classification derived
// from it. Filtering, aggregation, and rendering against a snapshot all see
// the same per-column formats, so a numeric bound and the displayed
// aggregate can never disagree about a column's scale.
//
// Snapshots are immutable; a new upload replaces the snapshot wholesale.
type Snapshot struct {
	columns []string
	rows    []Row
	formats map[string]FormatTag
}

// Result is the outcome of applying criteria to a snapshot.
type Result struct {
	Rows       []Row      `json:"rows"`
	Aggregates Aggregates `json:"aggregates"`
}

// NewSnapshot classifies every column of the row set once and returns the
// bound snapshot. The first column is treated as the identity/label column
// for aggregate rows.
func NewSnapshot(columns []string, rows []Row) *Snapshot {
	return &Snapshot{
		columns: columns,
		rows:    rows,
		formats: ClassifyColumns(rows, columns),
	}
}

// Columns returns the column names in upload order.
func (s *Snapshot) Columns() []string {
	return s.columns
}

// Rows returns the full, unfiltered row set.
func (s *Snapshot) Rows() []Row {
	return s.rows
}

// Formats returns the memoized per-column format classification.
func (s *Snapshot) Formats() map[string]FormatTag {
	return s.formats
}

// LabelColumn returns the identity column excluded from aggregation,
// which is the first uploaded column. Empty when the snapshot has no
// columns.
func (s *Snapshot) LabelColumn() string {
	if len(s.columns) == 0 {
		return ""
	}
	return s.columns[0]
}

// Apply filters the snapshot's rows with the given criteria and computes
// average/median rows over the surviving subset.
func (s *Snapshot) Apply(criteria []Criterion) Result {
	filtered := Filter(s.rows, criteria, s.formats)
	return Result{
		Rows:       filtered,
		Aggregates: Aggregate(filtered, s.columns, s.LabelColumn()),
	}
}

// RenderCell formats a cell of the given column for display using the
// snapshot's classification.
func (s *Snapshot) RenderCell(column string, v Value) string {
	return Render(v, s.formats[column])
}
