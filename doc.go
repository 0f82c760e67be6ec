// Package compscreen implements the core engine of a company-comparables
// screening tool: per-column display-format inference, multi-criteria row
// filtering, and average/median summary rows over uploaded tabular data.
//
// compscreen consumes a normalized table (an ordered column list plus rows
// mapping column names to raw cell values) and produces a filtered subset,
// synthetic aggregate rows, and a per-column display-format classification.
// File parsing, persistence, and the HTTP surface are thin collaborators
// around this pure core.
//
// # Features
//
//   - Load comparables sheets from CSV, TSV, XLSX, and Parquet files
//   - Automatic handling of compressed files (gzip, bzip2, xz, zstandard)
//   - Heuristic per-column format inference (currency, percentage, ratio,
//     plain number, text), including scale detection for fraction-stored
//     percentages and millions-quoted currency amounts
//   - Conjunctive range/text filtering with scale-aware numeric bounds
//   - Average and median summary rows consistent with the inferred formats
//   - Tri-state column sorting with missing values ordered last
//
// # Basic Usage
//
// Load a file, take a snapshot, and apply criteria:
//
//	ds, err := compscreen.LoadFile("comps.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	snap := compscreen.NewSnapshot(ds.Columns, ds.Rows)
//
//	criteria := compscreen.Criteria{}
//	c := criteria.Add("EBITDA Margin")
//	c.Min = "20" // 20%, descaled automatically for fraction-stored columns
//	criteria.Update(c)
//
//	result := snap.Apply(criteria)
//	for _, row := range result.Rows {
//	    fmt.Println(snap.RenderCell("EBITDA Margin", row.Get("EBITDA Margin")))
//	}
//
// # Format Consistency
//
// A Snapshot classifies every column exactly once per row set. Filtering,
// aggregation, and rendering all read that one classification, so a filter
// bound entered as "50" (meaning 50%) and the rendered average of the same
// column can never disagree about whether the data is stored as 0-1
// fractions or whole percentage points.
//
// # Error Handling
//
// The engine degrades gracefully instead of failing: unparsable cells fail
// the criterion that inspects them, columns without numeric values are
// omitted from aggregates, and classification always produces a tag.
// Errors surface only at the file-ingestion, persistence, and HTTP edges.
package compscreen
