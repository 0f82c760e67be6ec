package compscreen

import "sort"

// Marker strings placed in the label column of synthetic aggregate rows.
const (
	// AverageLabel marks the synthetic average row
	AverageLabel = "AVERAGE"
	// MedianLabel marks the synthetic median row
	MedianLabel = "MEDIAN"
)

// Aggregates holds the synthetic summary rows computed over a comparable
// set. Columns with no numeric values are absent from both rows and render
// as "-" downstream.
type Aggregates struct {
	Averages Row `json:"averages"`
	Medians  Row `json:"medians"`
}

// Aggregate computes per-column average and median rows over the given
// rows. The labelColumn (the identity column, typically the ticker or
// company name) is excluded from the math and instead carries the
// AVERAGE/MEDIAN markers.
//
// Aggregation works on raw numeric magnitudes only: a percentage_decimal
// column averages its 0-1 fractions, and the shared format tag rescales the
// result at render time, the same path detail rows take.
func Aggregate(rows []Row, columns []string, labelColumn string) Aggregates {
	averages := Row{}
	medians := Row{}
	if labelColumn != "" {
		averages[labelColumn] = String(AverageLabel)
		medians[labelColumn] = String(MedianLabel)
	}

	for _, col := range columns {
		if col == labelColumn {
			continue
		}
		nums := numericColumn(rows, col)
		if len(nums) == 0 {
			continue
		}
		averages[col] = Number(mean(nums))
		medians[col] = Number(median(nums))
	}
	return Aggregates{Averages: averages, Medians: medians}
}

// numericColumn collects the coercible numeric values of one column.
func numericColumn(rows []Row, column string) []float64 {
	nums := make([]float64, 0, len(rows))
	for _, row := range rows {
		if f, ok := row.Get(column).Float(); ok {
			nums = append(nums, f)
		}
	}
	return nums
}

// mean returns the arithmetic mean. The caller guarantees len(nums) > 0.
func mean(nums []float64) float64 {
	sum := 0.0
	for _, f := range nums {
		sum += f
	}
	return sum / float64(len(nums))
}

// median returns the middle element for odd counts and the mean of the two
// middle elements for even counts. The caller guarantees len(nums) > 0.
func median(nums []float64) float64 {
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
