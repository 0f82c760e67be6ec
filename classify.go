package compscreen

import (
	"math"
	"sort"
	"strings"
)

// FormatTag represents the inferred semantic display type of a column.
type FormatTag int

const (
	// FormatText represents free-form textual columns
	FormatText FormatTag = iota
	// FormatNumber represents plain numeric columns
	FormatNumber
	// FormatDecimal represents ratio/multiple columns rendered with an "x" suffix
	FormatDecimal
	// FormatPercentage represents columns already expressed in percentage points
	FormatPercentage
	// FormatPercentageDecimal represents percentage columns stored as 0-1 fractions
	FormatPercentageDecimal
	// FormatCurrency represents currency columns in base units
	FormatCurrency
	// FormatCurrencyMillions represents currency columns already expressed in millions
	FormatCurrencyMillions
)

// String returns the tag name used in API responses and persisted sessions.
func (ft FormatTag) String() string {
	switch ft {
	case FormatNumber:
		return "number"
	case FormatDecimal:
		return "decimal"
	case FormatPercentage:
		return "percentage"
	case FormatPercentageDecimal:
		return "percentage_decimal"
	case FormatCurrency:
		return "currency"
	case FormatCurrencyMillions:
		return "currency_millions"
	default:
		return "text"
	}
}

// Name substrings that mark a column as a ratio or multiple. Checked before
// the currency keywords so "EV/Revenue" lands on decimal, not currency.
var ratioKeywords = []string{"ev/", "/rev", "/fcf", "/ebitda", "/g", "ratio", "multiple"}

// Name substrings that mark a column as a percentage quantity.
var percentageKeywords = []string{"margin", "growth", "%", "yield", "roe", "roa"}

// Name substrings that mark a column as a currency amount. "ev (" catches
// enterprise-value columns like "EV ($M)" without re-matching "ev/" names
// already consumed by the ratio check.
var currencyKeywords = []string{"$", "price", "cap", "revenue", "fcf", "ebitda", "ev ("}

// Scale-detection thresholds on the median absolute sample value.
const (
	// percentDecimalCutoff splits fraction-scaled percentages (0.15 = 15%)
	// from whole-point ones. Sits above 1 so mild over-100% growth values
	// like 1.3 still classify as fractions.
	percentDecimalCutoff = 2
	// currencyMillionsCutoff splits values already quoted in millions from
	// raw base-unit amounts.
	currencyMillionsCutoff = 10000
)

// Classify infers the display format of a column from its name and a sample
// of its non-empty values. It is deterministic, never fails, and is cheap
// enough to recompute on every new row-set snapshot.
//
// The checks run in strict priority order; the first family whose name
// keywords match wins, and the sample median only chooses the scale variant
// within that family.
func Classify(columnName string, samples []Value) FormatTag {
	name := strings.ToLower(columnName)

	if containsAny(name, ratioKeywords) {
		return FormatDecimal
	}

	if containsAny(name, percentageKeywords) {
		med, ok := medianAbs(samples)
		if !ok {
			// No numeric samples to judge scale; assume percentage points.
			return FormatPercentage
		}
		if med < percentDecimalCutoff {
			return FormatPercentageDecimal
		}
		return FormatPercentage
	}

	if containsAny(name, currencyKeywords) {
		med, ok := medianAbs(samples)
		if ok && med < currencyMillionsCutoff {
			return FormatCurrencyMillions
		}
		return FormatCurrency
	}

	if mostlyNumeric(samples) {
		return FormatNumber
	}
	return FormatText
}

// containsAny reports whether s contains any of the keywords.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// medianAbs returns the median of absolute values across the coercible
// samples. ok is false when no sample coerces to a number.
func medianAbs(samples []Value) (float64, bool) {
	nums := make([]float64, 0, len(samples))
	for _, v := range samples {
		if f, ok := v.Float(); ok {
			nums = append(nums, math.Abs(f))
		}
	}
	if len(nums) == 0 {
		return 0, false
	}
	sort.Float64s(nums)
	n := len(nums)
	if n%2 == 0 {
		return (nums[n/2-1] + nums[n/2]) / 2, true
	}
	return nums[n/2], true
}

// mostlyNumeric reports whether more than half of the non-empty samples are
// natively numeric. Numeric-looking strings intentionally do not count here;
// a column of ticker-like strings that happen to parse stays text.
func mostlyNumeric(samples []Value) bool {
	nonEmpty := 0
	numeric := 0
	for _, v := range samples {
		if v.IsNull() {
			continue
		}
		nonEmpty++
		if v.IsNumber() {
			numeric++
		}
	}
	if nonEmpty == 0 {
		return false
	}
	return numeric*2 > nonEmpty
}

// ClassifyColumns classifies every listed column from the rows' non-empty
// values. All columns share the same row-set snapshot, so downstream
// filtering and rendering see one consistent format map.
func ClassifyColumns(rows []Row, columns []string) map[string]FormatTag {
	formats := make(map[string]FormatTag, len(columns))
	for _, col := range columns {
		var samples []Value
		for _, row := range rows {
			if v := row.Get(col); !v.IsNull() {
				samples = append(samples, v)
			}
		}
		formats[col] = Classify(col, samples)
	}
	return formats
}
