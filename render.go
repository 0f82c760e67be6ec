package compscreen

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Placeholder strings for cells the numeric renderers cannot format.
const (
	emptyCellMarker = "-"
	naCellMarker    = "N/A"
)

// Render formats a cell value for display under the column's format tag.
// Empty cells render as "-", Excel #N/A error markers as "N/A", and cells
// that refuse numeric coercion under a numeric tag fall back to their raw
// string form. Render never fails.
func Render(v Value, tag FormatTag) string {
	if v.IsNull() {
		return emptyCellMarker
	}
	text := v.Text()
	if strings.Contains(text, "#N/A") {
		return naCellMarker
	}
	if tag == FormatText {
		return text
	}

	f, ok := v.Float()
	if !ok {
		return text
	}

	switch tag {
	case FormatPercentageDecimal:
		return humanize.FormatFloat("#,###.#", f*100) + "%"
	case FormatPercentage:
		return humanize.FormatFloat("#,###.#", f) + "%"
	case FormatCurrencyMillions:
		return renderCurrencyMillions(f)
	case FormatCurrency:
		return renderCurrency(f)
	case FormatDecimal:
		return humanize.FormatFloat("#,###.#", f) + "x"
	default:
		return humanize.FormatFloat("#,###.", f)
	}
}

// renderCurrencyMillions formats an amount already quoted in millions,
// promoting to billions at 1000M.
func renderCurrencyMillions(f float64) string {
	if math.Abs(f) >= 1000 {
		return "$" + humanize.FormatFloat("#,###.#", f/1000) + "B"
	}
	return "$" + humanize.FormatFloat("#,###.#", f) + "M"
}

// renderCurrency formats a base-unit amount, scaling by powers of 1000 to
// a k/M/B suffix by magnitude. Sub-1000 amounts show two decimals.
func renderCurrency(f float64) string {
	abs := math.Abs(f)
	switch {
	case abs >= 1e9:
		return "$" + humanize.FormatFloat("#,###.#", f/1e9) + "B"
	case abs >= 1e6:
		return "$" + humanize.FormatFloat("#,###.#", f/1e6) + "M"
	case abs >= 1e3:
		return "$" + humanize.FormatFloat("#,###.#", f/1e3) + "k"
	default:
		return "$" + humanize.FormatFloat("#,###.##", f)
	}
}
