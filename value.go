package compscreen

import (
	"encoding/json"
	"strconv"
	"strings"
)

// valueKind discriminates the representations a cell value can take.
type valueKind int

const (
	// kindNull represents an empty or missing cell
	kindNull valueKind = iota
	// kindNumber represents a numeric cell
	kindNumber
	// kindString represents a textual cell
	kindString
)

// Value is a single cell value: a number, a string, or nothing.
// The zero value is Null. Values are immutable once constructed.
type Value struct {
	kind valueKind
	num  float64
	str  string
}

// Null returns the missing-value Value.
func Null() Value {
	return Value{kind: kindNull}
}

// Number creates a numeric Value.
func Number(f float64) Value {
	return Value{kind: kindNumber, num: f}
}

// String creates a textual Value. An empty or whitespace-only string
// becomes Null, matching how spreadsheet cells report emptiness.
func String(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{kind: kindNull}
	}
	return Value{kind: kindString, str: s}
}

// IsNull reports whether the value is empty or missing.
func (v Value) IsNull() bool {
	return v.kind == kindNull
}

// IsNumber reports whether the value is natively numeric.
func (v Value) IsNumber() bool {
	return v.kind == kindNumber
}

// Text returns the string form of the value. Null yields the empty string;
// numbers format with the minimal representation strconv provides.
func (v Value) Text() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindString:
		return v.str
	default:
		return ""
	}
}

// Float coerces the value to a number. Numeric values convert directly.
// Strings parse as-is first; if that fails, all characters other than
// digits, '.' and '-' are stripped and parsing is retried, so "$1,234.50"
// and "45.2%" still coerce. The second return is false when no numeric
// interpretation exists.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case kindNumber:
		return v.num, true
	case kindString:
		return parseLooseFloat(v.str)
	default:
		return 0, false
	}
}

// parseLooseFloat parses s as a float, stripping currency symbols,
// thousands separators and unit suffixes on the second attempt.
func parseLooseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	stripped := b.String()
	if stripped == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// MarshalJSON encodes the value as a bare JSON number, string, or null
// so persisted datasets keep their cell types across a round trip.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		return json.Marshal(v.num)
	case kindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON number, string, or null into the value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Null()
	case float64:
		*v = Number(t)
	case string:
		*v = String(t)
	case bool:
		if t {
			*v = String("true")
		} else {
			*v = String("false")
		}
	default:
		*v = String(string(data))
	}
	return nil
}

// Row maps column names to cell values. Rows are schema-less; a missing
// key and a Null value are treated identically by the engine.
type Row map[string]Value

// Get returns the value at column. Absent columns yield Null.
func (r Row) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Null()
}
