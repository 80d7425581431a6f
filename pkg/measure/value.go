// Package measure holds measurement values, their unit-aware formatting and
// the table model that presents them.
package measure

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Kind tags the variant held by a Value
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindNumbers
	KindLength
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindNumbers:
		return "numbers"
	case KindLength:
		return "length"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is one table cell: nothing, a number, a list of numbers, a length
// with its unit, or plain text. Only the field matching Kind is meaningful.
type Value struct {
	kind    Kind
	number  float64
	numbers []float64
	length  Length
	text    string
}

// Empty is the zero Value
var Empty = Value{}

// Number wraps a single number
func Number(v float64) Value {
	return Value{kind: KindNumber, number: v}
}

// Numbers wraps a list of numbers
func Numbers(vs ...float64) Value {
	return Value{kind: KindNumbers, numbers: append([]float64(nil), vs...)}
}

// LengthOf wraps a length
func LengthOf(l Length) Value {
	return Value{kind: KindLength, length: l}
}

// Text wraps a string
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind returns the variant tag
func (v Value) Kind() Kind { return v.kind }

// Float returns the numeric content of number, single-element list and
// length values
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.number, true
	case KindNumbers:
		if len(v.numbers) == 1 {
			return v.numbers[0], true
		}
	case KindLength:
		return v.length.Value, true
	}
	return 0, false
}

// Format renders the value for display under the given units
func (v Value) Format(u Units) string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.number)
	case KindNumbers:
		return formatNumbers(v.numbers)
	case KindLength:
		return formatLength(v.length, u)
	case KindText:
		return v.text
	case KindEmpty:
		return ""
	}
	return ""
}

// FormatNumber renders the shortest decimal form that reads back as v,
// always with a fractional digit: 5 → "5.0", 0.25 → "0.25". Magnitudes
// below 1e-3 or from 1e7 up switch to exponent form: 1e7 → "1.0E7",
// 0.0005 → "5.0E-4".
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if abs := math.Abs(v); abs != 0 && (abs < 1e-3 || abs >= 1e7) {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		e, _ := strconv.Atoi(exp)
		return mantissa + "E" + strconv.Itoa(e)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// formatNumbers collapses single-element lists and appends the total to
// longer ones: [2 3] → "2.0 3.0 = 5.0"
func formatNumbers(vs []float64) string {
	switch len(vs) {
	case 0:
		return ""
	case 1:
		return FormatNumber(vs[0])
	}
	parts := make([]string, len(vs))
	for i, x := range vs {
		parts[i] = FormatNumber(x)
	}
	return strings.Join(parts, " ") + " = " + FormatNumber(floats.Sum(vs))
}

// formatLength shows two decimals in pixels, or the most readable physical
// unit with its symbol. A length that cannot be converted for lack of a
// pixel size keeps its own unit.
func formatLength(l Length, u Units) string {
	if u.Physical {
		if p, ok := u.ToPhysical(l); ok {
			r := p.Readable()
			return fmt.Sprintf("%.2f %s", r.Value, r.Unit.Symbol())
		}
		return fmt.Sprintf("%.2f %s", l.Value, l.Unit.Symbol())
	}
	if px, ok := u.ToPixels(l); ok {
		return fmt.Sprintf("%.2f", px.Value)
	}
	r := l.Readable()
	return fmt.Sprintf("%.2f %s", r.Value, r.Unit.Symbol())
}
