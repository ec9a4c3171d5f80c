package si

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	// ErrBadUnit indicates an unparsable or unknown unit expression.
	ErrBadUnit = errors.New("si: bad unit expression")

	// ErrIncompatibleUnits indicates an operation across quantities whose
	// base dimensions differ (add, compare, convert, float conversion).
	ErrIncompatibleUnits = errors.New("si: incompatible units")

	// ErrZeroQuantity indicates a conversion against a zero-magnitude unit.
	ErrZeroQuantity = errors.New("si: cannot express in units of a zero quantity")
)

// Dims holds the exponents over the seven SI base dimensions, in the fixed
// order metre, kilogram, second, ampere, kelvin, mole, candela.
type Dims [7]int

// Base-dimension indices into Dims.
const (
	DimLength = iota
	DimMass
	DimTime
	DimCurrent
	DimTemperature
	DimAmount
	DimLuminous
)

// IsZero reports whether every exponent is zero (a dimensionless shape).
func (d Dims) IsZero() bool { return d == Dims{} }

// add returns the elementwise sum of two exponent vectors.
func (d Dims) add(o Dims) Dims {
	var r Dims
	for i := range d {
		r[i] = d[i] + o[i]
	}

	return r
}

// sub returns the elementwise difference of two exponent vectors.
func (d Dims) sub(o Dims) Dims {
	var r Dims
	for i := range d {
		r[i] = d[i] - o[i]
	}

	return r
}

// scale returns the exponent vector multiplied by n.
func (d Dims) scale(n int) Dims {
	var r Dims
	for i := range d {
		r[i] = d[i] * n
	}

	return r
}

// term is one unit atom of the construction expression with its net
// exponent, e.g. {"m", -2} inside "A/m^2". Terms exist only for display;
// all arithmetic runs on base magnitudes and Dims.
type term struct {
	symbol string
	exp    int
}

// SI is an immutable physical quantity: a magnitude bound to SI base
// dimensions. The zero value is dimensionless zero.
type SI struct {
	base  float64 // magnitude expressed in SI base units
	scale float64 // one construction unit in base units (0 only in the zero value)
	dims  Dims
	terms []term // construction-unit expression, merged, for display
}

// New builds a quantity of v in the given unit expression.
// An empty units string yields a dimensionless value.
func New(v float64, units string) (SI, error) {
	u, err := parseUnits(units)
	if err != nil {
		return SI{}, err
	}

	return SI{base: v * u.scale, scale: u.scale, dims: u.dims, terms: u.terms}, nil
}

// MustNew is New for literals; it panics on a bad unit expression.
func MustNew(v float64, units string) SI {
	s, err := New(v, units)
	if err != nil {
		panic(err)
	}

	return s
}

// Unit returns the unit quantity (magnitude 1) of the given expression.
func Unit(units string) (SI, error) { return New(1, units) }

// MustUnit is Unit for literals; it panics on a bad unit expression.
func MustUnit(units string) SI { return MustNew(1, units) }

// Scalar returns a dimensionless quantity.
func Scalar(v float64) SI { return SI{base: v, scale: 1} }

// Value returns the magnitude in the units the quantity was constructed
// with (2.5 for "2.5 km").
func (s SI) Value() float64 {
	if s.scale == 0 {
		return s.base // zero value: dimensionless zero
	}

	return s.base / s.scale
}

// Base returns the magnitude expressed in SI base units (2500 for "2.5 km").
func (s SI) Base() float64 { return s.base }

// Dims returns the base-dimension exponents.
func (s SI) Dims() Dims { return s.dims }

// IsDimensionless reports whether all dimension exponents are zero.
func (s SI) IsDimensionless() bool { return s.dims.IsZero() }

// IsZero reports whether the magnitude is exactly zero.
func (s SI) IsZero() bool { return s.base == 0 }

// Compatible reports whether o shares the same base dimensions.
func (s SI) Compatible(o SI) bool { return s.dims == o.dims }

// effScale returns the display scale, treating the zero value as scale 1.
func (s SI) effScale() float64 {
	if s.scale == 0 {
		return 1
	}

	return s.scale
}

// Add returns s + o. The result keeps the receiver's display units.
// Returns ErrIncompatibleUnits if the dimensions differ.
func (s SI) Add(o SI) (SI, error) {
	if s.dims != o.dims {
		return SI{}, incompatible("add", s, o)
	}

	return SI{base: s.base + o.base, scale: s.effScale(), dims: s.dims, terms: s.terms}, nil
}

// Sub returns s − o. The result keeps the receiver's display units.
// Returns ErrIncompatibleUnits if the dimensions differ.
func (s SI) Sub(o SI) (SI, error) {
	if s.dims != o.dims {
		return SI{}, incompatible("sub", s, o)
	}

	return SI{base: s.base - o.base, scale: s.effScale(), dims: s.dims, terms: s.terms}, nil
}

// Mul returns s · o with combined dimensions and units.
func (s SI) Mul(o SI) SI {
	return SI{
		base:  s.base * o.base,
		scale: s.effScale() * o.effScale(),
		dims:  s.dims.add(o.dims),
		terms: mergeTerms(s.terms, o.terms, 1),
	}
}

// Div returns s / o with combined dimensions and units. Division by a zero
// magnitude follows IEEE-754 (±Inf or NaN); it is not an error.
func (s SI) Div(o SI) SI {
	return SI{
		base:  s.base / o.base,
		scale: s.effScale() / o.effScale(),
		dims:  s.dims.sub(o.dims),
		terms: mergeTerms(s.terms, o.terms, -1),
	}
}

// MulScalar returns the quantity scaled by a bare number.
func (s SI) MulScalar(f float64) SI {
	return SI{base: s.base * f, scale: s.effScale(), dims: s.dims, terms: s.terms}
}

// Neg returns the negated quantity.
func (s SI) Neg() SI { return s.MulScalar(-1) }

// Abs returns the quantity with a non-negative magnitude.
func (s SI) Abs() SI {
	return SI{base: math.Abs(s.base), scale: s.effScale(), dims: s.dims, terms: s.terms}
}

// Pow returns s raised to the integer power n.
func (s SI) Pow(n int) SI {
	nt := make([]term, len(s.terms))
	for i, t := range s.terms {
		nt[i] = term{symbol: t.symbol, exp: t.exp * n}
	}

	return SI{
		base:  math.Pow(s.base, float64(n)),
		scale: math.Pow(s.effScale(), float64(n)),
		dims:  s.dims.scale(n),
		terms: nt,
	}
}

// Float converts a dimensionless quantity to its base magnitude.
// Returns ErrIncompatibleUnits when the quantity carries dimensions.
func (s SI) Float() (float64, error) {
	if !s.IsDimensionless() {
		return 0, fmt.Errorf("convert %s to float: %w", s, ErrIncompatibleUnits)
	}

	return s.base, nil
}

// InUnitsOf expresses the quantity as a multiple of u and returns the
// resulting magnitude: the ratio of the two base magnitudes.
// Returns ErrIncompatibleUnits when dimensions differ and ErrZeroQuantity
// when u has zero magnitude.
func (s SI) InUnitsOf(u SI) (float64, error) {
	if s.dims != u.dims {
		return 0, incompatible("convert", s, u)
	}
	if u.base == 0 {
		return 0, ErrZeroQuantity
	}

	return s.base / u.base, nil
}

// Eq reports exact equality. Quantities of different dimensions are never
// equal, except that zero equals zero regardless of units.
func (s SI) Eq(o SI) bool {
	if s.dims == o.dims {
		return s.base == o.base
	}

	return s.base == 0 && o.base == 0
}

// Cmp compares base magnitudes: -1 if s < o, 0 if equal, +1 if s > o.
// Returns ErrIncompatibleUnits when the dimensions differ.
func (s SI) Cmp(o SI) (int, error) {
	if s.dims != o.dims {
		return 0, incompatible("compare", s, o)
	}
	switch {
	case s.base < o.base:
		return -1, nil
	case s.base > o.base:
		return 1, nil
	default:
		return 0, nil
	}
}

// Lt reports s < o, failing on incompatible dimensions.
func (s SI) Lt(o SI) (bool, error) {
	c, err := s.Cmp(o)

	return c < 0, err
}

// Le reports s <= o, failing on incompatible dimensions.
func (s SI) Le(o SI) (bool, error) {
	c, err := s.Cmp(o)

	return c <= 0, err
}

// Gt reports s > o, failing on incompatible dimensions.
func (s SI) Gt(o SI) (bool, error) {
	c, err := s.Cmp(o)

	return c > 0, err
}

// Ge reports s >= o, failing on incompatible dimensions.
func (s SI) Ge(o SI) (bool, error) {
	c, err := s.Cmp(o)

	return c >= 0, err
}

// String renders "value units" in the compact construction form,
// e.g. "20 m/s" or "5" for dimensionless values.
func (s SI) String() string {
	u := renderTerms(s.terms)
	if u == "" {
		return fmt.Sprintf("%g", s.Value())
	}

	return fmt.Sprintf("%g %s", s.Value(), u)
}

// DensStr renders the dense bracketed form used in data-table headers:
// "<1>" for dimensionless one, "<m>" for unit-magnitude quantities, and
// "<15.5A/m^2>" otherwise. Unit atoms are sorted case-insensitively,
// numerator atoms joined with "*" and denominator atoms appended as "/x".
func (s SI) DensStr() string {
	v := s.Value()
	if s.IsDimensionless() && v == 1 {
		return "<1>"
	}
	u := renderTerms(s.terms)
	if v == 1 && u != "" {
		return "<" + u + ">"
	}
	// The magnitude takes the place of a neutral "1" numerator.
	u = strings.TrimPrefix(u, "1")

	return fmt.Sprintf("<%g%s>", v, u)
}

// incompatible builds the standard dimensionality error for op over (a, b).
func incompatible(op string, a, b SI) error {
	return fmt.Errorf("%s %q and %q: %w", op, renderDims(a), renderDims(b), ErrIncompatibleUnits)
}

// renderDims names a quantity's units for error messages: the construction
// expression when present, the raw exponent vector otherwise.
func renderDims(s SI) string {
	if u := renderTerms(s.terms); u != "" {
		return u
	}
	if s.dims.IsZero() {
		return "1"
	}

	return fmt.Sprintf("dims%v", [7]int(s.dims))
}

// mergeTerms combines two display expressions, multiplying sign = +1 or
// dividing sign = -1, collapsing repeated symbols and dropping zeroed ones.
func mergeTerms(a, b []term, sign int) []term {
	out := make([]term, 0, len(a)+len(b))
	out = append(out, a...)
	for _, t := range b {
		merged := false
		for i := range out {
			if out[i].symbol == t.symbol {
				out[i].exp += sign * t.exp
				merged = true

				break
			}
		}
		if !merged {
			out = append(out, term{symbol: t.symbol, exp: sign * t.exp})
		}
	}
	// Drop cancelled atoms.
	kept := out[:0]
	for _, t := range out {
		if t.exp != 0 {
			kept = append(kept, t)
		}
	}

	return kept
}

// renderTerms formats a merged term list: positive exponents first joined
// with "*", then one "/atom" per negative exponent, both groups sorted
// case-insensitively. A pure denominator gets the "1/..." prefix.
func renderTerms(terms []term) string {
	if len(terms) == 0 {
		return ""
	}
	var num, den []term
	for _, t := range terms {
		if t.exp > 0 {
			num = append(num, t)
		} else {
			den = append(den, term{symbol: t.symbol, exp: -t.exp})
		}
	}
	ciLess := func(ts []term) func(i, j int) bool {
		return func(i, j int) bool {
			a, b := strings.ToLower(ts[i].symbol), strings.ToLower(ts[j].symbol)
			if a == b {
				return ts[i].symbol < ts[j].symbol
			}

			return a < b
		}
	}
	sort.SliceStable(num, ciLess(num))
	sort.SliceStable(den, ciLess(den))

	var b strings.Builder
	if len(num) == 0 {
		b.WriteString("1")
	}
	for i, t := range num {
		if i > 0 {
			b.WriteString("*")
		}
		b.WriteString(atom(t))
	}
	for _, t := range den {
		b.WriteString("/")
		b.WriteString(atom(t))
	}

	return b.String()
}

// atom renders one unit symbol with its exponent ("m", "m^2").
func atom(t term) string {
	if t.exp == 1 {
		return t.symbol
	}

	return fmt.Sprintf("%s^%d", t.symbol, t.exp)
}
