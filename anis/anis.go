package anis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/TriMagnetix/nmag-go/si"
)

var (
	// ErrZeroAxis indicates an axis that cannot be normalised: the zero
	// vector, or cubic axes that are collinear.
	ErrZeroAxis = errors.New("anis: zero axis")

	// ErrNoFunction indicates an operation that needs an energy function
	// on an anisotropy that only carries an order.
	ErrNoFunction = errors.New("anis: anisotropy lacks an energy function")
)

// Anisotropy kinds.
const (
	KindUniaxial   = "uniaxial"
	KindCubic      = "cubic"
	KindFunctional = "functional"
)

// energyDensity is the required dimension of anisotropy constants.
var energyDensity = si.MustUnit("J/m^3")

// EnergyFunc maps a unit magnetisation direction to an energy density.
type EnergyFunc func(m Vector) si.SI

// Anisotropy pairs an energy density function with the polynomial order
// needed to represent it. Kind, axes and constants are informational;
// combined terms carry KindFunctional and drop them.
type Anisotropy struct {
	Kind                string
	Order               int
	Axis1, Axis2, Axis3 Vector
	K1, K2, K3          si.SI

	fn     EnergyFunc
	render func(*Anisotropy) string
}

// New wraps a user-supplied energy density function of the given order.
func New(fn EnergyFunc, order int) *Anisotropy {
	return &Anisotropy{Kind: KindFunctional, Order: order, fn: fn}
}

// OfOrder describes an anisotropy of known order with no energy
// function, for solvers that only need the representation order.
func OfOrder(order int) *Anisotropy {
	return &Anisotropy{Kind: KindFunctional, Order: order}
}

// HasFunction reports whether the anisotropy carries an energy function.
func (a *Anisotropy) HasFunction() bool { return a.fn != nil }

// Energy evaluates the energy density at unit magnetisation direction m.
// Returns ErrNoFunction when only the order is known.
func (a *Anisotropy) Energy(m Vector) (si.SI, error) {
	if a.fn == nil {
		return si.SI{}, ErrNoFunction
	}

	return a.fn(m), nil
}

// Neg returns the anisotropy with the energy sign flipped.
func (a *Anisotropy) Neg() (*Anisotropy, error) {
	if a.fn == nil {
		return nil, ErrNoFunction
	}
	fn := a.fn

	return New(func(m Vector) si.SI { return fn(m).Neg() }, a.Order), nil
}

// Add returns the sum of two anisotropy terms. The order is the maximum
// of the operands; both need energy functions.
func (a *Anisotropy) Add(o *Anisotropy) (*Anisotropy, error) {
	return combine(a, o, false)
}

// Sub returns the difference of two anisotropy terms.
func (a *Anisotropy) Sub(o *Anisotropy) (*Anisotropy, error) {
	return combine(a, o, true)
}

func combine(a, o *Anisotropy, negate bool) (*Anisotropy, error) {
	if a.fn == nil || o.fn == nil {
		return nil, ErrNoFunction
	}
	fa, fo := a.fn, o.fn
	fn := func(m Vector) si.SI {
		right := fo(m)
		if negate {
			right = right.Neg()
		}
		sum, err := fa(m).Add(right)
		if err != nil {
			// Both operands promised energy densities; a dimension
			// mismatch is a defect in a user-supplied function.
			panic(err)
		}

		return sum
	}

	return New(fn, max(a.Order, o.Order)), nil
}

func (a *Anisotropy) String() string {
	var b strings.Builder
	b.WriteString("<Anisotropy:")
	b.WriteString(a.Kind)
	if a.render != nil {
		b.WriteString(", ")
		b.WriteString(a.render(a))
	}
	b.WriteString(">")

	return b.String()
}

// Option supplies the optional higher-order anisotropy constants.
type Option func(*options)

type options struct {
	k2, k3       si.SI
	hasK2, hasK3 bool
}

// WithK2 sets the next-order anisotropy constant (J/m^3).
func WithK2(k si.SI) Option {
	return func(o *options) { o.k2, o.hasK2 = k, true }
}

// WithK3 sets the highest-order cubic anisotropy constant (J/m^3).
// Only cubic anisotropies accept it.
func WithK3(k si.SI) Option {
	return func(o *options) { o.k3, o.hasK3 = k, true }
}

// checkDensity validates that an anisotropy constant is an energy density.
func checkDensity(kind, name string, k si.SI) error {
	if !k.Compatible(energyDensity) {
		return fmt.Errorf("anis: %s: %s must be an energy density (J/m^3), got %s: %w",
			kind, name, k, si.ErrIncompatibleUnits)
	}

	return nil
}

// Uniaxial builds the uniaxial energy density term
//
//	E(m) = -K1*<a,m>^2 - K2*<a,m>^4
//
// where a is the normalised easy (or hard) axis. The order is 4 when a
// non-zero K2 is given, 2 otherwise.
func Uniaxial(axis Vector, k1 si.SI, opts ...Option) (*Anisotropy, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasK3 {
		return nil, errors.New("anis: uniaxial: K3 is not supported")
	}
	if err := checkDensity(KindUniaxial, "K1", k1); err != nil {
		return nil, err
	}
	if o.hasK2 {
		if err := checkDensity(KindUniaxial, "K2", o.k2); err != nil {
			return nil, err
		}
	}
	a, err := Normalize(axis)
	if err != nil {
		return nil, err
	}

	c1, c2 := k1.Base(), o.k2.Base()
	fn := func(m Vector) si.SI {
		x := dot(a, m)
		x2 := x * x

		return energyDensity.MulScalar(-c1*x2 - c2*x2*x2)
	}

	order := 2
	if c2 != 0 {
		order = 4
	}

	return &Anisotropy{
		Kind:  KindUniaxial,
		Order: order,
		Axis1: a,
		K1:    k1,
		K2:    o.k2,
		fn:    fn,
		render: func(an *Anisotropy) string {
			s := fmt.Sprintf("axis=%v, K1=%s", an.Axis1, an.K1)
			if !an.K2.IsZero() {
				s += fmt.Sprintf(", K2=%s", an.K2)
			}

			return s
		},
	}, nil
}

// Cubic builds the cubic energy density term
//
//	E(m) = K1*((a1.m)^2(a2.m)^2 + (a1.m)^2(a3.m)^2 + (a2.m)^2(a3.m)^2)
//	     + K2*((a1.m)^2(a2.m)^2(a3.m)^2)
//	     + K3*((a1.m)^4(a2.m)^4 + (a1.m)^4(a3.m)^4 + (a2.m)^4(a3.m)^4)
//
// over the orthonormal system built from axis1 and axis2: axis3 is their
// cross product, and axis2 is re-orthogonalised against axis1. The order
// is 8 with a non-zero K3, 6 with K2, 4 otherwise.
func Cubic(axis1, axis2 Vector, k1 si.SI, opts ...Option) (*Anisotropy, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkDensity(KindCubic, "K1", k1); err != nil {
		return nil, err
	}
	if o.hasK2 {
		if err := checkDensity(KindCubic, "K2", o.k2); err != nil {
			return nil, err
		}
	}
	if o.hasK3 {
		if err := checkDensity(KindCubic, "K3", o.k3); err != nil {
			return nil, err
		}
	}

	a3 := cross(axis1, axis2)
	a2 := cross(a3, axis1)
	u1, err := Normalize(axis1)
	if err != nil {
		return nil, err
	}
	u2, err := Normalize(a2)
	if err != nil {
		return nil, fmt.Errorf("axes %v and %v are collinear: %w", axis1, axis2, ErrZeroAxis)
	}
	u3, err := Normalize(a3)
	if err != nil {
		return nil, fmt.Errorf("axes %v and %v are collinear: %w", axis1, axis2, ErrZeroAxis)
	}

	c1, c2, c3 := k1.Base(), o.k2.Base(), o.k3.Base()
	fn := func(m Vector) si.SI {
		d1, d2, d3 := dot(u1, m), dot(u2, m), dot(u3, m)
		p12, p13, p23 := d1*d2, d1*d3, d2*d3

		term1 := p12*p12 + p13*p13 + p23*p23
		term2 := (d1 * d2 * d3) * (d1 * d2 * d3)
		term3 := p12*p12*p12*p12 + p13*p13*p13*p13 + p23*p23*p23*p23

		return energyDensity.MulScalar(c1*term1 + c2*term2 + c3*term3)
	}

	order := 4
	switch {
	case c3 != 0:
		order = 8
	case c2 != 0:
		order = 6
	}

	return &Anisotropy{
		Kind:  KindCubic,
		Order: order,
		Axis1: u1,
		Axis2: u2,
		Axis3: u3,
		K1:    k1,
		K2:    o.k2,
		K3:    o.k3,
		fn:    fn,
		render: func(an *Anisotropy) string {
			s := fmt.Sprintf("axis1=%v, axis2=%v, K1=%s", an.Axis1, an.Axis2, an.K1)
			if !an.K2.IsZero() {
				s += fmt.Sprintf(", K2=%s", an.K2)
			}
			if !an.K3.IsZero() {
				s += fmt.Sprintf(", K3=%s", an.K3)
			}

			return s
		},
	}, nil
}
