package anis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TriMagnetix/nmag-go/anis"
	"github.com/TriMagnetix/nmag-go/si"
)

var density = si.MustUnit("J/m^3")

// densityAt evaluates the energy in J/m^3 for fixture comparisons.
func densityAt(t *testing.T, a *anis.Anisotropy, m anis.Vector) float64 {
	t.Helper()

	e, err := a.Energy(m)
	require.NoError(t, err)
	v, err := e.InUnitsOf(density)
	require.NoError(t, err)

	return v
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	v, err := anis.Normalize(anis.Vector{1, 2, 3})
	require.NoError(t, err)

	n := math.Sqrt(14)
	require.InDelta(t, 1.0, math.Sqrt(v[0]*v[0]+v[1]*v[1]+v[2]*v[2]), 1e-12)
	require.InDelta(t, 1/n, v[0], 1e-12)
	require.InDelta(t, 2/n, v[1], 1e-12)
	require.InDelta(t, 3/n, v[2], 1e-12)

	_, err = anis.Normalize(anis.Vector{})
	require.ErrorIs(t, err, anis.ErrZeroAxis)
}

func TestNew_Functional(t *testing.T) {
	t.Parallel()

	withFn := anis.New(func(anis.Vector) si.SI { return si.Scalar(0) }, 2)
	require.True(t, withFn.HasFunction())
	require.Equal(t, 2, withFn.Order)
	require.Equal(t, anis.KindFunctional, withFn.Kind)

	orderOnly := anis.OfOrder(4)
	require.False(t, orderOnly.HasFunction())
	require.Equal(t, 4, orderOnly.Order)

	_, err := orderOnly.Energy(anis.Vector{0, 0, 1})
	require.ErrorIs(t, err, anis.ErrNoFunction)
}

func TestString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "<Anisotropy:functional>", anis.OfOrder(2).String())

	k1 := si.MustNew(100, "J/m^3")
	uni, err := anis.Uniaxial(anis.Vector{0, 0, 1}, k1)
	require.NoError(t, err)
	require.Equal(t, "<Anisotropy:uniaxial, axis=[0 0 1], K1=100 J/m^3>", uni.String())

	uni2, err := anis.Uniaxial(anis.Vector{0, 0, 1}, k1, anis.WithK2(si.MustNew(10, "J/m^3")))
	require.NoError(t, err)
	require.Equal(t, "<Anisotropy:uniaxial, axis=[0 0 1], K1=100 J/m^3, K2=10 J/m^3>", uni2.String())
}

func TestCombinators(t *testing.T) {
	t.Parallel()

	e1 := func(m anis.Vector) si.SI {
		return density.MulScalar(m[0]*m[0] + m[1]*m[1] + m[2]*m[2])
	}
	e2 := func(m anis.Vector) si.SI {
		return density.MulScalar(2 * (m[0]*m[0] + m[1]*m[1] + m[2]*m[2]))
	}
	a1 := anis.New(e1, 2)
	a2 := anis.New(e2, 4)
	m := anis.Vector{0.5, 0.5, 0.5}
	mm := 0.75 // |m|^2

	neg, err := a1.Neg()
	require.NoError(t, err)
	require.Equal(t, a1.Order, neg.Order)
	require.InDelta(t, -mm, densityAt(t, neg, m), 1e-12)

	sum, err := a1.Add(a2)
	require.NoError(t, err)
	require.Equal(t, 4, sum.Order)
	require.InDelta(t, 3*mm, densityAt(t, sum, m), 1e-12)

	diff, err := a2.Sub(a1)
	require.NoError(t, err)
	require.Equal(t, 4, diff.Order)
	require.InDelta(t, mm, densityAt(t, diff, m), 1e-12)

	orderOnly := anis.OfOrder(2)
	_, err = a1.Add(orderOnly)
	require.ErrorIs(t, err, anis.ErrNoFunction)
	_, err = orderOnly.Sub(a1)
	require.ErrorIs(t, err, anis.ErrNoFunction)
	_, err = orderOnly.Neg()
	require.ErrorIs(t, err, anis.ErrNoFunction)
}

func TestUniaxial(t *testing.T) {
	t.Parallel()

	axis := anis.Vector{0, 0, 1}
	k1 := si.MustNew(100, "J/m^3")
	k2 := si.MustNew(10, "J/m^3")

	a, err := anis.Uniaxial(axis, k1, anis.WithK2(k2))
	require.NoError(t, err)
	require.Equal(t, anis.KindUniaxial, a.Kind)
	require.Equal(t, 4, a.Order)
	require.True(t, a.K1.Eq(k1))
	require.True(t, a.K2.Eq(k2))
	require.Equal(t, axis, a.Axis1)

	// Parallel magnetisation sees the full well, perpendicular none.
	require.InDelta(t, -110.0, densityAt(t, a, anis.Vector{0, 0, 1}), 1e-12)
	require.InDelta(t, 0.0, densityAt(t, a, anis.Vector{1, 0, 0}), 1e-12)

	k1Only, err := anis.Uniaxial(axis, k1)
	require.NoError(t, err)
	require.Equal(t, 2, k1Only.Order)
	require.True(t, k1Only.K2.IsZero())
	require.InDelta(t, -100.0, densityAt(t, k1Only, anis.Vector{0, 0, 1}), 1e-12)

	scaled, err := anis.Uniaxial(anis.Vector{0, 5, 0}, k1)
	require.NoError(t, err)
	require.Equal(t, anis.Vector{0, 1, 0}, scaled.Axis1)
}

func TestUniaxial_Validation(t *testing.T) {
	t.Parallel()

	k1 := si.MustNew(100, "J/m^3")

	_, err := anis.Uniaxial(anis.Vector{}, k1)
	require.ErrorIs(t, err, anis.ErrZeroAxis)

	_, err = anis.Uniaxial(anis.Vector{0, 0, 1}, si.MustNew(100, "J"))
	require.ErrorIs(t, err, si.ErrIncompatibleUnits)

	_, err = anis.Uniaxial(anis.Vector{0, 0, 1}, k1, anis.WithK2(si.MustNew(1, "T")))
	require.ErrorIs(t, err, si.ErrIncompatibleUnits)

	_, err = anis.Uniaxial(anis.Vector{0, 0, 1}, k1, anis.WithK3(k1))
	require.Error(t, err, "uniaxial terms stop at K2")

	// Constants may arrive in any compatible unit.
	kilo, err := anis.Uniaxial(anis.Vector{0, 0, 1}, si.MustNew(0.1, "kJ/m^3"))
	require.NoError(t, err)
	require.InDelta(t, -100.0, densityAt(t, kilo, anis.Vector{0, 0, 1}), 1e-12)
}

func TestCubic(t *testing.T) {
	t.Parallel()

	ax1, ax2 := anis.Vector{1, 0, 0}, anis.Vector{0, 1, 0}
	k1 := si.MustNew(100, "J/m^3")
	k2 := si.MustNew(10, "J/m^3")
	k3 := si.MustNew(1, "J/m^3")

	a, err := anis.Cubic(ax1, ax2, k1, anis.WithK2(k2), anis.WithK3(k3))
	require.NoError(t, err)
	require.Equal(t, anis.KindCubic, a.Kind)
	require.Equal(t, 8, a.Order)
	require.Equal(t, anis.Vector{1, 0, 0}, a.Axis1)
	require.Equal(t, anis.Vector{0, 1, 0}, a.Axis2)
	require.Equal(t, anis.Vector{0, 0, 1}, a.Axis3)

	// Along a primary axis the cubic energy vanishes.
	require.InDelta(t, 0.0, densityAt(t, a, anis.Vector{0, 1, 0}), 1e-12)

	// Face diagonal [110]: E = K1/4 + K3/16.
	faceDiag, err := anis.Normalize(anis.Vector{1, 1, 0})
	require.NoError(t, err)
	require.InDelta(t, 100.0/4+1.0/16, densityAt(t, a, faceDiag), 1e-9)

	// Space diagonal [111]: E = K1/3 + K2/27 + K3/27.
	spaceDiag, err := anis.Normalize(anis.Vector{1, 1, 1})
	require.NoError(t, err)
	require.InDelta(t, 100.0/3+10.0/27+1.0/27, densityAt(t, a, spaceDiag), 1e-9)

	sixth, err := anis.Cubic(ax1, ax2, k1, anis.WithK2(k2))
	require.NoError(t, err)
	require.Equal(t, 6, sixth.Order)

	fourth, err := anis.Cubic(ax1, ax2, k1)
	require.NoError(t, err)
	require.Equal(t, 4, fourth.Order)
}

func TestCubic_Orthonormalises(t *testing.T) {
	t.Parallel()

	k1 := si.MustNew(100, "J/m^3")
	a, err := anis.Cubic(anis.Vector{1, 1, 0}, anis.Vector{0, 1, 1}, k1)
	require.NoError(t, err)

	dot := func(x, y anis.Vector) float64 {
		return x[0]*y[0] + x[1]*y[1] + x[2]*y[2]
	}
	require.InDelta(t, 0.0, dot(a.Axis1, a.Axis2), 1e-12)
	require.InDelta(t, 0.0, dot(a.Axis1, a.Axis3), 1e-12)
	require.InDelta(t, 0.0, dot(a.Axis2, a.Axis3), 1e-12)
	for _, ax := range []anis.Vector{a.Axis1, a.Axis2, a.Axis3} {
		require.InDelta(t, 1.0, dot(ax, ax), 1e-12)
	}
}

func TestCubic_CollinearAxes(t *testing.T) {
	t.Parallel()

	k1 := si.MustNew(100, "J/m^3")
	_, err := anis.Cubic(anis.Vector{1, 0, 0}, anis.Vector{2, 0, 0}, k1)
	require.ErrorIs(t, err, anis.ErrZeroAxis)
}
