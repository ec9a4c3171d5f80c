package si_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TriMagnetix/nmag-go/si"
)

func TestParse_Prefixes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		unit string
		base float64
	}{
		{"km", 1e3},
		{"cm", 1e-2},
		{"mm", 1e-3},
		{"um", 1e-6},
		{"nm", 1e-9},
		{"ms", 1e-3},
		{"ns", 1e-9},
		{"ps", 1e-12},
		{"fs", 1e-15},
		{"mT", 1e-3},
		{"kA", 1e3},
		{"GHz", 1e9},
		{"MJ", 1e6},
		{"nanosecond", 1e-9},
		{"kilometer", 1e3},
		{"millitesla", 1e-3},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.unit, func(t *testing.T) {
			t.Parallel()

			u, err := si.Unit(tc.unit)
			require.NoError(t, err)
			require.InEpsilon(t, tc.base, u.Base(), 1e-12)
		})
	}
}

// TestParse_ExactBeatsPrefix pins symbols that would also split as
// prefix+unit: the table entry must win.
func TestParse_ExactBeatsPrefix(t *testing.T) {
	t.Parallel()

	require.Equal(t, si.Tesla.Dims(), si.MustUnit("T").Dims(), "T is tesla, not tera")
	require.Equal(t, si.Kelvin.Dims(), si.MustUnit("K").Dims())
	require.Equal(t, si.Tesla.Dims(), si.MustUnit("G").Dims(), "G is gauss, not giga")
	require.Equal(t, 1e-4, si.MustUnit("G").Base())
	require.Equal(t, 60.0, si.MustUnit("min").Base())
	require.Equal(t, 3600.0, si.MustUnit("h").Base())
	require.Equal(t, si.Candela.Dims(), si.MustUnit("cd").Dims())
	require.Equal(t, si.Mole.Dims(), si.MustUnit("mol").Dims())
}

func TestParse_Grammar(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		expr  string
		same  string
		wantD si.Dims
	}{
		{"juxtaposition", "m s", "m*s", si.Dims{1, 0, 1}},
		{"caret_power", "m^2", "m**2", si.Dims{2}},
		{"negative_power", "s^-1", "1/s", si.Dims{0, 0, -1}},
		{"paren_divide", "kg/(s^2*A)", "kg/s^2/A", si.Dims{0, 1, -2, -1}},
		{"nested_parens", "(m/s)^2", "m^2/s^2", si.Dims{2, 0, -2}},
		{"chained_divide", "J/T/s", "J/(T*s)", si.Dims{2, 0, -1, 1}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			a := si.MustUnit(tc.expr)
			b := si.MustUnit(tc.same)
			require.Equal(t, tc.wantD, a.Dims())
			require.Equal(t, a.Dims(), b.Dims())
			require.Equal(t, a.Base(), b.Base())
		})
	}
}

func TestParse_Angles(t *testing.T) {
	t.Parallel()

	deg := si.MustUnit("deg")
	require.True(t, deg.IsDimensionless())
	require.InEpsilon(t, 3.141592653589793/180, deg.Base(), 1e-15)
	require.True(t, si.MustUnit("degree").Eq(deg))
	require.Equal(t, 1.0, si.MustUnit("rad").Base())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		expr string
	}{
		{"unknown_unit", "furlong"},
		{"dangling_divide", "m/"},
		{"missing_exponent", "m^x"},
		{"fractional_exponent", "m^2.5"},
		{"unclosed_paren", "(m"},
		{"stray_paren", "m)"},
		{"bad_character", "m$"},
		{"unknown_prefixed", "xm"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := si.Unit(tc.expr)
			require.ErrorIs(t, err, si.ErrBadUnit)
		})
	}

	require.Panics(t, func() { si.MustUnit("furlong") })
	require.Panics(t, func() { si.MustParse("10 furlong") })
}

func TestParse_EmptyIsDimensionless(t *testing.T) {
	t.Parallel()

	v, err := si.New(4.5, "")
	require.NoError(t, err)
	require.True(t, v.IsDimensionless())
	require.Equal(t, 4.5, v.Value())

	padded, err := si.New(1, "   ")
	require.NoError(t, err)
	require.True(t, padded.IsDimensionless())
}

func TestParse_ScientificMagnitude(t *testing.T) {
	t.Parallel()

	v, err := si.Parse("1.25663706212e-6 N/A^2")
	require.NoError(t, err)
	require.InEpsilon(t, si.Mu0.Base(), v.Base(), 1e-15)
	require.Equal(t, si.Mu0.Dims(), v.Dims())
}
