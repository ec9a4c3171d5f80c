// Package si implements physical quantities carrying SI units: a small
// value type pairing a float64 magnitude with base-dimension exponents,
// plus parsing for compact unit expressions.
//
// 🚀 What is a quantity here?
//
//	An SI value remembers three things: the magnitude as constructed
//	(2.5 for "2.5 km"), the factor to SI base units (1000), and the
//	exponents over the seven base dimensions (m, kg, s, A, K, mol, cd).
//	Arithmetic tracks dimensions; incompatible additions and comparisons
//	fail instead of silently mixing metres with seconds.
//
// ✨ Key features:
//   - unit grammar with products, quotients, parentheses and integer
//     exponents: "A/m^2", "kg * m**2 / s**2", "J/(K)", "1/s"
//   - SI prefixes (f..T) on base and derived units: "km/h", "mT", "ns"
//   - DensStr rendering for data-table headers: <1>, <m>, <15.5A/m^2>
//   - InUnitsOf conversion by base-magnitude ratio: 20 m/s → 72 km/h
//   - CODATA physical constants (Mu0, BohrMagneton, Gamma0, ...)
//
// ⚙️ Usage:
//
//	Ms, err := si.New(0.86e6, "A/m")
//	t := si.MustNew(5, "ps")
//	ratio, err := t.InUnitsOf(si.MustNew(1, "ns")) // 0.005
//
// Quantities are immutable values; all operations return new values.
// The zero SI is dimensionless zero and safe to use.
package si
