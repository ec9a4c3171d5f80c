// Package anis defines magnetic anisotropy energy terms: uniaxial and
// cubic crystal anisotropies, plus user-supplied functional ones.
//
// 🚀 What is an anisotropy here?
//
//	An Anisotropy pairs an energy density function E(m) over the unit
//	magnetisation direction with the polynomial order a solver needs to
//	represent it. Factories normalise the crystal axes and derive the
//	order from which constants are present.
//
// ✨ Key features:
//   - Uniaxial(axis, K1): E = -K1*<a,m>^2 - K2*<a,m>^4
//   - Cubic(axis1, axis2, K1): the three-term cubic expansion up to K3,
//     with axis2 re-orthogonalised against axis1
//   - anisotropy constants are si quantities validated as J/m^3
//   - terms combine with Add, Sub and Neg; the order is the maximum of
//     the operands
//
// ⚙️ Usage:
//
//	easy, err := anis.Uniaxial(anis.Vector{0, 0, 1}, si.MustNew(4.2e5, "J/m^3"))
//	e, err := easy.Energy(anis.Vector{0, 0, 1}) // -4.2e5 J/m^3
//
// Anisotropy values are immutable once built.
package anis
