// Package material defines magnetic materials: saturation magnetisation,
// exchange coupling, damping and the derived Landau-Lifshitz-Gilbert
// coefficients a solver consumes.
//
// 🚀 What is a material here?
//
//	A Material bundles the physical parameters of one magnetic species
//	("Py", "Fe") as si quantities, validated for dimensional
//	correctness at construction. The derived coefficients (LLG
//	prefactors, spin-transfer-torque terms, exchange prefactor) are
//	computed once and carried with their units attached.
//
// ✨ Key features:
//   - defaults modelled on Permalloy: Ms = 0.86e6 A/m, alpha = 0.5,
//     A = 1.3e-11 J/m
//   - every dimensioned option is checked against its expected unit and
//     rejected with ErrBadUnits otherwise
//   - anisotropy as a predefined term or a bare energy function with an
//     explicit order
//   - DoPrecession(false) zeroes the precession coefficient, leaving
//     the damping term intact
//
// ⚙️ Usage:
//
//	py, err := material.New("Py",
//		material.WithMs(si.MustNew(0.86e6, "A/m")),
//		material.WithLLGDamping(0.02),
//	)
//
// Materials are immutable once built.
package material
