package si

// Canonical unit quantities (magnitude 1) for building derived values
// without going through the string parser.
var (
	Meter    = MustUnit("m")
	Metre    = Meter
	Kilogram = MustUnit("kg")
	Second   = MustUnit("s")
	Ampere   = MustUnit("A")
	Kelvin   = MustUnit("K")
	Mole     = MustUnit("mol")
	Candela  = MustUnit("cd")

	Joule   = MustUnit("J")
	Newton  = MustUnit("N")
	Watt    = MustUnit("W")
	Tesla   = MustUnit("T")
	Gauss   = MustUnit("G")
	Oersted = MustUnit("Oe")
	Degree  = MustUnit("deg")
	Radian  = MustUnit("rad")
)

// Physical constants, CODATA 2018 exact or recommended values.
var (
	// Mu0 is the vacuum magnetic permeability, N/A^2.
	Mu0 = MustNew(1.25663706212e-6, "N/A^2")

	// BohrMagneton is the magnetic moment of an electron spin, J/T.
	BohrMagneton = MustNew(9.2740100783e-24, "J/T")

	// PositronCharge is the elementary charge, C.
	PositronCharge = MustNew(1.602176634e-19, "C")

	// ElectronCharge is the (negative) charge of the electron, C.
	ElectronCharge = PositronCharge.Neg()

	// BoltzmannConstant relates temperature to energy, J/K.
	BoltzmannConstant = MustNew(1.380649e-23, "J/K")

	// PlanckConstant is the quantum of action, J*s.
	PlanckConstant = MustNew(6.62607015e-34, "J*s")

	// ReducedPlanckConstant is PlanckConstant over 2*pi, J*s.
	ReducedPlanckConstant = MustNew(1.054571817e-34, "J*s")

	// ElectronGyromagneticRatio relates electron spin precession frequency
	// to magnetic flux density, 1/(T*s).
	ElectronGyromagneticRatio = MustNew(1.76085963023e11, "1/T/s")

	// Gamma0 is the LLG gyromagnetic prefactor -gamma_e * mu0, about
	// -2.2128e5 m/(A*s). Magnetisation dynamics code multiplies it by the
	// effective field in A/m to get a precession rate in rad/s.
	Gamma0 = ElectronGyromagneticRatio.Mul(Mu0).Neg()

	// DegreesPerNs is the reference precession rate used by relaxation
	// convergence checks: one degree per nanosecond.
	DegreesPerNs = MustNew(1, "deg/ns")
)
