package material

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TriMagnetix/nmag-go/anis"
	"github.com/TriMagnetix/nmag-go/si"
)

var (
	// ErrBadUnits indicates a dimensioned parameter with the wrong units.
	ErrBadUnits = errors.New("material: bad units")

	// ErrNegativeExchange indicates an unphysical exchange coupling.
	ErrNegativeExchange = errors.New("material: exchange coupling must be positive")

	// ErrAnisotropySpec indicates conflicting or incomplete anisotropy
	// arguments.
	ErrAnisotropySpec = errors.New("material: bad anisotropy specification")
)

// Material is one magnetic species with its physical parameters and the
// derived solver coefficients.
type Material struct {
	Name string

	// Physical parameters.
	Ms                 si.SI   // saturation magnetisation, A/m
	LLGDamping         float64 // Gilbert damping alpha, dimensionless
	LLGGammaG          si.SI   // gyromagnetic ratio, m/(A*s)
	LLGNormalisation   si.SI   // norm-correction coefficient, 1/s
	LLGXi              float64 // STT ratio tau_ex/tau_sf, dimensionless
	LLGPolarisation    float64 // spin-current polarisation, dimensionless
	DoPrecession       bool
	ExchangeCoupling   si.SI // exchange constant A, J/m
	Anisotropy         *anis.Anisotropy
	AnisotropyOrder    int
	Properties         []string
	ScaleVolumeCharges float64

	// Derived coefficients, units attached.
	ThermalFactor   si.SI
	LLGCoeff1       si.SI // precession prefactor
	LLGCoeff2       si.SI // damping prefactor
	STTPrefactor    float64
	STTAdiabatic    si.SI
	STTNonAdiabatic si.SI
	ExchPrefactor   si.SI // -2A/(mu0*Ms)
}

// Option overrides one material parameter.
type Option func(*config)

type config struct {
	ms              si.SI
	damping         float64
	gammaG          si.SI
	normalisation   si.SI
	xi              float64
	polarisation    float64
	doPrecession    bool
	exchange        si.SI
	anisotropy      *anis.Anisotropy
	anisotropyFunc  anis.EnergyFunc
	anisotropyOrder int
	hasAnisoOrder   bool
	properties      []string
	scaleVolCharges float64
	log             *slog.Logger
}

// WithMs sets the saturation magnetisation (A/m).
func WithMs(v si.SI) Option { return func(c *config) { c.ms = v } }

// WithLLGDamping sets the dimensionless Gilbert damping alpha.
func WithLLGDamping(v float64) Option { return func(c *config) { c.damping = v } }

// WithLLGGammaG sets the gyromagnetic ratio (m/(A*s)).
func WithLLGGammaG(v si.SI) Option { return func(c *config) { c.gammaG = v } }

// WithLLGNormalisation sets the magnetisation norm-correction
// coefficient (1/s).
func WithLLGNormalisation(v si.SI) Option { return func(c *config) { c.normalisation = v } }

// WithLLGXi sets the spin-transfer-torque ratio xi.
func WithLLGXi(v float64) Option { return func(c *config) { c.xi = v } }

// WithLLGPolarisation sets the spin-current polarisation.
func WithLLGPolarisation(v float64) Option { return func(c *config) { c.polarisation = v } }

// WithDoPrecession switches the precession term of the LLG equation.
func WithDoPrecession(v bool) Option { return func(c *config) { c.doPrecession = v } }

// WithExchangeCoupling sets the exchange constant A (J/m).
func WithExchangeCoupling(v si.SI) Option { return func(c *config) { c.exchange = v } }

// WithAnisotropy sets a predefined anisotropy term; its order is used.
func WithAnisotropy(a *anis.Anisotropy) Option { return func(c *config) { c.anisotropy = a } }

// WithAnisotropyFunc sets a bare anisotropy energy function; it must be
// paired with WithAnisotropyOrder.
func WithAnisotropyFunc(f anis.EnergyFunc) Option { return func(c *config) { c.anisotropyFunc = f } }

// WithAnisotropyOrder sets the polynomial order of a bare anisotropy
// function. It conflicts with WithAnisotropy.
func WithAnisotropyOrder(order int) Option {
	return func(c *config) { c.anisotropyOrder, c.hasAnisoOrder = order, true }
}

// WithProperties replaces the property tags attached to the material.
func WithProperties(props ...string) Option { return func(c *config) { c.properties = props } }

// WithScaleVolumeCharges sets the volume-charge debugging scale.
func WithScaleVolumeCharges(v float64) Option { return func(c *config) { c.scaleVolCharges = v } }

// WithLogger routes construction messages to l.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.log = l } }

// Expected dimensions of the dimensioned parameters.
var (
	unitMs            = si.MustUnit("A/m")
	unitGammaG        = si.MustUnit("m/A/s")
	unitNormalisation = si.MustUnit("1/s")
	unitExchange      = si.MustUnit("J/m")
)

// checkUnits validates one dimensioned parameter against its expected
// unit, naming both in the error.
func checkUnits(name, param string, v, expected si.SI) error {
	if !v.Compatible(expected) {
		return fmt.Errorf(
			"the argument %q for material %q requires units compatible with %s, got %q: %w",
			param, name, expected.DensStr(), v.String(), ErrBadUnits)
	}

	return nil
}

// New builds a material from Permalloy-like defaults plus overrides.
func New(name string, opts ...Option) (*Material, error) {
	c := config{
		ms:              si.MustNew(0.86e6, "A/m"),
		damping:         0.5,
		gammaG:          si.MustNew(2.210173e5, "m/A/s"),
		normalisation:   si.MustNew(0.1e12, "1/s"),
		doPrecession:    true,
		exchange:        si.MustNew(1.3e-11, "J/m"),
		properties:      []string{"magnetic", "material"},
		scaleVolCharges: 1.0,
		log:             slog.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}

	for _, check := range []struct {
		param    string
		value    si.SI
		expected si.SI
	}{
		{"Ms", c.ms, unitMs},
		{"llg_gamma_G", c.gammaG, unitGammaG},
		{"llg_normalisationfactor", c.normalisation, unitNormalisation},
		{"exchange_coupling", c.exchange, unitExchange},
	} {
		if err := checkUnits(name, check.param, check.value, check.expected); err != nil {
			return nil, err
		}
	}

	if c.exchange.Base() < 0 {
		return nil, fmt.Errorf("material %q specified %s: %w",
			name, c.exchange, ErrNegativeExchange)
	}

	m := &Material{
		Name:               name,
		Ms:                 c.ms,
		LLGDamping:         c.damping,
		LLGGammaG:          c.gammaG,
		LLGNormalisation:   c.normalisation,
		LLGXi:              c.xi,
		LLGPolarisation:    c.polarisation,
		DoPrecession:       c.doPrecession,
		ExchangeCoupling:   c.exchange,
		Properties:         c.properties,
		ScaleVolumeCharges: c.scaleVolCharges,
	}

	if err := m.resolveAnisotropy(&c); err != nil {
		return nil, err
	}
	m.derive(&c)

	c.log.Info("created new material", "material", name, "Ms", c.ms.String())

	return m, nil
}

// resolveAnisotropy applies the predefined-vs-functional rules.
func (m *Material) resolveAnisotropy(c *config) error {
	switch {
	case c.anisotropy != nil:
		if c.hasAnisoOrder {
			return fmt.Errorf(
				"cannot specify an anisotropy order together with a predefined anisotropy: %w",
				ErrAnisotropySpec)
		}
		if c.anisotropyFunc != nil {
			return fmt.Errorf(
				"cannot combine a predefined anisotropy with a bare energy function: %w",
				ErrAnisotropySpec)
		}
		m.Anisotropy = c.anisotropy
		m.AnisotropyOrder = c.anisotropy.Order
	case c.anisotropyFunc != nil:
		if !c.hasAnisoOrder {
			return fmt.Errorf(
				"must specify an anisotropy order for a bare energy function: %w",
				ErrAnisotropySpec)
		}
		m.Anisotropy = anis.New(c.anisotropyFunc, c.anisotropyOrder)
		m.AnisotropyOrder = c.anisotropyOrder
	case c.hasAnisoOrder:
		m.Anisotropy = anis.OfOrder(c.anisotropyOrder)
		m.AnisotropyOrder = c.anisotropyOrder
	}

	return nil
}

// derive computes the solver coefficients from the physical parameters.
func (m *Material) derive(c *config) {
	alpha := m.LLGDamping

	num := si.BoltzmannConstant.MulScalar(2 * alpha)
	den := si.Gamma0.Neg().Mul(si.Mu0).Mul(m.Ms)
	m.ThermalFactor = num.Div(den)

	gilbertToLL := 1.0 / (1.0 + alpha*alpha)
	m.LLGCoeff1 = m.LLGGammaG.MulScalar(-gilbertToLL)
	m.LLGCoeff2 = m.LLGCoeff1.MulScalar(alpha)

	sttF := si.BohrMagneton.MulScalar(m.LLGPolarisation).
		Div(si.PositronCharge.Mul(m.Ms).MulScalar(1 + m.LLGXi*m.LLGXi)).
		MulScalar(-gilbertToLL)
	if sttF.IsZero() {
		m.STTPrefactor = 0.0
	} else {
		m.STTPrefactor = 1.0
	}
	m.STTNonAdiabatic = sttF.MulScalar(m.LLGXi - alpha)
	m.STTAdiabatic = sttF.MulScalar(1 + alpha*m.LLGXi)

	if !m.DoPrecession {
		c.log.Info("setting llg_coeff1 to zero, no precession", "material", m.Name)
		m.LLGCoeff1 = m.LLGCoeff1.MulScalar(0)
	}

	m.ExchPrefactor = m.ExchangeCoupling.MulScalar(-2).Div(si.Mu0.Mul(m.Ms))
}

// String renders the material's physical parameters, one per line.
func (m *Material) String() string {
	return m.render(false)
}

// Detailed renders the physical parameters plus every derived
// coefficient.
func (m *Material) Detailed() string {
	return m.render(true)
}

func (m *Material) render(extended bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Material '%s'\n", m.Name)

	write := func(attr string, value any) {
		fmt.Fprintf(&b, " %25s = %v\n", attr, value)
	}
	write("name", m.Name)
	write("Ms", m.Ms)
	write("exchange_coupling", m.ExchangeCoupling)
	write("anisotropy", m.Anisotropy)
	write("anisotropy_order", m.AnisotropyOrder)
	write("llg_gamma_G", m.LLGGammaG)
	write("llg_damping", m.LLGDamping)
	write("llg_normalisationfactor", m.LLGNormalisation)
	write("do_precession", m.DoPrecession)
	write("llg_polarisation", m.LLGPolarisation)
	write("llg_xi", m.LLGXi)
	write("thermal_factor", m.ThermalFactor)
	if extended {
		write("llg_coeff1", m.LLGCoeff1)
		write("llg_coeff2", m.LLGCoeff2)
		write("exch_prefactor", m.ExchPrefactor)
		write("stt_prefactor", m.STTPrefactor)
		write("stt_adiabatic", m.STTAdiabatic)
		write("stt_nonadiabatic", m.STTNonAdiabatic)
		write("properties", m.Properties)
		write("scale_volume_charges", m.ScaleVolumeCharges)
	}

	return b.String()
}
