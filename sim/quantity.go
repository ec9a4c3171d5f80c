package sim

import "github.com/TriMagnetix/nmag-go/si"

// Quantity types, as they appear in the observable schema.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeField  = "field"
	TypePField = "pfield" // per-material field
	TypeDate   = "date"
)

// Quantity describes one observable a run can save: its name, type,
// units and signature (the column-name pattern, with '?' standing for a
// material name). A component column derived from a vector or
// per-material observable keeps a pointer to its parent.
type Quantity struct {
	Name      string
	Type      string
	Units     *si.SI // nil for unitless observables
	Signature string
	Context   string
	Parent    *Quantity
}

// Sig returns the signature, defaulting to the name.
func (q Quantity) Sig() string {
	if q.Signature == "" {
		return q.Name
	}

	return q.Signature
}

// SubQuantity derives a component quantity: same type, units, signature
// and context under a new name, linked back to q.
func (q Quantity) SubQuantity(name string) Quantity {
	parent := q

	return Quantity{
		Name:      name,
		Type:      q.Type,
		Units:     q.Units,
		Signature: q.Sig(),
		Context:   q.Context,
		Parent:    &parent,
	}
}

// KnownQuantities returns the master schema: the clock columns first,
// then the field observables in their canonical order.
func KnownQuantities() []Quantity {
	one := si.Scalar(1)
	sec := si.MustUnit("s")
	fieldAm := si.MustUnit("A/m")
	joule := si.MustUnit("J")
	chargeDens := si.MustUnit("A/m^2")
	ampere := si.MustUnit("A")

	return []Quantity{
		{Name: "id", Type: TypeInt, Units: &one},
		{Name: "step", Type: TypeInt, Units: &one},
		{Name: "stage_step", Type: TypeInt, Units: &one},
		{Name: "stage", Type: TypeInt, Units: &one},
		{Name: "time", Type: TypeFloat, Units: &sec},
		{Name: "stage_time", Type: TypeFloat, Units: &sec},
		{Name: "real_time", Type: TypeFloat, Units: &sec},
		{Name: "unixtime", Type: TypeFloat, Units: &sec},
		{Name: "localtime", Type: TypeDate},

		{Name: "m", Type: TypePField, Units: &one, Signature: "m_?"},
		{Name: "M", Type: TypePField, Units: &fieldAm, Signature: "M_?"},
		{Name: "H_ext", Type: TypeField, Units: &fieldAm},
		{Name: "H_demag", Type: TypeField, Units: &fieldAm, Context: "demag"},
		{Name: "E_total", Type: TypeField, Units: &joule},
		{Name: "rho", Type: TypeField, Units: &chargeDens, Context: "demag"},
		{Name: "phi", Type: TypeField, Units: &ampere, Context: "demag"},
	}
}
