package when

import (
	"fmt"
	"maps"
	"math"
	"strings"
)

// Value is one entry of a Time snapshot: either a number (steps, seconds)
// or a flag (convergence reached, stage ended).
type Value struct {
	num  float64
	flag bool
	kind valueKind
}

type valueKind uint8

const (
	valueNum valueKind = iota
	valueFlag
)

// Num wraps a numeric counter value.
func Num(v float64) Value { return Value{num: v, kind: valueNum} }

// Flag wraps a boolean counter value.
func Flag(b bool) Value { return Value{flag: b, kind: valueFlag} }

func (v Value) String() string {
	if v.kind == valueFlag {
		if v.flag {
			return "true"
		}

		return "false"
	}

	return fmt.Sprintf("%g", v.num)
}

// Time is a snapshot of named counters, e.g. {"step": 120, "time": 3.5e-12}.
type Time map[string]Value

// Next is the answer to "when does this specification fire next": never
// again, always (any future query can fire), or at a concrete counter
// value. The zero Next is never.
type Next struct {
	kind nextKind
	at   float64
}

type nextKind uint8

const (
	nextNever nextKind = iota
	nextAlways
	nextEvent
)

// NextNever and NextAlways are the two boundary answers.
var (
	NextNever  = Next{kind: nextNever}
	NextAlways = Next{kind: nextAlways}
)

// NextEvent is the answer "fires when the counter reaches t".
func NextEvent(t float64) Next { return Next{kind: nextEvent, at: t} }

// Never reports that the specification can no longer fire.
func (n Next) Never() bool { return n.kind == nextNever }

// Always reports that the specification fires at any future time.
func (n Next) Always() bool { return n.kind == nextAlways }

// Event returns the concrete next counter value, if there is one.
func (n Next) Event() (float64, bool) { return n.at, n.kind == nextEvent }

func (n Next) String() string {
	switch n.kind {
	case nextAlways:
		return "always"
	case nextEvent:
		return fmt.Sprintf("%g", n.at)
	default:
		return "never"
	}
}

// boolNext folds a match result into the boundary Next answers.
func boolNext(b bool) Next {
	if b {
		return NextAlways
	}

	return NextNever
}

// spec is the internal specification node.
type spec interface {
	match(t Time) bool
	next(id string, t Time) Next
	String() string
}

// When expresses when a certain thing should be done. The zero When
// never matches; build real values with At, Every, Between and Never,
// and combine them with Or and And.
type When struct {
	spec spec
}

// Never matches no time at all.
var Never = When{spec: neverSpec{}}

func (w When) active() spec {
	if w.spec == nil {
		return neverSpec{}
	}

	return w.spec
}

// Match reports whether the specification fires at the given snapshot.
func (w When) Match(t Time) bool { return w.active().match(t) }

// Next computes when the specification fires next as counter id advances,
// holding the other counters of t fixed.
func (w When) Next(id string, t Time) Next { return w.active().next(id, t) }

// NextTol is Next with a per-counter tolerance: when the computed event
// lies within tols[id] of the current value it is considered already
// fired, and the event after it is returned instead. This keeps float
// jitter from re-triggering the same event twice.
func (w When) NextTol(id string, t Time, tols map[string]float64) Next {
	n := w.active().next(id, t)
	tol, ok := tols[id]
	if !ok || tol <= 0 {
		return n
	}
	nt, isEvent := n.Event()
	if !isEvent {
		return n
	}
	cur, ok := t[id]
	if !ok || cur.kind != valueNum {
		return n
	}
	if math.Abs(nt-cur.num) < tol {
		shifted := maps.Clone(t)
		shifted[id] = Num(nt + tol)
		n = w.active().next(id, shifted)
	}

	return n
}

// Or fires when either specification fires.
func (w When) Or(o When) When { return When{spec: orSpec{a: w.active(), b: o.active()}} }

// And fires when both specifications fire at once. Combining two
// periodic specifications that can never coincide (such as
// Every("step", 2) with Every("step", 2, WithFirst(1))) makes Next loop
// forever; the caller must ensure a common point exists.
func (w When) And(o When) When { return When{spec: andSpec{a: w.active(), b: o.active()}} }

func (w When) String() string { return w.active().String() }

// At fires when counter id equals v exactly, e.g. At("step", Num(10)) or
// At("convergence", Flag(true)). Numeric at-points fire once: after the
// counter passes v, Next answers never.
func At(id string, v Value) When {
	if id == "" {
		panic("when: at: identifier must be non-empty")
	}

	return When{spec: atSpec{id: id, val: v}}
}

// EveryOption adjusts the bounds of a periodic specification.
type EveryOption func(*everySpec)

// WithFirst sets the first counter value that can fire (default 0).
func WithFirst(v float64) EveryOption {
	return func(s *everySpec) { s.first = v }
}

// WithLast sets the last counter value that can fire (inclusive for
// Match; Next at the bound answers never).
func WithLast(v float64) EveryOption {
	return func(s *everySpec) { s.last, s.hasLast = v, true }
}

// Every fires periodically: at first, first+delta, first+2*delta, ...
// bounded by WithLast when given.
func Every(id string, delta float64, opts ...EveryOption) When {
	if id == "" {
		panic("when: every: identifier must be non-empty")
	}
	if delta <= 0 {
		panic("when: every: delta must be positive")
	}
	s := everySpec{id: id, delta: delta, hasDelta: true}
	for _, opt := range opts {
		opt(&s)
	}
	if s.hasLast && s.last <= s.first {
		panic("when: every: last must be greater than first")
	}

	return When{spec: s}
}

// Between fires at every queried point with first <= counter <= last:
// a range without a period.
func Between(id string, first, last float64) When {
	if id == "" {
		panic("when: between: identifier must be non-empty")
	}
	if last <= first {
		panic("when: between: last must be greater than first")
	}

	return When{spec: everySpec{id: id, first: first, last: last, hasLast: true}}
}

// ---- at ----

type atSpec struct {
	id  string
	val Value
}

func (s atSpec) match(t Time) bool {
	v, ok := t[s.id]

	return ok && v == s.val
}

func (s atSpec) next(id string, t Time) Next {
	if s.id != id {
		// Irrelevant to this counter, so never block it.
		return NextAlways
	}
	v, ok := t[s.id]
	if !ok {
		return NextNever
	}
	if v.kind == valueFlag {
		if s.val == Flag(true) {
			return NextAlways
		}

		return boolNext(v == s.val)
	}
	if s.val.kind != valueNum {
		return NextNever
	}
	if v.num < s.val.num {
		return NextEvent(s.val.num)
	}

	return NextNever
}

func (s atSpec) String() string {
	return fmt.Sprintf("at('%s', %s)", s.id, s.val)
}

// ---- every / between ----

type everySpec struct {
	id       string
	delta    float64
	first    float64
	last     float64
	hasDelta bool
	hasLast  bool
}

// floatIsInteger reports whether f sits on an integer within relative
// tolerance 1e-9, so accumulated float steps still count as on-grid.
func floatIsInteger(f float64) bool {
	r := math.Round(f)

	return math.Abs(f-r) <= 1e-9*math.Max(math.Abs(f), math.Abs(r))
}

func (s everySpec) match(t Time) bool {
	v, ok := t[s.id]
	if !ok || v.kind != valueNum {
		return false
	}
	x := v.num
	if x < s.first {
		return false
	}
	if s.hasLast && x > s.last {
		return false
	}
	if !s.hasDelta {
		return true
	}

	return floatIsInteger((x - s.first) / s.delta)
}

func (s everySpec) next(id string, t Time) Next {
	if s.id != id {
		return boolNext(s.match(t))
	}
	v, ok := t[s.id]
	if !ok || v.kind != valueNum {
		return NextNever
	}
	x := v.num
	if s.hasLast && x >= s.last {
		return NextNever
	}
	if x < s.first && s.hasDelta {
		return NextEvent(s.first)
	}
	if !s.hasDelta {
		return NextAlways
	}
	pos := (x - s.first) / s.delta
	var nextPos int
	if floatIsInteger(pos) {
		nextPos = int(math.Round(pos)) + 1
	} else {
		nextPos = int(pos) + 1
	}
	nt := s.delta*float64(nextPos) + s.first
	if s.hasLast && nt > s.last {
		return NextNever
	}

	return NextEvent(nt)
}

func (s everySpec) String() string {
	var b strings.Builder
	if s.hasDelta {
		fmt.Fprintf(&b, "every(%g, '%s'", s.delta, s.id)
	} else {
		fmt.Fprintf(&b, "every('%s'", s.id)
	}
	if s.first != 0 {
		fmt.Fprintf(&b, ", first=%g", s.first)
	}
	if s.hasLast {
		fmt.Fprintf(&b, ", last=%g", s.last)
	}
	b.WriteString(")")

	return b.String()
}

// ---- or ----

type orSpec struct {
	a, b spec
}

func (s orSpec) match(t Time) bool { return s.a.match(t) || s.b.match(t) }

func (s orSpec) next(id string, t Time) Next {
	n1 := s.a.next(id, t)
	n2 := s.b.next(id, t)

	t1, e1 := n1.Event()
	t2, e2 := n2.Event()
	switch {
	case !e1 && !e2:
		return boolNext(n1.Always() || n2.Always())
	case n1.Never():
		return n2
	case n2.Never():
		return n1
	case n1.Always() || n2.Always():
		return NextAlways
	}

	return NextEvent(math.Min(t1, t2))
}

func (s orSpec) String() string {
	return fmt.Sprintf("(%s | %s)", s.a, s.b)
}

// ---- and ----

type andSpec struct {
	a, b spec
}

func (s andSpec) match(t Time) bool { return s.a.match(t) && s.b.match(t) }

// next walks both branches forward until their events coincide. The
// branch with the larger next event sets the candidate; the other branch
// must match there, otherwise the walk continues from the candidate.
func (s andSpec) next(id string, t Time) Next {
	if _, ok := t[id]; !ok {
		return NextNever
	}
	probe := maps.Clone(t)
	for {
		n1 := s.a.next(id, probe)
		n2 := s.b.next(id, probe)

		if n1.Never() || n2.Never() {
			return NextNever
		}
		if n1.Always() {
			return n2
		}
		if n2.Always() {
			return n1
		}

		t1, _ := n1.Event()
		t2, _ := n2.Event()
		var candidate float64
		var lagging spec
		if t1 > t2 {
			candidate, lagging = t1, s.b
		} else {
			candidate, lagging = t2, s.a
		}
		probe[id] = Num(candidate)
		if lagging.match(probe) {
			return NextEvent(candidate)
		}
	}
}

func (s andSpec) String() string {
	return fmt.Sprintf("(%s & %s)", s.a, s.b)
}

// ---- never ----

type neverSpec struct{}

func (neverSpec) match(Time) bool        { return false }
func (neverSpec) next(string, Time) Next { return NextNever }
func (neverSpec) String() string         { return "never" }
