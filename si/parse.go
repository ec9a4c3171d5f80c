package si

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit-expression grammar (recursive descent):
//
//	expr   := term { ("*" | "/" | juxtaposition) term }
//	term   := factor [ ("^" | "**") [sign] integer ]
//	factor := SYMBOL | NUMBER | "(" expr ")"
//
// Whitespace separates tokens; adjacent factors multiply ("m s" == "m*s").
// Symbols resolve against the unit table first, then as prefix+unit.

// unitVal is the parser's working value: a conversion factor to base units,
// the dimension exponents, and the display terms gathered along the way.
type unitVal struct {
	scale float64
	dims  Dims
	terms []term
}

func (v unitVal) mul(o unitVal) unitVal {
	return unitVal{scale: v.scale * o.scale, dims: v.dims.add(o.dims), terms: mergeTerms(v.terms, o.terms, 1)}
}

func (v unitVal) div(o unitVal) unitVal {
	return unitVal{scale: v.scale / o.scale, dims: v.dims.sub(o.dims), terms: mergeTerms(v.terms, o.terms, -1)}
}

func (v unitVal) pow(n int) unitVal {
	nt := make([]term, len(v.terms))
	for i, t := range v.terms {
		nt[i] = term{symbol: t.symbol, exp: t.exp * n}
	}

	return unitVal{scale: math.Pow(v.scale, float64(n)), dims: v.dims.scale(n), terms: nt}
}

// parseUnits parses a unit expression; the empty string is dimensionless.
func parseUnits(expr string) (unitVal, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return unitVal{scale: 1}, nil
	}
	toks, err := lexUnits(trimmed)
	if err != nil {
		return unitVal{}, err
	}
	p := &parser{toks: toks}
	v, err := p.expr()
	if err != nil {
		return unitVal{}, err
	}
	if p.peek().kind != tokEnd {
		return unitVal{}, fmt.Errorf("trailing %q: %w", p.peek().text, ErrBadUnit)
	}

	return v, nil
}

// Parse reads a full quantity string with an optional leading magnitude,
// e.g. "10 m/s", "1e6A/m" or just "m/s" (magnitude 1).
func Parse(s string) (SI, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return SI{}, fmt.Errorf("empty quantity: %w", ErrBadUnit)
	}
	toks, err := lexUnits(trimmed)
	if err != nil {
		return SI{}, err
	}
	mag := 1.0
	if toks[0].kind == tokNum {
		mag = toks[0].num
		toks = toks[1:]
	}
	u := unitVal{scale: 1}
	if toks[0].kind != tokEnd {
		p := &parser{toks: toks}
		if u, err = p.expr(); err != nil {
			return SI{}, err
		}
		if p.peek().kind != tokEnd {
			return SI{}, fmt.Errorf("trailing %q: %w", p.peek().text, ErrBadUnit)
		}
	}

	return SI{base: mag * u.scale, scale: u.scale, dims: u.dims, terms: u.terms}, nil
}

// MustParse is Parse for literals; it panics on a bad expression.
func MustParse(s string) SI {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return v
}

// ---- lexer ----

type tokKind int

const (
	tokEnd tokKind = iota
	tokSym
	tokNum
	tokMul
	tokDiv
	tokPow
	tokLPar
	tokRPar
	tokMinus
	tokPlus
)

type token struct {
	kind tokKind
	text string
	num  float64
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func lexUnits(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == ' ' || ch == '\t':
			i++
		case isLetter(ch):
			j := i
			for j < len(s) && isLetter(s[j]) {
				j++
			}
			toks = append(toks, token{kind: tokSym, text: s[i:j]})
			i = j
		case isDigit(ch) || ch == '.':
			j := i
			for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
				j++
			}
			// Scientific suffix: e/E with optional sign, digits required.
			if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
				k := j + 1
				if k < len(s) && (s[k] == '+' || s[k] == '-') {
					k++
				}
				if k < len(s) && isDigit(s[k]) {
					for k < len(s) && isDigit(s[k]) {
						k++
					}
					j = k
				}
			}
			num, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q: %w", s[i:j], ErrBadUnit)
			}
			toks = append(toks, token{kind: tokNum, text: s[i:j], num: num})
			i = j
		case ch == '*':
			if i+1 < len(s) && s[i+1] == '*' {
				toks = append(toks, token{kind: tokPow, text: "**"})
				i += 2
			} else {
				toks = append(toks, token{kind: tokMul, text: "*"})
				i++
			}
		case ch == '/':
			toks = append(toks, token{kind: tokDiv, text: "/"})
			i++
		case ch == '^':
			toks = append(toks, token{kind: tokPow, text: "^"})
			i++
		case ch == '(':
			toks = append(toks, token{kind: tokLPar, text: "("})
			i++
		case ch == ')':
			toks = append(toks, token{kind: tokRPar, text: ")"})
			i++
		case ch == '-':
			toks = append(toks, token{kind: tokMinus, text: "-"})
			i++
		case ch == '+':
			toks = append(toks, token{kind: tokPlus, text: "+"})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q: %w", string(ch), ErrBadUnit)
		}
	}

	return append(toks, token{kind: tokEnd}), nil
}

// ---- parser ----

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEnd {
		p.pos++
	}

	return t
}

func (p *parser) expr() (unitVal, error) {
	v, err := p.term()
	if err != nil {
		return unitVal{}, err
	}
	for {
		switch p.peek().kind {
		case tokMul:
			p.next()
			t, err := p.term()
			if err != nil {
				return unitVal{}, err
			}
			v = v.mul(t)
		case tokDiv:
			p.next()
			t, err := p.term()
			if err != nil {
				return unitVal{}, err
			}
			v = v.div(t)
		case tokSym, tokNum, tokLPar: // juxtaposition multiplies
			t, err := p.term()
			if err != nil {
				return unitVal{}, err
			}
			v = v.mul(t)
		default:
			return v, nil
		}
	}
}

func (p *parser) term() (unitVal, error) {
	f, err := p.factor()
	if err != nil {
		return unitVal{}, err
	}
	if p.peek().kind == tokPow {
		p.next()
		n, err := p.exponent()
		if err != nil {
			return unitVal{}, err
		}
		f = f.pow(n)
	}

	return f, nil
}

func (p *parser) factor() (unitVal, error) {
	tok := p.next()
	switch tok.kind {
	case tokSym:
		return resolveUnit(tok.text)
	case tokNum:
		// Bare numeric factor, e.g. the neutral "1" in "1/s".
		return unitVal{scale: tok.num}, nil
	case tokLPar:
		v, err := p.expr()
		if err != nil {
			return unitVal{}, err
		}
		if closing := p.next(); closing.kind != tokRPar {
			return unitVal{}, fmt.Errorf("missing ')': %w", ErrBadUnit)
		}

		return v, nil
	default:
		return unitVal{}, fmt.Errorf("unexpected %q: %w", tok.text, ErrBadUnit)
	}
}

func (p *parser) exponent() (int, error) {
	sign := 1
	switch p.peek().kind {
	case tokMinus:
		p.next()
		sign = -1
	case tokPlus:
		p.next()
	}
	tok := p.next()
	if tok.kind != tokNum {
		return 0, fmt.Errorf("exponent expected, got %q: %w", tok.text, ErrBadUnit)
	}
	n := int(tok.num)
	if float64(n) != tok.num {
		return 0, fmt.Errorf("non-integer exponent %q: %w", tok.text, ErrBadUnit)
	}

	return sign * n, nil
}

// ---- unit table ----

type unitDef struct {
	factor float64
	dims   Dims
}

// dims builds an exponent vector in base order m, kg, s, A, K, mol, cd.
func dim(m, kg, s, a, k, mol, cd int) Dims {
	return Dims{m, kg, s, a, k, mol, cd}
}

// unitTable maps exact unit symbols and long names to their definitions.
// Mass is anchored on the gram so standard prefixes compose ("mg", "kg").
var unitTable = map[string]unitDef{
	// base units
	"m": {1, dim(1, 0, 0, 0, 0, 0, 0)}, "meter": {1, dim(1, 0, 0, 0, 0, 0, 0)}, "metre": {1, dim(1, 0, 0, 0, 0, 0, 0)},
	"g": {1e-3, dim(0, 1, 0, 0, 0, 0, 0)}, "gram": {1e-3, dim(0, 1, 0, 0, 0, 0, 0)},
	"kg": {1, dim(0, 1, 0, 0, 0, 0, 0)}, "kilogram": {1, dim(0, 1, 0, 0, 0, 0, 0)},
	"s": {1, dim(0, 0, 1, 0, 0, 0, 0)}, "sec": {1, dim(0, 0, 1, 0, 0, 0, 0)}, "second": {1, dim(0, 0, 1, 0, 0, 0, 0)},
	"A": {1, dim(0, 0, 0, 1, 0, 0, 0)}, "ampere": {1, dim(0, 0, 0, 1, 0, 0, 0)},
	"K": {1, dim(0, 0, 0, 0, 1, 0, 0)}, "kelvin": {1, dim(0, 0, 0, 0, 1, 0, 0)},
	"mol": {1, dim(0, 0, 0, 0, 0, 1, 0)}, "mole": {1, dim(0, 0, 0, 0, 0, 1, 0)},
	"cd": {1, dim(0, 0, 0, 0, 0, 0, 1)}, "candela": {1, dim(0, 0, 0, 0, 0, 0, 1)},
	// dimensionless angles
	"rad": {1, Dims{}}, "radian": {1, Dims{}},
	"deg": {math.Pi / 180, Dims{}}, "degree": {math.Pi / 180, Dims{}},
	// derived units
	"J": {1, dim(2, 1, -2, 0, 0, 0, 0)}, "joule": {1, dim(2, 1, -2, 0, 0, 0, 0)},
	"N": {1, dim(1, 1, -2, 0, 0, 0, 0)}, "newton": {1, dim(1, 1, -2, 0, 0, 0, 0)},
	"W": {1, dim(2, 1, -3, 0, 0, 0, 0)}, "watt": {1, dim(2, 1, -3, 0, 0, 0, 0)},
	"Pa": {1, dim(-1, 1, -2, 0, 0, 0, 0)}, "pascal": {1, dim(-1, 1, -2, 0, 0, 0, 0)},
	"T": {1, dim(0, 1, -2, -1, 0, 0, 0)}, "tesla": {1, dim(0, 1, -2, -1, 0, 0, 0)},
	"V": {1, dim(2, 1, -3, -1, 0, 0, 0)}, "volt": {1, dim(2, 1, -3, -1, 0, 0, 0)},
	"C": {1, dim(0, 0, 1, 1, 0, 0, 0)}, "coulomb": {1, dim(0, 0, 1, 1, 0, 0, 0)},
	"ohm":   {1, dim(2, 1, -3, -2, 0, 0, 0)},
	"H":     {1, dim(2, 1, -2, -2, 0, 0, 0)},
	"henry": {1, dim(2, 1, -2, -2, 0, 0, 0)},
	"Hz":    {1, dim(0, 0, -1, 0, 0, 0, 0)},
	"hertz": {1, dim(0, 0, -1, 0, 0, 0, 0)},
	// electromagnetism, CGS-derived
	"G": {1e-4, dim(0, 1, -2, -1, 0, 0, 0)}, "gauss": {1e-4, dim(0, 1, -2, -1, 0, 0, 0)},
	"Oe": {1e3 / (4 * math.Pi), dim(-1, 0, 0, 1, 0, 0, 0)}, "oersted": {1e3 / (4 * math.Pi), dim(-1, 0, 0, 1, 0, 0, 0)},
	// time
	"h": {3600, dim(0, 0, 1, 0, 0, 0, 0)}, "hr": {3600, dim(0, 0, 1, 0, 0, 0, 0)}, "hour": {3600, dim(0, 0, 1, 0, 0, 0, 0)},
	"min": {60, dim(0, 0, 1, 0, 0, 0, 0)}, "minute": {60, dim(0, 0, 1, 0, 0, 0, 0)},
}

// prefix is one SI magnitude prefix in symbol and long form.
type prefix struct {
	symbol string
	name   string
	factor float64
}

var prefixes = []prefix{
	{"f", "femto", 1e-15},
	{"p", "pico", 1e-12},
	{"n", "nano", 1e-9},
	{"u", "micro", 1e-6},
	{"m", "milli", 1e-3},
	{"c", "centi", 1e-2},
	{"d", "deci", 1e-1},
	{"k", "kilo", 1e3},
	{"M", "mega", 1e6},
	{"G", "giga", 1e9},
	{"T", "tera", 1e12},
}

// resolveUnit maps a symbol to its definition: exact table entry first,
// then prefix+unit ("km", "mT", "nanosecond"). The display term keeps the
// symbol exactly as written.
func resolveUnit(name string) (unitVal, error) {
	if def, ok := unitTable[name]; ok {
		return unitVal{scale: def.factor, dims: def.dims, terms: []term{{symbol: name, exp: 1}}}, nil
	}
	for _, pre := range prefixes {
		for _, lead := range []string{pre.symbol, pre.name} {
			if !strings.HasPrefix(name, lead) || len(name) == len(lead) {
				continue
			}
			if def, ok := unitTable[name[len(lead):]]; ok {
				return unitVal{
					scale: pre.factor * def.factor,
					dims:  def.dims,
					terms: []term{{symbol: name, exp: 1}},
				}, nil
			}
		}
	}

	return unitVal{}, fmt.Errorf("unknown unit %q: %w", name, ErrBadUnit)
}
