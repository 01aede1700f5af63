package chem

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrInvalidFormula is returned for malformed formulas.
	ErrInvalidFormula = errors.New("invalid formula")

	// ErrUnknownElement is returned for symbols missing from the table.
	ErrUnknownElement = errors.New("unknown element")
)

// Composition maps element symbols to atom counts.
type Composition map[string]int

// Elements returns the element symbols in sorted order.
func (c Composition) Elements() []string {
	out := make([]string, 0, len(c))
	for e := range c {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// ParseFormula parses a molecular formula. Groups may use (), [] or {} and
// hydrate parts are joined with "*" or ".", each with an optional leading
// multiplier ("CuSO4*5H2O"). A trailing charge ("SO4^2-") is ignored.
func ParseFormula(formula string) (Composition, error) {
	f := strings.TrimSpace(formula)
	if i := strings.IndexAny(f, "^"); i >= 0 {
		f = f[:i]
	}
	f = strings.TrimRight(f, "+-")
	if f == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidFormula)
	}
	total := Composition{}
	for _, part := range strings.FieldsFunc(f, func(r rune) bool { return r == '*' || r == '.' }) {
		mult := 1
		i := 0
		for i < len(part) && part[i] >= '0' && part[i] <= '9' {
			i++
		}
		if i > 0 {
			m, err := strconv.Atoi(part[:i])
			if err != nil || m == 0 {
				return nil, fmt.Errorf("%w: bad multiplier in %q", ErrInvalidFormula, formula)
			}
			mult = m
		}
		p := &formulaParser{s: part[i:]}
		c, err := p.group(0)
		if err != nil {
			return nil, err
		}
		if p.pos != len(p.s) {
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidFormula, p.s[p.pos], formula)
		}
		for e, n := range c {
			total[e] += n * mult
		}
	}
	if len(total) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormula, formula)
	}
	return total, nil
}

type formulaParser struct {
	s   string
	pos int
}

var closing = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// group parses elements and nested groups until the closing bracket
// matching open (0 at top level).
func (p *formulaParser) group(open byte) (Composition, error) {
	c := Composition{}
	for p.pos < len(p.s) {
		ch := p.s[p.pos]
		switch {
		case ch == '(' || ch == '[' || ch == '{':
			p.pos++
			inner, err := p.group(ch)
			if err != nil {
				return nil, err
			}
			n := p.count()
			for e, k := range inner {
				c[e] += k * n
			}
		case ch == ')' || ch == ']' || ch == '}':
			if open == 0 || closing[open] != ch {
				return nil, fmt.Errorf("%w: unbalanced %q", ErrInvalidFormula, ch)
			}
			p.pos++
			return c, nil
		case ch >= 'A' && ch <= 'Z':
			start := p.pos
			p.pos++
			for p.pos < len(p.s) && p.s[p.pos] >= 'a' && p.s[p.pos] <= 'z' {
				p.pos++
			}
			sym := p.s[start:p.pos]
			if _, ok := atomicMass[sym]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownElement, sym)
			}
			c[sym] += p.count()
		case unicode.IsSpace(rune(ch)):
			p.pos++
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidFormula, ch)
		}
	}
	if open != 0 {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalidFormula, closing[open])
	}
	return c, nil
}

func (p *formulaParser) count() int {
	n := 0
	digits := 0
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		n = n*10 + int(p.s[p.pos]-'0')
		p.pos++
		digits++
	}
	if digits == 0 {
		return 1
	}
	return n
}

// MolarMass returns the molar mass of a formula in g/mol.
func MolarMass(formula string) (float64, error) {
	c, err := ParseFormula(formula)
	if err != nil {
		return 0, err
	}
	m := 0.0
	for e, n := range c {
		m += atomicMass[e] * float64(n)
	}
	return m, nil
}
