package expr

import (
	"sort"
	"strings"
)

// functions maps built-in function names to their arity range.
var functions = map[string][2]int{
	"sqrt": {1, 1}, "cbrt": {1, 1}, "abs": {1, 1}, "exp": {1, 1},
	"ln": {1, 1}, "log": {1, 2}, "log2": {1, 1}, "log10": {1, 1},
	"sin": {1, 1}, "cos": {1, 1}, "tan": {1, 1},
	"asin": {1, 1}, "acos": {1, 1}, "atan": {1, 1},
	"arcsin": {1, 1}, "arccos": {1, 1}, "arctan": {1, 1},
	"sinh": {1, 1}, "cosh": {1, 1}, "tanh": {1, 1},
}

// constants are built-in named values.
var constants = map[string]bool{"pi": true, "e": true}

// names are multi-letter variable names kept whole (Greek letters spelled out).
var names = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true,
	"theta": true, "lambda": true, "mu": true, "rho": true, "sigma": true,
	"tau": true, "phi": true, "omega": true, "eta": true, "nu": true,
}

// IsReserved reports whether name is a built-in function, a constant or a
// spelled-out Greek variable name.
func IsReserved(name string) bool {
	_, fn := functions[name]
	return fn || constants[name] || names[name]
}

// fnNames lists function names longest first for suffix splitting.
var fnNames = func() []string {
	out := make([]string, 0, len(functions))
	for n := range functions {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}()

// Expr is a parsed expression.
type Expr struct {
	src  string
	root node
}

// Parse parses s into an expression tree.
func Parse(s string) (*Expr, error) {
	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, syntaxError(p.peek().pos, "unexpected %q", p.peek().text)
	}
	return &Expr{src: s, root: root}, nil
}

// MustParse is Parse for expressions known to be valid, such as literals in tests.
func MustParse(s string) *Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the source text.
func (e *Expr) String() string { return e.src }

// Variables returns the free variable names, sorted.
func (e *Expr) Variables() []string {
	set := make(map[string]bool)
	e.root.vars(set)
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

type parser struct {
	toks []token
	pos  int
	// bars counts open |...| groups so a closing bar is not read as an
	// implicit multiplication operand.
	bars int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binary{op: t.text[0], l: left, r: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch {
		case t.kind == tokOp && (t.text == "*" || t.text == "/"):
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &binary{op: t.text[0], l: left, r: right}
		case t.kind == tokNumber || t.kind == tokIdent || t.kind == tokLParen || t.kind == tokBar && p.bars == 0:
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &binary{op: '*', l: left, r: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "-" || t.text == "+") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return &negate{x: operand}, nil
		}
		return operand, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokOp && t.text == "^" {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &binary{op: '^', l: base, r: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePostfix() (node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokOp && t.text == "%" {
		p.next()
		return &binary{op: '/', l: n, r: &number{v: 100}}, nil
	}
	return n, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &number{v: t.num}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, syntaxError(c.pos, "expected closing bracket")
		}
		return inner, nil
	case tokBar:
		p.bars++
		inner, err := p.parseExpr()
		p.bars--
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokBar {
			return nil, syntaxError(c.pos, "expected closing |")
		}
		return &call{fn: "abs", args: []node{inner}}, nil
	case tokIdent:
		return p.parseIdent(t)
	case tokEOF:
		return nil, syntaxError(t.pos, "unexpected end of expression")
	default:
		return nil, syntaxError(t.pos, "unexpected %q", t.text)
	}
}

func (p *parser) parseIdent(t token) (node, error) {
	name := t.text
	if _, ok := functions[name]; ok {
		return p.parseCall(name, t.pos)
	}
	if constants[name] {
		return &constant{name: name}, nil
	}
	if names[name] || !isLetters(name) {
		return &variable{name: name}, nil
	}
	// A run of letters ending in a function name followed by "(" is a
	// product with a call: "xsqrt(x)" is x*sqrt(x).
	if p.peek().kind == tokLParen {
		for _, fn := range fnNames {
			if len(name) > len(fn) && strings.HasSuffix(name, fn) {
				prefix := splitLetters(name[:len(name)-len(fn)])
				c, err := p.parseCall(fn, t.pos)
				if err != nil {
					return nil, err
				}
				return product(append(prefix, c)), nil
			}
		}
	}
	factors := splitLetters(name)
	if len(factors) > 1 {
		// The exponent in "xy^2" binds to the last letter only.
		if t := p.peek(); t.kind == tokOp && t.text == "^" {
			p.next()
			exp, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			last := len(factors) - 1
			factors[last] = &binary{op: '^', l: factors[last], r: exp}
		}
	}
	return product(factors), nil
}

func (p *parser) parseCall(fn string, pos int) (node, error) {
	arity := functions[fn]
	if p.peek().kind != tokLParen {
		// "sin x", "ln 2": the function applies to the next power-level operand.
		arg, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &call{fn: fn, args: []node{arg}}, nil
	}
	p.next()
	var args []node
	for {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		t := p.next()
		if t.kind == tokRParen {
			break
		}
		if t.kind != tokComma {
			return nil, syntaxError(t.pos, "expected , or ) in call to %s", fn)
		}
	}
	if len(args) < arity[0] || len(args) > arity[1] {
		return nil, syntaxError(pos, "%s takes %d argument(s), got %d", fn, arity[0], len(args))
	}
	return &call{fn: fn, args: args}, nil
}

// splitLetters splits a pure-letter identifier into constants and
// single-letter variables, taking "pi" greedily.
func splitLetters(name string) []node {
	var out []node
	for i := 0; i < len(name); {
		if strings.HasPrefix(name[i:], "pi") {
			out = append(out, &constant{name: "pi"})
			i += 2
			continue
		}
		if name[i] == 'e' {
			out = append(out, &constant{name: "e"})
		} else {
			out = append(out, &variable{name: name[i : i+1]})
		}
		i++
	}
	return out
}

func product(ns []node) node {
	if len(ns) == 0 {
		return &number{v: 1}
	}
	n := ns[0]
	for _, m := range ns[1:] {
		n = &binary{op: '*', l: n, r: m}
	}
	return n
}

func isLetters(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return s != ""
}
