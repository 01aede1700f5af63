package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// glyphs maps single runes to their ASCII replacement. It is applied after
// NFKC folding, so compatibility forms (fullwidth digits, the Kelvin sign,
// "℃") have already been reduced to their canonical runes.
var glyphs = map[rune]string{
	// Minus signs and dashes.
	'−': "-", '‐': "-", '‑': "-", '‒': "-",
	'–': "-", '—': "-", '―': "-", '﹣': "-",
	// Multiplication and division.
	'×': "*", '·': "*", '⋅': "*", '∗': "*", '•': "*", '÷': "/", '∕': "/", '⁄': "/",
	// Comparison and relation.
	'≈': "=", '≃': "=", '≅': "=", '≡': "=",
	'≤': "<=", '≥': ">=", '≠': "!=", '⩽': "<=", '⩾': ">=",
	'→': "->", '⇒': "->", '⟶': "->",
	'±': "+-", '∓': "-+",
	// Quotes.
	'‘': "'", '’': "'", '“': "\"", '”': "\"",
	// Constants and units.
	'π': "pi", 'µ': "u", 'μ': "u", 'Ω': "ohm", '∞': "inf",
	'Δ': "d", '∆': "d",
	// Greek letters commonly used as variable names.
	'α': "alpha", 'β': "beta", 'γ': "gamma", 'δ': "delta", 'ε': "epsilon",
	'θ': "theta", 'λ': "lambda", 'ρ': "rho", 'σ': "sigma", 'τ': "tau",
	'φ': "phi", 'ϕ': "phi", 'ω': "omega", 'η': "eta", 'ν': "nu", 'Σ': "sum",
}

// currency symbols are dropped entirely.
var currency = map[rune]bool{
	'$': true, '€': true, '£': true, '¥': true, '₹': true, '₩': true, '₽': true, '¢': true,
}

// superscripts maps superscript runes to their plain form.
var superscripts = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
	'⁻': '-', '⁺': '+', 'ⁿ': 'n', '⁽': '(', '⁾': ')',
}

// subscripts maps subscript digits to plain digits (H₂O -> H2O).
var subscripts = map[rune]rune{
	'₀': '0', '₁': '1', '₂': '2', '₃': '3', '₄': '4',
	'₅': '5', '₆': '6', '₇': '7', '₈': '8', '₉': '9',
}

var htmlTag = regexp.MustCompile(`(?i)</?(sup|sub|b|i|u|em|strong|p|br|div|span|math|mi|mn|mo|msup|mrow|li|ul|ol|table|tr|td|th|h[1-6])\b[^>]*>`)

// Normalize canonicalizes problem text. See the package documentation for
// the list of steps.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	if htmlTag.MatchString(s) {
		s = stripHTML(s)
	}
	s = mapScripts(s)
	s = norm.NFKC.String(s)
	s = mapGlyphs(s)
	s = stripSeparators(s)
	return strings.Join(strings.Fields(s), " ")
}

// Fold lower-cases text for case-insensitive keyword matching.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// mapScripts rewrites superscript runs as "^n" or "^(...)", subscript
// digits as plain digits, and the radical sign as a sqrt call. It runs
// before NFKC, which would otherwise fold "x²" into "x2".
func mapScripts(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if _, ok := superscripts[r]; ok {
			j := i
			var run []rune
			for j < len(rs) {
				p, ok := superscripts[rs[j]]
				if !ok {
					break
				}
				run = append(run, p)
				j++
			}
			if len(run) == 1 {
				b.WriteByte('^')
				b.WriteRune(run[0])
			} else {
				b.WriteString("^(")
				b.WriteString(string(run))
				b.WriteByte(')')
			}
			i = j - 1
			continue
		}
		if p, ok := subscripts[r]; ok {
			b.WriteRune(p)
			continue
		}
		if r == '√' || r == '∛' {
			name := "sqrt"
			if r == '∛' {
				name = "cbrt"
			}
			j := i + 1
			for j < len(rs) && rs[j] == ' ' {
				j++
			}
			if j < len(rs) && rs[j] == '(' {
				b.WriteString(name)
				i = j - 1
				continue
			}
			k := j
			for k < len(rs) && (unicode.IsDigit(rs[k]) || unicode.IsLetter(rs[k]) || rs[k] == '.' || rs[k] == '_') {
				k++
			}
			b.WriteString(name)
			b.WriteByte('(')
			b.WriteString(string(rs[j:k]))
			b.WriteByte(')')
			i = k - 1
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func mapGlyphs(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if currency[r] {
			continue
		}
		if rep, ok := glyphs[r]; ok {
			b.WriteString(rep)
			continue
		}
		if unicode.IsSpace(r) {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// stripSeparators removes thousands separators from numbers written as
// d{1,3}(,ddd)+ outside brackets. A number that is itself part of a comma
// list ("300,300" after another comma) is left alone.
func stripSeparators(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && isDigit(r) && (i == 0 || !isNumberRune(rs[i-1])) {
			if end, ok := groupedNumber(rs, i); ok {
				for _, c := range rs[i:end] {
					if c != ',' {
						b.WriteRune(c)
					}
				}
				i = end - 1
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// groupedNumber reports whether a thousands-grouped integer starts at i and
// returns the index just past it.
func groupedNumber(rs []rune, i int) (int, bool) {
	if i >= 2 && rs[i-1] == ',' && isDigit(rs[i-2]) {
		return 0, false
	}
	j := i
	for j < len(rs) && isDigit(rs[j]) {
		j++
	}
	if lead := j - i; lead < 1 || lead > 3 {
		return 0, false
	}
	groups := 0
	for j+3 < len(rs) && rs[j] == ',' && isDigit(rs[j+1]) && isDigit(rs[j+2]) && isDigit(rs[j+3]) {
		if j+4 < len(rs) && isDigit(rs[j+4]) {
			return 0, false
		}
		j += 4
		groups++
	}
	if groups == 0 {
		return 0, false
	}
	if j+1 < len(rs) && rs[j] == ',' && isDigit(rs[j+1]) {
		return 0, false
	}
	return j, true
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNumberRune(r rune) bool { return isDigit(r) || r == ',' || r == '.' }
