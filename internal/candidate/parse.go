package candidate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/solvecheck/internal/expr"
	"github.com/nao1215/solvecheck/internal/quantity"
	"github.com/nao1215/solvecheck/internal/textnorm"
)

// Value is one reported number and the decimal places it was written with.
// Decimals is 0 for integers and for expressions such as "3/4". Unit is the
// token written right after a plain number ("5 mA"), if any.
type Value struct {
	Num      float64
	Decimals int
	Unit     string
}

// Clause is one labeled part of a final answer. Label is empty for an
// unlabeled answer such as "4". Malformed is set when part of the clause
// looks like an expression but does not parse ("4 +* 2").
type Clause struct {
	Label     string
	Values    []Value
	Vector    []float64
	Matrix    [][]float64
	Malformed bool
}

var (
	errNoNumber  = errors.New("no number")
	errMalformed = errors.New("malformed expression")
)

// Final is a parsed final answer.
type Final struct {
	Raw     string
	Clauses []Clause
}

// connectors are words that may precede a label and are not part of it.
var connectors = map[string]bool{
	"and": true, "or": true, "so": true, "then": true, "thus": true, "hence": true,
	"therefore": true, "the": true, "answer": true, "is": true, "final": true,
	"we": true, "get": true, "have": true, "find": true, "a": true,
}

// breaks are connectors that end the previous clause: in "2 m and y" only
// "y" is the label.
var breaks = map[string]bool{
	"and": true, "or": true, "so": true, "then": true, "thus": true, "hence": true,
	"therefore": true, "is": true,
}

// maxLabelWords bounds how many words before "=" form a label.
const maxLabelWords = 4

var labelTail = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_' ]*$`)

// Parse splits a final answer into clauses.
func Parse(final string) *Final {
	s := textnorm.Normalize(final)
	f := &Final{Raw: s}
	eqs := equalsPositions(s)
	if len(eqs) == 0 {
		f.Clauses = parseClauses("", s)
		return f
	}

	// labels[i] is the label of the clause whose "=" is eqs[i]; starts[i] is
	// where that label begins, which is also where the previous value ends.
	labels := make([]string, len(eqs))
	starts := make([]int, len(eqs))
	prev := 0
	for i, eq := range eqs {
		before := s[prev:eq]
		label, at := trailingLabel(before)
		labels[i] = label
		starts[i] = prev + at
		prev = eq + 1
	}
	for i, eq := range eqs {
		end := len(s)
		if i+1 < len(eqs) {
			end = starts[i+1]
		}
		f.Clauses = append(f.Clauses, parseClauses(labels[i], s[eq+1:end])...)
	}
	return f
}

// equalsPositions returns the byte offsets of assignment "=" signs,
// skipping "<=", ">=", "!=" and "==".
func equalsPositions(s string) []int {
	var out []int
	for i := 0; i < len(s); i++ {
		if s[i] != '=' {
			continue
		}
		if i > 0 && strings.ContainsRune("<>!=", rune(s[i-1])) {
			continue
		}
		if i+1 < len(s) && s[i+1] == '=' {
			continue
		}
		out = append(out, i)
	}
	return out
}

// trailingLabel extracts the label words right before an "=" and returns
// the label and the offset where it starts in s.
func trailingLabel(s string) (string, int) {
	loc := labelTail.FindStringIndex(s)
	if loc == nil {
		return "", len(s)
	}
	words := strings.Fields(s[loc[0]:])
	for j := len(words) - 2; j >= 0; j-- {
		if breaks[strings.ToLower(words[j])] {
			words = words[j+1:]
			break
		}
	}
	if len(words) > maxLabelWords {
		words = words[len(words)-maxLabelWords:]
	}
	for len(words) > 1 && connectors[strings.ToLower(words[0])] {
		words = words[1:]
	}
	if len(words) == 0 {
		return "", len(s)
	}
	label := strings.Join(words, " ")
	at := strings.LastIndex(s, words[0])
	if at < 0 {
		at = loc[0]
	}
	return NormalizeLabel(label), at
}

// NormalizeLabel lower-cases a label and collapses inner whitespace.
func NormalizeLabel(l string) string {
	return strings.ToLower(strings.Join(strings.Fields(l), " "))
}

var alternatives = strings.NewReplacer(" or ", ";", " OR ", ";")

// parseClauses parses the text after one "=". Alternatives that are each a
// whole tuple ("(0, 0) or (5, 7)") become one clause per tuple.
func parseClauses(label, text string) []Clause {
	text = trimClause(text)
	if alts := splitTopLevelOn(alternatives.Replace(text), ",;"); len(alts) > 1 && allTuples(alts) {
		var out []Clause
		for _, a := range alts {
			if c, ok := parseClause(label, a); ok {
				out = append(out, c)
			}
		}
		return out
	}
	if c, ok := parseClause(label, text); ok {
		return []Clause{c}
	}
	return nil
}

func trimClause(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimRight(text, " ,;.")
	for _, suffix := range []string{" and", " or"} {
		text = strings.TrimSuffix(text, suffix)
	}
	return text
}

// allTuples reports whether every alternative is one bracketed group.
func allTuples(alts []string) bool {
	for _, a := range alts {
		if a == "" || !(isBracket(a[0]) || a[0] == '(') || matchingClose(a) != len(a)-1 {
			return false
		}
	}
	return true
}

// matchingClose returns the index of the bracket closing s[0], or -1.
func matchingClose(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseClause(label, text string) (Clause, bool) {
	text = trimClause(text)
	c := Clause{Label: label}
	if text == "" {
		return c, false
	}
	if isBracket(text[0]) {
		if m, ok := quantity.ExtractMatrix(text, nil); ok {
			c.Matrix = m
			return c, true
		}
	}
	if isBracket(text[0]) || text[0] == '(' {
		if xs, ok := tuple(text); ok && len(xs) > 1 {
			c.Vector = xs
			return c, true
		}
	}
	for _, piece := range splitTopLevel(text) {
		vs, err := expand(piece)
		if errors.Is(err, errMalformed) {
			c.Malformed = true
		}
		c.Values = append(c.Values, vs...)
	}
	return c, len(c.Values) > 0 || c.Malformed
}

func isBracket(b byte) bool { return b == '[' || b == '{' }

// tuple parses "(a, b)" or "[a, b]" whose items are constant expressions.
// The group must span the whole text, apart from a trailing unit.
func tuple(text string) ([]float64, bool) {
	end := matchingClose(text)
	if end <= 0 {
		return nil, false
	}
	if rest := strings.TrimSpace(text[end+1:]); rest != "" && !unitTail(rest) {
		return nil, false
	}
	var xs []float64
	for _, item := range splitTopLevelOn(text[1:end], ",;") {
		v, err := value(item)
		if err != nil {
			return nil, false
		}
		xs = append(xs, v.Num)
	}
	return xs, len(xs) > 0
}

// splitTopLevel splits alternatives on ",", ";", " or " and " and ",
// ignoring separators inside brackets.
func splitTopLevel(text string) []string {
	text = strings.NewReplacer(" or ", ";", " and ", ";", " OR ", ";").Replace(text)
	return splitTopLevelOn(text, ",;")
}

func splitTopLevelOn(text, seps string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && strings.IndexByte(seps, c) >= 0:
			if p := strings.TrimSpace(text[start:i]); p != "" {
				out = append(out, p)
			}
			start = i + 1
		}
	}
	if p := strings.TrimSpace(text[start:]); p != "" {
		out = append(out, p)
	}
	return out
}

// unitAfter returns the unit token at the start of rest, if any.
func unitAfter(rest string) string {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	u := strings.TrimRight(fields[0], ".")
	if u == "" || strings.ContainsAny(u[:1], "0123456789+-=") {
		return ""
	}
	return u
}

// unitTail reports whether rest, the text around a salvaged number, reads
// as unit or word tokens rather than a broken expression.
func unitTail(rest string) bool {
	for _, f := range strings.Fields(rest) {
		if strings.ContainsAny(f[:1], "+-*/^()[]{}=,") {
			return false
		}
	}
	return true
}

var plusMinus = regexp.MustCompile(`^(.*?)\s*\+-\s*(.+)$`)

// expand turns one piece into its values, expanding "a +- b" into a+b, a-b.
func expand(piece string) ([]Value, error) {
	if m := plusMinus.FindStringSubmatch(piece); m != nil {
		delta, err := value(m[2])
		if err != nil {
			return nil, err
		}
		base := Value{}
		if strings.TrimSpace(m[1]) != "" {
			b, err := value(m[1])
			if err != nil {
				return nil, err
			}
			base = b
		}
		d := max(base.Decimals, delta.Decimals)
		return []Value{
			{Num: base.Num + delta.Num, Decimals: d},
			{Num: base.Num - delta.Num, Decimals: d},
		}, nil
	}
	v, err := value(piece)
	if err != nil {
		return nil, err
	}
	return []Value{v}, nil
}

// value evaluates a piece as a constant expression, ignoring trailing unit
// tokens. A number is salvaged from a piece that does not parse only when
// the text around it is unit or word tokens; otherwise the piece is
// malformed.
func value(piece string) (Value, error) {
	piece = strings.TrimSpace(piece)
	if piece == "" {
		return Value{}, errNoNumber
	}
	if v, err := strconv.ParseFloat(piece, 64); err == nil {
		return Value{Num: v, Decimals: quantity.Decimals(piece)}, nil
	}
	e, perr := expr.Parse(piece)
	if perr == nil {
		if v, err := e.Eval(nil); err == nil {
			return Value{Num: v}, nil
		}
	}
	broken := perr != nil
	if v, d, rest, ok := quantity.Leading(piece); ok {
		if broken && !unitTail(rest) {
			return Value{}, errMalformed
		}
		return Value{Num: v, Decimals: d, Unit: unitAfter(rest)}, nil
	}
	// "sqrt(2) m": the longest run of leading words that evaluates.
	words := strings.Fields(piece)
	for n := len(words) - 1; n >= 1; n-- {
		if v, ok := expr.Evaluate(strings.Join(words[:n], " "), nil); ok {
			if broken && !unitTail(strings.Join(words[n:], " ")) {
				return Value{}, errMalformed
			}
			return Value{Num: v}, nil
		}
	}
	// "The answer is 4 A": the first word that starts with a number.
	for i, w := range words {
		v, d, rest, ok := quantity.Leading(w)
		if !ok {
			continue
		}
		if broken && !(unitTail(strings.Join(words[:i], " ")) && unitTail(rest+" "+strings.Join(words[i+1:], " "))) {
			return Value{}, errMalformed
		}
		return Value{Num: v, Decimals: d}, nil
	}
	if broken && strings.ContainsAny(piece, "0123456789") {
		return Value{}, errMalformed
	}
	if v, d, ok := quantity.First(piece); ok {
		return Value{Num: v, Decimals: d}, nil
	}
	return Value{}, errNoNumber
}
