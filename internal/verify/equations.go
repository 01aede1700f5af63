package verify

import (
	"regexp"
	"strings"

	"github.com/nao1215/solvecheck/internal/expr"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/textnorm"
)

// segmentBreak splits text into clauses that each hold at most one
// relation chain.
var segmentBreak = regexp.MustCompile(`;|\.\s|\s+and\s+|\s+where\s+|\s+if\s+`)

// stopWords are short words that are prose, not variables.
var stopWords = map[string]bool{
	"is": true, "if": true, "of": true, "to": true, "in": true, "at": true,
	"by": true, "on": true, "or": true, "an": true, "as": true, "be": true,
	"we": true, "so": true, "it": true, "for": true, "the": true, "and": true,
}

const mathChars = "0123456789+-*/^()=<>|[]{}!"

// isMathWord reports whether a whitespace-separated field belongs to a
// formula rather than to the surrounding prose.
func isMathWord(field string) bool {
	if strings.HasSuffix(field, ":") {
		return false
	}
	w := strings.Trim(field, ".,:;!?\"'")
	if w == "" {
		return false
	}
	if strings.ContainsAny(w, mathChars) {
		return true
	}
	lw := strings.ToLower(w)
	if stopWords[lw] {
		return false
	}
	if len(w) <= 2 || expr.IsReserved(lw) {
		return true
	}
	return false
}

// mathTail returns the trailing formula of s: "Solve for x: 2x + 3" gives
// "2x + 3".
func mathTail(s string) string {
	fields := strings.Fields(s)
	i := len(fields)
	for i > 0 && isMathWord(fields[i-1]) {
		i--
	}
	return strings.Trim(strings.Join(fields[i:], " "), " ,:")
}

// mathHead returns the leading formula of s: "11 for x" gives "11".
func mathHead(s string) string {
	fields := strings.Fields(s)
	i := 0
	for i < len(fields) && isMathWord(fields[i]) {
		i++
	}
	return strings.TrimRight(strings.Join(fields[:i], " "), " .,;:")
}

// splitRelation splits a clause on assignment "=" signs, skipping "<=",
// ">=", "!=" and "==".
func splitRelation(s string) []string {
	var parts []string
	start := 0
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
		parts = append(parts, s[start:i])
		start = i + 1
	}
	return append(parts, s[start:])
}

// equationsIn returns the checkable equations of text. Definitions of a
// single symbol as a constant ("V = 10") are given values, not equations.
func equationsIn(text string) []model.Equation {
	var out []model.Equation
	for _, seg := range segmentBreak.Split(text, -1) {
		for _, clause := range splitTopLevelCommas(seg) {
			parts := splitRelation(clause)
			for i := 0; i+1 < len(parts); i++ {
				lhs := mathTail(parts[i])
				rhs := mathHead(parts[i+1])
				if eq, ok := checkable(lhs, rhs); ok {
					out = append(out, eq)
				}
			}
		}
	}
	return out
}

func checkable(lhs, rhs string) (model.Equation, bool) {
	if lhs == "" || rhs == "" || functionHead.MatchString(lhs) {
		return model.Equation{}, false
	}
	l, err := expr.Parse(lhs)
	if err != nil {
		return model.Equation{}, false
	}
	r, err := expr.Parse(rhs)
	if err != nil {
		return model.Equation{}, false
	}
	lv, rv := l.Variables(), r.Variables()
	if len(lv) == 0 && len(rv) == 0 {
		return model.Equation{}, false
	}
	if isDefinition(lhs, lv, rv) || isDefinition(rhs, rv, lv) {
		return model.Equation{}, false
	}
	return model.Equation{LHS: lhs, RHS: rhs}, true
}

// functionHead matches a function definition such as "f(x)".
var functionHead = regexp.MustCompile(`^[A-Za-z]'*\s*\(\s*[A-Za-z]\s*\)$`)

var identifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_']*$`)

// isDefinition reports whether side is a bare symbol and the other side is
// constant.
func isDefinition(side string, sideVars, otherVars []string) bool {
	return identifier.MatchString(strings.TrimSpace(side)) && len(sideVars) > 0 && len(otherVars) == 0
}

// splitTopLevelCommas splits on commas outside brackets.
func splitTopLevelCommas(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// extractEquations reads the statement's equations, falling back to the
// first step field that contains one.
func extractEquations(p *Problem) []model.Equation {
	if eqs := equationsIn(p.Statement); len(eqs) > 0 {
		return eqs
	}
	for _, s := range p.Record.Steps {
		for _, field := range []string{s.Before, s.After, s.Text} {
			if eqs := equationsIn(textnorm.Normalize(field)); len(eqs) > 0 {
				return eqs
			}
		}
	}
	return nil
}
