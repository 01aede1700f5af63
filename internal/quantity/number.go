package quantity

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches a decimal number with optional exponent, an
// optional "*10^n" scientific suffix as written by hand (group 1), or an
// integer power such as "10^(-3)" (group 2).
var numberPattern = regexp.MustCompile(`-?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?(?:\s*[*xX]\s*10\s*\^\s*\(?\s*([-+]?\d+)\s*\)?|\^\(?([-+]?\d+)\)?)?`)

// Quantity is a parsed value with an optional unit token.
type Quantity struct {
	Value float64
	Unit  string
}

// numberMatch is one number found in text.
type numberMatch struct {
	value    float64
	start    int
	end      int
	decimals int
}

// scanNumbers returns every standalone number in s. Digits that belong to an
// identifier (the 2 in "R2") or to an exponent (the 2 in "x^2") are skipped,
// and a minus sign glued to a preceding operand ("x-1") is an operator.
func scanNumbers(s string) []numberMatch {
	locs := numberPattern.FindAllStringSubmatchIndex(s, -1)
	out := make([]numberMatch, 0, len(locs))
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if s[start] == '-' && start > 0 && (isAlnum(s[start-1]) || s[start-1] == ')' || s[start-1] == '.') {
			start++
		}
		if start > 0 && (isIdentByte(s[start-1]) || s[start-1] == '^') {
			continue
		}
		mantissa := s[start:end]
		var v float64
		switch {
		case loc[2] >= 0:
			exp, err := strconv.Atoi(s[loc[2]:loc[3]])
			if err != nil {
				continue
			}
			mantissa = strings.TrimSpace(s[start : strings.IndexAny(s[start:end], "*xX")+start])
			m, err := strconv.ParseFloat(mantissa, 64)
			if err != nil {
				continue
			}
			v = m * math.Pow(10, float64(exp))
		case loc[4] >= 0:
			exp, err := strconv.Atoi(s[loc[4]:loc[5]])
			if err != nil {
				continue
			}
			mantissa = s[start : strings.IndexByte(s[start:end], '^')+start]
			m, err := strconv.ParseFloat(mantissa, 64)
			if err != nil {
				continue
			}
			v = math.Copysign(math.Pow(math.Abs(m), float64(exp)), m)
		default:
			m, err := strconv.ParseFloat(mantissa, 64)
			if err != nil {
				continue
			}
			v = m
		}
		out = append(out, numberMatch{value: v, start: start, end: end, decimals: Decimals(mantissa)})
	}
	return out
}

// Decimals returns the number of digits written after the decimal point.
func Decimals(s string) int {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		s = s[:i]
	}
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	n := 0
	for _, c := range s[i+1:] {
		if c < '0' || c > '9' {
			break
		}
		n++
	}
	return n
}

// ParseNumber returns the first number in s.
func ParseNumber(s string) (float64, bool) {
	ms := scanNumbers(s)
	if len(ms) == 0 {
		return 0, false
	}
	return ms[0].value, true
}

// ParsePercentOrNumber returns the first number in s, divided by 100 when
// it is followed by "%" or the word "percent".
func ParsePercentOrNumber(s string) (float64, bool) {
	ms := scanNumbers(s)
	if len(ms) == 0 {
		return 0, false
	}
	m := ms[0]
	if isPercentAt(s, m.end) {
		return m.value / 100, true
	}
	return m.value, true
}

// Numbers returns every standalone number in s in order.
func Numbers(s string) []float64 {
	ms := scanNumbers(s)
	out := make([]float64, len(ms))
	for i, m := range ms {
		out[i] = m.value
	}
	return out
}

func isPercentAt(s string, i int) bool {
	rest := strings.TrimLeft(s[i:], " ")
	return strings.HasPrefix(rest, "%") || strings.HasPrefix(strings.ToLower(rest), "percent")
}

func isAlnum(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isIdentByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

// Leading returns the number at the start of s (ignoring leading spaces),
// the number of decimal places it was written with and the text after it.
func Leading(s string) (float64, int, string, bool) {
	s = strings.TrimLeft(s, " ")
	ms := scanNumbers(s)
	if len(ms) == 0 || ms[0].start != 0 {
		return 0, 0, "", false
	}
	return ms[0].value, ms[0].decimals, s[ms[0].end:], true
}

// First returns the first number anywhere in s and its decimal places.
func First(s string) (float64, int, bool) {
	ms := scanNumbers(s)
	if len(ms) == 0 {
		return 0, 0, false
	}
	return ms[0].value, ms[0].decimals, true
}
