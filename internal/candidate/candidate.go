package candidate

import (
	"sort"
	"strconv"
	"strings"
)

// Lookup returns the values of the first clause whose label matches one of
// the aliases. A label matches an alias when it equals it or ends with it as
// a whole word ("the npv" matches "npv").
func (f *Final) Lookup(aliases ...string) ([]Value, bool) {
	for _, a := range aliases {
		a = NormalizeLabel(a)
		for _, c := range f.Clauses {
			if c.Label == "" || len(c.Values) == 0 {
				continue
			}
			if c.Label == a || strings.HasSuffix(c.Label, " "+a) {
				return c.Values, true
			}
		}
	}
	return nil, false
}

// LookupVector returns the vector of the first clause matching an alias,
// or of an unlabeled clause when no alias is given.
func (f *Final) LookupVector(aliases ...string) ([]float64, bool) {
	for _, c := range f.Clauses {
		if c.Vector == nil {
			continue
		}
		if len(aliases) == 0 || c.Label == "" || matchesAny(c.Label, aliases) {
			return c.Vector, true
		}
	}
	return nil, false
}

// Matrix returns the first matrix literal in the answer.
func (f *Final) Matrix() ([][]float64, bool) {
	for _, c := range f.Clauses {
		if c.Matrix != nil {
			return c.Matrix, true
		}
	}
	return nil, false
}

// Bare returns the values of the answer when it is a single unlabeled clause.
func (f *Final) Bare() ([]Value, bool) {
	if len(f.Clauses) != 1 || f.Clauses[0].Label != "" || len(f.Clauses[0].Values) == 0 {
		return nil, false
	}
	return f.Clauses[0].Values, true
}

// Labeled reports whether any clause carries a label.
func (f *Final) Labeled() bool {
	for _, c := range f.Clauses {
		if c.Label != "" {
			return true
		}
	}
	return false
}

// Malformed reports whether part of the answer looks like an expression
// but does not parse.
func (f *Final) Malformed() bool {
	for _, c := range f.Clauses {
		if c.Malformed {
			return true
		}
	}
	return false
}

func matchesAny(label string, aliases []string) bool {
	for _, a := range aliases {
		a = NormalizeLabel(a)
		if label == a || strings.HasSuffix(label, " "+a) {
			return true
		}
	}
	return false
}

// Candidate is one assignment of values to variables, or a vector or
// matrix literal.
type Candidate struct {
	Values map[string]Value
	Vector []float64
	Matrix [][]float64
}

// Assignment returns the plain variable assignment.
func (c Candidate) Assignment() map[string]float64 {
	out := make(map[string]float64, len(c.Values))
	for k, v := range c.Values {
		out[k] = v.Num
	}
	return out
}

// FromFinal enumerates every candidate assignment of the final answer to
// the ordered variables. Unlabeled values bind to the only variable, or in
// order when their count equals the number of variables. A tuple binds all
// variables at once and is kept as one assignment. When several variables
// each carry several values, the full Cartesian product is returned,
// deduplicated by the concatenated per-variable values.
func FromFinal(final string, variables []string) []Candidate {
	f := Parse(final)
	perVar := make(map[string][]Value)
	var out []Candidate
	var tuples []map[string]Value

	for _, c := range f.Clauses {
		switch {
		case c.Matrix != nil:
			out = append(out, Candidate{Matrix: c.Matrix})
		case c.Vector != nil:
			if len(variables) == len(c.Vector) && len(variables) > 1 {
				m := make(map[string]Value, len(variables))
				for i, v := range variables {
					m[v] = Value{Num: c.Vector[i]}
				}
				tuples = append(tuples, m)
			} else {
				out = append(out, Candidate{Vector: c.Vector})
			}
		case len(c.Values) == 0:
			// A malformed clause with nothing salvaged binds nothing.
		case c.Label != "":
			name := bindLabel(c.Label, variables)
			perVar[name] = append(perVar[name], c.Values...)
		default:
			switch {
			case len(variables) > 1 && len(c.Values) == len(variables):
				for i, v := range variables {
					perVar[v] = append(perVar[v], c.Values[i])
				}
			case len(variables) >= 1:
				perVar[variables[0]] = append(perVar[variables[0]], c.Values...)
			default:
				perVar[""] = append(perVar[""], c.Values...)
			}
		}
	}
	seen := make(map[string]bool)
	for _, m := range tuples {
		if k := assignmentKey(m); !seen[k] {
			seen[k] = true
			out = append(out, Candidate{Values: m})
		}
	}
	return append(out, product(perVar)...)
}

// assignmentKey concatenates the values of an assignment in name order.
func assignmentKey(m map[string]Value) string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	var key strings.Builder
	for _, n := range names {
		key.WriteString(strconv.FormatFloat(m[n].Num, 'g', 12, 64))
		key.WriteByte('|')
	}
	return key.String()
}

// bindLabel maps a clause label onto a variable name, matching on the last
// word of the label ("the value of x" binds to x).
func bindLabel(label string, variables []string) string {
	for _, v := range variables {
		if strings.EqualFold(label, v) {
			return v
		}
	}
	words := strings.Fields(label)
	last := words[len(words)-1]
	for _, v := range variables {
		if strings.EqualFold(last, v) {
			return v
		}
	}
	return label
}

func product(perVar map[string][]Value) []Candidate {
	if len(perVar) == 0 {
		return nil
	}
	names := make([]string, 0, len(perVar))
	for n := range perVar {
		names = append(names, n)
	}
	sort.Strings(names)

	combos := []map[string]Value{{}}
	for _, n := range names {
		var next []map[string]Value
		for _, partial := range combos {
			for _, v := range perVar[n] {
				m := make(map[string]Value, len(partial)+1)
				for k, x := range partial {
					m[k] = x
				}
				m[n] = v
				next = append(next, m)
			}
		}
		combos = next
	}

	seen := make(map[string]bool)
	var out []Candidate
	for _, m := range combos {
		k := assignmentKey(m)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, Candidate{Values: m})
	}
	return out
}
