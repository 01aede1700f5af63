package verify

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/nao1215/solvecheck/internal/candidate"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/numeric"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// Verifier is a domain plugin for one subject.
//
// Design decision: Run returns (nil, nil) when the plugin does not apply.
// Not applying is the common case, so it is a value rather than an error;
// a returned error means something unexpected happened and the router
// treats it exactly like "no result".
type Verifier interface {
	// Subject returns the plugin's subject.
	Subject() model.Subject

	// Keywords returns the folded vocabulary used for routing scores.
	Keywords() []string

	// Matches reports whether the plugin might apply to the problem.
	Matches(p *Problem) bool

	// Run recomputes and compares. It returns nil when inputs are missing.
	Run(p *Problem) (*model.Verification, error)
}

// Methods recorded on verifications.
const (
	methodSubstitution = "substitution"
	methodClosedForm   = "closed-form"
	methodNumerical    = "numerical"
	methodSampling     = "sampling"
)

// target is one recomputed quantity that the final answer may report.
type target struct {
	// label is the check label, e.g. "current I = V/R".
	label string

	// names are the final-answer labels that report this quantity.
	names []string

	// asks selects this target for an unlabeled answer when it matches the
	// folded statement.
	asks *regexp.Regexp

	// value is the recomputed value in base units.
	value float64

	// alts are further accepted values (e.g. sample and population variance).
	alts []float64

	// tol defaults to numeric.Reported.
	tol numeric.Tolerance

	// kind converts reported values carrying a unit into base units.
	kind *quantity.Kind

	// rate accepts a percent written without "%" ("7.7" for 0.077).
	rate bool

	// temp accepts a temperature in kelvin or in degrees Celsius.
	temp bool

	// absolute compares magnitudes only.
	absolute bool

	// anyNumber lets an answer such as "P(X=3) = 0.25" report this target
	// through its last number.
	anyNumber bool
}

func asks(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}

// resolve compares the final answer against the targets. Labeled answers
// are matched by alias. An unlabeled single answer goes to the first target
// whose question pattern appears, or to the only target. Targets the final
// answer does not report produce no check.
func resolve(p *Problem, targets []target) []model.Check {
	f := p.Final()
	var checks []model.Check
	for _, t := range targets {
		if vals, ok := f.Lookup(t.names...); ok {
			checks = append(checks, t.compare(p, vals))
		}
	}
	if len(checks) > 0 || len(targets) == 0 {
		return checks
	}
	if vals, ok := f.Bare(); ok {
		if t, ok := pick(p, targets); ok {
			return []model.Check{t.compare(p, vals)}
		}
		return nil
	}
	if f.Malformed() {
		return []model.Check{model.FailedCheck("final answer "+f.Raw, "invalid expression")}
	}
	if len(targets) == 1 && targets[0].anyNumber {
		if xs := quantity.Numbers(f.Raw); len(xs) > 0 {
			v := candidate.Value{Num: xs[len(xs)-1], Decimals: decimalsOfLast(f.Raw)}
			return []model.Check{targets[0].compare(p, []candidate.Value{v})}
		}
	}
	return nil
}

// pick selects the target an unlabeled answer reports.
func pick(p *Problem, targets []target) (target, bool) {
	for _, t := range targets {
		if t.asks != nil && t.asks.MatchString(p.asked) {
			return t, true
		}
	}
	if len(targets) == 1 {
		return targets[0], true
	}
	return target{}, false
}

var lastNumber = regexp.MustCompile(`(\d+(?:\.\d+)?)\D*$`)

func decimalsOfLast(s string) int {
	m := lastNumber.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return quantity.Decimals(m[1])
}

// compare checks the reported values against the target. When several
// values are reported for one quantity, the closest one is compared.
func (t target) compare(p *Problem, vals []candidate.Value) model.Check {
	if math.IsNaN(t.value) || math.IsInf(t.value, 0) {
		return model.FailedCheck(t.label, "recomputed value is not finite")
	}
	tol := t.tol
	if tol == (numeric.Tolerance{}) {
		tol = numeric.Reported
	}
	display := ""
	if t.kind != nil {
		display = p.displayUnit(t.kind)
	}

	expected := append([]float64{t.value}, t.alts...)
	bestExp, bestRep, bestDiff := t.value, math.NaN(), math.Inf(1)
	bestOK := false
	for _, v := range vals {
		for _, r := range t.readings(v, display) {
			slack := tol
			if v.Decimals > 0 {
				slack = tol.WithAbs(numeric.RoundingSlack(v.Decimals) * math.Abs(r.scale))
			}
			for _, e := range expected {
				a, b := e, r.value
				if t.absolute {
					a, b = math.Abs(a), math.Abs(b)
				}
				ok := slack.Equal(a, b)
				if d := math.Abs(a - b); ok && !bestOK || ok == bestOK && d < bestDiff {
					bestExp, bestRep, bestDiff, bestOK = e, r.value, d, ok
				}
			}
		}
	}
	if math.IsNaN(bestRep) {
		return model.FailedCheck(t.label, "no reported value")
	}
	reason := ""
	if !bestOK {
		reason = fmt.Sprintf("expected %s, got %s", format(bestExp), format(bestRep))
	}
	return model.NewCheck(t.label, bestOK, bestExp, bestRep, reason)
}

// reading is one interpretation of a reported value in base units. scale
// is the factor applied to the written number.
type reading struct {
	value float64
	scale float64
}

// readings returns the interpretations of a reported value.
func (t target) readings(v candidate.Value, display string) []reading {
	out := []reading{{v.Num, 1}}
	if t.kind != nil {
		unit := v.Unit
		if unit == "" {
			unit = display
		}
		if unit != "" {
			if f, ok := t.kind.ToBase(1, unit); ok {
				out[0] = reading{v.Num * f, f}
			}
		}
	}
	if t.temp {
		if k, ok := quantity.ToKelvin(v.Num, v.Unit, false); ok && v.Unit != "" {
			out[0].value = k
		} else {
			out = append(out, reading{v.Num + 273.15, 1})
		}
	}
	switch {
	case t.rate && v.Unit == "%":
		out[0] = reading{v.Num / 100, 0.01}
	case t.rate && math.Abs(v.Num) > 1:
		out = append(out, reading{v.Num / 100, 0.01})
	}
	return out
}

// format renders a number compactly for check reasons.
func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// verification wraps checks for a plugin.
func verification(s model.Subject, method string, checks []model.Check) *model.Verification {
	return model.NewVerification(s, method, checks)
}

// subCase is one family of formulas inside a plugin. It returns the
// targets it could compute, or nil when its inputs are missing.
type subCase func(p *Problem) []target

// runCases returns the checks of the first sub-case whose targets the final
// answer reports.
func runCases(p *Problem, cases ...subCase) []model.Check {
	for _, c := range cases {
		ts := c(p)
		if len(ts) == 0 {
			continue
		}
		if checks := resolve(p, ts); len(checks) > 0 {
			return checks
		}
	}
	return nil
}

// findQuantity reads a labeled number and its unit token from the statement.
func findQuantity(p *Problem, l *regexp.Regexp, hints []string) (quantity.Quantity, bool) {
	return quantity.FindValue(p.Statement, l, hints)
}

// vectorChecks compares a reported vector component by component.
func vectorChecks(label string, expected, got []float64, tol numeric.Tolerance) []model.Check {
	if len(expected) != len(got) {
		return []model.Check{model.FailedCheck(label, fmt.Sprintf("expected %d components, got %d", len(expected), len(got)))}
	}
	checks := make([]model.Check, len(expected))
	for i := range expected {
		ok := tol.Equal(expected[i], got[i])
		reason := ""
		if !ok {
			reason = fmt.Sprintf("expected %s, got %s", format(expected[i]), format(got[i]))
		}
		checks[i] = model.NewCheck(fmt.Sprintf("%s[%d]", label, i), ok, expected[i], got[i], reason)
	}
	return checks
}
