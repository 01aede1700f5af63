package verify

import (
	"math"
	"testing"

	"github.com/nao1215/solvecheck/internal/candidate"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/numeric"
	"github.com/nao1215/solvecheck/internal/quantity"
)

func problem(question, final string) *Problem {
	return NewProblem(&model.Problem{Question: question, Final: final})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	targets := []target{
		{label: "area", names: []string{"area", "a"}, asks: asks(`area`), value: 12},
		{label: "perimeter", names: []string{"perimeter", "p"}, asks: asks(`perimeter`), value: 14},
	}

	tests := []struct {
		name     string
		question string
		final    string
		checks   int
		ok       bool
	}{
		{"labeled answer", "find the area", "area = 12", 1, true},
		{"both labeled", "find both", "area = 12, perimeter = 15", 2, false},
		{"bare answer picks asked target", "what is the perimeter?", "14", 1, true},
		{"bare answer with no asked target", "what is it?", "14", 0, false},
		{"unrelated label", "find the area", "volume = 12", 0, false},
		{"malformed labeled answer", "find the area", "area = 12 +* 3", 1, false},
		{"malformed bare answer", "find the area", "12)/(", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checks := resolve(problem(tt.question, tt.final), targets)
			if len(checks) != tt.checks {
				t.Fatalf("expected %d checks, got %d (%+v)", tt.checks, len(checks), checks)
			}
			if len(checks) == 0 {
				return
			}
			all := true
			for _, c := range checks {
				all = all && c.OK
			}
			if all != tt.ok {
				t.Errorf("expected ok=%v, got %+v", tt.ok, checks)
			}
		})
	}
}

func TestResolveSingleTarget(t *testing.T) {
	t.Parallel()

	only := []target{{label: "probability", names: []string{"p"}, value: 0.25, anyNumber: true}}
	if checks := resolve(problem("anything", "7"), only[:1]); len(checks) != 1 || checks[0].OK {
		t.Errorf("expected one failing check, got %+v", checks)
	}
	if checks := resolve(problem("anything", "P(X=3) = 0.25"), only); len(checks) != 1 || !checks[0].OK {
		t.Errorf("expected the last number to be compared, got %+v", checks)
	}
}

func TestTargetCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		t        target
		question string
		val      candidate.Value
		expected bool
	}{
		{"rounded to two places", target{value: math.Pi}, "", candidate.Value{Num: 3.14, Decimals: 2}, true},
		{"too far", target{value: math.Pi}, "", candidate.Value{Num: 3.2, Decimals: 1}, false},
		{"alt accepted", target{value: 4, alts: []float64{4.5}}, "", candidate.Value{Num: 4.5, Decimals: 1}, true},
		{"unit converted", target{value: 0.005, kind: quantity.Current}, "", candidate.Value{Num: 5, Unit: "mA"}, true},
		{"display unit from question", target{value: 2500, kind: quantity.Pressure}, "what is the pressure in kPa?", candidate.Value{Num: 2.5, Decimals: 1}, true},
		{"rate without percent sign", target{value: 0.077, rate: true, tol: numeric.Loose}, "", candidate.Value{Num: 7.7, Decimals: 1}, true},
		{"rate with percent sign", target{value: 0.077, rate: true, tol: numeric.Loose}, "", candidate.Value{Num: 7.7, Decimals: 1, Unit: "%"}, true},
		{"celsius accepted for kelvin", target{value: 373.15, temp: true}, "", candidate.Value{Num: 100}, true},
		{"absolute compares magnitudes", target{value: -5, absolute: true}, "", candidate.Value{Num: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.t.label = tt.name
			c := tt.t.compare(problem(tt.question, "x"), []candidate.Value{tt.val})
			if c.OK != tt.expected {
				t.Errorf("expected ok=%v, got %+v", tt.expected, c)
			}
		})
	}
}

func TestTargetCompareNonFinite(t *testing.T) {
	t.Parallel()

	c := target{label: "nan", value: math.NaN()}.compare(problem("", "1"), []candidate.Value{{Num: 1}})
	if c.OK || c.Reason == "" {
		t.Errorf("expected a failing check with a reason, got %+v", c)
	}
}

func TestVectorChecks(t *testing.T) {
	t.Parallel()

	checks := vectorChecks("v", []float64{1, 2}, []float64{1, 2.5}, numeric.Reported)
	if len(checks) != 2 || !checks[0].OK || checks[1].OK {
		t.Errorf("expected pass then fail, got %+v", checks)
	}
	checks = vectorChecks("v", []float64{1, 2}, []float64{1}, numeric.Reported)
	if len(checks) != 1 || checks[0].OK {
		t.Errorf("expected one failing shape check, got %+v", checks)
	}
}

func TestRunCasesFirstReportedWins(t *testing.T) {
	t.Parallel()

	none := func(*Problem) []target { return nil }
	unreported := func(*Problem) []target {
		return []target{{label: "other", names: []string{"q"}, value: 1}}
	}
	reported := func(*Problem) []target {
		return []target{{label: "x", names: []string{"x"}, value: 2}}
	}
	checks := runCases(problem("", "x = 2"), none, unreported, reported)
	if len(checks) != 1 || checks[0].Label != "x" || !checks[0].OK {
		t.Errorf("expected the reported case to win, got %+v", checks)
	}
}
