package verify

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/solvecheck/internal/model"
)

func TestEngineScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		rec         model.Problem
		expectedOK  bool
		subject     model.Subject
		reasonMatch string
	}{
		{
			name:       "linear equation verified",
			rec:        model.Problem{Question: "Solve 2x+3=11", Final: "x=4"},
			expectedOK: true,
			subject:    model.SubjectAlgebra,
		},
		{
			name:        "linear equation wrong answer",
			rec:         model.Problem{Question: "Solve 2x+3=11", Final: "x=5"},
			expectedOK:  false,
			subject:     model.SubjectAlgebra,
			reasonMatch: "non-zero residual",
		},
		{
			name:       "mean of a data list",
			rec:        model.Problem{Question: "Find the mean of the data [2,4,4,4,5,5,7,9]", Final: "mean=5"},
			expectedOK: true,
			subject:    model.SubjectStatistics,
		},
		{
			name:       "ohm's law current",
			rec:        model.Problem{Question: "A circuit has V=10 V, R=2 ohm. Find the current.", Final: "I=5A"},
			expectedOK: true,
			subject:    model.SubjectCircuits,
		},
		{
			name:       "npv within reporting tolerance",
			rec:        model.Problem{Question: "A project has cash flows [-1000, 300, 300, 300, 300] at r=10%. Find the NPV.", Final: "npv=-49.18"},
			expectedOK: true,
			subject:    model.SubjectFinance,
		},
		{
			name:        "sqrt domain violation",
			rec:         model.Problem{Question: "Solve sqrt(x-1)=3", Final: "x=0"},
			expectedOK:  false,
			subject:     model.SubjectAlgebra,
			reasonMatch: "sqrt",
		},
	}

	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := e.Verify(&tt.rec)
			if v == nil {
				t.Fatal("expected a verification, got nil")
			}
			if v.Subject != tt.subject {
				t.Errorf("expected subject %s, got %s", tt.subject, v.Subject)
			}
			if v.AllVerified != tt.expectedOK {
				t.Errorf("expected AllVerified=%v, got %v (checks %+v)", tt.expectedOK, v.AllVerified, v.Checks)
			}
			if tt.reasonMatch != "" {
				found := false
				for _, c := range v.Checks {
					if strings.Contains(c.Reason, tt.reasonMatch) {
						found = true
					}
				}
				if !found {
					t.Errorf("expected a reason mentioning %q, got %+v", tt.reasonMatch, v.Checks)
				}
			}
		})
	}
}

func TestEngineScenarioSides(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	v := e.Verify(&model.Problem{Question: "Solve 2x+3=11", Final: "x=4"})
	if v == nil || len(v.Checks) != 1 {
		t.Fatalf("expected one check, got %+v", v)
	}
	c := v.Checks[0]
	if c.LHS == nil || c.RHS == nil || *c.LHS != 11 || *c.RHS != 11 {
		t.Errorf("expected lhs=rhs=11, got %+v", c)
	}

	v = e.Verify(&model.Problem{Question: "V=10, R=2", Final: "I=5A"})
	if v == nil || v.Checks[0].LHS == nil || *v.Checks[0].LHS != 5 {
		t.Errorf("expected lhs=5, got %+v", v)
	}
}

// fakeVerifier is a scripted plugin.
type fakeVerifier struct {
	subject  model.Subject
	keywords []string
	matches  bool
	result   *model.Verification
	err      error
	panics   bool
	calls    *[]model.Subject
}

func (f *fakeVerifier) Subject() model.Subject { return f.subject }
func (f *fakeVerifier) Keywords() []string     { return f.keywords }
func (f *fakeVerifier) Matches(*Problem) bool  { return f.matches }
func (f *fakeVerifier) Run(*Problem) (*model.Verification, error) {
	if f.calls != nil {
		*f.calls = append(*f.calls, f.subject)
	}
	if f.panics {
		panic("boom")
	}
	return f.result, f.err
}

func passing(s model.Subject) *model.Verification {
	return model.NewVerification(s, methodClosedForm, []model.Check{model.NewCheck("x", true, 1, 1, "")})
}

func TestEngineRouting(t *testing.T) {
	t.Parallel()

	rec := &model.Problem{Question: "a circuit with a resistor", Final: "4"}

	t.Run("higher score runs first", func(t *testing.T) {
		t.Parallel()

		var calls []model.Subject
		e := NewEngine(WithVerifiers(
			&fakeVerifier{subject: model.SubjectAlgebra, matches: true, result: passing(model.SubjectAlgebra), calls: &calls},
			&fakeVerifier{subject: model.SubjectCircuits, keywords: []string{"circuit", "resistor"}, matches: true, result: passing(model.SubjectCircuits), calls: &calls},
		))
		v := e.Verify(rec)
		if v == nil || v.Subject != model.SubjectCircuits {
			t.Fatalf("expected circuits verdict, got %+v", v)
		}
		if diff := cmp.Diff([]model.Subject{model.SubjectCircuits}, calls); diff != "" {
			t.Errorf("call order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("error panic and nil fall through", func(t *testing.T) {
		t.Parallel()

		e := NewEngine(WithVerifiers(
			&fakeVerifier{subject: model.SubjectAlgebra, matches: true, err: errors.New("broken")},
			&fakeVerifier{subject: model.SubjectGeometry, matches: true, panics: true},
			&fakeVerifier{subject: model.SubjectCalculus, matches: true},
			&fakeVerifier{subject: model.SubjectStatistics, matches: true, result: passing(model.SubjectStatistics)},
		))
		v := e.Verify(rec)
		if v == nil || v.Subject != model.SubjectStatistics {
			t.Errorf("expected statistics verdict, got %+v", v)
		}
	})

	t.Run("non matching plugins never run", func(t *testing.T) {
		t.Parallel()

		var calls []model.Subject
		e := NewEngine(WithVerifiers(
			&fakeVerifier{subject: model.SubjectAlgebra, matches: false, result: passing(model.SubjectAlgebra), calls: &calls},
		))
		if v := e.Verify(rec); v != nil {
			t.Errorf("expected nil, got %+v", v)
		}
		if len(calls) != 0 {
			t.Errorf("expected no calls, got %v", calls)
		}
	})

	t.Run("empty final answer", func(t *testing.T) {
		t.Parallel()

		e := NewEngine(WithVerifiers(&fakeVerifier{subject: model.SubjectAlgebra, matches: true, result: passing(model.SubjectAlgebra)}))
		if v := e.Verify(&model.Problem{Question: "Solve 2x=4", Final: "  "}); v != nil {
			t.Errorf("expected nil, got %+v", v)
		}
	})

	t.Run("nil record", func(t *testing.T) {
		t.Parallel()

		if v := NewEngine().Verify(nil); v != nil {
			t.Errorf("expected nil, got %+v", v)
		}
	})
}

func TestEngineOptions(t *testing.T) {
	t.Parallel()

	all := NewEngine().Subjects()
	if diff := cmp.Diff(model.Subjects(), all); diff != "" {
		t.Errorf("subjects mismatch (-want +got):\n%s", diff)
	}

	e := NewEngine(WithDisabled(model.SubjectFinance, model.SubjectAlgebra))
	for _, s := range e.Subjects() {
		if s == model.SubjectFinance || s == model.SubjectAlgebra {
			t.Errorf("expected %s to be disabled", s)
		}
	}
	if got := len(e.Subjects()); got != len(all)-2 {
		t.Errorf("expected %d subjects, got %d", len(all)-2, got)
	}

	v := e.Verify(&model.Problem{Question: "A project has cash flows [-1000, 300, 300, 300, 300] at r=10%. Find the NPV.", Final: "npv=-49.18"})
	if v != nil && v.Subject == model.SubjectFinance {
		t.Errorf("expected finance to stay disabled, got %+v", v)
	}
}

func TestScoreTypeHint(t *testing.T) {
	t.Parallel()

	p := NewProblem(&model.Problem{Type: "statistics", Question: "find it", Final: "3"})
	if got := Score(NewStatisticsVerifier(), p); got < 1 {
		t.Errorf("expected the type hint to add 1, got %v", got)
	}
	if got := Score(NewLinalgVerifier(), p); got >= 1 {
		t.Errorf("expected no bonus for another subject, got %v", got)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	if got := Status(nil); got != model.StatusNotApplicable {
		t.Errorf("expected %s, got %s", model.StatusNotApplicable, got)
	}
	if got := Status(passing(model.SubjectAlgebra)); got != model.StatusMatches {
		t.Errorf("expected %s, got %s", model.StatusMatches, got)
	}
}
