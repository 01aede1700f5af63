package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/solvecheck/internal/model"
)

// mockStep implements Step for tests.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, result *model.Result) error
	callCount int
}

func (m *mockStep) Do(ctx context.Context, result *model.Result) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, result)
	}
	return nil
}

func (m *mockStep) Name() string {
	return m.name
}

// stepFunc is a stateless Step safe for concurrent use.
type stepFunc struct {
	name string
	fn   func(ctx context.Context, result *model.Result) error
}

func (s stepFunc) Do(ctx context.Context, result *model.Result) error { return s.fn(ctx, result) }

func (s stepFunc) Name() string { return s.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestResult() *model.Result {
	return model.NewResult(&model.Problem{ID: "p1", Question: "Solve 2x+3=11", Final: "x=4"})
}

func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.continueOnError {
			t.Error("expected continueOnError to default to false")
		}
		if p.logger == nil {
			t.Error("expected a default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))
		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	if diff := cmp.Diff([]string{"first", "second", "third"}, p.StepNames()); diff != "" {
		t.Errorf("step names mismatch (-want +got):\n%s", diff)
	}
	if p.StepCount() != 3 {
		t.Errorf("expected 3 steps, got %d", p.StepCount())
	}
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) func(context.Context, *model.Result) error {
			return func(context.Context, *model.Result) error {
				order = append(order, name)
				return nil
			}
		}

		p := New(WithLogger(quietLogger()))
		p.AddSteps(
			&mockStep{name: "a", doFunc: record("a")},
			&mockStep{name: "b", doFunc: record("b")},
		)

		if err := p.Execute(context.Background(), newTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, order); diff != "" {
			t.Errorf("execution order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		second := &mockStep{name: "should-not-run"}

		p := New(WithLogger(quietLogger()))
		p.AddSteps(
			&mockStep{name: "failing", doFunc: func(context.Context, *model.Result) error { return expectedErr }},
			second,
		)

		res := newTestResult()
		err := p.Execute(context.Background(), res)
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if second.callCount != 0 {
			t.Error("second step should not have been called")
		}
		if res.Error != expectedErr.Error() {
			t.Errorf("expected result error %q, got %q", expectedErr.Error(), res.Error)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		second := &mockStep{name: "should-run"}

		p := New(WithContinueOnError(true), WithLogger(quietLogger()))
		p.AddSteps(
			&mockStep{name: "failing", doFunc: func(context.Context, *model.Result) error { return errors.New("boom") }},
			second,
		)

		res := newTestResult()
		if err := p.Execute(context.Background(), res); err != nil {
			t.Errorf("expected nil error with continueOnError, got %v", err)
		}
		if second.callCount != 1 {
			t.Errorf("expected second step to run once, got %d", second.callCount)
		}
		if res.Error != "boom" {
			t.Errorf("expected result error %q, got %q", "boom", res.Error)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "should-not-run"}
		p := New(WithLogger(quietLogger()))
		p.AddStep(step)

		res := newTestResult()
		err := p.Execute(ctx, res)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not have been called")
		}
		if res.Error == "" {
			t.Error("expected cancellation to be recorded on the result")
		}
	})
}
