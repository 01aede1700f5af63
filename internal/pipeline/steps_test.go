package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/verify"
)

// memoryStore is an in-memory ResultStore.
type memoryStore struct {
	mu    sync.Mutex
	saved map[string][]string
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{saved: make(map[string][]string)}
}

func (s *memoryStore) SaveResult(_ context.Context, runID string, result *model.Result) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[runID] = append(s.saved[runID], result.ProblemID)
	return nil
}

func (s *memoryStore) ids(runID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.saved[runID]...)
}

func TestVerifyStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		problem  *model.Problem
		status   model.AnswerStatus
		subject  model.Subject
		expected error
	}{
		{
			name:    "correct linear answer",
			problem: &model.Problem{ID: "a", Question: "Solve 2x + 3 = 11", Final: "x = 4"},
			status:  model.StatusMatches,
			subject: model.SubjectAlgebra,
		},
		{
			name:    "wrong linear answer",
			problem: &model.Problem{ID: "b", Question: "Solve 2x + 3 = 11", Final: "x = 5"},
			status:  model.StatusMismatch,
			subject: model.SubjectAlgebra,
		},
		{
			name:    "nothing to verify",
			problem: &model.Problem{ID: "c", Question: "Write an essay about rivers"},
			status:  model.StatusNotApplicable,
		},
		{
			name:     "missing problem",
			expected: ErrNoProblem,
		},
	}

	step := NewVerifyStep(verify.NewEngine())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := &model.Result{}
			if tt.problem != nil {
				res = model.NewResult(tt.problem)
			}
			err := step.Do(context.Background(), res)
			if !errors.Is(err, tt.expected) {
				t.Fatalf("expected error %v, got %v", tt.expected, err)
			}
			if tt.expected != nil {
				return
			}
			if res.Status != tt.status {
				t.Errorf("expected status %q, got %q", tt.status, res.Status)
			}
			if res.Subject != tt.subject {
				t.Errorf("expected subject %q, got %q", tt.subject, res.Subject)
			}
			if res.VerifiedAt.IsZero() {
				t.Error("expected VerifiedAt to be set")
			}
		})
	}
}

func TestStoreStep(t *testing.T) {
	t.Parallel()

	t.Run("saves under the run id", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		step := NewStoreStep(store, "run-1")
		if err := step.Do(context.Background(), newTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"p1"}, store.ids("run-1")); diff != "" {
			t.Errorf("saved ids mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("wraps store errors", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("disk full")
		store := newMemoryStore()
		store.err = sentinel
		err := NewStoreStep(store, "run-1").Do(context.Background(), newTestResult())
		if !errors.Is(err, sentinel) {
			t.Errorf("expected wrapped %v, got %v", sentinel, err)
		}
	})
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("without a store only verifies", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline(nil, nil, "run")
		if diff := cmp.Diff([]string{"verify"}, p.StepNames()); diff != "" {
			t.Errorf("step names mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("store failure keeps the verdict", func(t *testing.T) {
		t.Parallel()

		store := newMemoryStore()
		store.err = errors.New("locked")
		p := DefaultPipeline(verify.NewEngine(), store, "run", WithLogger(quietLogger()))
		if diff := cmp.Diff([]string{"verify", "store"}, p.StepNames()); diff != "" {
			t.Errorf("step names mismatch (-want +got):\n%s", diff)
		}

		res := model.NewResult(&model.Problem{ID: "a", Question: "Solve 2x + 3 = 11", Final: "x = 4"})
		if err := p.Execute(context.Background(), res); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != model.StatusMatches {
			t.Errorf("expected status %q, got %q", model.StatusMatches, res.Status)
		}
		if res.Error == "" {
			t.Error("expected the store error on the result")
		}
	})
}
