package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/verify"
)

// ErrNoProblem is returned when a result carries no problem record.
var ErrNoProblem = errors.New("result has no problem")

// VerifyStep asks the engine for a verdict on the result's problem.
type VerifyStep struct {
	engine *verify.Engine
	now    func() time.Time
}

// NewVerifyStep creates a VerifyStep. A nil engine gets the default engine.
func NewVerifyStep(engine *verify.Engine) *VerifyStep {
	if engine == nil {
		engine = verify.NewEngine()
	}
	return &VerifyStep{engine: engine, now: time.Now}
}

// Name implements Step.
func (s *VerifyStep) Name() string { return "verify" }

// Do implements Step.
func (s *VerifyStep) Do(_ context.Context, result *model.Result) error {
	if result.Problem == nil {
		return ErrNoProblem
	}
	start := s.now()
	result.SetVerification(s.engine.Verify(result.Problem))
	result.VerifiedAt = s.now()
	result.Duration = result.VerifiedAt.Sub(start)
	return nil
}

// ResultStore persists verification results. database.ResultDB implements it.
type ResultStore interface {
	SaveResult(ctx context.Context, runID string, result *model.Result) error
}

// StoreStep saves the result under a run ID.
type StoreStep struct {
	store ResultStore
	runID string
}

// NewStoreStep creates a StoreStep.
func NewStoreStep(store ResultStore, runID string) *StoreStep {
	return &StoreStep{store: store, runID: runID}
}

// Name implements Step.
func (s *StoreStep) Name() string { return "store" }

// Do implements Step.
func (s *StoreStep) Do(ctx context.Context, result *model.Result) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveResult(ctx, s.runID, result); err != nil {
		return fmt.Errorf("save result %s: %w", result.ProblemID, err)
	}
	return nil
}

// DefaultPipeline builds verify → store. With a nil store only the verify
// step is added.
func DefaultPipeline(engine *verify.Engine, store ResultStore, runID string, opts ...Option) *Pipeline {
	opts = append([]Option{WithContinueOnError(true)}, opts...)
	p := New(opts...)
	p.AddStep(NewVerifyStep(engine))
	if store != nil {
		p.AddStep(NewStoreStep(store, runID))
	}
	return p
}
