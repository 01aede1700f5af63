package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/solvecheck/internal/model"
)

// Step is one stage applied to a problem's result.
//
// Design decision: an interface rather than a function type so a step can
// carry its collaborators (engine, store, run ID) and report a Name for logs.
type Step interface {
	// Do runs the step. A returned error is recorded in result.Error.
	Do(ctx context.Context, result *model.Result) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order for a single problem.
type Pipeline struct {
	steps []Step

	logger *slog.Logger

	// continueOnError keeps running later steps after a failure.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError lets later steps run after a step fails.
//
// A store failure should not hide the verdict, so the default pipeline
// enables it; a custom pipeline stops at the first error unless told otherwise.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step against result.
//
// The context is checked before each step. With continueOnError the last
// step error stays in result.Error and Execute returns nil; otherwise the
// first error stops the pipeline and is returned.
func (p *Pipeline) Execute(ctx context.Context, result *model.Result) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"problem", result.ProblemID,
				"reason", err,
			)
			result.Error = err.Error()
			return err
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"problem", result.ProblemID,
		)

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"problem", result.ProblemID,
				"error", err,
			)
			result.Error = err.Error()
			if !p.continueOnError {
				return err
			}
		}
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
