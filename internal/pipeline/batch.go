package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/solvecheck/internal/model"
)

// DefaultConcurrency is the number of problems verified at once.
const DefaultConcurrency = 10

// BatchProcessor verifies many problems concurrently.
//
// Design decision: each problem gets a fresh pipeline from the factory so
// steps holding per-problem state never leak between goroutines.
type BatchProcessor struct {
	pipelineFactory func() *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the batch logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the concurrency limit. Values below 1 are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch verifies every problem and returns results in input order.
//
// A failing pipeline never cancels the others; its error is kept on the
// result. The returned error is non-nil only when ctx ends first, and
// problems not started by then have no result (nil entry).
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, problems []*model.Problem) ([]*model.Result, error) {
	bp.logger.Info("starting batch",
		"total", len(problems),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.Result, len(problems))
	err := bp.run(ctx, problems, func(res *model.Result, i int) {
		results[i] = res
	})

	bp.logger.Info("batch complete",
		"total", len(problems),
		"elapsed", time.Since(start),
	)
	return results, err
}

// ProcessBatchWithCallback verifies problems and calls callback as each one
// finishes. The callback runs on the worker goroutine and must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	problems []*model.Problem,
	callback func(result *model.Result, index int),
) error {
	return bp.run(ctx, problems, callback)
}

func (bp *BatchProcessor) run(ctx context.Context, problems []*model.Problem, done func(*model.Result, int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, problem := range problems {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if problem == nil {
				return nil
			}
			res := model.NewResult(problem)
			if err := bp.pipelineFactory().Execute(gctx, res); err != nil {
				bp.logger.Warn("problem failed",
					"problem", res.ProblemID,
					"error", err,
				)
			}
			done(res, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
