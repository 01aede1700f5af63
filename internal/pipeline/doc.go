// Package pipeline runs problem records through a sequence of steps.
//
// Each problem gets a model.Result that the steps fill in: VerifyStep asks the
// verification engine for a verdict and StoreStep persists the outcome. The
// BatchProcessor fans a slice of problems out over a bounded number of
// goroutines with errgroup and returns results in input order.
//
// Design decision: verification itself is synchronous and never looks at the
// context. Cancellation is checked between steps and before each problem so
// that a run can stop early without the engine carrying I/O concerns.
package pipeline
