package verify

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nao1215/solvecheck/internal/model"
)

// Engine routes a problem to the domain plugins and returns the first
// verification one of them produces.
//
// Design decision: the engine holds only its immutable plugin list and a
// logger, so one Engine may verify many problems concurrently.
type Engine struct {
	verifiers []Verifier
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger    *slog.Logger
	disabled  map[model.Subject]bool
	verifiers []Verifier
}

// WithLogger sets the logger used for plugin failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDisabled removes the plugins of the given subjects.
func WithDisabled(subjects ...model.Subject) Option {
	return func(o *engineOptions) {
		for _, s := range subjects {
			o.disabled[s] = true
		}
	}
}

// WithVerifiers replaces the built-in plugin list.
func WithVerifiers(vs ...Verifier) Option {
	return func(o *engineOptions) {
		o.verifiers = vs
	}
}

// Verifiers returns the built-in plugins in declaration order.
func Verifiers() []Verifier {
	return []Verifier{
		NewAlgebraVerifier(),
		NewGeometryVerifier(),
		NewCalculusVerifier(),
		NewPhysicsVerifier(),
		NewCircuitsVerifier(),
		NewThermoVerifier(),
		NewHeatVerifier(),
		NewFluidsVerifier(),
		NewMaterialsVerifier(),
		NewStaticsVerifier(),
		NewChemistryVerifier(),
		NewFinanceVerifier(),
		NewEconomicsVerifier(),
		NewAccountingVerifier(),
		NewStatisticsVerifier(),
		NewLinalgVerifier(),
	}
}

// NewEngine creates an Engine with the built-in plugins.
func NewEngine(opts ...Option) *Engine {
	o := &engineOptions{
		logger:    slog.Default(),
		disabled:  make(map[model.Subject]bool),
		verifiers: Verifiers(),
	}
	for _, opt := range opts {
		opt(o)
	}
	e := &Engine{logger: o.logger}
	for _, v := range o.verifiers {
		if !o.disabled[v.Subject()] {
			e.verifiers = append(e.verifiers, v)
		}
	}
	return e
}

// Subjects returns the subjects of the enabled plugins in declaration order.
func (e *Engine) Subjects() []model.Subject {
	out := make([]model.Subject, len(e.verifiers))
	for i, v := range e.verifiers {
		out[i] = v.Subject()
	}
	return out
}

// Verify verifies one problem record. It returns nil when no plugin could
// verify the answer.
func (e *Engine) Verify(rec *model.Problem) *model.Verification {
	return e.VerifyProblem(NewProblem(rec))
}

// VerifyProblem verifies an already normalized problem.
func (e *Engine) VerifyProblem(p *Problem) *model.Verification {
	if strings.TrimSpace(p.Record.Final) == "" {
		return nil
	}
	type scored struct {
		v     Verifier
		score float64
	}
	var ranked []scored
	for _, v := range e.verifiers {
		if e.matches(v, p) {
			ranked = append(ranked, scored{v, Score(v, p)})
		}
	}
	if len(ranked) == 0 {
		return nil
	}
	fallback := make([]Verifier, len(ranked))
	for i, s := range ranked {
		fallback[i] = s.v
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	for _, s := range ranked {
		if v := e.run(s.v, p); v != nil {
			return v
		}
	}
	// The score is a heuristic; give every matching plugin a second chance
	// in declaration order.
	for _, v := range fallback {
		if out := e.run(v, p); out != nil {
			return out
		}
	}
	return nil
}

// Score returns the keyword density of a plugin over the routing text. A
// classifier type naming the plugin's subject adds one.
func Score(v Verifier, p *Problem) float64 {
	words := len(strings.Fields(p.folded))
	if words == 0 {
		return 0
	}
	hits := 0
	for _, k := range v.Keywords() {
		hits += strings.Count(p.folded, k)
	}
	score := float64(hits) / float64(words)
	if s, ok := model.ParseSubject(strings.ToLower(strings.TrimSpace(p.Record.Type))); ok && s == v.Subject() {
		score++
	}
	return score
}

func (e *Engine) matches(v Verifier, p *Problem) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("plugin panicked while matching", "subject", v.Subject(), "panic", fmt.Sprint(r))
			ok = false
		}
	}()
	return v.Matches(p)
}

// run invokes a plugin, converting errors and panics into no result.
func (e *Engine) run(v Verifier, p *Problem) (out *model.Verification) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("plugin panicked", "subject", v.Subject(), "problem", p.Record.DisplayID(), "panic", fmt.Sprint(r))
			out = nil
		}
	}()
	res, err := v.Run(p)
	if err != nil {
		e.logger.Debug("plugin failed", "subject", v.Subject(), "problem", p.Record.DisplayID(), "error", err)
		return nil
	}
	if res == nil || len(res.Checks) == 0 {
		return nil
	}
	return res
}

// Status maps a verification to the tri-state answer status.
func Status(v *model.Verification) model.AnswerStatus {
	return model.StatusOf(v)
}
