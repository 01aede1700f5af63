package verify

import (
	"regexp"
	"strings"

	"github.com/nao1215/solvecheck/internal/candidate"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/quantity"
	"github.com/nao1215/solvecheck/internal/textnorm"
)

// Problem is the normalized, read-only view of a problem record that
// plugins work on. It is built once per verification call.
//
// Design decision: given quantities are read from Statement, never from
// Text, so that a student's intermediate step values are not mistaken for
// inputs. Text (which includes the steps) is only used for routing.
type Problem struct {
	// Record is the original record.
	Record *model.Problem

	// Question is the normalized question.
	Question string

	// Statement is the normalized question and raw text.
	Statement string

	// Text is the normalized question, raw text and every step field.
	Text string

	folded    string
	asked     string
	final     *candidate.Final
	equations []model.Equation
}

// NewProblem normalizes a record.
func NewProblem(rec *model.Problem) *Problem {
	if rec == nil {
		rec = &model.Problem{}
	}
	parts := []string{rec.Question, rec.RawText}
	for _, s := range rec.Steps {
		parts = append(parts, s.Before, s.After, s.Text, s.Action)
	}
	p := &Problem{
		Record:    rec,
		Question:  textnorm.Normalize(rec.Question),
		Statement: textnorm.Normalize(rec.Question + "\n" + rec.RawText),
		Text:      textnorm.Normalize(strings.Join(parts, "\n")),
		final:     candidate.Parse(rec.Final),
	}
	p.folded = textnorm.Fold(rec.Type + " " + p.Text + " " + p.final.Raw)
	p.asked = textnorm.Fold(p.Statement)
	p.equations = extractEquations(p)
	return p
}

// Final returns the parsed final answer.
func (p *Problem) Final() *candidate.Final { return p.final }

// Folded returns the lower-cased routing text.
func (p *Problem) Folded() string { return p.folded }

// Equations returns the equations of the statement, or of the first step
// that contains one.
func (p *Problem) Equations() []model.Equation { return p.equations }

// mentions reports whether the routing text contains any of the words.
func (p *Problem) mentions(words ...string) bool {
	for _, w := range words {
		if strings.Contains(p.folded, w) {
			return true
		}
	}
	return false
}

// asks reports whether the statement contains any of the words.
func (p *Problem) asks(words ...string) bool {
	for _, w := range words {
		if strings.Contains(p.asked, w) {
			return true
		}
	}
	return false
}

// raw reads a labeled number from the statement without unit conversion.
func (p *Problem) raw(l *regexp.Regexp) (float64, bool) {
	return quantity.FindRaw(p.Statement, l)
}

// si reads a labeled quantity from the statement in the base unit of kind.
func (p *Problem) si(l *regexp.Regexp, kind *quantity.Kind) (float64, bool) {
	return quantity.Find(p.Statement, l, kind)
}

// rate reads a labeled rate. "8%" and a bare "8" both read as 0.08; values
// at or below 1 without "%" are taken as fractions.
func (p *Problem) rate(l *regexp.Regexp) (float64, bool) {
	v, ok := quantity.FindPercent(p.Statement, l)
	if !ok {
		return 0, false
	}
	q, _ := quantity.FindValue(p.Statement, l, nil)
	if v == q.Value && v > 1 {
		v /= 100
	}
	return v, true
}

// temperature reads a labeled absolute temperature in kelvin.
func (p *Problem) temperature(l *regexp.Regexp) (float64, bool) {
	q, ok := quantity.FindValue(p.Statement, l, quantity.TemperatureUnits)
	if !ok {
		return 0, false
	}
	return quantity.ToKelvin(q.Value, q.Unit, false)
}

// delta reads a labeled temperature difference in kelvin.
func (p *Problem) delta(l *regexp.Regexp) (float64, bool) {
	q, ok := quantity.FindValue(p.Statement, l, quantity.TemperatureUnits)
	if !ok {
		return 0, false
	}
	return quantity.ToKelvin(q.Value, q.Unit, true)
}

// list reads a labeled number list from the statement.
func (p *Problem) list(l *regexp.Regexp) ([]float64, bool) {
	return quantity.ExtractNumberList(p.Statement, l)
}

// indexed reads indexed symbols such as R1, R2 from the statement, keyed
// by subscript.
func (p *Problem) indexed(prefix string, kind *quantity.Kind) quantity.Indexed {
	return quantity.FindIndexed(p.Statement, prefix, kind)
}

// indexPair returns the values with subscripts 1 and 2.
func indexPair(x quantity.Indexed) (float64, float64, bool) {
	a, ok1 := x.Get(1)
	b, ok2 := x.Get(2)
	return a, b, ok1 && ok2
}

var askedUnit = regexp.MustCompile(`\bin\s+([^\s,?;]+)`)

// displayUnit returns the unit of kind the question asks the answer in
// ("... in kPa?"), or "".
func (p *Problem) displayUnit(kind *quantity.Kind) string {
	for _, m := range askedUnit.FindAllStringSubmatch(p.Statement, -1) {
		u := strings.TrimRight(m[1], ".")
		if u == kind.Base() {
			return u
		}
		if _, ok := kind.ToBase(1, u); ok {
			return u
		}
	}
	return ""
}

// label builds a label pattern from space-separated symbols and words.
func label(symbols string, words ...string) *regexp.Regexp {
	return quantity.Label(strings.Fields(symbols), words)
}

// first returns the first value found by the readers.
func first(readers ...func() (float64, bool)) (float64, bool) {
	for _, r := range readers {
		if v, ok := r(); ok {
			return v, true
		}
	}
	return 0, false
}
