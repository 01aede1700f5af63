package verify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/solvecheck/internal/chem"
	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/numeric"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// gasConstantLatm is R in L*atm/(mol*K).
const gasConstantLatm = 0.08206

// ChemistryVerifier recomputes molar masses, equation balances,
// stoichiometric masses, yields, concentrations and gas law terms.
type ChemistryVerifier struct{}

// NewChemistryVerifier creates a ChemistryVerifier.
func NewChemistryVerifier() *ChemistryVerifier { return &ChemistryVerifier{} }

// Subject returns model.SubjectChemistry.
func (c *ChemistryVerifier) Subject() model.Subject { return model.SubjectChemistry }

// Keywords returns the routing vocabulary.
func (c *ChemistryVerifier) Keywords() []string {
	return []string{
		"molar", "mole", "mol", "balance", "reaction", "yield", "solution", "dilut",
		"molarity", "concentration", "grams of", "stoichiometr", "reactant", "product", "->", "g/mol",
	}
}

// Matches reports whether the problem uses chemistry vocabulary or
// contains a reaction arrow.
func (c *ChemistryVerifier) Matches(p *Problem) bool {
	return p.mentions(c.Keywords()...)
}

// Run balances a stated equation when asked to, and otherwise tries the
// quantitative families in order.
func (c *ChemistryVerifier) Run(p *Problem) (*model.Verification, error) {
	if checks := balanceChecks(p); len(checks) > 0 {
		return verification(model.SubjectChemistry, methodNumerical, checks), nil
	}
	checks := runCases(p, percentYieldCase, stoichiometryCase, dilutionCase, molarityCase, chemGasCase, moleCase, molarMassCase)
	return verification(model.SubjectChemistry, methodClosedForm, checks), nil
}

var (
	reactionPattern = regexp.MustCompile(`([0-9A-Z(\[][A-Za-z0-9()\[\]*\s+]*?)\s*(?:->|=>|<=>|<->)\s*([0-9A-Z(\[][A-Za-z0-9()\[\]*\s+]*[A-Za-z0-9)\]])`)
	formulaToken    = `(?:\d*[A-Z][a-z]?\d*|\([A-Za-z0-9]+\)\d*)+(?:\*\d*(?:[A-Z][a-z]?\d*)+)?`
	molarMassOf     = regexp.MustCompile(`(?i:molar mass|molecular weight|formula mass|molecular mass)\s+(?:of\s+)?(` + formulaToken + `)`)
	massOf          = regexp.MustCompile(`(\d+(?:\.\d+)?(?:[eE][-+]?\d+)?)\s*(kg|mg|g|grams?)\s+(?:of\s+)?(` + formulaToken + `)`)
	molesOf         = regexp.MustCompile(`(\d+(?:\.\d+)?(?:[eE][-+]?\d+)?)\s*(mmol|mol|moles?)\s+(?:of\s+)?(` + formulaToken + `)`)
	askedOf         = regexp.MustCompile(`(?i:grams|mass|moles|mol|amount|how much)\s+(?:of\s+)?(` + formulaToken + `)\s*(?:\(|will|can|is|are|would|could|produced|formed|needed|required|\?|$)`)
)

// statedReaction returns the reaction written in the statement.
func statedReaction(p *Problem) (*chem.Equation, bool) {
	m := reactionPattern.FindStringSubmatch(p.Statement)
	if m == nil {
		return nil, false
	}
	lhs := m[1]
	if terms := strings.Split(lhs, "+"); len(terms) > 0 {
		fields := strings.Fields(terms[0])
		if len(fields) > 0 {
			lead := fields[len(fields)-1]
			if len(fields) > 1 && isCount(fields[len(fields)-2]) {
				lead = fields[len(fields)-2] + lead
			}
			terms[0] = lead
		}
		lhs = strings.Join(terms, "+")
	}
	rhs := m[2]
	if terms := strings.Split(rhs, "+"); len(terms) > 0 {
		last := len(terms) - 1
		fields := strings.Fields(terms[last])
		if len(fields) > 0 {
			tail := fields[0]
			if len(fields) > 1 && isCount(fields[0]) {
				tail += fields[1]
			}
			terms[last] = tail
		}
		rhs = strings.Join(terms, "+")
	}
	eq, err := chem.ParseEquation(lhs + " -> " + rhs)
	if err != nil {
		return nil, false
	}
	return eq, true
}

func isCount(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// balanceChecks compares reported coefficients with the balanced
// reaction. The answer may be a balanced equation or a coefficient list;
// any positive multiple of the smallest coefficients is accepted.
func balanceChecks(p *Problem) []model.Check {
	if !p.asks("balanc", "coefficient") {
		return nil
	}
	eq, ok := statedReaction(p)
	if !ok {
		return nil
	}
	want, err := eq.Balance()
	if err != nil {
		return nil
	}
	got, ok := reportedCoefficients(p, eq)
	if !ok {
		return nil
	}
	expected := make([]float64, len(want))
	for i, w := range want {
		expected[i] = float64(w)
	}
	if len(got) != len(expected) || got[0] == 0 {
		return vectorChecks("balanced coefficients", expected, got, numeric.Tight)
	}
	scale := expected[0] / got[0]
	scaled := make([]float64, len(got))
	for i, g := range got {
		scaled[i] = g * scale
	}
	checks := vectorChecks("balanced coefficients", expected, scaled, numeric.Tight)
	for i, s := range eq.Species() {
		reported := got[i]
		checks[i].Label = fmt.Sprintf("coefficient of %s", s.Formula)
		checks[i].RHS = &reported
	}
	return checks
}

// reportedCoefficients reads coefficients from a reported equation,
// matched by formula, or from a plain list of numbers.
func reportedCoefficients(p *Problem, eq *chem.Equation) ([]float64, bool) {
	raw := p.Final().Raw
	if rep, err := chem.ParseEquation(raw); err == nil {
		byFormula := map[string]int{}
		for _, s := range rep.Species() {
			byFormula[s.Formula] = s.Coefficient
		}
		out := make([]float64, 0, len(eq.Species()))
		for _, s := range eq.Species() {
			c, ok := byFormula[s.Formula]
			if !ok {
				return nil, false
			}
			out = append(out, float64(c))
		}
		return out, true
	}
	nums := quantity.Numbers(raw)
	if len(nums) == 0 {
		return nil, false
	}
	return nums, true
}

func molarMassCase(p *Problem) []target {
	m := molarMassOf.FindStringSubmatch(p.Statement)
	if m == nil {
		return nil
	}
	mm, err := chem.MolarMass(m[1])
	if err != nil {
		return nil
	}
	return []target{{label: "molar mass of " + m[1], names: []string{"m", "mm", "mw", "molar mass", "molecular weight", "molecular mass"}, value: mm}}
}

// gramsOf returns "x g of Formula" as grams and the formula.
func gramsOf(s string) (float64, string, bool) {
	m := massOf.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	unit := m[2]
	if strings.HasPrefix(unit, "gram") {
		unit = "g"
	}
	kg, ok := quantity.Mass.ToBase(v, unit)
	if !ok {
		return 0, "", false
	}
	return kg * 1000, m[3], true
}

// molesIn returns "x mol of Formula" as moles and the formula.
func molesIn(s string) (float64, string, bool) {
	m := molesOf.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	if m[2] == "mmol" {
		v /= 1000
	}
	return v, m[3], true
}

var (
	moleNames = []string{"n", "moles", "mol", "number of moles", "amount"}
	gramNames = []string{"m", "mass", "grams", "g"}
)

func moleCase(p *Problem) []target {
	if g, f, ok := gramsOf(p.Statement); ok && p.asks("moles", "how many mol", "number of mol", "amount of substance") {
		mm, err := chem.MolarMass(f)
		if err != nil || mm == 0 {
			return nil
		}
		return []target{{label: "moles m/M of " + f, names: moleNames, value: g / mm}}
	}
	if n, f, ok := molesIn(p.Statement); ok && p.asks("mass", "grams", "how many g") {
		mm, err := chem.MolarMass(f)
		if err != nil {
			return nil
		}
		return []target{{label: "mass n*M of " + f, names: gramNames, value: n * mm}}
	}
	return nil
}

// stoichiometryCase converts a given amount of one species into the asked
// amount of another through the balanced coefficients.
func stoichiometryCase(p *Problem) []target {
	eq, ok := statedReaction(p)
	if !ok {
		return nil
	}
	theoretical, formula, grams, ok := theoreticalYield(p, eq)
	if !ok {
		return nil
	}
	if grams {
		return []target{{label: "stoichiometric mass of " + formula, names: append([]string{"theoretical yield", "yield"}, gramNames...), value: theoretical}}
	}
	return []target{{label: "stoichiometric moles of " + formula, names: moleNames, value: theoretical}}
}

// theoreticalYield returns the amount of the asked species that the given
// species produces or consumes, in grams when the question asks for mass.
func theoreticalYield(p *Problem, eq *chem.Equation) (float64, string, bool, bool) {
	coef, err := eq.Balance()
	if err != nil {
		return 0, "", false, false
	}
	index := map[string]int{}
	for i, s := range eq.Species() {
		index[s.Formula] = i
	}
	var given float64
	var from string
	if g, f, ok := gramsOf(p.Statement); ok {
		mm, err := chem.MolarMass(f)
		if err != nil || mm == 0 {
			return 0, "", false, false
		}
		given, from = g/mm, f
	} else if n, f, ok := molesIn(p.Statement); ok {
		given, from = n, f
	} else {
		return 0, "", false, false
	}
	i, ok := index[from]
	if !ok {
		return 0, "", false, false
	}
	to := ""
	for _, m := range askedOf.FindAllStringSubmatch(p.Statement, -1) {
		if _, ok := index[m[1]]; ok && m[1] != from {
			to = m[1]
		}
	}
	j, ok := index[to]
	if !ok {
		return 0, "", false, false
	}
	n := given * float64(coef[j]) / float64(coef[i])
	if p.asks("mole", "mol ") && !p.asks("grams", "mass", "how many g") {
		return n, to, false, true
	}
	mm, err := chem.MolarMass(to)
	if err != nil {
		return 0, "", false, false
	}
	return n * mm, to, true, true
}

var (
	lblActual      = label("", "actual yield", "obtained", "isolated", "recovered", "collected")
	lblTheoretical = label("", "theoretical yield", "expected yield")
)

func percentYieldCase(p *Problem) []target {
	if !p.asks("percent yield", "% yield", "percentage yield") {
		return nil
	}
	actual, ok := findGrams(p, lblActual)
	if !ok {
		return nil
	}
	theoretical, ok := findGrams(p, lblTheoretical)
	if !ok {
		eq, okEq := statedReaction(p)
		if !okEq {
			return nil
		}
		y, _, grams, okY := theoreticalYield(p, eq)
		if !okY || !grams {
			return nil
		}
		theoretical = y
	}
	if theoretical == 0 {
		return nil
	}
	return []target{{label: "percent yield actual/theoretical", names: []string{"percent yield", "yield", "% yield", "percentage yield"}, value: actual / theoretical, rate: true}}
}

// findGrams reads a labeled mass in grams.
func findGrams(p *Problem, l *regexp.Regexp) (float64, bool) {
	kg, ok := p.si(l, quantity.Mass)
	return kg * 1000, ok
}

var (
	lblConcentration = label("M C c", "molarity", "concentration", "molar")
	lblSolution      = label("V", "volume", "solution volume", "dissolved in", "diluted to", "to make")
)

// liters reads a labeled volume in liters.
func liters(p *Problem, l *regexp.Regexp) (float64, bool) {
	v, ok := p.si(l, quantity.Volume)
	return v * 1000, ok
}

func molarityCase(p *Problem) []target {
	if !p.asks("molarity", "concentration", "molar") {
		return nil
	}
	v, ok := liters(p, lblSolution)
	if !ok || v == 0 {
		return nil
	}
	n, _, ok := molesIn(p.Statement)
	if !ok {
		g, f, okG := gramsOf(p.Statement)
		if !okG {
			return nil
		}
		mm, err := chem.MolarMass(f)
		if err != nil || mm == 0 {
			return nil
		}
		n = g / mm
	}
	return []target{{label: "molarity n/V", names: []string{"m", "c", "molarity", "concentration"}, value: n / v, kind: quantity.Concentration}}
}

// dilutionCase solves C1V1 = C2V2 for the missing term. Volumes only need
// matching units, so they are read raw.
func dilutionCase(p *Problem) []target {
	if !p.asks("dilut") {
		return nil
	}
	cs := p.indexed("C", quantity.Concentration)
	if len(cs) == 0 {
		cs = p.indexed("M", quantity.Concentration)
	}
	vs := p.indexed("V", nil)
	c1, okC1 := cs.Get(1)
	c2, okC2 := cs.Get(2)
	v1, okV1 := vs.Get(1)
	v2, okV2 := vs.Get(2)
	concentration := []string{"concentration", "molarity", "c", "m"}
	volume := []string{"volume", "v"}
	switch {
	case okC1 && okV1 && okC2 && !okV2 && c2 != 0:
		return []target{{label: "dilution V2 = C1V1/C2", names: append([]string{"v2", "v_2", "final volume"}, volume...), value: c1 * v1 / c2}}
	case okC1 && okV1 && !okC2 && okV2 && v2 != 0:
		return []target{{label: "dilution C2 = C1V1/V2", names: append([]string{"c2", "c_2", "m2", "m_2", "final concentration"}, concentration...), value: c1 * v1 / v2, kind: quantity.Concentration}}
	case okC1 && !okV1 && okC2 && okV2 && c1 != 0:
		return []target{{label: "dilution V1 = C2V2/C1", names: append([]string{"v1", "v_1", "initial volume", "stock volume"}, volume...), value: c2 * v2 / c1}}
	case !okC1 && okV1 && okC2 && okV2 && v1 != 0:
		return []target{{label: "dilution C1 = C2V2/V1", names: append([]string{"c1", "c_1", "m1", "m_1", "initial concentration", "stock concentration"}, concentration...), value: c2 * v2 / v1, kind: quantity.Concentration}}
	}
	return nil
}

// chemGasCase is PV = nRT in atmospheres and liters.
func chemGasCase(p *Problem) []target {
	if !p.asks("gas", "stp", "atm") {
		return nil
	}
	pr, okP := p.si(lblPressure, quantity.Pressure)
	pr /= atmospheric
	v, okV := liters(p, lblVolumeV)
	n, okN := p.si(lblMoles, quantity.Amount)
	if !okN {
		if g, f, ok := gramsOf(p.Statement); ok {
			if mm, err := chem.MolarMass(f); err == nil && mm > 0 {
				n, okN = g/mm, true
			}
		}
	}
	t, okT := p.temperature(lblTemp)
	if p.asks("stp") {
		if !okP {
			pr, okP = 1, true
		}
		if !okT {
			t, okT = 273.15, true
		}
	}
	switch {
	case okV && okN && okT && !okP && v != 0:
		return []target{{label: "pressure nRT/V (atm)", names: []string{"p", "pressure"}, value: n * gasConstantLatm * t / v}}
	case okP && okN && okT && !okV && pr != 0:
		return []target{{label: "volume nRT/P (L)", names: []string{"v", "volume"}, value: n * gasConstantLatm * t / pr}}
	case okP && okV && okT && !okN && t != 0:
		return []target{{label: "moles PV/(RT)", names: moleNames, value: pr * v / (gasConstantLatm * t)}}
	case okP && okV && okN && !okT && n != 0:
		return []target{{label: "temperature PV/(nR)", names: []string{"t", "temperature"}, value: pr * v / (n * gasConstantLatm), temp: true}}
	}
	return nil
}
