package verify

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/solvecheck/internal/expr"
	"github.com/nao1215/solvecheck/internal/model"
)

// EconomicsVerifier recomputes market equilibrium, surplus, tax incidence,
// elasticity and macroeconomic identities.
type EconomicsVerifier struct{}

// NewEconomicsVerifier creates an EconomicsVerifier.
func NewEconomicsVerifier() *EconomicsVerifier { return &EconomicsVerifier{} }

// Subject returns model.SubjectEconomics.
func (e *EconomicsVerifier) Subject() model.Subject { return model.SubjectEconomics }

// Keywords returns the routing vocabulary.
func (e *EconomicsVerifier) Keywords() []string {
	return []string{
		"demand", "supply", "equilibrium", "surplus", "elasticity", "gdp", "inflation", "cpi",
		"deflator", "unemploy", "labor force", "money multiplier", "reserve", "tax per unit",
		"price ceiling", "price floor", "consumption", "nominal", "real",
	}
}

// Matches reports whether the problem uses economics vocabulary.
func (e *EconomicsVerifier) Matches(p *Problem) bool {
	return p.mentions(e.Keywords()...)
}

// Run tries the economics families in order.
func (e *EconomicsVerifier) Run(p *Problem) (*model.Verification, error) {
	checks := runCases(p,
		taxCase, controlCase, marketCase, arcElasticityCase, gdpCase, deflatorCase,
		inflationCase, fisherCase, multiplierCase, laborCase,
	)
	return verification(model.SubjectEconomics, methodClosedForm, checks), nil
}

// line is a linear schedule Q = a + b*P.
type line struct {
	a, b float64
}

// at returns the quantity at price p.
func (l line) at(p float64) float64 { return l.a + l.b*p }

// zeroPrice returns the price at which the quantity is zero.
func (l line) zeroPrice() float64 { return -l.a / l.b }

var schedulePattern = regexp.MustCompile(`\b([QP])\s*_?\s*(d|s|D|S|demand|supply)?\s*(?:\(\s*[PQ]\s*\))?\s*=\s*([^,;=]+?)(?:[,;]|\.\s|\.$|\s+and\s|\s+where\s|$)`)

// schedules reads the demand and supply lines. Labels d and s decide the
// side; unlabeled lines are oriented by slope.
func schedules(p *Problem) (line, line, bool) {
	var demand, supply *line
	for _, m := range schedulePattern.FindAllStringSubmatch(p.Statement, -1) {
		lhs, side, rhs := m[1], strings.ToLower(m[2]), m[3]
		other := "P"
		if lhs == "P" {
			other = "Q"
		}
		e, err := expr.Parse(rhs)
		if err != nil {
			continue
		}
		vars := e.Variables()
		if len(vars) != 1 || vars[0] != other {
			continue
		}
		c, err1 := e.Eval(map[string]float64{other: 0})
		one, err2 := e.Eval(map[string]float64{other: 1})
		if err1 != nil || err2 != nil || one == c {
			continue
		}
		l := line{a: c, b: one - c}
		if lhs == "P" {
			// P = c + dQ  =>  Q = -c/d + P/d
			l = line{a: -l.a / l.b, b: 1 / l.b}
		}
		switch {
		case strings.HasPrefix(side, "d"):
			demand = &l
		case strings.HasPrefix(side, "s"):
			supply = &l
		case l.b < 0 && demand == nil:
			demand = &l
		case l.b > 0 && supply == nil:
			supply = &l
		}
	}
	if demand == nil || supply == nil || demand.b == supply.b {
		return line{}, line{}, false
	}
	return *demand, *supply, true
}

// equilibrium returns the market clearing price and quantity.
func equilibrium(d, s line) (float64, float64) {
	price := (s.a - d.a) / (d.b - s.b)
	return price, d.at(price)
}

// consumerSurplus is the area under demand above the price.
func consumerSurplus(d line, price, q float64) float64 {
	return 0.5 * q * (d.zeroPrice() - price)
}

// producerSurplus is the area above supply below the price, starting at
// the lowest price with non-negative supply.
func producerSurplus(s line, price float64) float64 {
	lo := math.Max(0, s.zeroPrice())
	if price <= lo {
		return 0
	}
	integral := func(x float64) float64 { return s.a*x + s.b*x*x/2 }
	return integral(price) - integral(lo)
}

var (
	priceNames    = []string{"p", "p*", "pe", "p_e", "price", "equilibrium price"}
	quantityNames = []string{"q", "q*", "qe", "q_e", "quantity", "equilibrium quantity"}
)

func marketCase(p *Problem) []target {
	d, s, ok := schedules(p)
	if !ok {
		return nil
	}
	price, q := equilibrium(d, s)
	ts := []target{
		{label: "equilibrium price Qd = Qs", names: priceNames, asks: asks(`equilibrium price|price`), value: price},
		{label: "equilibrium quantity", names: quantityNames, asks: asks(`equilibrium quantity|quantity`), value: q},
		{label: "consumer surplus", names: []string{"cs", "consumer surplus"}, asks: asks(`consumer surplus`), value: consumerSurplus(d, price, q)},
		{label: "producer surplus", names: []string{"ps", "producer surplus"}, asks: asks(`producer surplus`), value: producerSurplus(s, price)},
		{label: "total surplus", names: []string{"ts", "total surplus", "social surplus"}, asks: asks(`total surplus|social surplus`), value: consumerSurplus(d, price, q) + producerSurplus(s, price)},
	}
	if q != 0 {
		ts = append(ts,
			target{label: "demand elasticity at equilibrium", names: []string{"ed", "e_d", "price elasticity of demand", "elasticity of demand", "elasticity"}, asks: asks(`elasticity of demand|demand elasticity|elasticity`), value: d.b * price / q, absolute: true},
			target{label: "supply elasticity at equilibrium", names: []string{"es", "e_s", "price elasticity of supply", "elasticity of supply"}, asks: asks(`elasticity of supply|supply elasticity`), value: s.b * price / q, absolute: true},
		)
	}
	// Questions about the surpluses come before the generic price pattern.
	if p.asks("surplus", "elasticity") {
		ts = slices.Concat(ts[2:], ts[:2])
	}
	return ts
}

var (
	lblTax     = label("t T", "tax", "per-unit tax", "tax per unit", "excise tax", "specific tax")
	lblCeiling = label("", "price ceiling", "ceiling", "maximum price")
	lblFloor   = label("", "price floor", "floor", "minimum price", "minimum wage")
)

// taxCase levies a per-unit tax on sellers, which shifts supply up by t.
func taxCase(p *Problem) []target {
	if !p.asks("tax") {
		return nil
	}
	d, s, ok := schedules(p)
	if !ok {
		return nil
	}
	t, ok := p.raw(lblTax)
	if !ok {
		return nil
	}
	_, q0 := equilibrium(d, s)
	shifted := line{a: s.a - s.b*t, b: s.b}
	buyer, qt := equilibrium(d, shifted)
	seller := buyer - t
	return []target{
		{label: "price buyers pay", names: []string{"pb", "p_b", "buyer price", "price buyers pay", "consumer price", "pc", "p_c"}, asks: asks(`buyers? pay|consumers? pay|buyer price|consumer price`), value: buyer},
		{label: "price sellers receive", names: []string{"ps", "p_s", "seller price", "price sellers receive", "producer price"}, asks: asks(`sellers? (receive|get|keep)|producers? (receive|get)|seller price|producer price`), value: seller},
		{label: "quantity with tax", names: []string{"qt", "q_t", "q", "quantity", "new quantity"}, asks: asks(`quantity`), value: qt},
		{label: "tax revenue t*Qt", names: []string{"revenue", "tax revenue", "government revenue", "r"}, asks: asks(`revenue`), value: t * qt},
		{label: "deadweight loss t*(Q0-Qt)/2", names: []string{"dwl", "deadweight loss", "excess burden"}, asks: asks(`deadweight|excess burden`), value: 0.5 * t * (q0 - qt), absolute: true},
	}
}

func controlCase(p *Problem) []target {
	d, s, ok := schedules(p)
	if !ok {
		return nil
	}
	if c, ok := p.raw(lblCeiling); ok {
		return []target{{label: "shortage Qd - Qs at the ceiling", names: []string{"shortage", "excess demand", "quantity shortage"}, value: d.at(c) - s.at(c), absolute: true}}
	}
	if f, ok := p.raw(lblFloor); ok {
		return []target{{label: "surplus Qs - Qd at the floor", names: []string{"surplus", "excess supply", "quantity surplus"}, value: s.at(f) - d.at(f), absolute: true}}
	}
	return nil
}

var (
	lblP1 = label("P1 P_1", "initial price", "original price", "old price")
	lblP2 = label("P2 P_2", "new price", "final price")
	lblQ1 = label("Q1 Q_1", "initial quantity", "original quantity", "old quantity")
	lblQ2 = label("Q2 Q_2", "new quantity", "final quantity")
)

// arcElasticityCase uses the midpoint formula.
func arcElasticityCase(p *Problem) []target {
	if !p.asks("elasticity") {
		return nil
	}
	p1, ok1 := p.raw(lblP1)
	p2, ok2 := p.raw(lblP2)
	q1, ok3 := p.raw(lblQ1)
	q2, ok4 := p.raw(lblQ2)
	if !ok1 || !ok2 || !ok3 || !ok4 || p1 == p2 || q1+q2 == 0 {
		return nil
	}
	e := ((q2 - q1) / ((q1 + q2) / 2)) / ((p2 - p1) / ((p1 + p2) / 2))
	simple := ((q2 - q1) / q1) / ((p2 - p1) / p1)
	return []target{{label: "arc elasticity (midpoint)", names: []string{"e", "ed", "e_d", "elasticity", "price elasticity", "arc elasticity"}, value: e, alts: []float64{simple}, absolute: true}}
}

var (
	lblConsumption = label("C", "consumption", "consumer spending", "personal consumption")
	lblInvestment  = label("I", "investment", "gross investment")
	lblGovernment  = label("G", "government spending", "government purchases", "government")
	lblExports     = label("X EX", "exports")
	lblImports     = label("M IM", "imports")
	lblNetExports  = label("NX", "net exports")
)

func gdpCase(p *Problem) []target {
	if !p.asks("gdp", "gross domestic product", "expenditure approach", "aggregate expenditure") {
		return nil
	}
	c, ok1 := p.raw(lblConsumption)
	i, ok2 := p.raw(lblInvestment)
	g, ok3 := p.raw(lblGovernment)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	nx, ok := p.raw(lblNetExports)
	if !ok {
		x, okX := p.raw(lblExports)
		m, okM := p.raw(lblImports)
		if !okX || !okM {
			return nil
		}
		nx = x - m
	}
	return []target{{label: "GDP C + I + G + NX", names: []string{"gdp", "y", "output"}, value: c + i + g + nx}}
}

var (
	lblNominal  = label("", "nominal gdp", "nominal")
	lblReal     = label("", "real gdp", "real")
	lblDeflator = label("", "gdp deflator", "deflator", "price index")
)

func deflatorCase(p *Problem) []target {
	if !p.asks("deflator", "real gdp", "nominal gdp") {
		return nil
	}
	n, okN := p.raw(lblNominal)
	r, okR := p.raw(lblReal)
	d, okD := p.raw(lblDeflator)
	switch {
	case okN && okR && !okD && r != 0:
		return []target{{label: "deflator nominal/real*100", names: []string{"deflator", "gdp deflator", "d"}, value: n / r * 100}}
	case okN && okD && !okR && d != 0:
		return []target{{label: "real GDP nominal/deflator*100", names: []string{"real gdp", "real", "rgdp"}, value: n / d * 100}}
	case okR && okD && !okN:
		return []target{{label: "nominal GDP real*deflator/100", names: []string{"nominal gdp", "nominal", "ngdp"}, value: r * d / 100}}
	}
	return nil
}

var (
	lblPriorIndex   = label("", "last year", "previous year", "base year", "initial cpi", "cpi was")
	lblCurrentIndex = label("", "this year", "current year", "current cpi", "rose to", "now")
)

func inflationCase(p *Problem) []target {
	if !p.asks("inflation") || p.asks("nominal interest", "real interest", "fisher") {
		return nil
	}
	vals := p.indexed("CPI", nil).Values()
	if len(vals) < 2 {
		old, ok1 := p.raw(lblPriorIndex)
		cur, ok2 := p.raw(lblCurrentIndex)
		if !ok1 || !ok2 {
			m := growthRange.FindStringSubmatch(p.Statement)
			if m == nil {
				return nil
			}
			old, _ = strconv.ParseFloat(m[1], 64)
			cur, _ = strconv.ParseFloat(m[2], 64)
		}
		vals = []float64{old, cur}
	}
	if vals[0] == 0 {
		return nil
	}
	return []target{{label: "inflation (CPI2 - CPI1)/CPI1", names: []string{"inflation", "inflation rate", "pi", "rate"}, value: (vals[1] - vals[0]) / vals[0], rate: true}}
}

var (
	lblNominalRate = label("i", "nominal interest rate", "nominal rate", "nominal")
	lblRealRate    = label("r", "real interest rate", "real rate", "real")
	lblInflation   = label("pi", "inflation rate", "inflation", "expected inflation")
)

// fisherCase accepts both the exact and the approximate Fisher relation.
func fisherCase(p *Problem) []target {
	if !p.asks("real", "nominal", "fisher") || !p.asks("inflation") {
		return nil
	}
	i, okI := p.rate(lblNominalRate)
	r, okR := p.rate(lblRealRate)
	pi, okP := p.rate(lblInflation)
	switch {
	case okI && okP && !okR:
		return []target{{label: "real rate (1+i)/(1+pi)-1", names: []string{"r", "real rate", "real interest rate"}, value: (1+i)/(1+pi) - 1, alts: []float64{i - pi}, rate: true}}
	case okR && okP && !okI:
		return []target{{label: "nominal rate (1+r)(1+pi)-1", names: []string{"i", "nominal rate", "nominal interest rate"}, value: (1+r)*(1+pi) - 1, alts: []float64{r + pi}, rate: true}}
	case okI && okR && !okP:
		return []target{{label: "inflation (1+i)/(1+r)-1", names: []string{"pi", "inflation", "inflation rate"}, value: (1+i)/(1+r) - 1, alts: []float64{i - r}, rate: true}}
	}
	return nil
}

var (
	lblReserveRatio = label("rr RR", "reserve requirement", "required reserve ratio", "reserve ratio", "reserve requirement ratio")
	lblDeposits     = label("", "deposit", "deposits", "new deposit", "initial deposit", "excess reserves", "reserves of")
)

func multiplierCase(p *Problem) []target {
	if !p.asks("multiplier", "money supply", "reserve") {
		return nil
	}
	rr, ok := p.rate(lblReserveRatio)
	if !ok || rr == 0 {
		return nil
	}
	m := 1 / rr
	ts := []target{{label: "money multiplier 1/rr", names: []string{"multiplier", "money multiplier", "m"}, asks: asks(`multiplier`), value: m}}
	if dep, ok := p.raw(lblDeposits); ok {
		ts = append([]target{{label: "money created deposit*(1/rr)", names: []string{"money supply", "change in money supply", "money created", "ms", "total"}, asks: asks(`money supply|money created|increase|total`), value: dep * m}}, ts...)
	}
	return ts
}

var (
	lblUnemployed = label("U", "unemployed")
	lblEmployed   = label("E", "employed")
	lblLaborForce = label("LF", "labor force", "labour force")
	lblAdultPop   = label("", "working-age population", "adult population", "population")
)

func laborCase(p *Problem) []target {
	if !p.asks("unemploy", "participation", "labor force", "labour force") {
		return nil
	}
	u, okU := p.raw(lblUnemployed)
	e, okE := p.raw(lblEmployed)
	lf, okLF := p.raw(lblLaborForce)
	if !okLF && okU && okE {
		lf, okLF = u+e, true
	}
	var ts []target
	if okU && okLF && lf != 0 {
		ts = append(ts, target{label: "unemployment rate U/LF", names: []string{"unemployment rate", "u", "rate"}, asks: asks(`unemployment rate`), value: u / lf, rate: true})
	}
	if pop, ok := p.raw(lblAdultPop); ok && okLF && pop != 0 {
		ts = append(ts, target{label: "participation rate LF/population", names: []string{"participation rate", "lfpr", "labor force participation rate"}, asks: asks(`participation`), value: lf / pop, rate: true})
	}
	return ts
}
