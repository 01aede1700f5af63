package verify

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/numeric"
)

// FinanceVerifier recomputes time value of money, capital budgeting,
// bond, cost of capital and portfolio quantities. Money amounts and rates
// found by iteration are compared with numeric.Loose.
type FinanceVerifier struct{}

// NewFinanceVerifier creates a FinanceVerifier.
func NewFinanceVerifier() *FinanceVerifier { return &FinanceVerifier{} }

// Subject returns model.SubjectFinance.
func (f *FinanceVerifier) Subject() model.Subject { return model.SubjectFinance }

// Keywords returns the routing vocabulary.
func (f *FinanceVerifier) Keywords() []string {
	return []string{
		"npv", "net present value", "irr", "cash flow", "interest", "compound", "annuity", "loan",
		"payment", "present value", "future value", "perpetuity", "bond", "coupon", "yield", "wacc",
		"capm", "beta", "portfolio", "invest", "discount rate", "payback", "apr", "cagr",
	}
}

// Matches reports whether the problem uses finance vocabulary.
func (f *FinanceVerifier) Matches(p *Problem) bool {
	return p.mentions(f.Keywords()...)
}

// Run tries the finance families in order.
func (f *FinanceVerifier) Run(p *Problem) (*model.Verification, error) {
	checks := runCases(p,
		capitalBudgetingCase, bondCase, capmCase, waccCase, portfolioCase, cagrCase,
		effectiveRateCase, growingAnnuityCase, perpetuityCase, annuityCase, lumpSumCase,
	)
	return verification(model.SubjectFinance, methodNumerical, checks), nil
}

var (
	lblRate       = label("r i k", "rate", "interest rate", "discount rate", "annual rate", "annual interest rate", "required return", "required rate of return", "cost of capital", "hurdle rate", "wacc", "apr")
	lblCashFlows  = label("CF", "cash flows", "cash flow", "cashflows", "flows")
	lblInitial    = label("", "initial investment", "initial outlay", "initial cost", "upfront cost", "costs", "invest")
	lblReinvest   = label("", "reinvestment rate", "reinvest rate")
	lblPV         = label("PV P", "present value", "principal", "loan", "loan amount", "borrow", "borrows", "deposit of", "invests", "invest", "mortgage")
	lblFV         = label("FV A", "future value", "target", "accumulate", "goal of", "have")
	lblPMT        = label("PMT C", "payment", "payments", "annual payment", "monthly payment", "deposits", "receives", "pays", "installment", "annual cash flow", "dividend", "coupon payment")
	lblGrowth     = label("g", "growth rate", "grows at", "growing at", "growth of", "increase at")
	lblFace       = label("F FV", "face value", "par value", "face", "par")
	lblCoupon     = label("", "coupon rate", "coupon")
	lblYTM        = label("YTM y", "yield to maturity", "ytm", "market rate", "required yield", "yield", "market interest rate")
	lblPrice      = label("P", "price", "selling for", "sells for", "trading at", "priced at", "current price")
	lblRiskFree   = label("rf r_f", "risk-free rate", "risk free rate", "risk-free", "treasury")
	lblBeta       = label("beta b", "beta")
	lblMarket     = label("rm r_m", "market return", "expected market return", "market rate of return", "return on the market", "market")
	lblPremium    = label("MRP", "market risk premium", "equity risk premium", "risk premium")
	lblEquity     = label("E", "equity", "market value of equity")
	lblDebt       = label("D", "debt", "market value of debt")
	lblCostEquity = label("re r_e ke k_e", "cost of equity", "return on equity")
	lblCostDebt   = label("rd r_d kd k_d", "cost of debt", "pre-tax cost of debt", "yield on debt")
	lblTaxRate    = label("t T tc", "tax rate", "corporate tax rate", "tax")
	lblCorr       = label("rho", "correlation", "correlation coefficient")
	lblBeginValue = label("", "beginning value", "initial value", "starting value", "start value", "grew from")
	lblEndValue   = label("", "ending value", "final value", "end value", "grew to", "ended at")
	lblEAR        = label("EAR", "effective annual rate", "effective rate", "ear")
)

var errRateDomain = errors.New("rate at or below -100%")

var (
	periodPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)[\s-]*(years?|yrs?|periods?|months?|quarters?|semesters?)\b`)
	growthRange   = regexp.MustCompile(`from\s+(\d+(?:\.\d+)?)\s+to\s+(\d+(?:\.\d+)?)`)
)

// money returns a target compared with numeric.Loose.
func money(lbl string, names []string, pattern string, v float64) target {
	t := target{label: lbl, names: names, value: v, tol: numeric.Loose}
	if pattern != "" {
		t.asks = asks(pattern)
	}
	return t
}

// percent returns a rate target compared with numeric.Loose.
func percent(lbl string, names []string, pattern string, v float64) target {
	t := money(lbl, names, pattern, v)
	t.rate = true
	return t
}

// schedule is the period structure of a time value of money problem.
type schedule struct {
	annual     float64 // nominal annual rate
	years      float64
	perYear    float64
	continuous bool
}

// periodRate returns the rate per period.
func (s schedule) periodRate() float64 { return s.annual / s.perYear }

// periods returns the number of periods.
func (s schedule) periods() float64 { return s.years * s.perYear }

// growth returns the growth factor over the whole term.
func (s schedule) growth() float64 {
	if s.continuous {
		return math.Exp(s.annual * s.years)
	}
	return math.Pow(1+s.periodRate(), s.periods())
}

// frequency reads how many times per year interest compounds or payments
// are made.
func frequency(p *Problem) (float64, bool) {
	switch {
	case p.asks("continuous"):
		return 0, true
	case p.asks("monthly", "per month", "each month", "every month"):
		return 12, false
	case p.asks("quarterly", "per quarter", "each quarter"):
		return 4, false
	case p.asks("semi-annual", "semiannual", "semi annual", "twice a year", "twice per year", "every six months"):
		return 2, false
	case p.asks("weekly"):
		return 52, false
	case p.asks("daily"):
		return 365, false
	}
	return 1, false
}

// term reads the term in years from "n = 5", "5 years" or "60 months".
func term(p *Problem) (float64, bool) {
	if n, ok := p.raw(label("n N t")); ok {
		if p.asks("months") && !p.asks("years") {
			return n / 12, true
		}
		return n, true
	}
	m := periodPattern.FindStringSubmatch(p.Statement)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch unit := m[2]; {
	case strings.HasPrefix(unit, "month"):
		return n / 12, true
	case strings.HasPrefix(unit, "quarter"):
		return n / 4, true
	case strings.HasPrefix(unit, "semester"):
		return n / 2, true
	}
	return n, true
}

func readSchedule(p *Problem) (schedule, bool) {
	r, ok1 := p.rate(lblRate)
	years, ok2 := term(p)
	if !ok1 || !ok2 {
		return schedule{}, false
	}
	m, continuous := frequency(p)
	return schedule{annual: r, years: years, perYear: m, continuous: continuous}, true
}

// npv discounts flows[t] at rate r, with flows[0] at time zero.
func npv(r float64, flows []float64) float64 {
	var sum float64
	for t, cf := range flows {
		sum += cf / math.Pow(1+r, float64(t))
	}
	return sum
}

// irrCeilings are the upper rate bounds searched in turn.
var irrCeilings = []float64{10, 100, 1e3, 1e4}

// irr finds the rate at which the flows' NPV is zero.
func irr(flows []float64) (float64, error) {
	f := func(r float64) (float64, error) {
		if r <= -1 {
			return 0, errRateDomain
		}
		return npv(r, flows), nil
	}
	var err error
	for _, hi := range irrCeilings {
		var x float64
		if x, err = numeric.FindRoot(f, 0.1, -0.99, hi, 1e-12); err == nil {
			return x, nil
		}
	}
	return 0, err
}

// mirr compounds inflows at the reinvestment rate and discounts outflows
// at the finance rate.
func mirr(flows []float64, finance, reinvest float64) float64 {
	n := float64(len(flows) - 1)
	var pvOut, fvIn float64
	for t, cf := range flows {
		if cf < 0 {
			pvOut += -cf / math.Pow(1+finance, float64(t))
		} else {
			fvIn += cf * math.Pow(1+reinvest, n-float64(t))
		}
	}
	if pvOut == 0 || n == 0 {
		return math.NaN()
	}
	return math.Pow(fvIn/pvOut, 1/n) - 1
}

// payback returns the fractional period in which the cumulative flow turns
// non-negative.
func payback(flows []float64) float64 {
	cum := flows[0]
	for t := 1; t < len(flows); t++ {
		if cum+flows[t] >= 0 && flows[t] > 0 {
			return float64(t-1) + -cum/flows[t]
		}
		cum += flows[t]
	}
	return math.NaN()
}

// cashFlows reads the flow list; a separately stated initial investment
// is prepended as a negative flow.
func cashFlows(p *Problem) ([]float64, bool) {
	flows, ok := p.list(lblCashFlows)
	if !ok || len(flows) < 2 {
		return nil, false
	}
	if flows[0] >= 0 {
		if c, ok := p.raw(lblInitial); ok {
			flows = append([]float64{-math.Abs(c)}, flows...)
		}
	}
	return flows, true
}

func capitalBudgetingCase(p *Problem) []target {
	flows, ok := cashFlows(p)
	if !ok {
		return nil
	}
	var ts []target
	if r, ok := p.rate(lblRate); ok {
		v := npv(r, flows)
		ts = append(ts, money("NPV sum CF_t/(1+r)^t", []string{"npv", "net present value"}, `npv|net present value`, v))
		discounted := make([]float64, len(flows))
		var pvIn float64
		for t, cf := range flows {
			discounted[t] = cf / math.Pow(1+r, float64(t))
			if t > 0 {
				pvIn += discounted[t]
			}
		}
		if flows[0] != 0 {
			ts = append(ts, money("profitability index PV(inflows)/|CF0|", []string{"pi", "profitability index"}, `profitability index`, pvIn/math.Abs(flows[0])))
		}
		ts = append(ts, money("discounted payback", []string{"discounted payback", "discounted payback period", "dpp"}, `discounted payback`, payback(discounted)))
		reinvest := r
		if rr, ok := p.rate(lblReinvest); ok {
			reinvest = rr
		}
		ts = append(ts, percent("MIRR", []string{"mirr", "modified irr", "modified internal rate of return"}, `mirr|modified`, mirr(flows, r, reinvest)))
		if n := float64(len(flows) - 1); r > 0 && n > 0 {
			ts = append(ts, money("equivalent annual annuity NPV*r/(1-(1+r)^-n)", []string{"eaa", "equivalent annual annuity", "equivalent annual value"}, `equivalent annual`, v*r/(1-math.Pow(1+r, -n))))
		}
	}
	if x, err := irr(flows); err == nil {
		ts = append(ts, percent("IRR npv(r) = 0", []string{"irr", "internal rate of return"}, `irr|internal rate`, x))
	}
	ts = append(ts, money("payback period", []string{"payback", "payback period"}, `payback`, payback(flows)))
	return ts
}

var (
	paymentNames = []string{"pmt", "payment", "monthly payment", "annual payment", "quarterly payment", "installment", "deposit"}
	pvNames      = []string{"pv", "present value", "loan", "principal", "price", "value"}
	fvNames      = []string{"fv", "future value", "amount", "balance", "a", "final amount", "value"}
)

func annuityCase(p *Problem) []target {
	if !p.asks("annuity", "payment", "loan", "mortgage", "deposit", "installment", "each year", "per year", "every year", "annually", "monthly") {
		return nil
	}
	s, ok := readSchedule(p)
	if !ok || s.continuous {
		return nil
	}
	i, n := s.periodRate(), s.periods()
	if n <= 0 {
		return nil
	}
	due := 1.0
	if p.asks("annuity due", "beginning of each", "start of each", "in advance", "at the beginning") {
		due = 1 + i
	}
	pvFactor, fvFactor := n, n
	if i != 0 {
		pvFactor = (1 - math.Pow(1+i, -n)) / i
		fvFactor = (math.Pow(1+i, n) - 1) / i
	}
	pmt, okPMT := p.raw(lblPMT)
	pv, okPV := p.raw(lblPV)
	fv, okFV := p.raw(lblFV)
	switch {
	case okPV && !okPMT && p.asks("payment", "installment", "pay each", "pmt"):
		x := pv / (pvFactor * due)
		return []target{
			money("annuity payment PV/annuity factor", paymentNames, `payment|installment|pmt`, x),
			money("total interest PMT*n - PV", []string{"total interest", "interest"}, `total interest`, x*n-pv),
		}
	case okFV && !okPMT && p.asks("payment", "deposit", "save each", "pmt", "sinking"):
		return []target{money("sinking fund payment FV/FV factor", paymentNames, `payment|deposit|pmt`, fv/(fvFactor*due))}
	case okPMT:
		return []target{
			money("future value of annuity", append([]string{"fv", "future value"}, fvNames...), `future value|accumulate|how much will|balance`, pmt*fvFactor*due),
			money("present value of annuity", pvNames, `present value|worth today|value today|how much`, pmt*pvFactor*due),
		}
	}
	return nil
}

func lumpSumCase(p *Problem) []target {
	s, ok := readSchedule(p)
	if !ok {
		return nil
	}
	g := s.growth()
	if pv, ok := p.raw(lblPV); ok {
		fv := pv * g
		return []target{
			money("future value PV*(1+r/m)^(mt)", fvNames, `future value|how much|balance|amount|grow`, fv),
			money("interest earned FV - PV", []string{"interest", "interest earned", "compound interest"}, `interest earned|compound interest|how much interest`, fv-pv),
		}
	}
	if fv, ok := p.raw(lblFV); ok && g != 0 {
		return []target{money("present value FV/(1+r/m)^(mt)", pvNames, `present value|today|now|invest|deposit`, fv/g)}
	}
	return nil
}

func perpetuityCase(p *Problem) []target {
	if !p.asks("perpetuity", "forever", "indefinitely", "gordon", "dividend") {
		return nil
	}
	c, ok1 := p.raw(lblPMT)
	r, ok2 := p.rate(lblRate)
	if !ok1 || !ok2 {
		return nil
	}
	g, _ := p.rate(lblGrowth)
	if r <= g {
		return nil
	}
	if p.asks("just paid", "recently paid", "last dividend", "d0", "most recent") {
		c *= 1 + g
	}
	return []target{money("perpetuity C/(r-g)", append([]string{"p0", "p", "stock price", "price"}, pvNames...), "", c/(r-g))}
}

func growingAnnuityCase(p *Problem) []target {
	if !p.asks("growing annuity", "grow", "increase") || p.asks("perpetuity", "forever") {
		return nil
	}
	s, ok := readSchedule(p)
	if !ok || s.continuous {
		return nil
	}
	c, ok1 := p.raw(lblPMT)
	g, ok2 := p.rate(lblGrowth)
	r := s.periodRate()
	if !ok1 || !ok2 || r == g {
		return nil
	}
	pv := c / (r - g) * (1 - math.Pow((1+g)/(1+r), s.periods()))
	return []target{
		money("growing annuity PV", pvNames, `present value|worth today`, pv),
		money("growing annuity FV", fvNames, `future value`, pv*math.Pow(1+r, s.periods())),
	}
}

func effectiveRateCase(p *Problem) []target {
	if !p.asks("effective", "ear", "apy", "annual percentage yield") {
		return nil
	}
	m, continuous := frequency(p)
	if ear, ok := p.rate(lblEAR); ok && p.asks("apr", "nominal") {
		if continuous {
			return []target{percent("APR ln(1+EAR)", []string{"apr", "nominal rate", "r"}, "", math.Log1p(ear))}
		}
		return []target{percent("APR m*((1+EAR)^(1/m)-1)", []string{"apr", "nominal rate", "r"}, "", m*(math.Pow(1+ear, 1/m)-1))}
	}
	apr, ok := p.rate(lblRate)
	if !ok {
		return nil
	}
	ear := math.Pow(1+apr/m, m) - 1
	if continuous {
		ear = math.Expm1(apr)
	}
	return []target{percent("EAR (1+APR/m)^m-1", []string{"ear", "effective annual rate", "effective rate", "apy", "r"}, "", ear)}
}

// bondCase prices a level-coupon bond, or solves for its yield when the
// price is given.
func bondCase(p *Problem) []target {
	if !p.asks("bond") {
		return nil
	}
	face, ok := p.raw(lblFace)
	if !ok {
		face = 1000
	}
	coupon, ok1 := p.rate(lblCoupon)
	years, ok2 := term(p)
	if !ok1 || !ok2 {
		return nil
	}
	m := 1.0
	if p.asks("semi-annual", "semiannual", "semi annual", "twice a year", "every six months") {
		m = 2
	}
	n := years * m
	c := face * coupon / m
	price := func(y float64) float64 {
		i := y / m
		if i == 0 {
			return c*n + face
		}
		return c*(1-math.Pow(1+i, -n))/i + face*math.Pow(1+i, -n)
	}
	pr, okPrice := p.raw(lblPrice)
	if y, ok := p.rate(lblYTM); ok && !okPrice {
		return []target{money("bond price", []string{"p", "price", "bond price", "value", "pv"}, "", price(y))}
	}
	if !okPrice {
		return nil
	}
	y, err := numeric.FindRoot(func(y float64) (float64, error) { return price(y) - pr, nil }, coupon, -0.5, 2, 1e-12)
	if err != nil {
		return nil
	}
	return []target{
		percent("yield to maturity", []string{"ytm", "yield to maturity", "yield", "y"}, `yield|ytm`, y),
		percent("current yield", []string{"current yield"}, `current yield`, face*coupon/pr),
	}
}

func capmCase(p *Problem) []target {
	if !p.asks("capm", "beta") {
		return nil
	}
	rf, ok1 := p.rate(lblRiskFree)
	beta, ok2 := p.raw(lblBeta)
	if !ok1 || !ok2 {
		return nil
	}
	premium, ok := p.rate(lblPremium)
	if !ok {
		rm, okM := p.rate(lblMarket)
		if !okM {
			return nil
		}
		premium = rm - rf
	}
	return []target{percent("CAPM rf + beta*(rm-rf)", []string{"r", "re", "r_e", "expected return", "required return", "cost of equity", "k", "e(r)"}, "", rf+beta*premium)}
}

func waccCase(p *Problem) []target {
	if !p.asks("wacc", "weighted average cost") {
		return nil
	}
	e, ok1 := p.raw(lblEquity)
	d, ok2 := p.raw(lblDebt)
	re, ok3 := p.rate(lblCostEquity)
	rd, ok4 := p.rate(lblCostDebt)
	if !ok1 || !ok2 || !ok3 || !ok4 || e+d == 0 {
		return nil
	}
	tax, _ := p.rate(lblTaxRate)
	v := e + d
	return []target{percent("WACC E/V*re + D/V*rd*(1-T)", []string{"wacc"}, "", e/v*re+d/v*rd*(1-tax))}
}

// fractions turns percentages written as whole numbers into fractions.
func fractions(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if math.Abs(x) > 1 {
			x /= 100
		}
		out[i] = x
	}
	return out
}

func portfolioCase(p *Problem) []target {
	if !p.asks("portfolio") {
		return nil
	}
	w1, w2, okW := indexPair(p.indexed("w", nil))
	returns := p.indexed("r", nil)
	if len(returns) == 0 {
		returns = p.indexed("E", nil)
	}
	r1, r2, okR := indexPair(returns)
	if !okW || !okR {
		return nil
	}
	ws := fractions([]float64{w1, w2})
	rs := fractions([]float64{r1, r2})
	ts := []target{percent("portfolio return w1*r1 + w2*r2", []string{"e(rp)", "rp", "r_p", "expected return", "portfolio return", "return"}, `expected return|portfolio return`, ws[0]*rs[0]+ws[1]*rs[1])}
	sigmas := p.indexed("sigma", nil)
	if len(sigmas) == 0 {
		sigmas = p.indexed("sd", nil)
	}
	s1, s2, okS := indexPair(sigmas)
	sd := fractions([]float64{s1, s2})
	rho, ok := p.raw(lblCorr)
	if okS && ok {
		v := ws[0]*ws[0]*sd[0]*sd[0] + ws[1]*ws[1]*sd[1]*sd[1] + 2*ws[0]*ws[1]*rho*sd[0]*sd[1]
		ts = append(ts,
			money("portfolio variance", []string{"variance", "var", "sigma^2", "portfolio variance"}, `variance`, v),
			percent("portfolio standard deviation", []string{"sigma_p", "sd", "standard deviation", "std", "risk", "volatility"}, `standard deviation|risk|volatility`, math.Sqrt(v)),
		)
	}
	return ts
}

func cagrCase(p *Problem) []target {
	if !p.asks("cagr", "compound annual growth", "annual growth rate", "average annual growth") {
		return nil
	}
	years, ok := term(p)
	if !ok || years <= 0 {
		return nil
	}
	begin, ok1 := p.raw(lblBeginValue)
	end, ok2 := p.raw(lblEndValue)
	if !ok1 || !ok2 {
		m := growthRange.FindStringSubmatch(p.Statement)
		if m == nil {
			return nil
		}
		begin, _ = strconv.ParseFloat(m[1], 64)
		end, _ = strconv.ParseFloat(m[2], 64)
	}
	if begin <= 0 || end < 0 {
		return nil
	}
	return []target{percent("CAGR (end/begin)^(1/n)-1", []string{"cagr", "growth rate", "g", "r"}, "", math.Pow(end/begin, 1/years)-1)}
}
