package verify

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/numeric"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// StatisticsVerifier recomputes descriptive statistics, confidence
// intervals, sample sizes, counting problems, discrete and normal
// probabilities, and z- and t-test statistics.
//
// Design decision: where textbooks disagree (population versus sample
// variance, z versus t critical values) both readings are accepted, and
// the check records the one the answer matched.
type StatisticsVerifier struct{}

// NewStatisticsVerifier creates a StatisticsVerifier.
func NewStatisticsVerifier() *StatisticsVerifier { return &StatisticsVerifier{} }

// Subject returns model.SubjectStatistics.
func (s *StatisticsVerifier) Subject() model.Subject { return model.SubjectStatistics }

// Keywords returns the routing vocabulary.
func (s *StatisticsVerifier) Keywords() []string {
	return []string{
		"mean", "median", "mode", "variance", "standard deviation", "data", "sample", "probability",
		"confidence", "binomial", "poisson", "normal", "z-score", "hypothesis", "p-value",
		"permutation", "combination", "choose", "arrange", "ways", "factorial", "average",
	}
}

// Matches reports whether the problem uses statistics vocabulary.
func (s *StatisticsVerifier) Matches(p *Problem) bool {
	return p.mentions(s.Keywords()...)
}

// Run checks interval answers first, then tries the scalar families.
func (s *StatisticsVerifier) Run(p *Problem) (*model.Verification, error) {
	if checks := intervalChecks(p); len(checks) > 0 {
		return verification(model.SubjectStatistics, methodClosedForm, checks), nil
	}
	checks := runCases(p,
		hypothesisCase, intervalCase, sampleSizeCase, binomialCase, poissonDistCase,
		normalCase, zScoreCase, countingCase, descriptiveCase,
	)
	return verification(model.SubjectStatistics, methodClosedForm, checks), nil
}

var (
	lblData       = label("", "data", "dataset", "data set", "values", "scores", "numbers", "observations", "sample values", "measurements", "set", "list")
	lblMeanStat   = label("mean xbar mu u", "sample mean", "population mean", "mean", "average")
	lblSigmaStat  = label("sigma s sd SD", "population standard deviation", "sample standard deviation", "standard deviation", "std")
	lblSampleN    = label("n N", "sample size", "sample of", "trials", "sample of size")
	lblMarginErr  = label("E ME", "margin of error", "within")
	lblPropHat    = label("phat p", "sample proportion", "proportion")
	lblSuccess    = label("p", "probability of success", "success probability", "probability")
	lblEvents     = label("k x X", "exactly", "at least", "at most", "more than", "fewer than", "less than", "no more than")
	lblLambda     = label("lambda", "average of", "mean of", "average rate", "rate of", "on average")
	lblScore      = label("x X", "score of", "value of", "scored", "observation")
	lblNullMean   = label("mu0 mu_0 u0 u_0", "hypothesized mean", "claimed mean", "null hypothesis mean", "claims")
	confidenceAt  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*(?:confidence|ci\b|level)`)
	confidenceLbl = label("", "confidence level", "confidence")
)

// data returns the data list of the statement.
func data(p *Problem) ([]float64, bool) {
	if xs, ok := p.list(lblData); ok && len(xs) > 1 {
		return xs, true
	}
	if xs, ok := quantity.ExtractNumberList(p.Statement, nil); ok && len(xs) > 1 {
		return xs, true
	}
	return nil, false
}

func mean(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// variances returns the population and sample variances.
func variances(xs []float64) (float64, float64) {
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	n := float64(len(xs))
	if n < 2 {
		return ss / n, math.NaN()
	}
	return ss / n, ss / (n - 1)
}

func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// modes returns every most frequent value in ascending order.
func modes(xs []float64) []float64 {
	counts := map[float64]int{}
	best := 0
	for _, x := range xs {
		counts[x]++
		best = max(best, counts[x])
	}
	var out []float64
	for x, c := range counts {
		if c == best {
			out = append(out, x)
		}
	}
	sort.Float64s(out)
	return out
}

func descriptiveCase(p *Problem) []target {
	xs, ok := data(p)
	if !ok {
		return nil
	}
	pop, sample := variances(xs)
	ms := modes(xs)
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	// The wording picks which variance is primary; the other is an alt.
	varValue, varAlt := pop, sample
	if p.asks("sample variance", "sample standard deviation", "unbiased") {
		varValue, varAlt = sample, pop
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return []target{
		{label: "standard deviation", names: []string{"sd", "std", "s", "sigma", "standard deviation", "std dev"}, asks: asks(`standard deviation|std`), value: math.Sqrt(varValue), alts: []float64{math.Sqrt(varAlt)}},
		{label: "variance", names: []string{"variance", "var", "s^2", "sigma^2"}, asks: asks(`variance`), value: varValue, alts: []float64{varAlt}},
		{label: "median", names: []string{"median", "med"}, asks: asks(`median`), value: median(xs)},
		{label: "mode", names: []string{"mode"}, asks: asks(`mode`), value: ms[0], alts: ms[1:]},
		{label: "range max - min", names: []string{"range"}, asks: asks(`range`), value: hi - lo},
		{label: "mean", names: []string{"mean", "average", "avg", "xbar", "mu", "u", "arithmetic mean"}, asks: asks(`mean|average`), value: mean(xs)},
		{label: "sum", names: []string{"sum", "total"}, asks: asks(`\bsum\b|total`), value: sum},
	}
}

// confidence reads a confidence level as a fraction, defaulting to 95%.
func confidence(p *Problem) float64 {
	if m := confidenceAt.FindStringSubmatch(p.Statement); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v / 100
		}
	}
	if c, ok := p.rate(confidenceLbl); ok {
		return c
	}
	return 0.95
}

// confInterval is a symmetric confidence interval with the half-widths from
// the z and t critical values.
type confInterval struct {
	center float64
	zHalf  float64
	tHalf  float64
}

func readInterval(p *Problem) (confInterval, bool) {
	c := confidence(p)
	n, okN := p.raw(lblSampleN)
	if !okN || n < 1 {
		return confInterval{}, false
	}
	if ph, ok := p.rate(lblPropHat); ok && p.asks("proportion") {
		se := math.Sqrt(ph * (1 - ph) / n)
		h := numeric.ZCritical(c) * se
		return confInterval{center: ph, zHalf: h, tHalf: h}, true
	}
	xbar, ok1 := p.raw(lblMeanStat)
	sd, ok2 := p.raw(lblSigmaStat)
	if !ok1 || !ok2 {
		return confInterval{}, false
	}
	se := sd / math.Sqrt(n)
	iv := confInterval{center: xbar, zHalf: numeric.ZCritical(c) * se, tHalf: numeric.ZCritical(c) * se}
	if n >= 2 {
		iv.tHalf = numeric.TCritical(c, int(n)-1) * se
	}
	return iv, true
}

// intervalChecks compares a reported "(lo, hi)" interval.
func intervalChecks(p *Problem) []model.Check {
	if !p.asks("confidence", "interval") {
		return nil
	}
	got, ok := p.Final().LookupVector()
	if !ok || len(got) != 2 {
		return nil
	}
	iv, ok := readInterval(p)
	if !ok {
		return nil
	}
	z := []float64{iv.center - iv.zHalf, iv.center + iv.zHalf}
	t := []float64{iv.center - iv.tHalf, iv.center + iv.tHalf}
	want := z
	if math.Abs(t[0]-got[0])+math.Abs(t[1]-got[1]) < math.Abs(z[0]-got[0])+math.Abs(z[1]-got[1]) {
		want = t
	}
	return vectorChecks("confidence interval", want, got, numeric.Loose)
}

func intervalCase(p *Problem) []target {
	if !p.asks("confidence", "margin of error") {
		return nil
	}
	iv, ok := readInterval(p)
	if !ok {
		return nil
	}
	tol := numeric.Loose
	return []target{
		{label: "margin of error crit*SE", names: []string{"e", "me", "moe", "margin of error", "margin"}, asks: asks(`margin of error`), value: iv.zHalf, alts: []float64{iv.tHalf}, tol: tol},
		{label: "lower bound", names: []string{"lower", "lower bound", "lower limit", "ll", "lcl"}, asks: asks(`lower`), value: iv.center - iv.zHalf, alts: []float64{iv.center - iv.tHalf}, tol: tol},
		{label: "upper bound", names: []string{"upper", "upper bound", "upper limit", "ul", "ucl"}, asks: asks(`upper`), value: iv.center + iv.zHalf, alts: []float64{iv.center + iv.tHalf}, tol: tol},
	}
}

func sampleSizeCase(p *Problem) []target {
	if !p.asks("sample size", "how many", "how large") || !p.asks("margin of error", "within") {
		return nil
	}
	e, ok := p.raw(lblMarginErr)
	if !ok || e <= 0 {
		return nil
	}
	z := numeric.ZCritical(confidence(p))
	var n float64
	if sd, ok := p.raw(lblSigmaStat); ok {
		n = math.Pow(z*sd/e, 2)
	} else if p.asks("proportion", "percent", "%") {
		if e >= 1 {
			e /= 100
		}
		ph := 0.5
		if v, ok := p.rate(lblPropHat); ok {
			ph = v
		}
		n = z * z * ph * (1 - ph) / (e * e)
	} else {
		return nil
	}
	return []target{{label: "required sample size ceil((z*sigma/E)^2)", names: []string{"n", "sample size", "required sample size"}, value: math.Ceil(n), alts: []float64{n}, tol: numeric.Loose}}
}

var (
	chooseNotation  = regexp.MustCompile(`\b(?:C\(\s*(\d+)\s*,\s*(\d+)\s*\)|(\d+)\s*C\s*(\d+)|(\d+)\s+choose\s+(\d+))`)
	permuteNotation = regexp.MustCompile(`\b(?:P\(\s*(\d+)\s*,\s*(\d+)\s*\)|(\d+)\s*P\s*(\d+))`)
	chooseWords     = regexp.MustCompile(`(?i)(?:choose|select|pick|form|chosen|selected)\D{0,40}?(\d+)\D{0,30}?(?:from|out of|among)\s+(?:a\s+group\s+of\s+|the\s+)?(\d+)`)
	fromWords       = regexp.MustCompile(`(?i)(?:from|out of|among)\s+(?:a\s+group\s+of\s+|the\s+)?(\d+)\D{0,40}?(?:choose|select|pick|form|chosen|selected|arrange)\D{0,20}?(\d+)`)
	factorialOf     = regexp.MustCompile(`(\d+)\s*!`)
)

// pairOf returns the first two non-empty groups of a match as integers.
func pairOf(m []string) (int, int, bool) {
	var xs []int
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		v, err := strconv.Atoi(g)
		if err != nil {
			return 0, 0, false
		}
		xs = append(xs, v)
	}
	if len(xs) < 2 {
		return 0, 0, false
	}
	return xs[0], xs[1], true
}

func countingCase(p *Problem) []target {
	names := []string{"ways", "number of ways", "n", "answer", "count", "total"}
	s := p.Statement
	if m := chooseNotation.FindStringSubmatch(s); m != nil {
		if n, k, ok := pairOf(m); ok {
			return []target{{label: "combinations nCr", names: names, value: numeric.Choose(n, k), tol: numeric.Tight, anyNumber: true}}
		}
	}
	if m := permuteNotation.FindStringSubmatch(s); m != nil {
		if n, k, ok := pairOf(m); ok {
			return []target{{label: "permutations nPr", names: names, value: numeric.Permutations(n, k), tol: numeric.Tight, anyNumber: true}}
		}
	}
	ordered := p.asks("arrange", "order", "permutation", "first", "president", "line up", "sequence", "ranked")
	var n, k int
	var ok bool
	if m := chooseWords.FindStringSubmatch(s); m != nil {
		k, n, ok = pairOf(m)
	} else if m := fromWords.FindStringSubmatch(s); m != nil {
		n, k, ok = pairOf(m)
	}
	if ok && k <= n {
		if ordered {
			return []target{{label: "permutations nPr", names: names, value: numeric.Permutations(n, k), tol: numeric.Tight}}
		}
		return []target{{label: "combinations nCr", names: names, value: numeric.Choose(n, k), tol: numeric.Tight}}
	}
	if m := factorialOf.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return []target{{label: "factorial n!", names: names, value: numeric.Factorial(n), tol: numeric.Tight, anyNumber: true}}
		}
	}
	return nil
}

// tailKind selects which part of a discrete distribution is asked for.
type tailKind int

const (
	tailExact tailKind = iota
	tailAtMost
	tailAtLeast
	tailLess
	tailMore
)

func askedTail(p *Problem) tailKind {
	switch {
	case p.asks("at least", "or more", "no fewer than", "minimum of"):
		return tailAtLeast
	case p.asks("at most", "or fewer", "or less", "no more than", "maximum of"):
		return tailAtMost
	case p.asks("more than", "greater than", "exceeds"):
		return tailMore
	case p.asks("fewer than", "less than"):
		return tailLess
	}
	return tailExact
}

// discrete applies the tail to a pmf and cdf.
func discrete(t tailKind, k int, pmf func(int) float64, cdf func(int) float64) (float64, string) {
	switch t {
	case tailAtMost:
		return cdf(k), "P(X <= k)"
	case tailAtLeast:
		return 1 - cdf(k-1), "P(X >= k)"
	case tailLess:
		return cdf(k - 1), "P(X < k)"
	case tailMore:
		return 1 - cdf(k), "P(X > k)"
	}
	return pmf(k), "P(X = k)"
}

var probabilityNames = []string{"p", "probability", "prob", "answer"}

func binomialCase(p *Problem) []target {
	if !p.asks("binomial", "trials", "success", "flip", "coin", "independent", "each with probability", "defective") {
		return nil
	}
	n, ok1 := p.raw(lblSampleN)
	prob, ok2 := p.rate(lblSuccess)
	k, ok3 := p.raw(lblEvents)
	if !ok1 || !ok2 || !ok3 || prob > 1 || n < 0 || k < 0 {
		return nil
	}
	ni, ki := int(n), int(k)
	v, what := discrete(askedTail(p), ki,
		func(k int) float64 { return numeric.BinomialPMF(ni, k, prob) },
		func(k int) float64 { return numeric.BinomialCDF(ni, k, prob) })
	mu := n * prob
	return []target{
		{label: "binomial mean np", names: []string{"mean", "expected value", "e(x)", "mu"}, asks: asks(`expected (value|number)|mean`), value: mu},
		{label: "binomial " + what, names: probabilityNames, asks: asks(`probabilit`), value: v, tol: numeric.Loose, anyNumber: true},
	}
}

func poissonDistCase(p *Problem) []target {
	if !p.asks("poisson", "per hour", "per minute", "per day", "on average", "average of", "average rate") {
		return nil
	}
	lambda, ok1 := p.raw(lblLambda)
	k, ok2 := p.raw(lblEvents)
	if !ok1 || !ok2 || lambda < 0 || k < 0 {
		return nil
	}
	ki := int(k)
	v, what := discrete(askedTail(p), ki,
		func(k int) float64 { return numeric.PoissonPMF(k, lambda) },
		func(k int) float64 { return numeric.PoissonCDF(k, lambda) })
	return []target{{label: "Poisson " + what, names: probabilityNames, value: v, tol: numeric.Loose, anyNumber: true}}
}

func zScoreCase(p *Problem) []target {
	if !p.asks("z-score", "z score", "standard score", "standardized") {
		return nil
	}
	x, ok1 := p.raw(lblScore)
	mu, ok2 := p.raw(lblMeanStat)
	sd, ok3 := p.raw(lblSigmaStat)
	if !ok1 || !ok2 || !ok3 || sd == 0 {
		return nil
	}
	return []target{{label: "z-score (x - mu)/sigma", names: []string{"z", "z-score", "z score"}, value: (x - mu) / sd}}
}

var (
	betweenValues = regexp.MustCompile(`between\s+(-?\d+(?:\.\d+)?)\s+and\s+(-?\d+(?:\.\d+)?)`)
	boundValue    = regexp.MustCompile(`(?i)(less than|below|under|at most|more than|greater than|above|over|exceeds|at least)\s+(-?\d+(?:\.\d+)?)`)
)

// normalCase computes normal probabilities for one bound or a range.
func normalCase(p *Problem) []target {
	if !p.asks("normal") {
		return nil
	}
	mu, ok1 := p.raw(lblMeanStat)
	sd, ok2 := p.raw(lblSigmaStat)
	if !ok1 || !ok2 || sd <= 0 {
		return nil
	}
	cdf := func(x float64) float64 { return numeric.NormalCDF((x - mu) / sd) }
	if m := betweenValues.FindStringSubmatch(p.Statement); m != nil {
		a, _ := strconv.ParseFloat(m[1], 64)
		b, _ := strconv.ParseFloat(m[2], 64)
		return []target{{label: "normal P(a < X < b)", names: probabilityNames, value: math.Abs(cdf(b) - cdf(a)), tol: numeric.Loose, anyNumber: true, rate: true}}
	}
	m := boundValue.FindStringSubmatch(p.Statement)
	if m == nil {
		return nil
	}
	x, _ := strconv.ParseFloat(m[2], 64)
	v := cdf(x)
	switch m[1] {
	case "more than", "greater than", "above", "over", "exceeds", "at least":
		v = 1 - v
	}
	return []target{{label: "normal tail probability", names: probabilityNames, value: v, tol: numeric.Loose, anyNumber: true, rate: true}}
}

// hypothesisCase computes a one-sample z or t statistic and its p-value.
func hypothesisCase(p *Problem) []target {
	if !p.asks("hypothesis", "test statistic", "p-value", "p value", "significan", "null") {
		return nil
	}
	xbar, ok1 := p.raw(lblMeanStat)
	mu0, ok2 := p.raw(lblNullMean)
	sd, ok3 := p.raw(lblSigmaStat)
	n, ok4 := p.raw(lblSampleN)
	if !ok1 || !ok2 || !ok3 || !ok4 || sd == 0 || n < 1 {
		return nil
	}
	stat := (xbar - mu0) / (sd / math.Sqrt(n))
	useT := p.asks("t-test", "t test", "sample standard deviation", "t-statistic") || n < 30 && !p.asks("population standard deviation", "z-test", "z test")
	cdf := numeric.NormalCDF
	name := "z"
	if useT {
		df := n - 1
		cdf = func(x float64) float64 { return numeric.StudentTCDF(x, df) }
		name = "t"
	}
	var pv float64
	switch {
	case p.asks("greater than", "more than", "exceeds", "increase", "right-tailed", "upper-tailed", "> "):
		pv = 1 - cdf(stat)
	case p.asks("less than", "fewer than", "decrease", "left-tailed", "lower-tailed", "< "):
		pv = cdf(stat)
	default:
		pv = 2 * (1 - cdf(math.Abs(stat)))
	}
	return []target{
		{label: name + " statistic (xbar - mu0)/(s/sqrt(n))", names: []string{name, "test statistic", "statistic", name + "-statistic", name + " statistic"}, asks: asks(`test statistic|` + name + `-statistic|` + name + ` statistic|value of ` + name), value: stat},
		{label: name + "-test p-value", names: []string{"p-value", "p value", "p"}, asks: asks(`p-value|p value`), value: pv, tol: numeric.Loose, anyNumber: true},
	}
}
