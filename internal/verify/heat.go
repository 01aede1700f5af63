package verify

import (
	"math"
	"regexp"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// stefanBoltzmann is σ in W/(m^2*K^4).
const stefanBoltzmann = 5.670374419e-8

// HeatVerifier recomputes steady heat transfer rates: conduction through
// plane, composite and cylindrical walls, convection, radiation and fins.
// When no area is given, plane problems are checked as heat flux.
type HeatVerifier struct{}

// NewHeatVerifier creates a HeatVerifier.
func NewHeatVerifier() *HeatVerifier { return &HeatVerifier{} }

// Subject returns model.SubjectHeatTransfer.
func (h *HeatVerifier) Subject() model.Subject { return model.SubjectHeatTransfer }

// Keywords returns the routing vocabulary.
func (h *HeatVerifier) Keywords() []string {
	return []string{
		"conduction", "convection", "radiation", "thermal conductivity", "heat transfer",
		"heat flux", "wall", "insulation", "emissivity", "fin", "pipe", "w/m",
	}
}

// Matches reports whether the problem uses heat transfer vocabulary.
func (h *HeatVerifier) Matches(p *Problem) bool {
	return p.mentions(h.Keywords()...)
}

// Run tries the heat transfer families in order.
func (h *HeatVerifier) Run(p *Problem) (*model.Verification, error) {
	checks := runCases(p, finCase, radiationCase, cylinderWallCase, compositeWallCase, planeWallCase, convectionCase)
	return verification(model.SubjectHeatTransfer, methodClosedForm, checks), nil
}

var (
	lblConductivity = label("k", "thermal conductivity", "conductivity")
	lblFilm         = label("h", "heat transfer coefficient", "convection coefficient", "film coefficient", "convective coefficient")
	lblThickness    = label("L", "thickness", "thick")
	lblAreaA        = label("A", "area", "surface area")
	lblEmissivity   = label("e eps epsilon", "emissivity")
	lblHotT         = label("Ts T_s T1 T_1", "surface temperature", "surface at", "hot side", "inner surface", "inside")
	lblColdT        = label("Tinf T_inf Tsurr T_surr T2 T_2", "ambient", "air at", "surroundings", "cold side", "outer surface", "outside", "fluid at")
	lblInnerR       = label("r1 ri r_i r_1", "inner radius")
	lblOuterR       = label("r2 ro r_o r_2", "outer radius")
	lblLong         = label("L", "length", "long")
	lblDiameterD    = label("D d", "diameter")
	lblBaseT        = label("Tb T_b", "base temperature", "base at")
)

var (
	heatRateNames = []string{"q", "heat rate", "heat transfer rate", "rate of heat transfer", "heat loss", "heat flow", "q_dot"}
	heatFluxNames = []string{"q''", "q\"", "flux", "heat flux", "q/a"}
)

// temperatureDifference reads the driving temperature difference.
func temperatureDifference(p *Problem, hot, cold *regexp.Regexp) (float64, bool) {
	if d, ok := p.delta(lblDeltaT); ok {
		return math.Abs(d), true
	}
	t1, ok1 := p.temperature(hot)
	t2, ok2 := p.temperature(cold)
	if ok1 && ok2 {
		return math.Abs(t1 - t2), true
	}
	if d, ok := temperatureChange(p); ok {
		return math.Abs(d), true
	}
	return 0, false
}

// rateOrFlux returns a rate target when the area is known and a flux
// target otherwise.
func rateOrFlux(p *Problem, what string, perArea float64) []target {
	if a, ok := p.si(lblAreaA, quantity.Area); ok {
		return []target{
			{label: what + " flux", names: heatFluxNames, asks: asks(`flux|per (unit|square) (area|meter)`), value: perArea},
			{label: what + " rate", names: heatRateNames, asks: asks(`rate|heat loss|heat transfer|how much heat`), value: perArea * a, kind: quantity.Power},
		}
	}
	return []target{{label: what + " flux", names: append(heatFluxNames, heatRateNames...), value: perArea}}
}

func planeWallCase(p *Problem) []target {
	if !p.asks("conduct", "wall", "slab", "plate", "thick") {
		return nil
	}
	k, ok1 := p.si(lblConductivity, quantity.Conductivity)
	l, ok2 := p.si(lblThickness, quantity.Length)
	dt, ok3 := temperatureDifference(p, lblHotT, lblColdT)
	if !ok1 || !ok2 || !ok3 || l == 0 {
		return nil
	}
	return rateOrFlux(p, "conduction k*A*dT/L", k*dt/l)
}

func convectionCase(p *Problem) []target {
	if !p.asks("convect", "heat transfer coefficient", "film") {
		return nil
	}
	h, ok1 := p.si(lblFilm, quantity.FilmCoefficient)
	dt, ok2 := temperatureDifference(p, lblHotT, lblColdT)
	if !ok1 || !ok2 {
		return nil
	}
	return rateOrFlux(p, "convection h*A*dT", h*dt)
}

func radiationCase(p *Problem) []target {
	if !p.asks("radiat", "emissivity", "stefan", "blackbody", "black body") {
		return nil
	}
	t1, ok := p.temperature(lblHotT)
	if !ok {
		return nil
	}
	t2, _ := p.temperature(lblColdT)
	eps := 1.0
	if e, ok := p.raw(lblEmissivity); ok {
		eps = e
	}
	return rateOrFlux(p, "radiation eps*sigma*A*(T1^4-T2^4)", eps*stefanBoltzmann*(math.Pow(t1, 4)-math.Pow(t2, 4)))
}

// compositeWallCase adds the layer resistances L_i/(k_i A) and any film
// resistances 1/(h_i A) in series.
func compositeWallCase(p *Problem) []target {
	ls := p.indexed("L", quantity.Length)
	ks := p.indexed("k", quantity.Conductivity)
	if len(ls) < 2 || len(ls) != len(ks) {
		return nil
	}
	dt, ok := temperatureDifference(p, lblHotT, lblColdT)
	if !ok {
		return nil
	}
	var r float64
	for i, l := range ls {
		k, ok := ks.Get(i)
		if !ok || k == 0 {
			return nil
		}
		r += l / k
	}
	hs := p.indexed("h", quantity.FilmCoefficient).Values()
	if len(hs) == 0 {
		if h, ok := p.si(lblFilm, quantity.FilmCoefficient); ok {
			hs = []float64{h}
		}
	}
	for _, h := range hs {
		if h > 0 {
			r += 1 / h
		}
	}
	if r == 0 {
		return nil
	}
	ts := rateOrFlux(p, "composite wall dT/sum(R)", dt/r)
	if a, ok := p.si(lblAreaA, quantity.Area); ok && a > 0 {
		ts = append(ts, target{label: "total thermal resistance", names: []string{"r_total", "rtotal", "r_tot", "total resistance", "thermal resistance", "r"}, asks: asks(`resistance`), value: r / a})
	} else {
		ts = append(ts, target{label: "total unit thermal resistance", names: []string{"r_total", "rtotal", "r_tot", "total resistance", "thermal resistance", "r"}, asks: asks(`resistance`), value: r})
	}
	return ts
}

func cylinderWallCase(p *Problem) []target {
	if !p.asks("pipe", "cylind", "tube") {
		return nil
	}
	r1, ok1 := p.si(lblInnerR, quantity.Length)
	r2, ok2 := p.si(lblOuterR, quantity.Length)
	k, ok3 := p.si(lblConductivity, quantity.Conductivity)
	dt, ok4 := temperatureDifference(p, lblHotT, lblColdT)
	if !ok1 || !ok2 || !ok3 || !ok4 || r1 <= 0 || r2 <= r1 {
		return nil
	}
	perLength := 2 * math.Pi * k * dt / math.Log(r2/r1)
	if l, ok := p.si(lblLong, quantity.Length); ok {
		return []target{
			{label: "cylindrical conduction per length", names: []string{"q'", "q/l", "per meter", "per unit length"}, asks: asks(`per (unit )?(meter|length)`), value: perLength},
			{label: "cylindrical conduction 2*pi*k*L*dT/ln(r2/r1)", names: heatRateNames, asks: asks(`rate|heat loss`), value: perLength * l, kind: quantity.Power},
		}
	}
	return []target{{label: "cylindrical conduction per length", names: append([]string{"q'", "q/l"}, heatRateNames...), value: perLength}}
}

// finCase is a pin fin with an adiabatic tip: q = sqrt(hPkAc)*theta_b*tanh(mL).
func finCase(p *Problem) []target {
	if !p.asks("fin") {
		return nil
	}
	h, ok1 := p.si(lblFilm, quantity.FilmCoefficient)
	k, ok2 := p.si(lblConductivity, quantity.Conductivity)
	d, ok3 := p.si(lblDiameterD, quantity.Length)
	l, ok4 := p.si(lblLong, quantity.Length)
	tb, ok5 := p.temperature(lblBaseT)
	tinf, ok6 := p.temperature(lblColdT)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || k*d == 0 {
		return nil
	}
	per := math.Pi * d
	ac := math.Pi * d * d / 4
	m := math.Sqrt(h * per / (k * ac))
	q := math.Sqrt(h*per*k*ac) * (tb - tinf) * math.Tanh(m*l)
	return []target{
		{label: "fin efficiency tanh(mL)/(mL)", names: []string{"eta", "efficiency", "fin efficiency"}, asks: asks(`efficiency`), value: math.Tanh(m*l) / (m * l), rate: true},
		{label: "fin heat rate sqrt(hPkAc)*theta*tanh(mL)", names: heatRateNames, asks: asks(`rate|heat`), value: q, kind: quantity.Power},
	}
}
