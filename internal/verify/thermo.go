package verify

import (
	"regexp"
	"strconv"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// Physical constants used by the thermodynamics plugin.
const (
	gasConstant   = 8.314  // J/(mol*K)
	fusionWater   = 334e3  // J/kg
	vaporizeWater = 2.26e6 // J/kg
)

// ThermoVerifier recomputes calorimetry, phase change, gas law and first
// law quantities. Each relation is solved for whichever term the
// statement leaves out.
type ThermoVerifier struct{}

// NewThermoVerifier creates a ThermoVerifier.
func NewThermoVerifier() *ThermoVerifier { return &ThermoVerifier{} }

// Subject returns model.SubjectThermo.
func (t *ThermoVerifier) Subject() model.Subject { return model.SubjectThermo }

// Keywords returns the routing vocabulary.
func (t *ThermoVerifier) Keywords() []string {
	return []string{
		"heat", "temperature", "specific heat", "latent", "melt", "boil", "vapor", "gas",
		"pressure", "volume", "moles", "internal energy", "calorimet", "kelvin", "°c",
	}
}

// Matches reports whether the problem uses thermodynamics vocabulary.
func (t *ThermoVerifier) Matches(p *Problem) bool {
	return p.mentions(t.Keywords()...)
}

// Run tries the thermodynamics families in order.
func (t *ThermoVerifier) Run(p *Problem) (*model.Verification, error) {
	checks := runCases(p, firstLawCase, phaseChangeCase, calorimetryCase, combinedGasCase, idealGasCase)
	return verification(model.SubjectThermo, methodClosedForm, checks), nil
}

var (
	lblHeatQ       = label("Q q", "heat", "heat added", "heat absorbed", "heat released", "heat transferred", "energy")
	lblSpecificC   = label("c", "specific heat", "specific heat capacity")
	lblLatent      = label("L Lf Lv", "latent heat", "heat of fusion", "heat of vaporization")
	lblDeltaT      = label("dT", "temperature change", "change in temperature", "temperature rise", "raised by", "increases by")
	lblTempInitial = label("T1 Ti T_1 T_i", "initial temperature")
	lblTempFinal   = label("T2 Tf T_2 T_f", "final temperature")
	lblTemp        = label("T", "temperature", "at")
	lblPressure    = label("P p", "pressure")
	lblVolumeV     = label("V", "volume")
	lblMoles       = label("n", "moles", "number of moles", "amount")
	lblWorkW       = label("W", "work", "work done")
	lblInternalU   = label("dU", "change in internal energy", "internal energy change")
)

var temperatureRange = regexp.MustCompile(`from\s+(-?\d+(?:\.\d+)?)\s*(°[CF]|[CFK])?\s+to\s+(-?\d+(?:\.\d+)?)\s*(°[CF]|[CFK])?`)

// temperatureChange reads ΔT directly, from initial and final
// temperatures, or from "from 20 °C to 80 °C".
func temperatureChange(p *Problem) (float64, bool) {
	if d, ok := p.delta(lblDeltaT); ok {
		return d, true
	}
	t1, ok1 := p.temperature(lblTempInitial)
	t2, ok2 := p.temperature(lblTempFinal)
	if ok1 && ok2 {
		return t2 - t1, true
	}
	m := temperatureRange.FindStringSubmatch(p.Statement)
	if m == nil {
		return 0, false
	}
	unit := m[4]
	if unit == "" {
		unit = m[2]
	}
	a, _ := strconv.ParseFloat(m[1], 64)
	b, _ := strconv.ParseFloat(m[3], 64)
	k1, ok1 := quantity.ToKelvin(a, unit, false)
	k2, ok2 := quantity.ToKelvin(b, unit, false)
	return k2 - k1, ok1 && ok2
}

var heatNames = []string{"q", "heat", "energy", "heat required", "heat absorbed", "heat released"}

func calorimetryCase(p *Problem) []target {
	m, okM := p.si(lblMass, quantity.Mass)
	c, okC := p.si(lblSpecificC, quantity.SpecificHeat)
	q, okQ := p.si(lblHeatQ, quantity.Energy)
	dt, okT := temperatureChange(p)
	switch {
	case okM && okC && okT && !okQ:
		return []target{{label: "heat q = mc*dT", names: heatNames, value: m * c * dt, absolute: true, kind: quantity.Energy}}
	case okQ && okC && okT && !okM && c*dt != 0:
		return []target{{label: "mass m = q/(c*dT)", names: []string{"m", "mass"}, value: q / (c * dt), absolute: true, kind: quantity.Mass}}
	case okQ && okM && okT && !okC && m*dt != 0:
		return []target{{label: "specific heat c = q/(m*dT)", names: []string{"c", "specific heat"}, value: q / (m * dt), absolute: true, kind: quantity.SpecificHeat}}
	case okQ && okM && okC && !okT && m*c != 0:
		d := q / (m * c)
		ts := []target{{label: "temperature change dT = q/(mc)", names: []string{"dt", "temperature change", "change in temperature"}, asks: asks(`change|rise|increase`), value: d}}
		if t1, ok := p.temperature(lblTempInitial); ok {
			ts = append(ts, target{label: "final temperature T1 + q/(mc)", names: []string{"t2", "tf", "t_f", "final temperature", "t"}, asks: asks(`final temperature`), value: t1 + d, temp: true})
		}
		return ts
	}
	return nil
}

func phaseChangeCase(p *Problem) []target {
	if !p.asks("melt", "fusion", "freez", "boil", "vapori", "condens", "latent") {
		return nil
	}
	m, ok := p.si(lblMass, quantity.Mass)
	if !ok {
		return nil
	}
	l, ok := p.si(lblLatent, quantity.LatentHeat)
	if !ok {
		if !p.asks("water", "ice", "steam") {
			return nil
		}
		l = fusionWater
		if p.asks("boil", "vapori", "steam", "condens") {
			l = vaporizeWater
		}
	}
	return []target{{label: "latent heat q = mL", names: heatNames, value: m * l, kind: quantity.Energy}}
}

func idealGasCase(p *Problem) []target {
	if !p.asks("gas", "pv", "nrt") {
		return nil
	}
	pr, okP := p.si(lblPressure, quantity.Pressure)
	v, okV := p.si(lblVolumeV, quantity.Volume)
	n, okN := p.si(lblMoles, quantity.Amount)
	t, okT := p.temperature(lblTemp)
	switch {
	case okV && okN && okT && !okP && v != 0:
		return []target{{label: "pressure P = nRT/V", names: []string{"p", "pressure"}, value: n * gasConstant * t / v, kind: quantity.Pressure}}
	case okP && okN && okT && !okV && pr != 0:
		return []target{{label: "volume V = nRT/P", names: []string{"v", "volume"}, value: n * gasConstant * t / pr, kind: quantity.Volume}}
	case okP && okV && okT && !okN && t != 0:
		return []target{{label: "moles n = PV/(RT)", names: []string{"n", "moles", "number of moles"}, value: pr * v / (gasConstant * t), kind: quantity.Amount}}
	case okP && okV && okN && !okT && n != 0:
		return []target{{label: "temperature T = PV/(nR)", names: []string{"t", "temperature"}, value: pr * v / (n * gasConstant), temp: true}}
	}
	return nil
}

// combinedGasCase solves P1V1/T1 = P2V2/T2. Pressures and volumes only
// need matching units on both sides, so they are read raw.
func combinedGasCase(p *Problem) []target {
	ps := p.indexed("P", nil)
	vs := p.indexed("V", nil)
	ts := p.indexed("T", nil)
	temps := quantity.Indexed{}
	for i := range ts {
		k, ok := p.temperature(label(indexedSymbols("T", i)))
		if !ok {
			return nil
		}
		temps[i] = k
	}
	p1, okP1 := ps.Get(1)
	p2, okP2 := ps.Get(2)
	v1, okV1 := vs.Get(1)
	v2, okV2 := vs.Get(2)
	t1, okT1 := temps.Get(1)
	t2, okT2 := temps.Get(2)
	if len(ps)+len(vs)+len(temps) < 3 {
		return nil
	}
	// Terms the statement does not mention are held constant.
	if !okP1 && !okP2 {
		p1, p2, okP1, okP2 = 1, 1, true, true
	}
	if !okV1 && !okV2 {
		v1, v2, okV1, okV2 = 1, 1, true, true
	}
	if !okT1 && !okT2 {
		t1, t2, okT1, okT2 = 1, 1, true, true
	}
	missing := 0
	for _, ok := range []bool{okP1, okP2, okV1, okV2, okT1, okT2} {
		if !ok {
			missing++
		}
	}
	if missing != 1 {
		return nil
	}
	switch {
	case !okP2 && v2*t1 != 0:
		return []target{{label: "P2 = P1V1T2/(T1V2)", names: []string{"p2", "p_2", "final pressure", "pressure", "p"}, value: p1 * v1 * t2 / (t1 * v2)}}
	case !okV2 && p2*t1 != 0:
		return []target{{label: "V2 = P1V1T2/(T1P2)", names: []string{"v2", "v_2", "final volume", "volume", "v"}, value: p1 * v1 * t2 / (t1 * p2)}}
	case !okT2 && p1*v1 != 0:
		return []target{{label: "T2 = T1P2V2/(P1V1)", names: []string{"t2", "t_2", "final temperature", "temperature", "t"}, value: t1 * p2 * v2 / (p1 * v1), temp: true}}
	case !okP1 && v1*t2 != 0:
		return []target{{label: "P1 = P2V2T1/(T2V1)", names: []string{"p1", "p_1", "initial pressure"}, value: p2 * v2 * t1 / (t2 * v1)}}
	case !okV1 && p1*t2 != 0:
		return []target{{label: "V1 = P2V2T1/(T2P1)", names: []string{"v1", "v_1", "initial volume"}, value: p2 * v2 * t1 / (t2 * p1)}}
	case !okT1 && p2*v2 != 0:
		return []target{{label: "T1 = T2P1V1/(P2V2)", names: []string{"t1", "t_1", "initial temperature"}, value: t2 * p1 * v1 / (p2 * v2), temp: true}}
	}
	return nil
}

// indexedSymbols returns the spellings of an indexed symbol ("T2 T_2").
func indexedSymbols(prefix string, i int) string {
	n := strconv.Itoa(i)
	return prefix + n + " " + prefix + "_" + n
}

func firstLawCase(p *Problem) []target {
	if !p.asks("internal energy", "first law") {
		return nil
	}
	q, okQ := p.si(lblHeatQ, quantity.Energy)
	w, okW := p.si(lblWorkW, quantity.Energy)
	u, okU := p.si(lblInternalU, quantity.Energy)
	if p.asks("work done on", "work is done on", "done on the gas", "done on the system") && okW {
		w = -w
	}
	if p.asks("heat lost", "heat released", "loses", "releases") && okQ {
		q = -q
	}
	switch {
	case okQ && okW && !okU:
		return []target{{label: "first law dU = Q - W", names: []string{"du", "u", "change in internal energy", "internal energy"}, value: q - w, kind: quantity.Energy}}
	case okU && okW && !okQ:
		return []target{{label: "heat Q = dU + W", names: []string{"q", "heat"}, value: u + w, kind: quantity.Energy}}
	case okU && okQ && !okW:
		return []target{{label: "work W = Q - dU", names: []string{"w", "work"}, value: q - u, kind: quantity.Energy}}
	}
	return nil
}
