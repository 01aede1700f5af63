package verify

import (
	"math"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// Reference values for fluid problems.
const (
	atmospheric  = 101325.0 // Pa
	waterDensity = 1000.0   // kg/m^3
)

// FluidsVerifier recomputes fluid statics and incompressible flow
// quantities.
type FluidsVerifier struct{}

// NewFluidsVerifier creates a FluidsVerifier.
func NewFluidsVerifier() *FluidsVerifier { return &FluidsVerifier{} }

// Subject returns model.SubjectFluids.
func (f *FluidsVerifier) Subject() model.Subject { return model.SubjectFluids }

// Keywords returns the routing vocabulary.
func (f *FluidsVerifier) Keywords() []string {
	return []string{
		"fluid", "density", "pressure", "depth", "pipe", "flow", "bernoulli", "reynolds",
		"viscosity", "buoyan", "submerged", "tank", "nozzle", "head loss", "friction factor", "water",
	}
}

// Matches reports whether the problem uses fluids vocabulary.
func (f *FluidsVerifier) Matches(p *Problem) bool {
	return p.mentions(f.Keywords()...)
}

// Run tries the fluids families in order.
func (f *FluidsVerifier) Run(p *Problem) (*model.Verification, error) {
	checks := runCases(p, reynoldsCase, darcyCase, bernoulliCase, torricelliCase, buoyancyCase, continuityCase, flowRateCase, hydrostaticCase)
	return verification(model.SubjectFluids, methodClosedForm, checks), nil
}

var (
	lblDensity   = label("rho", "density")
	lblDepth     = label("h", "depth", "deep", "height", "head")
	lblViscosity = label("mu", "viscosity", "dynamic viscosity")
	lblKinematic = label("nu", "kinematic viscosity")
	lblFriction  = label("f", "friction factor", "darcy friction factor")
	lblPipeD     = label("D d", "diameter", "pipe diameter")
	lblFlowQ     = label("Q", "flow rate", "volumetric flow rate", "discharge")
	lblVolumeSub = label("V", "volume", "displaced volume", "submerged volume")
)

// density reads ρ, defaulting to water when the problem is about water.
func density(p *Problem) (float64, bool) {
	if rho, ok := p.si(lblDensity, quantity.Density); ok {
		return rho, true
	}
	if p.asks("water") {
		return waterDensity, true
	}
	return 0, false
}

func hydrostaticCase(p *Problem) []target {
	if !p.asks("depth", "deep", "below the surface", "column", "pressure at", "hydrostatic") {
		return nil
	}
	rho, ok1 := density(p)
	h, ok2 := p.si(lblDepth, quantity.Length)
	if !ok1 || !ok2 {
		return nil
	}
	gauge := rho * gravity(p) * h
	if p.asks("absolute", "total pressure") {
		return []target{{label: "absolute pressure Patm + rho*g*h", names: []string{"p_abs", "pabs", "absolute pressure", "total pressure", "p", "pressure"}, value: gauge + atmospheric, kind: quantity.Pressure}}
	}
	return []target{{label: "gauge pressure rho*g*h", names: []string{"p_gauge", "pgauge", "gauge pressure", "p", "pressure"}, value: gauge, kind: quantity.Pressure}}
}

// pipeSections reads the two sections of a pipe as areas, from A1/A2 or
// from diameters d1/d2.
func pipeSections(p *Problem) (float64, float64, bool) {
	if a1, a2, ok := indexPair(p.indexed("A", quantity.Area)); ok {
		return a1, a2, true
	}
	d1, d2, ok := indexPair(p.indexed("d", quantity.Length))
	if !ok {
		d1, d2, ok = indexPair(p.indexed("D", quantity.Length))
	}
	if ok {
		return math.Pi * d1 * d1 / 4, math.Pi * d2 * d2 / 4, true
	}
	return 0, 0, false
}

func continuityCase(p *Problem) []target {
	a1, a2, ok := pipeSections(p)
	if !ok || a2 == 0 {
		return nil
	}
	vs := p.indexed("v", quantity.Velocity)
	v1, ok := vs.Get(1)
	if !ok || vs.Has(2) {
		return nil
	}
	return []target{
		{label: "continuity v2 = A1*v1/A2", names: []string{"v2", "v_2", "velocity", "speed", "v"}, asks: asks(`velocity|speed`), value: a1 * v1 / a2, kind: quantity.Velocity},
		{label: "flow rate Q = A1*v1", names: []string{"q", "flow rate", "discharge"}, asks: asks(`flow rate|discharge`), value: a1 * v1, kind: quantity.Flow},
	}
}

func flowRateCase(p *Problem) []target {
	if !p.asks("flow rate", "discharge", "volumetric") {
		return nil
	}
	v, ok := p.si(lblVelocity, quantity.Velocity)
	if !ok {
		return nil
	}
	a, ok := p.si(lblAreaA, quantity.Area)
	if !ok {
		d, okD := p.si(lblPipeD, quantity.Length)
		if !okD {
			return nil
		}
		a = math.Pi * d * d / 4
	}
	return []target{{label: "flow rate Q = A*v", names: []string{"q", "flow rate", "discharge", "volumetric flow rate"}, value: a * v, kind: quantity.Flow}}
}

// bernoulliCase solves P1 + ρv1²/2 + ρgh1 = P2 + ρv2²/2 + ρgh2 for the
// missing P2 or v2. Unstated heights are taken as equal.
func bernoulliCase(p *Problem) []target {
	if !p.asks("bernoulli") && len(p.indexed("P", quantity.Pressure)) == 0 {
		return nil
	}
	rho, ok := density(p)
	if !ok {
		return nil
	}
	ps := p.indexed("P", quantity.Pressure)
	vs := p.indexed("v", quantity.Velocity)
	h1, h2, ok := indexPair(p.indexed("h", quantity.Length))
	if !ok {
		h1, h2 = 0, 0
	}
	p1, okP1 := ps.Get(1)
	p2, okP2 := ps.Get(2)
	v1, okV1 := vs.Get(1)
	v2, okV2 := vs.Get(2)
	g := gravity(p)
	switch {
	case okP1 && !okP2 && okV1 && okV2:
		return []target{{label: "Bernoulli P2", names: []string{"p2", "p_2", "pressure", "p"}, value: p1 + rho*(v1*v1-v2*v2)/2 + rho*g*(h1-h2), kind: quantity.Pressure}}
	case okP1 && okP2 && okV1 && !okV2:
		v2sq := v1*v1 + 2*(p1-p2)/rho + 2*g*(h1-h2)
		if v2sq < 0 {
			return nil
		}
		return []target{{label: "Bernoulli v2", names: []string{"v2", "v_2", "velocity", "speed", "v"}, value: math.Sqrt(v2sq), kind: quantity.Velocity}}
	}
	return nil
}

func torricelliCase(p *Problem) []target {
	if !p.asks("torricelli", "orifice", "hole", "drain", "efflux") {
		return nil
	}
	h, ok := p.si(lblDepth, quantity.Length)
	if !ok {
		return nil
	}
	v := math.Sqrt(2 * gravity(p) * h)
	ts := []target{{label: "Torricelli v = sqrt(2gh)", names: []string{"v", "velocity", "speed", "exit velocity", "efflux speed"}, asks: asks(`velocity|speed`), value: v, kind: quantity.Velocity}}
	if a, ok := p.si(lblAreaA, quantity.Area); ok {
		ts = append(ts, target{label: "orifice flow rate A*sqrt(2gh)", names: []string{"q", "flow rate", "discharge"}, asks: asks(`flow rate|discharge`), value: a * v, kind: quantity.Flow})
	}
	return ts
}

func reynoldsCase(p *Problem) []target {
	if !p.asks("reynolds", "laminar", "turbulent") {
		return nil
	}
	v, ok1 := p.si(lblVelocity, quantity.Velocity)
	d, ok2 := p.si(lblPipeD, quantity.Length)
	if !ok1 || !ok2 {
		return nil
	}
	var re float64
	if nu, ok := p.raw(lblKinematic); ok && nu > 0 {
		re = v * d / nu
	} else {
		rho, okR := density(p)
		mu, okM := p.si(lblViscosity, quantity.Viscosity)
		if !okR || !okM || mu == 0 {
			return nil
		}
		re = rho * v * d / mu
	}
	return []target{{label: "Reynolds number rho*v*D/mu", names: []string{"re", "reynolds number", "reynolds"}, value: re}}
}

func darcyCase(p *Problem) []target {
	if !p.asks("head loss", "darcy", "friction factor", "pressure drop") {
		return nil
	}
	f, ok1 := p.raw(lblFriction)
	l, ok2 := p.si(lblLong, quantity.Length)
	d, ok3 := p.si(lblPipeD, quantity.Length)
	v, ok4 := p.si(lblVelocity, quantity.Velocity)
	if !ok1 || !ok2 || !ok3 || !ok4 || d == 0 {
		return nil
	}
	g := gravity(p)
	hf := f * (l / d) * v * v / (2 * g)
	ts := []target{{label: "head loss f*(L/D)*v^2/(2g)", names: []string{"hf", "h_f", "h_l", "hl", "head loss"}, asks: asks(`head loss`), value: hf, kind: quantity.Length}}
	if rho, ok := density(p); ok {
		ts = append(ts, target{label: "pressure drop rho*g*hf", names: []string{"dp", "pressure drop", "pressure loss"}, asks: asks(`pressure drop|pressure loss`), value: rho * g * hf, kind: quantity.Pressure})
	}
	return ts
}

func buoyancyCase(p *Problem) []target {
	if !p.asks("buoyan", "submerged", "archimedes", "displaced") {
		return nil
	}
	rho, ok1 := density(p)
	v, ok2 := p.si(lblVolumeSub, quantity.Volume)
	if !ok1 || !ok2 {
		return nil
	}
	return []target{{label: "buoyant force rho*g*V", names: []string{"fb", "f_b", "buoyant force", "buoyancy", "force", "f"}, value: rho * gravity(p) * v, kind: quantity.Force}}
}
