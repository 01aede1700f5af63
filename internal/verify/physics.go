package verify

import (
	"math"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// standardGravity is used when the problem does not state g.
const standardGravity = 9.81

// PhysicsVerifier recomputes mechanics quantities: kinematics, projectiles,
// Newton's second law, friction, energy, power, momentum, collisions,
// circular motion and springs. All inputs are converted to SI.
type PhysicsVerifier struct{}

// NewPhysicsVerifier creates a PhysicsVerifier.
func NewPhysicsVerifier() *PhysicsVerifier { return &PhysicsVerifier{} }

// Subject returns model.SubjectPhysics.
func (ph *PhysicsVerifier) Subject() model.Subject { return model.SubjectPhysics }

// Keywords returns the routing vocabulary.
func (ph *PhysicsVerifier) Keywords() []string {
	return []string{
		"velocity", "speed", "accelerat", "projectile", "launched", "thrown", "force",
		"mass", "friction", "kinetic", "potential energy", "work", "power", "momentum",
		"collision", "centripetal", "spring", "displacement", "newton", "m/s", "kg",
	}
}

// Matches reports whether the problem uses mechanics vocabulary.
func (ph *PhysicsVerifier) Matches(p *Problem) bool {
	return p.mentions(ph.Keywords()...)
}

// Run tries the mechanics families from most to least specific.
func (ph *PhysicsVerifier) Run(p *Problem) (*model.Verification, error) {
	checks := runCases(p,
		projectileCase, collisionCase, springCase, circularCase, frictionCase,
		kineticCase, potentialCase, workCase, powerCase, momentumCase,
		weightCase, newtonCase, kinematicsCase,
	)
	return verification(model.SubjectPhysics, methodClosedForm, checks), nil
}

var (
	lblMass     = label("m", "mass")
	lblAccel    = label("a", "acceleration")
	lblForce    = label("F", "force", "applied force", "net force")
	lblVelocity = label("v", "velocity", "speed")
	lblInitialV = label("u v0 v_0 vi v_i", "initial velocity", "initial speed", "launch speed", "launched at", "thrown at", "starting velocity")
	lblFinalV   = label("v vf v_f", "final velocity", "final speed")
	lblTime     = label("t", "time")
	lblDisp     = label("s d x", "displacement", "distance")
	lblGravity  = label("g", "gravitational acceleration", "acceleration due to gravity")
	lblHeightM  = label("h", "height")
	lblRadiusM  = label("r", "radius")
	lblSpringK  = label("k", "spring constant", "stiffness")
	lblExt      = label("x", "extension", "compression", "stretched by", "compressed by", "displacement")
	lblMu       = label("mu", "coefficient of friction", "coefficient of kinetic friction", "coefficient of static friction")
	lblNormal   = label("N", "normal force")
	lblWork     = label("W", "work", "work done")
	lblEnergyJ  = label("E", "energy")
	lblPeriod   = label("T", "period")
)

func gravity(p *Problem) float64 {
	if g, ok := p.si(lblGravity, quantity.Acceleration); ok && g > 0 {
		return g
	}
	return standardGravity
}

func projectileCase(p *Problem) []target {
	if !p.asks("projectile", "launched", "thrown", "kicked", "fired") || !p.asks("angle", "theta") {
		return nil
	}
	v0, ok1 := first(
		func() (float64, bool) { return p.si(lblInitialV, quantity.Velocity) },
		func() (float64, bool) { return p.si(lblVelocity, quantity.Velocity) },
	)
	th, ok2 := angleRadians(p, lblAngle)
	if !ok1 || !ok2 {
		return nil
	}
	g := gravity(p)
	sin, cos := math.Sin(th), math.Cos(th)
	return []target{
		{label: "range v^2 sin(2theta)/g", names: []string{"range", "r", "horizontal distance", "horizontal range"}, asks: asks(`range|horizontal distance|how far`), value: v0 * v0 * math.Sin(2*th) / g, kind: quantity.Length},
		{label: "max height (v sin theta)^2/2g", names: []string{"maximum height", "max height", "height", "h", "hmax"}, asks: asks(`height|how high`), value: math.Pow(v0*sin, 2) / (2 * g), kind: quantity.Length},
		{label: "time of flight 2v sin theta/g", names: []string{"time of flight", "flight time", "time", "t"}, asks: asks(`time|how long`), value: 2 * v0 * sin / g, kind: quantity.Time},
		{label: "horizontal velocity v cos theta", names: []string{"vx", "horizontal velocity", "horizontal component"}, asks: asks(`horizontal (velocity|component)`), value: v0 * cos, kind: quantity.Velocity},
	}
}

func collisionCase(p *Problem) []target {
	if !p.asks("elastic") || p.asks("inelastic") {
		return nil
	}
	m1, m2, okM := indexPair(p.indexed("m", quantity.Mass))
	u1, u2, okU := indexPair(p.indexed("u", quantity.Velocity))
	if !okU {
		u1, u2, okU = indexPair(p.indexed("v", quantity.Velocity))
	}
	if !okM || !okU || m1+m2 == 0 {
		return nil
	}
	sum := m1 + m2
	return []target{
		{label: "elastic v1' = ((m1-m2)u1 + 2m2u2)/(m1+m2)", names: []string{"v1'", "v1f", "v1_f", "v1", "v_1'"}, asks: asks(`first|v1`), value: ((m1-m2)*u1 + 2*m2*u2) / sum, kind: quantity.Velocity},
		{label: "elastic v2' = ((m2-m1)u2 + 2m1u1)/(m1+m2)", names: []string{"v2'", "v2f", "v2_f", "v2", "v_2'"}, asks: asks(`second|v2`), value: ((m2-m1)*u2 + 2*m1*u1) / sum, kind: quantity.Velocity},
	}
}

func springCase(p *Problem) []target {
	if !p.asks("spring", "hooke") {
		return nil
	}
	k, ok1 := p.si(lblSpringK, quantity.Stiffness)
	x, ok2 := p.si(lblExt, quantity.Length)
	if !ok1 || !ok2 {
		return nil
	}
	return []target{
		{label: "spring force kx", names: []string{"f", "force", "spring force"}, asks: asks(`force`), value: k * x, kind: quantity.Force},
		{label: "spring energy kx^2/2", names: []string{"e", "energy", "pe", "u", "elastic potential energy"}, asks: asks(`energy`), value: k * x * x / 2, kind: quantity.Energy},
	}
}

func circularCase(p *Problem) []target {
	if !p.asks("circular", "centripetal", "circle", "orbit") {
		return nil
	}
	r, ok := p.si(lblRadiusM, quantity.Length)
	if !ok || r == 0 {
		return nil
	}
	v, ok := p.si(lblVelocity, quantity.Velocity)
	if !ok {
		t, okT := p.si(lblPeriod, quantity.Time)
		if !okT || t == 0 {
			return nil
		}
		v = 2 * math.Pi * r / t
	}
	ts := []target{
		{label: "centripetal acceleration v^2/r", names: []string{"a", "ac", "a_c", "centripetal acceleration"}, asks: asks(`acceleration`), value: v * v / r, kind: quantity.Acceleration},
		{label: "speed 2*pi*r/T", names: []string{"v", "speed", "velocity"}, asks: asks(`speed|velocity`), value: v, kind: quantity.Velocity},
	}
	if m, ok := p.si(lblMass, quantity.Mass); ok {
		ts = append(ts, target{label: "centripetal force mv^2/r", names: []string{"f", "fc", "f_c", "centripetal force", "force", "tension"}, asks: asks(`force|tension`), value: m * v * v / r, kind: quantity.Force})
	}
	return ts
}

func frictionCase(p *Problem) []target {
	if !p.asks("friction") {
		return nil
	}
	mu, ok := p.raw(lblMu)
	if !ok {
		return nil
	}
	n, ok := p.si(lblNormal, quantity.Force)
	if !ok {
		m, okM := p.si(lblMass, quantity.Mass)
		if !okM {
			return nil
		}
		n = m * gravity(p)
	}
	return []target{{label: "friction mu*N", names: []string{"friction", "f", "ff", "f_f", "friction force", "frictional force"}, value: mu * n, kind: quantity.Force}}
}

func kineticCase(p *Problem) []target {
	if !p.asks("kinetic energy", "ke") {
		return nil
	}
	m, ok1 := p.si(lblMass, quantity.Mass)
	v, ok2 := p.si(lblVelocity, quantity.Velocity)
	if !ok1 || !ok2 {
		return nil
	}
	return []target{{label: "kinetic energy mv^2/2", names: []string{"ke", "kinetic energy", "ek", "k", "e"}, value: m * v * v / 2, kind: quantity.Energy}}
}

func potentialCase(p *Problem) []target {
	if !p.asks("potential energy", "pe", "gpe") {
		return nil
	}
	m, ok1 := p.si(lblMass, quantity.Mass)
	h, ok2 := p.si(lblHeightM, quantity.Length)
	if !ok1 || !ok2 {
		return nil
	}
	return []target{{label: "potential energy mgh", names: []string{"pe", "potential energy", "ep", "u", "gpe", "e"}, value: m * gravity(p) * h, kind: quantity.Energy}}
}

func workCase(p *Problem) []target {
	if !p.asks("work") {
		return nil
	}
	f, ok1 := p.si(lblForce, quantity.Force)
	d, ok2 := p.si(lblDisp, quantity.Length)
	if !ok1 || !ok2 {
		return nil
	}
	w := f * d
	if th, ok := angleRadians(p, lblAngle); ok {
		w *= math.Cos(th)
	}
	return []target{{label: "work F*d*cos(theta)", names: []string{"w", "work", "work done"}, value: w, kind: quantity.Energy}}
}

func powerCase(p *Problem) []target {
	if !p.asks("power") {
		return nil
	}
	if t, ok := p.si(lblTime, quantity.Time); ok && t > 0 {
		if w, ok := p.si(lblWork, quantity.Energy); ok {
			return []target{{label: "power W/t", names: []string{"p", "power"}, value: w / t, kind: quantity.Power}}
		}
		if e, ok := p.si(lblEnergyJ, quantity.Energy); ok {
			return []target{{label: "power E/t", names: []string{"p", "power"}, value: e / t, kind: quantity.Power}}
		}
	}
	f, ok1 := p.si(lblForce, quantity.Force)
	v, ok2 := p.si(lblVelocity, quantity.Velocity)
	if !ok1 || !ok2 {
		return nil
	}
	return []target{{label: "power F*v", names: []string{"p", "power"}, value: f * v, kind: quantity.Power}}
}

func momentumCase(p *Problem) []target {
	if !p.asks("momentum") {
		return nil
	}
	m, ok1 := p.si(lblMass, quantity.Mass)
	v, ok2 := p.si(lblVelocity, quantity.Velocity)
	if !ok1 || !ok2 {
		return nil
	}
	return []target{{label: "momentum mv", names: []string{"p", "momentum"}, value: m * v}}
}

func weightCase(p *Problem) []target {
	if !p.asks("weight") {
		return nil
	}
	m, ok := p.si(lblMass, quantity.Mass)
	if !ok {
		return nil
	}
	return []target{{label: "weight mg", names: []string{"w", "weight", "fg", "f_g"}, value: m * gravity(p), kind: quantity.Force}}
}

func newtonCase(p *Problem) []target {
	m, okM := p.si(lblMass, quantity.Mass)
	a, okA := p.si(lblAccel, quantity.Acceleration)
	f, okF := p.si(lblForce, quantity.Force)
	switch {
	case okM && okA && !okF:
		return []target{{label: "F = ma", names: []string{"f", "force", "net force"}, value: m * a, kind: quantity.Force}}
	case okF && okM && !okA && m != 0:
		return []target{{label: "a = F/m", names: []string{"a", "acceleration"}, value: f / m, kind: quantity.Acceleration}}
	case okF && okA && !okM && a != 0:
		return []target{{label: "m = F/a", names: []string{"m", "mass"}, value: f / a, kind: quantity.Mass}}
	}
	return nil
}

// suvat holds the five constant-acceleration quantities.
type suvat struct {
	u, v, a, t, s          float64
	hu, hv, ha, ht, hs     bool
	givenU, givenV, givenA bool
	givenT, givenS         bool
}

// solve fills in the unknowns from the three constant-acceleration
// relations until nothing changes.
func (k *suvat) solve() {
	for range 3 {
		if !k.hv && k.hu && k.ha && k.ht {
			k.v, k.hv = k.u+k.a*k.t, true
		}
		if !k.ha && k.hu && k.hv && k.ht && k.t != 0 {
			k.a, k.ha = (k.v-k.u)/k.t, true
		}
		if !k.ht && k.hu && k.hv && k.ha && k.a != 0 {
			k.t, k.ht = (k.v-k.u)/k.a, true
		}
		if !k.hv && k.hu && k.ha && k.hs {
			if v2 := k.u*k.u + 2*k.a*k.s; v2 >= 0 {
				k.v, k.hv = math.Sqrt(v2), true
			}
		}
		if !k.hu && k.hv && k.ha && k.hs {
			if u2 := k.v*k.v - 2*k.a*k.s; u2 >= 0 {
				k.u, k.hu = math.Sqrt(u2), true
			}
		}
		if !k.hs && k.hu && k.hv && k.ht {
			k.s, k.hs = (k.u+k.v)*k.t/2, true
		}
		if !k.hu && k.hv && k.ha && k.ht {
			k.u, k.hu = k.v-k.a*k.t, true
		}
		if !k.ht && k.hu && k.hv && k.hs && k.u+k.v != 0 {
			k.t, k.ht = 2*k.s/(k.u+k.v), true
		}
		if !k.ha && k.hu && k.hv && k.hs && k.s != 0 {
			k.a, k.ha = (k.v*k.v-k.u*k.u)/(2*k.s), true
		}
		if !k.hs && k.hu && k.ha && k.ht {
			k.s, k.hs = k.u*k.t+k.a*k.t*k.t/2, true
		}
	}
}

func kinematicsCase(p *Problem) []target {
	var k suvat
	k.u, k.hu = p.si(lblInitialV, quantity.Velocity)
	if !k.hu && p.asks("from rest", "starts at rest", "starting from rest", "initially at rest") {
		k.u, k.hu = 0, true
	}
	k.v, k.hv = p.si(lblFinalV, quantity.Velocity)
	if !k.hv && p.asks("comes to rest", "comes to a stop", "stops") {
		k.v, k.hv = 0, true
	}
	k.a, k.ha = p.si(lblAccel, quantity.Acceleration)
	k.t, k.ht = p.si(lblTime, quantity.Time)
	k.s, k.hs = p.si(lblDisp, quantity.Length)
	k.givenU, k.givenV, k.givenA, k.givenT, k.givenS = k.hu, k.hv, k.ha, k.ht, k.hs
	given := 0
	for _, g := range []bool{k.hu, k.hv, k.ha, k.ht, k.hs} {
		if g {
			given++
		}
	}
	if given < 3 {
		return nil
	}
	k.solve()
	var ts []target
	if k.hv && !k.givenV {
		ts = append(ts, target{label: "final velocity", names: []string{"v", "final velocity", "vf", "v_f", "speed", "velocity"}, asks: asks(`final (velocity|speed)|how fast`), value: k.v, kind: quantity.Velocity})
	}
	if k.hs && !k.givenS {
		ts = append(ts, target{label: "displacement", names: []string{"s", "displacement", "distance", "d", "x"}, asks: asks(`distance|displacement|how far`), value: k.s, kind: quantity.Length})
	}
	if k.ht && !k.givenT {
		ts = append(ts, target{label: "time", names: []string{"t", "time"}, asks: asks(`time|how long`), value: k.t, kind: quantity.Time})
	}
	if k.ha && !k.givenA {
		ts = append(ts, target{label: "acceleration", names: []string{"a", "acceleration"}, asks: asks(`accelerat`), value: k.a, kind: quantity.Acceleration})
	}
	if k.hu && !k.givenU {
		ts = append(ts, target{label: "initial velocity", names: []string{"u", "initial velocity", "v0", "v_0", "vi"}, asks: asks(`initial (velocity|speed)`), value: k.u, kind: quantity.Velocity})
	}
	return ts
}
