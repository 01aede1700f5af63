package verify

import (
	"math"
	"math/cmplx"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// CircuitsVerifier recomputes DC and AC circuit quantities.
//
// Design decision: AC impedance is computed with complex128 so that
// series combinations of R, L and C are a plain sum, and phase and
// magnitude come from cmplx.Phase and cmplx.Abs.
type CircuitsVerifier struct{}

// NewCircuitsVerifier creates a CircuitsVerifier.
func NewCircuitsVerifier() *CircuitsVerifier { return &CircuitsVerifier{} }

// Subject returns model.SubjectCircuits.
func (c *CircuitsVerifier) Subject() model.Subject { return model.SubjectCircuits }

// Keywords returns the routing vocabulary.
func (c *CircuitsVerifier) Keywords() []string {
	return []string{
		"resistor", "resistance", "ohm", "voltage", "current", "circuit", "series", "parallel",
		"capacitor", "inductor", "impedance", "resonan", "cutoff", "time constant", "battery", "divider",
	}
}

// Matches reports whether the problem mentions circuit vocabulary or gives
// a voltage together with a resistance.
func (c *CircuitsVerifier) Matches(p *Problem) bool {
	if p.mentions(c.Keywords()...) {
		return true
	}
	_, okV := p.si(lblVoltage, quantity.Voltage)
	_, okR := p.si(lblResistance, quantity.Resistance)
	return okV && okR
}

// Run tries the circuit families from most to least specific.
func (c *CircuitsVerifier) Run(p *Problem) (*model.Verification, error) {
	checks := runCases(p,
		resonanceCase, cutoffCase, timeConstantCase, impedanceCase,
		voltageDividerCase, currentDividerCase, equivalentCase, dcPowerCase, ohmCase,
	)
	return verification(model.SubjectCircuits, methodClosedForm, checks), nil
}

var (
	lblVoltage     = label("V U E emf", "voltage", "potential difference", "emf", "battery voltage", "supply voltage", "source voltage")
	lblCurrent     = label("I i", "current")
	lblResistance  = label("R", "resistance", "resistor")
	lblCapacitance = label("C", "capacitance", "capacitor")
	lblInductance  = label("L", "inductance", "inductor")
	lblFrequency   = label("f", "frequency")
	lblOmega       = label("omega w", "angular frequency")
)

var (
	currentNames    = []string{"i", "current"}
	voltageNames    = []string{"v", "voltage", "potential difference"}
	resistanceNames = []string{"r", "resistance"}
	powerNames      = []string{"p", "power", "power dissipated"}
)

func resonanceCase(p *Problem) []target {
	if !p.asks("resonan") {
		return nil
	}
	l, ok1 := p.si(lblInductance, quantity.Inductance)
	c, ok2 := p.si(lblCapacitance, quantity.Capacitance)
	if !ok1 || !ok2 || l*c <= 0 {
		return nil
	}
	w := 1 / math.Sqrt(l*c)
	return []target{
		{label: "resonant frequency 1/(2*pi*sqrt(LC))", names: []string{"f", "f0", "f_0", "fr", "resonant frequency", "frequency"}, asks: asks(`frequency`), value: w / (2 * math.Pi), kind: quantity.Frequency},
		{label: "resonant angular frequency 1/sqrt(LC)", names: []string{"omega", "w0", "omega0", "angular frequency"}, asks: asks(`angular`), value: w},
	}
}

func cutoffCase(p *Problem) []target {
	if !p.asks("cutoff", "cut-off", "corner frequency", "-3 db", "3 db") {
		return nil
	}
	r, ok := p.si(lblResistance, quantity.Resistance)
	if !ok || r == 0 {
		return nil
	}
	if c, ok := p.si(lblCapacitance, quantity.Capacitance); ok && c > 0 {
		return []target{{label: "RC cutoff 1/(2*pi*RC)", names: []string{"fc", "f_c", "f", "cutoff frequency", "frequency"}, value: 1 / (2 * math.Pi * r * c), kind: quantity.Frequency}}
	}
	if l, ok := p.si(lblInductance, quantity.Inductance); ok && l > 0 {
		return []target{{label: "RL cutoff R/(2*pi*L)", names: []string{"fc", "f_c", "f", "cutoff frequency", "frequency"}, value: r / (2 * math.Pi * l), kind: quantity.Frequency}}
	}
	return nil
}

func timeConstantCase(p *Problem) []target {
	if !p.asks("time constant", "tau") {
		return nil
	}
	r, ok := p.si(lblResistance, quantity.Resistance)
	if !ok || r == 0 {
		return nil
	}
	names := []string{"tau", "time constant", "t"}
	if c, ok := p.si(lblCapacitance, quantity.Capacitance); ok {
		return []target{{label: "RC time constant", names: names, value: r * c, kind: quantity.Time}}
	}
	if l, ok := p.si(lblInductance, quantity.Inductance); ok {
		return []target{{label: "RL time constant L/R", names: names, value: l / r, kind: quantity.Time}}
	}
	return nil
}

func impedanceCase(p *Problem) []target {
	if !p.asks("impedance", "ac ", "power factor", "phase", "reactance", "apparent power", "reactive power") {
		return nil
	}
	w, ok := p.raw(lblOmega)
	if !ok {
		f, okF := p.si(lblFrequency, quantity.Frequency)
		if !okF {
			return nil
		}
		w = 2 * math.Pi * f
	}
	r, _ := p.si(lblResistance, quantity.Resistance)
	z := complex(r, 0)
	if l, ok := p.si(lblInductance, quantity.Inductance); ok {
		z += complex(0, w*l)
	}
	if c, ok := p.si(lblCapacitance, quantity.Capacitance); ok && c > 0 && w > 0 {
		z += complex(0, -1/(w*c))
	}
	mag := cmplx.Abs(z)
	if mag == 0 {
		return nil
	}
	phase := cmplx.Phase(z)
	ts := []target{
		{label: "impedance |Z|", names: []string{"z", "|z|", "impedance"}, asks: asks(`impedance`), value: mag, kind: quantity.Resistance},
		{label: "phase angle", names: []string{"phi", "theta", "phase", "phase angle"}, asks: asks(`phase`), value: phase * 180 / math.Pi, alts: []float64{phase}},
		{label: "power factor cos(phi)", names: []string{"pf", "power factor"}, asks: asks(`power factor`), value: math.Cos(phase)},
		{label: "reactance X", names: []string{"x", "reactance", "xl", "xc", "x_l", "x_c"}, asks: asks(`reactance`), value: imag(z), absolute: true, kind: quantity.Resistance},
	}
	if v, ok := p.si(lblVoltage, quantity.Voltage); ok {
		i := v / mag
		s := v * i
		ts = append(ts,
			target{label: "current V/|Z|", names: currentNames, asks: asks(`current`), value: i, kind: quantity.Current},
			target{label: "apparent power VI", names: []string{"s", "apparent power"}, asks: asks(`apparent power`), value: s},
			target{label: "real power VI cos(phi)", names: []string{"p", "real power", "average power", "power"}, asks: asks(`real power|average power`), value: s * math.Cos(phase), kind: quantity.Power},
			target{label: "reactive power VI sin(phi)", names: []string{"q", "reactive power"}, asks: asks(`reactive power`), value: s * math.Sin(phase), absolute: true},
		)
	}
	return ts
}

func voltageDividerCase(p *Problem) []target {
	if !p.asks("divider") || !p.asks("voltage", "vout", "v_out", "output") {
		return nil
	}
	rs := resistors(p)
	v, ok := p.si(lblVoltage, quantity.Voltage)
	if !ok || len(rs) != 2 || rs[0]+rs[1] == 0 {
		return nil
	}
	return []target{{label: "voltage divider Vin*R2/(R1+R2)", names: []string{"vout", "v_out", "vo", "v2", "output voltage", "v"}, value: v * rs[1] / (rs[0] + rs[1]), kind: quantity.Voltage}}
}

func currentDividerCase(p *Problem) []target {
	if !p.asks("divider", "branch") || !p.asks("current") {
		return nil
	}
	rs := resistors(p)
	i, ok := p.si(lblCurrent, quantity.Current)
	if !ok || len(rs) != 2 || rs[0]+rs[1] == 0 {
		return nil
	}
	sum := rs[0] + rs[1]
	return []target{
		{label: "branch current I*R2/(R1+R2)", names: []string{"i1", "i_1"}, asks: asks(`r1|first`), value: i * rs[1] / sum, kind: quantity.Current},
		{label: "branch current I*R1/(R1+R2)", names: []string{"i2", "i_2"}, asks: asks(`r2|second`), value: i * rs[0] / sum, kind: quantity.Current},
	}
}

// resistors returns R1, R2, ... or a "resistors of ..." list.
func resistors(p *Problem) []float64 {
	if rs := p.indexed("R", quantity.Resistance); len(rs) > 0 {
		return rs.Values()
	}
	if rs, ok := p.list(label("", "resistors", "resistances", "resistors of", "resistances of")); ok {
		return rs
	}
	return nil
}

func equivalentCase(p *Problem) []target {
	series, parallel := p.asks("series"), p.asks("parallel")
	if !series && !parallel {
		return nil
	}
	rs := resistors(p)
	if len(rs) < 2 {
		return nil
	}
	var sum, inv float64
	for _, r := range rs {
		sum += r
		if r == 0 {
			return nil
		}
		inv += 1 / r
	}
	req := sum
	name := "series resistance R1+R2+..."
	if parallel && !series {
		req = 1 / inv
		name = "parallel resistance 1/(1/R1+1/R2+...)"
	}
	names := []string{"req", "r_eq", "rt", "r_t", "r_total", "equivalent resistance", "total resistance", "r"}
	ts := []target{{label: name, names: names, asks: asks(`equivalent|total resistance`), value: req, kind: quantity.Resistance}}
	if v, ok := p.si(lblVoltage, quantity.Voltage); ok && req > 0 {
		ts = append(ts,
			target{label: "total current V/Req", names: append([]string{"it", "i_t", "total current"}, currentNames...), asks: asks(`current`), value: v / req, kind: quantity.Current},
			target{label: "total power V^2/Req", names: powerNames, asks: asks(`power`), value: v * v / req, kind: quantity.Power},
		)
	}
	return ts
}

func dcPowerCase(p *Problem) []target {
	if !p.asks("power", "dissipat") {
		return nil
	}
	v, okV := p.si(lblVoltage, quantity.Voltage)
	i, okI := p.si(lblCurrent, quantity.Current)
	r, okR := p.si(lblResistance, quantity.Resistance)
	var pw float64
	switch {
	case okV && okI:
		pw = v * i
	case okI && okR:
		pw = i * i * r
	case okV && okR && r != 0:
		pw = v * v / r
	default:
		return nil
	}
	return []target{{label: "power P = VI", names: powerNames, value: pw, kind: quantity.Power}}
}

func ohmCase(p *Problem) []target {
	v, okV := p.si(lblVoltage, quantity.Voltage)
	i, okI := p.si(lblCurrent, quantity.Current)
	r, okR := p.si(lblResistance, quantity.Resistance)
	switch {
	case okV && okR && !okI && r != 0:
		return []target{{label: "current I = V/R", names: currentNames, value: v / r, kind: quantity.Current}}
	case okI && okR && !okV:
		return []target{{label: "voltage V = IR", names: voltageNames, value: i * r, kind: quantity.Voltage}}
	case okV && okI && !okR && i != 0:
		return []target{{label: "resistance R = V/I", names: resistanceNames, value: v / i, kind: quantity.Resistance}}
	}
	return nil
}
