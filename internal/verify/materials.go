package verify

import (
	"math"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// MaterialsVerifier recomputes mechanics of materials quantities: axial
// stress and strain, deformation, Poisson's ratio, thermal stress, bending,
// torsion and transverse shear.
type MaterialsVerifier struct{}

// NewMaterialsVerifier creates a MaterialsVerifier.
func NewMaterialsVerifier() *MaterialsVerifier { return &MaterialsVerifier{} }

// Subject returns model.SubjectMaterials.
func (m *MaterialsVerifier) Subject() model.Subject { return model.SubjectMaterials }

// Keywords returns the routing vocabulary.
func (m *MaterialsVerifier) Keywords() []string {
	return []string{
		"stress", "strain", "young", "modulus", "elongat", "deform", "poisson", "bending",
		"torque", "torsion", "shaft", "beam", "shear", "cross-section", "mpa", "gpa",
	}
}

// Matches reports whether the problem uses materials vocabulary.
func (m *MaterialsVerifier) Matches(p *Problem) bool {
	return p.mentions(m.Keywords()...)
}

// Run tries the materials families in order.
func (m *MaterialsVerifier) Run(p *Problem) (*model.Verification, error) {
	checks := runCases(p, torsionCase, bendingCase, beamShearCase, thermalStressCase, poissonRatioCase, deformationCase, modulusCase, axialCase)
	return verification(model.SubjectMaterials, methodClosedForm, checks), nil
}

var (
	lblStress     = label("sigma", "stress", "normal stress")
	lblStrain     = label("epsilon eps", "strain", "axial strain", "longitudinal strain")
	lblLatStrain  = label("", "lateral strain", "transverse strain")
	lblModulus    = label("E", "young's modulus", "youngs modulus", "modulus of elasticity", "elastic modulus", "modulus")
	lblElongation = label("dL", "elongation", "change in length", "elongates by", "stretches by", "deformation")
	lblOrigLength = label("L L0 L_0", "length", "original length", "long")
	lblExpansion  = label("alpha", "coefficient of thermal expansion", "thermal expansion coefficient")
	lblMomentM    = label("M", "bending moment", "moment")
	lblInertia    = label("I", "moment of inertia", "second moment of area")
	lblDistanceC  = label("c y", "distance from the neutral axis", "extreme fiber distance")
	lblTorque     = label("T", "torque")
	lblPolarJ     = label("J", "polar moment of inertia", "polar moment")
	lblShearV     = label("V", "shear force", "shear")
	lblBreadth    = label("b", "width", "breadth", "wide")
	lblDepthH     = label("h", "depth", "height", "deep")
)

// crossSection reads the cross-sectional area from A, a diameter or a
// rectangle.
func crossSection(p *Problem) (float64, bool) {
	if a, ok := p.si(lblAreaA, quantity.Area); ok {
		return a, true
	}
	if d, ok := p.si(lblDiameterD, quantity.Length); ok {
		return math.Pi * d * d / 4, true
	}
	b, ok1 := p.si(lblBreadth, quantity.Length)
	h, ok2 := p.si(lblDepthH, quantity.Length)
	if ok1 && ok2 {
		return b * h, true
	}
	return 0, false
}

var stressNames = []string{"sigma", "stress", "normal stress", "axial stress"}

func axialCase(p *Problem) []target {
	if !p.asks("stress") {
		return nil
	}
	f, ok1 := p.si(lblForce, quantity.Force)
	a, ok2 := crossSection(p)
	if !ok1 || !ok2 || a == 0 {
		return nil
	}
	s := f / a
	ts := []target{{label: "stress F/A", names: stressNames, asks: asks(`stress`), value: s, kind: quantity.Pressure}}
	if e, ok := p.si(lblModulus, quantity.Pressure); ok && e != 0 {
		ts = append(ts, target{label: "strain sigma/E", names: []string{"epsilon", "strain"}, asks: asks(`strain`), value: s / e})
	}
	return ts
}

func modulusCase(p *Problem) []target {
	if !p.asks("modulus", "strain") {
		return nil
	}
	l, okL := p.si(lblOrigLength, quantity.Length)
	dl, okD := p.si(lblElongation, quantity.Length)
	strain, okS := p.raw(lblStrain)
	if !okS && okL && okD && l != 0 {
		strain, okS = dl/l, true
	}
	if !okS {
		return nil
	}
	ts := []target{{label: "strain dL/L", names: []string{"epsilon", "strain"}, asks: asks(`strain`), value: strain}}
	stress, ok := p.si(lblStress, quantity.Pressure)
	if !ok {
		f, okF := p.si(lblForce, quantity.Force)
		a, okA := crossSection(p)
		if !okF || !okA || a == 0 {
			return ts
		}
		stress = f / a
	}
	if strain != 0 {
		ts = append([]target{{label: "modulus E = sigma/epsilon", names: []string{"e", "modulus", "young's modulus", "youngs modulus", "modulus of elasticity"}, asks: asks(`modulus`), value: stress / strain, kind: quantity.Pressure}}, ts...)
	}
	return ts
}

func deformationCase(p *Problem) []target {
	if !p.asks("elongat", "deform", "stretch", "extension", "change in length", "shorten") {
		return nil
	}
	f, ok1 := p.si(lblForce, quantity.Force)
	l, ok2 := p.si(lblOrigLength, quantity.Length)
	a, ok3 := crossSection(p)
	e, ok4 := p.si(lblModulus, quantity.Pressure)
	if !ok1 || !ok2 || !ok3 || !ok4 || a*e == 0 {
		return nil
	}
	return []target{{label: "deformation FL/(AE)", names: []string{"delta", "dl", "elongation", "deformation", "change in length", "extension"}, value: f * l / (a * e), kind: quantity.Length}}
}

func poissonRatioCase(p *Problem) []target {
	if !p.asks("poisson") {
		return nil
	}
	lat, ok1 := p.raw(lblLatStrain)
	ax, ok2 := p.raw(lblStrain)
	if !ok1 || !ok2 || ax == 0 {
		return nil
	}
	return []target{{label: "Poisson's ratio -lateral/axial", names: []string{"nu", "v", "poisson's ratio", "poissons ratio", "ratio"}, value: lat / ax, absolute: true}}
}

func thermalStressCase(p *Problem) []target {
	if !p.asks("thermal stress", "constrained", "restrained", "fixed between", "prevented from expanding") {
		return nil
	}
	e, ok1 := p.si(lblModulus, quantity.Pressure)
	alpha, ok2 := p.raw(lblExpansion)
	dt, ok3 := temperatureChange(p)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	return []target{{label: "thermal stress E*alpha*dT", names: stressNames, value: e * alpha * dt, absolute: true, kind: quantity.Pressure}}
}

func bendingCase(p *Problem) []target {
	if !p.asks("bending") {
		return nil
	}
	m, ok := p.si(lblMomentM, quantity.Moment)
	if !ok {
		return nil
	}
	i, okI := p.si(lblInertia, quantity.AreaMoment)
	c, okC := p.si(lblDistanceC, quantity.Length)
	if !okI || !okC {
		b, ok1 := p.si(lblBreadth, quantity.Length)
		h, ok2 := p.si(lblDepthH, quantity.Length)
		if !ok1 || !ok2 {
			return nil
		}
		i, c = b*h*h*h/12, h/2
	}
	if i == 0 {
		return nil
	}
	return []target{{label: "bending stress Mc/I", names: append([]string{"sigma_max", "bending stress", "maximum bending stress"}, stressNames...), value: m * c / i, absolute: true, kind: quantity.Pressure}}
}

func torsionCase(p *Problem) []target {
	if !p.asks("torsion", "torque", "shaft", "twist") {
		return nil
	}
	t, ok := p.si(lblTorque, quantity.Moment)
	if !ok {
		return nil
	}
	j, okJ := p.si(lblPolarJ, quantity.AreaMoment)
	var r float64
	if d, ok := p.si(lblDiameterD, quantity.Length); ok {
		r = d / 2
	} else if rr, ok := p.si(lblRadiusM, quantity.Length); ok {
		r = rr
	} else {
		return nil
	}
	if !okJ {
		j = math.Pi * math.Pow(2*r, 4) / 32
	}
	if j == 0 {
		return nil
	}
	return []target{{label: "torsional shear Tr/J", names: []string{"tau", "tau_max", "shear stress", "maximum shear stress", "stress"}, value: t * r / j, absolute: true, kind: quantity.Pressure}}
}

func beamShearCase(p *Problem) []target {
	if !p.asks("shear stress") || !p.asks("beam", "rectangular") {
		return nil
	}
	v, ok1 := p.si(lblShearV, quantity.Force)
	a, ok2 := crossSection(p)
	if !ok1 || !ok2 || a == 0 {
		return nil
	}
	return []target{{label: "max beam shear 3V/(2A)", names: []string{"tau", "tau_max", "shear stress", "maximum shear stress"}, value: 3 * v / (2 * a), absolute: true, kind: quantity.Pressure}}
}
