package verify

import (
	"math"
	"regexp"
	"strconv"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/quantity"
)

// StaticsVerifier recomputes planar force resultants, equilibrants,
// moments and simply supported beam reactions.
type StaticsVerifier struct{}

// NewStaticsVerifier creates a StaticsVerifier.
func NewStaticsVerifier() *StaticsVerifier { return &StaticsVerifier{} }

// Subject returns model.SubjectStatics.
func (s *StaticsVerifier) Subject() model.Subject { return model.SubjectStatics }

// Keywords returns the routing vocabulary.
func (s *StaticsVerifier) Keywords() []string {
	return []string{
		"resultant", "equilibri", "moment", "torque", "reaction", "support", "beam", "span",
		"simply supported", "forces", "lever", "pivot", "statics",
	}
}

// Matches reports whether the problem uses statics vocabulary.
func (s *StaticsVerifier) Matches(p *Problem) bool {
	return p.mentions(s.Keywords()...)
}

// Run tries the statics families in order.
func (s *StaticsVerifier) Run(p *Problem) (*model.Verification, error) {
	checks := runCases(p, beamCase, resultantCase, momentCase)
	return verification(model.SubjectStatics, methodClosedForm, checks), nil
}

// force is a planar force given by magnitude and direction.
type force struct {
	magnitude float64
	angle     float64 // radians from the positive x axis
}

var (
	forceAt = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(kN|N|lbf|lb)\s*(?:at|@|acting at|directed at)\s*(-?\d+(?:\.\d+)?)\s*(?:°|deg|degrees)`)
	loadAt  = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(kN|N|lbf|lb)\s*(?:(?:point\s+)?(?:load|force)\s*)?(?:at|located at|applied at|acting at)\s*(?:x\s*=\s*)?(\d+(?:\.\d+)?)\s*(m|ft|mm|cm)\b`)
)

var (
	lblSpan = label("L", "span", "length", "long")
	lblUDL  = label("w q", "uniformly distributed load", "distributed load", "udl", "uniform load")
	lblArm  = label("d r", "distance", "lever arm", "moment arm", "perpendicular distance", "from the pivot", "from the hinge")
)

// forces returns every "F at θ°" force in the statement, in newtons.
func forces(text string) []force {
	var out []force
	for _, m := range forceAt.FindAllStringSubmatch(text, -1) {
		mag, err1 := strconv.ParseFloat(m[1], 64)
		deg, err2 := strconv.ParseFloat(m[3], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		n, ok := quantity.Force.ToBase(mag, m[2])
		if !ok {
			n = mag
		}
		out = append(out, force{magnitude: n, angle: deg * math.Pi / 180})
	}
	return out
}

// direction returns an angle in degrees in [0, 360) and its signed
// (-180, 180] form.
func direction(rad float64) (float64, float64) {
	deg := rad * 180 / math.Pi
	signed := deg
	deg = math.Mod(deg+360, 360)
	return deg, signed
}

func resultantCase(p *Problem) []target {
	fs := forces(p.Statement)
	if len(fs) < 2 {
		return nil
	}
	var x, y float64
	for _, f := range fs {
		x += f.magnitude * math.Cos(f.angle)
		y += f.magnitude * math.Sin(f.angle)
	}
	mag := math.Hypot(x, y)
	if p.asks("equilibr", "balanc") {
		x, y = -x, -y
	}
	deg, signed := direction(math.Atan2(y, x))
	magNames := []string{"r", "f_r", "fr", "resultant", "magnitude", "equilibrant", "e", "f", "force"}
	return []target{
		{label: "resultant magnitude sqrt(Rx^2+Ry^2)", names: magNames, asks: asks(`magnitude|resultant|equilibrant|balanc`), value: mag, kind: quantity.Force},
		{label: "resultant direction atan2(Ry, Rx)", names: []string{"theta", "angle", "direction"}, asks: asks(`direction|angle`), value: deg, alts: []float64{signed}},
		{label: "x component", names: []string{"rx", "r_x", "fx", "f_x"}, value: x, kind: quantity.Force},
		{label: "y component", names: []string{"ry", "r_y", "fy", "f_y"}, value: y, kind: quantity.Force},
	}
}

func momentCase(p *Problem) []target {
	if !p.asks("moment", "torque", "lever", "pivot", "wrench") {
		return nil
	}
	f, ok1 := p.si(lblForce, quantity.Force)
	d, ok2 := p.si(lblArm, quantity.Length)
	if !ok1 || !ok2 {
		return nil
	}
	m := f * d
	if th, ok := angleRadians(p, lblAngle); ok {
		m *= math.Sin(th)
	}
	return []target{{label: "moment F*d*sin(theta)", names: []string{"m", "moment", "torque", "tau"}, value: m, absolute: true, kind: quantity.Moment}}
}

// beamCase computes the reactions of a simply supported beam carrying
// point loads and an optional full-span uniform load.
func beamCase(p *Problem) []target {
	if !p.asks("simply supported", "supported at", "supports at", "beam") {
		return nil
	}
	span, ok := p.si(lblSpan, quantity.Length)
	if !ok || span <= 0 {
		return nil
	}
	var total, momentB float64
	for _, m := range loadAt.FindAllStringSubmatch(p.Statement, -1) {
		mag, err1 := strconv.ParseFloat(m[1], 64)
		at, err2 := strconv.ParseFloat(m[3], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		n, okF := quantity.Force.ToBase(mag, m[2])
		x, okX := quantity.Length.ToBase(at, m[4])
		if !okF || !okX || x > span {
			continue
		}
		total += n
		momentB += n * x
	}
	if w, ok := p.si(lblUDL, quantity.Distributed); ok {
		total += w * span
		momentB += w * span * span / 2
	}
	if total == 0 {
		return nil
	}
	rb := momentB / span
	ra := total - rb
	return []target{
		{label: "left reaction RA", names: []string{"ra", "r_a", "r1", "r_1", "va", "v_a", "left reaction", "reaction at a"}, asks: asks(`left|\bat a\b`), value: ra, kind: quantity.Force},
		{label: "right reaction RB", names: []string{"rb", "r_b", "r2", "r_2", "vb", "v_b", "right reaction", "reaction at b"}, asks: asks(`right|\bat b\b`), value: rb, kind: quantity.Force},
	}
}
