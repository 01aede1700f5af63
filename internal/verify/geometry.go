package verify

import (
	"math"
	"regexp"
	"strconv"

	"github.com/nao1215/solvecheck/internal/model"
	"github.com/nao1215/solvecheck/internal/numeric"
)

// GeometryVerifier recomputes lengths, areas and volumes of plane figures,
// solids and coordinate figures. Inputs are read in the units the question
// uses, so answers are compared in those units too.
type GeometryVerifier struct{}

// NewGeometryVerifier creates a GeometryVerifier.
func NewGeometryVerifier() *GeometryVerifier { return &GeometryVerifier{} }

// Subject returns model.SubjectGeometry.
func (g *GeometryVerifier) Subject() model.Subject { return model.SubjectGeometry }

// Keywords returns the routing vocabulary.
func (g *GeometryVerifier) Keywords() []string {
	return []string{
		"triangle", "hypotenuse", "rectangle", "square", "circle", "radius", "diameter",
		"circumference", "perimeter", "area", "sector", "arc", "polygon", "vertices",
		"distance", "slope", "midpoint", "cube", "prism", "cylinder", "cone", "sphere",
		"volume", "surface area", "pythag",
	}
}

// Matches reports whether the problem mentions a figure.
func (g *GeometryVerifier) Matches(p *Problem) bool {
	return p.mentions(g.Keywords()...)
}

// Run tries the figure families from most to least specific.
func (g *GeometryVerifier) Run(p *Problem) (*model.Verification, error) {
	if checks := midpointChecks(p); len(checks) > 0 {
		return verification(model.SubjectGeometry, methodClosedForm, checks), nil
	}
	checks := runCases(p,
		cubeCase, prismCase, cylinderCase, coneCase, sphereCase,
		sectorCase, circleCase,
		rightTriangleCase, triangleCase,
		rectangleCase, squareCase,
		coordinateCase,
	)
	return verification(model.SubjectGeometry, methodClosedForm, checks), nil
}

var (
	lblRadius   = label("r R", "radius")
	lblDiameter = label("d D", "diameter")
	lblHeight   = label("h H", "height")
	lblLength   = label("l L", "length")
	lblWidth    = label("w W", "width", "breadth")
	lblSide     = label("s a", "side", "side length", "edge", "edge length")
	lblAngle    = label("theta angle", "angle")
	lblBase     = label("b", "base")

	asksArea      = asks(`\barea\b`)
	asksPerimeter = asks(`perimeter`)
	asksVolume    = asks(`volume`)
	asksSurface   = asks(`surface`)
	asksDiagonal  = asks(`diagonal`)

	namesArea      = []string{"area", "a"}
	namesPerimeter = []string{"perimeter", "p"}
	namesVolume    = []string{"volume", "v"}
	namesSurface   = []string{"surface area", "sa", "total surface area", "tsa"}
	namesDiagonal  = []string{"diagonal", "d"}
)

// radius reads a radius or half a diameter.
func radius(p *Problem) (float64, bool) {
	if r, ok := p.raw(lblRadius); ok {
		return r, true
	}
	if d, ok := p.raw(lblDiameter); ok {
		return d / 2, true
	}
	return 0, false
}

// angleRadians reads an angle; degrees unless "rad" follows the number.
func angleRadians(p *Problem, l *regexp.Regexp) (float64, bool) {
	q, ok := findQuantity(p, l, []string{"radians", "radian", "rad", "degrees", "degree", "deg", "°"})
	if !ok {
		return 0, false
	}
	switch q.Unit {
	case "rad", "radian", "radians":
		return q.Value, true
	}
	return q.Value * math.Pi / 180, true
}

func volumeSurface(v, sa float64) []target {
	return []target{
		{label: "volume", names: namesVolume, asks: asksVolume, value: v},
		{label: "surface area", names: namesSurface, asks: asksSurface, value: sa},
	}
}

func cubeCase(p *Problem) []target {
	if !p.asks("cube") {
		return nil
	}
	s, ok := p.raw(lblSide)
	if !ok {
		return nil
	}
	ts := volumeSurface(s*s*s, 6*s*s)
	return append(ts, target{label: "space diagonal s*sqrt(3)", names: namesDiagonal, asks: asksDiagonal, value: s * math.Sqrt(3)})
}

func prismCase(p *Problem) []target {
	if !p.asks("prism", "box", "cuboid") {
		return nil
	}
	l, ok1 := p.raw(lblLength)
	w, ok2 := p.raw(lblWidth)
	h, ok3 := p.raw(lblHeight)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	ts := volumeSurface(l*w*h, 2*(l*w+l*h+w*h))
	return append(ts, target{label: "space diagonal", names: namesDiagonal, asks: asksDiagonal, value: math.Sqrt(l*l + w*w + h*h)})
}

func cylinderCase(p *Problem) []target {
	if !p.asks("cylinder") {
		return nil
	}
	r, ok1 := radius(p)
	h, ok2 := p.raw(lblHeight)
	if !ok1 || !ok2 {
		return nil
	}
	ts := volumeSurface(math.Pi*r*r*h, 2*math.Pi*r*(r+h))
	return append(ts, target{label: "lateral area 2*pi*r*h", names: []string{"lateral area", "lateral surface area", "curved surface area", "csa"}, asks: asks(`lateral|curved`), value: 2 * math.Pi * r * h})
}

func coneCase(p *Problem) []target {
	if !p.asks("cone") {
		return nil
	}
	r, ok1 := radius(p)
	h, ok2 := p.raw(lblHeight)
	if !ok1 || !ok2 {
		return nil
	}
	l := math.Hypot(r, h)
	ts := volumeSurface(math.Pi*r*r*h/3, math.Pi*r*(r+l))
	return append(ts,
		target{label: "slant height", names: []string{"slant height", "l", "s"}, asks: asks(`slant`), value: l},
		target{label: "lateral area pi*r*l", names: []string{"lateral area", "lateral surface area", "curved surface area", "csa"}, asks: asks(`lateral|curved`), value: math.Pi * r * l},
	)
}

func sphereCase(p *Problem) []target {
	if !p.asks("sphere", "ball") {
		return nil
	}
	r, ok := radius(p)
	if !ok {
		return nil
	}
	return volumeSurface(4*math.Pi*r*r*r/3, 4*math.Pi*r*r)
}

func sectorCase(p *Problem) []target {
	if !p.asks("sector", "arc") {
		return nil
	}
	r, ok1 := radius(p)
	th, ok2 := angleRadians(p, lblAngle)
	if !ok1 || !ok2 {
		return nil
	}
	return []target{
		{label: "arc length r*theta", names: []string{"arc length", "arc", "s", "l"}, asks: asks(`arc length|length of the arc`), value: r * th},
		{label: "sector area r^2*theta/2", names: []string{"sector area", "area", "a"}, asks: asksArea, value: r * r * th / 2},
	}
}

func circleCase(p *Problem) []target {
	if !p.asks("circle", "radius", "diameter") {
		return nil
	}
	r, ok := radius(p)
	if !ok {
		return nil
	}
	return []target{
		{label: "circle area pi*r^2", names: namesArea, asks: asksArea, value: math.Pi * r * r},
		{label: "circumference 2*pi*r", names: []string{"circumference", "c", "perimeter"}, asks: asks(`circumference|perimeter`), value: 2 * math.Pi * r},
		{label: "diameter 2r", names: []string{"diameter", "d"}, asks: asks(`diameter`), value: 2 * r},
	}
}

var (
	lblLegA  = label("a", "leg a")
	lblLegB  = label("b", "leg b")
	lblHyp   = label("c", "hypotenuse")
	lblOpp   = label("opp", "opposite side", "opposite")
	lblAdj   = label("adj", "adjacent side", "adjacent")
	legsList = label("", "legs", "legs of length", "legs measuring")
)

func rightTriangleCase(p *Problem) []target {
	if !p.asks("right triangle", "right-angled", "right angled", "hypotenuse", "pythag", "legs") {
		return nil
	}
	if th, ok := angleRadians(p, lblAngle); ok {
		if ts := trigTriangle(p, th); ts != nil {
			return ts
		}
	}
	a, okA := p.raw(lblLegA)
	b, okB := p.raw(lblLegB)
	c, okC := p.raw(lblHyp)
	if !okA || !okB {
		if xs, ok := p.list(legsList); ok && len(xs) == 2 {
			a, b, okA, okB = xs[0], xs[1], true, true
		}
	}
	hyp := []string{"c", "hypotenuse"}
	switch {
	case okA && okB:
		h := math.Hypot(a, b)
		return []target{
			{label: "hypotenuse sqrt(a^2+b^2)", names: hyp, asks: asks(`hypotenuse|\bc\b`), value: h},
			{label: "area a*b/2", names: namesArea, asks: asksArea, value: a * b / 2},
			{label: "perimeter a+b+c", names: namesPerimeter, asks: asksPerimeter, value: a + b + h},
		}
	case okC && (okA || okB):
		leg := a
		if !okA {
			leg = b
		}
		if leg >= c {
			return nil
		}
		return []target{{label: "leg sqrt(c^2-a^2)", names: []string{"b", "a", "leg", "other leg"}, value: math.Sqrt(c*c - leg*leg)}}
	}
	return nil
}

// trigTriangle solves a right triangle from an acute angle and one side.
func trigTriangle(p *Problem, th float64) []target {
	if th <= 0 || th >= math.Pi/2 {
		return nil
	}
	var opp, adj, hyp float64
	if h, ok := p.raw(lblHyp); ok {
		hyp, opp, adj = h, h*math.Sin(th), h*math.Cos(th)
	} else if a, ok := p.raw(lblAdj); ok {
		adj, opp, hyp = a, a*math.Tan(th), a/math.Cos(th)
	} else if o, ok := p.raw(lblOpp); ok {
		opp, adj, hyp = o, o/math.Tan(th), o/math.Sin(th)
	} else {
		return nil
	}
	return []target{
		{label: "opposite side", names: []string{"opposite", "opp", "height", "o"}, asks: asks(`opposite|height`), value: opp},
		{label: "adjacent side", names: []string{"adjacent", "adj"}, asks: asks(`adjacent`), value: adj},
		{label: "hypotenuse", names: []string{"hypotenuse", "hyp", "c"}, asks: asks(`hypotenuse`), value: hyp},
	}
}

var lblSides = label("", "sides", "side lengths", "sides of length")

func triangleCase(p *Problem) []target {
	if !p.asks("triangle") {
		return nil
	}
	if b, ok := p.raw(lblBase); ok {
		if h, ok := p.raw(lblHeight); ok {
			return []target{{label: "triangle area b*h/2", names: namesArea, asks: asksArea, value: b * h / 2}}
		}
	}
	var a, b, c float64
	if xs, ok := p.list(lblSides); ok && len(xs) == 3 {
		a, b, c = xs[0], xs[1], xs[2]
	} else {
		var ok1, ok2, ok3 bool
		a, ok1 = p.raw(lblLegA)
		b, ok2 = p.raw(lblLegB)
		c, ok3 = p.raw(lblHyp)
		if !ok1 || !ok2 || !ok3 {
			return nil
		}
	}
	s := (a + b + c) / 2
	h := s * (s - a) * (s - b) * (s - c)
	if h <= 0 {
		return nil
	}
	return []target{
		{label: "Heron area sqrt(s(s-a)(s-b)(s-c))", names: namesArea, asks: asksArea, value: math.Sqrt(h)},
		{label: "perimeter a+b+c", names: namesPerimeter, asks: asksPerimeter, value: a + b + c},
	}
}

func rectangleCase(p *Problem) []target {
	if !p.asks("rectangle", "rectangular") {
		return nil
	}
	l, ok1 := p.raw(lblLength)
	w, ok2 := p.raw(lblWidth)
	if !ok1 || !ok2 {
		return nil
	}
	return []target{
		{label: "rectangle area l*w", names: namesArea, asks: asksArea, value: l * w},
		{label: "rectangle perimeter 2(l+w)", names: namesPerimeter, asks: asksPerimeter, value: 2 * (l + w)},
		{label: "rectangle diagonal", names: namesDiagonal, asks: asksDiagonal, value: math.Hypot(l, w)},
	}
}

func squareCase(p *Problem) []target {
	if !p.asks("square") {
		return nil
	}
	s, ok := p.raw(lblSide)
	if !ok {
		return nil
	}
	return []target{
		{label: "square area s^2", names: namesArea, asks: asksArea, value: s * s},
		{label: "square perimeter 4s", names: namesPerimeter, asks: asksPerimeter, value: 4 * s},
		{label: "square diagonal s*sqrt(2)", names: namesDiagonal, asks: asksDiagonal, value: s * math.Sqrt2},
	}
}

var pointPattern = regexp.MustCompile(`\(\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*\)`)

// points returns the coordinate pairs written in the statement.
func points(s string) [][2]float64 {
	var out [][2]float64
	for _, m := range pointPattern.FindAllStringSubmatch(s, -1) {
		x, err1 := strconv.ParseFloat(m[1], 64)
		y, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			out = append(out, [2]float64{x, y})
		}
	}
	return out
}

// shoelace returns the area of a simple polygon.
func shoelace(pts [][2]float64) float64 {
	sum := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return math.Abs(sum) / 2
}

func coordinateCase(p *Problem) []target {
	pts := points(p.Statement)
	if len(pts) < 2 {
		return nil
	}
	if len(pts) >= 3 && p.asks("area", "polygon", "vertices", "triangle", "quadrilateral") {
		return []target{{label: "shoelace area", names: namesArea, asks: asksArea, value: shoelace(pts)}}
	}
	a, b := pts[0], pts[1]
	ts := []target{
		{label: "distance between points", names: []string{"distance", "d", "length"}, asks: asks(`distance|length`), value: math.Hypot(b[0]-a[0], b[1]-a[1])},
	}
	if b[0] != a[0] {
		ts = append(ts, target{label: "slope (y2-y1)/(x2-x1)", names: []string{"slope", "m", "gradient"}, asks: asks(`slope|gradient`), value: (b[1] - a[1]) / (b[0] - a[0])})
	}
	return ts
}

// midpointChecks compares a reported midpoint tuple.
func midpointChecks(p *Problem) []model.Check {
	pts := points(p.Statement)
	if len(pts) < 2 || !p.asks("midpoint") {
		return nil
	}
	v, ok := p.Final().LookupVector("midpoint", "m")
	if !ok || len(v) != 2 {
		return nil
	}
	mx, my := (pts[0][0]+pts[1][0])/2, (pts[0][1]+pts[1][1])/2
	return vectorChecks("midpoint", []float64{mx, my}, v, numeric.Reported)
}
