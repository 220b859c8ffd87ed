package state

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type Verb uint8

const (
	MoveTo Verb = iota + 1
	LineTo
	QuadTo
	CubicTo
)

var verbNames = [...]string{MoveTo: "M", LineTo: "L", QuadTo: "Q", CubicTo: "C"}

func (v Verb) String() string {
	if int(v) < len(verbNames) && verbNames[v] != "" {
		return verbNames[v]
	}
	return fmt.Sprintf("Verb(%d)", uint8(v))
}

func (v Verb) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verb) UnmarshalText(text []byte) error {
	for i, name := range verbNames {
		if name != "" && name == string(text) {
			*v = Verb(i)
			return nil
		}
	}
	return fmt.Errorf("state: unknown path verb %q", text)
}

// Element is one path command. MoveTo and LineTo use P0. QuadTo uses P0 as
// the control point and P1 as the end point. CubicTo uses P0 and P1 as
// control points and P2 as the end point.
type Element struct {
	Verb Verb  `json:"verb"`
	P0   Point `json:"p0"`
	P1   Point `json:"p1"`
	P2   Point `json:"p2"`
}

// End returns the point the element leaves the pen at.
func (el Element) End() Point {
	switch el.Verb {
	case QuadTo:
		return el.P1
	case CubicTo:
		return el.P2
	default:
		return el.P0
	}
}

// Curve is a vector path description. A nil Curve draws nothing.
type Curve []Element

func (c *Curve) MoveTo(p Point)       { *c = append(*c, Element{Verb: MoveTo, P0: p}) }
func (c *Curve) LineTo(p Point)       { *c = append(*c, Element{Verb: LineTo, P0: p}) }
func (c *Curve) QuadTo(ctrl, p Point) { *c = append(*c, Element{Verb: QuadTo, P0: ctrl, P1: p}) }
func (c *Curve) CubicTo(c1, c2, p Point) {
	*c = append(*c, Element{Verb: CubicTo, P0: c1, P1: c2, P2: p})
}

// Segments counts the drawing elements, that is everything but MoveTo.
func (c Curve) Segments() int {
	n := 0
	for _, el := range c {
		if el.Verb != MoveTo {
			n++
		}
	}
	return n
}

// Catmull-Rom parameters for the signature pen.
const (
	tension   = 0.5
	smoothing = 0.75
)

// Cubic smooths points into cubic Bézier segments following a Catmull-Rom
// spline whose tangents are weighted by the neighbouring chord lengths.
// Neighbours past either end of the sequence are clamped to the end points.
func Cubic(points []Point) Curve {
	if len(points) < 2 {
		return nil
	}
	c := make(Curve, 0, len(points))
	c.MoveTo(points[0])
	if len(points) == 2 {
		c.LineTo(points[1])
		return c
	}

	last := len(points) - 1
	for i := 0; i < last; i++ {
		p0 := points[max(0, i-1)].vec()
		p1 := points[i].vec()
		p2 := points[i+1].vec()
		p3 := points[min(i+2, last)].vec()

		d1 := r2.Norm(r2.Sub(p2, p0))
		d2 := r2.Norm(r2.Sub(p3, p1))
		var w1, w2 float64
		if sum := d1 + d2; sum > 0 {
			w1, w2 = d1/sum, d2/sum
		}

		c1 := r2.Add(p1, r2.Scale(tension*smoothing*w1, r2.Sub(p2, p0)))
		c2 := r2.Sub(p2, r2.Scale(tension*smoothing*w2, r2.Sub(p3, p1)))
		c.CubicTo(fromVec(c1), fromVec(c2), points[i+1])
	}
	return c
}

// Quadratic is the lighter highlighter smoothing: every pair of points
// becomes a quadratic segment whose control point sits just past the
// midpoint, pushed further for longer segments up to a fifth of the chord.
func Quadratic(points []Point) Curve {
	if len(points) < 2 {
		return nil
	}
	c := make(Curve, 0, len(points))
	c.MoveTo(points[0])
	if len(points) == 2 {
		c.LineTo(points[1])
		return c
	}

	for i := 1; i < len(points); i++ {
		a, b := points[i-1].vec(), points[i].vec()
		chord := r2.Sub(b, a)
		k := math.Min(0.2, r2.Norm(chord)*0.01)
		mid := r2.Scale(0.5, r2.Add(a, b))
		c.QuadTo(fromVec(r2.Add(mid, r2.Scale(k, chord))), points[i])
	}
	return c
}
