package state

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// DefaultTolerance is used while the finger is still moving.
	DefaultTolerance = 2.0
	// FinalTolerance is used once on release for the committed curve.
	FinalTolerance = 1.0

	cornerAngle = math.Pi / 6
)

// Simplify decimates points in a single greedy left-to-right pass so it can
// be rerun cheaply over a buffer that keeps growing. It is related to
// Ramer-Douglas-Peucker but never recurses.
//
// The first and last points are always kept and order is preserved. A point
// in between survives when it is at least tolerance away from the previously
// kept point, or when the path turns by more than 30° there. Inputs of two
// points or fewer are returned as is.
func Simplify(points []Point, tolerance float64) []Point {
	if len(points) <= 2 {
		return points
	}

	kept := make([]Point, 1, len(points))
	kept[0] = points[0]
	last := points[0]
	end := len(points) - 1

	for i := 1; i <= end; i++ {
		p := points[i]
		if distance(last, p) >= tolerance ||
			i == end ||
			isCorner(last, p, points[i+1]) {
			kept = append(kept, p)
			last = p
		}
	}
	return kept
}

// isCorner compares the heading from prev to p with the heading from p to
// next. The raw difference of the two angles is used, so a heading that
// crosses ±π counts as a sharp turn too.
func isCorner(prev, p, next Point) bool {
	in := math.Atan2(p.Y-prev.Y, p.X-prev.X)
	out := math.Atan2(next.Y-p.Y, next.X-p.X)
	return math.Abs(out-in) > cornerAngle
}

func distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(b.vec(), a.vec()))
}
