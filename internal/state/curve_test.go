package state

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestGenerators_Degenerate(t *testing.T) {
	for _, mode := range []Mode{ModeCubic, ModeQuadratic} {
		t.Run(mode.String(), func(t *testing.T) {
			assert.Empty(t, mode.Generate(nil))
			assert.Empty(t, mode.Generate([]Point{Pt(1, 1)}))

			got := mode.Generate([]Point{Pt(1, 2), Pt(30, 40)})
			want := Curve{
				{Verb: MoveTo, P0: Pt(1, 2)},
				{Verb: LineTo, P0: Pt(30, 40)},
			}
			assert.Equal(t, want, got)
			assert.Equal(t, 1, got.Segments())
		})
	}
}

func TestCubic_ControlPoints(t *testing.T) {
	points := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10)}
	got := Cubic(points)
	require.Len(t, got, 3)

	// Segment 0: p0=p1=(0,0), p2=(10,0), p3=(10,10).
	// d1=10, d2=|(10,10)-(0,0)|=10√2, k=0.375.
	d1, d2 := 10.0, 14.142135623730951
	w1, w2 := d1/(d1+d2), d2/(d1+d2)
	want0 := Element{
		Verb: CubicTo,
		P0:   Pt(0+10*0.375*w1, 0),
		P1:   Pt(10-10*0.375*w2, 0-10*0.375*w2),
		P2:   Pt(10, 0),
	}
	if diff := cmp.Diff(want0, got[1], approx); diff != "" {
		t.Errorf("segment 0 mismatch (-want +got):\n%s", diff)
	}

	// Segment 1: p0=(0,0), p1=(10,0), p2=p3=(10,10).
	// d1=10√2, d2=10.
	d1, d2 = 14.142135623730951, 10.0
	w1, w2 = d1/(d1+d2), d2/(d1+d2)
	want1 := Element{
		Verb: CubicTo,
		P0:   Pt(10+10*0.375*w1, 0+10*0.375*w1),
		P1:   Pt(10, 10-10*0.375*w2),
		P2:   Pt(10, 10),
	}
	if diff := cmp.Diff(want1, got[2], approx); diff != "" {
		t.Errorf("segment 1 mismatch (-want +got):\n%s", diff)
	}
}

func TestCubic_CoincidentPointsDoNotDivideByZero(t *testing.T) {
	points := []Point{Pt(5, 5), Pt(5, 5), Pt(5, 5)}
	got := Cubic(points)
	require.Len(t, got, 3)
	for _, el := range got[1:] {
		assert.Equal(t, Element{Verb: CubicTo, P0: Pt(5, 5), P1: Pt(5, 5), P2: Pt(5, 5)}, el)
	}
}

func TestCubic_PassesThroughEveryPoint(t *testing.T) {
	points := []Point{Pt(0, 0), Pt(3, 7), Pt(9, 2), Pt(12, 12), Pt(20, 4)}
	got := Cubic(points)
	require.Len(t, got, len(points))
	assert.Equal(t, points[0], got[0].P0)
	for i, el := range got[1:] {
		assert.Equal(t, points[i+1], el.End())
	}
}

func TestQuadratic_ControlPoints(t *testing.T) {
	points := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 100)}
	got := Quadratic(points)
	require.Len(t, got, 3)

	// Short chord: k = 10*0.01 = 0.1.
	want1 := Element{Verb: QuadTo, P0: Pt(5+10*0.1, 0), P1: Pt(10, 0)}
	// Long chord: k capped at 0.2.
	want2 := Element{Verb: QuadTo, P0: Pt(10, 50+100*0.2), P1: Pt(10, 100)}
	if diff := cmp.Diff(Curve{{Verb: MoveTo, P0: Pt(0, 0)}, want1, want2}, got, approx); diff != "" {
		t.Errorf("Quadratic mismatch (-want +got):\n%s", diff)
	}
}

func TestCurve_JSON(t *testing.T) {
	c := Cubic([]Point{Pt(0, 0), Pt(4, 4), Pt(8, 0)})
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"verb":"C"`)

	var back Curve
	require.NoError(t, json.Unmarshal(data, &back))
	if diff := cmp.Diff(c, back, approx); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
