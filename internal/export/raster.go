package export

import (
	"image"
	"math"

	"SignPad/internal/state"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// RenderScale is the device density snapshots are captured at.
const RenderScale = 2

// Render paints f onto a new image scale times its logical size: canvas
// color, then the background image fitted inside the canvas, then the
// committed strokes in order, then the stroke in progress. It returns nil
// when the frame has no area.
func Render(f state.Frame, scale float64) *image.RGBA {
	w := int(math.Round(f.Width * scale))
	h := int(math.Round(f.Height * scale))
	if w <= 0 || h <= 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(f.CanvasColor), image.Point{}, draw.Src)

	if f.Background != nil {
		drawContained(img, f.Background)
	}

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	for _, st := range f.Strokes {
		strokeCurve(dasher, st, scale)
	}
	if f.Current != nil {
		strokeCurve(dasher, *f.Current, scale)
	}
	return img
}

// drawContained scales src to fit dst keeping its aspect ratio and centers it.
func drawContained(dst *image.RGBA, src image.Image) {
	sb, db := src.Bounds(), dst.Bounds()
	if sb.Empty() {
		return
	}
	k := math.Min(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	w := int(math.Round(float64(sb.Dx()) * k))
	h := int(math.Round(float64(sb.Dy()) * k))
	x := db.Min.X + (db.Dx()-w)/2
	y := db.Min.Y + (db.Dy()-h)/2
	draw.CatmullRom.Scale(dst, image.Rect(x, y, x+w, y+h), src, sb, draw.Over, nil)
}

func strokeCurve(d *rasterx.Dasher, st state.Stroke, scale float64) {
	if len(st.Curve) == 0 {
		return
	}
	width := fixed.Int26_6(math.Round(st.Width * scale * 64))
	d.SetStroke(width, 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)
	d.SetColor(st.Color)

	fp := func(p state.Point) fixed.Point26_6 {
		return rasterx.ToFixedP(p.X*scale, p.Y*scale)
	}
	started := false
	for _, el := range st.Curve {
		// Relayed curves are not trusted to open with a MoveTo.
		if !started && el.Verb != state.MoveTo {
			continue
		}
		switch el.Verb {
		case state.MoveTo:
			if started {
				d.Stop(false)
			}
			d.Start(fp(el.P0))
			started = true
		case state.LineTo:
			d.Line(fp(el.P0))
		case state.QuadTo:
			d.QuadBezier(fp(el.P0), fp(el.P1))
		case state.CubicTo:
			d.CubeBezier(fp(el.P0), fp(el.P1), fp(el.P2))
		}
	}
	if started {
		d.Stop(false)
	}
	d.Draw()
	d.Clear()
}
