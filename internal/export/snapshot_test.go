package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"SignPad/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"
)

var (
	black = state.RGBA8(0, 0, 0, 255)
	red   = state.RGBA8(255, 0, 0, 255)
)

func blankFrame(w, h float64) state.Frame {
	return state.Frame{CanvasColor: black, Width: w, Height: h}
}

func lineStroke(from, to state.Point, width float64, c state.Color) state.Stroke {
	return state.Stroke{ID: "s", Curve: state.Cubic([]state.Point{from, to}), Color: c, Width: width}
}

func TestCapture_ZeroSizeIsAbsent(t *testing.T) {
	snap, ok := Capture(blankFrame(0, 0), nil)
	assert.False(t, ok)
	assert.Nil(t, snap)

	snap, ok = Capture(blankFrame(100, 0), nil)
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestCapture_BlankCanvas(t *testing.T) {
	snap, ok := Capture(blankFrame(40, 30), nil)
	require.True(t, ok)

	assert.Equal(t, 40, snap.Width)
	assert.Equal(t, 30, snap.Height)
	assert.Equal(t, PNG, snap.Format)
	assert.True(t, strings.HasPrefix(snap.URI, "data:image/png;base64,"))
	assert.Equal(t, snap.Base64, strings.TrimPrefix(snap.URI, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(snap.Base64)
	require.NoError(t, err)
	assert.Equal(t, snap.Data, raw)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 60), img.Bounds())
	r, g, b, a := img.At(10, 10).RGBA()
	assert.Equal(t, [4]uint32{0, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
}

func TestCapture_DrawsStrokesAndCurrent(t *testing.T) {
	f := blankFrame(50, 50)
	f.Strokes = []state.Stroke{lineStroke(state.Pt(5, 10), state.Pt(45, 10), 4, red)}
	cur := lineStroke(state.Pt(5, 40), state.Pt(45, 40), 4, state.RGBA8(0, 0, 255, 255))
	f.Current = &cur

	snap, ok := Capture(f, nil)
	require.True(t, ok)
	img, err := png.Decode(bytes.NewReader(snap.Data))
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{R: 255, A: 255}, color.NRGBAModel.Convert(img.At(50, 20)))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, color.NRGBAModel.Convert(img.At(50, 80)))
	assert.Equal(t, color.NRGBA{A: 255}, color.NRGBAModel.Convert(img.At(50, 50)))
}

func TestCapture_LaterStrokesOnTop(t *testing.T) {
	f := blankFrame(20, 20)
	f.Strokes = []state.Stroke{
		lineStroke(state.Pt(2, 10), state.Pt(18, 10), 6, red),
		lineStroke(state.Pt(10, 2), state.Pt(10, 18), 6, state.RGBA8(0, 255, 0, 255)),
	}
	snap, ok := Capture(f, nil)
	require.True(t, ok)
	img, err := png.Decode(bytes.NewReader(snap.Data))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, color.NRGBAModel.Convert(img.At(20, 20)))
}

func TestCapture_Region(t *testing.T) {
	f := blankFrame(100, 80)
	region := image.Rect(10, 10, 30, 25)
	cfg := DefaultSnapshotConfig()
	cfg.Region = &region

	snap, ok := Capture(f, &cfg)
	require.True(t, ok)
	assert.Equal(t, 20, snap.Width)
	assert.Equal(t, 15, snap.Height)

	outside := image.Rect(200, 200, 300, 300)
	cfg.Region = &outside
	_, ok = Capture(f, &cfg)
	assert.False(t, ok)
}

func TestCapture_Background(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(bg.Pix); i += 4 {
		bg.Pix[i], bg.Pix[i+1], bg.Pix[i+2], bg.Pix[i+3] = 255, 255, 255, 255
	}
	f := blankFrame(40, 20)
	f.Background = bg

	img := Render(f, RenderScale)
	require.NotNil(t, img)
	// A square background fits the 80x40 canvas as a centered 40x40 block.
	center := img.RGBAAt(40, 20)
	assert.GreaterOrEqual(t, center.R, uint8(250))
	assert.GreaterOrEqual(t, center.G, uint8(250))
	assert.GreaterOrEqual(t, center.B, uint8(250))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(5, 20))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(75, 20))
}

func TestCapture_Formats(t *testing.T) {
	f := blankFrame(16, 16)
	f.Strokes = []state.Stroke{lineStroke(state.Pt(2, 2), state.Pt(14, 14), 3, red)}

	t.Run("jpeg", func(t *testing.T) {
		snap, ok := Capture(f, &SnapshotConfig{Format: JPEG, Quality: 80})
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(snap.URI, "data:image/jpeg;base64,"))
		img, err := jpeg.Decode(bytes.NewReader(snap.Data))
		require.NoError(t, err)
		assert.Equal(t, 32, img.Bounds().Dx())
	})

	t.Run("webp", func(t *testing.T) {
		snap, ok := Capture(f, &SnapshotConfig{Format: WEBP, Quality: 100})
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(snap.URI, "data:image/webp;base64,"))
		img, err := webp.Decode(bytes.NewReader(snap.Data))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
		assert.Equal(t, 16, snap.Width)
	})

	t.Run("webp lossy", func(t *testing.T) {
		snap, ok := Capture(f, &SnapshotConfig{Format: WEBP, Quality: 80})
		require.True(t, ok)
		require.NotEmpty(t, snap.Data)
		img, err := webp.Decode(bytes.NewReader(snap.Data))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	})

	t.Run("unknown", func(t *testing.T) {
		_, ok := Capture(f, &SnapshotConfig{Format: Format(42)})
		assert.False(t, ok)
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "image/jpeg", JPEG.MIME())
	assert.Equal(t, "image/png", PNG.MIME())
	assert.Equal(t, "image/webp", WEBP.MIME())
	assert.Equal(t, ".jpg", JPEG.Ext())

	got, err := ParseFormat(".JPG")
	require.NoError(t, err)
	assert.Equal(t, JPEG, got)
	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRender_SkipsSegmentsBeforeMoveTo(t *testing.T) {
	f := blankFrame(20, 20)
	f.Strokes = []state.Stroke{{
		ID: "headless",
		Curve: state.Curve{
			{Verb: state.LineTo, P0: state.Pt(18, 2)},
			{Verb: state.CubicTo, P0: state.Pt(5, 5), P1: state.Pt(10, 10), P2: state.Pt(18, 18)},
			{Verb: state.MoveTo, P0: state.Pt(2, 10)},
			{Verb: state.LineTo, P0: state.Pt(18, 10)},
		},
		Color: red,
		Width: 4,
	}}

	img := Render(f, RenderScale)
	require.NotNil(t, img)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(36, 4))
}
