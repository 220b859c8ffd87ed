package ui

import (
	"image/color"

	"SignPad/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// palette lists the swatches offered next to the configured pen color.
var palette = []state.Color{
	state.RGBA8(0xF8, 0xF8, 0xFF, 0xFF),
	state.RGBA8(0x00, 0x00, 0x00, 0xFF),
	state.RGBA8(0x1E, 0x40, 0xAF, 0xFF),
	state.RGBA8(0xDC, 0x26, 0x26, 0xFF),
	state.RGBA8(0xFA, 0xCC, 0x15, 0x80),
}

// penSwatch picks a pen color. It draws a ring around itself while its
// color is the one new strokes get.
type penSwatch struct {
	widget.BaseWidget
	color    state.Color
	selected func(state.Color) bool
	pick     func(state.Color)
}

func newPenSwatch(c state.Color, selected func(state.Color) bool, pick func(state.Color)) *penSwatch {
	s := &penSwatch{color: c, selected: selected, pick: pick}
	s.ExtendBaseWidget(s)
	return s
}

func (s *penSwatch) CreateRenderer() fyne.WidgetRenderer {
	r := &swatchRenderer{
		swatch: s,
		fill:   canvas.NewRectangle(s.color),
		ring:   canvas.NewRectangle(color.Transparent),
	}
	r.fill.CornerRadius = 4
	r.ring.CornerRadius = 6
	r.Refresh()
	return r
}

func (s *penSwatch) Tapped(*fyne.PointEvent) {
	s.pick(s.color)
}

type swatchRenderer struct {
	swatch *penSwatch
	fill   *canvas.Rectangle
	ring   *canvas.Rectangle
}

const swatchInset = 3

func (r *swatchRenderer) Layout(size fyne.Size) {
	r.ring.Resize(size)
	r.fill.Move(fyne.NewPos(swatchInset, swatchInset))
	r.fill.Resize(size.SubtractWidthHeight(2*swatchInset, 2*swatchInset))
}

func (r *swatchRenderer) MinSize() fyne.Size { return fyne.NewSize(30, 30) }

func (r *swatchRenderer) Refresh() {
	if r.swatch.selected(r.swatch.color) {
		r.ring.StrokeColor = theme.Color(theme.ColorNamePrimary)
		r.ring.StrokeWidth = 2
	} else {
		r.ring.StrokeColor = color.Gray{Y: 150}
		r.ring.StrokeWidth = 1
	}
	r.ring.Refresh()
	r.fill.Refresh()
}

func (r *swatchRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.ring, r.fill}
}

func (r *swatchRenderer) Destroy() {}

// Actions are the host callbacks behind the toolbar buttons.
type Actions struct {
	OnSave func()
}

// NewToolbar builds the pen controls for pad. Every change goes through
// Pad.Configure so it only affects strokes drawn afterwards.
func NewToolbar(pad *Pad, actions Actions) fyne.CanvasObject {
	update := func(edit func(*state.Options)) {
		opts := pad.Session().Options()
		edit(&opts)
		pad.Configure(opts)
	}

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), pad.Undo),
		widget.NewToolbarAction(theme.DeleteIcon(), pad.Clear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			if actions.OnSave != nil {
				actions.OnSave()
			}
		}),
	)

	swatches := container.NewHBox()
	isPen := func(c state.Color) bool { return pad.Session().Options().Color == c }
	pick := func(c state.Color) {
		update(func(o *state.Options) { o.Color = c })
		swatches.Refresh()
	}
	for _, c := range palette {
		swatches.Add(newPenSwatch(c, isPen, pick))
	}

	widthSlider := widget.NewSlider(1, 40)
	widthSlider.SetValue(pad.Session().Options().StrokeWidth)
	widthSlider.OnChanged = func(v float64) {
		update(func(o *state.Options) { o.StrokeWidth = v })
	}
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), widthSlider)

	mode := widget.NewSelect([]string{state.ModeCubic.String(), state.ModeQuadratic.String()}, func(s string) {
		if m, err := state.ParseMode(s); err == nil {
			update(func(o *state.Options) { o.Mode = m })
		}
	})
	mode.SetSelected(pad.Session().Options().Mode.String())

	touch := widget.NewCheck("Draw", func(on bool) {
		update(func(o *state.Options) { o.TouchEnabled = on })
	})
	touch.SetChecked(pad.Session().Options().TouchEnabled)

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		swatches,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderBox,
		mode,
		touch,
		layout.NewSpacer(),
	)
}
