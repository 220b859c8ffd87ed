package ui

import (
	"image"

	"SignPad/internal/export"
	"SignPad/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Pad is the drawing surface widget. It forwards drags to its session and
// repaints from a session frame whenever the session announces a change.
type Pad struct {
	widget.BaseWidget
	session *state.Session
	binding *Binding
}

var (
	_ fyne.Widget        = (*Pad)(nil)
	_ fyne.Draggable     = (*Pad)(nil)
	_ desktop.Cursorable = (*Pad)(nil)
)

func NewPad(session *state.Session) *Pad {
	p := &Pad{
		session: session,
		binding: NewBinding(session, session.Options().TouchEnabled),
	}
	p.ExtendBaseWidget(p)
	session.Subscribe(func(ev state.Event) {
		if ev.Kind == state.EventRedraw {
			p.syncTouch()
		}
	})
	return p
}

func (p *Pad) Session() *state.Session { return p.session }

// Configure applies new session options. The pad follows TouchEnabled
// whether options are set here or on the session directly.
func (p *Pad) Configure(opts state.Options) {
	p.session.Configure(opts)
}

// syncTouch makes the gesture binding follow the session's TouchEnabled
// option, ending a stroke in progress when touch was switched off.
func (p *Pad) syncTouch() {
	p.binding.SetEnabled(p.session.Options().TouchEnabled)
}

func (p *Pad) Clear()        { p.session.Clear() }
func (p *Pad) Undo()         { p.session.Undo() }
func (p *Pad) IsEmpty() bool { return p.session.IsEmpty() }

// Snapshot encodes what the pad currently shows. See export.Capture.
func (p *Pad) Snapshot(cfg *export.SnapshotConfig) (*export.Snapshot, bool) {
	return export.Capture(p.session.Frame(), cfg)
}

func (p *Pad) Resize(size fyne.Size) {
	p.session.Resize(float64(size.Width), float64(size.Height))
	p.BaseWidget.Resize(size)
}

func (p *Pad) Dragged(e *fyne.DragEvent) {
	p.syncTouch()
	p.binding.Dragged(e)
}

func (p *Pad) DragEnd() {
	p.syncTouch()
	p.binding.DragEnd()
}

func (p *Pad) Cursor() desktop.Cursor {
	if p.binding.Enabled() {
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

func (p *Pad) CreateRenderer() fyne.WidgetRenderer {
	r := &padRenderer{pad: p}
	r.raster = canvas.NewRaster(r.paint)
	r.unsubscribe = p.session.Subscribe(func(state.Event) { r.raster.Refresh() })
	return r
}

type padRenderer struct {
	pad         *Pad
	raster      *canvas.Raster
	unsubscribe func()
}

// paint renders at the raster's pixel size, which already includes the
// output scale of the window.
func (r *padRenderer) paint(w, h int) image.Image {
	frame := r.pad.session.Frame()
	if frame.Width > 0 {
		if img := export.Render(frame, float64(w)/frame.Width); img != nil {
			return img
		}
	}
	return image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
}

func (r *padRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
}

func (r *padRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *padRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *padRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster}
}

func (r *padRenderer) Destroy() {
	r.unsubscribe()
	r.pad.session.CancelRedraw()
}
