package ui

import (
	"sync"

	"SignPad/internal/state"

	"fyne.io/fyne/v2"
)

// Stroker is the part of a drawing session a gesture drives.
type Stroker interface {
	Start(p state.Point)
	Extend(p state.Point)
	End()
}

// Binding turns one continuous drag into Start, Extend and End calls.
// Any drag event counts as movement, so even a tiny dot becomes a stroke.
type Binding struct {
	target Stroker

	// mu guards the flags only; target is always called without it held
	// because session observers may call back into SetEnabled.
	mu      sync.Mutex
	enabled bool
	active  bool
}

func NewBinding(target Stroker, enabled bool) *Binding {
	return &Binding{target: target, enabled: enabled}
}

func (b *Binding) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// SetEnabled switches the binding on or off. Switching it off in the
// middle of a drag ends the stroke.
func (b *Binding) SetEnabled(enabled bool) {
	b.mu.Lock()
	end := !enabled && b.active
	if end {
		b.active = false
	}
	b.enabled = enabled
	b.mu.Unlock()

	if end {
		b.target.End()
	}
}

// Dragged handles a drag event. The first one of a gesture starts the
// stroke where the pointer went down, which is the event position minus
// the delta it carries.
func (b *Binding) Dragged(e *fyne.DragEvent) {
	b.mu.Lock()
	if !b.enabled {
		b.mu.Unlock()
		return
	}
	start := !b.active
	b.active = true
	b.mu.Unlock()

	pos := pointOf(e.Position)
	if start {
		b.target.Start(state.Pt(pos.X-float64(e.Dragged.DX), pos.Y-float64(e.Dragged.DY)))
	}
	b.target.Extend(pos)
}

func (b *Binding) DragEnd() {
	b.mu.Lock()
	if !b.enabled || !b.active {
		b.mu.Unlock()
		return
	}
	b.active = false
	b.mu.Unlock()

	b.target.End()
}

func pointOf(p fyne.Position) state.Point {
	return state.Pt(float64(p.X), float64(p.Y))
}
