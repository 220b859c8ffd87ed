package state

import (
	"image"
	"sync"
)

// Options configure a drawing session. They apply to strokes started after
// they are set; committed strokes keep their own color and width.
type Options struct {
	Color        Color
	StrokeWidth  float64
	Mode         Mode
	TouchEnabled bool
	// Background, when set, is drawn under every stroke and makes the
	// session non-empty.
	Background  image.Image
	CanvasColor Color

	OnStrokeStart func()
	OnStrokeEnd   func()
}

// DefaultOptions returns a light pen on a dark canvas.
func DefaultOptions() Options {
	return Options{
		Color:        RGBA8(0xF8, 0xF8, 0xFF, 0xFF),
		StrokeWidth:  8,
		Mode:         ModeCubic,
		TouchEnabled: true,
		CanvasColor:  RGBA8(0x1B, 0x1B, 0x1B, 0xFF),
	}
}

// Frame is a read-only copy of everything a renderer needs. Curves are
// never mutated after creation, so sharing them is safe.
type Frame struct {
	Strokes     []Stroke
	Current     *Stroke
	Background  image.Image
	CanvasColor Color
	Width       float64
	Height      float64
}

// Session owns the committed stroke stack and the stroke in progress.
//
// It is Idle while there is no current stroke and Drawing between Start
// and End. Misuse (Extend or End while Idle, Start while Drawing) is
// ignored. Every state change is announced to subscribers; redraws caused
// by Extend go through a Throttle so bursts of move events collapse into
// at most one event per frame.
type Session struct {
	mu      sync.RWMutex
	id      string
	opts    Options
	clock   Clock
	stack   []Stroke
	current *Stroke
	points  []Point
	width   float64
	height  float64

	redraw *Throttle

	obsMu     sync.Mutex
	observers map[int]func(Event)
	nextObs   int
}

func NewSession(opts Options, throttleOpts ...ThrottleOption) *Session {
	s := &Session{
		id:        newID(),
		opts:      opts,
		observers: make(map[int]func(Event)),
	}
	s.redraw = NewThrottle(func() { s.publish(Event{Kind: EventRedraw}) }, FrameInterval, throttleOpts...)
	return s
}

func (s *Session) ID() string { return s.id }

// Configure replaces the session options.
func (s *Session) Configure(opts Options) {
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
	s.publish(Event{Kind: EventRedraw})
}

func (s *Session) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// Resize records the logical size of the drawing surface.
func (s *Session) Resize(width, height float64) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

// Subscribe registers fn for every state change and returns a function
// that removes it. fn runs on the goroutine that caused the change.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Session) publish(ev Event) {
	s.obsMu.Lock()
	fns := make([]func(Event), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Start begins a stroke at p.
func (s *Session) Start(p Point) {
	s.mu.Lock()
	if s.current != nil {
		s.mu.Unlock()
		Logger().Debug("session: start while drawing ignored", "session", s.id)
		return
	}
	var curve Curve
	curve.MoveTo(p)
	s.points = []Point{p}
	s.current = &Stroke{
		ID:    newID(),
		Curve: curve,
		Color: s.opts.Color,
		Width: s.opts.StrokeWidth,
	}
	started := *s.current
	onStart := s.opts.OnStrokeStart
	s.mu.Unlock()

	if onStart != nil {
		onStart()
	}
	s.publish(Event{Kind: EventStart, Stroke: &started})
}

// Extend appends p to the stroke in progress and regenerates its curve
// from the simplified buffer.
func (s *Session) Extend(p Point) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.points = append(s.points, p)
	next := *s.current
	next.Curve = s.opts.Mode.Generate(Simplify(s.points, DefaultTolerance))
	s.current = &next
	s.mu.Unlock()

	s.redraw.Invoke()
}

// End finishes the stroke in progress and pushes it onto the stack. A
// stroke that never got a second point has no path and is discarded.
func (s *Session) End() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	st := *s.current
	st.Curve = s.opts.Mode.Generate(Simplify(s.points, FinalTolerance))
	committed := len(st.Curve) > 0
	if committed {
		st.Seq = s.clock.Tick()
		s.stack = append(s.stack, st)
	}
	s.current = nil
	s.points = nil
	onEnd := s.opts.OnStrokeEnd
	s.mu.Unlock()

	if onEnd != nil {
		onEnd()
	}
	if committed {
		Logger().Debug("session: stroke committed", "session", s.id, "stroke", st.ID, "seq", st.Seq, "segments", st.Curve.Segments())
		s.publish(Event{Kind: EventCommit, Stroke: &st})
		return
	}
	s.publish(Event{Kind: EventRedraw})
}

// Undo removes the most recent stroke. It does nothing on an empty stack.
func (s *Session) Undo() {
	s.mu.Lock()
	var popped *Stroke
	if n := len(s.stack); n > 0 {
		st := s.stack[n-1]
		popped = &st
		s.stack = s.stack[:n-1]
	}
	s.mu.Unlock()
	s.publish(Event{Kind: EventUndo, Stroke: popped})
}

// Clear empties the stack.
func (s *Session) Clear() {
	s.mu.Lock()
	s.stack = nil
	s.mu.Unlock()
	s.publish(Event{Kind: EventClear})
}

// IsEmpty reports whether nothing has been committed and no background
// image is configured.
func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stack) == 0 && s.opts.Background == nil
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stack)
}

// Drawing reports whether a stroke is in progress.
func (s *Session) Drawing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Buffered returns the number of raw points held for the stroke in progress.
func (s *Session) Buffered() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

func (s *Session) Strokes() []Stroke {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Stroke, len(s.stack))
	copy(out, s.stack)
	return out
}

// Frame takes the read-only copy renderers work from.
func (s *Session) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := Frame{
		Strokes:     make([]Stroke, len(s.stack)),
		Background:  s.opts.Background,
		CanvasColor: s.opts.CanvasColor,
		Width:       s.width,
		Height:      s.height,
	}
	copy(f.Strokes, s.stack)
	if s.current != nil {
		cur := *s.current
		f.Current = &cur
	}
	return f
}

// CancelRedraw resets the redraw throttle so the next move redraws at once.
// Renderers call it when they are torn down.
func (s *Session) CancelRedraw() {
	s.redraw.Cancel()
}

// Close cancels any pending redraw and drops all subscribers. The session
// stays usable but nobody hears about it any more.
func (s *Session) Close() {
	s.redraw.Cancel()
	s.obsMu.Lock()
	s.observers = make(map[int]func(Event))
	s.obsMu.Unlock()
}
