package state

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrBadColor = errors.New("state: malformed color")
	ErrBadMode  = errors.New("state: unknown curve mode")
)

// Point is a raw sample from the input device in screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

func fromVec(v r2.Vec) Point { return Point{X: v.X, Y: v.Y} }

// Color is a packed 0xRRGGBBAA value with straight (non-premultiplied) alpha.
type Color uint32

var _ color.Color = Color(0)

func RGBA8(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: uint8(c >> 24), G: uint8(c >> 16), B: uint8(c >> 8), A: uint8(c)}
}

func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ParseColor accepts #RGB, #RRGGBB and #RRGGBBAA.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String() + "FF"
	case 6:
		hex += "FF"
	case 8:
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return Color(v), nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Mode selects the curve generator used for every stroke of a session.
type Mode int

const (
	ModeCubic Mode = iota
	ModeQuadratic
)

func (m Mode) String() string {
	switch m {
	case ModeCubic:
		return "cubic"
	case ModeQuadratic:
		return "quadratic"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cubic", "signature":
		return ModeCubic, nil
	case "quadratic", "highlighter":
		return ModeQuadratic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Generate builds the curve for points with the generator selected by m.
func (m Mode) Generate(points []Point) Curve {
	if m == ModeQuadratic {
		return Quadratic(points)
	}
	return Cubic(points)
}

// Stroke is one pen-down to pen-up drawing action.
type Stroke struct {
	ID    string  `json:"id"`
	Seq   uint64  `json:"seq,omitempty"`
	Curve Curve   `json:"curve"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

type EventKind int

const (
	EventStart EventKind = iota + 1
	EventRedraw
	EventCommit
	EventUndo
	EventClear
)

var eventNames = map[EventKind]string{
	EventStart:  "start",
	EventRedraw: "redraw",
	EventCommit: "commit",
	EventUndo:   "undo",
	EventClear:  "clear",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "EventKind(" + strconv.Itoa(int(k)) + ")"
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	for kind, name := range eventNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("state: unknown event %q", text)
}

// Event tells observers that render-relevant state changed. Commit, undo
// and clear events are also what the mirror relays to viewers.
type Event struct {
	Kind   EventKind `json:"type"`
	Stroke *Stroke   `json:"stroke,omitempty"`
}
