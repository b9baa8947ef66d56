package geom

// Orient is one of the eight LEF orientations: four rotations plus their
// mirrored counterparts.
type Orient int

const (
	R0 Orient = iota
	R90
	R180
	R270
	MY
	MX
	MYR90
	MXR90
)

// Transform composes an Orient with an integer translation, matching the
// rotate-then-translate convention LEF/DEF via placement uses.
type Transform struct {
	Orient Orient
	Offset Point
}

// Identity is the no-op transform.
var Identity = Transform{Orient: R0}

// ApplyPoint rotates p about the origin per t.Orient, then translates by
// t.Offset.
func (t Transform) ApplyPoint(p Point) Point {
	var x, y int32
	switch t.Orient {
	case R0:
		x, y = p.X, p.Y
	case R90:
		x, y = -p.Y, p.X
	case R180:
		x, y = -p.X, -p.Y
	case R270:
		x, y = p.Y, -p.X
	case MY:
		x, y = -p.X, p.Y
	case MX:
		x, y = p.X, -p.Y
	case MYR90:
		// rotate 90 then mirror about Y: equivalent to MX followed by R90.
		x, y = p.Y, p.X
	case MXR90:
		x, y = -p.Y, -p.X
	default:
		x, y = p.X, p.Y
	}
	return Point{x + t.Offset.X, y + t.Offset.Y}
}

// Apply produces the axis-aligned bounding box of the transformed
// rectangle: rotation can swap axes, so the two transformed corners are
// re-normalized into Lo/Hi order.
func (t Transform) Apply(r Rect) Rect {
	a := t.ApplyPoint(r.Lo)
	b := t.ApplyPoint(r.Hi)
	return NewRect(a.X, a.Y, b.X, b.Y)
}

// Swaps reports whether this orientation exchanges the X and Y axes, which
// a caller needs in order to know whether a layer's preferred direction
// flips under the transform.
func (o Orient) Swaps() bool {
	switch o {
	case R90, R270, MYR90, MXR90:
		return true
	default:
		return false
	}
}
