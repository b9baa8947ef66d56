// Package geom provides the integer geometry primitives shared by the
// database and planner: points, rectangles, and axis transforms.
package geom

import "fmt"

// Point is an integer-coordinate DBU location.
type Point struct {
	X, Y int32
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{p.X + d.X, p.Y + d.Y}
}

// Rect is a closed-interval axis-aligned rectangle: Lo and Hi are both part
// of the rectangle, matching LEF/DEF convention (not half-open).
type Rect struct {
	Lo, Hi Point
}

// NewRect builds a normalized rectangle from two opposite corners.
func NewRect(x1, y1, x2, y2 int32) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{Point{x1, y1}, Point{x2, y2}}
}

// Empty reports whether Lo exceeds Hi in either axis. Under the closed
// convention a rectangle with Lo == Hi on an axis is not empty.
func (r Rect) Empty() bool {
	return r.Lo.X > r.Hi.X || r.Lo.Y > r.Hi.Y
}

// DX returns the rectangle's width.
func (r Rect) DX() int32 { return r.Hi.X - r.Lo.X }

// DY returns the rectangle's height.
func (r Rect) DY() int32 { return r.Hi.Y - r.Lo.Y }

// Area returns the rectangle's area (0 for a degenerate rect).
func (r Rect) Area() int64 {
	if r.Empty() {
		return 0
	}
	return int64(r.DX()+1) * int64(r.DY()+1)
}

// Contains reports whether p lies within the closed rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Lo.X && p.X <= r.Hi.X && p.Y >= r.Lo.Y && p.Y <= r.Hi.Y
}

// ContainsRect reports whether o is entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.Lo.X >= r.Lo.X && o.Hi.X <= r.Hi.X && o.Lo.Y >= r.Lo.Y && o.Hi.Y <= r.Hi.Y
}

// Intersects reports whether r and o share at least one point.
func (r Rect) Intersects(o Rect) bool {
	return r.Lo.X <= o.Hi.X && o.Lo.X <= r.Hi.X && r.Lo.Y <= o.Hi.Y && o.Lo.Y <= r.Hi.Y
}

// Intersect returns the overlapping region of r and o. The result is
// Empty() if they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	lo := Point{max32(r.Lo.X, o.Lo.X), max32(r.Lo.Y, o.Lo.Y)}
	hi := Point{min32(r.Hi.X, o.Hi.X), min32(r.Hi.Y, o.Hi.Y)}
	return Rect{lo, hi}
}

// Merge returns the smallest rectangle containing both r and o.
func (r Rect) Merge(o Rect) Rect {
	return Rect{
		Point{min32(r.Lo.X, o.Lo.X), min32(r.Lo.Y, o.Lo.Y)},
		Point{max32(r.Hi.X, o.Hi.X), max32(r.Hi.Y, o.Hi.Y)},
	}
}

// Bloat grows the rectangle by d on every side. A negative d shrinks it.
func (r Rect) Bloat(d int32) Rect {
	return Rect{
		Point{r.Lo.X - d, r.Lo.Y - d},
		Point{r.Hi.X + d, r.Hi.Y + d},
	}
}

// BloatXY grows the rectangle by dx horizontally and dy vertically.
func (r Rect) BloatXY(dx, dy int32) Rect {
	return Rect{
		Point{r.Lo.X - dx, r.Lo.Y - dy},
		Point{r.Hi.X + dx, r.Hi.Y + dy},
	}
}

// SharesFullSide reports whether r and o have one full coincident edge,
// i.e. they are colinear and coextensive on one axis. This is the test the
// planner uses to decide whether two shapes "merge" rather than
// "partially overlap".
func (r Rect) SharesFullSide(o Rect) bool {
	if r.Lo.X == o.Lo.X && r.Hi.X == o.Hi.X {
		return r.Hi.Y == o.Lo.Y-1 || o.Hi.Y == r.Lo.Y-1 || r.Intersects(o)
	}
	if r.Lo.Y == o.Lo.Y && r.Hi.Y == o.Hi.Y {
		return r.Hi.X == o.Lo.X-1 || o.Hi.X == r.Lo.X-1 || r.Intersects(o)
	}
	return false
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Lo.X, r.Lo.Y, r.Hi.X, r.Hi.Y)
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Direction is a layer's preferred routing direction.
type Direction int

const (
	DirNone Direction = iota
	DirHorizontal
	DirVertical
)

func (d Direction) String() string {
	switch d {
	case DirHorizontal:
		return "Horizontal"
	case DirVertical:
		return "Vertical"
	default:
		return "None"
	}
}

// Side names a side of a rectangular domain (Bottom/Left/Right/Top), used
// for the ring/pad-connect offsets.
type Side int

const (
	Bottom Side = iota
	Left
	Right
	Top
)

var sideNames = []string{"Bottom", "Left", "Right", "Top"}

func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return fmt.Sprintf("Side(%d)", int(s))
}
