package component

import (
	"math"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
)

// DetectPadEdge decides which side of core a pad instance at instRect sits
// on, per spec §4.I's "decides the edge (N/S/E/W by position relative to
// the core)". The zero value (geom.Bottom) is also returned when instRect
// doesn't clear any edge of core, meaning the instance isn't a boundary
// pad; callers should treat that as "no direct connect".
func DetectPadEdge(instRect, core geom.Rect) (geom.Side, bool) {
	switch {
	case instRect.Lo.Y > core.Hi.Y:
		return geom.Top, true
	case instRect.Hi.Y < core.Lo.Y:
		return geom.Bottom, true
	case instRect.Hi.X < core.Lo.X:
		return geom.Left, true
	case instRect.Lo.X > core.Hi.X:
		return geom.Right, true
	default:
		return geom.Bottom, false
	}
}

// PadDirectConnect runs a strap from one pad supply pin to the nearest
// same-net target shape, per spec §4.I. Grounded on
// original_source/src/pdn/src/straps.cpp's PadDirectConnectionStraps.
type PadDirectConnect struct {
	tech *tech.Tech
	net  string
	edge geom.Side
}

// NewPadDirectConnect binds a PadDirectConnect to the pad's supply net and
// the edge DetectPadEdge assigned it.
func NewPadDirectConnect(t *tech.Tech, net string, edge geom.Side) *PadDirectConnect {
	return &PadDirectConnect{tech: t, net: net, edge: edge}
}

func (p *PadDirectConnect) isHorizontal() bool {
	return p.edge == geom.Left || p.edge == geom.Right
}

// MakeShapes searches ix for the nearest shape of p.net on a layer other
// than pinLayer, within a search box running from pin toward the die
// interior, and runs a strap from pin to that shape's facing edge.
// It returns (0, false, nil) when no reaching target exists, per spec
// §4.I's "skips pins whose layer has no generate rule reaching any
// adjacent metal" (approximated here as "no target shape found").
func (p *PadDirectConnect) MakeShapes(
	ix *shape.Index, die geom.Rect, pinLayer otable.OID, pinRect geom.Rect,
) (otable.OID, bool, error) {
	var search geom.Rect
	if p.isHorizontal() {
		search = geom.NewRect(die.Lo.X, pinRect.Lo.Y, die.Hi.X, pinRect.Hi.Y)
	} else {
		search = geom.NewRect(pinRect.Lo.X, die.Lo.Y, pinRect.Hi.X, die.Hi.Y)
	}

	var (
		bestRect geom.Rect
		bestDist int32 = math.MaxInt32
		found    bool
	)
	ix.Shapes.Iterate(func(id otable.OID, s *shape.Shape) bool {
		if s.Layer == pinLayer || s.Net != p.net || !s.Rect.Intersects(search) {
			return true
		}
		dist := facingDistance(p.edge, pinRect, s.Rect)
		if dist < 0 {
			return true
		}
		if !found || dist < bestDist {
			bestRect, bestDist, found = s.Rect, dist, true
		}
		return true
	})
	if !found {
		return 0, false, nil
	}

	shapeRect := pinRect
	switch p.edge {
	case geom.Left:
		shapeRect.Hi.X = bestRect.Hi.X
	case geom.Right:
		shapeRect.Lo.X = bestRect.Lo.X
	case geom.Bottom:
		shapeRect.Hi.Y = bestRect.Hi.Y
	case geom.Top:
		shapeRect.Lo.Y = bestRect.Lo.Y
	}

	if l, err := p.tech.Layers.Get(pinLayer); err == nil && l.MaxW > 0 {
		if p.isHorizontal() {
			if shapeRect.DY()+1 > l.MaxW {
				shapeRect.Hi.Y = shapeRect.Lo.Y + l.MaxW - 1
			}
		} else if shapeRect.DX()+1 > l.MaxW {
			shapeRect.Hi.X = shapeRect.Lo.X + l.MaxW - 1
		}
	}

	id, err := ix.AddShape(pinLayer, p.net, shapeRect, shape.RoleStripe)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// facingDistance returns the gap between pin and target along the axis the
// pad edge faces, or -1 if target isn't on the far side pin is reaching
// toward.
func facingDistance(edge geom.Side, pin, target geom.Rect) int32 {
	switch edge {
	case geom.Left:
		return target.Lo.X - pin.Hi.X
	case geom.Right:
		return pin.Lo.X - target.Hi.X
	case geom.Bottom:
		return target.Lo.Y - pin.Hi.Y
	case geom.Top:
		return pin.Lo.Y - target.Hi.Y
	}
	return -1
}
