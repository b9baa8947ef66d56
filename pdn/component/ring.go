package component

import (
	"errors"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
)

// ErrRingLayersNotPerpendicular is returned when the two ring layers share
// the same routing direction.
var ErrRingLayersNotPerpendicular = errors.New("component: ring layers must run in perpendicular directions")

// RingLayer is one of a Ring's two layer definitions.
type RingLayer struct {
	Layer   otable.OID
	Width   int32
	Spacing int32
}

// RingBuilder configures a Ring component, per spec §4.I.
type RingBuilder struct {
	layers          [2]RingLayer
	offset          [4]int32 // left, bottom, right, top
	nets            []Net
	startsWith      StartsWith
	extendToBoundary bool
}

// NewRingBuilder returns a builder with no fields set; Build panics if a
// required field is missing.
func NewRingBuilder() RingBuilder { return RingBuilder{} }

func (b RingBuilder) WithLayers(a, c RingLayer) RingBuilder {
	b.layers = [2]RingLayer{a, c}
	return b
}

// WithOffset sets the four offsets from the domain boundary, in
// left/bottom/right/top order, per spec §4.I.
func (b RingBuilder) WithOffset(left, bottom, right, top int32) RingBuilder {
	b.offset = [4]int32{left, bottom, right, top}
	return b
}

func (b RingBuilder) WithNets(nets ...Net) RingBuilder         { b.nets = nets; return b }
func (b RingBuilder) WithStartsWith(sw StartsWith) RingBuilder { b.startsWith = sw; return b }
func (b RingBuilder) WithExtendToBoundary(v bool) RingBuilder  { b.extendToBoundary = v; return b }

// Build validates the configuration and returns a Ring.
func (b RingBuilder) Build(t *tech.Tech) *Ring {
	if b.layers[0].Layer == 0 || b.layers[1].Layer == 0 {
		panic("component: ring requires two layers")
	}
	if b.layers[0].Width <= 0 || b.layers[1].Width <= 0 {
		panic("component: ring requires a positive width per layer")
	}
	if len(b.nets) == 0 {
		panic("component: ring requires at least one net")
	}
	l0 := t.Layers.MustGet(b.layers[0].Layer)
	l1 := t.Layers.MustGet(b.layers[1].Layer)
	if b.layers[0].Layer != b.layers[1].Layer && l0.Direction == l1.Direction &&
		l0.Direction != geom.DirNone {
		panic(ErrRingLayersNotPerpendicular.Error())
	}
	return &Ring{
		layers: b.layers, offset: b.offset, extendToBoundary: b.extendToBoundary,
		nets: orderNets(b.nets, b.startsWith),
		horizontalIsFirst: l0.Direction == geom.DirHorizontal || b.layers[0].Layer == b.layers[1].Layer,
	}
}

// Ring is a concentric perimeter supply-wire component, per spec §4.I.
// Grounded on original_source/src/pdn/src/rings.cpp's Rings::makeShapes:
// the horizontal layer's bottom/top bars and the vertical layer's
// left/right bars each step outward by one pitch (width+spacing) per
// successive net, bloated beyond an inner outline that is the domain
// boundary extended outward by the per-side offset.
type Ring struct {
	layers            [2]RingLayer
	offset            [4]int32
	nets              []Net
	extendToBoundary  bool
	horizontalIsFirst bool
}

func (r *Ring) innerOutline(domain geom.Rect) geom.Rect {
	return geom.NewRect(
		domain.Lo.X-r.offset[0], domain.Lo.Y-r.offset[1],
		domain.Hi.X+r.offset[2], domain.Hi.Y+r.offset[3],
	)
}

// MakeShapes lays out the ring's horizontal and vertical bars around
// domain, inserting into ix for each configured net. boundary is the
// die-level extension rect used when the ring was built with
// WithExtendToBoundary(true); it is ignored otherwise.
func (r *Ring) MakeShapes(ix *shape.Index, domain, boundary geom.Rect) ([]otable.OID, error) {
	var out []otable.OID

	horiz, vert := r.layers[0], r.layers[1]
	if !r.horizontalIsFirst {
		horiz, vert = r.layers[1], r.layers[0]
	}
	core := r.innerOutline(domain)

	// bottom/top bars on the horizontal layer.
	xStart, xEnd := core.Lo.X-horiz.Width, core.Hi.X+horiz.Width
	if r.extendToBoundary {
		xStart, xEnd = boundary.Lo.X, boundary.Hi.X
	}
	pitchH := horiz.Width + horiz.Spacing

	yStart, yEnd := core.Lo.Y-horiz.Width, core.Lo.Y
	for _, n := range r.nets {
		id, err := ix.AddShape(horiz.Layer, n.Name, geom.NewRect(xStart, yStart, xEnd, yEnd), shape.RoleRing)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
		if !r.extendToBoundary {
			xStart -= pitchH
			xEnd += pitchH
		}
		yStart -= pitchH
		yEnd -= pitchH
	}

	if !r.extendToBoundary {
		xStart, xEnd = core.Lo.X-horiz.Width, core.Hi.X+horiz.Width
	}
	yStart, yEnd = core.Hi.Y, core.Hi.Y+horiz.Width
	for _, n := range r.nets {
		id, err := ix.AddShape(horiz.Layer, n.Name, geom.NewRect(xStart, yStart, xEnd, yEnd), shape.RoleRing)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
		if !r.extendToBoundary {
			xStart -= pitchH
			xEnd += pitchH
		}
		yStart += pitchH
		yEnd += pitchH
	}

	// left/right bars on the vertical layer.
	pitchV := vert.Width + vert.Spacing
	lxStart, lxEnd := core.Lo.X-vert.Width, core.Lo.X
	lyStart, lyEnd := core.Lo.Y-vert.Width, core.Hi.Y+vert.Width
	if r.extendToBoundary {
		lyStart, lyEnd = boundary.Lo.Y, boundary.Hi.Y
	}
	for _, n := range r.nets {
		id, err := ix.AddShape(vert.Layer, n.Name, geom.NewRect(lxStart, lyStart, lxEnd, lyEnd), shape.RoleRing)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
		lxStart -= pitchV
		lxEnd -= pitchV
		if !r.extendToBoundary {
			lyStart -= pitchV
			lyEnd += pitchV
		}
	}

	rxStart, rxEnd := core.Hi.X, core.Hi.X+vert.Width
	if !r.extendToBoundary {
		lyStart, lyEnd = core.Lo.Y-vert.Width, core.Hi.Y+vert.Width
	}
	for _, n := range r.nets {
		id, err := ix.AddShape(vert.Layer, n.Name, geom.NewRect(rxStart, lyStart, rxEnd, lyEnd), shape.RoleRing)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
		rxStart += pitchV
		rxEnd += pitchV
		if !r.extendToBoundary {
			lyStart -= pitchV
			lyEnd += pitchV
		}
	}

	return out, nil
}
