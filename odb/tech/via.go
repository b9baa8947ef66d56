package tech

import "github.com/sarchlab/zeonica-pdn/geom"

// Via is a via record: either a tech via (fixed geometry, global to the
// Tech) or a block via (owned by a Block, possibly an oriented instance of
// another via), per spec §3.
type Via struct {
	Name       string
	IsBlockVia bool

	// BBox is the via's overall bounding box; LayerRects gives the
	// per-layer rectangles (bottom metal, cut, top metal, and any
	// intermediate layers for a multi-cut stack image).
	BBox       geom.Rect
	LayerRects map[string]geom.Rect // layer name -> rect, in via-local coords

	// Orientation/BaseVia let a block via be a transformed instance of
	// another via (tech or block) rather than owning independent
	// geometry, per spec §3.
	BaseVia   string
	Transform geom.Transform

	BottomLayer, CutLayer, TopLayer string
	IsPGVia                         bool
}

// ArraySpacingRule is one LEF58 ARRAYSPACING entry attached to a
// via-generate rule, per spec §4.D.
type ArraySpacingRule struct {
	MinWidth     int32 // 0 = unset
	Cuts         int
	CutSpacing   int32
	ArraySpacing int32
	LongArray    bool
}

// ViaGenerateRule parameterizes a via generated between two metal layers
// through one cut layer, per spec §3/§4.D.
type ViaGenerateRule struct {
	Name string

	BottomLayer, CutLayer, TopLayer string

	CutWidth, CutHeight int32

	// Enclosure overhangs allowed on the bottom and top metal layers,
	// expressed as (x, y) pairs the way LEF ENCLOSURE rules do.
	BottomEnclosureX, BottomEnclosureY int32
	TopEnclosureX, TopEnclosureY       int32

	CutSpacingX, CutSpacingY int32 // default cut pitch components

	// SplitCutPitchX/Y override CutSpacingX/Y when the layer assigns a
	// split-cut pitch, per spec §4.G "Split-cuts".
	SplitCutPitchX, SplitCutPitchY int32

	ArraySpacing []ArraySpacingRule

	MaxRows, MaxColumns int // 0 = unbounded
}

// TechVia returns a fixed-geometry via candidate; Name matches the owning
// Via record.
type TechVia struct {
	Name                         string
	BottomLayer, CutLayer, TopLayer string
	CutWidth, CutHeight          int32
	BBox                         geom.Rect
}
