package wire

import "github.com/sarchlab/zeonica-pdn/geom"

// Segment is a manhattan wire segment between two points on one layer, per
// spec §4.E's get_shape SEGMENT variant. Layer is the layer's otable.OID.
type Segment struct {
	X1, Y1, X2, Y2 int32
	Width          int32
	Layer          int32
}

// ViaShape is a via placement, per spec §4.E's get_shape VIA variant.
type ViaShape struct {
	ViaOID   int32
	IsTech   bool
	BBox     geom.Rect
	ExitTop  bool
	EnterLay int32
}

// Shape is either a Segment or a ViaShape.
type Shape struct {
	IsVia   bool
	Segment Segment
	Via     ViaShape
}

// WidthResolver returns the preferred width to use for a segment on
// layerOID, optionally overridden by the bound non-default rule (ruleOID
// != 0), per spec §4.E: "Segment width is the layer's preferred width
// unless a RULE overrides it; in that case the NDR's layer-rule-width is
// used."
type WidthResolver func(layerOID int32, ruleOID int32, blockScope bool) int32

// ViaResolver returns the bounding box for a via OID so the decoder can
// populate ViaShape.BBox, plus the via's bottom and top layer OIDs; isTech
// selects the tech-via vs. block-via table. The decoder uses bottomLayer/
// topLayer to pick up the exit layer after the via, per spec §4.E/§8.
type ViaResolver func(viaOID int32, isTech bool) (bbox geom.Rect, bottomLayer, topLayer int32)

// Decoder walks a Wire's opcode stream, carrying "last three tokens" of
// state (current layer, current point, current rule) to reconstruct
// segments and vias, per spec §4.E.
type Decoder struct {
	Width WidthResolver
	Via   ViaResolver
}

// Decode returns the ordered Shape list for w. A path resumed at an
// existing junction (JUNCTION/SHORT/VWIRE) picks up the coordinates *and*
// layer recorded for that earlier index, matching "the decoder is a state
// machine over the last three tokens" by replaying point/layer history
// rather than assuming a fixed starting point.
func (d *Decoder) Decode(w *Wire) []Shape {
	var shapes []Shape
	pointXAt := make(map[int]int32)
	pointYAt := make(map[int]int32)
	layerAt := make(map[int]int32)

	var layer int32
	var x, y int32
	var haveLastX, haveLastY bool
	var lastX, lastY int32
	var rule int32
	var blockRule bool

	recordPoint := func(i int) {
		pointXAt[i] = x
		pointYAt[i] = y
		layerAt[i] = layer
	}

	for i := 0; i < len(w.Opcodes); i++ {
		b := w.Opcodes[i]
		op := opcodeOf(b)
		val := w.Data[i]

		switch op {
		case OpPath:
			layer = val
			rule, blockRule = 0, false
			haveLastX, haveLastY = false, false
			recordPoint(i)
		case OpShort, OpVWire:
			// Operand is the resume junction; the destination layer OID
			// follows as an OPERAND opcode.
			if i+1 < len(w.Opcodes) && opcodeOf(w.Opcodes[i+1]) == OpOperand {
				layer = w.Data[i+1]
				i++
			}
			ref := int(val)
			rule, blockRule = 0, false
			if rx, ok := pointXAt[ref]; ok {
				x, lastX = rx, rx
				haveLastX = true
			}
			if ry, ok := pointYAt[ref]; ok {
				y, lastY = ry, ry
				haveLastY = true
			}
			recordPoint(i)
		case OpJunction:
			ref := int(val)
			rule, blockRule = 0, false
			if rl, ok := layerAt[ref]; ok {
				layer = rl
			}
			if rx, ok := pointXAt[ref]; ok {
				x, lastX = rx, rx
				haveLastX = true
			}
			if ry, ok := pointYAt[ref]; ok {
				y, lastY = ry, ry
				haveLastY = true
			}
			recordPoint(i)
		case OpRule:
			rule = val
			blockRule = hasFlag(b, FlagBlockRule)
		case OpX:
			newX := val
			width := d.width(layer, rule, blockRule)
			if haveLastX && haveLastY {
				shapes = append(shapes, Shape{Segment: Segment{
					X1: lastX, Y1: lastY, X2: newX, Y2: lastY,
					Width: width, Layer: layer,
				}})
			}
			x = newX
			lastX, lastY = x, y
			haveLastX = true
			recordPoint(i)
			if hasFlag(b, FlagExtension) && i+1 < len(w.Opcodes) && opcodeOf(w.Opcodes[i+1]) == OpOperand {
				i++ // skip the extension operand
			}
		case OpY:
			newY := val
			width := d.width(layer, rule, blockRule)
			if haveLastX && haveLastY {
				shapes = append(shapes, Shape{Segment: Segment{
					X1: lastX, Y1: lastY, X2: lastX, Y2: newY,
					Width: width, Layer: layer,
				}})
			}
			y = newY
			lastX, lastY = x, y
			haveLastY = true
			recordPoint(i)
			if hasFlag(b, FlagExtension) && i+1 < len(w.Opcodes) && opcodeOf(w.Opcodes[i+1]) == OpOperand {
				i++
			}
		case OpColinear:
			recordPoint(i)
			if hasFlag(b, FlagExtension) && i+1 < len(w.Opcodes) && opcodeOf(w.Opcodes[i+1]) == OpOperand {
				i++
			}
		case OpVia, OpTechVia:
			isTech := op == OpTechVia
			exitTop := hasFlag(b, FlagViaExitTop)
			var bbox geom.Rect
			var bottom, top int32
			if d.Via != nil {
				bbox, bottom, top = d.Via(val, isTech)
			}
			shapes = append(shapes, Shape{
				IsVia: true,
				Via: ViaShape{
					ViaOID: val, IsTech: isTech, BBox: bbox, ExitTop: exitTop,
					EnterLay: layer,
				},
			})
			// A via switches the current layer to whichever side the path
			// exits on, per FlagViaExitTop; subsequent segments on this
			// path are reported on that layer.
			if d.Via != nil {
				if exitTop {
					layer = top
				} else {
					layer = bottom
				}
			}
			recordPoint(i)
		case OpRect:
			if i+3 < len(w.Opcodes) {
				i += 3
			}
		case OpOperand, OpProperty, OpColor, OpViaColor, OpIterm, OpBterm, OpNop:
			// No decode-state effect beyond being skipped.
		}
	}
	return shapes
}

func (d *Decoder) width(layer int32, rule int32, blockRule bool) int32 {
	if d.Width == nil {
		return 0
	}
	return d.Width(layer, rule, blockRule)
}

// Length visits each X/Y opcode pair once, summing Manhattan segment
// lengths; vias contribute zero, per spec §4.E.
func (w *Wire) Length(d *Decoder) int64 {
	var total int64
	for _, s := range d.Decode(w) {
		if s.IsVia {
			continue
		}
		dx := int64(s.Segment.X2 - s.Segment.X1)
		dy := int64(s.Segment.Y2 - s.Segment.Y1)
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		total += dx + dy
	}
	return total
}
