package wire

// Encoder builds a Wire's opcode/data streams one call at a time,
// following dbWireEncoder's addPoint/addVia/addRect shape: the first
// point of a path always emits both X and Y; later points emit only the
// axis that changed (manhattan segments only, per spec §3's wire
// invariants), or COLINEAR when the point repeats the current location.
type Encoder struct {
	w *Wire

	layer       int32
	x, y        int32
	pointCount  int
	started     bool
	currentRule int32 // 0 = tech-scope default width
}

// NewEncoder begins building into a fresh wire.
func NewEncoder() *Encoder {
	return &Encoder{w: New()}
}

// Wire returns the wire built so far.
func (e *Encoder) Wire() *Wire { return e.w }

// InitPath starts a new path on the layer identified by layerOID (the
// layer's otable.OID) with the given wire type. The PATH opcode's operand
// is the layer OID directly, per spec §6/§4.E.
func (e *Encoder) InitPath(layerOID int32, wt WireType) {
	e.w.emit(OpPath, packWireType(wt), layerOID)
	e.resetPath(layerOID)
}

// InitShort starts a new path continuing the same net at junction jct. The
// SHORT opcode's operand is jct (so spec §8.2's "operand(i) < i" invariant
// reads directly off the opcode), with the destination layer OID carried
// by an immediately following OPERAND opcode.
func (e *Encoder) InitShort(layerOID int32, wt WireType, jct int32) {
	e.w.emit(OpShort, packWireType(wt), jct)
	e.w.emit(OpOperand, 0, layerOID)
	e.resetPath(layerOID)
}

// InitVWire starts a virtual-wire path at junction jct, laid out like
// InitShort.
func (e *Encoder) InitVWire(layerOID int32, wt WireType, jct int32) {
	e.w.emit(OpVWire, packWireType(wt), jct)
	e.w.emit(OpOperand, 0, layerOID)
	e.resetPath(layerOID)
}

// InitJunction starts a new path at an existing junction without
// specifying a layer explicitly: the decoder resumes the layer active at
// the referenced junction index.
func (e *Encoder) InitJunction(jct int32) {
	e.w.emit(OpJunction, 0, jct)
	e.pointCount = 0
	e.started = false
	e.currentRule = 0
}

func (e *Encoder) resetPath(layerOID int32) {
	e.layer = layerOID
	e.pointCount = 0
	e.started = false
	e.currentRule = 0
}

// Rule binds a non-default rule for subsequent segments; blockScope
// selects the FlagBlockRule bit.
func (e *Encoder) Rule(ruleOID int32, blockScope bool) {
	var flags uint8
	if blockScope {
		flags = FlagBlockRule
	}
	e.w.emit(OpRule, flags, ruleOID)
	e.currentRule = ruleOID
}

// AddPoint emits the next coordinate. The first point of a path always
// emits X then Y; later points emit only whichever axis changed, or
// COLINEAR if the point repeats (x, y). ext, when non-nil, attaches an
// EXTENSION flag plus a following OPERAND opcode carrying the value.
func (e *Encoder) AddPoint(x, y int32, ext *int32) {
	defaultWidth := uint8(0)
	if e.currentRule == 0 {
		defaultWidth = FlagDefaultWidth
	}

	switch {
	case !e.started:
		e.w.emit(OpX, defaultWidth, x)
		yFlags := defaultWidth
		if ext != nil {
			yFlags |= FlagExtension
		}
		e.w.emit(OpY, yFlags, y)
		if ext != nil {
			e.w.emit(OpOperand, 0, *ext)
		}
		e.x, e.y = x, y
		e.pointCount++
		e.started = true
	case x == e.x && y == e.y:
		flags := defaultWidth
		if ext != nil {
			flags |= FlagExtension
		}
		e.w.emit(OpColinear, flags, 0)
		if ext != nil {
			e.w.emit(OpOperand, 0, *ext)
		}
	case y == e.y:
		flags := defaultWidth
		if ext != nil {
			flags |= FlagExtension
		}
		e.w.emit(OpX, flags, x)
		if ext != nil {
			e.w.emit(OpOperand, 0, *ext)
		}
		e.x = x
		e.pointCount++
	case x == e.x:
		flags := defaultWidth
		if ext != nil {
			flags |= FlagExtension
		}
		e.w.emit(OpY, flags, y)
		if ext != nil {
			e.w.emit(OpOperand, 0, *ext)
		}
		e.y = y
		e.pointCount++
	default:
		panic("wire: non-orthogonal segment: points must share an axis")
	}
}

// AddVia emits a block-via opcode; exitTop selects whether decoding should
// continue on the via's top layer.
func (e *Encoder) AddVia(viaOID int32, exitTop bool) {
	e.addVia(OpVia, viaOID, exitTop)
}

// AddTechVia emits a tech-via opcode.
func (e *Encoder) AddTechVia(viaOID int32, exitTop bool) {
	e.addVia(OpTechVia, viaOID, exitTop)
}

func (e *Encoder) addVia(op Opcode, viaOID int32, exitTop bool) {
	var flags uint8
	if exitTop {
		flags = FlagViaExitTop
	}
	e.w.emit(op, flags, viaOID)
}

// AddRect emits a RECT patch relative to the current point.
func (e *Encoder) AddRect(dx1, dy1, dx2, dy2 int32) {
	e.w.emit(OpRect, 0, dx1)
	e.w.emit(OpOperand, 0, dy1)
	e.w.emit(OpOperand, 0, dx2)
	e.w.emit(OpOperand, 0, dy2)
}

// AddIterm emits an ITERM opcode connecting to instance terminal id.
func (e *Encoder) AddIterm(id int32) { e.w.emit(OpIterm, 0, id) }

// AddBterm emits a BTERM opcode connecting to block terminal id.
func (e *Encoder) AddBterm(id int32) { e.w.emit(OpBterm, 0, id) }

// AddProperty attaches a scalar property to the last emitted point.
func (e *Encoder) AddProperty(value int32) { e.w.emit(OpProperty, 0, value) }

// AddColor emits a LEF58 mask color (1..3) for the last segment.
func (e *Encoder) AddColor(color int32) { e.w.emit(OpColor, 0, color) }

// AddViaColor emits a LEF58 mask color for the last via.
func (e *Encoder) AddViaColor(color int32) { e.w.emit(OpViaColor, 0, color) }
