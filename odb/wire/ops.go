package wire

// ViaRemapper rewrites a via OID read from src into the corresponding OID
// in dst's block, copying the via definition across blocks first if dst
// has no via of that name yet. Append calls this for every VIA opcode
// (not TECH_VIA — tech vias are shared by OID across all blocks already).
type ViaRemapper func(srcViaOID int32) (dstViaOID int32)

// Append copies src's opcode/data streams onto the end of dst, fixing up
// every JUNCTION/SHORT/VWIRE operand so relative junction indices still
// point at the same token, and rewriting VIA operands through remap, per
// spec §4.E.
func Append(dst, src *Wire, remap ViaRemapper) {
	base := len(dst.Opcodes)
	for i, b := range src.Opcodes {
		op := opcodeOf(b)
		val := src.Data[i]
		switch op {
		case OpJunction, OpShort, OpVWire:
			val += int32(base)
		case OpVia:
			if remap != nil {
				val = remap(val)
			}
		}
		dst.Opcodes = append(dst.Opcodes, b)
		dst.Data = append(dst.Data, val)
	}
}

// Copy replaces dst's sequences wholesale with src's. When removeItermBterm
// is set, ITERM/BTERM opcodes are rewritten to NOP with a zero operand
// (used when duplicating a wire into a context where the original
// instance/block terminals no longer apply). copyVias, when non-nil, is
// invoked for every VIA operand the same way Append's remap is, letting
// the caller copy via definitions across blocks; TECH_VIA operands are
// copied unchanged.
func Copy(dst, src *Wire, removeItermBterm bool, copyVias ViaRemapper) {
	dst.Opcodes = make([]uint8, len(src.Opcodes))
	dst.Data = make([]int32, len(src.Data))
	copy(dst.Opcodes, src.Opcodes)
	copy(dst.Data, src.Data)

	for i, b := range dst.Opcodes {
		op := opcodeOf(b)
		switch op {
		case OpIterm, OpBterm:
			if removeItermBterm {
				dst.Opcodes[i] = makeOp(OpNop, 0)
				dst.Data[i] = 0
			}
		case OpVia:
			if copyVias != nil {
				dst.Data[i] = copyVias(dst.Data[i])
			}
		}
	}
}
