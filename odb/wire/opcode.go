// Package wire implements the routed-wire opcode/operand codec of spec
// §4.E / §6: two co-indexed sequences (opcodes, data) with a small state
// machine for decoding segments, vias, and rectangles.
//
// Grounded on original_source/src/odb/src/db/dbWireCodec.cpp; the
// opcode-stream shape is cross-grounded on sentra-language-sentra's
// internal/bytecode instruction encoding (an opcode byte plus an operand
// vector) and on the teacher's program/isa.go "registered instruction"
// idea, generalized here into a fixed opcode alphabet instead of a dynamic
// name->behavior registry, because the wire format's opcode set is fixed
// by spec §4.E rather than user-extensible.
package wire

// Opcode is the low-5-bit instruction selector of an opcode byte; the high
// 3 bits hold opcode-specific flags, per spec §6.
type Opcode uint8

const (
	OpPath Opcode = iota
	OpShort
	OpVWire
	OpJunction
	OpRule
	OpX
	OpY
	OpColinear
	OpVia
	OpTechVia
	OpRect
	OpIterm
	OpBterm
	OpOperand
	OpProperty
	OpColor
	OpViaColor
	OpNop
)

const opcodeMask = 0x1F // low 5 bits
const flagsMask = 0xE0  // high 3 bits

// Flags usable on X / Y / COLINEAR opcodes, per spec §6.
const (
	FlagProperty     = 1 << 7
	FlagExtension    = 1 << 6
	FlagDefaultWidth = 1 << 5
)

// Flags usable on VIA / TECH_VIA opcodes.
const FlagViaExitTop = 1 << 5

// Flag usable on RULE opcodes: the bound rule is block-scoped rather than
// tech-scoped.
const FlagBlockRule = 1 << 5

// WireType mirrors dbWireType: the purpose of a PATH/SHORT/VWIRE segment.
// It is packed into the aux bits (5-7) of those three opcodes.
type WireType uint8

const (
	WireDefault WireType = iota
	WireRouted
	WireFixed
	WireCover
	WireNoShield
)

func makeOp(op Opcode, flags uint8) uint8 {
	return uint8(op)&opcodeMask | flags&flagsMask
}

func opcodeOf(b uint8) Opcode  { return Opcode(b & opcodeMask) }
func flagsOf(b uint8) uint8    { return b & flagsMask }
func hasFlag(b uint8, f uint8) bool { return b&f != 0 }

func packWireType(wt WireType) uint8 {
	return uint8(wt) << 5 & flagsMask
}

func unpackWireType(b uint8) WireType {
	return WireType((b & flagsMask) >> 5)
}

func (o Opcode) String() string {
	switch o {
	case OpPath:
		return "PATH"
	case OpShort:
		return "SHORT"
	case OpVWire:
		return "VWIRE"
	case OpJunction:
		return "JUNCTION"
	case OpRule:
		return "RULE"
	case OpX:
		return "X"
	case OpY:
		return "Y"
	case OpColinear:
		return "COLINEAR"
	case OpVia:
		return "VIA"
	case OpTechVia:
		return "TECH_VIA"
	case OpRect:
		return "RECT"
	case OpIterm:
		return "ITERM"
	case OpBterm:
		return "BTERM"
	case OpOperand:
		return "OPERAND"
	case OpProperty:
		return "PROPERTY"
	case OpColor:
		return "COLOR"
	case OpViaColor:
		return "VIACOLOR"
	case OpNop:
		return "NOP"
	default:
		return "UNKNOWN"
	}
}
