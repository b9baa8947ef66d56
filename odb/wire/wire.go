package wire

import "errors"

// ErrInvalidWire is returned by Validate when an invariant from spec §8.2
// does not hold.
var ErrInvalidWire = errors.New("wire: invalid opcode stream")

// Wire owns the two parallel byte/int sequences that encode a routed
// signal net's geometry, per spec §3. The two sequences are always the
// same length.
type Wire struct {
	Opcodes []uint8
	Data    []int32
}

// New returns an empty wire.
func New() *Wire {
	return &Wire{}
}

func (w *Wire) emit(op Opcode, flags uint8, operand int32) {
	w.Opcodes = append(w.Opcodes, makeOp(op, flags))
	w.Data = append(w.Data, operand)
}

// Len returns the number of opcodes (== number of data operands).
func (w *Wire) Len() int { return len(w.Opcodes) }

// Op returns the opcode at index i.
func (w *Wire) Op(i int) Opcode { return opcodeOf(w.Opcodes[i]) }

// Operand returns the raw operand at index i.
func (w *Wire) Operand(i int) int32 { return w.Data[i] }

// Validate checks the invariants of spec §8.2:
//  1. opcode[0] is a path-start opcode (PATH, SHORT, VWIRE, or JUNCTION).
//  2. every JUNCTION/SHORT/VWIRE operand is strictly less than its index.
func (w *Wire) Validate() error {
	if len(w.Opcodes) != len(w.Data) {
		return ErrInvalidWire
	}
	if len(w.Opcodes) == 0 {
		return nil
	}
	switch opcodeOf(w.Opcodes[0]) {
	case OpPath, OpShort, OpVWire, OpJunction:
	default:
		return ErrInvalidWire
	}
	for i, b := range w.Opcodes {
		switch opcodeOf(b) {
		case OpJunction, OpShort, OpVWire:
			if int(w.Data[i]) >= i {
				return ErrInvalidWire
			}
		}
	}
	return nil
}

// Equal reports whether w and o encode the same opcode/data streams. Per
// spec §9's open question, any difference — including a length mismatch —
// makes two wires unequal; no attempt is made to compare a shared prefix.
func (w *Wire) Equal(o *Wire) bool {
	if w == nil || o == nil {
		return w == o
	}
	if len(w.Opcodes) != len(o.Opcodes) || len(w.Data) != len(o.Data) {
		return false
	}
	for i := range w.Opcodes {
		if w.Opcodes[i] != o.Opcodes[i] || w.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (w *Wire) Clone() *Wire {
	c := &Wire{
		Opcodes: make([]uint8, len(w.Opcodes)),
		Data:    make([]int32, len(w.Data)),
	}
	copy(c.Opcodes, w.Opcodes)
	copy(c.Data, w.Data)
	return c
}
