package wire_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/wire"
)

const (
	m1 int32 = 1
	m2 int32 = 2
)

var _ = Describe("Wire round trip", func() {
	// Scenario 1 from the spec's end-to-end list: a PATH on M1, a vertical
	// run to (100,400), a TECH_VIA switching to M2, then a horizontal run
	// to (500,400).
	It("decodes to the exact segment/via/segment sequence", func() {
		enc := wire.NewEncoder()
		enc.InitPath(m1, wire.WireRouted)
		enc.AddPoint(100, 200, nil)
		enc.AddPoint(100, 400, nil) // same X, new Y -> vertical segment on M1
		enc.AddTechVia(12, true)    // exits onto M2
		enc.AddPoint(500, 400, nil) // same Y, new X -> horizontal segment on M2

		w := enc.Wire()
		Expect(w.Validate()).To(Succeed())

		widths := map[int32]int32{m1: 140, m2: 200}
		dec := &wire.Decoder{
			Width: func(layer int32, rule int32, blockRule bool) int32 { return widths[layer] },
			Via: func(viaOID int32, isTech bool) (geom.Rect, int32, int32) {
				return geom.NewRect(80, 380, 120, 420), m1, m2
			},
		}
		shapes := dec.Decode(w)

		Expect(shapes).To(HaveLen(3))
		Expect(shapes[0].IsVia).To(BeFalse())
		Expect(shapes[0].Segment).To(Equal(wire.Segment{X1: 100, Y1: 200, X2: 100, Y2: 400, Width: 140, Layer: m1}))

		Expect(shapes[1].IsVia).To(BeTrue())
		Expect(shapes[1].Via.ViaOID).To(Equal(int32(12)))
		Expect(shapes[1].Via.IsTech).To(BeTrue())

		// The via exits onto M2 (ExitTop), so the following segment is
		// reported under M2 at M2's width.
		Expect(shapes[2].IsVia).To(BeFalse())
		Expect(shapes[2].Segment).To(Equal(wire.Segment{X1: 100, Y1: 400, X2: 500, Y2: 400, Width: 200, Layer: m2}))
	})

	It("computes Manhattan length ignoring vias", func() {
		enc := wire.NewEncoder()
		enc.InitPath(m1, wire.WireRouted)
		enc.AddPoint(0, 0, nil)
		enc.AddPoint(0, 300, nil)
		enc.AddTechVia(1, true)
		enc.AddPoint(700, 300, nil)

		dec := &wire.Decoder{Width: func(int32, int32, bool) int32 { return 0 }}
		Expect(enc.Wire().Length(dec)).To(Equal(int64(1000)))
	})
})

var _ = Describe("Wire.Validate", func() {
	It("rejects a stream not starting with a path opcode", func() {
		w := wire.New()
		w.Opcodes = []uint8{0}
		w.Data = []int32{0}
		// Force opcode 0 to be X (not a path-start opcode).
		w.Opcodes[0] = uint8(wire.OpX)
		Expect(w.Validate()).To(MatchError(wire.ErrInvalidWire))
	})

	It("rejects a JUNCTION operand that is not strictly less than its index", func() {
		enc := wire.NewEncoder()
		enc.InitPath(m1, wire.WireRouted)
		enc.AddPoint(0, 0, nil)
		w := enc.Wire()
		w.Opcodes = append(w.Opcodes, uint8(wire.OpJunction))
		w.Data = append(w.Data, int32(len(w.Opcodes)-1)) // operand == own index
		Expect(w.Validate()).To(MatchError(wire.ErrInvalidWire))
	})
})

var _ = Describe("Append", func() {
	It("renumbers JUNCTION/SHORT/VWIRE operands by the destination's prior length", func() {
		dstEnc := wire.NewEncoder()
		dstEnc.InitPath(m1, wire.WireRouted)
		dstEnc.AddPoint(0, 0, nil)
		dstEnc.AddPoint(0, 100, nil)
		dst := dstEnc.Wire()
		dstLenBefore := dst.Len()

		srcEnc := wire.NewEncoder()
		srcEnc.InitShort(m1, wire.WireRouted, 1) // junction index 1 in src's own numbering
		srcEnc.AddPoint(0, 100, nil)
		src := srcEnc.Wire()

		wire.Append(dst, src, nil)

		Expect(dst.Len()).To(Equal(dstLenBefore + src.Len()))
		Expect(dst.Op(dstLenBefore)).To(Equal(wire.OpShort))
		Expect(dst.Operand(dstLenBefore)).To(Equal(int32(1 + dstLenBefore)))
		// The trailing layer-OID OPERAND is copied verbatim, unshifted.
		Expect(dst.Op(dstLenBefore + 1)).To(Equal(wire.OpOperand))
		Expect(dst.Operand(dstLenBefore + 1)).To(Equal(m1))
	})
})

var _ = Describe("Copy", func() {
	It("produces a wire equal to the source when nothing is removed", func() {
		enc := wire.NewEncoder()
		enc.InitPath(m1, wire.WireRouted)
		enc.AddPoint(0, 0, nil)
		enc.AddPoint(100, 0, nil)
		enc.AddIterm(5)
		original := enc.Wire()

		var dst wire.Wire
		wire.Copy(&dst, original, false, nil)
		Expect(dst.Equal(original)).To(BeTrue())
	})

	It("rewrites ITERM/BTERM to NOP when removeItermBterm is set", func() {
		enc := wire.NewEncoder()
		enc.InitPath(m1, wire.WireRouted)
		enc.AddPoint(0, 0, nil)
		enc.AddIterm(5)
		original := enc.Wire()

		var dst wire.Wire
		wire.Copy(&dst, original, true, nil)

		found := false
		for i := 0; i < dst.Len(); i++ {
			if dst.Op(i) == wire.OpNop {
				found = true
				Expect(dst.Operand(i)).To(Equal(int32(0)))
			}
		}
		Expect(found).To(BeTrue())
	})
})
