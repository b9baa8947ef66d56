package writer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/connect"
	"github.com/sarchlab/zeonica-pdn/pdn/grid"
	"github.com/sarchlab/zeonica-pdn/pdn/via"
	"github.com/sarchlab/zeonica-pdn/pdn/writer"
)

type wireCall struct {
	net   string
	layer otable.OID
	rect  geom.Rect
}

type viaCall struct {
	net          string
	lower, upper otable.OID
	rect         geom.Rect
	name         string
}

type fakeSink struct {
	wires []wireCall
	vias  []viaCall
	pins  []wireCall
}

func (f *fakeSink) AddSpecialWire(net string, layer otable.OID, rect geom.Rect, _ shape.Role) error {
	f.wires = append(f.wires, wireCall{net, layer, rect})
	return nil
}

func (f *fakeSink) AddVia(net string, lower, upper otable.OID, rect geom.Rect, name string) error {
	f.vias = append(f.vias, viaCall{net, lower, upper, rect, name})
	return nil
}

func (f *fakeSink) AddBTerm(net string, layer otable.OID, rect geom.Rect) error {
	f.pins = append(f.pins, wireCall{net, layer, rect})
	return nil
}

var _ = Describe("Writer.WriteGrid", func() {
	It("writes shapes ascending by (layer level, rect) and vias ascending by (lower, upper, rect)", func() {
		t := tech.New()
		m1 := t.AddLayer(tech.Layer{Name: "M1", RoutingLevel: 1, Direction: geom.DirHorizontal})
		m2 := t.AddLayer(tech.Layer{Name: "M2", RoutingLevel: 2, Direction: geom.DirVertical})

		rule, _ := t.ViaGenerateRules.Create()
		*t.ViaGenerateRules.MustGet(rule) = tech.ViaGenerateRule{
			Name: "V12", BottomLayer: "M1", CutLayer: "CUT12", TopLayer: "M2",
			CutWidth: 100, CutHeight: 100,
		}
		t.Layers.MustGet(m1).ViaGenerateRules = append(t.Layers.MustGet(m1).ViaGenerateRules, rule)

		resolver, err := connect.NewResolver(t, nil)
		Expect(err).NotTo(HaveOccurred())
		g := grid.New(t, "core", resolver)

		// Inserted out of order on purpose so the writer's own sort is
		// what produces the expected output order.
		_, err = g.Shapes.AddShape(m2, "VDD", geom.NewRect(5000, 0, 5399, 10000), shape.RoleStripe)
		Expect(err).NotTo(HaveOccurred())
		_, err = g.Shapes.AddShape(m1, "VDD", geom.NewRect(1000, 0, 1000+399, 10000), shape.RoleFollowPin)
		Expect(err).NotTo(HaveOccurred())
		s2, err := g.Shapes.AddShape(m1, "VDD", geom.NewRect(0, 0, 399, 10000), shape.RoleFollowPin)
		Expect(err).NotTo(HaveOccurred())

		_, v1 := g.Vias.Create()
		*v1 = grid.ViaInstance{
			Lower: m1, Upper: m2,
			Result: via.Result{RuleOID: rule, BBox: geom.NewRect(900, 900, 1000, 1000)},
			Rect:   geom.NewRect(900, 900, 1000, 1000),
			Shapes: [2]otable.OID{s2, s2},
		}

		die := geom.NewRect(0, 0, 10000, 10000)
		w := writer.New(t, die, true)
		sink := &fakeSink{}
		Expect(w.WriteGrid(g, sink)).To(Succeed())

		Expect(sink.wires).To(HaveLen(3))
		// M1 shapes come before the M2 shape (ascending routing level);
		// within M1, ascending Lo.X orders the x=0 shape before x=1000.
		Expect(sink.wires[0].layer).To(Equal(m1))
		Expect(sink.wires[0].rect.Lo.X).To(Equal(int32(0)))
		Expect(sink.wires[1].layer).To(Equal(m1))
		Expect(sink.wires[1].rect.Lo.X).To(Equal(int32(1000)))
		Expect(sink.wires[2].layer).To(Equal(m2))

		Expect(sink.vias).To(HaveLen(1))
		Expect(sink.vias[0].name).To(Equal("V12"))

		// Both M1 shapes touch the die's x=0/x=10000 or y=0/y=10000
		// boundary (they run the full Y span), so both get a pin; the M2
		// shape does too.
		Expect(sink.pins).To(HaveLen(3))
	})
})
