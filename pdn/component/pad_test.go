package component_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/component"
)

var _ = Describe("DetectPadEdge", func() {
	core := geom.NewRect(1000, 1000, 9000, 9000)

	It("detects a pad north of the core", func() {
		edge, ok := component.DetectPadEdge(geom.NewRect(4000, 9200, 4500, 9600), core)
		Expect(ok).To(BeTrue())
		Expect(edge).To(Equal(geom.Top))
	})

	It("detects a pad west of the core", func() {
		edge, ok := component.DetectPadEdge(geom.NewRect(200, 4000, 600, 4500), core)
		Expect(ok).To(BeTrue())
		Expect(edge).To(Equal(geom.Left))
	})

	It("reports no edge for an instance inside the core", func() {
		_, ok := component.DetectPadEdge(geom.NewRect(4000, 4000, 4500, 4500), core)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("PadDirectConnect.MakeShapes", func() {
	It("runs a strap from a west pin to the nearest same-net ring shape", func() {
		t := tech.New()
		m1 := t.AddLayer(tech.Layer{Name: "M1", RoutingLevel: 1, Direction: geom.DirHorizontal})
		m5 := t.AddLayer(tech.Layer{Name: "M5", RoutingLevel: 5, Direction: geom.DirVertical})
		ix := shape.NewIndex(t)

		// A ring-like target shape on M5, far to the east of the pad pin.
		_, err := ix.AddShape(m5, "VDD", geom.NewRect(5000, 0, 5400, 10000), shape.RoleRing)
		Expect(err).NotTo(HaveOccurred())

		pdc := component.NewPadDirectConnect(t, "VDD", geom.Left)
		pinRect := geom.NewRect(0, 4000, 200, 4400)
		die := geom.NewRect(0, 0, 10000, 10000)

		id, ok, err := pdc.MakeShapes(ix, die, m1, pinRect)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		s := ix.Shapes.MustGet(id)
		Expect(s.Rect.Lo.X).To(Equal(int32(0)))
		Expect(s.Rect.Hi.X).To(Equal(int32(5400)))
	})

	It("skips a pin with no reaching same-net target", func() {
		t := tech.New()
		m1 := t.AddLayer(tech.Layer{Name: "M1", RoutingLevel: 1})
		ix := shape.NewIndex(t)

		pdc := component.NewPadDirectConnect(t, "VDD", geom.Left)
		pinRect := geom.NewRect(0, 4000, 200, 4400)
		die := geom.NewRect(0, 0, 10000, 10000)

		_, ok, err := pdc.MakeShapes(ix, die, m1, pinRect)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})
