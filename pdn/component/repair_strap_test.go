package component_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/component"
)

var _ = Describe("NewRepairChannelStrap", func() {
	It("places exactly one strap for the named subset of nets", func() {
		t := tech.New()
		m4 := t.AddLayer(tech.Layer{Name: "M4", RoutingLevel: 4, Direction: geom.DirHorizontal})
		ix := shape.NewIndex(t)
		domain := geom.NewRect(4000, 0, 6000, 10000)

		strap := component.NewRepairChannelStrap(m4, 400, 200, 400, component.Net{Name: "VDD", IsPower: true})
		ids, err := strap.MakeShapes(ix, domain, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(HaveLen(1))

		s := ix.Shapes.MustGet(ids[0])
		Expect(s.Net).To(Equal("VDD"))
	})
})
