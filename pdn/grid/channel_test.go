package grid_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/component"
	"github.com/sarchlab/zeonica-pdn/pdn/connect"
	"github.com/sarchlab/zeonica-pdn/pdn/grid"
)

var _ = Describe("FindGaps", func() {
	It("reports a gap wider than pitch between two strap centers", func() {
		gaps := grid.FindGaps([]int32{2000, 6000}, 2000, 0, 8000)
		Expect(gaps).To(ConsistOf(grid.Gap{Lo: 2000, Hi: 6000}))
	})

	It("reports no gap when straps are on-pitch", func() {
		gaps := grid.FindGaps([]int32{0, 2000, 4000}, 2000, 0, 4000)
		Expect(gaps).To(BeEmpty())
	})
})

var _ = Describe("ChannelRepairer.Repair", func() {
	// Scenario 5 from the spec's end-to-end list.
	It("inserts a single strap at the gap's center and vias it to each followpin", func() {
		t := tech.New()
		m2 := t.AddLayer(tech.Layer{Name: "M2", RoutingLevel: 2, Direction: geom.DirHorizontal})
		m4 := t.AddLayer(tech.Layer{Name: "M4", RoutingLevel: 4, Direction: geom.DirVertical})

		rule, _ := t.ViaGenerateRules.Create()
		*t.ViaGenerateRules.MustGet(rule) = tech.ViaGenerateRule{
			Name: "V24", BottomLayer: "M2", CutLayer: "CUT24", TopLayer: "M4",
			CutWidth: 100, CutHeight: 100,
		}
		t.Layers.MustGet(m2).ViaGenerateRules = append(t.Layers.MustGet(m2).ViaGenerateRules, rule)

		ix := shape.NewIndex(t)
		_, err := ix.AddShape(m2, "VDD", geom.NewRect(0, -70, 10000, 69), shape.RoleFollowPin)
		Expect(err).NotTo(HaveOccurred())
		_, err = ix.AddShape(m2, "VDD", geom.NewRect(0, 9930, 10000, 10069), shape.RoleFollowPin)
		Expect(err).NotTo(HaveOccurred())

		resolver, err := connect.NewResolver(t, nil)
		Expect(err).NotTo(HaveOccurred())
		vias := otable.New[grid.ViaInstance]("vias")
		repairer := grid.NewChannelRepairer(t, resolver, vias)

		gap := grid.Gap{Lo: 4000, Hi: 6000}
		stripID, vias, err := repairer.Repair(
			ix, gap, 0, 10000,
			m4, 400, 200, 200,
			m2, []component.Net{{Name: "VDD", IsPower: true}}, false,
			nil,
		)
		Expect(err).NotTo(HaveOccurred())

		strip := ix.Shapes.MustGet(stripID)
		// width=400 is even, so 5000 sits at the boundary between the two
		// middle DBUs of the strip; Lo+width/2 lands exactly on it.
		Expect(strip.Rect.Lo.X + 200).To(Equal(int32(5000)))
		Expect(strip.Rect.Hi.X - strip.Rect.Lo.X + 1).To(Equal(int32(400)))

		Expect(vias).To(HaveLen(2))
	})
})
