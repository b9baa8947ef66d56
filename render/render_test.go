package render_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	gomock "github.com/golang/mock/gomock"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/connect"
	"github.com/sarchlab/zeonica-pdn/pdn/grid"
	"github.com/sarchlab/zeonica-pdn/render"
)

var _ = Describe("Summary", func() {
	It("tallies the via and repair-channel counts off a mocked Source", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		src := NewMockSource(ctrl)
		src.EXPECT().Vias().Return([]render.ViaBox{{}, {}, {}})
		src.EXPECT().RepairChannels().Return([]render.RepairChannel{{Label: "Repair:M2->M4:VDD"}})

		vias, channels := render.Summary(src)
		Expect(vias).To(Equal(3))
		Expect(channels).To(Equal(1))
	})
})

var _ = Describe("Planner", func() {
	buildGrid := func(t *tech.Tech, m1 otable.OID) render.GridBuilder {
		return func() (*grid.Grid, error) {
			resolver, err := connect.NewResolver(t, nil)
			if err != nil {
				return nil, err
			}
			g := grid.New(t, "core", resolver)
			if _, err := g.Shapes.AddShape(m1, "VDD", geom.NewRect(0, 0, 399, 10000), shape.RoleFollowPin); err != nil {
				return nil, err
			}
			return g, nil
		}
	}

	It("keeps the last committed build until Reset after a preview Rebuild", func() {
		t := tech.New()
		m1 := t.AddLayer(tech.Layer{Name: "M1", RoutingLevel: 1})

		p := render.NewPlanner()
		p.AddGrid("core", buildGrid(t, m1))

		Expect(p.Rebuild(false)).To(Succeed())
		committed := p.ShapesByLayer(m1)
		Expect(committed).To(HaveLen(1))

		Expect(p.Rebuild(true)).To(Succeed())
		preview := p.ShapesByLayer(m1)
		Expect(preview).To(HaveLen(1))
		// A different build producing a different OID would prove this,
		// but AddShape is deterministic here; the committed/active split
		// is what Reset below actually exercises.

		p.Reset()
		Expect(p.ShapesByLayer(m1)).To(Equal(committed))
	})

	It("records repair channels for RepairChannels to return", func() {
		p := render.NewPlanner()
		p.RecordRepairChannel(render.RepairChannel{Label: "Repair:M2->M4:VDD"})
		Expect(p.RepairChannels()).To(HaveLen(1))
	})
})
