package component_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/component"
)

var _ = Describe("Strap.MakeShapes", func() {
	// Scenario 2 from the spec's end-to-end list. The group's first center
	// is domain_min + offset + width/2 (invariant §8): reproducing the
	// stated y=1000 first center for width=400 requires offset=800, which
	// the scenario's prose leaves implicit.
	It("places power-then-ground straps on a 2000 pitch", func() {
		t := tech.New()
		m4 := t.AddLayer(tech.Layer{Name: "M4", RoutingLevel: 4, Direction: geom.DirHorizontal})

		ix := shape.NewIndex(t)
		domain := geom.NewRect(0, 0, 10000, 10000)

		strap := component.NewStrapBuilder().
			WithLayer(m4).
			WithWidth(400).
			WithPitch(2000).
			WithSpacing(200).
			WithOffset(800).
			WithNets(
				component.Net{Name: "VDD", IsPower: true},
				component.Net{Name: "VSS", IsPower: false},
			).
			WithStartsWith(component.StartsWithPower).
			Build()

		ids, err := strap.MakeShapes(ix, domain, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(ids)).To(BeNumerically(">=", 4))

		centers := make([]int32, len(ids))
		nets := make([]string, len(ids))
		for i, id := range ids {
			s := ix.Shapes.MustGet(id)
			centers[i] = s.Rect.Lo.Y + 200 // Lo + width/2, how MakeShapes places a center
			nets[i] = s.Net
		}

		Expect(centers[:4]).To(Equal([]int32{1000, 1600, 3000, 3600}))
		Expect(nets[:4]).To(Equal([]string{"VDD", "VSS", "VDD", "VSS"}))
	})

	It("derives the default spacing from pitch/nets - width when unset", func() {
		t := tech.New()
		m4 := t.AddLayer(tech.Layer{Name: "M4", RoutingLevel: 4, Direction: geom.DirHorizontal})
		ix := shape.NewIndex(t)
		domain := geom.NewRect(0, 0, 10000, 10000)

		strap := component.NewStrapBuilder().
			WithLayer(m4).
			WithWidth(400).
			WithPitch(2000).
			WithNets(
				component.Net{Name: "VDD", IsPower: true},
				component.Net{Name: "VSS", IsPower: false},
			).
			Build()

		ids, err := strap.MakeShapes(ix, domain, true)
		Expect(err).NotTo(HaveOccurred())

		vdd := ix.Shapes.MustGet(ids[0])
		vss := ix.Shapes.MustGet(ids[1])
		vddCenter := (vdd.Rect.Lo.Y + vdd.Rect.Hi.Y) / 2
		vssCenter := (vss.Rect.Lo.Y + vss.Rect.Hi.Y) / 2
		// step = width + spacing; spacing = pitch/nets - width = 600, so
		// the two nets within a group sit 1000 apart.
		Expect(vssCenter - vddCenter).To(Equal(int32(1000)))
	})

	It("never snaps a strap closer than the previous end plus spacing", func() {
		t := tech.New()
		m4 := t.AddLayer(tech.Layer{Name: "M4", RoutingLevel: 4, Direction: geom.DirHorizontal})
		ix := shape.NewIndex(t)
		domain := geom.NewRect(0, 0, 10000, 10000)

		strap := component.NewStrapBuilder().
			WithLayer(m4).
			WithWidth(400).
			WithPitch(1000).
			WithSpacing(100).
			WithNets(component.Net{Name: "VDD", IsPower: true}).
			WithSnapToGrid(333, 0).
			Build()

		ids, err := strap.MakeShapes(ix, domain, true)
		Expect(err).NotTo(HaveOccurred())

		var lastEnd int32 = -1
		for _, id := range ids {
			s := ix.Shapes.MustGet(id)
			Expect(s.Rect.Lo.Y).To(BeNumerically(">", lastEnd+100))
			lastEnd = s.Rect.Hi.Y
		}
	})
})
