package component_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/component"
)

var _ = Describe("DetermineWidth", func() {
	It("picks the narrowest supply pin", func() {
		w, err := component.DetermineWidth([]int32{170, 140, 200})
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(int32(140)))
	})

	It("errors with no pins", func() {
		_, err := component.DetermineWidth(nil)
		Expect(err).To(MatchError(component.ErrNoSupplyPins))
	})
})

var _ = Describe("DeterminePitch", func() {
	It("doubles the first row's height", func() {
		rows := []component.Row{{BBox: geom.NewRect(0, 0, 1000, 1399)}}
		p, err := component.DeterminePitch(rows)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(int32(2800)))
	})
})

var _ = Describe("FollowPins.MakeShapes", func() {
	It("places an alternating power/ground rail pair per row", func() {
		t := tech.New()
		m1 := t.AddLayer(tech.Layer{Name: "M1", RoutingLevel: 1, Direction: geom.DirHorizontal})
		ix := shape.NewIndex(t)
		domain := geom.NewRect(0, 0, 10000, 2800)

		rows := []component.Row{
			{BBox: geom.NewRect(0, 0, 10000, 1399), PowerOnTop: true},
			{BBox: geom.NewRect(0, 1400, 10000, 2799), PowerOnTop: false},
		}

		fp := component.NewFollowPins(m1, 140, "VDD", "VSS")
		ids, err := fp.MakeShapes(ix, domain, rows)
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(HaveLen(4))

		row0Power := ix.Shapes.MustGet(ids[0])
		Expect(row0Power.Net).To(Equal("VDD"))
		Expect(row0Power.Rect.Lo.Y).To(Equal(int32(1399 - 70)))

		row1Ground := ix.Shapes.MustGet(ids[3])
		Expect(row1Ground.Net).To(Equal("VSS"))
		Expect(row1Ground.Rect.Lo.Y).To(Equal(int32(2799 - 70)))
	})

	It("errors when there are no rows", func() {
		t := tech.New()
		m1 := t.AddLayer(tech.Layer{Name: "M1", RoutingLevel: 1})
		ix := shape.NewIndex(t)
		fp := component.NewFollowPins(m1, 140, "VDD", "VSS")
		_, err := fp.MakeShapes(ix, geom.NewRect(0, 0, 100, 100), nil)
		Expect(err).To(MatchError(component.ErrNoRows))
	})
})
