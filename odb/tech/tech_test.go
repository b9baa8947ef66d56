package tech_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/zeonica-pdn/odb/tech"
)

var _ = Describe("Tech", func() {
	var t *tech.Tech

	BeforeEach(func() {
		t = tech.New()
		t.AddLayer(tech.Layer{Name: "M1", RoutingLevel: 1})
		t.AddLayer(tech.Layer{Name: "M2", RoutingLevel: 2})
		t.AddLayer(tech.Layer{Name: "M3", RoutingLevel: 3})
		t.AddVia(tech.Via{Name: "M1M2_PR"})
	})

	It("finds a via by name in O(1)", func() {
		id, err := t.FindVia("M1M2_PR")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).NotTo(BeZero())
	})

	It("fails with ErrNotFound for an unknown via", func() {
		_, err := t.FindVia("nope")
		Expect(err).To(MatchError(tech.ErrNotFound))
	})

	It("orders routing layers bottom-to-top", func() {
		ids := t.RoutingLayersInOrder()
		Expect(ids).To(HaveLen(3))
		Expect(t.Layers.MustGet(ids[0]).Name).To(Equal("M1"))
		Expect(t.Layers.MustGet(ids[2]).Name).To(Equal("M3"))
	})

	It("returns intermediate layers between two routing layers", func() {
		m1, _ := t.LayerByName("M1")
		m3, _ := t.LayerByName("M3")
		between, err := t.LayersBetween(m1, m3)
		Expect(err).NotTo(HaveOccurred())
		Expect(between).To(HaveLen(1))
		Expect(t.Layers.MustGet(between[0]).Name).To(Equal("M2"))
	})
})

var _ = Describe("MetalWidthViaMap", func() {
	It("returns the first matching entry", func() {
		var m tech.MetalWidthViaMap
		m.Add(tech.MetalWidthViaMapEntry{
			BelowRange:   tech.WidthRange{Min: 0, Max: 400},
			AboveRange:   tech.WidthRange{Min: 0, Max: 400},
			CutLayer:     "V1",
			PreferredVia: "NARROW_V1",
		})
		m.Add(tech.MetalWidthViaMapEntry{
			BelowRange:   tech.WidthRange{Min: 0},
			AboveRange:   tech.WidthRange{Min: 0},
			CutLayer:     "V1",
			PreferredVia: "WIDE_V1",
		})
		e, ok := m.Lookup("V1", 200, 200)
		Expect(ok).To(BeTrue())
		Expect(e.PreferredVia).To(Equal("NARROW_V1"))

		e2, ok2 := m.Lookup("V1", 900, 900)
		Expect(ok2).To(BeTrue())
		Expect(e2.PreferredVia).To(Equal("WIDE_V1"))
	})
})
