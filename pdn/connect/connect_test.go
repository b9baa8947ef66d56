package connect_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/connect"
)

func buildTestTech() *tech.Tech {
	t := tech.New()
	m1 := t.AddLayer(tech.Layer{Name: "M1", RoutingLevel: 1})
	m2 := t.AddLayer(tech.Layer{Name: "M2", RoutingLevel: 2})
	m3 := t.AddLayer(tech.Layer{Name: "M3", RoutingLevel: 3})

	r1, _ := t.ViaGenerateRules.Create()
	*t.ViaGenerateRules.MustGet(r1) = tech.ViaGenerateRule{
		Name: "V12", BottomLayer: "M1", CutLayer: "CUT12", TopLayer: "M2",
		CutWidth: 100, CutHeight: 100,
	}
	r2, _ := t.ViaGenerateRules.Create()
	*t.ViaGenerateRules.MustGet(r2) = tech.ViaGenerateRule{
		Name: "V23", BottomLayer: "M2", CutLayer: "CUT23", TopLayer: "M3",
		CutWidth: 100, CutHeight: 100,
	}

	t.Layers.MustGet(m1).ViaGenerateRules = append(t.Layers.MustGet(m1).ViaGenerateRules, r1)
	t.Layers.MustGet(m2).ViaGenerateRules = append(t.Layers.MustGet(m2).ViaGenerateRules, r2)

	return t
}

var _ = Describe("Resolver.Resolve", func() {
	It("finds the intermediate layers and a via for each adjacent pair", func() {
		t := buildTestTech()
		r, err := connect.NewResolver(t, nil)
		Expect(err).NotTo(HaveOccurred())

		m1, _ := t.LayerByName("M1")
		m3, _ := t.LayerByName("M3")

		stack, err := r.Resolve(m1, m3, geom.NewRect(0, 0, 299, 299))
		Expect(err).NotTo(HaveOccurred())
		Expect(stack.Layers).To(HaveLen(3))
		Expect(stack.Vias).To(HaveLen(2))
		Expect(stack.Vias[0].Dummy).To(BeFalse())
		Expect(stack.Vias[1].Dummy).To(BeFalse())
	})

	It("caches by intersection size, reusing the same via results", func() {
		t := buildTestTech()
		r, err := connect.NewResolver(t, nil)
		Expect(err).NotTo(HaveOccurred())

		m1, _ := t.LayerByName("M1")
		m3, _ := t.LayerByName("M3")

		rect := geom.NewRect(0, 0, 299, 299)
		first, err := r.Resolve(m1, m3, rect)
		Expect(err).NotTo(HaveOccurred())

		second, err := r.Resolve(m1, m3, geom.NewRect(1000, 1000, 1299, 1299))
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("excludes a denied rule name, forcing a dummy via", func() {
		t := buildTestTech()
		r, err := connect.NewResolver(t, []string{"^V12$"})
		Expect(err).NotTo(HaveOccurred())

		m1, _ := t.LayerByName("M1")
		m3, _ := t.LayerByName("M3")

		stack, err := r.Resolve(m1, m3, geom.NewRect(0, 0, 299, 299))
		Expect(err).NotTo(HaveOccurred())
		Expect(stack.Vias[0].Dummy).To(BeTrue())
		Expect(stack.Vias[1].Dummy).To(BeFalse())
	})
})
