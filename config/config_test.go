package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/zeonica-pdn/config"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/connect"
)

var _ = Describe("LoadGridConfig parsing + BuildGrid", func() {
	const doc = `
grids:
  - name: core
    core: {lo: {x: 0, y: 0}, hi: {x: 10000, y: 10000}}
    die:  {lo: {x: -500, y: -500}, hi: {x: 10500, y: 10500}}
    straps:
      - layer: M4
        width: 400
        pitch: 2000
        spacing: 200
        offset: 800
        starts_with: power
        horizontal: true
        extend: {mode: core}
        nets:
          - {name: VDD, is_power: true}
          - {name: VSS, is_power: false}
      - layer: M4
        width: 400
        pitch: 2000
        spacing: 200
        offset: 800
        starts_with: power
        horizontal: true
        extend: {mode: boundary}
        nets:
          - {name: VDD, is_power: true}
          - {name: VSS, is_power: false}
    rings:
      - layers:
          - {layer: M4, width: 400, spacing: 200}
          - {layer: M5, width: 400, spacing: 200}
        offset: [100, 100, 100, 100]
        nets:
          - {name: VDD, is_power: true}
          - {name: VSS, is_power: false}
`

	newTech := func() *tech.Tech {
		t := tech.New()
		t.AddLayer(tech.Layer{Name: "M4", RoutingLevel: 4})
		t.AddLayer(tech.Layer{Name: "M5", RoutingLevel: 5})
		return t
	}

	It("parses nested keys and builds a grid whose straps honor extend", func() {
		var cfg config.GridConfig
		Expect(yaml.Unmarshal([]byte(doc), &cfg)).To(Succeed())
		Expect(cfg.Grids).To(HaveLen(1))
		Expect(cfg.Grids[0].Straps).To(HaveLen(2))
		Expect(cfg.Grids[0].Straps[0].Extend.Mode).To(Equal("core"))
		Expect(cfg.Grids[0].Straps[1].Extend.Mode).To(Equal("boundary"))

		t := newTech()
		r, err := connect.NewResolver(t, nil)
		Expect(err).NotTo(HaveOccurred())

		g, err := config.BuildGrid(t, r, cfg.Grids[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Components).To(HaveLen(3)) // 2 straps + 1 ring

		Expect(g.Build()).To(Succeed())

		m4, err := t.LayerByName("M4")
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Shapes.AllOnLayer(m4)).NotTo(BeEmpty())
	})
})
