// cmd/zpdn is a thin example wiring the odb/pdn/config/render/writer
// packages together end to end: build a small demo technology, load a
// grid configuration file, plan the grid, repair it, and print the
// resulting special wires and vias. Not a CLI product.
package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/zeonica-pdn/config"
	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/connect"
	"github.com/sarchlab/zeonica-pdn/pdn/repair"
	"github.com/sarchlab/zeonica-pdn/pdn/writer"
)

//go:embed grid.yaml
var defaultGridConfig string

func demoTech() *tech.Tech {
	t := tech.New()
	t.AddLayer(tech.Layer{Name: "M1", RoutingLevel: 1, Direction: geom.DirHorizontal, PreferredW: 140})
	m4 := t.AddLayer(tech.Layer{Name: "M4", RoutingLevel: 4, Direction: geom.DirHorizontal, PreferredW: 400})
	t.AddLayer(tech.Layer{Name: "M5", RoutingLevel: 5, Direction: geom.DirVertical, PreferredW: 400})

	rule, _ := t.ViaGenerateRules.Create()
	*t.ViaGenerateRules.MustGet(rule) = tech.ViaGenerateRule{
		Name: "V45", BottomLayer: "M4", CutLayer: "CUT45", TopLayer: "M5",
		CutWidth: 150, CutHeight: 150, CutSpacingX: 200, CutSpacingY: 200,
	}
	t.Layers.MustGet(m4).ViaGenerateRules = append(t.Layers.MustGet(m4).ViaGenerateRules, rule)

	return t
}

// stdoutSink prints every materialized wire/via/pin instead of driving a
// real placed-design database, matching this repo's lack of one.
type stdoutSink struct{}

func (stdoutSink) AddSpecialWire(net string, layer otable.OID, rect geom.Rect, role shape.Role) error {
	fmt.Printf("wire  net=%-4s layer=%d role=%d rect=%v\n", net, layer, role, rect)
	return nil
}

func (stdoutSink) AddVia(net string, lower, upper otable.OID, rect geom.Rect, viaName string) error {
	fmt.Printf("via   net=%-4s %d->%d name=%s rect=%v\n", net, lower, upper, viaName, rect)
	return nil
}

func (stdoutSink) AddBTerm(net string, layer otable.OID, rect geom.Rect) error {
	fmt.Printf("bterm net=%-4s layer=%d rect=%v\n", net, layer, rect)
	return nil
}

func parseEmbeddedConfig() config.GridConfig {
	var cfg config.GridConfig
	if err := yaml.Unmarshal([]byte(defaultGridConfig), &cfg); err != nil {
		panic(fmt.Sprintf("zpdn: bundled grid.yaml is malformed: %v", err))
	}
	return cfg
}

func main() {
	path := flag.String("config", "", "grid configuration YAML file (defaults to the bundled example)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var cfg config.GridConfig
	if *path == "" {
		cfg = parseEmbeddedConfig()
	} else {
		cfg = config.LoadGridConfig(*path)
	}

	t := demoTech()
	resolver, err := connect.NewResolver(t, nil)
	if err != nil {
		logger.Error("build resolver", "err", err)
		atexit.Exit(1)
	}

	for _, yg := range cfg.Grids {
		g, err := config.BuildGrid(t, resolver, yg)
		if err != nil {
			logger.Error("build grid", "grid", yg.Name, "err", err)
			atexit.Exit(1)
		}

		if err := g.Build(); err != nil {
			logger.Error("plan grid", "grid", yg.Name, "err", err)
			atexit.Exit(1)
		}
		logger.Info("planned grid", "grid", yg.Name, "vias", g.Vias.Size())

		repairer := repair.New(t, []string{"VDD", "VSS"})
		res := repairer.Repair(g.Shapes, g.Vias, repair.NewObstructions())
		res.Report(logger)

		w := writer.New(t, geom.NewRect(-500, -500, 10500, 10500), true)
		if err := w.WriteGrid(g, stdoutSink{}); err != nil {
			logger.Error("write grid", "grid", yg.Name, "err", err)
			atexit.Exit(1)
		}
	}

	atexit.Exit(0)
}
