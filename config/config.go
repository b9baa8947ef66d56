// Package config parses the grid configuration surface of spec §6 from
// YAML and turns it into grid components wired onto a *grid.Grid. The
// CLI layer that produces the YAML is external; this package only owns
// the document shape and the translation into component builders.
//
// Grounded on core/program.go's YAMLCoreProgram/ArrayConfig: a plain
// tagged-struct document, unmarshalled with yaml.v3 and panicking (via
// LoadGridConfig) on a malformed file the same way LoadProgramFileFromYAML
// does, since a config file is supplied once at startup and has no
// recoverable-at-runtime caller.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/component"
	"github.com/sarchlab/zeonica-pdn/pdn/connect"
	"github.com/sarchlab/zeonica-pdn/pdn/grid"
)

// YAMLNet is one supply net entry in a component's `nets` list.
type YAMLNet struct {
	Name    string `yaml:"name"`
	IsPower bool   `yaml:"is_power"`
}

// YAMLExtend is the `extend` key of spec §6's make_strap table: one of
// core/rings/boundary/fixed, with Start/End only meaningful for fixed.
type YAMLExtend struct {
	Mode  string `yaml:"mode"` // "core", "rings", "boundary", "fixed"
	Start int32  `yaml:"start"`
	End   int32  `yaml:"end"`
}

// YAMLStrap is the `make_strap` document, one per component instance.
type YAMLStrap struct {
	Layer          string     `yaml:"layer"`
	Width          int32      `yaml:"width"`
	Pitch          int32      `yaml:"pitch"`
	Spacing        int32      `yaml:"spacing"`
	Offset         int32      `yaml:"offset"`
	NumberOfStraps int        `yaml:"number_of_straps"`
	SnapToGrid     bool       `yaml:"snap_to_grid"`
	TrackPitch     int32      `yaml:"track_pitch"`
	TrackOffset    int32      `yaml:"track_offset"`
	StartsWith     string     `yaml:"starts_with"` // "power", "ground", "grid-default"
	Extend         YAMLExtend `yaml:"extend"`
	Horizontal     bool       `yaml:"horizontal"`
	Nets           []YAMLNet  `yaml:"nets"`
}

// YAMLRingLayer is one of a ring's two layer definitions.
type YAMLRingLayer struct {
	Layer   string `yaml:"layer"`
	Width   int32  `yaml:"width"`
	Spacing int32  `yaml:"spacing"`
}

// YAMLRing is the `make_ring` document, one per component instance.
type YAMLRing struct {
	Layers           [2]YAMLRingLayer `yaml:"layers"`
	Offset           [4]int32         `yaml:"offset"` // left, bottom, right, top
	StartsWith       string           `yaml:"starts_with"`
	ExtendToBoundary bool             `yaml:"extend_to_boundary"`
	Nets             []YAMLNet        `yaml:"nets"`
}

// YAMLPoint is one corner of a YAMLDomain.
type YAMLPoint struct {
	X int32 `yaml:"x"`
	Y int32 `yaml:"y"`
}

// YAMLDomain is a rectangular region, given as inclusive low/high corners.
type YAMLDomain struct {
	Lo YAMLPoint `yaml:"lo"`
	Hi YAMLPoint `yaml:"hi"`
}

// YAMLGrid is one named power/ground domain: its core and die areas
// (extend's "core"/"boundary" targets) and the components placed on it.
type YAMLGrid struct {
	Name   string      `yaml:"name"`
	Core   YAMLDomain  `yaml:"core"`
	Die    YAMLDomain  `yaml:"die"`
	Straps []YAMLStrap `yaml:"straps"`
	Rings  []YAMLRing  `yaml:"rings"`
}

// GridConfig is the root of a grid configuration YAML document.
type GridConfig struct {
	Grids []YAMLGrid `yaml:"grids"`
}

// LoadGridConfig reads and parses a grid configuration file. It panics on
// a missing file or malformed YAML, matching core/program.go's
// LoadProgramFileFromYAML: a config file is read once at startup, and
// there is no well-defined recovery from a broken one.
func LoadGridConfig(path string) GridConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to read grid config %q: %v", path, err))
	}

	var cfg GridConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to parse grid config %q: %v", path, err))
	}

	return cfg
}

func rect(d YAMLDomain) geom.Rect { return geom.NewRect(d.Lo.X, d.Lo.Y, d.Hi.X, d.Hi.Y) }

// resolveExtend turns a strap's `extend` key into the domain rect
// MakeShapes lays its straps across, per spec §6: "core" is the grid's
// core area, "boundary" is its die area, "rings" is treated as the core
// area here (ring geometry is resolved by its own component run against
// the same domain, so a strap does not need to recompute ring offsets to
// reach it), and "fixed" takes an explicit [start, end] span along the
// strap's own axis.
func resolveExtend(e YAMLExtend, core, die geom.Rect, horiz bool) geom.Rect {
	switch e.Mode {
	case "boundary":
		return die
	case "fixed":
		if horiz {
			return geom.NewRect(core.Lo.X, e.Start, core.Hi.X, e.End)
		}
		return geom.NewRect(e.Start, core.Lo.Y, e.End, core.Hi.Y)
	case "rings", "core", "":
		return core
	default:
		panic(fmt.Sprintf("config: unknown extend mode %q", e.Mode))
	}
}

func startsWith(s string) component.StartsWith {
	switch s {
	case "power":
		return component.StartsWithPower
	case "ground":
		return component.StartsWithGround
	case "grid-default", "":
		return component.StartsWithGridDefault
	default:
		panic(fmt.Sprintf("config: unknown starts_with value %q", s))
	}
}

func nets(ns []YAMLNet) []component.Net {
	out := make([]component.Net, len(ns))
	for i, n := range ns {
		out[i] = component.Net{Name: n.Name, IsPower: n.IsPower}
	}
	return out
}

func buildStrap(t *tech.Tech, y YAMLStrap, core, die geom.Rect) (grid.ComponentFunc, error) {
	layer, err := t.LayerByName(y.Layer)
	if err != nil {
		return nil, fmt.Errorf("config: strap layer %q: %w", y.Layer, err)
	}

	b := component.NewStrapBuilder().
		WithLayer(layer).
		WithWidth(y.Width).
		WithPitch(y.Pitch).
		WithSpacing(y.Spacing).
		WithOffset(y.Offset).
		WithNumberOfStraps(y.NumberOfStraps).
		WithStartsWith(startsWith(y.StartsWith)).
		WithNets(nets(y.Nets)...)
	if y.SnapToGrid {
		b = b.WithSnapToGrid(y.TrackPitch, y.TrackOffset)
	}
	strap := b.Build()

	domain := resolveExtend(y.Extend, core, die, y.Horizontal)
	horiz := y.Horizontal
	return func(ix *shape.Index) ([]otable.OID, error) {
		return strap.MakeShapes(ix, domain, horiz)
	}, nil
}

func buildRing(t *tech.Tech, y YAMLRing, core, die geom.Rect) (grid.ComponentFunc, error) {
	var layers [2]component.RingLayer
	for i, rl := range y.Layers {
		id, err := t.LayerByName(rl.Layer)
		if err != nil {
			return nil, fmt.Errorf("config: ring layer %q: %w", rl.Layer, err)
		}
		layers[i] = component.RingLayer{Layer: id, Width: rl.Width, Spacing: rl.Spacing}
	}

	ring := component.NewRingBuilder().
		WithLayers(layers[0], layers[1]).
		WithOffset(y.Offset[0], y.Offset[1], y.Offset[2], y.Offset[3]).
		WithStartsWith(startsWith(y.StartsWith)).
		WithExtendToBoundary(y.ExtendToBoundary).
		WithNets(nets(y.Nets)...).
		Build(t)

	return func(ix *shape.Index) ([]otable.OID, error) {
		return ring.MakeShapes(ix, core, die)
	}, nil
}

// BuildGrid turns one YAMLGrid entry into a *grid.Grid with every
// configured strap and ring already registered as a component, ready for
// Grid.Build.
func BuildGrid(t *tech.Tech, r *connect.Resolver, y YAMLGrid) (*grid.Grid, error) {
	core, die := rect(y.Core), rect(y.Die)
	g := grid.New(t, y.Name, r)

	for _, s := range y.Straps {
		f, err := buildStrap(t, s, core, die)
		if err != nil {
			return nil, err
		}
		g.AddComponent(f)
	}

	for _, rg := range y.Rings {
		f, err := buildRing(t, rg, core, die)
		if err != nil {
			return nil, err
		}
		g.AddComponent(f)
	}

	return g, nil
}
