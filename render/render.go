// Package render implements the renderer interface of spec §4.N: a
// read-only, planner-facing snapshot surface (per-layer shape trees,
// per-via boxes, named repair-channel rectangles) that a GUI can poll for
// a live preview without ever mutating planner state, plus a concrete
// Planner that multiplexes a named set of grids behind it.
//
// Grounded on original_source/src/pdn/src/renderer.{h,cpp} (PDNRenderer)
// and original_source/src/pdn/src/PdnGen.cc's rendererRedraw/ripUp
// reset-and-rebuild cycle.
package render

import (
	"fmt"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/pdn/grid"
)

// ViaBox is one renderable via placement.
type ViaBox struct {
	Lower, Upper otable.OID
	Rect         geom.Rect
}

// RepairChannel is a named, renderable repair-channel rectangle, matching
// PDNRenderer's RepairChannel label ("Repair:<source>-><target>:<nets>").
type RepairChannel struct {
	Source, Target otable.OID
	Rect           geom.Rect
	Nets           []string
	Label          string
}

// Source is the planner-facing, read-only snapshot surface a GUI
// renderer polls. It never lets a caller mutate planner state directly.
type Source interface {
	// ShapesByLayer returns every shape OID on layer across all grids.
	ShapesByLayer(layer otable.OID) []otable.OID
	// Vias returns every via placement across all grids.
	Vias() []ViaBox
	// RepairChannels returns every named repair-channel rectangle
	// recorded so far (Planner's Rebuild and Reset do not clear them).
	RepairChannels() []RepairChannel
	// Rebuild reruns every grid's build from scratch. When preview is
	// true, the result becomes the active snapshot but the previously
	// committed build is retained so Reset can restore it; when false,
	// the rebuild also becomes the new committed baseline.
	Rebuild(preview bool) error
	// Reset discards an uncommitted preview, restoring the last
	// committed build as the active snapshot.
	Reset()
}

// GridBuilder constructs (or reconstructs, from scratch) one named
// grid's full shape/via plan.
type GridBuilder func() (*grid.Grid, error)

// Planner adapts a named set of grids into a Source, the way PdnGen owns
// every domain's grids and exposes them to the debug renderer.
type Planner struct {
	builders  map[string]GridBuilder
	committed map[string]*grid.Grid
	active    map[string]*grid.Grid
	channels  []RepairChannel
}

// NewPlanner returns an empty planner.
func NewPlanner() *Planner {
	return &Planner{
		builders:  make(map[string]GridBuilder),
		committed: make(map[string]*grid.Grid),
		active:    make(map[string]*grid.Grid),
	}
}

// AddGrid registers build under name; Rebuild calls it to (re)construct
// that grid from scratch every time.
func (p *Planner) AddGrid(name string, build GridBuilder) {
	p.builders[name] = build
}

// RecordRepairChannel appends ch to the snapshot RepairChannels returns.
// Channel repair is driven by the caller directly against a grid's shape
// index (pdn/grid.ChannelRepairer), not by Grid.Build itself, so the
// caller reports what it inserted here.
func (p *Planner) RecordRepairChannel(ch RepairChannel) {
	p.channels = append(p.channels, ch)
}

// ShapesByLayer implements Source.
func (p *Planner) ShapesByLayer(layer otable.OID) []otable.OID {
	var out []otable.OID
	for _, g := range p.active {
		out = append(out, g.Shapes.AllOnLayer(layer)...)
	}
	return out
}

// Vias implements Source.
func (p *Planner) Vias() []ViaBox {
	var out []ViaBox
	for _, g := range p.active {
		g.Vias.Iterate(func(_ otable.OID, v *grid.ViaInstance) bool {
			out = append(out, ViaBox{Lower: v.Lower, Upper: v.Upper, Rect: v.Rect})
			return true
		})
	}
	return out
}

// RepairChannels implements Source.
func (p *Planner) RepairChannels() []RepairChannel {
	return p.channels
}

// Rebuild implements Source.
func (p *Planner) Rebuild(preview bool) error {
	next := make(map[string]*grid.Grid, len(p.builders))
	for name, build := range p.builders {
		g, err := build()
		if err != nil {
			return fmt.Errorf("render: rebuilding grid %q: %w", name, err)
		}
		next[name] = g
	}
	p.active = next
	if !preview {
		p.committed = next
	}
	return nil
}

// Reset implements Source.
func (p *Planner) Reset() {
	p.active = p.committed
}
