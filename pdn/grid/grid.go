// Package grid implements the grid orchestrator of spec §4.J (and the
// channel repair of §4.K, which is one of its build steps): gathering
// obstructions, running each configured component's make-shapes/cut
// pipeline, repairing strap channels, and generating the via stack at
// every layer crossing it produces.
//
// Grounded on original_source/src/pdn/src/grid.cpp's Grid::makeShapes.
package grid

import (
	"sort"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/connect"
	"github.com/sarchlab/zeonica-pdn/pdn/via"
)

// ViaInstance is one placed via in the plan: the layer pair it spans, the
// generator result chosen for it, the box it was generated at, and the
// two shapes it connects.
type ViaInstance struct {
	Lower, Upper otable.OID
	Result       via.Result
	Rect         geom.Rect
	Shapes       [2]otable.OID
}

// ComponentFunc makes one grid component's shapes, inserting directly
// into ix and returning the new shape OIDs. Grid components close over
// their own configuration (layer, domain, nets, ...); the orchestrator
// only needs a uniform way to run and then cut/collect each one.
type ComponentFunc func(ix *shape.Index) ([]otable.OID, error)

// Grid is one power/ground domain's shape plan: a shared Index, the
// components that populate it in order, and the via table step 5
// populates once every component has run.
type Grid struct {
	Name       string
	Tech       *tech.Tech
	Resolver   *connect.Resolver
	Shapes     *shape.Index
	Vias       *otable.Table[ViaInstance]
	Components []ComponentFunc

	obstructions map[otable.OID][]geom.Rect
}

// New returns an empty Grid bound to t and r.
func New(t *tech.Tech, name string, r *connect.Resolver) *Grid {
	return &Grid{
		Name:         name,
		Tech:         t,
		Resolver:     r,
		Shapes:       shape.NewIndex(t),
		Vias:         otable.New[ViaInstance]("vias"),
		obstructions: make(map[otable.OID][]geom.Rect),
	}
}

// AddComponent appends f to the component run list, in the order it will
// execute during Build.
func (g *Grid) AddComponent(f ComponentFunc) {
	g.Components = append(g.Components, f)
}

// AddInitialObstruction seeds layer's obstruction list before any
// component runs, per spec §4.J step 1 ("placed macro pins, existing
// SWire rectangles ..., placed block obstructions bloated by
// min-spacing") and step 2 ("merge in each other grid's own-layer
// obstructions").
func (g *Grid) AddInitialObstruction(layer otable.OID, rect geom.Rect) {
	g.obstructions[layer] = append(g.obstructions[layer], rect)
}

// Build runs the full orchestrator pipeline of spec §4.J steps 3, 5, and
// 6 (step 4, channel repair, is invoked separately via Repair since it
// needs per-channel target-layer/pitch parameters the generic pipeline
// doesn't have). Steps 1-2 are the caller's responsibility via
// AddInitialObstruction, run before Build.
func (g *Grid) Build() error {
	for _, cf := range g.Components {
		ids, err := cf(g.Shapes)
		if err != nil {
			return err
		}
		if err := g.cutAndCollect(ids); err != nil {
			return err
		}
	}
	return g.generateVias()
}

// cutAndCollect runs spec §4.J step 3's cut(obstructions) and
// collect_obstructions(obstructions) for one component's newly-made
// shapes.
func (g *Grid) cutAndCollect(ids []otable.OID) error {
	for _, id := range ids {
		s, err := g.Shapes.Shapes.Get(id)
		if err != nil {
			continue // already merged away by a later AddShape in the same batch
		}
		layer := s.Layer
		kept, err := g.Shapes.Cut(id, g.obstructions[layer], func(otable.OID) geom.Rect { return geom.Rect{} })
		if err != nil {
			return err
		}
		for _, kid := range kept {
			ks := g.Shapes.Shapes.MustGet(kid)
			g.obstructions[layer] = append(g.obstructions[layer], ks.Obstruction)
		}
	}
	return nil
}

// generateVias runs spec §4.J step 5 (populate vias at every lower/upper
// shape intersection, rejecting L-shaped overlaps) and step 6 (extend the
// narrower of two mismatched shapes to the via's full span when that
// introduces no new obstruction conflict, then rerun step 5).
func (g *Grid) generateVias() error {
	for {
		extended, err := g.connectLayerPairs()
		if err != nil {
			return err
		}
		if !extended {
			return nil
		}
	}
}

// connectLayerPairs walks every adjacent pair of routing layers that carry
// shapes in this grid and generates a via at each intersection. It
// returns true if any shape was extended to fix an L-shaped overlap,
// signaling the caller to rerun.
func (g *Grid) connectLayerPairs() (bool, error) {
	layers := g.layersWithShapes()
	extendedAny := false

	for i := 0; i+1 < len(layers); i++ {
		lo, hi := layers[i], layers[i+1]
		loIDs := g.Shapes.AllOnLayer(lo)
		for _, lid := range loIDs {
			ls := g.Shapes.Shapes.MustGet(lid)
			hiIDs := g.Shapes.ShapesOnLayer(hi, ls.Rect)
			for _, hid := range hiIDs {
				hs := g.Shapes.Shapes.MustGet(hid)
				if !ls.Rect.Intersects(hs.Rect) {
					continue
				}
				inter := ls.Rect.Intersect(hs.Rect)

				if !inter.SharesFullSide(ls.Rect) || !inter.SharesFullSide(hs.Rect) {
					extended, err := g.tryExtend(lid, hid, ls.Rect, hs.Rect)
					if err != nil {
						return false, err
					}
					if extended {
						extendedAny = true
					}
					continue
				}

				stack, err := g.Resolver.Resolve(lo, hi, inter)
				if err != nil {
					return false, err
				}
				if len(stack.Vias) == 0 {
					continue
				}
				result := stack.Vias[len(stack.Vias)-1]
				viaID, v := g.Vias.Create()
				*v = ViaInstance{Lower: lo, Upper: hi, Result: result, Rect: inter, Shapes: [2]otable.OID{lid, hid}}
				g.Shapes.AttachVia(lid, viaID)
				g.Shapes.AttachVia(hid, viaID)
			}
		}
	}
	return extendedAny, nil
}

// tryExtend widens the narrower of two shapes sharing a partial,
// non-full-side ("L-shaped") overlap out to the other's full span along
// the shared axis, per spec §4.J step 6, provided the extension doesn't
// newly conflict with that layer's recorded obstructions.
func (g *Grid) tryExtend(loID, hiID otable.OID, loRect, hiRect geom.Rect) (bool, error) {
	loS := g.Shapes.Shapes.MustGet(loID)
	hiS := g.Shapes.Shapes.MustGet(hiID)

	narrower, wider := loS, hiS
	if area(hiRect) < area(loRect) {
		narrower, wider = hiS, loS
	}

	extended := geom.Rect{
		Lo: geom.Point{X: min32(narrower.Rect.Lo.X, wider.Rect.Lo.X), Y: min32(narrower.Rect.Lo.Y, wider.Rect.Lo.Y)},
		Hi: geom.Point{X: max32(narrower.Rect.Hi.X, wider.Rect.Hi.X), Y: max32(narrower.Rect.Hi.Y, wider.Rect.Hi.Y)},
	}
	if conflicts(extended, g.obstructions[narrower.Layer]) {
		return false, nil
	}
	narrower.Rect = extended
	g.Shapes.RebuildLayer(narrower.Layer)
	return true, nil
}

func area(r geom.Rect) int64 { return r.Area() }

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// layersWithShapes returns the OIDs of layers that carry at least one
// shape in this grid, ordered by routing level ascending.
func (g *Grid) layersWithShapes() []otable.OID {
	seen := make(map[otable.OID]bool)
	g.Shapes.Shapes.Iterate(func(_ otable.OID, s *shape.Shape) bool {
		seen[s.Layer] = true
		return true
	})
	layers := make([]otable.OID, 0, len(seen))
	for l := range seen {
		layers = append(layers, l)
	}
	sort.Slice(layers, func(i, j int) bool {
		return g.Tech.Layers.MustGet(layers[i]).RoutingLevel < g.Tech.Layers.MustGet(layers[j]).RoutingLevel
	})
	return layers
}
