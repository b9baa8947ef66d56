// Package repair implements the via repair pass of spec §4.L: after a
// grid's shapes and vias are planned, walk every via belonging to a
// target net and remove any whose cut box lands inside a cut-layer
// obstruction drawn from block obstructions, other nets' vias, and
// placed-instance cut-layer shapes.
//
// Grounded on original_source/src/pdn/src/via_repair.cpp's ViaRepair.
package repair

import (
	"log/slog"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/grid"
)

// Obstructions accumulates cut-layer rectangles, keyed by the LEF cut
// layer's name (a ViaGenerateRule's or Via's CutLayer field), that
// Repairer.Repair tests target vias against.
type Obstructions struct {
	byLayer map[string][]geom.Rect
}

// NewObstructions returns an empty obstruction set.
func NewObstructions() *Obstructions {
	return &Obstructions{byLayer: make(map[string][]geom.Rect)}
}

// Add records rect as an obstruction on cutLayer, per spec §4.L's block
// obstructions and placed-instance cut-layer shapes (this project has no
// instance/floorplan database of its own, so those rects are the caller's
// responsibility to supply; signal-net vias are folded in automatically
// by Repair from the same via table).
func (o *Obstructions) Add(cutLayer string, rect geom.Rect) {
	o.byLayer[cutLayer] = append(o.byLayer[cutLayer], rect)
}

// Result is a per-cut-layer tally of vias considered and vias removed.
type Result struct {
	ViaCount     map[string]int
	RemovalCount map[string]int
}

// Repairer removes target-net vias that conflict with a cut-layer
// obstruction.
type Repairer struct {
	tech *tech.Tech
	nets map[string]bool
}

// New returns a repairer scoped to t, restricted to the named target
// nets (e.g. the power/ground nets a grid was built for).
func New(t *tech.Tech, nets []string) *Repairer {
	set := make(map[string]bool, len(nets))
	for _, n := range nets {
		set[n] = true
	}
	return &Repairer{tech: t, nets: set}
}

// cutLayerOf returns the LEF cut layer name a via's Result came from, or
// false if the via has no cut-layer identity (a dummy via, spec §4.G.5,
// has nothing to repair against).
func (r *Repairer) cutLayerOf(v *grid.ViaInstance) (string, bool) {
	switch {
	case v.Result.RuleOID != 0:
		rule, err := r.tech.ViaGenerateRules.Get(v.Result.RuleOID)
		if err != nil {
			return "", false
		}
		return rule.CutLayer, true
	case v.Result.TechViaOID != 0:
		tv, err := r.tech.Vias.Get(v.Result.TechViaOID)
		if err != nil {
			return "", false
		}
		return tv.CutLayer, true
	default:
		return "", false
	}
}

func (r *Repairer) netOf(ix *shape.Index, v *grid.ViaInstance) string {
	if s, err := ix.Shapes.Get(v.Shapes[0]); err == nil {
		return s.Net
	}
	if s, err := ix.Shapes.Get(v.Shapes[1]); err == nil {
		return s.Net
	}
	return ""
}

// Repair walks vias, splitting them into target-net vias (candidates for
// removal) and everything else (whose cut boxes become additional
// "signal-net vias" obstructions, per spec §4.L), then destroys any
// target via whose cut box intersects the combined obstruction on its cut
// layer. Removed vias are detached from both shapes they used to connect.
func (r *Repairer) Repair(ix *shape.Index, vias *otable.Table[grid.ViaInstance], obs *Obstructions) Result {
	res := Result{ViaCount: make(map[string]int), RemovalCount: make(map[string]int)}

	combined := make(map[string][]geom.Rect, len(obs.byLayer))
	for layer, rects := range obs.byLayer {
		combined[layer] = append(combined[layer], rects...)
	}

	type candidate struct {
		id    otable.OID
		box   geom.Rect
		layer string
	}
	var candidates []candidate

	vias.Iterate(func(id otable.OID, v *grid.ViaInstance) bool {
		layer, ok := r.cutLayerOf(v)
		if !ok {
			return true
		}
		if r.nets[r.netOf(ix, v)] {
			res.ViaCount[layer]++
			candidates = append(candidates, candidate{id, v.Result.BBox, layer})
		} else {
			combined[layer] = append(combined[layer], v.Result.BBox)
		}
		return true
	})

	for _, c := range candidates {
		if !intersectsAny(c.box, combined[c.layer]) {
			continue
		}
		v := vias.MustGet(c.id)
		ix.DetachVia(v.Shapes[0], c.id)
		ix.DetachVia(v.Shapes[1], c.id)
		vias.Destroy(c.id)
		res.RemovalCount[c.layer]++
	}
	return res
}

func intersectsAny(r geom.Rect, obs []geom.Rect) bool {
	for _, ob := range obs {
		if ob.Intersects(r) {
			return true
		}
	}
	return false
}

// Report logs a per-cut-layer removal summary.
func (res Result) Report(logger *slog.Logger) {
	removedAny := false
	for layer, removed := range res.RemovalCount {
		if removed == 0 {
			continue
		}
		total := res.ViaCount[layer]
		percent := float64(removed) / float64(total) * 100
		logger.Info("via repair", "layer", layer, "removed", removed, "total", total, "percent", percent)
		removedAny = true
	}
	if !removedAny {
		logger.Info("via repair: no vias removed")
	}
}
