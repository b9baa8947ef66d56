// Package shape implements the shape + per-layer R-tree index of spec
// §4.F: rectangle objects carrying a net, a wire-shape role, a cached
// obstruction halo, and weak via back-references, plus the add/cut
// operations a grid component drives them through.
//
// Grounded on original_source/src/pdn/src/shape.cpp; the tree itself is
// geom.RTree, there being no spatial-index example anywhere in the
// retrieval pack to ground that part on.
package shape

import (
	"errors"
	"sort"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
)

var (
	// ErrMinArea is kRuleViolation's shape-specific flavor: a shape's area
	// is below its layer's minimum.
	ErrMinArea = errors.New("shape: area below layer minimum")
	// ErrShort is kShort: inserting would create cross-net overlap.
	ErrShort = errors.New("shape: cross-net overlap")
	// ErrUnalignedMerge is kUnalignedMerge: two same-net shapes overlap
	// without sharing a full edge.
	ErrUnalignedMerge = errors.New("shape: same-net overlap without a shared full edge")
)

// Role distinguishes the wire-shape roles spec §3 lists for a Shape.
type Role uint8

const (
	RoleNone Role = iota
	RoleFollowPin
	RoleStripe
	RoleRing
)

// Shape is a rectangle on a layer belonging to one net, per spec §3.
type Shape struct {
	Layer       otable.OID
	Net         string
	Rect        geom.Rect
	Role        Role
	Obstruction geom.Rect
	Vias        []otable.OID
}

// Index owns a table of shapes plus one R-tree per layer, scoped to a
// single grid component the way spec §3's ownership note describes
// ("components own their shapes").
type Index struct {
	tech   *tech.Tech
	Shapes *otable.Table[Shape]
	trees  map[otable.OID]*geom.RTree[otable.OID]
}

// NewIndex returns an empty index bound to t for layer/rule lookups.
func NewIndex(t *tech.Tech) *Index {
	return &Index{
		tech:   t,
		Shapes: otable.New[Shape]("shapes"),
		trees:  make(map[otable.OID]*geom.RTree[otable.OID]),
	}
}

func (ix *Index) treeFor(layer otable.OID) *geom.RTree[otable.OID] {
	t, ok := ix.trees[layer]
	if !ok {
		t = geom.NewRTree[otable.OID]()
		ix.trees[layer] = t
	}
	return t
}

// rebuildLayer recreates layer's tree from the shape table's current live
// contents. geom.RTree has no delete, so a merge or cut rebuilds the
// (small, per-layer) tree from scratch rather than threading removal
// through the split/rebuild machinery.
func (ix *Index) rebuildLayer(layer otable.OID) {
	tr := geom.NewRTree[otable.OID]()
	ix.Shapes.Iterate(func(id otable.OID, s *Shape) bool {
		if s.Layer == layer {
			tr.Insert(s.Rect, id)
		}
		return true
	})
	ix.trees[layer] = tr
}

// ShapesOnLayer returns the OIDs of shapes on layer intersecting box.
func (ix *Index) ShapesOnLayer(layer otable.OID, box geom.Rect) []otable.OID {
	return ix.treeFor(layer).Intersects(box)
}

// AllOnLayer returns every shape OID on layer, regardless of position.
func (ix *Index) AllOnLayer(layer otable.OID) []otable.OID {
	var out []otable.OID
	ix.Shapes.Iterate(func(id otable.OID, s *Shape) bool {
		if s.Layer == layer {
			out = append(out, id)
		}
		return true
	})
	return out
}

// RebuildLayer recreates layer's spatial index from the shape table's
// current contents. Callers that mutate a Shape's Rect directly (rather
// than through AddShape/Cut) must call this afterward so later
// intersection queries see the new position.
func (ix *Index) RebuildLayer(layer otable.OID) {
	ix.rebuildLayer(layer)
}

// AttachVia records viaID as a weak back-reference on shape sID.
func (ix *Index) AttachVia(sID, viaID otable.OID) {
	s := ix.Shapes.MustGet(sID)
	s.Vias = append(s.Vias, viaID)
}

// DetachVia removes viaID from shape sID's weak back-reference list, if
// present. Used when a via is repaired away (spec §4.L) and the shapes it
// used to connect must no longer claim it.
func (ix *Index) DetachVia(sID, viaID otable.OID) {
	s, err := ix.Shapes.Get(sID)
	if err != nil {
		return
	}
	for i, v := range s.Vias {
		if v == viaID {
			s.Vias = append(s.Vias[:i], s.Vias[i+1:]...)
			return
		}
	}
}

func widthLength(r geom.Rect) (width, length int32) {
	dx, dy := r.DX()+1, r.DY()+1
	if dx <= dy {
		return dx, dy
	}
	return dy, dx
}

func (ix *Index) obstructionFor(layer *tech.Layer, r geom.Rect) geom.Rect {
	width, length := widthLength(r)
	return r.Bloat(layer.Spacing(width, length))
}

// AddShape inserts a shape of net on layerOID at rect, per spec §4.F:
//  1. reject if rect's area is below the layer's minimum;
//  2. fail with ErrShort on overlap with an existing shape of a different
//     net;
//  3. merge with overlapping same-net shapes that share a full edge,
//     repeating until no further merge applies;
//  4. fail with ErrUnalignedMerge on a same-net partial overlap that isn't
//     a clean full-edge merge;
//  5. recompute the obstruction rectangle from the layer's spacing rules.
func (ix *Index) AddShape(layerOID otable.OID, net string, rect geom.Rect, role Role) (otable.OID, error) {
	layer, err := ix.tech.Layers.Get(layerOID)
	if err != nil {
		return 0, err
	}
	if rect.Area() < layer.MinArea {
		return 0, ErrMinArea
	}

	tr := ix.treeFor(layerOID)
	merged := rect
	mergeIDs := make(map[otable.OID]bool)

	for {
		changed := false
		for _, hid := range tr.Intersects(merged) {
			if mergeIDs[hid] {
				continue
			}
			other := ix.Shapes.MustGet(hid)
			if other.Net != net {
				return 0, ErrShort
			}
			if other.Rect.SharesFullSide(merged) {
				merged = merged.Merge(other.Rect)
				mergeIDs[hid] = true
				changed = true
			} else if other.Rect.Intersects(merged) {
				return 0, ErrUnalignedMerge
			}
		}
		if !changed {
			break
		}
	}

	var inheritedVias []otable.OID
	for hid := range mergeIDs {
		other := ix.Shapes.MustGet(hid)
		inheritedVias = append(inheritedVias, other.Vias...)
		ix.Shapes.Destroy(hid)
	}

	id, s := ix.Shapes.Create()
	s.Layer = layerOID
	s.Net = net
	s.Rect = merged
	s.Role = role
	s.Obstruction = ix.obstructionFor(layer, merged)
	s.Vias = inheritedVias

	if len(mergeIDs) > 0 {
		ix.rebuildLayer(layerOID)
		ix.treeFor(layerOID).Insert(merged, id)
	} else {
		tr.Insert(merged, id)
	}
	return id, nil
}

type interval struct{ lo, hi int32 }

func mergeIntervals(in []interval) []interval {
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool { return in[i].lo < in[j].lo })
	out := []interval{in[0]}
	for _, c := range in[1:] {
		last := &out[len(out)-1]
		if c.lo <= last.hi+1 {
			if c.hi > last.hi {
				last.hi = c.hi
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// Cut subtracts obstructions from shape sID, per spec §4.F: only
// replacements that preserve sID's width (the orthogonal dimension) are
// kept, so an obstruction only cuts when it spans the shape's full width;
// a partial-width notch is left alone. viaBox, when non-nil, is consulted
// to re-point each of sID's vias to whichever replacement still overlaps
// it (vias over a removed span are dropped). Returns the replacement
// shape OIDs (zero or more); sID itself is destroyed.
func (ix *Index) Cut(sID otable.OID, obstructions []geom.Rect, viaBox func(otable.OID) geom.Rect) ([]otable.OID, error) {
	s := ix.Shapes.MustGet(sID)
	layer, err := ix.tech.Layers.Get(s.Layer)
	if err != nil {
		return nil, err
	}
	horiz := s.Rect.DX() >= s.Rect.DY()

	var cuts []interval
	for _, ob := range obstructions {
		if !ob.Intersects(s.Rect) {
			continue
		}
		inter := ob.Intersect(s.Rect)
		if horiz {
			if inter.Lo.Y > s.Rect.Lo.Y || inter.Hi.Y < s.Rect.Hi.Y {
				continue
			}
			cuts = append(cuts, interval{inter.Lo.X, inter.Hi.X})
		} else {
			if inter.Lo.X > s.Rect.Lo.X || inter.Hi.X < s.Rect.Hi.X {
				continue
			}
			cuts = append(cuts, interval{inter.Lo.Y, inter.Hi.Y})
		}
	}
	if len(cuts) == 0 {
		return []otable.OID{sID}, nil
	}

	merged := mergeIntervals(cuts)

	var lo, hi int32
	if horiz {
		lo, hi = s.Rect.Lo.X, s.Rect.Hi.X
	} else {
		lo, hi = s.Rect.Lo.Y, s.Rect.Hi.Y
	}

	var segs []interval
	cur := lo
	for _, c := range merged {
		if c.lo > cur {
			segs = append(segs, interval{cur, c.lo - 1})
		}
		if c.hi+1 > cur {
			cur = c.hi + 1
		}
	}
	if cur <= hi {
		segs = append(segs, interval{cur, hi})
	}

	origNet, origLayer, origRole, origVias := s.Net, s.Layer, s.Role, s.Vias

	var out []otable.OID
	var outRects []geom.Rect
	for _, seg := range segs {
		var r geom.Rect
		if horiz {
			r = geom.NewRect(seg.lo, s.Rect.Lo.Y, seg.hi, s.Rect.Hi.Y)
		} else {
			r = geom.NewRect(s.Rect.Lo.X, seg.lo, s.Rect.Hi.X, seg.hi)
		}
		if r.Area() < layer.MinArea {
			continue
		}
		id, ns := ix.Shapes.Create()
		ns.Layer = origLayer
		ns.Net = origNet
		ns.Rect = r
		ns.Role = origRole
		ns.Obstruction = ix.obstructionFor(layer, r)
		out = append(out, id)
		outRects = append(outRects, r)
	}

	if viaBox != nil {
		for _, v := range origVias {
			box := viaBox(v)
			for i, r := range outRects {
				if r.Intersects(box) {
					ix.AttachVia(out[i], v)
					break
				}
			}
		}
	}

	ix.Shapes.Destroy(sID)
	ix.rebuildLayer(origLayer)
	return out, nil
}
