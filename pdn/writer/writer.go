// Package writer implements the DB writer of spec §4.M: walking a grid's
// planned vias and shapes in deterministic order and materializing each
// into a placed-design Sink, optionally creating terminal pins where a
// shape touches the die boundary.
//
// Grounded on original_source/src/pdn/src/grid.cpp's Grid::writeToDb and
// original_source/src/pdn/src/PdnGen.cc's PdnGen::writeToDb.
package writer

import (
	"fmt"
	"sort"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/grid"
	"github.com/sarchlab/zeonica-pdn/pdn/via"
)

// Sink is the placed-design destination a Writer materializes a grid's
// shapes and vias into. AddSpecialWire creates one special-wire box of
// the shape's wire type; AddVia materializes the chosen via definition
// (creating the DB via definition on first use, per spec §4.M, is the
// Sink's own responsibility); AddBTerm creates a block terminal pin.
type Sink interface {
	AddSpecialWire(net string, layer otable.OID, rect geom.Rect, role shape.Role) error
	AddVia(net string, lower, upper otable.OID, rect geom.Rect, viaName string) error
	AddBTerm(net string, layer otable.OID, rect geom.Rect) error
}

// Writer materializes grids into a Sink in the deterministic order spec
// §4.M and §5 require.
type Writer struct {
	tech    *tech.Tech
	dieArea geom.Rect
	addPins bool
}

// New returns a writer bound to t. When addPins is set, WriteGrid also
// creates a BTerm for every shape touching dieArea's boundary.
func New(t *tech.Tech, dieArea geom.Rect, addPins bool) *Writer {
	return &Writer{tech: t, dieArea: dieArea, addPins: addPins}
}

// WriteGrid writes g's vias first, then its shapes — matching the
// original's "write vias first [so] shapes can be adjusted if needed"
// ordering rationale, even though this implementation performs no
// post-via shape adjustment.
func (w *Writer) WriteGrid(g *grid.Grid, sink Sink) error {
	if err := w.writeVias(g, sink); err != nil {
		return err
	}
	return w.writeShapes(g, sink)
}

func (w *Writer) writeVias(g *grid.Grid, sink Sink) error {
	type entry struct {
		v grid.ViaInstance
	}
	var entries []entry
	g.Vias.Iterate(func(_ otable.OID, v *grid.ViaInstance) bool {
		entries = append(entries, entry{*v})
		return true
	})

	sort.Slice(entries, func(i, j int) bool {
		return viaLess(w.tech, entries[i].v, entries[j].v)
	})

	for _, e := range entries {
		net, err := w.netOfVia(g, e.v)
		if err != nil {
			return fmt.Errorf("writer: %w", err)
		}
		if err := sink.AddVia(net, e.v.Lower, e.v.Upper, e.v.Rect, w.viaName(e.v.Result)); err != nil {
			return fmt.Errorf("writer: %w", err)
		}
	}
	return nil
}

// viaLess orders vias by ascending (lower routing level, upper routing
// level, rect), per spec §4.M.
func viaLess(t *tech.Tech, a, b grid.ViaInstance) bool {
	al, bl := t.Layers.MustGet(a.Lower).RoutingLevel, t.Layers.MustGet(b.Lower).RoutingLevel
	if al != bl {
		return al < bl
	}
	au, bu := t.Layers.MustGet(a.Upper).RoutingLevel, t.Layers.MustGet(b.Upper).RoutingLevel
	if au != bu {
		return au < bu
	}
	return rectLess(a.Rect, b.Rect)
}

func (w *Writer) netOfVia(g *grid.Grid, v grid.ViaInstance) (string, error) {
	s, err := g.Shapes.Shapes.Get(v.Shapes[0])
	if err != nil {
		return "", err
	}
	return s.Net, nil
}

func (w *Writer) viaName(r via.Result) string {
	switch {
	case r.RuleOID != 0:
		return w.tech.ViaGenerateRules.MustGet(r.RuleOID).Name
	case r.TechViaOID != 0:
		return w.tech.Vias.MustGet(r.TechViaOID).Name
	default:
		return "VIA_DUMMY"
	}
}

func (w *Writer) writeShapes(g *grid.Grid, sink Sink) error {
	type entry struct {
		s shape.Shape
	}
	var entries []entry
	g.Shapes.Shapes.Iterate(func(_ otable.OID, s *shape.Shape) bool {
		entries = append(entries, entry{*s})
		return true
	})

	sort.Slice(entries, func(i, j int) bool {
		return shapeLess(w.tech, entries[i].s, entries[j].s)
	})

	for _, e := range entries {
		s := e.s
		if err := sink.AddSpecialWire(s.Net, s.Layer, s.Rect, s.Role); err != nil {
			return fmt.Errorf("writer: %w", err)
		}
		if w.addPins && touchesBoundary(s.Rect, w.dieArea) {
			if err := sink.AddBTerm(s.Net, s.Layer, s.Rect); err != nil {
				return fmt.Errorf("writer: %w", err)
			}
		}
	}
	return nil
}

// shapeLess orders shapes by ascending (layer routing level,
// rect-lexicographic), per spec §4.M.
func shapeLess(t *tech.Tech, a, b shape.Shape) bool {
	al, bl := t.Layers.MustGet(a.Layer).RoutingLevel, t.Layers.MustGet(b.Layer).RoutingLevel
	if al != bl {
		return al < bl
	}
	return rectLess(a.Rect, b.Rect)
}

func rectLess(a, b geom.Rect) bool {
	if a.Lo.X != b.Lo.X {
		return a.Lo.X < b.Lo.X
	}
	if a.Lo.Y != b.Lo.Y {
		return a.Lo.Y < b.Lo.Y
	}
	if a.Hi.X != b.Hi.X {
		return a.Hi.X < b.Hi.X
	}
	return a.Hi.Y < b.Hi.Y
}

func touchesBoundary(r, die geom.Rect) bool {
	return r.Lo.X == die.Lo.X || r.Lo.Y == die.Lo.Y ||
		r.Hi.X == die.Hi.X || r.Hi.Y == die.Hi.Y
}
