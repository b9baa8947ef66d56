package grid

import (
	"fmt"
	"sort"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
	"github.com/sarchlab/zeonica-pdn/pdn/component"
	"github.com/sarchlab/zeonica-pdn/pdn/connect"
)

// ErrChannelWontFit is returned when no strap geometry (down to min_width)
// and no offset within the channel clears the conflicting obstructions.
var ErrChannelWontFit = fmt.Errorf("grid: channel repair strap does not fit")

// Gap is a missing-strap interval on the target layer's periodic axis.
type Gap struct {
	Lo, Hi int32
}

// FindGaps scans ascending, deduplicated strap centers for runs whose
// spacing is strictly greater than pitch (no slack is allowed), including
// the runs from axisLo to the first center and from the last center to
// axisHi, returning the missing interval for each such run, per spec
// §4.K's "union of same-layer shapes ... candidate channel" — simplified
// here to a 1-D coverage scan along the strap axis rather than a full
// 2-D rectangle extraction, since a strap layer's own shapes are already
// axis-aligned runs on one axis.
func FindGaps(centers []int32, pitch, axisLo, axisHi int32) []Gap {
	if len(centers) == 0 {
		return []Gap{{axisLo, axisHi}}
	}
	sorted := append([]int32(nil), centers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var gaps []Gap
	if sorted[0]-axisLo > pitch {
		gaps = append(gaps, Gap{axisLo, sorted[0]})
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] > pitch {
			gaps = append(gaps, Gap{sorted[i-1], sorted[i]})
		}
	}
	if axisHi-sorted[len(sorted)-1] > pitch {
		gaps = append(gaps, Gap{sorted[len(sorted)-1], axisHi})
	}
	return gaps
}

// ChannelRepairer inserts a RepairChannelStraps group into a missing-strap
// gap, per spec §4.K.
type ChannelRepairer struct {
	tech     *tech.Tech
	resolver *connect.Resolver
	vias     *otable.Table[ViaInstance]
}

// NewChannelRepairer binds a repairer to t for layer-rule lookups, r for
// via generation between a new strap and the shapes it crosses, and vias
// for recording the vias it creates.
func NewChannelRepairer(t *tech.Tech, r *connect.Resolver, vias *otable.Table[ViaInstance]) *ChannelRepairer {
	return &ChannelRepairer{tech: t, resolver: r, vias: vias}
}

// Repair inserts one strap into gap on targetLayer, running along the
// cross axis (vertical when horiz is false) across the full [crossLo,
// crossHi] span. It first tries width/spacing; when no candidate center
// fits, it halves the width (not below minWidth), sets spacing to the
// layer's rule spacing for the new width, and tries again, returning
// ErrChannelWontFit once an attempt at minWidth fails. Spacing is not
// reduced on its own before the width is halved, and the fit test checks
// only the strap rect against obstructions. Each attempt tries the
// candidate centers tryFit lists, starting at the gap's center. It then
// vias the new strap to every shape on crossingLayer that it overlaps,
// attaching the via to both sides.
func (c *ChannelRepairer) Repair(
	ix *shape.Index, gap Gap, crossLo, crossHi int32,
	targetLayer otable.OID, width, spacing, minWidth int32,
	crossingLayer otable.OID, nets []component.Net, horiz bool,
	obstructions []geom.Rect,
) (otable.OID, []otable.OID, error) {
	layer, err := c.tech.Layers.Get(targetLayer)
	if err != nil {
		return 0, nil, err
	}

	w := width
	for {
		id, ok, err := c.tryFit(ix, gap, crossLo, crossHi, targetLayer, w, spacing, nets, horiz, obstructions)
		if err != nil {
			return 0, nil, err
		}
		if ok {
			vias, err := c.connectCrossings(ix, id, crossingLayer, targetLayer)
			if err != nil {
				return 0, nil, err
			}
			return id, vias, nil
		}
		if w <= minWidth {
			return 0, nil, ErrChannelWontFit
		}
		w /= 2
		if w < minWidth {
			w = minWidth
		}
		spacing = layer.Spacing(w, gap.Hi-gap.Lo)
	}
}

// tryFit bisects the offset within the gap, searching both halves down to
// a minimum increment of the strap's own width, accepting the first
// offset whose strap rect clears obstructions.
func (c *ChannelRepairer) tryFit(
	ix *shape.Index, gap Gap, crossLo, crossHi int32,
	targetLayer otable.OID, width, spacing int32,
	nets []component.Net, horiz bool, obstructions []geom.Rect,
) (otable.OID, bool, error) {
	mid := (gap.Lo + gap.Hi) / 2
	offsets := bisectOffsets(gap.Lo, gap.Hi, mid, width)

	for _, center := range offsets {
		rect := stripRect(center, width, crossLo, crossHi, horiz)
		if conflicts(rect, obstructions) {
			continue
		}
		offset := (center - gap.Lo) - width/2
		strap := component.NewRepairChannelStrap(targetLayer, width, spacing, offset, nets...)
		var domain geom.Rect
		if horiz {
			domain = geom.NewRect(crossLo, gap.Lo, crossHi, gap.Hi)
		} else {
			domain = geom.NewRect(gap.Lo, crossLo, gap.Hi, crossHi)
		}
		ids, err := strap.MakeShapes(ix, domain, horiz)
		if err != nil {
			return 0, false, err
		}
		if len(ids) == 0 {
			continue
		}
		return ids[0], true, nil
	}
	return 0, false, nil
}

// bisectOffsets returns candidate centers to try within [lo, hi], starting
// at mid and bisecting outward in both directions down to an increment of
// width, per spec §4.K's "bisect the offset ... searching both halves".
func bisectOffsets(lo, hi, mid, width int32) []int32 {
	centers := []int32{mid}
	for step := (hi - lo) / 4; step >= width; step /= 2 {
		centers = append(centers, mid-step, mid+step)
	}
	return centers
}

func stripRect(center, width, crossLo, crossHi int32, horiz bool) geom.Rect {
	lo, hi := center-width/2, center-width/2+width-1
	if horiz {
		return geom.NewRect(crossLo, lo, crossHi, hi)
	}
	return geom.NewRect(lo, crossLo, hi, crossHi)
}

func conflicts(rect geom.Rect, obstructions []geom.Rect) bool {
	for _, ob := range obstructions {
		if ob.Intersects(rect) {
			return true
		}
	}
	return false
}

// connectCrossings generates a via between the new strap and every shape
// it overlaps on crossingLayer, attaching the via to both shapes.
func (c *ChannelRepairer) connectCrossings(
	ix *shape.Index, stripID otable.OID, crossingLayer, targetLayer otable.OID,
) ([]otable.OID, error) {
	strip := ix.Shapes.MustGet(stripID)
	var vias []otable.OID

	candidates := ix.ShapesOnLayer(crossingLayer, strip.Rect)
	for _, cid := range candidates {
		cs := ix.Shapes.MustGet(cid)
		if !cs.Rect.Intersects(strip.Rect) {
			continue
		}
		inter := cs.Rect.Intersect(strip.Rect)

		lower, upper := crossingLayer, targetLayer
		lowerLevel := c.tech.Layers.MustGet(crossingLayer).RoutingLevel
		upperLevel := c.tech.Layers.MustGet(targetLayer).RoutingLevel
		if lowerLevel > upperLevel {
			lower, upper = upper, lower
		}

		stack, err := c.resolver.Resolve(lower, upper, inter)
		if err != nil {
			return nil, err
		}
		top := stack.Vias[len(stack.Vias)-1]

		viaID, v := c.vias.Create()
		*v = ViaInstance{Lower: lower, Upper: upper, Result: top, Rect: inter, Shapes: [2]otable.OID{stripID, cid}}
		ix.AttachVia(stripID, viaID)
		ix.AttachVia(cid, viaID)
		vias = append(vias, viaID)
	}
	return vias, nil
}
