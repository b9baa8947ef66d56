// Package component implements the grid components of spec §4.I: Rings,
// Straps, FollowPins, PadDirectConnect, and RepairChannelStraps. Each
// component enumerates its nets in a configured order and places shapes
// net-by-net within one pitch, per spec §4.I's closing paragraph.
//
// Grounded on original_source/src/pdn/src/{rings,straps,strap,sroute}.cpp;
// the fluent With... builder idiom is generalized from core/builder.go's
// value-receiver builder, panicking on programmer errors the same way
// WithDirections does for an invalid direction count.
package component

import (
	"errors"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
)

// StartsWith selects which polarity a periodic component places first in
// each pitch group, per spec §6's `starts_with` key.
type StartsWith int

const (
	StartsWithPower StartsWith = iota
	StartsWithGround
	StartsWithGridDefault
)

// Net names one supply net and its polarity, used to order placement
// within a pitch group.
type Net struct {
	Name    string
	IsPower bool
}

// ErrNoTracks is returned when snap-to-grid is requested but no track
// pitch was configured.
var ErrNoTracks = errors.New("component: snap_to_grid requested with no track pitch")

func orderNets(nets []Net, sw StartsWith) []Net {
	out := make([]Net, len(nets))
	copy(out, nets)
	switch sw {
	case StartsWithPower:
		stableSortPowerFirst(out, true)
	case StartsWithGround:
		stableSortPowerFirst(out, false)
	}
	return out
}

func stableSortPowerFirst(nets []Net, powerFirst bool) {
	// Stable partition: all matching-polarity nets first, each group
	// keeping its original relative order, matching spec §4.I's "enumerate
	// nets in a configured order".
	var first, second []Net
	for _, n := range nets {
		if n.IsPower == powerFirst {
			first = append(first, n)
		} else {
			second = append(second, n)
		}
	}
	copy(nets, append(first, second...))
}

// StrapBuilder configures a Strap component, per spec §4.I.
type StrapBuilder struct {
	layer           otable.OID
	width           int32
	pitch           int32
	spacing         int32
	offset          int32
	numberOfStraps  int
	startsWith      StartsWith
	nets            []Net
	trackPitch      int32
	trackOffset     int32
	snapToGrid      bool
}

// NewStrapBuilder returns a builder with no fields set; Build panics if a
// required field is missing.
func NewStrapBuilder() StrapBuilder { return StrapBuilder{} }

func (b StrapBuilder) WithLayer(l otable.OID) StrapBuilder { b.layer = l; return b }
func (b StrapBuilder) WithWidth(w int32) StrapBuilder       { b.width = w; return b }
func (b StrapBuilder) WithPitch(p int32) StrapBuilder       { b.pitch = p; return b }
func (b StrapBuilder) WithSpacing(s int32) StrapBuilder     { b.spacing = s; return b }
func (b StrapBuilder) WithOffset(o int32) StrapBuilder      { b.offset = o; return b }
func (b StrapBuilder) WithNumberOfStraps(n int) StrapBuilder {
	b.numberOfStraps = n
	return b
}
func (b StrapBuilder) WithStartsWith(sw StartsWith) StrapBuilder { b.startsWith = sw; return b }
func (b StrapBuilder) WithNets(nets ...Net) StrapBuilder         { b.nets = nets; return b }
func (b StrapBuilder) WithSnapToGrid(trackPitch, trackOffset int32) StrapBuilder {
	b.snapToGrid = true
	b.trackPitch = trackPitch
	b.trackOffset = trackOffset
	return b
}

// Build validates the configuration and returns a Strap.
func (b StrapBuilder) Build() *Strap {
	if b.layer == 0 {
		panic("component: strap requires a layer")
	}
	if b.width <= 0 {
		panic("component: strap requires a positive width")
	}
	if b.pitch <= 0 {
		panic("component: strap requires a positive pitch")
	}
	if len(b.nets) == 0 {
		panic("component: strap requires at least one net")
	}
	spacing := b.spacing
	if spacing == 0 && len(b.nets) > 1 {
		spacing = b.pitch/int32(len(b.nets)) - b.width
	}
	return &Strap{
		layer: b.layer, width: b.width, pitch: b.pitch, spacing: spacing,
		offset: b.offset, numberOfStraps: b.numberOfStraps,
		nets: orderNets(b.nets, b.startsWith),
		snapToGrid: b.snapToGrid, trackPitch: b.trackPitch, trackOffset: b.trackOffset,
	}
}

// Strap is a periodic axis-parallel supply wire component, per spec §4.I.
type Strap struct {
	layer          otable.OID
	width          int32
	pitch          int32
	spacing        int32
	offset         int32
	numberOfStraps int
	nets           []Net
	snapToGrid     bool
	trackPitch     int32
	trackOffset    int32
}

// step is the center-to-center distance from one net's strap to the next
// net's strap within the same pitch group.
func (s *Strap) step() int32 { return s.width + s.spacing }

func (s *Strap) snap(center int32) int32 {
	if !s.snapToGrid || s.trackPitch <= 0 {
		return center
	}
	rel := center - s.trackOffset
	q := rel / s.trackPitch
	rem := rel % s.trackPitch
	if rem*2 >= s.trackPitch {
		q++
	} else if rem*2 <= -s.trackPitch {
		q--
	}
	return s.trackOffset + q*s.trackPitch
}

// MakeShapes lays out strap rects across domain along horiz's axis
// (true = strap runs horizontally, stacked along Y; false = runs
// vertically, stacked along X), inserting into ix on layer s.layer for
// each configured net, per spec §4.I and §8's strap-pitch invariant: each
// net's successive centers differ by exactly s.pitch, and the group's
// first center is domain-min + offset + width/2 (modulo snap).
func (s *Strap) MakeShapes(ix *shape.Index, domain geom.Rect, horiz bool) ([]otable.OID, error) {
	var domainMin, domainMax, crossLo, crossHi int32
	if horiz {
		domainMin, domainMax = domain.Lo.Y, domain.Hi.Y
		crossLo, crossHi = domain.Lo.X, domain.Hi.X
	} else {
		domainMin, domainMax = domain.Lo.X, domain.Hi.X
		crossLo, crossHi = domain.Lo.Y, domain.Hi.Y
	}

	var out []otable.OID
	lastEnd := domainMin - 1 // no strap placed yet

	groupBase := domainMin + s.offset + s.width/2
	for g := 0; ; g++ {
		if s.numberOfStraps > 0 && g >= s.numberOfStraps {
			break
		}
		groupCenter := groupBase + int32(g)*s.pitch
		if groupCenter-s.width/2 > domainMax {
			break
		}

		for ni, n := range s.nets {
			center := s.snap(groupCenter + int32(ni)*s.step())
			lo := center - s.width/2
			hi := lo + s.width - 1
			if lo < domainMin || hi > domainMax {
				continue
			}
			if lo <= lastEnd+s.spacing {
				lo = lastEnd + s.spacing + 1
				hi = lo + s.width - 1
			}

			var rect geom.Rect
			if horiz {
				rect = geom.NewRect(crossLo, lo, crossHi, hi)
			} else {
				rect = geom.NewRect(lo, crossLo, hi, crossHi)
			}
			id, err := ix.AddShape(s.layer, n.Name, rect, shape.RoleStripe)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
			lastEnd = hi
		}
	}
	return out, nil
}
