// Package tech implements the technology model of spec §3/§4.D: layers,
// vias, via-generate rules, cut-class/cut-enclosure rules, non-default
// rules, and the metal-width-via map, all held in object tables owned by a
// Tech.
//
// Grounded on original_source/src/odb/src/db/dbTech.cpp and
// dbTechLayerRule.cpp; table ownership follows spec §3's "Tech exclusively
// owns its tables; Layers/Vias/NDRs are shared by reference (OID)".
package tech

import (
	"sort"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
)

// Layer is a routing or cut layer. RoutingLevel is meaningless (0) for cut
// layers; routing layers are ordered bottom-to-top by RoutingLevel.
type Layer struct {
	Name          string
	RoutingLevel  int
	IsCut         bool
	Direction     geom.Direction
	PreferredW    int32
	MinW          int32
	MaxW          int32
	MfgGrid       int32
	MinArea       int64
	DefaultSpace  int32
	SpacingRules  []SpacingRule
	CutClasses    []CutClassRule
	CutEnclosures []CutEnclosureRule

	// ViaGenerateRules and TechVias list the OIDs of the rules and vias
	// reachable *from* this layer as a bottom, for use during via
	// generation (§4.G).
	ViaGenerateRules []otable.OID
	TechVias         []otable.OID
}

// SpacingKind distinguishes the variants of §3's spacing rule list.
type SpacingKind int

const (
	SpacingConstant SpacingKind = iota
	SpacingRange
	SpacingPRL
	SpacingEOL
	SpacingTwoWidths
	SpacingWidthTable
)

// SpacingRule is one entry of a layer's spacing-rule list. Only the fields
// relevant to Kind are populated; see Spacing() for how each is applied.
type SpacingRule struct {
	Kind SpacingKind

	// SpacingConstant / SpacingRange
	MinWidth, MaxWidth int32
	Spacing            int32

	// SpacingPRL: rows of (width, length) -> spacing, looked up by the
	// largest width <= the query width and largest length <= the query
	// length (a parallel-run-length table).
	PRLWidths  []int32
	PRLLengths []int32
	PRLTable   [][]int32 // PRLTable[widthIdx][lengthIdx]

	// SpacingEOL: end-of-line spacing applies when the shape's width is
	// <= EOLWidth and the adjacent run is <= EOLWithin.
	EOLWidth   int32
	EOLSpace   int32
	EOLWithin  int32
	ParSpace   int32
	ParWithin  int32

	// SpacingTwoWidths / SpacingWidthTable: a simple width -> spacing
	// table, taken as the two-widths diagonal (no separate prl length
	// axis) to keep the lookup a single sorted table.
	WidthTableWidths   []int32
	WidthTableSpacings []int32
}

// MinWidth, MaxWidth, Direction, RoutingLevel satisfy the "Layer query"
// contract of spec §4.D directly as field accessors; Spacing implements
// the rule-combination query.

// Spacing returns the maximum of: the default spacing, the constant and
// range rules, the parallel-run-length lookup, the two-widths/width-table
// lookup, and the end-of-line result, rounded up to the manufacturing
// grid. Every rule in SpacingRules is evaluated; when several match, the
// largest (strictest) value wins.
func (l *Layer) Spacing(width, length int32) int32 {
	best := l.DefaultSpace
	for _, r := range l.SpacingRules {
		var s int32
		switch r.Kind {
		case SpacingConstant:
			s = r.Spacing
		case SpacingRange:
			if width >= r.MinWidth && (r.MaxWidth == 0 || width <= r.MaxWidth) {
				s = r.Spacing
			}
		case SpacingPRL:
			s = lookupPRL(r, width, length)
		case SpacingEOL:
			if width <= r.EOLWidth && length <= r.EOLWithin {
				s = r.EOLSpace
			}
		case SpacingTwoWidths, SpacingWidthTable:
			s = lookupWidthTable(r.WidthTableWidths, r.WidthTableSpacings, width)
		}
		if s > best {
			best = s
		}
	}
	return roundUpToGrid(best, l.MfgGrid)
}

func lookupPRL(r SpacingRule, width, length int32) int32 {
	wi := floorIndex(r.PRLWidths, width)
	li := floorIndex(r.PRLLengths, length)
	if wi < 0 || li < 0 || wi >= len(r.PRLTable) {
		return 0
	}
	row := r.PRLTable[wi]
	if li >= len(row) {
		return 0
	}
	return row[li]
}

func lookupWidthTable(widths, spacings []int32, width int32) int32 {
	i := floorIndex(widths, width)
	if i < 0 || i >= len(spacings) {
		return 0
	}
	return spacings[i]
}

// floorIndex returns the index of the largest value in the sorted slice
// that is <= x, or -1 if none qualifies.
func floorIndex(sorted []int32, x int32) int {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] > x })
	return i - 1
}

func roundUpToGrid(v, grid int32) int32 {
	if grid <= 0 {
		return v
	}
	if v%grid == 0 {
		return v
	}
	return (v/grid + 1) * grid
}

// CutClassRule classifies a cut layer's via geometry by (width, length),
// optionally requiring a minimum cut count, per spec §4.D.
type CutClassRule struct {
	Name         string
	Width        int32
	Length       int32
	CutsRequired int // 0 = not specified
}

// CutEnclosureSide distinguishes the metal layer above vs. below the cut.
type CutEnclosureSide int

const (
	EnclosureBelow CutEnclosureSide = iota
	EnclosureAbove
)

// CutEnclosureRule is a per (cut-class, side, width-threshold) overhang
// requirement, per spec §4.D.
type CutEnclosureRule struct {
	CutClass       string
	Side           CutEnclosureSide
	WidthThreshold int32
	FirstOverhang  int32
	SecondOverhang int32
}

// Enclosure returns the first/second overhang required for a metal layer
// of the given side and width touching a cut of cutClass. When multiple
// rules match, the strictest (largest overhang sum) wins, with ties
// broken by first-inserted order (spec §4.D).
func (l *Layer) Enclosure(cutClass string, side CutEnclosureSide, width int32) (first, second int32) {
	bestSum := int32(-1)
	for _, r := range l.CutEnclosures {
		if r.CutClass != cutClass || r.Side != side {
			continue
		}
		if width < r.WidthThreshold {
			continue
		}
		sum := r.FirstOverhang + r.SecondOverhang
		if sum > bestSum {
			bestSum = sum
			first, second = r.FirstOverhang, r.SecondOverhang
		}
	}
	return first, second
}

// CutClassFor returns the cut class matching the given cut width/height,
// per spec §4.D's "look up by (cut_width, cut_length)". The strictest
// (largest CutsRequired) match wins ties by first-inserted order.
func (l *Layer) CutClassFor(width, length int32) (CutClassRule, bool) {
	var best CutClassRule
	found := false
	for _, c := range l.CutClasses {
		if c.Width != width || c.Length != length {
			continue
		}
		if !found || c.CutsRequired > best.CutsRequired {
			best = c
			found = true
		}
	}
	return best, found
}
