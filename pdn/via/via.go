// Package via implements the via generator of spec §4.G: choosing between
// candidate via-generate rules and fixed tech vias to join two metal
// layers across an intersection rectangle, scoring candidates by total cut
// area and falling back to a dummy pseudo-via when nothing fits.
//
// Grounded on original_source/src/pdn/src/via.cpp and
// dbTechViaGenerateRule.cpp.
package via

import (
	"errors"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/tech"
)

// ErrNoViaFits is kTaperedVia's local flavor: no candidate rule or tech via
// reaches the required pair within the intersection.
var ErrNoViaFits = errors.New("via: no candidate fits the intersection")

// Result describes a chosen (or dummy) via placement.
type Result struct {
	RuleOID    otable.OID // the winning ViaGenerateRule, or 0
	TechViaOID otable.OID // the winning fixed TechVia, or 0

	Rows, Cols           int
	CutPitchX, CutPitchY int32
	CutWidth, CutHeight  int32
	CutArea              int64
	BBox                 geom.Rect

	// Dummy is set when no candidate could be validated. The result then
	// carries only Warning and the intersection as BBox, with no rule or
	// tech via; no cut obstruction is recorded for it, and via repair
	// skips it because it has no cut layer.
	Dummy   bool
	Warning string
}

// Generator picks via placements against one Tech's layer/rule tables.
type Generator struct {
	Tech *tech.Tech
}

// NewGenerator binds a generator to t.
func NewGenerator(t *tech.Tech) *Generator {
	return &Generator{Tech: t}
}

// Generate scores every via-generate rule reaching from bottom to top
// through the cut layer, picks the one with the largest total cut area
// (ties broken by rule appearance order), falls back to fixed tech vias if
// no generate rule validates, and otherwise returns a dummy placement, per
// spec §4.G.
func (g *Generator) Generate(bottom, top otable.OID, r geom.Rect) (Result, error) {
	bl, err := g.Tech.Layers.Get(bottom)
	if err != nil {
		return Result{}, err
	}
	tl, err := g.Tech.Layers.Get(top)
	if err != nil {
		return Result{}, err
	}

	var best Result
	found := false
	for _, ruleOID := range bl.ViaGenerateRules {
		rule := g.Tech.ViaGenerateRules.MustGet(ruleOID)
		if rule.TopLayer != tl.Name || rule.BottomLayer != bl.Name {
			continue
		}
		cand, ok := g.tryGenerateRule(bl, tl, rule, r)
		if !ok {
			continue
		}
		cand.RuleOID = ruleOID
		if !found || cand.CutArea > best.CutArea {
			best = cand
			found = true
		}
	}
	if found {
		return best, nil
	}

	for _, viaOID := range bl.TechVias {
		techVia := g.Tech.Vias.MustGet(viaOID)
		if techVia.BottomLayer != bl.Name || techVia.TopLayer != tl.Name {
			continue
		}
		cand, ok := g.tryTechVia(bl, tl, techVia, r)
		if !ok {
			continue
		}
		cand.TechViaOID = viaOID
		if !found || cand.CutArea > best.CutArea {
			best = cand
			found = true
		}
	}
	if found {
		return best, nil
	}

	return Result{
		Dummy:   true,
		BBox:    r,
		Warning: "no via-generate rule or tech via reaches the required layer pair; inserting dummy via",
	}, nil
}

// tryGenerateRule fits the maximal cut array for rule inside r, applying
// each metal layer's enclosure and the layer's max-width cap, then
// validates min-cuts/enclosure rules from the cut layer's own tables.
func (g *Generator) tryGenerateRule(bl, tl *tech.Layer, rule *tech.ViaGenerateRule, r geom.Rect) (Result, bool) {
	encX := maxI32(rule.BottomEnclosureX, rule.TopEnclosureX)
	encY := maxI32(rule.BottomEnclosureY, rule.TopEnclosureY)

	availW := r.DX() + 1 - 2*encX
	availH := r.DY() + 1 - 2*encY
	if availW < rule.CutWidth || availH < rule.CutHeight {
		return Result{}, false
	}

	pitchX := splitPitch(rule.CutWidth+rule.CutSpacingX, rule.SplitCutPitchX)
	pitchY := splitPitch(rule.CutHeight+rule.CutSpacingY, rule.SplitCutPitchY)

	cols, colsSpan := packAxis(availW, rule.CutWidth, pitchX, rule.ArraySpacing, true, rule.MaxColumns)
	rows, rowsSpan := packAxis(availH, rule.CutHeight, pitchY, rule.ArraySpacing, false, rule.MaxRows)
	if cols == 0 || rows == 0 {
		return Result{}, false
	}

	// Bloat in the non-preferred direction is capped by the metal layer's
	// max width, per spec §4.G.2.
	if bl.Direction == geom.DirHorizontal && colsSpan+2*encX > bl.MaxW && bl.MaxW > 0 {
		return Result{}, false
	}
	if bl.Direction == geom.DirVertical && rowsSpan+2*encY > bl.MaxW && bl.MaxW > 0 {
		return Result{}, false
	}

	cutClass, hasClass := bl.CutClassFor(rule.CutWidth, rule.CutHeight)
	totalCuts := rows * cols
	if hasClass && cutClass.CutsRequired > 0 && totalCuts < cutClass.CutsRequired {
		return Result{}, false
	}

	if hasClass {
		if fb, sb := bl.Enclosure(cutClass.Name, tech.EnclosureBelow, rule.CutWidth); fb+sb > 0 {
			if rule.BottomEnclosureX < fb || rule.BottomEnclosureY < sb {
				return Result{}, false
			}
		}
		if fa, sa := tl.Enclosure(cutClass.Name, tech.EnclosureAbove, rule.CutWidth); fa+sa > 0 {
			if rule.TopEnclosureX < fa || rule.TopEnclosureY < sa {
				return Result{}, false
			}
		}
	}

	bboxW := colsSpan + 2*encX
	bboxH := rowsSpan + 2*encY
	cx := (r.Lo.X + r.Hi.X) / 2
	cy := (r.Lo.Y + r.Hi.Y) / 2
	bbox := geom.NewRect(cx-bboxW/2, cy-bboxH/2, cx-bboxW/2+bboxW, cy-bboxH/2+bboxH)

	return Result{
		Rows: rows, Cols: cols,
		CutPitchX: pitchX, CutPitchY: pitchY,
		CutWidth: rule.CutWidth, CutHeight: rule.CutHeight,
		CutArea: int64(totalCuts) * int64(rule.CutWidth) * int64(rule.CutHeight),
		BBox:    bbox,
	}, true
}

func (g *Generator) tryTechVia(bl, tl *tech.Layer, tv *tech.Via, r geom.Rect) (Result, bool) {
	bbox := tv.BBox
	w, h := bbox.DX()+1, bbox.DY()+1
	if w > r.DX()+1 || h > r.DY()+1 {
		return Result{}, false
	}
	cx := (r.Lo.X + r.Hi.X) / 2
	cy := (r.Lo.Y + r.Hi.Y) / 2
	placed := geom.NewRect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h)
	return Result{
		Rows: 1, Cols: 1,
		CutArea: int64(w) * int64(h),
		BBox:    placed,
	}, true
}

// splitPitch applies spec §4.G's split-cut override: a non-zero split
// pitch replaces the default cut_width+cut_spacing pitch outright.
func splitPitch(defaultPitch, split int32) int32 {
	if split > 0 {
		return split
	}
	return defaultPitch
}

// packAxis computes how many cuts of size cutSize at pitch fit in avail,
// honoring array-spacing group breaks when rules are present and capping
// at maxCount (0 = unbounded; isColumnAxis selects whether a LONGARRAY
// rule bypasses that cap, per spec §4.G "LONGARRAY bypasses the x-cap").
// It returns the count and the span (the distance from the first cut's
// low edge to the last cut's high edge).
func packAxis(avail, cutSize, pitch int32, arraySpacing []tech.ArraySpacingRule, isColumnAxis bool, maxCount int) (int, int32) {
	if len(arraySpacing) == 0 {
		return uniformPack(avail, cutSize, pitch, maxCount)
	}

	best := 0
	var bestSpan int32
	for _, as := range arraySpacing {
		if as.MinWidth > 0 && avail < as.MinWidth {
			continue
		}
		cap := maxCount
		if isColumnAxis && as.LongArray {
			cap = 0
		}
		count, span := groupedPack(avail, cutSize, pitch, as.Cuts, as.CutSpacing, cap)
		if count > best {
			best, bestSpan = count, span
		}
	}
	if best == 0 {
		return uniformPack(avail, cutSize, pitch, maxCount)
	}
	return best, bestSpan
}

func uniformPack(avail, cutSize, pitch int32, maxCount int) (int, int32) {
	if avail < cutSize {
		return 0, 0
	}
	n := int((avail-cutSize)/pitch) + 1
	if maxCount > 0 && n > maxCount {
		n = maxCount
	}
	span := cutSize + int32(n-1)*pitch
	return n, span
}

// groupedPack lays out cuts in groups of groupSize spaced at pitch within
// a group and arraySpacing between groups, matching LEF58 ARRAYSPACING's
// "core submatrix" shape.
func groupedPack(avail, cutSize, pitch int32, groupSize int, arraySpacing int32, maxCount int) (int, int32) {
	if groupSize <= 0 {
		groupSize = 1
	}
	groupSpan := cutSize + int32(groupSize-1)*pitch

	total := 0
	span := int32(0)
	remaining := avail
	for {
		if maxCount > 0 && total+groupSize > maxCount {
			break
		}
		need := groupSpan
		if total > 0 {
			need = arraySpacing + groupSpan
		}
		if remaining < need {
			break
		}
		remaining -= need
		if total > 0 {
			span += arraySpacing
		}
		span += groupSpan
		total += groupSize
	}
	if total == 0 {
		return uniformPack(avail, cutSize, pitch, maxCount)
	}
	return total, span
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
