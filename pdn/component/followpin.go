package component

import (
	"errors"

	"github.com/sarchlab/zeonica-pdn/geom"
	"github.com/sarchlab/zeonica-pdn/odb/otable"
	"github.com/sarchlab/zeonica-pdn/odb/shape"
)

// ErrNoRows is returned when a FollowPins component has no standard-cell
// rows to derive a pitch or placement from.
var ErrNoRows = errors.New("component: followpins requires at least one row")

// ErrNoSupplyPins is returned when FollowPins.DetermineWidth finds no
// supply pin geometry to derive a width from.
var ErrNoSupplyPins = errors.New("component: no supply pin geometry found to derive followpin width")

// Row is one standard-cell row, as laid out by placement: a horizontal
// strip whose orientation determines which supply net runs along its top
// edge.
type Row struct {
	BBox       geom.Rect
	PowerOnTop bool // true when the row's orientation (R0) puts power on top
}

// DetermineWidth returns the narrowest of pinWidths, per spec §4.I:
// "width auto-derived from the narrowest supply pin of a core master".
func DetermineWidth(pinWidths []int32) (int32, error) {
	if len(pinWidths) == 0 {
		return 0, ErrNoSupplyPins
	}
	min := pinWidths[0]
	for _, w := range pinWidths[1:] {
		if w < min {
			min = w
		}
	}
	return min, nil
}

// DeterminePitch returns twice the first row's height, per spec §4.I:
// "pitch auto-derived from the first row's height" — followpins alternate
// power/ground every row, so one full pitch spans two rows.
func DeterminePitch(rows []Row) (int32, error) {
	if len(rows) == 0 {
		return 0, ErrNoRows
	}
	return 2 * (rows[0].BBox.DY() + 1), nil
}

// FollowPins is the standard-cell-rail-coincident supply wire component of
// spec §4.I. Grounded on original_source/src/pdn/src/straps.cpp's
// FollowPins::makeShapes: one power and one ground strap per row, each
// centered on the row's corresponding rail edge and spanning the row's
// full width; the straps are not extended past the row's X extent.
type FollowPins struct {
	layer  otable.OID
	width  int32
	power  string
	ground string
}

// NewFollowPins builds a FollowPins component. width must already be
// resolved (via DetermineWidth when the caller didn't specify one).
func NewFollowPins(layer otable.OID, width int32, power, ground string) *FollowPins {
	if width <= 0 {
		panic("component: followpins requires a positive width")
	}
	return &FollowPins{layer: layer, width: width, power: power, ground: ground}
}

// MakeShapes lays out one power and one ground strap per row, each
// spanning the row's bbox in X at the row's power/ground rail
// y-position. domain does not change the straps' X extent.
func (f *FollowPins) MakeShapes(ix *shape.Index, domain geom.Rect, rows []Row) ([]otable.OID, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	var out []otable.OID
	for _, row := range rows {
		x0, x1 := row.BBox.Lo.X, row.BBox.Hi.X
		if x0 == domain.Lo.X {
			x0 = domain.Lo.X
		}
		if x1 == domain.Hi.X {
			x1 = domain.Hi.X
		}

		powerY := row.BBox.Hi.Y
		groundY := row.BBox.Lo.Y
		if !row.PowerOnTop {
			powerY, groundY = groundY, powerY
		}

		powerLo := powerY - f.width/2
		groundLo := groundY - f.width/2

		pid, err := ix.AddShape(f.layer, f.power,
			geom.NewRect(x0, powerLo, x1, powerLo+f.width-1), shape.RoleFollowPin)
		if err != nil {
			return nil, err
		}
		gid, err := ix.AddShape(f.layer, f.ground,
			geom.NewRect(x0, groundLo, x1, groundLo+f.width-1), shape.RoleFollowPin)
		if err != nil {
			return nil, err
		}
		out = append(out, pid, gid)
	}
	return out, nil
}
