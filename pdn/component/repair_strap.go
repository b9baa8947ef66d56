package component

import "github.com/sarchlab/zeonica-pdn/odb/otable"

// NewRepairChannelStrap builds the single strap §4.K's channel-repair pass
// inserts into a gap: the same width/spacing as the target strap it's
// repairing, scoped to a subset of the grid's nets (the nets missing a
// crossing in the channel), and capped at one strap since the repair
// targets one specific gap rather than a periodic run.
//
// Grounded on original_source/src/pdn/src/straps.cpp's
// RepairChannelStraps constructor, which forwards the target strap's
// width/spacing and fixes number_of_straps to 1.
func NewRepairChannelStrap(layer otable.OID, width, spacing, offset int32, nets ...Net) *Strap {
	return NewStrapBuilder().
		WithLayer(layer).
		WithWidth(width).
		WithPitch(width + spacing). // single strap: pitch only bounds the first group
		WithSpacing(spacing).
		WithOffset(offset).
		WithNumberOfStraps(1).
		WithNets(nets...).
		Build()
}
