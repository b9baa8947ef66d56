package tech

// WidthRange is an inclusive [Min, Max] width band; Max == 0 means
// unbounded above.
type WidthRange struct {
	Min, Max int32
}

// Contains reports whether w falls in the range.
func (r WidthRange) Contains(w int32) bool {
	if w < r.Min {
		return false
	}
	return r.Max == 0 || w <= r.Max
}

// MetalWidthViaMapEntry maps a (below-width range, above-width range) pair
// to a preferred via, per the supplemented dbMetalWidthViaMap behavior
// (SPEC_FULL.md §4). The table is read only through Lookup; the via
// generator in pdn/via does not consult it.
type MetalWidthViaMapEntry struct {
	BelowRange    WidthRange
	AboveRange    WidthRange
	CutLayer      string
	PreferredVia  string
	IsPGVia       bool
}

// MetalWidthViaMap holds a Tech's entries, queried in insertion order so
// the first matching entry wins ties, matching the rest of the tech
// model's "first-inserted wins" determinism rule (spec §4.D).
type MetalWidthViaMap struct {
	entries []MetalWidthViaMapEntry
}

// Add appends an entry.
func (m *MetalWidthViaMap) Add(e MetalWidthViaMapEntry) {
	m.entries = append(m.entries, e)
}

// Lookup returns the first entry whose ranges contain (belowWidth,
// aboveWidth) for the given cut layer.
func (m *MetalWidthViaMap) Lookup(cutLayer string, belowWidth, aboveWidth int32) (MetalWidthViaMapEntry, bool) {
	for _, e := range m.entries {
		if e.CutLayer != cutLayer {
			continue
		}
		if e.BelowRange.Contains(belowWidth) && e.AboveRange.Contains(aboveWidth) {
			return e, true
		}
	}
	return MetalWidthViaMapEntry{}, false
}
