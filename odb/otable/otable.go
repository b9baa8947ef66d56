// Package otable implements the object table / id allocator described in
// spec §4.B: an append-mostly, generic container that owns its values,
// assigns stable object identifiers (OIDs) on creation, and reuses freed
// slots, bumping a per-slot generation stamp on each reuse. The stamp is
// not part of the OID and Get does not check it: a stale OID fails only
// while its slot is free, and once the slot is reused it resolves to the
// new record.
//
// The allocation bookkeeping generalizes confignew.NameIDBinding's
// map-based name<->id scheme (a monotonic counter handing out the next
// free id) into a freelist that actually reclaims destroyed slots, plus
// the version stamp spec §3 requires for stable-but-reusable OIDs.
package otable

import (
	"errors"
	"sort"
)

// ErrBadOid is returned when an OID addresses a freed or never-allocated
// slot.
var ErrBadOid = errors.New("otable: bad oid")

// OID is a 1-based, non-zero object identifier. Zero means "none/absent".
type OID uint32

// Valid reports whether id is non-zero (does not check table membership).
func (id OID) Valid() bool { return id != 0 }

type slot[T any] struct {
	value     T
	version   uint32
	allocated bool
}

// Table is an object table of T, parameterized by nothing but its element
// type: callers embed a Table[T] inside whatever parent scope owns it
// (Tech owns a Table[Layer], a Block owns a Table[Wire], etc.), matching
// spec §3's "Tables are parameterized by the enclosing parent".
type Table[T any] struct {
	label     string
	slots     []slot[T] // index 0 is unused; OID n lives at slots[n]
	freelist  []uint32
	liveOrder []uint32 // insertion order of currently-live slot indices
}

// New creates an empty table. label is used only for diagnostics and by
// the binary stream codec (§4.C) as the table's section name.
func New[T any](label string) *Table[T] {
	return &Table[T]{label: label, slots: make([]slot[T], 1)}
}

// Label returns the table's diagnostic/stream name.
func (t *Table[T]) Label() string { return t.label }

// Create allocates a new record, returning its OID and a pointer to the
// zero-valued record for the caller to populate. It reuses the smallest
// free OID, per spec §4.B.
func (t *Table[T]) Create() (OID, *T) {
	var idx uint32
	if n := len(t.freelist); n > 0 {
		idx = t.freelist[0]
		t.freelist = t.freelist[1:]
		t.slots[idx].version++
		t.slots[idx].value = *new(T)
		t.slots[idx].allocated = true
	} else {
		idx = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{allocated: true})
	}
	t.liveOrder = append(t.liveOrder, idx)
	return OID(idx), &t.slots[idx].value
}

// Destroy returns id's slot to the freelist. Further Get calls with id fail
// with ErrBadOid while the slot stays free (Create bumps the slot's version
// when it later reuses the slot). The freelist
// is kept sorted ascending so Create always reuses the smallest free OID.
func (t *Table[T]) Destroy(id OID) error {
	idx := uint32(id)
	if idx == 0 || int(idx) >= len(t.slots) || !t.slots[idx].allocated {
		return ErrBadOid
	}
	t.slots[idx].allocated = false
	t.slots[idx].value = *new(T)
	pos := sort.Search(len(t.freelist), func(i int) bool { return t.freelist[i] >= idx })
	t.freelist = append(t.freelist, 0)
	copy(t.freelist[pos+1:], t.freelist[pos:])
	t.freelist[pos] = idx
	t.removeFromLiveOrder(idx)
	return nil
}

func (t *Table[T]) removeFromLiveOrder(idx uint32) {
	for i, v := range t.liveOrder {
		if v == idx {
			t.liveOrder = append(t.liveOrder[:i], t.liveOrder[i+1:]...)
			return
		}
	}
}

// Get derefs id, failing with ErrBadOid if the slot was never allocated or
// has since been destroyed.
func (t *Table[T]) Get(id OID) (*T, error) {
	idx := uint32(id)
	if idx == 0 || int(idx) >= len(t.slots) || !t.slots[idx].allocated {
		return nil, ErrBadOid
	}
	return &t.slots[idx].value, nil
}

// MustGet is Get without the error, for call sites that have already
// established id's validity (e.g. immediately after Create). It panics on
// a bad OID, the same way the teacher's builders panic on programmer
// errors rather than returning an error (core/builder.go's
// "Need at least 4 directions").
func (t *Table[T]) MustGet(id OID) *T {
	v, err := t.Get(id)
	if err != nil {
		panic(err)
	}
	return v
}

// Size returns the number of live (non-destroyed) records.
func (t *Table[T]) Size() int {
	return len(t.liveOrder)
}

// Iterate calls fn for every live record in insertion order, per spec
// §4.B's determinism requirement. Iteration stops early if fn returns
// false.
func (t *Table[T]) Iterate(fn func(OID, *T) bool) {
	for _, idx := range t.liveOrder {
		if !fn(OID(idx), &t.slots[idx].value) {
			return
		}
	}
}

// OIDs returns the live OIDs in insertion order.
func (t *Table[T]) OIDs() []OID {
	out := make([]OID, len(t.liveOrder))
	for i, idx := range t.liveOrder {
		out[i] = OID(idx)
	}
	return out
}

// version returns the current generation stamp for id's slot.
func (t *Table[T]) version(id OID) uint32 {
	return t.slots[id].version
}

// SlotCount returns the number of slots ever allocated (live plus freed).
// OIDs run contiguously from 1 to SlotCount; every one of them is either
// presently live or sitting in the freelist. The stream codec (§4.C) uses
// this to size a table it is reconstructing from a dump.
func (t *Table[T]) SlotCount() uint32 {
	return uint32(len(t.slots) - 1)
}

// FreeOIDs returns the currently-destroyed OIDs, ascending. The stream
// codec serializes this alongside the live records so a round trip
// reproduces the exact same freelist instead of replaying Create/Destroy.
func (t *Table[T]) FreeOIDs() []uint32 {
	return append([]uint32(nil), t.freelist...)
}

// Restore rebuilds a table's slot array and freelist from a prior
// SlotCount/FreeOIDs dump, without replaying Create/Destroy (which would
// require popping freed OIDs off the freelist in an order the dump
// doesn't record). Every slot up to slotCount is allocated except those
// listed in freeIDs; callers then populate each live slot via Get and
// record it with MarkLive, in the dump's original order.
// freeIDs must be ascending, matching FreeOIDs's contract.
func Restore[T any](label string, slotCount uint32, freeIDs []uint32) *Table[T] {
	t := &Table[T]{label: label, slots: make([]slot[T], slotCount+1)}
	free := make(map[uint32]bool, len(freeIDs))
	for _, idx := range freeIDs {
		free[idx] = true
	}
	for idx := uint32(1); idx <= slotCount; idx++ {
		if !free[idx] {
			t.slots[idx].allocated = true
		}
	}
	t.freelist = append([]uint32(nil), freeIDs...)
	return t
}

// MarkLive records id as live in insertion order. The stream codec calls
// this once per record while decoding a dump produced alongside WriteTable
// (which serializes records in Iterate order), so Iterate's insertion-order
// guarantee (§4.B) survives a write/read round trip.
func (t *Table[T]) MarkLive(id OID) {
	t.liveOrder = append(t.liveOrder, uint32(id))
}
