package tech

import (
	"errors"
	"sort"

	"github.com/sarchlab/zeonica-pdn/odb/otable"
)

// ErrNotFound is returned when a name lookup fails, per spec §7
// (kNotFound: recoverable locally).
var ErrNotFound = errors.New("tech: not found")

// Tech holds the object tables describing one technology, per spec §3.
type Tech struct {
	Layers           *otable.Table[Layer]
	Vias             *otable.Table[Via]
	ViaGenerateRules *otable.Table[ViaGenerateRule]
	NDRs             *otable.Table[NDR]
	MetalWidthVias   MetalWidthViaMap

	nameToVia map[string]otable.OID
}

// New creates an empty Tech.
func New() *Tech {
	return &Tech{
		Layers:           otable.New[Layer]("layers"),
		Vias:             otable.New[Via]("vias"),
		ViaGenerateRules: otable.New[ViaGenerateRule]("via_generate_rules"),
		NDRs:             otable.New[NDR]("ndrs"),
		nameToVia:        make(map[string]otable.OID),
	}
}

// AddLayer creates a layer and returns its OID.
func (t *Tech) AddLayer(l Layer) otable.OID {
	id, rec := t.Layers.Create()
	*rec = l
	return id
}

// AddVia creates a via, returns its OID, and indexes it by name for
// FindVia, per spec §3's "name→via hash for O(1) lookup".
func (t *Tech) AddVia(v Via) otable.OID {
	id, rec := t.Vias.Create()
	*rec = v
	t.nameToVia[v.Name] = id
	return id
}

// FindVia looks a via up by name in O(1).
func (t *Tech) FindVia(name string) (otable.OID, error) {
	id, ok := t.nameToVia[name]
	if !ok {
		return 0, ErrNotFound
	}
	return id, nil
}

// LayerByName performs a linear scan for a layer by name. Tech's primary
// lookup structure for layers is the routing-level-ordered table itself
// (RoutingLayersInOrder); by-name lookup is used rarely (config loading),
// so it does not warrant its own hash the way vias do.
func (t *Tech) LayerByName(name string) (otable.OID, error) {
	var found otable.OID
	t.Layers.Iterate(func(id otable.OID, l *Layer) bool {
		if l.Name == name {
			found = id
			return false
		}
		return true
	})
	if found == 0 {
		return 0, ErrNotFound
	}
	return found, nil
}

// RoutingLayersInOrder returns the OIDs of routing (non-cut) layers sorted
// bottom-to-tom by RoutingLevel, per spec §3.
func (t *Tech) RoutingLayersInOrder() []otable.OID {
	type entry struct {
		id    otable.OID
		level int
	}
	var entries []entry
	t.Layers.Iterate(func(id otable.OID, l *Layer) bool {
		if !l.IsCut {
			entries = append(entries, entry{id, l.RoutingLevel})
		}
		return true
	})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].level < entries[j].level })
	out := make([]otable.OID, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

// LayersBetween returns the routing layers strictly between lo and hi
// (exclusive), ordered bottom-to-top, used by the connect resolver (§4.H)
// to find intermediate layers for a via stack.
func (t *Tech) LayersBetween(lo, hi otable.OID) ([]otable.OID, error) {
	loL, err := t.Layers.Get(lo)
	if err != nil {
		return nil, err
	}
	hiL, err := t.Layers.Get(hi)
	if err != nil {
		return nil, err
	}
	loLevel, hiLevel := loL.RoutingLevel, hiL.RoutingLevel
	if loLevel > hiLevel {
		loLevel, hiLevel = hiLevel, loLevel
	}
	var out []otable.OID
	for _, id := range t.RoutingLayersInOrder() {
		l := t.Layers.MustGet(id)
		if l.RoutingLevel > loLevel && l.RoutingLevel < hiLevel {
			out = append(out, id)
		}
	}
	return out, nil
}
