package stream

import "github.com/sarchlab/zeonica-pdn/odb/otable"

// Codec is implemented by any record type stored in an otable.Table that
// wants to participate in binary streaming. Encode/Decode receive the
// stream's negotiated Version so a record can skip fields introduced after
// the stream was written (§4.C: "readers always check the schema version
// against known upgrade points").
type Codec interface {
	EncodeTo(w *Writer, v Version)
	DecodeFrom(r *Reader, v Version)
}

// WriteTable writes label, the live record count, the freelist, then every
// live record prefixed by its OID. Records are written in insertion
// (Iterate) order, not sorted by OID, so ReadTable's MarkLive calls
// reproduce the same iteration order. Writing the freelist lets
// ReadTable rebuild the exact same slot layout instead of replaying
// Create/Destroy, so a table that has ever destroyed a slot round-trips.
// As in ReadTable, the Codec methods are taken from *T.
func WriteTable[T any, PT interface {
	*T
	Codec
}](w *Writer, t *otable.Table[T], label string) {
	w.WriteString(label)
	w.WriteU32(uint32(t.Size()))
	free := t.FreeOIDs()
	w.WriteU32(uint32(len(free)))
	for _, idx := range free {
		w.WriteU32(idx)
	}
	t.Iterate(func(id otable.OID, rec *T) bool {
		w.WriteU32(uint32(id))
		PT(rec).EncodeTo(w, CurrentVersion)
		return true
	})
}

// ReadTable reverses WriteTable. It rebuilds the table's slots directly at
// their original indices (otable.Restore), so references recorded
// elsewhere in the stream (an OID embedded in another table) remain valid
// after the round trip. new0 constructs a zero-valued *T to decode into
// (needed because Codec methods are defined on *T for mutation, and Go
// cannot default-construct a type parameter).
func ReadTable[T any, PT interface {
	*T
	Codec
}](r *Reader, label string, new0 func() PT) (*otable.Table[T], error) {
	gotLabel := r.ReadString()
	if r.Err() != nil {
		return nil, r.Err()
	}
	if gotLabel != label {
		return nil, ErrCorruptStream
	}
	count := r.ReadU32()
	freeCount := r.ReadU32()
	if r.Err() != nil {
		return nil, r.Err()
	}
	freeIDs := make([]uint32, freeCount)
	for i := range freeIDs {
		freeIDs[i] = r.ReadU32()
	}
	if r.Err() != nil {
		return nil, r.Err()
	}

	tbl := otable.Restore[T](label, count+freeCount, freeIDs)
	for i := uint32(0); i < count; i++ {
		wantID := otable.OID(r.ReadU32())
		if r.Err() != nil {
			return nil, r.Err()
		}
		rec, err := tbl.Get(wantID)
		if err != nil {
			return nil, ErrCorruptStream
		}
		pv := PT(rec)
		pv.DecodeFrom(r, r.Version())
		if r.Err() != nil {
			return nil, r.Err()
		}
		tbl.MarkLive(wantID)
	}
	return tbl, nil
}
