package onestore

import "fmt"

// ExtendedGUID pairs a GUID with a 32-bit sequence number. Two ExtendedGUIDs
// are equal iff both members match. The nil value has a zero GUID and n=0.
type ExtendedGUID struct {
	GUID GUID
	N    uint32
}

func ReadExtendedGUID(r *Reader) (ExtendedGUID, error) {
	g, err := r.ReadGUID()
	if err != nil {
		return ExtendedGUID{}, err
	}
	n, err := r.ReadUint32()
	if err != nil {
		return ExtendedGUID{}, err
	}
	return ExtendedGUID{GUID: g, N: n}, nil
}

func (e ExtendedGUID) IsNil() bool {
	return e.GUID.IsZero() && e.N == 0
}

func (e ExtendedGUID) String() string {
	return fmt.Sprintf("{%s}{%d}", e.GUID, e.N)
}

// CompactID is the 4-byte compressed identifier: n in the low 8 bits,
// guidIndex in the high 24 bits. It resolves to an ExtendedGUID through the
// Global Identification Table of the revision being decoded; the resolved
// ExtendedGUID keeps the CompactID's n, not the table entry's.
type CompactID struct {
	N         uint8
	GUIDIndex uint32
	// Resolved is filled at decode time from the live table.
	Resolved ExtendedGUID
}

func ReadCompactID(r *Reader, table *GlobalIdTable) (CompactID, error) {
	pos := r.Tell()
	raw, err := r.ReadUint32()
	if err != nil {
		return CompactID{}, err
	}
	cid := CompactID{
		N:         uint8(raw & 0xFF),
		GUIDIndex: raw >> 8,
	}
	if raw == 0 {
		return cid, nil
	}
	if table == nil {
		return cid, parseErrorf(BadReference, pos, "CompactID %08X outside any global id table", raw)
	}
	g, ok := table.Lookup(cid.GUIDIndex)
	if !ok {
		return cid, parseErrorf(BadReference, pos,
			"CompactID guidIndex %d outside table of %d entries", cid.GUIDIndex, table.Count())
	}
	cid.Resolved = ExtendedGUID{GUID: g, N: uint32(cid.N)}
	return cid, nil
}

func (c CompactID) String() string {
	return c.Resolved.String()
}

// GlobalIdTable maps guidIndex values to GUIDs within one revision. Indices
// are dense from 0 upward, so the table is a contiguous vector, not a map.
type GlobalIdTable struct {
	entries []GUID
}

func (t *GlobalIdTable) Count() int {
	return len(t.entries)
}

// Add appends the entry for the given index. Entries arrive densely ordered
// between GlobalIdTableStart and GlobalIdTableEnd; a gap or out-of-order
// index is a defect of the input.
func (t *GlobalIdTable) Add(index uint32, g GUID) error {
	if index != uint32(len(t.entries)) {
		return fmt.Errorf("global id table index %d not dense (have %d entries)", index, len(t.entries))
	}
	t.entries = append(t.entries, g)
	return nil
}

func (t *GlobalIdTable) Lookup(index uint32) (GUID, bool) {
	if t == nil || index >= uint32(len(t.entries)) {
		return GUID{}, false
	}
	return t.entries[index], true
}
