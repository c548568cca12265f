package onestore

// ObjectSpaceObjectStreamHeader is the 4-byte header of each CompactID
// stream: a 24-bit count plus the two presence bits that gate the OSIDs and
// ContextIDs streams. Missing the OsidStreamNotPresent bit misaligns every
// read after it, so the bits are honoured here and nowhere else.
type ObjectSpaceObjectStreamHeader struct {
	Count                  uint32
	ExtendedStreamsPresent bool
	OsidStreamNotPresent   bool
}

func readStreamHeader(r *Reader) (ObjectSpaceObjectStreamHeader, error) {
	raw, err := r.ReadUint32()
	if err != nil {
		return ObjectSpaceObjectStreamHeader{}, err
	}
	return ObjectSpaceObjectStreamHeader{
		Count:                  raw & 0xFFFFFF,
		ExtendedStreamsPresent: raw>>30&1 == 1,
		OsidStreamNotPresent:   raw>>31&1 == 1,
	}, nil
}

// IDStream is one of the three CompactID streams of an
// ObjectSpaceObjectPropSet. Consumption is strictly positional: properties
// take ids in order through TakeOne/TakeN, never by random access.
type IDStream struct {
	Header ObjectSpaceObjectStreamHeader
	IDs    []CompactID
	head   int
}

func readIDStream(r *Reader, table *GlobalIdTable) (*IDStream, error) {
	hdr, err := readStreamHeader(r)
	if err != nil {
		return nil, err
	}
	s := &IDStream{Header: hdr}
	for i := uint32(0); i < hdr.Count; i++ {
		cid, err := ReadCompactID(r, table)
		if err != nil {
			return nil, err
		}
		s.IDs = append(s.IDs, cid)
	}
	return s, nil
}

// TakeOne consumes the next CompactID of the stream.
func (s *IDStream) TakeOne(at uint64) (CompactID, error) {
	if s == nil || s.head >= len(s.IDs) {
		return CompactID{}, parseErrorf(PropertyStreamExhausted, at,
			"stream of %d ids exhausted", s.len())
	}
	cid := s.IDs[s.head]
	s.head++
	return cid, nil
}

// TakeN consumes the next n CompactIDs of the stream.
func (s *IDStream) TakeN(at uint64, n uint32) ([]CompactID, error) {
	out := make([]CompactID, 0, n)
	for i := uint32(0); i < n; i++ {
		cid, err := s.TakeOne(at)
		if err != nil {
			return nil, err
		}
		out = append(out, cid)
	}
	return out, nil
}

func (s *IDStream) len() int {
	if s == nil {
		return 0
	}
	return len(s.IDs)
}

// drained reports whether every id of the stream was consumed by the
// property decode, the invariant every well-formed prop set upholds.
func (s *IDStream) drained() bool {
	return s == nil || s.head == len(s.IDs)
}

// PropertyValue is one decoded property: the PropertyID plus the physical
// value selected by the id's 5-bit type tag.
type PropertyValue struct {
	ID   PropertyID
	Bool bool
	// Raw holds fixed-width scalar bytes and FourBytesOfLengthFollowedByData
	// payloads, little-endian as on disk.
	Raw []byte
	// IDs holds the CompactIDs of the ObjectID/ObjectSpaceID/ContextID
	// families.
	IDs []CompactID
	// Set is the nested PropertySet of a PROPERTY_TYPE_PROPERTY_SET value.
	Set *PropertySet
	// Array holds the sets of a PROPERTY_TYPE_ARRAY_OF_PROPERTY_VALUES value.
	Array []*PropertySet
}

// PropertySet is the typed, tagged property bag attached to an object.
type PropertySet struct {
	Values []PropertyValue
}

// Get returns the first property with the given MS-ONE name.
func (ps *PropertySet) Get(name string) (PropertyValue, bool) {
	if ps == nil {
		return PropertyValue{}, false
	}
	for _, v := range ps.Values {
		if v.ID.Name() == name {
			return v, true
		}
	}
	return PropertyValue{}, false
}

// ObjectSpaceObjectPropSet is the full on-disk property block of an object
// declaration: the mandatory OIDs stream, the optional OSIDs and ContextIDs
// streams, then the PropertySet body.
type ObjectSpaceObjectPropSet struct {
	OIDs       *IDStream
	OSIDs      *IDStream
	ContextIDs *IDStream
	Body       *PropertySet
}

// StreamsDrained reports whether property decoding consumed each stream
// exactly; a leftover id means the body and the streams disagree.
func (ps *ObjectSpaceObjectPropSet) StreamsDrained() bool {
	return ps.OIDs.drained() && ps.OSIDs.drained() && ps.ContextIDs.drained()
}

// DecodeObjectPropSet decodes an ObjectSpaceObjectPropSet at the reader's
// position, resolving CompactIDs against the given table.
func DecodeObjectPropSet(r *Reader, table *GlobalIdTable) (*ObjectSpaceObjectPropSet, error) {
	ps := &ObjectSpaceObjectPropSet{}
	var err error
	if ps.OIDs, err = readIDStream(r, table); err != nil {
		return nil, err
	}
	if !ps.OIDs.Header.OsidStreamNotPresent {
		if ps.OSIDs, err = readIDStream(r, table); err != nil {
			return nil, err
		}
	}
	if ps.OIDs.Header.ExtendedStreamsPresent {
		if ps.ContextIDs, err = readIDStream(r, table); err != nil {
			return nil, err
		}
	}
	if ps.Body, err = decodePropertySet(r, ps, 0); err != nil {
		return nil, err
	}
	return ps, nil
}

func decodePropertySet(r *Reader, streams *ObjectSpaceObjectPropSet, depth int) (*PropertySet, error) {
	if depth > MAX_PROPERTY_SET_DEPTH {
		return nil, parseErrorf(DepthExceeded, r.Tell(),
			"property set nesting deeper than %d", MAX_PROPERTY_SET_DEPTH)
	}
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	set := &PropertySet{}
	prids := make([]PropertyID, 0, count)
	for i := uint16(0); i < count; i++ {
		prid, err := ReadPropertyID(r)
		if err != nil {
			return nil, err
		}
		prids = append(prids, prid)
	}
	// values are consumed positionally against the id array
	for _, prid := range prids {
		v, err := decodePropertyValue(r, prid, streams, depth)
		if err != nil {
			return nil, err
		}
		set.Values = append(set.Values, v)
	}
	return set, nil
}

func decodePropertyValue(r *Reader, prid PropertyID, streams *ObjectSpaceObjectPropSet, depth int) (PropertyValue, error) {
	v := PropertyValue{ID: prid}
	at := r.Tell()
	var err error
	switch prid.Type() {
	case PROPERTY_TYPE_NO_DATA:
		// zero bytes

	case PROPERTY_TYPE_BOOL:
		// value carried in the PropertyID itself
		v.Bool = prid.BoolValue()

	case PROPERTY_TYPE_ONE_BYTE:
		v.Raw, err = r.ReadBytes(1)

	case PROPERTY_TYPE_TWO_BYTES:
		v.Raw, err = r.ReadBytes(2)

	case PROPERTY_TYPE_FOUR_BYTES:
		v.Raw, err = r.ReadBytes(4)

	case PROPERTY_TYPE_EIGHT_BYTES:
		v.Raw, err = r.ReadBytes(8)

	case PROPERTY_TYPE_FOUR_BYTES_OF_LENGTH:
		var cb uint32
		if cb, err = r.ReadUint32(); err != nil {
			break
		}
		v.Raw, err = r.ReadBytes(uint64(cb))

	case PROPERTY_TYPE_OBJECT_ID:
		v.IDs, err = takeFromStream(streams.OIDs, at, 1)

	case PROPERTY_TYPE_OBJECT_ID_ARRAY:
		var n uint32
		if n, err = r.ReadUint32(); err != nil {
			break
		}
		v.IDs, err = takeFromStream(streams.OIDs, at, n)

	case PROPERTY_TYPE_OBJECT_SPACE_ID:
		v.IDs, err = takeFromStream(streams.OSIDs, at, 1)

	case PROPERTY_TYPE_OBJECT_SPACE_ID_ARRAY:
		var n uint32
		if n, err = r.ReadUint32(); err != nil {
			break
		}
		v.IDs, err = takeFromStream(streams.OSIDs, at, n)

	case PROPERTY_TYPE_CONTEXT_ID:
		v.IDs, err = takeFromStream(streams.ContextIDs, at, 1)

	case PROPERTY_TYPE_CONTEXT_ID_ARRAY:
		var n uint32
		if n, err = r.ReadUint32(); err != nil {
			break
		}
		v.IDs, err = takeFromStream(streams.ContextIDs, at, n)

	case PROPERTY_TYPE_ARRAY_OF_PROPERTY_VALUES:
		var n uint32
		if n, err = r.ReadUint32(); err != nil {
			break
		}
		for i := uint32(0); i < n; i++ {
			var inner *PropertySet
			if inner, err = decodePropertySet(r, streams, depth+1); err != nil {
				break
			}
			v.Array = append(v.Array, inner)
		}

	case PROPERTY_TYPE_PROPERTY_SET:
		v.Set, err = decodePropertySet(r, streams, depth+1)

	default:
		err = parseErrorf(UnknownNodeId, at, "property type tag 0x%X of %s", prid.Type(), prid)
	}
	return v, err
}

func takeFromStream(s *IDStream, at uint64, n uint32) ([]CompactID, error) {
	return s.TakeN(at, n)
}
