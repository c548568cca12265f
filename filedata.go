package onestore

// FileDataStoreObject is the GUID-framed container holding an embedded
// file's bytes verbatim: a 36-byte header, cbLength payload bytes, and a
// 16-byte footer. Header and footer GUIDs must match the well-known
// constants; any mismatch or length overrun is CorruptDataStore and yields
// no payload.
type FileDataStoreObject struct {
	GuidHeader GUID
	CbLength   uint64
	GuidFooter GUID

	// payload is a zero-copy view into the file buffer.
	payload []byte
}

// FileData returns the embedded payload as a slice of the parse buffer.
// Callers copy it out when they need to outlive the parse run.
func (o *FileDataStoreObject) FileData() []byte {
	return o.payload
}

// ReadFileDataStoreObject decodes the store framed by the given reference.
func ReadFileDataStoreObject(r *Reader, ref FileChunkReference) (*FileDataStoreObject, error) {
	if err := ref.Validate(r.Len()); err != nil {
		return nil, err
	}
	if ref.Cb < FILE_DATA_STORE_HEADER_SIZE+FILE_DATA_STORE_FOOTER_SIZE {
		return nil, parseErrorf(CorruptDataStore, ref.Stp,
			"store of %d bytes cannot hold header and footer", ref.Cb)
	}
	if err := r.Seek(ref.Stp); err != nil {
		return nil, err
	}

	o := &FileDataStoreObject{}
	var err error
	if o.GuidHeader, err = r.ReadGUID(); err != nil {
		return nil, err
	}
	if o.GuidHeader != GUID_FILE_DATA_STORE_HEADER {
		return nil, parseErrorf(CorruptDataStore, ref.Stp,
			"store header GUID %s", o.GuidHeader)
	}
	if o.CbLength, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if _, err = r.ReadUint32(); err != nil { // unused
		return nil, err
	}
	if _, err = r.ReadUint64(); err != nil { // reserved
		return nil, err
	}
	if o.CbLength > ref.Cb-FILE_DATA_STORE_HEADER_SIZE-FILE_DATA_STORE_FOOTER_SIZE {
		return nil, parseErrorf(CorruptDataStore, ref.Stp,
			"payload of %d bytes overruns the %d byte store", o.CbLength, ref.Cb)
	}
	payload, err := r.ReadBytes(o.CbLength)
	if err != nil {
		return nil, err
	}

	// the footer sits at the end of the referenced span, after any padding
	if err = r.Seek(ref.Stp + ref.Cb - FILE_DATA_STORE_FOOTER_SIZE); err != nil {
		return nil, err
	}
	if o.GuidFooter, err = r.ReadGUID(); err != nil {
		return nil, err
	}
	if o.GuidFooter != GUID_FILE_DATA_STORE_FOOTER {
		return nil, parseErrorf(CorruptDataStore, ref.Stp+ref.Cb-FILE_DATA_STORE_FOOTER_SIZE,
			"store footer GUID %s", o.GuidFooter)
	}
	o.payload = payload
	return o, nil
}
