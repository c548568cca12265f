package onestore

// Header is the fixed 1024-byte record at offset 0 (MS-ONESTORE 2.3.1). The
// core follows only fcrFileNodeListRoot; everything else is read-through
// metadata surfaced in the report.
type Header struct {
	GuidFileType          GUID `json:"guidFileType"`
	GuidFile              GUID `json:"guidFile"`
	GuidLegacyFileVersion GUID `json:"guidLegacyFileVersion"`
	GuidFileFormat        GUID `json:"guidFileFormat"`

	FfvLastCodeThatWroteToThisFile        uint32 `json:"ffvLastCodeThatWroteToThisFile"`
	FfvOldestCodeThatHasWrittenToThisFile uint32 `json:"ffvOldestCodeThatHasWrittenToThisFile"`
	FfvNewestCodeThatHasWrittenToThisFile uint32 `json:"ffvNewestCodeThatHasWrittenToThisFile"`
	FfvOldestCodeThatMayReadThisFile      uint32 `json:"ffvOldestCodeThatMayReadThisFile"`

	FcrLegacyFreeChunkList  FileChunkReference `json:"-"`
	FcrLegacyTransactionLog FileChunkReference `json:"-"`

	CTransactionsInLog              uint32 `json:"cTransactionsInLog"`
	CbLegacyExpectedFileLength      uint32 `json:"cbLegacyExpectedFileLength"`
	RgbPlaceholder                  uint64 `json:"-"`
	FcrLegacyFileNodeListRoot       FileChunkReference `json:"-"`
	CbLegacyFreeSpaceInFreeChunkList uint32 `json:"-"`

	FNeedsDefrag              uint8 `json:"fNeedsDefrag"`
	FRepairedFile             uint8 `json:"fRepairedFile"`
	FNeedsGarbageCollect      uint8 `json:"fNeedsGarbageCollect"`
	FHasNoEmbeddedFileObjects uint8 `json:"fHasNoEmbeddedFileObjects"`

	GuidAncestor GUID   `json:"guidAncestor"`
	CrcName      uint32 `json:"crcName"`

	FcrHashedChunkList  FileChunkReference `json:"-"`
	FcrTransactionLog   FileChunkReference `json:"-"`
	FcrFileNodeListRoot FileChunkReference `json:"-"`
	FcrFreeChunkList    FileChunkReference `json:"-"`

	CbExpectedFileLength       uint64 `json:"cbExpectedFileLength"`
	CbFreeSpaceInFreeChunkList uint64 `json:"cbFreeSpaceInFreeChunkList"`

	GuidFileVersion         GUID   `json:"guidFileVersion"`
	NFileVersionGeneration  uint64 `json:"nFileVersionGeneration"`
	GuidDenyReadFileVersion GUID   `json:"guidDenyReadFileVersion"`
	GrfDebugLogFlags        uint32 `json:"grfDebugLogFlags"`

	FcrDebugLog                       FileChunkReference `json:"-"`
	FcrAllocVerificationFreeChunkList FileChunkReference `json:"-"`

	BnCreated             uint32 `json:"bnCreated"`
	BnLastWroteToThisFile uint32 `json:"bnLastWroteToThisFile"`
	BnOldestWritten       uint32 `json:"bnOldestWritten"`
	BnNewestWritten       uint32 `json:"bnNewestWritten"`

	// FileType classifies guidFileType against the two permitted signatures.
	FileType FileType `json:"fileType"`
}

// ParseHeader validates the file-type GUID and decodes the whole 1024-byte
// header. A signature mismatch fails with BadSignature before anything else
// is read.
func ParseHeader(r *Reader) (*Header, error) {
	if err := r.Seek(0); err != nil {
		return nil, err
	}
	if r.Remaining() < HEADER_SIZE {
		return nil, parseErrorf(TruncatedInput, 0,
			"file of %d bytes is smaller than the %d byte header", r.Len(), HEADER_SIZE)
	}

	h := &Header{}
	var err error
	if h.GuidFileType, err = r.ReadGUID(); err != nil {
		return nil, err
	}
	switch h.GuidFileType {
	case GUID_FILE_TYPE_ONE:
		h.FileType = FileTypeOne
	case GUID_FILE_TYPE_ONETOC2:
		h.FileType = FileTypeOneToc2
	default:
		return nil, parseErrorf(BadSignature, 0,
			"first 16 bytes %s match neither known file type", h.GuidFileType)
	}

	if h.GuidFile, err = r.ReadGUID(); err != nil {
		return nil, err
	}
	if h.GuidLegacyFileVersion, err = r.ReadGUID(); err != nil {
		return nil, err
	}
	if h.GuidFileFormat, err = r.ReadGUID(); err != nil {
		return nil, err
	}
	if h.FfvLastCodeThatWroteToThisFile, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.FfvOldestCodeThatHasWrittenToThisFile, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.FfvNewestCodeThatHasWrittenToThisFile, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.FfvOldestCodeThatMayReadThisFile, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.FcrLegacyFreeChunkList, err = ReadFileChunkReference32(r); err != nil {
		return nil, err
	}
	if h.FcrLegacyTransactionLog, err = ReadFileChunkReference32(r); err != nil {
		return nil, err
	}
	if h.CTransactionsInLog, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.CbLegacyExpectedFileLength, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.RgbPlaceholder, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if h.FcrLegacyFileNodeListRoot, err = ReadFileChunkReference32(r); err != nil {
		return nil, err
	}
	if h.CbLegacyFreeSpaceInFreeChunkList, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.FNeedsDefrag, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if h.FRepairedFile, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if h.FNeedsGarbageCollect, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if h.FHasNoEmbeddedFileObjects, err = r.ReadUint8(); err != nil {
		return nil, err
	}
	if h.GuidAncestor, err = r.ReadGUID(); err != nil {
		return nil, err
	}
	if h.CrcName, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.FcrHashedChunkList, err = ReadFileChunkReference64x32(r); err != nil {
		return nil, err
	}
	if h.FcrTransactionLog, err = ReadFileChunkReference64x32(r); err != nil {
		return nil, err
	}
	if h.FcrFileNodeListRoot, err = ReadFileChunkReference64x32(r); err != nil {
		return nil, err
	}
	if h.FcrFreeChunkList, err = ReadFileChunkReference64x32(r); err != nil {
		return nil, err
	}
	if h.CbExpectedFileLength, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if h.CbFreeSpaceInFreeChunkList, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if h.GuidFileVersion, err = r.ReadGUID(); err != nil {
		return nil, err
	}
	if h.NFileVersionGeneration, err = r.ReadUint64(); err != nil {
		return nil, err
	}
	if h.GuidDenyReadFileVersion, err = r.ReadGUID(); err != nil {
		return nil, err
	}
	if h.GrfDebugLogFlags, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.FcrDebugLog, err = ReadFileChunkReference64x32(r); err != nil {
		return nil, err
	}
	if h.FcrAllocVerificationFreeChunkList, err = ReadFileChunkReference64x32(r); err != nil {
		return nil, err
	}
	if h.BnCreated, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.BnLastWroteToThisFile, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.BnOldestWritten, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if h.BnNewestWritten, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	// rgbReserved, 728 bytes of zero padding up to HEADER_SIZE
	if err = r.Seek(HEADER_SIZE); err != nil {
		return nil, err
	}
	return h, nil
}
