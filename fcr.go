package onestore

import "fmt"

// Stp/cb field formats of a FileNodeChunkReference, selected by the
// StpFormat/CbFormat bits of the FileNode header.
const (
	/** stp is 8 bytes, uncompressed */
	STP_FORMAT_UNCOMPRESSED_8 = 0
	/** stp is 4 bytes, uncompressed */
	STP_FORMAT_UNCOMPRESSED_4 = 1
	/** stp is 2 bytes, value multiplied by 8 */
	STP_FORMAT_COMPRESSED_2 = 2
	/** stp is 4 bytes, value multiplied by 8 */
	STP_FORMAT_COMPRESSED_4 = 3

	/** cb is 4 bytes, uncompressed */
	CB_FORMAT_UNCOMPRESSED_4 = 0
	/** cb is 8 bytes, uncompressed */
	CB_FORMAT_UNCOMPRESSED_8 = 1
	/** cb is 1 byte, value multiplied by 8 */
	CB_FORMAT_COMPRESSED_1 = 2
	/** cb is 2 bytes, value multiplied by 8 */
	CB_FORMAT_COMPRESSED_2 = 3
)

// FileChunkReference locates a chunk of the file: stp is the absolute offset,
// cb the byte count. nilStp is the decoded all-ones stp value of the encoding
// the reference was read with, used to recognize the fcrNil sentinel.
type FileChunkReference struct {
	Stp    uint64
	Cb     uint64
	nilStp uint64
}

// IsNil reports the fcrNil sentinel: every stp bit of the encoding set, cb 0.
func (fcr FileChunkReference) IsNil() bool {
	return (fcr.Stp&fcr.nilStp) == fcr.nilStp && fcr.Cb == 0
}

// IsZero reports the fcrZero sentinel: every encoded byte 0.
func (fcr FileChunkReference) IsZero() bool {
	return fcr.Stp == 0 && fcr.Cb == 0
}

// IsAbsent reports whether the reference carries no target. Both sentinels
// mean "no data" and must not be followed.
func (fcr FileChunkReference) IsAbsent() bool {
	return fcr.IsNil() || fcr.IsZero()
}

// Validate checks that the referenced span lies inside the buffer.
func (fcr FileChunkReference) Validate(fileSize uint64) error {
	if fcr.Stp > fileSize || fcr.Cb > fileSize-fcr.Stp {
		return parseErrorf(BadReference, fcr.Stp,
			"chunk [stp=0x%X cb=0x%X] outside %d byte file", fcr.Stp, fcr.Cb, fileSize)
	}
	return nil
}

func (fcr FileChunkReference) String() string {
	return fmt.Sprintf("FileChunkReference:(stp:%d, cb:%d)", fcr.Stp, fcr.Cb)
}

// ReadFileChunkReference32 reads the 8-byte layout: stp u32, cb u32.
func ReadFileChunkReference32(r *Reader) (FileChunkReference, error) {
	stp, err := r.ReadUint32()
	if err != nil {
		return FileChunkReference{}, err
	}
	cb, err := r.ReadUint32()
	if err != nil {
		return FileChunkReference{}, err
	}
	return FileChunkReference{Stp: uint64(stp), Cb: uint64(cb), nilStp: 0xFFFFFFFF}, nil
}

// ReadFileChunkReference64 reads the 16-byte layout: stp u64, cb u64.
func ReadFileChunkReference64(r *Reader) (FileChunkReference, error) {
	stp, err := r.ReadUint64()
	if err != nil {
		return FileChunkReference{}, err
	}
	cb, err := r.ReadUint64()
	if err != nil {
		return FileChunkReference{}, err
	}
	return FileChunkReference{Stp: stp, Cb: cb, nilStp: 0xFFFFFFFFFFFFFFFF}, nil
}

// ReadFileChunkReference64x32 reads the 12-byte layout: stp u64, cb u32.
func ReadFileChunkReference64x32(r *Reader) (FileChunkReference, error) {
	stp, err := r.ReadUint64()
	if err != nil {
		return FileChunkReference{}, err
	}
	cb, err := r.ReadUint32()
	if err != nil {
		return FileChunkReference{}, err
	}
	return FileChunkReference{Stp: stp, Cb: uint64(cb), nilStp: 0xFFFFFFFFFFFFFFFF}, nil
}

// ReadFileNodeChunkReference reads the bit-packed reference embedded in a
// FileNode body. The widths are exhaustively tagged by the header's
// StpFormat/CbFormat, so decoding is pure dispatch. The compressed forms
// carry a value already known to be 8-aligned.
func ReadFileNodeChunkReference(r *Reader, stpFormat, cbFormat uint8) (FileChunkReference, error) {
	var fcr FileChunkReference
	switch stpFormat {
	case STP_FORMAT_UNCOMPRESSED_8:
		stp, err := r.ReadUint64()
		if err != nil {
			return fcr, err
		}
		fcr.Stp = stp
		fcr.nilStp = 0xFFFFFFFFFFFFFFFF
	case STP_FORMAT_UNCOMPRESSED_4:
		stp, err := r.ReadUint32()
		if err != nil {
			return fcr, err
		}
		fcr.Stp = uint64(stp)
		fcr.nilStp = 0xFFFFFFFF
	case STP_FORMAT_COMPRESSED_2:
		stp, err := r.ReadUint16()
		if err != nil {
			return fcr, err
		}
		fcr.Stp = uint64(stp) * 8
		fcr.nilStp = 0xFFFF * 8
	case STP_FORMAT_COMPRESSED_4:
		stp, err := r.ReadUint32()
		if err != nil {
			return fcr, err
		}
		fcr.Stp = uint64(stp) * 8
		fcr.nilStp = 0xFFFFFFFF * 8
	default:
		return fcr, parseErrorf(BadReference, r.Tell(), "invalid StpFormat %d", stpFormat)
	}

	switch cbFormat {
	case CB_FORMAT_UNCOMPRESSED_4:
		cb, err := r.ReadUint32()
		if err != nil {
			return fcr, err
		}
		fcr.Cb = uint64(cb)
	case CB_FORMAT_UNCOMPRESSED_8:
		cb, err := r.ReadUint64()
		if err != nil {
			return fcr, err
		}
		fcr.Cb = cb
	case CB_FORMAT_COMPRESSED_1:
		cb, err := r.ReadUint8()
		if err != nil {
			return fcr, err
		}
		fcr.Cb = uint64(cb) * 8
	case CB_FORMAT_COMPRESSED_2:
		cb, err := r.ReadUint16()
		if err != nil {
			return fcr, err
		}
		fcr.Cb = uint64(cb) * 8
	default:
		return fcr, parseErrorf(BadReference, r.Tell(), "invalid CbFormat %d", cbFormat)
	}
	return fcr, nil
}
