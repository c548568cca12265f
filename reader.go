package onestore

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Reader is a random-access cursor over the fully buffered file. Every byte
// access of the higher layers goes through it so that bounds are enforced in
// one place. Reads past the end fail with TruncatedInput.
type Reader struct {
	data []byte
	pos  uint64
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the total buffer length.
func (r *Reader) Len() uint64 {
	return uint64(len(r.data))
}

// Tell returns the current absolute offset.
func (r *Reader) Tell() uint64 {
	return r.pos
}

// Remaining returns the number of bytes between the cursor and end of file.
func (r *Reader) Remaining() uint64 {
	if r.pos >= uint64(len(r.data)) {
		return 0
	}
	return uint64(len(r.data)) - r.pos
}

// Seek positions the cursor at an absolute offset. Seeking to the end is
// legal, seeking past it is a BadReference.
func (r *Reader) Seek(offset uint64) error {
	if offset > uint64(len(r.data)) {
		return parseErrorf(BadReference, offset, "seek past end of %d byte buffer", len(r.data))
	}
	r.pos = offset
	return nil
}

func (r *Reader) require(n uint64) error {
	if r.Remaining() < n {
		return parseErrorf(TruncatedInput, r.pos, "need %d bytes, %d remaining", n, r.Remaining())
	}
	return nil
}

// ReadBytes returns n bytes as a sub-slice of the underlying buffer, no copy.
func (r *Reader) ReadBytes(n uint64) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadGUID reads 16 bytes stored in the on-disk little-endian field order.
func (r *Reader) ReadGUID() (GUID, error) {
	b, err := r.ReadBytes(16)
	if err != nil {
		return GUID{}, err
	}
	return GUIDFromBytes(b), nil
}

// GUID is a 128-bit identifier in the on-disk little-endian field order.
type GUID [16]byte

func GUIDFromBytes(b []byte) GUID {
	var g GUID
	copy(g[:], b)
	return g
}

// UUID converts the little-endian disk form to a uuid.UUID.
func (g GUID) UUID() uuid.UUID {
	u, err := uuid.FromBytes([]byte{
		g[3], g[2], g[1], g[0],
		g[5], g[4],
		g[7], g[6],
		g[8], g[9], g[10], g[11], g[12], g[13], g[14], g[15],
	})
	if err != nil {
		return uuid.Nil
	}
	return u
}

func (g GUID) String() string {
	return g.UUID().String()
}

func (g GUID) IsZero() bool {
	return g == GUID{}
}
