package onestore

import (
	"encoding/binary"
)

// fileImage builds synthetic revision-store byte images for tests. Chunks
// are appended sequentially so every offset is known at build time; the root
// reference in the header is patched last.
type fileImage struct {
	buf []byte
}

func newFileImage(fileType GUID) *fileImage {
	img := &fileImage{buf: make([]byte, HEADER_SIZE)}
	copy(img.buf[0:16], fileType[:])
	copy(img.buf[48:64], GUID_FILE_FORMAT[:])
	// fcrFileNodeListRoot (0x0AC) and the other FileChunkReference64x32
	// header fields start out nil
	for _, off := range []int{0x94, 0xA0, 0xAC, 0xB8, 0x100, 0x10C} {
		binary.LittleEndian.PutUint64(img.buf[off:], 0xFFFFFFFFFFFFFFFF)
		binary.LittleEndian.PutUint32(img.buf[off+8:], 0)
	}
	return img
}

func (img *fileImage) len() uint64 {
	return uint64(len(img.buf))
}

// append adds a chunk and returns its absolute offset.
func (img *fileImage) append(b []byte) uint64 {
	off := img.len()
	img.buf = append(img.buf, b...)
	return off
}

// setRoot patches fcrFileNodeListRoot.
func (img *fileImage) setRoot(stp, cb uint64) {
	binary.LittleEndian.PutUint64(img.buf[0xAC:], stp)
	binary.LittleEndian.PutUint32(img.buf[0xAC+8:], uint32(cb))
}

func (img *fileImage) bytes() []byte {
	return img.buf
}

func u8(v uint8) []byte { return []byte{v} }

func u16le(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u64le(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// eguid encodes an ExtendedGUID: guid(16) + n(4).
func eguid(g GUID, n uint32) []byte {
	return cat(g[:], u32le(n))
}

// utf16le encodes a string as little-endian UTF-16 without a terminator.
func utf16le(s string) []byte {
	var out []byte
	for _, r := range s {
		out = append(out, u16le(uint16(r))...)
	}
	return out
}

// sisb encodes a StringInStorageBuffer: cch(4) + UTF-16LE data.
func sisb(s string) []byte {
	data := utf16le(s)
	return cat(u32le(uint32(len(data)/2)), data)
}

// fnode encodes one FileNode: the bit-packed header followed by the body.
func fnode(id uint16, stpFormat, cbFormat, baseType uint8, body []byte) []byte {
	size := uint32(4 + len(body))
	hdr := uint32(id)&0x3FF |
		(size&0x1FFF)<<10 |
		uint32(stpFormat&0x3)<<23 |
		uint32(cbFormat&0x3)<<25 |
		uint32(baseType&0xF)<<27
	return cat(u32le(hdr), body)
}

// ref32x32 encodes a FileNodeChunkReference with StpFormat=1, CbFormat=0.
func ref32x32(stp, cb uint32) []byte {
	return cat(u32le(stp), u32le(cb))
}

// terminatorNode is the ChunkTerminatorFND closing a fragment's node run.
func terminatorNode() []byte {
	return fnode(FND_CHUNK_TERMINATOR, 0, 0, 0, nil)
}

// fragment assembles one FileNodeListFragment around a raw node body.
// nextStp/nextCb form the trailing FileChunkReference64x32; a nil next is
// (all-ones, 0).
func fragment(listID, seq uint32, body []byte, nextStp uint64, nextCb uint32) []byte {
	return cat(
		u64le(FRAGMENT_HEADER_MAGIC),
		u32le(listID),
		u32le(seq),
		body,
		u64le(nextStp),
		u32le(nextCb),
		u64le(FRAGMENT_FOOTER_MAGIC),
	)
}

// lastFragment is a fragment with a nil next-fragment reference.
func lastFragment(listID, seq uint32, nodes ...[]byte) []byte {
	return fragment(listID, seq, cat(append(nodes, terminatorNode())...), 0xFFFFFFFFFFFFFFFF, 0)
}

// appendList appends a single-fragment list of the given nodes and returns
// (stp, cb) for the reference pointing at it.
func (img *fileImage) appendList(listID uint32, nodes ...[]byte) (uint64, uint64) {
	blob := lastFragment(listID, 0, nodes...)
	stp := img.append(blob)
	return stp, uint64(len(blob))
}

// streamHeader encodes an ObjectSpaceObjectStreamHeader.
func streamHeader(count uint32, extendedStreams, osidNotPresent bool) []byte {
	v := count & 0xFFFFFF
	if extendedStreams {
		v |= 1 << 30
	}
	if osidNotPresent {
		v |= 1 << 31
	}
	return u32le(v)
}

// propSetBody encodes a PropertySet: count, the PropertyIDs, the values.
func propSetBody(prids []uint32, values ...[]byte) []byte {
	out := u16le(uint16(len(prids)))
	for _, prid := range prids {
		out = append(out, u32le(prid)...)
	}
	return cat(append([][]byte{out}, values...)...)
}

// objectDeclaration2 encodes an ObjectDeclaration2RefCountFND body with
// StpFormat=1/CbFormat=0.
func objectDeclaration2(stp, cb uint32, oid uint32, jcid uint32, flags, cRef uint8) []byte {
	return fnode(FND_OBJECT_DECLARATION_2_REF_COUNT, 1, 0, 1,
		cat(ref32x32(stp, cb), u32le(oid), u32le(jcid), u8(flags), u8(cRef)))
}

// fileDataStoreObject encodes a complete GUID-framed store. cb of the
// pointing reference must be 36 + len(payload) + 16.
func fileDataStoreObject(payload []byte) []byte {
	return cat(
		GUID_FILE_DATA_STORE_HEADER[:],
		u64le(uint64(len(payload))),
		u32le(0),
		u64le(0),
		payload,
		GUID_FILE_DATA_STORE_FOOTER[:],
	)
}

var (
	testGUID = GUID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10}
	fileGUID = GUID{0xAA, 0xBB, 0xCC, 0xDD, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0x00, 0xA1, 0xB2}
)

// buildManifest wires header -> root list -> object space list -> revision
// list, with the revision list holding the given nodes after a revision
// start and a one-entry global id table (index 0 -> testGUID). rootExtra
// nodes are placed in the root list after the manifest references.
func (img *fileImage) buildManifest(rootExtra [][]byte, revisionNodes ...[]byte) {
	nodes := [][]byte{
		fnode(FND_REVISION_MANIFEST_LIST_START, 0, 0, 0, eguid(testGUID, 1)),
		fnode(FND_REVISION_MANIFEST_START_6, 0, 0, 0,
			cat(eguid(testGUID, 2), eguid(GUID{}, 0), u32le(0), u16le(0))),
		fnode(FND_GLOBAL_ID_TABLE_START_2, 0, 0, 0, nil),
		fnode(FND_GLOBAL_ID_TABLE_ENTRY, 0, 0, 0, cat(u32le(0), testGUID[:])),
		fnode(FND_GLOBAL_ID_TABLE_END, 0, 0, 0, nil),
	}
	nodes = append(nodes, revisionNodes...)
	nodes = append(nodes, fnode(FND_REVISION_MANIFEST_END, 0, 0, 0, nil))
	revStp, revCb := img.appendList(30, nodes...)

	spaceStp, spaceCb := img.appendList(20,
		fnode(FND_OBJECT_SPACE_MANIFEST_LIST_START, 0, 0, 0, eguid(testGUID, 1)),
		fnode(FND_REVISION_MANIFEST_LIST_REFERENCE, 1, 0, 2,
			ref32x32(uint32(revStp), uint32(revCb))),
	)

	rootNodes := [][]byte{
		fnode(FND_OBJECT_SPACE_MANIFEST_ROOT, 0, 0, 0, eguid(testGUID, 1)),
		fnode(FND_OBJECT_SPACE_MANIFEST_LIST_REFERENCE, 1, 0, 2,
			cat(ref32x32(uint32(spaceStp), uint32(spaceCb)), eguid(testGUID, 1))),
	}
	rootNodes = append(rootNodes, rootExtra...)
	rootStp, rootCb := img.appendList(10, rootNodes...)
	img.setRoot(rootStp, rootCb)
}
