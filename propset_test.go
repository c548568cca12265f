package onestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *GlobalIdTable {
	t.Helper()
	table := &GlobalIdTable{}
	require.NoError(t, table.Add(0, testGUID))
	return table
}

func TestDecodePropSetScalars(t *testing.T) {
	// one property of every fixed-width class plus Bool and NoData
	prids := []uint32{
		0x1 << 26,          // NoData
		0x2<<26 | 1<<31,    // Bool, true in the id
		0x3 << 26,          // 1 byte
		0x4 << 26,          // 2 bytes
		0x5 << 26,          // 4 bytes
		0x6 << 26,          // 8 bytes
		0x7 << 26,          // length-prefixed raw
	}
	blob := cat(
		streamHeader(0, false, true),
		propSetBody(prids,
			nil,
			nil,
			u8(0xAB),
			u16le(0x1234),
			u32le(0xCAFEBABE),
			u64le(0x1122334455667788),
			cat(u32le(3), []byte{0x01, 0x02, 0x03}),
		),
	)
	r := NewReader(blob)
	ps, err := DecodeObjectPropSet(r, testTable(t))
	require.NoError(t, err)
	require.Len(t, ps.Body.Values, 7)

	assert.Nil(t, ps.Body.Values[0].Raw)
	assert.True(t, ps.Body.Values[1].Bool)
	assert.Equal(t, []byte{0xAB}, ps.Body.Values[2].Raw)
	assert.Equal(t, u16le(0x1234), ps.Body.Values[3].Raw)
	assert.Equal(t, u32le(0xCAFEBABE), ps.Body.Values[4].Raw)
	assert.Equal(t, u64le(0x1122334455667788), ps.Body.Values[5].Raw)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, ps.Body.Values[6].Raw)

	assert.True(t, ps.StreamsDrained())
	assert.Equal(t, uint64(len(blob)), r.Tell(), "decode consumed exactly the block")
}

func TestDecodePropSetStreams(t *testing.T) {
	// OIDs carries 3 ids, OSIDs present with 1, ContextIDs present with 1
	prids := []uint32{
		0x8 << 26,  // ObjectID
		0x9 << 26,  // ObjectIDArray
		0xA << 26,  // ObjectSpaceID
		0xC << 26,  // ContextID
	}
	blob := cat(
		streamHeader(3, true, false), // OIDs: OSIDs follow, extended present
		u32le(0x01), u32le(0x02), u32le(0x03),
		streamHeader(1, false, false), // OSIDs
		u32le(0x04),
		streamHeader(1, false, false), // ContextIDs
		u32le(0x05),
		propSetBody(prids,
			nil,
			u32le(2), // array takes two from OIDs
			nil,
			nil,
		),
	)
	r := NewReader(blob)
	ps, err := DecodeObjectPropSet(r, testTable(t))
	require.NoError(t, err)
	require.NotNil(t, ps.OSIDs)
	require.NotNil(t, ps.ContextIDs)

	require.Len(t, ps.Body.Values[0].IDs, 1)
	assert.Equal(t, uint8(1), ps.Body.Values[0].IDs[0].N)
	require.Len(t, ps.Body.Values[1].IDs, 2)
	assert.Equal(t, uint8(2), ps.Body.Values[1].IDs[0].N)
	assert.Equal(t, uint8(3), ps.Body.Values[1].IDs[1].N)
	require.Len(t, ps.Body.Values[2].IDs, 1)
	assert.Equal(t, uint8(4), ps.Body.Values[2].IDs[0].N)
	require.Len(t, ps.Body.Values[3].IDs, 1)
	assert.Equal(t, uint8(5), ps.Body.Values[3].IDs[0].N)

	assert.True(t, ps.StreamsDrained(), "all three cursors equal their counts")
}

func TestDecodePropSetOsidAbsentBitHonoured(t *testing.T) {
	// OsidStreamNotPresent set: the bytes after the OIDs stream are the body
	blob := cat(
		streamHeader(1, false, true),
		u32le(0x01),
		propSetBody([]uint32{0x8 << 26}, nil),
	)
	r := NewReader(blob)
	ps, err := DecodeObjectPropSet(r, testTable(t))
	require.NoError(t, err)
	assert.Nil(t, ps.OSIDs)
	assert.Nil(t, ps.ContextIDs)
	require.Len(t, ps.Body.Values, 1)
	require.Len(t, ps.Body.Values[0].IDs, 1)
}

func TestDecodePropSetStreamExhausted(t *testing.T) {
	// the body asks for two OIDs, the stream holds one
	blob := cat(
		streamHeader(1, false, true),
		u32le(0x01),
		propSetBody([]uint32{0x9 << 26}, u32le(2)),
	)
	r := NewReader(blob)
	_, err := DecodeObjectPropSet(r, testTable(t))
	require.Error(t, err)
	assert.Equal(t, PropertyStreamExhausted, err.(*ParseError).Kind)
}

func TestDecodePropSetNested(t *testing.T) {
	inner := propSetBody([]uint32{0x3 << 26}, u8(0x7F))
	blob := cat(
		streamHeader(0, false, true),
		propSetBody([]uint32{0x11 << 26}, inner),
	)
	r := NewReader(blob)
	ps, err := DecodeObjectPropSet(r, testTable(t))
	require.NoError(t, err)
	require.NotNil(t, ps.Body.Values[0].Set)
	require.Len(t, ps.Body.Values[0].Set.Values, 1)
	assert.Equal(t, []byte{0x7F}, ps.Body.Values[0].Set.Values[0].Raw)
}

func TestDecodePropSetArrayOfPropertyValues(t *testing.T) {
	element := propSetBody([]uint32{0x3 << 26}, u8(0x01))
	blob := cat(
		streamHeader(0, false, true),
		propSetBody([]uint32{0x10 << 26}, cat(u32le(2), element, element)),
	)
	r := NewReader(blob)
	ps, err := DecodeObjectPropSet(r, testTable(t))
	require.NoError(t, err)
	require.Len(t, ps.Body.Values[0].Array, 2)
	assert.Equal(t, []byte{0x01}, ps.Body.Values[0].Array[1].Values[0].Raw)
}

func TestDecodePropSetEmptyBody(t *testing.T) {
	// count=0 consumes exactly the 2 count bytes after the stream headers
	blob := cat(streamHeader(0, false, true), u16le(0))
	r := NewReader(blob)
	ps, err := DecodeObjectPropSet(r, testTable(t))
	require.NoError(t, err)
	assert.Empty(t, ps.Body.Values)
	assert.Equal(t, uint64(len(blob)), r.Tell())
}

func TestDecodePropSetDepthCeiling(t *testing.T) {
	// nested property sets beyond the ceiling
	blob := propSetBody([]uint32{0x11 << 26})
	for i := 0; i < MAX_PROPERTY_SET_DEPTH+2; i++ {
		blob = propSetBody([]uint32{0x11 << 26}, blob)
	}
	blob = cat(streamHeader(0, false, true), blob)
	r := NewReader(blob)
	_, err := DecodeObjectPropSet(r, testTable(t))
	require.Error(t, err)
	assert.Equal(t, DepthExceeded, err.(*ParseError).Kind)
}

func TestDecodeUTF16(t *testing.T) {
	assert.Equal(t, "Hello", DecodeUTF16(utf16le("Hello")))
	assert.Equal(t, "Hi", DecodeUTF16(cat(utf16le("Hi"), u16le(0))), "trailing NUL stripped")
	assert.Equal(t, "", DecodeUTF16(nil))
}

func TestExtractURLs(t *testing.T) {
	urls := ExtractURLs("go to https://a.example/x, then MAILTO:b@example.com; done (onenote:one#two).")
	assert.Equal(t, []string{"https://a.example/x", "MAILTO:b@example.com", "onenote:one#two"}, urls)

	assert.Empty(t, ExtractURLs("no links here"))
	assert.Len(t, ExtractURLs("https://dup.example https://dup.example"), 1)
}
