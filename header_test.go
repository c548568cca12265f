package onestore

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderFields(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONE)
	buf := img.bytes()
	copy(buf[0x10:], testGUID[:])                      // guidFile
	binary.LittleEndian.PutUint32(buf[0x60:], 7)       // cTransactionsInLog
	binary.LittleEndian.PutUint64(buf[0xC4:], 4096)    // cbExpectedFileLength
	binary.LittleEndian.PutUint32(buf[0x118:], 0x2A)   // bnCreated
	binary.LittleEndian.PutUint64(buf[0xAC:], 0x1234)  // fcrFileNodeListRoot.stp
	binary.LittleEndian.PutUint32(buf[0xAC+8:], 0x200) // fcrFileNodeListRoot.cb

	r := NewReader(buf)
	h, err := ParseHeader(r)
	require.NoError(t, err)

	assert.Equal(t, FileTypeOne, h.FileType)
	assert.Equal(t, testGUID, h.GuidFile)
	assert.Equal(t, GUID_FILE_FORMAT, h.GuidFileFormat)
	assert.Equal(t, uint32(7), h.CTransactionsInLog)
	assert.Equal(t, uint64(4096), h.CbExpectedFileLength)
	assert.Equal(t, uint32(0x2A), h.BnCreated)
	assert.Equal(t, uint64(0x1234), h.FcrFileNodeListRoot.Stp)
	assert.Equal(t, uint64(0x200), h.FcrFileNodeListRoot.Cb)
	assert.False(t, h.FcrFileNodeListRoot.IsAbsent())
	assert.True(t, h.FcrTransactionLog.IsNil(), "transaction log is exposed but not followed")
	assert.Equal(t, uint64(HEADER_SIZE), r.Tell())
}

func TestParseHeaderOnetoc2(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONETOC2)
	r := NewReader(img.bytes())
	h, err := ParseHeader(r)
	require.NoError(t, err)
	assert.Equal(t, FileTypeOneToc2, h.FileType)
}
