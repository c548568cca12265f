package onestore

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyOneFile(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONE)

	doc, err := Parse(img.bytes())
	require.NoError(t, err)
	assert.Equal(t, FileTypeOne, doc.FileType())
	assert.Empty(t, doc.ObjectSpaces)
	assert.Empty(t, doc.Files())
	assert.Empty(t, doc.Diagnostics)
}

func TestParseBadSignature(t *testing.T) {
	data := make([]byte, HEADER_SIZE)
	data[0] = 0x42

	_, err := Parse(data)
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, BadSignature, pe.Kind)
}

func TestParseTruncatedHeader(t *testing.T) {
	data := make([]byte, 100)
	copy(data, GUID_FILE_TYPE_ONE[:])

	_, err := Parse(data)
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, TruncatedInput, pe.Kind)
}

func TestParseTocSectionEntry(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONETOC2)

	propSet := cat(
		streamHeader(0, false, true), // OIDs: empty, no OSIDs, no ContextIDs
		propSetBody(
			[]uint32{0x1C00349B}, // SectionDisplayName, FourBytesOfLengthFollowedByData
			cat(u32le(uint32(len(utf16le("Section A")))), utf16le("Section A")),
		),
	)
	psStp := img.append(propSet)

	img.buildManifest(nil,
		objectDeclaration2(uint32(psStp), uint32(len(propSet)), 0x0001, 0x00060007, 0, 1),
	)

	doc, err := Parse(img.bytes())
	require.NoError(t, err)
	assert.Empty(t, doc.Diagnostics)
	assert.Equal(t, FileTypeOneToc2, doc.FileType())

	props := doc.Properties()
	require.Len(t, props, 1)
	assert.Equal(t, "jcidSectionNode", props[0].Type)
	assert.Equal(t, "Section A", props[0].Values["SectionDisplayName"])
}

func TestParsePageOutlineRichText(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONE)

	pageSet := cat(
		streamHeader(0, false, true),
		propSetBody([]uint32{0x1C001CF3}, // CachedTitleString
			cat(u32le(uint32(len(utf16le("Notes")))), utf16le("Notes"))),
	)
	pageStp := img.append(pageSet)

	outlineSet := cat(
		streamHeader(0, false, true),
		propSetBody(nil),
	)
	outlineStp := img.append(outlineSet)

	textSet := cat(
		streamHeader(0, false, true),
		propSetBody([]uint32{0x1C001C22}, // RichEditTextUnicode
			cat(u32le(uint32(len(utf16le("Hello")))), utf16le("Hello"))),
	)
	textStp := img.append(textSet)

	img.buildManifest(nil,
		objectDeclaration2(uint32(pageStp), uint32(len(pageSet)), 0x0001, 0x0006000B, 0, 1),
		objectDeclaration2(uint32(outlineStp), uint32(len(outlineSet)), 0x0002, 0x0006000C, 0, 1),
		objectDeclaration2(uint32(textStp), uint32(len(textSet)), 0x0003, 0x0006000E, 0, 1),
	)

	doc, err := Parse(img.bytes())
	require.NoError(t, err)
	assert.Empty(t, doc.Diagnostics)

	props := doc.Properties()
	require.Len(t, props, 3)
	byType := make(map[string]PropertyBag)
	for _, bag := range props {
		byType[bag.Type] = bag
	}
	assert.Contains(t, byType, "jcidPageNode")
	assert.Contains(t, byType, "jcidOutlineNode")
	require.Contains(t, byType, "jcidRichTextOENode")
	assert.Equal(t, "Hello", byType["jcidRichTextOENode"].Values["RichEditTextUnicode"])
}

func buildEmbeddedFileImage(t *testing.T, corruptFooter bool) (*fileImage, GUID) {
	t.Helper()
	img := newFileImage(GUID_FILE_TYPE_ONE)

	store := fileDataStoreObject([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	if corruptFooter {
		store[len(store)-1] ^= 0xFF
	}
	storeStp := img.append(store)

	// file-data store list with the object reference
	storeListStp, storeListCb := img.appendList(40,
		fnode(FND_FILE_DATA_STORE_OBJECT_REFERENCE, 1, 0, 1,
			cat(ref32x32(uint32(storeStp), uint32(len(store))), fileGUID[:])),
	)

	// the embedded-file node's property set: container + name
	fileRef := "<ifndf>{" + fileGUID.String() + "}"
	nameData := utf16le("a.bin")
	embedSet := cat(
		streamHeader(1, false, true), // one OID, no OSIDs
		u32le(0x0002),                // CompactID n=2, guidIndex=0
		propSetBody(
			[]uint32{0x20001D9B, 0x1C001D9C}, // EmbeddedFileContainer, EmbeddedFileName
			nil,                              // ObjectID: consumed from the stream
			cat(u32le(uint32(len(nameData))), nameData),
		),
	)
	embedStp := img.append(embedSet)

	img.buildManifest(
		[][]byte{fnode(FND_FILE_DATA_STORE_LIST_REFERENCE, 1, 0, 2,
			ref32x32(uint32(storeListStp), uint32(storeListCb)))},
		objectDeclaration2(uint32(embedStp), uint32(len(embedSet)), 0x0001, 0x00060035, 1, 1),
		fnode(FND_OBJECT_DECLARATION_FILE_DATA_3, 0, 0, 0,
			cat(u32le(0x0002), u32le(0x00060035), u8(1), sisb(fileRef), sisb(".bin"))),
	)
	return img, fileGUID
}

func TestParseEmbeddedFile(t *testing.T) {
	img, storeGUID := buildEmbeddedFileImage(t, false)

	doc, err := Parse(img.bytes())
	require.NoError(t, err)
	assert.Empty(t, doc.Diagnostics)

	files := doc.Files()
	require.Len(t, files, 1)
	f := files[0]
	assert.Equal(t, storeGUID.String(), f.GUID)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, f.Content())
	assert.Equal(t, ".bin", f.Extension)
	assert.Equal(t, "a.bin", f.SuggestedName)
	assert.NotEmpty(t, f.Identity)
}

func TestParseCorruptDataStoreFooter(t *testing.T) {
	img, _ := buildEmbeddedFileImage(t, true)

	doc, err := Parse(img.bytes())
	require.NoError(t, err)

	var kinds []ErrKind
	for _, d := range doc.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, CorruptDataStore)
	// the payload is not emitted
	assert.Empty(t, doc.FileStores)
	for _, f := range doc.Files() {
		assert.Nil(t, f.Content())
	}
}

func TestParseUndersizedNodeContinuesChain(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONE)

	// fragment 2: well formed, a declaration-free revision manifest list
	frag2 := lastFragment(50, 1,
		fnode(FND_GLOBAL_ID_TABLE_START_2, 0, 0, 0, nil),
		fnode(FND_GLOBAL_ID_TABLE_END, 0, 0, 0, nil),
	)
	frag2Stp := img.append(frag2)

	// fragment 1: a node header declaring Size=3, below the 4 byte minimum
	badHeader := uint32(FND_OBJECT_SPACE_MANIFEST_ROOT) | 3<<10
	frag1 := fragment(50, 0, u32le(badHeader), frag2Stp, uint32(len(frag2)))
	frag1Stp := img.append(frag1)
	img.setRoot(frag1Stp, uint64(len(frag1)))

	doc, err := Parse(img.bytes())
	require.NoError(t, err)

	require.NotEmpty(t, doc.Diagnostics)
	assert.Equal(t, TruncatedInput, doc.Diagnostics[0].Kind)
	// the bad node's offset: fragment start + 16 byte fragment header
	assert.Equal(t, frag1Stp+16, doc.Diagnostics[0].Offset)
	// only the one diagnostic: fragment 2 walked cleanly
	assert.Len(t, doc.Diagnostics, 1)
}

func TestParseUnknownNodeIsSkipped(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONE)

	unknown := fnode(0x3A1, 0, 0, 0, []byte{1, 2, 3, 4})
	img.buildManifest(nil, unknown)

	doc, err := Parse(img.bytes())
	require.NoError(t, err)

	var kinds []ErrKind
	for _, d := range doc.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, UnknownNodeId)
	// the walk did not abort: the object space and revision are intact
	require.Len(t, doc.ObjectSpaces, 1)
	require.Len(t, doc.ObjectSpaces[0].Revisions, 1)
}

func TestParseReservedBitDiagnostic(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONE)

	node := fnode(FND_GLOBAL_ID_TABLE_START_2, 0, 0, 0, nil)
	binary.LittleEndian.PutUint32(node,
		binary.LittleEndian.Uint32(node)|1<<31)
	img.buildManifest(nil, node)

	doc, err := Parse(img.bytes())
	require.NoError(t, err)

	var kinds []ErrKind
	for _, d := range doc.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, ReservedBitSet)
}

func TestParseDeterministic(t *testing.T) {
	img, _ := buildEmbeddedFileImage(t, false)

	doc1, err := Parse(img.bytes())
	require.NoError(t, err)
	doc2, err := Parse(img.bytes())
	require.NoError(t, err)

	assert.Equal(t, doc1.Properties(), doc2.Properties())
	assert.Equal(t, doc1.Links(), doc2.Links())
	require.Len(t, doc2.Files(), len(doc1.Files()))
	for i := range doc1.Files() {
		assert.Equal(t, doc1.Files()[i].Content(), doc2.Files()[i].Content())
	}
}

func TestParseCurrentRevisionWins(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONE)

	oldSet := cat(streamHeader(0, false, true),
		propSetBody([]uint32{0x1C00349B},
			cat(u32le(uint32(len(utf16le("Old")))), utf16le("Old"))))
	oldStp := img.append(oldSet)
	newSet := cat(streamHeader(0, false, true),
		propSetBody([]uint32{0x1C00349B},
			cat(u32le(uint32(len(utf16le("New")))), utf16le("New"))))
	newStp := img.append(newSet)

	table := [][]byte{
		fnode(FND_GLOBAL_ID_TABLE_START_2, 0, 0, 0, nil),
		fnode(FND_GLOBAL_ID_TABLE_ENTRY, 0, 0, 0, cat(u32le(0), testGUID[:])),
		fnode(FND_GLOBAL_ID_TABLE_END, 0, 0, 0, nil),
	}
	revisionStart := func(n uint32) []byte {
		return fnode(FND_REVISION_MANIFEST_START_6, 0, 0, 0,
			cat(eguid(testGUID, n), eguid(GUID{}, 0), u32le(0), u16le(0)))
	}
	nodes := [][]byte{revisionStart(1)}
	nodes = append(nodes, table...)
	nodes = append(nodes,
		objectDeclaration2(uint32(oldStp), uint32(len(oldSet)), 0x0001, 0x00060007, 0, 1),
		fnode(FND_REVISION_MANIFEST_END, 0, 0, 0, nil),
		revisionStart(2))
	nodes = append(nodes, table...)
	nodes = append(nodes,
		objectDeclaration2(uint32(newStp), uint32(len(newSet)), 0x0001, 0x00060007, 0, 1),
		fnode(FND_REVISION_MANIFEST_END, 0, 0, 0, nil))

	revStp, revCb := img.appendList(30, nodes...)
	spaceStp, spaceCb := img.appendList(20,
		fnode(FND_REVISION_MANIFEST_LIST_REFERENCE, 1, 0, 2,
			ref32x32(uint32(revStp), uint32(revCb))))
	rootStp, rootCb := img.appendList(10,
		fnode(FND_OBJECT_SPACE_MANIFEST_LIST_REFERENCE, 1, 0, 2,
			cat(ref32x32(uint32(spaceStp), uint32(spaceCb)), eguid(testGUID, 1))))
	img.setRoot(rootStp, rootCb)

	doc, err := Parse(img.bytes())
	require.NoError(t, err)
	assert.Empty(t, doc.Diagnostics)

	require.Len(t, doc.ObjectSpaces, 1)
	assert.Len(t, doc.ObjectSpaces[0].Revisions, 2)

	props := doc.Properties()
	require.Len(t, props, 1)
	assert.Equal(t, "New", props[0].Values["SectionDisplayName"])
}

func TestParseTerminatorOnlyRootList(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONE)
	stp, cb := img.appendList(10)
	img.setRoot(stp, cb)

	doc, err := Parse(img.bytes())
	require.NoError(t, err)
	assert.Empty(t, doc.Diagnostics)
	assert.Empty(t, doc.ObjectSpaces)
}

func TestParseZeroReferenceDeclaration(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONE)
	img.buildManifest(nil,
		// an all-zero data reference means an empty payload, not an error
		objectDeclaration2(0, 0, 0x0001, 0x00060007, 0, 1),
	)

	doc, err := Parse(img.bytes())
	require.NoError(t, err)
	assert.Empty(t, doc.Diagnostics)

	require.Len(t, doc.ObjectSpaces, 1)
	rev := doc.ObjectSpaces[0].Current()
	require.NotNil(t, rev)
	require.Len(t, rev.Objects, 1)
	assert.Nil(t, rev.Objects[0].PropSet)
}

func TestParseLinks(t *testing.T) {
	img := newFileImage(GUID_FILE_TYPE_ONE)

	text := "see https://example.com/a, and http://example.com/b."
	set := cat(
		streamHeader(0, false, true),
		propSetBody(
			[]uint32{0x1C001C22, 0x1C001E20}, // RichEditTextUnicode, WzHyperlinkUrl
			cat(u32le(uint32(len(utf16le(text)))), utf16le(text)),
			cat(u32le(uint32(len(utf16le("onenote:section#page")))), utf16le("onenote:section#page")),
		),
	)
	stp := img.append(set)
	img.buildManifest(nil,
		objectDeclaration2(uint32(stp), uint32(len(set)), 0x0001, 0x0006000E, 0, 1))

	doc, err := Parse(img.bytes())
	require.NoError(t, err)
	assert.Empty(t, doc.Diagnostics)

	links := doc.Links()
	urls := make(map[string]string)
	for _, l := range links {
		urls[l.URL] = l.Source
	}
	assert.Equal(t, "WzHyperlinkUrl", urls["onenote:section#page"])
	assert.Equal(t, "RichEditTextUnicode", urls["https://example.com/a"])
	assert.Equal(t, "RichEditTextUnicode", urls["http://example.com/b"])
}
