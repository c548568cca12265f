package onestore

// universal file layout constants
const (
	/** Size of the fixed header at offset 0 */
	HEADER_SIZE = 1024

	/** FileNodeListFragment header: magic(8) + FileNodeListID(4) + nFragmentSequence(4) */
	FRAGMENT_HEADER_SIZE = 16
	/** next-fragment FileChunkReference64x32(12) + footer magic(8) */
	FRAGMENT_TRAILER_SIZE = 20
	/** uintMagic of a FileNodeListFragment header */
	FRAGMENT_HEADER_MAGIC uint64 = 0xA4567AB1F5F7F4C4
	/** footer magic closing every FileNodeListFragment */
	FRAGMENT_FOOTER_MAGIC uint64 = 0x8BC215C38233BA4B

	/** FileDataStoreObject header: guidHeader(16) + cbLength(8) + unused(4) + reserved(8) */
	FILE_DATA_STORE_HEADER_SIZE = 36
	/** FileDataStoreObject footer: guidFooter(16) */
	FILE_DATA_STORE_FOOTER_SIZE = 16

	/** recursion ceiling of the FileNodeList walk */
	MAX_LIST_DEPTH = 32
	/** recursion ceiling of the PropertySet decode */
	MAX_PROPERTY_SET_DEPTH = 16
	/** sanity limit on fragments chained into one logical list */
	MAX_FRAGMENT_CHAIN = 4096
)

// File type GUIDs, bit-exact little-endian byte sequences at offset 0.
var (
	/** .one section file: {7B5C52E4-D88C-4DA7-AEB1-5378D02996D3} */
	GUID_FILE_TYPE_ONE = GUID{
		0xE4, 0x52, 0x5C, 0x7B, 0x8C, 0xD8, 0xA7, 0x4D,
		0xAE, 0xB1, 0x53, 0x78, 0xD0, 0x29, 0x96, 0xD3,
	}
	/** .onetoc2 table of contents: {43FF2FA1-EFD9-4C76-9EE2-10EA5722765F} */
	GUID_FILE_TYPE_ONETOC2 = GUID{
		0xA1, 0x2F, 0xFF, 0x43, 0xD9, 0xEF, 0x76, 0x4C,
		0x9E, 0xE2, 0x10, 0xEA, 0x57, 0x22, 0x76, 0x5F,
	}
	/** revision store format: {109ADD3F-911B-49F5-A5D0-1791EDC8AED8} */
	GUID_FILE_FORMAT = GUID{
		0x3F, 0xDD, 0x9A, 0x10, 0x1B, 0x91, 0xF5, 0x49,
		0xA5, 0xD0, 0x17, 0x91, 0xED, 0xC8, 0xAE, 0xD8,
	}
	/** FileDataStoreObject guidHeader: {BDE316E7-2665-4511-A4C4-8D4D0B7A9EAC} */
	GUID_FILE_DATA_STORE_HEADER = GUID{
		0xE7, 0x16, 0xE3, 0xBD, 0x65, 0x26, 0x11, 0x45,
		0xA4, 0xC4, 0x8D, 0x4D, 0x0B, 0x7A, 0x9E, 0xAC,
	}
	/** FileDataStoreObject guidFooter: {71FBA722-0F79-4A0B-BB13-899256426B24} */
	GUID_FILE_DATA_STORE_FOOTER = GUID{
		0x22, 0xA7, 0xFB, 0x71, 0x79, 0x0F, 0x0B, 0x4A,
		0xBB, 0x13, 0x89, 0x92, 0x56, 0x42, 0x6B, 0x24,
	}
)

// FileType identifies which of the two permitted signatures a file carries.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeOne
	FileTypeOneToc2
)

func (t FileType) String() string {
	switch t {
	case FileTypeOne:
		return "one"
	case FileTypeOneToc2:
		return "onetoc2"
	}
	return "unknown"
}
