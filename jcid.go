package onestore

import "fmt"

// JCID object class indices that matter to dispatch.
const (
	JCID_SECTION_NODE       = 0x00060007
	JCID_PAGE_SERIES_NODE   = 0x00060008
	JCID_PAGE_NODE          = 0x0006000B
	JCID_OUTLINE_NODE       = 0x0006000C
	JCID_OUTLINE_ELEMENT    = 0x0006000D
	JCID_RICH_TEXT_OE_NODE  = 0x0006000E
	JCID_IMAGE_NODE         = 0x00060011
	JCID_EMBEDDED_FILE_NODE = 0x00060035
)

// jcidNames maps the full 32-bit jcid value to its MS-ONE name.
var jcidNames = map[uint32]string{
	0x00120001: "jcidReadOnlyPersistablePropertyContainerForAuthor",
	0x00020001: "jcidPersistablePropertyContainerForTOC",
	0x00060007: "jcidSectionNode",
	0x00060008: "jcidPageSeriesNode",
	0x0006000B: "jcidPageNode",
	0x0006000C: "jcidOutlineNode",
	0x0006000D: "jcidOutlineElementNode",
	0x0006000E: "jcidRichTextOENode",
	0x00060011: "jcidImageNode",
	0x00060012: "jcidNumberListNode",
	0x00060019: "jcidOutlineGroup",
	0x00060022: "jcidTableNode",
	0x00060023: "jcidTableRowNode",
	0x00060024: "jcidTableCellNode",
	0x0006002C: "jcidTitleNode",
	0x00020030: "jcidPageMetaData",
	0x00020031: "jcidSectionMetaData",
	0x00060035: "jcidEmbeddedFileNode",
	0x00060037: "jcidPageManifestNode",
	0x00020038: "jcidConflictPageMetaData",
	0x0006003C: "jcidVersionHistoryContent",
	0x0006003D: "jcidVersionProxy",
	0x00120043: "jcidNoteTagSharedDefinitionContainer",
	0x00020044: "jcidRevisionMetaData",
	0x00020046: "jcidVersionHistoryMetaData",
	0x0012004D: "jcidParagraphStyleObject",
}

// JCID is the 4-byte typed object-class identifier: a 16-bit index plus flag
// bits selecting how the object body is interpreted.
type JCID struct {
	Value uint32
}

func ReadJCID(r *Reader) (JCID, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return JCID{}, err
	}
	return JCID{Value: v}, nil
}

func (j JCID) Index() uint16      { return uint16(j.Value & 0xFFFF) }
func (j JCID) IsBinary() bool     { return j.Value>>16&1 == 1 }
func (j JCID) IsPropertySet() bool { return j.Value>>17&1 == 1 }
func (j JCID) IsGraphNode() bool  { return j.Value>>18&1 == 1 }
func (j JCID) IsFileData() bool   { return j.Value>>19&1 == 1 }
func (j JCID) IsReadOnly() bool   { return j.Value>>20&1 == 1 }

// IsFileBearing reports whether the declaration routes to the file-data
// extractor: the IsFileData flag or a class known to carry an embedded
// payload.
func (j JCID) IsFileBearing() bool {
	return j.IsFileData() ||
		j.Value == JCID_EMBEDDED_FILE_NODE ||
		j.Value == JCID_IMAGE_NODE
}

// Name returns the MS-ONE name of the class, or "Unknown".
func (j JCID) Name() string {
	if name, ok := jcidNames[j.Value]; ok {
		return name
	}
	return "Unknown"
}

func (j JCID) String() string {
	if name, ok := jcidNames[j.Value]; ok {
		return name
	}
	return fmt.Sprintf("jcid(0x%08X)", j.Value)
}
