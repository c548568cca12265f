package onestore

import "fmt"

// Property value type tags, bits 26-30 of a PropertyID.
const (
	PROPERTY_TYPE_NO_DATA              = 0x1
	PROPERTY_TYPE_BOOL                 = 0x2
	PROPERTY_TYPE_ONE_BYTE             = 0x3
	PROPERTY_TYPE_TWO_BYTES            = 0x4
	PROPERTY_TYPE_FOUR_BYTES           = 0x5
	PROPERTY_TYPE_EIGHT_BYTES          = 0x6
	PROPERTY_TYPE_FOUR_BYTES_OF_LENGTH = 0x7
	PROPERTY_TYPE_OBJECT_ID            = 0x8
	PROPERTY_TYPE_OBJECT_ID_ARRAY      = 0x9
	PROPERTY_TYPE_OBJECT_SPACE_ID      = 0xA
	PROPERTY_TYPE_OBJECT_SPACE_ID_ARRAY = 0xB
	PROPERTY_TYPE_CONTEXT_ID           = 0xC
	PROPERTY_TYPE_CONTEXT_ID_ARRAY     = 0xD
	PROPERTY_TYPE_ARRAY_OF_PROPERTY_VALUES = 0x10
	PROPERTY_TYPE_PROPERTY_SET         = 0x11
)

// propertyNames maps full 32-bit PropertyID values to their MS-ONE names.
// Only named properties are surfaced in reports; unnamed ones are decoded for
// alignment but dropped, as the original tool does.
var propertyNames = map[uint32]string{
	0x08001C00: "LayoutTightLayout",
	0x14001C01: "PageWidth",
	0x14001C02: "PageHeight",
	0x0C001C03: "OutlineElementChildLevel",
	0x08001C04: "Bold",
	0x08001C05: "Italic",
	0x08001C06: "Underline",
	0x08001C07: "Strikethrough",
	0x08001C08: "Superscript",
	0x08001C09: "Subscript",
	0x1C001C0A: "Font",
	0x10001C0B: "FontSize",
	0x14001C0C: "FontColor",
	0x14001C0D: "Highlight",
	0x1C001C12: "RgOutlineIndentDistance",
	0x0C001C13: "BodyTextAlignment",
	0x14001C14: "OffsetFromParentHoriz",
	0x14001C15: "OffsetFromParentVert",
	0x1C001C1A: "NumberListFormat",
	0x14001C1B: "LayoutMaxWidth",
	0x14001C1C: "LayoutMaxHeight",
	0x24001C1F: "ContentChildNodes",
	0x24001C20: "ElementChildNodes",
	0x08001E1E: "EnableHistory",
	0x1C001C22: "RichEditTextUnicode",
	0x24001C26: "ListNodes",
	0x1C001C30: "NotebookManagementEntityGuid",
	0x08001C34: "OutlineElementRTL",
	0x14001C3B: "LanguageID",
	0x14001C3E: "LayoutAlignmentInParent",
	0x20001C3F: "PictureContainer",
	0x14001C4C: "PageMarginTop",
	0x14001C4D: "PageMarginBottom",
	0x14001C4E: "PageMarginLeft",
	0x14001C4F: "PageMarginRight",
	0x1C001C52: "ListFont",
	0x18001C65: "TopologyCreationTimeStamp",
	0x14001C84: "LayoutAlignmentSelf",
	0x08001C87: "IsTitleTime",
	0x08001C88: "IsBoilerText",
	0x14001C8B: "PageSize",
	0x08001C8E: "PortraitPage",
	0x08001C91: "EnforceOutlineStructure",
	0x08001C92: "EditRootRTL",
	0x08001CB2: "CannotBeSelected",
	0x08001CB4: "IsTitleText",
	0x08001CB5: "IsTitleDate",
	0x14001CB7: "ListRestart",
	0x08001CBD: "IsLayoutSizeSetByUser",
	0x14001CCB: "ListSpacingMu",
	0x14001CDB: "LayoutOutlineReservedWidth",
	0x08001CDC: "LayoutResolveChildCollisions",
	0x08001CDE: "IsReadOnly",
	0x14001CEC: "LayoutMinimumOutlineWidth",
	0x14001CF1: "LayoutCollisionPriority",
	0x1C001CF3: "CachedTitleString",
	0x08001CF9: "DescendantsCannotBeMoved",
	0x10001CFE: "RichEditTextLangID",
	0x08001CFF: "LayoutTightAlignment",
	0x0C001D01: "Charset",
	0x14001D09: "CreationTimeStamp",
	0x08001D0C: "Deletable",
	0x10001D0E: "ListMSAAIndex",
	0x08001D13: "IsBackground",
	0x14001D24: "IRecordMedia",
	0x1C001D3C: "CachedTitleStringFromPage",
	0x14001D57: "RowCount",
	0x14001D58: "ColumnCount",
	0x08001D5E: "TableBordersVisible",
	0x24001D5F: "StructureElementChildNodes",
	0x2C001D63: "ChildGraphSpaceElementNodes",
	0x1C001D66: "TableColumnWidths",
	0x1C001D75: "Author",
	0x18001D77: "LastModifiedTimeStamp",
	0x20001D78: "AuthorOriginal",
	0x20001D79: "AuthorMostRecent",
	0x14001D7A: "LastModifiedTime",
	0x08001D7C: "IsConflictPage",
	0x1C001D7D: "TableColumnsLocked",
	0x14001D82: "SchemaRevisionInOrderToRead",
	0x08001D96: "IsConflictObjectForRender",
	0x20001D9B: "EmbeddedFileContainer",
	0x1C001D9C: "EmbeddedFileName",
	0x1C001D9D: "SourceFilepath",
	0x1C001D9E: "ConflictingUserName",
	0x1C001DD7: "ImageFilename",
	0x08001DDB: "IsConflictObjectForSelection",
	0x14001DFF: "PageLevel",
	0x1C001E12: "TextRunIndex",
	0x24001E13: "TextRunFormatting",
	0x08001E14: "Hyperlink",
	0x0C001E15: "UnderlineType",
	0x08001E16: "Hidden",
	0x08001E19: "HyperlinkProtected",
	0x08001E22: "TextRunIsEmbeddedObject",
	0x14001E26: "CellShadingColor",
	0x1C001E58: "ImageAltText",
	0x08003401: "MathFormatting",
	0x2000342C: "ParagraphStyle",
	0x1400342E: "ParagraphSpaceBefore",
	0x1400342F: "ParagraphSpaceAfter",
	0x14003430: "ParagraphLineSpacingExact",
	0x24003442: "MetaDataObjectsAboveGraphSpace",
	0x24003458: "TextRunDataObject",
	0x40003499: "TextRunData",
	0x1C00345A: "ParagraphStyleId",
	0x08003462: "HasVersionPages",
	0x10003463: "ActionItemType",
	0x10003464: "NoteTagShape",
	0x14003465: "NoteTagHighlightColor",
	0x14003466: "NoteTagTextColor",
	0x14003467: "NoteTagPropertyStatus",
	0x1C003468: "NoteTagLabel",
	0x1400346E: "NoteTagCreated",
	0x1400346F: "NoteTagCompleted",
	0x20003488: "NoteTagDefinitionOid",
	0x04003489: "NoteTagStates",
	0x10003470: "ActionItemStatus",
	0x0C003473: "ActionItemSchemaVersion",
	0x08003476: "ReadingOrderRTL",
	0x0C003477: "ParagraphAlignment",
	0x3400347B: "VersionHistoryGraphSpaceContextNodes",
	0x14003480: "DisplayedPageNumber",
	0x1C00349B: "SectionDisplayName",
	0x1C00348A: "NextStyle",
	0x200034C8: "WebPictureContainer14",
	0x140034CB: "ImageUploadState",
	0x1C003498: "TextExtendedAscii",
	0x140034CD: "PictureWidth",
	0x140034CE: "PictureHeight",
	0x14001D0F: "PageMarginOriginX",
	0x14001D10: "PageMarginOriginY",
	0x1C001E20: "WzHyperlinkUrl",
	0x1400346B: "TaskTagDueDate",
	0x1C001DE9: "IsDeletedGraphSpaceContent",
}

// PropertyID packs a 26-bit property name, a 5-bit type tag, and, for Bool
// properties, the value itself in the top bit.
type PropertyID struct {
	Value uint32
}

func ReadPropertyID(r *Reader) (PropertyID, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return PropertyID{}, err
	}
	return PropertyID{Value: v}, nil
}

func (p PropertyID) ID() uint32      { return p.Value & 0x3FFFFFF }
func (p PropertyID) Type() uint8     { return uint8(p.Value >> 26 & 0x1F) }
func (p PropertyID) BoolValue() bool { return p.Value>>31&1 == 1 }

// Name returns the MS-ONE property name, or "Unknown".
func (p PropertyID) Name() string {
	if name, ok := propertyNames[p.Value]; ok {
		return name
	}
	return "Unknown"
}

func (p PropertyID) String() string {
	if name, ok := propertyNames[p.Value]; ok {
		return name
	}
	return fmt.Sprintf("prid(0x%08X)", p.Value)
}
