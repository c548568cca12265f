package onestore

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Document is the result of one parse run: the header, the object-space
// tree of the current revisions, the located embedded-file stores, and every
// diagnostic recorded along the way. A run owns its buffer exclusively;
// decoded entities reference slices of it.
type Document struct {
	Header    *Header
	RootGosid ExtendedGUID

	ObjectSpaces []*ObjectSpace
	FileStores   []*FileDataStore
	FileDecls    []*FileDataDecl

	Diagnostics []Diagnostic

	reader *Reader

	properties []PropertyBag
	links      []Link
	files      []*EmbeddedFile
}

// parser carries the walk state of one run.
type parser struct {
	r   *Reader
	doc *Document

	curSpace    *ObjectSpace
	curRevision *Revision
	curTable    *GlobalIdTable
	listDepth   int
}

func (p *parser) diag(kind ErrKind, offset uint64, format string, args ...interface{}) {
	d := Diagnostic{Kind: kind, Offset: offset, Message: fmt.Sprintf(format, args...)}
	log.Debugf("diagnostic: %s", d)
	p.doc.Diagnostics = append(p.doc.Diagnostics, d)
}

func (p *parser) diagErr(offset uint64, err error) {
	if pe, ok := err.(*ParseError); ok {
		p.diag(pe.Kind, pe.Offset, "%s", pe.Msg)
		return
	}
	p.diag(BadReference, offset, "%v", err)
}

// Parse decodes a OneNote file image. Fatal defects (bad signature, a header
// that cannot be read) return an error; everything else is recorded as a
// diagnostic on the returned document.
func Parse(data []byte) (*Document, error) {
	r := NewReader(data)
	doc := &Document{reader: r}

	hdr, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	doc.Header = hdr

	root := hdr.FcrFileNodeListRoot
	if root.IsAbsent() {
		return doc, nil
	}
	if err := root.Validate(r.Len()); err != nil {
		// a root outside the buffer is fatal: nothing is reachable
		return nil, err
	}

	p := &parser{r: r, doc: doc}
	p.walkList(root, 0)
	return doc, nil
}

// FileType reports which signature the file carried.
func (d *Document) FileType() FileType {
	if d.Header == nil {
		return FileTypeUnknown
	}
	return d.Header.FileType
}

// currentObjects enumerates the objects of each space's current revision.
func (d *Document) currentObjects(fn func(*Object)) {
	for _, space := range d.ObjectSpaces {
		rev := space.Current()
		if rev == nil {
			continue
		}
		for _, obj := range rev.Objects {
			fn(obj)
		}
	}
}

// PropertyBag is the reporting view of one object declaration with a decoded
// property set: its class name, identity, and formatted property values.
type PropertyBag struct {
	Type     string            `json:"type"`
	Identity string            `json:"identity"`
	Values   map[string]string `json:"val"`
}

// Properties returns one bag per object of the current revisions whose class
// carries a property set. Unnamed properties are decoded but not reported.
func (d *Document) Properties() []PropertyBag {
	if d.properties != nil {
		return d.properties
	}
	d.properties = []PropertyBag{}
	d.currentObjects(func(obj *Object) {
		if obj.PropSet == nil || obj.PropSet.Body == nil {
			return
		}
		bag := PropertyBag{
			Type:     obj.Jcid.String(),
			Identity: obj.Oid.String(),
			Values:   make(map[string]string),
		}
		for _, v := range obj.PropSet.Body.Values {
			name := v.ID.Name()
			if name == "Unknown" {
				continue
			}
			bag.Values[name] = FormatPropertyValue(v)
		}
		d.properties = append(d.properties, bag)
	})
	return d.properties
}

// FormatPropertyValue renders a decoded value for reporting the way the
// property's name dictates: GUIDs, FILETIME/Time32 stamps, half-inch
// metrics, and UTF-16 text; raw hex when nothing fits.
func FormatPropertyValue(v PropertyValue) string {
	name := strings.ToLower(v.ID.Name())
	switch v.ID.Type() {
	case PROPERTY_TYPE_NO_DATA:
		return ""

	case PROPERTY_TYPE_BOOL:
		return fmt.Sprintf("%t", v.Bool)

	case PROPERTY_TYPE_FOUR_BYTES_OF_LENGTH:
		if strings.Contains(name, "guid") && len(v.Raw) == 16 {
			return GUIDFromBytes(v.Raw).String()
		}
		if text := DecodeUTF16(v.Raw); isPrintable(text) {
			return text
		}
		return hex.EncodeToString(v.Raw)

	case PROPERTY_TYPE_OBJECT_ID, PROPERTY_TYPE_OBJECT_ID_ARRAY,
		PROPERTY_TYPE_OBJECT_SPACE_ID, PROPERTY_TYPE_OBJECT_SPACE_ID_ARRAY,
		PROPERTY_TYPE_CONTEXT_ID, PROPERTY_TYPE_CONTEXT_ID_ARRAY:
		parts := make([]string, 0, len(v.IDs))
		for _, id := range v.IDs {
			parts = append(parts, id.String())
		}
		return strings.Join(parts, ", ")

	case PROPERTY_TYPE_PROPERTY_SET:
		return fmt.Sprintf("propertySet(%d values)", len(v.Set.Values))

	case PROPERTY_TYPE_ARRAY_OF_PROPERTY_VALUES:
		return fmt.Sprintf("propertySets(%d)", len(v.Array))
	}

	// fixed-width scalars, interpreted by the property name
	switch {
	case strings.Contains(name, "time"):
		if len(v.Raw) == 8 {
			return FiletimeToTime(binary.LittleEndian.Uint64(v.Raw)).Format("2006-01-02 15:04:05 UTC")
		}
		if len(v.Raw) == 4 {
			return Time32ToTime(binary.LittleEndian.Uint32(v.Raw)).Format("2006-01-02 15:04:05 UTC")
		}
	case strings.Contains(name, "height"), strings.Contains(name, "width"),
		strings.Contains(name, "offset"), strings.Contains(name, "margin"):
		if len(v.Raw) == 4 {
			bits := binary.LittleEndian.Uint32(v.Raw)
			return fmt.Sprintf("%dpx", HalfInchToPixels(math.Float32frombits(bits)))
		}
	case strings.Contains(name, "langid"), strings.Contains(name, "languageid"):
		if len(v.Raw) == 2 {
			return fmt.Sprintf("lcid(%d)", binary.LittleEndian.Uint16(v.Raw))
		}
		if len(v.Raw) == 4 {
			return fmt.Sprintf("lcid(%d)", binary.LittleEndian.Uint32(v.Raw))
		}
	}
	switch len(v.Raw) {
	case 1:
		return fmt.Sprintf("%d", v.Raw[0])
	case 2:
		return fmt.Sprintf("%d", binary.LittleEndian.Uint16(v.Raw))
	case 4:
		return fmt.Sprintf("%d", binary.LittleEndian.Uint32(v.Raw))
	case 8:
		return fmt.Sprintf("%d", binary.LittleEndian.Uint64(v.Raw))
	}
	return hex.EncodeToString(v.Raw)
}

func isPrintable(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == 0xFFFD {
			return false
		}
	}
	return true
}

// Link is one harvested hyperlink.
type Link struct {
	Type     string `json:"type"`
	Identity string `json:"identity"`
	URL      string `json:"url"`
	Source   string `json:"source"`
}

// Links harvests WzHyperlinkUrl properties and URLs embedded in
// RichEditTextUnicode runs, de-duplicated per (identity, url).
func (d *Document) Links() []Link {
	if d.links != nil {
		return d.links
	}
	d.links = []Link{}
	type key struct{ identity, url string }
	seen := make(map[key]struct{})
	add := func(bagType, identity, url, source string) {
		url = strings.TrimRight(strings.TrimSpace(url), "\x00")
		if url == "" {
			return
		}
		k := key{identity, url}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		d.links = append(d.links, Link{Type: bagType, Identity: identity, URL: url, Source: source})
	}
	for _, bag := range d.Properties() {
		if url, ok := bag.Values["WzHyperlinkUrl"]; ok {
			add(bag.Type, bag.Identity, url, "WzHyperlinkUrl")
		}
		if text, ok := bag.Values["RichEditTextUnicode"]; ok {
			for _, url := range ExtractURLs(text) {
				add(bag.Type, bag.Identity, url, "RichEditTextUnicode")
			}
		}
	}
	return d.links
}

// EmbeddedFile is one extracted payload joined with its declaration
// metadata: the store GUID, the verbatim content, and naming hints.
type EmbeddedFile struct {
	GUID      string `json:"guid"`
	Extension string `json:"extension"`
	Identity  string `json:"identity"`
	// SuggestedName comes from the sibling EmbeddedFileName/ImageFilename
	// property of the declaring node, when one exists.
	SuggestedName string `json:"suggestedName,omitempty"`

	content []byte
}

// Content returns the payload bytes, a view into the parse buffer.
func (f *EmbeddedFile) Content() []byte {
	return f.content
}

// Files joins located FileDataStoreObjects with their declaration metadata,
// keyed by the store GUID, ordered by GUID for determinism.
func (d *Document) Files() []*EmbeddedFile {
	if d.files != nil {
		return d.files
	}
	byGUID := make(map[string]*EmbeddedFile)
	get := func(guid string) *EmbeddedFile {
		guid = strings.ToLower(guid)
		if f, ok := byGUID[guid]; ok {
			return f
		}
		f := &EmbeddedFile{GUID: guid}
		byGUID[guid] = f
		return f
	}
	for _, store := range d.FileStores {
		f := get(store.GuidReference.String())
		f.content = store.Object.FileData()
	}
	for _, decl := range d.FileDecls {
		guid := strings.TrimSuffix(strings.TrimPrefix(decl.FileDataReference, "<ifndf>{"), "}")
		f := get(guid)
		f.Extension = decl.Extension
		f.Identity = decl.Oid.String()
	}
	d.resolveSuggestedNames(byGUID)

	d.files = make([]*EmbeddedFile, 0, len(byGUID))
	for _, f := range byGUID {
		d.files = append(d.files, f)
	}
	sort.Slice(d.files, func(i, j int) bool { return d.files[i].GUID < d.files[j].GUID })
	return d.files
}

// resolveSuggestedNames matches container properties of embedded-file and
// image nodes against file identities to pick up the declared filenames.
func (d *Document) resolveSuggestedNames(byGUID map[string]*EmbeddedFile) {
	nameByIdentity := make(map[string]string)
	d.currentObjects(func(obj *Object) {
		if obj.PropSet == nil || obj.PropSet.Body == nil {
			return
		}
		var containerProp, nameProp string
		switch obj.Jcid.Value {
		case JCID_EMBEDDED_FILE_NODE:
			containerProp, nameProp = "EmbeddedFileContainer", "EmbeddedFileName"
		case JCID_IMAGE_NODE:
			containerProp, nameProp = "PictureContainer", "ImageFilename"
		default:
			return
		}
		container, ok := obj.PropSet.Body.Get(containerProp)
		if !ok || len(container.IDs) == 0 {
			return
		}
		name, ok := obj.PropSet.Body.Get(nameProp)
		if !ok {
			return
		}
		nameByIdentity[container.IDs[0].String()] = DecodeUTF16(name.Raw)
	})
	for _, f := range byGUID {
		if name, ok := nameByIdentity[f.Identity]; ok {
			f.SuggestedName = name
		}
	}
}
