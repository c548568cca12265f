package onestore

// RootRef is a declared root object of a revision.
type RootRef struct {
	Oid  ExtendedGUID
	Role uint32
}

// Object is one object declaration: its identity, class, and the decoded
// property set when the class carries one.
type Object struct {
	Oid     CompactID
	Jcid    JCID
	Ref     FileChunkReference
	CRef    uint32
	MD5Hash []byte
	PropSet *ObjectSpaceObjectPropSet
}

// Revision is one entry of an object space's history. Only the last revision
// of a space is surfaced by the document; older ones stay in the file but are
// not reported.
type Revision struct {
	Rid          ExtendedGUID
	RidDependent ExtendedGUID
	Role         uint32
	TimeCreation uint64
	Gctxid       ExtendedGUID
	Table        *GlobalIdTable
	Objects      []*Object
	Roots        []RootRef
}

// ObjectSpace is a named scope of revisions and object declarations,
// identified by its gosid.
type ObjectSpace struct {
	Gosid     ExtendedGUID
	Revisions []*Revision
}

// Current returns the most recent (last written) revision of the space.
func (s *ObjectSpace) Current() *Revision {
	if len(s.Revisions) == 0 {
		return nil
	}
	return s.Revisions[len(s.Revisions)-1]
}

// FileDataStore is one GUID-framed embedded payload located through a
// FileDataStoreObjectReferenceFND.
type FileDataStore struct {
	GuidReference GUID
	Ref           FileChunkReference
	Object        *FileDataStoreObject
}

// FileDataDecl is the metadata half of an embedded file: the
// ObjectDeclarationFileData3RefCountFND naming the store GUID and extension.
type FileDataDecl struct {
	Oid               CompactID
	Jcid              JCID
	FileDataReference string
	Extension         string
}

// handleNode applies a decoded node's side effects to the document under
// construction: context switches, table building, declarations, and the
// recursion into BaseType=2 child lists.
func (p *parser) handleNode(n *FileNode) {
	switch b := n.Body.(type) {
	case ObjectSpaceManifestRootFND:
		p.doc.RootGosid = b.GosidRoot

	case ObjectSpaceManifestListReferenceFND:
		space := &ObjectSpace{Gosid: b.Gosid}
		p.doc.ObjectSpaces = append(p.doc.ObjectSpaces, space)
		prevSpace, prevRev, prevTable := p.curSpace, p.curRevision, p.curTable
		p.curSpace, p.curRevision, p.curTable = space, nil, nil
		p.enterChildList(n, b.Ref)
		p.curSpace, p.curRevision, p.curTable = prevSpace, prevRev, prevTable

	case ObjectSpaceManifestListStartFND:
		if p.curSpace != nil && p.curSpace.Gosid.IsNil() {
			p.curSpace.Gosid = b.Gosid
		}

	case RevisionManifestListReferenceFND:
		p.enterChildList(n, b.Ref)

	case RevisionManifestListStartFND:
		// list identity restates the owning space's gosid

	case RevisionManifestStart4FND:
		p.startRevision(&Revision{
			Rid:          b.Rid,
			RidDependent: b.RidDependent,
			Role:         b.RevisionRole,
			TimeCreation: b.TimeCreation,
		})

	case RevisionManifestStart6FND:
		p.startRevision(&Revision{
			Rid:          b.Rid,
			RidDependent: b.RidDependent,
			Role:         b.RevisionRole,
		})

	case RevisionManifestStart7FND:
		p.startRevision(&Revision{
			Rid:          b.Rid,
			RidDependent: b.RidDependent,
			Role:         b.RevisionRole,
			Gctxid:       b.Gctxid,
		})

	case RevisionManifestEndFND:
		// the revision stays current for trailing declarations, as written

	case GlobalIdTableStartFND:
		p.curTable = &GlobalIdTable{}
		if rev := p.currentRevision(); rev != nil {
			rev.Table = p.curTable
		}

	case GlobalIdTableEntryFNDX:
		if p.curTable == nil {
			p.diag(BadReference, n.Offset, "global id table entry outside a table")
			return
		}
		if err := p.curTable.Add(b.Index, b.Guid); err != nil {
			p.diag(BadReference, n.Offset, "%v", err)
		}

	case GlobalIdTableEndFND:
		// entries strictly precede any CompactID that references them;
		// the table stays live for the declarations that follow

	case RootObjectReference2FNDX:
		if rev := p.currentRevision(); rev != nil {
			rev.Roots = append(rev.Roots, RootRef{Oid: b.OidRoot.Resolved, Role: b.RootRole})
		}

	case RootObjectReference3FND:
		if rev := p.currentRevision(); rev != nil {
			rev.Roots = append(rev.Roots, RootRef{Oid: b.OidRoot, Role: b.RootRole})
		}

	case ObjectGroupListReferenceFND:
		p.enterChildList(n, b.Ref)

	case ObjectGroupStartFND, ObjectGroupEndFND:
		// group boundaries carry no state the document keeps

	case ObjectDeclaration2RefCountFND:
		p.declareObject(n, b)

	case ObjectDeclarationFileData3RefCountFND:
		p.doc.FileDecls = append(p.doc.FileDecls, &FileDataDecl{
			Oid:               b.Oid,
			Jcid:              b.Jcid,
			FileDataReference: b.FileDataReference.Value,
			Extension:         b.Extension.Value,
		})

	case FileDataStoreListReferenceFND:
		p.enterChildList(n, b.Ref)

	case FileDataStoreObjectReferenceFND:
		p.resolveFileDataStore(n, b)

	case HashedChunkDescriptor2FND, DataSignatureGroupDefinitionFND,
		ObjectInfoDependencyOverridesFND, RevisionRoleDeclarationFND,
		RevisionRoleAndContextDeclarationFND:
		// decoded for alignment, nothing to assemble

	case opaqueBody, nil:
		// skipped with the header Size
	}
}

func (p *parser) startRevision(rev *Revision) {
	space := p.curSpace
	if space == nil {
		// a revision outside any manifest list still gets collected
		space = &ObjectSpace{}
		p.doc.ObjectSpaces = append(p.doc.ObjectSpaces, space)
		p.curSpace = space
	}
	space.Revisions = append(space.Revisions, rev)
	p.curRevision = rev
	p.curTable = nil
}

// currentRevision returns the revision declarations attribute to, creating an
// implicit one when the input declares objects without a manifest.
func (p *parser) currentRevision() *Revision {
	return p.curRevision
}

func (p *parser) ensureRevision() *Revision {
	if p.curRevision == nil {
		table := p.curTable
		p.startRevision(&Revision{Table: table})
		p.curTable = table
	}
	return p.curRevision
}

func (p *parser) declareObject(n *FileNode, b ObjectDeclaration2RefCountFND) {
	obj := &Object{
		Oid:     b.Body.Oid,
		Jcid:    b.Body.Jcid,
		Ref:     b.Ref,
		CRef:    b.CRef,
		MD5Hash: b.MD5Hash,
	}
	rev := p.ensureRevision()
	rev.Objects = append(rev.Objects, obj)

	if !b.Body.Jcid.IsPropertySet() || b.Ref.IsAbsent() {
		return
	}
	if err := b.Ref.Validate(p.r.Len()); err != nil {
		p.diagErr(n.Offset, err)
		return
	}
	// decode the property set behind the reference, then restore the cursor
	saved := p.r.Tell()
	defer func() {
		if err := p.r.Seek(saved); err != nil {
			p.diagErr(saved, err)
		}
	}()
	if err := p.r.Seek(b.Ref.Stp); err != nil {
		p.diagErr(n.Offset, err)
		return
	}
	ps, err := DecodeObjectPropSet(p.r, p.curTable)
	if err != nil {
		p.diagErr(n.Offset, err)
		return
	}
	if !ps.StreamsDrained() {
		p.diag(PropertyStreamExhausted, b.Ref.Stp,
			"object %s left CompactIDs unconsumed", obj.Oid)
	}
	obj.PropSet = ps
}

func (p *parser) resolveFileDataStore(n *FileNode, b FileDataStoreObjectReferenceFND) {
	store := &FileDataStore{GuidReference: b.GuidReference, Ref: b.Ref}
	if err := b.Ref.Validate(p.r.Len()); err != nil {
		p.diagErr(n.Offset, err)
		return
	}
	saved := p.r.Tell()
	defer func() {
		if err := p.r.Seek(saved); err != nil {
			p.diagErr(saved, err)
		}
	}()
	obj, err := ReadFileDataStoreObject(p.r, b.Ref)
	if err != nil {
		// corrupt stores record a diagnostic and emit no payload
		p.diagErr(n.Offset, err)
		return
	}
	store.Object = obj
	p.doc.FileStores = append(p.doc.FileStores, store)
}
