package onestore

// FileNodeListHeader opens every FileNodeListFragment.
type FileNodeListHeader struct {
	Magic             uint64
	FileNodeListID    uint32
	NFragmentSequence uint32
}

func ReadFileNodeListHeader(r *Reader) (FileNodeListHeader, error) {
	var h FileNodeListHeader
	var err error
	if h.Magic, err = r.ReadUint64(); err != nil {
		return h, err
	}
	if h.FileNodeListID, err = r.ReadUint32(); err != nil {
		return h, err
	}
	if h.NFragmentSequence, err = r.ReadUint32(); err != nil {
		return h, err
	}
	return h, nil
}

// walkList traverses a logical FileNodeList: every fragment reachable from
// the root reference, concatenated into one node stream. Structural defects
// inside a fragment prune that fragment and are recorded as diagnostics; the
// chain continues where it can.
func (p *parser) walkList(fcr FileChunkReference, depth int) {
	if depth > MAX_LIST_DEPTH {
		p.diag(CyclicOrDeepList, fcr.Stp,
			"node list nesting deeper than %d", MAX_LIST_DEPTH)
		return
	}
	for chain := 0; ; chain++ {
		if chain >= MAX_FRAGMENT_CHAIN {
			p.diag(CyclicOrDeepList, fcr.Stp,
				"fragment chain longer than %d", MAX_FRAGMENT_CHAIN)
			return
		}
		next, ok := p.walkFragment(fcr, depth)
		if !ok || next.IsAbsent() {
			return
		}
		fcr = next
	}
}

// walkFragment decodes one FileNodeListFragment and returns the reference to
// the next fragment of the chain. ok is false when the chain cannot continue.
func (p *parser) walkFragment(fcr FileChunkReference, depth int) (next FileChunkReference, ok bool) {
	if err := fcr.Validate(p.r.Len()); err != nil {
		p.diagErr(fcr.Stp, err)
		return next, false
	}
	if fcr.Cb < FRAGMENT_HEADER_SIZE+FRAGMENT_TRAILER_SIZE {
		p.diag(TruncatedInput, fcr.Stp,
			"fragment of %d bytes cannot hold header and trailer", fcr.Cb)
		return next, false
	}
	if err := p.r.Seek(fcr.Stp); err != nil {
		p.diagErr(fcr.Stp, err)
		return next, false
	}
	hdr, err := ReadFileNodeListHeader(p.r)
	if err != nil {
		p.diagErr(fcr.Stp, err)
		return next, false
	}
	if hdr.Magic != FRAGMENT_HEADER_MAGIC {
		p.diag(BadMagic, fcr.Stp,
			"fragment header magic 0x%016X", hdr.Magic)
		return next, false
	}
	log.WithField("list", hdr.FileNodeListID).
		WithField("fragment", hdr.NFragmentSequence).
		Debugf("fragment at 0x%X, %d bytes", fcr.Stp, fcr.Cb)

	end := fcr.Stp + fcr.Cb
	nodesEnd := end - FRAGMENT_TRAILER_SIZE
	p.walkNodes(nodesEnd, depth)

	// trailing next-fragment reference and footer magic
	if err := p.r.Seek(end - FRAGMENT_TRAILER_SIZE); err != nil {
		p.diagErr(end, err)
		return next, false
	}
	next, err = ReadFileChunkReference64x32(p.r)
	if err != nil {
		p.diagErr(end-FRAGMENT_TRAILER_SIZE, err)
		return next, false
	}
	footer, err := p.r.ReadUint64()
	if err != nil {
		p.diagErr(end-8, err)
		return next, false
	}
	if footer != FRAGMENT_FOOTER_MAGIC {
		p.diag(BadMagic, end-8, "fragment footer magic 0x%016X", footer)
		return next, false
	}
	return next, true
}

// walkNodes reads FileNodes until the Chunk Terminator or the fragment's
// byte window is exhausted.
func (p *parser) walkNodes(nodesEnd uint64, depth int) {
	for p.r.Tell()+4 <= nodesEnd {
		nodeStart := p.r.Tell()
		hdr, err := ReadFileNodeHeader(p.r)
		if err != nil {
			p.diagErr(nodeStart, err)
			return
		}
		if hdr.ID == FND_CHUNK_TERMINATOR {
			return
		}
		if hdr.ID == 0 {
			// zero padding up to the trailer
			return
		}
		if hdr.Reserved != 0 {
			// recoverable: flagged, then decoded as usual
			p.diag(ReservedBitSet, nodeStart,
				"node %s has reserved bit set", hdr.Name())
		}
		if hdr.Size < 4 {
			p.diag(TruncatedInput, nodeStart,
				"node %s declares size %d", hdr.Name(), hdr.Size)
			return
		}
		if nodeStart+uint64(hdr.Size) > nodesEnd {
			p.diag(TruncatedInput, nodeStart,
				"node %s of %d bytes crosses the fragment boundary", hdr.Name(), hdr.Size)
			return
		}

		node := &FileNode{Header: hdr, Offset: nodeStart}
		node.Body, err = p.readFileNodeBody(hdr)
		if err != nil {
			if pe, isParse := err.(*ParseError); isParse && pe.Kind == UnknownNodeId {
				// skip the unknown node using its declared size
				p.diagErr(nodeStart, err)
				log.Debugf("skipping %s (%d bytes) at 0x%X", hdr.Name(), hdr.Size, nodeStart)
			} else {
				p.diagErr(nodeStart, err)
				return
			}
		} else {
			p.listDepth = depth
			p.handleNode(node)
		}

		if err := p.r.Seek(nodeStart + uint64(hdr.Size)); err != nil {
			p.diagErr(nodeStart, err)
			return
		}
	}
}

// enterChildList follows a BaseType=2 reference into a nested FileNodeList.
// Absent references are legal and mean an empty list.
func (p *parser) enterChildList(n *FileNode, ref FileChunkReference) {
	if ref.IsAbsent() {
		return
	}
	saved := p.r.Tell()
	p.walkList(ref, p.listDepth+1)
	if err := p.r.Seek(saved); err != nil {
		p.diagErr(saved, err)
	}
}
