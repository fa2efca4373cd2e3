// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "sort"

// renderChunk is one leaf of the flattened, file-ordered layout the
// renderer builds out of the region tree. It exists only for the lifetime
// of a single Render call.
type renderChunk struct {
	kind    RegionKind
	sec     *Section
	size    int
	content []byte
}

func sectionFileLen(sec *Section) int {
	if sec.Type == SHT_NOBITS {
		return 0
	}
	return len(sec.Contents)
}

// Render serializes e back to bytes. It runs two passes: the first
// flattens the region tree, assigns every chunk its final absolute file
// offset (including alignment padding ahead of sections that require it),
// and appends every content chunk's bytes, reserving zero-filled space for
// the ELF header and the two header tables; it then derives each segment's
// file offset/size from its nested chunks rather than any stored field. The
// second pass builds the ELF header, program header table, and section
// header table and copies them into that reserved space, since e_phoff/
// e_shoff and every segment's p_offset/p_filesz are forward references
// into the layout that cannot be known until the first pass completes.
// The program header table is ordered with PT_PHDR and PT_INTERP entries first, as loaders require,
// and the section name table is always regenerated fresh via
// BuildStringTable rather than reusing whatever bytes the input carried.
func Render(e *Elf) ([]byte, error) {
	w := widthFor(e.Class)
	if w == nil {
		return nil, ErrBadClass
	}
	order := e.Data.ByteOrder()

	var names []string
	e.Walk(func(r *DataRegion) bool {
		if r.Kind == RegionSection {
			names = append(names, r.Sec.Name)
		}
		return true
	})
	names = append(names, ".shstrtab")
	nameTable, nameOffsets := BuildStringTable(names)

	var allSegments []*Segment
	var collectSegments func([]DataRegion)
	collectSegments = func(regions []DataRegion) {
		for i := range regions {
			if regions[i].Kind == RegionSegment {
				allSegments = append(allSegments, regions[i].Seg)
				collectSegments(regions[i].Seg.Contents)
			}
		}
	}
	collectSegments(e.Regions)

	phdrOrder := append([]*Segment(nil), allSegments...)
	sort.SliceStable(phdrOrder, func(i, j int) bool {
		return phdrOrder[i].Type.isPreLoad() && !phdrOrder[j].Type.isPreLoad()
	})

	sectionCount := 0
	e.Walk(func(r *DataRegion) bool {
		if r.Kind == RegionSection {
			sectionCount++
		}
		return true
	})
	shnum := sectionCount + 1 // +1 for the regenerated .shstrtab entry

	var chunks []renderChunk
	segStart := map[*Segment]int{}
	segEnd := map[*Segment]int{}

	var flatten func([]DataRegion)
	flatten = func(regions []DataRegion) {
		for i := range regions {
			r := &regions[i]
			switch r.Kind {
			case RegionElfHeader:
				chunks = append(chunks, renderChunk{kind: RegionElfHeader, size: w.ehdrSize()})
			case RegionSegmentHeaders:
				chunks = append(chunks, renderChunk{kind: RegionSegmentHeaders, size: len(allSegments) * w.phdrSize()})
			case RegionSectionHeaders:
				chunks = append(chunks, renderChunk{kind: RegionSectionHeaders, size: shnum * w.shdrSize()})
			case RegionSectionNameTable:
				chunks = append(chunks, renderChunk{kind: RegionSectionNameTable, size: len(nameTable), content: nameTable})
			case RegionSection:
				chunks = append(chunks, renderChunk{kind: RegionSection, sec: r.Sec, size: sectionFileLen(r.Sec), content: r.Sec.Contents})
			case RegionRaw:
				chunks = append(chunks, renderChunk{kind: RegionRaw, size: len(r.Raw), content: r.Raw})
			case RegionSegment:
				segStart[r.Seg] = len(chunks)
				flatten(r.Seg.Contents)
				segEnd[r.Seg] = len(chunks)
			}
		}
	}
	flatten(e.Regions)

	hasKind := func(k RegionKind) bool {
		for _, c := range chunks {
			if c.kind == k {
				return true
			}
		}
		return false
	}
	if !hasKind(RegionElfHeader) {
		chunks = append([]renderChunk{{kind: RegionElfHeader, size: w.ehdrSize()}}, chunks...)
	}
	if len(allSegments) > 0 && !hasKind(RegionSegmentHeaders) {
		chunks = append(chunks, renderChunk{kind: RegionSegmentHeaders, size: len(allSegments) * w.phdrSize()})
	}
	if !hasKind(RegionSectionHeaders) {
		chunks = append(chunks, renderChunk{kind: RegionSectionHeaders, size: shnum * w.shdrSize()})
	}
	if !hasKind(RegionSectionNameTable) {
		chunks = append(chunks, renderChunk{kind: RegionSectionNameTable, size: len(nameTable), content: nameTable})
	}

	// Pass 1 + byte emission for plain content chunks in one walk: padding
	// and segment offsets only depend on bytes already written, never on
	// anything still to come.
	var out []byte
	ofsEhdr, ofsPhdrTable, ofsShdrTable, ofsNameTable := 0, 0, 0, 0
	var sectionOrder []*Section
	sectionOffset := map[*Section]int{}
	beforeOffset := make([]int, len(chunks))
	afterOffset := make([]int, len(chunks))

	for i, c := range chunks {
		if c.kind == RegionSection && c.sec.AddrAlign > 1 {
			align := int(c.sec.AddrAlign)
			if rem := len(out) % align; rem != 0 {
				out = append(out, make([]byte, align-rem)...)
			}
		}
		beforeOffset[i] = len(out)
		switch c.kind {
		case RegionElfHeader:
			ofsEhdr = len(out)
			out = append(out, make([]byte, c.size)...)
		case RegionSegmentHeaders:
			ofsPhdrTable = len(out)
			out = append(out, make([]byte, c.size)...)
		case RegionSectionHeaders:
			ofsShdrTable = len(out)
			out = append(out, make([]byte, c.size)...)
		case RegionSectionNameTable:
			ofsNameTable = len(out)
			out = append(out, c.content...)
		case RegionSection:
			sectionOrder = append(sectionOrder, c.sec)
			sectionOffset[c.sec] = len(out)
			out = append(out, c.content...)
		case RegionRaw:
			out = append(out, c.content...)
		}
		afterOffset[i] = len(out)
	}

	offsetAt := func(idx int) int {
		if idx >= len(chunks) {
			return len(out)
		}
		return beforeOffset[idx]
	}
	segFileOffset := map[*Segment]int{}
	segFileSize := map[*Segment]int{}
	for _, seg := range allSegments {
		start, end := segStart[seg], segEnd[seg]
		so := offsetAt(start)
		eo := so
		if end > start {
			eo = afterOffset[end-1]
		}
		segFileOffset[seg] = so
		segFileSize[seg] = eo - so
	}

	// Pass 2: now that every offset is known, fill in the three forward-
	// referencing structures.
	phdrTable := make([]byte, 0, len(phdrOrder)*w.phdrSize())
	for _, seg := range phdrOrder {
		phdrTable = append(phdrTable, writePhdr(e.Class, order, seg, uint64(segFileOffset[seg]), uint64(segFileSize[seg]))...)
	}
	copy(out[ofsPhdrTable:], phdrTable)

	shdrTable := make([]byte, 0, shnum*w.shdrSize())
	for _, sec := range sectionOrder {
		size := sec.Size
		if sec.Type != SHT_NOBITS {
			size = sec.fileSize()
		}
		shdrTable = append(shdrTable, writeShdr(e.Class, order, nameOffsets[sec.Name], sec, uint64(sectionOffset[sec]), size)...)
	}
	shstrtabSec := &Section{Type: SHT_STRTAB, AddrAlign: 1}
	shdrTable = append(shdrTable, writeShdr(e.Class, order, nameOffsets[".shstrtab"], shstrtabSec, uint64(ofsNameTable), uint64(len(nameTable)))...)
	copy(out[ofsShdrTable:], shdrTable)

	shstrndx := uint16(len(sectionOrder))
	phoff := uint64(0)
	if len(allSegments) > 0 {
		phoff = uint64(ofsPhdrTable)
	}
	ehdrBytes := writeHeader(e, phoff, uint64(ofsShdrTable), uint16(len(allSegments)), uint16(shnum), shstrndx)
	copy(out[ofsEhdr:], ehdrBytes)

	return out, nil
}
