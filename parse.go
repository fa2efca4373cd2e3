// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "sort"

// Parse reads an ELF image from buf and folds its header, program headers,
// section headers, and section contents into a region tree. It
// returns ErrBadMagic/ErrBadClass/ErrBadData/ErrBadVersion/ErrBadHeaderSize
// for a malformed header, and ErrTruncated or ErrOverlap if any table entry
// names a byte range that runs off the end of buf or collides with one
// already folded in.
func Parse(buf []byte) (*Elf, error) {
	h, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}
	w := widthFor(h.Class)
	order := h.Data.ByteOrder()

	shdrs := make([]shdrRaw, 0, h.Shnum)
	for i := 0; i < int(h.Shnum); i++ {
		off := int(h.Shoff) + i*w.shdrSize()
		b, err := readBounded(buf, off, w.shdrSize())
		if err != nil {
			return nil, ErrTruncated
		}
		shdrs = append(shdrs, parseShdr(h.Class, order, b))
	}

	var shstrBytes []byte
	if int(h.Shstrndx) < len(shdrs) {
		sh := shdrs[h.Shstrndx]
		if sh.Size > 0 {
			b, err := readBounded(buf, int(sh.Offset), int(sh.Size))
			if err != nil {
				return nil, ErrTruncated
			}
			shstrBytes = b
		}
	}

	type placement struct {
		offset, length int
		region         DataRegion
	}

	ehdrLen := w.ehdrSize()
	placements := []placement{{0, ehdrLen, DataRegion{Kind: RegionElfHeader}}}
	if h.Phnum > 0 {
		placements = append(placements, placement{int(h.Phoff), int(h.Phnum) * w.phdrSize(), DataRegion{Kind: RegionSegmentHeaders}})
	}
	if h.Shnum > 0 {
		placements = append(placements, placement{int(h.Shoff), int(h.Shnum) * w.shdrSize(), DataRegion{Kind: RegionSectionHeaders}})
	}

	sections := make([]*Section, len(shdrs))
	for i, sh := range shdrs {
		sec := &Section{
			Name:      string(LookupString(shstrBytes, sh.NameOff)),
			Type:      sh.Type,
			Flags:     sh.Flags,
			Addr:      sh.Addr,
			Link:      sh.Link,
			Info:      sh.Info,
			AddrAlign: sh.AddrAlign,
			EntSize:   sh.EntSize,
			Size:      sh.Size,
		}
		fileSize := int(sh.Size)
		if sh.Type == SHT_NOBITS {
			fileSize = 0
		}
		if fileSize > 0 {
			b, err := readBounded(buf, int(sh.Offset), fileSize)
			if err != nil {
				return nil, ErrTruncated
			}
			sec.Contents = b
		}
		sections[i] = sec

		if i == int(h.Shstrndx) {
			placements = append(placements, placement{int(sh.Offset), fileSize, DataRegion{Kind: RegionSectionNameTable}})
		} else {
			placements = append(placements, placement{int(sh.Offset), fileSize, sectionRegion(sec)})
		}
	}

	sort.SliceStable(placements, func(i, j int) bool { return placements[i].offset < placements[j].offset })

	sizes := placeholderSizes{
		ehdr:      ehdrLen,
		phdrTable: int(h.Phnum) * w.phdrSize(),
		shdrTable: int(h.Shnum) * w.shdrSize(),
		nameTable: len(shstrBytes),
	}

	regions := []DataRegion{rawRegion(buf)}
	for _, p := range placements {
		regions, err = insertAt(regions, p.offset, p.length, p.region, sizes)
		if err != nil {
			return nil, err
		}
	}

	type segPlacement struct {
		offset, length int
		seg            *Segment
	}
	segPlacements := make([]segPlacement, 0, h.Phnum)
	for i := 0; i < int(h.Phnum); i++ {
		off := int(h.Phoff) + i*w.phdrSize()
		b, err := readBounded(buf, off, w.phdrSize())
		if err != nil {
			return nil, ErrTruncated
		}
		ph := parsePhdr(h.Class, order, b)
		seg := &Segment{
			Type:     ph.Type,
			Flags:    ph.Flags,
			VirtAddr: ph.Vaddr,
			PhysAddr: ph.Paddr,
			Align:    ph.Align,
			MemSize:  ph.Memsz,
		}
		segPlacements = append(segPlacements, segPlacement{int(ph.Offset), int(ph.Filesz), seg})
	}

	// Fold the widest (outermost) segments first so a narrower one already
	// covering the same bytes (PT_PHDR inside PT_LOAD, for instance) nests
	// inside it via insertSegment's recursion instead of colliding with it.
	sort.SliceStable(segPlacements, func(i, j int) bool {
		if segPlacements[i].length != segPlacements[j].length {
			return segPlacements[i].length > segPlacements[j].length
		}
		return segPlacements[i].offset < segPlacements[j].offset
	})

	for _, sp := range segPlacements {
		regions, err = insertSegment(regions, sp.offset, sp.length, sp.seg, sizes)
		if err != nil {
			return nil, err
		}
	}

	return &Elf{
		Class:      h.Class,
		Data:       h.Data,
		Version:    h.Version,
		OSABI:      h.OSABI,
		ABIVersion: h.ABIVersion,
		Type:       h.Type,
		Machine:    h.Machine,
		Entry:      h.Entry,
		Flags:      h.Flags,
		Regions:    regions,
	}, nil
}
