// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "fmt"

// SegmentType is p_type.
type SegmentType uint32

// Known segment types.
const (
	PT_NULL    SegmentType = 0
	PT_LOAD    SegmentType = 1
	PT_DYNAMIC SegmentType = 2
	PT_INTERP  SegmentType = 3
	PT_NOTE    SegmentType = 4
	PT_SHLIB   SegmentType = 5
	PT_PHDR    SegmentType = 6
)

var segmentTypeNames = map[SegmentType]string{
	PT_NULL:    "PT_NULL",
	PT_LOAD:    "PT_LOAD",
	PT_DYNAMIC: "PT_DYNAMIC",
	PT_INTERP:  "PT_INTERP",
	PT_NOTE:    "PT_NOTE",
	PT_SHLIB:   "PT_SHLIB",
	PT_PHDR:    "PT_PHDR",
}

func (t SegmentType) String() string {
	if s, ok := segmentTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("PT_EXT(0x%x)", uint32(t))
}

// isPreLoad reports whether this segment type must be emitted before all
// other program-header entries: PT_PHDR and PT_INTERP come first in the
// rendered phdr table for loader compatibility.
func (t SegmentType) isPreLoad() bool {
	return t == PT_PHDR || t == PT_INTERP
}

// SegmentFlags is p_flags: an opaque bitset of PF_* constants.
type SegmentFlags uint32

// Known segment flag bits.
const (
	PF_X SegmentFlags = 1
	PF_W SegmentFlags = 2
	PF_R SegmentFlags = 4
)

func (f SegmentFlags) Has(mask SegmentFlags) bool { return f&mask == mask }

func (f SegmentFlags) String() string {
	r, w, x := "-", "-", "-"
	if f.Has(PF_R) {
		r = "R"
	}
	if f.Has(PF_W) {
		w = "W"
	}
	if f.Has(PF_X) {
		x = "X"
	}
	return r + w + x
}

// Segment is the load-time view of a contiguous program-header entry.
// It owns the nested sequence of regions that make up its
// file-resident content; the renderer recomputes the segment's file offset
// and file size from the bytes actually emitted for that sequence.
type Segment struct {
	Type      SegmentType
	Flags     SegmentFlags
	VirtAddr  uint64
	PhysAddr  uint64
	Align     uint64

	// MemSize is p_memsz: may exceed the file-resident byte count (e.g. a
	// segment whose tail is a .bss-like SHT_NOBITS section).
	MemSize uint64

	// Contents is the nested region sequence owned by this segment.
	Contents []DataRegion
}
