// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import (
	"encoding/binary"
	"fmt"
)

// SectionType is sh_type.
type SectionType uint32

// Known section types.
const (
	SHT_NULL     SectionType = 0
	SHT_PROGBITS SectionType = 1
	SHT_SYMTAB   SectionType = 2
	SHT_STRTAB   SectionType = 3
	SHT_RELA     SectionType = 4
	SHT_HASH     SectionType = 5
	SHT_DYNAMIC  SectionType = 6
	SHT_NOTE     SectionType = 7
	SHT_NOBITS   SectionType = 8
	SHT_REL      SectionType = 9
	SHT_SHLIB    SectionType = 10
	SHT_DYNSYM   SectionType = 11
)

var sectionTypeNames = map[SectionType]string{
	SHT_NULL:     "SHT_NULL",
	SHT_PROGBITS: "SHT_PROGBITS",
	SHT_SYMTAB:   "SHT_SYMTAB",
	SHT_STRTAB:   "SHT_STRTAB",
	SHT_RELA:     "SHT_RELA",
	SHT_HASH:     "SHT_HASH",
	SHT_DYNAMIC:  "SHT_DYNAMIC",
	SHT_NOTE:     "SHT_NOTE",
	SHT_NOBITS:   "SHT_NOBITS",
	SHT_REL:      "SHT_REL",
	SHT_SHLIB:    "SHT_SHLIB",
	SHT_DYNSYM:   "SHT_DYNSYM",
}

func (t SectionType) String() string {
	if s, ok := sectionTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("SHT_EXT(0x%x)", uint32(t))
}

// SectionFlags is sh_flags: an opaque bitset of SHF_* constants.
type SectionFlags uint64

// Known section flag bits.
const (
	SHF_WRITE     SectionFlags = 0x1
	SHF_ALLOC     SectionFlags = 0x2
	SHF_EXECINSTR SectionFlags = 0x4
	SHF_MERGE     SectionFlags = 0x10
	SHF_TLS       SectionFlags = 0x400
)

// Has reports whether every bit in mask is set.
func (f SectionFlags) Has(mask SectionFlags) bool { return f&mask == mask }

func (f SectionFlags) String() string {
	var out string
	for _, b := range []struct {
		bit  SectionFlags
		name string
	}{
		{SHF_WRITE, "W"},
		{SHF_ALLOC, "A"},
		{SHF_EXECINSTR, "X"},
		{SHF_MERGE, "M"},
		{SHF_TLS, "T"},
	} {
		if f.Has(b.bit) {
			out += b.name
		}
	}
	return out
}

// Section is the link-time view of a named chunk of file content. It is
// created by the parser and may be mutated freely between parse and
// render: the renderer recomputes the section-name-table bytes and every
// section's file offset from the current state of the tree, so editing
// Name, Contents, or any other field here and re-rendering is always safe.
type Section struct {
	Name      string
	Type      SectionType
	Flags     SectionFlags
	Addr      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64

	// Size is the nominal sh_size. For SHT_NOBITS it is honored on render
	// (it is what the loader reserves in memory) even though Contents is
	// always empty for that type.
	Size uint64

	// Contents holds the section's file-resident bytes. For SHT_NOBITS
	// this is always empty regardless of Size.
	Contents []byte
}

// fileSize returns the number of bytes this section contributes to the
// rendered file: zero for SHT_NOBITS regardless of the nominal Size,
// otherwise len(Contents) — the renderer trusts Contents over a
// mismatched declared Size.
func (s *Section) fileSize() uint64 {
	if s.Type == SHT_NOBITS {
		return 0
	}
	return uint64(len(s.Contents))
}

// Note is one `SHT_NOTE` record: a name/type/description triple using the
// standard Elf32_Nhdr/Elf64_Nhdr layout (namesz, descsz, type, then the
// name and description each padded to a 4-byte boundary).
type Note struct {
	Type uint32
	Name []byte
	Desc []byte
}

// Notes parses the section's contents as a sequence of note records. It
// returns ErrTruncated if any record's declared sizes run past the end of
// the content buffer.
func (s *Section) Notes(order binary.ByteOrder) ([]Note, error) {
	if s.Type != SHT_NOTE {
		return nil, nil
	}
	var notes []Note
	b := s.Contents
	for len(b) > 0 {
		if len(b) < 12 {
			return nil, ErrTruncated
		}
		nameSz := order.Uint32(b[0:4])
		descSz := order.Uint32(b[4:8])
		typ := order.Uint32(b[8:12])
		b = b[12:]

		namePad := align4(nameSz)
		if uint64(len(b)) < namePad {
			return nil, ErrTruncated
		}
		name := b[:nameSz]
		b = b[namePad:]

		descPad := align4(descSz)
		if uint64(len(b)) < descPad {
			return nil, ErrTruncated
		}
		desc := b[:descSz]
		b = b[descPad:]

		notes = append(notes, Note{Type: typ, Name: name, Desc: desc})
	}
	return notes, nil
}

func align4(n uint32) uint64 {
	a := uint64(n)
	if r := a % 4; r != 0 {
		a += 4 - r
	}
	return a
}

// DynEntry is one Elf32_Dyn/Elf64_Dyn pair from a SHT_DYNAMIC section.
// Values are not resolved against a loader (e.g. DT_NEEDED's d_val is not
// looked up as a string) — only the raw tag/value pairs are exposed.
type DynEntry struct {
	Tag int64
	Val uint64
}

// Dynamic parses the section's contents as a sequence of dynamic-table
// entries for the given class/order, stopping at DT_NULL or the end of the
// content buffer, whichever comes first.
func (s *Section) Dynamic(c Class, order binary.ByteOrder) ([]DynEntry, error) {
	if s.Type != SHT_DYNAMIC {
		return nil, nil
	}
	w := widthFor(c)
	if w == nil {
		return nil, ErrBadClass
	}
	entSize := 2 * addrSize(c)
	var entries []DynEntry
	b := s.Contents
	for len(b) >= entSize {
		tag := int64(w.addr(order, b))
		val := w.addr(order, b[addrSize(c):])
		entries = append(entries, DynEntry{Tag: tag, Val: val})
		b = b[entSize:]
		const dtNull = 0
		if tag == dtNull {
			break
		}
	}
	return entries, nil
}
