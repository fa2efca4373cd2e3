// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "fmt"

// SymType is the low nibble of st_info.
type SymType uint8

// Known symbol types.
const (
	STT_NOTYPE  SymType = 0
	STT_OBJECT  SymType = 1
	STT_FUNC    SymType = 2
	STT_SECTION SymType = 3
	STT_FILE    SymType = 4
	STT_COMMON  SymType = 5
	STT_TLS     SymType = 6
)

var symTypeNames = map[SymType]string{
	STT_NOTYPE:  "STT_NOTYPE",
	STT_OBJECT:  "STT_OBJECT",
	STT_FUNC:    "STT_FUNC",
	STT_SECTION: "STT_SECTION",
	STT_FILE:    "STT_FILE",
	STT_COMMON:  "STT_COMMON",
	STT_TLS:     "STT_TLS",
}

func (t SymType) String() string {
	if s, ok := symTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("STT_EXT(0x%x)", uint8(t))
}

// SymBind is the high nibble of st_info. Unlike SymType, this is a closed
// set: a value outside {LOCAL,GLOBAL,WEAK} is rejected with ErrBadSymbol
// rather than preserved as an extension.
type SymBind uint8

// Known symbol bindings.
const (
	STB_LOCAL  SymBind = 0
	STB_GLOBAL SymBind = 1
	STB_WEAK   SymBind = 2
)

func (b SymBind) String() string {
	switch b {
	case STB_LOCAL:
		return "STB_LOCAL"
	case STB_GLOBAL:
		return "STB_GLOBAL"
	case STB_WEAK:
		return "STB_WEAK"
	default:
		return fmt.Sprintf("STB_EXT(0x%x)", uint8(b))
	}
}

func (b SymBind) valid() bool {
	return b == STB_LOCAL || b == STB_GLOBAL || b == STB_WEAK
}

// Symbol is one entry from a SHT_SYMTAB section.
type Symbol struct {
	NameOffset uint32
	Name       string

	// Section is the section this symbol is defined in, resolved from
	// st_shndx when it names an ordinary section-table entry. It is nil
	// for reserved indices (SHN_UNDEF, SHN_ABS, SHN_COMMON, and the
	// processor/OS reserved ranges) or if the index is out of range.
	Section *Section

	Type  SymType
	Bind  SymBind
	Other uint8
	Index SectionIndex
	Value uint64
	Size  uint64
}

// ParseSymbols parses a SHT_SYMTAB (or SHT_DYNSYM) section's contents into
// typed entries. The associated string table is the section named by
// sh_link, looked up 1-based against sections.
func ParseSymbols(c Class, order Data, symtab *Section, sections []*Section) ([]Symbol, error) {
	w := widthFor(c)
	if w == nil {
		return nil, ErrBadClass
	}

	var strtabSec *Section
	if symtab.Link > 0 && int(symtab.Link) <= len(sections) {
		strtabSec = sections[symtab.Link-1]
	}

	entSize := w.symSize()
	ord := order.ByteOrder()
	b := symtab.Contents
	var syms []Symbol
	for len(b) >= entSize {
		rec, err := readBounded(b, 0, entSize)
		if err != nil {
			return nil, err
		}
		var sym Symbol
		switch c {
		case Class32:
			sym.NameOffset = ord.Uint32(rec[0:4])
			sym.Value = uint64(ord.Uint32(rec[4:8]))
			sym.Size = uint64(ord.Uint32(rec[8:12]))
			info := rec[12]
			sym.Other = rec[13]
			sym.Index = SectionIndex(ord.Uint16(rec[14:16]))
			sym.Type = SymType(info & 0x0f)
			sym.Bind = SymBind(info >> 4)
		case Class64:
			sym.NameOffset = ord.Uint32(rec[0:4])
			info := rec[4]
			sym.Other = rec[5]
			sym.Index = SectionIndex(ord.Uint16(rec[6:8]))
			sym.Value = ord.Uint64(rec[8:16])
			sym.Size = ord.Uint64(rec[16:24])
			sym.Type = SymType(info & 0x0f)
			sym.Bind = SymBind(info >> 4)
		}

		if !sym.Bind.valid() {
			return nil, ErrBadSymbol
		}

		if strtabSec != nil {
			sym.Name = string(LookupString(strtabSec.Contents, sym.NameOffset))
		}

		if sym.Index.Kind() == SHNKindIndex && int(sym.Index) >= 1 && int(sym.Index) <= len(sections) {
			sym.Section = sections[sym.Index-1]
		}

		syms = append(syms, sym)
		b = b[entSize:]
	}
	return syms, nil
}

// FindDefinition returns the byte slice of the symbol's definition, i.e.
// sym.Section.Contents[sym.Value : sym.Value+sym.Size]. It returns
// (nil, false) when the enclosing section is absent, the size is zero, or
// the range exceeds the section's contents.
func (sym *Symbol) FindDefinition() ([]byte, bool) {
	if sym.Section == nil || sym.Size == 0 {
		return nil, false
	}
	start := sym.Value
	end := sym.Value + sym.Size
	contents := sym.Section.Contents
	if end < start || end > uint64(len(contents)) {
		return nil, false
	}
	return contents[start:end], true
}
