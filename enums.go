// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "fmt"

// ObjectType is e_type: what kind of object file this is.
type ObjectType uint16

// Known object types.
const (
	ET_NONE ObjectType = 0
	ET_REL  ObjectType = 1
	ET_EXEC ObjectType = 2
	ET_DYN  ObjectType = 3
	ET_CORE ObjectType = 4
)

var objectTypeNames = map[ObjectType]string{
	ET_NONE: "ET_NONE",
	ET_REL:  "ET_REL",
	ET_EXEC: "ET_EXEC",
	ET_DYN:  "ET_DYN",
	ET_CORE: "ET_CORE",
}

// String renders a known type by name and falls through to the raw numeric
// value for anything outside the known set: the raw uint16 underlying
// ObjectType already survives a parse/render cycle unchanged, so an
// unrecognized value needs no separate representation, only a label.
func (t ObjectType) String() string {
	if s, ok := objectTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ET_EXT(0x%x)", uint16(t))
}

// Machine is e_machine: the target instruction set architecture.
type Machine uint16

// A selection of machine values seen in practice. The set is intentionally
// open: unrecognized values round-trip as their raw uint16 and stringify via
// the fallback branch below.
const (
	EM_NONE    Machine = 0
	EM_386     Machine = 3
	EM_MIPS    Machine = 8
	EM_PPC     Machine = 20
	EM_PPC64   Machine = 21
	EM_ARM     Machine = 40
	EM_SPARCV9 Machine = 43
	EM_IA_64   Machine = 50
	EM_X86_64  Machine = 62
	EM_AARCH64 Machine = 183
	EM_RISCV   Machine = 243
	EM_TI_C6000 Machine = 140
)

var machineNames = map[Machine]string{
	EM_NONE:    "EM_NONE",
	EM_386:     "EM_386",
	EM_MIPS:    "EM_MIPS",
	EM_PPC:     "EM_PPC",
	EM_PPC64:   "EM_PPC64",
	EM_ARM:     "EM_ARM",
	EM_SPARCV9: "EM_SPARCV9",
	EM_IA_64:   "EM_IA_64",
	EM_X86_64:  "EM_X86_64",
	EM_AARCH64: "EM_AARCH64",
	EM_RISCV:   "EM_RISCV",
	EM_TI_C6000: "EM_TI_C6000",
}

func (m Machine) String() string {
	if s, ok := machineNames[m]; ok {
		return s
	}
	return fmt.Sprintf("EM_EXT(0x%x)", uint16(m))
}

// OSABI is e_ident[EI_OSABI].
type OSABI uint8

// Known OS/ABI values.
const (
	ELFOSABI_NONE     OSABI = 0
	ELFOSABI_HPUX     OSABI = 1
	ELFOSABI_NETBSD   OSABI = 2
	ELFOSABI_LINUX    OSABI = 3
	ELFOSABI_SOLARIS  OSABI = 6
	ELFOSABI_AIX      OSABI = 7
	ELFOSABI_IRIX     OSABI = 8
	ELFOSABI_FREEBSD  OSABI = 9
	ELFOSABI_TRU64    OSABI = 10
	ELFOSABI_MODESTO  OSABI = 11
	ELFOSABI_OPENBSD  OSABI = 12
	ELFOSABI_ARM_AEABI OSABI = 64
	ELFOSABI_ARM      OSABI = 97
	ELFOSABI_STANDALONE OSABI = 255
)

var osabiNames = map[OSABI]string{
	ELFOSABI_NONE:       "ELFOSABI_NONE",
	ELFOSABI_HPUX:       "ELFOSABI_HPUX",
	ELFOSABI_NETBSD:     "ELFOSABI_NETBSD",
	ELFOSABI_LINUX:      "ELFOSABI_LINUX",
	ELFOSABI_SOLARIS:    "ELFOSABI_SOLARIS",
	ELFOSABI_AIX:        "ELFOSABI_AIX",
	ELFOSABI_IRIX:       "ELFOSABI_IRIX",
	ELFOSABI_FREEBSD:    "ELFOSABI_FREEBSD",
	ELFOSABI_TRU64:      "ELFOSABI_TRU64",
	ELFOSABI_MODESTO:    "ELFOSABI_MODESTO",
	ELFOSABI_OPENBSD:    "ELFOSABI_OPENBSD",
	ELFOSABI_ARM_AEABI:  "ELFOSABI_ARM_AEABI",
	ELFOSABI_ARM:        "ELFOSABI_ARM",
	ELFOSABI_STANDALONE: "ELFOSABI_STANDALONE",
}

func (o OSABI) String() string {
	if s, ok := osabiNames[o]; ok {
		return s
	}
	return fmt.Sprintf("ELFOSABI_EXT(0x%x)", uint8(o))
}

// SectionIndex is a 16-bit section-header-table index, as stored in
// st_shndx and e_shstrndx. Most values are a plain zero-based Index into the
// section table, but certain ranges are reserved for special meaning
// (SHN_UNDEF, SHN_ABS, SHN_COMMON, and processor/OS reserved sub-ranges).
type SectionIndex uint16

// Reserved section-index range boundaries and sentinels.
const (
	SHN_UNDEF     SectionIndex = 0x0000
	SHN_LOPROC    SectionIndex = 0xff00
	SHN_HIPROC    SectionIndex = 0xff1f
	SHN_LOOS      SectionIndex = 0xff20
	SHN_HIOS      SectionIndex = 0xff3f
	SHN_ABS       SectionIndex = 0xfff1
	SHN_COMMON    SectionIndex = 0xfff2
	SHN_XINDEX    SectionIndex = 0xffff
)

// Machine-specific aliases within the processor-reserved range, gated on
// Machine and OSABI.
const (
	shnX8664LComment     = 0xff02 // x86-64 LCOMMON
	shnMIPSSComment      = 0xff03 // MIPS SCOMMON
	shnMIPSSUndefined    = 0xff04 // MIPS SUNDEFINED
	shnIA64HPUXANSIComm  = 0xff00 // IA-64 HP-UX ANSI_COMMON
	shnTIC6XSComment     = 0xff00 // TIC6X SCOMMON
)

// SectionIndexKind classifies a SectionIndex into the reserved-range
// buckets.
type SectionIndexKind int

const (
	SHNKindUndef SectionIndexKind = iota
	SHNKindLoProc
	SHNKindCustomProc
	SHNKindHiProc
	SHNKindLoOS
	SHNKindCustomOS
	SHNKindHiOS
	SHNKindAbs
	SHNKindCommon
	SHNKindIndex
)

// Kind classifies the index into one of the reserved-range buckets, or
// SHNKindIndex for an ordinary zero-based section-table reference.
func (s SectionIndex) Kind() SectionIndexKind {
	switch {
	case s == SHN_UNDEF:
		return SHNKindUndef
	case s == SHN_LOPROC:
		return SHNKindLoProc
	case s == SHN_HIPROC:
		return SHNKindHiProc
	case s > SHN_LOPROC && s < SHN_HIPROC:
		return SHNKindCustomProc
	case s == SHN_LOOS:
		return SHNKindLoOS
	case s == SHN_HIOS:
		return SHNKindHiOS
	case s > SHN_LOOS && s < SHN_HIOS:
		return SHNKindCustomOS
	case s == SHN_ABS:
		return SHNKindAbs
	case s == SHN_COMMON:
		return SHNKindCommon
	default:
		return SHNKindIndex
	}
}

// String pretty-prints the index, recognizing the machine/OS-ABI gated
// processor-reserved aliases.
func (s SectionIndex) String() string {
	switch s.Kind() {
	case SHNKindUndef:
		return "SHN_UNDEF"
	case SHNKindAbs:
		return "SHN_ABS"
	case SHNKindCommon:
		return "SHN_COMMON"
	case SHNKindLoProc:
		return "SHN_LOPROC"
	case SHNKindHiProc:
		return "SHN_HIPROC"
	case SHNKindLoOS:
		return "SHN_LOOS"
	case SHNKindHiOS:
		return "SHN_HIOS"
	}
	return fmt.Sprintf("%d", uint16(s))
}

// describeReservedIndex applies the machine/OS-ABI gated aliases for a
// processor-reserved index. It is kept separate from String() so
// that pretty-printing a bare SectionIndex (no machine context available)
// still produces a stable result, while call sites that know the owning
// file's machine and OS/ABI can ask for the richer name.
func describeReservedIndex(s SectionIndex, m Machine, abi OSABI) string {
	if s.Kind() != SHNKindCustomProc && s != SHN_LOPROC {
		return s.String()
	}
	switch {
	case m == EM_X86_64 && uint16(s) == shnX8664LComment:
		return "SHN_X86_64_LCOMMON"
	case m == EM_MIPS && uint16(s) == shnMIPSSComment:
		return "SHN_MIPS_SCOMMON"
	case m == EM_MIPS && uint16(s) == shnMIPSSUndefined:
		return "SHN_MIPS_SUNDEFINED"
	case m == EM_IA_64 && abi == ELFOSABI_HPUX && uint16(s) == shnIA64HPUXANSIComm:
		return "SHN_IA_64_HP_UX_ANSI_COMMON"
	case m == EM_TI_C6000 && uint16(s) == shnTIC6XSComment:
		return "SHN_TIC6X_SCOMMON"
	default:
		return s.String()
	}
}
