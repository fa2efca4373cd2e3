// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "testing"

func TestObjectTypeStringFallback(t *testing.T) {
	if ET_EXEC.String() != "ET_EXEC" {
		t.Errorf("ET_EXEC.String() = %q, want ET_EXEC", ET_EXEC.String())
	}
	if got := ObjectType(0x99).String(); got != "ET_EXT(0x99)" {
		t.Errorf("ObjectType(0x99).String() = %q, want ET_EXT(0x99)", got)
	}
}

func TestMachineStringFallback(t *testing.T) {
	if EM_X86_64.String() != "EM_X86_64" {
		t.Errorf("EM_X86_64.String() = %q, want EM_X86_64", EM_X86_64.String())
	}
	if got := Machine(0xABCD).String(); got != "EM_EXT(0xabcd)" {
		t.Errorf("Machine(0xABCD).String() = %q, want EM_EXT(0xabcd)", got)
	}
}

func TestOSABIStringFallback(t *testing.T) {
	if ELFOSABI_LINUX.String() != "ELFOSABI_LINUX" {
		t.Errorf("ELFOSABI_LINUX.String() = %q, want ELFOSABI_LINUX", ELFOSABI_LINUX.String())
	}
	if got := OSABI(200).String(); got != "ELFOSABI_EXT(0xc8)" {
		t.Errorf("OSABI(200).String() = %q, want ELFOSABI_EXT(0xc8)", got)
	}
}

func TestSectionIndexKind(t *testing.T) {
	cases := []struct {
		idx  SectionIndex
		want SectionIndexKind
	}{
		{SHN_UNDEF, SHNKindUndef},
		{SHN_ABS, SHNKindAbs},
		{SHN_COMMON, SHNKindCommon},
		{SHN_LOPROC, SHNKindLoProc},
		{SHN_HIPROC, SHNKindHiProc},
		{SectionIndex(0xff10), SHNKindCustomProc},
		{SHN_LOOS, SHNKindLoOS},
		{SHN_HIOS, SHNKindHiOS},
		{SectionIndex(0xff30), SHNKindCustomOS},
		{SectionIndex(3), SHNKindIndex},
	}
	for _, c := range cases {
		if got := c.idx.Kind(); got != c.want {
			t.Errorf("SectionIndex(0x%x).Kind() = %v, want %v", uint16(c.idx), got, c.want)
		}
	}
}

func TestDescribeReservedIndexMachineGated(t *testing.T) {
	got := describeReservedIndex(SectionIndex(0xff02), EM_X86_64, ELFOSABI_LINUX)
	if got != "SHN_X86_64_LCOMMON" {
		t.Errorf("describeReservedIndex(x86-64 lcommon) = %q, want SHN_X86_64_LCOMMON", got)
	}

	got = describeReservedIndex(SectionIndex(0xff02), EM_ARM, ELFOSABI_LINUX)
	if got == "SHN_X86_64_LCOMMON" {
		t.Error("describeReservedIndex should not alias 0xff02 for EM_ARM")
	}

	got = describeReservedIndex(SectionIndex(0xff00), EM_IA_64, ELFOSABI_HPUX)
	if got != "SHN_IA_64_HP_UX_ANSI_COMMON" {
		t.Errorf("describeReservedIndex(IA-64 HP-UX) = %q, want SHN_IA_64_HP_UX_ANSI_COMMON", got)
	}

	got = describeReservedIndex(SectionIndex(0xff00), EM_TI_C6000, ELFOSABI_NONE)
	if got != "SHN_TIC6X_SCOMMON" {
		t.Errorf("describeReservedIndex(TIC6X) = %q, want SHN_TIC6X_SCOMMON", got)
	}
}
