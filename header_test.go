// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "testing"

func minimalEhdr64() []byte {
	b := make([]byte, ehdr64Size)
	copy(b[0:4], magic[:])
	b[4] = byte(Class64)
	b[5] = byte(LSB)
	b[6] = 1 // version
	b[16] = byte(ET_EXEC)
	LSB.ByteOrder().PutUint32(b[20:24], 1) // e_version
	LSB.ByteOrder().PutUint16(b[52:54], uint16(ehdr64Size))
	LSB.ByteOrder().PutUint16(b[54:56], uint16(phdr64Size))
	LSB.ByteOrder().PutUint16(b[58:60], uint16(shdr64Size))
	return b
}

func TestParseHeaderValid64(t *testing.T) {
	b := minimalEhdr64()
	h, err := parseHeader(b)
	if err != nil {
		t.Fatalf("parseHeader failed: %v", err)
	}
	if h.Class != Class64 || h.Data != LSB || h.Type != ET_EXEC {
		t.Errorf("h = %+v, unexpected fields", h)
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	b := minimalEhdr64()
	b[0] = 0
	if _, err := parseHeader(b); err != ErrBadMagic {
		t.Errorf("parseHeader(bad magic) = %v, want ErrBadMagic", err)
	}
}

func TestParseHeaderBadClass(t *testing.T) {
	b := minimalEhdr64()
	b[4] = 9
	if _, err := parseHeader(b); err != ErrBadClass {
		t.Errorf("parseHeader(bad class) = %v, want ErrBadClass", err)
	}
}

func TestParseHeaderBadData(t *testing.T) {
	b := minimalEhdr64()
	b[5] = 9
	if _, err := parseHeader(b); err != ErrBadData {
		t.Errorf("parseHeader(bad data) = %v, want ErrBadData", err)
	}
}

func TestParseHeaderBadVersion(t *testing.T) {
	b := minimalEhdr64()
	b[6] = 2
	if _, err := parseHeader(b); err != ErrBadVersion {
		t.Errorf("parseHeader(bad version) = %v, want ErrBadVersion", err)
	}
}

func TestParseHeaderTruncated(t *testing.T) {
	b := minimalEhdr64()[:10]
	if _, err := parseHeader(b); err != ErrTruncated {
		t.Errorf("parseHeader(truncated) = %v, want ErrTruncated", err)
	}
}

// TestParseHeaderBadSize64 checks that the 64-bit path validates
// ehsize/phentsize/shentsize just as strictly as the 32-bit path does.
func TestParseHeaderBadSize64(t *testing.T) {
	b := minimalEhdr64()
	LSB.ByteOrder().PutUint16(b[54:56], 1) // bogus phentsize
	if _, err := parseHeader(b); err != ErrBadHeaderSize {
		t.Errorf("parseHeader(bad 64-bit phentsize) = %v, want ErrBadHeaderSize", err)
	}
}

func TestWriteHeaderRoundTrip(t *testing.T) {
	e := &Elf{
		Class: Class64, Data: LSB, Version: 1, OSABI: ELFOSABI_LINUX,
		Type: ET_DYN, Machine: EM_X86_64, Entry: 0x4000, Flags: 7,
	}
	buf := writeHeader(e, 0x40, 0x100, 2, 5, 4)
	h, err := parseHeader(buf)
	if err != nil {
		t.Fatalf("parseHeader(writeHeader(...)) failed: %v", err)
	}
	if h.Type != ET_DYN || h.Machine != EM_X86_64 || h.Entry != 0x4000 || h.Flags != 7 {
		t.Errorf("h = %+v, fields lost across write/parse", h)
	}
	if h.Phoff != 0x40 || h.Shoff != 0x100 || h.Phnum != 2 || h.Shnum != 5 || h.Shstrndx != 4 {
		t.Errorf("h = %+v, layout fields lost across write/parse", h)
	}
}

func TestPhdrRoundTrip64(t *testing.T) {
	order := LSB.ByteOrder()
	seg := &Segment{Type: PT_LOAD, Flags: PF_R | PF_X, VirtAddr: 0x1000, PhysAddr: 0x1000, MemSize: 0x20, Align: 0x1000}
	buf := writePhdr(Class64, order, seg, 0x80, 0x18)
	if len(buf) != phdr64Size {
		t.Fatalf("len(buf) = %d, want %d", len(buf), phdr64Size)
	}
	p := parsePhdr(Class64, order, buf)
	if p.Type != PT_LOAD || p.Flags != (PF_R|PF_X) || p.Offset != 0x80 || p.Filesz != 0x18 {
		t.Errorf("p = %+v, unexpected fields", p)
	}
	if p.Vaddr != 0x1000 || p.Memsz != 0x20 || p.Align != 0x1000 {
		t.Errorf("p = %+v, unexpected addr/size fields", p)
	}
}

func TestPhdrRoundTrip32(t *testing.T) {
	order := LSB.ByteOrder()
	seg := &Segment{Type: PT_DYNAMIC, Flags: PF_R | PF_W, VirtAddr: 0x2000, Align: 4}
	buf := writePhdr(Class32, order, seg, 0x40, 0x10)
	if len(buf) != phdr32Size {
		t.Fatalf("len(buf) = %d, want %d", len(buf), phdr32Size)
	}
	p := parsePhdr(Class32, order, buf)
	if p.Type != PT_DYNAMIC || p.Offset != 0x40 || p.Filesz != 0x10 || p.Vaddr != 0x2000 {
		t.Errorf("p = %+v, unexpected fields", p)
	}
}

func TestShdrRoundTrip64(t *testing.T) {
	order := LSB.ByteOrder()
	sec := &Section{Type: SHT_PROGBITS, Flags: SHF_ALLOC | SHF_EXECINSTR, Addr: 0x1000, Link: 3, Info: 1, AddrAlign: 16, EntSize: 0}
	buf := writeShdr(Class64, order, 0x20, sec, 0x200, 0x40)
	s := parseShdr(Class64, order, buf)
	if s.NameOff != 0x20 || s.Type != SHT_PROGBITS || s.Offset != 0x200 || s.Size != 0x40 {
		t.Errorf("s = %+v, unexpected fields", s)
	}
	if s.Link != 3 || s.Info != 1 || s.AddrAlign != 16 {
		t.Errorf("s = %+v, unexpected link/info/align", s)
	}
}
