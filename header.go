// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "encoding/binary"

// magic is the 4-byte ELF identification magic, e_ident[EI_MAG0..EI_MAG3].
var magic = [4]byte{0x7f, 'E', 'L', 'F'}

// rawHeader holds every field read directly off the 52/64-byte ELF header
// record, before it is folded into an Elf + region tree by the parser. The
// renderer never consults this type directly — phoff/shoff/phnum/shnum/
// shstrndx are always recomputed from the region tree's actual layout at
// render time — it exists purely as the parser's intermediate record.
type rawHeader struct {
	Class      Class
	Data       Data
	Version    uint8
	OSABI      OSABI
	ABIVersion uint8

	Type    ObjectType
	Machine Machine
	Version32 uint32
	Entry   uint64
	Phoff   uint64
	Shoff   uint64
	Flags   uint32

	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// parseHeader reads and validates the ELF header at the start of b. It
// returns ErrTruncated if b is shorter than the 16-byte identifier,
// ErrBadMagic/ErrBadClass/ErrBadData/ErrBadVersion for a malformed
// identifier, and ErrBadHeaderSize if ehsize/phentsize/shentsize disagree
// with the fixed sizes mandated for the class — checked on both ELFCLASS32
// and ELFCLASS64, since a crafted header can claim either class.
func parseHeader(b []byte) (rawHeader, error) {
	var h rawHeader

	ident, err := readBounded(b, 0, 16)
	if err != nil {
		return h, ErrTruncated
	}
	if [4]byte{ident[0], ident[1], ident[2], ident[3]} != magic {
		return h, ErrBadMagic
	}

	h.Class = Class(ident[4])
	if h.Class != Class32 && h.Class != Class64 {
		return h, ErrBadClass
	}
	h.Data = Data(ident[5])
	if h.Data != LSB && h.Data != MSB {
		return h, ErrBadData
	}
	h.Version = ident[6]
	if h.Version != 1 {
		return h, ErrBadVersion
	}
	h.OSABI = OSABI(ident[7])
	h.ABIVersion = ident[8]
	// ident[9:16] is 7 bytes of reserved padding, skipped.

	w := widthFor(h.Class)
	order := h.Data.ByteOrder()
	rest, err := readBounded(b, 16, w.ehdrSize()-16)
	if err != nil {
		return h, ErrTruncated
	}

	h.Type = ObjectType(order.Uint16(rest[0:2]))
	h.Machine = Machine(order.Uint16(rest[2:4]))
	h.Version32 = order.Uint32(rest[4:8])
	if h.Version32 != uint32(h.Version) {
		return h, ErrBadVersion
	}

	off := 8
	asz := addrSize(h.Class)
	h.Entry = w.addr(order, rest[off:])
	off += asz
	h.Phoff = w.addr(order, rest[off:])
	off += asz
	h.Shoff = w.addr(order, rest[off:])
	off += asz

	h.Flags = order.Uint32(rest[off : off+4])
	off += 4
	h.Ehsize = order.Uint16(rest[off : off+2])
	off += 2
	h.Phentsize = order.Uint16(rest[off : off+2])
	off += 2
	h.Phnum = order.Uint16(rest[off : off+2])
	off += 2
	h.Shentsize = order.Uint16(rest[off : off+2])
	off += 2
	h.Shnum = order.Uint16(rest[off : off+2])
	off += 2
	h.Shstrndx = order.Uint16(rest[off : off+2])

	wantPhentsize := uint16(phdr32Size)
	wantShentsize := uint16(shdr32Size)
	wantEhsize := uint16(ehdr32Size)
	if h.Class == Class64 {
		wantPhentsize = phdr64Size
		wantShentsize = shdr64Size
		wantEhsize = ehdr64Size
	}
	if h.Ehsize != wantEhsize || h.Phentsize != wantPhentsize || h.Shentsize != wantShentsize {
		return h, ErrBadHeaderSize
	}

	return h, nil
}

// writeHeader renders the full ELF header record given the final layout.
// It is the mirror image of parseHeader and is only ever called by the
// renderer once phoff/shoff/phnum/shnum/shstrndx are fully known, since
// the final layout must be constructed before any of these can be written.
func writeHeader(e *Elf, phoff, shoff uint64, phnum, shnum, shstrndx uint16) []byte {
	w := widthFor(e.Class)
	order := e.Data.ByteOrder()
	buf := make([]byte, w.ehdrSize())

	copy(buf[0:4], magic[:])
	buf[4] = byte(e.Class)
	buf[5] = byte(e.Data)
	buf[6] = e.Version
	buf[7] = byte(e.OSABI)
	buf[8] = e.ABIVersion
	// buf[9:16] stays zero, matching the 7 reserved pad bytes.

	order.PutUint16(buf[16:18], uint16(e.Type))
	order.PutUint16(buf[18:20], uint16(e.Machine))
	order.PutUint32(buf[20:24], uint32(e.Version))

	off := 24
	asz := addrSize(e.Class)
	w.putAddr(order, buf[off:], e.Entry)
	off += asz
	w.putAddr(order, buf[off:], phoff)
	off += asz
	w.putAddr(order, buf[off:], shoff)
	off += asz

	order.PutUint32(buf[off:off+4], e.Flags)
	off += 4
	order.PutUint16(buf[off:off+2], uint16(w.ehdrSize()))
	off += 2
	order.PutUint16(buf[off:off+2], uint16(w.phdrSize()))
	off += 2
	order.PutUint16(buf[off:off+2], phnum)
	off += 2
	order.PutUint16(buf[off:off+2], uint16(w.shdrSize()))
	off += 2
	order.PutUint16(buf[off:off+2], shnum)
	off += 2
	order.PutUint16(buf[off:off+2], shstrndx)

	return buf
}

// phdrRaw is a parsed program-header entry, pre-Segment conversion.
type phdrRaw struct {
	Type   SegmentType
	Flags  SegmentFlags
	Offset uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

func parsePhdr(c Class, order binary.ByteOrder, b []byte) phdrRaw {
	var p phdrRaw
	asz := addrSize(c)
	if c == Class32 {
		p.Type = SegmentType(order.Uint32(b[0:4]))
		p.Offset = uint64(order.Uint32(b[4:8]))
		p.Vaddr = uint64(order.Uint32(b[8:12]))
		p.Paddr = uint64(order.Uint32(b[12:16]))
		p.Filesz = uint64(order.Uint32(b[16:20]))
		p.Memsz = uint64(order.Uint32(b[20:24]))
		p.Flags = SegmentFlags(order.Uint32(b[24:28]))
		p.Align = uint64(order.Uint32(b[28:32]))
		return p
	}
	p.Type = SegmentType(order.Uint32(b[0:4]))
	p.Flags = SegmentFlags(order.Uint32(b[4:8]))
	off := 8
	p.Offset = order.Uint64(b[off : off+asz])
	off += asz
	p.Vaddr = order.Uint64(b[off : off+asz])
	off += asz
	p.Paddr = order.Uint64(b[off : off+asz])
	off += asz
	p.Filesz = order.Uint64(b[off : off+asz])
	off += asz
	p.Memsz = order.Uint64(b[off : off+asz])
	off += asz
	p.Align = order.Uint64(b[off : off+asz])
	return p
}

func writePhdr(c Class, order binary.ByteOrder, seg *Segment, offset, filesz uint64) []byte {
	w := widthFor(c)
	buf := make([]byte, w.phdrSize())
	asz := addrSize(c)
	if c == Class32 {
		order.PutUint32(buf[0:4], uint32(seg.Type))
		order.PutUint32(buf[4:8], uint32(offset))
		order.PutUint32(buf[8:12], uint32(seg.VirtAddr))
		order.PutUint32(buf[12:16], uint32(seg.PhysAddr))
		order.PutUint32(buf[16:20], uint32(filesz))
		order.PutUint32(buf[20:24], uint32(seg.MemSize))
		order.PutUint32(buf[24:28], uint32(seg.Flags))
		order.PutUint32(buf[28:32], uint32(seg.Align))
		return buf
	}
	order.PutUint32(buf[0:4], uint32(seg.Type))
	order.PutUint32(buf[4:8], uint32(seg.Flags))
	off := 8
	order.PutUint64(buf[off:off+asz], offset)
	off += asz
	order.PutUint64(buf[off:off+asz], seg.VirtAddr)
	off += asz
	order.PutUint64(buf[off:off+asz], seg.PhysAddr)
	off += asz
	order.PutUint64(buf[off:off+asz], filesz)
	off += asz
	order.PutUint64(buf[off:off+asz], seg.MemSize)
	off += asz
	order.PutUint64(buf[off:off+asz], seg.Align)
	return buf
}

// shdrRaw is a parsed section-header entry, pre-Section conversion.
type shdrRaw struct {
	NameOff   uint32
	Type      SectionType
	Flags     SectionFlags
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

func parseShdr(c Class, order binary.ByteOrder, b []byte) shdrRaw {
	var s shdrRaw
	asz := addrSize(c)
	s.NameOff = order.Uint32(b[0:4])
	s.Type = SectionType(order.Uint32(b[4:8]))
	off := 8
	w := widthFor(c)
	s.Flags = SectionFlags(w.addr(order, b[off:off+asz]))
	off += asz
	s.Addr = w.addr(order, b[off:off+asz])
	off += asz
	s.Offset = w.addr(order, b[off:off+asz])
	off += asz
	s.Size = w.addr(order, b[off:off+asz])
	off += asz
	s.Link = order.Uint32(b[off : off+4])
	off += 4
	s.Info = order.Uint32(b[off : off+4])
	off += 4
	s.AddrAlign = w.addr(order, b[off:off+asz])
	off += asz
	s.EntSize = w.addr(order, b[off:off+asz])
	return s
}

func writeShdr(c Class, order binary.ByteOrder, nameOff uint32, sec *Section, offset, size uint64) []byte {
	w := widthFor(c)
	asz := addrSize(c)
	buf := make([]byte, w.shdrSize())
	order.PutUint32(buf[0:4], nameOff)
	order.PutUint32(buf[4:8], uint32(sec.Type))
	off := 8
	w.putAddr(order, buf[off:], uint64(sec.Flags))
	off += asz
	w.putAddr(order, buf[off:], sec.Addr)
	off += asz
	w.putAddr(order, buf[off:], offset)
	off += asz
	w.putAddr(order, buf[off:], size)
	off += asz
	order.PutUint32(buf[off:off+4], sec.Link)
	off += 4
	order.PutUint32(buf[off:off+4], sec.Info)
	off += 4
	w.putAddr(order, buf[off:], sec.AddrAlign)
	off += asz
	w.putAddr(order, buf[off:], sec.EntSize)
	return buf
}
