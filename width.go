// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "encoding/binary"

// Class is the address width of an ELF file, read from e_ident[EI_CLASS].
type Class uint8

// Known class values.
const (
	ClassNone Class = 0
	Class32   Class = 1
	Class64   Class = 2
)

func (c Class) String() string {
	switch c {
	case Class32:
		return "ELFCLASS32"
	case Class64:
		return "ELFCLASS64"
	default:
		return "ELFCLASSNONE"
	}
}

// Data is the byte order of multi-byte fields, read from e_ident[EI_DATA].
type Data uint8

// Known data-encoding values.
const (
	DataNone Data = 0
	LSB      Data = 1
	MSB      Data = 2
)

func (d Data) String() string {
	switch d {
	case LSB:
		return "ELFDATA2LSB"
	case MSB:
		return "ELFDATA2MSB"
	default:
		return "ELFDATANONE"
	}
}

// ByteOrder returns the binary.ByteOrder matching the data encoding. Callers
// must not invoke this on DataNone.
func (d Data) ByteOrder() binary.ByteOrder {
	if d == MSB {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Fixed record sizes for the ELF header, program header, and section
// header structures.
const (
	ehdr32Size = 52
	ehdr64Size = 64
	phdr32Size = 32
	phdr64Size = 56
	shdr32Size = 40
	shdr64Size = 64
	sym32Size  = 16
	sym64Size  = 24
)

// width is the per-class primitive codec: it knows the address width, the
// fixed record sizes for that width, and how to read/write an address-sized
// (Elf32_Addr/Elf32_Off or Elf64_Addr/Elf64_Off) field. Go has no generics
// over integer width here, so the two classes get their own zero-size
// implementations instead of one type parameterized over W ∈ {32,64}.
type width interface {
	class() Class
	ehdrSize() int
	phdrSize() int
	shdrSize() int
	symSize() int

	// addr reads a width-sized unsigned field at the start of b.
	addr(order binary.ByteOrder, b []byte) uint64

	// putAddr writes v as a width-sized unsigned field at the start of b.
	putAddr(order binary.ByteOrder, b []byte, v uint64)
}

type width32 struct{}
type width64 struct{}

func (width32) class() Class  { return Class32 }
func (width64) class() Class  { return Class64 }
func (width32) ehdrSize() int { return ehdr32Size }
func (width64) ehdrSize() int { return ehdr64Size }
func (width32) phdrSize() int { return phdr32Size }
func (width64) phdrSize() int { return phdr64Size }
func (width32) shdrSize() int { return shdr32Size }
func (width64) shdrSize() int { return shdr64Size }
func (width32) symSize() int  { return sym32Size }
func (width64) symSize() int  { return sym64Size }

func (width32) addr(order binary.ByteOrder, b []byte) uint64 {
	return uint64(order.Uint32(b))
}

func (width64) addr(order binary.ByteOrder, b []byte) uint64 {
	return order.Uint64(b)
}

func (width32) putAddr(order binary.ByteOrder, b []byte, v uint64) {
	order.PutUint32(b, uint32(v))
}

func (width64) putAddr(order binary.ByteOrder, b []byte, v uint64) {
	order.PutUint64(b, v)
}

// widthFor returns the primitive codec for a class, or nil for ClassNone.
func widthFor(c Class) width {
	switch c {
	case Class32:
		return width32{}
	case Class64:
		return width64{}
	default:
		return nil
	}
}

// addrSize returns the byte width of an address-sized field for the class.
func addrSize(c Class) int {
	if c == Class64 {
		return 8
	}
	return 4
}

// readBounded reads size bytes at offset from b, returning ErrTruncated
// instead of panicking when the read runs past the end of the buffer.
func readBounded(b []byte, offset, size int) ([]byte, error) {
	if offset < 0 || size < 0 {
		return nil, ErrTruncated
	}
	end := offset + size
	if end < offset || end > len(b) {
		return nil, ErrTruncated
	}
	return b[offset:end], nil
}
