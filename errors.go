// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "errors"

// Parse-time errors.
var (
	// ErrBadMagic is returned when the 4-byte ELF magic is not present.
	ErrBadMagic = errors.New("elf: bad magic, not an ELF file")

	// ErrBadClass is returned when EI_CLASS is neither ELFCLASS32 nor
	// ELFCLASS64.
	ErrBadClass = errors.New("elf: unsupported or invalid class byte")

	// ErrBadData is returned when EI_DATA is neither ELFDATA2LSB nor
	// ELFDATA2MSB.
	ErrBadData = errors.New("elf: unsupported or invalid data encoding byte")

	// ErrBadVersion is returned when EI_VERSION, or the 32-bit version field
	// in the ELF header, is not 1.
	ErrBadVersion = errors.New("elf: unsupported version, expected 1")

	// ErrBadHeaderSize is returned when ehsize/phentsize/shentsize disagree
	// with the fixed sizes mandated for the file's class.
	ErrBadHeaderSize = errors.New("elf: header, program header, or section header size does not match class")

	// ErrTruncated is returned when a read runs past the end of the buffer.
	ErrTruncated = errors.New("elf: truncated input")

	// ErrOverlap is returned when two special (non-segment) regions claim
	// overlapping byte ranges while folding the region tree.
	ErrOverlap = errors.New("elf: overlapping regions")

	// ErrBadSymbol is returned when a symbol table entry carries an
	// unrecognized binding value.
	ErrBadSymbol = errors.New("elf: unrecognized symbol binding")

	// ErrNoOverlay is returned when a file has no bytes past its last
	// region.
	ErrNoOverlay = errors.New("elf: file has no trailing overlay data")
)
