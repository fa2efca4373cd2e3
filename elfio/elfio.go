// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package elfio provides convenience file I/O for the elf package: opening a
// file via mmap and writing a rendered image back to disk. It is
// deliberately kept outside the core elf package — elf.Parse/elf.Render
// operate on plain []byte, with no knowledge of the filesystem, per the
// library's scope — so that callers embedding elf in a context with no
// local filesystem (an in-memory scanner, a network service) never pull in
// an os/mmap dependency they do not need.
package elfio

import (
	"io/ioutil"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/saferwall/elf"
)

// Handle is the mmap-backed open file behind an elf.Elf returned by Open;
// the parsed image itself is returned separately. Close unmaps the file.
type Handle struct {
	data mmap.MMap
	f    *os.File
}

// Open memory-maps name read-only and parses it as an ELF file.
func Open(name string) (*elf.Elf, *Handle, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	e, err := elf.Parse(data)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, nil, err
	}

	return e, &Handle{data: data, f: f}, nil
}

// Close unmaps the underlying file and closes its descriptor.
func (h *Handle) Close() error {
	if h == nil {
		return nil
	}
	var err error
	if h.data != nil {
		err = h.data.Unmap()
	}
	if h.f != nil {
		if cerr := h.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Save renders e and writes the result to name, creating or truncating the
// file with mode perm.
func Save(name string, e *elf.Elf, perm os.FileMode) error {
	out, err := elf.Render(e)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(name, out, perm)
}
