// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import (
	"bytes"
	"sort"
)

// BuildStringTable builds a deduplicated, suffix-compressed ELF string
// table from strs. It returns the section contents (always starting
// with a single 0x00 byte representing the empty string at offset 0) and a
// map from every distinct input string — including "" — to its offset in
// that buffer.
//
// The compression exploits the fact that a string which is a proper suffix
// of another already-retained string needs no bytes of its own: looking it
// up at an offset partway through the longer string's bytes reads back
// exactly the shorter string, terminated by the same trailing nul. This is
// the classic suffix-merged string-table layout used by real linkers for
// .strtab/.shstrtab.
func BuildStringTable(strs []string) ([]byte, map[string]uint32) {
	type entry struct {
		s   string
		rev []byte
	}

	seen := map[string]bool{"": true}
	var entries []entry
	for _, s := range strs {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		entries = append(entries, entry{s: s, rev: reverseBytes([]byte(s))})
	}

	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].rev, entries[j].rev) < 0
	})

	// Drop any entry whose reversed bytes are a prefix of the next entry's
	// reversed bytes: that entry is a suffix of the next one and shares its
	// trailing bytes exactly.
	keep := make([]bool, len(entries))
	for i := range entries {
		keep[i] = true
	}
	for i := 0; i+1 < len(entries); i++ {
		if bytes.HasPrefix(entries[i+1].rev, entries[i].rev) {
			keep[i] = false
		}
	}

	data := []byte{0}
	offset := uint32(1)
	suffixOffset := map[string]uint32{}
	for i, e := range entries {
		if !keep[i] {
			continue
		}
		b := []byte(e.s)
		data = append(data, b...)
		data = append(data, 0)
		base := offset
		for k := 0; k < len(b); k++ {
			suf := string(b[k:])
			suffixOffset[suf] = base + uint32(k)
		}
		offset += uint32(len(b)) + 1
	}

	out := make(map[string]uint32, len(strs)+1)
	out[""] = 0
	for _, s := range strs {
		if s == "" {
			continue
		}
		if off, ok := suffixOffset[s]; ok {
			out[s] = off
		}
	}
	return data, out
}

// LookupString returns the bytes starting at offset up to, but not
// including, the first zero byte at or after offset. It is total:
// an out-of-range offset yields nil, and a table missing a trailing
// terminator yields the bytes through the end of the buffer.
func LookupString(data []byte, offset uint32) []byte {
	if int(offset) >= len(data) {
		return nil
	}
	end := bytes.IndexByte(data[offset:], 0)
	if end < 0 {
		return data[offset:]
	}
	return data[offset : int(offset)+end]
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
