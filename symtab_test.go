// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "testing"

// TestParseSymbolsBindFix checks that binding is decoded as info>>4, not
// (info&0xF)>>4 (which always computes zero). A STB_GLOBAL (1) function
// symbol has info = (1<<4)|2 = 0x12; the wrong formula would read back
// STB_LOCAL for every symbol regardless of its true binding.
func TestParseSymbolsBindFix(t *testing.T) {
	strtab := &Section{Contents: []byte{0, 'f', 'o', 'o', 0}}
	rec := make([]byte, sym64Size)
	// st_name
	rec[0], rec[1], rec[2], rec[3] = 1, 0, 0, 0
	// st_info: bind=STB_GLOBAL(1), type=STT_FUNC(2) -> 0x12
	rec[4] = 0x12
	// st_shndx = SHN_UNDEF
	rec[6], rec[7] = 0, 0

	symtab := &Section{Link: 1, Contents: rec}
	syms, err := ParseSymbols(Class64, LSB, symtab, []*Section{strtab})
	if err != nil {
		t.Fatalf("ParseSymbols failed: %v", err)
	}
	if len(syms) != 1 {
		t.Fatalf("len(syms) = %d, want 1", len(syms))
	}
	if syms[0].Bind != STB_GLOBAL {
		t.Errorf("Bind = %v, want STB_GLOBAL", syms[0].Bind)
	}
	if syms[0].Type != STT_FUNC {
		t.Errorf("Type = %v, want STT_FUNC", syms[0].Type)
	}
	if syms[0].Name != "foo" {
		t.Errorf("Name = %q, want foo", syms[0].Name)
	}
}

func TestParseSymbolsBadBindErrors(t *testing.T) {
	rec := make([]byte, sym64Size)
	rec[4] = 0xF0 // bind = 15, not in {LOCAL,GLOBAL,WEAK}
	symtab := &Section{Contents: rec}
	if _, err := ParseSymbols(Class64, LSB, symtab, nil); err != ErrBadSymbol {
		t.Errorf("ParseSymbols(bad bind) = %v, want ErrBadSymbol", err)
	}
}

func TestFindDefinition(t *testing.T) {
	sec := &Section{Contents: []byte{0xAA, 0xBB, 0xCC, 0xDD}}
	sym := &Symbol{Section: sec, Value: 1, Size: 2}
	def, ok := sym.FindDefinition()
	if !ok {
		t.Fatal("FindDefinition() ok = false, want true")
	}
	if string(def) != string([]byte{0xBB, 0xCC}) {
		t.Errorf("FindDefinition() = %x, want bb cc", def)
	}

	sym2 := &Symbol{Section: sec, Value: 3, Size: 10}
	if _, ok := sym2.FindDefinition(); ok {
		t.Error("FindDefinition() out of range should fail")
	}

	sym3 := &Symbol{Section: nil, Value: 0, Size: 1}
	if _, ok := sym3.FindDefinition(); ok {
		t.Error("FindDefinition() with nil section should fail")
	}
}
