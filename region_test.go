// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "testing"

func TestWalkDescendsIntoSegments(t *testing.T) {
	inner := sectionRegion(&Section{Name: ".text"})
	seg := &Segment{Type: PT_LOAD, Contents: []DataRegion{inner}}
	e := &Elf{Regions: []DataRegion{
		{Kind: RegionElfHeader},
		segmentRegion(seg),
	}}

	var kinds []RegionKind
	e.Walk(func(r *DataRegion) bool {
		kinds = append(kinds, r.Kind)
		return true
	})
	if len(kinds) != 3 {
		t.Fatalf("Walk visited %d regions, want 3 (ehdr, segment, nested section)", len(kinds))
	}
	if kinds[2] != RegionSection {
		t.Errorf("kinds[2] = %v, want RegionSection", kinds[2])
	}
}

func TestWalkStopsEarly(t *testing.T) {
	e := &Elf{Regions: []DataRegion{
		{Kind: RegionElfHeader},
		{Kind: RegionSectionHeaders},
		{Kind: RegionSegmentHeaders},
	}}
	count := 0
	e.Walk(func(r *DataRegion) bool {
		count++
		return r.Kind != RegionSectionHeaders
	})
	if count != 2 {
		t.Errorf("Walk visited %d regions before stopping, want 2", count)
	}
}

func TestFindSectionByNameDescendsIntoSegments(t *testing.T) {
	seg := &Segment{Type: PT_LOAD, Contents: []DataRegion{
		sectionRegion(&Section{Name: ".text"}),
	}}
	e := &Elf{Regions: []DataRegion{segmentRegion(seg)}}

	if got := e.FindSectionByName(".text"); got == nil || got.Name != ".text" {
		t.Errorf("FindSectionByName(.text) = %v, want a section named .text", got)
	}
	if got := e.FindSectionByName(".data"); got != nil {
		t.Errorf("FindSectionByName(.data) = %v, want nil", got)
	}
}

func TestRemoveSectionByNameNestedInSegment(t *testing.T) {
	seg := &Segment{Type: PT_LOAD, Contents: []DataRegion{
		sectionRegion(&Section{Name: ".text"}),
		sectionRegion(&Section{Name: ".data"}),
	}}
	e := &Elf{Regions: []DataRegion{segmentRegion(seg)}}

	if !e.RemoveSectionByName(".text") {
		t.Fatal("RemoveSectionByName(.text) = false, want true")
	}
	if e.RemoveSectionByName(".text") {
		t.Error("second RemoveSectionByName(.text) = true, want false (already removed)")
	}

	sections := e.Sections()
	if len(sections) != 1 || sections[0].Name != ".data" {
		t.Errorf("Sections() = %+v, want only .data remaining", sections)
	}
}

func TestSectionsAndSegmentsAccessors(t *testing.T) {
	seg := &Segment{Type: PT_LOAD, Contents: []DataRegion{
		sectionRegion(&Section{Name: ".text"}),
	}}
	e := &Elf{Regions: []DataRegion{
		{Kind: RegionElfHeader},
		segmentRegion(seg),
	}}
	if len(e.Sections()) != 1 {
		t.Errorf("len(Sections()) = %d, want 1", len(e.Sections()))
	}
	if len(e.Segments()) != 1 {
		t.Errorf("len(Segments()) = %d, want 1", len(e.Segments()))
	}
}

func TestBuildIDFindsGNUNote(t *testing.T) {
	order := LSB.ByteOrder()
	name := []byte("GNU\x00")
	desc := []byte{0xde, 0xad, 0xbe, 0xef}
	var content []byte
	hdr := make([]byte, 12)
	order.PutUint32(hdr[0:4], uint32(len(name)))
	order.PutUint32(hdr[4:8], uint32(len(desc)))
	order.PutUint32(hdr[8:12], 3) // NT_GNU_BUILD_ID
	content = append(content, hdr...)
	content = append(content, name...)
	content = append(content, desc...)

	sec := &Section{Type: SHT_NOTE, Contents: content}
	e := &Elf{Data: LSB, Regions: []DataRegion{sectionRegion(sec)}}

	id, ok := e.BuildID()
	if !ok {
		t.Fatal("BuildID() ok = false, want true")
	}
	if string(id) != string(desc) {
		t.Errorf("BuildID() = %x, want %x", id, desc)
	}
}

func TestBuildIDAbsent(t *testing.T) {
	e := &Elf{Data: LSB, Regions: []DataRegion{sectionRegion(&Section{Name: ".text"})}}
	if _, ok := e.BuildID(); ok {
		t.Error("BuildID() ok = true, want false")
	}
}

func TestComment(t *testing.T) {
	e := &Elf{Regions: []DataRegion{
		sectionRegion(&Section{Name: ".comment", Contents: []byte("GCC: 9.0")}),
	}}
	got, ok := e.Comment()
	if !ok || got != "GCC: 9.0" {
		t.Errorf("Comment() = (%q, %v), want (GCC: 9.0, true)", got, ok)
	}

	empty := &Elf{}
	if _, ok := empty.Comment(); ok {
		t.Error("Comment() ok = true, want false when absent")
	}
}
