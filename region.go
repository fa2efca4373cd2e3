// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

import "encoding/binary"

// RegionKind discriminates the DataRegion tagged union. Go has no sum
// types, so DataRegion is realized as a single struct carrying a kind tag
// plus whichever payload field that kind uses.
type RegionKind int

// The seven DataRegion variants.
const (
	RegionElfHeader RegionKind = iota
	RegionSegmentHeaders
	RegionSectionHeaders
	RegionSectionNameTable
	RegionSegment
	RegionSection
	RegionRaw
)

// DataRegion is one node of the region tree. Exactly one of the
// payload fields is meaningful, selected by Kind:
//
//	RegionSegment -> Seg
//	RegionSection -> Sec
//	RegionRaw     -> Raw
//
// The four placeholder kinds (RegionElfHeader, RegionSegmentHeaders,
// RegionSectionHeaders, RegionSectionNameTable) carry no payload; their
// bytes are produced entirely by the renderer from the rest of the tree.
type DataRegion struct {
	Kind RegionKind
	Seg  *Segment
	Sec  *Section
	Raw  []byte
}

func rawRegion(b []byte) DataRegion   { return DataRegion{Kind: RegionRaw, Raw: b} }
func sectionRegion(s *Section) DataRegion { return DataRegion{Kind: RegionSection, Sec: s} }
func segmentRegion(s *Segment) DataRegion { return DataRegion{Kind: RegionSegment, Seg: s} }

// Elf is a parsed file image, parameterized at runtime by Class rather
// than at compile time: width is a plain field here, with widthFor(Class)
// supplying the per-class primitive codec when one is needed.
type Elf struct {
	Class      Class
	Data       Data
	Version    uint8 // e_ident[EI_VERSION]; must be 1 on input
	OSABI      OSABI
	ABIVersion uint8
	Type       ObjectType
	Machine    Machine
	Entry      uint64
	Flags      uint32

	// Regions is the ordered sequence of top-level DataRegion values. Segments
	// nest further regions inside Seg.Contents; this slice is the outermost
	// level of the tree.
	Regions []DataRegion
}

func (e *Elf) order() binary.ByteOrder { return e.Data.ByteOrder() }

// Walk visits every region in the tree in file order, including regions
// nested inside segments, calling fn on each. It does not materialize the
// synthetic SectionNameTable contents — that only happens during render,
// once the final name-table bytes are known. Walk stops early if fn
// returns false.
func (e *Elf) Walk(fn func(*DataRegion) bool) {
	walkRegions(e.Regions, fn)
}

func walkRegions(regions []DataRegion, fn func(*DataRegion) bool) bool {
	for i := range regions {
		r := &regions[i]
		if !fn(r) {
			return false
		}
		if r.Kind == RegionSegment {
			if !walkRegions(r.Seg.Contents, fn) {
				return false
			}
		}
	}
	return true
}

// MapSections rewrites the tree by applying fn to every RegionSection node,
// recursing into segment contents. Returning (nil, false) deletes the
// region entirely; returning (sec, true) replaces the section in place.
// The RegionSectionNameTable placeholder is left untouched — it has no
// Section payload to map until render time.
func (e *Elf) MapSections(fn func(*Section) (*Section, bool)) {
	e.Regions = mapSectionRegions(e.Regions, fn)
}

func mapSectionRegions(regions []DataRegion, fn func(*Section) (*Section, bool)) []DataRegion {
	out := regions[:0:0]
	for _, r := range regions {
		switch r.Kind {
		case RegionSection:
			if sec, keep := fn(r.Sec); keep {
				out = append(out, sectionRegion(sec))
			}
		case RegionSegment:
			seg := *r.Seg
			seg.Contents = mapSectionRegions(seg.Contents, fn)
			out = append(out, segmentRegion(&seg))
		default:
			out = append(out, r)
		}
	}
	return out
}

// FindSectionByName returns the first section with the given name,
// descending into segments, or nil if none matches.
func (e *Elf) FindSectionByName(name string) *Section {
	var found *Section
	e.Walk(func(r *DataRegion) bool {
		if r.Kind == RegionSection && r.Sec.Name == name {
			found = r.Sec
			return false
		}
		return true
	})
	return found
}

// RemoveSectionByName deletes every section with the given name from the
// tree, via MapSections, and reports whether any were removed.
func (e *Elf) RemoveSectionByName(name string) bool {
	removed := false
	e.MapSections(func(s *Section) (*Section, bool) {
		if s.Name == name {
			removed = true
			return nil, false
		}
		return s, true
	})
	return removed
}

// Sections returns every section in file order, descending into segments,
// not including the synthetic SectionNameTable placeholder.
func (e *Elf) Sections() []*Section {
	var out []*Section
	e.Walk(func(r *DataRegion) bool {
		if r.Kind == RegionSection {
			out = append(out, r.Sec)
		}
		return true
	})
	return out
}

// Segments returns the top-level segments in file order. A segment nested
// inside another one (Parse nests PT_PHDR inside the PT_LOAD that covers
// the same bytes) is not returned.
func (e *Elf) Segments() []*Segment {
	var out []*Segment
	for i := range e.Regions {
		if e.Regions[i].Kind == RegionSegment {
			out = append(out, e.Regions[i].Seg)
		}
	}
	return out
}

// BuildID returns the payload of a GNU build-id note, if one is present in
// any NOTE section, by scanning for the well-known note name/type pair.
func (e *Elf) BuildID() ([]byte, bool) {
	const noteGNUBuildID = 3
	var id []byte
	var ok bool
	e.Walk(func(r *DataRegion) bool {
		if r.Kind != RegionSection || r.Sec.Type != SHT_NOTE {
			return true
		}
		notes, err := r.Sec.Notes(e.order())
		if err != nil {
			return true
		}
		for _, n := range notes {
			if n.Type == noteGNUBuildID && string(n.Name) == "GNU\x00" {
				id = n.Desc
				ok = true
				return false
			}
		}
		return true
	})
	return id, ok
}

// Comment returns the contents of the .comment section, if present.
func (e *Elf) Comment() (string, bool) {
	s := e.FindSectionByName(".comment")
	if s == nil {
		return "", false
	}
	return string(s.Contents), true
}
