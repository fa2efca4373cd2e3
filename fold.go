// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

// placeholderSizes carries the byte length of each of the four singleton
// placeholder regions as computed once at parse time (before any user
// edits), so the fold pass can compute the extent of every region in the
// tree purely from class-derived constants and already-parsed section
// sizes, without yet having a renderer to ask.
type placeholderSizes struct {
	ehdr      int
	phdrTable int
	shdrTable int
	nameTable int
}

// sizeOf returns the number of bytes region r occupies in the file, as
// known at fold time: fixed constants for the four placeholders, the
// section's file size for RegionSection, len(Raw) for RegionRaw, and the
// recursive sum of nested content for RegionSegment.
func sizeOf(r DataRegion, sizes placeholderSizes) int {
	switch r.Kind {
	case RegionElfHeader:
		return sizes.ehdr
	case RegionSegmentHeaders:
		return sizes.phdrTable
	case RegionSectionHeaders:
		return sizes.shdrTable
	case RegionSectionNameTable:
		return sizes.nameTable
	case RegionSection:
		return int(r.Sec.fileSize())
	case RegionRaw:
		return len(r.Raw)
	case RegionSegment:
		total := 0
		for _, c := range r.Seg.Contents {
			total += sizeOf(c, sizes)
		}
		return total
	default:
		return 0
	}
}

// insertAt splits the Raw region covering [offset, offset+length) and
// inserts leaf in its place. A zero-length leaf may be inserted without
// consuming any bytes. Insertion recurses into an existing Segment's
// nested contents when the target range lies entirely within one.
func insertAt(regions []DataRegion, offset, length int, leaf DataRegion, sizes placeholderSizes) ([]DataRegion, error) {
	pos := 0
	for i, r := range regions {
		sz := sizeOf(r, sizes)
		if length == 0 && r.Kind != RegionRaw && r.Kind != RegionSegment {
			// A zero-length leaf on the boundary of a placed leaf goes
			// before it (at its start) or is tried against what follows
			// (at its end); only a point strictly inside it overlaps.
			if offset == pos {
				out := append([]DataRegion(nil), regions[:i]...)
				out = append(out, leaf)
				return append(out, regions[i:]...), nil
			}
			if offset == pos+sz {
				pos += sz
				continue
			}
		}
		if offset >= pos && offset+length <= pos+sz {
			if r.Kind == RegionSegment {
				newContents, err := insertAt(r.Seg.Contents, offset, length, leaf, sizes)
				if err != nil {
					return nil, err
				}
				out := append([]DataRegion(nil), regions...)
				segCopy := *r.Seg
				segCopy.Contents = newContents
				out[i] = segmentRegion(&segCopy)
				return out, nil
			}
			if r.Kind != RegionRaw {
				return nil, ErrOverlap
			}
			prefixLen := offset - pos
			suffixLen := sz - prefixLen - length
			var out []DataRegion
			out = append(out, regions[:i]...)
			if prefixLen > 0 {
				out = append(out, rawRegion(r.Raw[:prefixLen]))
			}
			out = append(out, leaf)
			if suffixLen > 0 {
				out = append(out, rawRegion(r.Raw[prefixLen+length:]))
			}
			out = append(out, regions[i+1:]...)
			return out, nil
		}
		pos += sz
	}
	if pos == offset && length == 0 {
		return append(append([]DataRegion(nil), regions...), leaf), nil
	}
	return nil, ErrTruncated
}

// insertSegment wraps the contiguous run of already-placed regions whose
// cumulative size equals length, starting at offset, inside seg. Where a
// boundary falls inside a Raw region, that region is split at the cut
// point. Insertion recurses into an existing
// Segment's nested contents when the target range lies entirely within
// one, so that a smaller segment (e.g. PT_PHDR) nests inside a larger one
// that already wraps the same bytes (e.g. PT_LOAD) when the larger one is
// folded first.
func insertSegment(regions []DataRegion, offset, length int, seg *Segment, sizes placeholderSizes) ([]DataRegion, error) {
	if length == 0 {
		return insertAt(regions, offset, 0, segmentRegion(seg), sizes)
	}

	pos := 0
	for i, r := range regions {
		sz := sizeOf(r, sizes)
		if r.Kind == RegionSegment && offset >= pos && offset+length <= pos+sz {
			newContents, err := insertSegment(r.Seg.Contents, offset, length, seg, sizes)
			if err != nil {
				return nil, err
			}
			out := append([]DataRegion(nil), regions...)
			segCopy := *r.Seg
			segCopy.Contents = newContents
			out[i] = segmentRegion(&segCopy)
			return out, nil
		}
		if offset >= pos && offset < pos+sz {
			return consumeSegment(regions, i, pos, offset, length, seg, sizes)
		}
		pos += sz
	}
	return nil, ErrTruncated
}

// consumeSegment performs the "wrap a contiguous run of regions" half of
// insertSegment once the starting region index and its absolute offset are
// known.
func consumeSegment(regions []DataRegion, startIdx, startPos, offset, length int, seg *Segment, sizes placeholderSizes) ([]DataRegion, error) {
	out := append([]DataRegion(nil), regions[:startIdx]...)

	cur := regions[startIdx]
	curSz := sizeOf(cur, sizes)
	if within := offset - startPos; within > 0 {
		if cur.Kind != RegionRaw {
			return nil, ErrOverlap
		}
		out = append(out, rawRegion(cur.Raw[:within]))
		cur = rawRegion(cur.Raw[within:])
		curSz = len(cur.Raw)
	}

	var nested []DataRegion
	remaining := length
	idx := startIdx
	for {
		if curSz <= remaining {
			nested = append(nested, cur)
			remaining -= curSz
			if remaining == 0 {
				seg.Contents = nested
				out = append(out, segmentRegion(seg))
				out = append(out, regions[idx+1:]...)
				return out, nil
			}
			idx++
			if idx >= len(regions) {
				return nil, ErrTruncated
			}
			cur = regions[idx]
			curSz = sizeOf(cur, sizes)
			continue
		}
		if cur.Kind != RegionRaw {
			return nil, ErrOverlap
		}
		nested = append(nested, rawRegion(cur.Raw[:remaining]))
		leftover := rawRegion(cur.Raw[remaining:])
		seg.Contents = nested
		out = append(out, segmentRegion(seg))
		out = append(out, leftover)
		out = append(out, regions[idx+1:]...)
		return out, nil
	}
}
