// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package elf

// Bytes appended past the structures the format actually describes are
// common (self-extracting stubs, signature blobs, ad-hoc trailers) and
// worth exposing distinctly from any one section's contents.
//
// The region tree already accounts for every byte the section and program
// header tables describe; anything left over shows up as a trailing
// top-level RegionRaw region with nothing after it.

// Overlay returns the trailing raw bytes appended after the last
// structured region, and true if any exist. A RegionRaw region that is not
// the last top-level region (e.g. inter-section padding the parser folded
// as unclaimed bytes) does not count as overlay.
func (e *Elf) Overlay() ([]byte, bool) {
	if len(e.Regions) == 0 {
		return nil, false
	}
	last := e.Regions[len(e.Regions)-1]
	if last.Kind != RegionRaw || len(last.Raw) == 0 {
		return nil, false
	}
	return last.Raw, true
}

// OverlayLength returns len(overlay), or 0 if there is none.
func (e *Elf) OverlayLength() uint32 {
	overlay, ok := e.Overlay()
	if !ok {
		return 0
	}
	return uint32(len(overlay))
}

// TrimOverlay removes the trailing overlay, if any, returning ErrNoOverlay
// if the file has none.
func (e *Elf) TrimOverlay() error {
	_, ok := e.Overlay()
	if !ok {
		return ErrNoOverlay
	}
	e.Regions = e.Regions[:len(e.Regions)-1]
	return nil
}
