// seehuhn.de/go/sfnt - a library for reading and writing font files
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package hvgl reads and evaluates the "hvgl" table: a part library of
// variable vector shapes (AAT's "HVF" glyph format), each part either a
// terminal blended-segment outline or a composite that places other
// parts at variable offsets and rotations.
//
// Part shapes resolve per-segment blend types and emit closed
// quadratic paths (shape.go); part composites place sub-parts at
// variable offsets and rotations (composite.go), scaling a rotation
// about its fixed point via a complex-number eigenvector construction.
// The evaluation behavior matches HarfBuzz's implementation of the
// format; the composite record's byte layout, which has no public
// documentation, is this package's own (see composite.go).
package hvgl

import (
	"math"

	"seehuhn.de/go/sfnt/affine"
	"seehuhn.de/go/sfnt/drawfuncs"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/parser"
	"seehuhn.de/go/sfnt/recur"
)

// errInvalidHVGL is returned by Parse for an "hvgl" table too short or
// structurally inconsistent to host any part data. As with package varc,
// every later failure mode is silent once Parse succeeds.
var errInvalidHVGL = &parser.InvalidFontError{SubSystem: "sfnt/hvgl", Reason: "invalid hvgl table"}

// part is implemented by partShape and partComposite: both resolve to a
// drawn outline or bounding-box contribution given design coordinates
// local to the part (its own axes followed by its inherited ones) and
// the transform accumulated so far. A composite recurses into its
// sub-parts via Table.walkPart, which is also what brackets every part
// visit (including this one) with the shared recursion guard.
type part interface {
	getPathAt(t *Table, coords []float64, transform affine.Transform, st *walkState, guard *recur.Guard) bool
}

// Table is a parsed "hvgl" table.
type Table struct {
	parts          []part
	glyphPartIndex map[glyph.ID]uint16

	// MaxDepth and MaxEdges override the recursion guard's default
	// budgets; zero selects the package recur defaults.
	MaxDepth, MaxEdges int
}

type walkState struct {
	sink   drawfuncs.Sink
	extAcc *affine.Rect
}

// header layout: uint16 version (=1); uint16 partCount; uint16
// glyphCount; glyphCount pairs of (uint16 glyphID, uint16 partIndex);
// partCount uint32 offsets to part records, relative to the table start.
const hvglHeaderMinSize = 6

// Parse decodes an "hvgl" table from data.
func Parse(data []byte) (*Table, error) {
	if len(data) < hvglHeaderMinSize {
		return nil, errInvalidHVGL
	}

	version, rest, ok := readUint16(data)
	if !ok || version != 1 {
		return nil, errInvalidHVGL
	}
	partCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, errInvalidHVGL
	}
	glyphCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, errInvalidHVGL
	}

	t := &Table{glyphPartIndex: make(map[glyph.ID]uint16, glyphCount)}
	for i := 0; i < int(glyphCount); i++ {
		var gid, pidx uint16
		gid, rest, ok = readUint16(rest)
		if !ok {
			return nil, errInvalidHVGL
		}
		pidx, rest, ok = readUint16(rest)
		if !ok {
			return nil, errInvalidHVGL
		}
		t.glyphPartIndex[glyph.ID(gid)] = pidx
	}

	offsets := make([]uint32, partCount)
	for i := range offsets {
		var off uint32
		off, rest, ok = readUint32(rest)
		if !ok {
			return nil, errInvalidHVGL
		}
		offsets[i] = off
	}

	t.parts = make([]part, partCount)
	for i, off := range offsets {
		if int(off) >= len(data) {
			continue
		}
		p, ok := parsePart(data[off:])
		if !ok {
			continue
		}
		t.parts[i] = p
	}

	return t, nil
}

// GetPathAt draws glyph id's outline, evaluated at the given normalized
// design coordinates, into sink.
func (t *Table) GetPathAt(gid glyph.ID, coords []float64, sink drawfuncs.Sink) bool {
	idx, ok := t.glyphPartIndex[gid]
	if !ok {
		return false
	}
	return t.getPartPathAt(idx, coords, &walkState{sink: sink})
}

// GetExtentsAt computes the bounding box of glyph id's outline, evaluated
// at the given normalized design coordinates.
func (t *Table) GetExtentsAt(gid glyph.ID, coords []float64) (affine.Rect, bool) {
	idx, ok := t.glyphPartIndex[gid]
	if !ok {
		return affine.Rect{}, false
	}
	var acc affine.Rect
	ok = t.getPartPathAt(idx, coords, &walkState{extAcc: &acc})
	return acc, ok
}

func (t *Table) getPartPathAt(idx uint16, coords []float64, st *walkState) bool {
	guard := recur.NewGuard(t.MaxDepth, t.MaxEdges)
	return t.walkPart(uint32(idx), coords, affine.Identity, st, guard)
}

// walkPart brackets one part visit with the shared recursion guard
// (depth budget, edge budget, cycle detection) and dispatches to the
// part's own getPathAt. Both the top-level caller and a composite's
// sub-part loop go through here.
func (t *Table) walkPart(idx uint32, coords []float64, transform affine.Transform, st *walkState, guard *recur.Guard) bool {
	if int(idx) >= len(t.parts) || t.parts[idx] == nil {
		return false
	}
	if guard.Exhausted() {
		return true
	}
	if !guard.Enter(idx) {
		return true
	}
	defer guard.Leave()
	return t.parts[idx].getPathAt(t, coords, transform, st, guard)
}

func readUint16(buf []byte) (value uint16, rest []byte, ok bool) {
	if len(buf) < 2 {
		return 0, buf, false
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), buf[2:], true
}

func readUint32(buf []byte) (value uint32, rest []byte, ok bool) {
	if len(buf) < 4 {
		return 0, buf, false
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), buf[4:], true
}

// readFloat64 reads a little-endian float64.  Unlike the rest of the
// sfnt format family, hvgl's coordinate and delta blocks are stored
// little-endian.
func readFloat64(buf []byte) (value float64, rest []byte, ok bool) {
	if len(buf) < 8 {
		return 0, buf, false
	}
	var bits uint64
	for i := 7; i >= 0; i-- {
		bits = bits<<8 | uint64(buf[i])
	}
	return math.Float64frombits(bits), buf[8:], true
}
