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

package hvgl

import (
	"math/cmplx"

	"seehuhn.de/go/sfnt/affine"
	"seehuhn.de/go/sfnt/recur"
)

// subPart is one entry of a partComposite's placement list: which part to
// recurse into, and which slice of the composite's shared axis/transform
// arrays belongs to it.
type subPart struct {
	partIndex          uint16
	treeAxisIndex      int
	treeTransformIndex int
}

// masterEntry is an unconditional per-row translation+rotation: it
// always applies to its row.
type masterEntry struct {
	row              int
	dx, dy, rotation float64
}

// extremumEntry is a per-(row,column) translation+rotation that only
// applies when the coordinate axis packed into column is nonzero and its
// sign matches column's parity, scaled by that coordinate's magnitude.
// Combining the translation and rotation of one entry is what lets
// applyTransforms build a rotation about a fixed point other than the
// origin, via the complex-number eigenvector construction in
// scaledExtremumTransform.
type extremumEntry struct {
	row, column      int
	dx, dy, rotation float64
}

// partComposite places other parts at variable offsets and rotations.
//
// The composite record's byte layout has no public documentation, so
// the layout below is this package's own: the runtime model (master and
// extremum translation and rotation entries, merged by row and column)
// laid out in the simplest self-describing form.
type partComposite struct {
	axisCount  int
	totalAxes  int
	subParts   []subPart
	totalParts int // 1 (this composite's own inbound transform slot) + len(subtree)

	masterEntries   []masterEntry   // sorted by row, at most one per row
	extremumEntries []extremumEntry // sorted by (row, column)
}

// parsePartComposite decodes a partComposite record: uint16 axisCount;
// uint16 totalAxes (this part's own axes plus everything inherited by
// its subtree); uint16 subPartCount, subPartCount entries of (uint16
// partIndex, uint16 treeAxisIndex, uint16 treeTransformIndex); uint16
// totalParts; uint16 masterEntryCount, masterEntryCount entries of
// (uint16 row, float64 dx, float64 dy, float64 rotation); uint16
// extremumEntryCount, extremumEntryCount entries of (uint16 row, uint16
// column, float64 dx, float64 dy, float64 rotation).
func parsePartComposite(data []byte) (*partComposite, bool) {
	axisCount, rest, ok := readUint16(data)
	if !ok {
		return nil, false
	}
	totalAxes, rest, ok := readUint16(rest)
	if !ok {
		return nil, false
	}
	subPartCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, false
	}

	subParts := make([]subPart, subPartCount)
	for i := range subParts {
		var pIdx, aIdx, tIdx uint16
		pIdx, rest, ok = readUint16(rest)
		if !ok {
			return nil, false
		}
		aIdx, rest, ok = readUint16(rest)
		if !ok {
			return nil, false
		}
		tIdx, rest, ok = readUint16(rest)
		if !ok {
			return nil, false
		}
		subParts[i] = subPart{partIndex: pIdx, treeAxisIndex: int(aIdx), treeTransformIndex: int(tIdx)}
	}

	totalParts, rest, ok := readUint16(rest)
	if !ok {
		return nil, false
	}

	masterCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, false
	}
	masterEntries := make([]masterEntry, masterCount)
	for i := range masterEntries {
		var row uint16
		var dx, dy, rot float64
		row, rest, ok = readUint16(rest)
		if !ok {
			return nil, false
		}
		dx, rest, ok = readFloat64(rest)
		if !ok {
			return nil, false
		}
		dy, rest, ok = readFloat64(rest)
		if !ok {
			return nil, false
		}
		rot, rest, ok = readFloat64(rest)
		if !ok {
			return nil, false
		}
		masterEntries[i] = masterEntry{row: int(row), dx: dx, dy: dy, rotation: rot}
	}

	extremumCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, false
	}
	extremumEntries := make([]extremumEntry, extremumCount)
	for i := range extremumEntries {
		var row, col uint16
		var dx, dy, rot float64
		row, rest, ok = readUint16(rest)
		if !ok {
			return nil, false
		}
		col, rest, ok = readUint16(rest)
		if !ok {
			return nil, false
		}
		dx, rest, ok = readFloat64(rest)
		if !ok {
			return nil, false
		}
		dy, rest, ok = readFloat64(rest)
		if !ok {
			return nil, false
		}
		rot, _, ok = readFloat64(rest)
		if !ok {
			return nil, false
		}
		extremumEntries[i] = extremumEntry{row: int(row), column: int(col), dx: dx, dy: dy, rotation: rot}
	}

	return &partComposite{
		axisCount:       int(axisCount),
		totalAxes:       int(totalAxes),
		subParts:        subParts,
		totalParts:      int(totalParts),
		masterEntries:   masterEntries,
		extremumEntries: extremumEntries,
	}, true
}

// applyTransforms fills transforms[0:totalParts] with each row's local
// contribution: a master entry applies to its row unconditionally;
// extremum entries additionally
// require the matching coordinate to be nonzero with a matching sign, and
// build their contribution as a rotation scaled about the entry's own
// fixed point — not the origin — via a complex-number eigenvector
// construction, merged in ascending column order for each row.
func (c *partComposite) applyTransforms(transforms []affine.Transform, coords []float64) {
	mi, ei := 0, 0

	for row := 0; row < c.totalParts; row++ {
		t := affine.Identity

		if mi < len(c.masterEntries) && c.masterEntries[mi].row == row {
			m := c.masterEntries[mi]
			mi++
			t = t.Mul(affine.Translate(m.dx, m.dy))
			t = t.Mul(affine.Rotate(m.rotation))
		}

		for ei < len(c.extremumEntries) && c.extremumEntries[ei].row == row {
			e := c.extremumEntries[ei]
			ei++
			scalar, ok := extremumScalar(coords, e.column)
			if !ok {
				continue
			}
			t = t.Mul(scaledExtremumTransform(e.dx, e.dy, e.rotation, scalar))
		}

		transforms[row] = transforms[row].Mul(t)
	}
}

// extremumScalar reports the signed magnitude a sparse extremum entry
// should scale by: column packs axisIndex*2+pos, and the entry only
// fires when coords[axisIndex] is nonzero and its sign matches pos.
func extremumScalar(coords []float64, column int) (float64, bool) {
	axis := column / 2
	pos := column & 1
	if axis >= len(coords) {
		return 0, false
	}
	coord := coords[axis]
	if coord == 0 {
		return 0, false
	}
	wantPositive := pos == 1
	isPositive := coord > 0
	if wantPositive != isPositive {
		return 0, false
	}
	if coord < 0 {
		coord = -coord
	}
	return coord, true
}

// scaledExtremumTransform builds a rotation by rotation*scalar about the
// fixed point of the full (unscaled) rotation that the (dx, dy)
// translation is tangent to, found as that rotation's eigenvector.
// Representing the translation as a complex number t = dx+dy*i, the fixed
// point of "rotate by rotation, then translate by t" is t/(1-e^(i*rotation)):
// solving z = e^(i*rotation)*z + t for z. When rotation is a multiple of
// 2*pi the rotation has no isolated fixed point (1-e^(i*rotation) == 0),
// and this degrades to a plain scaled translation.
func scaledExtremumTransform(dx, dy, rotation, scalar float64) affine.Transform {
	t := complex(dx, dy)
	oneMinusEiAngle := complex(1, 0) - cmplx.Exp(complex(0, rotation))
	if oneMinusEiAngle == 0 {
		return affine.Translate(dx*scalar, dy*scalar)
	}
	eigen := t / oneMinusEiAngle
	ex, ey := real(eigen), imag(eigen)

	out := affine.Translate(-ex, -ey)
	out = out.Mul(affine.Rotate(rotation * scalar))
	out = out.Mul(affine.Translate(ex, ey))
	return out
}

// getPathAt splits the shared
// coords array into this composite's own axes and the axes inherited by
// its subtree, resolve every row's own transform contribution via
// applyTransforms, then recurse into every sub-part with its own slice
// of the coordinate and transform arrays composed with the transform
// accumulated so far.
func (c *partComposite) getPathAt(t *Table, coords []float64, transform affine.Transform, st *walkState, guard *recur.Guard) bool {
	coordsHead := coords
	if c.axisCount < len(coords) {
		coordsHead = coords[:c.axisCount]
	}

	// The axes after this composite's own belong to its subtree; each
	// sub-part addresses them relative to the start of that tail.
	var coordsTail []float64
	if c.axisCount < len(coords) {
		coordsTail = coords[c.axisCount:]
	}
	if n := c.totalAxes - c.axisCount; n >= 0 && n < len(coordsTail) {
		coordsTail = coordsTail[:n]
	}

	transforms := make([]affine.Transform, c.totalParts)
	for i := range transforms {
		transforms[i] = affine.Identity
	}
	c.applyTransforms(transforms, coordsHead)

	ok := true
	for _, sp := range c.subParts {
		if sp.treeTransformIndex >= len(transforms) {
			continue
		}
		local := transforms[sp.treeTransformIndex].Mul(transform)

		var subCoords []float64
		if sp.treeAxisIndex <= len(coordsTail) {
			subCoords = coordsTail[sp.treeAxisIndex:]
		}

		if !t.walkPart(uint32(sp.partIndex), subCoords, local, st, guard) {
			ok = false
		}
	}

	return ok
}
