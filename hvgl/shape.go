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
	"seehuhn.de/go/sfnt/affine"
	"seehuhn.de/go/sfnt/drawfuncs"
	"seehuhn.de/go/sfnt/recur"
)

// segment point component indices
const (
	segOnCurveX = iota
	segOnCurveY
	segOffCurveX
	segOffCurveY
)

// blend type values. A tangent-pair-second segment needs no handling
// of its own: it is consumed as part of resolving its paired
// tangent-pair-first segment and otherwise behaves like a corner.
const (
	blendCurve = iota
	blendCorner
	blendTangent
	blendTangentPairFirst
	blendTangentPairSecond
)

// partShape is a terminal part: a set of closed paths, each a sequence of
// quadratic segments whose on/off-curve points are a per-axis-scaled
// blend of a master coordinate vector.
type partShape struct {
	axisCount          int
	segmentCountPerPath []int
	blendTypes         []int

	// master holds segmentCount*4 values, one quadruple
	// (onX, onY, offX, offY) per segment.
	master []float64

	// deltas holds axisCount*2 columns (one per axis, per sign), each of
	// len(master) rows, column-major: deltas[column] is the column's row
	// slice, to be added (scaled by the matching coordinate's magnitude)
	// to master.
	deltas [][]float64
}

// parsePart parses one part record: a one-byte kind tag (0 = shape,
// 1 = composite) followed by the kind-specific body.
func parsePart(data []byte) (part, bool) {
	if len(data) < 1 {
		return nil, false
	}
	kind := data[0]
	body := data[1:]
	switch kind {
	case 0:
		return parsePartShape(body)
	case 1:
		return parsePartComposite(body)
	default:
		return nil, false
	}
}

// parsePartShape decodes a partShape record: uint16 flags; uint16
// axisCount; uint16 pathCount; uint16 segmentCount; pathCount uint16
// segmentCountPerPath entries; segmentCount uint8 blendTypes; padding
// to the next 8-byte boundary; segmentCount*4 little-endian float64
// master coordinates; axisCount*2 columns of segmentCount*4
// little-endian float64 deltas each, column-major.
func parsePartShape(data []byte) (*partShape, bool) {
	_, rest, ok := readUint16(data) // flags: unused by get_path_at itself
	if !ok {
		return nil, false
	}
	axisCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, false
	}
	pathCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, false
	}
	segmentCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, false
	}

	segPerPath := make([]int, pathCount)
	for i := range segPerPath {
		var v uint16
		v, rest, ok = readUint16(rest)
		if !ok {
			return nil, false
		}
		segPerPath[i] = int(v)
	}

	blendTypes := make([]int, segmentCount)
	for i := range blendTypes {
		if len(rest) < 1 {
			return nil, false
		}
		blendTypes[i] = int(rest[0])
		rest = rest[1:]
	}

	// the float64 blocks start at the next 8-byte boundary, counted from
	// the start of the shape header
	if pad := (len(data) - len(rest)) % 8; pad != 0 {
		if len(rest) < 8-pad {
			return nil, false
		}
		rest = rest[8-pad:]
	}

	rows := int(segmentCount) * 4
	master := make([]float64, rows)
	for i := range master {
		var v float64
		v, rest, ok = readFloat64(rest)
		if !ok {
			return nil, false
		}
		master[i] = v
	}

	numColumns := int(axisCount) * 2
	deltas := make([][]float64, numColumns)
	for c := range deltas {
		col := make([]float64, rows)
		for i := range col {
			var v float64
			v, rest, ok = readFloat64(rest)
			if !ok {
				return nil, false
			}
			col[i] = v
		}
		deltas[c] = col
	}

	return &partShape{
		axisCount:           int(axisCount),
		segmentCountPerPath: segPerPath,
		blendTypes:          blendTypes,
		master:              master,
		deltas:              deltas,
	}, true
}

// getPathAt applies the per-axis deltas to the master coordinate
// vector, resolves each segment's blend type in place, then emits one
// closed quadratic path per sub-path.
func (s *partShape) getPathAt(t *Table, coords []float64, transform affine.Transform, st *walkState, guard *recur.Guard) bool {
	v := make([]float64, len(s.master))
	copy(v, s.master)

	n := s.axisCount
	if n > len(coords) {
		n = len(coords)
	}
	for axis := 0; axis < n; axis++ {
		coord := coords[axis]
		if coord == 0 {
			continue
		}
		pos := 0
		if coord > 0 {
			pos = 1
		}
		scalar := coord
		if scalar < 0 {
			scalar = -scalar
		}
		col := axis*2 + pos
		if col >= len(s.deltas) {
			continue
		}
		delta := s.deltas[col]
		count := len(v)
		if len(delta) < count {
			count = len(delta)
		}
		for i := 0; i < count; i++ {
			v[i] += scalar * delta[i]
		}
	}

	segment := func(i int) []float64 { return v[i*4 : i*4+4] }

	var sink drawfuncs.Sink
	var ext drawfuncs.ExtentsSink
	if st.sink != nil {
		sink = st.sink
	} else {
		sink = &ext
	}
	pen := drawfuncs.NewTransformingPen(sink, transform)

	totalSegments := len(v) / 4
	start := 0
	for _, pathSegCount := range s.segmentCountPerPath {
		end := start + pathSegCount
		if end > totalSegments {
			break
		}

		for i := start; i < end; i++ {
			seg := segment(i)
			prevI := i - 1
			if i == start {
				prevI = end - 1
			}
			nextI := i + 1
			if i == end-1 {
				nextI = start
			}
			prev := segment(prevI)
			next := segment(nextI)

			switch s.blendTypes[i] {
			case blendCurve:
				tt := seg[segOnCurveX]
				if tt < 0 {
					tt = 0
				} else if tt > 1 {
					tt = 1
				}
				seg[segOnCurveX] = prev[segOffCurveX] + (seg[segOffCurveX]-prev[segOffCurveX])*tt
				seg[segOnCurveY] = prev[segOffCurveY] + (seg[segOffCurveY]-prev[segOffCurveY])*tt

			case blendTangent:
				projectOnCurveToTangent(prev, seg, seg)

			case blendTangentPairFirst:
				projectOnCurveToTangent(prev, seg, next)
				projectOnCurveToTangent(prev, next, next)
			}
		}

		if start != end {
			first := segment(start)
			x0, y0 := first[segOnCurveX], first[segOnCurveY]
			pen.MoveTo(x0, y0)
			for i := start; i < end; i++ {
				seg := segment(i)
				nextI := i + 1
				if i == end-1 {
					nextI = start
				}
				next := segment(nextI)
				pen.QuadTo(seg[segOffCurveX], seg[segOffCurveY], next[segOnCurveX], next[segOnCurveY])
			}
			pen.ClosePath()
		}

		start = end
	}

	if st.sink == nil && st.extAcc != nil {
		*st.extAcc = st.extAcc.Union(ext.Rect)
	}
	return true
}

// projectOnCurveToTangent replaces oncurve's on-curve point with its
// projection onto the line through offcurve1's and offcurve2's
// off-curve points.
func projectOnCurveToTangent(offcurve1, oncurve, offcurve2 []float64) {
	x := oncurve[segOnCurveX]
	y := oncurve[segOnCurveY]

	x1 := offcurve1[segOffCurveX]
	y1 := offcurve1[segOffCurveY]
	x2 := offcurve2[segOffCurveX]
	y2 := offcurve2[segOffCurveY]

	dx := x2 - x1
	dy := y2 - y1

	denom := dx*dx + dy*dy
	if denom == 0 {
		return
	}
	tt := (dx*(x-x1) + dy*(y-y1)) / denom

	oncurve[segOnCurveX] = x1 + dx*tt
	oncurve[segOnCurveY] = y1 + dy*tt
}
