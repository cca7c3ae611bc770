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

package varc

import "seehuhn.de/go/sfnt/cond"

// parseCondition parses one OpenType Condition table and returns it as a
// cond.Expr. Four formats are recognized: format 1 (axis range, against
// F2DOT14-normalized start/peak/end values — only start/end matter for
// a pure range test), format 2 (negate), format 3 (conjunction), and
// format 4 (disjunction) — the same condition algebra
// package cond implements.
func parseCondition(data []byte) (*cond.Expr, bool) {
	return parseConditionBounded(data, maxConditionDepth)
}

// maxConditionDepth bounds nested condition parsing; a child offset can
// point anywhere inside the condition list, including backwards, so
// without a depth budget a malicious file could make parsing recurse
// forever.
const maxConditionDepth = 16

func parseConditionBounded(data []byte, depthLeft int) (*cond.Expr, bool) {
	if depthLeft <= 0 {
		return nil, false
	}
	format, rest, ok := readUint16(data)
	if !ok {
		return nil, false
	}

	switch format {
	case 1:
		axisIndex, rest, ok := readUint16(rest)
		if !ok {
			return nil, false
		}
		minRaw, rest, ok := readInt16(rest)
		if !ok {
			return nil, false
		}
		maxRaw, _, ok := readInt16(rest)
		if !ok {
			return nil, false
		}
		return cond.AxisRange(int(axisIndex), f2dot14(minRaw), f2dot14(maxRaw)), true

	case 2:
		childOffset, _, ok := readUint16(rest)
		if !ok {
			return nil, false
		}
		if int(childOffset) >= len(data) {
			return nil, false
		}
		child, ok := parseConditionBounded(data[childOffset:], depthLeft-1)
		if !ok {
			return nil, false
		}
		return cond.Not(child), true

	case 3, 4:
		count, rest, ok := readUint16(rest)
		if !ok {
			return nil, false
		}
		children := make([]*cond.Expr, 0, count)
		for i := 0; i < int(count); i++ {
			off, r, ok := readUint16(rest)
			if !ok {
				return nil, false
			}
			rest = r
			if int(off) >= len(data) {
				return nil, false
			}
			child, ok := parseConditionBounded(data[off:], depthLeft-1)
			if !ok {
				return nil, false
			}
			children = append(children, child)
		}
		if format == 3 {
			return cond.And(children...), true
		}
		return cond.Or(children...), true

	default:
		return nil, false
	}
}

func f2dot14(raw int16) float64 {
	return float64(raw) / 16384.0
}
