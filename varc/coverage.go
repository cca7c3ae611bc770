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

import "seehuhn.de/go/sfnt/glyph"

// coverage is the standard OpenType Coverage table (format 1: a sorted
// glyph list; format 2: sorted, non-overlapping glyph-ID ranges), used
// by VARC to map a covered glyph ID to its index into the glyph-records
// array.
//
// The table is small enough that it is parsed directly against its
// well-known byte layout here, rather than shared with the GSUB/GPOS
// machinery that also consumes Coverage tables.
type coverage struct {
	format1 []glyph.ID // sorted; index in this slice is the coverage index
	ranges  []coverageRange
}

type coverageRange struct {
	start, end glyph.ID
	startIndex uint16
}

const notCovered = ^uint32(0)

func parseCoverage(data []byte) (*coverage, bool) {
	format, rest, ok := readUint16(data)
	if !ok {
		return nil, false
	}

	switch format {
	case 1:
		count, rest, ok := readUint16(rest)
		if !ok {
			return nil, false
		}
		glyphs := make([]glyph.ID, count)
		for i := range glyphs {
			v, r, ok := readUint16(rest)
			if !ok {
				return nil, false
			}
			glyphs[i] = glyph.ID(v)
			rest = r
		}
		return &coverage{format1: glyphs}, true

	case 2:
		count, rest, ok := readUint16(rest)
		if !ok {
			return nil, false
		}
		ranges := make([]coverageRange, count)
		for i := range ranges {
			start, r1, ok := readUint16(rest)
			if !ok {
				return nil, false
			}
			end, r2, ok := readUint16(r1)
			if !ok {
				return nil, false
			}
			startIdx, r3, ok := readUint16(r2)
			if !ok {
				return nil, false
			}
			ranges[i] = coverageRange{start: glyph.ID(start), end: glyph.ID(end), startIndex: startIdx}
			rest = r3
		}
		return &coverage{ranges: ranges}, true

	default:
		return nil, false
	}
}

// index returns the coverage index of gid, or notCovered.
func (c *coverage) index(gid glyph.ID) uint32 {
	if c == nil {
		return notCovered
	}
	if c.format1 != nil {
		lo, hi := 0, len(c.format1)
		for lo < hi {
			mid := (lo + hi) / 2
			if c.format1[mid] < gid {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo < len(c.format1) && c.format1[lo] == gid {
			return uint32(lo)
		}
		return notCovered
	}

	lo, hi := 0, len(c.ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.ranges[mid].end < gid {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(c.ranges) && c.ranges[lo].start <= gid && gid <= c.ranges[lo].end {
		return uint32(c.ranges[lo].startIndex) + uint32(gid-c.ranges[lo].start)
	}
	return notCovered
}
