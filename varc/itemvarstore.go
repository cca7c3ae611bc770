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

import "seehuhn.de/go/sfnt/itemvar"

// parseItemVarStore decodes the item variation store VARC.varStore
// points at, laid out the way GDEF's ItemVariationStore (which this
// table's structure directly echoes) arranges its region list and
// per-subtable delta rows.
//
// Layout: uint16 format (=1); uint32 regionListOffset (from store
// start); uint16 subtableCount; subtableCount uint32 subtable offsets
// (from store start).
//
// Region list: uint16 axisCount; uint16 regionCount; regionCount
// entries of axisCount F2DOT14 (start, peak, end) triples.
//
// Subtable (one outer index): uint16 itemCount; uint16
// regionIndexCount; regionIndexCount uint16 region indices; itemCount
// rows of regionIndexCount int16 deltas.
func parseItemVarStore(data []byte) (*itemvar.Store, bool) {
	format, rest, ok := readUint16(data)
	if !ok || format != 1 {
		return nil, false
	}
	regionListOff, rest, ok := readUint32(rest)
	if !ok {
		return nil, false
	}
	subtableCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, false
	}
	subtableOffs := make([]uint32, subtableCount)
	for i := range subtableOffs {
		v, r, ok := readUint32(rest)
		if !ok {
			return nil, false
		}
		subtableOffs[i] = v
		rest = r
	}

	if int(regionListOff) >= len(data) {
		return nil, false
	}
	regions, ok := parseRegionList(data[regionListOff:])
	if !ok {
		return nil, false
	}

	store := itemvar.NewStore(regions)
	for _, off := range subtableOffs {
		if int(off) >= len(data) {
			store.AddSubtable(nil, nil)
			continue
		}
		regionIndices, rows, ok := parseVarData(data[off:])
		if !ok {
			store.AddSubtable(nil, nil)
			continue
		}
		store.AddSubtable(regionIndices, rows)
	}

	return store, true
}

func parseRegionList(data []byte) ([]itemvar.Region, bool) {
	axisCount, rest, ok := readUint16(data)
	if !ok {
		return nil, false
	}
	regionCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, false
	}

	regions := make([]itemvar.Region, regionCount)
	for i := range regions {
		axes := make([]itemvar.RegionAxis, axisCount)
		for a := range axes {
			start, r, ok := readInt16(rest)
			if !ok {
				return nil, false
			}
			peak, r2, ok := readInt16(r)
			if !ok {
				return nil, false
			}
			end, r3, ok := readInt16(r2)
			if !ok {
				return nil, false
			}
			axes[a] = itemvar.RegionAxis{
				Start: f2dot14(start),
				Peak:  f2dot14(peak),
				End:   f2dot14(end),
			}
			rest = r3
		}
		regions[i] = itemvar.Region{Axes: axes}
	}
	return regions, true
}

func parseVarData(data []byte) (regionIndices []uint16, rows [][]float64, ok bool) {
	itemCount, rest, ok := readUint16(data)
	if !ok {
		return nil, nil, false
	}
	regionIndexCount, rest, ok := readUint16(rest)
	if !ok {
		return nil, nil, false
	}

	regionIndices = make([]uint16, regionIndexCount)
	for i := range regionIndices {
		v, r, ok := readUint16(rest)
		if !ok {
			return nil, nil, false
		}
		regionIndices[i] = v
		rest = r
	}

	rows = make([][]float64, itemCount)
	for i := range rows {
		row := make([]float64, regionIndexCount)
		for j := range row {
			v, r, ok := readInt16(rest)
			if !ok {
				return regionIndices, rows, false
			}
			row[j] = float64(v)
			rest = r
		}
		rows[i] = row
	}
	return regionIndices, rows, true
}
