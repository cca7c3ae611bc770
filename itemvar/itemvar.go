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

// Package itemvar implements the item variation store (IVS) and its
// scalar cache, the shared variation-delta evaluation machinery behind
// both the VARC and hvgl engines.
//
// The region-scalar computation follows the OpenType item-variation
// model: each region contributes the product of per-axis tent
// functions, and a delta row's value at a design-space location is the
// scalar-weighted sum of its per-region deltas.
package itemvar

import "golang.org/x/exp/slices"

// Region is one variation region: for every axis, the peak and the start
// and end of the tent function's support. An axis not mentioned (Peak
// implicitly 0) never attenuates the scalar.
type Region struct {
	Axes []RegionAxis
}

// RegionAxis is one axis's contribution to a Region's tent function.
type RegionAxis struct {
	Start, Peak, End float64
}

// Scalar evaluates the region's tent function at the given normalized
// (-1..+1) design coordinates: the product, over axes, of each axis's
// tent-function value; an axis with Peak==0 never contributes (treated
// as a multiplicative 1).
func (r Region) Scalar(coords []float64) float64 {
	scalar := 1.0
	for i, a := range r.Axes {
		if a.Peak == 0 {
			continue
		}
		var v float64
		if i < len(coords) {
			v = coords[i]
		}

		if a.Start > a.Peak || a.Peak > a.End {
			continue
		}
		if a.Start < 0 && a.End > 0 {
			// invalid region: the support straddles zero with a nonzero
			// peak, which the format does not allow
			continue
		}

		if v == a.Peak {
			continue // contributes exactly 1
		}
		if v <= a.Start || v >= a.End {
			return 0
		}
		if v < a.Peak {
			if a.Start == a.Peak {
				continue
			}
			scalar *= (v - a.Start) / (a.Peak - a.Start)
		} else {
			if a.End == a.Peak {
				continue
			}
			scalar *= (a.End - v) / (a.End - a.Peak)
		}
	}
	return scalar
}

// VarIndex identifies one (outer, inner) delta-set entry: the outer index
// selects a variation data subtable (a group of regions), the inner
// index selects the delta row within it.
type VarIndex struct {
	Outer uint16
	Inner uint16
}

// NoVariation is the reserved "no variation index" sentinel
// (0xFFFFFFFF in the wire format, split into outer/inner 0xFFFF each).
var NoVariation = VarIndex{Outer: 0xFFFF, Inner: 0xFFFF}

// IsNone reports whether v is the reserved "no variation" sentinel.
func (v VarIndex) IsNone() bool { return v == NoVariation }

// subtable is one outer-indexed group: a shared region list plus, for
// each inner row, one delta per region plus one delta-row axis-region
// mapping (the "region indices" used by this row).
type subtable struct {
	regionIndices []uint16 // into Store.Regions
	deltas        [][]float64
}

// Store is an item variation store: a shared region list plus a set of
// outer-indexed subtables of per-item deltas.
type Store struct {
	Regions   []Region
	subtables []subtable
}

// NewStore constructs a Store from a region list. Subtables are added
// with AddSubtable.
func NewStore(regions []Region) *Store {
	return &Store{Regions: regions}
}

// AddSubtable appends one outer-indexed subtable: regionIndices names
// which of Store.Regions each column corresponds to, and deltas holds
// one row (len(regionIndices) values) per inner index.
func (s *Store) AddSubtable(regionIndices []uint16, deltas [][]float64) uint16 {
	s.subtables = append(s.subtables, subtable{regionIndices: regionIndices, deltas: deltas})
	return uint16(len(s.subtables) - 1)
}

// GetDelta evaluates the scalar-weighted sum of deltas for the given
// variation index at the given normalized coordinates, using cache to
// avoid recomputing region scalars already seen earlier in the same
// top-level call. cache may be nil, in which case no memoization
// happens.
//
// An out-of-range outer or inner index, per this engine group's
// "total, silent" error policy, simply contributes zero rather than
// erroring.
func (s *Store) GetDelta(idx VarIndex, coords []float64, cache *ScalarCache) float64 {
	if idx.IsNone() || int(idx.Outer) >= len(s.subtables) {
		return 0
	}
	sub := s.subtables[idx.Outer]
	if int(idx.Inner) >= len(sub.deltas) {
		return 0
	}
	row := sub.deltas[idx.Inner]

	var total float64
	for col, regionIdx := range sub.regionIndices {
		if col >= len(row) {
			break
		}
		scalar := s.regionScalar(regionIdx, coords, cache)
		if scalar == 0 {
			continue
		}
		total += scalar * row[col]
	}
	return total
}

// GetDeltas evaluates GetDelta for consecutive inner rows sharing the
// outer index idx.Outer, starting at idx.Inner, writing one result per
// entry of out. This is the call pattern of variable transform
// components, which evaluate a whole packed array of values against
// one shared variation index base in one pass.
func (s *Store) GetDeltas(idx VarIndex, coords []float64, cache *ScalarCache, out []float64) {
	for i := range out {
		out[i] = s.GetDelta(VarIndex{Outer: idx.Outer, Inner: idx.Inner + uint16(i)}, coords, cache)
	}
}

func (s *Store) regionScalar(regionIdx uint16, coords []float64, cache *ScalarCache) float64 {
	if int(regionIdx) >= len(s.Regions) {
		return 0
	}
	if cache != nil {
		if v, ok := cache.get(regionIdx); ok {
			return v
		}
	}
	v := s.Regions[regionIdx].Scalar(coords)
	if cache != nil {
		cache.set(regionIdx, v)
	}
	return v
}

// ScalarCache memoizes region scalar values for one set of design
// coordinates, across however many GetDelta calls share it.
//
// The VARC engine shares one scalar cache across an entire recursive
// subtree as long as every recursive call sees the same (identical, not
// merely equal) coordinate vector, and otherwise creates a fresh cache
// per subtree. That identity decision lives in package varc (see
// SameBacking in package varcoords); ScalarCache itself is agnostic to
// who owns it.
type ScalarCache struct {
	// computed holds, in sorted order, the region indices with a cached
	// value; values holds the matching value at the same position.
	computed []uint16
	values   []float64
}

// NewScalarCache returns an empty cache sized to hold up to
// numRegions entries without reallocating. A nil *ScalarCache is valid
// and behaves as an always-empty, non-memoizing cache.
func NewScalarCache(numRegions int) *ScalarCache {
	return &ScalarCache{
		computed: make([]uint16, 0, numRegions),
		values:   make([]float64, 0, numRegions),
	}
}

func (c *ScalarCache) get(region uint16) (float64, bool) {
	if c == nil {
		return 0, false
	}
	i, found := slices.BinarySearch(c.computed, region)
	if !found {
		return 0, false
	}
	return c.values[i], true
}

func (c *ScalarCache) set(region uint16, v float64) {
	if c == nil {
		return
	}
	i, found := slices.BinarySearch(c.computed, region)
	if found {
		c.values[i] = v
		return
	}
	c.computed = slices.Insert(c.computed, i, region)
	c.values = slices.Insert(c.values, i, v)
}
