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

package itemvar

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegionScalar(t *testing.T) {
	r := Region{Axes: []RegionAxis{{Start: 0, Peak: 1, End: 1}}}

	cases := []struct {
		coord float64
		want  float64
	}{
		{0, 0},
		{0.25, 0.25},
		{0.5, 0.5},
		{1, 1},
		{-0.5, 0},
	}
	for _, c := range cases {
		got := r.Scalar([]float64{c.coord})
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("Scalar at %v = %v, want %v", c.coord, got, c.want)
		}
	}
}

func TestRegionScalarTent(t *testing.T) {
	r := Region{Axes: []RegionAxis{{Start: 0, Peak: 0.5, End: 1}}}
	if got := r.Scalar([]float64{0.5}); got != 1 {
		t.Errorf("scalar at peak = %v, want 1", got)
	}
	if got := r.Scalar([]float64{0}); got != 0 {
		t.Errorf("scalar at start = %v, want 0", got)
	}
	if got := r.Scalar([]float64{0.75}); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("scalar on falling edge = %v, want 0.5", got)
	}
	if got := r.Scalar([]float64{0.25}); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("scalar on rising edge = %v, want 0.5", got)
	}
}

func TestRegionScalarStraddlingInvalid(t *testing.T) {
	// a support straddling zero with a nonzero peak is invalid and
	// contributes a factor of 1, like a missing axis
	r := Region{Axes: []RegionAxis{{Start: -1, Peak: 0.5, End: 1}}}
	if got := r.Scalar([]float64{-0.9}); got != 1 {
		t.Errorf("invalid region scalar = %v, want 1", got)
	}
}

func TestRegionScalarZeroPeakIgnored(t *testing.T) {
	r := Region{Axes: []RegionAxis{
		{Start: -1, Peak: 0, End: 1}, // ignored
		{Start: 0, Peak: 1, End: 1},
	}}
	if got := r.Scalar([]float64{-1, 1}); got != 1 {
		t.Errorf("axis with zero peak must not attenuate: got %v", got)
	}
}

func TestRegionScalarProduct(t *testing.T) {
	r := Region{Axes: []RegionAxis{
		{Start: 0, Peak: 1, End: 1},
		{Start: 0, Peak: 1, End: 1},
	}}
	if got := r.Scalar([]float64{0.5, 0.5}); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("product of tents = %v, want 0.25", got)
	}
}

func testStore() *Store {
	store := NewStore([]Region{
		{Axes: []RegionAxis{{Start: 0, Peak: 1, End: 1}}},
		{Axes: []RegionAxis{{Start: -1, Peak: -1, End: 0}}},
	})
	store.AddSubtable([]uint16{0, 1}, [][]float64{
		{100, -50}, // item 0
		{10, 20},   // item 1
	})
	return store
}

func TestGetDelta(t *testing.T) {
	store := testStore()

	got := store.GetDelta(VarIndex{Outer: 0, Inner: 0}, []float64{1}, nil)
	if got != 100 {
		t.Errorf("delta at +1 = %v, want 100", got)
	}

	got = store.GetDelta(VarIndex{Outer: 0, Inner: 0}, []float64{-1}, nil)
	if got != -50 {
		t.Errorf("delta at -1 = %v, want -50", got)
	}

	got = store.GetDelta(VarIndex{Outer: 0, Inner: 0}, []float64{0.5}, nil)
	if got != 50 {
		t.Errorf("delta at +0.5 = %v, want 50", got)
	}
}

func TestGetDeltaNoVariation(t *testing.T) {
	store := testStore()
	if got := store.GetDelta(NoVariation, []float64{1}, nil); got != 0 {
		t.Errorf("NoVariation delta = %v, want 0", got)
	}
	if got := store.GetDelta(VarIndex{Outer: 99, Inner: 0}, []float64{1}, nil); got != 0 {
		t.Errorf("out-of-range outer delta = %v, want 0", got)
	}
	if got := store.GetDelta(VarIndex{Outer: 0, Inner: 99}, []float64{1}, nil); got != 0 {
		t.Errorf("out-of-range inner delta = %v, want 0", got)
	}
}

func TestGetDeltas(t *testing.T) {
	store := testStore()
	out := make([]float64, 2)
	store.GetDeltas(VarIndex{Outer: 0, Inner: 0}, []float64{1}, nil, out)
	if diff := cmp.Diff([]float64{100, 10}, out); diff != "" {
		t.Errorf("vector deltas (-want +got):\n%s", diff)
	}
}

// TestScalarCacheTransparent checks that the cache does not change
// results, only avoids recomputation: with and without a cache, and
// across repeated calls sharing one cache, the delta must be bitwise
// identical.
func TestScalarCacheTransparent(t *testing.T) {
	store := testStore()
	coords := []float64{0.3}
	idx := VarIndex{Outer: 0, Inner: 0}

	want := store.GetDelta(idx, coords, nil)
	cache := NewScalarCache(len(store.Regions))
	for i := 0; i < 3; i++ {
		got := store.GetDelta(idx, coords, cache)
		if math.Float64bits(got) != math.Float64bits(want) {
			t.Fatalf("call %d through cache = %v, want %v", i, got, want)
		}
	}
}

func TestScalarCacheStoresValues(t *testing.T) {
	cache := NewScalarCache(4)
	if _, ok := cache.get(2); ok {
		t.Fatalf("empty cache reported a hit")
	}
	cache.set(2, 0.25)
	cache.set(0, 1)
	if v, ok := cache.get(2); !ok || v != 0.25 {
		t.Errorf("get(2) = %v, %v; want 0.25, true", v, ok)
	}
	if v, ok := cache.get(0); !ok || v != 1 {
		t.Errorf("get(0) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := cache.get(1); ok {
		t.Errorf("get(1) reported a hit for a never-set region")
	}
}

func TestNilScalarCache(t *testing.T) {
	var cache *ScalarCache
	if _, ok := cache.get(0); ok {
		t.Errorf("nil cache reported a hit")
	}
	cache.set(0, 1) // must not panic

	store := testStore()
	if got := store.GetDelta(VarIndex{Outer: 0, Inner: 1}, []float64{1}, cache); got != 10 {
		t.Errorf("delta through nil cache = %v, want 10", got)
	}
}
