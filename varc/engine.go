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

import (
	"math"

	"seehuhn.de/go/sfnt/affine"
	"seehuhn.de/go/sfnt/drawfuncs"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/itemvar"
	"seehuhn.de/go/sfnt/leaf"
	"seehuhn.de/go/sfnt/recur"
	"seehuhn.de/go/sfnt/varcoords"
)

// walkState carries the parts of a single top-level GetPathAt/GetExtentsAt
// call that stay constant across the whole recursive walk: the table being
// walked, the recursion guard, the leaf dispatcher, and exactly one of a
// draw sink or an extents accumulator.
type walkState struct {
	table      *Table
	guard      *recur.Guard
	dispatcher *leaf.Dispatcher
	sink       drawfuncs.Sink
	extAcc     *affine.Rect
}

// GetPathAt draws glyph id's outline, evaluated at the given normalized
// design coordinates, into sink.
//
// It reports false only when id is not reachable at all (neither covered
// by this table nor resolved by Dispatcher); every other failure mode —
// a truncated record, an exhausted recursion budget, a cycle — is silent
// per this engine group's design, and simply stops contributing further
// geometry rather than reporting an error.
func (t *Table) GetPathAt(gid glyph.ID, coords []float64, sink drawfuncs.Sink) bool {
	st := &walkState{
		table:      t,
		guard:      recur.NewGuard(t.MaxDepth, t.MaxEdges),
		dispatcher: t.Dispatcher,
		sink:       sink,
	}
	vec := varcoords.FromSlice(coords)
	return t.getPathAt(st, gid, &vec, affine.Identity, nil, nil)
}

// GetExtentsAt computes the bounding box of glyph id's outline, evaluated
// at the given normalized design coordinates. It reports false under the
// same conditions as GetPathAt.
func (t *Table) GetExtentsAt(gid glyph.ID, coords []float64) (affine.Rect, bool) {
	var acc affine.Rect
	st := &walkState{
		table:      t,
		guard:      recur.NewGuard(t.MaxDepth, t.MaxEdges),
		dispatcher: t.Dispatcher,
		extAcc:     &acc,
	}
	vec := varcoords.FromSlice(coords)
	ok := t.getPathAt(st, gid, &vec, affine.Identity, nil, nil)
	return acc, ok
}

// getPathAt evaluates one glyph reference: a glyph that is its own immediate
// parent is forced to the leaf path (self-recursion guard); otherwise a
// covered glyph expands its component record, and an uncovered one
// dispatches to the leaf outline providers.
//
// coords is always passed by pointer, and only ever replaced (never
// mutated in place) when a component rebuilds or overrides it — so
// varcoords.SameBacking, called once per component below, reports
// genuine parent/child coordinate-vector identity rather than an
// artifact of Go's pass-by-value struct semantics.
func (t *Table) getPathAt(
	st *walkState,
	gid glyph.ID,
	coords *varcoords.Vector,
	transform affine.Transform,
	parentGid *glyph.ID,
	parentCache *itemvar.ScalarCache,
) bool {
	idx := notCovered
	if parentGid == nil || *parentGid != gid {
		idx = t.coverage.index(gid)
	}

	if idx == notCovered {
		if st.dispatcher == nil {
			return false
		}
		if st.sink != nil {
			return st.dispatcher.DrawGlyph(gid, transform, st.sink)
		}
		r, ok := st.dispatcher.GlyphExtents(gid, transform)
		if ok {
			*st.extAcc = st.extAcc.Union(r)
		}
		return ok
	}

	if st.guard.Exhausted() {
		return true
	}
	if !st.guard.Enter(glyphID(gid)) {
		return true
	}
	defer st.guard.Leave()

	if int(idx) >= len(t.glyphRecords) {
		return true
	}
	record := t.glyphRecords[idx]

	cache := parentCache
	if cache == nil && t.store != nil {
		cache = itemvar.NewScalarCache(len(t.store.Regions))
	}

	coordsSlice := coords.Slice()
	for len(record) > 0 {
		comp, rest, ok := t.parseComponent(record, coordsSlice, coords, cache)
		if !ok {
			break
		}
		record = rest

		if !comp.show {
			continue
		}

		combined := comp.localTransform.Mul(transform)
		childCache := cache
		if !comp.sameCoords {
			childCache = nil
		}
		myGid := gid
		t.getPathAt(st, comp.gid, comp.coords, combined, &myGid, childCache)
	}

	return true
}

// parsedComponent holds the outcome of decoding one VarComponent record:
// the child glyph it names, whether its condition (if any) allows it to
// contribute geometry, the axis coordinates visible to that child, and
// the affine transform this component applies before recursing.
type parsedComponent struct {
	gid            glyph.ID
	show           bool
	coords         *varcoords.Vector
	sameCoords     bool
	localTransform affine.Transform
}

// parseComponent decodes exactly one VarComponent record from the front
// of record, returning the unconsumed remainder. Field order: flags,
// glyph ID, condition, axis values (with optional
// variation and RESET_UNSPECIFIED_AXES baseline rebuild), transform
// (with optional variation), per-field fixed-point divisors, the
// HAVE_SCALE_Y-absent scaleY=scaleX fallback applied after both variation
// and division, and finally the rotation/skew radian conversion.
func (t *Table) parseComponent(
	record []byte,
	coords []float64,
	coordsVec *varcoords.Vector,
	cache *itemvar.ScalarCache,
) (parsedComponent, []byte, bool) {
	var comp parsedComponent

	rawFlags, rest, ok := readVarUint32(record)
	if !ok {
		return comp, record, false
	}
	flags := componentFlags(rawFlags)

	var gidVal uint32
	if flags&flagGIDIs24Bit != 0 {
		gidVal, rest, ok = readUint24(rest)
	} else {
		var v uint16
		v, rest, ok = readUint16(rest)
		gidVal = uint32(v)
	}
	if !ok {
		return comp, record, false
	}
	comp.gid = glyph.ID(gidVal)

	show := true
	if flags&flagHaveCondition != 0 {
		var condIdx uint32
		condIdx, rest, ok = readVarUint32(rest)
		if !ok {
			return comp, record, false
		}
		if int(condIdx) < len(t.conditions) && t.conditions[condIdx] != nil {
			show = t.conditions[condIdx].Eval(coords)
		}
	}

	componentCoords := coordsVec
	var axisIndices []uint16
	var axisValues []float64

	if flags&flagHaveAxes != 0 {
		var axisIdxListIdx uint32
		axisIdxListIdx, rest, ok = readVarUint32(rest)
		if !ok {
			return comp, record, false
		}
		if int(axisIdxListIdx) < len(t.axisIndicesList) {
			axisIndices = t.axisIndicesList[axisIdxListIdx]
		}

		var raw []int32
		raw, rest, ok = decodeTupleValues(rest, len(axisIndices))
		if !ok {
			return comp, record, false
		}
		axisValues = make([]float64, len(raw))
		for i, v := range raw {
			axisValues[i] = float64(v)
		}

		if flags&flagAxisValuesHaveVariation != 0 {
			var varIdxRaw uint32
			varIdxRaw, rest, ok = readVarUint32(rest)
			if !ok {
				return comp, record, false
			}
			base := splitVarIndex(varIdxRaw)
			if t.store != nil {
				for i := range axisValues {
					axisValues[i] += t.store.GetDelta(itemvar.VarIndex{Outer: base.Outer, Inner: base.Inner + uint16(i)}, coords, cache)
				}
			}
		}

		for i := range axisValues {
			axisValues[i] /= 16384.0
		}
	}

	// axes not named by this component restart from the font's
	// design-space defaults (all-zero normalized coordinates), either on
	// request or when the inherited vector exceeds the axis limit
	if flags&flagResetUnspecifiedAxes != 0 || coordsVec.Len() > maxComponentAxes {
		reset := varcoords.NewVector(0)
		componentCoords = &reset
	}

	decomposed := affine.DefaultDecomposed()

	var transformVarIdx itemvar.VarIndex
	haveTransformVar := false
	if flags&flagTransformHasVariation != 0 {
		var varIdxRaw uint32
		varIdxRaw, rest, ok = readVarUint32(rest)
		if !ok {
			return comp, record, false
		}
		transformVarIdx = splitVarIndex(varIdxRaw)
		haveTransformVar = true
	}

	type field struct {
		flag  componentFlags
		shift uint
		val   *float64
	}
	fields := [9]field{
		{flagHaveTranslateX, 0, &decomposed.TranslateX},
		{flagHaveTranslateY, 0, &decomposed.TranslateY},
		{flagHaveRotation, 12, &decomposed.Rotation},
		{flagHaveScaleX, 10, &decomposed.ScaleX},
		{flagHaveScaleY, 10, &decomposed.ScaleY},
		{flagHaveSkewX, 12, &decomposed.SkewX},
		{flagHaveSkewY, 12, &decomposed.SkewY},
		{flagHaveTCenterX, 0, &decomposed.CenterX},
		{flagHaveTCenterY, 0, &decomposed.CenterY},
	}

	present := make([]bool, len(fields))
	for i, f := range fields {
		if flags&f.flag == 0 {
			continue
		}
		var raw int16
		raw, rest, ok = readInt16(rest)
		if !ok {
			return comp, record, false
		}
		*f.val = float64(raw)
		present[i] = true
	}

	reserved := flags & flagReservedMask
	for reserved != 0 {
		_, rest, ok = readVarUint32(rest)
		if !ok {
			return comp, record, false
		}
		reserved &= reserved - 1
	}

	if show {
		if len(axisIndices) > 0 {
			if componentCoords == coordsVec {
				clone := componentCoords.Clone()
				componentCoords = &clone
			}
			for i, axis := range axisIndices {
				if int(axis) >= maxComponentAxes || i >= len(axisValues) {
					continue
				}
				if int(axis) >= componentCoords.Len() {
					componentCoords.Resize(int(axis) + 1)
				}
				componentCoords.Set(int(axis), axisValues[i])
			}
		}

		if haveTransformVar && t.store != nil && !transformVarIdx.IsNone() {
			packed := make([]float64, 0, len(fields))
			packedIdx := make([]int, 0, len(fields))
			for i, f := range fields {
				if present[i] {
					packed = append(packed, *f.val)
					packedIdx = append(packedIdx, i)
				}
			}
			deltas := make([]float64, len(packed))
			t.store.GetDeltas(transformVarIdx, coords, cache, deltas)
			for j, i := range packedIdx {
				*fields[i].val += deltas[j]
			}
		}

		for i, f := range fields {
			if f.shift != 0 && present[i] {
				*f.val /= float64(int(1) << f.shift)
			}
		}

		if !present[4] { // HAVE_SCALE_Y absent
			decomposed.ScaleY = decomposed.ScaleX
		}

		decomposed.Rotation *= math.Pi
		decomposed.SkewX *= math.Pi
		decomposed.SkewY *= math.Pi

		comp.localTransform = decomposed.ToTransform()
	}

	comp.show = show
	comp.coords = componentCoords
	comp.sameCoords = varcoords.SameBacking(componentCoords, coordsVec)

	return comp, rest, true
}

func splitVarIndex(raw uint32) itemvar.VarIndex {
	return itemvar.VarIndex{Outer: uint16(raw >> 16), Inner: uint16(raw)}
}
