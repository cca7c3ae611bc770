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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/sfnt/affine"
	"seehuhn.de/go/sfnt/drawfuncs"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/recur"
)

// square is a one-path, four-corner shape with all-CORNER segments: a
// square from (0,0) to (10,10), no axes.
func square() *partShape {
	return &partShape{
		axisCount:           0,
		segmentCountPerPath: []int{4},
		blendTypes:          []int{blendCorner, blendCorner, blendCorner, blendCorner},
		master: []float64{
			0, 0, 0, 0, // segment 0: on (0,0)
			10, 0, 0, 0, // segment 1: on (10,0)
			10, 10, 0, 0, // segment 2: on (10,10)
			0, 10, 0, 0, // segment 3: on (0,10)
		},
	}
}

func TestPartShapeCornerSquare(t *testing.T) {
	s := square()
	var rec drawfuncs.Recorder
	st := &walkState{sink: &rec}
	guard := recur.NewGuard(0, 0)

	ok := s.getPathAt(nil, nil, affine.Identity, st, guard)
	if !ok {
		t.Fatalf("getPathAt returned false")
	}

	want := []drawfuncs.Event{
		{Op: drawfuncs.OpMoveTo, Args: []float64{0, 0}},
		{Op: drawfuncs.OpQuadTo, Args: []float64{0, 0, 10, 0}},
		{Op: drawfuncs.OpQuadTo, Args: []float64{0, 0, 10, 10}},
		{Op: drawfuncs.OpQuadTo, Args: []float64{0, 0, 0, 10}},
		{Op: drawfuncs.OpQuadTo, Args: []float64{0, 0, 0, 0}},
		{Op: drawfuncs.OpClosePath},
	}
	if diff := cmp.Diff(want, rec.Events); diff != "" {
		t.Errorf("unexpected draw trace (-want +got):\n%s", diff)
	}
}

func TestPartShapeAxisDelta(t *testing.T) {
	s := square()
	s.axisCount = 1
	// one axis, positive side only: moving the top-right corner outward.
	s.deltas = [][]float64{
		nil, // axis 0, negative side: unused
		{0, 0, 0, 0, 0, 0, 0, 0, 5, 0, 0, 0, 0, 0, 0, 0}, // axis 0, positive side
	}

	var rec drawfuncs.Recorder
	st := &walkState{sink: &rec}
	guard := recur.NewGuard(0, 0)
	ok := s.getPathAt(nil, []float64{1}, affine.Identity, st, guard)
	if !ok {
		t.Fatalf("getPathAt returned false")
	}

	// segment 2's on-curve x should have shifted from 10 to 15.
	found := false
	for _, ev := range rec.Events {
		if ev.Op == drawfuncs.OpQuadTo && len(ev.Args) == 4 && ev.Args[2] == 15 && ev.Args[3] == 10 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a quad-to landing at (15,10), got %+v", rec.Events)
	}
}

func TestPartShapeExtents(t *testing.T) {
	s := square()
	var acc affine.Rect
	st := &walkState{extAcc: &acc}
	guard := recur.NewGuard(0, 0)
	ok := s.getPathAt(nil, nil, affine.Identity, st, guard)
	if !ok {
		t.Fatalf("getPathAt returned false")
	}
	want := affine.Rect{LLx: 0, LLy: 0, URx: 10, URy: 10}
	if diff := cmp.Diff(want, acc, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("unexpected extents (-want +got):\n%s", diff)
	}
}

func TestProjectOnCurveToTangent(t *testing.T) {
	offcurve1 := []float64{0, 0, 0, 0}
	offcurve2 := []float64{0, 0, 10, 0}
	oncurve := []float64{5, 5, 0, 0}

	projectOnCurveToTangent(offcurve1, oncurve, offcurve2)

	if math.Abs(oncurve[segOnCurveX]-5) > 1e-9 || math.Abs(oncurve[segOnCurveY]-0) > 1e-9 {
		t.Errorf("expected projection onto (5,0), got (%v,%v)", oncurve[segOnCurveX], oncurve[segOnCurveY])
	}
}

func TestPartCompositeMasterTranslation(t *testing.T) {
	leaf := square()
	comp := &partComposite{
		axisCount:  0,
		totalAxes:  0,
		totalParts: 1,
		subParts:   []subPart{{partIndex: 1, treeAxisIndex: 0, treeTransformIndex: 0}},
		masterEntries: []masterEntry{
			{row: 0, dx: 100, dy: 0, rotation: 0},
		},
	}

	tbl := &Table{parts: []part{comp, leaf}}

	var rec drawfuncs.Recorder
	st := &walkState{sink: &rec}
	ok := tbl.getPartPathAt(0, nil, st)
	if !ok {
		t.Fatalf("getPartPathAt returned false")
	}

	// the square's first move-to should have been translated by (100,0).
	if len(rec.Events) == 0 || rec.Events[0].Op != drawfuncs.OpMoveTo {
		t.Fatalf("expected a move-to first, got %+v", rec.Events)
	}
	if rec.Events[0].Args[0] != 100 || rec.Events[0].Args[1] != 0 {
		t.Errorf("expected move-to (100,0), got %+v", rec.Events[0].Args)
	}
}

func TestScaledExtremumTransformFixedPoint(t *testing.T) {
	// a quarter turn (pi/2) whose translation's fixed point is (10, 0):
	// rotating (10,0) by pi/2 about the origin gives (0,10); the
	// translation that turns (0,10) back into (10,0) after the rotation
	// is what scaledExtremumTransform should reconstruct a fixed point
	// for, scaled here at scalar=1 (full effect).
	angle := math.Pi / 2
	fixedX, fixedY := 10.0, 0.0

	// dx,dy is the translation applied after rotating by angle: for a
	// pure "rotate about (fixedX,fixedY)" transform, translate(fx,fy)
	// . rotate(angle) . translate(-fx,-fy) expands to rotate(angle)
	// with translation (fx - fx*cos+fy*sin, fy - fx*sin-fy*cos).
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	dx := fixedX - (fixedX*cosA - fixedY*sinA)
	dy := fixedY - (fixedX*sinA + fixedY*cosA)

	transform := scaledExtremumTransform(dx, dy, angle, 1)

	// the fixed point must map to itself.
	x, y := transform.Apply(fixedX, fixedY)
	if math.Abs(x-fixedX) > 1e-9 || math.Abs(y-fixedY) > 1e-9 {
		t.Errorf("fixed point (%v,%v) did not map to itself: got (%v,%v)", fixedX, fixedY, x, y)
	}
}

func TestScaledExtremumTransformZeroRotationFallsBackToTranslate(t *testing.T) {
	transform := scaledExtremumTransform(3, 4, 0, 2)
	x, y := transform.Apply(0, 0)
	if x != 6 || y != 8 {
		t.Errorf("expected plain scaled translation (6,8), got (%v,%v)", x, y)
	}
}

func TestGetPathAtMissingGlyph(t *testing.T) {
	tbl := &Table{glyphPartIndex: map[glyph.ID]uint16{}}
	var rec drawfuncs.Recorder
	ok := tbl.GetPathAt(glyph.ID(7), nil, &rec)
	if ok {
		t.Errorf("expected false for an uncovered glyph")
	}
}
