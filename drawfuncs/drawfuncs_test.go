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

package drawfuncs

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/sfnt/affine"
)

func TestTransformingPen(t *testing.T) {
	var rec Recorder
	pen := NewTransformingPen(&rec, affine.Translate(100, -50))

	pen.MoveTo(0, 0)
	pen.LineTo(10, 0)
	pen.QuadTo(10, 10, 0, 10)
	pen.CubicTo(1, 2, 3, 4, 5, 6)
	pen.ClosePath()

	want := []Event{
		{Op: OpMoveTo, Args: []float64{100, -50}},
		{Op: OpLineTo, Args: []float64{110, -50}},
		{Op: OpQuadTo, Args: []float64{110, -40, 100, -40}},
		{Op: OpCubicTo, Args: []float64{101, -48, 103, -46, 105, -44}},
		{Op: OpClosePath},
	}
	if diff := cmp.Diff(want, rec.Events); diff != "" {
		t.Errorf("unexpected trace (-want +got):\n%s", diff)
	}
}

func TestTransformingPenIdentityPassesThrough(t *testing.T) {
	var rec Recorder
	pen := NewTransformingPen(&rec, affine.Identity)
	pen.MoveTo(1, 2)
	pen.LineTo(3, 4)
	pen.ClosePath()

	want := []Event{
		{Op: OpMoveTo, Args: []float64{1, 2}},
		{Op: OpLineTo, Args: []float64{3, 4}},
		{Op: OpClosePath},
	}
	if diff := cmp.Diff(want, rec.Events); diff != "" {
		t.Errorf("unexpected trace (-want +got):\n%s", diff)
	}
}

func TestExtentsSink(t *testing.T) {
	var ext ExtentsSink
	ext.MoveTo(0, 0)
	ext.LineTo(10, 0)
	ext.QuadTo(12, 5, 10, 10)
	ext.ClosePath()

	want := affine.Rect{LLx: 0, LLy: 0, URx: 12, URy: 10}
	if diff := cmp.Diff(want, ext.Rect); diff != "" {
		t.Errorf("unexpected extents (-want +got):\n%s", diff)
	}
}
