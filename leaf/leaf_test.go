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

package leaf

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/sfnt/affine"
	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/drawfuncs"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/itemvar"
)

func triangleGlyf() glyf.SimpleGlyph {
	u := &glyf.SimpleUnpacked{
		Contours: []glyf.Contour{
			{
				{X: 0, Y: 0, OnCurve: true},
				{X: 100, Y: 0, OnCurve: true},
				{X: 0, Y: 100, OnCurve: true},
			},
		},
	}
	return u.Pack()
}

func squareCFF() *cff.Glyph {
	g := cff.NewGlyph("square", 0)
	g.MoveTo(0, 0)
	g.LineTo(50, 0)
	g.LineTo(50, 50)
	g.LineTo(0, 50)
	return g
}

func TestGlyfProviderPassThrough(t *testing.T) {
	p := &GlyfProvider{Glyphs: []glyf.SimpleGlyph{triangleGlyf()}}

	var rec drawfuncs.Recorder
	if !p.DrawGlyph(0, affine.Identity, &rec) {
		t.Fatalf("DrawGlyph failed")
	}

	want := []drawfuncs.Event{
		{Op: drawfuncs.OpMoveTo, Args: []float64{0, 0}},
		{Op: drawfuncs.OpLineTo, Args: []float64{100, 0}},
		{Op: drawfuncs.OpLineTo, Args: []float64{0, 100}},
		{Op: drawfuncs.OpClosePath},
	}
	if diff := cmp.Diff(want, rec.Events); diff != "" {
		t.Errorf("unexpected trace (-want +got):\n%s", diff)
	}
}

func TestGlyfProviderTransform(t *testing.T) {
	p := &GlyfProvider{Glyphs: []glyf.SimpleGlyph{triangleGlyf()}}

	var rec drawfuncs.Recorder
	if !p.DrawGlyph(0, affine.Translate(200, 0), &rec) {
		t.Fatalf("DrawGlyph failed")
	}
	want := []drawfuncs.Event{
		{Op: drawfuncs.OpMoveTo, Args: []float64{200, 0}},
		{Op: drawfuncs.OpLineTo, Args: []float64{300, 0}},
		{Op: drawfuncs.OpLineTo, Args: []float64{200, 100}},
		{Op: drawfuncs.OpClosePath},
	}
	if diff := cmp.Diff(want, rec.Events); diff != "" {
		t.Errorf("unexpected trace (-want +got):\n%s", diff)
	}
}

func TestGlyfProviderPointDeltas(t *testing.T) {
	store := itemvar.NewStore([]itemvar.Region{
		{Axes: []itemvar.RegionAxis{{Start: 0, Peak: 1, End: 1}}},
	})
	store.AddSubtable([]uint16{0}, [][]float64{{10}})

	p := &GlyfProvider{
		Glyphs: []glyf.SimpleGlyph{triangleGlyf()},
		Deltas: map[glyph.ID][]PointDelta{
			0: {
				{X: itemvar.VarIndex{Outer: 0, Inner: 0}, Y: itemvar.NoVariation},
				{X: itemvar.NoVariation, Y: itemvar.NoVariation},
				{X: itemvar.NoVariation, Y: itemvar.NoVariation},
			},
		},
		Store:      store,
		NormCoords: []float64{1},
	}

	var rec drawfuncs.Recorder
	if !p.DrawGlyph(0, affine.Identity, &rec) {
		t.Fatalf("DrawGlyph failed")
	}
	if rec.Events[0].Args[0] != 10 {
		t.Errorf("first point x = %v, want 10 after delta", rec.Events[0].Args[0])
	}
}

func TestDispatcherOrder(t *testing.T) {
	d := &Dispatcher{
		Glyf: &GlyfProvider{Glyphs: []glyf.SimpleGlyph{triangleGlyf()}},
		CFF1: &CFF1Provider{Glyphs: []*cff.Glyph{squareCFF(), squareCFF()}},
	}

	// glyph 0 exists in both providers: glyf must win
	var rec drawfuncs.Recorder
	if !d.DrawGlyph(0, affine.Identity, &rec) {
		t.Fatalf("DrawGlyph failed")
	}
	if got := rec.Events[1].Args[0]; got != 100 {
		t.Errorf("expected the glyf triangle (x=100), got x=%v", got)
	}

	// glyph 1 only exists in the CFF provider
	rec = drawfuncs.Recorder{}
	if !d.DrawGlyph(1, affine.Identity, &rec) {
		t.Fatalf("DrawGlyph fallback failed")
	}
	if got := rec.Events[1].Args[0]; got != 50 {
		t.Errorf("expected the CFF square (x=50), got x=%v", got)
	}

	// glyph 9 exists nowhere
	rec = drawfuncs.Recorder{}
	if d.DrawGlyph(9, affine.Identity, &rec) {
		t.Errorf("expected failure for an unknown glyph")
	}
}

func TestDispatcherExtents(t *testing.T) {
	d := &Dispatcher{
		Glyf: &GlyfProvider{Glyphs: []glyf.SimpleGlyph{triangleGlyf()}},
	}
	r, ok := d.GlyphExtents(0, affine.Translate(10, 20))
	if !ok {
		t.Fatalf("GlyphExtents failed")
	}
	want := affine.Rect{LLx: 10, LLy: 20, URx: 110, URy: 120}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("unexpected extents (-want +got):\n%s", diff)
	}
}

func TestCFF1ProviderDraw(t *testing.T) {
	p := &CFF1Provider{Glyphs: []*cff.Glyph{squareCFF()}}
	var rec drawfuncs.Recorder
	if !p.DrawGlyph(0, affine.Identity, &rec) {
		t.Fatalf("DrawGlyph failed")
	}
	if rec.Events[0].Op != drawfuncs.OpMoveTo || rec.Events[len(rec.Events)-1].Op != drawfuncs.OpClosePath {
		t.Errorf("expected a closed contour, got %+v", rec.Events)
	}
}

func TestCFF2ProviderDeltas(t *testing.T) {
	store := itemvar.NewStore([]itemvar.Region{
		{Axes: []itemvar.RegionAxis{{Start: 0, Peak: 1, End: 1}}},
	})
	store.AddSubtable([]uint16{0}, [][]float64{{25}})

	p := &CFF2Provider{
		Glyphs: []*cff.Glyph{squareCFF()},
		Deltas: map[glyph.ID][]PointDelta{
			0: {{X: itemvar.VarIndex{Outer: 0, Inner: 0}, Y: itemvar.NoVariation}},
		},
		Store:      store,
		NormCoords: []float64{1},
	}

	var rec drawfuncs.Recorder
	if !p.DrawGlyph(0, affine.Identity, &rec) {
		t.Fatalf("DrawGlyph failed")
	}
	if rec.Events[0].Args[0] != 25 {
		t.Errorf("move-to x = %v, want 25 after delta", rec.Events[0].Args[0])
	}
}
