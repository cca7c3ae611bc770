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

// Package leaf implements the leaf-glyph dispatcher boundary: the point
// at which a VARC or HVGL component bottoms out in an actual glyph
// outline, rather than recursing into another component.
//
// Providers are tried in a fixed order — simple ("glyf") outlines, then
// CFF2, then CFF1 — and the first provider that recognizes the glyph ID
// wins, matching VARC::get_path_at's
// `glyf->get_path_at(...) || cff2->get_path_at(...) || cff1->get_path(...)`
// chain.
package leaf

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/sfnt/affine"
	"seehuhn.de/go/sfnt/drawfuncs"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/itemvar"
)

func roundFWORD(v float64) funit.Int16 {
	return funit.Int16(math.Round(v))
}

// OutlineProvider draws the outline of glyph id into sink, after
// applying the given affine transform. It reports whether it recognizes
// id at all; a false result lets the dispatcher fall through to the
// next provider, it is not an error.
type OutlineProvider interface {
	DrawGlyph(id glyph.ID, t affine.Transform, sink drawfuncs.Sink) (ok bool)
}

// ExtentsProvider computes the bounding box of glyph id after t is
// applied, without needing to materialize a draw trace. It reports
// whether it recognizes id.
type ExtentsProvider interface {
	GlyphExtents(id glyph.ID, t affine.Transform) (affine.Rect, bool)
}

// Dispatcher tries a fixed, ordered list of providers for each leaf
// glyph reference a component tree bottoms out at.
type Dispatcher struct {
	Glyf *GlyfProvider
	CFF2 *CFF2Provider
	CFF1 *CFF1Provider
}

// DrawGlyph tries Glyf, then CFF2, then CFF1, in that order.
func (d *Dispatcher) DrawGlyph(id glyph.ID, t affine.Transform, sink drawfuncs.Sink) bool {
	if d.Glyf != nil {
		if d.Glyf.DrawGlyph(id, t, sink) {
			return true
		}
	}
	if d.CFF2 != nil {
		if d.CFF2.DrawGlyph(id, t, sink) {
			return true
		}
	}
	if d.CFF1 != nil {
		if d.CFF1.DrawGlyph(id, t, sink) {
			return true
		}
	}
	return false
}

// GlyphExtents tries Glyf, then CFF2, then CFF1, in that order.
func (d *Dispatcher) GlyphExtents(id glyph.ID, t affine.Transform) (affine.Rect, bool) {
	if d.Glyf != nil {
		if r, ok := d.Glyf.GlyphExtents(id, t); ok {
			return r, true
		}
	}
	if d.CFF2 != nil {
		if r, ok := d.CFF2.GlyphExtents(id, t); ok {
			return r, true
		}
	}
	if d.CFF1 != nil {
		if r, ok := d.CFF1.GlyphExtents(id, t); ok {
			return r, true
		}
	}
	return affine.Rect{}, false
}

// GlyfProvider adapts a set of seehuhn.de/go/sfnt/glyf.SimpleGlyph
// outlines (indexed by glyph ID) into an OutlineProvider/ExtentsProvider,
// applying an optional gvar-style per-point variation delta before the
// outline is transformed and forwarded.
//
// The "glyf" table's top-level Glyph/decodeGlyph machinery (composite
// glyph re-expansion) is out of scope here: VARC/HVGL leaf references
// always name simple (non-composite) outlines, so GlyfProvider works
// directly with glyf.SimpleGlyph rather than the full glyf.Glyphs type.
type GlyfProvider struct {
	Glyphs []glyf.SimpleGlyph

	// Deltas, if non-nil, supplies a per-(glyph, point) coordinate
	// delta store: Deltas[id] holds one itemvar.VarIndex pair (x, y)
	// per outline point, in contour order. A nil entry means "no
	// variation for this glyph".
	Deltas map[glyph.ID][]PointDelta

	Store      *itemvar.Store
	Cache      *itemvar.ScalarCache
	NormCoords []float64
}

// PointDelta names the variation indices supplying the x and y deltas
// for one outline point.
type PointDelta struct {
	X, Y itemvar.VarIndex
}

func (p *GlyfProvider) glyph(id glyph.ID) (glyf.SimpleGlyph, bool) {
	if p == nil || int(id) < 0 || int(id) >= len(p.Glyphs) {
		return glyf.SimpleGlyph{}, false
	}
	return p.Glyphs[id], true
}

// DrawGlyph implements OutlineProvider.
func (p *GlyfProvider) DrawGlyph(id glyph.ID, t affine.Transform, sink drawfuncs.Sink) bool {
	g, ok := p.glyph(id)
	if !ok {
		return false
	}

	unpacked, err := g.Unpack()
	if err != nil {
		return false
	}

	deltas := p.Deltas[id]
	if len(deltas) > 0 && p.Store != nil {
		unpacked = applyPointDeltas(unpacked, deltas, p.Store, p.NormCoords, p.Cache)
	}

	// A LineTo is held back by one command, so that a line returning to
	// the contour's start right before ClosePath is left to ClosePath.
	pen := drawfuncs.NewTransformingPen(sink, t)
	var start, last vec.Vec2
	held := false
	for cmd, pts := range unpacked.Path() {
		if held && !(cmd == path.CmdClose && last == start) {
			pen.LineTo(last.X, last.Y)
		}
		held = false
		switch cmd {
		case path.CmdMoveTo:
			start = pts[0]
		case path.CmdLineTo:
			last, held = pts[0], true
			continue
		}
		forward(pen, cmd, pts)
	}
	if held {
		pen.LineTo(last.X, last.Y)
	}
	return true
}

// GlyphExtents implements ExtentsProvider.
func (p *GlyfProvider) GlyphExtents(id glyph.ID, t affine.Transform) (affine.Rect, bool) {
	if _, ok := p.glyph(id); !ok {
		return affine.Rect{}, false
	}

	var ext drawfuncs.ExtentsSink
	if !p.DrawGlyph(id, affine.Identity, &ext) {
		return affine.Rect{}, false
	}
	return ext.Rect.Transform(t), true
}

// applyPointDeltas returns a copy of u with each point's coordinates
// offset by the variation store's evaluated delta, matching the
// externally observable effect of "gvar"-style point-delta application.
func applyPointDeltas(u *glyf.SimpleUnpacked, deltas []PointDelta, store *itemvar.Store, coords []float64, cache *itemvar.ScalarCache) *glyf.SimpleUnpacked {
	out := &glyf.SimpleUnpacked{
		Contours:     make([]glyf.Contour, len(u.Contours)),
		Instructions: u.Instructions,
	}
	idx := 0
	for ci, contour := range u.Contours {
		nc := make(glyf.Contour, len(contour))
		for pi, pt := range contour {
			dx, dy := 0.0, 0.0
			if idx < len(deltas) {
				d := deltas[idx]
				dx = store.GetDelta(d.X, coords, cache)
				dy = store.GetDelta(d.Y, coords, cache)
			}
			idx++
			nc[pi] = glyf.Point{
				X:       pt.X + roundFWORD(dx),
				Y:       pt.Y + roundFWORD(dy),
				OnCurve: pt.OnCurve,
			}
		}
		out.Contours[ci] = nc
	}
	return out
}

func forward(pen *drawfuncs.TransformingPen, cmd path.Command, pts []vec.Vec2) {
	switch cmd {
	case path.CmdMoveTo:
		pen.MoveTo(pts[0].X, pts[0].Y)
	case path.CmdLineTo:
		pen.LineTo(pts[0].X, pts[0].Y)
	case path.CmdQuadTo:
		pen.QuadTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
	case path.CmdCubeTo:
		pen.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
	case path.CmdClose:
		pen.ClosePath()
	}
}
