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
	"seehuhn.de/go/sfnt/affine"
	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/drawfuncs"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/itemvar"
)

// CFF1Provider adapts a set of seehuhn.de/go/sfnt/cff.Glyph outlines
// into an OutlineProvider/ExtentsProvider. CFF1 outlines never carry
// variation data; the dispatcher only ever asks a CFF1 table for a
// plain (non-variable) path.
type CFF1Provider struct {
	Glyphs []*cff.Glyph
}

func (p *CFF1Provider) glyph(id glyph.ID) (*cff.Glyph, bool) {
	if p == nil || int(id) < 0 || int(id) >= len(p.Glyphs) || p.Glyphs[id] == nil {
		return nil, false
	}
	return p.Glyphs[id], true
}

// DrawGlyph implements OutlineProvider.
func (p *CFF1Provider) DrawGlyph(id glyph.ID, t affine.Transform, sink drawfuncs.Sink) bool {
	g, ok := p.glyph(id)
	if !ok {
		return false
	}
	pen := drawfuncs.NewTransformingPen(sink, t)
	drawCFFCmds(pen, g.Cmds)
	return true
}

// GlyphExtents implements ExtentsProvider.
func (p *CFF1Provider) GlyphExtents(id glyph.ID, t affine.Transform) (affine.Rect, bool) {
	if _, ok := p.glyph(id); !ok {
		return affine.Rect{}, false
	}
	var ext drawfuncs.ExtentsSink
	p.DrawGlyph(id, affine.Identity, &ext)
	return ext.Rect.Transform(t), true
}

// CFF2Provider adapts CFF2 outlines, additionally applying an
// itemvar.Store-sourced delta to every control point before the path is
// transformed and forwarded.
//
// Full CFF2 blend-operand decoding (the on-disk mechanism by which a
// CFF2 charstring names its own variation region operands) is not
// implemented here; the already-decoded default-instance control
// points are instead perturbed by the same item-variation-store
// mechanism VARC uses elsewhere, which is the effect blend operands
// have once resolved.
type CFF2Provider struct {
	Glyphs []*cff.Glyph

	// Deltas, if non-nil, supplies one itemvar.VarIndex pair per control
	// point named in Glyphs[id].Cmds (in argument order: for a MoveTo or
	// LineTo, one pair; for a CurveTo, three).
	Deltas map[glyph.ID][]PointDelta

	Store      *itemvar.Store
	Cache      *itemvar.ScalarCache
	NormCoords []float64
}

func (p *CFF2Provider) glyph(id glyph.ID) (*cff.Glyph, bool) {
	if p == nil || int(id) < 0 || int(id) >= len(p.Glyphs) || p.Glyphs[id] == nil {
		return nil, false
	}
	return p.Glyphs[id], true
}

// DrawGlyph implements OutlineProvider.
func (p *CFF2Provider) DrawGlyph(id glyph.ID, t affine.Transform, sink drawfuncs.Sink) bool {
	g, ok := p.glyph(id)
	if !ok {
		return false
	}

	cmds := g.Cmds
	if deltas := p.Deltas[id]; len(deltas) > 0 && p.Store != nil {
		cmds = applyCFFDeltas(cmds, deltas, p.Store, p.NormCoords, p.Cache)
	}

	pen := drawfuncs.NewTransformingPen(sink, t)
	drawCFFCmds(pen, cmds)
	return true
}

// GlyphExtents implements ExtentsProvider.
func (p *CFF2Provider) GlyphExtents(id glyph.ID, t affine.Transform) (affine.Rect, bool) {
	if _, ok := p.glyph(id); !ok {
		return affine.Rect{}, false
	}
	var ext drawfuncs.ExtentsSink
	p.DrawGlyph(id, affine.Identity, &ext)
	return ext.Rect.Transform(t), true
}

func applyCFFDeltas(cmds []cff.GlyphOp, deltas []PointDelta, store *itemvar.Store, coords []float64, cache *itemvar.ScalarCache) []cff.GlyphOp {
	out := make([]cff.GlyphOp, len(cmds))
	idx := 0
	for i, cmd := range cmds {
		args := append([]float64(nil), cmd.Args...)
		for a := 0; a+1 < len(args); a += 2 {
			if idx < len(deltas) {
				d := deltas[idx]
				args[a] += store.GetDelta(d.X, coords, cache)
				args[a+1] += store.GetDelta(d.Y, coords, cache)
			}
			idx++
		}
		out[i] = cff.GlyphOp{Op: cmd.Op, Args: args}
	}
	return out
}

func drawCFFCmds(pen *drawfuncs.TransformingPen, cmds []cff.GlyphOp) {
	open := false
	for _, cmd := range cmds {
		switch cmd.Op {
		case cff.OpMoveTo:
			if open {
				pen.ClosePath()
			}
			pen.MoveTo(cmd.Args[0], cmd.Args[1])
			open = true
		case cff.OpLineTo:
			pen.LineTo(cmd.Args[0], cmd.Args[1])
		case cff.OpCurveTo:
			pen.CubicTo(cmd.Args[0], cmd.Args[1], cmd.Args[2], cmd.Args[3], cmd.Args[4], cmd.Args[5])
		}
	}
	if open {
		pen.ClosePath()
	}
}
