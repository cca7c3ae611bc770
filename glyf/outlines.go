// seehuhn.de/go/sfnt - a library for reading and writing font files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
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

package glyf

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/sfnt/glyph"
)

// Outlines stores the glyph data of a TrueType font.
type Outlines struct {
	Glyphs Glyphs

	// Widths contains the glyph advance widths, indexed by glyph ID.
	Widths []funit.Int16

	// Names, if non-nil, contains the glyph names.
	Names []string
}

// NumGlyphs returns the number of glyphs in the font.
func (o *Outlines) NumGlyphs() int {
	return len(o.Glyphs)
}

// Path returns the outline of the given glyph.
func (o *Outlines) Path(gid glyph.ID) path.Path {
	return o.Glyphs.Path(gid)
}

// IsBlank reports whether the glyph has an empty outline.
func (o *Outlines) IsBlank(gid glyph.ID) bool {
	if int(gid) >= len(o.Glyphs) {
		gid = 0 // .notdef
	}
	return o.Glyphs[gid] == nil
}

// GlyphBBox computes the bounding box of a glyph, after the matrix M
// has been applied to the glyph outline.  The box is derived from the
// bounding box stored in the glyph header, not from the outline itself.
//
// If the glyph is blank, the zero rectangle is returned.
func (o *Outlines) GlyphBBox(M matrix.Matrix, gid glyph.ID) (bbox rect.Rect) {
	if int(gid) >= len(o.Glyphs) || o.Glyphs[gid] == nil {
		return
	}
	g := o.Glyphs[gid]

	first := true
	corners := [4][2]funit.Int16{
		{g.LLx, g.LLy}, {g.URx, g.LLy}, {g.LLx, g.URy}, {g.URx, g.URy},
	}
	for _, c := range corners {
		cx, cy := float64(c[0]), float64(c[1])
		x := M[0]*cx + M[2]*cy + M[4]
		y := M[1]*cx + M[3]*cy + M[5]
		if first || x < bbox.LLx {
			bbox.LLx = x
		}
		if first || x > bbox.URx {
			bbox.URx = x
		}
		if first || y < bbox.LLy {
			bbox.LLy = y
		}
		if first || y > bbox.URy {
			bbox.URy = y
		}
		first = false
	}
	return bbox
}

// GlyphBBoxPDF computes the bounding box of a glyph in PDF glyph space
// units (1/1000th of a text space unit).  The font matrix M is applied
// to the glyph outline.
//
// If the glyph is blank, the zero rectangle is returned.
func (o *Outlines) GlyphBBoxPDF(M matrix.Matrix, gid glyph.ID) rect.Rect {
	return o.GlyphBBox(M.Mul(matrix.Scale(1000, 1000)), gid)
}
