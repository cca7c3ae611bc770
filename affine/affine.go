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

// Package affine provides the 2x3 affine transform used by the variable
// composite glyph engines, together with its pivot/skew/rotate/scale
// decomposed form.
//
// Transform is a thin wrapper around [matrix.Matrix], the same type
// seehuhn.de/go/sfnt/glyf uses for composite glyph components
// (glyf.ComponentUnpacked.Trfm) and seehuhn.de/go/sfnt/cff uses for glyph
// bounding boxes (cff.Outlines.GlyphBBox).
package affine

import (
	"math"

	"seehuhn.de/go/geom/matrix"
)

// Transform is an affine map (x,y) -> (xx*x+yx*y+dx, xy*x+yy*y+dy).
//
// The field layout matches matrix.Matrix exactly: [xx, xy, yx, yy, dx, dy].
type Transform matrix.Matrix

// Identity is the identity transform.
var Identity = Transform{1, 0, 0, 1, 0, 0}

// Matrix returns m as a matrix.Matrix, for interop with the geom packages.
func (m Transform) Matrix() matrix.Matrix { return matrix.Matrix(m) }

// IsIdentity reports whether m is exactly the identity transform.
// Callers can use this to skip a transforming pen entirely.
func (m Transform) IsIdentity() bool { return m == Identity }

// Mul returns the transform that applies m first and then n:
// for a point p, m.Mul(n).Apply(p) == n.Apply(m.Apply(p)).
func (m Transform) Mul(n Transform) Transform {
	return Transform(matrix.Matrix(m).Mul(matrix.Matrix(n)))
}

// Translate returns a transform that translates by (dx, dy).
func Translate(dx, dy float64) Transform {
	return Transform{1, 0, 0, 1, dx, dy}
}

// Scale returns a transform that scales by (sx, sy).
func Scale(sx, sy float64) Transform {
	return Transform{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a transform that rotates by theta radians.
func Rotate(theta float64) Transform {
	s, c := math.Sincos(theta)
	return Transform{c, s, -s, c, 0, 0}
}

// Skew returns a transform with the given x- and y-skew angles, in
// radians.
func Skew(skewX, skewY float64) Transform {
	return Transform{1, math.Tan(skewY), math.Tan(skewX), 1, 0, 0}
}

// Apply transforms the point (x, y).
func (m Transform) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Decomposed is the pivot-aware decomposed form of a variable composite
// transform: translation, rotation, independent x/y scale, independent
// x/y skew, and a pivot (center) point.
//
// Composition order, matching VarComponent's transform semantics
// (translate(cx,cy) . skew . rotate . scale . translate(-cx,-cy) .
// translate(tx,ty)):
//
//	T = Translate(tx,ty) . Translate(cx,cy) . Skew . Rotate . Scale . Translate(-cx,-cy)
type Decomposed struct {
	TranslateX float64
	TranslateY float64
	Rotation   float64 // radians
	ScaleX     float64
	ScaleY     float64
	SkewX      float64 // radians
	SkewY      float64 // radians
	CenterX    float64
	CenterY    float64
}

// DefaultDecomposed returns the decomposed identity transform: zero
// translation/rotation/skew/center and unit scale.
func DefaultDecomposed() Decomposed {
	return Decomposed{ScaleX: 1, ScaleY: 1}
}

// ToTransform assembles the composed affine transform from its
// decomposed parts. Application order, first to last:
// translate(-cx,-cy), scale, rotate, skew, translate(cx,cy),
// translate(tx,ty).
func (d Decomposed) ToTransform() Transform {
	t := Translate(-d.CenterX, -d.CenterY)
	t = t.Mul(Scale(d.ScaleX, d.ScaleY))
	t = t.Mul(Rotate(d.Rotation))
	t = t.Mul(Skew(d.SkewX, d.SkewY))
	t = t.Mul(Translate(d.CenterX, d.CenterY))
	t = t.Mul(Translate(d.TranslateX, d.TranslateY))
	return t
}

// Rect is an axis-aligned bounding box, using the lower-left/upper-right
// convention shared with seehuhn.de/go/postscript/funit.Rect16.
type Rect struct {
	LLx, LLy, URx, URy float64
}

// IsZero reports whether r is the zero rectangle.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Extend grows r to also cover the point (x, y). The zero rectangle
// counts as empty: extending it gives the box holding only (x, y).
func (r Rect) Extend(x, y float64) Rect {
	if r.IsZero() {
		return Rect{x, y, x, y}
	}
	if x < r.LLx {
		r.LLx = x
	}
	if y < r.LLy {
		r.LLy = y
	}
	if x > r.URx {
		r.URx = x
	}
	if y > r.URy {
		r.URy = y
	}
	return r
}

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	if r.IsZero() {
		return s
	}
	if s.IsZero() {
		return r
	}
	r = r.Extend(s.LLx, s.LLy)
	r = r.Extend(s.URx, s.URy)
	return r
}

// Transform maps r's four corners through m and returns the bounding box
// of the result.
func (r Rect) Transform(m Transform) Rect {
	if r.IsZero() {
		return r
	}
	var out Rect
	corners := [4][2]float64{
		{r.LLx, r.LLy}, {r.URx, r.LLy}, {r.LLx, r.URy}, {r.URx, r.URy},
	}
	for i, c := range corners {
		x, y := m.Apply(c[0], c[1])
		if i == 0 {
			out = Rect{x, y, x, y}
			continue
		}
		out.LLx = math.Min(out.LLx, x)
		out.LLy = math.Min(out.LLy, y)
		out.URx = math.Max(out.URx, x)
		out.URy = math.Max(out.URy, y)
	}
	return out
}
