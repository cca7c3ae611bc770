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
	"image"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/sfnt/affine"
	"seehuhn.de/go/sfnt/glyf"
)

// rasterSink adapts a vector.Rasterizer to the drawfuncs.Sink interface,
// so that a provider's draw trace can be rendered end to end.
type rasterSink struct {
	r *vector.Rasterizer
}

func (s *rasterSink) MoveTo(x, y float64) { s.r.MoveTo(float32(x), float32(y)) }
func (s *rasterSink) LineTo(x, y float64) { s.r.LineTo(float32(x), float32(y)) }
func (s *rasterSink) QuadTo(cx, cy, x, y float64) {
	s.r.QuadTo(float32(cx), float32(cy), float32(x), float32(y))
}
func (s *rasterSink) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.r.CubeTo(float32(c1x), float32(c1y), float32(c2x), float32(c2y), float32(x), float32(y))
}
func (s *rasterSink) ClosePath() { s.r.ClosePath() }

// TestRasterizeTriangle renders a leaf glyph's draw trace into an alpha
// mask and checks that the interior is covered and the exterior is not.
func TestRasterizeTriangle(t *testing.T) {
	p := &GlyfProvider{Glyphs: []glyf.SimpleGlyph{triangleGlyf()}}

	const size = 32
	rast := vector.NewRasterizer(size, size)
	sink := &rasterSink{r: rast}

	// scale the 100-unit triangle down into the raster and flip y, the
	// raster's y axis grows downwards
	trfm := affine.Scale(0.25, -0.25).Mul(affine.Translate(2, size-2))
	if !p.DrawGlyph(0, trfm, sink) {
		t.Fatalf("DrawGlyph failed")
	}

	dst := image.NewAlpha(image.Rect(0, 0, size, size))
	rast.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	// a point near the triangle's right-angle corner, well inside
	if dst.AlphaAt(5, size-5).A == 0 {
		t.Errorf("interior pixel not covered")
	}
	// the opposite corner of the raster, well outside
	if dst.AlphaAt(size-2, 2).A != 0 {
		t.Errorf("exterior pixel covered")
	}
}
