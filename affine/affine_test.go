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

package affine

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestIdentity(t *testing.T) {
	m := Translate(3, 4).Mul(Rotate(math.Pi / 3)).Mul(Scale(2, 5))

	left := Identity.Mul(m)
	right := m.Mul(Identity)

	for _, p := range [][2]float64{{0, 0}, {1, 0}, {-2, 7}} {
		x0, y0 := m.Apply(p[0], p[1])
		x1, y1 := left.Apply(p[0], p[1])
		x2, y2 := right.Apply(p[0], p[1])
		if math.Abs(x1-x0) > 1e-12 || math.Abs(y1-y0) > 1e-12 {
			t.Errorf("identity is not a left identity at %v", p)
		}
		if math.Abs(x2-x0) > 1e-12 || math.Abs(y2-y0) > 1e-12 {
			t.Errorf("identity is not a right identity at %v", p)
		}
	}
}

func TestIsIdentity(t *testing.T) {
	if !Identity.IsIdentity() {
		t.Errorf("Identity.IsIdentity() = false")
	}
	if Translate(1, 0).IsIdentity() {
		t.Errorf("a translation must not be the identity")
	}
	if !Translate(0, 0).IsIdentity() {
		t.Errorf("a zero translation is the identity")
	}
}

func TestMulAssociative(t *testing.T) {
	a := Translate(1, 2)
	b := Rotate(0.7)
	c := Scale(3, -2)

	m1 := a.Mul(b).Mul(c)
	m2 := a.Mul(b.Mul(c))

	for _, p := range [][2]float64{{0, 0}, {5, -3}, {0.25, 100}} {
		x1, y1 := m1.Apply(p[0], p[1])
		x2, y2 := m2.Apply(p[0], p[1])
		if math.Abs(x1-x2) > 1e-9 || math.Abs(y1-y2) > 1e-9 {
			t.Errorf("composition is not associative at %v: (%v,%v) vs (%v,%v)",
				p, x1, y1, x2, y2)
		}
	}
}

func TestMulOrder(t *testing.T) {
	// m.Mul(n) applies m first: scaling then translating must move the
	// scaled point, not scale the translation.
	m := Scale(2, 2).Mul(Translate(10, 0))
	x, y := m.Apply(1, 1)
	if x != 12 || y != 2 {
		t.Errorf("Scale.Mul(Translate) applied in wrong order: got (%v,%v)", x, y)
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	m := Rotate(math.Pi / 2)
	x, y := m.Apply(100, 0)
	if math.Abs(x) > 1e-9 || math.Abs(y-100) > 1e-9 {
		t.Errorf("quarter turn of (100,0): got (%v,%v), want (0,100)", x, y)
	}
}

func TestDecomposedPivot(t *testing.T) {
	// a rotation about a pivot must keep the pivot fixed
	d := Decomposed{
		Rotation: math.Pi / 3,
		ScaleX:   1,
		ScaleY:   1,
		CenterX:  7,
		CenterY:  -2,
	}
	m := d.ToTransform()
	x, y := m.Apply(7, -2)
	if math.Abs(x-7) > 1e-9 || math.Abs(y+2) > 1e-9 {
		t.Errorf("pivot moved: got (%v,%v), want (7,-2)", x, y)
	}
}

func TestDecomposedTranslationAfterPivot(t *testing.T) {
	d := DefaultDecomposed()
	d.TranslateX = 5
	d.TranslateY = -3
	m := d.ToTransform()
	x, y := m.Apply(1, 1)
	if x != 6 || y != -2 {
		t.Errorf("translation: got (%v,%v), want (6,-2)", x, y)
	}
}

func TestDefaultDecomposedIsIdentity(t *testing.T) {
	m := DefaultDecomposed().ToTransform()
	if diff := cmp.Diff(Identity, m, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("default decomposed is not the identity (-want +got):\n%s", diff)
	}
}

func TestRectTransformCoversCorners(t *testing.T) {
	r := Rect{LLx: -1, LLy: 2, URx: 5, URy: 6}
	m := Rotate(0.3).Mul(Translate(2, 1))

	out := r.Transform(m)
	corners := [4][2]float64{
		{r.LLx, r.LLy}, {r.URx, r.LLy}, {r.LLx, r.URy}, {r.URx, r.URy},
	}
	for _, c := range corners {
		x, y := m.Apply(c[0], c[1])
		if x < out.LLx-1e-9 || x > out.URx+1e-9 || y < out.LLy-1e-9 || y > out.URy+1e-9 {
			t.Errorf("corner %v maps to (%v,%v), outside %+v", c, x, y, out)
		}
	}
}

func TestRectTransformAxisAligned(t *testing.T) {
	r := Rect{LLx: 0, LLy: 0, URx: 10, URy: 20}
	m := Translate(5, -5)
	want := Rect{LLx: 5, LLy: -5, URx: 15, URy: 15}
	if diff := cmp.Diff(want, r.Transform(m)); diff != "" {
		t.Errorf("axis-aligned transform (-want +got):\n%s", diff)
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{LLx: 0, LLy: 0, URx: 1, URy: 1}
	b := Rect{LLx: 2, LLy: -1, URx: 3, URy: 0.5}
	want := Rect{LLx: 0, LLy: -1, URx: 3, URy: 1}
	if diff := cmp.Diff(want, a.Union(b)); diff != "" {
		t.Errorf("union (-want +got):\n%s", diff)
	}

	var zero Rect
	if a.Union(zero) != a || zero.Union(a) != a {
		t.Errorf("union with the zero rectangle must be a no-op")
	}
}
