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
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/sfnt/glyph"
)

var emptyPath path.Path = func(yield func(path.Command, []vec.Vec2) bool) {}

// Path returns the outline of the given glyph as a path.Path iterator.
// Composite glyphs are expanded recursively; a component which would
// re-enter a glyph already on the current expansion path is skipped, so
// that fonts with cyclic component references still produce a finite
// path.
func (gg Glyphs) Path(gid glyph.ID) path.Path {
	return gg.glyphPath(gid, matrix.Matrix{1, 0, 0, 1, 0, 0}, nil)
}

func (gg Glyphs) glyphPath(gid glyph.ID, M matrix.Matrix, seen []glyph.ID) path.Path {
	if int(gid) >= len(gg) || gg[gid] == nil {
		return emptyPath
	}
	for _, s := range seen {
		if s == gid {
			return emptyPath
		}
	}

	switch d := gg[gid].Data.(type) {
	case SimpleGlyph:
		return d.Path().Transform([6]float64(M))
	case CompositeGlyph:
		seen = append(seen, gid)
		return func(yield func(path.Command, []vec.Vec2) bool) {
			for _, comp := range d.Components {
				cu, err := comp.Unpack()
				if err != nil {
					continue
				}

				trfm := cu.Trfm
				if cu.ScaledComponentOffset {
					dx, dy := trfm[4], trfm[5]
					trfm[4] = trfm[0]*dx + trfm[2]*dy
					trfm[5] = trfm[1]*dx + trfm[3]*dy
				}

				sub := gg.glyphPath(cu.Child, trfm.Mul(M), seen)
				stopped := false
				sub(func(cmd path.Command, pts []vec.Vec2) bool {
					if !yield(cmd, pts) {
						stopped = true
						return false
					}
					return true
				})
				if stopped {
					return
				}
			}
		}
	default:
		return emptyPath
	}
}
