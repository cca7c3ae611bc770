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
	"encoding/binary"
	"math"
	"testing"

	"seehuhn.de/go/sfnt/drawfuncs"
	"seehuhn.de/go/sfnt/glyph"
)

func appendU16(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}

func appendU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendF64(buf []byte, v float64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	return append(buf, tmp[:]...)
}

// buildSquareTable assembles a complete binary "hvgl" table holding one
// part: a unit-square shape mapped to glyph 3, with one axis whose
// positive delta column doubles every on-curve x coordinate.
func buildSquareTable(t *testing.T) []byte {
	master := []float64{
		0, 0, 0, 0,
		1, 0, 0, 0,
		1, 1, 0, 0,
		0, 1, 0, 0,
	}
	// negative column: all zero; positive column: adds the master's
	// on-curve x once more, doubling it at coord +1
	var positive []float64
	for i, v := range master {
		if i%4 == 0 {
			positive = append(positive, v)
		} else {
			positive = append(positive, 0)
		}
	}

	var shape []byte
	shape = append(shape, 0) // kind: shape
	body := []byte{}
	body = appendU16(body, 0) // flags
	body = appendU16(body, 1) // axisCount
	body = appendU16(body, 1) // pathCount
	body = appendU16(body, 4) // segmentCount
	body = appendU16(body, 4) // segments in path 0
	body = append(body, blendCorner, blendCorner, blendCorner, blendCorner)
	for len(body)%8 != 0 {
		body = append(body, 0)
	}
	for _, v := range master {
		body = appendF64(body, v)
	}
	for _, v := range make([]float64, len(master)) { // negative column
		body = appendF64(body, v)
	}
	for _, v := range positive {
		body = appendF64(body, v)
	}
	shape = append(shape, body...)

	var table []byte
	table = appendU16(table, 1) // version
	table = appendU16(table, 1) // partCount
	table = appendU16(table, 1) // glyphCount
	table = appendU16(table, 3) // glyph ID 3 ...
	table = appendU16(table, 0) // ... is part 0
	headerLen := len(table) + 4
	table = appendU32(table, uint32(headerLen))
	table = append(table, shape...)
	return table
}

func TestParseAndEvaluateShape(t *testing.T) {
	tbl, err := Parse(buildSquareTable(t))
	if err != nil {
		t.Fatal(err)
	}

	// at the default location the square is 1x1
	var rec drawfuncs.Recorder
	if !tbl.GetPathAt(glyph.ID(3), []float64{0}, &rec) {
		t.Fatalf("GetPathAt failed")
	}
	if rec.Events[0].Op != drawfuncs.OpMoveTo {
		t.Fatalf("expected a move-to, got %+v", rec.Events)
	}

	maxX := func(events []drawfuncs.Event) float64 {
		m := math.Inf(-1)
		for _, ev := range events {
			for i := 0; i+1 < len(ev.Args); i += 2 {
				if ev.Args[i] > m {
					m = ev.Args[i]
				}
			}
		}
		return m
	}
	if got := maxX(rec.Events); got != 1 {
		t.Errorf("default instance max x = %v, want 1", got)
	}

	// at coord +1 the positive delta column doubles every on-curve x
	rec = drawfuncs.Recorder{}
	if !tbl.GetPathAt(glyph.ID(3), []float64{1}, &rec) {
		t.Fatalf("GetPathAt failed at +1")
	}
	if got := maxX(rec.Events); got != 2 {
		t.Errorf("+1 instance max x = %v, want 2", got)
	}

	// at coord -1 the (all-zero) negative column applies: master shape
	rec = drawfuncs.Recorder{}
	if !tbl.GetPathAt(glyph.ID(3), []float64{-1}, &rec) {
		t.Fatalf("GetPathAt failed at -1")
	}
	if got := maxX(rec.Events); got != 1 {
		t.Errorf("-1 instance max x = %v, want 1", got)
	}
}

func TestPartCompositeTwoSubParts(t *testing.T) {
	leaf := square()
	comp := &partComposite{
		axisCount:  0,
		totalAxes:  0,
		totalParts: 2,
		subParts: []subPart{
			{partIndex: 1, treeAxisIndex: 0, treeTransformIndex: 0},
			{partIndex: 1, treeAxisIndex: 0, treeTransformIndex: 1},
		},
		masterEntries: []masterEntry{
			{row: 0, dx: 100, dy: 0, rotation: 0},
			{row: 1, dx: 0, dy: 50, rotation: 0},
		},
	}
	tbl := &Table{parts: []part{comp, leaf}}

	var rec drawfuncs.Recorder
	if !tbl.getPartPathAt(0, nil, &walkState{sink: &rec}) {
		t.Fatalf("getPartPathAt returned false")
	}

	var moves [][]float64
	for _, ev := range rec.Events {
		if ev.Op == drawfuncs.OpMoveTo {
			moves = append(moves, ev.Args)
		}
	}
	if len(moves) != 2 {
		t.Fatalf("expected two squares, got %d move-tos", len(moves))
	}
	if moves[0][0] != 100 || moves[0][1] != 0 {
		t.Errorf("first sub-part at (%v,%v), want (100,0)", moves[0][0], moves[0][1])
	}
	if moves[1][0] != 0 || moves[1][1] != 50 {
		t.Errorf("second sub-part at (%v,%v), want (0,50)", moves[1][0], moves[1][1])
	}
}

// TestPartCompositeCycleTerminates: a composite that references itself
// must terminate without drawing unbounded geometry.
func TestPartCompositeCycleTerminates(t *testing.T) {
	leaf := square()
	comp := &partComposite{
		totalParts: 2,
		subParts: []subPart{
			{partIndex: 0, treeAxisIndex: 0, treeTransformIndex: 0}, // itself
			{partIndex: 1, treeAxisIndex: 0, treeTransformIndex: 1},
		},
	}
	tbl := &Table{parts: []part{comp, leaf}}

	var rec drawfuncs.Recorder
	if !tbl.getPartPathAt(0, nil, &walkState{sink: &rec}) {
		t.Fatalf("getPartPathAt returned false")
	}
	moveTos := 0
	for _, ev := range rec.Events {
		if ev.Op == drawfuncs.OpMoveTo {
			moveTos++
		}
	}
	if moveTos != 1 {
		t.Errorf("%d contours drawn, want 1 (the non-cyclic sub-part)", moveTos)
	}
}

func TestParseRejectsTruncatedTable(t *testing.T) {
	data := buildSquareTable(t)
	if _, err := Parse(data[:4]); err == nil {
		t.Errorf("expected an error for a truncated header")
	}

	// truncating the shape body must not make Parse fail, the part is
	// simply absent and the glyph unresolvable
	tbl, err := Parse(data[:len(data)-8])
	if err != nil {
		t.Fatal(err)
	}
	var rec drawfuncs.Recorder
	if tbl.GetPathAt(glyph.ID(3), nil, &rec) {
		t.Errorf("expected false for a glyph whose part failed to parse")
	}
}
