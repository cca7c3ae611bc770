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

package glyf

import (
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/sfnt/parser"
)

// Glyph represents a single glyph in the "glyf" table.  The Data field
// is either a SimpleGlyph or a CompositeGlyph; for empty glyphs the
// whole *Glyph is nil.
type Glyph struct {
	funit.Rect16 // the glyph's bounding box as stored in the font
	Data         interface{}
}

// decodeGlyph decodes the glyph data between two "loca" offsets.  An
// empty byte range describes a glyph without an outline and decodes to
// a nil *Glyph.
func decodeGlyph(data []byte) (*Glyph, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 10 {
		return nil, errIncompleteGlyph
	}

	numContours := int16(data[0])<<8 | int16(data[1])
	bbox := funit.Rect16{
		LLx: funit.Int16(data[2])<<8 | funit.Int16(data[3]),
		LLy: funit.Int16(data[4])<<8 | funit.Int16(data[5]),
		URx: funit.Int16(data[6])<<8 | funit.Int16(data[7]),
		URy: funit.Int16(data[8])<<8 | funit.Int16(data[9]),
	}

	g := &Glyph{Rect16: bbox}
	if numContours >= 0 {
		sg := SimpleGlyph{
			NumContours: numContours,
			Encoded:     data[10:],
		}
		// Strip trailing padding, so that decode/encode round-trips are
		// stable.
		err := (&sg).removePadding()
		if err != nil {
			return nil, err
		}
		g.Data = sg
	} else {
		comp, err := decodeGlyphComposite(data[10:])
		if err != nil {
			return nil, err
		}
		g.Data = *comp
	}
	return g, nil
}

// encodeLen returns the number of bytes g occupies in the "glyf" table,
// including the padding needed to start the next glyph at an even
// offset.
func (g *Glyph) encodeLen() int {
	if g == nil {
		return 0
	}

	l := 10
	switch d := g.Data.(type) {
	case SimpleGlyph:
		l += len(d.Encoded)
	case CompositeGlyph:
		l += d.encodeLen()
	}
	return (l + 1) &^ 1
}

// append appends the binary form of g to buf.
func (g *Glyph) append(buf []byte) []byte {
	if g == nil {
		return buf
	}

	var numContours int16
	switch d := g.Data.(type) {
	case SimpleGlyph:
		numContours = d.NumContours
	case CompositeGlyph:
		numContours = -1
	}

	buf = append(buf,
		byte(numContours>>8), byte(numContours),
		byte(g.LLx>>8), byte(g.LLx),
		byte(g.LLy>>8), byte(g.LLy),
		byte(g.URx>>8), byte(g.URx),
		byte(g.URy>>8), byte(g.URy))

	switch d := g.Data.(type) {
	case SimpleGlyph:
		buf = append(buf, d.Encoded...)
	case CompositeGlyph:
		buf = d.append(buf)
	}

	if len(buf)%2 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// encodeLen returns the unpadded length of the composite glyph
// description, not including the 10-byte glyph header.
func (g CompositeGlyph) encodeLen() int {
	l := 0
	haveInstructions := len(g.Instructions) > 0
	for _, comp := range g.Components {
		l += 4 + len(comp.Data)
		if comp.Flags&FlagWeHaveInstructions != 0 {
			haveInstructions = true
		}
	}
	if haveInstructions {
		l += 2 + len(g.Instructions)
	}
	return l
}

// append appends the binary form of the composite glyph description.
// The MORE_COMPONENTS flag is forced to be consistent with the
// component count, and WE_HAVE_INSTRUCTIONS is set when instructions
// are present but no component carries the flag yet.
func (g CompositeGlyph) append(buf []byte) []byte {
	haveInstructions := len(g.Instructions) > 0
	for _, comp := range g.Components {
		if comp.Flags&FlagWeHaveInstructions != 0 {
			haveInstructions = true
		}
	}

	flagSeen := false
	for i, comp := range g.Components {
		flags := comp.Flags &^ FlagMoreComponents
		if i < len(g.Components)-1 {
			flags |= FlagMoreComponents
		}
		if haveInstructions && !flagSeen &&
			(comp.Flags&FlagWeHaveInstructions != 0 || i == len(g.Components)-1) {
			flags |= FlagWeHaveInstructions
			flagSeen = true
		}
		buf = append(buf,
			byte(flags>>8), byte(flags),
			byte(comp.GlyphIndex>>8), byte(comp.GlyphIndex))
		buf = append(buf, comp.Data...)
	}

	if haveInstructions {
		L := len(g.Instructions)
		buf = append(buf, byte(L>>8), byte(L))
		buf = append(buf, g.Instructions...)
	}
	return buf
}

// decodeLoca decodes the glyph offsets from the "loca" table.
func decodeLoca(enc *Encoded) ([]int, error) {
	var offs []int
	switch enc.LocaFormat {
	case 0:
		if len(enc.LocaData) < 2 || len(enc.LocaData)%2 != 0 {
			return nil, errInvalidLoca
		}
		offs = make([]int, len(enc.LocaData)/2)
		for i := range offs {
			offs[i] = 2 * (int(enc.LocaData[2*i])<<8 | int(enc.LocaData[2*i+1]))
		}
	case 1:
		if len(enc.LocaData) < 4 || len(enc.LocaData)%4 != 0 {
			return nil, errInvalidLoca
		}
		offs = make([]int, len(enc.LocaData)/4)
		for i := range offs {
			offs[i] = int(enc.LocaData[4*i])<<24 |
				int(enc.LocaData[4*i+1])<<16 |
				int(enc.LocaData[4*i+2])<<8 |
				int(enc.LocaData[4*i+3])
		}
	default:
		return nil, errInvalidLoca
	}

	prev := 0
	for _, off := range offs {
		if off < prev || off > len(enc.GlyfData) {
			return nil, errInvalidLoca
		}
		prev = off
	}
	return offs, nil
}

// encodeLoca encodes the glyph offsets, choosing the short format when
// all offsets fit.
func encodeLoca(offs []int) ([]byte, int16) {
	last := offs[len(offs)-1]

	useShort := last/2 <= 0xFFFF
	for _, off := range offs {
		if off%2 != 0 {
			useShort = false
			break
		}
	}

	if useShort {
		buf := make([]byte, 2*len(offs))
		for i, off := range offs {
			x := off / 2
			buf[2*i] = byte(x >> 8)
			buf[2*i+1] = byte(x)
		}
		return buf, 0
	}

	buf := make([]byte, 4*len(offs))
	for i, off := range offs {
		buf[4*i] = byte(off >> 24)
		buf[4*i+1] = byte(off >> 16)
		buf[4*i+2] = byte(off >> 8)
		buf[4*i+3] = byte(off)
	}
	return buf, 1
}

var errInvalidLoca = &parser.InvalidFontError{
	SubSystem: "sfnt/glyf",
	Reason:    "invalid loca table",
}
