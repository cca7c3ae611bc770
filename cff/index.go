// seehuhn.de/go/sfnt - a library for reading and writing font files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
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

package cff

import (
	"seehuhn.de/go/sfnt/parser"
)

// cffIndex is the in-memory representation of a CFF INDEX structure:
// a sequence of variable-length byte strings.
type cffIndex [][]byte

// readIndex reads an INDEX from the current position of p.
func readIndex(p *parser.Parser) (cffIndex, error) {
	count, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	offSize, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}
	if offSize < 1 || offSize > 4 {
		return nil, invalidSince("invalid INDEX offset size")
	}

	offsets := make([]uint32, int(count)+1)
	prev := uint32(0)
	for i := range offsets {
		blob, err := p.ReadBytes(int(offSize))
		if err != nil {
			return nil, err
		}
		var x uint32
		for _, b := range blob {
			x = x<<8 | uint32(b)
		}
		if x < prev || (i == 0 && x != 1) {
			return nil, invalidSince("invalid INDEX offset")
		}
		offsets[i] = x
		prev = x
	}

	end := offsets[count]
	if int64(end-1) > p.Size()-p.Pos() {
		return nil, invalidSince("INDEX extends beyond EOF")
	}
	body, err := p.ReadBytes(int(end - 1))
	if err != nil {
		return nil, err
	}

	res := make(cffIndex, count)
	for i := range res {
		res[i] = body[offsets[i]-1 : offsets[i+1]-1]
	}
	return res, nil
}

// encode returns the binary form of the INDEX, using the smallest
// possible offset size.
func (idx cffIndex) encode() []byte {
	bodyLength := 0
	for _, blob := range idx {
		bodyLength += len(blob)
	}

	var offSize int
	end := bodyLength + 1
	switch {
	case end < 1<<8:
		offSize = 1
	case end < 1<<16:
		offSize = 2
	case end < 1<<24:
		offSize = 3
	default:
		offSize = 4
	}

	count := len(idx)
	if count == 0 {
		return []byte{0, 0}
	}

	res := make([]byte, 0, 3+(count+1)*offSize+bodyLength)
	res = append(res, byte(count>>8), byte(count), byte(offSize))
	pos := uint32(1)
	for i := 0; i <= count; i++ {
		switch offSize {
		case 1:
			res = append(res, byte(pos))
		case 2:
			res = append(res, byte(pos>>8), byte(pos))
		case 3:
			res = append(res, byte(pos>>16), byte(pos>>8), byte(pos))
		default:
			res = append(res, byte(pos>>24), byte(pos>>16), byte(pos>>8), byte(pos))
		}
		if i < count {
			pos += uint32(len(idx[i]))
		}
	}
	for _, blob := range idx {
		res = append(res, blob...)
	}
	return res
}
