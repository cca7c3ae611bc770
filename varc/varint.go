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

package varc

// readVarUint32 reads one VARC-style variable-length unsigned integer
// from the front of buf: a value below 0x80 is stored in a single byte;
// a value below 0x4000 is stored in two bytes with the top two bits of
// the first byte set to 0b10; anything else is stored in four bytes
// with the top two bits set to 0b11. This encoding is used throughout
// VARC component records for flags, glyph indices, axis-indices-list
// indices, and variation indices.
//
// It returns ok=false, leaving buf untouched conceptually, when there
// are not enough bytes left to read the value the leading byte
// promises — the caller's response is always to stop parsing the
// current record, never to panic.
func readVarUint32(buf []byte) (value uint32, rest []byte, ok bool) {
	if len(buf) < 1 {
		return 0, buf, false
	}
	lead := buf[0]
	switch {
	case lead&0x80 == 0:
		return uint32(lead), buf[1:], true
	case lead&0xC0 == 0x80:
		if len(buf) < 2 {
			return 0, buf, false
		}
		v := uint32(lead&0x3F)<<8 | uint32(buf[1])
		return v, buf[2:], true
	default:
		if len(buf) < 4 {
			return 0, buf, false
		}
		v := uint32(lead&0x3F)<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
		return v, buf[4:], true
	}
}

func readUint16(buf []byte) (value uint16, rest []byte, ok bool) {
	if len(buf) < 2 {
		return 0, buf, false
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), buf[2:], true
}

func readUint24(buf []byte) (value uint32, rest []byte, ok bool) {
	if len(buf) < 3 {
		return 0, buf, false
	}
	return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2]), buf[3:], true
}

func readInt16(buf []byte) (value int16, rest []byte, ok bool) {
	v, r, ok := readUint16(buf)
	return int16(v), r, ok
}

func readUint32(buf []byte) (value uint32, rest []byte, ok bool) {
	if len(buf) < 4 {
		return 0, buf, false
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), buf[4:], true
}
