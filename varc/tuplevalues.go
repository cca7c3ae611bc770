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

// decodeTupleValues decodes a run-length packed TupleValues array of n
// signed integers, the same control-byte run-length scheme used for
// packed point numbers and deltas elsewhere in the variable-font
// format family: each run starts with one control byte
// whose top two bits select the run's value width (a 0x80 bit marks an
// all-zero run that needs no value bytes; a 0x40 bit selects 16-bit
// values over 8-bit) and whose low 6 bits give (run length - 1).
//
// It stops and returns ok=false, with whatever values were decoded so
// far in values, the moment the input is too short to
// satisfy the run it just started — the truncated-record failure mode
// named throughout this engine group, never a panic.
func decodeTupleValues(buf []byte, n int) (values []int32, rest []byte, ok bool) {
	values = make([]int32, 0, n)
	for len(values) < n {
		if len(buf) < 1 {
			return values, buf, false
		}
		control := buf[0]
		buf = buf[1:]

		runLen := int(control&0x3F) + 1
		if len(values)+runLen > n {
			runLen = n - len(values)
		}

		isZero := control&0x80 != 0
		isWord := control&0x40 != 0

		if isZero {
			for i := 0; i < runLen; i++ {
				values = append(values, 0)
			}
			continue
		}

		for i := 0; i < runLen; i++ {
			if isWord {
				v, r, k := readInt16(buf)
				if !k {
					return values, buf, false
				}
				values = append(values, int32(v))
				buf = r
			} else {
				if len(buf) < 1 {
					return values, buf, false
				}
				v := int8(buf[0])
				values = append(values, int32(v))
				buf = buf[1:]
			}
		}
	}
	return values, buf, true
}
