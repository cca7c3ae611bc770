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

// Package parser provides a buffered reader for decoding binary font data.
package parser

import (
	"io"
)

// ReadSeekSizer describes the requirements for file to be used with a
// Parser. Both *bytes.Reader and *io.SectionReader implement this
// interface.
type ReadSeekSizer interface {
	io.ReadSeeker
	Size() int64
}

// Parser reads binary data from a font file, in big-endian order.
type Parser struct {
	r ReadSeekSizer

	buf       []byte
	from      int64 // file offset of buf[0]
	pos, used int

	lastRead int64
}

// New allocates a new Parser, which reads from r.
func New(r ReadSeekSizer) *Parser {
	return &Parser{
		r:        r,
		buf:      make([]byte, 1024),
		lastRead: -1,
	}
}

// Size returns the total length of the underlying file.
func (p *Parser) Size() int64 {
	return p.r.Size()
}

// Pos returns the current reading position within the file.
func (p *Parser) Pos() int64 {
	return p.from + int64(p.pos)
}

// SeekPos changes the reading position within the file.
func (p *Parser) SeekPos(filePos int64) error {
	if filePos < 0 || filePos > p.Size() {
		return &InvalidFontError{
			SubSystem: "parser",
			Reason:    "seek position outside file",
		}
	}
	if filePos >= p.from && filePos <= p.from+int64(p.used) {
		p.pos = int(filePos - p.from)
		return nil
	}
	_, err := p.r.Seek(filePos, io.SeekStart)
	if err != nil {
		return err
	}
	p.from = filePos
	p.pos = 0
	p.used = 0
	p.lastRead = filePos
	return nil
}

// Read implements the io.Reader interface. This also advances the
// current reading position.
func (p *Parser) Read(buf []byte) (int, error) {
	if p.pos < p.used {
		n := copy(buf, p.buf[p.pos:p.used])
		p.pos += n
		return n, nil
	}

	err := p.syncFilePos()
	if err != nil {
		return 0, err
	}
	n, err := p.r.Read(buf)
	p.from += int64(p.used) + int64(n)
	p.lastRead = p.from
	p.pos = 0
	p.used = 0
	return n, err
}

// ReadBytes reads n bytes from the file, starting at the current
// position. The returned slice points into the internal buffer of the
// Parser and is only valid until the next read.
func (p *Parser) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, &InvalidFontError{
			SubSystem: "parser",
			Reason:    "negative read length",
		}
	}
	if n > len(p.buf) {
		// large reads bypass the buffer
		res := make([]byte, n)
		_, err := io.ReadFull(p, res)
		return res, err
	}

	err := p.ensure(n)
	if err != nil {
		return nil, err
	}
	res := p.buf[p.pos : p.pos+n]
	p.pos += n
	return res, nil
}

// ReadUint8 reads a single uint8 value from the current position.
func (p *Parser) ReadUint8() (uint8, error) {
	err := p.ensure(1)
	if err != nil {
		return 0, err
	}
	res := p.buf[p.pos]
	p.pos++
	return res, nil
}

// ReadUint16 reads a single uint16 value from the current position.
func (p *Parser) ReadUint16() (uint16, error) {
	err := p.ensure(2)
	if err != nil {
		return 0, err
	}
	res := uint16(p.buf[p.pos])<<8 | uint16(p.buf[p.pos+1])
	p.pos += 2
	return res, nil
}

// ReadUint32 reads a single uint32 value from the current position.
func (p *Parser) ReadUint32() (uint32, error) {
	err := p.ensure(4)
	if err != nil {
		return 0, err
	}
	res := uint32(p.buf[p.pos])<<24 |
		uint32(p.buf[p.pos+1])<<16 |
		uint32(p.buf[p.pos+2])<<8 |
		uint32(p.buf[p.pos+3])
	p.pos += 4
	return res, nil
}

// ReadInt16 reads a single int16 value from the current position.
func (p *Parser) ReadInt16() (int16, error) {
	val, err := p.ReadUint16()
	return int16(val), err
}

// ReadUint16Slice reads a length followed by a sequence of uint16
// values from the current position.
func (p *Parser) ReadUint16Slice() ([]uint16, error) {
	n, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	res := make([]uint16, n)
	for i := range res {
		res[i], err = p.ReadUint16()
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ensure makes sure that at least n more bytes are available in the
// buffer.  n must not exceed the buffer size.
func (p *Parser) ensure(n int) error {
	for p.used-p.pos < n {
		if p.pos > 0 {
			copy(p.buf, p.buf[p.pos:p.used])
			p.from += int64(p.pos)
			p.used -= p.pos
			p.pos = 0
		}
		err := p.syncFilePos()
		if err != nil {
			return err
		}
		k, err := p.r.Read(p.buf[p.used:])
		if k == 0 && err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		p.used += k
		p.lastRead = p.from + int64(p.used)
	}
	return nil
}

// syncFilePos makes sure the underlying reader's position matches the
// end of the buffered data, after an external SeekPos or a large Read
// may have moved it.
func (p *Parser) syncFilePos() error {
	want := p.from + int64(p.used)
	if p.lastRead == want {
		return nil
	}
	_, err := p.r.Seek(want, io.SeekStart)
	if err != nil {
		return err
	}
	p.lastRead = want
	return nil
}
