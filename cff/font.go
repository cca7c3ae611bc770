// seehuhn.de/go/sfnt - a library for reading and writing font files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
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

// Package cff implements the in-memory model of CFF font outlines.
// https://adobe-type-tools.github.io/font-tech-notes/pdfs/5176.CFF.pdf
package cff

import (
	"seehuhn.de/go/postscript/type1"

	"seehuhn.de/go/sfnt/parser"
)

// Font stores a CFF font.
type Font struct {
	*type1.FontInfo
	*Outlines
}

func invalidSince(reason string) error {
	return &parser.InvalidFontError{
		SubSystem: "sfnt/cff",
		Reason:    reason,
	}
}

func unsupported(feature string) error {
	return &parser.NotSupportedError{
		SubSystem: "sfnt/cff",
		Feature:   feature,
	}
}
