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

// Package varc reads and evaluates the "VARC" (Variable Composites)
// table: a per-glyph tree of affine-transformed component references,
// each optionally gated by a condition and optionally perturbed by an
// item variation store, bottoming out in ordinary TrueType/CFF glyph
// outlines.
//
// The component parsing and composition order follows the VARC draft
// specification (https://github.com/harfbuzz/boring-expansion-spec),
// and the evaluation behavior — the coverage-based self-recursion
// guard, the recursion depth/edge budgets, the decycler, and the
// scalar-cache sharing rule — matches HarfBuzz, the format's reference
// implementation.
package varc

import (
	"seehuhn.de/go/sfnt/cond"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/itemvar"
	"seehuhn.de/go/sfnt/leaf"
	"seehuhn.de/go/sfnt/parser"
)

// errInvalidVARC is returned by Parse for a VARC table too short or
// structurally inconsistent to host any component data at all. Once
// Parse succeeds, every later failure mode (truncated record,
// out-of-range index, ...) is silent per this engine group's policy;
// errInvalidVARC is reserved for the ambient table-loading boundary.
var errInvalidVARC = &parser.InvalidFontError{SubSystem: "sfnt/varc", Reason: "invalid VARC table"}

// Table is a parsed "VARC" table.
type Table struct {
	coverage        *coverage
	store           *itemvar.Store
	axisIndicesList [][]uint16
	conditions      []*cond.Expr
	glyphRecords    [][]byte

	// Dispatcher resolves leaf glyph references (components whose glyph
	// ID is not itself covered by this table) to concrete outlines.
	Dispatcher *leaf.Dispatcher

	// MaxDepth and MaxEdges override the recursion guard's default
	// budgets; zero selects the package recur defaults.
	MaxDepth, MaxEdges int
}

// header layout: majorVersion(2) minorVersion(2) coverage(4) varStore(4)
// conditionList(4) axisIndicesList(4) glyphRecords(4) = 24 bytes.
//
// Early drafts of the format had a 20-byte header without the
// conditionList offset; condition-gated components require it, so this
// follows the five-offset layout HarfBuzz evaluates.
const varcHeaderSize = 24

// Parse decodes a "VARC" table from data.
func Parse(data []byte) (*Table, error) {
	if len(data) < varcHeaderSize {
		return nil, errInvalidVARC
	}

	major, rest, _ := readUint16(data)
	_, rest, _ = readUint16(rest)
	if major != 1 {
		return nil, errInvalidVARC
	}

	coverageOff, rest, _ := readUint32(rest)
	varStoreOff, rest, _ := readUint32(rest)
	conditionListOff, rest, _ := readUint32(rest)
	axisIndicesOff, rest, _ := readUint32(rest)
	glyphRecordsOff, _, _ := readUint32(rest)

	t := &Table{}

	if coverageOff != 0 {
		if int(coverageOff) >= len(data) {
			return nil, errInvalidVARC
		}
		cov, ok := parseCoverage(data[coverageOff:])
		if !ok {
			return nil, errInvalidVARC
		}
		t.coverage = cov
	}

	if varStoreOff != 0 {
		if int(varStoreOff) >= len(data) {
			return nil, errInvalidVARC
		}
		store, ok := parseItemVarStore(data[varStoreOff:])
		if !ok {
			return nil, errInvalidVARC
		}
		t.store = store
	}

	if conditionListOff != 0 && int(conditionListOff) < len(data) {
		t.conditions = parseConditionList(data[conditionListOff:])
	}

	if axisIndicesOff != 0 && int(axisIndicesOff) < len(data) {
		t.axisIndicesList = parseTupleList(data[axisIndicesOff:])
	}

	if glyphRecordsOff != 0 {
		if int(glyphRecordsOff) >= len(data) {
			return nil, errInvalidVARC
		}
		t.glyphRecords = parseIndex(data[glyphRecordsOff:])
	}

	return t, nil
}

// parseConditionList parses a list of offsets to Condition tables
// (count uint16, then count uint32 offsets relative to the list start).
func parseConditionList(data []byte) []*cond.Expr {
	count, rest, ok := readUint16(data)
	if !ok {
		return nil
	}
	out := make([]*cond.Expr, count)
	for i := range out {
		off, r, ok := readUint32(rest)
		if !ok {
			return out
		}
		rest = r
		if int(off) < len(data) {
			e, _ := parseCondition(data[off:])
			out[i] = e
		}
	}
	return out
}

// parseTupleList parses a list of axis-index arrays
// (count uint16, then count uint32 offsets relative to the list start;
// each entry is axisCount uint16 followed by axisCount uint16 indices).
func parseTupleList(data []byte) [][]uint16 {
	count, rest, ok := readUint16(data)
	if !ok {
		return nil
	}
	out := make([][]uint16, count)
	for i := range out {
		off, r, ok := readUint32(rest)
		if !ok {
			return out
		}
		rest = r
		if int(off) >= len(data) {
			continue
		}
		entry := data[off:]
		n, entry, ok := readUint16(entry)
		if !ok {
			continue
		}
		axes := make([]uint16, 0, n)
		for j := 0; j < int(n); j++ {
			v, r, ok := readUint16(entry)
			if !ok {
				break
			}
			axes = append(axes, v)
			entry = r
		}
		out[i] = axes
	}
	return out
}

// parseIndex decodes a CFF2Index-style table of variable-width byte
// records: count uint16, offSize uint8, count+1 offSize-byte offsets
// (1-based, relative to the first byte after the offset array), then
// the concatenated record data.
func parseIndex(data []byte) [][]byte {
	count, rest, ok := readUint16(data)
	if !ok || count == 0 {
		return nil
	}
	if len(rest) < 1 {
		return nil
	}
	offSize := int(rest[0])
	rest = rest[1:]
	if offSize < 1 || offSize > 4 {
		return nil
	}

	readOff := func(b []byte) (uint32, bool) {
		if len(b) < offSize {
			return 0, false
		}
		var v uint32
		for i := 0; i < offSize; i++ {
			v = v<<8 | uint32(b[i])
		}
		return v, true
	}

	offsets := make([]uint32, count+1)
	for i := range offsets {
		v, ok := readOff(rest[i*offSize:])
		if !ok {
			return nil
		}
		offsets[i] = v
	}
	dataStart := rest[int(count+1)*offSize:]

	out := make([][]byte, count)
	for i := 0; i < int(count); i++ {
		start, end := offsets[i], offsets[i+1]
		if start == 0 || end < start || int(end-1) > len(dataStart) {
			continue
		}
		out[i] = dataStart[start-1 : end-1]
	}
	return out
}

// glyphID is an opaque identifier used by the recursion guard's
// fixed-size decycler stack; see recur.Guard.Enter.
func glyphID(g glyph.ID) uint32 { return uint32(g) }
