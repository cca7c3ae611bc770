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

// componentFlags is the bit set at the front of every VarComponent
// record.
type componentFlags uint32

const (
	flagResetUnspecifiedAxes    componentFlags = 1 << 0
	flagHaveAxes                componentFlags = 1 << 1
	flagAxisValuesHaveVariation componentFlags = 1 << 2
	flagTransformHasVariation   componentFlags = 1 << 3
	flagHaveTranslateX          componentFlags = 1 << 4
	flagHaveTranslateY          componentFlags = 1 << 5
	flagHaveRotation            componentFlags = 1 << 6
	flagUseMyMetrics            componentFlags = 1 << 7
	flagHaveScaleX              componentFlags = 1 << 8
	flagHaveScaleY              componentFlags = 1 << 9
	flagHaveTCenterX            componentFlags = 1 << 10
	flagHaveTCenterY            componentFlags = 1 << 11
	flagGIDIs24Bit              componentFlags = 1 << 12
	flagHaveSkewX               componentFlags = 1 << 13
	flagHaveSkewY               componentFlags = 1 << 14

	// flagHaveCondition gates the per-component conditionIndex field.
	// Early format drafts left this bit reserved; it is read before the
	// axes block, matching HarfBuzz's evaluation order.
	flagHaveCondition componentFlags = 1 << 15

	flagReservedMask componentFlags = ^componentFlags(1<<16 - 1)
)

// maxComponentAxes bounds how many axes a component's coordinate
// rebuild and axis overrides will address; overrides naming an axis
// beyond this are ignored.
const maxComponentAxes = 64
