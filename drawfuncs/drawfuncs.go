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

// Package drawfuncs defines the draw-event capability record used by the
// variable composite glyph engines, and a transforming pen adapter that
// applies an affine.Transform to every point before forwarding it.
//
// Sink is a push-model interface rather than a pull iterator: the engines
// call into the sink as they walk a component tree, and a single call may
// fan out into an unbounded number of leaf glyphs, so there is no single
// point at which "the whole path" exists to be iterated. Capability
// records are constructed fresh for each top-level call; there is no
// package-level singleton draw-function table to guard with once.Once or
// an atexit hook.
package drawfuncs

import "seehuhn.de/go/sfnt/affine"

// Sink receives the events of an outline as it is traced.
//
// Calls to a Sink always form one or more well-formed closed or open
// contours: a Sink implementation may assume that LineTo/QuadTo/CubicTo
// are only called after a MoveTo, and that ClosePath ends the contour
// most recently begun with MoveTo.
type Sink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(ctrlX, ctrlY, x, y float64)
	CubicTo(ctrl1X, ctrl1Y, ctrl2X, ctrl2Y, x, y float64)
	ClosePath()
}

// TransformingPen wraps a Sink and an affine.Transform, applying the
// transform to every coordinate before forwarding the call to the
// wrapped Sink.
type TransformingPen struct {
	Sink      Sink
	Transform affine.Transform
}

// NewTransformingPen returns a TransformingPen forwarding transformed
// events to sink.
func NewTransformingPen(sink Sink, t affine.Transform) *TransformingPen {
	return &TransformingPen{Sink: sink, Transform: t}
}

func (p *TransformingPen) MoveTo(x, y float64) {
	x, y = p.Transform.Apply(x, y)
	p.Sink.MoveTo(x, y)
}

func (p *TransformingPen) LineTo(x, y float64) {
	x, y = p.Transform.Apply(x, y)
	p.Sink.LineTo(x, y)
}

func (p *TransformingPen) QuadTo(ctrlX, ctrlY, x, y float64) {
	ctrlX, ctrlY = p.Transform.Apply(ctrlX, ctrlY)
	x, y = p.Transform.Apply(x, y)
	p.Sink.QuadTo(ctrlX, ctrlY, x, y)
}

func (p *TransformingPen) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	c1x, c1y = p.Transform.Apply(c1x, c1y)
	c2x, c2y = p.Transform.Apply(c2x, c2y)
	x, y = p.Transform.Apply(x, y)
	p.Sink.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

func (p *TransformingPen) ClosePath() {
	p.Sink.ClosePath()
}

// Recorder is a Sink that stores every event it receives, verbatim. It is
// primarily useful in tests, where a recorded trace can be compared
// against an expected sequence with go-cmp.
type Recorder struct {
	Events []Event
}

// Event is one recorded draw call.
type Event struct {
	Op   Op
	Args []float64
}

// Op identifies which Sink method produced an Event.
type Op int

const (
	OpMoveTo Op = iota
	OpLineTo
	OpQuadTo
	OpCubicTo
	OpClosePath
)

func (r *Recorder) MoveTo(x, y float64) {
	r.Events = append(r.Events, Event{OpMoveTo, []float64{x, y}})
}

func (r *Recorder) LineTo(x, y float64) {
	r.Events = append(r.Events, Event{OpLineTo, []float64{x, y}})
}

func (r *Recorder) QuadTo(ctrlX, ctrlY, x, y float64) {
	r.Events = append(r.Events, Event{OpQuadTo, []float64{ctrlX, ctrlY, x, y}})
}

func (r *Recorder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.Events = append(r.Events, Event{OpCubicTo, []float64{c1x, c1y, c2x, c2y, x, y}})
}

func (r *Recorder) ClosePath() {
	r.Events = append(r.Events, Event{OpClosePath, nil})
}

// ExtentsSink is a Sink that only tracks the bounding box of the
// points it sees. Bezier control points count: the box bounds the
// control polygon, not the tight curve extremum.
type ExtentsSink struct {
	Rect    affine.Rect
	started bool
}

func (e *ExtentsSink) add(x, y float64) {
	if !e.started {
		e.Rect = affine.Rect{LLx: x, LLy: y, URx: x, URy: y}
		e.started = true
		return
	}
	if x < e.Rect.LLx {
		e.Rect.LLx = x
	}
	if y < e.Rect.LLy {
		e.Rect.LLy = y
	}
	if x > e.Rect.URx {
		e.Rect.URx = x
	}
	if y > e.Rect.URy {
		e.Rect.URy = y
	}
}

func (e *ExtentsSink) MoveTo(x, y float64) { e.add(x, y) }
func (e *ExtentsSink) LineTo(x, y float64) { e.add(x, y) }
func (e *ExtentsSink) QuadTo(ctrlX, ctrlY, x, y float64) {
	e.add(ctrlX, ctrlY)
	e.add(x, y)
}
func (e *ExtentsSink) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	e.add(c1x, c1y)
	e.add(c2x, c2y)
	e.add(x, y)
}
func (e *ExtentsSink) ClosePath() {}
