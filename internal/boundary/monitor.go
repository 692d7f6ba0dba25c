/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package boundary decides whether a widget being dragged has left the canvas
// far enough to be deleted on release, and where to draw the delete marker.
package boundary

import (
	"widgetboard/internal/domain"
)

// DefaultAssumedHeight is used for every widget type; rendered height is not measured.
const DefaultAssumedHeight = 200.0

// DefaultOvershoot is the share of a box that may hang past an edge before the
// widget counts as out. A textbox dragged 1px off survives; one whose side is
// 50px past an 800px canvas does not.
const DefaultOvershoot = 0.1

// Edge names the canvas side a widget crossed.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Sizer reports the preferred rendered width of a widget type.
type Sizer interface {
	Width(t domain.WidgetType) float64
}

// Verdict is the outcome of one evaluation.
//
// Along is the indicator position on the crossed edge in canvas-local
// pixels: a y coordinate for left/right, an x coordinate for top/bottom,
// clamped to the canvas extent.
type Verdict struct {
	Out   bool
	Edge  Edge
	Along float64
	Box   domain.Rect // projected box, canvas-local
}

// Monitor evaluates projected widget boxes against the canvas bounds.
//
// Overshoot is the fraction of the box extent that must lie beyond an edge
// before the widget counts as out. 0 means any part of the box has crossed
// that edge; 0.5 means the box centre has.
type Monitor struct {
	sizer     Sizer
	height    float64
	overshoot float64
}

// New returns a monitor. height <= 0 uses DefaultAssumedHeight; overshoot is
// clamped to [0, 1].
func New(s Sizer, height, overshoot float64) *Monitor {
	if height <= 0 {
		height = DefaultAssumedHeight
	}
	return &Monitor{sizer: s, height: height, overshoot: domain.Clamp(overshoot, 0, 1)}
}

// AssumedHeight returns the fixed height used for all boxes.
func (m *Monitor) AssumedHeight() float64 { return m.height }

// Box returns w's box at its committed position moved by delta.
func (m *Monitor) Box(w domain.Widget, delta domain.Point) domain.Rect {
	width := 0.0
	if m.sizer != nil {
		width = m.sizer.Width(w.Type)
	}
	p := w.Position.Add(delta)
	return domain.R(p.X, p.Y, width, m.height)
}

// Evaluate projects w by delta and tests it against a canvas of the given
// size. Edges are checked left, right, top, bottom; the first hit wins.
// A canvas with no area never reports Out.
func (m *Monitor) Evaluate(w domain.Widget, delta domain.Point, canvas domain.Size) Verdict {
	box := m.Box(w, delta)
	v := Verdict{Box: box}
	if canvas.W <= 0 || canvas.H <= 0 {
		return v
	}
	c := box.Center()
	ox, oy := box.W*m.overshoot, box.H*m.overshoot

	switch {
	case box.X+ox < 0:
		v.Edge = EdgeLeft
	case box.X+box.W-ox > canvas.W:
		v.Edge = EdgeRight
	case box.Y+oy < 0:
		v.Edge = EdgeTop
	case box.Y+box.H-oy > canvas.H:
		v.Edge = EdgeBottom
	default:
		return v
	}
	v.Out = true
	if v.Edge == EdgeLeft || v.Edge == EdgeRight {
		v.Along = domain.Clamp(c.Y, 0, canvas.H)
	} else {
		v.Along = domain.Clamp(c.X, 0, canvas.W)
	}
	return v
}
