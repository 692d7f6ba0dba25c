/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"widgetboard/internal/board"
	"widgetboard/internal/boundary"
	"widgetboard/internal/canvas"
	"widgetboard/internal/dnd"
	"widgetboard/internal/domain"
	"widgetboard/internal/export"
	"widgetboard/internal/palette"
)

// Scene is what the canvas draws at one moment. Rects are canvas-local.
type Scene struct {
	Boxes     []SceneBox // in render order
	Indicator canvas.Indicator
	Ghost     palette.Ghost // client coordinates
	Origin    domain.Point  // canvas top-left in client coordinates
}

// SceneBox is one widget as drawn, including any live drag offset.
type SceneBox struct {
	Widget   domain.Widget
	Rect     domain.Rect
	Label    string
	Preview  string // first line of content
	Dragging bool
	Focused  bool
}

// BuildScene lays out st for drawing. The widget being dragged is drawn at
// its projected position; the stored position only changes on drop.
func BuildScene(b *board.Board, st canvas.State, focused string) Scene {
	var delta domain.Point
	if s, ok := b.Tracker.Active(); ok && s.Origin == dnd.OriginCanvas && s.ActiveID == st.Dragging {
		delta = s.Delta
	}
	stacked := st.Layout.Stacked()
	sc := Scene{
		Boxes:     make([]SceneBox, 0, len(stacked)),
		Indicator: st.Indicator,
		Ghost:     b.Palette.Ghost(),
		Origin:    b.Canvas.CanvasRect().Min(),
	}
	for _, w := range stacked {
		d := domain.Point{}
		drag := w.ID == st.Dragging && st.Dragging != ""
		if drag {
			d = delta
		}
		sc.Boxes = append(sc.Boxes, SceneBox{
			Widget:   w,
			Rect:     b.Monitor.Box(w, d),
			Label:    b.Registry.Lookup(w.Type).Label,
			Preview:  export.Preview(w.Content, 32),
			Dragging: drag,
			Focused:  w.ID == focused,
		})
	}
	return sc
}

// HitTest returns the topmost widget whose box contains the canvas-local
// point p.
func (s Scene) HitTest(p domain.Point) (domain.Widget, bool) {
	for i := len(s.Boxes) - 1; i >= 0; i-- {
		if s.Boxes[i].Rect.Contains(p) {
			return s.Boxes[i].Widget, true
		}
	}
	return domain.Widget{}, false
}

// IndicatorLine returns the segment marking the crossed edge, canvas-local.
func IndicatorLine(ind canvas.Indicator, size domain.Size, length float64) (from, to domain.Point, ok bool) {
	if !ind.Active {
		return domain.Point{}, domain.Point{}, false
	}
	half := length / 2
	switch ind.Edge {
	case boundary.EdgeLeft:
		return domain.Pt(0, ind.Along-half), domain.Pt(0, ind.Along+half), true
	case boundary.EdgeRight:
		return domain.Pt(size.W, ind.Along-half), domain.Pt(size.W, ind.Along+half), true
	case boundary.EdgeTop:
		return domain.Pt(ind.Along-half, 0), domain.Pt(ind.Along+half, 0), true
	case boundary.EdgeBottom:
		return domain.Pt(ind.Along-half, size.H), domain.Pt(ind.Along+half, size.H), true
	}
	return domain.Point{}, domain.Point{}, false
}

// driverKeys maps desktop key names to the names the drag input understands.
var driverKeys = map[string]string{
	"Left":     dnd.KeyLeft,
	"Right":    dnd.KeyRight,
	"Up":       dnd.KeyUp,
	"Down":     dnd.KeyDown,
	"Return":   dnd.KeyEnter,
	"KP_Enter": dnd.KeyEnter,
	"Space":    dnd.KeySpace,
	"Escape":   dnd.KeyEscape,
}

func keyName(driverName string) string { return driverKeys[driverName] }
