/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "sort"

// This file defines the layout model mutated by the canvas coordinator and
// persisted per user. Field names mirror the persisted record format so the
// structures serialize without an intermediate DTO.

// ZBaseline is the zCounter value of an empty (reset) layout.
const ZBaseline = 100

// WidgetType is the tag selecting a widget's renderer, default content and size.
// Unknown tags are kept verbatim so they round-trip through storage.
type WidgetType string

const (
	TypeTextbox   WidgetType = "textbox"
	TypeTodo      WidgetType = "todo"
	TypeIcon      WidgetType = "icon"
	TypeClock     WidgetType = "clock"
	TypeSentiment WidgetType = "sentiment"
	TypeExample   WidgetType = "example" // generic placeholder
)

// Widget is a single placed item on the canvas.
type Widget struct {
	ID       string     `json:"id"`
	Type     WidgetType `json:"type"`
	Position Point      `json:"position"`
	ZIndex   int        `json:"zIndex"`
	Content  string     `json:"content"` // opaque, owned by the widget's editor
}

// Layout is the full set of widgets for one user plus the z-order counter.
// Slice order carries no meaning; rendering order is ascending ZIndex.
type Layout struct {
	Widgets  []Widget `json:"widgets"`
	ZCounter int      `json:"zCounter"`
}

// Empty returns a layout with no widgets and the baseline counter.
func Empty() Layout {
	return Layout{Widgets: []Widget{}, ZCounter: ZBaseline}
}

// Clone returns a deep copy so snapshots never alias the live layout.
func (l Layout) Clone() Layout {
	out := Layout{ZCounter: l.ZCounter, Widgets: make([]Widget, len(l.Widgets))}
	copy(out.Widgets, l.Widgets)
	return out
}

// Index returns the slice index of the widget with id, or -1.
func (l Layout) Index(id string) int {
	for i := range l.Widgets {
		if l.Widgets[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a copy of the widget with id.
func (l Layout) Find(id string) (Widget, bool) {
	if i := l.Index(id); i >= 0 {
		return l.Widgets[i], true
	}
	return Widget{}, false
}

// MaxZ returns the highest ZIndex in the layout, or 0 when empty.
func (l Layout) MaxZ() int {
	m := 0
	for i, w := range l.Widgets {
		if i == 0 || w.ZIndex > m {
			m = w.ZIndex
		}
	}
	return m
}

// Stacked returns the widgets sorted by ascending ZIndex (render order).
func (l Layout) Stacked() []Widget {
	out := make([]Widget, len(l.Widgets))
	copy(out, l.Widgets)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// DefaultLayout is the seed shown to a user without a stored record.
// Seed z-indices sit directly above the baseline so the counter equals the
// highest z-index from the start.
func DefaultLayout() Layout {
	return Layout{
		Widgets: []Widget{
			{ID: "1", Type: TypeExample, Position: Point{X: 50, Y: 50}, ZIndex: ZBaseline + 1, Content: ""},
			{ID: "2", Type: TypeIcon, Position: Point{X: 400, Y: 50}, ZIndex: ZBaseline + 2, Content: "ArrowUpward"},
			{ID: "3", Type: TypeTextbox, Position: Point{X: 50, Y: 300}, ZIndex: ZBaseline + 3, Content: ""},
			{ID: "4", Type: TypeTodo, Position: Point{X: 400, Y: 300}, ZIndex: ZBaseline + 4, Content: `{"title":"Todo List","todos":[]}`},
		},
		ZCounter: ZBaseline + 4,
	}
}
